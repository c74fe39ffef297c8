package routes

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"unicampus/internal/adapters/http/middleware"
	"unicampus/internal/adapters/persistence/memory"
	"unicampus/internal/adapters/validator"
	"unicampus/internal/config"
	"unicampus/internal/core/authz"
	"unicampus/internal/core/services"
	"unicampus/internal/pkg/jwt"
	"unicampus/internal/pkg/metrics"
	"unicampus/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:     testSecret,
			Issuer:     "unicampus-identity",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: time.Hour,
		},
		Cookie: config.CookieConfig{SameSite: "Lax"},
	}
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func testCodec(t *testing.T) *jwt.Codec {
	t.Helper()
	codec, err := jwt.NewCodec(testSecret, "unicampus-identity")
	require.NoError(t, err)
	return codec
}

func newIdentityApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := testConfig()
	codec := testCodec(t)
	m := metrics.New(prometheus.NewRegistry())
	principals := memory.NewPrincipalRepository()

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(testLogger())})
	SetupIdentity(app, IdentityDeps{
		Config: cfg,
		Auth: services.NewAuthService(principals, codec, password.NewHasher(4),
			services.TokenSettings{AccessTTL: cfg.JWT.AccessTTL, RefreshTTL: cfg.JWT.RefreshTTL}, m, testLogger()),
		Users:     services.NewUserService(principals),
		Validator: validator.NewLocal(codec, m),
		Gate:      authz.NewGate(m),
		Metrics:   m,
	})
	return app
}

func newCourseApp(t *testing.T, v services.TokenValidator) *fiber.App {
	t.Helper()
	gate := authz.NewGate(nil)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(testLogger())})
	SetupCourses(app, CourseDeps{
		Config:  testConfig(),
		Courses: services.NewCourseService(memory.NewCourseRepository(), v, gate, testLogger()),
		Grades:  services.NewGradeService(memory.NewGradeRepository(), v, gate, testLogger()),
	})
	return app
}

func issuer(t *testing.T, codec *jwt.Codec) func(role string) string {
	return func(role string) string {
		t.Helper()
		token, _, err := codec.Issue(jwt.Subject{ID: "u-" + role, Role: role}, jwt.PurposeAccess, time.Minute)
		require.NoError(t, err)
		return token
	}
}

type call struct {
	method string
	path   string
	token  string
	body   string
}

func send(t *testing.T, app *fiber.App, c call) (int, []byte) {
	t.Helper()
	var body io.Reader
	if c.body != "" {
		body = strings.NewReader(c.body)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	if c.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decodeAuth(t *testing.T, body []byte) services.AuthResult {
	t.Helper()
	var res services.AuthResult
	require.NoError(t, json.Unmarshal(body, &res))
	return res
}

func TestIdentityAuthFlow(t *testing.T) {
	app := newIdentityApp(t)

	status, body := send(t, app, call{method: http.MethodPost, path: "/api/v1/auth/register",
		body: `{"email":"a@u.edu","password":"p1","role":"STUDENT","studentId":"S1"}`})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	registered := decodeAuth(t, body)
	assert.Equal(t, "STUDENT", string(registered.Role))

	status, body = send(t, app, call{method: http.MethodPost, path: "/api/v1/auth/login",
		body: `{"email":"a@u.edu","password":"p1"}`})
	require.Equal(t, fiber.StatusOK, status, string(body))
	loggedIn := decodeAuth(t, body)

	status, body = send(t, app, call{method: http.MethodGet, path: "/api/v1/auth/validate?token=" + loggedIn.Token})
	require.Equal(t, fiber.StatusOK, status, string(body))
	validated := decodeAuth(t, body)
	assert.Equal(t, registered.UserID, validated.UserID)
	assert.Empty(t, validated.RefreshToken)

	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/auth/validate?token=" + loggedIn.Token + "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = send(t, app, call{method: http.MethodPost, path: "/api/v1/auth/refresh", token: loggedIn.RefreshToken})
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.NotEmpty(t, decodeAuth(t, body).RefreshToken)

	status, _ = send(t, app, call{method: http.MethodPost, path: "/api/v1/auth/refresh", token: loggedIn.Token})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = send(t, app, call{method: http.MethodPost, path: "/api/v1/auth/login",
		body: `{"email":"a@u.edu","password":"wrong"}`})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = send(t, app, call{method: http.MethodPost, path: "/api/v1/auth/register",
		body: `{"email":"a@u.edu","password":"p1","role":"ADMIN"}`})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestIdentityProfileRoutes(t *testing.T) {
	app := newIdentityApp(t)

	_, body := send(t, app, call{method: http.MethodPost, path: "/api/v1/auth/register",
		body: `{"email":"s@u.edu","password":"p1","role":"STUDENT","studentId":"S1"}`})
	student := decodeAuth(t, body)
	_, body = send(t, app, call{method: http.MethodPost, path: "/api/v1/auth/register",
		body: `{"email":"p@u.edu","password":"p1","role":"ROLE_PROFESSOR","professorId":"P1","department":"CS"}`})
	professor := decodeAuth(t, body)

	status, body := send(t, app, call{method: http.MethodGet, path: "/api/v1/users/me", token: student.Token})
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"studentId":"S1"`)

	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/users/me"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/students", token: student.Token})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = send(t, app, call{method: http.MethodGet, path: "/api/v1/students", token: professor.Token})
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"total":1`)

	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/students/S1", token: professor.Token})
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/professors/P1", token: student.Token})
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/admins", token: professor.Token})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = send(t, app, call{method: http.MethodPut, path: "/api/v1/users/me", token: professor.Token,
		body: `{"lastName":"Hopper"}`})
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"lastName":"Hopper"`)

	status, _ = send(t, app, call{method: http.MethodGet, path: "/metrics"})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestHealthOnMemoryStore(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = config.DriverMemory
	app := fiber.New()
	SetupCourses(app, CourseDeps{Config: cfg})

	status, body := send(t, app, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"database":"memory"`)
}

func TestHealthWithoutDatabase(t *testing.T) {
	app := newIdentityApp(t)

	status, body := send(t, app, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, string(body), `"database":"unhealthy"`)
}

func TestCourseRoutesWithLocalValidator(t *testing.T) {
	codec := testCodec(t)
	app := newCourseApp(t, validator.NewLocal(codec, nil))

	issue := issuer(t, codec)
	admin, student := issue("ADMIN"), issue("STUDENT")
	course := `{"courseId":"MATH101","courseName":"Algebra","credits":3,"timeSlots":[{"dayOfWeek":"MONDAY","startTime":"09:00","endTime":"10:30","room":"A1"}]}`

	status, _ := send(t, app, call{method: http.MethodGet, path: "/api/v1/courses"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = send(t, app, call{method: http.MethodPost, path: "/api/v1/courses", token: student, body: course})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := send(t, app, call{method: http.MethodPost, path: "/api/v1/courses", token: admin, body: course})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var created struct {
		Data services.CourseResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))

	status, _ = send(t, app, call{method: http.MethodPost, path: "/api/v1/courses", token: admin, body: course})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = send(t, app, call{method: http.MethodGet, path: "/api/v1/courses/code/MATH101", token: student})
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"room":"A1"`)

	status, _ = send(t, app, call{method: http.MethodPatch, path: "/api/v1/courses/" + created.Data.ID + "/deactivate", token: admin})
	require.Equal(t, fiber.StatusOK, status)

	status, body = send(t, app, call{method: http.MethodGet, path: "/api/v1/courses/active", token: student})
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"total":0`)

	status, _ = send(t, app, call{method: http.MethodDelete, path: "/api/v1/courses/" + created.Data.ID, token: student})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = send(t, app, call{method: http.MethodDelete, path: "/api/v1/courses/" + created.Data.ID, token: admin})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/courses/" + created.Data.ID, token: student})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCourseRoutesWithDelegatedValidator(t *testing.T) {
	identity := newIdentityApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = identity.Listener(ln) }()
	t.Cleanup(func() { _ = identity.Shutdown() })

	issuerURL := "http://" + ln.Addr().String() + "/api/v1"
	app := newCourseApp(t, validator.NewDelegated(issuerURL, 2*time.Second, nil))

	_, body := send(t, identity, call{method: http.MethodPost, path: "/api/v1/auth/register",
		body: `{"email":"root@u.edu","password":"p1","role":"ADMIN","adminId":"A1"}`})
	admin := decodeAuth(t, body)

	status, body := send(t, app, call{method: http.MethodPost, path: "/api/v1/courses", token: admin.Token,
		body: `{"courseId":"CS101","courseName":"Intro"}`})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/courses", token: admin.RefreshToken})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/courses", token: "garbage"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	expired, _, err := testCodec(t).Issue(jwt.Subject{ID: admin.UserID, Email: "root@u.edu", Role: "ADMIN"}, jwt.PurposeAccess, -time.Minute)
	require.NoError(t, err)
	local := newCourseApp(t, validator.NewLocal(testCodec(t), nil))
	for name, courseApp := range map[string]*fiber.App{"delegated": app, "local": local} {
		status, _ = send(t, courseApp, call{method: http.MethodGet, path: "/api/v1/courses", token: expired})
		assert.Equal(t, fiber.StatusUnauthorized, status, name)
	}
}

func TestGradeRoutesWithLocalValidator(t *testing.T) {
	issue := issuer(t, testCodec(t))
	app := newCourseApp(t, validator.NewLocal(testCodec(t), nil))
	admin, professor, student := issue("ADMIN"), issue("PROFESSOR"), issue("STUDENT")
	grade := `{"studentId":"u-STUDENT","studentName":"Ada","courseId":"MATH101","courseName":"Algebra","grade":87.5,"semester":"2026-S1"}`

	// Writes: professor only
	for _, token := range []string{student, admin} {
		status, _ := send(t, app, call{method: http.MethodPost, path: "/api/v1/grades", token: token, body: grade})
		assert.Equal(t, fiber.StatusForbidden, status)
	}
	status, body := send(t, app, call{method: http.MethodPost, path: "/api/v1/grades", token: professor, body: grade})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var created struct {
		Data services.GradeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "u-PROFESSOR", created.Data.ProfessorID)

	status, _ = send(t, app, call{method: http.MethodPost, path: "/api/v1/grades", token: professor,
		body: `{"studentId":"u-STUDENT","courseId":"MATH101","grade":120}`})
	assert.Equal(t, fiber.StatusBadRequest, status)

	// Reads: admin or student
	for _, path := range []string{"/api/v1/grades", "/api/v1/grades/" + created.Data.ID, "/api/v1/grades/student/u-STUDENT", "/api/v1/grades/course/MATH101"} {
		status, _ = send(t, app, call{method: http.MethodGet, path: path, token: student})
		assert.Equal(t, fiber.StatusOK, status, path)
		status, _ = send(t, app, call{method: http.MethodGet, path: path, token: admin})
		assert.Equal(t, fiber.StatusOK, status, path)
		status, _ = send(t, app, call{method: http.MethodGet, path: path, token: professor})
		assert.Equal(t, fiber.StatusForbidden, status, path)
	}

	status, body = send(t, app, call{method: http.MethodGet, path: "/api/v1/grades/my-grades", token: student})
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"total":1`)
	for _, token := range []string{admin, professor} {
		status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/grades/my-grades", token: token})
		assert.Equal(t, fiber.StatusForbidden, status)
	}

	status, body = send(t, app, call{method: http.MethodGet, path: "/api/v1/grades/professor/my-grades", token: professor})
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"total":1`)
	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/grades/professor/my-grades", token: student})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = send(t, app, call{method: http.MethodPut, path: "/api/v1/grades/" + created.Data.ID, token: professor, body: `{"grade":92}`})
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Contains(t, string(body), `"grade":92`)
	status, _ = send(t, app, call{method: http.MethodPut, path: "/api/v1/grades/" + created.Data.ID, token: student, body: `{"grade":100}`})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = send(t, app, call{method: http.MethodDelete, path: "/api/v1/grades/" + created.Data.ID, token: student})
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = send(t, app, call{method: http.MethodDelete, path: "/api/v1/grades/" + created.Data.ID, token: professor})
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/grades/" + created.Data.ID, token: student})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/grades"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestGradeRoutesWithDelegatedValidator(t *testing.T) {
	identity := newIdentityApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = identity.Listener(ln) }()
	t.Cleanup(func() { _ = identity.Shutdown() })

	app := newCourseApp(t, validator.NewDelegated("http://"+ln.Addr().String()+"/api/v1", 2*time.Second, nil))

	_, body := send(t, identity, call{method: http.MethodPost, path: "/api/v1/auth/register",
		body: `{"email":"s@u.edu","password":"p1","role":"STUDENT","studentId":"S1"}`})
	student := decodeAuth(t, body)
	_, body = send(t, identity, call{method: http.MethodPost, path: "/api/v1/auth/register",
		body: `{"email":"p@u.edu","password":"p1","role":"PROFESSOR","professorId":"P1","firstName":"Max","lastName":"Planck"}`})
	professor := decodeAuth(t, body)

	status, body := send(t, app, call{method: http.MethodPost, path: "/api/v1/grades", token: professor.Token,
		body: `{"studentId":"` + student.UserID + `","courseId":"PHYS101","grade":75}`})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	assert.Contains(t, string(body), `"professorName":"Max Planck"`)

	status, _ = send(t, app, call{method: http.MethodPost, path: "/api/v1/grades", token: student.Token,
		body: `{"studentId":"` + student.UserID + `","courseId":"PHYS101","grade":100}`})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = send(t, app, call{method: http.MethodGet, path: "/api/v1/grades/my-grades", token: student.Token})
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Contains(t, string(body), `"total":1`)

	status, _ = send(t, app, call{method: http.MethodGet, path: "/api/v1/grades", token: professor.Token})
	assert.Equal(t, fiber.StatusForbidden, status)
}
