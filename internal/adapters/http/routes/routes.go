package routes

import (
	"unicampus/internal/adapters/http/handlers"
	"unicampus/internal/adapters/http/middleware"
	"unicampus/internal/config"
	"unicampus/internal/core/authz"
	"unicampus/internal/core/services"
	"unicampus/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// IdentityDeps is everything the issuing service's routes need
type IdentityDeps struct {
	Config    *config.Config
	DB        *gorm.DB
	Auth      *services.AuthService
	Users     *services.UserService
	Validator services.TokenValidator
	Gate      *authz.Gate
	Metrics   *metrics.Metrics
}

// CourseDeps is everything the course service's routes need
type CourseDeps struct {
	Config  *config.Config
	DB      *gorm.DB
	Courses *services.CourseService
	Grades  *services.GradeService
	Metrics *metrics.Metrics
}

// SetupIdentity configures the issuing service's routes
func SetupIdentity(app *fiber.App, d IdentityDeps) {
	healthHandler := handlers.NewHealthHandler(d.DB, d.Config.Database, "identity", d.Config.AppMode)
	authHandler := handlers.NewAuthHandler(d.Auth, d.Config)
	userHandler := handlers.NewUserHandler(d.Users)

	setupCommonRoutes(app, healthHandler, d.Metrics)

	apiV1 := app.Group("/api/v1")

	// Auth routes (public)
	authRoutes := apiV1.Group("/auth", middleware.NoCacheHeaders())
	setupAuthRoutes(authRoutes, authHandler)

	// Profile routes (authenticated)
	authenticate := middleware.Authenticate(d.Validator)
	apiV1.Get("/users/me", middleware.NoCacheHeaders(), authenticate, userHandler.Me)
	apiV1.Put("/users/me", middleware.NoCacheHeaders(), authenticate, userHandler.UpdateMe)
	apiV1.Get("/professors/:professorId", authenticate, middleware.Require(d.Gate, authz.Authenticated), userHandler.GetProfessor)

	// Student directory (admin or professor)
	students := apiV1.Group("/students", authenticate, middleware.AdminOrProfessor(d.Gate))
	students.Get("/", userHandler.ListStudents)
	students.Get("/:studentId", userHandler.GetStudent)

	// Admin directory (admin only)
	apiV1.Get("/admins", authenticate, middleware.AdminOnly(d.Gate), userHandler.ListAdmins)
}

// SetupCourses configures the course service's routes. Course and grade
// handlers pass the caller's token to their service, which authorizes every
// call itself.
func SetupCourses(app *fiber.App, d CourseDeps) {
	healthHandler := handlers.NewHealthHandler(d.DB, d.Config.Database, "courses", d.Config.AppMode)
	courseHandler := handlers.NewCourseHandler(d.Courses)
	gradeHandler := handlers.NewGradeHandler(d.Grades)

	setupCommonRoutes(app, healthHandler, d.Metrics)

	courses := app.Group("/api/v1/courses")
	courses.Get("/", courseHandler.List)
	courses.Get("/active", courseHandler.ListActive)
	courses.Get("/code/:courseId", courseHandler.GetByCourseID)
	courses.Get("/:id", courseHandler.Get)
	courses.Post("/", courseHandler.Create)
	courses.Put("/:id", courseHandler.Update)
	courses.Delete("/:id", courseHandler.Delete)
	courses.Patch("/:id/deactivate", courseHandler.Deactivate)

	// Static segments first so they are not taken as grade ids
	grades := app.Group("/api/v1/grades")
	grades.Get("/my-grades", gradeHandler.ListMine)
	grades.Get("/professor/my-grades", gradeHandler.ListAwarded)
	grades.Get("/student/:studentId", gradeHandler.ListByStudent)
	grades.Get("/course/:courseId", gradeHandler.ListByCourse)
	grades.Get("/", gradeHandler.List)
	grades.Get("/:id", gradeHandler.Get)
	grades.Post("/", gradeHandler.Create)
	grades.Put("/:id", gradeHandler.Update)
	grades.Delete("/:id", gradeHandler.Delete)
}

func setupCommonRoutes(app *fiber.App, healthHandler *handlers.HealthHandler, m *metrics.Metrics) {
	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	if m != nil {
		app.Get("/metrics", m.Handler())
	}
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler) {
	router.Post("/register", middleware.StrictRateLimiter(), h.Register)
	router.Post("/login", middleware.AuthRateLimiter(), h.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), h.Refresh)
	router.Get("/validate", h.Validate)
	router.Post("/logout", h.Logout)
}
