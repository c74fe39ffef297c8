package services

import (
	"context"
	"errors"
	"testing"

	"unicampus/internal/adapters/persistence/memory"
	"unicampus/internal/core/authz"
	"unicampus/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubValidator maps fixed tokens to roles
type stubValidator map[string]domain.Role

func (s stubValidator) Strategy() string { return "stub" }

func (s stubValidator) Resolve(_ context.Context, token string) (*domain.Identity, error) {
	role, ok := s[token]
	if !ok {
		return nil, errors.New("issuer unreachable")
	}
	return &domain.Identity{Subject: token, UserID: token, Role: role}, nil
}

var tokens = stubValidator{
	"admin":     domain.RoleAdmin,
	"professor": domain.RoleProfessor,
	"student":   domain.RoleStudent,
}

func newTestCourseService() (*CourseService, *memory.CourseRepository) {
	repo := memory.NewCourseRepository()
	return NewCourseService(repo, tokens, authz.NewGate(nil), testLogger()), repo
}

func algebra() *CourseInput {
	return &CourseInput{
		CourseID:    "MATH101",
		CourseName:  "Algebra",
		Credits:     3,
		MaxStudents: 30,
		TimeSlots:   []domain.TimeSlot{{DayOfWeek: "MONDAY", StartTime: "09:00", EndTime: "10:30", Room: "A1"}},
	}
}

func TestCourseLifecycle(t *testing.T) {
	svc, _ := newTestCourseService()
	ctx := context.Background()

	created, err := svc.CreateCourse(ctx, "admin", algebra())
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.NotEmpty(t, created.ID)

	got, err := svc.GetCourseByCourseID(ctx, "student", "MATH101")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, got.TimeSlots, 1)

	in := algebra()
	in.CourseName = "Linear Algebra"
	updated, err := svc.UpdateCourse(ctx, "admin", created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", updated.CourseName)

	_, err = svc.DeactivateCourse(ctx, "admin", created.ID)
	require.NoError(t, err)

	active, total, err := svc.ListActiveCourses(ctx, "professor", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Zero(t, total)

	all, total, err := svc.ListCourses(ctx, "professor", 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, int64(1), total)

	require.NoError(t, svc.DeleteCourse(ctx, "admin", created.ID))
	_, err = svc.GetCourse(ctx, "student", created.ID)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestCreateCourseDuplicate(t *testing.T) {
	svc, _ := newTestCourseService()
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, "admin", algebra())
	require.NoError(t, err)
	_, err = svc.CreateCourse(ctx, "admin", algebra())
	assert.ErrorIs(t, err, domain.ErrDuplicateCourse)
}

func TestCreateCourseValidatesInput(t *testing.T) {
	svc, _ := newTestCourseService()

	in := algebra()
	in.CourseID = " "
	_, err := svc.CreateCourse(context.Background(), "admin", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = algebra()
	in.Credits = -1
	_, err = svc.CreateCourse(context.Background(), "admin", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdminOperationsAreGatedBeforeStoreAccess(t *testing.T) {
	for _, token := range []string{"student", "professor"} {
		t.Run(token, func(t *testing.T) {
			svc, repo := newTestCourseService()
			ctx := context.Background()

			_, err := svc.CreateCourse(ctx, token, algebra())
			assert.ErrorIs(t, err, domain.ErrForbidden)
			_, err = svc.UpdateCourse(ctx, token, "x", algebra())
			assert.ErrorIs(t, err, domain.ErrForbidden)
			assert.ErrorIs(t, svc.DeleteCourse(ctx, token, "x"), domain.ErrForbidden)
			_, err = svc.DeactivateCourse(ctx, token, "x")
			assert.ErrorIs(t, err, domain.ErrForbidden)

			assert.Zero(t, repo.Calls())
		})
	}
}

func TestUnauthenticatedCallers(t *testing.T) {
	svc, repo := newTestCourseService()
	ctx := context.Background()

	for _, token := range []string{"", "  ", "unknown"} {
		_, _, err := svc.ListCourses(ctx, token, 0, 10)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.NotErrorIs(t, err, domain.ErrForbidden)

		_, err = svc.CreateCourse(ctx, token, algebra())
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	}
	assert.Zero(t, repo.Calls())
}

func TestUpdateCourseRejectsTakenCourseID(t *testing.T) {
	svc, _ := newTestCourseService()
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, "admin", algebra())
	require.NoError(t, err)
	other := algebra()
	other.CourseID = "PHYS101"
	created, err := svc.CreateCourse(ctx, "admin", other)
	require.NoError(t, err)

	_, err = svc.UpdateCourse(ctx, "admin", created.ID, algebra())
	assert.ErrorIs(t, err, domain.ErrDuplicateCourse)
}
