package services

import (
	"context"
	"testing"

	"unicampus/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserServiceProfiles(t *testing.T) {
	auth, repo := newTestAuthService(t)
	users := NewUserService(repo)
	ctx := context.Background()

	student, err := auth.Register(ctx, studentInput())
	require.NoError(t, err)
	_, err = auth.Register(ctx, &RegisterInput{Email: "b@u.edu", Password: "x", Role: "STUDENT", StudentID: "S2"})
	require.NoError(t, err)
	_, err = auth.Register(ctx, &RegisterInput{Email: "p@u.edu", Password: "x", Role: "PROFESSOR", ProfessorID: "P1", Department: "Math"})
	require.NoError(t, err)

	profile, err := users.GetProfile(ctx, student.UserID)
	require.NoError(t, err)
	assert.Equal(t, "S1", profile.StudentID)
	assert.Empty(t, profile.ProfessorID)
	assert.Equal(t, domain.RoleStudent, profile.Role)

	byRole, err := users.GetByRoleID(ctx, domain.RoleProfessor, "P1")
	require.NoError(t, err)
	assert.Equal(t, "Math", byRole.Department)

	_, err = users.GetByRoleID(ctx, domain.RoleStudent, "P1")
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)

	list, total, err := users.ListByRole(ctx, domain.RoleStudent, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
}

func TestUserServiceUpdateProfile(t *testing.T) {
	auth, repo := newTestAuthService(t)
	users := NewUserService(repo)
	ctx := context.Background()

	prof, err := auth.Register(ctx, &RegisterInput{Email: "p@u.edu", Password: "x", Role: "PROFESSOR", ProfessorID: "P1", Department: "Math"})
	require.NoError(t, err)

	updated, err := users.UpdateProfile(ctx, prof.UserID, &UpdateProfileInput{
		FirstName:  strPtr(" Grace "),
		Department: strPtr("CS"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FirstName)
	assert.Equal(t, "CS", updated.Department)
	assert.Equal(t, "P1", updated.ProfessorID)

	student, err := auth.Register(ctx, studentInput())
	require.NoError(t, err)
	_, err = users.UpdateProfile(ctx, student.UserID, &UpdateProfileInput{Department: strPtr("CS")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = users.UpdateProfile(ctx, "missing", &UpdateProfileInput{})
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)
}
