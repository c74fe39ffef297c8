package models

import (
	"testing"

	"unicampus/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalRoundTripKeepsVariant(t *testing.T) {
	p := &domain.Principal{
		ID:      "id-1",
		Email:   "prof@u.edu",
		Details: domain.ProfessorDetails{ProfessorID: "P1", Department: "Math"},
	}

	row := PrincipalFromDomain(p)
	assert.Equal(t, "PROFESSOR", row.Role)
	assert.Equal(t, "P1", row.RoleID)
	assert.Equal(t, "Math", row.Department)

	back, err := row.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, p.Details, back.Details)
}

func TestPrincipalToDomainRejectsUnknownRole(t *testing.T) {
	_, err := (&Principal{Role: "USER"}).ToDomain()
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}
