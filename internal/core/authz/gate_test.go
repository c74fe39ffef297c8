package authz

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"unicampus/internal/core/domain"
	"unicampus/internal/pkg/metrics"
)

func TestStudentDeniedOnAdminOnly(t *testing.T) {
	g := NewGate(nil)

	err := g.Authorize(domain.RoleStudent, AdminOnly)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.NotErrorIs(t, err, domain.ErrUnauthenticated)

	assert.NoError(t, g.Authorize(domain.RoleStudent, StudentOnly))
}

func TestAdminAllowedWhereverAdminIsListed(t *testing.T) {
	g := NewGate(nil)
	for _, p := range []Permission{Authenticated, AdminOnly, AdminOrProfessor, AdminOrStudent} {
		assert.NoError(t, g.Authorize(domain.RoleAdmin, p), p.String())
	}
	assert.ErrorIs(t, g.Authorize(domain.RoleAdmin, StudentOnly), domain.ErrForbidden)
	assert.ErrorIs(t, g.Authorize(domain.RoleAdmin, ProfessorOnly), domain.ErrForbidden)
}

func TestDecisionTable(t *testing.T) {
	g := NewGate(nil)
	tests := []struct {
		role    domain.Role
		perm    Permission
		allowed bool
	}{
		{domain.RoleStudent, Authenticated, true},
		{domain.RoleProfessor, Authenticated, true},
		{domain.RoleProfessor, AdminOrProfessor, true},
		{domain.RoleStudent, AdminOrProfessor, false},
		{domain.RoleStudent, AdminOrStudent, true},
		{domain.RoleProfessor, AdminOrStudent, false},
		{domain.RoleProfessor, ProfessorOnly, true},
		{domain.RoleStudent, ProfessorOnly, false},
		{domain.Role(""), Authenticated, false},
		{domain.Role("ROLE_ADMIN"), AdminOnly, false},
		{domain.Role("USER"), Authenticated, false},
	}
	for _, tt := range tests {
		d := g.Decide(tt.role, tt.perm)
		assert.Equal(t, tt.allowed, d.Allowed, "%s on %s", tt.role, tt.perm.Name())
		if !tt.allowed {
			assert.NotEmpty(t, d.DeniedReason)
		}
	}
}

func TestGateRecordsDecisions(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	g := NewGate(m)

	g.Decide(domain.RoleStudent, AdminOnly)
	g.Decide(domain.RoleAdmin, AdminOnly)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthorizationDecisions.WithLabelValues("admin-only", metrics.OutcomeDenied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthorizationDecisions.WithLabelValues("admin-only", metrics.OutcomeAllowed)))
}

func TestPermissionString(t *testing.T) {
	assert.Equal(t, "admin-or-professor[PROFESSOR,ADMIN]", AdminOrProfessor.String())
}
