// Package authz decides whether a resolved role may perform an operation.
//
// Permissions are fixed role sets, one per kind of operation. There is no
// policy language and nothing is cached: every request is decided from the
// role carried by its own token.
package authz

import (
	"fmt"
	"strings"

	"unicampus/internal/core/domain"
	"unicampus/internal/pkg/metrics"
)

// Permission is a named, finite set of roles allowed to perform an operation
type Permission struct {
	name  string
	roles map[domain.Role]struct{}
}

// NewPermission builds a permission from the roles it admits
func NewPermission(name string, roles ...domain.Role) Permission {
	set := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return Permission{name: name, roles: set}
}

// Name returns the permission label used in logs and metrics
func (p Permission) Name() string {
	return p.name
}

// Allows reports whether role is a member of the permission's role set
func (p Permission) Allows(role domain.Role) bool {
	_, ok := p.roles[role]
	return ok
}

func (p Permission) String() string {
	roles := make([]string, 0, len(p.roles))
	for _, r := range []domain.Role{domain.RoleStudent, domain.RoleProfessor, domain.RoleAdmin} {
		if p.Allows(r) {
			roles = append(roles, string(r))
		}
	}
	return fmt.Sprintf("%s[%s]", p.name, strings.Join(roles, ","))
}

var (
	Authenticated    = NewPermission("authenticated", domain.RoleStudent, domain.RoleProfessor, domain.RoleAdmin)
	AdminOnly        = NewPermission("admin-only", domain.RoleAdmin)
	ProfessorOnly    = NewPermission("professor-only", domain.RoleProfessor)
	StudentOnly      = NewPermission("student-only", domain.RoleStudent)
	AdminOrProfessor = NewPermission("admin-or-professor", domain.RoleAdmin, domain.RoleProfessor)
	AdminOrStudent   = NewPermission("admin-or-student", domain.RoleAdmin, domain.RoleStudent)
)

// Decision is the outcome of a single authorization check
type Decision struct {
	Allowed      bool
	DeniedReason string
}

// Gate evaluates permissions and records every decision
type Gate struct {
	metrics *metrics.Metrics
}

// NewGate creates a gate. m may be nil.
func NewGate(m *metrics.Metrics) *Gate {
	return &Gate{metrics: m}
}

// Decide evaluates perm for role. Unknown or empty roles are always denied.
func (g *Gate) Decide(role domain.Role, perm Permission) Decision {
	d := Decision{Allowed: true}
	switch {
	case !role.Valid():
		d = Decision{DeniedReason: "role is not recognised"}
	case !perm.Allows(role):
		d = Decision{DeniedReason: fmt.Sprintf("role %s is not permitted for %s", role, perm.Name())}
	}
	g.metrics.Authorization(perm.Name(), d.Allowed)
	return d
}

// Authorize returns nil when allowed and an error wrapping domain.ErrForbidden otherwise
func (g *Gate) Authorize(role domain.Role, perm Permission) error {
	d := g.Decide(role, perm)
	if !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrForbidden, d.DeniedReason)
	}
	return nil
}
