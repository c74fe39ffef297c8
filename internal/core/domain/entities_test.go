package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"STUDENT":        RoleStudent,
		"student":        RoleStudent,
		"ROLE_PROFESSOR": RoleProfessor,
		" role_admin ":   RoleAdmin,
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "USER", "ROLE_", "janitor"} {
		_, ok := ParseRole(in)
		assert.False(t, ok, in)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("ROLE_ADMIN").Valid())
	assert.False(t, Role("").Valid())
}

func TestNewRoleDetails(t *testing.T) {
	d, err := NewRoleDetails(RoleProfessor, "P7", "Physics")
	require.NoError(t, err)
	assert.Equal(t, RoleProfessor, d.Role())
	assert.Equal(t, "P7", d.RoleID())

	p := &Principal{Details: d}
	assert.Equal(t, RoleProfessor, p.Role())
	assert.Equal(t, "Physics", p.Department())

	s, err := NewRoleDetails(RoleStudent, "S1", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "", (&Principal{Details: s}).Department())

	_, err = NewRoleDetails(Role("USER"), "x", "")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestPrincipalRoleNil(t *testing.T) {
	var p *Principal
	assert.Equal(t, Role(""), p.Role())
	assert.Equal(t, Role(""), (&Principal{}).Role())
}
