package config

import (
	"context"
	"io"
	"testing"

	"unicampus/internal/adapters/persistence/memory"
	"unicampus/internal/core/domain"
	"unicampus/internal/pkg/password"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestSeederCreatesAdminOnce(t *testing.T) {
	repo := memory.NewPrincipalRepository()
	hasher := password.NewHasher(4)
	seeder := NewSeeder(repo, hasher, SeedConfig{AdminEmail: " Root@U.edu", AdminPassword: "changeme"}, quietLogger())

	require.NoError(t, seeder.Run(context.Background()))
	require.NoError(t, seeder.Run(context.Background()))

	admin, err := repo.GetByEmail(context.Background(), "root@u.edu")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role())
	assert.True(t, hasher.Verify("changeme", admin.PasswordHash))

	admins, total, err := repo.ListByRole(context.Background(), domain.RoleAdmin, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, admins, 1)
}

func TestSeederSkipsWithoutCredentials(t *testing.T) {
	repo := memory.NewPrincipalRepository()
	seeder := NewSeeder(repo, password.NewHasher(4), SeedConfig{AdminEmail: "root@u.edu"}, quietLogger())

	require.NoError(t, seeder.Run(context.Background()))
	assert.Zero(t, repo.Calls())
}
