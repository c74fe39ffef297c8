package services

import (
	"io"
	"testing"
	"time"

	"unicampus/internal/adapters/persistence/memory"
	"unicampus/internal/pkg/jwt"
	"unicampus/internal/pkg/password"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func testCodec(t *testing.T) *jwt.Codec {
	t.Helper()
	c, err := jwt.NewCodec(testSecret, "unicampus-identity")
	require.NoError(t, err)
	return c
}

func newTestAuthService(t *testing.T) (*AuthService, *memory.PrincipalRepository) {
	t.Helper()
	repo := memory.NewPrincipalRepository()
	svc := NewAuthService(
		repo,
		testCodec(t),
		password.NewHasher(4),
		TokenSettings{AccessTTL: 15 * time.Minute, RefreshTTL: time.Hour},
		nil,
		testLogger(),
	)
	return svc, repo
}
