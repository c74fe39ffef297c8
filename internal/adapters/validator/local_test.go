package validator

import (
	"context"
	"testing"
	"time"

	"unicampus/internal/core/domain"
	"unicampus/internal/pkg/jwt"
	"unicampus/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newCodec(t *testing.T) *jwt.Codec {
	t.Helper()
	c, err := jwt.NewCodec(testSecret, "unicampus-identity")
	require.NoError(t, err)
	return c
}

func issue(t *testing.T, c *jwt.Codec, role string, purpose jwt.Purpose, ttl time.Duration) string {
	t.Helper()
	token, _, err := c.Issue(jwt.Subject{ID: "u-1", Email: "a@u.edu", Role: role, FirstName: "Ada"}, purpose, ttl)
	require.NoError(t, err)
	return token
}

func TestLocalResolvesAccessToken(t *testing.T) {
	codec := newCodec(t)
	v := NewLocal(codec, nil)

	identity, err := v.Resolve(context.Background(), issue(t, codec, "STUDENT", jwt.PurposeAccess, time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, identity.Role)
	assert.Equal(t, "u-1", identity.UserID)
	assert.Equal(t, "a@u.edu", identity.Email)
	assert.Equal(t, "Ada", identity.FirstName)
	assert.Equal(t, StrategyLocal, v.Strategy())
}

func TestLocalRejects(t *testing.T) {
	codec := newCodec(t)
	other, err := jwt.NewCodec([]byte("ffffffffffffffffffffffffffffffff"), "unicampus-identity")
	require.NoError(t, err)

	valid := issue(t, codec, "ADMIN", jwt.PurposeAccess, time.Minute)
	tampered := valid[:len(valid)-10] + "AAAAAAAAAA"
	if tampered == valid {
		tampered = valid[:len(valid)-10] + "BBBBBBBBBB"
	}

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"expired":        issue(t, codec, "ADMIN", jwt.PurposeAccess, -time.Minute),
		"refresh token":  issue(t, codec, "ADMIN", jwt.PurposeRefresh, time.Hour),
		"foreign secret": issue(t, other, "ADMIN", jwt.PurposeAccess, time.Minute),
		"tampered":       tampered,
		"unknown role":   issue(t, codec, "JANITOR", jwt.PurposeAccess, time.Minute),
	}

	v := NewLocal(codec, nil)
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			identity, err := v.Resolve(context.Background(), token)
			assert.Nil(t, identity)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestLocalRecordsMetrics(t *testing.T) {
	codec := newCodec(t)
	m := metrics.New(prometheus.NewRegistry())
	v := NewLocal(codec, m)

	_, _ = v.Resolve(context.Background(), issue(t, codec, "PROFESSOR", jwt.PurposeAccess, time.Minute))
	_, _ = v.Resolve(context.Background(), "bad")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenValidationsTotal.WithLabelValues(StrategyLocal, metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenValidationsTotal.WithLabelValues(StrategyLocal, metrics.OutcomeFailure)))
}
