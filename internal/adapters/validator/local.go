// Package validator resolves bearer tokens to identities for services that
// do not own the credential store.
package validator

import (
	"context"
	"fmt"

	"unicampus/internal/core/domain"
	"unicampus/internal/pkg/jwt"
	"unicampus/internal/pkg/metrics"
)

// Local checks tokens in-process. It needs the same secret and issuer as the
// identity service and makes no network calls.
type Local struct {
	codec   *jwt.Codec
	metrics *metrics.Metrics
}

// NewLocal creates a local validator
func NewLocal(codec *jwt.Codec, m *metrics.Metrics) *Local {
	return &Local{codec: codec, metrics: m}
}

// Strategy returns "local"
func (v *Local) Strategy() string { return StrategyLocal }

// Resolve parses an access token. Refresh tokens are rejected.
func (v *Local) Resolve(_ context.Context, token string) (identity *domain.Identity, err error) {
	defer func() { v.metrics.TokenValidation(StrategyLocal, err) }()

	claims, err := v.codec.Parse(token, jwt.PurposeAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognised role %q", domain.ErrUnauthenticated, claims.Role)
	}

	return &domain.Identity{
		Subject:   claims.Subject,
		UserID:    claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      role,
	}, nil
}
