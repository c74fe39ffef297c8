package services

import (
	"context"

	"unicampus/internal/core/domain"
)

// TokenValidator resolves an access token to the identity it was issued for.
// Every failure (bad token, unreachable issuer, unexpected error) is returned
// as an error wrapping domain.ErrUnauthenticated; a nil error always carries
// an identity with a recognised role.
type TokenValidator interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
	Strategy() string
}
