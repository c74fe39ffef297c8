package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"unicampus/internal/core/authz"
	"unicampus/internal/core/domain"
)

// callerAuthorizer resolves a caller's raw token and checks it against a
// permission. Services that do not own the credential store embed it.
type callerAuthorizer struct {
	validator TokenValidator
	gate      *authz.Gate
}

// authorize resolves token and checks perm. Anything that is not a clean
// resolution is reported as unauthenticated.
func (a callerAuthorizer) authorize(ctx context.Context, token string, perm authz.Permission) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrUnauthenticated)
	}

	identity, err := a.validator.Resolve(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthenticated) {
			err = fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
		}
		return nil, err
	}
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	if err := a.gate.Authorize(identity.Role, perm); err != nil {
		return nil, err
	}
	return identity, nil
}
