package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"unicampus/internal/adapters/persistence/repositories"
	"unicampus/internal/core/domain"
	"unicampus/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Seeder creates the bootstrap administrator in development
type Seeder struct {
	principals repositories.PrincipalRepository
	hasher     *password.Hasher
	cfg        SeedConfig
	log        *logrus.Entry
}

// NewSeeder creates a new seeder instance
func NewSeeder(principals repositories.PrincipalRepository, hasher *password.Hasher, cfg SeedConfig, log *logrus.Entry) *Seeder {
	return &Seeder{principals: principals, hasher: hasher, cfg: cfg, log: log}
}

// Run seeds the admin when SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are set.
// An existing principal with that email is left untouched.
func (s *Seeder) Run(ctx context.Context) error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		s.log.Debug("admin seed skipped: SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(s.cfg.AdminEmail))
	exists, err := s.principals.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check seed admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := s.hasher.Hash(s.cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &domain.Principal{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "System",
		LastName:     "Administrator",
		Details:      domain.AdminDetails{AdminID: "ADMIN001"},
	}
	if err := s.principals.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil
		}
		return err
	}

	s.log.WithField("email", admin.Email).Info("✅ Seed admin created")
	return nil
}
