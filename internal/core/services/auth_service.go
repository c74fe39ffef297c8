package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"unicampus/internal/adapters/persistence/repositories"
	"unicampus/internal/core/domain"
	"unicampus/internal/pkg/jwt"
	"unicampus/internal/pkg/metrics"
	"unicampus/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Operation names used in logs and metrics
const (
	OpRegister = "register"
	OpLogin    = "login"
	OpRefresh  = "refresh"
	OpValidate = "validate"
)

// TokenSettings holds token lifetimes
type TokenSettings struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthService issues and checks tokens against the credential store.
// It keeps no state between calls; old refresh tokens are not revoked and
// stay valid until they expire.
type AuthService struct {
	principals repositories.PrincipalRepository
	codec      *jwt.Codec
	hasher     *password.Hasher
	tokens     TokenSettings
	metrics    *metrics.Metrics
	log        *logrus.Entry
}

// NewAuthService creates a new auth service
func NewAuthService(
	principals repositories.PrincipalRepository,
	codec *jwt.Codec,
	hasher *password.Hasher,
	tokens TokenSettings,
	m *metrics.Metrics,
	log *logrus.Entry,
) *AuthService {
	return &AuthService{
		principals: principals,
		codec:      codec,
		hasher:     hasher,
		tokens:     tokens,
		metrics:    m,
		log:        log,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	StudentID   string `json:"studentId"`
	ProfessorID string `json:"professorId"`
	AdminID     string `json:"adminId"`
	Department  string `json:"department"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by register, login, refresh and validate. RefreshToken
// is empty on validate. The JSON shape is what delegated validators consume.
type AuthResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	Email        string      `json:"email"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Role         domain.Role `json:"role"`
	UserID       string      `json:"userId"`
}

// Register creates a principal of the requested role and issues a token pair
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (result *AuthResult, err error) {
	defer func() { s.record(OpRegister, err) }()

	email := normalizeEmail(input.Email)
	if addr, perr := mail.ParseAddress(email); perr != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: email is invalid", domain.ErrInvalidInput)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, input.Role)
	}

	details, err := domain.NewRoleDetails(role, roleSpecificID(role, input), strings.TrimSpace(input.Department))
	if err != nil {
		return nil, err
	}

	exists, err := s.principals.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: check email: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	principal := &domain.Principal{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Details:      details,
	}

	// The unique index decides concurrent registrations of the same email.
	if err := s.principals.Create(ctx, principal); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("register: save principal: %w", err)
	}

	result, err = s.issuePair(principal)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": principal.ID, "role": role}).Info("✅ Principal registered")
	return result, nil
}

// Login verifies credentials and issues a fresh token pair
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (result *AuthResult, err error) {
	defer func() { s.record(OpLogin, err) }()

	principal, err := s.principals.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(input.Password, principal.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	result, err = s.issuePair(principal)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", principal.ID).Info("✅ Principal logged in")
	return result, nil
}

// Refresh exchanges a refresh token for a brand-new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (result *AuthResult, err error) {
	defer func() { s.record(OpRefresh, err) }()

	principal, err := s.resolve(ctx, refreshToken, jwt.PurposeRefresh)
	if err != nil {
		return nil, err
	}

	result, err = s.issuePair(principal)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", principal.ID).Debug("Token pair refreshed")
	return result, nil
}

// Validate checks an access token and returns the identity bound to it
func (s *AuthService) Validate(ctx context.Context, accessToken string) (result *AuthResult, err error) {
	defer func() { s.record(OpValidate, err) }()

	principal, err := s.resolve(ctx, accessToken, jwt.PurposeAccess)
	if err != nil {
		return nil, err
	}

	result = newAuthResult(principal)
	result.Token = accessToken
	return result, nil
}

// resolve parses token for purpose and loads the principal it names.
// Store failures are reported as errors but never as a resolved principal.
func (s *AuthService) resolve(ctx context.Context, token string, purpose jwt.Purpose) (*domain.Principal, error) {
	claims, err := s.codec.Parse(token, purpose)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	principal, err := s.principals.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, fmt.Errorf("%w: subject no longer exists", domain.ErrInvalidToken)
		}
		return nil, fmt.Errorf("%s: load principal: %w", purpose, err)
	}

	if string(principal.Role()) != claims.Role {
		return nil, fmt.Errorf("%w: role does not match subject", domain.ErrInvalidToken)
	}
	return principal, nil
}

func (s *AuthService) issuePair(principal *domain.Principal) (*AuthResult, error) {
	subject := jwt.Subject{
		ID:        principal.ID,
		Email:     principal.Email,
		Role:      string(principal.Role()),
		FirstName: principal.FirstName,
		LastName:  principal.LastName,
	}

	access, _, err := s.codec.Issue(subject, jwt.PurposeAccess, s.tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, _, err := s.codec.Issue(subject, jwt.PurposeRefresh, s.tokens.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	result := newAuthResult(principal)
	result.Token = access
	result.RefreshToken = refresh
	return result, nil
}

func (s *AuthService) record(operation string, err error) {
	s.metrics.AuthOperation(operation, err)
	if err != nil && !isClientError(err) {
		s.log.WithError(err).WithField("operation", operation).Error("❌ Auth operation failed")
	}
}

func newAuthResult(p *domain.Principal) *AuthResult {
	return &AuthResult{
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      p.Role(),
		UserID:    p.ID,
	}
}

func roleSpecificID(role domain.Role, input *RegisterInput) string {
	switch role {
	case domain.RoleStudent:
		return strings.TrimSpace(input.StudentID)
	case domain.RoleProfessor:
		return strings.TrimSpace(input.ProfessorID)
	case domain.RoleAdmin:
		return strings.TrimSpace(input.AdminID)
	}
	return ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isClientError reports errors caused by the request rather than the system
func isClientError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput,
		domain.ErrInvalidRole,
		domain.ErrDuplicateEmail,
		domain.ErrInvalidCredentials,
		domain.ErrInvalidToken,
		domain.ErrUnauthenticated,
		domain.ErrForbidden,
		domain.ErrNotFound,
		domain.ErrPrincipalNotFound,
		domain.ErrCourseNotFound,
		domain.ErrDuplicateCourse,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
