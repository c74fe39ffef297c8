package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"unicampus/internal/adapters/persistence/repositories"
	"unicampus/internal/core/domain"
)

// UserService serves principal profiles. Authorization happens in front of it.
type UserService struct {
	principals repositories.PrincipalRepository
}

// NewUserService creates a new user service
func NewUserService(principals repositories.PrincipalRepository) *UserService {
	return &UserService{principals: principals}
}

// ProfileResponse is the public view of a principal
type ProfileResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
	Role        domain.Role `json:"role"`
	StudentID   string      `json:"studentId,omitempty"`
	ProfessorID string      `json:"professorId,omitempty"`
	AdminID     string      `json:"adminId,omitempty"`
	Department  string      `json:"department,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// UpdateProfileInput represents update profile input (for self)
type UpdateProfileInput struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	Department  *string `json:"department"`
}

// ToProfile converts a principal to its public view
func ToProfile(p *domain.Principal) *ProfileResponse {
	out := &ProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PhoneNumber: p.PhoneNumber,
		Role:        p.Role(),
		Department:  p.Department(),
		CreatedAt:   p.CreatedAt,
	}
	switch d := p.Details.(type) {
	case domain.StudentDetails:
		out.StudentID = d.StudentID
	case domain.ProfessorDetails:
		out.ProfessorID = d.ProfessorID
	case domain.AdminDetails:
		out.AdminID = d.AdminID
	}
	return out
}

// GetProfile returns the profile of principal id
func (s *UserService) GetProfile(ctx context.Context, id string) (*ProfileResponse, error) {
	p, err := s.principals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProfile(p), nil
}

// GetByRoleID looks up a student, professor or admin by its role-specific id
func (s *UserService) GetByRoleID(ctx context.Context, role domain.Role, roleID string) (*ProfileResponse, error) {
	p, err := s.principals.GetByRoleID(ctx, role, strings.TrimSpace(roleID))
	if err != nil {
		return nil, err
	}
	return ToProfile(p), nil
}

// ListByRole lists principals of one role
func (s *UserService) ListByRole(ctx context.Context, role domain.Role, offset, limit int) ([]*ProfileResponse, int64, error) {
	principals, total, err := s.principals.ListByRole(ctx, role, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*ProfileResponse, len(principals))
	for i, p := range principals {
		out[i] = ToProfile(p)
	}
	return out, total, nil
}

// UpdateProfile changes the caller's own names, phone number and department.
// Department only applies to professors and admins.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input *UpdateProfileInput) (*ProfileResponse, error) {
	p, err := s.principals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		p.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		p.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.PhoneNumber != nil {
		p.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.Department != nil {
		dept := strings.TrimSpace(*input.Department)
		switch d := p.Details.(type) {
		case domain.ProfessorDetails:
			d.Department = dept
			p.Details = d
		case domain.AdminDetails:
			d.Department = dept
			p.Details = d
		default:
			return nil, fmt.Errorf("%w: department does not apply to %s", domain.ErrInvalidInput, p.Role())
		}
	}

	if err := s.principals.Update(ctx, p); err != nil {
		return nil, err
	}
	return ToProfile(p), nil
}
