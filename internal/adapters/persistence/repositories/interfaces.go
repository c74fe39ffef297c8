package repositories

import (
	"context"

	"unicampus/internal/core/domain"
)

// PrincipalRepository is the credential store. Email uniqueness is enforced
// by a unique index; a losing concurrent Create returns domain.ErrDuplicateEmail.
type PrincipalRepository interface {
	Create(ctx context.Context, principal *domain.Principal) error
	GetByID(ctx context.Context, id string) (*domain.Principal, error)
	GetByEmail(ctx context.Context, email string) (*domain.Principal, error)
	GetByRoleID(ctx context.Context, role domain.Role, roleID string) (*domain.Principal, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, principal *domain.Principal) error
	ListByRole(ctx context.Context, role domain.Role, offset, limit int) ([]*domain.Principal, int64, error)
}

// CourseRepository persists course records
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	GetByCourseID(ctx context.Context, courseID string) (*domain.Course, error)
	List(ctx context.Context, activeOnly bool, offset, limit int) ([]*domain.Course, int64, error)
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
}

// GradeFilter narrows a grade listing. Empty fields match everything.
type GradeFilter struct {
	StudentID   string
	CourseID    string
	ProfessorID string
}

// GradeRepository persists grade records
type GradeRepository interface {
	Create(ctx context.Context, grade *domain.Grade) error
	GetByID(ctx context.Context, id string) (*domain.Grade, error)
	List(ctx context.Context, filter GradeFilter, offset, limit int) ([]*domain.Grade, int64, error)
	Update(ctx context.Context, grade *domain.Grade) error
	Delete(ctx context.Context, id string) error
}
