package repositories

import (
	"context"
	"errors"

	"unicampus/internal/adapters/persistence/models"
	"unicampus/internal/core/domain"

	"gorm.io/gorm"
)

// principalRepository implements PrincipalRepository interface
type principalRepository struct {
	db *gorm.DB
}

// NewPrincipalRepository creates a new principal repository.
// db must be opened with TranslateError so unique violations are recognised.
func NewPrincipalRepository(db *gorm.DB) PrincipalRepository {
	return &principalRepository{db: db}
}

// Create inserts a new principal
func (r *principalRepository) Create(ctx context.Context, principal *domain.Principal) error {
	row := models.PrincipalFromDomain(principal)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	principal.CreatedAt = row.CreatedAt
	principal.UpdatedAt = row.UpdatedAt
	return nil
}

// GetByID gets a principal by ID
func (r *principalRepository) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail gets a principal by email
func (r *principalRepository) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByRoleID gets a principal by its studentId, professorId or adminId
func (r *principalRepository) GetByRoleID(ctx context.Context, role domain.Role, roleID string) (*domain.Principal, error) {
	return r.first(ctx, "role = ? AND role_id = ?", string(role), roleID)
}

// ExistsByEmail checks if email exists
func (r *principalRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Principal{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Update replaces the mutable profile fields of an existing principal.
// Email, role and password hash are not touched.
func (r *principalRepository) Update(ctx context.Context, principal *domain.Principal) error {
	row := models.PrincipalFromDomain(principal)
	result := r.db.WithContext(ctx).
		Model(&models.Principal{}).
		Where("id = ?", principal.ID).
		Updates(map[string]interface{}{
			"first_name":   row.FirstName,
			"last_name":    row.LastName,
			"phone_number": row.PhoneNumber,
			"department":   row.Department,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL reports 0 when the new values equal the old ones
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Principal{}).Where("id = ?", principal.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrPrincipalNotFound
		}
	}
	return nil
}

// ListByRole lists principals of one role with pagination
func (r *principalRepository) ListByRole(ctx context.Context, role domain.Role, offset, limit int) ([]*domain.Principal, int64, error) {
	var rows []*models.Principal
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Principal{}).Where("role = ?", string(role))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("role = ?", string(role)).
		Order("last_name, first_name").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	principals := make([]*domain.Principal, 0, len(rows))
	for _, row := range rows {
		p, err := row.ToDomain()
		if err != nil {
			return nil, 0, err
		}
		principals = append(principals, p)
	}
	return principals, total, nil
}

func (r *principalRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.Principal, error) {
	var row models.Principal
	err := r.db.WithContext(ctx).Where(query, args...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, err
	}
	return row.ToDomain()
}
