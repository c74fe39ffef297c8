package repositories

import (
	"context"
	"errors"

	"unicampus/internal/adapters/persistence/models"
	"unicampus/internal/core/domain"

	"gorm.io/gorm"
)

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	row := models.CourseFromDomain(course)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateCourse
		}
		return err
	}
	course.CreatedAt = row.CreatedAt
	course.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *courseRepository) GetByCourseID(ctx context.Context, courseID string) (*domain.Course, error) {
	return r.first(ctx, "course_id = ?", courseID)
}

func (r *courseRepository) List(ctx context.Context, activeOnly bool, offset, limit int) ([]*domain.Course, int64, error) {
	var rows []*models.Course
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		if activeOnly {
			return db.Where("active = ?", true)
		}
		return db
	}

	if err := r.db.WithContext(ctx).Model(&models.Course{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).Scopes(scope).Order("course_id").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	courses := make([]*domain.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.ToDomain())
	}
	return courses, total, nil
}

// Update replaces every field of an existing course
func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	row := models.CourseFromDomain(course)
	result := r.db.WithContext(ctx).
		Model(&models.Course{ID: course.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateCourse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", course.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrCourseNotFound
		}
	}
	course.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *courseRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.Course, error) {
	var row models.Course
	err := r.db.WithContext(ctx).Where(query, args...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}
