package repositories

import (
	"context"
	"errors"

	"unicampus/internal/adapters/persistence/models"
	"unicampus/internal/core/domain"

	"gorm.io/gorm"
)

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository creates a new grade repository
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) Create(ctx context.Context, grade *domain.Grade) error {
	row := models.GradeFromDomain(grade)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	grade.CreatedAt = row.CreatedAt
	grade.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *gradeRepository) GetByID(ctx context.Context, id string) (*domain.Grade, error) {
	var row models.Grade
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGradeNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *gradeRepository) List(ctx context.Context, filter GradeFilter, offset, limit int) ([]*domain.Grade, int64, error) {
	var rows []*models.Grade
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		if filter.StudentID != "" {
			db = db.Where("student_id = ?", filter.StudentID)
		}
		if filter.CourseID != "" {
			db = db.Where("course_id = ?", filter.CourseID)
		}
		if filter.ProfessorID != "" {
			db = db.Where("professor_id = ?", filter.ProfessorID)
		}
		return db
	}

	if err := r.db.WithContext(ctx).Model(&models.Grade{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).Scopes(scope).Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	grades := make([]*domain.Grade, 0, len(rows))
	for _, row := range rows {
		grades = append(grades, row.ToDomain())
	}
	return grades, total, nil
}

// Update writes the mark and comments of an existing grade
func (r *gradeRepository) Update(ctx context.Context, grade *domain.Grade) error {
	result := r.db.WithContext(ctx).
		Model(&models.Grade{ID: grade.ID}).
		Select("grade", "comments").
		Updates(&models.Grade{Value: grade.Value, Comments: grade.Comments})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Grade{}).Where("id = ?", grade.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrGradeNotFound
		}
	}
	return nil
}

func (r *gradeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Grade{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrGradeNotFound
	}
	return nil
}
