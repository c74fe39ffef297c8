package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"unicampus/internal/adapters/persistence/repositories"
	"unicampus/internal/core/authz"
	"unicampus/internal/core/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GradeService keeps the grade book. Reads are open to admins and students,
// writes to professors. Like CourseService, it authorizes the raw token
// before the store is touched.
type GradeService struct {
	callerAuthorizer
	grades repositories.GradeRepository
	log    *logrus.Entry
}

// NewGradeService creates a new grade service
func NewGradeService(grades repositories.GradeRepository, validator TokenValidator, gate *authz.Gate, log *logrus.Entry) *GradeService {
	return &GradeService{
		callerAuthorizer: callerAuthorizer{validator: validator, gate: gate},
		grades:           grades,
		log:              log,
	}
}

// GradeInput is a new grade. The awarding professor is taken from the token.
type GradeInput struct {
	StudentID   string   `json:"studentId"`
	StudentName string   `json:"studentName"`
	CourseID    string   `json:"courseId"`
	CourseName  string   `json:"courseName"`
	Grade       *float64 `json:"grade"`
	Semester    string   `json:"semester"`
	Comments    string   `json:"comments"`
}

// GradeUpdate changes the mark or the comments. Nil fields are left alone.
type GradeUpdate struct {
	Grade    *float64 `json:"grade"`
	Comments *string  `json:"comments"`
}

// GradeResponse is the public view of a grade
type GradeResponse struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"studentId"`
	StudentName   string    `json:"studentName"`
	CourseID      string    `json:"courseId"`
	CourseName    string    `json:"courseName"`
	Grade         float64   `json:"grade"`
	Semester      string    `json:"semester"`
	ProfessorID   string    `json:"professorId"`
	ProfessorName string    `json:"professorName"`
	Comments      string    `json:"comments"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToGradeResponse converts a grade to its public view
func ToGradeResponse(g *domain.Grade) *GradeResponse {
	return &GradeResponse{
		ID:            g.ID,
		StudentID:     g.StudentID,
		StudentName:   g.StudentName,
		CourseID:      g.CourseID,
		CourseName:    g.CourseName,
		Grade:         g.Value,
		Semester:      g.Semester,
		ProfessorID:   g.ProfessorID,
		ProfessorName: g.ProfessorName,
		Comments:      g.Comments,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

// ListGrades lists every grade (admin or student)
func (s *GradeService) ListGrades(ctx context.Context, token string, offset, limit int) ([]*GradeResponse, int64, error) {
	if _, err := s.authorize(ctx, token, authz.AdminOrStudent); err != nil {
		return nil, 0, err
	}
	return s.list(ctx, repositories.GradeFilter{}, offset, limit)
}

// GetGrade returns one grade (admin or student)
func (s *GradeService) GetGrade(ctx context.Context, token, id string) (*GradeResponse, error) {
	if _, err := s.authorize(ctx, token, authz.AdminOrStudent); err != nil {
		return nil, err
	}
	g, err := s.grades.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToGradeResponse(g), nil
}

// ListStudentGrades lists the grades of one student (admin or student)
func (s *GradeService) ListStudentGrades(ctx context.Context, token, studentID string, offset, limit int) ([]*GradeResponse, int64, error) {
	if _, err := s.authorize(ctx, token, authz.AdminOrStudent); err != nil {
		return nil, 0, err
	}
	return s.list(ctx, repositories.GradeFilter{StudentID: studentID}, offset, limit)
}

// ListCourseGrades lists the grades awarded in one course (admin or student)
func (s *GradeService) ListCourseGrades(ctx context.Context, token, courseID string, offset, limit int) ([]*GradeResponse, int64, error) {
	if _, err := s.authorize(ctx, token, authz.AdminOrStudent); err != nil {
		return nil, 0, err
	}
	return s.list(ctx, repositories.GradeFilter{CourseID: courseID}, offset, limit)
}

// ListMyGrades lists the calling student's own grades (student only)
func (s *GradeService) ListMyGrades(ctx context.Context, token string, offset, limit int) ([]*GradeResponse, int64, error) {
	caller, err := s.authorize(ctx, token, authz.StudentOnly)
	if err != nil {
		return nil, 0, err
	}
	return s.list(ctx, repositories.GradeFilter{StudentID: caller.UserID}, offset, limit)
}

// ListAwardedGrades lists the grades the calling professor has awarded (professor only)
func (s *GradeService) ListAwardedGrades(ctx context.Context, token string, offset, limit int) ([]*GradeResponse, int64, error) {
	caller, err := s.authorize(ctx, token, authz.ProfessorOnly)
	if err != nil {
		return nil, 0, err
	}
	return s.list(ctx, repositories.GradeFilter{ProfessorID: caller.UserID}, offset, limit)
}

// CreateGrade records a grade awarded by the caller (professor only)
func (s *GradeService) CreateGrade(ctx context.Context, token string, input *GradeInput) (*GradeResponse, error) {
	caller, err := s.authorize(ctx, token, authz.ProfessorOnly)
	if err != nil {
		return nil, err
	}
	if err := validateGradeInput(input); err != nil {
		return nil, err
	}

	grade := &domain.Grade{
		ID:            uuid.NewString(),
		StudentID:     input.StudentID,
		StudentName:   strings.TrimSpace(input.StudentName),
		CourseID:      input.CourseID,
		CourseName:    strings.TrimSpace(input.CourseName),
		Value:         *input.Grade,
		Semester:      strings.TrimSpace(input.Semester),
		ProfessorID:   caller.UserID,
		ProfessorName: displayName(caller),
		Comments:      input.Comments,
	}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"grade_id": grade.ID, "course_id": grade.CourseID, "by": caller.UserID}).Info("✅ Grade recorded")
	return ToGradeResponse(grade), nil
}

// UpdateGrade changes a grade's mark or comments (professor only)
func (s *GradeService) UpdateGrade(ctx context.Context, token, id string, input *GradeUpdate) (*GradeResponse, error) {
	caller, err := s.authorize(ctx, token, authz.ProfessorOnly)
	if err != nil {
		return nil, err
	}
	if input.Grade != nil {
		if err := checkGradeRange(*input.Grade); err != nil {
			return nil, err
		}
	}

	grade, err := s.grades.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Grade != nil {
		grade.Value = *input.Grade
	}
	if input.Comments != nil {
		grade.Comments = *input.Comments
	}
	if err := s.grades.Update(ctx, grade); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"grade_id": grade.ID, "by": caller.UserID}).Info("Grade updated")
	return ToGradeResponse(grade), nil
}

// DeleteGrade removes a grade (professor only)
func (s *GradeService) DeleteGrade(ctx context.Context, token, id string) error {
	caller, err := s.authorize(ctx, token, authz.ProfessorOnly)
	if err != nil {
		return err
	}
	if err := s.grades.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"grade_id": id, "by": caller.UserID}).Info("Grade deleted")
	return nil
}

func (s *GradeService) list(ctx context.Context, filter repositories.GradeFilter, offset, limit int) ([]*GradeResponse, int64, error) {
	grades, total, err := s.grades.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*GradeResponse, len(grades))
	for i, g := range grades {
		out[i] = ToGradeResponse(g)
	}
	return out, total, nil
}

func validateGradeInput(input *GradeInput) error {
	input.StudentID = strings.TrimSpace(input.StudentID)
	input.CourseID = strings.TrimSpace(input.CourseID)
	switch {
	case input.StudentID == "":
		return fmt.Errorf("%w: studentId is required", domain.ErrInvalidInput)
	case input.CourseID == "":
		return fmt.Errorf("%w: courseId is required", domain.ErrInvalidInput)
	case input.Grade == nil:
		return fmt.Errorf("%w: grade is required", domain.ErrInvalidInput)
	}
	return checkGradeRange(*input.Grade)
}

func checkGradeRange(v float64) error {
	if v < domain.MinGrade || v > domain.MaxGrade {
		return fmt.Errorf("%w: grade must be between %d and %d", domain.ErrInvalidInput, domain.MinGrade, domain.MaxGrade)
	}
	return nil
}

// displayName prefers the caller's full name and falls back to the email
func displayName(id *domain.Identity) string {
	if name := strings.TrimSpace(id.FirstName + " " + id.LastName); name != "" {
		return name
	}
	return id.Email
}
