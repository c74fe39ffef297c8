package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"unicampus/internal/adapters/persistence/repositories"
	"unicampus/internal/core/authz"
	"unicampus/internal/core/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CourseService is the course catalogue. Every operation takes the caller's
// opaque token; it is resolved and authorized before the store is touched.
type CourseService struct {
	callerAuthorizer
	courses repositories.CourseRepository
	log     *logrus.Entry
}

// NewCourseService creates a new course service
func NewCourseService(courses repositories.CourseRepository, validator TokenValidator, gate *authz.Gate, log *logrus.Entry) *CourseService {
	return &CourseService{
		callerAuthorizer: callerAuthorizer{validator: validator, gate: gate},
		courses:          courses,
		log:              log,
	}
}

// CourseInput is the writable part of a course
type CourseInput struct {
	CourseID         string            `json:"courseId"`
	CourseName       string            `json:"courseName"`
	CourseCode       string            `json:"courseCode"`
	Credits          int               `json:"credits"`
	Description      string            `json:"description"`
	ProfessorID      string            `json:"professorId"`
	ProfessorName    string            `json:"professorName"`
	MaxStudents      int               `json:"maxStudents"`
	EnrolledStudents int               `json:"enrolledStudents"`
	Semester         string            `json:"semester"`
	Active           *bool             `json:"active"`
	TimeSlots        []domain.TimeSlot `json:"timeSlots"`
}

// CourseResponse is the public view of a course
type CourseResponse struct {
	ID               string            `json:"id"`
	CourseID         string            `json:"courseId"`
	CourseName       string            `json:"courseName"`
	CourseCode       string            `json:"courseCode"`
	Credits          int               `json:"credits"`
	Description      string            `json:"description"`
	ProfessorID      string            `json:"professorId"`
	ProfessorName    string            `json:"professorName"`
	MaxStudents      int               `json:"maxStudents"`
	EnrolledStudents int               `json:"enrolledStudents"`
	Semester         string            `json:"semester"`
	Active           bool              `json:"active"`
	TimeSlots        []domain.TimeSlot `json:"timeSlots"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// ToCourseResponse converts a course to its public view
func ToCourseResponse(c *domain.Course) *CourseResponse {
	slots := c.TimeSlots
	if slots == nil {
		slots = []domain.TimeSlot{}
	}
	return &CourseResponse{
		ID:               c.ID,
		CourseID:         c.CourseID,
		CourseName:       c.CourseName,
		CourseCode:       c.CourseCode,
		Credits:          c.Credits,
		Description:      c.Description,
		ProfessorID:      c.ProfessorID,
		ProfessorName:    c.ProfessorName,
		MaxStudents:      c.MaxStudents,
		EnrolledStudents: c.EnrolledStudents,
		Semester:         c.Semester,
		Active:           c.Active,
		TimeSlots:        slots,
		UpdatedAt:        c.UpdatedAt,
	}
}

// ListCourses lists all courses (any authenticated role)
func (s *CourseService) ListCourses(ctx context.Context, token string, offset, limit int) ([]*CourseResponse, int64, error) {
	if _, err := s.authorize(ctx, token, authz.Authenticated); err != nil {
		return nil, 0, err
	}
	return s.list(ctx, false, offset, limit)
}

// ListActiveCourses lists active courses only (any authenticated role)
func (s *CourseService) ListActiveCourses(ctx context.Context, token string, offset, limit int) ([]*CourseResponse, int64, error) {
	if _, err := s.authorize(ctx, token, authz.Authenticated); err != nil {
		return nil, 0, err
	}
	return s.list(ctx, true, offset, limit)
}

// GetCourse returns a course by its record id (any authenticated role)
func (s *CourseService) GetCourse(ctx context.Context, token, id string) (*CourseResponse, error) {
	if _, err := s.authorize(ctx, token, authz.Authenticated); err != nil {
		return nil, err
	}
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCourseResponse(c), nil
}

// GetCourseByCourseID returns a course by its catalogue id (any authenticated role)
func (s *CourseService) GetCourseByCourseID(ctx context.Context, token, courseID string) (*CourseResponse, error) {
	if _, err := s.authorize(ctx, token, authz.Authenticated); err != nil {
		return nil, err
	}
	c, err := s.courses.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return ToCourseResponse(c), nil
}

// CreateCourse adds a course (admin only)
func (s *CourseService) CreateCourse(ctx context.Context, token string, input *CourseInput) (*CourseResponse, error) {
	caller, err := s.authorize(ctx, token, authz.AdminOnly)
	if err != nil {
		return nil, err
	}
	if err := validateCourseInput(input); err != nil {
		return nil, err
	}

	if _, err := s.courses.GetByCourseID(ctx, input.CourseID); err == nil {
		return nil, domain.ErrDuplicateCourse
	} else if !errors.Is(err, domain.ErrCourseNotFound) {
		return nil, err
	}

	course := &domain.Course{ID: uuid.NewString(), Active: true}
	applyCourseInput(course, input)

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"course_id": course.CourseID, "by": caller.UserID}).Info("✅ Course created")
	return ToCourseResponse(course), nil
}

// UpdateCourse replaces a course's fields (admin only)
func (s *CourseService) UpdateCourse(ctx context.Context, token, id string, input *CourseInput) (*CourseResponse, error) {
	caller, err := s.authorize(ctx, token, authz.AdminOnly)
	if err != nil {
		return nil, err
	}
	if err := validateCourseInput(input); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CourseID != course.CourseID {
		if other, err := s.courses.GetByCourseID(ctx, input.CourseID); err == nil && other.ID != course.ID {
			return nil, domain.ErrDuplicateCourse
		} else if err != nil && !errors.Is(err, domain.ErrCourseNotFound) {
			return nil, err
		}
	}

	applyCourseInput(course, input)
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"course_id": course.CourseID, "by": caller.UserID}).Info("Course updated")
	return ToCourseResponse(course), nil
}

// DeleteCourse removes a course (admin only)
func (s *CourseService) DeleteCourse(ctx context.Context, token, id string) error {
	caller, err := s.authorize(ctx, token, authz.AdminOnly)
	if err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"id": id, "by": caller.UserID}).Info("Course deleted")
	return nil
}

// DeactivateCourse marks a course inactive (admin only)
func (s *CourseService) DeactivateCourse(ctx context.Context, token, id string) (*CourseResponse, error) {
	if _, err := s.authorize(ctx, token, authz.AdminOnly); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Active = false
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return ToCourseResponse(course), nil
}

func (s *CourseService) list(ctx context.Context, activeOnly bool, offset, limit int) ([]*CourseResponse, int64, error) {
	courses, total, err := s.courses.List(ctx, activeOnly, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*CourseResponse, len(courses))
	for i, c := range courses {
		out[i] = ToCourseResponse(c)
	}
	return out, total, nil
}

func validateCourseInput(input *CourseInput) error {
	input.CourseID = strings.TrimSpace(input.CourseID)
	input.CourseName = strings.TrimSpace(input.CourseName)
	switch {
	case input.CourseID == "":
		return fmt.Errorf("%w: courseId is required", domain.ErrInvalidInput)
	case input.CourseName == "":
		return fmt.Errorf("%w: courseName is required", domain.ErrInvalidInput)
	case input.Credits < 0 || input.MaxStudents < 0 || input.EnrolledStudents < 0:
		return fmt.Errorf("%w: numeric fields must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

func applyCourseInput(c *domain.Course, input *CourseInput) {
	c.CourseID = input.CourseID
	c.CourseName = input.CourseName
	c.CourseCode = input.CourseCode
	c.Credits = input.Credits
	c.Description = input.Description
	c.ProfessorID = input.ProfessorID
	c.ProfessorName = input.ProfessorName
	c.MaxStudents = input.MaxStudents
	c.EnrolledStudents = input.EnrolledStudents
	c.Semester = input.Semester
	c.TimeSlots = input.TimeSlots
	if input.Active != nil {
		c.Active = *input.Active
	}
}
