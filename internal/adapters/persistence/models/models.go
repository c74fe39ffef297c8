package models

import (
	"time"

	"unicampus/internal/core/domain"

	"gorm.io/gorm"
)

// Principal represents the principals table. All three roles share one table;
// RoleID holds the studentId, professorId or adminId selected by Role.
type Principal struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;index" json:"role"`
	RoleID       string    `gorm:"size:50;index" json:"role_id"`
	Department   string    `gorm:"size:100" json:"department,omitempty"`
	FirstName    string    `gorm:"size:100" json:"first_name"`
	LastName     string    `gorm:"size:100" json:"last_name"`
	PhoneNumber  string    `gorm:"size:30" json:"phone_number"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Principal) TableName() string {
	return "principals"
}

// ToDomain rebuilds the tagged principal from its flat row
func (p *Principal) ToDomain() (*domain.Principal, error) {
	details, err := domain.NewRoleDetails(domain.Role(p.Role), p.RoleID, p.Department)
	if err != nil {
		return nil, err
	}
	return &domain.Principal{
		ID:           p.ID,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PhoneNumber:  p.PhoneNumber,
		Details:      details,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}, nil
}

// PrincipalFromDomain flattens a principal into its row
func PrincipalFromDomain(p *domain.Principal) *Principal {
	row := &Principal{
		ID:           p.ID,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Role:         string(p.Role()),
		Department:   p.Department(),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PhoneNumber:  p.PhoneNumber,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Details != nil {
		row.RoleID = p.Details.RoleID()
	}
	return row
}

// Course represents courses table
type Course struct {
	ID               string            `gorm:"primaryKey;size:36" json:"id"`
	CourseID         string            `gorm:"uniqueIndex;size:50;not null" json:"course_id"`
	CourseName       string            `gorm:"size:200;not null" json:"course_name"`
	CourseCode       string            `gorm:"size:50" json:"course_code"`
	Credits          int               `json:"credits"`
	Description      string            `gorm:"type:text" json:"description"`
	ProfessorID      string            `gorm:"size:50;index" json:"professor_id"`
	ProfessorName    string            `gorm:"size:200" json:"professor_name"`
	MaxStudents      int               `json:"max_students"`
	EnrolledStudents int               `json:"enrolled_students"`
	Semester         string            `gorm:"size:30" json:"semester"`
	Active           bool              `gorm:"index" json:"active"`
	TimeSlots        []domain.TimeSlot `gorm:"serializer:json;type:text" json:"time_slots"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

// ToDomain converts the row to a domain course
func (c *Course) ToDomain() *domain.Course {
	return &domain.Course{
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
		TimeSlots:        c.TimeSlots,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// CourseFromDomain converts a domain course to its row
func CourseFromDomain(c *domain.Course) *Course {
	return &Course{
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
		TimeSlots:        c.TimeSlots,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// Grade represents grades table
type Grade struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	StudentID     string    `gorm:"size:50;not null;index" json:"student_id"`
	StudentName   string    `gorm:"size:200" json:"student_name"`
	CourseID      string    `gorm:"size:50;not null;index" json:"course_id"`
	CourseName    string    `gorm:"size:200" json:"course_name"`
	Value         float64   `gorm:"column:grade;not null" json:"grade"`
	Semester      string    `gorm:"size:30" json:"semester"`
	ProfessorID   string    `gorm:"size:50;index" json:"professor_id"`
	ProfessorName string    `gorm:"size:200" json:"professor_name"`
	Comments      string    `gorm:"type:text" json:"comments"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Grade) TableName() string {
	return "grades"
}

func (g *Grade) ToDomain() *domain.Grade {
	return &domain.Grade{
		ID:            g.ID,
		StudentID:     g.StudentID,
		StudentName:   g.StudentName,
		CourseID:      g.CourseID,
		CourseName:    g.CourseName,
		Value:         g.Value,
		Semester:      g.Semester,
		ProfessorID:   g.ProfessorID,
		ProfessorName: g.ProfessorName,
		Comments:      g.Comments,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func GradeFromDomain(g *domain.Grade) *Grade {
	return &Grade{
		ID:            g.ID,
		StudentID:     g.StudentID,
		StudentName:   g.StudentName,
		CourseID:      g.CourseID,
		CourseName:    g.CourseName,
		Value:         g.Value,
		Semester:      g.Semester,
		ProfessorID:   g.ProfessorID,
		ProfessorName: g.ProfessorName,
		Comments:      g.Comments,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

// AutoMigrateIdentity creates the tables owned by the identity service
func AutoMigrateIdentity(db *gorm.DB) error {
	return db.AutoMigrate(&Principal{})
}

// AutoMigrateCourses creates the tables owned by the course service
func AutoMigrateCourses(db *gorm.DB) error {
	return db.AutoMigrate(&Course{}, &Grade{})
}
