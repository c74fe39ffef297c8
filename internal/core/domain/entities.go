package domain

import (
	"strings"
	"time"
)

// Role is the closed set of principal kinds
type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleProfessor Role = "PROFESSOR"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole accepts the bare role name or its ROLE_ prefixed form, in any case.
// Anything outside the closed set is rejected.
func ParseRole(s string) (Role, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "ROLE_")
	switch Role(s) {
	case RoleStudent, RoleProfessor, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// RoleDetails is the role-specific payload of a principal.
// Only the three variants declared in this package implement it.
type RoleDetails interface {
	Role() Role
	RoleID() string
	isRoleDetails()
}

// StudentDetails is the payload of a STUDENT principal
type StudentDetails struct {
	StudentID string
}

func (StudentDetails) Role() Role       { return RoleStudent }
func (d StudentDetails) RoleID() string { return d.StudentID }
func (StudentDetails) isRoleDetails()   {}

// ProfessorDetails is the payload of a PROFESSOR principal
type ProfessorDetails struct {
	ProfessorID string
	Department  string
}

func (ProfessorDetails) Role() Role       { return RoleProfessor }
func (d ProfessorDetails) RoleID() string { return d.ProfessorID }
func (ProfessorDetails) isRoleDetails()   {}

// AdminDetails is the payload of an ADMIN principal
type AdminDetails struct {
	AdminID    string
	Department string
}

func (AdminDetails) Role() Role       { return RoleAdmin }
func (d AdminDetails) RoleID() string { return d.AdminID }
func (AdminDetails) isRoleDetails()   {}

// NewRoleDetails builds the payload variant selected by role
func NewRoleDetails(role Role, roleID, department string) (RoleDetails, error) {
	switch role {
	case RoleStudent:
		return StudentDetails{StudentID: roleID}, nil
	case RoleProfessor:
		return ProfessorDetails{ProfessorID: roleID, Department: department}, nil
	case RoleAdmin:
		return AdminDetails{AdminID: roleID, Department: department}, nil
	}
	return nil, ErrInvalidRole
}

// Principal is an authenticated entity. Email is unique across all roles and
// the role never changes for the lifetime of the record.
type Principal struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  string
	Details      RoleDetails
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role returns the role tag carried by the payload variant
func (p *Principal) Role() Role {
	if p == nil || p.Details == nil {
		return ""
	}
	return p.Details.Role()
}

// Department returns the department for professors and admins
func (p *Principal) Department() string {
	switch d := p.Details.(type) {
	case ProfessorDetails:
		return d.Department
	case AdminDetails:
		return d.Department
	}
	return ""
}

// Identity is what a token validator resolves a token to.
// Fields other than Role and Subject may be empty when the source did not supply them.
type Identity struct {
	Subject   string
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Role      Role
}

// TimeSlot is one weekly meeting of a course
type TimeSlot struct {
	DayOfWeek string `json:"dayOfWeek"`
	StartTime string `json:"startTime"` // HH:mm
	EndTime   string `json:"endTime"`   // HH:mm
	Room      string `json:"room"`
}

// Course is a course record owned by the course service
type Course struct {
	ID               string
	CourseID         string
	CourseName       string
	CourseCode       string
	Credits          int
	Description      string
	ProfessorID      string
	ProfessorName    string
	MaxStudents      int
	EnrolledStudents int
	Semester         string
	Active           bool
	TimeSlots        []TimeSlot
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Grade is one mark awarded to a student for a course. StudentID and
// ProfessorID hold principal user ids.
type Grade struct {
	ID            string
	StudentID     string
	StudentName   string
	CourseID      string
	CourseName    string
	Value         float64
	Semester      string
	ProfessorID   string
	ProfessorName string
	Comments      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Grade bounds, inclusive
const (
	MinGrade = 0
	MaxGrade = 100
)
