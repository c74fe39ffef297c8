package domain

import "errors"

// Authentication and authorization outcomes. Callers must be able to tell
// ErrUnauthenticated ("who are you") apart from ErrForbidden ("you may not").
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Common domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidRole  = errors.New("invalid role")
)

// Principal errors
var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrPrincipalNotFound = errors.New("principal not found")
)

// Course errors
var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrDuplicateCourse = errors.New("course id already exists")
)

// Grade errors
var ErrGradeNotFound = errors.New("grade not found")
