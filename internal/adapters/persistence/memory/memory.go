// Package memory holds map-backed repositories. They back DB_DRIVER=memory in
// dev mode and the service and handler tests, and honour the same uniqueness
// and not-found contracts as the gorm repositories. Contents are lost on exit.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"unicampus/internal/adapters/persistence/repositories"
	"unicampus/internal/core/domain"
)

var (
	_ repositories.PrincipalRepository = (*PrincipalRepository)(nil)
	_ repositories.CourseRepository    = (*CourseRepository)(nil)
	_ repositories.GradeRepository     = (*GradeRepository)(nil)
)

// PrincipalRepository is an in-memory credential store
type PrincipalRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.Principal
	byEmail map[string]string

	calls atomic.Int64
}

// NewPrincipalRepository creates an empty store
func NewPrincipalRepository() *PrincipalRepository {
	return &PrincipalRepository{
		byID:    make(map[string]domain.Principal),
		byEmail: make(map[string]string),
	}
}

// Calls reports how many repository methods have been invoked
func (r *PrincipalRepository) Calls() int64 { return r.calls.Load() }

func (r *PrincipalRepository) Create(_ context.Context, p *domain.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.Add(1)

	key := strings.ToLower(p.Email)
	if _, ok := r.byEmail[key]; ok {
		return domain.ErrDuplicateEmail
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.byID[p.ID] = *p
	r.byEmail[key] = p.ID
	return nil
}

func (r *PrincipalRepository) GetByID(_ context.Context, id string) (*domain.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.calls.Add(1)

	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return &p, nil
}

func (r *PrincipalRepository) GetByEmail(_ context.Context, email string) (*domain.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.calls.Add(1)

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	p := r.byID[id]
	return &p, nil
}

func (r *PrincipalRepository) GetByRoleID(_ context.Context, role domain.Role, roleID string) (*domain.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.calls.Add(1)

	for _, p := range r.byID {
		if p.Role() == role && p.Details.RoleID() == roleID {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (r *PrincipalRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.calls.Add(1)

	_, ok := r.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (r *PrincipalRepository) Update(_ context.Context, p *domain.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.Add(1)

	current, ok := r.byID[p.ID]
	if !ok {
		return domain.ErrPrincipalNotFound
	}
	current.FirstName = p.FirstName
	current.LastName = p.LastName
	current.PhoneNumber = p.PhoneNumber
	current.Details = p.Details
	current.UpdatedAt = time.Now()
	r.byID[p.ID] = current
	return nil
}

func (r *PrincipalRepository) ListByRole(_ context.Context, role domain.Role, offset, limit int) ([]*domain.Principal, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.calls.Add(1)

	var matched []*domain.Principal
	for _, p := range r.byID {
		if p.Role() == role {
			out := p
			matched = append(matched, &out)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })
	return page(matched, offset, limit), int64(len(matched)), nil
}

// CourseRepository is an in-memory course store
type CourseRepository struct {
	mu      sync.RWMutex
	courses map[string]domain.Course

	calls atomic.Int64
}

// NewCourseRepository creates an empty store
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{courses: make(map[string]domain.Course)}
}

// Calls reports how many repository methods have been invoked
func (r *CourseRepository) Calls() int64 { return r.calls.Load() }

func (r *CourseRepository) Create(_ context.Context, c *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.Add(1)

	for _, existing := range r.courses {
		if existing.CourseID == c.CourseID {
			return domain.ErrDuplicateCourse
		}
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.courses[c.ID] = *c
	return nil
}

func (r *CourseRepository) GetByID(_ context.Context, id string) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.calls.Add(1)

	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return &c, nil
}

func (r *CourseRepository) GetByCourseID(_ context.Context, courseID string) (*domain.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.calls.Add(1)

	for _, c := range r.courses {
		if c.CourseID == courseID {
			out := c
			return &out, nil
		}
	}
	return nil, domain.ErrCourseNotFound
}

func (r *CourseRepository) List(_ context.Context, activeOnly bool, offset, limit int) ([]*domain.Course, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.calls.Add(1)

	var matched []*domain.Course
	for _, c := range r.courses {
		if activeOnly && !c.Active {
			continue
		}
		out := c
		matched = append(matched, &out)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CourseID < matched[j].CourseID })
	return page(matched, offset, limit), int64(len(matched)), nil
}

func (r *CourseRepository) Update(_ context.Context, c *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.Add(1)

	current, ok := r.courses[c.ID]
	if !ok {
		return domain.ErrCourseNotFound
	}
	for id, other := range r.courses {
		if id != c.ID && other.CourseID == c.CourseID {
			return domain.ErrDuplicateCourse
		}
	}
	updated := *c
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now()
	r.courses[c.ID] = updated
	return nil
}

func (r *CourseRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.Add(1)

	if _, ok := r.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

// GradeRepository is an in-memory grade store
type GradeRepository struct {
	mu     sync.RWMutex
	grades map[string]domain.Grade

	calls atomic.Int64
}

// NewGradeRepository creates an empty store
func NewGradeRepository() *GradeRepository {
	return &GradeRepository{grades: make(map[string]domain.Grade)}
}

// Calls reports how many repository methods have been invoked
func (r *GradeRepository) Calls() int64 { return r.calls.Load() }

func (r *GradeRepository) Create(_ context.Context, g *domain.Grade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.Add(1)

	now := time.Now()
	g.CreatedAt, g.UpdatedAt = now, now
	r.grades[g.ID] = *g
	return nil
}

func (r *GradeRepository) GetByID(_ context.Context, id string) (*domain.Grade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.calls.Add(1)

	g, ok := r.grades[id]
	if !ok {
		return nil, domain.ErrGradeNotFound
	}
	return &g, nil
}

func (r *GradeRepository) List(_ context.Context, f repositories.GradeFilter, offset, limit int) ([]*domain.Grade, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.calls.Add(1)

	var matched []*domain.Grade
	for _, g := range r.grades {
		if (f.StudentID != "" && g.StudentID != f.StudentID) ||
			(f.CourseID != "" && g.CourseID != f.CourseID) ||
			(f.ProfessorID != "" && g.ProfessorID != f.ProfessorID) {
			continue
		}
		out := g
		matched = append(matched, &out)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return page(matched, offset, limit), int64(len(matched)), nil
}

func (r *GradeRepository) Update(_ context.Context, g *domain.Grade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.Add(1)

	current, ok := r.grades[g.ID]
	if !ok {
		return domain.ErrGradeNotFound
	}
	current.Value = g.Value
	current.Comments = g.Comments
	current.UpdatedAt = time.Now()
	r.grades[g.ID] = current
	return nil
}

func (r *GradeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls.Add(1)

	if _, ok := r.grades[id]; !ok {
		return domain.ErrGradeNotFound
	}
	delete(r.grades, id)
	return nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
