package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"unicampus/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return db, mock
}

var principalColumns = []string{
	"id", "email", "password_hash", "role", "role_id", "department",
	"first_name", "last_name", "phone_number", "created_at", "updated_at",
}

func TestPrincipalRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPrincipalRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `principals` WHERE email = ?")).
		WillReturnRows(sqlmock.NewRows(principalColumns).
			AddRow("id-1", "a@u.edu", "hash", "STUDENT", "S1", "", "Ada", "Lovelace", "555", now, now))

	p, err := repo.GetByEmail(context.Background(), "a@u.edu")
	require.NoError(t, err)
	assert.Equal(t, "id-1", p.ID)
	assert.Equal(t, domain.RoleStudent, p.Role())
	assert.Equal(t, domain.StudentDetails{StudentID: "S1"}, p.Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPrincipalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `principals` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(principalColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_GetByRoleID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPrincipalRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `principals` WHERE .*role = \\? AND role_id = \\?").
		WillReturnRows(sqlmock.NewRows(principalColumns).
			AddRow("id-2", "p@u.edu", "hash", "PROFESSOR", "P1", "Physics", "Max", "Planck", "", now, now))

	p, err := repo.GetByRoleID(context.Background(), domain.RoleProfessor, "P1")
	require.NoError(t, err)
	assert.Equal(t, "Physics", p.Department())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPrincipalRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `principals`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'a@u.edu' for key 'idx_principals_email'"})

	err := repo.Create(context.Background(), &domain.Principal{
		ID:      "id-3",
		Email:   "a@u.edu",
		Details: domain.StudentDetails{StudentID: "S9"},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPrincipalRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `principals`")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := &domain.Principal{ID: "id-4", Email: "b@u.edu", Details: domain.AdminDetails{AdminID: "A1"}}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.False(t, p.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_ExistsByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPrincipalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `principals` WHERE email = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "a@u.edu")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_UpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPrincipalRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `principals` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `principals` WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := repo.Update(context.Background(), &domain.Principal{ID: "missing", Details: domain.StudentDetails{}})
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrincipalRepository_UpdateUnchanged(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPrincipalRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `principals` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `principals` WHERE id = ?")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.Update(context.Background(), &domain.Principal{ID: "u-1", Details: domain.StudentDetails{StudentID: "S1"}})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var courseColumns = []string{
	"id", "course_id", "course_name", "course_code", "credits", "description",
	"professor_id", "professor_name", "max_students", "enrolled_students",
	"semester", "active", "time_slots", "created_at", "updated_at",
}

func TestCourseRepository_GetByCourseID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourseRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `courses` WHERE course_id = ?")).
		WillReturnRows(sqlmock.NewRows(courseColumns).AddRow(
			"c-1", "CS101", "Intro", "CS-101", 6, "", "P1", "Planck", 30, 12,
			"2026-S1", true, `[{"dayOfWeek":"MONDAY","startTime":"08:30","endTime":"10:00","room":"A1"}]`, now, now))

	c, err := repo.GetByCourseID(context.Background(), "CS101")
	require.NoError(t, err)
	assert.Equal(t, "CS101", c.CourseID)
	require.Len(t, c.TimeSlots, 1)
	assert.Equal(t, "A1", c.TimeSlots[0].Room)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `courses`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(context.Background(), &domain.Course{ID: "c-2", CourseID: "CS101"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCourse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `courses` WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_ListActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourseRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `courses` WHERE active = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `courses` WHERE active = ? ORDER BY course_id")).
		WillReturnRows(sqlmock.NewRows(courseColumns).AddRow(
			"c-1", "CS101", "Intro", "", 6, "", "", "", 30, 0, "", true, "[]", now, now))

	courses, total, err := repo.List(context.Background(), true, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, courses, 1)
	assert.True(t, courses[0].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var gradeColumns = []string{
	"id", "student_id", "student_name", "course_id", "course_name", "grade",
	"semester", "professor_id", "professor_name", "comments", "created_at", "updated_at",
}

func TestGradeRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGradeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `grades` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(gradeColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrGradeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepository_ListByStudent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGradeRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `grades` WHERE student_id = ?")).
		WithArgs("u-s1").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `grades` WHERE student_id = ? ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows(gradeColumns).AddRow(
			"g-1", "u-s1", "Ada", "CS101", "Intro", 87.5, "2026-S1", "u-p1", "Planck", "", now, now))

	grades, total, err := repo.List(context.Background(), GradeFilter{StudentID: "u-s1"}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, grades, 1)
	assert.Equal(t, 87.5, grades[0].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepository_UpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGradeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `grades` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `grades` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := repo.Update(context.Background(), &domain.Grade{ID: "missing", Value: 50})
	assert.ErrorIs(t, err, domain.ErrGradeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGradeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `grades` WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrGradeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
