package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/council-console/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var courseCols = []string{"id", "name", "fees", "course_type", "duration", "duration_type", "created_at", "updated_at"}

func TestCourseRepositoryListPaged(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(courseCols).
		AddRow("c1", "Mathematics", 1200.0, "DIPLOMA", 2.0, "YEAR", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, fees, course_type, duration, duration_type, created_at, updated_at FROM courses WHERE name ILIKE $1 AND course_type = $2 ORDER BY name ASC LIMIT 10 OFFSET 10")).
		WithArgs("%math%", models.CourseTypeDiploma).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE name ILIKE $1 AND course_type = $2")).
		WithArgs("%math%", models.CourseTypeDiploma).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{Name: "math", CourseType: models.CourseTypeDiploma, Skip: 10, Limit: 10})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Mathematics", courses[0].Name)
	require.NotNil(t, courses[0].Fees)
	assert.Equal(t, 1200.0, *courses[0].Fees)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListUnpaged(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses ORDER BY name ASC") + "$").
		WillReturnRows(sqlmock.NewRows(courseCols))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses") + "$").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "Physics", sqlmock.AnyArg(), models.CourseTypeDegree, sqlmock.AnyArg(), models.DurationYear, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	fees := 900.0
	course := &models.Course{Name: "Physics", Fees: &fees, CourseType: models.CourseTypeDegree, DurationType: models.DurationYear}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.False(t, course.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("UPDATE courses SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Course{ID: "missing", Name: "X", CourseType: models.CourseTypePhD})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, code, type, course_id, created_at, updated_at FROM subjects WHERE code ILIKE $1 AND course_id = $2 ORDER BY name ASC LIMIT 5")).
		WithArgs("%ENG%", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code", "type", "course_id", "created_at", "updated_at"}).
			AddRow("s1", "English", "ENG101", "LANGUAGE", "c1", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM subjects WHERE code ILIKE $1 AND course_id = $2")).
		WithArgs("%ENG%", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	subjects, total, err := repo.List(context.Background(), models.SubjectFilter{Code: "ENG", CourseID: "c1", Limit: 5})
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, models.SubjectTypeLanguage, subjects[0].Type)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM subjects WHERE course_id = $1 AND UPPER(code) = UPPER($2) AND id <> $3 LIMIT 1")).
		WithArgs("c1", "ENG101", "s1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM subjects WHERE course_id = $1 AND UPPER(code) = UPPER($2) LIMIT 1")).
		WithArgs("c1", "ENG101").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "c1", "ENG101", "s1")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByCode(context.Background(), "c1", "ENG101", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE LOWER(email) = LOWER($1)")).
		WithArgs("ops@council.local").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "password_hash", "active", "created_at"}).
			AddRow("a1", "ops@council.local", "Ops", "hash", true, time.Now()))

	admin, err := repo.FindByEmail(context.Background(), " ops@council.local ")
	require.NoError(t, err)
	assert.Equal(t, "a1", admin.ID)
	assert.True(t, admin.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByApplicationNumber(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE application_number = $1")).
		WithArgs("APP-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByApplicationNumber(context.Background(), "APP-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateSchemaStatementsAreIdempotent(t *testing.T) {
	for _, stmt := range Schema {
		assert.Contains(t, stmt, "IF NOT EXISTS")
	}
}
