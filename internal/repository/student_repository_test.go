package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "display_name", "class_label", "pin", "total_co2_kg", "log_count", "created_at", "last_active_at"}).
		AddRow("HS001", "Nguyen Van A", "6A1", "1234", 12.5, 8, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, display_name, class_label, pin, total_co2_kg, log_count, created_at, last_active_at")).
		WithArgs("HS001").
		WillReturnRows(rows)

	profile, err := repo.FindByID(context.Background(), "HS001")
	require.NoError(t, err)
	require.Equal(t, "HS001", profile.ID)
	require.True(t, profile.HasPIN())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryRosterOrdersByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "display_name", "class_label", "pin", "total_co2_kg", "log_count"}).
		AddRow("HS001", "", "6A1", "", 0.0, 0).
		AddRow("HS002", "Tran Thi B", "6A1", "4321", 3.2, 2)
	mock.ExpectQuery(regexp.QuoteMeta("FROM students ORDER BY id ASC")).
		WillReturnRows(rows)

	roster, err := repo.Roster(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 2)
	require.Equal(t, "HS001", roster[0].StudentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryMaxSeedNumber(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"coalesce"}).AddRow(7)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(suffix::int), 0)")).
		WithArgs("hocsinh").
		WillReturnRows(rows)

	max, err := repo.MaxSeedNumber(context.Background(), "hocsinh")
	require.NoError(t, err)
	require.Equal(t, 7, max)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpsertProfileKeepsPINWhenNil(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE SET display_name = $2, class_label = $3, last_active_at = $4")).
		WithArgs("HS001", "Nguyen Van A", "6A1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertProfile(context.Background(), "HS001", UpdateProfileParams{
		DisplayName: "Nguyen Van A",
		ClassLabel:  "6A1",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpsertProfileSetsPIN(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	pin := "1234"
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE SET display_name = $2, class_label = $3, pin = $4, last_active_at = $5")).
		WithArgs("HS001", "Nguyen Van A", "6A1", pin, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertProfile(context.Background(), "HS001", UpdateProfileParams{
		DisplayName: "Nguyen Van A",
		ClassLabel:  "6A1",
		PIN:         &pin,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryBulkCreateChunks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	ids := []string{"HS001", "HS002", "HS003"}
	// batch size 2 forces two statements
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs("HS001", "6A1", sqlmock.AnyArg(), "HS002", "6A1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs("HS003", "6A1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.BulkCreate(context.Background(), ids, "6A1", 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteCascadesLogs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM daily_logs WHERE student_id = $1")).
		WithArgs("HS001").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs("HS001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "HS001"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM daily_logs")).
		WillReturnResult(sqlmock.NewResult(0, 10))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students")).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteAll(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
