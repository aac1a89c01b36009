package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecolog-api/internal/models"
)

// LogRepository manages persistence for daily logs.
type LogRepository struct {
	db *sqlx.DB
}

// NewLogRepository constructs a LogRepository.
func NewLogRepository(db *sqlx.DB) *LogRepository {
	return &LogRepository{db: db}
}

// InsertWithTotals appends the log and increments the owning student's cached
// running total and log count in a single transaction, so a crash cannot
// leave the log committed without its counter update.
func (r *LogRepository) InsertWithTotals(ctx context.Context, log *models.DailyLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save log: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insert = `INSERT INTO daily_logs (id, student_id, log_date, ts, transport, waste, digital, total_co2_kg, created_at)
        VALUES (:id, :student_id, :log_date, :ts, :transport, :waste, :digital, :total_co2_kg, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insert, log); err != nil {
		return fmt.Errorf("insert daily log: %w", err)
	}

	const bump = `UPDATE students SET total_co2_kg = total_co2_kg + $2, log_count = log_count + 1, last_active_at = $3
        WHERE id = $1`
	if _, err := tx.ExecContext(ctx, bump, log.StudentID, log.TotalCo2Kg, time.Now().UTC()); err != nil {
		return fmt.Errorf("update student totals: %w", err)
	}

	return tx.Commit()
}

// ListByStudent returns a student's logs newest first.
func (r *LogRepository) ListByStudent(ctx context.Context, studentID string) ([]models.DailyLog, error) {
	const query = `SELECT id, student_id, log_date, ts, transport, waste, digital, total_co2_kg, created_at
        FROM daily_logs WHERE student_id = $1 ORDER BY ts DESC`
	var logs []models.DailyLog
	if err := r.db.SelectContext(ctx, &logs, query, studentID); err != nil {
		return nil, fmt.Errorf("list student logs: %w", err)
	}
	return logs, nil
}

// ListByTimestampRange returns every log whose timestamp falls inside the
// inclusive epoch-millisecond range, ordered by student then time.
func (r *LogRepository) ListByTimestampRange(ctx context.Context, fromMillis, toMillis int64) ([]models.DailyLog, error) {
	const query = `SELECT id, student_id, log_date, ts, transport, waste, digital, total_co2_kg, created_at
        FROM daily_logs WHERE ts >= $1 AND ts <= $2 ORDER BY student_id ASC, ts ASC`
	var logs []models.DailyLog
	if err := r.db.SelectContext(ctx, &logs, query, fromMillis, toMillis); err != nil {
		return nil, fmt.Errorf("list logs by range: %w", err)
	}
	return logs, nil
}

// DeleteByTimestampRange removes logs inside the inclusive range and returns
// how many were deleted. Cached student totals are left untouched, matching
// the maintenance semantics of the original tool.
func (r *LogRepository) DeleteByTimestampRange(ctx context.Context, fromMillis, toMillis int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM daily_logs WHERE ts >= $1 AND ts <= $2", fromMillis, toMillis)
	if err != nil {
		return 0, fmt.Errorf("delete logs by range: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted logs: %w", err)
	}
	return deleted, nil
}

// DeleteAll removes every log and resets the cached student counters in the
// same transaction.
func (r *LogRepository) DeleteAll(ctx context.Context) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete all logs: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx, "DELETE FROM daily_logs")
	if err != nil {
		return 0, fmt.Errorf("delete all logs: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted logs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE students SET total_co2_kg = 0, log_count = 0"); err != nil {
		return 0, fmt.Errorf("reset student totals: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}
