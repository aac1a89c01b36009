package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecolog-api/internal/models"
)

// StudentRepository manages persistence for student accounts.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID fetches a student profile by its institution-issued identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	const query = `SELECT id, display_name, class_label, pin, total_co2_kg, log_count, created_at, last_active_at
        FROM students WHERE id = $1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Roster lists every student with cached totals. Seeded identifiers use
// zero-padded numbers, so plain identifier order is also numeric order.
func (r *StudentRepository) Roster(ctx context.Context) ([]models.RosterEntry, error) {
	const query = `SELECT id, display_name, class_label, pin, total_co2_kg, log_count
        FROM students ORDER BY id ASC`
	var roster []models.RosterEntry
	if err := r.db.SelectContext(ctx, &roster, query); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return roster, nil
}

// Count returns the number of registered students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM students"); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

// MaxSeedNumber returns the highest numeric suffix among identifiers that
// start with prefix. Identifiers whose suffix is not purely numeric are
// ignored. Returns 0 when no seeded identifier matches.
func (r *StudentRepository) MaxSeedNumber(ctx context.Context, prefix string) (int, error) {
	const query = `SELECT COALESCE(MAX(suffix::int), 0) FROM (
            SELECT substring(id FROM char_length($1) + 1) AS suffix
            FROM students WHERE id LIKE $1 || '%'
        ) numbered WHERE suffix ~ '^[0-9]+$'`
	var max int
	if err := r.db.GetContext(ctx, &max, query, prefix); err != nil {
		return 0, fmt.Errorf("max seed number: %w", err)
	}
	return max, nil
}

// UpdateProfileParams carries profile fields to merge. A nil PIN leaves the
// stored PIN untouched.
type UpdateProfileParams struct {
	DisplayName string
	ClassLabel  string
	PIN         *string
}

// UpsertProfile creates the account when missing or merges the profile
// fields when present, matching the document-store merge semantics the
// client relies on.
func (r *StudentRepository) UpsertProfile(ctx context.Context, id string, params UpdateProfileParams) error {
	now := time.Now().UTC()
	if params.PIN != nil {
		const query = `INSERT INTO students (id, display_name, class_label, pin, total_co2_kg, log_count, created_at, last_active_at)
            VALUES ($1, $2, $3, $4, 0, 0, $5, $5)
            ON CONFLICT (id) DO UPDATE SET display_name = $2, class_label = $3, pin = $4, last_active_at = $5`
		if _, err := r.db.ExecContext(ctx, query, id, params.DisplayName, params.ClassLabel, *params.PIN, now); err != nil {
			return fmt.Errorf("upsert student profile: %w", err)
		}
		return nil
	}
	const query = `INSERT INTO students (id, display_name, class_label, pin, total_co2_kg, log_count, created_at, last_active_at)
        VALUES ($1, $2, $3, '', 0, 0, $4, $4)
        ON CONFLICT (id) DO UPDATE SET display_name = $2, class_label = $3, last_active_at = $4`
	if _, err := r.db.ExecContext(ctx, query, id, params.DisplayName, params.ClassLabel, now); err != nil {
		return fmt.Errorf("upsert student profile: %w", err)
	}
	return nil
}

// BulkCreate inserts accounts in chunks, skipping identifiers that already
// exist. The chunk size respects the persistence layer's batch write limits.
func (r *StudentRepository) BulkCreate(ctx context.Context, ids []string, classLabel string, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 400
	}
	now := time.Now().UTC()
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*3)
		for i, id := range chunk {
			base := i * 3
			placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, '', 0, 0)", base+1, base+2, base+3))
			args = append(args, id, classLabel, now)
		}

		query := fmt.Sprintf(`INSERT INTO students (id, class_label, created_at, pin, total_co2_kg, log_count)
            VALUES %s ON CONFLICT (id) DO NOTHING`, strings.Join(placeholders, ", "))
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("bulk create students: %w", err)
		}
	}
	return nil
}

// Delete removes a student and that student's daily logs in one transaction.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM daily_logs WHERE student_id = $1", id); err != nil {
		return fmt.Errorf("delete student logs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return tx.Commit()
}

// DeleteAll removes every student together with all daily logs.
func (r *StudentRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete all students: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM daily_logs"); err != nil {
		return fmt.Errorf("delete all logs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM students"); err != nil {
		return fmt.Errorf("delete all students: %w", err)
	}
	return tx.Commit()
}
