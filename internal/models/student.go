package models

import "time"

// StudentProfile is an institution-issued account, e.g. "hocsinh001".
// TotalCo2Kg and LogCount are additive caches maintained at save time; the
// authoritative values are derivable from the student's daily logs.
type StudentProfile struct {
	ID           string     `db:"id" json:"id"`
	DisplayName  string     `db:"display_name" json:"name"`
	ClassLabel   string     `db:"class_label" json:"class"`
	PIN          string     `db:"pin" json:"-"`
	TotalCo2Kg   float64    `db:"total_co2_kg" json:"total_co2_kg"`
	LogCount     int        `db:"log_count" json:"log_count"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	LastActiveAt *time.Time `db:"last_active_at" json:"last_active_at,omitempty"`
}

// HasPIN reports whether the student has completed PIN setup.
func (s StudentProfile) HasPIN() bool {
	return s.PIN != ""
}

// RosterEntry is the admin view of a student including the cached totals.
type RosterEntry struct {
	StudentID  string  `db:"id" json:"student_id"`
	Name       string  `db:"display_name" json:"name"`
	ClassLabel string  `db:"class_label" json:"class"`
	TotalCo2Kg float64 `db:"total_co2_kg" json:"total_co2_kg"`
	LogCount   int     `db:"log_count" json:"log_count"`
	PIN        string  `db:"pin" json:"pin"`
}
