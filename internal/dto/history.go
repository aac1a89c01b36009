package dto

import "github.com/noah-isme/ecolog-api/internal/models"

// DailyTotal is one calendar day's aggregated emissions.
type DailyTotal struct {
	Date       string  `json:"date"`
	TotalCo2Kg float64 `json:"total_co2_kg"`
	LogCount   int     `json:"log_count"`
}

// HistoryResponse returns the full per-day history, oldest first.
type HistoryResponse struct {
	StudentID string       `json:"student_id"`
	Days      []DailyTotal `json:"days"`
}

// RecentResponse returns the last n active days for the dashboard chart.
type RecentResponse struct {
	StudentID string       `json:"student_id"`
	Days      []DailyTotal `json:"days"`
}

// BreakdownResponse splits the student's cumulative footprint by category,
// recomputed from stored quantities against the current emission tables.
type BreakdownResponse struct {
	StudentID  string  `json:"student_id"`
	Transport  float64 `json:"transport_co2_kg"`
	Waste      float64 `json:"waste_co2_kg"`
	Digital    float64 `json:"digital_co2_kg"`
	TotalCo2Kg float64 `json:"total_co2_kg"`
}

// LogListResponse returns raw log entries, newest first.
type LogListResponse struct {
	StudentID string            `json:"student_id"`
	Logs      []models.DailyLog `json:"logs"`
}
