package dto

import "github.com/noah-isme/ecolog-api/internal/models"

// TransportInput is one transport activity expressed in minutes of travel.
type TransportInput struct {
	Type    string  `json:"type" validate:"required"`
	Minutes float64 `json:"minutes" validate:"required"`
}

// WasteInput is one waste activity expressed as an item count.
type WasteInput struct {
	Type  string  `json:"type" validate:"required"`
	Count float64 `json:"count" validate:"required"`
}

// DigitalInput is one device-usage activity expressed in hours.
type DigitalInput struct {
	Type  string  `json:"type" validate:"required"`
	Hours float64 `json:"hours" validate:"required"`
}

// SaveLogRequest is the full daily entry submitted by a student. Date and
// Time are wall-clock values in the school's timezone.
type SaveLogRequest struct {
	Date      string           `json:"date" validate:"required"`
	Time      string           `json:"time" validate:"required"`
	Transport []TransportInput `json:"transport" validate:"dive"`
	Waste     []WasteInput     `json:"waste" validate:"dive"`
	Digital   []DigitalInput   `json:"digital" validate:"dive"`
}

// PreviewEntry is one computed activity with its converted quantity and
// emission weight.
type PreviewEntry struct {
	Type     string  `json:"type"`
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Co2Kg    float64 `json:"co2_kg"`
}

// PreviewResponse shows the computed emissions without persisting anything.
type PreviewResponse struct {
	Transport  []PreviewEntry `json:"transport"`
	Waste      []PreviewEntry `json:"waste"`
	Digital    []PreviewEntry `json:"digital"`
	TotalCo2Kg float64        `json:"total_co2_kg"`
}

// SaveLogResponse returns the stored log and, when available, a coaching tip.
type SaveLogResponse struct {
	Log    *models.DailyLog `json:"log"`
	Advice string           `json:"advice,omitempty"`
}
