package dto

import "github.com/noah-isme/ecolog-api/internal/models"

// GenerateReportRequest queues a monthly emissions export.
type GenerateReportRequest struct {
	Year   int                 `json:"year" validate:"required,min=2020,max=2100"`
	Months []int               `json:"months" validate:"required,min=1,dive,min=1,max=12"`
	Format models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportJobResponse is the job status payload.
type ReportJobResponse struct {
	ID           string              `json:"id"`
	Status       models.ReportStatus `json:"status"`
	Progress     int                 `json:"progress"`
	ResultURL    *string             `json:"result_url,omitempty"`
	ErrorMessage *string             `json:"error_message,omitempty"`
}

// DeleteRangeRequest removes logs between two calendar dates, inclusive.
type DeleteRangeRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// DeleteResult reports how many logs a maintenance operation removed.
type DeleteResult struct {
	Deleted int64 `json:"deleted"`
}
