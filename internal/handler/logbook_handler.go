package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecolog-api/internal/dto"
	appErrors "github.com/noah-isme/ecolog-api/pkg/errors"
	"github.com/noah-isme/ecolog-api/pkg/response"
)

type logbookService interface {
	Preview(ctx context.Context, req dto.SaveLogRequest) (*dto.PreviewResponse, error)
	Save(ctx context.Context, studentID string, req dto.SaveLogRequest) (*dto.SaveLogResponse, error)
	History(ctx context.Context, studentID string) (*dto.LogListResponse, error)
}

// LogbookHandler exposes the daily log preview/save/list endpoints.
type LogbookHandler struct {
	logbook logbookService
}

// NewLogbookHandler constructs handler.
func NewLogbookHandler(logbook logbookService) *LogbookHandler {
	return &LogbookHandler{logbook: logbook}
}

// Preview godoc
// @Summary Compute emissions for a draft entry without saving
// @Tags Logbook
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.SaveLogRequest true "Draft entry"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/logs/preview [post]
func (h *LogbookHandler) Preview(c *gin.Context) {
	var req dto.SaveLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	resp, err := h.logbook.Preview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Save godoc
// @Summary Save a daily activity log
// @Tags Logbook
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.SaveLogRequest true "Daily entry"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/logs [post]
func (h *LogbookHandler) Save(c *gin.Context) {
	var req dto.SaveLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	resp, err := h.logbook.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// List godoc
// @Summary List a student's logs, newest first
// @Tags Logbook
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/logs [get]
func (h *LogbookHandler) List(c *gin.Context) {
	resp, err := h.logbook.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
