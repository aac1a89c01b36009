package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecolog-api/internal/dto"
	appErrors "github.com/noah-isme/ecolog-api/pkg/errors"
	"github.com/noah-isme/ecolog-api/pkg/response"
)

type maintenanceService interface {
	DeleteRange(ctx context.Context, req dto.DeleteRangeRequest) (*dto.DeleteResult, error)
	DeleteAllLogs(ctx context.Context, confirmation string) (*dto.DeleteResult, error)
}

// MaintenanceHandler exposes the destructive log cleanup endpoints.
type MaintenanceHandler struct {
	maintenance maintenanceService
}

// NewMaintenanceHandler constructs handler.
func NewMaintenanceHandler(maintenance maintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance}
}

// DeleteRange godoc
// @Summary Delete logs between two calendar dates, inclusive
// @Tags Admin
// @Accept json
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), overrides body"
// @Param to query string false "End date (YYYY-MM-DD), overrides body"
// @Param payload body dto.DeleteRangeRequest false "Date range"
// @Success 200 {object} response.Envelope
// @Router /admin/logs/range [delete]
func (h *MaintenanceHandler) DeleteRange(c *gin.Context) {
	var req dto.DeleteRangeRequest
	if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		req.From, req.To = from, to
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	result, err := h.maintenance.DeleteRange(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// DeleteAll godoc
// @Summary Delete every log and reset cached totals
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.DeleteAllRequest true "Typed confirmation"
// @Success 200 {object} response.Envelope
// @Router /admin/logs [delete]
func (h *MaintenanceHandler) DeleteAll(c *gin.Context) {
	var req dto.DeleteAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	result, err := h.maintenance.DeleteAllLogs(c.Request.Context(), req.Confirmation)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
