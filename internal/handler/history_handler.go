package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecolog-api/internal/service"
	"github.com/noah-isme/ecolog-api/pkg/response"
)

// HistoryHandler exposes the derived history aggregates.
type HistoryHandler struct {
	history *service.HistoryService
}

// NewHistoryHandler constructs handler.
func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// Daily godoc
// @Summary Per-day totals for the full history
// @Tags History
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/history/daily [get]
func (h *HistoryHandler) Daily(c *gin.Context) {
	resp, err := h.history.Daily(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Recent godoc
// @Summary Last active days for the dashboard chart
// @Tags History
// @Produce json
// @Param id path string true "Student ID"
// @Param buckets query int false "Number of trailing active days (default 7)"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/history/recent [get]
func (h *HistoryHandler) Recent(c *gin.Context) {
	buckets, _ := strconv.Atoi(c.Query("buckets"))
	resp, err := h.history.Recent(c.Request.Context(), c.Param("id"), buckets)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Breakdown godoc
// @Summary Cumulative footprint split by category
// @Tags History
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/history/breakdown [get]
func (h *HistoryHandler) Breakdown(c *gin.Context) {
	resp, err := h.history.Breakdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
