package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecolog-api/internal/dto"
	"github.com/noah-isme/ecolog-api/internal/service"
	appErrors "github.com/noah-isme/ecolog-api/pkg/errors"
	"github.com/noah-isme/ecolog-api/pkg/response"
)

// StudentHandler exposes profile and roster administration endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs handler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// GetProfile godoc
// @Summary Fetch a student profile
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) GetProfile(c *gin.Context) {
	profile, err := h.students.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Merge profile fields into a student account
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/profile [put]
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	profile, err := h.students.UpdateProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// Roster godoc
// @Summary List every student with cached totals
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/students [get]
func (h *StudentHandler) Roster(c *gin.Context) {
	roster, err := h.students.Roster(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, map[string]interface{}{"count": len(roster)})
}

// SeedAccounts godoc
// @Summary Bulk create numbered student accounts
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.SeedAccountsRequest true "Seed parameters"
// @Success 201 {object} response.Envelope
// @Router /admin/students/seed [post]
func (h *StudentHandler) SeedAccounts(c *gin.Context) {
	var req dto.SeedAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	resp, err := h.students.SeedAccounts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Delete godoc
// @Summary Delete one student and that student's logs
// @Tags Admin
// @Param id path string true "Student ID"
// @Success 204
// @Router /admin/students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteAll godoc
// @Summary Delete every student and every log
// @Tags Admin
// @Accept json
// @Param payload body dto.DeleteAllRequest true "Typed confirmation"
// @Success 204
// @Router /admin/students [delete]
func (h *StudentHandler) DeleteAll(c *gin.Context) {
	var req dto.DeleteAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if err := h.students.DeleteAllStudents(c.Request.Context(), req.Confirmation); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
