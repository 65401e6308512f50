package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corsia-app/corsia-api/internal/dto"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
	"github.com/corsia-app/corsia-api/pkg/response"
)

type attendanceService interface {
	MarkPresent(ctx context.Context, enrollmentID, lessonID string) (*dto.AttendanceResponse, error)
	MarkAbsent(ctx context.Context, enrollmentID, lessonID string, req dto.MarkAbsentRequest) (*dto.AttendanceResponse, error)
	MarkAbsentBulk(ctx context.Context, req dto.BulkAbsenceRequest) ([]dto.BulkAbsenceResult, error)
	Revert(ctx context.Context, enrollmentID, lessonID string) (*dto.AttendanceResponse, error)
	DeleteAppointment(ctx context.Context, enrollmentID, lessonID string) (*dto.AttendanceResponse, error)
}

// AttendanceHandler exposes attendance and recovery endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler builds a new handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// MarkPresent godoc
// @Summary Mark a lesson as attended
// @Tags Attendance
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/appointments/{lessonId}/present [post]
func (h *AttendanceHandler) MarkPresent(c *gin.Context) {
	result, err := h.service.MarkPresent(c.Request.Context(), c.Param("id"), c.Param("lessonId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// MarkAbsent godoc
// @Summary Mark a lesson as missed with a recovery decision
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param lessonId path string true "Lesson ID"
// @Param payload body dto.MarkAbsentRequest true "Absence payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/appointments/{lessonId}/absent [post]
func (h *AttendanceHandler) MarkAbsent(c *gin.Context) {
	var req dto.MarkAbsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid absence payload"))
		return
	}
	result, err := h.service.MarkAbsent(c.Request.Context(), c.Param("id"), c.Param("lessonId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.RecoveryExhausted {
		response.JSON(c, http.StatusOK, result, nil, response.Warning("no valid recovery slot found within the scan window"))
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// MarkAbsentBulk godoc
// @Summary Apply one recovery decision to a group of lessons
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.BulkAbsenceRequest true "Bulk absence payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/bulk-absence [post]
func (h *AttendanceHandler) MarkAbsentBulk(c *gin.Context) {
	var req dto.BulkAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk absence payload"))
		return
	}
	results, err := h.service.MarkAbsentBulk(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// Revert godoc
// @Summary Return a lesson to the scheduled state
// @Tags Attendance
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/appointments/{lessonId}/revert [post]
func (h *AttendanceHandler) Revert(c *gin.Context) {
	result, err := h.service.Revert(c.Request.Context(), c.Param("id"), c.Param("lessonId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// DeleteAppointment godoc
// @Summary Delete one appointment from an enrollment
// @Tags Attendance
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/appointments/{lessonId} [delete]
func (h *AttendanceHandler) DeleteAppointment(c *gin.Context) {
	result, err := h.service.DeleteAppointment(c.Request.Context(), c.Param("id"), c.Param("lessonId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
