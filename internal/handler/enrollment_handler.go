package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corsia-app/corsia-api/internal/dto"
	"github.com/corsia-app/corsia-api/internal/models"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
	"github.com/corsia-app/corsia-api/pkg/response"
)

type enrollmentService interface {
	Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.Enrollment, error)
	Preview(ctx context.Context, req dto.PreviewScheduleRequest) (*dto.SchedulePreviewResponse, error)
	Get(ctx context.Context, id string) (*models.Enrollment, error)
	List(ctx context.Context, query dto.ListEnrollmentsQuery) ([]models.Enrollment, *models.Pagination, error)
	Delete(ctx context.Context, id string) error
	StartSession(req dto.StartBuilderSessionRequest) (*dto.BuilderSessionResponse, error)
	AddSingleSlot(ctx context.Context, sessionID string, req dto.AddSingleSlotRequest) (*dto.BuilderSessionResponse, error)
	AddWeeklySlots(ctx context.Context, sessionID string, req dto.AddWeeklySlotsRequest) (*dto.AddWeeklySlotsResponse, error)
	RemoveSlot(sessionID, lessonID string) (*dto.BuilderSessionResponse, error)
	FinalizeSession(ctx context.Context, sessionID string) (*models.Enrollment, error)
}

// EnrollmentHandler exposes enrollment and builder-session endpoints.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler builds a new handler.
func NewEnrollmentHandler(service enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// Create godoc
// @Summary Create a standard weekly enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.CreateEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}
	enrollment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Preview godoc
// @Summary Preview the weekly schedule a package would produce
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.PreviewScheduleRequest true "Preview payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/preview [post]
func (h *EnrollmentHandler) Preview(c *gin.Context) {
	var req dto.PreviewScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preview payload"))
		return
	}
	preview, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if preview.Exhausted {
		response.JSON(c, http.StatusOK, preview, nil, response.Warning("generation stopped before reaching the requested lesson count"))
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param clientId query string false "Filter by client"
// @Param locationId query string false "Filter by location"
// @Param status query string false "Filter by status"
// @Param mode query string false "Filter by mode"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var query dto.ListEnrollmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid listing query"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get one enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	enrollment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Delete godoc
// @Summary Delete an enrollment
// @Tags Enrollments
// @Param id path string true "Enrollment ID"
// @Success 204
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// StartSession godoc
// @Summary Start a custom schedule builder session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.StartBuilderSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *EnrollmentHandler) StartSession(c *gin.Context) {
	var req dto.StartBuilderSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}
	session, err := h.service.StartSession(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// AddSingleSlot godoc
// @Summary Append one explicit appointment to a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.AddSingleSlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/appointments [post]
func (h *EnrollmentHandler) AddSingleSlot(c *gin.Context) {
	var req dto.AddSingleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	session, err := h.service.AddSingleSlot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// AddWeeklySlots godoc
// @Summary Append a weekly series to a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.AddWeeklySlotsRequest true "Weekly payload"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/weekly [post]
func (h *EnrollmentHandler) AddWeeklySlots(c *gin.Context) {
	var req dto.AddWeeklySlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid weekly payload"))
		return
	}
	result, err := h.service.AddWeeklySlots(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Exhausted {
		response.JSON(c, http.StatusOK, result, nil, response.Warning("generation stopped before reaching the requested lesson count"))
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// RemoveSlot godoc
// @Summary Remove one appointment from a session draft
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/appointments/{lessonId} [delete]
func (h *EnrollmentHandler) RemoveSlot(c *gin.Context) {
	session, err := h.service.RemoveSlot(c.Param("id"), c.Param("lessonId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// FinalizeSession godoc
// @Summary Persist a session draft as an institutional enrollment
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} response.Envelope
// @Router /sessions/{id}/finalize [post]
func (h *EnrollmentHandler) FinalizeSession(c *gin.Context) {
	enrollment, err := h.service.FinalizeSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}
