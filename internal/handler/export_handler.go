package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/corsia-app/corsia-api/internal/service"
	"github.com/corsia-app/corsia-api/pkg/response"
)

type exportService interface {
	Schedule(ctx context.Context, enrollmentID string, format service.ExportFormat) (*service.ExportFile, error)
	Attendance(ctx context.Context, enrollmentID string, format service.ExportFormat) (*service.ExportFile, error)
}

// ExportHandler serves schedule and attendance downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Schedule godoc
// @Summary Download an enrollment schedule
// @Tags Exports
// @Produce text/csv,application/pdf
// @Param id path string true "Enrollment ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /exports/enrollments/{id}/schedule [get]
func (h *ExportHandler) Schedule(c *gin.Context) {
	file, err := h.service.Schedule(c.Request.Context(), c.Param("id"), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// Attendance godoc
// @Summary Download an enrollment attendance report
// @Tags Exports
// @Produce text/csv,application/pdf
// @Param id path string true "Enrollment ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /exports/enrollments/{id}/attendance [get]
func (h *ExportHandler) Attendance(c *gin.Context) {
	file, err := h.service.Attendance(c.Request.Context(), c.Param("id"), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

func exportFormat(c *gin.Context) service.ExportFormat {
	return service.ExportFormat(c.DefaultQuery("format", "csv"))
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(200, file.ContentType, file.Data)
}
