package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/corsia-app/corsia-api/internal/models"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
	"github.com/corsia-app/corsia-api/pkg/export"
)

// ExportFormat names a supported download format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered download.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

type enrollmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
}

// ExportService renders enrollment schedules and attendance reports as CSV or
// PDF downloads.
type ExportService struct {
	enrollments enrollmentReader
	enabled     bool
	logger      *zap.Logger
}

// NewExportService wires export dependencies.
func NewExportService(enrollments enrollmentReader, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{enrollments: enrollments, enabled: enabled, logger: logger}
}

// Schedule renders the full appointment list of one enrollment.
func (s *ExportService) Schedule(ctx context.Context, enrollmentID string, format ExportFormat) (*ExportFile, error) {
	enrollment, err := s.load(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	table := export.Table{
		Title:   fmt.Sprintf("Schedule %s", enrollment.ChildName),
		Columns: []string{"Date", "Start", "End", "Location", "Status"},
	}
	for _, appt := range enrollment.Appointments {
		table.Rows = append(table.Rows, []string{
			appt.Date.Format("2006-01-02"),
			appt.StartTime,
			appt.EndTime,
			appt.LocationName,
			string(appt.Status),
		})
	}
	return s.render(table, fmt.Sprintf("schedule-%s", enrollment.ID), format)
}

// Attendance renders an attendance summary: credit counters plus per-lesson
// outcomes.
func (s *ExportService) Attendance(ctx context.Context, enrollmentID string, format ExportFormat) (*ExportFile, error) {
	enrollment, err := s.load(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	table := export.Table{
		Title: fmt.Sprintf("Attendance %s (%d/%d lessons remaining)",
			enrollment.ChildName, enrollment.LessonsRemaining, enrollment.LessonsTotal),
		Columns: []string{"Date", "Child", "Location", "Outcome"},
	}
	for _, appt := range enrollment.Appointments {
		table.Rows = append(table.Rows, []string{
			appt.Date.Format("2006-01-02"),
			appt.ChildName,
			appt.LocationName,
			string(appt.Status),
		})
	}
	return s.render(table, fmt.Sprintf("attendance-%s", enrollment.ID), format)
}

func (s *ExportService) load(ctx context.Context, enrollmentID string) (*models.Enrollment, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "exports are disabled")
	}
	return s.enrollments.FindByID(ctx, enrollmentID)
}

func (s *ExportService) render(table export.Table, baseName string, format ExportFormat) (*ExportFile, error) {
	switch ExportFormat(strings.ToLower(string(format))) {
	case ExportFormatCSV:
		data, err := export.CSV(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{FileName: baseName + ".csv", ContentType: "text/csv", Data: data}, nil
	case ExportFormatPDF:
		data, err := export.PDF(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{FileName: baseName + ".pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
