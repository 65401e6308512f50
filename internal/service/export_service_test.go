package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
)

func TestExportScheduleCSV(t *testing.T) {
	store := newEnrollmentStoreStub()
	seedEnrollment(store, "enr-1")
	svc := NewExportService(store, true, nil)

	file, err := svc.Schedule(context.Background(), "enr-1", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "schedule-enr-1.csv", file.FileName)
	assert.Equal(t, "text/csv", file.ContentType)

	content := string(file.Data)
	assert.Contains(t, content, "Date,Start,End,Location,Status")
	assert.Contains(t, content, "2025-01-13")
	assert.Contains(t, content, "Piscina Comunale")
	// Header plus ten lessons.
	assert.Equal(t, 11, strings.Count(strings.TrimSpace(content), "\n")+1)
}

func TestExportAttendancePDF(t *testing.T) {
	store := newEnrollmentStoreStub()
	seedEnrollment(store, "enr-1")
	svc := NewExportService(store, true, nil)

	file, err := svc.Attendance(context.Background(), "enr-1", ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "attendance-enr-1.pdf", file.FileName)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))
}

func TestExportDisabled(t *testing.T) {
	store := newEnrollmentStoreStub()
	seedEnrollment(store, "enr-1")
	svc := NewExportService(store, false, nil)

	_, err := svc.Schedule(context.Background(), "enr-1", ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestExportUnsupportedFormat(t *testing.T) {
	store := newEnrollmentStoreStub()
	seedEnrollment(store, "enr-1")
	svc := NewExportService(store, true, nil)

	_, err := svc.Schedule(context.Background(), "enr-1", ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportUnknownEnrollment(t *testing.T) {
	svc := NewExportService(newEnrollmentStoreStub(), true, nil)

	_, err := svc.Schedule(context.Background(), "missing", ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
