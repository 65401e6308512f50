package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corsia-app/corsia-api/internal/dto"
	"github.com/corsia-app/corsia-api/internal/models"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
)

type attendanceServiceMock struct {
	lastEnrollment string
	lastLesson     string
	lastRequest    dto.MarkAbsentRequest
	response       *dto.AttendanceResponse
	err            error
}

func (m *attendanceServiceMock) MarkPresent(ctx context.Context, enrollmentID, lessonID string) (*dto.AttendanceResponse, error) {
	m.lastEnrollment, m.lastLesson = enrollmentID, lessonID
	return m.response, m.err
}

func (m *attendanceServiceMock) MarkAbsent(ctx context.Context, enrollmentID, lessonID string, req dto.MarkAbsentRequest) (*dto.AttendanceResponse, error) {
	m.lastEnrollment, m.lastLesson, m.lastRequest = enrollmentID, lessonID, req
	return m.response, m.err
}

func (m *attendanceServiceMock) MarkAbsentBulk(ctx context.Context, req dto.BulkAbsenceRequest) ([]dto.BulkAbsenceResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	results := make([]dto.BulkAbsenceResult, 0, len(req.Items))
	for _, item := range req.Items {
		results = append(results, dto.BulkAbsenceResult{EnrollmentID: item.EnrollmentID, LessonID: item.LessonID})
	}
	return results, nil
}

func (m *attendanceServiceMock) Revert(ctx context.Context, enrollmentID, lessonID string) (*dto.AttendanceResponse, error) {
	m.lastEnrollment, m.lastLesson = enrollmentID, lessonID
	return m.response, m.err
}

func (m *attendanceServiceMock) DeleteAppointment(ctx context.Context, enrollmentID, lessonID string) (*dto.AttendanceResponse, error) {
	m.lastEnrollment, m.lastLesson = enrollmentID, lessonID
	return m.response, m.err
}

func attendanceTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{
		{Key: "id", Value: "enr-1"},
		{Key: "lessonId", Value: "l-1"},
	}
	return c, w
}

func TestAttendanceHandlerMarkPresent(t *testing.T) {
	mockSvc := &attendanceServiceMock{response: &dto.AttendanceResponse{
		Enrollment: &models.Enrollment{ID: "enr-1", LessonsRemaining: 9},
	}}
	handler := NewAttendanceHandler(mockSvc)
	c, w := attendanceTestContext(t, http.MethodPost, "/enrollments/enr-1/appointments/l-1/present", "")

	handler.MarkPresent(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "enr-1", mockSvc.lastEnrollment)
	assert.Equal(t, "l-1", mockSvc.lastLesson)
}

func TestAttendanceHandlerMarkAbsentPassesStrategy(t *testing.T) {
	mockSvc := &attendanceServiceMock{response: &dto.AttendanceResponse{
		Enrollment: &models.Enrollment{ID: "enr-1"},
		Recovery:   &models.Appointment{LessonID: "l-new", Date: time.Date(2025, time.July, 16, 0, 0, 0, 0, time.UTC)},
	}}
	handler := NewAttendanceHandler(mockSvc)
	c, w := attendanceTestContext(t, http.MethodPost, "/enrollments/enr-1/appointments/l-1/absent", `{"strategy":"recover_auto"}`)

	handler.MarkAbsent(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "recover_auto", mockSvc.lastRequest.Strategy)
}

func TestAttendanceHandlerMarkAbsentRejectsBadJSON(t *testing.T) {
	handler := NewAttendanceHandler(&attendanceServiceMock{})
	c, w := attendanceTestContext(t, http.MethodPost, "/enrollments/enr-1/appointments/l-1/absent", `{"strategy":`)

	handler.MarkAbsent(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceHandlerExhaustionWarning(t *testing.T) {
	mockSvc := &attendanceServiceMock{response: &dto.AttendanceResponse{
		Enrollment:        &models.Enrollment{ID: "enr-1"},
		RecoveryExhausted: true,
	}}
	handler := NewAttendanceHandler(mockSvc)
	c, w := attendanceTestContext(t, http.MethodPost, "/enrollments/enr-1/appointments/l-1/absent", `{"strategy":"recover_auto"}`)

	handler.MarkAbsent(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Contains(t, envelope.Meta, "warning")
}

func TestAttendanceHandlerPropagatesNotFound(t *testing.T) {
	mockSvc := &attendanceServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")}
	handler := NewAttendanceHandler(mockSvc)
	c, w := attendanceTestContext(t, http.MethodPost, "/enrollments/enr-1/appointments/l-1/present", "")

	handler.MarkPresent(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceHandlerBulkAbsence(t *testing.T) {
	handler := NewAttendanceHandler(&attendanceServiceMock{})
	c, w := attendanceTestContext(t, http.MethodPost, "/attendance/bulk-absence",
		`{"strategy":"lost","items":[{"enrollmentId":"enr-1","lessonId":"l-1"},{"enrollmentId":"enr-2","lessonId":"l-9"}]}`)

	handler.MarkAbsentBulk(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data []dto.BulkAbsenceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "enr-2", envelope.Data[1].EnrollmentID)
}
