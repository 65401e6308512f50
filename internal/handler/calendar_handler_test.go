package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corsia-app/corsia-api/internal/scheduling"
)

func calendarTestContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, rec
}

func TestCalendarHandlerHolidaysForYear(t *testing.T) {
	c, rec := calendarTestContext(t, "/calendar/holidays?year=2025")

	NewCalendarHandler().Holidays(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []scheduling.Holiday   `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 11)
	assert.Equal(t, "Capodanno", envelope.Data[0].Name)
	assert.Equal(t, float64(2025), envelope.Meta["year"])
}

func TestCalendarHandlerRejectsBadYear(t *testing.T) {
	c, rec := calendarTestContext(t, "/calendar/holidays?year=-4")

	NewCalendarHandler().Holidays(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
