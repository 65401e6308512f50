package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corsia-app/corsia-api/internal/scheduling"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
	"github.com/corsia-app/corsia-api/pkg/response"
)

// CalendarHandler exposes the holiday calendar used by the scheduler.
type CalendarHandler struct{}

// NewCalendarHandler builds a new handler.
func NewCalendarHandler() *CalendarHandler {
	return &CalendarHandler{}
}

// Holidays godoc
// @Summary List the blocking holidays of a year
// @Tags Calendar
// @Produce json
// @Param year query int false "Calendar year, defaults to the current one"
// @Success 200 {object} response.Envelope
// @Router /calendar/holidays [get]
func (h *CalendarHandler) Holidays(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1583 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be a Gregorian calendar year"))
			return
		}
		year = parsed
	}
	response.JSON(c, http.StatusOK, scheduling.Holidays(year), nil, map[string]interface{}{"year": year})
}
