package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corsia-app/corsia-api/internal/models"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
)

func TestRecoveryLostBurnsSlot(t *testing.T) {
	e := newTestEnrollment(10)
	lessonID := e.Appointments[2].LessonID
	before := len(e.Appointments)

	outcome, err := MarkAbsent(e, lessonID, StrategyLost, nil)
	require.NoError(t, err)
	assert.Nil(t, outcome.Appended)
	assert.False(t, outcome.Exhausted)
	assert.Len(t, e.Appointments, before)
	assert.Equal(t, 10, e.LessonsRemaining)
	assert.Equal(t, models.AppointmentStatusAbsent, e.Appointments[2].Status)
}

func TestRecoveryAutoAppendsNextValidWeekday(t *testing.T) {
	// Latest appointment is Wednesday 2025-07-09, 16:00-18:00 at Location A.
	wednesday := time.Wednesday
	res := GenerateWeekly(SlotSpec{
		StartDate: date(2025, time.June, 9),
		Weekday:   &wednesday,
		StartTime: "16:00",
		EndTime:   "18:00",
		Location:  testLocation,
		ChildName: "Giulia",
		Count:     5,
	})
	e := &models.Enrollment{
		ID:               "enr-1",
		ChildName:        "Giulia",
		Mode:             models.EnrollmentModeStandard,
		LessonsTotal:     5,
		LessonsRemaining: 5,
		LocationID:       testLocation.ID,
		LocationName:     testLocation.Name,
		LocationColor:    testLocation.Color,
		Appointments:     res.Appointments,
	}
	e.RecalculateBounds()
	latest := e.Appointments[len(e.Appointments)-1]
	require.Equal(t, date(2025, time.July, 9), latest.Date)

	outcome, err := MarkAbsent(e, e.Appointments[1].LessonID, StrategyRecoverAuto, nil)
	require.NoError(t, err)
	require.NotNil(t, outcome.Appended)
	assert.Equal(t, date(2025, time.July, 16), outcome.Appended.Date)
	assert.Equal(t, time.Wednesday, outcome.Appended.Date.Weekday())
	assert.Equal(t, "16:00", outcome.Appended.StartTime)
	assert.Equal(t, "18:00", outcome.Appended.EndTime)
	assert.Equal(t, testLocation.ID, outcome.Appended.LocationID)
	assert.Equal(t, models.AppointmentStatusScheduled, outcome.Appended.Status)
	assert.Len(t, e.Appointments, 6)
	assert.Equal(t, 5, e.LessonsRemaining)
	assert.Equal(t, date(2025, time.July, 16), e.EndDate)
}

func TestRecoveryAutoSkipsHolidayWeek(t *testing.T) {
	// Latest appointment on Monday 2025-04-14: the next Monday is Easter
	// Monday 2025-04-21, so recovery lands on 2025-04-28.
	e := newTestEnrollment(0)
	e.Appointments = []models.Appointment{{
		LessonID:      "l-1",
		Date:          date(2025, time.April, 14),
		StartTime:     "16:00",
		EndTime:       "17:00",
		LocationID:    testLocation.ID,
		LocationName:  testLocation.Name,
		LocationColor: testLocation.Color,
		ChildName:     "Giulia",
		Status:        models.AppointmentStatusScheduled,
	}}
	e.LessonsTotal, e.LessonsRemaining = 1, 1

	outcome, err := MarkAbsent(e, "l-1", StrategyRecoverAuto, nil)
	require.NoError(t, err)
	require.NotNil(t, outcome.Appended)
	assert.Equal(t, date(2025, time.April, 28), outcome.Appended.Date)
}

func TestRecoveryAutoAnchorsOnLatestAppointment(t *testing.T) {
	// Irregular schedule: the absence is on a Monday but the latest
	// appointment is a Friday. Recovery follows the latest one's weekday.
	e := newTestEnrollment(0)
	e.Appointments = []models.Appointment{
		{LessonID: "l-mon", Date: date(2025, time.June, 9), StartTime: "10:00", EndTime: "11:00", ChildName: "Giulia", Status: models.AppointmentStatusScheduled},
		{LessonID: "l-fri", Date: date(2025, time.June, 20), StartTime: "15:00", EndTime: "16:00", ChildName: "Giulia", Status: models.AppointmentStatusScheduled},
	}
	e.LessonsTotal, e.LessonsRemaining = 2, 2

	outcome, err := MarkAbsent(e, "l-mon", StrategyRecoverAuto, nil)
	require.NoError(t, err)
	require.NotNil(t, outcome.Appended)
	assert.Equal(t, time.Friday, outcome.Appended.Date.Weekday())
	assert.Equal(t, date(2025, time.June, 27), outcome.Appended.Date)
	assert.Equal(t, "15:00", outcome.Appended.StartTime)
}

func TestRecoveryManualTrustsOperatorDate(t *testing.T) {
	e := newTestEnrollment(5)
	lessonID := e.Appointments[0].LessonID
	target := ManualSlot{
		// Christmas: manual input bypasses the holiday check.
		Date:      date(2025, time.December, 25),
		StartTime: "11:00",
		EndTime:   "12:00",
		Location:  models.LocationSnapshot{ID: "loc-9", Name: "Palestra", Color: "#43a047"},
	}

	outcome, err := MarkAbsent(e, lessonID, StrategyRecoverManual, &target)
	require.NoError(t, err)
	require.NotNil(t, outcome.Appended)
	assert.Equal(t, target.Date, outcome.Appended.Date)
	assert.Equal(t, "loc-9", outcome.Appended.LocationID)
	assert.Equal(t, "11:00", outcome.Appended.StartTime)
	assert.Len(t, e.Appointments, 6)
	assert.Equal(t, 5, e.LessonsRemaining)
}

func TestRecoveryManualInheritsEnrollmentLocation(t *testing.T) {
	e := newTestEnrollment(3)
	target := ManualSlot{
		Date:      e.Appointments[2].Date.AddDate(0, 0, 3),
		StartTime: "11:00",
		EndTime:   "12:00",
	}

	outcome, err := MarkAbsent(e, e.Appointments[0].LessonID, StrategyRecoverManual, &target)
	require.NoError(t, err)
	require.NotNil(t, outcome.Appended)
	assert.Equal(t, e.LocationID, outcome.Appended.LocationID)
	assert.Equal(t, e.LocationName, outcome.Appended.LocationName)
}

func TestRecoveryManualRequiresSlot(t *testing.T) {
	e := newTestEnrollment(5)
	_, err := MarkAbsent(e, e.Appointments[0].LessonID, StrategyRecoverManual, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRecoveryUnknownStrategy(t *testing.T) {
	e := newTestEnrollment(5)
	_, err := MarkAbsent(e, e.Appointments[0].LessonID, Strategy("retry_later"), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRecoveryInsertionKeepsOrdering(t *testing.T) {
	e := newTestEnrollment(4)
	target := ManualSlot{Date: e.Appointments[0].Date.AddDate(0, 0, 2), StartTime: "10:00", EndTime: "11:00", Location: testLocation}

	_, err := MarkAbsent(e, e.Appointments[0].LessonID, StrategyRecoverManual, &target)
	require.NoError(t, err)
	for i := 1; i < len(e.Appointments); i++ {
		assert.False(t, e.Appointments[i].Date.Before(e.Appointments[i-1].Date))
	}
}
