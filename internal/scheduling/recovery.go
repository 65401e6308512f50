package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/corsia-app/corsia-api/internal/models"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
)

// Strategy selects the fate of a missed lesson.
type Strategy string

const (
	// StrategyLost burns the slot: the absence stands, nothing is
	// rescheduled and the credit is not restored.
	StrategyLost Strategy = "lost"
	// StrategyRecoverAuto reschedules onto the next valid weekly slot
	// after the enrollment's latest appointment.
	StrategyRecoverAuto Strategy = "recover_auto"
	// StrategyRecoverManual reschedules onto an operator-chosen slot.
	StrategyRecoverManual Strategy = "recover_manual"
)

// Valid returns true when the strategy is a supported value.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyLost, StrategyRecoverAuto, StrategyRecoverManual:
		return true
	default:
		return false
	}
}

// ManualSlot carries the operator-chosen replacement slot for manual
// recovery. The date is trusted as given: no holiday or weekday check. A zero
// Location inherits the enrollment's current assignment.
type ManualSlot struct {
	Date      time.Time
	StartTime string
	EndTime   string
	Location  models.LocationSnapshot
}

// Outcome reports the appointment-list mutation decided for an absence.
// Appended is nil for the lost strategy and for an exhausted auto search.
type Outcome struct {
	Appended  *models.Appointment
	Exhausted bool
}

// PlanRecovery computes and applies the strategy-dependent mutation for an
// absent appointment. Credit is never touched here: recovery preserves the
// credit implicitly by providing a new slot for it to be consumed on, and
// the lost strategy simply leaves the already-consumed slot behind.
//
// Auto recovery anchors on the weekday of the chronologically latest
// appointment in the enrollment, not the absent one's, so rescheduling always
// appends after the last known lesson instead of inserting mid-schedule.
func PlanRecovery(e *models.Enrollment, lessonID string, strategy Strategy, manual *ManualSlot) (Outcome, error) {
	if e.FindAppointment(lessonID) < 0 {
		return Outcome{}, appErrors.Clone(appErrors.ErrNotFound, "lesson not found in enrollment")
	}
	switch strategy {
	case StrategyLost:
		return Outcome{}, nil
	case StrategyRecoverAuto:
		return planAuto(e), nil
	case StrategyRecoverManual:
		if manual == nil {
			return Outcome{}, appErrors.Clone(appErrors.ErrValidation, "manual recovery requires a target slot")
		}
		return planManual(e, manual), nil
	default:
		return Outcome{}, appErrors.Clone(appErrors.ErrValidation, "unknown recovery strategy")
	}
}

func planAuto(e *models.Enrollment) Outcome {
	ref := latestAppointment(e)
	if ref == nil {
		return Outcome{Exhausted: true}
	}
	refDate := normalizeDate(ref.Date)
	for i := 1; i <= maxRecoveryScanDays; i++ {
		candidate := refDate.AddDate(0, 0, i)
		if candidate.Weekday() != refDate.Weekday() || IsHoliday(candidate) {
			continue
		}
		appt := models.Appointment{
			LessonID:      uuid.NewString(),
			Date:          candidate,
			StartTime:     ref.StartTime,
			EndTime:       ref.EndTime,
			LocationID:    ref.LocationID,
			LocationName:  ref.LocationName,
			LocationColor: ref.LocationColor,
			ChildName:     ref.ChildName,
			Status:        models.AppointmentStatusScheduled,
		}
		appendAppointment(e, appt)
		return Outcome{Appended: &e.Appointments[e.FindAppointment(appt.LessonID)]}
	}
	return Outcome{Exhausted: true}
}

func planManual(e *models.Enrollment, manual *ManualSlot) Outcome {
	loc := manual.Location
	if loc.ID == "" {
		loc = e.CurrentLocation()
	}
	appt := models.Appointment{
		LessonID:      uuid.NewString(),
		Date:          normalizeDate(manual.Date),
		StartTime:     manual.StartTime,
		EndTime:       manual.EndTime,
		LocationID:    loc.ID,
		LocationName:  loc.Name,
		LocationColor: loc.Color,
		ChildName:     e.ChildName,
		Status:        models.AppointmentStatusScheduled,
	}
	appendAppointment(e, appt)
	return Outcome{Appended: &e.Appointments[e.FindAppointment(appt.LessonID)]}
}

func appendAppointment(e *models.Enrollment, appt models.Appointment) {
	e.Appointments = append(e.Appointments, appt)
	e.SortAppointments()
	if e.Mode == models.EnrollmentModeStandard {
		e.RecalculateBounds()
	}
}

func latestAppointment(e *models.Enrollment) *models.Appointment {
	var latest *models.Appointment
	for i := range e.Appointments {
		if latest == nil || e.Appointments[i].Date.After(latest.Date) {
			latest = &e.Appointments[i]
		}
	}
	return latest
}
