package scheduling

import (
	"github.com/corsia-app/corsia-api/internal/models"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
)

// MarkPresent transitions an appointment to PRESENT and consumes one lesson
// credit. Idempotent: re-marking an already present appointment changes
// nothing. The appointment's location snapshot is refreshed from the
// enrollment's current assignment, correcting drift when the enrollment moved
// site between scheduling and the lesson itself; institutional enrollments
// carry the mixed sentinel and keep their per-appointment locations.
func MarkPresent(e *models.Enrollment, lessonID string) error {
	idx := e.FindAppointment(lessonID)
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "lesson not found in enrollment")
	}
	appt := &e.Appointments[idx]
	if appt.Status == models.AppointmentStatusPresent {
		return nil
	}
	appt.Status = models.AppointmentStatusPresent
	if loc := e.CurrentLocation(); loc.ID != "" && loc.ID != models.MixedLocationSentinel {
		appt.LocationID = loc.ID
		appt.LocationName = loc.Name
		appt.LocationColor = loc.Color
	}
	if e.LessonsRemaining > 0 {
		e.LessonsRemaining--
	}
	return nil
}

// MarkAbsent transitions an appointment to ABSENT and applies the recovery
// strategy. The absence itself never touches the credit counter; only the
// strategy decides whether the slot is burned or rescheduled. Re-marking an
// absence is allowed and idempotent at the status level.
func MarkAbsent(e *models.Enrollment, lessonID string, strategy Strategy, manual *ManualSlot) (Outcome, error) {
	idx := e.FindAppointment(lessonID)
	if idx < 0 {
		return Outcome{}, appErrors.Clone(appErrors.ErrNotFound, "lesson not found in enrollment")
	}
	e.Appointments[idx].Status = models.AppointmentStatusAbsent
	return PlanRecovery(e, lessonID, strategy, manual)
}

// Revert returns an appointment to SCHEDULED. A reverted presence restores
// one lesson credit, capped at the package total.
func Revert(e *models.Enrollment, lessonID string) error {
	idx := e.FindAppointment(lessonID)
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "lesson not found in enrollment")
	}
	appt := &e.Appointments[idx]
	if appt.Status == models.AppointmentStatusPresent && e.LessonsRemaining < e.LessonsTotal {
		e.LessonsRemaining++
	}
	appt.Status = models.AppointmentStatusScheduled
	return nil
}

// Delete removes an appointment from the enrollment. Deleting a PRESENT
// appointment restores its credit exactly like Revert, so credit cannot leak
// through deletion.
func Delete(e *models.Enrollment, lessonID string) error {
	idx := e.FindAppointment(lessonID)
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "lesson not found in enrollment")
	}
	if e.Appointments[idx].Status == models.AppointmentStatusPresent && e.LessonsRemaining < e.LessonsTotal {
		e.LessonsRemaining++
	}
	e.Appointments = append(e.Appointments[:idx], e.Appointments[idx+1:]...)
	if e.Mode == models.EnrollmentModeStandard {
		e.RecalculateBounds()
	}
	return nil
}
