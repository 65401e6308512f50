package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/corsia-app/corsia-api/internal/models"
)

// Builder accumulates a non-recurring appointment list for institutional and
// project enrollments, which have no fixed weekly pattern or package size.
// Not safe for concurrent use; each building session owns one Builder.
type Builder struct {
	childName    string
	now          func() time.Time
	appointments []models.Appointment
}

// NewBuilder starts an empty building session. The clock is injectable
// because AddWeekly anchors its loop at "today".
func NewBuilder(childName string, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{childName: childName, now: now}
}

// AddSingle appends one appointment at an operator-chosen date. The date is
// trusted as given: no holiday check.
func (b *Builder) AddSingle(date time.Time, startTime, endTime string, loc models.LocationSnapshot) models.Appointment {
	appt := models.Appointment{
		LessonID:      uuid.NewString(),
		Date:          normalizeDate(date),
		StartTime:     startTime,
		EndTime:       endTime,
		LocationID:    loc.ID,
		LocationName:  loc.Name,
		LocationColor: loc.Color,
		ChildName:     b.childName,
		Status:        models.AppointmentStatusScheduled,
	}
	b.appointments = append(b.appointments, appt)
	b.sort()
	return appt
}

// AddWeekly appends count appointments on the given weekday starting from the
// first occurrence on or after today, skipping holidays with the same loop
// and iteration cap as the standard generator.
func (b *Builder) AddWeekly(weekday time.Weekday, startTime, endTime string, loc models.LocationSnapshot, count int) Result {
	res := GenerateWeekly(SlotSpec{
		StartDate: b.now(),
		Weekday:   &weekday,
		StartTime: startTime,
		EndTime:   endTime,
		Location:  loc,
		ChildName: b.childName,
		Count:     count,
	})
	b.appointments = append(b.appointments, res.Appointments...)
	b.sort()
	return res
}

// Remove drops the appointment with the given lesson ID, returning true when
// something was removed.
func (b *Builder) Remove(lessonID string) bool {
	for i := range b.appointments {
		if b.appointments[i].LessonID == lessonID {
			b.appointments = append(b.appointments[:i], b.appointments[i+1:]...)
			return true
		}
	}
	return false
}

// Appointments returns the accumulated list, ascending by date.
func (b *Builder) Appointments() []models.Appointment {
	out := make([]models.Appointment, len(b.appointments))
	copy(out, b.appointments)
	return out
}

// Len returns the number of accumulated appointments.
func (b *Builder) Len() int {
	return len(b.appointments)
}

// Finalize writes the accumulated schedule into the enrollment: bounds from
// the min/max dates, totals and remaining credit from the list length, and
// the location snapshot collapsed to the mixed sentinel when appointments
// span more than one location.
func (b *Builder) Finalize(e *models.Enrollment) {
	e.Mode = models.EnrollmentModeInstitutional
	e.Appointments = b.Appointments()
	e.LessonsTotal = len(e.Appointments)
	e.LessonsRemaining = len(e.Appointments)
	e.RecalculateBounds()

	loc, mixed := b.sharedLocation()
	if mixed {
		e.LocationID = models.MixedLocationSentinel
		e.LocationName = models.MixedLocationSentinel
		e.LocationColor = ""
	} else {
		e.LocationID = loc.ID
		e.LocationName = loc.Name
		e.LocationColor = loc.Color
	}
}

func (b *Builder) sharedLocation() (models.LocationSnapshot, bool) {
	if len(b.appointments) == 0 {
		return models.LocationSnapshot{}, false
	}
	first := b.appointments[0]
	for _, a := range b.appointments[1:] {
		if a.LocationID != first.LocationID {
			return models.LocationSnapshot{}, true
		}
	}
	return models.LocationSnapshot{ID: first.LocationID, Name: first.LocationName, Color: first.LocationColor}, false
}

func (b *Builder) sort() {
	tmp := models.Enrollment{Appointments: b.appointments}
	tmp.SortAppointments()
	b.appointments = tmp.Appointments
}
