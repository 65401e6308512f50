package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/corsia-app/corsia-api/internal/models"
)

const (
	// maxWeeklyIterations bounds the weekly-advance loop. Reaching the cap
	// is not an error: the generator returns what it produced and the
	// Requested/Produced counts expose the shortfall.
	maxWeeklyIterations = 100

	// maxRecoveryScanDays bounds the day-by-day scan for an automatic
	// recovery slot (roughly one year of same-weekday candidates).
	maxRecoveryScanDays = 52
)

// SlotSpec describes the recurring weekly slot to generate.
type SlotSpec struct {
	// StartDate anchors the loop. When Weekday is nil the first candidate
	// is StartDate itself; otherwise the anchor first advances day by day
	// to the requested weekday (0=Sunday..6=Saturday, per time.Weekday).
	StartDate time.Time
	Weekday   *time.Weekday
	StartTime string
	EndTime   string
	Location  models.LocationSnapshot
	ChildName string
	Count     int
}

// Result carries the generated appointments together with the requested and
// produced counts, so iteration-cap exhaustion is observable instead of a
// silently short schedule.
type Result struct {
	Appointments []models.Appointment
	Requested    int
	Produced     int
}

// Exhausted reports whether the iteration cap ended generation early.
func (r Result) Exhausted() bool {
	return r.Produced < r.Requested
}

// GenerateWeekly produces up to spec.Count appointments, one per week,
// skipping candidates that land on a holiday. Output is ascending by date by
// construction. Pure function: the caller owns persistence and the derivation
// of enrollment bounds from the emitted slots.
func GenerateWeekly(spec SlotSpec) Result {
	res := Result{Requested: spec.Count}
	if spec.Count <= 0 {
		return res
	}

	cursor := normalizeDate(spec.StartDate)
	if spec.Weekday != nil {
		for cursor.Weekday() != *spec.Weekday {
			cursor = cursor.AddDate(0, 0, 1)
		}
	}

	for i := 0; i < maxWeeklyIterations && res.Produced < spec.Count; i++ {
		if !IsHoliday(cursor) {
			res.Appointments = append(res.Appointments, models.Appointment{
				LessonID:      uuid.NewString(),
				Date:          cursor,
				StartTime:     spec.StartTime,
				EndTime:       spec.EndTime,
				LocationID:    spec.Location.ID,
				LocationName:  spec.Location.Name,
				LocationColor: spec.Location.Color,
				ChildName:     spec.ChildName,
				Status:        models.AppointmentStatusScheduled,
			})
			res.Produced++
		}
		cursor = cursor.AddDate(0, 0, 7)
	}
	return res
}
