package scheduling

import (
	"sort"
	"time"
)

// fixedHolidays lists the Italian public holidays that fall on the same
// calendar date every year.
var fixedHolidays = [...]struct {
	Month time.Month
	Day   int
	Name  string
}{
	{time.January, 1, "Capodanno"},
	{time.January, 6, "Epifania"},
	{time.April, 25, "Festa della Liberazione"},
	{time.May, 1, "Festa del Lavoro"},
	{time.June, 2, "Festa della Repubblica"},
	{time.August, 15, "Ferragosto"},
	{time.November, 1, "Ognissanti"},
	{time.December, 8, "Immacolata Concezione"},
	{time.December, 25, "Natale"},
	{time.December, 26, "Santo Stefano"},
}

// Holiday is one non-working day in a calendar year.
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// Holidays returns the blocking holidays of a year in ascending date order:
// the fixed national holidays plus the movable Easter Monday.
func Holidays(year int) []Holiday {
	out := make([]Holiday, 0, len(fixedHolidays)+1)
	for _, h := range fixedHolidays {
		out = append(out, Holiday{
			Date: time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC),
			Name: h.Name,
		})
	}
	easterMonday := EasterSunday(year).AddDate(0, 0, 1)
	out = append(out, Holiday{Date: easterMonday, Name: "Lunedì dell'Angelo"})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// EasterSunday computes Easter Sunday for the given year with the Gaussian
// Easter algorithm, including the two classical correction cases. Closed-form
// so any year is valid without a lookup table.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year % 4
	c := year % 7
	k := year / 100
	p := (13 + 8*k) / 25
	q := k / 4
	m := (15 - p + k - q) % 30
	n := (4 + k - q) % 7
	d := (19*a + m) % 30
	e := (2*b + 4*c + 6*d + n) % 7

	month := time.March
	day := 22 + d + e
	if day > 31 {
		day -= 31
		month = time.April
	}
	if d == 29 && e == 6 {
		month, day = time.April, 19
	}
	if d == 28 && e == 6 && (11*m+11)%30 < 19 {
		month, day = time.April, 18
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IsHoliday reports whether the date is a non-working day on which no lesson
// may be auto-scheduled: a fixed Italian public holiday or the Easter Monday
// of the date's year. Easter Sunday itself never collides with the weekly
// loops in practice and is not treated as blocking.
func IsHoliday(date time.Time) bool {
	for _, h := range fixedHolidays {
		if date.Month() == h.Month && date.Day() == h.Day {
			return true
		}
	}
	easterMonday := EasterSunday(date.Year()).AddDate(0, 0, 1)
	return date.Month() == easterMonday.Month() && date.Day() == easterMonday.Day()
}

// normalizeDate truncates a timestamp to midnight UTC. All engine date
// arithmetic happens on normalized dates so wall-clock times never shift a
// weekday across a DST boundary.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
