package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEasterSundayKnownYears(t *testing.T) {
	// Easter Mondays 2024-2030 are documented reference values; Easter
	// Sunday is the day before each.
	expected := map[int]time.Time{
		2024: date(2024, time.March, 31),
		2025: date(2025, time.April, 20),
		2026: date(2026, time.April, 5),
		2027: date(2027, time.March, 28),
		2028: date(2028, time.April, 16),
		2029: date(2029, time.April, 1),
		2030: date(2030, time.April, 21),
	}
	for year, want := range expected {
		require.Equal(t, want, EasterSunday(year), "easter %d", year)
	}
}

func TestIsHolidayFixedDates(t *testing.T) {
	fixed := []time.Time{
		date(2025, time.January, 1),
		date(2025, time.January, 6),
		date(2025, time.April, 25),
		date(2025, time.May, 1),
		date(2025, time.June, 2),
		date(2025, time.August, 15),
		date(2025, time.November, 1),
		date(2025, time.December, 8),
		date(2025, time.December, 25),
		date(2025, time.December, 26),
	}
	for _, d := range fixed {
		assert.True(t, IsHoliday(d), "%s should be a holiday", d.Format("2006-01-02"))
	}
}

func TestIsHolidayEasterMonday(t *testing.T) {
	mondays := []time.Time{
		date(2024, time.April, 1),
		date(2025, time.April, 21),
		date(2026, time.April, 6),
		date(2027, time.March, 29),
		date(2028, time.April, 17),
		date(2029, time.April, 2),
		date(2030, time.April, 22),
	}
	for _, d := range mondays {
		assert.True(t, IsHoliday(d), "easter monday %s", d.Format("2006-01-02"))
		// Easter Sunday itself is not a blocking day.
		assert.False(t, IsHoliday(d.AddDate(0, 0, -1)), "easter sunday %s", d.Format("2006-01-02"))
	}
}

func TestIsHolidayExactCountPerYear(t *testing.T) {
	for year := 2024; year <= 2030; year++ {
		count := 0
		for d := date(year, time.January, 1); d.Year() == year; d = d.AddDate(0, 0, 1) {
			if IsHoliday(d) {
				count++
			}
		}
		assert.Equal(t, 11, count, "holidays in %d", year)
	}
}

func TestIsHolidayOrdinaryDays(t *testing.T) {
	ordinary := []time.Time{
		date(2025, time.January, 13),
		date(2025, time.February, 14),
		date(2025, time.July, 9),
		date(2026, time.October, 20),
	}
	for _, d := range ordinary {
		assert.False(t, IsHoliday(d), "%s", d.Format("2006-01-02"))
	}
}

func TestHolidaysListsYearInOrder(t *testing.T) {
	holidays := Holidays(2025)
	require.Len(t, holidays, 11)
	for i := 1; i < len(holidays); i++ {
		assert.True(t, holidays[i].Date.After(holidays[i-1].Date))
	}
	var names []string
	for _, h := range holidays {
		names = append(names, h.Name)
	}
	assert.Contains(t, names, "Lunedì dell'Angelo")
	assert.Equal(t, date(2025, time.April, 21), holidays[2].Date)
}

func TestIsHolidayFarYears(t *testing.T) {
	// Closed-form Easter keeps any year valid input.
	assert.NotPanics(t, func() {
		IsHoliday(date(1583, time.April, 1))
		IsHoliday(date(3000, time.April, 1))
	})
	assert.True(t, IsHoliday(date(1900, time.December, 25)))
}
