package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := models.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func holidayOn(entries []DayEntry, day string) []models.Holiday {
	for _, e := range entries {
		if e.Date == day {
			return e.Holidays
		}
	}
	return nil
}

func TestExpandFebruary2025(t *testing.T) {
	entries, err := Expand(2025, time.February, nil, time.Time{})
	require.NoError(t, err)
	require.Len(t, entries, 28)

	assert.Equal(t, "2025-02-01", entries[0].Date)
	assert.True(t, entries[0].IsWeekend, "2025-02-01 is a Saturday")
	assert.True(t, entries[1].IsWeekend, "2025-02-02 is a Sunday")
	assert.False(t, entries[2].IsWeekend, "2025-02-03 is a Monday")
	assert.Equal(t, "2025-02-28", entries[27].Date)
	assert.False(t, entries[27].IsWeekend)

	for _, e := range entries {
		assert.False(t, e.IsToday)
		assert.NotNil(t, e.Holidays)
	}
}

func TestExpandLeapYear(t *testing.T) {
	entries, err := Expand(2024, time.February, nil, time.Time{})
	require.NoError(t, err)
	assert.Len(t, entries, 29)
}

func TestRecurringHolidayMatchesEveryYear(t *testing.T) {
	recurring := models.Holiday{ID: 1, Title: "Birthday of the Father of the Nation", Date: date(t, "2024-03-17"), IsRecurring: true}
	oneOff := models.Holiday{ID: 2, Title: "Special", Date: date(t, "2024-03-17")}
	holidays := []models.Holiday{recurring, oneOff}

	for _, year := range []int{2025, 2026} {
		entries, err := Expand(year, time.March, holidays, time.Time{})
		require.NoError(t, err)
		matched := holidayOn(entries, date(t, "2024-03-17").AddDate(year-2024, 0, 0).Format(models.DateLayout))
		require.Len(t, matched, 1)
		assert.Equal(t, uint(1), matched[0].ID)
	}

	entries, err := Expand(2024, time.March, holidays, time.Time{})
	require.NoError(t, err)
	assert.Len(t, holidayOn(entries, "2024-03-17"), 2)
	assert.Empty(t, holidayOn(entries, "2024-03-18"))
}

func TestExpandMarksToday(t *testing.T) {
	entries, err := Expand(2025, time.May, nil, date(t, "2025-05-09").Add(15*time.Hour))
	require.NoError(t, err)

	for _, e := range entries {
		assert.Equal(t, e.Date == "2025-05-09", e.IsToday, e.Date)
	}
}

func TestExpandIsRestartable(t *testing.T) {
	holidays := []models.Holiday{{ID: 1, Date: date(t, "2020-12-16"), IsRecurring: true}}

	first, err := Expand(2025, time.December, holidays, time.Time{})
	require.NoError(t, err)
	second, err := Expand(2025, time.December, holidays, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExpandRejectsBadMonth(t *testing.T) {
	_, err := Expand(2025, 13, nil, time.Time{})
	assert.Error(t, err)
	_, err = Expand(2025, 0, nil, time.Time{})
	assert.Error(t, err)
}

func TestUpcoming(t *testing.T) {
	holidays := []models.Holiday{
		{ID: 1, Date: date(t, "2019-01-01"), IsRecurring: true},
		{ID: 2, Date: date(t, "2024-12-25")},
		{ID: 3, Date: date(t, "2025-12-31")},
	}

	got := Upcoming(holidays, date(t, "2024-12-20"), 14)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-12-25", got[0].Date)
	assert.Equal(t, uint(2), got[0].Holiday.ID)
	assert.Equal(t, "2025-01-01", got[1].Date)
	assert.Equal(t, uint(1), got[1].Holiday.ID)
}
