// Package calendar lays holidays out over a month.
package calendar

import (
	"fmt"
	"time"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

// DayEntry is one calendar cell.
type DayEntry struct {
	Date      string           `json:"date"`
	Day       int              `json:"day"`
	Weekday   string           `json:"weekday"`
	IsWeekend bool             `json:"is_weekend"`
	IsToday   bool             `json:"is_today"`
	Holidays  []models.Holiday `json:"holidays"`
}

// IsWeekend reports whether day falls on Saturday or Sunday.
func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Expand returns one entry per day of the month, tagging weekends and the
// holidays that match each day. today marks IsToday; pass the zero time to
// mark nothing.
func Expand(year int, month time.Month, holidays []models.Holiday, today time.Time) ([]DayEntry, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("year out of range: %d", year)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	todayKey := ""
	if !today.IsZero() {
		todayKey = today.Format(models.DateLayout)
	}

	entries := make([]DayEntry, 0, last.Day())
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format(models.DateLayout)
		entry := DayEntry{
			Date:      key,
			Day:       day.Day(),
			Weekday:   day.Weekday().String(),
			IsWeekend: IsWeekend(day),
			IsToday:   key == todayKey,
			Holidays:  []models.Holiday{},
		}
		for _, h := range holidays {
			if h.Matches(day) {
				entry.Holidays = append(entry.Holidays, h)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Occurrence is a holiday placed on a concrete date.
type Occurrence struct {
	Date    string         `json:"date"`
	Holiday models.Holiday `json:"holiday"`
}

// Upcoming lists holiday occurrences from `from` (inclusive) over the next
// `days` days, in date order.
func Upcoming(holidays []models.Holiday, from time.Time, days int) []Occurrence {
	start := models.DateOnly(from)
	var out []Occurrence
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		for _, h := range holidays {
			if h.Matches(day) {
				out = append(out, Occurrence{Date: day.Format(models.DateLayout), Holiday: h})
			}
		}
	}
	return out
}
