package utils

import (
	"math"
	"time"
)

// RoundFloat rounds a float64 to a specified number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// Percentage returns part/total*100 rounded to two decimals, or 0 when total
// is not positive.
func Percentage(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return RoundFloat(float64(part)/float64(total)*100, 2)
}

// InclusiveDays counts calendar days from start to end, both included.
// Time of day is ignored. It returns 0 when end precedes start.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
