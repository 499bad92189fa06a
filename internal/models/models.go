package models

import "time"

// DateLayout is the wire and query format for calendar dates.
const DateLayout = "2006-01-02"

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Branch{},
		&Role{},
		&Department{},
		&Designation{},
		&Employee{},
		&User{},
		&Holiday{},
		&LeaveType{},
		&LeaveApplication{},
		&Movement{},
		&Transfer{},
		&Attendance{},
	}
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, time.UTC)
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
