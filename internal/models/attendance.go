package models

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half_day"
	AttendanceOnLeave AttendanceStatus = "on_leave"
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceHalfDay, AttendanceOnLeave:
		return true
	}
	return false
}

// Attendance is one employee's record for one day.
type Attendance struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	EmployeeID uint             `json:"employee_id" gorm:"not null;uniqueIndex:idx_attendance_employee_date"`
	Employee   *Employee        `json:"employee,omitempty" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	Date       time.Time        `json:"date" gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_date;index"`
	CheckIn    *string          `json:"check_in" gorm:"type:varchar(8)"`
	CheckOut   *string          `json:"check_out" gorm:"type:varchar(8)"`
	Status     AttendanceStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Note       *string          `json:"note"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (Attendance) TableName() string { return "attendances" }
