package models

import "time"

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type LeaveType struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	DaysPerYear int       `json:"days_per_year" gorm:"not null;default:0"`
	IsPaid      bool      `json:"is_paid" gorm:"not null"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (LeaveType) TableName() string { return "leave_types" }

type LeaveApplication struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	EmployeeID      uint        `json:"employee_id" gorm:"not null;index"`
	Employee        *Employee   `json:"employee,omitempty" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	LeaveTypeID     uint        `json:"leave_type_id" gorm:"not null;index"`
	LeaveType       *LeaveType  `json:"leave_type,omitempty" gorm:"foreignKey:LeaveTypeID;constraint:OnDelete:RESTRICT"`
	StartDate       time.Time   `json:"start_date" gorm:"type:date;not null;index"`
	EndDate         time.Time   `json:"end_date" gorm:"type:date;not null"`
	TotalDays       int         `json:"total_days" gorm:"not null"`
	Reason          string      `json:"reason" gorm:"type:text;not null"`
	Status          LeaveStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewedBy      *uint       `json:"reviewed_by"`
	ReviewedAt      *time.Time  `json:"reviewed_at"`
	RejectionReason *string     `json:"rejection_reason"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (LeaveApplication) TableName() string { return "leave_applications" }
