package models

import (
	"strings"
	"time"
)

type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeInactive   EmployeeStatus = "inactive"
	EmployeeOnLeave    EmployeeStatus = "on_leave"
	EmployeeTerminated EmployeeStatus = "terminated"
)

// Valid reports whether s is a known status.
func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeActive, EmployeeInactive, EmployeeOnLeave, EmployeeTerminated:
		return true
	}
	return false
}

// Employee is a person on the payroll. ReportingToID forms the supervisor tree.
type Employee struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	EmployeeCode  string         `json:"employee_code" gorm:"type:varchar(30);not null;uniqueIndex"`
	FirstName     string         `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName      string         `json:"last_name" gorm:"type:varchar(100);not null"`
	Email         string         `json:"email" gorm:"type:varchar(150);not null;uniqueIndex"`
	Phone         *string        `json:"phone" gorm:"type:varchar(30)"`
	NationalID    *string        `json:"national_id" gorm:"type:varchar(30);uniqueIndex"`
	Gender        *string        `json:"gender" gorm:"type:varchar(10)"`
	DateOfBirth   *time.Time     `json:"date_of_birth" gorm:"type:date"`
	JoiningDate   time.Time      `json:"joining_date" gorm:"type:date;not null"`
	Address       *string        `json:"address"`
	DepartmentID  uint           `json:"department_id" gorm:"not null;index"`
	Department    *Department    `json:"department,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnDelete:RESTRICT"`
	DesignationID uint           `json:"designation_id" gorm:"not null;index"`
	Designation   *Designation   `json:"designation,omitempty" gorm:"foreignKey:DesignationID;constraint:OnDelete:RESTRICT"`
	BranchID      uint           `json:"branch_id" gorm:"not null;index"`
	Branch        *Branch        `json:"branch,omitempty" gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT"`
	ReportingToID *uint          `json:"reporting_to_id" gorm:"index"`
	ReportingTo   *Employee      `json:"reporting_to,omitempty" gorm:"foreignKey:ReportingToID;references:ID;constraint:OnDelete:SET NULL"`
	Status        EmployeeStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }

// FullName joins the first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
