package models

import "time"

// Transfer moves an employee between branches (and optionally departments)
// on the effective date once completed.
type Transfer struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	EmployeeID       uint           `json:"employee_id" gorm:"not null;index"`
	Employee         *Employee      `json:"employee,omitempty" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	FromBranchID     uint           `json:"from_branch_id" gorm:"not null;index"`
	FromBranch       *Branch        `json:"from_branch,omitempty" gorm:"foreignKey:FromBranchID;constraint:OnDelete:RESTRICT"`
	ToBranchID       uint           `json:"to_branch_id" gorm:"not null;index"`
	ToBranch         *Branch        `json:"to_branch,omitempty" gorm:"foreignKey:ToBranchID;constraint:OnDelete:RESTRICT"`
	FromDepartmentID *uint          `json:"from_department_id"`
	ToDepartmentID   *uint          `json:"to_department_id"`
	EffectiveDate    time.Time      `json:"effective_date" gorm:"type:date;not null;index"`
	Reason           string         `json:"reason" gorm:"type:text;not null"`
	Status           WorkflowStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewedBy       *uint          `json:"reviewed_by"`
	ReviewedAt       *time.Time     `json:"reviewed_at"`
	Remarks          *string        `json:"remarks"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (Transfer) TableName() string { return "transfers" }
