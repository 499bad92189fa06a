package models

import "time"

// WorkflowStatus is shared by movements and transfers.
type WorkflowStatus string

const (
	StatusPending   WorkflowStatus = "pending"
	StatusApproved  WorkflowStatus = "approved"
	StatusRejected  WorkflowStatus = "rejected"
	StatusCompleted WorkflowStatus = "completed"
)

// Movement is an out-of-office trip for official duty.
type Movement struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	EmployeeID  uint           `json:"employee_id" gorm:"not null;index"`
	Employee    *Employee      `json:"employee,omitempty" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	FromDate    time.Time      `json:"from_date" gorm:"type:date;not null"`
	ToDate      time.Time      `json:"to_date" gorm:"type:date;not null"`
	Destination string         `json:"destination" gorm:"type:varchar(200);not null"`
	Purpose     string         `json:"purpose" gorm:"type:text;not null"`
	Status      WorkflowStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewedBy  *uint          `json:"reviewed_by"`
	ReviewedAt  *time.Time     `json:"reviewed_at"`
	Remarks     *string        `json:"remarks"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Movement) TableName() string { return "movements" }
