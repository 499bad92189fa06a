package models

import "time"

// Department belongs to a branch and may nest under a parent department.
// HeadID points at the employee heading it; deleting that employee clears it.
type Department struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:varchar(150);not null"`
	Code        *string      `json:"code" gorm:"type:varchar(20)"`
	Description *string      `json:"description"`
	HeadID      *uint        `json:"head_id" gorm:"index"`
	Head        *Employee    `json:"head,omitempty" gorm:"foreignKey:HeadID;constraint:OnDelete:SET NULL"`
	BranchID    uint         `json:"branch_id" gorm:"not null;index"`
	Branch      *Branch      `json:"branch,omitempty" gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT"`
	ParentID    *uint        `json:"parent_id" gorm:"index"`
	Parent      *Department  `json:"parent,omitempty" gorm:"foreignKey:ParentID;references:ID;constraint:OnDelete:SET NULL"`
	Children    []Department `json:"children,omitempty" gorm:"foreignKey:ParentID;references:ID"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Department) TableName() string { return "departments" }
