package models

import "time"

// Designation is a job title inside a department. Rank orders designations;
// it is not unique.
type Designation struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Name         string      `json:"name" gorm:"type:varchar(150);not null"`
	Description  *string     `json:"description"`
	DepartmentID uint        `json:"department_id" gorm:"not null;index"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE"`
	Rank         int         `json:"rank" gorm:"not null;default:0"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (Designation) TableName() string { return "designations" }
