package models

import "time"

// User is an account that can sign in. BranchID is the organizational
// affiliation used for branch scoping; it is independent of the linked
// employee's branch.
type User struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Name       string     `json:"name" gorm:"type:varchar(150);not null"`
	Email      string     `json:"email" gorm:"type:varchar(150);not null;uniqueIndex"`
	Password   string     `json:"-" gorm:"not null"`
	RoleID     uint       `json:"role_id" gorm:"not null;index"`
	Role       *Role      `json:"role,omitempty" gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	EmployeeID *uint      `json:"employee_id" gorm:"index"`
	Employee   *Employee  `json:"employee,omitempty" gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL"`
	BranchID   *uint      `json:"branch_id" gorm:"index"`
	Branch     *Branch    `json:"branch,omitempty" gorm:"foreignKey:BranchID;constraint:OnDelete:SET NULL"`
	IsActive   bool       `json:"is_active" gorm:"not null"`
	LastLogin  *time.Time `json:"last_login_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }
