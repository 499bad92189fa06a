package models

import "time"

type Branch struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(150);not null"`
	Code      string    `json:"code" gorm:"type:varchar(20);not null;uniqueIndex"`
	Address   *string   `json:"address"`
	Phone     *string   `json:"phone" gorm:"type:varchar(30)"`
	Email     *string   `json:"email" gorm:"type:varchar(150)"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Branch) TableName() string { return "branches" }
