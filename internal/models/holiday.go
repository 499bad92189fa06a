package models

import "time"

// Holiday is a day off. A recurring holiday repeats on the same month and day
// every year. An empty BranchIDs list applies to every branch.
type Holiday struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(150);not null"`
	Date        time.Time `json:"date" gorm:"type:date;not null;index"`
	IsRecurring bool      `json:"is_recurring" gorm:"not null;default:false"`
	BranchIDs   []uint    `json:"branch_ids" gorm:"type:jsonb;serializer:json"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Holiday) TableName() string { return "holidays" }

// Matches reports whether the holiday falls on day.
func (h Holiday) Matches(day time.Time) bool {
	if h.IsRecurring {
		return h.Date.Month() == day.Month() && h.Date.Day() == day.Day()
	}
	return h.Date.Year() == day.Year() && h.Date.YearDay() == day.YearDay()
}

// AppliesTo reports whether the holiday is observed by the branch. A nil
// branch means "any branch".
func (h Holiday) AppliesTo(branchID *uint) bool {
	if len(h.BranchIDs) == 0 || branchID == nil {
		return true
	}
	for _, id := range h.BranchIDs {
		if id == *branchID {
			return true
		}
	}
	return false
}
