// Package dashboard computes the scoped summary counts shown on the dashboard.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

// Count keys.
const (
	Present           = "present"
	Absent            = "absent"
	Late              = "late"
	Pending           = "pending"
	ApprovedThisMonth = "approved_this_month"
	OnLeaveToday      = "on_leave_today"
	Ongoing           = "ongoing"
)

// CountSet maps a count key to its value.
type CountSet map[string]int64

type countQuery struct {
	key   string
	build func(db *gorm.DB) *gorm.DB
}

// Aggregator runs the per-record-type counts. Every count is its own query
// over the same scoped base filter; nothing is cached.
type Aggregator struct {
	db *gorm.DB
}

// NewAggregator counts dashboard figures over db.
func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Aggregate computes the counts of rt visible under s as of asOf. Month-bound
// counts use asOf's calendar month.
func (a *Aggregator) Aggregate(ctx context.Context, rt scope.RecordType, s scope.Scope, asOf time.Time) (CountSet, error) {
	queries, err := countQueries(rt, s, asOf)
	if err != nil {
		return nil, err
	}

	counts := make(CountSet, len(queries))
	for _, q := range queries {
		var n int64
		if err := q.build(a.db.WithContext(ctx)).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s %s: %w", rt, q.key, err)
		}
		counts[q.key] = n
	}
	return counts, nil
}

func countQueries(rt scope.RecordType, s scope.Scope, asOf time.Time) ([]countQuery, error) {
	day := models.DateOnly(asOf)
	today := day.Format(models.DateLayout)
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthFrom := monthStart.Format(models.DateLayout)
	monthTo := monthStart.AddDate(0, 1, 0).Format(models.DateLayout)

	switch rt {
	case scope.Attendance:
		base := func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Attendance{}).
				Scopes(s.Apply(scope.Attendance)).
				Where("attendances.date = ?", today)
		}
		byStatus := func(status models.AttendanceStatus) func(*gorm.DB) *gorm.DB {
			return func(db *gorm.DB) *gorm.DB {
				return base(db).Where("attendances.status = ?", status)
			}
		}
		return []countQuery{
			{Present, byStatus(models.AttendancePresent)},
			{Absent, byStatus(models.AttendanceAbsent)},
			{Late, byStatus(models.AttendanceLate)},
		}, nil

	case scope.Leave:
		base := func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.LeaveApplication{}).Scopes(s.Apply(scope.Leave))
		}
		return []countQuery{
			{Pending, func(db *gorm.DB) *gorm.DB {
				return base(db).Where("leave_applications.status = ?", models.LeavePending)
			}},
			{ApprovedThisMonth, func(db *gorm.DB) *gorm.DB {
				return base(db).
					Where("leave_applications.status = ?", models.LeaveApproved).
					Where("leave_applications.start_date >= ? AND leave_applications.start_date < ?", monthFrom, monthTo)
			}},
			{OnLeaveToday, func(db *gorm.DB) *gorm.DB {
				return base(db).
					Where("leave_applications.status = ?", models.LeaveApproved).
					Where("leave_applications.start_date <= ? AND leave_applications.end_date >= ?", today, today)
			}},
		}, nil

	case scope.Movement:
		base := func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Movement{}).Scopes(s.Apply(scope.Movement))
		}
		return []countQuery{
			{Pending, func(db *gorm.DB) *gorm.DB {
				return base(db).Where("movements.status = ?", models.StatusPending)
			}},
			{Ongoing, func(db *gorm.DB) *gorm.DB {
				return base(db).
					Where("movements.status = ?", models.StatusApproved).
					Where("movements.from_date <= ? AND movements.to_date >= ?", today, today)
			}},
		}, nil

	case scope.Transfer:
		base := func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Transfer{}).Scopes(s.Apply(scope.Transfer))
		}
		return []countQuery{
			{Pending, func(db *gorm.DB) *gorm.DB {
				return base(db).Where("transfers.status = ?", models.StatusPending)
			}},
			{ApprovedThisMonth, func(db *gorm.DB) *gorm.DB {
				return base(db).
					Where("transfers.status = ?", models.StatusApproved).
					Where("transfers.effective_date >= ? AND transfers.effective_date < ?", monthFrom, monthTo)
			}},
		}, nil
	}
	return nil, fmt.Errorf("no aggregation for record type %q", rt)
}
