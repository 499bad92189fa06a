package dashboard

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/utils"
)

// Stats is the full dashboard summary for one principal.
type Stats struct {
	Date           string   `json:"date"`
	Scope          string   `json:"scope"`
	Employees      int64    `json:"employees"`
	AttendanceRate float64  `json:"attendance_rate"`
	Attendance     CountSet `json:"attendance"`
	Leave          CountSet `json:"leave"`
	Movement       CountSet `json:"movement"`
	Transfer       CountSet `json:"transfer"`
}

// Stats aggregates every record type under s. The scope is narrowed per
// record type by the aggregator.
func (a *Aggregator) Stats(ctx context.Context, s scope.Scope, asOf time.Time) (Stats, error) {
	stats := Stats{
		Date:  models.DateOnly(asOf).Format(models.DateLayout),
		Scope: s.String(),
	}

	if err := activeEmployees(a.db.WithContext(ctx), s).Count(&stats.Employees).Error; err != nil {
		return Stats{}, fmt.Errorf("count employees: %w", err)
	}

	targets := []struct {
		rt  scope.RecordType
		dst *CountSet
	}{
		{scope.Attendance, &stats.Attendance},
		{scope.Leave, &stats.Leave},
		{scope.Movement, &stats.Movement},
		{scope.Transfer, &stats.Transfer},
	}
	for _, t := range targets {
		counts, err := a.Aggregate(ctx, t.rt, s, asOf)
		if err != nil {
			return Stats{}, err
		}
		*t.dst = counts
	}

	stats.AttendanceRate = utils.Percentage(stats.Attendance[Present]+stats.Attendance[Late], stats.Employees)
	return stats, nil
}

func activeEmployees(db *gorm.DB, s scope.Scope) *gorm.DB {
	return db.Model(&models.Employee{}).
		Scopes(s.Apply(scope.Employee)).
		Where("employees.status = ?", models.EmployeeActive)
}
