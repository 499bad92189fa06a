package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/calendar"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/dashboard"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

const upcomingHolidayDays = 30

type Overview struct {
	dashboard.Stats
	UpcomingHolidays []calendar.Occurrence `json:"upcoming_holidays"`
}

type DashboardService struct {
	aggregator *dashboard.Aggregator
	holidays   *HolidayService
}

// NewDashboardService builds dashboard summaries over db and the holiday calendar.
func NewDashboardService(db *gorm.DB, holidays *HolidayService) *DashboardService {
	return &DashboardService{aggregator: dashboard.NewAggregator(db), holidays: holidays}
}

// Overview builds the dashboard for a principal as of a date.
func (s *DashboardService) Overview(ctx context.Context, p scope.Principal, sc scope.Scope, asOf time.Time) (Overview, error) {
	stats, err := s.aggregator.Stats(ctx, sc, asOf)
	if err != nil {
		return Overview{}, err
	}
	upcoming, err := s.holidays.Upcoming(ctx, asOf, upcomingHolidayDays, p.BranchID)
	if err != nil {
		return Overview{}, err
	}
	if upcoming == nil {
		upcoming = []calendar.Occurrence{}
	}
	return Overview{Stats: stats, UpcomingHolidays: upcoming}, nil
}

// Counts aggregates a single record type, for list screen summaries.
func (s *DashboardService) Counts(ctx context.Context, rt scope.RecordType, sc scope.Scope, asOf time.Time) (dashboard.CountSet, error) {
	return s.aggregator.Aggregate(ctx, rt, sc, asOf)
}
