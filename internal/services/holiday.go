package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/calendar"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

type HolidayInput struct {
	Title       string  `json:"title" binding:"required,max=150"`
	Date        string  `json:"date" binding:"required,date"`
	IsRecurring bool    `json:"is_recurring"`
	BranchIDs   []uint  `json:"branch_ids"`
	Description *string `json:"description"`
}

type HolidayService struct {
	db    *gorm.DB
	pages Pagination
}

// NewHolidayService returns the holiday calendar service.
func NewHolidayService(db *gorm.DB, pages Pagination) *HolidayService {
	return &HolidayService{db: db, pages: pages}
}

var holidaySorts = map[string]string{
	"title": "holidays.title",
	"date":  "holidays.date",
}

// List pages holidays; a year keeps that year's dated holidays plus every
// recurring one.
func (s *HolidayService) List(ctx context.Context, params ListParams) (Page[models.Holiday], error) {
	query := s.db.Model(&models.Holiday{})
	if term := searchTerm(params.Search); term != "" {
		query = query.Where("holidays.title ILIKE ?", term)
	}
	if params.Year > 0 {
		start := time.Date(params.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		query = query.Where(
			"(holidays.is_recurring = ? OR (holidays.date >= ? AND holidays.date < ?))",
			true, start.Format(models.DateLayout), start.AddDate(1, 0, 0).Format(models.DateLayout),
		)
	}
	return paginate[models.Holiday](ctx, query, params, s.pages, holidaySorts, "holidays.date asc")
}

func (s *HolidayService) Get(ctx context.Context, id uint) (models.Holiday, error) {
	var holiday models.Holiday
	if err := s.db.WithContext(ctx).First(&holiday, id).Error; err != nil {
		return models.Holiday{}, loadError(err, "holiday")
	}
	return holiday, nil
}

func (s *HolidayService) Create(ctx context.Context, in HolidayInput) (models.Holiday, error) {
	var holiday models.Holiday
	if err := s.apply(ctx, &holiday, in); err != nil {
		return models.Holiday{}, err
	}
	if err := s.db.WithContext(ctx).Create(&holiday).Error; err != nil {
		return models.Holiday{}, database.MapError(err)
	}
	return holiday, nil
}

func (s *HolidayService) Update(ctx context.Context, id uint, in HolidayInput) (models.Holiday, error) {
	holiday, err := s.Get(ctx, id)
	if err != nil {
		return models.Holiday{}, err
	}
	if err := s.apply(ctx, &holiday, in); err != nil {
		return models.Holiday{}, err
	}
	if err := s.db.WithContext(ctx).Save(&holiday).Error; err != nil {
		return models.Holiday{}, database.MapError(err)
	}
	return holiday, nil
}

func (s *HolidayService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Holiday{}, id).Error; err != nil {
		return database.MapError(err)
	}
	return nil
}

// Calendar expands a month for the branch. A nil branch shows every holiday.
func (s *HolidayService) Calendar(ctx context.Context, year int, month time.Month, branchID *uint, today time.Time) ([]calendar.DayEntry, error) {
	if month < time.January || month > time.December {
		return nil, apperror.Validation("month", "the month must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return nil, apperror.Validation("year", "the year is out of range")
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	holidays, err := s.candidates(ctx, start, start.AddDate(0, 1, 0), branchID)
	if err != nil {
		return nil, err
	}
	return calendar.Expand(year, month, holidays, today)
}

// Upcoming lists holiday occurrences in the next days starting at from.
func (s *HolidayService) Upcoming(ctx context.Context, from time.Time, days int, branchID *uint) ([]calendar.Occurrence, error) {
	from = models.DateOnly(from)
	holidays, err := s.candidates(ctx, from, from.AddDate(0, 0, days), branchID)
	if err != nil {
		return nil, err
	}
	return calendar.Upcoming(holidays, from, days), nil
}

// candidates loads recurring holidays and dated ones in [start, end).
func (s *HolidayService) candidates(ctx context.Context, start, end time.Time, branchID *uint) ([]models.Holiday, error) {
	var rows []models.Holiday
	if err := s.db.WithContext(ctx).
		Where("is_recurring = ? OR (date >= ? AND date < ?)", true, start.Format(models.DateLayout), end.Format(models.DateLayout)).
		Order("date").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}
	holidays := rows[:0]
	for _, h := range rows {
		if h.AppliesTo(branchID) {
			holidays = append(holidays, h)
		}
	}
	return holidays, nil
}

func (s *HolidayService) apply(ctx context.Context, holiday *models.Holiday, in HolidayInput) error {
	title, err := normalizeRequiredString(in.Title, "title", 150)
	if err != nil {
		return err
	}
	date, err := parseRequiredDate(in.Date, "date")
	if err != nil {
		return err
	}
	branchIDs := make([]uint, 0, len(in.BranchIDs))
	seen := map[uint]struct{}{}
	for _, id := range in.BranchIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		branchIDs = append(branchIDs, id)
	}
	if len(branchIDs) > 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Branch{}).Where("id IN ?", branchIDs).Count(&count).Error; err != nil {
			return fmt.Errorf("check branches: %w", err)
		}
		if int(count) != len(branchIDs) {
			return apperror.Validation("branch_ids", "one or more selected branches are invalid")
		}
	}

	holiday.Title = title
	holiday.Date = date
	holiday.IsRecurring = in.IsRecurring
	holiday.BranchIDs = branchIDs
	holiday.Description = normalizeOptionalString(in.Description)
	return nil
}
