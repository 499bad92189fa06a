package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

type LeaveTypeInput struct {
	Name        string  `json:"name" binding:"required,max=100"`
	DaysPerYear int     `json:"days_per_year" binding:"gte=0,lte=366"`
	IsPaid      bool    `json:"is_paid"`
	Description *string `json:"description"`
}

type LeaveTypeService struct {
	db    *gorm.DB
	pages Pagination
}

// NewLeaveTypeService returns the leave type service.
func NewLeaveTypeService(db *gorm.DB, pages Pagination) *LeaveTypeService {
	return &LeaveTypeService{db: db, pages: pages}
}

func (s *LeaveTypeService) List(ctx context.Context, params ListParams) (Page[models.LeaveType], error) {
	query := s.db.Model(&models.LeaveType{})
	if term := searchTerm(params.Search); term != "" {
		query = query.Where("leave_types.name ILIKE ?", term)
	}
	return paginate[models.LeaveType](ctx, query, params, s.pages, map[string]string{"name": "leave_types.name"}, "leave_types.name asc")
}

// Options lists every leave type for select inputs.
func (s *LeaveTypeService) Options(ctx context.Context) ([]models.LeaveType, error) {
	var types []models.LeaveType
	if err := s.db.WithContext(ctx).Order("name").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("load leave types: %w", err)
	}
	return types, nil
}

func (s *LeaveTypeService) Get(ctx context.Context, id uint) (models.LeaveType, error) {
	var leaveType models.LeaveType
	if err := s.db.WithContext(ctx).First(&leaveType, id).Error; err != nil {
		return models.LeaveType{}, loadError(err, "leave type")
	}
	return leaveType, nil
}

func (s *LeaveTypeService) Create(ctx context.Context, in LeaveTypeInput) (models.LeaveType, error) {
	var leaveType models.LeaveType
	if err := applyLeaveTypeInput(&leaveType, in); err != nil {
		return models.LeaveType{}, err
	}
	if err := s.db.WithContext(ctx).Create(&leaveType).Error; err != nil {
		return models.LeaveType{}, database.MapError(err)
	}
	return leaveType, nil
}

func (s *LeaveTypeService) Update(ctx context.Context, id uint, in LeaveTypeInput) (models.LeaveType, error) {
	leaveType, err := s.Get(ctx, id)
	if err != nil {
		return models.LeaveType{}, err
	}
	if err := applyLeaveTypeInput(&leaveType, in); err != nil {
		return models.LeaveType{}, err
	}
	if err := s.db.WithContext(ctx).Save(&leaveType).Error; err != nil {
		return models.LeaveType{}, database.MapError(err)
	}
	return leaveType, nil
}

func (s *LeaveTypeService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	used, err := countWhere(ctx, s.db, &models.LeaveApplication{}, "leave_type_id = ?", id)
	if err != nil {
		return fmt.Errorf("count leave applications: %w", err)
	}
	if used > 0 {
		return apperror.Conflict("cannot delete a leave type that has leave applications")
	}
	if err := s.db.WithContext(ctx).Delete(&models.LeaveType{}, id).Error; err != nil {
		return database.MapError(err)
	}
	return nil
}

func applyLeaveTypeInput(leaveType *models.LeaveType, in LeaveTypeInput) error {
	name, err := normalizeRequiredString(in.Name, "name", 100)
	if err != nil {
		return err
	}
	if in.DaysPerYear < 0 || in.DaysPerYear > 366 {
		return apperror.Validation("days_per_year", "the days per year must be between 0 and 366")
	}
	leaveType.Name = name
	leaveType.DaysPerYear = in.DaysPerYear
	leaveType.IsPaid = in.IsPaid
	leaveType.Description = normalizeOptionalString(in.Description)
	return nil
}
