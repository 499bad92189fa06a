package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

type DesignationInput struct {
	Name         string  `json:"name" binding:"required,max=150"`
	Description  *string `json:"description"`
	DepartmentID uint    `json:"department_id" binding:"required"`
	Rank         int     `json:"rank" binding:"gte=0"`
}

type DesignationService struct {
	db    *gorm.DB
	pages Pagination
}

// NewDesignationService returns the designation service.
func NewDesignationService(db *gorm.DB, pages Pagination) *DesignationService {
	return &DesignationService{db: db, pages: pages}
}

var designationSorts = map[string]string{
	"name":       "designations.name",
	"rank":       "designations.rank",
	"created_at": "designations.created_at",
}

func (s *DesignationService) List(ctx context.Context, params ListParams) (Page[models.Designation], error) {
	query := s.db.Model(&models.Designation{})
	if term := searchTerm(params.Search); term != "" {
		query = query.Where("designations.name ILIKE ?", term)
	}
	if params.DepartmentID != 0 {
		query = query.Where("designations.department_id = ?", params.DepartmentID)
	}
	return paginate[models.Designation](ctx, query, params, s.pages, designationSorts, "designations.rank asc, designations.name asc", "Department")
}

// Options lists designations, limited to departmentID when it is not zero.
func (s *DesignationService) Options(ctx context.Context, departmentID uint) ([]models.Designation, error) {
	query := s.db.WithContext(ctx).Order("rank").Order("name")
	if departmentID != 0 {
		query = query.Where("department_id = ?", departmentID)
	}
	var designations []models.Designation
	if err := query.Find(&designations).Error; err != nil {
		return nil, fmt.Errorf("load designations: %w", err)
	}
	return designations, nil
}

func (s *DesignationService) Get(ctx context.Context, id uint) (models.Designation, error) {
	var designation models.Designation
	if err := s.db.WithContext(ctx).Preload("Department").First(&designation, id).Error; err != nil {
		return models.Designation{}, loadError(err, "designation")
	}
	return designation, nil
}

func (s *DesignationService) Create(ctx context.Context, in DesignationInput) (models.Designation, error) {
	var designation models.Designation
	if err := s.apply(ctx, &designation, in); err != nil {
		return models.Designation{}, err
	}
	if err := s.db.WithContext(ctx).Create(&designation).Error; err != nil {
		return models.Designation{}, database.MapError(err)
	}
	return designation, nil
}

func (s *DesignationService) Update(ctx context.Context, id uint, in DesignationInput) (models.Designation, error) {
	var designation models.Designation
	if err := s.db.WithContext(ctx).First(&designation, id).Error; err != nil {
		return models.Designation{}, loadError(err, "designation")
	}
	if err := s.apply(ctx, &designation, in); err != nil {
		return models.Designation{}, err
	}
	if err := s.db.WithContext(ctx).Save(&designation).Error; err != nil {
		return models.Designation{}, database.MapError(err)
	}
	return designation, nil
}

func (s *DesignationService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	employees, err := countWhere(ctx, s.db, &models.Employee{}, "designation_id = ?", id)
	if err != nil {
		return fmt.Errorf("count designation employees: %w", err)
	}
	if employees > 0 {
		return apperror.Conflict("cannot delete a designation that is assigned to employees")
	}
	if err := s.db.WithContext(ctx).Delete(&models.Designation{}, id).Error; err != nil {
		return database.MapError(err)
	}
	return nil
}

func (s *DesignationService) apply(ctx context.Context, designation *models.Designation, in DesignationInput) error {
	name, err := normalizeRequiredString(in.Name, "name", 150)
	if err != nil {
		return err
	}
	if in.Rank < 0 {
		return apperror.Validation("rank", "the rank must be at least 0")
	}
	if err := ensureReference(ctx, s.db, &models.Department{}, in.DepartmentID, "department_id"); err != nil {
		return err
	}
	designation.Name = name
	designation.Description = normalizeOptionalString(in.Description)
	designation.DepartmentID = in.DepartmentID
	designation.Rank = in.Rank
	return nil
}
