package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

type BranchInput struct {
	Name     string  `json:"name" binding:"required,max=150"`
	Code     string  `json:"code" binding:"required,max=20"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	Email    *string `json:"email" binding:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

type BranchService struct {
	db    *gorm.DB
	pages Pagination
}

// NewBranchService returns the branch service.
func NewBranchService(db *gorm.DB, pages Pagination) *BranchService {
	return &BranchService{db: db, pages: pages}
}

var branchSorts = map[string]string{
	"name":       "branches.name",
	"code":       "branches.code",
	"created_at": "branches.created_at",
}

func (s *BranchService) List(ctx context.Context, params ListParams) (Page[models.Branch], error) {
	query := s.db.Model(&models.Branch{})
	if term := searchTerm(params.Search); term != "" {
		query = query.Where("(branches.name ILIKE ? OR branches.code ILIKE ?)", term, term)
	}
	return paginate[models.Branch](ctx, query, params, s.pages, branchSorts, "branches.name asc")
}

// Options lists active branches for select inputs.
func (s *BranchService) Options(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("load branches: %w", err)
	}
	return branches, nil
}

func (s *BranchService) Get(ctx context.Context, id uint) (models.Branch, error) {
	var branch models.Branch
	if err := s.db.WithContext(ctx).First(&branch, id).Error; err != nil {
		return models.Branch{}, loadError(err, "branch")
	}
	return branch, nil
}

func (s *BranchService) Create(ctx context.Context, in BranchInput) (models.Branch, error) {
	branch := models.Branch{IsActive: true}
	if err := applyBranchInput(&branch, in); err != nil {
		return models.Branch{}, err
	}
	if err := s.db.WithContext(ctx).Create(&branch).Error; err != nil {
		return models.Branch{}, database.MapError(err)
	}
	return branch, nil
}

func (s *BranchService) Update(ctx context.Context, id uint, in BranchInput) (models.Branch, error) {
	branch, err := s.Get(ctx, id)
	if err != nil {
		return models.Branch{}, err
	}
	if err := applyBranchInput(&branch, in); err != nil {
		return models.Branch{}, err
	}
	if err := s.db.WithContext(ctx).Save(&branch).Error; err != nil {
		return models.Branch{}, database.MapError(err)
	}
	return branch, nil
}

// Delete removes a branch that no employee or department belongs to.
func (s *BranchService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	employees, err := countWhere(ctx, s.db, &models.Employee{}, "branch_id = ?", id)
	if err != nil {
		return fmt.Errorf("count branch employees: %w", err)
	}
	if employees > 0 {
		return apperror.Conflict("cannot delete a branch that has employees")
	}
	departments, err := countWhere(ctx, s.db, &models.Department{}, "branch_id = ?", id)
	if err != nil {
		return fmt.Errorf("count branch departments: %w", err)
	}
	if departments > 0 {
		return apperror.Conflict("cannot delete a branch that has departments")
	}

	if err := s.db.WithContext(ctx).Delete(&models.Branch{}, id).Error; err != nil {
		return database.MapError(err)
	}
	return nil
}

func applyBranchInput(branch *models.Branch, in BranchInput) error {
	name, err := normalizeRequiredString(in.Name, "name", 150)
	if err != nil {
		return err
	}
	code, err := normalizeRequiredString(in.Code, "code", 20)
	if err != nil {
		return err
	}
	branch.Name = name
	branch.Code = strings.ToUpper(code)
	branch.Address = normalizeOptionalString(in.Address)
	branch.Phone = normalizeOptionalString(in.Phone)
	branch.Email = normalizeOptionalString(in.Email)
	if in.IsActive != nil {
		branch.IsActive = *in.IsActive
	}
	return nil
}
