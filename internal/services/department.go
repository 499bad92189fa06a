package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

type DepartmentInput struct {
	Name        string  `json:"name" binding:"required,max=150"`
	Code        *string `json:"code" binding:"omitempty,max=20"`
	Description *string `json:"description"`
	BranchID    uint    `json:"branch_id" binding:"required"`
	ParentID    *uint   `json:"parent_id"`
	HeadID      *uint   `json:"head_id"`
}

type DepartmentService struct {
	db    *gorm.DB
	pages Pagination
}

// NewDepartmentService returns the department service.
func NewDepartmentService(db *gorm.DB, pages Pagination) *DepartmentService {
	return &DepartmentService{db: db, pages: pages}
}

var departmentSorts = map[string]string{
	"name":       "departments.name",
	"code":       "departments.code",
	"created_at": "departments.created_at",
}

func (s *DepartmentService) List(ctx context.Context, params ListParams) (Page[models.Department], error) {
	query := s.db.Model(&models.Department{})
	if term := searchTerm(params.Search); term != "" {
		query = query.Where("(departments.name ILIKE ? OR departments.code ILIKE ?)", term, term)
	}
	if params.BranchID != 0 {
		query = query.Where("departments.branch_id = ?", params.BranchID)
	}
	return paginate[models.Department](ctx, query, params, s.pages, departmentSorts, "departments.name asc", "Branch", "Parent", "Head")
}

// Options lists departments for select inputs, optionally for one branch.
func (s *DepartmentService) Options(ctx context.Context, branchID uint) ([]models.Department, error) {
	query := s.db.WithContext(ctx).Order("name")
	if branchID != 0 {
		query = query.Where("branch_id = ?", branchID)
	}
	var departments []models.Department
	if err := query.Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("load departments: %w", err)
	}
	return departments, nil
}

func (s *DepartmentService) Get(ctx context.Context, id uint) (models.Department, error) {
	var department models.Department
	if err := s.db.WithContext(ctx).
		Preload("Branch").
		Preload("Parent").
		Preload("Head").
		Preload("Children").
		First(&department, id).Error; err != nil {
		return models.Department{}, loadError(err, "department")
	}
	return department, nil
}

func (s *DepartmentService) Create(ctx context.Context, in DepartmentInput) (models.Department, error) {
	var department models.Department
	if err := s.apply(ctx, &department, in); err != nil {
		return models.Department{}, err
	}
	if err := s.db.WithContext(ctx).Create(&department).Error; err != nil {
		return models.Department{}, database.MapError(err)
	}
	return department, nil
}

func (s *DepartmentService) Update(ctx context.Context, id uint, in DepartmentInput) (models.Department, error) {
	var department models.Department
	if err := s.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return models.Department{}, loadError(err, "department")
	}
	if err := s.apply(ctx, &department, in); err != nil {
		return models.Department{}, err
	}
	if err := s.db.WithContext(ctx).
		Model(&department).
		Select("name", "code", "description", "branch_id", "parent_id", "head_id").
		Updates(&department).Error; err != nil {
		return models.Department{}, database.MapError(err)
	}
	return department, nil
}

// Delete removes a department without employees or child departments.
// Its designations go with it.
func (s *DepartmentService) Delete(ctx context.Context, id uint) error {
	var department models.Department
	if err := s.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return loadError(err, "department")
	}

	employees, err := countWhere(ctx, s.db, &models.Employee{}, "department_id = ?", id)
	if err != nil {
		return fmt.Errorf("count department employees: %w", err)
	}
	if employees > 0 {
		return apperror.Conflict("cannot delete a department that has employees")
	}
	children, err := countWhere(ctx, s.db, &models.Department{}, "parent_id = ?", id)
	if err != nil {
		return fmt.Errorf("count child departments: %w", err)
	}
	if children > 0 {
		return apperror.Conflict("cannot delete a department that has child departments")
	}

	if err := s.db.WithContext(ctx).Delete(&department).Error; err != nil {
		return database.MapError(err)
	}
	return nil
}

func (s *DepartmentService) apply(ctx context.Context, department *models.Department, in DepartmentInput) error {
	name, err := normalizeRequiredString(in.Name, "name", 150)
	if err != nil {
		return err
	}
	if err := ensureReference(ctx, s.db, &models.Branch{}, in.BranchID, "branch_id"); err != nil {
		return err
	}
	if in.ParentID != nil {
		if department.ID != 0 && *in.ParentID == department.ID {
			return apperror.Validation("parent_id", "a department cannot be its own parent")
		}
		if err := ensureReference(ctx, s.db, &models.Department{}, *in.ParentID, "parent_id"); err != nil {
			return err
		}
		if department.ID != 0 && !equalUintPtr(department.ParentID, in.ParentID) {
			cycle, err := s.wouldCreateCycle(ctx, department.ID, *in.ParentID)
			if err != nil {
				return err
			}
			if cycle {
				return apperror.Validation("parent_id", "the selected parent would create a department cycle")
			}
		}
	}
	if in.HeadID != nil {
		if err := ensureReference(ctx, s.db, &models.Employee{}, *in.HeadID, "head_id"); err != nil {
			return err
		}
	}

	department.Name = name
	department.Code = normalizeOptionalString(in.Code)
	department.Description = normalizeOptionalString(in.Description)
	department.BranchID = in.BranchID
	department.ParentID = in.ParentID
	department.HeadID = in.HeadID
	return nil
}

// wouldCreateCycle walks the parent chain from newParentID looking for
// departmentID.
func (s *DepartmentService) wouldCreateCycle(ctx context.Context, departmentID, newParentID uint) (bool, error) {
	seen := map[uint]struct{}{}
	currentID := &newParentID
	for currentID != nil {
		if *currentID == departmentID {
			return true, nil
		}
		if _, ok := seen[*currentID]; ok {
			return true, nil
		}
		seen[*currentID] = struct{}{}

		var parent models.Department
		if err := s.db.WithContext(ctx).
			Select("id", "parent_id").
			First(&parent, *currentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("load parent chain: %w", err)
		}
		currentID = parent.ParentID
	}
	return false, nil
}
