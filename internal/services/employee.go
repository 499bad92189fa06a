package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

type EmployeeInput struct {
	EmployeeCode  string  `json:"employee_code" binding:"required,max=30"`
	FirstName     string  `json:"first_name" binding:"required,max=100"`
	LastName      string  `json:"last_name" binding:"required,max=100"`
	Email         string  `json:"email" binding:"required,email,max=150"`
	Phone         *string `json:"phone" binding:"omitempty,max=30"`
	NationalID    *string `json:"national_id" binding:"omitempty,max=30"`
	Gender        *string `json:"gender" binding:"omitempty,oneof=male female other"`
	DateOfBirth   *string `json:"date_of_birth" binding:"omitempty,date"`
	JoiningDate   string  `json:"joining_date" binding:"required,date"`
	Address       *string `json:"address"`
	DepartmentID  uint    `json:"department_id" binding:"required"`
	DesignationID uint    `json:"designation_id" binding:"required"`
	BranchID      uint    `json:"branch_id" binding:"required"`
	ReportingToID *uint   `json:"reporting_to_id"`
	Status        string  `json:"status" binding:"omitempty,oneof=active inactive on_leave terminated"`
}

type EmployeeService struct {
	db    *gorm.DB
	pages Pagination
}

// NewEmployeeService returns the employee directory service.
func NewEmployeeService(db *gorm.DB, pages Pagination) *EmployeeService {
	return &EmployeeService{db: db, pages: pages}
}

var employeeSorts = map[string]string{
	"employee_code": "employees.employee_code",
	"first_name":    "employees.first_name",
	"last_name":     "employees.last_name",
	"email":         "employees.email",
	"joining_date":  "employees.joining_date",
	"status":        "employees.status",
	"created_at":    "employees.created_at",
}

var employeePreloads = []string{"Department", "Designation", "Branch", "ReportingTo"}

func (s *EmployeeService) query(sc scope.Scope, params ListParams) *gorm.DB {
	query := s.db.Model(&models.Employee{}).Scopes(sc.Apply(scope.Employee))
	if term := searchTerm(params.Search); term != "" {
		query = query.Where(
			"(employees.first_name ILIKE ? OR employees.last_name ILIKE ? OR employees.employee_code ILIKE ? OR employees.email ILIKE ?)",
			term, term, term, term,
		)
	}
	if params.BranchID != 0 {
		query = query.Where("employees.branch_id = ?", params.BranchID)
	}
	if params.DepartmentID != 0 {
		query = query.Where("employees.department_id = ?", params.DepartmentID)
	}
	if params.Status != "" {
		query = query.Where("employees.status = ?", params.Status)
	}
	return query
}

// List returns the employees visible under sc.
func (s *EmployeeService) List(ctx context.Context, sc scope.Scope, params ListParams) (Page[models.Employee], error) {
	return paginate[models.Employee](ctx, s.query(sc, params), params, s.pages, employeeSorts, "employees.employee_code asc", employeePreloads...)
}

// Export returns every employee matching params for spreadsheet export.
func (s *EmployeeService) Export(ctx context.Context, sc scope.Scope, params ListParams) ([]models.Employee, error) {
	var employees []models.Employee
	query := applySort(s.query(sc, params).WithContext(ctx), params, employeeSorts, "employees.employee_code asc")
	for _, preload := range employeePreloads {
		query = query.Preload(preload)
	}
	if err := query.Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	return employees, nil
}

// Options lists active employees visible under sc for select inputs.
func (s *EmployeeService) Options(ctx context.Context, sc scope.Scope) ([]models.Employee, error) {
	var employees []models.Employee
	if err := s.db.WithContext(ctx).
		Scopes(sc.Apply(scope.Employee)).
		Where("employees.status = ?", models.EmployeeActive).
		Order("employees.first_name").
		Order("employees.last_name").
		Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	return employees, nil
}

// Get loads an employee; rows outside sc are reported as not found.
func (s *EmployeeService) Get(ctx context.Context, sc scope.Scope, id uint) (models.Employee, error) {
	var employee models.Employee
	query := s.db.WithContext(ctx).Scopes(sc.Apply(scope.Employee))
	for _, preload := range employeePreloads {
		query = query.Preload(preload)
	}
	if err := query.First(&employee, "employees.id = ?", id).Error; err != nil {
		return models.Employee{}, loadError(err, "employee")
	}
	return employee, nil
}

// Create adds an employee inside sc. Codes and emails are unique.
func (s *EmployeeService) Create(ctx context.Context, sc scope.Scope, in EmployeeInput) (models.Employee, error) {
	employee := models.Employee{Status: models.EmployeeActive}
	if err := s.apply(ctx, &employee, in); err != nil {
		return models.Employee{}, err
	}
	if !sc.Allows(employee.BranchID, employee.DepartmentID) {
		return models.Employee{}, apperror.Validation("branch_id", "you may only add employees inside your own scope")
	}
	if err := s.db.WithContext(ctx).Omit(employeePreloads...).Create(&employee).Error; err != nil {
		return models.Employee{}, database.MapError(err)
	}
	return employee, nil
}

func (s *EmployeeService) Update(ctx context.Context, sc scope.Scope, id uint, in EmployeeInput) (models.Employee, error) {
	var employee models.Employee
	if err := s.db.WithContext(ctx).Scopes(sc.Apply(scope.Employee)).First(&employee, "employees.id = ?", id).Error; err != nil {
		return models.Employee{}, loadError(err, "employee")
	}
	if err := s.apply(ctx, &employee, in); err != nil {
		return models.Employee{}, err
	}
	if !sc.Allows(employee.BranchID, employee.DepartmentID) {
		return models.Employee{}, apperror.Validation("branch_id", "you may only move employees inside your own scope")
	}
	if err := s.db.WithContext(ctx).Omit(employeePreloads...).Save(&employee).Error; err != nil {
		return models.Employee{}, database.MapError(err)
	}
	return employee, nil
}

// Delete removes the employee together with their leave, movement,
// transfer and attendance rows.
func (s *EmployeeService) Delete(ctx context.Context, sc scope.Scope, id uint) error {
	var employee models.Employee
	if err := s.db.WithContext(ctx).Scopes(sc.Apply(scope.Employee)).First(&employee, "employees.id = ?", id).Error; err != nil {
		return loadError(err, "employee")
	}
	if err := s.db.WithContext(ctx).Delete(&models.Employee{}, employee.ID).Error; err != nil {
		return database.MapError(err)
	}
	return nil
}

func (s *EmployeeService) apply(ctx context.Context, employee *models.Employee, in EmployeeInput) error {
	fields := map[string]string{}
	required := []struct {
		value *string
		raw   string
		field string
		max   int
	}{
		{&employee.EmployeeCode, in.EmployeeCode, "employee_code", 30},
		{&employee.FirstName, in.FirstName, "first_name", 100},
		{&employee.LastName, in.LastName, "last_name", 100},
		{&employee.Email, in.Email, "email", 150},
	}
	for _, r := range required {
		value, err := normalizeRequiredString(r.raw, r.field, r.max)
		if err != nil {
			fields[r.field] = err.Error()
			continue
		}
		*r.value = value
	}
	employee.Email = strings.ToLower(employee.Email)

	joining, err := parseRequiredDate(in.JoiningDate, "joining_date")
	if err != nil {
		fields["joining_date"] = err.Error()
	}
	var birth *time.Time
	if raw := normalizeOptionalString(in.DateOfBirth); raw != nil {
		d, err := parseRequiredDate(*raw, "date_of_birth")
		if err != nil {
			fields["date_of_birth"] = err.Error()
		} else {
			birth = &d
		}
	}
	if in.Status != "" && !models.EmployeeStatus(in.Status).Valid() {
		fields["status"] = "the selected status is invalid"
	}
	if len(fields) > 0 {
		return apperror.ValidationFields(fields)
	}

	if err := ensureReference(ctx, s.db, &models.Branch{}, in.BranchID, "branch_id"); err != nil {
		return err
	}
	if err := ensureReference(ctx, s.db, &models.Department{}, in.DepartmentID, "department_id"); err != nil {
		return err
	}
	var designation models.Designation
	if err := s.db.WithContext(ctx).Select("id", "department_id").First(&designation, in.DesignationID).Error; err != nil {
		if database.IsNotFound(err) {
			return apperror.Validation("designation_id", "the selected designation is invalid")
		}
		return fmt.Errorf("check designation: %w", err)
	}
	if designation.DepartmentID != in.DepartmentID {
		return apperror.Validation("designation_id", "the designation does not belong to the selected department")
	}
	if in.ReportingToID != nil {
		if employee.ID != 0 && *in.ReportingToID == employee.ID {
			return apperror.Validation("reporting_to_id", "an employee cannot report to themselves")
		}
		if err := ensureReference(ctx, s.db, &models.Employee{}, *in.ReportingToID, "reporting_to_id"); err != nil {
			return err
		}
		if employee.ID != 0 && !equalUintPtr(employee.ReportingToID, in.ReportingToID) {
			cycle, err := s.wouldCreateCycle(ctx, employee.ID, *in.ReportingToID)
			if err != nil {
				return err
			}
			if cycle {
				return apperror.Validation("reporting_to_id", "the selected supervisor would create a reporting cycle")
			}
		}
	}

	employee.Phone = normalizeOptionalString(in.Phone)
	employee.NationalID = normalizeOptionalString(in.NationalID)
	employee.Gender = normalizeOptionalString(in.Gender)
	employee.DateOfBirth = birth
	employee.JoiningDate = joining
	employee.Address = normalizeOptionalString(in.Address)
	employee.DepartmentID = in.DepartmentID
	employee.DesignationID = in.DesignationID
	employee.BranchID = in.BranchID
	employee.ReportingToID = in.ReportingToID
	if in.Status != "" {
		employee.Status = models.EmployeeStatus(in.Status)
	}
	return nil
}

// wouldCreateCycle walks the supervisor chain upward from supervisorID.
func (s *EmployeeService) wouldCreateCycle(ctx context.Context, employeeID, supervisorID uint) (bool, error) {
	seen := map[uint]struct{}{}
	currentID := &supervisorID
	for currentID != nil {
		if *currentID == employeeID {
			return true, nil
		}
		if _, ok := seen[*currentID]; ok {
			return true, nil
		}
		seen[*currentID] = struct{}{}

		var supervisor models.Employee
		if err := s.db.WithContext(ctx).
			Select("id", "reporting_to_id").
			First(&supervisor, *currentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("load reporting chain: %w", err)
		}
		currentID = supervisor.ReportingToID
	}
	return false, nil
}
