package handlers

import (
	"context"
	"time"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/auth"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/calendar"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/dashboard"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/services"
)

// crudService is the shape shared by the unscoped reference-data services.
type crudService[T any, In any] interface {
	List(ctx context.Context, params services.ListParams) (services.Page[T], error)
	Get(ctx context.Context, id uint) (T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id uint, in In) (T, error)
	Delete(ctx context.Context, id uint) error
}

type AuthService interface {
	Login(ctx context.Context, in services.LoginInput) (services.Session, error)
	Logout(ctx context.Context, claims auth.Claims) error
	Authenticate(ctx context.Context, raw string) (scope.Principal, auth.Claims, error)
}

type DashboardService interface {
	Overview(ctx context.Context, p scope.Principal, sc scope.Scope, asOf time.Time) (services.Overview, error)
	Counts(ctx context.Context, rt scope.RecordType, sc scope.Scope, asOf time.Time) (dashboard.CountSet, error)
}

type BranchService interface {
	crudService[models.Branch, services.BranchInput]
	Options(ctx context.Context) ([]models.Branch, error)
}

type DepartmentService interface {
	crudService[models.Department, services.DepartmentInput]
	Options(ctx context.Context, branchID uint) ([]models.Department, error)
}

type DesignationService interface {
	crudService[models.Designation, services.DesignationInput]
	Options(ctx context.Context, departmentID uint) ([]models.Designation, error)
}

type RoleService interface {
	crudService[models.Role, services.RoleInput]
	Options(ctx context.Context) ([]models.Role, error)
	Catalog() permissions.Catalog
}

type UserService interface {
	List(ctx context.Context, params services.ListParams) (services.Page[models.User], error)
	Get(ctx context.Context, id uint) (models.User, error)
	Create(ctx context.Context, in services.UserInput) (models.User, error)
	Update(ctx context.Context, id uint, in services.UserInput) (models.User, error)
	Delete(ctx context.Context, actorID, id uint) error
}

type HolidayService interface {
	crudService[models.Holiday, services.HolidayInput]
	Calendar(ctx context.Context, year int, month time.Month, branchID *uint, today time.Time) ([]calendar.DayEntry, error)
}

type LeaveTypeService interface {
	crudService[models.LeaveType, services.LeaveTypeInput]
	Options(ctx context.Context) ([]models.LeaveType, error)
}

type EmployeeService interface {
	List(ctx context.Context, sc scope.Scope, params services.ListParams) (services.Page[models.Employee], error)
	Export(ctx context.Context, sc scope.Scope, params services.ListParams) ([]models.Employee, error)
	Options(ctx context.Context, sc scope.Scope) ([]models.Employee, error)
	Get(ctx context.Context, sc scope.Scope, id uint) (models.Employee, error)
	Create(ctx context.Context, sc scope.Scope, in services.EmployeeInput) (models.Employee, error)
	Update(ctx context.Context, sc scope.Scope, id uint, in services.EmployeeInput) (models.Employee, error)
	Delete(ctx context.Context, sc scope.Scope, id uint) error
}

type LeaveService interface {
	List(ctx context.Context, sc scope.Scope, params services.ListParams) (services.Page[models.LeaveApplication], error)
	Get(ctx context.Context, sc scope.Scope, id uint) (models.LeaveApplication, error)
	Apply(ctx context.Context, sc scope.Scope, in services.LeaveInput) (models.LeaveApplication, error)
	Approve(ctx context.Context, sc scope.Scope, id, reviewerID uint) error
	Reject(ctx context.Context, sc scope.Scope, id, reviewerID uint, reason string) error
	Delete(ctx context.Context, sc scope.Scope, id uint) error
}

type MovementService interface {
	List(ctx context.Context, sc scope.Scope, params services.ListParams) (services.Page[models.Movement], error)
	Get(ctx context.Context, sc scope.Scope, id uint) (models.Movement, error)
	Create(ctx context.Context, sc scope.Scope, in services.MovementInput) (models.Movement, error)
	Approve(ctx context.Context, sc scope.Scope, id, reviewerID uint, remarks string) error
	Reject(ctx context.Context, sc scope.Scope, id, reviewerID uint, remarks string) error
	Complete(ctx context.Context, sc scope.Scope, id uint) error
	Delete(ctx context.Context, sc scope.Scope, id uint) error
}

type TransferService interface {
	List(ctx context.Context, sc scope.Scope, params services.ListParams) (services.Page[models.Transfer], error)
	Get(ctx context.Context, sc scope.Scope, id uint) (models.Transfer, error)
	Create(ctx context.Context, sc scope.Scope, in services.TransferInput) (models.Transfer, error)
	Approve(ctx context.Context, sc scope.Scope, id, reviewerID uint, remarks string) error
	Reject(ctx context.Context, sc scope.Scope, id, reviewerID uint, remarks string) error
	Complete(ctx context.Context, sc scope.Scope, id uint) error
	Delete(ctx context.Context, sc scope.Scope, id uint) error
}

type AttendanceService interface {
	List(ctx context.Context, sc scope.Scope, params services.ListParams) (services.Page[models.Attendance], error)
	Mark(ctx context.Context, sc scope.Scope, in services.AttendanceInput) (models.Attendance, error)
	MarkBulk(ctx context.Context, sc scope.Scope, in services.BulkAttendanceInput) (int, error)
	Delete(ctx context.Context, sc scope.Scope, id uint) error
}

// Services is what the handlers need from the service layer.
type Services struct {
	Auth         AuthService
	Dashboard    DashboardService
	Branches     BranchService
	Departments  DepartmentService
	Designations DesignationService
	Roles        RoleService
	Users        UserService
	Holidays     HolidayService
	LeaveTypes   LeaveTypeService
	Employees    EmployeeService
	Leaves       LeaveService
	Movements    MovementService
	Transfers    TransferService
	Attendance   AttendanceService
}

// FromServices adapts the concrete service bundle.
func FromServices(s *services.Services) Services {
	return Services{
		Auth:         s.Auth,
		Dashboard:    s.Dashboard,
		Branches:     s.Branches,
		Departments:  s.Departments,
		Designations: s.Designations,
		Roles:        s.Roles,
		Users:        s.Users,
		Holidays:     s.Holidays,
		LeaveTypes:   s.LeaveTypes,
		Employees:    s.Employees,
		Leaves:       s.Leaves,
		Movements:    s.Movements,
		Transfers:    s.Transfers,
		Attendance:   s.Attendance,
	}
}
