package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/auth"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
)

// Services bundles every service the handlers depend on.
type Services struct {
	Auth         *AuthService
	Branches     *BranchService
	Departments  *DepartmentService
	Designations *DesignationService
	Employees    *EmployeeService
	Roles        *RoleService
	Users        *UserService
	Holidays     *HolidayService
	LeaveTypes   *LeaveTypeService
	Leaves       *LeaveService
	Movements    *MovementService
	Transfers    *TransferService
	Attendance   *AttendanceService
	Dashboard    *DashboardService
}

type Options struct {
	Catalog     permissions.Catalog
	Pagination  Pagination
	Tokens      *auth.TokenIssuer
	Revocations auth.RevocationList
	Logger      *logrus.Logger
}

// New wires every service over db.
func New(db *gorm.DB, opts Options) *Services {
	holidays := NewHolidayService(db, opts.Pagination)
	return &Services{
		Auth:         NewAuthService(db, opts.Tokens, opts.Revocations, opts.Logger),
		Branches:     NewBranchService(db, opts.Pagination),
		Departments:  NewDepartmentService(db, opts.Pagination),
		Designations: NewDesignationService(db, opts.Pagination),
		Employees:    NewEmployeeService(db, opts.Pagination),
		Roles:        NewRoleService(db, opts.Catalog, opts.Pagination),
		Users:        NewUserService(db, opts.Pagination),
		Holidays:     holidays,
		LeaveTypes:   NewLeaveTypeService(db, opts.Pagination),
		Leaves:       NewLeaveService(db, opts.Pagination),
		Movements:    NewMovementService(db, opts.Pagination),
		Transfers:    NewTransferService(db, opts.Pagination),
		Attendance:   NewAttendanceService(db, opts.Pagination),
		Dashboard:    NewDashboardService(db, holidays),
	}
}

// Pagination bounds the page size of list screens.
type Pagination struct {
	DefaultSize int
	MaxSize     int
}

// ListParams are the query-string options shared by list screens.
type ListParams struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"per_page"`
	Search       string `form:"search"`
	Sort         string `form:"sort"`
	Order        string `form:"order"`
	Status       string `form:"status"`
	BranchID     uint   `form:"branch_id"`
	DepartmentID uint   `form:"department_id"`
	Date         string `form:"date"`
	Year         int    `form:"year"`
}

type Page[T any] struct {
	Data     []T   `json:"data"`
	Total    int64 `json:"total"`
	Page     int   `json:"current_page"`
	PageSize int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

func (p Pagination) resolve(params ListParams) (int, int) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.PageSize
	if size < 1 {
		size = p.DefaultSize
	}
	if size < 1 {
		size = 15
	}
	if p.MaxSize > 0 && size > p.MaxSize {
		size = p.MaxSize
	}
	return page, size
}

// paginate counts and loads one page of query. columns whitelists the sort
// keys a client may request; preloads are applied to the page query only.
func paginate[T any](ctx context.Context, query *gorm.DB, params ListParams, p Pagination, columns map[string]string, fallback string, preloads ...string) (Page[T], error) {
	page, size := p.resolve(params)
	query = query.WithContext(ctx).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count rows: %w", err)
	}

	items := make([]T, 0)
	find := applySort(query, params, columns, fallback)
	for _, preload := range preloads {
		find = find.Preload(preload)
	}
	if err := find.Offset((page - 1) * size).Limit(size).Find(&items).Error; err != nil {
		return Page[T]{}, fmt.Errorf("load rows: %w", err)
	}

	lastPage := int((total + int64(size) - 1) / int64(size))
	if lastPage < 1 {
		lastPage = 1
	}
	return Page[T]{
		Data:     items,
		Total:    total,
		Page:     page,
		PageSize: size,
		LastPage: lastPage,
	}, nil
}

func applySort(query *gorm.DB, params ListParams, columns map[string]string, fallback string) *gorm.DB {
	column, ok := columns[strings.ToLower(strings.TrimSpace(params.Sort))]
	if !ok {
		return query.Order(fallback)
	}
	order := strings.ToLower(params.Order)
	if order != "asc" && order != "desc" {
		order = "asc"
	}
	return query.Order(column + " " + order)
}

// searchTerm turns user input into an ILIKE pattern, or "" when blank.
func searchTerm(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	raw = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(raw)
	return "%" + raw + "%"
}

func normalizeRequiredString(raw, field string, max int) (string, error) {
	value := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(value)
	if length == 0 {
		return "", apperror.Validation(field, fmt.Sprintf("the %s field is required", humanize(field)))
	}
	if length > max {
		return "", apperror.Validation(field, fmt.Sprintf("the %s may not be greater than %d characters", humanize(field), max))
	}
	return value, nil
}

func normalizeOptionalString(raw *string) *string {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	return &value
}

func parseRequiredDate(raw, field string) (time.Time, error) {
	d, err := models.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperror.Validation(field, fmt.Sprintf("the %s is not a valid date", humanize(field)))
	}
	return d, nil
}

func humanize(field string) string {
	return strings.ReplaceAll(strings.TrimSuffix(field, "_id"), "_", " ")
}

func equalUintPtr(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// loadError maps a failed First into not found or a wrapped error.
func loadError(err error, what string) error {
	if database.IsNotFound(err) {
		return apperror.NotFound(what + " not found")
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// ensureReference rejects a foreign key that points at no row.
func ensureReference(ctx context.Context, db *gorm.DB, model interface{}, id uint, field string) error {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s: %w", field, err)
	}
	if count == 0 {
		return apperror.Validation(field, fmt.Sprintf("the selected %s is invalid", humanize(field)))
	}
	return nil
}

func countWhere(ctx context.Context, db *gorm.DB, model interface{}, query string, args ...interface{}) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
