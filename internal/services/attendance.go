package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

const clockLayout = "15:04"

type AttendanceEntry struct {
	EmployeeID uint    `json:"employee_id" binding:"required"`
	Status     string  `json:"status" binding:"required,oneof=present absent late half_day on_leave"`
	CheckIn    *string `json:"check_in" binding:"omitempty,datetime=15:04"`
	CheckOut   *string `json:"check_out" binding:"omitempty,datetime=15:04"`
	Note       *string `json:"note"`
}

type AttendanceInput struct {
	AttendanceEntry
	Date string `json:"date" binding:"required,date"`
}

type BulkAttendanceInput struct {
	Date    string            `json:"date" binding:"required,date"`
	Entries []AttendanceEntry `json:"entries" binding:"required,min=1,dive"`
}

type AttendanceService struct {
	db    *gorm.DB
	pages Pagination
}

// NewAttendanceService returns the attendance register service.
func NewAttendanceService(db *gorm.DB, pages Pagination) *AttendanceService {
	return &AttendanceService{db: db, pages: pages}
}

var attendanceSorts = map[string]string{
	"date":   "attendances.date",
	"status": "attendances.status",
}

// upsert keeps one row per employee and day; marking again overwrites it.
var upsert = clause.OnConflict{
	Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
	DoUpdates: clause.AssignmentColumns([]string{"status", "check_in", "check_out", "note", "updated_at"}),
}

func (s *AttendanceService) List(ctx context.Context, sc scope.Scope, params ListParams) (Page[models.Attendance], error) {
	query := s.db.Model(&models.Attendance{}).Scopes(sc.Apply(scope.Attendance))
	if params.Date != "" {
		date, err := parseRequiredDate(params.Date, "date")
		if err != nil {
			return Page[models.Attendance]{}, err
		}
		query = query.Where("attendances.date = ?", date.Format(models.DateLayout))
	}
	if params.Status != "" {
		query = query.Where("attendances.status = ?", params.Status)
	}
	if params.DepartmentID != 0 {
		query = query.Where("attendances.employee_id IN (SELECT id FROM employees WHERE department_id = ?)", params.DepartmentID)
	}
	return paginate[models.Attendance](ctx, query, params, s.pages, attendanceSorts, "attendances.date desc", "Employee")
}

// Mark records one employee's attendance for a day.
func (s *AttendanceService) Mark(ctx context.Context, sc scope.Scope, in AttendanceInput) (models.Attendance, error) {
	date, err := parseRequiredDate(in.Date, "date")
	if err != nil {
		return models.Attendance{}, err
	}
	row, err := attendanceRow(date, in.AttendanceEntry)
	if err != nil {
		return models.Attendance{}, err
	}
	if _, err := visibleEmployee(ctx, s.db, sc, in.EmployeeID); err != nil {
		return models.Attendance{}, err
	}
	if err := s.db.WithContext(ctx).Omit("Employee").Clauses(upsert).Create(&row).Error; err != nil {
		return models.Attendance{}, database.MapError(err)
	}
	return row, nil
}

// MarkBulk records a whole day for several employees at once. Either every
// entry is stored or none is.
func (s *AttendanceService) MarkBulk(ctx context.Context, sc scope.Scope, in BulkAttendanceInput) (int, error) {
	date, err := parseRequiredDate(in.Date, "date")
	if err != nil {
		return 0, err
	}
	if len(in.Entries) == 0 {
		return 0, apperror.Validation("entries", "at least one entry is required")
	}

	rows := make([]models.Attendance, 0, len(in.Entries))
	ids := make([]uint, 0, len(in.Entries))
	seen := map[uint]struct{}{}
	for i, entry := range in.Entries {
		if _, ok := seen[entry.EmployeeID]; ok {
			return 0, apperror.Validation(fmt.Sprintf("entries.%d.employee_id", i), "the employee is listed more than once")
		}
		seen[entry.EmployeeID] = struct{}{}
		row, err := attendanceRow(date, entry)
		if err != nil {
			return 0, prefixFields(err, fmt.Sprintf("entries.%d.", i))
		}
		rows = append(rows, row)
		ids = append(ids, entry.EmployeeID)
	}

	var visible int64
	if err := s.db.WithContext(ctx).
		Model(&models.Employee{}).
		Scopes(sc.Apply(scope.Employee)).
		Where("employees.id IN ?", ids).
		Count(&visible).Error; err != nil {
		return 0, fmt.Errorf("check employees: %w", err)
	}
	if int(visible) != len(ids) {
		return 0, apperror.Validation("entries", "one or more selected employees are invalid")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Employee").Clauses(upsert).Create(&rows).Error
	})
	if err != nil {
		return 0, database.MapError(err)
	}
	return len(rows), nil
}

func (s *AttendanceService) Delete(ctx context.Context, sc scope.Scope, id uint) error {
	var row models.Attendance
	if err := findScoped(ctx, s.db, sc, scope.Attendance, "attendances", &row, id, "attendance"); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Attendance{}, row.ID).Error; err != nil {
		return database.MapError(err)
	}
	return nil
}

func attendanceRow(date time.Time, entry AttendanceEntry) (models.Attendance, error) {
	status := models.AttendanceStatus(entry.Status)
	if !status.Valid() {
		return models.Attendance{}, apperror.Validation("status", "the selected status is invalid")
	}
	checkIn, err := parseClock(entry.CheckIn, "check_in")
	if err != nil {
		return models.Attendance{}, err
	}
	checkOut, err := parseClock(entry.CheckOut, "check_out")
	if err != nil {
		return models.Attendance{}, err
	}
	if checkIn != nil && checkOut != nil && *checkOut < *checkIn {
		return models.Attendance{}, apperror.Validation("check_out", "the check out must be after check in")
	}
	return models.Attendance{
		EmployeeID: entry.EmployeeID,
		Date:       date,
		Status:     status,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Note:       normalizeOptionalString(entry.Note),
	}, nil
}

func parseClock(raw *string, field string) (*string, error) {
	value := normalizeOptionalString(raw)
	if value == nil {
		return nil, nil
	}
	t, err := time.Parse(clockLayout, *value)
	if err != nil {
		return nil, apperror.Validation(field, fmt.Sprintf("the %s does not match the format HH:MM", humanize(field)))
	}
	formatted := t.Format(clockLayout)
	return &formatted, nil
}

func prefixFields(err error, prefix string) error {
	fields := apperror.FieldErrors(err)
	if fields == nil {
		return err
	}
	prefixed := make(map[string]string, len(fields))
	for k, v := range fields {
		prefixed[prefix+strings.TrimPrefix(k, prefix)] = v
	}
	return apperror.ValidationFields(prefixed)
}
