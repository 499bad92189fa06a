package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/utils"
)

type LeaveInput struct {
	EmployeeID  uint   `json:"employee_id" binding:"required"`
	LeaveTypeID uint   `json:"leave_type_id" binding:"required"`
	StartDate   string `json:"start_date" binding:"required,date"`
	EndDate     string `json:"end_date" binding:"required,date"`
	Reason      string `json:"reason" binding:"required"`
}

type LeaveService struct {
	db    *gorm.DB
	pages Pagination
	now   func() time.Time
}

// NewLeaveService returns the leave application service.
func NewLeaveService(db *gorm.DB, pages Pagination) *LeaveService {
	return &LeaveService{db: db, pages: pages, now: time.Now}
}

var leaveSorts = map[string]string{
	"start_date": "leave_applications.start_date",
	"end_date":   "leave_applications.end_date",
	"status":     "leave_applications.status",
	"created_at": "leave_applications.created_at",
}

func (s *LeaveService) List(ctx context.Context, sc scope.Scope, params ListParams) (Page[models.LeaveApplication], error) {
	query := s.db.Model(&models.LeaveApplication{}).Scopes(sc.Apply(scope.Leave))
	if params.Status != "" {
		query = query.Where("leave_applications.status = ?", params.Status)
	}
	if term := searchTerm(params.Search); term != "" {
		query = query.Where(
			"leave_applications.employee_id IN (SELECT id FROM employees WHERE first_name ILIKE ? OR last_name ILIKE ? OR employee_code ILIKE ?)",
			term, term, term,
		)
	}
	return paginate[models.LeaveApplication](ctx, query, params, s.pages, leaveSorts, "leave_applications.created_at desc", "Employee", "LeaveType")
}

func (s *LeaveService) Get(ctx context.Context, sc scope.Scope, id uint) (models.LeaveApplication, error) {
	var leave models.LeaveApplication
	err := findScoped(ctx, s.db, sc, scope.Leave, "leave_applications", &leave, id, "leave application", "Employee", "LeaveType")
	return leave, err
}

// Apply files a pending leave application for an employee inside sc.
func (s *LeaveService) Apply(ctx context.Context, sc scope.Scope, in LeaveInput) (models.LeaveApplication, error) {
	reason, err := normalizeRequiredString(in.Reason, "reason", 2000)
	if err != nil {
		return models.LeaveApplication{}, err
	}
	start, err := parseRequiredDate(in.StartDate, "start_date")
	if err != nil {
		return models.LeaveApplication{}, err
	}
	end, err := parseRequiredDate(in.EndDate, "end_date")
	if err != nil {
		return models.LeaveApplication{}, err
	}
	if end.Before(start) {
		return models.LeaveApplication{}, apperror.Validation("end_date", "the end date must be a date after or equal to start date")
	}
	employee, err := visibleEmployee(ctx, s.db, sc, in.EmployeeID)
	if err != nil {
		return models.LeaveApplication{}, err
	}
	if err := ensureReference(ctx, s.db, &models.LeaveType{}, in.LeaveTypeID, "leave_type_id"); err != nil {
		return models.LeaveApplication{}, err
	}

	overlapping, err := countWhere(ctx, s.db, &models.LeaveApplication{},
		"employee_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
		employee.ID, []models.LeaveStatus{models.LeavePending, models.LeaveApproved},
		end.Format(models.DateLayout), start.Format(models.DateLayout),
	)
	if err != nil {
		return models.LeaveApplication{}, err
	}
	if overlapping > 0 {
		return models.LeaveApplication{}, apperror.Validation("start_date", "the employee already has leave in this period")
	}

	leave := models.LeaveApplication{
		EmployeeID:  employee.ID,
		LeaveTypeID: in.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   utils.InclusiveDays(start, end),
		Reason:      reason,
		Status:      models.LeavePending,
	}
	if err := s.db.WithContext(ctx).Create(&leave).Error; err != nil {
		return models.LeaveApplication{}, database.MapError(err)
	}
	return leave, nil
}

// Approve approves a pending application inside sc.
func (s *LeaveService) Approve(ctx context.Context, sc scope.Scope, id, reviewerID uint) error {
	if _, err := s.Get(ctx, sc, id); err != nil {
		return err
	}
	return transition(s.db.WithContext(ctx), &models.LeaveApplication{}, id,
		string(models.LeavePending), string(models.LeaveApproved),
		map[string]interface{}{"reviewed_by": reviewerID, "reviewed_at": s.now().UTC()},
	)
}

func (s *LeaveService) Reject(ctx context.Context, sc scope.Scope, id, reviewerID uint, reason string) error {
	if _, err := s.Get(ctx, sc, id); err != nil {
		return err
	}
	updates := map[string]interface{}{"reviewed_by": reviewerID, "reviewed_at": s.now().UTC()}
	if reason = strings.TrimSpace(reason); reason != "" {
		updates["rejection_reason"] = reason
	}
	return transition(s.db.WithContext(ctx), &models.LeaveApplication{}, id,
		string(models.LeavePending), string(models.LeaveRejected), updates,
	)
}

// Delete withdraws a pending application.
func (s *LeaveService) Delete(ctx context.Context, sc scope.Scope, id uint) error {
	leave, err := s.Get(ctx, sc, id)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", leave.ID, models.LeavePending).
		Delete(&models.LeaveApplication{})
	if result.Error != nil {
		return database.MapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.Conflict("only pending leave applications can be deleted")
	}
	return nil
}
