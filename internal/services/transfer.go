package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

type TransferInput struct {
	EmployeeID     uint   `json:"employee_id" binding:"required"`
	ToBranchID     uint   `json:"to_branch_id" binding:"required"`
	ToDepartmentID *uint  `json:"to_department_id"`
	EffectiveDate  string `json:"effective_date" binding:"required,date"`
	Reason         string `json:"reason" binding:"required"`
}

// TransferService files and reviews branch transfers. Transfers are scoped by
// branch only: a branch manager sees transfers out of and into the branch.
type TransferService struct {
	db    *gorm.DB
	pages Pagination
	now   func() time.Time
}

// NewTransferService returns the transfer workflow service.
func NewTransferService(db *gorm.DB, pages Pagination) *TransferService {
	return &TransferService{db: db, pages: pages, now: time.Now}
}

var transferSorts = map[string]string{
	"effective_date": "transfers.effective_date",
	"status":         "transfers.status",
	"created_at":     "transfers.created_at",
}

var transferPreloads = []string{"Employee", "FromBranch", "ToBranch"}

func (s *TransferService) List(ctx context.Context, sc scope.Scope, params ListParams) (Page[models.Transfer], error) {
	query := s.db.Model(&models.Transfer{}).Scopes(sc.Apply(scope.Transfer))
	if params.Status != "" {
		query = query.Where("transfers.status = ?", params.Status)
	}
	if params.BranchID != 0 {
		query = query.Where("(transfers.from_branch_id = ? OR transfers.to_branch_id = ?)", params.BranchID, params.BranchID)
	}
	return paginate[models.Transfer](ctx, query, params, s.pages, transferSorts, "transfers.created_at desc", transferPreloads...)
}

func (s *TransferService) Get(ctx context.Context, sc scope.Scope, id uint) (models.Transfer, error) {
	var transfer models.Transfer
	err := findScoped(ctx, s.db, sc, scope.Transfer, "transfers", &transfer, id, "transfer", transferPreloads...)
	return transfer, err
}

// Create files a pending transfer from the employee's current placement.
func (s *TransferService) Create(ctx context.Context, sc scope.Scope, in TransferInput) (models.Transfer, error) {
	reason, err := normalizeRequiredString(in.Reason, "reason", 2000)
	if err != nil {
		return models.Transfer{}, err
	}
	effective, err := parseRequiredDate(in.EffectiveDate, "effective_date")
	if err != nil {
		return models.Transfer{}, err
	}
	employee, err := visibleEmployee(ctx, s.db, sc, in.EmployeeID)
	if err != nil {
		return models.Transfer{}, err
	}
	if err := ensureReference(ctx, s.db, &models.Branch{}, in.ToBranchID, "to_branch_id"); err != nil {
		return models.Transfer{}, err
	}
	if in.ToDepartmentID != nil {
		var department models.Department
		if err := s.db.WithContext(ctx).Select("id", "branch_id").First(&department, *in.ToDepartmentID).Error; err != nil {
			if database.IsNotFound(err) {
				return models.Transfer{}, apperror.Validation("to_department_id", "the selected to department is invalid")
			}
			return models.Transfer{}, err
		}
		if department.BranchID != in.ToBranchID {
			return models.Transfer{}, apperror.Validation("to_department_id", "the department does not belong to the destination branch")
		}
	}
	if in.ToBranchID == employee.BranchID && (in.ToDepartmentID == nil || *in.ToDepartmentID == employee.DepartmentID) {
		return models.Transfer{}, apperror.Validation("to_branch_id", "the destination must differ from the current placement")
	}

	fromDepartment := employee.DepartmentID
	transfer := models.Transfer{
		EmployeeID:       employee.ID,
		FromBranchID:     employee.BranchID,
		ToBranchID:       in.ToBranchID,
		FromDepartmentID: &fromDepartment,
		ToDepartmentID:   in.ToDepartmentID,
		EffectiveDate:    effective,
		Reason:           reason,
		Status:           models.StatusPending,
	}
	if err := s.db.WithContext(ctx).Omit(transferPreloads...).Create(&transfer).Error; err != nil {
		return models.Transfer{}, database.MapError(err)
	}
	return transfer, nil
}

// Approve records reviewerID as the approver of a pending transfer.
func (s *TransferService) Approve(ctx context.Context, sc scope.Scope, id, reviewerID uint, remarks string) error {
	if _, err := s.Get(ctx, sc, id); err != nil {
		return err
	}
	return transition(s.db.WithContext(ctx), &models.Transfer{}, id,
		string(models.StatusPending), string(models.StatusApproved), s.reviewUpdates(reviewerID, remarks))
}

func (s *TransferService) Reject(ctx context.Context, sc scope.Scope, id, reviewerID uint, remarks string) error {
	if _, err := s.Get(ctx, sc, id); err != nil {
		return err
	}
	return transition(s.db.WithContext(ctx), &models.Transfer{}, id,
		string(models.StatusPending), string(models.StatusRejected), s.reviewUpdates(reviewerID, remarks))
}

// Complete applies an approved transfer: the employee moves to the
// destination branch, and department when one was given, in the same
// transaction as the status change.
func (s *TransferService) Complete(ctx context.Context, sc scope.Scope, id uint) error {
	transfer, err := s.Get(ctx, sc, id)
	if err != nil {
		return err
	}
	if transfer.Status != models.StatusApproved {
		return apperror.Conflict(fmt.Sprintf("only %s requests can be marked %s", models.StatusApproved, models.StatusCompleted))
	}
	if transfer.EffectiveDate.After(models.DateOnly(s.now())) {
		return apperror.Conflict("the transfer is not effective yet")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := transition(tx, &models.Transfer{}, transfer.ID,
			string(models.StatusApproved), string(models.StatusCompleted), nil); err != nil {
			return err
		}
		placement := map[string]interface{}{"branch_id": transfer.ToBranchID}
		if transfer.ToDepartmentID != nil {
			placement["department_id"] = *transfer.ToDepartmentID
		}
		if err := tx.Model(&models.Employee{}).Where("id = ?", transfer.EmployeeID).Updates(placement).Error; err != nil {
			return database.MapError(err)
		}
		return nil
	})
}

func (s *TransferService) Delete(ctx context.Context, sc scope.Scope, id uint) error {
	transfer, err := s.Get(ctx, sc, id)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", transfer.ID, models.StatusPending).
		Delete(&models.Transfer{})
	if result.Error != nil {
		return database.MapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.Conflict("only pending transfers can be deleted")
	}
	return nil
}

func (s *TransferService) reviewUpdates(reviewerID uint, remarks string) map[string]interface{} {
	updates := map[string]interface{}{"reviewed_by": reviewerID, "reviewed_at": s.now().UTC()}
	if remarks = strings.TrimSpace(remarks); remarks != "" {
		updates["remarks"] = remarks
	}
	return updates
}
