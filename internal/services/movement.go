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
)

type MovementInput struct {
	EmployeeID  uint   `json:"employee_id" binding:"required"`
	FromDate    string `json:"from_date" binding:"required,date"`
	ToDate      string `json:"to_date" binding:"required,date"`
	Destination string `json:"destination" binding:"required,max=200"`
	Purpose     string `json:"purpose" binding:"required"`
}

type MovementService struct {
	db    *gorm.DB
	pages Pagination
	now   func() time.Time
}

// NewMovementService returns the movement register service.
func NewMovementService(db *gorm.DB, pages Pagination) *MovementService {
	return &MovementService{db: db, pages: pages, now: time.Now}
}

var movementSorts = map[string]string{
	"from_date":  "movements.from_date",
	"to_date":    "movements.to_date",
	"status":     "movements.status",
	"created_at": "movements.created_at",
}

func (s *MovementService) List(ctx context.Context, sc scope.Scope, params ListParams) (Page[models.Movement], error) {
	query := s.db.Model(&models.Movement{}).Scopes(sc.Apply(scope.Movement))
	if params.Status != "" {
		query = query.Where("movements.status = ?", params.Status)
	}
	if term := searchTerm(params.Search); term != "" {
		query = query.Where("(movements.destination ILIKE ? OR movements.purpose ILIKE ?)", term, term)
	}
	return paginate[models.Movement](ctx, query, params, s.pages, movementSorts, "movements.created_at desc", "Employee")
}

func (s *MovementService) Get(ctx context.Context, sc scope.Scope, id uint) (models.Movement, error) {
	var movement models.Movement
	err := findScoped(ctx, s.db, sc, scope.Movement, "movements", &movement, id, "movement", "Employee")
	return movement, err
}

func (s *MovementService) Create(ctx context.Context, sc scope.Scope, in MovementInput) (models.Movement, error) {
	destination, err := normalizeRequiredString(in.Destination, "destination", 200)
	if err != nil {
		return models.Movement{}, err
	}
	purpose, err := normalizeRequiredString(in.Purpose, "purpose", 2000)
	if err != nil {
		return models.Movement{}, err
	}
	from, err := parseRequiredDate(in.FromDate, "from_date")
	if err != nil {
		return models.Movement{}, err
	}
	to, err := parseRequiredDate(in.ToDate, "to_date")
	if err != nil {
		return models.Movement{}, err
	}
	if to.Before(from) {
		return models.Movement{}, apperror.Validation("to_date", "the to date must be a date after or equal to from date")
	}
	employee, err := visibleEmployee(ctx, s.db, sc, in.EmployeeID)
	if err != nil {
		return models.Movement{}, err
	}

	movement := models.Movement{
		EmployeeID:  employee.ID,
		FromDate:    from,
		ToDate:      to,
		Destination: destination,
		Purpose:     purpose,
		Status:      models.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&movement).Error; err != nil {
		return models.Movement{}, database.MapError(err)
	}
	return movement, nil
}

// Approve records reviewerID as the approver of a pending movement.
func (s *MovementService) Approve(ctx context.Context, sc scope.Scope, id, reviewerID uint, remarks string) error {
	return s.review(ctx, sc, id, reviewerID, remarks, models.StatusPending, models.StatusApproved)
}

func (s *MovementService) Reject(ctx context.Context, sc scope.Scope, id, reviewerID uint, remarks string) error {
	return s.review(ctx, sc, id, reviewerID, remarks, models.StatusPending, models.StatusRejected)
}

// Complete closes an approved movement once the employee is back. The
// approver recorded on the movement is kept.
func (s *MovementService) Complete(ctx context.Context, sc scope.Scope, id uint) error {
	movement, err := s.Get(ctx, sc, id)
	if err != nil {
		return err
	}
	return transition(s.db.WithContext(ctx), &models.Movement{}, movement.ID,
		string(models.StatusApproved), string(models.StatusCompleted), nil)
}

func (s *MovementService) review(ctx context.Context, sc scope.Scope, id, reviewerID uint, remarks string, from, to models.WorkflowStatus) error {
	if _, err := s.Get(ctx, sc, id); err != nil {
		return err
	}
	updates := map[string]interface{}{"reviewed_by": reviewerID, "reviewed_at": s.now().UTC()}
	if remarks = strings.TrimSpace(remarks); remarks != "" {
		updates["remarks"] = remarks
	}
	return transition(s.db.WithContext(ctx), &models.Movement{}, id, string(from), string(to), updates)
}

func (s *MovementService) Delete(ctx context.Context, sc scope.Scope, id uint) error {
	movement, err := s.Get(ctx, sc, id)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", movement.ID, models.StatusPending).
		Delete(&models.Movement{})
	if result.Error != nil {
		return database.MapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.Conflict("only pending movements can be deleted")
	}
	return nil
}
