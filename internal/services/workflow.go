package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/database"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

// transition moves one row from status from to status to. The update is
// conditional on the current status, so of two concurrent reviews only one
// succeeds and the other gets a conflict.
func transition(tx *gorm.DB, model interface{}, id uint, from, to string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	result := tx.Model(model).Where("id = ? AND status = ?", id, from).Updates(updates)
	if result.Error != nil {
		return database.MapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.Conflict(fmt.Sprintf("only %s requests can be marked %s", from, to))
	}
	return nil
}

// findScoped loads one row of a scoped table. Rows outside sc are not found.
func findScoped(ctx context.Context, db *gorm.DB, sc scope.Scope, rt scope.RecordType, table string, dest interface{}, id uint, what string, preloads ...string) error {
	query := db.WithContext(ctx).Scopes(sc.Apply(rt))
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	if err := query.First(dest, table+".id = ?", id).Error; err != nil {
		return loadError(err, what)
	}
	return nil
}

// visibleEmployee loads the employee a request is filed for, rejecting ones
// outside sc.
func visibleEmployee(ctx context.Context, db *gorm.DB, sc scope.Scope, id uint) (models.Employee, error) {
	var employee models.Employee
	if err := db.WithContext(ctx).
		Scopes(sc.Apply(scope.Employee)).
		First(&employee, "employees.id = ?", id).Error; err != nil {
		if database.IsNotFound(err) {
			return models.Employee{}, apperror.Validation("employee_id", "the selected employee is invalid")
		}
		return models.Employee{}, fmt.Errorf("load employee: %w", err)
	}
	return employee, nil
}
