package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// uniqueFields maps unique index names onto the form field they guard.
var uniqueFields = map[string]string{
	"idx_roles_name":               "name",
	"idx_users_email":              "email",
	"idx_branches_code":            "code",
	"idx_employees_employee_code":  "employee_code",
	"idx_employees_email":          "email",
	"idx_employees_national_id":    "national_id",
	"idx_leave_types_name":         "name",
	"idx_attendance_employee_date": "date",
}

// MapError turns driver failures into application errors. Unknown errors are
// returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("resource with the same unique attributes already exists")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if field, ok := uniqueFields[pgErr.ConstraintName]; ok {
				return apperror.Validation(field, "the "+field+" has already been taken")
			}
			return apperror.Conflict("resource with the same unique attributes already exists")
		case pgForeignKeyViolation:
			return apperror.Conflict("the record is still referenced by other records")
		}
	}
	return err
}

// IsNotFound reports whether err is gorm's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
