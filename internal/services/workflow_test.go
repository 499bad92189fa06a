package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

func fixedNow() time.Time {
	return time.Date(2025, time.February, 14, 9, 30, 0, 0, time.UTC)
}

func expectLeave(mock sqlmock.Sqlmock, status string) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "leave_applications" WHERE leave_applications.id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "leave_type_id", "status"}).AddRow(9, 5, 2, status))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "employees" WHERE "employees"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id"}).AddRow(5, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "leave_types" WHERE "leave_types"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Casual"))
}

var conditionalLeaveUpdate = `UPDATE "leave_applications" SET .* WHERE \(?id = \$\d+ AND status = \$\d+\)?`

func TestApproveLeave(t *testing.T) {
	db, mock := openMock(t)
	service := NewLeaveService(db, testPages)
	service.now = fixedNow

	expectLeave(mock, "pending")
	mock.ExpectBegin()
	mock.ExpectExec(conditionalLeaveUpdate).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, service.Approve(context.Background(), scope.Scope{}, 9, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveLeaveAlreadyReviewedConflicts(t *testing.T) {
	db, mock := openMock(t)
	service := NewLeaveService(db, testPages)

	expectLeave(mock, "approved")
	mock.ExpectBegin()
	mock.ExpectExec(conditionalLeaveUpdate).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := service.Approve(context.Background(), scope.Scope{}, 9, 1)
	assert.Equal(t, apperror.CodeConflict, apperror.GetCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveOutsideScopeIsNotFound(t *testing.T) {
	db, mock := openMock(t)
	service := NewLeaveService(db, testPages)

	mock.ExpectQuery(`SELECT .* FROM "leave_applications" JOIN employees ON employees.id = leave_applications.employee_id WHERE .*employees.branch_id = \$\d`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := service.Reject(context.Background(), scope.Branch(3), 9, 1, "short staffed")
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyLeaveRejectsInvertedRange(t *testing.T) {
	db, mock := openMock(t)
	service := NewLeaveService(db, testPages)

	_, err := service.Apply(context.Background(), scope.Scope{}, LeaveInput{
		EmployeeID:  5,
		LeaveTypeID: 2,
		StartDate:   "2025-03-10",
		EndDate:     "2025-03-09",
		Reason:      "family",
	})
	assert.Contains(t, apperror.FieldErrors(err), "end_date")
	assert.NoError(t, mock.ExpectationsWereMet())
}

var transferColumns = []string{"id", "employee_id", "from_branch_id", "to_branch_id", "to_department_id", "effective_date", "status"}

func expectTransfer(mock sqlmock.Sqlmock, effective time.Time, status string) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "transfers" WHERE transfers.id = $1`)).
		WillReturnRows(sqlmock.NewRows(transferColumns).AddRow(7, 5, 1, 2, 12, effective, status))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "employees" WHERE "employees"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "branches" WHERE "branches"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "branches" WHERE "branches"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
}

func TestCompleteTransferMovesEmployee(t *testing.T) {
	db, mock := openMock(t)
	service := NewTransferService(db, testPages)
	service.now = fixedNow

	expectTransfer(mock, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), "approved")
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transfers" SET .*"status"=.* WHERE \(?id = \$\d+ AND status = \$\d+\)?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "employees" SET "branch_id"=\$1,"department_id"=\$2,"updated_at"=\$3 WHERE id = \$4`).
		WithArgs(2, 12, sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, service.Complete(context.Background(), scope.Scope{}, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteTransferBeforeEffectiveDate(t *testing.T) {
	db, mock := openMock(t)
	service := NewTransferService(db, testPages)
	service.now = fixedNow

	expectTransfer(mock, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), "approved")

	err := service.Complete(context.Background(), scope.Scope{}, 7)
	assert.Equal(t, apperror.CodeConflict, apperror.GetCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteTransferRollsBackWhenNotApproved(t *testing.T) {
	db, mock := openMock(t)
	service := NewTransferService(db, testPages)
	service.now = fixedNow

	expectTransfer(mock, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), "approved")
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transfers" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := service.Complete(context.Background(), scope.Scope{}, 7)
	assert.Equal(t, apperror.CodeConflict, apperror.GetCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePendingTransferReportsStatusFirst(t *testing.T) {
	db, mock := openMock(t)
	service := NewTransferService(db, testPages)
	service.now = fixedNow

	expectTransfer(mock, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), "pending")

	err := service.Complete(context.Background(), scope.Scope{}, 7)
	assert.Equal(t, apperror.CodeConflict, apperror.GetCode(err))
	assert.EqualError(t, err, "only approved requests can be marked completed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectMovement(mock sqlmock.Sqlmock, status string) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "movements" WHERE movements.id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "status", "reviewed_by"}).AddRow(4, 5, status, 2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "employees" WHERE "employees"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
}

func TestCompleteMovementKeepsApprover(t *testing.T) {
	db, mock := openMock(t)
	service := NewMovementService(db, testPages)
	service.now = fixedNow

	expectMovement(mock, "approved")
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "movements" SET "status"=\$1,"updated_at"=\$2 WHERE \(?id = \$3 AND status = \$4\)?`).
		WithArgs("completed", sqlmock.AnyArg(), 4, "approved").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, service.Complete(context.Background(), scope.Scope{}, 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePendingMovementConflicts(t *testing.T) {
	db, mock := openMock(t)
	service := NewMovementService(db, testPages)

	expectMovement(mock, "pending")
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "movements" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := service.Complete(context.Background(), scope.Scope{}, 4)
	assert.EqualError(t, err, "only approved requests can be marked completed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
