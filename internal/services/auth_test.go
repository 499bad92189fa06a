package services

import (
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/auth"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
)

type memoryRevocations map[string]time.Duration

func (m memoryRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	m[id] = ttl
	return nil
}

func (m memoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := m[id]
	return ok, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var userColumns = []string{"id", "name", "email", "password", "role_id", "employee_id", "branch_id", "is_active"}

func TestLoginAndAuthenticate(t *testing.T) {
	db, mock := openMock(t)
	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)
	revoked := memoryRevocations{}
	service := NewAuthService(db, auth.NewTokenIssuer("test-secret", time.Hour), revoked, quietLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(4, "Manager", "manager@example.com", hash, 2, nil, 3, true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE "roles"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "permissions"}).
			AddRow(2, "Branch Manager", []byte(`["branch_manager","view_dashboard"]`)))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "last_login"=$1 WHERE id = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	session, err := service.Login(context.Background(), LoginInput{Email: " Manager@Example.com ", Password: "secret-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotNil(t, session.User.LastLogin)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(4, "Manager", "manager@example.com", hash, 2, nil, 3, true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE "roles"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "permissions"}).
			AddRow(2, "Branch Manager", []byte(`["branch_manager","view_dashboard"]`)))

	principal, claims, err := service.Authenticate(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(4), principal.UserID)
	assert.True(t, principal.Can(permissions.BranchManager))
	require.NotNil(t, principal.BranchID)
	assert.Equal(t, uint(3), *principal.BranchID)

	require.NoError(t, service.Logout(context.Background(), claims))
	assert.Contains(t, revoked, claims.ID)

	_, _, err = service.Authenticate(context.Background(), session.Token)
	assert.Equal(t, apperror.CodeUnauthorized, apperror.GetCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock := openMock(t)
	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)
	service := NewAuthService(db, auth.NewTokenIssuer("test-secret", time.Hour), nil, quietLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(4, "Manager", "manager@example.com", hash, 2, nil, nil, true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Manager"))

	_, err = service.Login(context.Background(), LoginInput{Email: "manager@example.com", Password: "wrong-password"})
	assert.Equal(t, map[string]string{"email": invalidCredentials}, apperror.FieldErrors(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginInactiveUser(t *testing.T) {
	db, mock := openMock(t)
	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)
	service := NewAuthService(db, auth.NewTokenIssuer("test-secret", time.Hour), nil, quietLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(4, "Manager", "manager@example.com", hash, 2, nil, nil, false))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Manager"))

	_, err = service.Login(context.Background(), LoginInput{Email: "manager@example.com", Password: "secret-password"})
	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	db, _ := openMock(t)
	service := NewAuthService(db, auth.NewTokenIssuer("test-secret", time.Hour), nil, quietLogger())

	_, _, err := service.Authenticate(context.Background(), "not-a-token")
	assert.Equal(t, apperror.CodeUnauthorized, apperror.GetCode(err))
}
