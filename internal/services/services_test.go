package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
)

func openMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var testPages = Pagination{DefaultSize: 15, MaxSize: 100}

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestPaginationResolve(t *testing.T) {
	cases := []struct {
		name     string
		params   ListParams
		page     int
		pageSize int
	}{
		{"defaults", ListParams{}, 1, 15},
		{"explicit", ListParams{Page: 3, PageSize: 20}, 3, 20},
		{"negative page", ListParams{Page: -2}, 1, 15},
		{"capped size", ListParams{PageSize: 500}, 1, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, size := testPages.resolve(tc.params)
			assert.Equal(t, tc.page, page)
			assert.Equal(t, tc.pageSize, size)
		})
	}
}

func TestSearchTermEscapesWildcards(t *testing.T) {
	assert.Equal(t, "", searchTerm("   "))
	assert.Equal(t, "%ali%", searchTerm(" ali "))
	assert.Equal(t, `%50\%\_off%`, searchTerm("50%_off"))
}

func TestNormalizeRequiredString(t *testing.T) {
	value, err := normalizeRequiredString("  Finance ", "name", 10)
	require.NoError(t, err)
	assert.Equal(t, "Finance", value)

	_, err = normalizeRequiredString("   ", "first_name", 10)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"first_name": "the first name field is required"}, apperror.FieldErrors(err))

	_, err = normalizeRequiredString("abcdefghijk", "name", 10)
	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))
}

func TestBranchListPaginates(t *testing.T) {
	db, mock := openMock(t)
	service := NewBranchService(db, testPages)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "branches" WHERE \(branches.name ILIKE \$1 OR branches.code ILIKE \$2\)`).
		WithArgs("%dha%", "%dha%").
		WillReturnRows(countRows(17))
	mock.ExpectQuery(`SELECT \* FROM "branches" WHERE .* ORDER BY branches.code desc LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code"}).AddRow(16, "Dhaka North", "DHN").AddRow(17, "Dhaka South", "DHS"))

	page, err := service.List(context.Background(), ListParams{Search: "dha", Sort: "code", Order: "DESC", Page: 2, PageSize: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(17), page.Total)
	assert.Equal(t, 2, page.LastPage)
	assert.Len(t, page.Data, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
