package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

func TestEmployeesWorkbook(t *testing.T) {
	phone := "01700000000"
	employees := []models.Employee{
		{
			EmployeeCode: "EMP-001",
			FirstName:    "Rahim",
			LastName:     "Uddin",
			Email:        "rahim@example.com",
			Phone:        &phone,
			JoiningDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Status:       models.EmployeeActive,
			Branch:       &models.Branch{Name: "Dhaka"},
			Department:   &models.Department{Name: "Finance"},
			Designation:  &models.Designation{Name: "Accountant"},
		},
		{
			EmployeeCode: "EMP-002",
			FirstName:    "Karim",
			LastName:     "Ali",
			Email:        "karim@example.com",
			JoiningDate:  time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			Status:       models.EmployeeOnLeave,
		},
	}

	data, err := EmployeesWorkbook(employees)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows, err := file.GetRows(EmployeesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Code", rows[0][0])
	assert.Equal(t, []string{
		"EMP-001", "Rahim Uddin", "rahim@example.com", "01700000000",
		"Dhaka", "Finance", "Accountant", "2024-03-01", "active",
	}, rows[1])
	assert.Equal(t, "EMP-002", rows[2][0])
	assert.Equal(t, "", rows[2][4])
	assert.Equal(t, "on_leave", rows[2][8])
}

func TestEmployeesWorkbookEmpty(t *testing.T) {
	data, err := EmployeesWorkbook(nil)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows, err := file.GetRows(EmployeesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
