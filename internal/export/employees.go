package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

const (
	EmployeesSheet = "Employees"
	ContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var employeeHeaders = []interface{}{
	"Code", "Name", "Email", "Phone", "Branch", "Department",
	"Designation", "Joining Date", "Status",
}

// EmployeesWorkbook writes one row per employee. Relations are expected to be
// preloaded; missing ones leave the cell blank.
func EmployeesWorkbook(employees []models.Employee) ([]byte, error) {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName(file.GetSheetName(0), EmployeesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	stream, err := file.NewStreamWriter(EmployeesSheet)
	if err != nil {
		return nil, fmt.Errorf("open stream writer: %w", err)
	}
	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := stream.SetColWidth(1, len(employeeHeaders), 18); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := stream.SetRow("A1", employeeHeaders, excelize.RowOpts{StyleID: bold}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, employee := range employees {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := stream.SetRow(cell, employeeRow(employee)); err != nil {
			return nil, fmt.Errorf("write employee %s: %w", employee.EmployeeCode, err)
		}
	}
	if err := stream.Flush(); err != nil {
		return nil, fmt.Errorf("flush sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func employeeRow(e models.Employee) []interface{} {
	var branch, department, designation, phone string
	if e.Branch != nil {
		branch = e.Branch.Name
	}
	if e.Department != nil {
		department = e.Department.Name
	}
	if e.Designation != nil {
		designation = e.Designation.Name
	}
	if e.Phone != nil {
		phone = *e.Phone
	}
	return []interface{}{
		e.EmployeeCode,
		e.FullName(),
		e.Email,
		phone,
		branch,
		department,
		designation,
		e.JoiningDate.Format("2006-01-02"),
		string(e.Status),
	}
}
