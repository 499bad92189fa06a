package permissions

// Default is the catalog shipped with the application.
func Default() Catalog {
	return New(
		Group{Name: "Dashboard", Permissions: []Permission{
			{ViewDashboard, "View Dashboard"},
			{BranchManager, "Branch Manager (scope data to own branch)"},
			{DepartmentHead, "Department Head (scope data to own department)"},
		}},
		Group{Name: "Employee Management", Permissions: []Permission{
			{ViewEmployees, "View Employees"},
			{CreateEmployees, "Create Employees"},
			{EditEmployees, "Edit Employees"},
			{DeleteEmployees, "Delete Employees"},
			{ExportEmployees, "Export Employees"},
		}},
		Group{Name: "Role Management", Permissions: []Permission{
			{ViewRoles, "View Roles"},
			{CreateRoles, "Create Roles"},
			{EditRoles, "Edit Roles"},
			{DeleteRoles, "Delete Roles"},
		}},
		Group{Name: "User Management", Permissions: []Permission{
			{ViewUsers, "View Users"},
			{CreateUsers, "Create Users"},
			{EditUsers, "Edit Users"},
			{DeleteUsers, "Delete Users"},
		}},
		Group{Name: "Organization", Permissions: []Permission{
			{ViewBranches, "View Branches"},
			{ManageBranches, "Manage Branches"},
			{ViewDepartments, "View Departments"},
			{ManageDepartments, "Manage Departments"},
			{ViewDesignations, "View Designations"},
			{ManageDesignations, "Manage Designations"},
		}},
		Group{Name: "Holidays", Permissions: []Permission{
			{ViewHolidays, "View Holidays"},
			{ManageHolidays, "Manage Holidays"},
		}},
		Group{Name: "Transfers", Permissions: []Permission{
			{ViewTransfers, "View Transfers"},
			{CreateTransfers, "Create Transfers"},
			{ApproveTransfers, "Approve Transfers"},
		}},
		Group{Name: "Movements", Permissions: []Permission{
			{ViewMovements, "View Movements"},
			{CreateMovements, "Create Movements"},
			{ApproveMovements, "Approve Movements"},
		}},
		Group{Name: "Leave Management", Permissions: []Permission{
			{ViewLeave, "View Leave Applications"},
			{ApplyLeave, "Apply for Leave"},
			{ApproveLeave, "Approve Leave"},
			{ManageLeaveTypes, "Manage Leave Types"},
		}},
		Group{Name: "Attendance", Permissions: []Permission{
			{ViewAttendance, "View Attendance"},
			{ManageAttendance, "Manage Attendance"},
		}},
	)
}
