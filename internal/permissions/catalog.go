package permissions

import "sort"

// Keys the application checks explicitly.
const (
	ViewDashboard  = "view_dashboard"
	BranchManager  = "branch_manager"
	DepartmentHead = "department_head"

	ViewEmployees   = "view_employees"
	CreateEmployees = "create_employees"
	EditEmployees   = "edit_employees"
	DeleteEmployees = "delete_employees"
	ExportEmployees = "export_employees"

	ViewRoles   = "view_roles"
	CreateRoles = "create_roles"
	EditRoles   = "edit_roles"
	DeleteRoles = "delete_roles"

	ViewUsers   = "view_users"
	CreateUsers = "create_users"
	EditUsers   = "edit_users"
	DeleteUsers = "delete_users"

	ViewBranches       = "view_branches"
	ManageBranches     = "manage_branches"
	ViewDepartments    = "view_departments"
	ManageDepartments  = "manage_departments"
	ViewDesignations   = "view_designations"
	ManageDesignations = "manage_designations"

	ViewHolidays   = "view_holidays"
	ManageHolidays = "manage_holidays"

	ViewTransfers    = "view_transfers"
	CreateTransfers  = "create_transfers"
	ApproveTransfers = "approve_transfers"

	ViewMovements    = "view_movements"
	CreateMovements  = "create_movements"
	ApproveMovements = "approve_movements"

	ViewLeave        = "view_leave"
	ApplyLeave       = "apply_leave"
	ApproveLeave     = "approve_leave"
	ManageLeaveTypes = "manage_leave_types"

	ViewAttendance   = "view_attendance"
	ManageAttendance = "manage_attendance"
)

// Permission is one checklist entry.
type Permission struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Group is a titled set of permissions, rendered as one checklist section.
type Group struct {
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
}

// Catalog is the immutable set of permissions roles may grant. Build one with
// New or Default and pass it to whoever needs it.
type Catalog struct {
	groups []Group
	labels map[string]string
}

// New builds a catalog from groups, keeping their order for display.
func New(groups ...Group) Catalog {
	c := Catalog{
		groups: make([]Group, 0, len(groups)),
		labels: make(map[string]string),
	}
	for _, g := range groups {
		copied := Group{Name: g.Name, Permissions: append([]Permission(nil), g.Permissions...)}
		c.groups = append(c.groups, copied)
		for _, p := range copied.Permissions {
			c.labels[p.Key] = p.Label
		}
	}
	return c
}

// Groups returns the catalog in display order. The result is a copy.
func (c Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = Group{Name: g.Name, Permissions: append([]Permission(nil), g.Permissions...)}
	}
	return out
}

// List returns group -> key -> label. The result is a copy.
func (c Catalog) List() map[string]map[string]string {
	out := make(map[string]map[string]string, len(c.groups))
	for _, g := range c.groups {
		keys := make(map[string]string, len(g.Permissions))
		for _, p := range g.Permissions {
			keys[p.Key] = p.Label
		}
		out[g.Name] = keys
	}
	return out
}

// Has reports whether key is a known permission.
func (c Catalog) Has(key string) bool {
	_, ok := c.labels[key]
	return ok
}

// Label returns the display label of key, or key itself when unknown.
func (c Catalog) Label(key string) string {
	return c.labels[key]
}

// Keys returns every key, sorted.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c.labels))
	for k := range c.labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Unknown returns the keys not present in the catalog, in input order.
func (c Catalog) Unknown(keys []string) []string {
	var unknown []string
	for _, k := range keys {
		if !c.Has(k) {
			unknown = append(unknown, k)
		}
	}
	return unknown
}
