package scope

import (
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
)

// Principal is the authenticated actor a request runs for.
type Principal struct {
	UserID       uint                `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	RoleName     string              `json:"role"`
	EmployeeID   *uint               `json:"employee_id"`
	BranchID     *uint               `json:"branch_id"`
	DepartmentID *uint               `json:"department_id"`
	Permissions  map[string]struct{} `json:"-"`
}

// PrincipalFromUser builds a principal from a user loaded with Role and
// Employee. The department comes from the linked employee record.
func PrincipalFromUser(u models.User) Principal {
	p := Principal{
		UserID:      u.ID,
		Name:        u.Name,
		Email:       u.Email,
		EmployeeID:  u.EmployeeID,
		BranchID:    u.BranchID,
		Permissions: map[string]struct{}{},
	}
	if u.Role != nil {
		p.RoleName = u.Role.Name
		for _, key := range u.Role.Permissions {
			p.Permissions[key] = struct{}{}
		}
	}
	if u.Employee != nil && u.Employee.DepartmentID != 0 {
		departmentID := u.Employee.DepartmentID
		p.DepartmentID = &departmentID
	}
	return p
}

// Can reports whether the principal holds permission key.
func (p Principal) Can(key string) bool {
	_, ok := p.Permissions[key]
	return ok
}

// PermissionList returns the granted keys for the client.
func (p Principal) PermissionList() []string {
	keys := make([]string, 0, len(p.Permissions))
	for k := range p.Permissions {
		keys = append(keys, k)
	}
	return models.NormalizePermissions(keys)
}
