package scope

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
)

// RecordType names a scoped table family.
type RecordType string

const (
	Attendance RecordType = "attendance"
	Leave      RecordType = "leave"
	Movement   RecordType = "movement"
	Transfer   RecordType = "transfer"
	Employee   RecordType = "employee"
)

type Kind int

const (
	Unrestricted Kind = iota
	BranchScoped
	DepartmentScoped
)

func (k Kind) String() string {
	switch k {
	case BranchScoped:
		return "branch"
	case DepartmentScoped:
		return "department"
	default:
		return "unrestricted"
	}
}

// Scope is the row-visibility restriction of a principal. The zero value is
// unrestricted.
type Scope struct {
	Kind Kind
	ID   uint
}

// Branch limits records to one branch.
func Branch(id uint) Scope { return Scope{Kind: BranchScoped, ID: id} }

// Department limits records to one department.
func Department(id uint) Scope { return Scope{Kind: DepartmentScoped, ID: id} }

func (s Scope) String() string {
	if s.Kind == Unrestricted {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s:%d", s.Kind, s.ID)
}

// Resolve computes the principal's scope once; narrow it per record type with For.
// Branch manager wins over department head. A branch manager without a
// branch, or a department head without a department, is unrestricted.
func Resolve(p Principal) Scope {
	if p.Can(permissions.BranchManager) && p.BranchID != nil {
		return Branch(*p.BranchID)
	}
	if p.Can(permissions.DepartmentHead) && p.DepartmentID != nil {
		return Department(*p.DepartmentID)
	}
	return Scope{}
}

// ResolveFor is Resolve narrowed to one record type.
func ResolveFor(p Principal, rt RecordType) Scope {
	return Resolve(p).For(rt)
}

// For narrows the scope to what the record type recognizes. Transfers carry
// branch endpoints only, so a department scope does not restrict them.
func (s Scope) For(rt RecordType) Scope {
	if rt == Transfer && s.Kind == DepartmentScoped {
		return Scope{}
	}
	return s
}

// Apply returns a gorm scope restricting a query over rt's table. Queries over
// attendance, leave and movement rows are joined to employees.
func (s Scope) Apply(rt RecordType) func(*gorm.DB) *gorm.DB {
	s = s.For(rt)
	return func(db *gorm.DB) *gorm.DB {
		if s.Kind == Unrestricted {
			return db
		}
		switch rt {
		case Transfer:
			return db.Where("(transfers.from_branch_id = ? OR transfers.to_branch_id = ?)", s.ID, s.ID)
		case Employee:
			return db.Where(s.employeeColumn()+" = ?", s.ID)
		default:
			table, ok := joinedTables[rt]
			if !ok {
				db.AddError(fmt.Errorf("scope: unknown record type %q", rt))
				return db
			}
			return db.
				Joins("JOIN employees ON employees.id = "+table+".employee_id").
				Where(s.employeeColumn()+" = ?", s.ID)
		}
	}
}

var joinedTables = map[RecordType]string{
	Attendance: "attendances",
	Leave:      "leave_applications",
	Movement:   "movements",
}

func (s Scope) employeeColumn() string {
	if s.Kind == DepartmentScoped {
		return "employees.department_id"
	}
	return "employees.branch_id"
}

// Allows reports whether a single employee row is visible under the scope.
func (s Scope) Allows(branchID, departmentID uint) bool {
	switch s.Kind {
	case BranchScoped:
		return branchID == s.ID
	case DepartmentScoped:
		return departmentID == s.ID
	default:
		return true
	}
}
