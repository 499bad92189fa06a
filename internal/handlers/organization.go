package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/services"
)

func (h *Handler) registerOrganization(group *gin.RouterGroup) {
	branches := &resource[models.Branch, services.BranchInput]{
		h: h, svc: h.services.Branches,
		label: "Branch", path: "/branches", component: "Branches",
		plural: "branches", singular: "branch",
	}
	branches.register(group, permissionSet{
		view:   permissions.ViewBranches,
		create: permissions.ManageBranches,
		edit:   permissions.ManageBranches,
		delete: permissions.ManageBranches,
	})

	departments := &resource[models.Department, services.DepartmentInput]{
		h: h, svc: h.services.Departments,
		label: "Department", path: "/departments", component: "Departments",
		plural: "departments", singular: "department",
		formProps: h.departmentForm,
	}
	departments.register(group, permissionSet{
		view:   permissions.ViewDepartments,
		create: permissions.ManageDepartments,
		edit:   permissions.ManageDepartments,
		delete: permissions.ManageDepartments,
	})

	designations := &resource[models.Designation, services.DesignationInput]{
		h: h, svc: h.services.Designations,
		label: "Designation", path: "/designations", component: "Designations",
		plural: "designations", singular: "designation",
		formProps: h.designationForm,
	}
	designations.register(group, permissionSet{
		view:   permissions.ViewDesignations,
		create: permissions.ManageDesignations,
		edit:   permissions.ManageDesignations,
		delete: permissions.ManageDesignations,
	})

	leaveTypes := &resource[models.LeaveType, services.LeaveTypeInput]{
		h: h, svc: h.services.LeaveTypes,
		label: "Leave type", path: "/leave-types", component: "LeaveTypes",
		plural: "leaveTypes", singular: "leaveType",
	}
	leaveTypes.register(group, permissionSet{
		view:   permissions.ViewLeave,
		create: permissions.ManageLeaveTypes,
		edit:   permissions.ManageLeaveTypes,
		delete: permissions.ManageLeaveTypes,
	})
}

func (h *Handler) departmentForm(c *gin.Context) (gin.H, error) {
	ctx := c.Request.Context()
	branches, err := h.services.Branches.Options(ctx)
	if err != nil {
		return nil, err
	}
	parents, err := h.services.Departments.Options(ctx, 0)
	if err != nil {
		return nil, err
	}
	employees, err := h.services.Employees.Options(ctx, h.scopeOf(c))
	if err != nil {
		return nil, err
	}
	return gin.H{"branches": branches, "departments": parents, "employees": employees}, nil
}

func (h *Handler) designationForm(c *gin.Context) (gin.H, error) {
	departments, err := h.services.Departments.Options(c.Request.Context(), 0)
	if err != nil {
		return nil, err
	}
	return gin.H{"departments": departments}, nil
}
