package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/export"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/middleware"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/page"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/services"
)

func (h *Handler) registerEmployees(group *gin.RouterGroup) {
	need := func(key string) gin.HandlerFunc { return middleware.RequirePermission(h.renderer, key) }

	group.GET("/employees", need(permissions.ViewEmployees), h.listEmployees)
	group.GET("/employees/export", need(permissions.ExportEmployees), h.exportEmployees)
	group.GET("/employees/create", need(permissions.CreateEmployees), h.createEmployee)
	group.POST("/employees", need(permissions.CreateEmployees), h.storeEmployee)
	group.GET("/employees/:id", need(permissions.ViewEmployees), h.showEmployee)
	group.GET("/employees/:id/edit", need(permissions.EditEmployees), h.editEmployee)
	group.PUT("/employees/:id", need(permissions.EditEmployees), h.updateEmployee)
	group.DELETE("/employees/:id", need(permissions.DeleteEmployees), h.destroyEmployee)
}

func (h *Handler) employeeForm(c *gin.Context) (gin.H, error) {
	ctx := c.Request.Context()
	branches, err := h.services.Branches.Options(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := h.services.Departments.Options(ctx, 0)
	if err != nil {
		return nil, err
	}
	designations, err := h.services.Designations.Options(ctx, 0)
	if err != nil {
		return nil, err
	}
	supervisors, err := h.services.Employees.Options(ctx, h.scopeOf(c))
	if err != nil {
		return nil, err
	}
	return gin.H{
		"branches":     branches,
		"departments":  departments,
		"designations": designations,
		"employees":    supervisors,
	}, nil
}

func (h *Handler) listEmployees(c *gin.Context) {
	params, ok := h.listParams(c)
	if !ok {
		return
	}
	employees, err := h.services.Employees.List(c.Request.Context(), h.scopeOf(c), params)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Employees/Index", gin.H{"employees": employees, "filters": filters(params)})
}

// exportEmployees streams the filtered list as a workbook. The page client
// cannot download through XHR, so it is told to visit the url directly.
func (h *Handler) exportEmployees(c *gin.Context) {
	if page.IsPageRequest(c) {
		h.renderer.Location(c, c.Request.URL.RequestURI())
		return
	}
	params, ok := h.listParams(c)
	if !ok {
		return
	}
	employees, err := h.services.Employees.Export(c.Request.Context(), h.scopeOf(c), params)
	if err != nil {
		h.fail(c, err)
		return
	}
	data, err := export.EmployeesWorkbook(employees)
	if err != nil {
		h.fail(c, err)
		return
	}
	filename := fmt.Sprintf("employees-%s.xlsx", h.today().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, data)
}

func (h *Handler) createEmployee(c *gin.Context) {
	props, err := h.employeeForm(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Employees/Create", props)
}

func (h *Handler) storeEmployee(c *gin.Context) {
	var in services.EmployeeInput
	if !h.bind(c, &in) {
		return
	}
	if _, err := h.services.Employees.Create(c.Request.Context(), h.scopeOf(c), in); err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, "/employees", "Employee")
}

func (h *Handler) showEmployee(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	employee, err := h.services.Employees.Get(c.Request.Context(), h.scopeOf(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Employees/Show", gin.H{"employee": employee})
}

func (h *Handler) editEmployee(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	employee, err := h.services.Employees.Get(c.Request.Context(), h.scopeOf(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	props, err := h.employeeForm(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	props["employee"] = employee
	h.renderer.Render(c, "Employees/Edit", props)
}

func (h *Handler) updateEmployee(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	var in services.EmployeeInput
	if !h.bind(c, &in) {
		return
	}
	if _, err := h.services.Employees.Update(c.Request.Context(), h.scopeOf(c), id, in); err != nil {
		h.fail(c, err)
		return
	}
	h.updated(c, "/employees", "Employee")
}

func (h *Handler) destroyEmployee(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.services.Employees.Delete(c.Request.Context(), h.scopeOf(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.deleted(c, "/employees", "Employee")
}
