package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/middleware"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/services"
)

func (h *Handler) registerAccess(group *gin.RouterGroup) {
	roles := &resource[models.Role, services.RoleInput]{
		h: h, svc: h.services.Roles,
		label: "Role", path: "/roles", component: "Roles",
		plural: "roles", singular: "role",
		formProps: h.roleForm,
	}
	roles.register(group, permissionSet{
		view:   permissions.ViewRoles,
		create: permissions.CreateRoles,
		edit:   permissions.EditRoles,
		delete: permissions.DeleteRoles,
	})

	need := func(key string) gin.HandlerFunc { return middleware.RequirePermission(h.renderer, key) }
	group.GET("/users", need(permissions.ViewUsers), h.listUsers)
	group.GET("/users/create", need(permissions.CreateUsers), h.createUser)
	group.POST("/users", need(permissions.CreateUsers), h.storeUser)
	group.GET("/users/:id", need(permissions.ViewUsers), h.showUser)
	group.GET("/users/:id/edit", need(permissions.EditUsers), h.editUser)
	group.PUT("/users/:id", need(permissions.EditUsers), h.updateUser)
	group.DELETE("/users/:id", need(permissions.DeleteUsers), h.destroyUser)
}

// roleForm hands the permission checklist to the role screens.
func (h *Handler) roleForm(*gin.Context) (gin.H, error) {
	return gin.H{"permissionGroups": h.services.Roles.Catalog().Groups()}, nil
}

func (h *Handler) userForm(c *gin.Context) (gin.H, error) {
	ctx := c.Request.Context()
	roles, err := h.services.Roles.Options(ctx)
	if err != nil {
		return nil, err
	}
	branches, err := h.services.Branches.Options(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := h.services.Employees.Options(ctx, h.scopeOf(c))
	if err != nil {
		return nil, err
	}
	return gin.H{"roles": roles, "branches": branches, "employees": employees}, nil
}

func (h *Handler) listUsers(c *gin.Context) {
	params, ok := h.listParams(c)
	if !ok {
		return
	}
	users, err := h.services.Users.List(c.Request.Context(), params)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Users/Index", gin.H{"users": users, "filters": filters(params)})
}

func (h *Handler) createUser(c *gin.Context) {
	props, err := h.userForm(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Users/Create", props)
}

func (h *Handler) storeUser(c *gin.Context) {
	var in services.UserInput
	if !h.bind(c, &in) {
		return
	}
	if _, err := h.services.Users.Create(c.Request.Context(), in); err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, "/users", "User")
}

func (h *Handler) showUser(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	user, err := h.services.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Users/Show", gin.H{"user": user})
}

func (h *Handler) editUser(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	user, err := h.services.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	props, err := h.userForm(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	props["user"] = user
	h.renderer.Render(c, "Users/Edit", props)
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	var in services.UserInput
	if !h.bind(c, &in) {
		return
	}
	if _, err := h.services.Users.Update(c.Request.Context(), id, in); err != nil {
		h.fail(c, err)
		return
	}
	h.updated(c, "/users", "User")
}

func (h *Handler) destroyUser(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.services.Users.Delete(c.Request.Context(), h.principal(c).UserID, id); err != nil {
		h.fail(c, err)
		return
	}
	h.deleted(c, "/users", "User")
}
