package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/middleware"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/page"
)

// resource serves the index/create/show/edit screens and the write actions
// of an unscoped reference-data table.
type resource[T any, In any] struct {
	h         *Handler
	svc       crudService[T, In]
	label     string // "Branch"
	path      string // "/branches"
	component string // "Branches"
	plural    string // props key of the index page
	singular  string // props key of the show and edit pages
	formProps func(c *gin.Context) (gin.H, error)
}

type permissionSet struct {
	view, create, edit, delete string
}

func (r *resource[T, In]) register(group *gin.RouterGroup, perms permissionSet) {
	need := func(key string) gin.HandlerFunc { return middleware.RequirePermission(r.h.renderer, key) }

	group.GET(r.path, need(perms.view), r.index)
	group.GET(r.path+"/create", need(perms.create), r.create)
	group.POST(r.path, need(perms.create), r.store)
	group.GET(r.path+"/:id", need(perms.view), r.show)
	group.GET(r.path+"/:id/edit", need(perms.edit), r.edit)
	group.PUT(r.path+"/:id", need(perms.edit), r.update)
	group.DELETE(r.path+"/:id", need(perms.delete), r.destroy)
}

func (r *resource[T, In]) index(c *gin.Context) {
	params, ok := r.h.listParams(c)
	if !ok {
		return
	}
	result, err := r.svc.List(c.Request.Context(), params)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	r.h.renderer.Render(c, r.component+"/Index", gin.H{
		r.plural:  result,
		"filters": filters(params),
	})
}

func (r *resource[T, In]) create(c *gin.Context) {
	props, ok := r.form(c)
	if !ok {
		return
	}
	r.h.renderer.Render(c, r.component+"/Create", props)
}

func (r *resource[T, In]) store(c *gin.Context) {
	var in In
	if !r.h.bind(c, &in) {
		return
	}
	if _, err := r.svc.Create(c.Request.Context(), in); err != nil {
		r.h.fail(c, err)
		return
	}
	r.h.created(c, r.path, r.label)
}

func (r *resource[T, In]) show(c *gin.Context) {
	id, ok := r.h.id(c)
	if !ok {
		return
	}
	record, err := r.svc.Get(c.Request.Context(), id)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	r.h.renderer.Render(c, r.component+"/Show", gin.H{r.singular: record})
}

func (r *resource[T, In]) edit(c *gin.Context) {
	id, ok := r.h.id(c)
	if !ok {
		return
	}
	record, err := r.svc.Get(c.Request.Context(), id)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	props, ok := r.form(c)
	if !ok {
		return
	}
	props[r.singular] = record
	r.h.renderer.Render(c, r.component+"/Edit", props)
}

func (r *resource[T, In]) update(c *gin.Context) {
	id, ok := r.h.id(c)
	if !ok {
		return
	}
	var in In
	if !r.h.bind(c, &in) {
		return
	}
	if _, err := r.svc.Update(c.Request.Context(), id, in); err != nil {
		r.h.fail(c, err)
		return
	}
	r.h.updated(c, r.path, r.label)
}

func (r *resource[T, In]) destroy(c *gin.Context) {
	id, ok := r.h.id(c)
	if !ok {
		return
	}
	if err := r.svc.Delete(c.Request.Context(), id); err != nil {
		r.h.fail(c, err)
		return
	}
	r.h.deleted(c, r.path, r.label)
}

func (r *resource[T, In]) form(c *gin.Context) (gin.H, bool) {
	if r.formProps == nil {
		return gin.H{}, true
	}
	props, err := r.formProps(c)
	if err != nil {
		r.h.fail(c, err)
		return nil, false
	}
	return props, true
}

func (h *Handler) created(c *gin.Context, path, label string) {
	h.done(c, http.StatusCreated, path, label+" created successfully.")
}

func (h *Handler) updated(c *gin.Context, path, label string) {
	h.done(c, http.StatusOK, path, label+" updated successfully.")
}

func (h *Handler) deleted(c *gin.Context, path, label string) {
	h.done(c, http.StatusOK, path, label+" deleted successfully.")
}

// done answers a successful write: API clients get the message, everyone
// else is redirected with it as a flash.
func (h *Handler) done(c *gin.Context, status int, path, message string) {
	if middleware.WantsJSON(c) {
		c.JSON(status, gin.H{"message": message})
		return
	}
	h.renderer.Redirect(c, path, page.Flash{Success: message})
}
