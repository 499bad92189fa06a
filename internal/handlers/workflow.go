package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/middleware"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/services"
)

type reviewRequest struct {
	Remarks string `json:"remarks" binding:"max=1000"`
}

type rejectLeaveRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// review binds an optional review body. An empty body is a review without
// remarks.
func (h *Handler) review(c *gin.Context) (reviewRequest, bool) {
	var req reviewRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	return req, h.bind(c, &req)
}

func (h *Handler) registerWorkflow(group *gin.RouterGroup) {
	need := func(key string) gin.HandlerFunc { return middleware.RequirePermission(h.renderer, key) }

	group.GET("/leave", need(permissions.ViewLeave), h.listLeave)
	group.GET("/leave/create", need(permissions.ApplyLeave), h.createLeave)
	group.POST("/leave", need(permissions.ApplyLeave), h.storeLeave)
	group.GET("/leave/:id", need(permissions.ViewLeave), h.showLeave)
	group.POST("/leave/:id/approve", need(permissions.ApproveLeave), h.approveLeave)
	group.POST("/leave/:id/reject", need(permissions.ApproveLeave), h.rejectLeave)
	group.DELETE("/leave/:id", need(permissions.ApplyLeave), h.destroyLeave)

	group.GET("/movements", need(permissions.ViewMovements), h.listMovements)
	group.GET("/movements/create", need(permissions.CreateMovements), h.createMovement)
	group.POST("/movements", need(permissions.CreateMovements), h.storeMovement)
	group.GET("/movements/:id", need(permissions.ViewMovements), h.showMovement)
	group.POST("/movements/:id/approve", need(permissions.ApproveMovements), h.approveMovement)
	group.POST("/movements/:id/reject", need(permissions.ApproveMovements), h.rejectMovement)
	group.POST("/movements/:id/complete", need(permissions.ApproveMovements), h.completeMovement)
	group.DELETE("/movements/:id", need(permissions.CreateMovements), h.destroyMovement)

	group.GET("/transfers", need(permissions.ViewTransfers), h.listTransfers)
	group.GET("/transfers/create", need(permissions.CreateTransfers), h.createTransfer)
	group.POST("/transfers", need(permissions.CreateTransfers), h.storeTransfer)
	group.GET("/transfers/:id", need(permissions.ViewTransfers), h.showTransfer)
	group.POST("/transfers/:id/approve", need(permissions.ApproveTransfers), h.approveTransfer)
	group.POST("/transfers/:id/reject", need(permissions.ApproveTransfers), h.rejectTransfer)
	group.POST("/transfers/:id/complete", need(permissions.ApproveTransfers), h.completeTransfer)
	group.DELETE("/transfers/:id", need(permissions.CreateTransfers), h.destroyTransfer)
}

func (h *Handler) listLeave(c *gin.Context) {
	params, ok := h.listParams(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	applications, err := h.services.Leaves.List(ctx, h.scopeOf(c), params)
	if err != nil {
		h.fail(c, err)
		return
	}
	leaveTypes, err := h.services.LeaveTypes.Options(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Leave/Index", gin.H{
		"applications": applications,
		"leaveTypes":   leaveTypes,
		"filters":      filters(params),
	})
}

func (h *Handler) createLeave(c *gin.Context) {
	ctx := c.Request.Context()
	employees, err := h.services.Employees.Options(ctx, h.scopeOf(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	leaveTypes, err := h.services.LeaveTypes.Options(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Leave/Create", gin.H{"employees": employees, "leaveTypes": leaveTypes})
}

func (h *Handler) storeLeave(c *gin.Context) {
	var in services.LeaveInput
	if !h.bind(c, &in) {
		return
	}
	if _, err := h.services.Leaves.Apply(c.Request.Context(), h.scopeOf(c), in); err != nil {
		h.fail(c, err)
		return
	}
	h.done(c, http.StatusCreated, "/leave", "Leave application submitted successfully.")
}

func (h *Handler) showLeave(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	application, err := h.services.Leaves.Get(c.Request.Context(), h.scopeOf(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Leave/Show", gin.H{"application": application})
}

func (h *Handler) approveLeave(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.services.Leaves.Approve(c.Request.Context(), h.scopeOf(c), id, h.principal(c).UserID); err != nil {
		h.fail(c, err)
		return
	}
	h.done(c, http.StatusOK, "/leave", "Leave application approved.")
}

func (h *Handler) rejectLeave(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	var req rejectLeaveRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req) {
		return
	}
	if err := h.services.Leaves.Reject(c.Request.Context(), h.scopeOf(c), id, h.principal(c).UserID, req.Reason); err != nil {
		h.fail(c, err)
		return
	}
	h.done(c, http.StatusOK, "/leave", "Leave application rejected.")
}

func (h *Handler) destroyLeave(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.services.Leaves.Delete(c.Request.Context(), h.scopeOf(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.deleted(c, "/leave", "Leave application")
}

func (h *Handler) listMovements(c *gin.Context) {
	params, ok := h.listParams(c)
	if !ok {
		return
	}
	movements, err := h.services.Movements.List(c.Request.Context(), h.scopeOf(c), params)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Movements/Index", gin.H{"movements": movements, "filters": filters(params)})
}

func (h *Handler) createMovement(c *gin.Context) {
	employees, err := h.services.Employees.Options(c.Request.Context(), h.scopeOf(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Movements/Create", gin.H{"employees": employees})
}

func (h *Handler) storeMovement(c *gin.Context) {
	var in services.MovementInput
	if !h.bind(c, &in) {
		return
	}
	if _, err := h.services.Movements.Create(c.Request.Context(), h.scopeOf(c), in); err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, "/movements", "Movement")
}

func (h *Handler) showMovement(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	movement, err := h.services.Movements.Get(c.Request.Context(), h.scopeOf(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Movements/Show", gin.H{"movement": movement})
}

func (h *Handler) approveMovement(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	req, ok := h.review(c)
	if !ok {
		return
	}
	if err := h.services.Movements.Approve(c.Request.Context(), h.scopeOf(c), id, h.principal(c).UserID, req.Remarks); err != nil {
		h.fail(c, err)
		return
	}
	h.done(c, http.StatusOK, "/movements", "Movement approved.")
}

func (h *Handler) rejectMovement(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	req, ok := h.review(c)
	if !ok {
		return
	}
	if err := h.services.Movements.Reject(c.Request.Context(), h.scopeOf(c), id, h.principal(c).UserID, req.Remarks); err != nil {
		h.fail(c, err)
		return
	}
	h.done(c, http.StatusOK, "/movements", "Movement rejected.")
}

func (h *Handler) completeMovement(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.services.Movements.Complete(c.Request.Context(), h.scopeOf(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.done(c, http.StatusOK, "/movements", "Movement marked as completed.")
}

func (h *Handler) destroyMovement(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.services.Movements.Delete(c.Request.Context(), h.scopeOf(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.deleted(c, "/movements", "Movement")
}

func (h *Handler) listTransfers(c *gin.Context) {
	params, ok := h.listParams(c)
	if !ok {
		return
	}
	transfers, err := h.services.Transfers.List(c.Request.Context(), h.scopeOf(c), params)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Transfers/Index", gin.H{"transfers": transfers, "filters": filters(params)})
}

func (h *Handler) createTransfer(c *gin.Context) {
	ctx := c.Request.Context()
	employees, err := h.services.Employees.Options(ctx, h.scopeOf(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	branches, err := h.services.Branches.Options(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	departments, err := h.services.Departments.Options(ctx, 0)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Transfers/Create", gin.H{
		"employees":   employees,
		"branches":    branches,
		"departments": departments,
	})
}

func (h *Handler) storeTransfer(c *gin.Context) {
	var in services.TransferInput
	if !h.bind(c, &in) {
		return
	}
	if _, err := h.services.Transfers.Create(c.Request.Context(), h.scopeOf(c), in); err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, "/transfers", "Transfer")
}

func (h *Handler) showTransfer(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	transfer, err := h.services.Transfers.Get(c.Request.Context(), h.scopeOf(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Transfers/Show", gin.H{"transfer": transfer})
}

func (h *Handler) approveTransfer(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	req, ok := h.review(c)
	if !ok {
		return
	}
	if err := h.services.Transfers.Approve(c.Request.Context(), h.scopeOf(c), id, h.principal(c).UserID, req.Remarks); err != nil {
		h.fail(c, err)
		return
	}
	h.done(c, http.StatusOK, "/transfers", "Transfer approved.")
}

func (h *Handler) rejectTransfer(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	req, ok := h.review(c)
	if !ok {
		return
	}
	if err := h.services.Transfers.Reject(c.Request.Context(), h.scopeOf(c), id, h.principal(c).UserID, req.Remarks); err != nil {
		h.fail(c, err)
		return
	}
	h.done(c, http.StatusOK, "/transfers", "Transfer rejected.")
}

func (h *Handler) completeTransfer(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.services.Transfers.Complete(c.Request.Context(), h.scopeOf(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.done(c, http.StatusOK, "/transfers", "Transfer completed. The employee has been moved.")
}

func (h *Handler) destroyTransfer(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.services.Transfers.Delete(c.Request.Context(), h.scopeOf(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.deleted(c, "/transfers", "Transfer")
}
