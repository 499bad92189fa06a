package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/middleware"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/services"
)

func (h *Handler) registerAttendance(group *gin.RouterGroup) {
	need := func(key string) gin.HandlerFunc { return middleware.RequirePermission(h.renderer, key) }

	group.GET("/attendance", need(permissions.ViewAttendance), h.listAttendance)
	group.POST("/attendance", need(permissions.ManageAttendance), h.markAttendance)
	group.POST("/attendance/bulk", need(permissions.ManageAttendance), h.markAttendanceBulk)
	group.DELETE("/attendance/:id", need(permissions.ManageAttendance), h.destroyAttendance)
}

// listAttendance shows one day, today unless ?date= says otherwise, with the
// day's status counts.
func (h *Handler) listAttendance(c *gin.Context) {
	params, ok := h.listParams(c)
	if !ok {
		return
	}
	day := h.today()
	if params.Date != "" {
		parsed, err := models.ParseDate(params.Date)
		if err != nil {
			h.fail(c, apperror.Validation("date", "the date is not a valid date"))
			return
		}
		day = parsed
	}
	params.Date = day.Format(models.DateLayout)

	ctx := c.Request.Context()
	sc := h.scopeOf(c)
	records, err := h.services.Attendance.List(ctx, sc, params)
	if err != nil {
		h.fail(c, err)
		return
	}
	summary, err := h.services.Dashboard.Counts(ctx, scope.Attendance, sc, day)
	if err != nil {
		h.fail(c, err)
		return
	}
	employees, err := h.services.Employees.Options(ctx, sc)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Attendance/Index", gin.H{
		"attendance": records,
		"summary":    summary,
		"employees":  employees,
		"filters":    filters(params),
	})
}

func (h *Handler) markAttendance(c *gin.Context) {
	var in services.AttendanceInput
	if !h.bind(c, &in) {
		return
	}
	if _, err := h.services.Attendance.Mark(c.Request.Context(), h.scopeOf(c), in); err != nil {
		h.fail(c, err)
		return
	}
	h.done(c, http.StatusOK, "/attendance?date="+in.Date, "Attendance saved successfully.")
}

func (h *Handler) markAttendanceBulk(c *gin.Context) {
	var in services.BulkAttendanceInput
	if !h.bind(c, &in) {
		return
	}
	n, err := h.services.Attendance.MarkBulk(c.Request.Context(), h.scopeOf(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.done(c, http.StatusOK, "/attendance?date="+in.Date, fmt.Sprintf("Attendance saved for %d employees.", n))
}

func (h *Handler) destroyAttendance(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.services.Attendance.Delete(c.Request.Context(), h.scopeOf(c), id); err != nil {
		h.fail(c, err)
		return
	}
	h.deleted(c, "/attendance", "Attendance record")
}
