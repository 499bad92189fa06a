package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

func (h *Handler) dashboard(c *gin.Context) {
	overview, err := h.services.Dashboard.Overview(c.Request.Context(), h.principal(c), h.scopeOf(c), h.today())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Dashboard", gin.H{"stats": overview})
}

var countableRecords = map[string]scope.RecordType{
	"attendance": scope.Attendance,
	"leave":      scope.Leave,
	"movement":   scope.Movement,
	"transfer":   scope.Transfer,
}

// dashboardCounts serves a single record type's counts for widgets that
// refresh on their own.
func (h *Handler) dashboardCounts(c *gin.Context) {
	rt, ok := countableRecords[c.Query("type")]
	if !ok {
		h.fail(c, apperror.Validation("type", "the selected type is invalid"))
		return
	}
	asOf := h.today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			h.fail(c, apperror.Validation("date", "the date is not a valid date"))
			return
		}
		asOf = parsed
	}
	counts, err := h.services.Dashboard.Counts(c.Request.Context(), rt, h.scopeOf(c), asOf)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": rt, "date": asOf.Format(models.DateLayout), "counts": counts})
}
