package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/middleware"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/models"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/services"
)

func (h *Handler) registerHolidays(group *gin.RouterGroup) {
	group.GET("/holidays/calendar", middleware.RequirePermission(h.renderer, permissions.ViewHolidays), h.holidayCalendar)

	holidays := &resource[models.Holiday, services.HolidayInput]{
		h: h, svc: h.services.Holidays,
		label: "Holiday", path: "/holidays", component: "Holidays",
		plural: "holidays", singular: "holiday",
		formProps: h.holidayForm,
	}
	holidays.register(group, permissionSet{
		view:   permissions.ViewHolidays,
		create: permissions.ManageHolidays,
		edit:   permissions.ManageHolidays,
		delete: permissions.ManageHolidays,
	})
}

func (h *Handler) holidayForm(c *gin.Context) (gin.H, error) {
	branches, err := h.services.Branches.Options(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return gin.H{"branches": branches}, nil
}

// holidayCalendar renders one month. year and month default to the current
// month; branch_id defaults to the principal's branch.
func (h *Handler) holidayCalendar(c *gin.Context) {
	today := h.today()
	year, month := today.Year(), int(today.Month())

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(c, apperror.Validation("year", "the year must be a number"))
			return
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(c, apperror.Validation("month", "the month must be a number"))
			return
		}
		month = v
	}

	branchID := h.principal(c).BranchID
	if raw := c.Query("branch_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.fail(c, apperror.Validation("branch_id", "the selected branch id is invalid"))
			return
		}
		id := uint(v)
		branchID = &id
	}

	days, err := h.services.Holidays.Calendar(c.Request.Context(), year, time.Month(month), branchID, today)
	if err != nil {
		h.fail(c, err)
		return
	}
	branches, err := h.services.Branches.Options(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderer.Render(c, "Holidays/Calendar", gin.H{
		"year":      year,
		"month":     month,
		"branch_id": branchID,
		"days":      days,
		"branches":  branches,
	})
}
