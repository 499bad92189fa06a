package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/middleware"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/page"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/services"
)

// SessionCookie describes the cookie carrying the session token.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type Handler struct {
	services Services
	renderer *page.Renderer
	logger   *logrus.Logger
	cookie   SessionCookie
	now      func() time.Time
}

// NewHandler builds the route handlers over svc.
func NewHandler(svc Services, renderer *page.Renderer, cookie SessionCookie, logger *logrus.Logger) *Handler {
	return &Handler{
		services: svc,
		renderer: renderer,
		logger:   logger,
		cookie:   cookie,
		now:      time.Now,
	}
}

func (h *Handler) today() time.Time {
	return h.now().UTC()
}

// fail translates a service error into the response the caller expects.
func (h *Handler) fail(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.New(apperror.CodeInternal, "internal server error")
	}
	api := middleware.WantsJSON(c)

	switch appErr.Code {
	case apperror.CodeValidation:
		if api {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"message": appErr.Message, "errors": appErr.Fields})
			return
		}
		h.renderer.Back(c, appErr.Fields, "")
	case apperror.CodeConflict:
		if api {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": appErr.Message})
			return
		}
		h.renderer.Back(c, nil, appErr.Message)
	case apperror.CodeNotFound:
		h.errorPage(c, http.StatusNotFound, appErr.Message)
	case apperror.CodeForbidden:
		middleware.Forbidden(c, h.renderer)
	case apperror.CodeUnauthorized:
		h.errorPage(c, http.StatusUnauthorized, appErr.Message)
	default:
		h.logger.WithError(err).
			WithField("request-id", middleware.RequestIDFrom(c)).
			WithField("path", c.Request.URL.Path).
			Error("request failed")
		h.errorPage(c, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) errorPage(c *gin.Context, status int, message string) {
	if middleware.WantsJSON(c) {
		c.AbortWithStatusJSON(status, gin.H{"message": message})
		return
	}
	h.renderer.RenderStatus(c, status, "Error", gin.H{"status": status, "message": message})
	c.Abort()
}

// bind decodes the JSON body into dst and reports binding failures as
// field validation errors.
func (h *Handler) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.ValidationFields(fieldMessages(verrs))
	}
	return apperror.Validation("body", "the request body is invalid")
}

func (h *Handler) id(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		h.fail(c, apperror.NotFound("the requested record was not found"))
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) listParams(c *gin.Context) (services.ListParams, bool) {
	var params services.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.fail(c, apperror.Validation("query", "the query string is invalid"))
		return params, false
	}
	return params, true
}

func (h *Handler) principal(c *gin.Context) scope.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}

// filters echoes the list options back to the page so the client can keep
// its search box and sort state.
func filters(params services.ListParams) gin.H {
	return gin.H{
		"search":        params.Search,
		"sort":          params.Sort,
		"order":         params.Order,
		"status":        params.Status,
		"branch_id":     params.BranchID,
		"department_id": params.DepartmentID,
		"date":          params.Date,
		"year":          params.Year,
	}
}

func (h *Handler) scopeOf(c *gin.Context) scope.Scope {
	return middleware.ScopeFrom(c)
}
