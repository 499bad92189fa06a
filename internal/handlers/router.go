package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/middleware"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/page"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
)

type RouterConfig struct {
	Services    Services
	Catalog     permissions.Catalog
	Renderer    *page.Renderer
	Logger      *logrus.Logger
	Cookie      SessionCookie
	CORSOrigins []string
	// Metrics and MetricsPath are optional; without them /metrics is not served.
	Metrics     *middleware.Metrics
	MetricsPath string
	// LoginLimit throttles POST /login when set.
	LoginLimit gin.HandlerFunc
}

// SharedProps exposes the signed-in principal to every page.
func SharedProps(c *gin.Context) map[string]interface{} {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return map[string]interface{}{"auth": gin.H{"user": nil}}
	}
	return map[string]interface{}{
		"auth": gin.H{
			"user":        p,
			"permissions": p.PermissionList(),
			"scope":       middleware.ScopeFrom(c).String(),
		},
	}
}

// NewRouter registers middleware and every route on a new engine.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if err := RegisterValidators(cfg.Catalog); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	h := NewHandler(cfg.Services, cfg.Renderer, cfg.Cookie, cfg.Logger)

	router := gin.New()
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", page.HeaderPage, page.HeaderVersion, middleware.HeaderRequestID},
			ExposeHeaders:    []string{page.HeaderLocation, middleware.HeaderRequestID, "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		router.GET(cfg.MetricsPath, cfg.Metrics.Handler())
	}

	guest := router.Group("/", middleware.Guest(cfg.Services.Auth, cfg.Cookie.Name, cfg.Renderer))
	guest.GET("/login", h.showLogin)
	if cfg.LoginLimit != nil {
		guest.POST("/login", cfg.LoginLimit, h.login)
	} else {
		guest.POST("/login", h.login)
	}

	app := router.Group("/", middleware.Authenticate(cfg.Services.Auth, cfg.Cookie.Name, cfg.Renderer, cfg.Logger))
	app.GET("/", func(c *gin.Context) { cfg.Renderer.Redirect(c, "/dashboard", page.Flash{}) })
	app.POST("/logout", h.logout)

	viewDashboard := middleware.RequirePermission(cfg.Renderer, permissions.ViewDashboard)
	app.GET("/dashboard", viewDashboard, h.dashboard)
	app.GET("/dashboard/counts", viewDashboard, h.dashboardCounts)

	h.registerEmployees(app)
	h.registerOrganization(app)
	h.registerAccess(app)
	h.registerHolidays(app)
	h.registerWorkflow(app)
	h.registerAttendance(app)

	router.NoRoute(func(c *gin.Context) {
		h.errorPage(c, http.StatusNotFound, "page not found")
	})

	return router, nil
}
