package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/auth"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/page"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/permissions"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

type stubAuthenticator struct {
	principals map[string]scope.Principal
}

func (s stubAuthenticator) Authenticate(_ context.Context, raw string) (scope.Principal, auth.Claims, error) {
	p, ok := s.principals[raw]
	if !ok {
		return scope.Principal{}, auth.Claims{}, apperror.New(apperror.CodeUnauthorized, "unauthenticated")
	}
	return p, auth.Claims{}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func branchManager() scope.Principal {
	branch := uint(3)
	return scope.Principal{
		UserID:   7,
		BranchID: &branch,
		Permissions: map[string]struct{}{
			permissions.BranchManager: {},
			permissions.ViewLeave:     {},
		},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	renderer, err := page.NewRenderer("1", false, nil)
	require.NoError(t, err)
	authenticator := stubAuthenticator{principals: map[string]scope.Principal{"good": branchManager()}}

	router := gin.New()
	router.Use(RequestLogger(quietLogger()))
	protected := router.Group("/", Authenticate(authenticator, "hrm_session", renderer, quietLogger()))
	protected.GET("/leave", RequirePermission(renderer, permissions.ViewLeave), func(c *gin.Context) {
		c.String(http.StatusOK, ScopeFrom(c).String())
	})
	protected.GET("/roles", RequirePermission(renderer, permissions.ViewRoles), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthenticateResolvesScopeOnce(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/leave", nil)
	req.AddCookie(&http.Cookie{Name: "hrm_session", Value: "good"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "branch:3", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestAuthenticateRedirectsBrowsersToLogin(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leave", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAuthenticateAnswersAPIClientsWith401(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/leave", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermissionForbids(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/leave", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestMetricsCountByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := NewMetrics(prometheus.NewRegistry())
	router := gin.New()
	router.Use(metrics.Middleware())
	router.GET("/employees/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", metrics.Handler())

	for i := 0; i < 2; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/employees/4", nil))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(),
		`hrm_http_requests_total{method="GET",route="/employees/:id",status="200"} 2`))
}

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	renderer, err := page.NewRenderer("1", false, nil)
	require.NoError(t, err)
	limit, err := LoginRateLimit("2-M", NewLimiterStore(nil, quietLogger()), renderer)
	require.NoError(t, err)

	router := gin.New()
	router.POST("/login", limit, func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	_, err = LoginRateLimit("lots", NewLimiterStore(nil, quietLogger()), renderer)
	assert.Error(t, err)
}
