package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/apperror"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/auth"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/page"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (scope.Principal, auth.Claims, error)
}

// SessionToken reads the bearer token or, failing that, the session cookie.
func SessionToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// Authenticate requires a valid session. Browsers are sent to the login
// page; API clients get 401.
func Authenticate(authenticator Authenticator, cookieName string, renderer *page.Renderer, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			unauthenticated(c, renderer)
			return
		}
		principal, claims, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if apperror.GetCode(err) != apperror.CodeUnauthorized {
				logger.WithError(err).WithField("request-id", RequestIDFrom(c)).Error("authenticate session")
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			unauthenticated(c, renderer)
			return
		}
		SetPrincipal(c, principal, claims)
		c.Next()
	}
}

// Guest keeps signed-in users away from the login screen.
func Guest(authenticator Authenticator, cookieName string, renderer *page.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := SessionToken(c, cookieName); token != "" {
			if _, _, err := authenticator.Authenticate(c.Request.Context(), token); err == nil {
				renderer.Redirect(c, "/dashboard", page.Flash{})
				return
			}
		}
		c.Next()
	}
}

func unauthenticated(c *gin.Context, renderer *page.Renderer) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthenticated"})
		return
	}
	renderer.Redirect(c, "/login", page.Flash{})
}

// RequirePermission lets the request through when the principal holds key.
func RequirePermission(renderer *page.Renderer, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			unauthenticated(c, renderer)
			return
		}
		if !principal.Can(key) {
			Forbidden(c, renderer)
			return
		}
		c.Next()
	}
}

// Forbidden answers 403 as JSON or as the error page.
func Forbidden(c *gin.Context, renderer *page.Renderer) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "this action is unauthorized"})
		return
	}
	renderer.RenderStatus(c, http.StatusForbidden, "Error", gin.H{"status": http.StatusForbidden})
	c.Abort()
}

// WantsJSON reports whether the caller is an API client rather than the page
// client or a browser.
func WantsJSON(c *gin.Context) bool {
	if page.IsPageRequest(c) {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ")
}
