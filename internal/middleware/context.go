package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/auth"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/scope"
)

const (
	principalKey = "hrm.principal"
	scopeKey     = "hrm.scope"
	claimsKey    = "hrm.claims"
	requestIDKey = "hrm.request_id"
)

// SetPrincipal stores the authenticated principal and its scope on the
// request. The scope is resolved once here and reused by every query.
func SetPrincipal(c *gin.Context, p scope.Principal, claims auth.Claims) {
	c.Set(principalKey, p)
	c.Set(scopeKey, scope.Resolve(p))
	c.Set(claimsKey, claims)
}

// PrincipalFrom returns the principal set by Authenticate.
func PrincipalFrom(c *gin.Context) (scope.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return scope.Principal{}, false
	}
	p, ok := v.(scope.Principal)
	return p, ok
}

// ScopeFrom returns the request's scope, unrestricted when none was set.
func ScopeFrom(c *gin.Context) scope.Scope {
	if v, ok := c.Get(scopeKey); ok {
		if s, ok := v.(scope.Scope); ok {
			return s
		}
	}
	return scope.Scope{}
}

// ClaimsFrom returns the session claims set by Authenticate.
func ClaimsFrom(c *gin.Context) (auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := v.(auth.Claims)
	return claims, ok
}

// RequestIDFrom returns the id assigned by RequestLogger.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
