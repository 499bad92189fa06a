package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/middleware"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/page"
	"github.com/IstiakDeveloper/hrm-mou2025-sub003/internal/services"
)

func (h *Handler) showLogin(c *gin.Context) {
	h.renderer.Render(c, "Auth/Login", gin.H{})
}

func (h *Handler) login(c *gin.Context) {
	var in services.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		h.fail(c, bindingError(err))
		return
	}
	session, err := h.services.Auth.Login(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookie(c, session.Token, int(h.cookie.TTL.Seconds()))
	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"token":      session.Token,
			"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339),
			"user":       session.User,
		})
		return
	}
	h.renderer.Redirect(c, "/dashboard", page.Flash{Success: "Welcome back, " + session.User.Name + "."})
}

func (h *Handler) logout(c *gin.Context) {
	if claims, ok := middleware.ClaimsFrom(c); ok {
		if err := h.services.Auth.Logout(c.Request.Context(), claims); err != nil {
			h.fail(c, err)
			return
		}
	}
	h.setSessionCookie(c, "", -1)
	if middleware.WantsJSON(c) {
		c.Status(http.StatusNoContent)
		return
	}
	h.renderer.Redirect(c, "/login", page.Flash{Success: "You have been logged out."})
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
