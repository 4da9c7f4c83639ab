package web

import (
	"context"
	"net/http"

	"github.com/CUknot/dorm_backend/apiclient"
	"github.com/CUknot/dorm_backend/models"
	"github.com/CUknot/dorm_backend/utils"
	"github.com/gin-gonic/gin"
)

const sessionCookie = "token"

// Session is the logged-in user of a page request
type Session struct {
	UserID uint
	Role   string
	Token  string
}

func (s *Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// Context carries the session token to the API client
func (s *Session) Context(ctx context.Context) context.Context {
	return apiclient.WithToken(ctx, s.Token)
}

func homeFor(role string) string {
	if role == models.RoleAdmin {
		return "/admin_sleepover.html"
	}
	return "/sleep.html"
}

// sessionFrom parses the session cookie, nil when absent or invalid
func sessionFrom(c *gin.Context) *Session {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		return nil
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil
	}
	return &Session{UserID: claims.UserID, Role: claims.Role, Token: token}
}

// CurrentUser returns the session stored by RequireSession
func CurrentUser(c *gin.Context) *Session {
	if s, ok := c.Get("session"); ok {
		return s.(*Session)
	}
	return nil
}

// RequireSession redirects to the login page unless a valid session cookie is present
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessionFrom(c)
		if s == nil {
			c.Redirect(http.StatusSeeOther, "/login.html")
			c.Abort()
			return
		}
		c.Set("session", s)
		c.Next()
	}
}

// RequireAdmin must run after RequireSession
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s := CurrentUser(c); s == nil || !s.IsAdmin() {
			renderError(c, http.StatusForbidden, "Forbidden", "Admin access required.")
			c.Abort()
			return
		}
		c.Next()
	}
}
