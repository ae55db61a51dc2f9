package server

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/models"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if viewer := auth.IdentityFrom(c); viewer.Authenticated() {
		fields["user_id"] = viewer.UserID
	}
	utils.Info("HTTP Request", fields)
}

// IdentityResolver maps a session token to the identity of its user
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (models.Identity, error)
}

// SessionMiddleware resolves the session cookie into the request identity.
// Requests without a valid session continue as anonymous visitors and a stale cookie is cleared.
func SessionMiddleware(resolver IdentityResolver, cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		identity, err := resolver.ResolveIdentity(c.Request.Context(), token)
		if err != nil {
			utils.Debug("SessionMiddleware: discarding session", map[string]any{"error": err.Error()})
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, "", -1, "/", "", secure, true)
			c.Next()
			return
		}

		auth.SetIdentity(c, identity)
		c.Next()
	}
}

// RequireAuth sends anonymous visitors to the login page
func RequireAuth(c *gin.Context) {
	if auth.IdentityFrom(c).Authenticated() {
		c.Header("Cache-Control", "no-store")
		c.Next()
		return
	}

	next := c.Request.URL.Path
	if c.Request.Method != http.MethodGet {
		next = c.GetHeader("Referer")
		if u, err := url.Parse(next); err == nil && u.Path != "" {
			next = u.Path
		} else {
			next = "/"
		}
	}
	c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(next))
	c.Abort()
}
