package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashboard/internal/session"
)

const sessionKey = "session"

// SessionMiddleware attaches the browser's dashboard session, creating one
// and setting the cookie when the request carries no live session.
func SessionMiddleware(manager *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(session.CookieName)
		s, created := manager.GetOrCreate(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(session.CookieName, s.ID, int(manager.TTL().Seconds()), "/", "", false, true)
			logger.Debug("New dashboard session", zap.String("session", s.ID), zap.String("path", c.Request.URL.Path))
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// CurrentSession returns the session set by SessionMiddleware.
func CurrentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
