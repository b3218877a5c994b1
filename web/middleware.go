package web

import (
	"github.com/gin-gonic/gin"

	"chronicle/models"
)

const (
	sessionCookie = "session"
	viewerKey     = "viewer"
)

// currentUser resolves the session cookie to an authenticated user. Any
// failure along the way just leaves the request anonymous.
func (app *App) currentUser(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		if id, err := app.Sessions.Resolve(c, token); err == nil {
			if u, err := app.Users.GetByID(c, id); err == nil {
				c.Set(viewerKey, u)
			}
		}
	}
	c.Next()
}

// viewer returns the authenticated user for this request, or nil for
// anonymous.
func viewer(c *gin.Context) *models.User {
	if v, ok := c.Get(viewerKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
