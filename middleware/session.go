package middleware

import (
	"net/http"
	"strings"

	"carvewood-storefront/models"
	"carvewood-storefront/session"
	"carvewood-storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie is the name of the signed visitor cookie.
const SessionCookie = "shop_session"

// Session attaches a stable visitor id to every request. A valid cookie
// is reused; a missing, expired or tampered one gets a fresh id and a new
// signed cookie.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			if claims, err := utils.ValidateSessionToken(cookie); err == nil {
				id = claims.SessionID
			}
		}

		if id == "" {
			id = uuid.NewString()
			token, err := utils.GenerateSessionToken(id)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish session"})
				c.Abort()
				return
			}
			c.SetCookie(SessionCookie, token, int(utils.SessionTokenTTL.Seconds()), "/", "", false, true)
		}

		c.Set("session_id", id)
		c.Next()
	}
}

// AuthRequired rejects requests from visitors without a stored login and
// exposes the CMS token and user record to downstream handlers.
func AuthRequired(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetString("session_id")
		if id == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			c.Abort()
			return
		}

		sess, ok := sessions.Get(id)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			c.Abort()
			return
		}

		c.Set("cms_token", sess.Token)
		c.Set("user", sess.User)
		c.Next()
	}
}

// AdminRequired restricts a route to the configured admin accounts.
// Must run after AuthRequired.
func AdminRequired(adminEmails []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		allowed[strings.ToLower(email)] = true
	}

	return func(c *gin.Context) {
		v, exists := c.Get("user")
		user, ok := v.(models.User)
		if !exists || !ok || !allowed[strings.ToLower(user.Email)] {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
