package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// APIKeyAuth guards state-changing routes with the X-API-Key header. An
// empty key leaves the routes open.
func APIKeyAuth(key string) gin.HandlerFunc {
	if key == "" {
		log.Warn("API_KEY not set, monitor control endpoints are unauthenticated")
		return func(c *gin.Context) { c.Next() }
	}
	want := []byte(key)

	return func(c *gin.Context) {
		provided := strings.TrimSpace(c.GetHeader("X-API-Key"))
		switch {
		case provided == "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-API-Key header"})
		case subtle.ConstantTimeCompare([]byte(provided), want) != 1:
			log.Warn("rejected API key", "path", c.FullPath(), "client", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid API key"})
		default:
			c.Next()
		}
	}
}
