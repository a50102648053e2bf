package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler reports database and cache reachability.
// A cache outage degrades to "degraded" since lookups fall back to the database.
func HealthHandler(db Pinger, userCache Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if err := db.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
			return
		}

		status, cacheState := "healthy", "ok"
		if userCache != nil {
			if err := userCache.Health(ctx); err != nil {
				status, cacheState = "degraded", "unavailable"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   status,
			"database": "connected",
			"cache":    cacheState,
		})
	}
}
