package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Pinger reports whether the external read-only source is reachable.
// *elabastecedor.Gateway implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns a JSON health check response.
// Checks DB, Redis and the external source; never exposes credentials.
// The external source being down does NOT degrade overall status: the app
// keeps serving with empty reference data.
func Health(db *gorm.DB, rdb *redis.Client, fuente Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		fuenteStatus := "connected"
		if fuente == nil || fuente.Ping(ctx) != nil {
			fuenteStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":            status == http.StatusOK,
			"db":            dbStatus,
			"redis":         redisStatus,
			"elabastecedor": fuenteStatus,
		})
	}
}
