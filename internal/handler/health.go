package handler

import (
	"context"
	"net/http"
	"time"

	"edubot-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// Pinger reports storage reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health answers liveness probes, backed by a bounded storage ping.
func Health(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			util.Error(c, http.StatusServiceUnavailable, "storage unreachable")
			return
		}
		util.Success(c, http.StatusOK, util.Response{"status": "ok"})
	}
}
