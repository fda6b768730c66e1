package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/quietnest/noise-event-service/internal/blob"
	"github.com/quietnest/noise-event-service/internal/handlers"
	"github.com/quietnest/noise-event-service/internal/store"
)

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("request")
	}
}

// NewRouter wires operational endpoints and the noise-event API.
// Public: /health, /ready, /metrics
// API: /api/ReceiveNoiseData, /api/GetNoiseHistory, /api/GetDeviceStats,
// /api/DeleteOldData, /api/DeleteDeviceData, /api/ExportHistory
//
// up may be nil when no export bucket is configured; saveToStorage exports
// then report storage as unavailable.
func NewRouter(st store.Store, up blob.Uploader, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log), metricsMiddleware())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the store dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	handlers.RegisterIngest(api, st, log)
	handlers.RegisterHistory(api, st, log)
	handlers.RegisterStats(api, st, log)
	handlers.RegisterRetention(api, st, log)
	handlers.RegisterExport(api, st, up, log)

	return r
}
