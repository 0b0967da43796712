package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"proffy-mobile/config"
	"proffy-mobile/internal/metrics"
	"proffy-mobile/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, h *Handler, log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestID(), mw.AccessLog(log, m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/favorites", h.GetFavorites)
		api.POST("/favorites/toggle", h.ToggleFavorite)

		api.GET("/teachers", h.GetTeachers)
		api.POST("/teachers/filters/visibility", h.ToggleFilters)
		api.PUT("/teachers/filters", h.SetFilters)
		api.POST("/teachers/filters/submit", h.SubmitFilters)
	}

	return r
}
