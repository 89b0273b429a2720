package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alpercimsit/emlak-website/internal/middleware"
	"github.com/alpercimsit/emlak-website/internal/ratelimit"
	"github.com/alpercimsit/emlak-website/internal/service"
)

// SystemHandler serves health and rate limit statistics.
type SystemHandler struct {
	Listings *service.ListingService
	Stats    ratelimit.StatsStore
	Limiter  *ratelimit.Limiter
}

type limitSettings struct {
	RPS   float64 `json:"rps"`
	Burst int     `json:"burst"`
}

type rateLimitStatsResponse struct {
	ratelimit.Counters
	CurrentMinute ratelimit.Counters            `json:"currentMinute"`
	Routes        map[string]ratelimit.Counters `json:"routes"`
	Limit         *limitSettings                `json:"limit,omitempty"`
}

func (h *SystemHandler) RegisterRoutes(r *gin.Engine, api *gin.RouterGroup) {
	r.GET("/health", h.Health)
	if h.Stats != nil {
		api.GET("/admin/ratelimit/stats", middleware.RequireAdmin(), h.RateLimitStats)
	}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "listings": h.Listings.Count()})
}

// GET /api/admin/ratelimit/stats
func (h *SystemHandler) RateLimitStats(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		resp rateLimitStatsResponse
		err  error
	)
	if resp.Counters, err = h.Stats.Total(ctx); err == nil {
		if resp.CurrentMinute, err = h.Stats.Minute(ctx, time.Now()); err == nil {
			resp.Routes, err = h.Stats.ByRoute(ctx)
		}
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats unavailable"})
		return
	}
	if h.Limiter != nil {
		resp.Limit = &limitSettings{RPS: h.Limiter.RPS(), Burst: h.Limiter.Burst()}
	}
	c.JSON(http.StatusOK, resp)
}
