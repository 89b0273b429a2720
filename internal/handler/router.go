package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/alpercimsit/emlak-website/internal/logging"
	"github.com/alpercimsit/emlak-website/internal/middleware"
	"github.com/alpercimsit/emlak-website/internal/ratelimit"
	"github.com/alpercimsit/emlak-website/internal/service"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Auth     *service.AuthService
	Listings *service.ListingService
	Logger   *logging.Logger
	// LoginLimiter throttles POST /api/auth/login; nil disables throttling.
	LoginLimiter *ratelimit.Limiter
	// Stats records throttle decisions and backs the stats endpoint; may be nil.
	Stats          ratelimit.StatsStore
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For; nil means the peer address is the client.
	TrustedProxies []string
}

// NewRouter registers every route explicitly on a fresh gin engine.
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.CORS(d.AllowedOrigins),
		middleware.AdminAuth(d.Auth),
	)

	api := r.Group("/api")

	auth := &AuthHandler{Auth: d.Auth}
	if d.LoginLimiter != nil {
		auth.LoginGuard = middleware.RateLimit(d.LoginLimiter, d.Stats, d.Logger)
	}
	auth.RegisterRoutes(api)

	listings := &ListingHandler{Listings: d.Listings}
	listings.RegisterRoutes(api)

	system := &SystemHandler{Listings: d.Listings, Stats: d.Stats, Limiter: d.LoginLimiter}
	system.RegisterRoutes(r, api)

	return r, nil
}
