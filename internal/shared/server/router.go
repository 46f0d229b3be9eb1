package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"plant-relay/internal/analysis"
	"plant-relay/internal/dictionary"
	"plant-relay/internal/maintenance"
	"plant-relay/internal/services/health"
	"plant-relay/internal/shared/config"
	"plant-relay/internal/shared/metrics"
	"plant-relay/internal/shared/server/middleware"
	"plant-relay/internal/shared/server/respond"
	"plant-relay/internal/shared/telemetry"
)

// RouterDeps groups the handlers mounted on the engine.
type RouterDeps struct {
	Config             config.Config
	Health             *health.Service
	AnalysisHandler    *analysis.Handler
	MaintenanceHandler *maintenance.Handler
	DictionaryHandler  *dictionary.Handler
	Now                func() time.Time
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	// Without trusted proxies ClientIP is the socket peer, so a forged
	// X-Forwarded-For cannot pick its own rate limit bucket.
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		telemetry.Error("server.trusted_proxies_invalid", map[string]any{
			"proxies": deps.Config.TrustedProxies,
			"error":   err.Error(),
		})
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	liveness := func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	}
	r.GET("/", liveness)
	r.GET("/health", liveness)
	r.GET("/metrics", metrics.Handler())

	if deps.AnalysisHandler != nil {
		limiter := middleware.NewRateLimiter(deps.Now)
		rule := middleware.RateLimitRule{Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst}
		deps.AnalysisHandler.RegisterRoutes(r, middleware.RateLimit(limiter, "analyze", rule))
	}
	if deps.MaintenanceHandler != nil {
		deps.MaintenanceHandler.RegisterRoutes(r)
	}
	if deps.DictionaryHandler != nil {
		deps.DictionaryHandler.RegisterRoutes(r)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "Not found.")
	})

	return r
}

// Addr normalizes the listen address. An empty port listens on 8080 on all
// interfaces.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
