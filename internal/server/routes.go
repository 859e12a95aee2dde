package server

import (
	"github.com/gin-gonic/gin"

	"internship-sniper-backend/internal/metrics"
	"internship-sniper-backend/internal/server/middleware"
	"internship-sniper-backend/internal/server/respond"
)

// Per-minute request budgets. Uploads and advisor calls share the AI
// budget since every one of them costs a provider call.
const (
	aiRequestsPerMinute   = 10
	jobsRequestsPerMinute = 20
)

func registerRoutes(r *gin.Engine, deps Deps) {
	limiter := middleware.NewRateLimiter(nil)

	aiLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"AI": {Rate: aiRequestsPerMinute / 60.0, Burst: aiRequestsPerMinute},
		},
		DefaultGroup: "AI",
		Limiter:      limiter,
	})
	jobsLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"JOBS": {Rate: jobsRequestsPerMinute / 60.0, Burst: jobsRequestsPerMinute},
		},
		DefaultGroup: "JOBS",
		Limiter:      limiter,
	})

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, deps.Health.Status())
	})
	r.GET("/metrics", metrics.Handler())

	ai := api.Group("")
	ai.Use(aiLimit)
	deps.Uploads.RegisterRoutes(ai)
	deps.Advisor.RegisterRoutes(ai)

	jobs := api.Group("")
	jobs.Use(jobsLimit)
	deps.Jobs.RegisterRoutes(jobs)
}
