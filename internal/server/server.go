// Package server builds the HTTP engine: middleware stack, rate limits
// and route registration.
package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"internship-sniper-backend/internal/advisor"
	"internship-sniper-backend/internal/config"
	"internship-sniper-backend/internal/health"
	"internship-sniper-backend/internal/jobsearch"
	"internship-sniper-backend/internal/server/middleware"
	"internship-sniper-backend/internal/uploads"
)

// Deps are the handlers the engine serves.
type Deps struct {
	Health  *health.Service
	Uploads *uploads.Handler
	Jobs    *jobsearch.Handler
	Advisor *advisor.Handler
}

// NewEngine builds the gin engine with middleware and routes registered.
func NewEngine(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(corsOrigins(cfg)),
	)

	registerRoutes(engine, deps)
	return engine
}

// corsOrigins keeps development wide open; production serves only the
// configured origins.
func corsOrigins(cfg config.Config) []string {
	if cfg.Env != "production" {
		return []string{"*"}
	}
	if len(cfg.CORSAllowOrigin) > 0 {
		return cfg.CORSAllowOrigin
	}
	return []string{"https://internship-sniper.com"}
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
