// Package http holds the contract between the composition root and the
// feature modules (leads, orders, performance) that expose HTTP routes.
package http

import (
	"context"

	"kam_backend/platform/config"
	"kam_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is a feature slice that mounts its own routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is handed to each module during registration. V1 is the
// /api/v1 group with the acting user already resolved from X-User-ID.
type RouterContext struct {
	V1 *gin.RouterGroup
}

// RouterConfig is the slice of configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
}

// HealthChecker backs GET /api/health. A nil checker always reports ok.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is assembled in cmd/api and turned into an engine by router.New.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Health  HealthChecker
	Modules []Module
}
