// Package orders provides the orders bounded context module.
package orders

import (
	apphttp "kam_backend/internal/http"
	"kam_backend/internal/orders/handler"
	"kam_backend/internal/orders/repository"
	"kam_backend/internal/orders/service"
	"kam_backend/platform/logger"
	"kam_backend/platform/validator"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.OrdersRepository
}

// NewModule creates and initializes the orders module.
func NewModule(repo repository.OrdersRepository, leads service.LeadChecker, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, leads, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for the performance adapters.
func (m *Module) Repository() repository.OrdersRepository {
	return m.repo
}

// RegisterRoutes mounts order routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/orders"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
