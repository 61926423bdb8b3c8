// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"time"

	"kam_backend/internal/events"
	apphttp "kam_backend/internal/http"
	"kam_backend/internal/leads/contacts"
	"kam_backend/internal/leads/handler"
	"kam_backend/internal/leads/management"
	"kam_backend/internal/leads/repository"
	"kam_backend/internal/leads/scheduling"
	"kam_backend/platform/lock"
	"kam_backend/platform/logger"
	"kam_backend/platform/validator"
)

// Config carries the module's settings.
type Config struct {
	// PlanningLocation sets the midnight boundary for the daily call list.
	PlanningLocation *time.Location
	// PhoneRegion resolves contact numbers without a country prefix.
	PhoneRegion string
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
	scheduling *scheduling.Service
	contacts   *contacts.Service
	repo       repository.LeadsRepository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(repo repository.LeadsRepository, eventBus events.Bus, locker lock.Locker, val *validator.Validator, cfg Config, log *logger.Logger) *Module {
	// Create focused services (vertical slices)
	mgmtSvc := management.New(repo, eventBus)
	schedulingSvc := scheduling.New(repo, eventBus, locker, cfg.PlanningLocation, log)
	contactSvc := contacts.New(repo, cfg.PhoneRegion)

	return &Module{
		handler:    handler.New(mgmtSvc, schedulingSvc, contactSvc, val),
		management: mgmtSvc,
		scheduling: schedulingSvc,
		contacts:   contactSvc,
		repo:       repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the management service for use by adapters.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// SchedulingService returns the call scheduler for the digest job and CLI.
func (m *Module) SchedulingService() *scheduling.Service {
	return m.scheduling
}

// Repository returns the repository for read adapters.
func (m *Module) Repository() repository.LeadsRepository {
	return m.repo
}

// RegisterRoutes mounts leads, contacts and interactions routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
	m.handler.RegisterContactRoutes(ctx.V1.Group("/contacts"))
	m.handler.RegisterInteractionRoutes(ctx.V1.Group("/interactions"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
