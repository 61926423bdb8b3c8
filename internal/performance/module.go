package performance

import (
	apphttp "kam_backend/internal/http"
	"kam_backend/platform/logger"
)

// Module is the performance reporting module implementing http.Module.
type Module struct {
	handler  *Handler
	analyzer *Analyzer
}

// NewModule wires the analyzer to its account and order sources.
func NewModule(accounts AccountReader, orders OrderFinder, concurrency int, log *logger.Logger) *Module {
	analyzer := NewAnalyzer(accounts, orders, concurrency, log)
	return &Module{
		handler:  NewHandler(analyzer),
		analyzer: analyzer,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "performance"
}

// Analyzer returns the analyzer for the CLI reports.
func (m *Module) Analyzer() *Analyzer {
	return m.analyzer
}

// RegisterRoutes mounts performance routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/performance"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
