package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "kam_backend/internal/http"
	"kam_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct{}

func (testConfig) GetHTTPAddr() string      { return ":0" }
func (testConfig) GetCORSAllowAll() bool    { return true }
func (testConfig) GetCORSOrigins() []string { return nil }
func (testConfig) GetCORSAllowCreds() bool  { return false }
func (testConfig) GetRateLimitRPS() float64 { return 0 }
func (testConfig) GetRateLimitBurst() int   { return 0 }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

func (echoModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/echo", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
}

func newEngine(health apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  testConfig{},
		Logger:  logger.Nop(),
		Health:  health,
		Modules: []apphttp.Module{echoModule{}},
	})
}

func serve(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthReflectsDatabase(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(newEngine(pinger{}), "/api/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(newEngine(pinger{err: errors.New("down")}), "/api/health").Code)
	assert.Equal(t, http.StatusOK, serve(newEngine(nil), "/api/health").Code)
}

func TestModulesMountUnderV1(t *testing.T) {
	rec := serve(newEngine(nil), "/api/v1/echo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestMetricsEndpoint(t *testing.T) {
	engine := newEngine(nil)
	serve(engine, "/api/v1/echo")

	rec := serve(engine, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kam_http_requests_total")
}
