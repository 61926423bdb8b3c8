// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	GetDatabaseMaxConns() int
	GetDatabaseMinConns() int
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// SchedulerConfig provides settings for the asynq reminder queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// LockConfig provides settings for the per-lead interaction lock.
type LockConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetLeadLockTTL() time.Duration
}

// PlanningConfig provides settings for the daily call plan.
type PlanningConfig interface {
	GetCallPlanningLocation() *time.Location
	GetCallPlanningDigestInterval() time.Duration
}

// PerformanceConfig provides settings for the performance analyzer.
type PerformanceConfig interface {
	GetPerformanceConcurrency() int
}

// ContactConfig provides settings for contact number normalization.
type ContactConfig interface {
	GetDefaultPhoneRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                        string
	HTTPAddr                   string
	DatabaseURL                string
	DatabaseMaxConns           int
	DatabaseMinConns           int
	CORSAllowAll               bool
	CORSOrigins                []string
	CORSAllowCreds             bool
	RateLimitRPS               float64
	RateLimitBurst             int
	RedisURL                   string
	RedisTLSInsecure           bool
	AsynqQueueName             string
	AsynqConcurrency           int
	LeadLockTTL                time.Duration
	CallPlanningLocation       *time.Location
	CallPlanningDigestInterval time.Duration
	PerformanceConcurrency     int
	DefaultPhoneRegion         string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string   { return c.DatabaseURL }
func (c *Config) GetDatabaseMaxConns() int { return c.DatabaseMaxConns }
func (c *Config) GetDatabaseMinConns() int { return c.DatabaseMinConns }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// LockConfig implementation
func (c *Config) GetLeadLockTTL() time.Duration { return c.LeadLockTTL }

// PlanningConfig implementation
func (c *Config) GetCallPlanningLocation() *time.Location {
	if c.CallPlanningLocation == nil {
		return time.Local
	}
	return c.CallPlanningLocation
}
func (c *Config) GetCallPlanningDigestInterval() time.Duration { return c.CallPlanningDigestInterval }

// PerformanceConfig implementation
func (c *Config) GetPerformanceConcurrency() int { return c.PerformanceConcurrency }

// ContactConfig implementation
func (c *Config) GetDefaultPhoneRegion() string { return c.DefaultPhoneRegion }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	planningLocation, err := time.LoadLocation(getEnv("CALL_PLANNING_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("CALL_PLANNING_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Env:                        getEnv("APP_ENV", "development"),
		HTTPAddr:                   getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:                getEnv("DATABASE_URL", ""),
		DatabaseMaxConns:           mustInt(getEnv("DB_MAX_CONNS", "25")),
		DatabaseMinConns:           mustInt(getEnv("DB_MIN_CONNS", "5")),
		CORSAllowAll:               corsAllowAll,
		CORSOrigins:                corsOrigins,
		CORSAllowCreds:             strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:               mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:             mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		RedisURL:                   getEnv("REDIS_URL", ""),
		RedisTLSInsecure:           strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:             getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:           mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		LeadLockTTL:                mustDuration(getEnv("LEAD_LOCK_TTL", "10s")),
		CallPlanningLocation:       planningLocation,
		CallPlanningDigestInterval: mustDuration(getEnv("CALL_PLANNING_DIGEST_INTERVAL", "1h")),
		PerformanceConcurrency:     mustInt(getEnv("PERFORMANCE_CONCURRENCY", "8")),
		DefaultPhoneRegion:         strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "IN")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
