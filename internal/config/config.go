// Package config defines the typed configuration for the Wayfarer itinerary
// service and its loading lifecycle: .env file via godotenv (optional),
// environment processing via envconfig, and struct validation via
// go-playground/validator.
package config

import (
	"time"

	"wayfarer/internal/types"
)

// Config is the root configuration struct populated from the environment.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"wayfarer-itinerary"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server   ServerConfig
	Database DatabaseConfig
	AWS      AWSConfig
	Climate  ClimateConfig
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"29s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
type DatabaseConfig struct {
	URL types.SecretString `envconfig:"DATABASE_URL" validate:"required,url"`

	// Tuning Parameters
	MaxConns          int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns          int           `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	AcquireTimeout    time.Duration `envconfig:"DB_ACQUIRE_TIMEOUT" default:"2s"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// AWSConfig holds AWS resource identifiers and regional configuration.
// RankingExportQueue may be empty, in which case export publishing is
// disabled and generation results are still fully committed.
type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"us-east-1"`

	RankingExportQueue string `envconfig:"SQS_RANKING_EXPORT" validate:"omitempty,url"`
	MetricsNamespace   string `envconfig:"METRICS_NAMESPACE" default:"Wayfarer"`

	// LocalStack Support (empty in prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// ClimateConfig holds parameters for the optional remote climate provider.
// When BaseURL is empty, only the seeded database profiles are consulted.
type ClimateConfig struct {
	BaseURL string        `envconfig:"CLIMATE_BASE_URL" validate:"omitempty,url"`
	Timeout time.Duration `envconfig:"CLIMATE_TIMEOUT" default:"3s"`
}

// IsLocal reports whether the service runs in local development mode.
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}
