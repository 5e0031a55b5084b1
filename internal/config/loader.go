// loader.go implements the configuration loading lifecycle.
//
// The loading sequence is:
//  1. Enforce UTC timezone to prevent drift bugs in day arithmetic.
//  2. Load .env file via godotenv (non-fatal if absent).
//  3. Use envconfig to process struct tags and populate the Config struct.
//  4. Validate the struct using go-playground/validator.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigErrorType categorizes configuration loading failures for diagnostics.
type ConfigErrorType string

const (
	ConfigErrorEnvFile    ConfigErrorType = "env_file"
	ConfigErrorProcessing ConfigErrorType = "processing"
	ConfigErrorValidation ConfigErrorType = "validation"
)

// ConfigError is a diagnostic error type returned by Load to aid debugging.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load builds a validated Config from the process environment.
//
// A missing .env file is expected outside local development and is silently
// ignored; every other failure is fatal and wrapped in a ConfigError.
func Load() (*Config, error) {
	// All day-number arithmetic assumes UTC; pin the process timezone so a
	// misconfigured host cannot shift leg boundaries.
	time.Local = time.UTC

	// Best-effort .env load. godotenv returns an error when the file is
	// absent, which is the normal case in deployed environments.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ConfigErrorProcessing,
			Message: "failed to process environment variables",
			Err:     err,
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate runs struct-tag validation plus the cross-field rules that tags
// cannot express.
func validate(cfg *Config) error {
	v := validator.New()

	if err := v.Struct(cfg); err != nil {
		return &ConfigError{
			Type:    ConfigErrorValidation,
			Message: "configuration failed validation",
			Err:     err,
		}
	}

	if cfg.Database.MinConns > cfg.Database.MaxConns {
		return &ConfigError{
			Type: ConfigErrorValidation,
			Message: fmt.Sprintf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)",
				cfg.Database.MinConns, cfg.Database.MaxConns),
		}
	}

	return nil
}
