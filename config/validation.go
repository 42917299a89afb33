package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type requiredField struct {
	name  string
	value func(*Config) string
}

var (
	serverFields = []requiredField{
		{"SERVER_PORT", func(c *Config) string { return c.ServerPort }},
	}
	sessionFields = []requiredField{
		{"APP_USERNAME", func(c *Config) string { return c.AppUsername }},
		{"APP_PASSWORD", func(c *Config) string { return c.AppPasswordHash }},
		{"AUTH_TOKEN_KEY", func(c *Config) string { return c.AuthTokenKey }},
	}
	llmFields = []requiredField{
		{"GEMINI_API_KEY", func(c *Config) string { return c.GeminiAPIKey }},
	}
	postgresFields = []requiredField{
		{"DB_HOST", func(c *Config) string { return c.DBHost }},
		{"DB_USER", func(c *Config) string { return c.DBUser }},
		{"DB_PASSWORD", func(c *Config) string { return c.DBPassword }},
		{"DB_NAME", func(c *Config) string { return c.DBName }},
	}

	// Environment-specific requirements
	requirements = map[Environment][][]requiredField{
		Development: {serverFields, sessionFields},
		Test:        {serverFields},
		CI:          {serverFields, sessionFields},
		Production:  {serverFields, sessionFields, llmFields},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []error

	for _, group := range requirements[cfg.Environment] {
		for _, f := range group {
			if f.value(cfg) == "" {
				errs = append(errs, ValidationError{Field: f.name, Message: "is required"})
			}
		}
	}

	switch cfg.DBDriver {
	case "postgres":
		for _, f := range postgresFields {
			if f.value(cfg) == "" {
				errs = append(errs, ValidationError{Field: f.name, Message: "is required for the postgres driver"})
			}
		}
	case "sqlite":
		if cfg.Environment == Production {
			errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "sqlite is not allowed in production"})
		}
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{Field: "SQLITE_PATH", Message: "is required for the sqlite driver"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.AuthTokenKey != "" && len(cfg.AuthTokenKey) < 16 {
		errs = append(errs, ValidationError{Field: "AUTH_TOKEN_KEY", Message: "must be at least 16 characters"})
	}

	return errors.Join(errs...)
}
