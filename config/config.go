package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultLLMModel     = "gemini-2.0-flash"
	defaultLLMTimeout   = 60 * time.Second
	defaultCookieName   = "auth_token"
	defaultCookieMaxAge = 86400
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// LLM configuration
	GeminiAPIKey string
	LLMModel     string
	LLMTimeout   time.Duration

	// Session configuration
	AppUsername     string
	AppPasswordHash string
	AuthTokenKey    string
	CookieName      string
	CookieMaxAge    int

	// Plan policy
	AllowOverwrite bool

	// Shopping list archive
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	switch env {
	case CI:
		loadFrom(cfg, os.Getenv)
	case Development, Test:
		loadFrom(cfg, envThenSecret)
		applyDevDefaults(cfg)
	case Production:
		loadFrom(cfg, secretThenEnv)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFrom fills cfg using lookup, which receives the environment variable
// name. Secret file names are the lower-cased variable names.
func loadFrom(cfg *Config, lookup func(string) string) {
	cfg.ServerPort = withDefault(lookup("SERVER_PORT"), "8080")
	cfg.ServerHost = lookup("SERVER_HOST")
	cfg.AllowedOrigins = splitList(lookup("ALLOWED_ORIGINS"))

	cfg.DBDriver = withDefault(lookup("DB_DRIVER"), "postgres")
	cfg.DBHost = lookup("DB_HOST")
	cfg.DBPort = withDefault(lookup("DB_PORT"), "5432")
	cfg.DBUser = lookup("DB_USER")
	cfg.DBPassword = lookup("DB_PASSWORD")
	cfg.DBName = lookup("DB_NAME")
	cfg.DBSSLMode = withDefault(lookup("DB_SSL_MODE"), "disable")
	cfg.SQLitePath = lookup("SQLITE_PATH")

	cfg.RedisHost = lookup("REDIS_HOST")
	cfg.RedisPort = withDefault(lookup("REDIS_PORT"), "6379")
	cfg.RedisPassword = lookup("REDIS_PASSWORD")
	cfg.RedisURL = lookup("REDIS_URL")
	cfg.RedisDB = 0 // This is a constant, not a secret

	cfg.GeminiAPIKey = lookup("GEMINI_API_KEY")
	cfg.LLMModel = withDefault(lookup("LLM_MODEL"), defaultLLMModel)
	cfg.LLMTimeout = parseDuration(lookup("LLM_TIMEOUT"), defaultLLMTimeout)

	cfg.AppUsername = lookup("APP_USERNAME")
	cfg.AppPasswordHash = lookup("APP_PASSWORD")
	cfg.AuthTokenKey = lookup("AUTH_TOKEN_KEY")
	cfg.CookieName = withDefault(lookup("COOKIE_NAME"), defaultCookieName)
	cfg.CookieMaxAge = parseInt(lookup("COOKIE_MAX_AGE"), defaultCookieMaxAge)

	cfg.AllowOverwrite = parseBool(lookup("ALLOW_OVERWRITE"), true)

	cfg.S3Bucket = lookup("S3_BUCKET_NAME")
	cfg.AWSRegion = lookup("AWS_REGION")
}

// applyDevDefaults lets a developer run the service without Postgres.
func applyDevDefaults(cfg *Config) {
	if cfg.DBHost == "" && cfg.DBDriver == "postgres" {
		cfg.DBDriver = "sqlite"
	}
	if cfg.DBDriver == "sqlite" && cfg.SQLitePath == "" {
		cfg.SQLitePath = "mealplanner.db"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:5173"}
	}
}

// IsSecureCookie reports whether the session cookie needs the Secure flag.
func (c *Config) IsSecureCookie() bool {
	return c.Environment == Production
}

// Address returns the listen address.
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN builds the connection string for lib/pq and the gorm driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func envThenSecret(name string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return readSecret(strings.ToLower(name))
}

func secretThenEnv(name string) string {
	if v := readSecret(strings.ToLower(name)); v != "" {
		return v
	}
	return os.Getenv(name)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}

func parseInt(v string, def int) int {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return def
}

func parseBool(v string, def bool) bool {
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}
