package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDevSession(t *testing.T) {
	t.Setenv("APP_USERNAME", "household")
	t.Setenv("APP_PASSWORD", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("AUTH_TOKEN_KEY", "0123456789abcdef0123")
}

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("LLM_TIMEOUT", "")
	t.Setenv("ALLOW_OVERWRITE", "")
	setDevSession(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "mealplanner.db", cfg.SQLitePath)
	assert.Equal(t, "auth_token", cfg.CookieName)
	assert.Equal(t, 86400, cfg.CookieMaxAge)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.True(t, cfg.AllowOverwrite)
	assert.False(t, cfg.IsSecureCookie())
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	secretsDir := t.TempDir()
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSL_MODE", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_NAME", "meals")
	t.Setenv("GEMINI_API_KEY", "")
	setDevSession(t)

	secrets := map[string]string{
		"db_user":        "planner",
		"db_password":    "postpass\n",
		"gemini_api_key": "gk-test",
	}
	for name, value := range secrets {
		require.NoError(t, os.WriteFile(filepath.Join(secretsDir, name), []byte(value), 0o600))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "planner", cfg.DBUser)
	assert.Equal(t, "postpass", cfg.DBPassword)
	assert.Equal(t, "gk-test", cfg.GeminiAPIKey)
	assert.Equal(t, "host=db port=5432 user=planner password=postpass dbname=meals sslmode=disable", cfg.PostgresDSN())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("ALLOW_OVERWRITE", "false")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.False(t, cfg.AllowOverwrite)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestValidateConfigProduction(t *testing.T) {
	cfg := &Config{
		Environment: Production,
		ServerPort:  "8080",
		DBDriver:    "sqlite",
		SQLitePath:  "x.db",
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "sqlite is not allowed in production")
}

func TestValidateConfigShortTokenKey(t *testing.T) {
	cfg := &Config{
		Environment:  Test,
		ServerPort:   "8080",
		DBDriver:     "sqlite",
		SQLitePath:   "x.db",
		AuthTokenKey: "short",
	}
	assert.ErrorContains(t, ValidateConfig(cfg), "AUTH_TOKEN_KEY")
}
