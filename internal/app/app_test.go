package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/config"
	"github.com/pageza/mealplanner/backend/internal/router"
)

func TestNewWithOptionalDependenciesMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Environment:    config.Test,
		DBDriver:       "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "plan.db"),
		CookieName:     "auth_token",
		CookieMaxAge:   3600,
		AllowOverwrite: true,
		AuthTokenKey:   "app-test-key-0123456789",
	}

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	assert.Nil(t, a.Redis)

	r := router.SetupRouter(a.RouterDependencies())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	entries, err := a.Ingredients.ImportPlan(context.Background(), "# https://example.com/soup\n## 1 l stock")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
