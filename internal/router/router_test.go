package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/config"
	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/plan"
	"github.com/pageza/mealplanner/backend/internal/repository"
	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/testhelpers"
)

type staticGenerator string

func (g staticGenerator) Generate(context.Context, string) (string, error) {
	return string(g), nil
}

type app struct {
	router http.Handler
	cookie *http.Cookie
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewSQLiteDB(t)
	repo := repository.NewWeeklyRepository(db)
	lock := &service.PlanLock{}
	policy := plan.Policy{AllowOverwrite: true}
	log := zap.NewNop()

	hash, err := service.HashPassword("s3cret-pass")
	require.NoError(t, err)

	cfg := &config.Config{
		Environment:    config.Test,
		AllowedOrigins: []string{"http://localhost:5173"},
		CookieName:     "auth_token",
		CookieMaxAge:   86400,
	}

	r := SetupRouter(Dependencies{
		Config: cfg,
		Log:    log,
		Health: repo,
		Auth:   service.NewAuthService("household", hash, "router-test-key-0123456789", time.Hour),
		Weekly: service.NewWeeklyService(repo, lock, policy, log),
		Ingredients: service.NewIngredientService(repo, lock,
			staticGenerator("<div><h3>Dairy</h3><ul><li>1 l Milk</li></ul><script>x</script></div>"),
			service.NewSanitizer(), service.IngredientServiceConfig{Policy: policy}, log),
	})
	return &app{router: r}
}

func (a *app) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func (a *app) login(t *testing.T) {
	t.Helper()
	w, _ := a.do(t, http.MethodPost, "/login", map[string]string{"username": "household", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" {
			a.cookie = c
		}
	}
	require.NotNil(t, a.cookie)
}

func weeklyEntries(t *testing.T, body map[string]any, day plan.Day, meal plan.MealType) []models.MealEntry {
	t.Helper()
	raw, err := json.Marshal(body["data"].(map[string]any)[string(day)].(map[string]any)[string(meal)])
	require.NoError(t, err)
	var entries []models.MealEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	return entries
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	a := newApp(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/weekly"},
		{http.MethodPost, "/ingredients"},
		{http.MethodPost, "/swap-meals"},
		{http.MethodPost, "/move-meal"},
		{http.MethodGet, "/shopping-list"},
	} {
		w, body := a.do(t, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		assert.Equal(t, "error", body["status"], tc.path)
	}

	w, _ := a.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestIngestSwapMoveFlow(t *testing.T) {
	a := newApp(t)
	a.login(t)

	w, body := a.do(t, http.MethodPost, "/ingredients", map[string]any{
		"recipes_text": "# https://example.com/tacos\n## 500 g sej\n# https://example.com/pasta\n## 400 g pasta",
		"have_at_home": "salt",
	})
	require.Equal(t, http.StatusOK, w.Code, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "<div><h3>Dairy</h3><ul><li>1 l Milk</li></ul></div>", data["ingredients_html"])
	assert.Contains(t, data, "llm_time")

	w, body = a.do(t, http.MethodGet, "/weekly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	mondayLunch := weeklyEntries(t, body, plan.Monday, plan.Lunch)
	tuesdayLunch := weeklyEntries(t, body, plan.Tuesday, plan.Lunch)
	mondayDinner := weeklyEntries(t, body, plan.Monday, plan.Dinner)
	require.Len(t, mondayLunch, 1)
	require.Len(t, tuesdayLunch, 1)
	require.Len(t, mondayDinner, 1)
	assert.Equal(t, "https://example.com/tacos", *mondayLunch[0].Link)
	assert.Equal(t, "https://example.com/pasta", *mondayDinner[0].Link)

	w, _ = a.do(t, http.MethodPost, "/swap-meals", map[string]string{
		"meal1_id": mondayLunch[0].ID.String(),
		"meal2_id": mondayDinner[0].ID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, body = a.do(t, http.MethodPost, "/move-meal", map[string]any{
		"meal_id":         tuesdayLunch[0].ID.String(),
		"target_position": 13,
	})
	require.Equal(t, http.StatusOK, w.Code, body)

	_, body = a.do(t, http.MethodGet, "/weekly", nil)
	assert.Equal(t, "https://example.com/pasta", *weeklyEntries(t, body, plan.Monday, plan.Lunch)[0].Link)
	assert.Equal(t, "https://example.com/tacos", *weeklyEntries(t, body, plan.Monday, plan.Dinner)[0].Link)
	assert.Empty(t, weeklyEntries(t, body, plan.Tuesday, plan.Lunch))
	sunday := weeklyEntries(t, body, plan.Sunday, plan.Dinner)
	require.Len(t, sunday, 1)
	assert.Equal(t, 13, sunday[0].Position)
	assert.Equal(t, "Sunday", sunday[0].DayName)
	assert.Equal(t, "Dinner", sunday[0].MealType)
}

func TestSwapUnknownMeal(t *testing.T) {
	a := newApp(t)
	a.login(t)

	w, body := a.do(t, http.MethodPost, "/swap-meals", map[string]string{
		"meal1_id": "6f1c1d9e-8f0a-4c55-a0ce-6a0f5d7f1a11",
		"meal2_id": "0b8b6a1e-1a7e-4a46-9d0f-7d9b7f3c2e22",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", body["error"].(map[string]any)["code"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	a := newApp(t)
	w, body := a.do(t, http.MethodPost, "/login", map[string]string{"username": "household", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", body["error"].(map[string]any)["code"])
}

func TestUnknownRoute(t *testing.T) {
	a := newApp(t)
	w, body := a.do(t, http.MethodGet, "/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])
}
