package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/config"
	"github.com/pageza/mealplanner/backend/internal/api"
	"github.com/pageza/mealplanner/backend/internal/middleware"
	"github.com/pageza/mealplanner/backend/internal/service"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Config      *config.Config
	Log         *zap.Logger
	Redis       *redis.Client
	Health      api.Pinger
	Auth        service.IAuthService
	Weekly      service.IWeeklyService
	Ingredients service.IIngredientService
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg, log := deps.Config, deps.Log

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log.Named("http")),
		middleware.SecurityHeaders(cfg.Environment == config.Production),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.NewGeneralRateLimiter(deps.Redis, log).RateLimitMiddleware(),
	)
	router.NoRoute(api.NotFoundHandler(log))
	router.NoMethod(api.MethodNotAllowedHandler(log))

	public := router.Group("")
	api.NewHealthHandler(deps.Health, log).RegisterRoutes(public)
	api.NewAuthHandler(deps.Auth, api.CookieSettings{
		Name:   cfg.CookieName,
		MaxAge: cfg.CookieMaxAge,
		Secure: cfg.IsSecureCookie(),
	}, log).RegisterRoutes(public, middleware.NewLoginRateLimiter(deps.Redis, log).RateLimitMiddleware())

	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Auth, cfg.CookieName, log))
	api.NewWeeklyHandler(deps.Weekly, log).RegisterRoutes(protected)
	api.NewIngredientsHandler(deps.Ingredients, log).RegisterRoutes(protected)

	return router
}
