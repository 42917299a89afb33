// Package app assembles the services shared by the API server and plannerctl.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/mealplanner/backend/config"
	"github.com/pageza/mealplanner/backend/internal/database"
	"github.com/pageza/mealplanner/backend/internal/plan"
	"github.com/pageza/mealplanner/backend/internal/repository"
	"github.com/pageza/mealplanner/backend/internal/router"
	"github.com/pageza/mealplanner/backend/internal/service"
)

const (
	shoppingListTTL   = 24 * time.Hour
	archiveLinkExpiry = 7 * 24 * time.Hour
)

// App holds the wired services and the connections they own.
type App struct {
	Config      *config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	Redis       *redis.Client
	Weekly      *repository.WeeklyRepository
	WeeklySvc   *service.WeeklyService
	Ingredients *service.IngredientService
	Auth        *service.AuthService
}

// New opens the database, runs migrations and builds every service. Redis,
// the language model and the S3 archive are optional.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.HealthCheck(ctx, db); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}
	if err := database.RunMigrations(ctx, db, log); err != nil {
		return nil, err
	}

	rdb, err := database.NewRedisClient(cfg, log)
	if err != nil {
		log.Warn("continuing without redis", zap.Error(err))
		rdb = nil
	}

	var llm service.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gen, err := service.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		llm = gen
	} else {
		log.Warn("GEMINI_API_KEY not set, shopping list generation disabled")
	}

	ingredientCfg := service.IngredientServiceConfig{
		Policy:     plan.Policy{AllowOverwrite: cfg.AllowOverwrite},
		LLMTimeout: cfg.LLMTimeout,
	}
	if rdb != nil {
		ingredientCfg.Cache = service.NewRedisShoppingListCache(rdb, shoppingListTTL)
	}

	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Warn("continuing without shopping list archive", zap.Error(err))
	} else if s3Cfg != nil {
		ingredientCfg.Archive = service.NewS3Archive(s3Cfg, archiveLinkExpiry)
	}

	repo := repository.NewWeeklyRepository(db)
	lock := &service.PlanLock{}

	return &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		Redis:       rdb,
		Weekly:      repo,
		WeeklySvc:   service.NewWeeklyService(repo, lock, ingredientCfg.Policy, log),
		Ingredients: service.NewIngredientService(repo, lock, llm, service.NewSanitizer(), ingredientCfg, log),
		Auth:        service.NewAuthService(cfg.AppUsername, cfg.AppPasswordHash, cfg.AuthTokenKey,
			time.Duration(cfg.CookieMaxAge)*time.Second),
	}, nil
}

// RouterDependencies exposes the services to the HTTP layer.
func (a *App) RouterDependencies() router.Dependencies {
	return router.Dependencies{
		Config:      a.Config,
		Log:         a.Log,
		Redis:       a.Redis,
		Health:      a.Weekly,
		Auth:        a.Auth,
		Weekly:      a.WeeklySvc,
		Ingredients: a.Ingredients,
	}
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	} else {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
