package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/internal/apperr"
	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/plan"
)

// MinRecipesTextLength is the shortest recipe text accepted for ingestion.
const MinRecipesTextLength = 10

// ShoppingList is the result of a successful ingestion.
type ShoppingList struct {
	HTML        string        `json:"ingredients_html"`
	Categories  []Category    `json:"categories"`
	LLMTime     float64       `json:"llm_time"`
	LLMDuration time.Duration `json:"-"`
	RecipeCount int           `json:"recipe_count"`
	MealCount   int           `json:"meal_count"`
	GeneratedAt time.Time     `json:"generated_at"`
	ArchiveURL  string        `json:"archive_url,omitempty"`
}

// IngredientServiceConfig holds the optional collaborators and tunables of
// IngredientService.
type IngredientServiceConfig struct {
	Policy     plan.Policy
	LLMTimeout time.Duration
	Cache      ShoppingListCache
	Archive    ShoppingListArchive
}

// IngredientService turns submitted recipes into a weekly plan and a shopping
// list.
type IngredientService struct {
	store     WeeklyStore
	lock      *PlanLock
	llm       TextGenerator
	sanitizer *Sanitizer
	validate  *validator.Validate
	cfg       IngredientServiceConfig
	log       *zap.Logger
}

func NewIngredientService(
	store WeeklyStore,
	lock *PlanLock,
	llm TextGenerator,
	sanitizer *Sanitizer,
	cfg IngredientServiceConfig,
	log *zap.Logger,
) *IngredientService {
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 60 * time.Second
	}
	return &IngredientService{
		store:     store,
		lock:      lock,
		llm:       llm,
		sanitizer: sanitizer,
		validate:  validator.New(),
		cfg:       cfg,
		log:       log.Named("ingredients"),
	}
}

// Ingest replaces the weekly plan with the submitted recipes and asks the
// language model for a categorized shopping list.
func (s *IngredientService) Ingest(ctx context.Context, recipesText, haveAtHome string) (*ShoppingList, error) {
	const op = "ingredients.ingest"

	recipes, assignments, err := s.preparePlan(op, recipesText)
	if err != nil {
		return nil, err
	}
	if s.llm == nil {
		return nil, apperr.ExternalUnavailable(apperr.CodeIngredientsProcessingError, op,
			"Shopping list generation is not configured", nil)
	}
	entries, err := s.storePlan(ctx, op, assignments)
	if err != nil {
		return nil, err
	}

	prompt := BuildShoppingListPrompt(plan.AggregateIngredients(recipes), haveAtHome)

	llmCtx, cancel := context.WithTimeout(ctx, s.cfg.LLMTimeout)
	defer cancel()

	start := time.Now()
	raw, err := s.llm.Generate(llmCtx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		s.log.Error("shopping list generation failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(llmCtx.Err(), context.DeadlineExceeded) {
			return nil, apperr.ExternalUnavailable(apperr.CodeIngredientsProcessingError, op,
				"The shopping list service timed out, please try again", err).
				WithDetail("retryable", true)
		}
		return nil, apperr.External(apperr.CodeIngredientsProcessingError, op,
			"Failed to generate shopping list", err)
	}

	html := s.sanitizer.Sanitize(StripCodeFences(raw))
	categories, err := ExtractCategories(html)
	if err != nil {
		return nil, apperr.Processing(apperr.CodeIngredientsProcessingError, op,
			"Failed to read generated shopping list", err)
	}

	list := &ShoppingList{
		HTML:        html,
		Categories:  categories,
		LLMTime:     math.Round(elapsed.Seconds()*100) / 100,
		LLMDuration: elapsed,
		RecipeCount: len(recipes),
		MealCount:   len(entries),
		GeneratedAt: time.Now().UTC(),
	}

	s.log.Info("generated shopping list",
		zap.Int("recipes", list.RecipeCount),
		zap.Int("meals", list.MealCount),
		zap.Int("categories", len(categories)),
		zap.Duration("llm_time", elapsed))

	if s.cfg.Archive != nil {
		if url, err := s.cfg.Archive.Archive(ctx, list); err != nil {
			s.log.Warn("failed to archive shopping list", zap.Error(err))
		} else {
			list.ArchiveURL = url
		}
	}
	if s.cfg.Cache != nil {
		if err := s.cfg.Cache.Save(ctx, list); err != nil {
			s.log.Warn("failed to cache shopping list", zap.Error(err))
		}
	}

	return list, nil
}

// ImportPlan replaces the weekly plan without generating a shopping list.
func (s *IngredientService) ImportPlan(ctx context.Context, recipesText string) ([]models.MealEntry, error) {
	const op = "ingredients.import"

	_, assignments, err := s.preparePlan(op, recipesText)
	if err != nil {
		return nil, err
	}
	return s.storePlan(ctx, op, assignments)
}

// LatestShoppingList returns the most recently generated list.
func (s *IngredientService) LatestShoppingList(ctx context.Context) (*ShoppingList, error) {
	const op = "ingredients.latest"

	if s.cfg.Cache == nil {
		return nil, apperr.NotFound(apperr.CodeResourceNotFound, op, "No shopping list available")
	}
	list, err := s.cfg.Cache.Latest(ctx)
	if errors.Is(err, ErrNoShoppingList) {
		return nil, apperr.NotFound(apperr.CodeResourceNotFound, op, "No shopping list available")
	}
	if err != nil {
		return nil, apperr.ExternalUnavailable(apperr.CodeIngredientsDBError, op, "Shopping list cache unavailable", err)
	}
	return list, nil
}

// preparePlan validates and parses the text and assigns slots. Nothing is
// persisted.
func (s *IngredientService) preparePlan(op, recipesText string) ([]plan.ParsedRecipe, []plan.Assignment, error) {
	text := strings.TrimSpace(recipesText)
	if len(text) < MinRecipesTextLength {
		return nil, nil, apperr.Validation(apperr.CodeInvalidInput, op,
			"Recipe text must be at least 10 characters").
			WithDetail("min_length", MinRecipesTextLength)
	}

	recipes := plan.ParseRecipes(text)
	if len(recipes) == 0 {
		return nil, nil, apperr.Validation(apperr.CodeInvalidInput, op,
			"No valid recipes found. Start each recipe with '# <url>' followed by '## <ingredient>' lines").
			WithDetail("reason", "no_valid_recipes")
	}

	for _, r := range recipes {
		if err := s.validate.Var(r.URL, "required,http_url"); err != nil {
			return nil, nil, apperr.Validation(apperr.CodeInvalidInput, op,
				"Recipe link must be an absolute http or https URL").
				WithDetail("url", r.URL)
		}
	}

	assignments, err := plan.Assign(recipes, s.cfg.Policy)
	if errors.Is(err, plan.ErrSlotOccupied) {
		return nil, nil, apperr.Validation(apperr.CodeInvalidInput, op,
			"Too many recipes for one week").
			WithDetail("max_recipes", 8).
			WithDetail("recipes", len(recipes))
	}
	if err != nil {
		return nil, nil, apperr.Processing(apperr.CodeIngredientsProcessingError, op, "Failed to assign recipes", err)
	}
	return recipes, assignments, nil
}

// storePlan swaps the stored plan for the new assignments under the plan
// lock. The lock is released before it returns.
func (s *IngredientService) storePlan(ctx context.Context, op string, assignments []plan.Assignment) ([]models.MealEntry, error) {
	var entries []models.MealEntry
	err := s.lock.Do(func() error {
		var err error
		entries, err = s.store.ReplaceAll(ctx, assignments)
		return err
	})
	if err != nil {
		s.log.Error("failed to store weekly plan", zap.Error(err))
		return nil, apperr.Persistence(apperr.CodeIngredientsDBError, op, "Failed to store weekly plan", err)
	}
	return entries, nil
}
