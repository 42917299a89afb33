package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/plan"
	"github.com/pageza/mealplanner/backend/internal/types"
)

// WeeklyStore is the persistence contract for the weekly plan.
type WeeklyStore interface {
	FetchAll(ctx context.Context) ([]models.MealEntry, error)
	FetchPosition(ctx context.Context, id uuid.UUID) (int, error)
	OccupiedBy(ctx context.Context, slot int, exclude uuid.UUID) ([]uuid.UUID, error)
	UpdatePosition(ctx context.Context, id uuid.UUID, slot int) error
	SwapPositions(ctx context.Context, a, b uuid.UUID) (int, int, error)
	ReplaceAll(ctx context.Context, assignments []plan.Assignment) ([]models.MealEntry, error)
}

// TextGenerator sends a prompt to a language model and returns its text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ShoppingListCache keeps the most recent shopping list.
type ShoppingListCache interface {
	Save(ctx context.Context, list *ShoppingList) error
	Latest(ctx context.Context) (*ShoppingList, error)
}

// ShoppingListArchive stores generated shopping lists and returns a link.
type ShoppingListArchive interface {
	Archive(ctx context.Context, list *ShoppingList) (string, error)
}

// IWeeklyService defines the weekly plan operations used by handlers
type IWeeklyService interface {
	GetWeeklyMealPlan(ctx context.Context) (WeeklyPlanView, error)
	SwapMeals(ctx context.Context, meal1ID, meal2ID string) error
	MoveMeal(ctx context.Context, mealID string, target int) error
}

// IIngredientService defines the recipe ingestion operations used by handlers
type IIngredientService interface {
	Ingest(ctx context.Context, recipesText, haveAtHome string) (*ShoppingList, error)
	LatestShoppingList(ctx context.Context) (*ShoppingList, error)
}

// IAuthService defines the session operations used by handlers and middleware
type IAuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}
