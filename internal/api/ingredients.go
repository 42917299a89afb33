package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/types"
)

// IngredientsHandler serves recipe submission and the resulting shopping list.
type IngredientsHandler struct {
	ingredients service.IIngredientService
	log         *zap.Logger
}

func NewIngredientsHandler(ingredients service.IIngredientService, log *zap.Logger) *IngredientsHandler {
	return &IngredientsHandler{ingredients: ingredients, log: log.Named("ingredients_handler")}
}

func (h *IngredientsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/ingredients", h.SubmitIngredients)
	router.GET("/shopping-list", h.GetShoppingList)
}

// SubmitIngredients replaces the weekly plan and returns a shopping list.
func (h *IngredientsHandler) SubmitIngredients(c *gin.Context) {
	var req types.IngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, h.log, bindError("ingredients.submit", err))
		return
	}
	req.Normalize()

	list, err := h.ingredients.Ingest(c.Request.Context(), req.RecipesText, req.Exclusions())
	if err != nil {
		Error(c, h.log, err)
		return
	}

	var meta map[string]any
	if list.ArchiveURL != "" {
		meta = map[string]any{"archive_url": list.ArchiveURL}
	}
	Success(c, http.StatusOK, list, meta)
}

// GetShoppingList returns the most recently generated shopping list.
func (h *IngredientsHandler) GetShoppingList(c *gin.Context) {
	list, err := h.ingredients.LatestShoppingList(c.Request.Context())
	if err != nil {
		Error(c, h.log, err)
		return
	}
	Success(c, http.StatusOK, list, nil)
}
