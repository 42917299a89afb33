package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/internal/service"
	"github.com/pageza/mealplanner/backend/internal/types"
)

// WeeklyHandler serves the weekly plan and its rearrangement.
type WeeklyHandler struct {
	weekly service.IWeeklyService
	log    *zap.Logger
}

func NewWeeklyHandler(weekly service.IWeeklyService, log *zap.Logger) *WeeklyHandler {
	return &WeeklyHandler{weekly: weekly, log: log.Named("weekly_handler")}
}

func (h *WeeklyHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/weekly", h.GetWeekly)
	router.POST("/swap-meals", h.SwapMeals)
	router.POST("/move-meal", h.MoveMeal)
}

func (h *WeeklyHandler) GetWeekly(c *gin.Context) {
	view, err := h.weekly.GetWeeklyMealPlan(c.Request.Context())
	if err != nil {
		Error(c, h.log, err)
		return
	}
	Success(c, http.StatusOK, view, nil)
}

func (h *WeeklyHandler) SwapMeals(c *gin.Context) {
	var req types.SwapMealsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, h.log, bindError("weekly.swap", err))
		return
	}

	if err := h.weekly.SwapMeals(c.Request.Context(), req.Meal1ID, req.Meal2ID); err != nil {
		Error(c, h.log, err)
		return
	}
	Success(c, http.StatusOK, nil, nil)
}

func (h *WeeklyHandler) MoveMeal(c *gin.Context) {
	var req types.MoveMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, h.log, bindError("weekly.move", err))
		return
	}

	if err := h.weekly.MoveMeal(c.Request.Context(), req.MealID, *req.TargetPosition); err != nil {
		Error(c, h.log, err)
		return
	}
	Success(c, http.StatusOK, nil, nil)
}
