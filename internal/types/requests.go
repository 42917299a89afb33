package types

import "strings"

// IngredientsRequest is the body of POST /ingredients.
type IngredientsRequest struct {
	RecipesText string  `json:"recipes_text" binding:"required"`
	HaveAtHome  *string `json:"have_at_home"`
}

// Normalize trims the recipe text and drops a blank exclusion list.
func (r *IngredientsRequest) Normalize() {
	r.RecipesText = strings.TrimSpace(r.RecipesText)
	if r.HaveAtHome != nil {
		trimmed := strings.TrimSpace(*r.HaveAtHome)
		if trimmed == "" {
			r.HaveAtHome = nil
		} else {
			r.HaveAtHome = &trimmed
		}
	}
}

// Exclusions returns the have-at-home text or an empty string.
func (r *IngredientsRequest) Exclusions() string {
	if r.HaveAtHome == nil {
		return ""
	}
	return *r.HaveAtHome
}

// SwapMealsRequest is the body of POST /swap-meals.
type SwapMealsRequest struct {
	Meal1ID string `json:"meal1_id" binding:"required"`
	Meal2ID string `json:"meal2_id" binding:"required"`
}

// MoveMealRequest is the body of POST /move-meal.
type MoveMealRequest struct {
	MealID         string `json:"meal_id" binding:"required"`
	TargetPosition *int   `json:"target_position" binding:"required,min=0,max=13"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
