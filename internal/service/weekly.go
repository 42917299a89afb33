package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/internal/apperr"
	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/plan"
	"github.com/pageza/mealplanner/backend/internal/repository"
)

// PlanLock serializes writes to the weekly plan within this process.
type PlanLock struct {
	mu sync.Mutex
}

// Do runs fn while holding the lock.
func (l *PlanLock) Do(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}

// WeeklyPlanView groups entries by day and meal. Every day and meal is
// present even when empty.
type WeeklyPlanView map[plan.Day]map[plan.MealType][]models.MealEntry

// NewEmptyWeeklyPlanView returns a view with all 7 days and both meals.
func NewEmptyWeeklyPlanView() WeeklyPlanView {
	view := make(WeeklyPlanView, 7)
	for _, d := range plan.Days() {
		meals := make(map[plan.MealType][]models.MealEntry, 2)
		for _, m := range plan.MealTypes() {
			meals[m] = []models.MealEntry{}
		}
		view[d] = meals
	}
	return view
}

// WeeklyService reads and rearranges the weekly plan.
type WeeklyService struct {
	store  WeeklyStore
	lock   *PlanLock
	policy plan.Policy
	log    *zap.Logger
}

func NewWeeklyService(store WeeklyStore, lock *PlanLock, policy plan.Policy, log *zap.Logger) *WeeklyService {
	return &WeeklyService{
		store:  store,
		lock:   lock,
		policy: policy,
		log:    log.Named("weekly"),
	}
}

// GetWeeklyMealPlan loads every entry and places it in its day and meal.
func (s *WeeklyService) GetWeeklyMealPlan(ctx context.Context) (WeeklyPlanView, error) {
	const op = "weekly.read"

	entries, err := s.store.FetchAll(ctx)
	if err != nil {
		s.log.Error("failed to load weekly plan", zap.Error(err))
		return nil, apperr.Persistence(apperr.CodeWeeklyLoadError, op, "Failed to load weekly meal plan", err)
	}

	view := NewEmptyWeeklyPlanView()
	for _, e := range entries {
		day, meal, err := plan.SlotToDayMeal(e.Position)
		if err != nil {
			s.log.Warn("skipping entry with unknown position",
				zap.String("id", e.ID.String()), zap.Int("position", e.Position))
			continue
		}
		view[day][meal] = append(view[day][meal], e)
	}
	return view, nil
}

// SwapMeals exchanges the slots of two entries atomically.
func (s *WeeklyService) SwapMeals(ctx context.Context, meal1ID, meal2ID string) error {
	const op = "weekly.swap"

	if strings.TrimSpace(meal1ID) == "" || strings.TrimSpace(meal2ID) == "" {
		return apperr.Validation(apperr.CodeInvalidInput, op, "Both meal1_id and meal2_id are required")
	}
	a, err := parseMealID(op, meal1ID)
	if err != nil {
		return err
	}
	b, err := parseMealID(op, meal2ID)
	if err != nil {
		return err
	}

	var posA, posB int
	err = s.lock.Do(func() error {
		var err error
		posA, posB, err = s.store.SwapPositions(ctx, a, b)
		return err
	})
	if err != nil {
		if nf := notFound(op, err); nf != nil {
			return nf
		}
		s.log.Error("failed to swap meals", zap.String("meal1_id", meal1ID), zap.String("meal2_id", meal2ID), zap.Error(err))
		return apperr.Persistence(apperr.CodeWeeklySwapError, op, "Failed to swap meals", err).
			WithDetail("meal1_id", meal1ID).
			WithDetail("meal2_id", meal2ID)
	}

	s.log.Info("swapped meals",
		zap.String("meal1_id", meal1ID), zap.Int("from", posA), zap.Int("to", posB),
		zap.String("meal2_id", meal2ID))
	return nil
}

// MoveMeal places one entry at target. Unless the policy allows overwrite, a
// target held by another entry is rejected.
func (s *WeeklyService) MoveMeal(ctx context.Context, mealID string, target int) error {
	const op = "weekly.move"

	if strings.TrimSpace(mealID) == "" {
		return apperr.Validation(apperr.CodeInvalidInput, op, "meal_id is required")
	}
	if !plan.ValidSlot(target) {
		return apperr.Validation(apperr.CodeInvalidInput, op,
			fmt.Sprintf("target_position must be between 0 and %d", plan.SlotCount-1)).
			WithDetail("target_position", target)
	}
	id, err := parseMealID(op, mealID)
	if err != nil {
		return err
	}

	var from int
	err = s.lock.Do(func() error {
		var err error
		if from, err = s.store.FetchPosition(ctx, id); err != nil {
			return err
		}
		if !s.policy.AllowOverwrite {
			occupants, err := s.store.OccupiedBy(ctx, target, id)
			if err != nil {
				return err
			}
			if len(occupants) > 0 {
				return apperr.Validation(apperr.CodeWeeklyMoveError, op, "Target position is already occupied").
					WithDetail("target_position", target)
			}
		}
		return s.store.UpdatePosition(ctx, id, target)
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		if nf := notFound(op, err); nf != nil {
			return nf
		}
		s.log.Error("failed to move meal", zap.String("meal_id", mealID), zap.Int("target", target), zap.Error(err))
		return apperr.Persistence(apperr.CodeWeeklyMoveError, op, "Failed to move meal", err).
			WithDetail("meal_id", mealID).
			WithDetail("target_position", target)
	}

	s.log.Info("moved meal", zap.String("meal_id", mealID), zap.Int("from", from), zap.Int("to", target))
	return nil
}

func parseMealID(op, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperr.Validation(apperr.CodeInvalidInput, op, "Meal id is not valid").
			WithDetail("meal_id", raw)
	}
	return id, nil
}

func notFound(op string, err error) *apperr.Error {
	var nf *repository.NotFoundError
	if !errors.As(err, &nf) {
		return nil
	}
	return apperr.NotFound(apperr.CodeResourceNotFound, op, fmt.Sprintf("Meal with ID %s not found", nf.ID)).
		WithDetail("meal_id", nf.ID.String())
}
