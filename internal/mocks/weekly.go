package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/mealplanner/backend/internal/service"
)

// MockWeeklyService is a mock implementation of the IWeeklyService interface
type MockWeeklyService struct {
	mock.Mock
}

func (m *MockWeeklyService) GetWeeklyMealPlan(ctx context.Context) (service.WeeklyPlanView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.WeeklyPlanView), args.Error(1)
}

func (m *MockWeeklyService) SwapMeals(ctx context.Context, meal1ID, meal2ID string) error {
	return m.Called(ctx, meal1ID, meal2ID).Error(0)
}

func (m *MockWeeklyService) MoveMeal(ctx context.Context, mealID string, target int) error {
	return m.Called(ctx, mealID, target).Error(0)
}
