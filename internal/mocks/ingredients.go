package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/mealplanner/backend/internal/service"
)

// MockIngredientService is a mock implementation of the IIngredientService interface
type MockIngredientService struct {
	mock.Mock
}

func (m *MockIngredientService) Ingest(ctx context.Context, recipesText, haveAtHome string) (*service.ShoppingList, error) {
	args := m.Called(ctx, recipesText, haveAtHome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShoppingList), args.Error(1)
}

func (m *MockIngredientService) LatestShoppingList(ctx context.Context) (*service.ShoppingList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShoppingList), args.Error(1)
}
