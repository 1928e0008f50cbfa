package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is a monthly spending limit for one expense category
type Budget struct {
	Category Category        `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
}

// DefaultBudgets returns the budgets seeded for a user that has none
func DefaultBudgets() []Budget {
	return []Budget{
		{Category: CategoryRent, Limit: decimal.NewFromInt(40000)},
		{Category: CategoryFood, Limit: decimal.NewFromInt(15000)},
		{Category: CategoryTransport, Limit: decimal.NewFromInt(8000)},
		{Category: CategoryUtilities, Limit: decimal.NewFromInt(10000)},
		{Category: CategoryEntertainment, Limit: decimal.NewFromInt(5000)},
	}
}

// BudgetRepository is the persistence collaborator for budgets.
// Upsert is keyed by (userID, category).
type BudgetRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Budget, error)
	Upsert(ctx context.Context, userID uuid.UUID, category Category, limit decimal.Decimal) error
}
