package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetDashboard(t *testing.T) {
	sessions, txRepo, budgetRepo := newTestSessions(t)
	userID := uuid.New()
	budgetRepo.SetBudgets(userID, foodBudget(500))
	txRepo.AddTransaction(userID, &domain.Transaction{
		Type: domain.TransactionTypeIncome, Amount: decimal.NewFromInt(5000),
		Category: domain.CategorySalary, Description: "Pay", Date: testNow,
	})
	txRepo.AddTransaction(userID, &domain.Transaction{
		Type: domain.TransactionTypeExpense, Amount: decimal.NewFromInt(450),
		Category: domain.CategoryFood, Description: "Groceries", Date: testNow,
	})
	txRepo.AddTransaction(userID, &domain.Transaction{
		Type: domain.TransactionTypeExpense, Amount: decimal.NewFromInt(1000),
		Category: domain.CategoryRent, Description: "December rent",
		Date: time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
	})
	service := NewDashboardService(sessions)

	dashboard, err := service.GetDashboard(context.Background(), userID)
	require.NoError(t, err)

	assert.True(t, dashboard.Totals.Income.Equal(decimal.NewFromInt(5000)))
	assert.True(t, dashboard.Totals.Expenses.Equal(decimal.NewFromInt(1450)))
	assert.True(t, dashboard.Totals.NetWorth.Equal(decimal.NewFromInt(3550)))
	assert.True(t, dashboard.SavingsRate.Equal(decimal.NewFromInt(71)))
	require.Len(t, dashboard.Monthly, 2)
	assert.Equal(t, "Dec 23", dashboard.Monthly[0].Month)
	assert.Equal(t, "Jan 24", dashboard.Monthly[1].Month)
	assert.Len(t, dashboard.ExpenseBreakdown, 2)
	assert.Len(t, dashboard.IncomeBreakdown, 1)
	require.Len(t, dashboard.BudgetProgress, 1)
	assert.Equal(t, domain.BudgetLevelWarning, dashboard.BudgetProgress[0].Status)
	require.Len(t, dashboard.Alerts, 1)
	assert.Equal(t, domain.CategoryFood, dashboard.Alerts[0].Category)
	assert.Len(t, dashboard.RecentTransactions, 3)
}

func TestDashboardService_GetDashboard_LoadFailure(t *testing.T) {
	sessions, txRepo, _ := newTestSessions(t)
	txRepo.ListFn = func(uuid.UUID) ([]*domain.Transaction, error) {
		return nil, errors.New("connection refused")
	}
	service := NewDashboardService(sessions)

	_, err := service.GetDashboard(context.Background(), uuid.New())

	assert.True(t, domain.IsPersistenceError(err))
}

func TestDashboardService_GetCategoryTotals(t *testing.T) {
	sessions, txRepo, _ := newTestSessions(t)
	userID := uuid.New()
	txRepo.AddTransaction(userID, &domain.Transaction{
		Type: domain.TransactionTypeIncome, Amount: decimal.NewFromInt(200),
		Category: domain.CategoryFreelance, Description: "Gig", Date: testNow,
	})
	service := NewDashboardService(sessions)

	income, err := service.GetCategoryTotals(context.Background(), userID, domain.TransactionTypeIncome)
	require.NoError(t, err)
	require.Len(t, income, 1)
	assert.Equal(t, "Freelance", income[0].Label)

	expenses, err := service.GetCategoryTotals(context.Background(), userID, domain.TransactionTypeExpense)
	require.NoError(t, err)
	assert.Empty(t, expenses)

	_, err = service.GetCategoryTotals(context.Background(), userID, domain.TransactionType("transfer"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionType)
}

func TestDashboardService_BudgetViews(t *testing.T) {
	sessions, txRepo, budgetRepo := newTestSessions(t)
	userID := uuid.New()
	budgetRepo.SetBudgets(userID, foodBudget(500), domain.Budget{Category: domain.CategoryTransport, Limit: decimal.NewFromInt(100)})
	txRepo.AddTransaction(userID, &domain.Transaction{
		Type: domain.TransactionTypeExpense, Amount: decimal.NewFromInt(120),
		Category: domain.CategoryTransport, Description: "Taxi", Date: testNow,
	})
	service := NewDashboardService(sessions)

	progress, err := service.GetBudgetProgress(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.Equal(t, domain.BudgetLevelOK, progress[0].Status)
	assert.Equal(t, domain.BudgetLevelExceeded, progress[1].Status)

	alerts, err := service.GetBudgetAlerts(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.CategoryTransport, alerts[0].Category)

	monthly, err := service.GetMonthly(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, monthly, 1)
}
