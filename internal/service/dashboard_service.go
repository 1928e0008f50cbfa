package service

import (
	"context"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/finance"
	"github.com/google/uuid"
)

// DashboardService derives the read-only views of a user's finances
type DashboardService struct {
	sessions *SessionManager
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(sessions *SessionManager) *DashboardService {
	return &DashboardService{sessions: sessions}
}

// GetDashboard returns every derived view in one response
func (s *DashboardService) GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error) {
	state, err := s.sessions.State(ctx, userID)
	if err != nil {
		return nil, err
	}

	transactions, budgets := state.Snapshot()
	now := state.Now()
	totals := finance.CalculateTotals(transactions)

	return &domain.Dashboard{
		Totals:             totals,
		SavingsRate:        finance.SavingsRate(totals),
		Monthly:            finance.MonthlyData(transactions),
		ExpenseBreakdown:   finance.CategoryTotals(transactions, domain.TransactionTypeExpense),
		IncomeBreakdown:    finance.CategoryTotals(transactions, domain.TransactionTypeIncome),
		BudgetProgress:     finance.BudgetProgress(transactions, budgets, now),
		Alerts:             finance.CheckBudgetAlerts(transactions, budgets, now),
		RecentTransactions: finance.RecentTransactions(transactions, domain.RecentTransactionsLimit),
	}, nil
}

// GetMonthly returns the monthly income, expense and cumulative net worth series
func (s *DashboardService) GetMonthly(ctx context.Context, userID uuid.UUID) ([]domain.MonthlyData, error) {
	state, err := s.sessions.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	return finance.MonthlyData(state.Transactions()), nil
}

// GetCategoryTotals returns per-category totals of one transaction type
func (s *DashboardService) GetCategoryTotals(ctx context.Context, userID uuid.UUID, txType domain.TransactionType) ([]domain.CategoryTotal, error) {
	if !txType.IsValid() {
		return nil, domain.NewValidationError("type", domain.ErrInvalidTransactionType)
	}
	state, err := s.sessions.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	return finance.CategoryTotals(state.Transactions(), txType), nil
}

// GetBudgetProgress returns the current month progress of every budget
func (s *DashboardService) GetBudgetProgress(ctx context.Context, userID uuid.UUID) ([]domain.BudgetStatus, error) {
	state, err := s.sessions.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	transactions, budgets := state.Snapshot()
	return finance.BudgetProgress(transactions, budgets, state.Now()), nil
}

// GetBudgetAlerts returns the budgets at or above the warning threshold this month
func (s *DashboardService) GetBudgetAlerts(ctx context.Context, userID uuid.UUID) ([]domain.BudgetAlert, error) {
	state, err := s.sessions.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	transactions, budgets := state.Snapshot()
	return finance.CheckBudgetAlerts(transactions, budgets, state.Now()), nil
}
