package finance

import (
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/shopspring/decimal"
)

// CurrentMonthExpenses sums expenses per category for the calendar month of now
func CurrentMonthExpenses(transactions []*domain.Transaction, now time.Time) map[domain.Category]decimal.Decimal {
	current := util.YearMonthOf(now)
	spent := make(map[domain.Category]decimal.Decimal)
	for _, t := range transactions {
		if t.Type != domain.TransactionTypeExpense {
			continue
		}
		if util.YearMonthOf(t.Date) != current {
			continue
		}
		spent[t.Category] = spent[t.Category].Add(t.Amount)
	}
	return spent
}

// Percentage returns spent as a percentage of limit, or zero when limit is not positive
func Percentage(spent, limit decimal.Decimal) decimal.Decimal {
	if !limit.IsPositive() {
		return decimal.Zero
	}
	return spent.Mul(hundred).Div(limit)
}

// CheckBudgetAlerts returns the budgets whose current month spending reached
// the warning threshold, in budget order
func CheckBudgetAlerts(transactions []*domain.Transaction, budgets []domain.Budget, now time.Time) []domain.BudgetAlert {
	spent := CurrentMonthExpenses(transactions, now)

	alerts := make([]domain.BudgetAlert, 0)
	for _, b := range budgets {
		s := spent[b.Category]
		pct := Percentage(s, b.Limit)
		if pct.LessThan(domain.BudgetWarningThreshold) {
			continue
		}
		alerts = append(alerts, domain.BudgetAlert{
			Category:   b.Category,
			Spent:      s,
			Limit:      b.Limit,
			Percentage: pct,
		})
	}
	return alerts
}

// BudgetProgress reports current month usage for every budget with a positive limit
func BudgetProgress(transactions []*domain.Transaction, budgets []domain.Budget, now time.Time) []domain.BudgetStatus {
	spent := CurrentMonthExpenses(transactions, now)

	result := make([]domain.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		if !b.Limit.IsPositive() {
			continue
		}
		s := spent[b.Category]
		pct := Percentage(s, b.Limit)
		result = append(result, domain.BudgetStatus{
			CategoryDescriptor: domain.ExpenseDescriptor(b.Category),
			Spent:              s,
			Limit:              b.Limit,
			Percentage:         pct,
			Remaining:          decimal.Max(decimal.Zero, b.Limit.Sub(s)),
			OverBy:             decimal.Max(decimal.Zero, s.Sub(b.Limit)),
			Status:             domain.LevelFor(pct),
		})
	}
	return result
}
