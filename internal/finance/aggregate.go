// Package finance derives totals, monthly series, category breakdowns and
// budget signals from in-memory transactions and budgets.
//
// Every function is pure: the result depends only on the arguments, and
// "the current month" is always passed in as now.
package finance

import (
	"sort"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateTotals sums all-time income and expenses
func CalculateTotals(transactions []*domain.Transaction) domain.Totals {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(t.Amount)
		case domain.TransactionTypeExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return domain.Totals{
		Income:   income,
		Expenses: expenses,
		NetWorth: income.Sub(expenses),
	}
}

// SavingsRate returns net worth as a percentage of income, or zero without income
func SavingsRate(totals domain.Totals) decimal.Decimal {
	if !totals.Income.IsPositive() {
		return decimal.Zero
	}
	return totals.NetWorth.Div(totals.Income).Mul(hundred)
}

// MonthlyData groups transactions by calendar month in ascending order and
// carries a running net worth. Months without transactions are omitted.
func MonthlyData(transactions []*domain.Transaction) []domain.MonthlyData {
	type bucket struct {
		income   decimal.Decimal
		expenses decimal.Decimal
	}

	buckets := make(map[util.YearMonth]*bucket)
	months := make([]util.YearMonth, 0)
	for _, t := range transactions {
		ym := util.YearMonthOf(t.Date)
		b, ok := buckets[ym]
		if !ok {
			b = &bucket{income: decimal.Zero, expenses: decimal.Zero}
			buckets[ym] = b
			months = append(months, ym)
		}
		switch t.Type {
		case domain.TransactionTypeIncome:
			b.income = b.income.Add(t.Amount)
		case domain.TransactionTypeExpense:
			b.expenses = b.expenses.Add(t.Amount)
		}
	}

	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})

	result := make([]domain.MonthlyData, 0, len(months))
	cumulative := decimal.Zero
	for _, ym := range months {
		b := buckets[ym]
		cumulative = cumulative.Add(b.income).Sub(b.expenses)
		result = append(result, domain.MonthlyData{
			Key:      ym.Key(),
			Month:    ym.Label(),
			Income:   b.income,
			Expenses: b.expenses,
			NetWorth: cumulative,
		})
	}
	return result
}

// CategoryTotals sums transactions of txType per registry category, keeping
// registry order and dropping categories whose total is not positive
func CategoryTotals(transactions []*domain.Transaction, txType domain.TransactionType) []domain.CategoryTotal {
	sums := make(map[domain.Category]decimal.Decimal)
	for _, t := range transactions {
		if t.Type != txType {
			continue
		}
		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}

	result := make([]domain.CategoryTotal, 0)
	for _, d := range domain.CategoriesFor(txType) {
		total, ok := sums[d.Value]
		if !ok || !total.IsPositive() {
			continue
		}
		result = append(result, domain.CategoryTotal{
			CategoryDescriptor: d,
			Total:              total,
		})
	}
	return result
}

// RecentTransactions returns up to n transactions sorted by date descending.
// Transactions on the same date keep their input order.
func RecentTransactions(transactions []*domain.Transaction, n int) []*domain.Transaction {
	sorted := make([]*domain.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
