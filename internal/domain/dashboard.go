package domain

import "github.com/shopspring/decimal"

// Totals holds all-time income, expenses and their difference
type Totals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	NetWorth decimal.Decimal `json:"netWorth"`
}

// MonthlyData is one point of the monthly series.
// NetWorth is cumulative up to and including this month.
type MonthlyData struct {
	Key      string          `json:"key"`
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	NetWorth decimal.Decimal `json:"netWorth"`
}

// CategoryTotal is the summed amount of one category
type CategoryTotal struct {
	CategoryDescriptor
	Total decimal.Decimal `json:"total"`
}

// BudgetAlert signals that current month spending reached 80% of a budget
type BudgetAlert struct {
	Category   Category        `json:"category"`
	Spent      decimal.Decimal `json:"spent"`
	Limit      decimal.Decimal `json:"limit"`
	Percentage decimal.Decimal `json:"percentage"`
}

// BudgetLevel classifies budget usage
type BudgetLevel string

const (
	BudgetLevelOK       BudgetLevel = "ok"
	BudgetLevelWarning  BudgetLevel = "warning"
	BudgetLevelExceeded BudgetLevel = "exceeded"
)

// Budget usage thresholds in percent, both inclusive
var (
	BudgetWarningThreshold  = decimal.NewFromInt(80)
	BudgetExceededThreshold = decimal.NewFromInt(100)
)

// LevelFor classifies a usage percentage
func LevelFor(percentage decimal.Decimal) BudgetLevel {
	switch {
	case percentage.GreaterThanOrEqual(BudgetExceededThreshold):
		return BudgetLevelExceeded
	case percentage.GreaterThanOrEqual(BudgetWarningThreshold):
		return BudgetLevelWarning
	default:
		return BudgetLevelOK
	}
}

// BudgetStatus is the progress of one budget in the current month
type BudgetStatus struct {
	CategoryDescriptor
	Spent      decimal.Decimal `json:"spent"`
	Limit      decimal.Decimal `json:"limit"`
	Percentage decimal.Decimal `json:"percentage"`
	Remaining  decimal.Decimal `json:"remaining"`
	OverBy     decimal.Decimal `json:"overBy"`
	Status     BudgetLevel     `json:"status"`
}

// Dashboard contains every derived view of a user's finances
type Dashboard struct {
	Totals             Totals          `json:"totals"`
	SavingsRate        decimal.Decimal `json:"savingsRate"`
	Monthly            []MonthlyData   `json:"monthly"`
	ExpenseBreakdown   []CategoryTotal `json:"expenseBreakdown"`
	IncomeBreakdown    []CategoryTotal `json:"incomeBreakdown"`
	BudgetProgress     []BudgetStatus  `json:"budgetProgress"`
	Alerts             []BudgetAlert   `json:"alerts"`
	RecentTransactions []*Transaction  `json:"recentTransactions"`
}

// RecentTransactionsLimit is the number of transactions shown on the dashboard
const RecentTransactionsLimit = 10
