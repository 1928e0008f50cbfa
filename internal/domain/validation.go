package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// MoneyScale is the number of decimal places stored for amounts and limits
	MoneyScale = 2

	// minMoneyExponent bounds trailing zeros such as "12.5000"; anything finer is rejected unread
	minMoneyExponent = -18
	maxMoneyExponent = 13
)

// maxMoney is the first value that no longer fits NUMERIC(15,2)
var maxMoney = decimal.New(1, 13)

// ValidMoney reports whether d is non-negative, has at most two decimal places
// and fits NUMERIC(15,2). The exponent is checked before any arithmetic,
// so inputs like "1e50000000" are rejected without being expanded.
func ValidMoney(d decimal.Decimal) bool {
	if d.IsNegative() {
		return false
	}
	exp := d.Exponent()
	if exp < minMoneyExponent || exp > maxMoneyExponent {
		return false
	}
	if exp < -MoneyScale && !d.Equal(d.Truncate(MoneyScale)) {
		return false
	}
	return d.LessThan(maxMoney)
}

// Validate checks a new transaction and returns it normalized:
// the description is trimmed and the date reduced to its calendar day.
func (in NewTransactionInput) Validate() (NewTransactionInput, error) {
	if !in.Type.IsValid() {
		return in, NewValidationError("type", ErrInvalidTransactionType)
	}
	if !ValidMoney(in.Amount) {
		return in, NewValidationError("amount", ErrInvalidAmount)
	}
	if !IsValidCategory(in.Type, in.Category) {
		return in, NewValidationError("category", ErrInvalidCategory)
	}

	if !utf8.ValidString(in.Description) {
		return in, NewValidationError("description", ErrInvalidDescription)
	}
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return in, NewValidationError("description", ErrDescriptionRequired)
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return in, NewValidationError("description", ErrDescriptionTooLong)
	}

	if in.Date.IsZero() {
		return in, NewValidationError("date", ErrDateRequired)
	}
	in.Date = time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, time.UTC)
	in.Amount = in.Amount.Truncate(MoneyScale)
	return in, nil
}

// ValidateBudget checks that category is an expense category and limit is a storable amount
func ValidateBudget(category Category, limit decimal.Decimal) error {
	if !IsValidCategory(TransactionTypeExpense, category) {
		return NewValidationError("category", ErrInvalidCategory)
	}
	if !ValidMoney(limit) {
		return NewValidationError("limit", ErrInvalidBudgetLimit)
	}
	return nil
}
