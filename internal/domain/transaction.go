package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is one of the known transaction types
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Validation constants
const (
	MaxDescriptionLength = 255
	DateLayout           = "2006-01-02"
)

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewTransactionInput holds the user supplied fields of a transaction.
// The id is assigned by persistence.
type NewTransactionInput struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Category    Category
	Description string
	Date        time.Time
}

// TransactionRepository is the persistence collaborator for transactions
type TransactionRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)
	Create(ctx context.Context, userID uuid.UUID, input NewTransactionInput) (*Transaction, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
}
