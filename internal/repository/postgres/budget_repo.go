package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// ListByUser retrieves the budgets of a user in creation order
func (r *BudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Budget, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, limit_amount FROM budgets WHERE user_id = $1 ORDER BY id`,
		uuidToPg(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Budget, 0)
	for rows.Next() {
		var (
			category string
			limit    pgtype.Numeric
		)
		if err := rows.Scan(&category, &limit); err != nil {
			return nil, err
		}
		result = append(result, domain.Budget{
			Category: domain.Category(category),
			Limit:    pgNumericToDecimal(limit),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Upsert sets the limit of a category, creating the budget when absent
func (r *BudgetRepository) Upsert(ctx context.Context, userID uuid.UUID, category domain.Category, limit decimal.Decimal) error {
	amount, err := decimalToPgNumeric(limit)
	if err != nil {
		return fmt.Errorf("invalid limit: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO budgets (user_id, category, limit_amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, category) DO UPDATE SET
			limit_amount = EXCLUDED.limit_amount,
			updated_at = NOW()`,
		uuidToPg(userID), string(category), amount,
	)
	return err
}
