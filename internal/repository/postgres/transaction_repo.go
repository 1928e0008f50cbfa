package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, user_id, type, amount, category, description, date, created_at`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// ListByUser retrieves every transaction of a user, most recent first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC`,
		uuidToPg(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a transaction; the database assigns its id
func (r *TransactionRepository) Create(ctx context.Context, userID uuid.UUID, input domain.NewTransactionInput) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(input.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, type, amount, category, description, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns,
		uuidToPg(userID), string(input.Type), amount, string(input.Category), input.Description, dateToPg(input.Date),
	)
	return scanTransaction(row)
}

// Delete removes one transaction owned by the user
func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND id = $2`,
		uuidToPg(userID), uuidToPg(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// DeleteAllByUser removes every transaction of the user
func (r *TransactionRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, uuidToPg(userID))
	return err
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		id        pgtype.UUID
		userID    pgtype.UUID
		txType    string
		amount    pgtype.Numeric
		category  string
		t         domain.Transaction
		date      pgtype.Date
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &userID, &txType, &amount, &category, &t.Description, &date, &createdAt); err != nil {
		return nil, err
	}
	t.ID = pgToUUID(id)
	t.UserID = pgToUUID(userID)
	t.Type = domain.TransactionType(txType)
	t.Amount = pgNumericToDecimal(amount)
	t.Category = domain.Category(category)
	t.Date = date.Time
	t.CreatedAt = createdAt.Time
	return &t, nil
}
