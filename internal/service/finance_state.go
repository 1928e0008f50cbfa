package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/finance"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/metrics"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var hundred = decimal.NewFromInt(100)

// alertKey scopes a remembered alert level to one category in one month
type alertKey struct {
	category domain.Category
	month    util.YearMonth
}

// FinanceState is the in-memory snapshot of one user's transactions and budgets.
// Every mutation is persisted first and applied to memory only on success.
// Remote calls run outside the lock, so concurrent mutations are not ordered
// relative to each other: the last successful in-memory update wins.
type FinanceState struct {
	userID     uuid.UUID
	txRepo     domain.TransactionRepository
	budgetRepo domain.BudgetRepository
	notifier   domain.Notifier
	clock      util.Clock

	loadMu sync.Mutex

	mu           sync.RWMutex
	loaded       bool
	transactions []*domain.Transaction
	budgets      []domain.Budget
	alertLevels  map[alertKey]domain.BudgetLevel
}

// NewFinanceState creates an unloaded state for userID
func NewFinanceState(
	userID uuid.UUID,
	txRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	notifier domain.Notifier,
	clock util.Clock,
) *FinanceState {
	return &FinanceState{
		userID:       userID,
		txRepo:       txRepo,
		budgetRepo:   budgetRepo,
		notifier:     notifier,
		clock:        clock,
		transactions: make([]*domain.Transaction, 0),
		budgets:      make([]domain.Budget, 0),
		alertLevels:  make(map[alertKey]domain.BudgetLevel),
	}
}

// UserID returns the owner of the state
func (s *FinanceState) UserID() uuid.UUID {
	return s.userID
}

// Loaded reports whether a load has completed successfully
func (s *FinanceState) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// EnsureLoaded loads the state unless a previous load succeeded
func (s *FinanceState) EnsureLoaded(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.Loaded() {
		return nil
	}
	return s.load(ctx)
}

// Load fetches transactions and budgets from persistence, seeding the default
// budgets when the user has none. On failure the previous snapshot is kept.
func (s *FinanceState) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.load(ctx)
}

func (s *FinanceState) load(ctx context.Context) error {
	var (
		transactions []*domain.Transaction
		budgets      []domain.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.txRepo.ListByUser(gctx, s.userID)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgetRepo.ListByUser(gctx, s.userID)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return s.loadFailed("load finance data", err)
	}

	if len(budgets) == 0 {
		budgets = domain.DefaultBudgets()
		for _, b := range budgets {
			if err := s.budgetRepo.Upsert(ctx, s.userID, b.Category, b.Limit); err != nil {
				return s.loadFailed("seed default budgets", err)
			}
		}
		log.Info().Str("user_id", s.userID.String()).Int("count", len(budgets)).Msg("Seeded default budgets")
	}

	if transactions == nil {
		transactions = make([]*domain.Transaction, 0)
	}

	s.mu.Lock()
	s.transactions = transactions
	s.budgets = budgets
	s.loaded = true
	s.alertLevels = make(map[alertKey]domain.BudgetLevel)
	s.mu.Unlock()

	log.Debug().
		Str("user_id", s.userID.String()).
		Int("transactions", len(transactions)).
		Int("budgets", len(budgets)).
		Msg("Finance state loaded")

	s.evaluateAlerts()
	return nil
}

func (s *FinanceState) loadFailed(op string, err error) error {
	metrics.PersistenceFailures.WithLabelValues(op).Inc()
	log.Error().Err(err).Str("user_id", s.userID.String()).Msg("Failed to load finance data")
	s.notify(domain.Notification{
		Severity: domain.SeverityError,
		Title:    "Error Loading Data",
		Message:  "Failed to load your financial data. Please try again.",
	})
	return &domain.PersistenceError{Op: op, Err: err}
}

// AddTransaction validates, persists and records a new transaction
func (s *FinanceState) AddTransaction(ctx context.Context, input domain.NewTransactionInput) (*domain.Transaction, error) {
	input, err := input.Validate()
	if err != nil {
		return nil, err
	}

	created, err := s.txRepo.Create(ctx, s.userID, input)
	if err != nil {
		return nil, s.operationFailed("add transaction", err, log.Error().Str("category", string(input.Category)))
	}

	s.mu.Lock()
	s.transactions = append([]*domain.Transaction{created}, s.transactions...)
	s.mu.Unlock()

	title := "💸 Expense Added"
	if created.Type == domain.TransactionTypeIncome {
		title = "💰 Income Added"
	}
	s.notify(domain.Notification{
		Severity: domain.SeverityInfo,
		Title:    title,
		Message:  fmt.Sprintf("%s recorded successfully", created.Description),
	})

	log.Info().
		Str("user_id", s.userID.String()).
		Str("transaction_id", created.ID.String()).
		Str("type", string(created.Type)).
		Msg("Transaction added")

	s.evaluateAlerts()
	return created, nil
}

// DeleteTransaction removes a transaction; an unknown id is a PersistenceError
// wrapping domain.ErrTransactionNotFound
func (s *FinanceState) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if err := s.txRepo.Delete(ctx, s.userID, id); err != nil {
		return s.operationFailed("delete transaction", err, log.Error().Str("transaction_id", id.String()))
	}

	s.mu.Lock()
	kept := make([]*domain.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.transactions = kept
	s.mu.Unlock()

	s.notify(domain.Notification{
		Severity: domain.SeverityInfo,
		Title:    "Transaction Deleted",
		Message:  "The transaction has been removed",
	})

	log.Info().
		Str("user_id", s.userID.String()).
		Str("transaction_id", id.String()).
		Msg("Transaction deleted")

	s.evaluateAlerts()
	return nil
}

// UpdateBudget sets the monthly limit of an expense category
func (s *FinanceState) UpdateBudget(ctx context.Context, category domain.Category, limit decimal.Decimal) error {
	if err := domain.ValidateBudget(category, limit); err != nil {
		return err
	}
	limit = limit.Truncate(domain.MoneyScale)

	if err := s.budgetRepo.Upsert(ctx, s.userID, category, limit); err != nil {
		return s.operationFailed("update budget", err, log.Error().Str("category", string(category)))
	}

	s.mu.Lock()
	updated := make([]domain.Budget, len(s.budgets), len(s.budgets)+1)
	copy(updated, s.budgets)
	found := false
	for i := range updated {
		if updated[i].Category == category {
			updated[i].Limit = limit
			found = true
			break
		}
	}
	if !found {
		updated = append(updated, domain.Budget{Category: category, Limit: limit})
	}
	s.budgets = updated
	s.mu.Unlock()

	s.notify(domain.Notification{
		Severity: domain.SeverityInfo,
		Title:    "📊 Budget Updated",
		Message:  "Your budget has been saved",
	})

	log.Info().
		Str("user_id", s.userID.String()).
		Str("category", string(category)).
		Str("limit", limit.StringFixed(2)).
		Msg("Budget updated")

	s.evaluateAlerts()
	return nil
}

// ResetData deletes every transaction of the user. Budgets are kept.
func (s *FinanceState) ResetData(ctx context.Context) error {
	if err := s.txRepo.DeleteAllByUser(ctx, s.userID); err != nil {
		return s.operationFailed("reset data", err, log.Error())
	}

	s.mu.Lock()
	s.transactions = make([]*domain.Transaction, 0)
	s.mu.Unlock()

	s.notify(domain.Notification{
		Severity: domain.SeverityInfo,
		Title:    "🔄 Data Reset",
		Message:  "All transactions have been cleared",
	})

	log.Info().Str("user_id", s.userID.String()).Msg("Transactions reset")

	s.evaluateAlerts()
	return nil
}

// Transactions returns a copy of the transactions, most recently added first
func (s *FinanceState) Transactions() []*domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Budgets returns a copy of the budgets
func (s *FinanceState) Budgets() []domain.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Budget, len(s.budgets))
	copy(out, s.budgets)
	return out
}

// Snapshot returns consistent copies of transactions and budgets
func (s *FinanceState) Snapshot() ([]*domain.Transaction, []domain.Budget) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txs := make([]*domain.Transaction, len(s.transactions))
	copy(txs, s.transactions)
	budgets := make([]domain.Budget, len(s.budgets))
	copy(budgets, s.budgets)
	return txs, budgets
}

// Now returns the current time of the state's clock
func (s *FinanceState) Now() time.Time {
	return s.clock.Now()
}

func (s *FinanceState) operationFailed(op string, err error, evt *zerolog.Event) error {
	metrics.PersistenceFailures.WithLabelValues(op).Inc()
	evt.Err(err).Str("user_id", s.userID.String()).Msgf("Failed to %s", op)
	s.notify(domain.Notification{
		Severity: domain.SeverityError,
		Title:    "Error",
		Message:  fmt.Sprintf("Failed to %s. Please try again.", op),
	})
	return &domain.PersistenceError{Op: op, Err: err}
}

func (s *FinanceState) notify(n domain.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(s.userID, n)
}

func levelRank(level domain.BudgetLevel) int {
	switch level {
	case domain.BudgetLevelExceeded:
		return 2
	case domain.BudgetLevelWarning:
		return 1
	default:
		return 0
	}
}

// evaluateAlerts notifies once per budget whose level rose since the last evaluation.
// Levels that fall are lowered in memory so a later rise notifies again.
func (s *FinanceState) evaluateAlerts() {
	now := s.clock.Now()
	month := util.YearMonthOf(now)

	s.mu.Lock()
	alerts := finance.CheckBudgetAlerts(s.transactions, s.budgets, now)

	current := make(map[alertKey]domain.BudgetLevel, len(alerts))
	raised := make([]domain.BudgetAlert, 0)
	for _, a := range alerts {
		key := alertKey{category: a.Category, month: month}
		level := domain.LevelFor(a.Percentage)
		current[key] = level
		if levelRank(level) > levelRank(s.alertLevels[key]) {
			raised = append(raised, a)
		}
	}
	s.alertLevels = current
	s.mu.Unlock()

	for _, a := range raised {
		level := domain.LevelFor(a.Percentage)
		metrics.BudgetAlerts.WithLabelValues(string(level)).Inc()
		s.notify(alertNotification(a, level))
	}
}

func alertNotification(a domain.BudgetAlert, level domain.BudgetLevel) domain.Notification {
	d := domain.ExpenseDescriptor(a.Category)
	alert := a
	if level == domain.BudgetLevelExceeded {
		return domain.Notification{
			Severity: domain.SeverityError,
			Title:    fmt.Sprintf("%s Budget Exceeded!", d.Icon),
			Message:  fmt.Sprintf("You've exceeded your %s budget by %s%%", d.Label, a.Percentage.Sub(hundred).Round(0).String()),
			Alert:    &alert,
		}
	}
	return domain.Notification{
		Severity: domain.SeverityWarning,
		Title:    fmt.Sprintf("%s Budget Warning", d.Icon),
		Message:  fmt.Sprintf("You've used %s%% of your %s budget", a.Percentage.Round(0).String(), d.Label),
		Alert:    &alert,
	}
}
