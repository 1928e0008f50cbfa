package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/testutil"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.January, 20, 12, 0, 0, 0, time.UTC)

type stateFixture struct {
	userID   uuid.UUID
	txRepo   *testutil.MockTransactionRepository
	budgets  *testutil.MockBudgetRepository
	notifier *testutil.MockNotifier
	clock    *util.FixedClock
	state    *FinanceState
}

func newStateFixture(t *testing.T, budgets ...domain.Budget) *stateFixture {
	t.Helper()
	f := &stateFixture{
		userID:   uuid.New(),
		txRepo:   testutil.NewMockTransactionRepository(),
		budgets:  testutil.NewMockBudgetRepository(),
		notifier: testutil.NewMockNotifier(),
		clock:    util.NewFixedClock(testNow),
	}
	if len(budgets) > 0 {
		f.budgets.SetBudgets(f.userID, budgets...)
	}
	f.state = NewFinanceState(f.userID, f.txRepo, f.budgets, f.notifier, f.clock)
	return f
}

func (f *stateFixture) load(t *testing.T) {
	t.Helper()
	require.NoError(t, f.state.EnsureLoaded(context.Background()))
	f.notifier.Reset()
}

func expense(amount int64, category domain.Category, date time.Time, description string) domain.NewTransactionInput {
	return domain.NewTransactionInput{
		Type:        domain.TransactionTypeExpense,
		Amount:      decimal.NewFromInt(amount),
		Category:    category,
		Description: description,
		Date:        date,
	}
}

func foodBudget(limit int64) domain.Budget {
	return domain.Budget{Category: domain.CategoryFood, Limit: decimal.NewFromInt(limit)}
}

func TestFinanceState_Load_SeedsDefaultBudgets(t *testing.T) {
	f := newStateFixture(t)

	require.NoError(t, f.state.EnsureLoaded(context.Background()))

	assert.True(t, f.state.Loaded())
	assert.Equal(t, domain.DefaultBudgets(), f.state.Budgets())
	assert.Equal(t, len(domain.DefaultBudgets()), f.budgets.UpsertCalls)
	assert.Empty(t, f.state.Transactions())
	assert.Empty(t, f.notifier.Notifications())
}

func TestFinanceState_Load_KeepsExistingBudgets(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))

	f.load(t)

	assert.Equal(t, []domain.Budget{foodBudget(500)}, f.state.Budgets())
	assert.Zero(t, f.budgets.UpsertCalls)
}

func TestFinanceState_EnsureLoaded_LoadsOnce(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	calls := 0
	f.txRepo.ListFn = func(uuid.UUID) ([]*domain.Transaction, error) {
		calls++
		return nil, nil
	}

	require.NoError(t, f.state.EnsureLoaded(context.Background()))
	require.NoError(t, f.state.EnsureLoaded(context.Background()))

	assert.Equal(t, 1, calls)
	assert.NotNil(t, f.state.Transactions())
}

func TestFinanceState_Load_FailureNotifiesAndRetries(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.txRepo.ListFn = func(uuid.UUID) ([]*domain.Transaction, error) {
		return nil, errors.New("connection refused")
	}

	err := f.state.EnsureLoaded(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsPersistenceError(err))
	assert.False(t, f.state.Loaded())
	notifications := f.notifier.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.SeverityError, notifications[0].Severity)
	assert.Equal(t, "Error Loading Data", notifications[0].Title)
	assert.Equal(t, "Failed to load your financial data. Please try again.", notifications[0].Message)

	f.txRepo.ListFn = nil
	require.NoError(t, f.state.EnsureLoaded(context.Background()))
	assert.True(t, f.state.Loaded())
}

func TestFinanceState_Load_SeedFailure(t *testing.T) {
	f := newStateFixture(t)
	f.budgets.UpsertFn = func(uuid.UUID, domain.Category, decimal.Decimal) error {
		return errors.New("read-only transaction")
	}

	err := f.state.EnsureLoaded(context.Background())

	require.Error(t, err)
	assert.False(t, f.state.Loaded())
	assert.Equal(t, []string{"Error Loading Data"}, f.notifier.Titles())
}

func TestFinanceState_Reload_FailureKeepsSnapshot(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)
	_, err := f.state.AddTransaction(context.Background(), expense(20, domain.CategoryFood, testNow, "Bread"))
	require.NoError(t, err)

	f.budgets.ListFn = func(uuid.UUID) ([]domain.Budget, error) {
		return nil, errors.New("timeout")
	}
	require.Error(t, f.state.Load(context.Background()))

	assert.True(t, f.state.Loaded())
	assert.Len(t, f.state.Transactions(), 1)
	assert.Len(t, f.state.Budgets(), 1)
}

func TestFinanceState_AddTransaction(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)

	first, err := f.state.AddTransaction(context.Background(), expense(20, domain.CategoryFood, testNow, "Bread"))
	require.NoError(t, err)
	second, err := f.state.AddTransaction(context.Background(), domain.NewTransactionInput{
		Type:        domain.TransactionTypeIncome,
		Amount:      decimal.NewFromInt(3000),
		Category:    domain.CategorySalary,
		Description: "  January salary ",
		Date:        testNow,
	})
	require.NoError(t, err)

	txs := f.state.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, second.ID, txs[0].ID)
	assert.Equal(t, first.ID, txs[1].ID)
	assert.Equal(t, "January salary", second.Description)
	assert.Equal(t, []string{"💸 Expense Added", "💰 Income Added"}, f.notifier.Titles())
	assert.Equal(t, "January salary recorded successfully", f.notifier.Notifications()[1].Message)
}

func TestFinanceState_AddTransaction_ValidationSkipsPersistence(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)

	_, err := f.state.AddTransaction(context.Background(), expense(20, domain.CategorySalary, testNow, "Bread"))

	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	assert.Zero(t, f.txRepo.CreateCalls)
	assert.Empty(t, f.state.Transactions())
	assert.Empty(t, f.notifier.Notifications())
}

func TestFinanceState_AddTransaction_PersistenceFailure(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)
	_, err := f.state.AddTransaction(context.Background(), expense(20, domain.CategoryFood, testNow, "Bread"))
	require.NoError(t, err)
	f.notifier.Reset()

	f.txRepo.CreateFn = func(uuid.UUID, domain.NewTransactionInput) (*domain.Transaction, error) {
		return nil, errors.New("network down")
	}
	_, err = f.state.AddTransaction(context.Background(), expense(30, domain.CategoryFood, testNow, "Milk"))

	require.Error(t, err)
	assert.True(t, domain.IsPersistenceError(err))
	assert.Len(t, f.state.Transactions(), 1)
	notifications := f.notifier.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.SeverityError, notifications[0].Severity)
	assert.Equal(t, "Error", notifications[0].Title)
	assert.Equal(t, "Failed to add transaction. Please try again.", notifications[0].Message)
}

func TestFinanceState_DeleteTransaction(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)
	created, err := f.state.AddTransaction(context.Background(), expense(20, domain.CategoryFood, testNow, "Bread"))
	require.NoError(t, err)
	f.notifier.Reset()

	require.NoError(t, f.state.DeleteTransaction(context.Background(), created.ID))

	assert.Empty(t, f.state.Transactions())
	assert.Zero(t, f.txRepo.Count(f.userID))
	assert.Equal(t, []string{"Transaction Deleted"}, f.notifier.Titles())
	assert.Equal(t, "The transaction has been removed", f.notifier.Notifications()[0].Message)
}

func TestFinanceState_DeleteTransaction_NotFound(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)

	err := f.state.DeleteTransaction(context.Background(), uuid.New())

	require.Error(t, err)
	assert.True(t, domain.IsPersistenceError(err))
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.Equal(t, "Failed to delete transaction. Please try again.", f.notifier.Notifications()[0].Message)
}

func TestFinanceState_UpdateBudget(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)

	require.NoError(t, f.state.UpdateBudget(context.Background(), domain.CategoryFood, decimal.NewFromInt(800)))
	require.NoError(t, f.state.UpdateBudget(context.Background(), domain.CategoryHealthcare, decimal.NewFromInt(200)))

	budgets := f.state.Budgets()
	require.Len(t, budgets, 2)
	assert.Equal(t, domain.CategoryFood, budgets[0].Category)
	assert.True(t, budgets[0].Limit.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, domain.CategoryHealthcare, budgets[1].Category)
	assert.Equal(t, []string{"📊 Budget Updated", "📊 Budget Updated"}, f.notifier.Titles())
	assert.Equal(t, "Your budget has been saved", f.notifier.Notifications()[0].Message)
}

func TestFinanceState_UpdateBudget_Invalid(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)

	err := f.state.UpdateBudget(context.Background(), domain.CategorySalary, decimal.NewFromInt(100))
	assert.True(t, domain.IsValidationError(err))

	err = f.state.UpdateBudget(context.Background(), domain.CategoryFood, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidBudgetLimit)

	for _, limit := range []string{"100.555", "1e13", "1e50000000"} {
		err = f.state.UpdateBudget(context.Background(), domain.CategoryFood, decimal.RequireFromString(limit))
		assert.ErrorIs(t, err, domain.ErrInvalidBudgetLimit, limit)
	}

	assert.Zero(t, f.budgets.UpsertCalls)
	assert.Empty(t, f.notifier.Notifications())
}

func TestFinanceState_UpdateBudget_StoresPersistedScale(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)

	require.NoError(t, f.state.UpdateBudget(context.Background(), domain.CategoryFood, decimal.RequireFromString("100.5000")))

	stored, err := f.budgets.ListByUser(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, int32(-2), stored[0].Limit.Exponent())
	assert.Equal(t, stored[0].Limit, f.state.Budgets()[0].Limit)
}

func TestFinanceState_UpdateBudget_PersistenceFailure(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)
	f.budgets.UpsertFn = func(uuid.UUID, domain.Category, decimal.Decimal) error {
		return errors.New("deadlock")
	}

	err := f.state.UpdateBudget(context.Background(), domain.CategoryFood, decimal.NewFromInt(800))

	require.Error(t, err)
	assert.True(t, f.state.Budgets()[0].Limit.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "Failed to update budget. Please try again.", f.notifier.Notifications()[0].Message)
}

func TestFinanceState_ResetData_KeepsBudgets(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)
	for _, d := range []string{"Bread", "Milk", "Eggs"} {
		_, err := f.state.AddTransaction(context.Background(), expense(10, domain.CategoryFood, testNow, d))
		require.NoError(t, err)
	}
	f.notifier.Reset()

	require.NoError(t, f.state.ResetData(context.Background()))

	assert.Empty(t, f.state.Transactions())
	assert.Equal(t, []domain.Budget{foodBudget(500)}, f.state.Budgets())
	assert.Equal(t, []string{"🔄 Data Reset"}, f.notifier.Titles())
	assert.Equal(t, "All transactions have been cleared", f.notifier.Notifications()[0].Message)
}

func TestFinanceState_ResetData_Failure(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)
	_, err := f.state.AddTransaction(context.Background(), expense(10, domain.CategoryFood, testNow, "Bread"))
	require.NoError(t, err)
	f.txRepo.DeleteAllFn = func(uuid.UUID) error { return errors.New("timeout") }
	f.notifier.Reset()

	require.Error(t, f.state.ResetData(context.Background()))

	assert.Len(t, f.state.Transactions(), 1)
	assert.Equal(t, "Failed to reset data. Please try again.", f.notifier.Notifications()[0].Message)
}

func TestFinanceState_Accessors_ReturnCopies(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)
	_, err := f.state.AddTransaction(context.Background(), expense(10, domain.CategoryFood, testNow, "Bread"))
	require.NoError(t, err)

	txs := f.state.Transactions()
	txs[0] = nil
	budgets := f.state.Budgets()
	budgets[0].Limit = decimal.Zero

	assert.NotNil(t, f.state.Transactions()[0])
	assert.True(t, f.state.Budgets()[0].Limit.Equal(decimal.NewFromInt(500)))
}

func alertsOf(notifications []domain.Notification) []domain.Notification {
	var out []domain.Notification
	for _, n := range notifications {
		if n.Alert != nil {
			out = append(out, n)
		}
	}
	return out
}

func TestFinanceState_Alerts_Escalation(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)
	ctx := context.Background()

	_, err := f.state.AddTransaction(ctx, expense(400, domain.CategoryFood, testNow, "Groceries"))
	require.NoError(t, err)
	alerts := alertsOf(f.notifier.Notifications())
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.SeverityWarning, alerts[0].Severity)
	assert.Equal(t, "🛒 Budget Warning", alerts[0].Title)
	assert.Equal(t, "You've used 80% of your Food & Groceries budget", alerts[0].Message)

	_, err = f.state.AddTransaction(ctx, expense(50, domain.CategoryFood, testNow, "Snacks"))
	require.NoError(t, err)
	assert.Len(t, alertsOf(f.notifier.Notifications()), 1)

	big, err := f.state.AddTransaction(ctx, expense(100, domain.CategoryFood, testNow, "Party"))
	require.NoError(t, err)
	alerts = alertsOf(f.notifier.Notifications())
	require.Len(t, alerts, 2)
	assert.Equal(t, domain.SeverityError, alerts[1].Severity)
	assert.Equal(t, "🛒 Budget Exceeded!", alerts[1].Title)
	assert.Equal(t, "You've exceeded your Food & Groceries budget by 10%", alerts[1].Message)
	assert.True(t, alerts[1].Alert.Spent.Equal(decimal.NewFromInt(550)))

	require.NoError(t, f.state.DeleteTransaction(ctx, big.ID))
	assert.Len(t, alertsOf(f.notifier.Notifications()), 2)

	_, err = f.state.AddTransaction(ctx, expense(100, domain.CategoryFood, testNow, "Party again"))
	require.NoError(t, err)
	alerts = alertsOf(f.notifier.Notifications())
	require.Len(t, alerts, 3)
	assert.Equal(t, "🛒 Budget Exceeded!", alerts[2].Title)
}

func TestFinanceState_Alerts_RenotifyAfterReset(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)
	ctx := context.Background()

	_, err := f.state.AddTransaction(ctx, expense(450, domain.CategoryFood, testNow, "Groceries"))
	require.NoError(t, err)
	require.NoError(t, f.state.ResetData(ctx))
	_, err = f.state.AddTransaction(ctx, expense(450, domain.CategoryFood, testNow, "Groceries"))
	require.NoError(t, err)

	alerts := alertsOf(f.notifier.Notifications())
	require.Len(t, alerts, 2)
	assert.Equal(t, "You've used 90% of your Food & Groceries budget", alerts[1].Message)
}

func TestFinanceState_Alerts_BudgetRaiseClearsLevel(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)
	ctx := context.Background()

	_, err := f.state.AddTransaction(ctx, expense(500, domain.CategoryFood, testNow, "Groceries"))
	require.NoError(t, err)
	require.NoError(t, f.state.UpdateBudget(ctx, domain.CategoryFood, decimal.NewFromInt(1000)))
	require.NoError(t, f.state.UpdateBudget(ctx, domain.CategoryFood, decimal.NewFromInt(500)))

	alerts := alertsOf(f.notifier.Notifications())
	require.Len(t, alerts, 2)
	assert.Equal(t, "You've exceeded your Food & Groceries budget by 0%", alerts[1].Message)
}

func TestFinanceState_Alerts_OnlyCurrentMonth(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)

	lastMonth := time.Date(2023, time.December, 28, 0, 0, 0, 0, time.UTC)
	_, err := f.state.AddTransaction(context.Background(), expense(900, domain.CategoryFood, lastMonth, "Holiday feast"))
	require.NoError(t, err)

	assert.Empty(t, alertsOf(f.notifier.Notifications()))
}

func TestFinanceState_Alerts_NewMonthRenotifies(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.load(t)
	ctx := context.Background()

	_, err := f.state.AddTransaction(ctx, expense(450, domain.CategoryFood, testNow, "January groceries"))
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, time.February, 3, 9, 0, 0, 0, time.UTC))
	_, err = f.state.AddTransaction(ctx, expense(450, domain.CategoryFood, f.clock.Now(), "February groceries"))
	require.NoError(t, err)

	assert.Len(t, alertsOf(f.notifier.Notifications()), 2)
}

func TestFinanceState_Alerts_OnLoad(t *testing.T) {
	f := newStateFixture(t, foodBudget(500))
	f.txRepo.AddTransaction(f.userID, &domain.Transaction{
		Type:        domain.TransactionTypeExpense,
		Amount:      decimal.NewFromInt(600),
		Category:    domain.CategoryFood,
		Description: "Groceries",
		Date:        testNow,
	})

	require.NoError(t, f.state.EnsureLoaded(context.Background()))

	alerts := alertsOf(f.notifier.Notifications())
	require.Len(t, alerts, 1)
	assert.Equal(t, "You've exceeded your Food & Groceries budget by 20%", alerts[0].Message)
}
