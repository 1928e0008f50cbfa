package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	mu       sync.Mutex
	Users    map[string]*domain.User
	CreateFn func(auth0ID, email string, name, pictureURL *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[user.Auth0ID] = user
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name, pictureURL)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	now := time.Now()
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.Users[auth0ID] = user
	return user, nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository.
// Transactions are kept per user, most recent first.
type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions map[uuid.UUID][]*domain.Transaction
	CreateCalls  int
	DeleteCalls  int

	ListFn      func(userID uuid.UUID) ([]*domain.Transaction, error)
	CreateFn    func(userID uuid.UUID, input domain.NewTransactionInput) (*domain.Transaction, error)
	DeleteFn    func(userID, id uuid.UUID) error
	DeleteAllFn func(userID uuid.UUID) error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID][]*domain.Transaction),
	}
}

// AddTransaction seeds a transaction for a user
func (m *MockTransactionRepository) AddTransaction(userID uuid.UUID, t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.UserID = userID
	m.Transactions[userID] = append(m.Transactions[userID], t)
}

// ListByUser returns a copy of the user's transactions
func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn(userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Transaction, len(m.Transactions[userID]))
	copy(out, m.Transactions[userID])
	return out, nil
}

// Create stores a transaction with a new id
func (m *MockTransactionRepository) Create(ctx context.Context, userID uuid.UUID, input domain.NewTransactionInput) (*domain.Transaction, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(userID, input)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t := &domain.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        input.Type,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Date:        input.Date,
		CreatedAt:   time.Now(),
	}
	m.Transactions[userID] = append([]*domain.Transaction{t}, m.Transactions[userID]...)
	return t, nil
}

// Delete removes a transaction of the user
func (m *MockTransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	m.DeleteCalls++
	m.mu.Unlock()
	if m.DeleteFn != nil {
		return m.DeleteFn(userID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	txs := m.Transactions[userID]
	for i, t := range txs {
		if t.ID == id {
			m.Transactions[userID] = append(txs[:i:i], txs[i+1:]...)
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

// DeleteAllByUser removes every transaction of the user
func (m *MockTransactionRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteAllFn != nil {
		return m.DeleteAllFn(userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Transactions, userID)
	return nil
}

// Count returns the number of stored transactions of the user
func (m *MockTransactionRepository) Count(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Transactions[userID])
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	mu          sync.Mutex
	Budgets     map[uuid.UUID][]domain.Budget
	UpsertCalls int

	ListFn   func(userID uuid.UUID) ([]domain.Budget, error)
	UpsertFn func(userID uuid.UUID, category domain.Category, limit decimal.Decimal) error
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[uuid.UUID][]domain.Budget),
	}
}

// SetBudgets replaces the budgets of a user
func (m *MockBudgetRepository) SetBudgets(userID uuid.UUID, budgets ...domain.Budget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Budgets[userID] = append([]domain.Budget(nil), budgets...)
}

// ListByUser returns a copy of the user's budgets
func (m *MockBudgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Budget, error) {
	if m.ListFn != nil {
		return m.ListFn(userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Budget{}, m.Budgets[userID]...), nil
}

// Upsert sets the limit of a category
func (m *MockBudgetRepository) Upsert(ctx context.Context, userID uuid.UUID, category domain.Category, limit decimal.Decimal) error {
	m.mu.Lock()
	m.UpsertCalls++
	m.mu.Unlock()
	if m.UpsertFn != nil {
		return m.UpsertFn(userID, category, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	budgets := m.Budgets[userID]
	for i := range budgets {
		if budgets[i].Category == category {
			budgets[i].Limit = limit
			return nil
		}
	}
	m.Budgets[userID] = append(budgets, domain.Budget{Category: category, Limit: limit})
	return nil
}

// RecordedNotification is one call to MockNotifier.Notify
type RecordedNotification struct {
	UserID       uuid.UUID
	Notification domain.Notification
}

// MockNotifier records every notification it receives
type MockNotifier struct {
	mu    sync.Mutex
	calls []RecordedNotification
}

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify implements domain.Notifier
func (m *MockNotifier) Notify(userID uuid.UUID, n domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, RecordedNotification{UserID: userID, Notification: n})
}

// Notifications returns the recorded notifications in order
func (m *MockNotifier) Notifications() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Notification, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.Notification
	}
	return out
}

// Titles returns the titles of the recorded notifications in order
func (m *MockNotifier) Titles() []string {
	notifications := m.Notifications()
	titles := make([]string, len(notifications))
	for i, n := range notifications {
		titles[i] = n.Title
	}
	return titles
}

// Reset forgets all recorded notifications
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// MockBackupStore is an in-memory implementation of domain.BackupStore
type MockBackupStore struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	UploadErr error
	PresignFn func(objectPath string, expiry time.Duration) (string, error)
}

// NewMockBackupStore creates a new MockBackupStore
func NewMockBackupStore() *MockBackupStore {
	return &MockBackupStore{
		Objects: make(map[string][]byte),
	}
}

// Upload stores the object in memory
func (m *MockBackupStore) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[objectPath] = buf.Bytes()
	return objectPath, nil
}

// GeneratePresignedURL returns a fake signed URL for the object
func (m *MockBackupStore) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	if m.PresignFn != nil {
		return m.PresignFn(objectPath, expiry)
	}
	return fmt.Sprintf("https://backups.test/%s?expires=%d", objectPath, int(expiry.Seconds())), nil
}
