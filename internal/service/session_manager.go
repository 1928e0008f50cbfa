package service

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/metrics"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// SessionCleanupInterval is the interval for sweeping idle sessions
	SessionCleanupInterval = 5 * time.Minute
	// SessionTTL is how long a state stays in memory without being accessed
	SessionTTL = 30 * time.Minute
)

// SessionManager keeps one FinanceState per active user.
// States idle for longer than SessionTTL are dropped and reloaded on next access.
type SessionManager struct {
	txRepo     domain.TransactionRepository
	budgetRepo domain.BudgetRepository
	notifier   domain.Notifier
	clock      util.Clock

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
	stopCh   chan struct{}
	stopOnce sync.Once
}

type sessionEntry struct {
	state    *FinanceState
	lastSeen time.Time
}

// NewSessionManager creates a new SessionManager and starts its idle sweep.
// Call Stop to end the sweep.
func NewSessionManager(
	txRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	notifier domain.Notifier,
	clock util.Clock,
) *SessionManager {
	m := &SessionManager{
		txRepo:     txRepo,
		budgetRepo: budgetRepo,
		notifier:   notifier,
		clock:      clock,
		sessions:   make(map[uuid.UUID]*sessionEntry),
		stopCh:     make(chan struct{}),
	}

	go m.cleanup()

	return m
}

// State returns the loaded state of userID, loading it on first use.
// A failed load is retried on the next call.
func (m *SessionManager) State(ctx context.Context, userID uuid.UUID) (*FinanceState, error) {
	state := m.stateFor(userID)
	if err := state.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return state, nil
}

// Reload refetches the state of userID from persistence
func (m *SessionManager) Reload(ctx context.Context, userID uuid.UUID) (*FinanceState, error) {
	state := m.stateFor(userID)
	if err := state.Load(ctx); err != nil {
		return nil, err
	}
	return state, nil
}

// Forget drops the in-memory state of userID
func (m *SessionManager) Forget(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
}

// Count returns the number of tracked users
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Stop stops the idle sweep
func (m *SessionManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *SessionManager) stateFor(userID uuid.UUID) *FinanceState {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	entry, ok := m.sessions[userID]
	if !ok {
		entry = &sessionEntry{state: NewFinanceState(userID, m.txRepo, m.budgetRepo, m.notifier, m.clock)}
		m.sessions[userID] = entry
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
	}
	entry.lastSeen = now
	return entry.state
}

func (m *SessionManager) cleanup() {
	ticker := time.NewTicker(SessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle(m.clock.Now())
		case <-m.stopCh:
			return
		}
	}
}

func (m *SessionManager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, entry := range m.sessions {
		if now.Sub(entry.lastSeen) > SessionTTL {
			delete(m.sessions, userID)
			log.Debug().Str("user_id", userID.String()).Msg("Evicted idle finance state")
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
}
