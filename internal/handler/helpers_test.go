package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/testutil"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testNow = time.Date(2024, time.January, 20, 12, 0, 0, 0, time.UTC)

// setupAuthContext sets the claims and Auth0 subject the auth middleware would inject
func setupAuthContext(c echo.Context, auth0ID string, email, name, picture string) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: auth0ID,
		},
		CustomClaims: &middleware.CustomClaims{
			Email:   email,
			Name:    name,
			Picture: picture,
		},
	}
	ctx := context.WithValue(c.Request().Context(), middleware.ClaimsKey, claims)
	ctx = context.WithValue(ctx, middleware.Auth0IDKey, auth0ID)
	c.SetRequest(c.Request().WithContext(ctx))
}

// setupUserContext additionally sets a provisioned user id
func setupUserContext(c echo.Context, userID uuid.UUID) {
	setupAuthContext(c, "auth0|"+userID.String(), "test@example.com", "Test User", "")
	ctx := context.WithValue(c.Request().Context(), middleware.UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
}

// recordingPublisher captures published websocket events
type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type ledgerFixture struct {
	e         *echo.Echo
	userID    uuid.UUID
	txRepo    *testutil.MockTransactionRepository
	budgets   *testutil.MockBudgetRepository
	notifier  *testutil.MockNotifier
	sessions  *service.SessionManager
	dashboard *service.DashboardService
	publisher *recordingPublisher
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	f := &ledgerFixture{
		e:         echo.New(),
		userID:    uuid.New(),
		txRepo:    testutil.NewMockTransactionRepository(),
		budgets:   testutil.NewMockBudgetRepository(),
		notifier:  testutil.NewMockNotifier(),
		publisher: &recordingPublisher{},
	}
	f.sessions = service.NewSessionManager(f.txRepo, f.budgets, f.notifier, util.NewFixedClock(testNow))
	t.Cleanup(f.sessions.Stop)
	f.dashboard = service.NewDashboardService(f.sessions)
	return f
}

func (f *ledgerFixture) request(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	setupUserContext(c, f.userID)
	return c, rec
}
