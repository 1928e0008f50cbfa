package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/util"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	sessions  *service.SessionManager
	publisher websocket.EventPublisher
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(sessions *service.SessionManager, publisher websocket.EventPublisher) *TransactionHandler {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &TransactionHandler{
		sessions:  sessions,
		publisher: publisher,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	CategoryLabel string `json:"categoryLabel"`
	CategoryIcon  string `json:"categoryIcon"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	CreatedAt     string `json:"createdAt"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:            t.ID.String(),
		Type:          string(t.Type),
		Amount:        t.Amount.StringFixed(2),
		Category:      string(t.Category),
		CategoryLabel: string(t.Category),
		Description:   t.Description,
		Date:          t.Date.Format(domain.DateLayout),
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d, ok := domain.LookupCategory(t.Type, t.Category); ok {
		resp.CategoryLabel = d.Label
		resp.CategoryIcon = d.Icon
	}
	return resp
}

func toTransactionResponses(txs []*domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i, t := range txs {
		out[i] = toTransactionResponse(t)
	}
	return out
}

// GetTransactions godoc
// @Summary List transactions
// @Description Most recently added first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TransactionResponse
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	state, err := h.sessions.State(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err, "Failed to load transactions")
	}
	return c.JSON(http.StatusOK, toTransactionResponses(state.Transactions()))
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a new income or expense transaction. The date defaults to today.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction creation request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return fieldError(c, "amount", "Amount must be a valid decimal number")
	}

	state, err := h.sessions.State(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to load transactions")
	}

	date := util.CalendarDate(state.Now())
	if req.Date != "" {
		date, err = util.ParseDate(req.Date)
		if err != nil {
			return fieldError(c, "date", "Date must be in YYYY-MM-DD format")
		}
	}

	created, err := state.AddTransaction(c.Request().Context(), domain.NewTransactionInput{
		Type:        domain.TransactionType(req.Type),
		Amount:      amount,
		Category:    domain.Category(req.Category),
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		return respondError(c, err, "Failed to add transaction")
	}

	resp := toTransactionResponse(created)
	h.publisher.Publish(userID, websocket.TransactionCreated(resp))
	return c.JSON(http.StatusCreated, resp)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fieldError(c, "id", "Invalid transaction ID")
	}

	state, err := h.sessions.State(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to load transactions")
	}

	if err := state.DeleteTransaction(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Failed to delete transaction")
	}

	h.publisher.Publish(userID, websocket.TransactionDeleted(map[string]string{"id": id.String()}))
	return c.NoContent(http.StatusNoContent)
}

// ResetTransactions godoc
// @Summary Delete every transaction
// @Description Budgets are kept
// @Tags transactions
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} ProblemDetails
// @Router /transactions [delete]
func (h *TransactionHandler) ResetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	state, err := h.sessions.State(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to load transactions")
	}

	if err := state.ResetData(c.Request().Context()); err != nil {
		return respondError(c, err, "Failed to reset data")
	}

	h.publisher.Publish(userID, websocket.LedgerReset(nil))
	return c.NoContent(http.StatusNoContent)
}
