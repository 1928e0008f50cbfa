package handler

import (
	"net/http"
	"strings"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	sessions  *service.SessionManager
	dashboard *service.DashboardService
	publisher websocket.EventPublisher
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(sessions *service.SessionManager, dashboard *service.DashboardService, publisher websocket.EventPublisher) *BudgetHandler {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &BudgetHandler{
		sessions:  sessions,
		dashboard: dashboard,
		publisher: publisher,
	}
}

// UpdateBudgetRequest represents the update budget request body
type UpdateBudgetRequest struct {
	Limit string `json:"limit"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Limit    string `json:"limit"`
}

// BudgetStatusResponse is the current month progress of one budget
type BudgetStatusResponse struct {
	Category   string `json:"category"`
	Label      string `json:"label"`
	Icon       string `json:"icon"`
	Spent      string `json:"spent"`
	Limit      string `json:"limit"`
	Percentage string `json:"percentage"`
	Remaining  string `json:"remaining"`
	OverBy     string `json:"overBy"`
	Status     string `json:"status"`
}

// BudgetAlertResponse is a budget at or above the warning threshold
type BudgetAlertResponse struct {
	Category   string `json:"category"`
	Label      string `json:"label"`
	Icon       string `json:"icon"`
	Spent      string `json:"spent"`
	Limit      string `json:"limit"`
	Percentage string `json:"percentage"`
	Level      string `json:"level"`
}

func toBudgetResponse(b domain.Budget) BudgetResponse {
	d := domain.ExpenseDescriptor(b.Category)
	return BudgetResponse{
		Category: string(b.Category),
		Label:    d.Label,
		Icon:     d.Icon,
		Limit:    b.Limit.StringFixed(2),
	}
}

func toBudgetStatusResponses(statuses []domain.BudgetStatus) []BudgetStatusResponse {
	out := make([]BudgetStatusResponse, len(statuses))
	for i, s := range statuses {
		out[i] = BudgetStatusResponse{
			Category:   string(s.Value),
			Label:      s.Label,
			Icon:       s.Icon,
			Spent:      s.Spent.StringFixed(2),
			Limit:      s.Limit.StringFixed(2),
			Percentage: s.Percentage.StringFixed(1),
			Remaining:  s.Remaining.StringFixed(2),
			OverBy:     s.OverBy.StringFixed(2),
			Status:     string(s.Status),
		}
	}
	return out
}

func toBudgetAlertResponses(alerts []domain.BudgetAlert) []BudgetAlertResponse {
	out := make([]BudgetAlertResponse, len(alerts))
	for i, a := range alerts {
		d := domain.ExpenseDescriptor(a.Category)
		out[i] = BudgetAlertResponse{
			Category:   string(a.Category),
			Label:      d.Label,
			Icon:       d.Icon,
			Spent:      a.Spent.StringFixed(2),
			Limit:      a.Limit.StringFixed(2),
			Percentage: a.Percentage.StringFixed(1),
			Level:      string(domain.LevelFor(a.Percentage)),
		}
	}
	return out
}

// GetBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BudgetResponse
// @Router /budgets [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	state, err := h.sessions.State(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err, "Failed to load budgets")
	}

	budgets := state.Budgets()
	out := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		out[i] = toBudgetResponse(b)
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateBudget godoc
// @Summary Set the monthly limit of an expense category
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category path string true "Expense category"
// @Param request body UpdateBudgetRequest true "New limit"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Router /budgets/{category} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	category := domain.Category(c.Param("category"))

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	limit, err := decimal.NewFromString(strings.TrimSpace(req.Limit))
	if err != nil {
		return fieldError(c, "limit", "Limit must be a valid decimal number")
	}

	state, err := h.sessions.State(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to load budgets")
	}

	if err := state.UpdateBudget(c.Request().Context(), category, limit); err != nil {
		return respondError(c, err, "Failed to update budget")
	}

	resp := toBudgetResponse(domain.Budget{Category: category, Limit: limit})
	h.publisher.Publish(userID, websocket.BudgetUpdated(resp))
	return c.JSON(http.StatusOK, resp)
}

// GetBudgetProgress godoc
// @Summary Current month budget progress
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BudgetStatusResponse
// @Router /budgets/progress [get]
func (h *BudgetHandler) GetBudgetProgress(c echo.Context) error {
	progress, err := h.dashboard.GetBudgetProgress(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err, "Failed to load budget progress")
	}
	return c.JSON(http.StatusOK, toBudgetStatusResponses(progress))
}

// GetBudgetAlerts godoc
// @Summary Budgets at or above 80% this month
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BudgetAlertResponse
// @Router /budgets/alerts [get]
func (h *BudgetHandler) GetBudgetAlerts(c echo.Context) error {
	alerts, err := h.dashboard.GetBudgetAlerts(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err, "Failed to load budget alerts")
	}
	return c.JSON(http.StatusOK, toBudgetAlertResponses(alerts))
}
