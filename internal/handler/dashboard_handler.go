package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// TotalsResponse holds all-time totals
type TotalsResponse struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	NetWorth string `json:"netWorth"`
}

// MonthlyResponse is one point of the monthly series
type MonthlyResponse struct {
	Key      string `json:"key"`
	Month    string `json:"month"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	NetWorth string `json:"netWorth"`
}

// CategoryTotalResponse is the total of one category
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Total    string `json:"total"`
}

// DashboardResponse represents the dashboard API response
type DashboardResponse struct {
	Totals             TotalsResponse          `json:"totals"`
	SavingsRate        string                  `json:"savingsRate"`
	Monthly            []MonthlyResponse       `json:"monthly"`
	ExpenseBreakdown   []CategoryTotalResponse `json:"expenseBreakdown"`
	IncomeBreakdown    []CategoryTotalResponse `json:"incomeBreakdown"`
	BudgetProgress     []BudgetStatusResponse  `json:"budgetProgress"`
	Alerts             []BudgetAlertResponse   `json:"alerts"`
	RecentTransactions []TransactionResponse   `json:"recentTransactions"`
}

func toMonthlyResponses(months []domain.MonthlyData) []MonthlyResponse {
	out := make([]MonthlyResponse, len(months))
	for i, m := range months {
		out[i] = MonthlyResponse{
			Key:      m.Key,
			Month:    m.Month,
			Income:   m.Income.StringFixed(2),
			Expenses: m.Expenses.StringFixed(2),
			NetWorth: m.NetWorth.StringFixed(2),
		}
	}
	return out
}

func toCategoryTotalResponses(totals []domain.CategoryTotal) []CategoryTotalResponse {
	out := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		out[i] = CategoryTotalResponse{
			Category: string(t.Value),
			Label:    t.Label,
			Icon:     t.Icon,
			Total:    t.Total.StringFixed(2),
		}
	}
	return out
}

// GetDashboard godoc
// @Summary Dashboard
// @Description Totals, savings rate, monthly series, category breakdowns, budget progress, alerts and recent transactions
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 500 {object} ProblemDetails
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	userID := middleware.GetUserID(c)

	d, err := h.dashboardService.GetDashboard(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to build dashboard")
		return respondError(c, err, "Failed to load dashboard")
	}

	return c.JSON(http.StatusOK, DashboardResponse{
		Totals: TotalsResponse{
			Income:   d.Totals.Income.StringFixed(2),
			Expenses: d.Totals.Expenses.StringFixed(2),
			NetWorth: d.Totals.NetWorth.StringFixed(2),
		},
		SavingsRate:        d.SavingsRate.StringFixed(1),
		Monthly:            toMonthlyResponses(d.Monthly),
		ExpenseBreakdown:   toCategoryTotalResponses(d.ExpenseBreakdown),
		IncomeBreakdown:    toCategoryTotalResponses(d.IncomeBreakdown),
		BudgetProgress:     toBudgetStatusResponses(d.BudgetProgress),
		Alerts:             toBudgetAlertResponses(d.Alerts),
		RecentTransactions: toTransactionResponses(d.RecentTransactions),
	})
}

// GetMonthly godoc
// @Summary Monthly income, expenses and cumulative net worth
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} MonthlyResponse
// @Router /dashboard/monthly [get]
func (h *DashboardHandler) GetMonthly(c echo.Context) error {
	months, err := h.dashboardService.GetMonthly(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err, "Failed to load monthly data")
	}
	return c.JSON(http.StatusOK, toMonthlyResponses(months))
}

// GetCategoryTotals godoc
// @Summary Per-category totals
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param type query string false "income or expense" default(expense)
// @Success 200 {array} CategoryTotalResponse
// @Failure 400 {object} ProblemDetails
// @Router /dashboard/categories [get]
func (h *DashboardHandler) GetCategoryTotals(c echo.Context) error {
	txType := domain.TransactionTypeExpense
	if raw := c.QueryParam("type"); raw != "" {
		txType = domain.TransactionType(raw)
	}

	totals, err := h.dashboardService.GetCategoryTotals(c.Request().Context(), middleware.GetUserID(c), txType)
	if err != nil {
		return respondError(c, err, "Failed to load category totals")
	}
	return c.JSON(http.StatusOK, toCategoryTotalResponses(totals))
}
