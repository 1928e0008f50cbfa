package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBudgets_SeedsDefaults(t *testing.T) {
	f := newLedgerFixture(t)
	h := NewBudgetHandler(f.sessions, f.dashboard, f.publisher)

	c, rec := f.request(http.MethodGet, "/api/v1/budgets", nil)
	require.NoError(t, h.GetBudgets(c))

	var resp []BudgetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, len(domain.DefaultBudgets()))
	assert.Equal(t, "rent", resp[0].Category)
	assert.Equal(t, "Rent/Mortgage", resp[0].Label)
	assert.Equal(t, "40000.00", resp[0].Limit)
}

func TestUpdateBudget(t *testing.T) {
	f := newLedgerFixture(t)
	h := NewBudgetHandler(f.sessions, f.dashboard, f.publisher)

	c, rec := f.request(http.MethodPut, "/api/v1/budgets/food", strings.NewReader(`{"limit": "500"}`))
	c.SetParamNames("category")
	c.SetParamValues("food")

	require.NoError(t, h.UpdateBudget(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp BudgetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "500.00", resp.Limit)
	assert.Equal(t, []string{"budget.updated"}, f.publisher.types())
	assert.Contains(t, f.notifier.Titles(), "📊 Budget Updated")
}

func TestUpdateBudget_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		category string
		body     string
		field    string
	}{
		{"income category", "salary", `{"limit": "100"}`, "category"},
		{"negative limit", "food", `{"limit": "-1"}`, "limit"},
		{"unparsable limit", "food", `{"limit": "lots"}`, "limit"},
		{"huge exponent", "food", `{"limit": "1e50000000"}`, "limit"},
		{"three decimal places", "food", `{"limit": "100.555"}`, "limit"},
		{"beyond storage", "food", `{"limit": "1e13"}`, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			h := NewBudgetHandler(f.sessions, f.dashboard, f.publisher)
			c, rec := f.request(http.MethodPut, "/api/v1/budgets/"+tt.category, strings.NewReader(tt.body))
			c.SetParamNames("category")
			c.SetParamValues(tt.category)

			require.NoError(t, h.UpdateBudget(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var problem ProblemDetails
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			require.Len(t, problem.Errors, 1)
			assert.Equal(t, tt.field, problem.Errors[0].Field)
			assert.Empty(t, f.publisher.types())
		})
	}
}

func TestBudgetProgressAndAlerts(t *testing.T) {
	f := newLedgerFixture(t)
	f.budgets.SetBudgets(f.userID, domain.Budget{Category: domain.CategoryFood, Limit: decimal.NewFromInt(500)})
	h := NewBudgetHandler(f.sessions, f.dashboard, f.publisher)
	state, err := f.sessions.State(t.Context(), f.userID)
	require.NoError(t, err)
	_, err = state.AddTransaction(t.Context(), domain.NewTransactionInput{
		Type: domain.TransactionTypeExpense, Amount: decimal.NewFromInt(450),
		Category: domain.CategoryFood, Description: "Groceries", Date: testNow,
	})
	require.NoError(t, err)

	c, rec := f.request(http.MethodGet, "/api/v1/budgets/progress", nil)
	require.NoError(t, h.GetBudgetProgress(c))
	var progress []BudgetStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	require.Len(t, progress, 1)
	assert.Equal(t, "90.0", progress[0].Percentage)
	assert.Equal(t, "50.00", progress[0].Remaining)
	assert.Equal(t, "warning", progress[0].Status)

	c, rec = f.request(http.MethodGet, "/api/v1/budgets/alerts", nil)
	require.NoError(t, h.GetBudgetAlerts(c))
	var alerts []BudgetAlertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "food", alerts[0].Category)
	assert.Equal(t, "warning", alerts[0].Level)
}
