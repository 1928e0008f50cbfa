package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/labstack/echo/v4"
)

// CategoryHandler serves the fixed category registry
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoriesResponse lists the categories of both transaction types in display order
type CategoriesResponse struct {
	Income  []domain.CategoryDescriptor `json:"income"`
	Expense []domain.CategoryDescriptor `json:"expense"`
}

// GetCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param type query string false "income or expense"
// @Success 200 {object} CategoriesResponse
// @Failure 400 {object} ProblemDetails
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	if raw := c.QueryParam("type"); raw != "" {
		txType := domain.TransactionType(raw)
		if !txType.IsValid() {
			return fieldError(c, "type", domain.ErrInvalidTransactionType.Error())
		}
		return c.JSON(http.StatusOK, domain.CategoriesFor(txType))
	}

	return c.JSON(http.StatusOK, CategoriesResponse{
		Income:  domain.CategoriesFor(domain.TransactionTypeIncome),
		Expense: domain.CategoriesFor(domain.TransactionTypeExpense),
	})
}
