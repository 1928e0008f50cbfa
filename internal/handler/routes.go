package handler

import (
	"github.com/dafibh/fortuna/fortuna-ledger/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	categoryHandler *CategoryHandler,
	transactionHandler *TransactionHandler,
	budgetHandler *BudgetHandler,
	dashboardHandler *DashboardHandler,
	backupHandler *BackupHandler,
) {
	api := e.Group("/api/v1")
	limited := middleware.RateLimitMiddleware(rateLimiter)

	// Auth routes: the subject may not be provisioned yet
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	// Everything below requires a provisioned user
	protected := api.Group("")
	protected.Use(authMiddleware.Authenticate(), middleware.RequireUser())

	protected.GET("/categories", categoryHandler.GetCategories)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.POST("", transactionHandler.CreateTransaction, limited)
	transactions.DELETE("", transactionHandler.ResetTransactions, limited)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction, limited)

	budgets := protected.Group("/budgets")
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/progress", budgetHandler.GetBudgetProgress)
	budgets.GET("/alerts", budgetHandler.GetBudgetAlerts)
	budgets.PUT("/:category", budgetHandler.UpdateBudget, limited)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("", dashboardHandler.GetDashboard)
	dashboard.GET("/monthly", dashboardHandler.GetMonthly)
	dashboard.GET("/categories", dashboardHandler.GetCategoryTotals)

	protected.POST("/backups", backupHandler.CreateBackup, limited)
}
