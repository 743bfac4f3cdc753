package handler

import (
	"github.com/knappert/spendwise/spendwise-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, categoryHandler *CategoryHandler, bankAccountHandler *BankAccountHandler, tagHandler *TagHandler, transactionHandler *TransactionHandler, uploadHandler *UploadHandler, dashboardHandler *DashboardHandler, maintenanceHandler *MaintenanceHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate())
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Bank account routes (protected)
	bankAccounts := api.Group("/bank-accounts")
	bankAccounts.Use(authMiddleware.Authenticate())
	bankAccounts.POST("", bankAccountHandler.CreateBankAccount)
	bankAccounts.GET("", bankAccountHandler.GetBankAccounts)
	bankAccounts.PUT("/:id", bankAccountHandler.UpdateBankAccount)
	bankAccounts.DELETE("/:id", bankAccountHandler.DeleteBankAccount)

	// Tag routes (protected)
	tags := api.Group("/tags")
	tags.Use(authMiddleware.Authenticate())
	tags.POST("", tagHandler.CreateTag)
	tags.GET("", tagHandler.GetTags)
	tags.PUT("/:id", tagHandler.UpdateTag)
	tags.DELETE("/:id", tagHandler.DeleteTag)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/sum", transactionHandler.SumTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/bulk-delete", transactionHandler.BulkDeleteTransactions, middleware.RateLimitMiddleware(rateLimiter))

	// Upload routes (protected, rate limited)
	uploads := api.Group("/uploads")
	uploads.Use(authMiddleware.Authenticate())
	uploads.Use(middleware.RateLimitMiddleware(rateLimiter))
	uploads.POST("", uploadHandler.Upload)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(authMiddleware.Authenticate())
	dashboard.GET("/summary", dashboardHandler.GetSummary)
	dashboard.GET("/monthly", dashboardHandler.GetMonthlyTotals)
	dashboard.GET("/yearly", dashboardHandler.GetYearlyTotals)
	dashboard.GET("/monthly-categories", dashboardHandler.GetMonthlyCategoryTotals)
	dashboard.GET("/yearly-categories", dashboardHandler.GetYearlyCategoryTotals)
	dashboard.GET("/tagged", dashboardHandler.GetTaggedTotals)

	// Maintenance routes (protected, rate limited)
	maintenance := api.Group("/maintenance")
	maintenance.Use(authMiddleware.Authenticate())
	maintenance.POST("/reset", maintenanceHandler.ResetData, middleware.RateLimitMiddleware(rateLimiter))
}
