package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/middleware"
	"github.com/knappert/spendwise/spendwise-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// MaintenanceHandler handles account-wide data operations
type MaintenanceHandler struct {
	maintenanceService *service.MaintenanceService
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(maintenanceService *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

// ResetRequest represents the reset confirmation body
type ResetRequest struct {
	Confirm bool `json:"confirm"`
}

// ResetData handles POST /api/v1/maintenance/reset. The body must carry an
// explicit confirmation; there is no undo.
func (h *MaintenanceHandler) ResetData(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req ResetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if !req.Confirm {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "confirm", Message: "Reset must be explicitly confirmed"},
		})
	}

	result, err := h.maintenanceService.ResetData(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to reset data")
		return NewInternalError(c, "Failed to reset data")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":               true,
		"transactions_deleted":  result.TransactionsDeleted,
		"categories_deleted":    result.CategoriesDeleted,
		"tags_deleted":          result.TagsDeleted,
		"bank_accounts_deleted": result.BankAccountsDeleted,
	})
}
