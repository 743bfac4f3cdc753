package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/knappert/spendwise/spendwise-backend/internal/middleware"
	"github.com/knappert/spendwise/spendwise-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// BankAccountHandler handles bank-account-related HTTP requests
type BankAccountHandler struct {
	bankAccountService *service.BankAccountService
}

// NewBankAccountHandler creates a new BankAccountHandler
func NewBankAccountHandler(bankAccountService *service.BankAccountService) *BankAccountHandler {
	return &BankAccountHandler{bankAccountService: bankAccountService}
}

// BankAccountRequest represents the create/update bank account request body
type BankAccountRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// BankAccountResponse represents a bank account in API responses
type BankAccountResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	InUseCount  int64   `json:"inUseCount"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toBankAccountResponse(a *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:          a.ID.String(),
		Name:        a.Name,
		Description: a.Description,
		InUseCount:  a.InUseCount,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateBankAccount handles POST /api/v1/bank-accounts
func (h *BankAccountHandler) CreateBankAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req BankAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := h.bankAccountService.CreateBankAccount(c.Request().Context(), userID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			return NewConflictError(c, "A bank account with this name already exists")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create bank account")
		return NewInternalError(c, "Failed to create bank account")
	}

	return c.JSON(http.StatusCreated, toBankAccountResponse(account))
}

// GetBankAccounts handles GET /api/v1/bank-accounts
func (h *BankAccountHandler) GetBankAccounts(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	accounts, err := h.bankAccountService.GetBankAccounts(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list bank accounts")
		return NewInternalError(c, "Failed to list bank accounts")
	}

	response := make([]BankAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, toBankAccountResponse(account))
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateBankAccount handles PUT /api/v1/bank-accounts/:id
func (h *BankAccountHandler) UpdateBankAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bank account id", nil)
	}

	var req BankAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := h.bankAccountService.UpdateBankAccount(c.Request().Context(), userID, id, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrBankAccountNotFound) {
			return NewNotFoundError(c, "Bank account not found")
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			return NewConflictError(c, "A bank account with this name already exists")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update bank account")
		return NewInternalError(c, "Failed to update bank account")
	}

	return c.JSON(http.StatusOK, toBankAccountResponse(account))
}

// DeleteBankAccount handles DELETE /api/v1/bank-accounts/:id
func (h *BankAccountHandler) DeleteBankAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bank account id", nil)
	}

	if err := h.bankAccountService.DeleteBankAccount(c.Request().Context(), userID, id); err != nil {
		var inUse *domain.ErrInUse
		if errors.As(err, &inUse) {
			return NewConflictError(c, inUseDetail("bank account", inUse.Count))
		}
		if errors.Is(err, domain.ErrBankAccountNotFound) {
			return NewNotFoundError(c, "Bank account not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to delete bank account")
		return NewInternalError(c, "Failed to delete bank account")
	}

	return c.NoContent(http.StatusNoContent)
}
