package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/knappert/spendwise/spendwise-backend/internal/middleware"
	"github.com/knappert/spendwise/spendwise-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	Date          string   `json:"date"`
	Type          string   `json:"type"`
	Amount        string   `json:"amount"`
	CategoryID    *string  `json:"categoryId,omitempty"`
	BankAccountID *string  `json:"bankAccountId,omitempty"`
	TagIDs        []string `json:"tagIds,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            string   `json:"id"`
	Date          string   `json:"date"`
	Type          string   `json:"type"`
	Amount        string   `json:"amount"`
	CategoryID    *string  `json:"categoryId,omitempty"`
	BankAccountID *string  `json:"bankAccountId,omitempty"`
	Tags          []string `json:"tags"`
	Notes         *string  `json:"notes,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents a page of transactions
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// BulkDeleteRequest represents the bulk delete request body
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// SumResponse represents the filtered amount total
type SumResponse struct {
	Total string `json:"total"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:        t.ID.String(),
		Date:      t.Date.Format("2006-01-02"),
		Type:      string(t.Type),
		Amount:    t.Amount.StringFixed(2),
		Tags:      t.Tags,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if t.CategoryID != nil {
		id := t.CategoryID.String()
		resp.CategoryID = &id
	}
	if t.BankAccountID != nil {
		id := t.BankAccountID.String()
		resp.BankAccountID = &id
	}
	return resp
}

func parseTransactionRequest(req TransactionRequest) (service.TransactionInput, *ValidationError) {
	input := service.TransactionInput{
		Type:  domain.TransactionType(req.Type),
		Notes: req.Notes,
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return input, &ValidationError{Field: "date", Message: "Must be a valid YYYY-MM-DD date"}
	}
	input.Date = date

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return input, &ValidationError{Field: "amount", Message: "Must be a valid decimal number"}
	}
	input.Amount = amount

	if req.CategoryID != nil && *req.CategoryID != "" {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return input, &ValidationError{Field: "categoryId", Message: "Must be a valid id"}
		}
		input.CategoryID = &id
	}
	if req.BankAccountID != nil && *req.BankAccountID != "" {
		id, err := uuid.Parse(*req.BankAccountID)
		if err != nil {
			return input, &ValidationError{Field: "bankAccountId", Message: "Must be a valid id"}
		}
		input.BankAccountID = &id
	}
	for _, raw := range req.TagIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return input, &ValidationError{Field: "tagIds", Message: "Must be a list of valid ids"}
		}
		input.TagIDs = append(input.TagIDs, id)
	}

	return input, nil
}

func (h *TransactionHandler) writeServiceError(c echo.Context, userID uuid.UUID, action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Must be a valid YYYY-MM-DD date"},
		})
	case errors.Is(err, domain.ErrInvalidType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be one of: spend, earn, save"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be non-negative with at most 2 decimal places"},
		})
	case errors.Is(err, domain.ErrTypeMismatch):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category type does not match transaction type"},
		})
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category not found"},
		})
	case errors.Is(err, domain.ErrBankAccountNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "bankAccountId", Message: "Bank account not found"},
		})
	case errors.Is(err, domain.ErrTagNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "tagIds", Message: "One or more tags not found"},
		})
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	}
	log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action)
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, vErr := parseTransactionRequest(req)
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, input)
	if err != nil {
		return h.writeServiceError(c, userID, "create transaction", err)
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction id", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request().Context(), userID, id)
	if err != nil {
		return h.writeServiceError(c, userID, "get transaction", err)
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, vErr := parseTransactionFilters(c)
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	page, err := h.transactionService.GetTransactions(c.Request().Context(), userID, filters)
	if err != nil {
		return h.writeServiceError(c, userID, "list transactions", err)
	}

	response := PaginatedTransactionsResponse{
		Data:       make([]TransactionResponse, 0, len(page.Data)),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
	for _, transaction := range page.Data {
		response.Data = append(response.Data, toTransactionResponse(transaction))
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction id", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, vErr := parseTransactionRequest(req)
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), userID, id, input)
	if err != nil {
		return h.writeServiceError(c, userID, "update transaction", err)
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction id", nil)
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), userID, id); err != nil {
		return h.writeServiceError(c, userID, "delete transaction", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// BulkDeleteTransactions handles POST /api/v1/transactions/bulk-delete
func (h *TransactionHandler) BulkDeleteTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "ids", Message: "Must be a list of valid ids"},
			})
		}
		ids = append(ids, id)
	}

	deleted, err := h.transactionService.DeleteTransactions(c.Request().Context(), userID, ids)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "ids", Message: "At least one id is required"},
			})
		}
		return h.writeServiceError(c, userID, "delete transactions", err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}

// SumTransactions handles GET /api/v1/transactions/sum
func (h *TransactionHandler) SumTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, vErr := parseTransactionFilters(c)
	if vErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*vErr})
	}

	sumFilters := &domain.SumFilters{}
	if filters != nil {
		sumFilters.From = filters.From
		sumFilters.To = filters.To
		sumFilters.Type = filters.Type
		sumFilters.CategoryID = filters.CategoryID
		sumFilters.BankAccountID = filters.BankAccountID
		sumFilters.TagsAny = filters.TagsAny
		sumFilters.TagsAll = filters.TagsAll
	}

	total, err := h.transactionService.SumTransactions(c.Request().Context(), userID, sumFilters)
	if err != nil {
		return h.writeServiceError(c, userID, "sum transactions", err)
	}

	return c.JSON(http.StatusOK, SumResponse{Total: total.StringFixed(2)})
}

// parseTransactionFilters reads the shared filter query params
func parseTransactionFilters(c echo.Context) (*domain.TransactionFilters, *ValidationError) {
	filters := &domain.TransactionFilters{}

	if from := c.QueryParam("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, &ValidationError{Field: "from", Message: "Must be a valid YYYY-MM-DD date"}
		}
		filters.From = &parsed
	}
	if to := c.QueryParam("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, &ValidationError{Field: "to", Message: "Must be a valid YYYY-MM-DD date"}
		}
		filters.To = &parsed
	}
	if t := c.QueryParam("type"); t != "" {
		parsed := domain.TransactionType(t)
		filters.Type = &parsed
	}
	if raw := c.QueryParam("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, &ValidationError{Field: "categoryId", Message: "Must be a valid id"}
		}
		filters.CategoryID = &id
	}
	if raw := c.QueryParam("bankAccountId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, &ValidationError{Field: "bankAccountId", Message: "Must be a valid id"}
		}
		filters.BankAccountID = &id
	}
	if raw := c.QueryParam("tagsAny"); raw != "" {
		filters.TagsAny = splitTags(raw)
	}
	if raw := c.QueryParam("tagsAll"); raw != "" {
		filters.TagsAll = splitTags(raw)
	}
	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || page < 1 {
			return nil, &ValidationError{Field: "page", Message: "Must be a positive integer"}
		}
		filters.Page = int32(page)
	}
	if raw := c.QueryParam("pageSize"); raw != "" {
		pageSize, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || pageSize < 1 {
			return nil, &ValidationError{Field: "pageSize", Message: "Must be a positive integer"}
		}
		filters.PageSize = int32(pageSize)
	}

	return filters, nil
}

func splitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
