package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	bankAccountRepo domain.BankAccountRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository, bankAccountRepo domain.BankAccountRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		bankAccountRepo: bankAccountRepo,
	}
}

// TransactionInput holds the input for creating or updating a transaction
type TransactionInput struct {
	Date          time.Time
	Type          domain.TransactionType
	Amount        decimal.Decimal
	CategoryID    *uuid.UUID
	BankAccountID *uuid.UUID
	TagIDs        []uuid.UUID
	Notes         *string
}

// validate checks the fields and the category/bank account references. A
// category of a different kind than the transaction is a mismatch, not a
// lookup failure.
func (s *TransactionService) validate(ctx context.Context, userID uuid.UUID, input TransactionInput) error {
	if input.Date.IsZero() {
		return domain.ErrInvalidDate
	}
	if !domain.ValidTransactionType(input.Type) {
		return domain.ErrInvalidType
	}
	if input.Amount.IsNegative() || input.Amount.Exponent() < -2 {
		return domain.ErrInvalidAmount
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, userID, *input.CategoryID)
		if err != nil {
			return err
		}
		if category.Type != input.Type {
			return domain.ErrTypeMismatch
		}
	}
	if input.BankAccountID != nil {
		if _, err := s.bankAccountRepo.GetByID(ctx, userID, *input.BankAccountID); err != nil {
			return err
		}
	}
	return nil
}

// CreateTransaction creates a new transaction
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	if err := s.validate(ctx, userID, input); err != nil {
		return nil, err
	}

	return s.transactionRepo.Create(ctx, userID, &domain.UpdateTransactionData{
		Date:          input.Date,
		Type:          input.Type,
		Amount:        input.Amount,
		CategoryID:    input.CategoryID,
		BankAccountID: input.BankAccountID,
		TagIDs:        input.TagIDs,
		Notes:         input.Notes,
	})
}

// GetTransactionByID retrieves one of the user's transactions
func (s *TransactionService) GetTransactionByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, userID, id)
}

// GetTransactions retrieves the user's transactions with filters and
// pagination.
func (s *TransactionService) GetTransactions(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters != nil && filters.Type != nil && !domain.ValidTransactionType(*filters.Type) {
		return nil, domain.ErrInvalidType
	}
	return s.transactionRepo.List(ctx, userID, filters)
}

// UpdateTransaction updates a transaction
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID uuid.UUID, id uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	if err := s.validate(ctx, userID, input); err != nil {
		return nil, err
	}

	return s.transactionRepo.Update(ctx, userID, id, &domain.UpdateTransactionData{
		Date:          input.Date,
		Type:          input.Type,
		Amount:        input.Amount,
		CategoryID:    input.CategoryID,
		BankAccountID: input.BankAccountID,
		TagIDs:        input.TagIDs,
		Notes:         input.Notes,
	})
}

// DeleteTransaction deletes one of the user's transactions
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	return s.transactionRepo.Delete(ctx, userID, id)
}

// DeleteTransactions deletes a batch of the user's transactions and returns
// how many rows actually went away. Ids that don't exist or belong to
// someone else are simply not counted.
func (s *TransactionService) DeleteTransactions(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ErrInvalidInput
	}
	return s.transactionRepo.DeleteMany(ctx, userID, ids)
}

// SumTransactions totals the user's transactions matching the filters
func (s *TransactionService) SumTransactions(ctx context.Context, userID uuid.UUID, filters *domain.SumFilters) (decimal.Decimal, error) {
	if filters != nil && filters.Type != nil && !domain.ValidTransactionType(*filters.Type) {
		return decimal.Zero, domain.ErrInvalidType
	}
	return s.transactionRepo.Sum(ctx, userID, filters)
}
