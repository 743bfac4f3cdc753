package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
)

// BankAccountService handles bank-account-related business logic
type BankAccountService struct {
	bankAccountRepo domain.BankAccountRepository
}

// NewBankAccountService creates a new BankAccountService
func NewBankAccountService(bankAccountRepo domain.BankAccountRepository) *BankAccountService {
	return &BankAccountService{bankAccountRepo: bankAccountRepo}
}

// CreateBankAccount creates a new bank account
func (s *BankAccountService) CreateBankAccount(ctx context.Context, userID uuid.UUID, name string, description *string) (*domain.BankAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	account := &domain.BankAccount{
		UserID:      userID,
		Name:        name,
		Description: description,
	}

	return s.bankAccountRepo.Create(ctx, account)
}

// GetBankAccounts retrieves the user's bank accounts with usage counts
func (s *BankAccountService) GetBankAccounts(ctx context.Context, userID uuid.UUID) ([]*domain.BankAccount, error) {
	return s.bankAccountRepo.ListWithUsage(ctx, userID)
}

// GetBankAccountByID retrieves one of the user's bank accounts
func (s *BankAccountService) GetBankAccountByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.BankAccount, error) {
	return s.bankAccountRepo.GetByID(ctx, userID, id)
}

// UpdateBankAccount updates a bank account's name and description
func (s *BankAccountService) UpdateBankAccount(ctx context.Context, userID uuid.UUID, id uuid.UUID, name string, description *string) (*domain.BankAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	return s.bankAccountRepo.Update(ctx, userID, id, &domain.UpdateReferenceData{
		Name:        name,
		Description: description,
	})
}

// DeleteBankAccount deletes a bank account unless transactions still
// reference it.
func (s *BankAccountService) DeleteBankAccount(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	ok, inUse, err := s.bankAccountRepo.SafeDelete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ErrInUse{Count: inUse}
	}
	return nil
}
