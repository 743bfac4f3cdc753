package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/knappert/spendwise/spendwise-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newTransactionService() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository, *testutil.MockBankAccountRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	bankAccountRepo := testutil.NewMockBankAccountRepository()
	return NewTransactionService(transactionRepo, categoryRepo, bankAccountRepo), transactionRepo, categoryRepo, bankAccountRepo
}

func TestCreateTransaction_Success(t *testing.T) {
	svc, transactionRepo, categoryRepo, _ := newTransactionService()
	userID := uuid.New()

	category := &domain.Category{ID: uuid.New(), UserID: userID, Type: domain.TransactionTypeSpend, Name: "Groceries"}
	categoryRepo.AddCategory(category)

	transaction, err := svc.CreateTransaction(context.Background(), userID, TransactionInput{
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:       domain.TransactionTypeSpend,
		Amount:     decimal.RequireFromString("42.50"),
		CategoryID: &category.ID,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if transaction.UserID != userID {
		t.Error("Expected transaction scoped to user")
	}
	if len(transactionRepo.Transactions) != 1 {
		t.Errorf("Expected 1 stored transaction, got %d", len(transactionRepo.Transactions))
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	svc, _, _, _ := newTransactionService()
	userID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   TransactionInput
		wantErr error
	}{
		{
			"zero date",
			TransactionInput{Type: domain.TransactionTypeSpend, Amount: decimal.NewFromInt(1)},
			domain.ErrInvalidDate,
		},
		{
			"bad type",
			TransactionInput{Date: date, Type: "transfer", Amount: decimal.NewFromInt(1)},
			domain.ErrInvalidType,
		},
		{
			"negative amount",
			TransactionInput{Date: date, Type: domain.TransactionTypeSpend, Amount: decimal.NewFromInt(-1)},
			domain.ErrInvalidAmount,
		},
		{
			"three decimal places",
			TransactionInput{Date: date, Type: domain.TransactionTypeSpend, Amount: decimal.RequireFromString("1.999")},
			domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTransaction(context.Background(), userID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateTransaction_CategoryKindMismatch(t *testing.T) {
	svc, _, categoryRepo, _ := newTransactionService()
	userID := uuid.New()

	category := &domain.Category{ID: uuid.New(), UserID: userID, Type: domain.TransactionTypeEarn, Name: "Bonus"}
	categoryRepo.AddCategory(category)

	_, err := svc.CreateTransaction(context.Background(), userID, TransactionInput{
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:       domain.TransactionTypeSpend,
		Amount:     decimal.NewFromInt(5),
		CategoryID: &category.ID,
	})
	if !errors.Is(err, domain.ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch, got %v", err)
	}
}

func TestCreateTransaction_ForeignCategoryRejected(t *testing.T) {
	svc, _, categoryRepo, _ := newTransactionService()
	owner := uuid.New()
	other := uuid.New()

	category := &domain.Category{ID: uuid.New(), UserID: owner, Type: domain.TransactionTypeSpend, Name: "Groceries"}
	categoryRepo.AddCategory(category)

	_, err := svc.CreateTransaction(context.Background(), other, TransactionInput{
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:       domain.TransactionTypeSpend,
		Amount:     decimal.NewFromInt(5),
		CategoryID: &category.ID,
	})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestDeleteTransactions_CountsOnlyOwnRows(t *testing.T) {
	svc, transactionRepo, _, _ := newTransactionService()
	owner := uuid.New()
	other := uuid.New()

	mine := &domain.Transaction{ID: uuid.New(), UserID: owner, Type: domain.TransactionTypeSpend, Amount: decimal.NewFromInt(1)}
	theirs := &domain.Transaction{ID: uuid.New(), UserID: other, Type: domain.TransactionTypeSpend, Amount: decimal.NewFromInt(2)}
	transactionRepo.AddTransaction(mine)
	transactionRepo.AddTransaction(theirs)

	deleted, err := svc.DeleteTransactions(context.Background(), owner, []uuid.UUID{mine.ID, theirs.ID, uuid.New()})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deletion, got %d", deleted)
	}
	if _, ok := transactionRepo.Transactions[theirs.ID]; !ok {
		t.Error("Expected other user's transaction to survive")
	}
}

func TestDeleteTransactions_EmptyIsInvalid(t *testing.T) {
	svc, _, _, _ := newTransactionService()

	_, err := svc.DeleteTransactions(context.Background(), uuid.New(), nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestSumTransactions_TypeFilter(t *testing.T) {
	svc, transactionRepo, _, _ := newTransactionService()
	userID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	transactionRepo.AddTransaction(&domain.Transaction{ID: uuid.New(), UserID: userID, Date: date, Type: domain.TransactionTypeSpend, Amount: decimal.RequireFromString("10.50")})
	transactionRepo.AddTransaction(&domain.Transaction{ID: uuid.New(), UserID: userID, Date: date, Type: domain.TransactionTypeSpend, Amount: decimal.RequireFromString("4.50")})
	transactionRepo.AddTransaction(&domain.Transaction{ID: uuid.New(), UserID: userID, Date: date, Type: domain.TransactionTypeEarn, Amount: decimal.NewFromInt(100)})

	spend := domain.TransactionTypeSpend
	total, err := svc.SumTransactions(context.Background(), userID, &domain.SumFilters{Type: &spend})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if total.StringFixed(2) != "15.00" {
		t.Errorf("Expected 15.00, got %s", total.StringFixed(2))
	}
}
