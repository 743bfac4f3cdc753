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

func TestGetMonthlyTotals(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewDashboardService(transactionRepo)
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: uuid.New(), UserID: userID,
		Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Type: domain.TransactionTypeSpend, Amount: decimal.NewFromInt(10),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: uuid.New(), UserID: userID,
		Date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Type: domain.TransactionTypeSpend, Amount: decimal.NewFromInt(5),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: uuid.New(), UserID: userID,
		Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Type: domain.TransactionTypeEarn, Amount: decimal.NewFromInt(100),
	})

	year := 2024
	totals, err := svc.GetMonthlyTotals(context.Background(), userID, &year, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("Expected 2 buckets, got %d", len(totals))
	}
	if totals[0].Month != 3 || totals[0].Total.StringFixed(2) != "15.00" {
		t.Errorf("Unexpected first bucket: %+v", totals[0])
	}
	if totals[1].Month != 4 || totals[1].Type != domain.TransactionTypeEarn {
		t.Errorf("Unexpected second bucket: %+v", totals[1])
	}
}

func TestGetMonthlyTotals_InvalidMonth(t *testing.T) {
	svc := NewDashboardService(testutil.NewMockTransactionRepository())

	month := 13
	_, err := svc.GetMonthlyTotals(context.Background(), uuid.New(), nil, &month)
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Errorf("Expected ErrInvalidDate, got %v", err)
	}
}

func TestGetMonthSummary(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewDashboardService(transactionRepo)
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: uuid.New(), UserID: userID,
		Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Type: domain.TransactionTypeSpend, Amount: decimal.RequireFromString("12.50"),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: uuid.New(), UserID: userID,
		Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Type: domain.TransactionTypeEarn, Amount: decimal.NewFromInt(2000),
	})
	// Previous month
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: uuid.New(), UserID: userID,
		Date: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		Type: domain.TransactionTypeSpend, Amount: decimal.NewFromInt(40),
	})
	// Outside both months
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: uuid.New(), UserID: userID,
		Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Type: domain.TransactionTypeSpend, Amount: decimal.NewFromInt(99),
	})

	year, month := 2024, 3
	summary, err := svc.GetMonthSummary(context.Background(), userID, &year, &month)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Current.Spend.StringFixed(2) != "12.50" {
		t.Errorf("Expected spend 12.50, got %s", summary.Current.Spend.StringFixed(2))
	}
	if summary.Current.Earn.StringFixed(2) != "2000.00" {
		t.Errorf("Expected earn 2000.00, got %s", summary.Current.Earn.StringFixed(2))
	}
	if !summary.Current.Save.IsZero() {
		t.Errorf("Expected save 0, got %s", summary.Current.Save.String())
	}
	if summary.Previous.Year != 2024 || summary.Previous.Month != 2 {
		t.Errorf("Expected previous period 2024-02, got %d-%02d", summary.Previous.Year, summary.Previous.Month)
	}
	if summary.Previous.Spend.StringFixed(2) != "40.00" {
		t.Errorf("Expected previous spend 40.00, got %s", summary.Previous.Spend.StringFixed(2))
	}
}

func TestGetMonthSummary_JanuaryComparesAgainstDecember(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewDashboardService(transactionRepo)
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: uuid.New(), UserID: userID,
		Date: time.Date(2023, 12, 24, 0, 0, 0, 0, time.UTC),
		Type: domain.TransactionTypeSpend, Amount: decimal.NewFromInt(250),
	})

	year, month := 2024, 1
	summary, err := svc.GetMonthSummary(context.Background(), userID, &year, &month)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Previous.Year != 2023 || summary.Previous.Month != 12 {
		t.Errorf("Expected previous period 2023-12, got %d-%02d", summary.Previous.Year, summary.Previous.Month)
	}
	if summary.Previous.Spend.StringFixed(2) != "250.00" {
		t.Errorf("Expected previous spend 250.00, got %s", summary.Previous.Spend.StringFixed(2))
	}
}

func TestGetTaggedTotals(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewDashboardService(transactionRepo)
	userID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: uuid.New(), UserID: userID, Date: date,
		Type: domain.TransactionTypeSpend, Amount: decimal.NewFromInt(30),
		Tags: []string{"vacation"},
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: uuid.New(), UserID: userID, Date: date,
		Type: domain.TransactionTypeSpend, Amount: decimal.NewFromInt(7),
		Tags: []string{"groceries"},
	})

	totals, err := svc.GetTaggedTotals(context.Background(), userID, []string{"vacation"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(totals) != 1 {
		t.Fatalf("Expected 1 bucket, got %d", len(totals))
	}
	if totals[0].Total.StringFixed(2) != "30.00" {
		t.Errorf("Expected 30.00, got %s", totals[0].Total.StringFixed(2))
	}
}
