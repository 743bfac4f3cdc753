package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/knappert/spendwise/spendwise-backend/internal/testutil"
)

func TestProcessUpload_FullDocument(t *testing.T) {
	uploadRepo := testutil.NewMockUploadRepository()
	archiveRepo := testutil.NewMockArchiveRepository()
	svc := NewUploadService(uploadRepo, archiveRepo)
	userID := uuid.New()

	doc := `{
		"categories": [
			{"type": "spend", "name": "Groceries"},
			{"type": "earn", "name": "Salary"}
		],
		"bank_accounts": [{"name": "Checking"}],
		"tags": [{"name": "weekly"}],
		"transactions": [
			{"date": "2024-03-01", "type": "spend", "amount": 42.50, "category": "Groceries", "bank_account": "Checking", "tags": ["weekly"]},
			{"date": "2024-03-05", "type": "earn", "amount": 2500, "category": "Salary"}
		]
	}`

	result, err := svc.ProcessUpload(context.Background(), userID, []byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Success {
		t.Error("Expected success")
	}
	if result.CategoriesInserted != 2 {
		t.Errorf("Expected 2 categories inserted, got %d", result.CategoriesInserted)
	}
	if result.BankAccountsInserted != 1 {
		t.Errorf("Expected 1 bank account inserted, got %d", result.BankAccountsInserted)
	}
	if result.TagsInserted != 1 {
		t.Errorf("Expected 1 tag inserted, got %d", result.TagsInserted)
	}
	if result.TransactionsInserted != 2 {
		t.Errorf("Expected 2 transactions inserted, got %d", result.TransactionsInserted)
	}
	if result.Details != nil {
		t.Errorf("Expected no row errors, got %+v", result.Details)
	}
	if len(archiveRepo.Stored) != 1 {
		t.Errorf("Expected 1 archived document, got %d", len(archiveRepo.Stored))
	}
}

func TestProcessUpload_Idempotent(t *testing.T) {
	uploadRepo := testutil.NewMockUploadRepository()
	svc := NewUploadService(uploadRepo, nil)
	userID := uuid.New()

	doc := `{
		"categories": [{"type": "spend", "name": "Groceries"}],
		"transactions": [{"date": "2024-03-01", "type": "spend", "amount": 10, "category": "Groceries"}]
	}`

	first, err := svc.ProcessUpload(context.Background(), userID, []byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if first.CategoriesInserted != 1 {
		t.Errorf("Expected 1 category inserted on first run, got %d", first.CategoriesInserted)
	}

	second, err := svc.ProcessUpload(context.Background(), userID, []byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if second.CategoriesInserted != 0 {
		t.Errorf("Expected 0 categories inserted on re-run, got %d", second.CategoriesInserted)
	}
	if second.TransactionsInserted != 1 {
		t.Errorf("Expected transactions to insert again on re-run, got %d", second.TransactionsInserted)
	}
	if len(uploadRepo.Inserted[userID]) != 2 {
		t.Errorf("Expected 2 stored transactions total, got %d", len(uploadRepo.Inserted[userID]))
	}
}

func TestProcessUpload_PartialFailure(t *testing.T) {
	uploadRepo := testutil.NewMockUploadRepository()
	svc := NewUploadService(uploadRepo, nil)
	userID := uuid.New()

	// Row 2 fails field validation, row 4 fails tag resolution; rows 1 and
	// 3 must still land.
	doc := `{
		"transactions": [
			{"date": "2024-03-01", "type": "spend", "amount": 1},
			{"date": "2024-03-02", "type": "spend", "amount": -5},
			{"date": "2024-03-03", "type": "earn", "amount": 3},
			{"date": "2024-03-04", "type": "spend", "amount": 4, "tags": ["missing"]}
		]
	}`

	result, err := svc.ProcessUpload(context.Background(), userID, []byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Success {
		t.Error("Expected success despite row errors")
	}
	if result.TransactionsInserted != 2 {
		t.Errorf("Expected 2 transactions inserted, got %d", result.TransactionsInserted)
	}
	if result.Details == nil {
		t.Fatal("Expected row error details")
	}
	if len(result.Details.Transactions) != 2 {
		t.Fatalf("Expected 2 row errors, got %d", len(result.Details.Transactions))
	}
	if result.Details.Transactions[0].Index != 2 {
		t.Errorf("Expected first error at row 2, got %d", result.Details.Transactions[0].Index)
	}
	if !strings.Contains(result.Details.Transactions[0].Error, "negative") {
		t.Errorf("Unexpected error for row 2: %s", result.Details.Transactions[0].Error)
	}
	if result.Details.Transactions[1].Index != 4 {
		t.Errorf("Expected second error at row 4, got %d", result.Details.Transactions[1].Index)
	}
	if !strings.Contains(result.Details.Transactions[1].Error, `tag "missing" not found`) {
		t.Errorf("Unexpected error for row 4: %s", result.Details.Transactions[1].Error)
	}
}

func TestProcessUpload_MissingAmountIsRowError(t *testing.T) {
	uploadRepo := testutil.NewMockUploadRepository()
	svc := NewUploadService(uploadRepo, nil)
	userID := uuid.New()

	doc := `{
		"transactions": [
			{"date": "2024-03-01", "type": "spend", "amount": 1},
			{"date": "2024-03-02", "type": "spend"}
		]
	}`
	result, err := svc.ProcessUpload(context.Background(), userID, []byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.TransactionsInserted != 1 {
		t.Errorf("Expected 1 transaction inserted, got %d", result.TransactionsInserted)
	}
	if result.Details == nil || len(result.Details.Transactions) != 1 {
		t.Fatal("Expected exactly one row error")
	}
	if result.Details.Transactions[0].Index != 2 {
		t.Errorf("Expected error at row 2, got %d", result.Details.Transactions[0].Index)
	}
	if !strings.Contains(result.Details.Transactions[0].Error, "amount is required") {
		t.Errorf("Expected missing-amount error, got %s", result.Details.Transactions[0].Error)
	}
}

func TestProcessUpload_PaddedNamesResolve(t *testing.T) {
	uploadRepo := testutil.NewMockUploadRepository()
	svc := NewUploadService(uploadRepo, nil)
	userID := uuid.New()

	// The document is self-consistent modulo whitespace: the declared rows
	// and the references that point at them pad differently.
	doc := `{
		"categories": [{"type": "spend", "name": "  Groceries  "}],
		"bank_accounts": [{"name": "Checking "}],
		"tags": [{"name": " weekly"}],
		"transactions": [
			{"date": "2024-03-01", "type": "spend", "amount": 5, "category": " Groceries", "bank_account": " Checking", "tags": ["weekly "]}
		]
	}`
	result, err := svc.ProcessUpload(context.Background(), userID, []byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.TransactionsInserted != 1 {
		t.Errorf("Expected 1 transaction inserted, got %d", result.TransactionsInserted)
	}
	if result.Details != nil {
		t.Errorf("Expected no row errors, got %+v", result.Details)
	}
}

func TestProcessUpload_CategoryKindMismatch(t *testing.T) {
	uploadRepo := testutil.NewMockUploadRepository()
	svc := NewUploadService(uploadRepo, nil)
	userID := uuid.New()

	uploadRepo.AddCategory(userID, domain.TransactionTypeEarn, "Bonus")

	doc := `{"transactions": [{"date": "2024-03-01", "type": "spend", "amount": 5, "category": "Bonus"}]}`
	result, err := svc.ProcessUpload(context.Background(), userID, []byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.TransactionsInserted != 0 {
		t.Errorf("Expected 0 transactions inserted, got %d", result.TransactionsInserted)
	}
	if result.Details == nil || len(result.Details.Transactions) != 1 {
		t.Fatal("Expected exactly one row error")
	}
	if !strings.Contains(result.Details.Transactions[0].Error, `exists but not for type "spend"`) {
		t.Errorf("Expected kind mismatch error, got %s", result.Details.Transactions[0].Error)
	}
}

func TestProcessUpload_LegacyArray(t *testing.T) {
	uploadRepo := testutil.NewMockUploadRepository()
	svc := NewUploadService(uploadRepo, nil)
	userID := uuid.New()

	doc := `[
		{"date": "2024-01-01", "type": "spend", "amount": 9.99},
		{"date": "2024-01-02", "type": "save", "amount": 50}
	]`
	result, err := svc.ProcessUpload(context.Background(), userID, []byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.TransactionsInserted != 2 {
		t.Errorf("Expected 2 transactions inserted, got %d", result.TransactionsInserted)
	}
	if result.CategoriesInserted != 0 || result.BankAccountsInserted != 0 || result.TagsInserted != 0 {
		t.Error("Expected no reference inserts for a legacy array")
	}
}

func TestProcessUpload_DocumentRejected(t *testing.T) {
	uploadRepo := testutil.NewMockUploadRepository()
	svc := NewUploadService(uploadRepo, nil)
	userID := uuid.New()

	_, err := svc.ProcessUpload(context.Background(), userID, []byte(`"not a document"`))
	if !errors.Is(err, domain.ErrUploadBadShape) {
		t.Fatalf("Expected ErrUploadBadShape, got %v", err)
	}
	if len(uploadRepo.Inserted[userID]) != 0 {
		t.Error("Expected no store writes for a rejected document")
	}
}

func TestProcessUpload_StoreFailureAborts(t *testing.T) {
	uploadRepo := testutil.NewMockUploadRepository()
	uploadRepo.BulkInsertFn = func(userID uuid.UUID, batch *domain.UploadBatch) (*domain.BulkInsertResult, error) {
		return nil, errors.New("connection reset")
	}
	svc := NewUploadService(uploadRepo, nil)

	_, err := svc.ProcessUpload(context.Background(), uuid.New(),
		[]byte(`{"transactions": [{"date": "2024-03-01", "type": "spend", "amount": 1}]}`))
	if err == nil {
		t.Fatal("Expected error when the store fails")
	}
}

func TestProcessUpload_ArchiveFailureNonFatal(t *testing.T) {
	uploadRepo := testutil.NewMockUploadRepository()
	archiveRepo := testutil.NewMockArchiveRepository()
	archiveRepo.StoreFn = func(objectPath string, data []byte) (string, error) {
		return "", errors.New("bucket unavailable")
	}
	svc := NewUploadService(uploadRepo, archiveRepo)

	result, err := svc.ProcessUpload(context.Background(), uuid.New(),
		[]byte(`{"transactions": [{"date": "2024-03-01", "type": "spend", "amount": 1}]}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !result.Success {
		t.Error("Expected success when only archiving fails")
	}
}

func TestProcessUpload_UserIsolation(t *testing.T) {
	uploadRepo := testutil.NewMockUploadRepository()
	svc := NewUploadService(uploadRepo, nil)
	owner := uuid.New()
	other := uuid.New()

	uploadRepo.AddCategory(owner, domain.TransactionTypeSpend, "Groceries")

	doc := `{"transactions": [{"date": "2024-03-01", "type": "spend", "amount": 5, "category": "Groceries"}]}`
	result, err := svc.ProcessUpload(context.Background(), other, []byte(doc))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.TransactionsInserted != 0 {
		t.Error("Expected no inserts against another user's references")
	}
	if result.Details == nil || len(result.Details.Transactions) != 1 {
		t.Fatal("Expected exactly one row error")
	}
	if !strings.Contains(result.Details.Transactions[0].Error, "not found") {
		t.Errorf("Expected not-found error, got %s", result.Details.Transactions[0].Error)
	}
}
