package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/knappert/spendwise/spendwise-backend/internal/service"
	"github.com/knappert/spendwise/spendwise-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

func TestResetData_RequiresConfirmation(t *testing.T) {
	repo := testutil.NewMockMaintenanceRepository()
	handler := NewMaintenanceHandler(service.NewMaintenanceService(repo))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/maintenance/reset", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := handler.ResetData(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if len(repo.Calls) != 0 {
		t.Error("Expected no reset without confirmation")
	}
}

func TestResetData_ReportsCounts(t *testing.T) {
	repo := testutil.NewMockMaintenanceRepository()
	repo.Result = &domain.ResetResult{
		TransactionsDeleted: 7,
		CategoriesDeleted:   2,
		TagsDeleted:         1,
		BankAccountsDeleted: 1,
	}
	handler := NewMaintenanceHandler(service.NewMaintenanceService(repo))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/maintenance/reset", strings.NewReader(`{"confirm": true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := handler.ResetData(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["success"] != true {
		t.Error("Expected success")
	}
	if response["transactions_deleted"].(float64) != 7 {
		t.Errorf("Expected 7 transactions deleted, got %v", response["transactions_deleted"])
	}
	if response["bank_accounts_deleted"].(float64) != 1 {
		t.Errorf("Expected 1 bank account deleted, got %v", response["bank_accounts_deleted"])
	}
}
