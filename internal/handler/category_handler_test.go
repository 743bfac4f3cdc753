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

func TestCreateCategory_Created(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	handler := NewCategoryHandler(service.NewCategoryService(repo))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories",
		strings.NewReader(`{"type": "spend", "name": "Groceries"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := handler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response CategoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "Groceries" || response.Type != "spend" {
		t.Errorf("Unexpected response: %+v", response)
	}
}

func TestCreateCategory_DuplicateConflicts(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	handler := NewCategoryHandler(service.NewCategoryService(repo))
	userID := uuid.New()

	repo.AddCategory(&domain.Category{
		ID: uuid.New(), UserID: userID,
		Type: domain.TransactionTypeSpend, Name: "Groceries",
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories",
		strings.NewReader(`{"type": "spend", "name": "Groceries"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestCreateCategory_InvalidType(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	handler := NewCategoryHandler(service.NewCategoryService(repo))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories",
		strings.NewReader(`{"type": "invest", "name": "Stocks"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := handler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteCategory_InUseConflicts(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	handler := NewCategoryHandler(service.NewCategoryService(repo))
	userID := uuid.New()

	category := &domain.Category{
		ID: uuid.New(), UserID: userID,
		Type: domain.TransactionTypeSpend, Name: "Groceries",
	}
	repo.AddCategory(category)
	repo.Usage[category.ID] = 2

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/"+category.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(category.ID.String())
	setupAuthContext(c, userID)

	if err := handler.DeleteCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !strings.Contains(problem.Detail, "2 transactions") {
		t.Errorf("Expected blocking count in detail, got %q", problem.Detail)
	}
}

func TestGetCategories_OK(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	handler := NewCategoryHandler(service.NewCategoryService(repo))
	userID := uuid.New()

	repo.AddCategory(&domain.Category{
		ID: uuid.New(), UserID: userID,
		Type: domain.TransactionTypeSpend, Name: "Groceries",
	})
	repo.AddCategory(&domain.Category{
		ID: uuid.New(), UserID: uuid.New(),
		Type: domain.TransactionTypeSpend, Name: "NotMine",
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := handler.GetCategories(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response []CategoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 category, got %d", len(response))
	}
	if response[0].Name != "Groceries" {
		t.Errorf("Expected only the user's category, got %q", response[0].Name)
	}
}
