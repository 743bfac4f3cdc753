package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/knappert/spendwise/spendwise-backend/internal/testutil"
)

func TestCreateCategory_Success(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(repo)
	userID := uuid.New()

	category, err := svc.CreateCategory(context.Background(), userID, CreateCategoryInput{
		Type: domain.TransactionTypeSpend,
		Name: "  Groceries  ",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if category.Name != "Groceries" {
		t.Errorf("Expected trimmed name, got %q", category.Name)
	}
	if category.UserID != userID {
		t.Error("Expected category scoped to user")
	}
}

func TestCreateCategory_Validation(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(repo)
	userID := uuid.New()

	_, err := svc.CreateCategory(context.Background(), userID, CreateCategoryInput{
		Type: domain.TransactionTypeSpend,
		Name: "   ",
	})
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}

	longName := make([]byte, domain.MaxNameLength+1)
	for i := range longName {
		longName[i] = 'a'
	}
	_, err = svc.CreateCategory(context.Background(), userID, CreateCategoryInput{
		Type: domain.TransactionTypeSpend,
		Name: string(longName),
	})
	if !errors.Is(err, domain.ErrNameTooLong) {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}

	_, err = svc.CreateCategory(context.Background(), userID, CreateCategoryInput{
		Type: "transfer",
		Name: "Misc",
	})
	if !errors.Is(err, domain.ErrInvalidType) {
		t.Errorf("Expected ErrInvalidType, got %v", err)
	}
}

func TestCreateCategory_DuplicateIsConflict(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(repo)
	userID := uuid.New()

	input := CreateCategoryInput{Type: domain.TransactionTypeSpend, Name: "Groceries"}
	if _, err := svc.CreateCategory(context.Background(), userID, input); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := svc.CreateCategory(context.Background(), userID, input)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	// Same name under another type is a different category
	if _, err := svc.CreateCategory(context.Background(), userID, CreateCategoryInput{
		Type: domain.TransactionTypeEarn,
		Name: "Groceries",
	}); err != nil {
		t.Errorf("Expected same name under another type to succeed, got %v", err)
	}
}

func TestDeleteCategory_InUseBlocks(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(repo)
	userID := uuid.New()

	category := &domain.Category{ID: uuid.New(), UserID: userID, Type: domain.TransactionTypeSpend, Name: "Groceries"}
	repo.AddCategory(category)
	repo.Usage[category.ID] = 3

	err := svc.DeleteCategory(context.Background(), userID, category.ID)
	var inUse *domain.ErrInUse
	if !errors.As(err, &inUse) {
		t.Fatalf("Expected ErrInUse, got %v", err)
	}
	if inUse.Count != 3 {
		t.Errorf("Expected blocking count 3, got %d", inUse.Count)
	}
	if _, ok := repo.Categories[category.ID]; !ok {
		t.Error("Expected category to remain after blocked delete")
	}
}

func TestDeleteCategory_Unused(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(repo)
	userID := uuid.New()

	category := &domain.Category{ID: uuid.New(), UserID: userID, Type: domain.TransactionTypeSpend, Name: "Groceries"}
	repo.AddCategory(category)

	if err := svc.DeleteCategory(context.Background(), userID, category.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := repo.Categories[category.ID]; ok {
		t.Error("Expected category to be deleted")
	}
}

func TestGetCategories_ScopedToUser(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(repo)
	owner := uuid.New()
	other := uuid.New()

	repo.AddCategory(&domain.Category{ID: uuid.New(), UserID: owner, Type: domain.TransactionTypeSpend, Name: "Groceries"})
	repo.AddCategory(&domain.Category{ID: uuid.New(), UserID: other, Type: domain.TransactionTypeSpend, Name: "Rent"})

	categories, err := svc.GetCategories(context.Background(), owner, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("Expected 1 category, got %d", len(categories))
	}
	if categories[0].Name != "Groceries" {
		t.Errorf("Expected only the owner's category, got %q", categories[0].Name)
	}
}
