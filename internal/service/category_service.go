package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
)

// CategoryService handles category-related business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategoryInput holds the input for creating a category
type CreateCategoryInput struct {
	Type        domain.TransactionType
	Name        string
	Description *string
}

// CreateCategory creates a new category. Unlike bulk upload, a duplicate
// (type, name) is an error here, never a silent match.
func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, input CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !domain.ValidTransactionType(input.Type) {
		return nil, domain.ErrInvalidType
	}

	category := &domain.Category{
		UserID:      userID,
		Type:        input.Type,
		Name:        name,
		Description: input.Description,
	}

	return s.categoryRepo.Create(ctx, category)
}

// GetCategories retrieves the user's categories with usage counts,
// optionally filtered by transaction type.
func (s *CategoryService) GetCategories(ctx context.Context, userID uuid.UUID, txType *domain.TransactionType) ([]*domain.Category, error) {
	if txType != nil && !domain.ValidTransactionType(*txType) {
		return nil, domain.ErrInvalidType
	}
	return s.categoryRepo.ListWithUsage(ctx, userID, txType)
}

// GetCategoryByID retrieves one of the user's categories
func (s *CategoryService) GetCategoryByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, userID, id)
}

// UpdateCategory updates a category's name and description
func (s *CategoryService) UpdateCategory(ctx context.Context, userID uuid.UUID, id uuid.UUID, name string, description *string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	return s.categoryRepo.Update(ctx, userID, id, &domain.UpdateReferenceData{
		Name:        name,
		Description: description,
	})
}

// DeleteCategory deletes a category unless transactions still reference it,
// in which case it reports the blocking count.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	ok, inUse, err := s.categoryRepo.SafeDelete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ErrInUse{Count: inUse}
	}
	return nil
}
