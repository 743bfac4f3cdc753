package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
)

// TagService handles tag-related business logic
type TagService struct {
	tagRepo domain.TagRepository
}

// NewTagService creates a new TagService
func NewTagService(tagRepo domain.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// CreateTag creates a new tag
func (s *TagService) CreateTag(ctx context.Context, userID uuid.UUID, name string, description *string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	tag := &domain.Tag{
		UserID:      userID,
		Name:        name,
		Description: description,
	}

	return s.tagRepo.Create(ctx, tag)
}

// GetTags retrieves the user's tags with usage counts
func (s *TagService) GetTags(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	return s.tagRepo.ListWithUsage(ctx, userID)
}

// GetTagByID retrieves one of the user's tags
func (s *TagService) GetTagByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Tag, error) {
	return s.tagRepo.GetByID(ctx, userID, id)
}

// UpdateTag updates a tag's name and description
func (s *TagService) UpdateTag(ctx context.Context, userID uuid.UUID, id uuid.UUID, name string, description *string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	return s.tagRepo.Update(ctx, userID, id, &domain.UpdateReferenceData{
		Name:        name,
		Description: description,
	})
}

// DeleteTag deletes a tag unless transactions still carry it
func (s *TagService) DeleteTag(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	ok, inUse, err := s.tagRepo.SafeDelete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ErrInUse{Count: inUse}
	}
	return nil
}
