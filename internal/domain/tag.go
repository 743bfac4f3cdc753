package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tag is a reference-data row transactions may carry any number of. Names
// are unique per user.
type Tag struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	InUseCount  int64     `json:"inUseCount"`
}

type TagRepository interface {
	Create(ctx context.Context, tag *Tag) (*Tag, error)
	GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*Tag, error)
	GetByNames(ctx context.Context, userID uuid.UUID, names []string) ([]*Tag, error)
	ListWithUsage(ctx context.Context, userID uuid.UUID) ([]*Tag, error)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *UpdateReferenceData) (*Tag, error)
	SafeDelete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (ok bool, inUseCount int64, err error)
}
