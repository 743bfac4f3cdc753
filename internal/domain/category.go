package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category classifies transactions of a single type. Names are unique per
// (user, type) so the same name may exist on the spend and earn tabs.
type Category struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Type        TransactionType `json:"type"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	// InUseCount is populated by usage-aware list queries.
	InUseCount int64 `json:"inUseCount"`
}

// UpdateReferenceData carries the mutable fields shared by all three
// reference-data kinds.
type UpdateReferenceData struct {
	Name        string
	Description *string
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*Category, error)
	ListWithUsage(ctx context.Context, userID uuid.UUID, txType *TransactionType) ([]*Category, error)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *UpdateReferenceData) (*Category, error)
	// SafeDelete deletes the category unless transactions reference it, in
	// which case it returns the blocking count with ok=false.
	SafeDelete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (ok bool, inUseCount int64, err error)
}
