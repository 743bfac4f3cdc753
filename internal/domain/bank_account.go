package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BankAccount is a reference-data row a transaction may point to. Names are
// unique per user.
type BankAccount struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	InUseCount  int64     `json:"inUseCount"`
}

type BankAccountRepository interface {
	Create(ctx context.Context, account *BankAccount) (*BankAccount, error)
	GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*BankAccount, error)
	ListWithUsage(ctx context.Context, userID uuid.UUID) ([]*BankAccount, error)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *UpdateReferenceData) (*BankAccount, error)
	SafeDelete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (ok bool, inUseCount int64, err error)
}
