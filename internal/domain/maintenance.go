package domain

import (
	"context"

	"github.com/google/uuid"
)

// ResetResult reports how many rows a full per-user reset removed.
type ResetResult struct {
	TransactionsDeleted int64 `json:"transactions_deleted"`
	CategoriesDeleted   int64 `json:"categories_deleted"`
	TagsDeleted         int64 `json:"tags_deleted"`
	BankAccountsDeleted int64 `json:"bank_accounts_deleted"`
}

// MaintenanceRepository covers whole-account store operations.
type MaintenanceRepository interface {
	// ResetUserData deletes all of one user's transactions first, then all
	// reference data, atomically. Other users' rows are never touched.
	ResetUserData(ctx context.Context, userID uuid.UUID) (*ResetResult, error)
}
