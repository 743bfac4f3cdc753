package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
)

// MaintenanceRepository implements domain.MaintenanceRepository using PostgreSQL
type MaintenanceRepository struct {
	pool *pgxpool.Pool
}

// NewMaintenanceRepository creates a new MaintenanceRepository
func NewMaintenanceRepository(pool *pgxpool.Pool) *MaintenanceRepository {
	return &MaintenanceRepository{pool: pool}
}

// ResetUserData deletes all of one user's data in a single transaction.
// Transactions go first so that tag links cascade away and the reference
// tables delete cleanly; other users' rows are untouched.
func (r *MaintenanceRepository) ResetUserData(ctx context.Context, userID uuid.UUID) (*domain.ResetResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	result := &domain.ResetResult{}

	ct, err := tx.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	result.TransactionsDeleted = ct.RowsAffected()

	ct, err = tx.Exec(ctx, `DELETE FROM tags WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	result.TagsDeleted = ct.RowsAffected()

	ct, err = tx.Exec(ctx, `DELETE FROM categories WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	result.CategoriesDeleted = ct.RowsAffected()

	ct, err = tx.Exec(ctx, `DELETE FROM bank_accounts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	result.BankAccountsDeleted = ct.RowsAffected()

	return result, tx.Commit(ctx)
}
