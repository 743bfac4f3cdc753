package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
)

// BankAccountRepository implements domain.BankAccountRepository using PostgreSQL
type BankAccountRepository struct {
	pool *pgxpool.Pool
}

// NewBankAccountRepository creates a new BankAccountRepository
func NewBankAccountRepository(pool *pgxpool.Pool) *BankAccountRepository {
	return &BankAccountRepository{pool: pool}
}

// Create inserts a bank account; duplicate (user, name) maps to
// domain.ErrAlreadyExists.
func (r *BankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) (*domain.BankAccount, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bank_accounts (user_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		account.UserID, account.Name, account.Description)

	created := *account
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

// GetByID retrieves one of the user's bank accounts by id
func (r *BankAccountRepository) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.BankAccount, error) {
	var a domain.BankAccount
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM bank_accounts
		WHERE user_id = $1 AND id = $2`,
		userID, id).Scan(&a.ID, &a.UserID, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListWithUsage returns the user's bank accounts with referencing
// transaction counts.
func (r *BankAccountRepository) ListWithUsage(ctx context.Context, userID uuid.UUID) ([]*domain.BankAccount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.user_id, a.name, a.description, a.created_at, a.updated_at,
		       count(t.id) AS in_use_count
		FROM bank_accounts a
		LEFT JOIN transactions t ON t.bank_account_id = a.id AND t.user_id = a.user_id
		WHERE a.user_id = $1
		GROUP BY a.id
		ORDER BY a.name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.BankAccount
	for rows.Next() {
		var a domain.BankAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Description,
			&a.CreatedAt, &a.UpdatedAt, &a.InUseCount); err != nil {
			return nil, err
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// Update changes a bank account's name and description
func (r *BankAccountRepository) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *domain.UpdateReferenceData) (*domain.BankAccount, error) {
	var a domain.BankAccount
	err := r.pool.QueryRow(ctx, `
		UPDATE bank_accounts
		SET name = $3, description = $4, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING id, user_id, name, description, created_at, updated_at`,
		userID, id, data.Name, data.Description).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankAccountNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &a, nil
}

// SafeDelete deletes the bank account unless transactions still reference it
func (r *BankAccountRepository) SafeDelete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback(ctx)

	var inUse int64
	err = tx.QueryRow(ctx, `
		SELECT count(*) FROM transactions
		WHERE user_id = $1 AND bank_account_id = $2`,
		userID, id).Scan(&inUse)
	if err != nil {
		return false, 0, err
	}
	if inUse > 0 {
		return false, inUse, nil
	}

	ct, err := tx.Exec(ctx, `DELETE FROM bank_accounts WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return false, 0, err
	}
	if ct.RowsAffected() == 0 {
		return false, 0, domain.ErrBankAccountNotFound
	}
	return true, 0, tx.Commit(ctx)
}
