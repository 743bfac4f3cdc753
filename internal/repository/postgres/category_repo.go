package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create inserts a category. A duplicate (user, type, name) is reported as
// domain.ErrAlreadyExists; manual creation never silently upserts.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (user_id, type, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		category.UserID, string(category.Type), category.Name, category.Description)

	created := *category
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

// GetByID retrieves one of the user's categories by id
func (r *CategoryRepository) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Category, error) {
	var c domain.Category
	var typ string
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, type, name, description, created_at, updated_at
		FROM categories
		WHERE user_id = $1 AND id = $2`,
		userID, id).Scan(&c.ID, &c.UserID, &typ, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	c.Type = domain.TransactionType(typ)
	return &c, nil
}

// ListWithUsage returns the user's categories with the count of
// transactions referencing each, optionally filtered by type.
func (r *CategoryRepository) ListWithUsage(ctx context.Context, userID uuid.UUID, txType *domain.TransactionType) ([]*domain.Category, error) {
	query := `
		SELECT c.id, c.user_id, c.type, c.name, c.description, c.created_at, c.updated_at,
		       count(t.id) AS in_use_count
		FROM categories c
		LEFT JOIN transactions t ON t.category_id = c.id AND t.user_id = c.user_id
		WHERE c.user_id = $1`
	args := []interface{}{userID}
	if txType != nil {
		query += ` AND c.type = $2`
		args = append(args, string(*txType))
	}
	query += `
		GROUP BY c.id
		ORDER BY c.name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		var typ string
		if err := rows.Scan(&c.ID, &c.UserID, &typ, &c.Name, &c.Description,
			&c.CreatedAt, &c.UpdatedAt, &c.InUseCount); err != nil {
			return nil, err
		}
		c.Type = domain.TransactionType(typ)
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// Update changes a category's name and description
func (r *CategoryRepository) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *domain.UpdateReferenceData) (*domain.Category, error) {
	var c domain.Category
	var typ string
	err := r.pool.QueryRow(ctx, `
		UPDATE categories
		SET name = $3, description = $4, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING id, user_id, type, name, description, created_at, updated_at`,
		userID, id, data.Name, data.Description).
		Scan(&c.ID, &c.UserID, &typ, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	c.Type = domain.TransactionType(typ)
	return &c, nil
}

// SafeDelete deletes the category unless transactions still reference it.
// The usage check and the delete run in one transaction so the count the
// caller sees is the count that blocked the delete.
func (r *CategoryRepository) SafeDelete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback(ctx)

	var inUse int64
	err = tx.QueryRow(ctx, `
		SELECT count(*) FROM transactions
		WHERE user_id = $1 AND category_id = $2`,
		userID, id).Scan(&inUse)
	if err != nil {
		return false, 0, err
	}
	if inUse > 0 {
		return false, inUse, nil
	}

	ct, err := tx.Exec(ctx, `DELETE FROM categories WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return false, 0, err
	}
	if ct.RowsAffected() == 0 {
		return false, 0, domain.ErrCategoryNotFound
	}
	return true, 0, tx.Commit(ctx)
}
