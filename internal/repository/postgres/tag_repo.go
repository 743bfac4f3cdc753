package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
)

// TagRepository implements domain.TagRepository using PostgreSQL
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

// Create inserts a tag; duplicate (user, name) maps to domain.ErrAlreadyExists.
func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tags (user_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		tag.UserID, tag.Name, tag.Description)

	created := *tag
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

// GetByID retrieves one of the user's tags by id
func (r *TagRepository) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Tag, error) {
	var t domain.Tag
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM tags
		WHERE user_id = $1 AND id = $2`,
		userID, id).Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByNames retrieves the user's tags matching any of the given names
func (r *TagRepository) GetByNames(ctx context.Context, userID uuid.UUID, names []string) ([]*domain.Tag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM tags
		WHERE user_id = $1 AND name = ANY($2)
		ORDER BY name ASC`, userID, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

// ListWithUsage returns the user's tags with referencing transaction counts
func (r *TagRepository) ListWithUsage(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tg.id, tg.user_id, tg.name, tg.description, tg.created_at, tg.updated_at,
		       count(tt.transaction_id) AS in_use_count
		FROM tags tg
		LEFT JOIN transaction_tags tt ON tt.tag_id = tg.id
		WHERE tg.user_id = $1
		GROUP BY tg.id
		ORDER BY tg.name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Description,
			&t.CreatedAt, &t.UpdatedAt, &t.InUseCount); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

// Update changes a tag's name and description
func (r *TagRepository) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *domain.UpdateReferenceData) (*domain.Tag, error) {
	var t domain.Tag
	err := r.pool.QueryRow(ctx, `
		UPDATE tags
		SET name = $3, description = $4, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING id, user_id, name, description, created_at, updated_at`,
		userID, id, data.Name, data.Description).
		Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTagNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return &t, nil
}

// SafeDelete deletes the tag unless transactions still carry it
func (r *TagRepository) SafeDelete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback(ctx)

	var inUse int64
	err = tx.QueryRow(ctx, `
		SELECT count(*)
		FROM transaction_tags tt
		JOIN transactions t ON t.id = tt.transaction_id
		WHERE t.user_id = $1 AND tt.tag_id = $2`,
		userID, id).Scan(&inUse)
	if err != nil {
		return false, 0, err
	}
	if inUse > 0 {
		return false, inUse, nil
	}

	ct, err := tx.Exec(ctx, `DELETE FROM tags WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return false, 0, err
	}
	if ct.RowsAffected() == 0 {
		return false, 0, domain.ErrTagNotFound
	}
	return true, 0, tx.Commit(ctx)
}
