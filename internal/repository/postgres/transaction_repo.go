package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `t.id, t.user_id, t.date, t.type, t.amount,
	t.category_id, t.bank_account_id, t.notes, t.created_at, t.updated_at`

// Create inserts a transaction and its tag links atomically
func (r *TransactionRepository) Create(ctx context.Context, userID uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := &domain.Transaction{
		UserID:        userID,
		Date:          data.Date,
		Type:          data.Type,
		Amount:        data.Amount,
		CategoryID:    data.CategoryID,
		BankAccountID: data.BankAccountID,
		Notes:         data.Notes,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, date, type, amount, category_id, bank_account_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		userID, data.Date, string(data.Type), decimalToPgNumeric(data.Amount), data.CategoryID, data.BankAccountID, data.Notes).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if created.Tags, err = r.setTags(ctx, tx, userID, created.ID, data.TagIDs); err != nil {
		return nil, err
	}
	return created, tx.Commit(ctx)
}

// setTags replaces a transaction's tag links. Only tags owned by the user
// attach; any foreign or unknown tag id fails the call.
func (r *TransactionRepository) setTags(ctx context.Context, tx pgx.Tx, userID, transactionID uuid.UUID, tagIDs []uuid.UUID) ([]string, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM transaction_tags WHERE transaction_id = $1`, transactionID); err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		return []string{}, nil
	}

	ct, err := tx.Exec(ctx, `
		INSERT INTO transaction_tags (transaction_id, tag_id)
		SELECT $1, id FROM tags WHERE user_id = $2 AND id = ANY($3)
		ON CONFLICT DO NOTHING`,
		transactionID, userID, tagIDs)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() < int64(len(uniqueUUIDs(tagIDs))) {
		return nil, domain.ErrTagNotFound
	}

	rows, err := tx.Query(ctx, `
		SELECT tg.name FROM transaction_tags tt
		JOIN tags tg ON tg.id = tt.tag_id
		WHERE tt.transaction_id = $1
		ORDER BY tg.name ASC`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func uniqueUUIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// GetByID retrieves one of the user's transactions by id
func (r *TransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`,
		       COALESCE(array_agg(tg.name ORDER BY tg.name) FILTER (WHERE tg.name IS NOT NULL), '{}') AS tags
		FROM transactions t
		LEFT JOIN transaction_tags tt ON tt.transaction_id = t.id
		LEFT JOIN tags tg ON tg.id = tt.tag_id
		WHERE t.user_id = $1 AND t.id = $2
		GROUP BY t.id`, userID, id)

	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// List retrieves the user's transactions with filters and pagination
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}
	offset := (page - 1) * pageSize

	where, args := buildTransactionWhere(userID, filters)

	var totalItems int64
	countQuery := `SELECT count(*) FROM transactions t WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalItems); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT `+transactionColumns+`,
		       COALESCE(array_agg(tg.name ORDER BY tg.name) FILTER (WHERE tg.name IS NOT NULL), '{}') AS tags
		FROM transactions t
		LEFT JOIN transaction_tags tt ON tt.transaction_id = t.id
		LEFT JOIN tags tg ON tg.id = tt.tag_id
		WHERE %s
		GROUP BY t.id
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.Transaction{}
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       result,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// Update rewrites a transaction's details and tag links atomically
func (r *TransactionRepository) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	updated := &domain.Transaction{
		ID:            id,
		UserID:        userID,
		Date:          data.Date,
		Type:          data.Type,
		Amount:        data.Amount,
		CategoryID:    data.CategoryID,
		BankAccountID: data.BankAccountID,
		Notes:         data.Notes,
	}
	err = tx.QueryRow(ctx, `
		UPDATE transactions
		SET date = $3, type = $4, amount = $5, category_id = $6, bank_account_id = $7, notes = $8, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING created_at, updated_at`,
		userID, id, data.Date, string(data.Type), decimalToPgNumeric(data.Amount), data.CategoryID, data.BankAccountID, data.Notes).
		Scan(&updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	if updated.Tags, err = r.setTags(ctx, tx, userID, id, data.TagIDs); err != nil {
		return nil, err
	}
	return updated, tx.Commit(ctx)
}

// Delete removes one of the user's transactions
func (r *TransactionRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// DeleteMany removes a batch of the user's transactions by id and returns
// the acknowledged count.
func (r *TransactionRepository) DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// Sum totals the user's transactions matching the filters
func (r *TransactionRepository) Sum(ctx context.Context, userID uuid.UUID, filters *domain.SumFilters) (decimal.Decimal, error) {
	var txFilters *domain.TransactionFilters
	if filters != nil {
		txFilters = &domain.TransactionFilters{
			From:          filters.From,
			To:            filters.To,
			Type:          filters.Type,
			CategoryID:    filters.CategoryID,
			BankAccountID: filters.BankAccountID,
			TagsAny:       filters.TagsAny,
			TagsAll:       filters.TagsAll,
		}
	}
	where, args := buildTransactionWhere(userID, txFilters)

	var total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(sum(t.amount), 0) FROM transactions t WHERE `+where, args...).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

// MonthlyTotals returns per-month, per-type totals, optionally restricted
// to one year or one month.
func (r *TransactionRepository) MonthlyTotals(ctx context.Context, userID uuid.UUID, year, month *int) ([]*domain.MonthlyTotal, error) {
	query := `
		SELECT EXTRACT(YEAR FROM t.date)::int, EXTRACT(MONTH FROM t.date)::int, t.type, COALESCE(sum(t.amount), 0)
		FROM transactions t
		WHERE t.user_id = $1`
	args := []interface{}{userID}
	if year != nil {
		args = append(args, *year)
		query += fmt.Sprintf(` AND EXTRACT(YEAR FROM t.date)::int = $%d`, len(args))
	}
	if month != nil {
		args = append(args, *month)
		query += fmt.Sprintf(` AND EXTRACT(MONTH FROM t.date)::int = $%d`, len(args))
	}
	query += ` GROUP BY 1, 2, 3 ORDER BY 1, 2, 3`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.MonthlyTotal
	for rows.Next() {
		var row domain.MonthlyTotal
		var typ string
		var total pgtype.Numeric
		if err := rows.Scan(&row.Year, &row.Month, &typ, &total); err != nil {
			return nil, err
		}
		row.Type = domain.TransactionType(typ)
		row.Total = pgNumericToDecimal(total)
		totals = append(totals, &row)
	}
	return totals, rows.Err()
}

// YearlyTotals returns per-year, per-type totals
func (r *TransactionRepository) YearlyTotals(ctx context.Context, userID uuid.UUID, year *int) ([]*domain.YearlyTotal, error) {
	query := `
		SELECT EXTRACT(YEAR FROM t.date)::int, t.type, COALESCE(sum(t.amount), 0)
		FROM transactions t
		WHERE t.user_id = $1`
	args := []interface{}{userID}
	if year != nil {
		args = append(args, *year)
		query += fmt.Sprintf(` AND EXTRACT(YEAR FROM t.date)::int = $%d`, len(args))
	}
	query += ` GROUP BY 1, 2 ORDER BY 1, 2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.YearlyTotal
	for rows.Next() {
		var row domain.YearlyTotal
		var typ string
		var total pgtype.Numeric
		if err := rows.Scan(&row.Year, &typ, &total); err != nil {
			return nil, err
		}
		row.Type = domain.TransactionType(typ)
		row.Total = pgNumericToDecimal(total)
		totals = append(totals, &row)
	}
	return totals, rows.Err()
}

// MonthlyCategoryTotals returns per-month totals broken down by category
// name; uncategorized transactions group under a NULL category.
func (r *TransactionRepository) MonthlyCategoryTotals(ctx context.Context, userID uuid.UUID, year, month *int) ([]*domain.MonthlyCategoryTotal, error) {
	query := `
		SELECT EXTRACT(YEAR FROM t.date)::int, EXTRACT(MONTH FROM t.date)::int, c.name, t.type, COALESCE(sum(t.amount), 0)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1`
	args := []interface{}{userID}
	if year != nil {
		args = append(args, *year)
		query += fmt.Sprintf(` AND EXTRACT(YEAR FROM t.date)::int = $%d`, len(args))
	}
	if month != nil {
		args = append(args, *month)
		query += fmt.Sprintf(` AND EXTRACT(MONTH FROM t.date)::int = $%d`, len(args))
	}
	query += ` GROUP BY 1, 2, 3, 4 ORDER BY 1, 2, 3, 4`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.MonthlyCategoryTotal
	for rows.Next() {
		var row domain.MonthlyCategoryTotal
		var typ string
		var total pgtype.Numeric
		if err := rows.Scan(&row.Year, &row.Month, &row.Category, &typ, &total); err != nil {
			return nil, err
		}
		row.Type = domain.TransactionType(typ)
		row.Total = pgNumericToDecimal(total)
		totals = append(totals, &row)
	}
	return totals, rows.Err()
}

// YearlyCategoryTotals returns per-year totals broken down by category name
func (r *TransactionRepository) YearlyCategoryTotals(ctx context.Context, userID uuid.UUID, year *int) ([]*domain.YearlyCategoryTotal, error) {
	query := `
		SELECT EXTRACT(YEAR FROM t.date)::int, c.name, t.type, COALESCE(sum(t.amount), 0)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1`
	args := []interface{}{userID}
	if year != nil {
		args = append(args, *year)
		query += fmt.Sprintf(` AND EXTRACT(YEAR FROM t.date)::int = $%d`, len(args))
	}
	query += ` GROUP BY 1, 2, 3 ORDER BY 1, 2, 3`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.YearlyCategoryTotal
	for rows.Next() {
		var row domain.YearlyCategoryTotal
		var typ string
		var total pgtype.Numeric
		if err := rows.Scan(&row.Year, &row.Category, &typ, &total); err != nil {
			return nil, err
		}
		row.Type = domain.TransactionType(typ)
		row.Total = pgNumericToDecimal(total)
		totals = append(totals, &row)
	}
	return totals, rows.Err()
}

// TaggedTotals returns per-type totals of transactions carrying any of the
// given tags; with no tags it totals everything.
func (r *TransactionRepository) TaggedTotals(ctx context.Context, userID uuid.UUID, tagsAny []string) ([]*domain.TaggedTotal, error) {
	query := `
		SELECT t.type, COALESCE(sum(t.amount), 0)
		FROM transactions t
		WHERE t.user_id = $1`
	args := []interface{}{userID}
	if len(tagsAny) > 0 {
		args = append(args, tagsAny)
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM transaction_tags tt
			JOIN tags tg ON tg.id = tt.tag_id
			WHERE tt.transaction_id = t.id AND tg.name = ANY($%d))`, len(args))
	}
	query += ` GROUP BY 1 ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.TaggedTotal
	for rows.Next() {
		var row domain.TaggedTotal
		var typ string
		var total pgtype.Numeric
		if err := rows.Scan(&typ, &total); err != nil {
			return nil, err
		}
		row.Type = domain.TransactionType(typ)
		row.Total = pgNumericToDecimal(total)
		totals = append(totals, &row)
	}
	return totals, rows.Err()
}

// buildTransactionWhere assembles the shared filter clause. The returned
// clause always begins with the user scope; every query in this repository
// is parameterized by the acting user.
func buildTransactionWhere(userID uuid.UUID, filters *domain.TransactionFilters) (string, []interface{}) {
	where := `t.user_id = $1`
	args := []interface{}{userID}

	if filters == nil {
		return where, args
	}
	if filters.From != nil {
		args = append(args, *filters.From)
		where += fmt.Sprintf(` AND t.date >= $%d`, len(args))
	}
	if filters.To != nil {
		args = append(args, *filters.To)
		where += fmt.Sprintf(` AND t.date <= $%d`, len(args))
	}
	if filters.Type != nil {
		args = append(args, string(*filters.Type))
		where += fmt.Sprintf(` AND t.type = $%d`, len(args))
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		where += fmt.Sprintf(` AND t.category_id = $%d`, len(args))
	}
	if filters.BankAccountID != nil {
		args = append(args, *filters.BankAccountID)
		where += fmt.Sprintf(` AND t.bank_account_id = $%d`, len(args))
	}
	if len(filters.TagsAny) > 0 {
		args = append(args, filters.TagsAny)
		where += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM transaction_tags tt
			JOIN tags tg ON tg.id = tt.tag_id
			WHERE tt.transaction_id = t.id AND tg.name = ANY($%d))`, len(args))
	}
	if len(filters.TagsAll) > 0 {
		args = append(args, filters.TagsAll)
		where += fmt.Sprintf(` AND (
			SELECT count(DISTINCT tg.name) FROM transaction_tags tt
			JOIN tags tg ON tg.id = tt.tag_id
			WHERE tt.transaction_id = t.id AND tg.name = ANY($%d)) = %d`, len(args), len(filters.TagsAll))
	}
	return where, args
}

// scanTransaction reads one row produced with transactionColumns + tags
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var typ string
	var amount pgtype.Numeric
	err := row.Scan(&t.ID, &t.UserID, &t.Date, &typ, &amount,
		&t.CategoryID, &t.BankAccountID, &t.Notes, &t.CreatedAt, &t.UpdatedAt, &t.Tags)
	if err != nil {
		return nil, err
	}
	t.Type = domain.TransactionType(typ)
	t.Amount = pgNumericToDecimal(amount)
	return &t, nil
}
