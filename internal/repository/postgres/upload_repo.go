package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
)

// UploadRepository implements domain.UploadRepository using PostgreSQL
type UploadRepository struct {
	pool *pgxpool.Pool
}

// NewUploadRepository creates a new UploadRepository
func NewUploadRepository(pool *pgxpool.Pool) *UploadRepository {
	return &UploadRepository{pool: pool}
}

type categoryEntry struct {
	id  uuid.UUID
	typ domain.TransactionType
}

// BulkInsert writes one validated batch in a single database transaction.
// Reference sections upsert on their owner-scoped unique key; only fresh
// inserts count. Transactions resolve category, bank account and tags by
// name against everything the user owns at that point, which includes rows
// upserted earlier in the same transaction. Rows that fail resolution are
// reported per row and skipped; a database error aborts the whole batch.
func (r *UploadRepository) BulkInsert(ctx context.Context, userID uuid.UUID, batch *domain.UploadBatch) (*domain.BulkInsertResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	result := &domain.BulkInsertResult{}

	for _, row := range batch.Categories {
		ct, err := tx.Exec(ctx, `
			INSERT INTO categories (user_id, type, name, description)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, type, name) DO NOTHING`,
			userID, string(row.Record.Type), row.Record.Name, row.Record.Description)
		if err != nil {
			return nil, err
		}
		result.CategoriesInserted += int(ct.RowsAffected())
	}

	for _, row := range batch.BankAccounts {
		ct, err := tx.Exec(ctx, `
			INSERT INTO bank_accounts (user_id, name, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, name) DO NOTHING`,
			userID, row.Record.Name, row.Record.Description)
		if err != nil {
			return nil, err
		}
		result.BankAccountsInserted += int(ct.RowsAffected())
	}

	for _, row := range batch.Tags {
		ct, err := tx.Exec(ctx, `
			INSERT INTO tags (user_id, name, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, name) DO NOTHING`,
			userID, row.Record.Name, row.Record.Description)
		if err != nil {
			return nil, err
		}
		result.TagsInserted += int(ct.RowsAffected())
	}

	if len(batch.Transactions) == 0 {
		return result, tx.Commit(ctx)
	}

	categories := map[string][]categoryEntry{}
	rows, err := tx.Query(ctx, `SELECT id, type, name FROM categories WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id uuid.UUID
		var typ, name string
		if err := rows.Scan(&id, &typ, &name); err != nil {
			rows.Close()
			return nil, err
		}
		categories[name] = append(categories[name], categoryEntry{id: id, typ: domain.TransactionType(typ)})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	bankAccounts, err := nameIndex(ctx, tx, `SELECT id, name FROM bank_accounts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	tags, err := nameIndex(ctx, tx, `SELECT id, name FROM tags WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}

	for _, row := range batch.Transactions {
		categoryID, bankAccountID, tagIDs, rowErr := resolveReferences(row.Record, categories, bankAccounts, tags)
		if rowErr != "" {
			result.TransactionErrors = append(result.TransactionErrors,
				domain.RowError{Index: row.Index, Error: rowErr})
			continue
		}

		var transactionID uuid.UUID
		err := tx.QueryRow(ctx, `
			INSERT INTO transactions (user_id, date, type, amount, category_id, bank_account_id, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			userID, row.Record.ParsedDate(), string(row.Record.Type), decimalToPgNumeric(row.Record.Amount),
			categoryID, bankAccountID, row.Record.Notes).Scan(&transactionID)
		if err != nil {
			return nil, err
		}
		for _, tagID := range tagIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO transaction_tags (transaction_id, tag_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, transactionID, tagID); err != nil {
				return nil, err
			}
		}
		result.TransactionsInserted++
	}

	return result, tx.Commit(ctx)
}

// resolveReferences maps a row's names to ids. A category name that exists
// only under a different transaction type is a kind mismatch, reported
// distinctly from a missing name.
func resolveReferences(record *domain.UploadTransaction, categories map[string][]categoryEntry,
	bankAccounts, tags map[string]uuid.UUID) (*uuid.UUID, *uuid.UUID, []uuid.UUID, string) {

	var categoryID *uuid.UUID
	if record.Category != nil && *record.Category != "" {
		entries, ok := categories[*record.Category]
		if !ok {
			return nil, nil, nil, fmt.Sprintf("category %q not found", *record.Category)
		}
		found := false
		for _, entry := range entries {
			if entry.typ == record.Type {
				id := entry.id
				categoryID = &id
				found = true
				break
			}
		}
		if !found {
			return nil, nil, nil, fmt.Sprintf("category %q exists but not for type %q",
				*record.Category, string(record.Type))
		}
	}

	var bankAccountID *uuid.UUID
	if record.BankAccount != nil && *record.BankAccount != "" {
		id, ok := bankAccounts[*record.BankAccount]
		if !ok {
			return nil, nil, nil, fmt.Sprintf("bank account %q not found", *record.BankAccount)
		}
		bankAccountID = &id
	}

	var tagIDs []uuid.UUID
	seen := map[uuid.UUID]struct{}{}
	for _, name := range record.Tags {
		id, ok := tags[name]
		if !ok {
			return nil, nil, nil, fmt.Sprintf("tag %q not found", name)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		tagIDs = append(tagIDs, id)
	}

	return categoryID, bankAccountID, tagIDs, ""
}

func nameIndex(ctx context.Context, tx pgx.Tx, query string, userID uuid.UUID) (map[string]uuid.UUID, error) {
	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := map[string]uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		index[name] = id
	}
	return index, rows.Err()
}
