package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxUploadSize bounds the accepted upload document.
const MaxUploadSize = 1 << 20 // 1 MiB

// Upload parse errors. These surface before any store call.
var (
	ErrUploadTooLarge = errors.New("upload exceeds maximum size of 1 MiB")
	ErrUploadNotUTF8  = errors.New("upload is not valid UTF-8")
	ErrUploadBadJSON  = errors.New("upload is not valid JSON")
	ErrUploadBadShape = errors.New("upload must be an array of transactions or an object with categories, bank_accounts, tags or transactions arrays")
	ErrUploadEmpty    = errors.New("upload contains no rows")
)

// UploadDocument is the normalized in-memory form of an accepted document.
// Rows stay raw so that a malformed row later becomes a row-level error
// instead of failing the whole document.
type UploadDocument struct {
	// Legacy marks documents submitted as a bare transaction array.
	Legacy       bool
	Categories   []json.RawMessage
	BankAccounts []json.RawMessage
	Tags         []json.RawMessage
	Transactions []json.RawMessage
}

// uploadEnvelope matches the object form of the document.
type uploadEnvelope struct {
	Categories   []json.RawMessage `json:"categories"`
	BankAccounts []json.RawMessage `json:"bank_accounts"`
	Tags         []json.RawMessage `json:"tags"`
	Transactions []json.RawMessage `json:"transactions"`
}

// ParseUploadDocument accepts either the legacy bare array form or the
// sectioned object form. It validates size, encoding and top-level shape
// only; per-row validation happens later so that the whole document is
// checked in one pass.
func ParseUploadDocument(data []byte) (*UploadDocument, error) {
	if len(data) > MaxUploadSize {
		return nil, ErrUploadTooLarge
	}
	if !utf8.Valid(data) {
		return nil, ErrUploadNotUTF8
	}

	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if trimmed == "" {
		return nil, ErrUploadBadJSON
	}

	doc := &UploadDocument{}
	switch trimmed[0] {
	case '[':
		var rows []json.RawMessage
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, ErrUploadBadJSON
		}
		doc.Legacy = true
		doc.Transactions = rows
	case '{':
		var env uploadEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, ErrUploadBadJSON
		}
		doc.Categories = env.Categories
		doc.BankAccounts = env.BankAccounts
		doc.Tags = env.Tags
		doc.Transactions = env.Transactions
	default:
		if !json.Valid(data) {
			return nil, ErrUploadBadJSON
		}
		return nil, ErrUploadBadShape
	}

	if doc.IsEmpty() {
		return nil, ErrUploadEmpty
	}
	return doc, nil
}

// IsEmpty reports whether every section is absent or empty.
func (d *UploadDocument) IsEmpty() bool {
	return len(d.Categories) == 0 && len(d.BankAccounts) == 0 &&
		len(d.Tags) == 0 && len(d.Transactions) == 0
}

// Summary returns a human-readable per-section count line for preview.
func (d *UploadDocument) Summary() string {
	return fmt.Sprintf("%d categories, %d bank accounts, %d tags, %d transactions",
		len(d.Categories), len(d.BankAccounts), len(d.Tags), len(d.Transactions))
}

// UploadCategory is one row of the categories section.
type UploadCategory struct {
	Type        TransactionType `json:"type"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
}

// UploadBankAccount is one row of the bank_accounts section.
type UploadBankAccount struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UploadTag is one row of the tags section.
type UploadTag struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UploadTransaction is one row of the transactions section. Category,
// bank account and tags are referenced by owner-scoped name.
type UploadTransaction struct {
	Date        string          `json:"date"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    *string         `json:"category"`
	BankAccount *string         `json:"bank_account"`
	Tags        []string        `json:"tags"`
	Notes       *string         `json:"notes"`
}

// DecodeUploadCategory decodes and field-validates one category row.
func DecodeUploadCategory(raw json.RawMessage) (*UploadCategory, error) {
	var row UploadCategory
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, errors.New("row is not a valid category object")
	}
	if !ValidTransactionType(row.Type) {
		return nil, fmt.Errorf("type must be one of spend, earn, save (got %q)", string(row.Type))
	}
	row.Name = strings.TrimSpace(row.Name)
	if row.Name == "" {
		return nil, errors.New("name is required")
	}
	if len(row.Name) > MaxNameLength {
		return nil, errors.New("name exceeds maximum length")
	}
	return &row, nil
}

// DecodeUploadBankAccount decodes and field-validates one bank account row.
func DecodeUploadBankAccount(raw json.RawMessage) (*UploadBankAccount, error) {
	var row UploadBankAccount
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, errors.New("row is not a valid bank account object")
	}
	row.Name = strings.TrimSpace(row.Name)
	if row.Name == "" {
		return nil, errors.New("name is required")
	}
	if len(row.Name) > MaxNameLength {
		return nil, errors.New("name exceeds maximum length")
	}
	return &row, nil
}

// DecodeUploadTag decodes and field-validates one tag row.
func DecodeUploadTag(raw json.RawMessage) (*UploadTag, error) {
	var row UploadTag
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, errors.New("row is not a valid tag object")
	}
	row.Name = strings.TrimSpace(row.Name)
	if row.Name == "" {
		return nil, errors.New("name is required")
	}
	if len(row.Name) > MaxNameLength {
		return nil, errors.New("name exceeds maximum length")
	}
	return &row, nil
}

// DecodeUploadTransaction decodes and field-validates one transaction row.
// Reference names are trimmed the same way the section rows trim theirs, so
// a document that pads both sides still resolves against itself. Reference
// resolution happens later, against the store and the batch.
func DecodeUploadTransaction(raw json.RawMessage) (*UploadTransaction, error) {
	// Amount decodes through a pointer: a literal zero is a valid amount,
	// an absent field is not.
	var row struct {
		UploadTransaction
		Amount *decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, errors.New("row is not a valid transaction object")
	}
	if row.Date == "" {
		return nil, errors.New("date is required")
	}
	if _, err := time.Parse("2006-01-02", row.Date); err != nil {
		return nil, fmt.Errorf("date %q is not a valid YYYY-MM-DD date", row.Date)
	}
	if !ValidTransactionType(row.Type) {
		return nil, fmt.Errorf("type must be one of spend, earn, save (got %q)", string(row.Type))
	}
	if row.Amount == nil {
		return nil, errors.New("amount is required")
	}
	if row.Amount.IsNegative() {
		return nil, errors.New("amount must not be negative")
	}
	if row.Amount.Exponent() < -2 {
		return nil, errors.New("amount must have at most 2 decimal places")
	}
	row.UploadTransaction.Amount = *row.Amount

	if row.Category != nil {
		trimmed := strings.TrimSpace(*row.Category)
		row.Category = &trimmed
	}
	if row.BankAccount != nil {
		trimmed := strings.TrimSpace(*row.BankAccount)
		row.BankAccount = &trimmed
	}
	for i, tag := range row.Tags {
		row.Tags[i] = strings.TrimSpace(tag)
	}
	return &row.UploadTransaction, nil
}

// ParsedDate returns the row's date. Valid only after DecodeUploadTransaction.
func (t *UploadTransaction) ParsedDate() time.Time {
	d, _ := time.Parse("2006-01-02", t.Date)
	return d
}

// RowError attaches a readable reason to a 1-based row position.
type RowError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// UploadDetails groups per-row errors by section.
type UploadDetails struct {
	Categories   []RowError `json:"categories,omitempty"`
	BankAccounts []RowError `json:"bank_accounts,omitempty"`
	Tags         []RowError `json:"tags,omitempty"`
	Transactions []RowError `json:"transactions,omitempty"`
}

// Empty reports whether no section collected any row error.
func (d *UploadDetails) Empty() bool {
	return len(d.Categories) == 0 && len(d.BankAccounts) == 0 &&
		len(d.Tags) == 0 && len(d.Transactions) == 0
}

// UploadResult reports per-section inserted counts (upsert matches
// excluded) plus per-row errors. Success stays true as long as the batch
// itself completed.
type UploadResult struct {
	Success              bool           `json:"success"`
	Error                string         `json:"error,omitempty"`
	CategoriesInserted   int            `json:"categories_inserted"`
	BankAccountsInserted int            `json:"bank_accounts_inserted"`
	TagsInserted         int            `json:"tags_inserted"`
	TransactionsInserted int            `json:"transactions_inserted"`
	Details              *UploadDetails `json:"details,omitempty"`
}

// IndexedCategory pairs a validated row with its original 1-based position.
type IndexedCategory struct {
	Index  int
	Record *UploadCategory
}

type IndexedBankAccount struct {
	Index  int
	Record *UploadBankAccount
}

type IndexedTag struct {
	Index  int
	Record *UploadTag
}

type IndexedTransaction struct {
	Index  int
	Record *UploadTransaction
}

// UploadBatch is the field-validated portion of a document handed to the
// store. Rows that failed field validation are already excluded; their
// errors are merged back into the final report by the caller.
type UploadBatch struct {
	Categories   []IndexedCategory
	BankAccounts []IndexedBankAccount
	Tags         []IndexedTag
	Transactions []IndexedTransaction
}

// BulkInsertResult reports what one atomic batch write actually inserted,
// plus the row errors discovered during reference resolution.
type BulkInsertResult struct {
	CategoriesInserted   int
	BankAccountsInserted int
	TagsInserted         int
	TransactionsInserted int
	TransactionErrors    []RowError
}

// UploadRepository executes the batch as one atomic store routine: sections
// in order categories, bank accounts, tags, transactions; reference rows
// upserted on their owner-scoped unique key; transactions resolved against
// both pre-existing rows and rows created earlier in the same batch.
type UploadRepository interface {
	BulkInsert(ctx context.Context, userID uuid.UUID, batch *UploadBatch) (*BulkInsertResult, error)
}
