package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeSpend TransactionType = "spend"
	TransactionTypeEarn  TransactionType = "earn"
	TransactionTypeSave  TransactionType = "save"
)

// ValidTransactionType reports whether t is one of spend, earn, save.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionTypeSpend, TransactionTypeEarn, TransactionTypeSave:
		return true
	}
	return false
}

type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Date          time.Time       `json:"date"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CategoryID    *uuid.UUID      `json:"categoryId,omitempty"`
	BankAccountID *uuid.UUID      `json:"bankAccountId,omitempty"`
	Tags          []string        `json:"tags"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// UpdateTransactionData carries the mutable fields of a transaction.
type UpdateTransactionData struct {
	Date          time.Time
	Type          TransactionType
	Amount        decimal.Decimal
	CategoryID    *uuid.UUID
	BankAccountID *uuid.UUID
	TagIDs        []uuid.UUID
	Notes         *string
}

type TransactionFilters struct {
	From          *time.Time
	To            *time.Time
	Type          *TransactionType
	CategoryID    *uuid.UUID
	BankAccountID *uuid.UUID
	TagsAny       []string
	TagsAll       []string
	Page          int32
	PageSize      int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// MonthlyTotal is one row of the month/type aggregate view.
type MonthlyTotal struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Type  TransactionType `json:"type"`
	Total decimal.Decimal `json:"total"`
}

// YearlyTotal is one row of the year/type aggregate view.
type YearlyTotal struct {
	Year  int             `json:"year"`
	Type  TransactionType `json:"type"`
	Total decimal.Decimal `json:"total"`
}

// MonthlyCategoryTotal is one row of the month/category/type aggregate view.
// Category is nil for uncategorized transactions.
type MonthlyCategoryTotal struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Category *string         `json:"category"`
	Type     TransactionType `json:"type"`
	Total    decimal.Decimal `json:"total"`
}

// YearlyCategoryTotal is one row of the year/category/type aggregate view.
type YearlyCategoryTotal struct {
	Year     int             `json:"year"`
	Category *string         `json:"category"`
	Type     TransactionType `json:"type"`
	Total    decimal.Decimal `json:"total"`
}

// TaggedTotal is one row of the per-type totals restricted by tags.
type TaggedTotal struct {
	Type  TransactionType `json:"type"`
	Total decimal.Decimal `json:"total"`
}

// SumFilters mirrors TransactionFilters for the aggregate sum routine,
// without pagination.
type SumFilters struct {
	From          *time.Time
	To            *time.Time
	Type          *TransactionType
	CategoryID    *uuid.UUID
	BankAccountID *uuid.UUID
	TagsAny       []string
	TagsAll       []string
}

type TransactionRepository interface {
	Create(ctx context.Context, userID uuid.UUID, data *UpdateTransactionData) (*Transaction, error)
	GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *UpdateTransactionData) (*Transaction, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	Sum(ctx context.Context, userID uuid.UUID, filters *SumFilters) (decimal.Decimal, error)
	MonthlyTotals(ctx context.Context, userID uuid.UUID, year, month *int) ([]*MonthlyTotal, error)
	YearlyTotals(ctx context.Context, userID uuid.UUID, year *int) ([]*YearlyTotal, error)
	MonthlyCategoryTotals(ctx context.Context, userID uuid.UUID, year, month *int) ([]*MonthlyCategoryTotal, error)
	YearlyCategoryTotals(ctx context.Context, userID uuid.UUID, year *int) ([]*YearlyCategoryTotal, error)
	TaggedTotals(ctx context.Context, userID uuid.UUID, tagsAny []string) ([]*TaggedTotal, error)
}
