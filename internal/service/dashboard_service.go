package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/knappert/spendwise/spendwise-backend/internal/util"
	"github.com/shopspring/decimal"
)

// DashboardService handles aggregate reporting
type DashboardService struct {
	transactionRepo domain.TransactionRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(transactionRepo domain.TransactionRepository) *DashboardService {
	return &DashboardService{transactionRepo: transactionRepo}
}

func validPeriod(year, month *int) error {
	if month != nil && (*month < 1 || *month > 12) {
		return domain.ErrInvalidDate
	}
	if year != nil && (*year < 1 || *year > 9999) {
		return domain.ErrInvalidDate
	}
	return nil
}

// GetMonthlyTotals returns per-month, per-type totals
func (s *DashboardService) GetMonthlyTotals(ctx context.Context, userID uuid.UUID, year, month *int) ([]*domain.MonthlyTotal, error) {
	if err := validPeriod(year, month); err != nil {
		return nil, err
	}
	return s.transactionRepo.MonthlyTotals(ctx, userID, year, month)
}

// GetYearlyTotals returns per-year, per-type totals
func (s *DashboardService) GetYearlyTotals(ctx context.Context, userID uuid.UUID, year *int) ([]*domain.YearlyTotal, error) {
	if err := validPeriod(year, nil); err != nil {
		return nil, err
	}
	return s.transactionRepo.YearlyTotals(ctx, userID, year)
}

// GetMonthlyCategoryTotals returns per-month totals broken down by category
func (s *DashboardService) GetMonthlyCategoryTotals(ctx context.Context, userID uuid.UUID, year, month *int) ([]*domain.MonthlyCategoryTotal, error) {
	if err := validPeriod(year, month); err != nil {
		return nil, err
	}
	return s.transactionRepo.MonthlyCategoryTotals(ctx, userID, year, month)
}

// GetYearlyCategoryTotals returns per-year totals broken down by category
func (s *DashboardService) GetYearlyCategoryTotals(ctx context.Context, userID uuid.UUID, year *int) ([]*domain.YearlyCategoryTotal, error) {
	if err := validPeriod(year, nil); err != nil {
		return nil, err
	}
	return s.transactionRepo.YearlyCategoryTotals(ctx, userID, year)
}

// MonthTotals holds one calendar month's per-type totals
type MonthTotals struct {
	Year  int
	Month int
	Spend decimal.Decimal
	Earn  decimal.Decimal
	Save  decimal.Decimal
}

// MonthSummary pairs a month's totals with the preceding month's, so the
// dashboard cards can show the month-over-month movement.
type MonthSummary struct {
	Current  MonthTotals
	Previous MonthTotals
}

// GetMonthSummary totals one calendar month per transaction type, alongside
// the previous month. With no year/month given it reports the current month.
func (s *DashboardService) GetMonthSummary(ctx context.Context, userID uuid.UUID, year, month *int) (*MonthSummary, error) {
	if err := validPeriod(year, month); err != nil {
		return nil, err
	}

	y, m := util.CurrentMonth()
	if year != nil {
		y = *year
	}
	if month != nil {
		m = *month
	}

	current, err := s.monthTotals(ctx, userID, y, m)
	if err != nil {
		return nil, err
	}
	prevYear, prevMonth := util.PreviousMonth(y, m)
	previous, err := s.monthTotals(ctx, userID, prevYear, prevMonth)
	if err != nil {
		return nil, err
	}
	return &MonthSummary{Current: *current, Previous: *previous}, nil
}

func (s *DashboardService) monthTotals(ctx context.Context, userID uuid.UUID, year, month int) (*MonthTotals, error) {
	from, to := util.MonthRange(year, month)
	totals := &MonthTotals{Year: year, Month: month}
	for _, target := range []struct {
		typ  domain.TransactionType
		dest *decimal.Decimal
	}{
		{domain.TransactionTypeSpend, &totals.Spend},
		{domain.TransactionTypeEarn, &totals.Earn},
		{domain.TransactionTypeSave, &totals.Save},
	} {
		typ := target.typ
		total, err := s.transactionRepo.Sum(ctx, userID, &domain.SumFilters{
			From: &from,
			To:   &to,
			Type: &typ,
		})
		if err != nil {
			return nil, err
		}
		*target.dest = total
	}
	return totals, nil
}

// GetTaggedTotals returns per-type totals of transactions carrying any of
// the given tags.
func (s *DashboardService) GetTaggedTotals(ctx context.Context, userID uuid.UUID, tagsAny []string) ([]*domain.TaggedTotal, error) {
	return s.transactionRepo.TaggedTotals(ctx, userID, tagsAny)
}
