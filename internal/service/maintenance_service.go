package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// MaintenanceService handles account-wide data operations
type MaintenanceService struct {
	maintenanceRepo domain.MaintenanceRepository
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(maintenanceRepo domain.MaintenanceRepository) *MaintenanceService {
	return &MaintenanceService{maintenanceRepo: maintenanceRepo}
}

// ResetData deletes all of the user's data and reports per-table counts.
// The caller is responsible for confirming intent before invoking this.
func (s *MaintenanceService) ResetData(ctx context.Context, userID uuid.UUID) (*domain.ResetResult, error) {
	result, err := s.maintenanceRepo.ResetUserData(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Data reset failed")
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Int64("transactions", result.TransactionsDeleted).
		Int64("categories", result.CategoriesDeleted).
		Int64("tags", result.TagsDeleted).
		Int64("bank_accounts", result.BankAccountsDeleted).
		Msg("User data reset")

	return result, nil
}
