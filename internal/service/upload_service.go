package service

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/knappert/spendwise/spendwise-backend/internal/repository/storage"
	"github.com/rs/zerolog/log"
)

// UploadService runs the bulk upload pipeline: document validation, one-pass
// row validation, atomic batch insert, report assembly.
type UploadService struct {
	uploadRepo  domain.UploadRepository
	archiveRepo storage.ArchiveRepository // nil disables archiving
}

// NewUploadService creates a new UploadService. archiveRepo may be nil.
func NewUploadService(uploadRepo domain.UploadRepository, archiveRepo storage.ArchiveRepository) *UploadService {
	return &UploadService{
		uploadRepo:  uploadRepo,
		archiveRepo: archiveRepo,
	}
}

// ProcessUpload ingests one document for the user.
//
// Document-level failures (size, encoding, shape, emptiness) reject the
// whole upload and return the parse error. Past that point every defect is
// a row-level error: the row is reported by its 1-based position and
// skipped, the rest of the document still lands, and Success stays true.
// Only a store failure aborts the batch.
func (s *UploadService) ProcessUpload(ctx context.Context, userID uuid.UUID, data []byte) (*domain.UploadResult, error) {
	doc, err := domain.ParseUploadDocument(data)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("user_id", userID.String()).
		Str("sections", doc.Summary()).
		Msg("Upload document accepted")

	batch := &domain.UploadBatch{}
	details := &domain.UploadDetails{}

	for i, raw := range doc.Categories {
		row, err := domain.DecodeUploadCategory(raw)
		if err != nil {
			details.Categories = append(details.Categories, domain.RowError{Index: i + 1, Error: err.Error()})
			continue
		}
		batch.Categories = append(batch.Categories, domain.IndexedCategory{Index: i + 1, Record: row})
	}
	for i, raw := range doc.BankAccounts {
		row, err := domain.DecodeUploadBankAccount(raw)
		if err != nil {
			details.BankAccounts = append(details.BankAccounts, domain.RowError{Index: i + 1, Error: err.Error()})
			continue
		}
		batch.BankAccounts = append(batch.BankAccounts, domain.IndexedBankAccount{Index: i + 1, Record: row})
	}
	for i, raw := range doc.Tags {
		row, err := domain.DecodeUploadTag(raw)
		if err != nil {
			details.Tags = append(details.Tags, domain.RowError{Index: i + 1, Error: err.Error()})
			continue
		}
		batch.Tags = append(batch.Tags, domain.IndexedTag{Index: i + 1, Record: row})
	}
	for i, raw := range doc.Transactions {
		row, err := domain.DecodeUploadTransaction(raw)
		if err != nil {
			details.Transactions = append(details.Transactions, domain.RowError{Index: i + 1, Error: err.Error()})
			continue
		}
		batch.Transactions = append(batch.Transactions, domain.IndexedTransaction{Index: i + 1, Record: row})
	}

	inserted, err := s.uploadRepo.BulkInsert(ctx, userID, batch)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Bulk insert failed")
		return nil, err
	}

	// Resolution errors surface alongside field errors, ordered by the
	// row's original position.
	details.Transactions = append(details.Transactions, inserted.TransactionErrors...)
	sort.Slice(details.Transactions, func(i, j int) bool {
		return details.Transactions[i].Index < details.Transactions[j].Index
	})

	result := &domain.UploadResult{
		Success:              true,
		CategoriesInserted:   inserted.CategoriesInserted,
		BankAccountsInserted: inserted.BankAccountsInserted,
		TagsInserted:         inserted.TagsInserted,
		TransactionsInserted: inserted.TransactionsInserted,
	}
	if !details.Empty() {
		result.Details = details
	}

	s.archive(ctx, userID, data)

	log.Info().
		Str("user_id", userID.String()).
		Int("categories", result.CategoriesInserted).
		Int("bank_accounts", result.BankAccountsInserted).
		Int("tags", result.TagsInserted).
		Int("transactions", result.TransactionsInserted).
		Bool("has_row_errors", result.Details != nil).
		Msg("Upload processed")

	return result, nil
}

// archive stores the accepted raw document best-effort. A failure here
// never fails the upload.
func (s *UploadService) archive(ctx context.Context, userID uuid.UUID, data []byte) {
	if s.archiveRepo == nil {
		return
	}

	objectPath := storage.UploadObjectPath(userID, uuid.New())
	_, err := s.archiveRepo.Store(ctx, objectPath, bytes.NewReader(data), "application/json", int64(len(data)))
	if err != nil {
		log.Warn().Err(err).Str("object_path", objectPath).Msg("Failed to archive upload document")
	}
}
