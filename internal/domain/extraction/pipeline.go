package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brlucas/fluxo/internal/domain/common"
	"github.com/brlucas/fluxo/internal/domain/import/normalizer"
	"github.com/brlucas/fluxo/internal/domain/transaction"
	"github.com/brlucas/fluxo/pkg/storage"
)

// ProfileChecker verifies profile ownership before any file state is touched.
type ProfileChecker interface {
	EnsureOwned(ctx context.Context, profileID, userID uuid.UUID) error
}

// TransactionInserter persists the extracted rows in a single call.
type TransactionInserter interface {
	InsertBatch(ctx context.Context, records []transaction.Transaction) (int, error)
}

// Service runs the extraction workflow and manages uploaded file records.
type Service struct {
	repo         Repository
	profiles     ProfileChecker
	blobs        storage.Storage
	client       ExtractionClient
	transactions TransactionInserter
	logger       *slog.Logger
}

// NewService creates a new extraction service.
func NewService(repo Repository, profiles ProfileChecker, blobs storage.Storage, client ExtractionClient, transactions TransactionInserter, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		profiles:     profiles,
		blobs:        blobs,
		client:       client,
		transactions: transactions,
		logger:       logger,
	}
}

// StageFile stores the uploaded bytes and creates the pending file record.
func (s *Service) StageFile(ctx context.Context, userID, profileID uuid.UUID, fileName, fileType string, data []byte) (*UploadedFile, error) {
	if err := s.profiles.EnsureOwned(ctx, profileID, userID); err != nil {
		return nil, err
	}

	f := &UploadedFile{
		ID:        uuid.New(),
		ProfileID: profileID,
		UserID:    userID,
		FileName:  fileName,
		FileType:  fileType,
		FileSize:  int64(len(data)),
		Status:    StatusPending,
	}
	f.StoragePath = fmt.Sprintf("uploads/%s/%s", userID, f.ID)

	if err := s.blobs.Put(ctx, f.StoragePath, fileType, bytes.NewReader(data)); err != nil {
		s.logger.Error("failed to store upload", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if err := s.repo.CreateFile(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}
	return f, nil
}

// ListFiles returns the file records of one of userID's profiles.
func (s *Service) ListFiles(ctx context.Context, profileID, userID uuid.UUID) ([]UploadedFile, error) {
	if err := s.profiles.EnsureOwned(ctx, profileID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListFilesByProfile(ctx, profileID, userID)
}

// Extract runs the full ingestion workflow for one (file, profile) pair and
// returns the number of ledger rows produced.
//
// Ownership is checked before any status write, so a rejected caller leaves
// the file record untouched. From the processing transition onward every
// failure is recorded on the record as a terminal failed state with a fixed
// user-facing message; raw errors are only logged.
func (s *Service) Extract(ctx context.Context, userID, fileID, profileID uuid.UUID) (int, error) {
	file, err := s.repo.GetFileByID(ctx, fileID, userID)
	if err != nil {
		return 0, err
	}
	if err := s.profiles.EnsureOwned(ctx, profileID, userID); err != nil {
		return 0, err
	}

	if err := s.repo.MarkProcessing(ctx, file.ID); err != nil {
		return 0, err
	}

	data, err := s.blobs.Get(ctx, file.StoragePath)
	if err != nil {
		s.logger.Error("failed to download file for extraction", "error", err, "file_id", file.ID)
		s.fail(ctx, file.ID, common.MsgExtractFailed)
		return 0, fmt.Errorf("%w: blob download: %v", ErrExtraction, err)
	}

	raw, err := s.client.Extract(ctx, file.FileType, data)
	if err != nil {
		s.logger.Error("model extraction failed", "error", err, "file_id", file.ID)
		s.fail(ctx, file.ID, upstreamMessage(err))
		return 0, err
	}

	extracted, err := parseModelResponse(raw)
	if err != nil {
		s.logger.Error("failed to parse model response", "error", err, "file_id", file.ID)
		s.fail(ctx, file.ID, common.MsgExtractFailed)
		return 0, err
	}

	records := s.normalize(userID, profileID, extracted)

	if len(records) > 0 {
		if _, err := s.transactions.InsertBatch(ctx, records); err != nil {
			s.logger.Error("failed to insert extracted transactions", "error", err, "file_id", file.ID)
			s.fail(ctx, file.ID, common.MsgExtractFailed)
			return 0, fmt.Errorf("%w: insert: %v", ErrExtraction, err)
		}
	}

	if err := s.repo.MarkCompleted(ctx, file.ID, len(records)); err != nil {
		s.logger.Warn("failed to mark file completed", "error", err, "file_id", file.ID)
	}
	return len(records), nil
}

// normalize turns untrusted model output into persist-ready records. The
// model is not trusted to encode sign: amounts are forced positive and the
// direction comes solely from the normalized type. Ownership ids are the
// server-resolved ones, never client or model input.
func (s *Service) normalize(userID, profileID uuid.UUID, extracted []ExtractedTransaction) []transaction.Transaction {
	records := make([]transaction.Transaction, 0, len(extracted))
	for _, e := range extracted {
		records = append(records, transaction.NewRecord(transaction.RecordInput{
			UserID:          userID,
			ProfileID:       profileID,
			Type:            transaction.NormalizeType(e.Type),
			Description:     e.Description,
			Amount:          decimal.NewFromFloat(e.Amount).Abs().Round(2),
			PaymentMethod:   transaction.NormalizePaymentMethod(e.PaymentMethod),
			PaymentSource:   e.PaymentSource,
			TransactionDate: normalizer.ParseDate(e.TransactionDate),
			Notes:           e.Notes,
		}))
	}
	return records
}

func (s *Service) fail(ctx context.Context, fileID uuid.UUID, message string) {
	if err := s.repo.MarkFailed(ctx, fileID, message); err != nil {
		s.logger.Warn("failed to mark file failed", "error", err, "file_id", fileID)
	}
}

func upstreamMessage(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return common.MsgExtractRateLimit
	case errors.Is(err, ErrNoCredits):
		return common.MsgExtractNoCredits
	default:
		return common.MsgExtractFailed
	}
}
