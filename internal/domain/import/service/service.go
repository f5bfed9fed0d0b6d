// Package service drives validated CSV rows through batched inserts and
// renders ledger exports.
package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/brlucas/fluxo/internal/domain/import/normalizer"
	"github.com/brlucas/fluxo/internal/domain/import/repository"
	"github.com/brlucas/fluxo/internal/domain/import/tokenizer"
	"github.com/brlucas/fluxo/internal/domain/import/validator"
	"github.com/brlucas/fluxo/internal/domain/transaction"
)

const (
	// MaxImportRows caps a single import run. Checked before any
	// persistence; exceeding it rejects the whole file.
	MaxImportRows = 500

	batchSize = 50
)

// ErrTooManyRows is returned when a file holds more data rows than
// MaxImportRows.
var ErrTooManyRows = errors.New("import exceeds the row limit")

// TransactionStore is the slice of the transaction repository the import
// service needs.
type TransactionStore interface {
	InsertBatch(ctx context.Context, records []transaction.Transaction) (int, error)
	ListByProfile(ctx context.Context, profileID, userID uuid.UUID, f transaction.ListFilter) ([]transaction.Transaction, error)
}

// ProfileChecker verifies profile ownership before any rows are written.
type ProfileChecker interface {
	EnsureOwned(ctx context.Context, profileID, userID uuid.UUID) error
}

// ImportResult is the outcome of a completed import run.
type ImportResult struct {
	JobID        uuid.UUID `json:"job_id"`
	RowsTotal    int       `json:"rows_total"`
	RowsImported int       `json:"rows_imported"`
	ProgressPct  int       `json:"progress_pct"`
}

// ImportService orchestrates CSV import and export.
type ImportService struct {
	repo         repository.ImportRepository
	transactions TransactionStore
	profiles     ProfileChecker
	logger       *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(repo repository.ImportRepository, transactions TransactionStore, profiles ProfileChecker, logger *slog.Logger) *ImportService {
	return &ImportService{
		repo:         repo,
		transactions: transactions,
		profiles:     profiles,
		logger:       logger,
	}
}

// ImportCSV tokenizes, validates and persists a CSV file against profileID.
// When validation fails the error list is returned and nothing is persisted;
// the caller surfaces the list so the user can fix the file and retry.
func (s *ImportService) ImportCSV(ctx context.Context, userID, profileID uuid.UUID, fileData []byte) (*ImportResult, []validator.ValidationError, error) {
	if err := s.profiles.EnsureOwned(ctx, profileID, userID); err != nil {
		return nil, nil, err
	}

	rows, err := tokenizer.Tokenize(string(fileData))
	if err != nil {
		return nil, nil, err
	}

	result := validator.Validate(rows, userID, profileID)
	if !result.Valid {
		return nil, result.Errors, nil
	}

	imported, err := s.importValidated(ctx, userID, profileID, result.Transactions)
	if err != nil {
		return nil, nil, err
	}
	return imported, nil, nil
}

// importValidated persists pre-validated records in fixed-size sequential
// batches. A batch failure halts the run; earlier batches stay committed and
// the job is finished as failed with the progress reached so far.
func (s *ImportService) importValidated(ctx context.Context, userID, profileID uuid.UUID, records []transaction.Transaction) (*ImportResult, error) {
	total := len(records)
	if total > MaxImportRows {
		return nil, ErrTooManyRows
	}

	job := &repository.ImportJob{
		UserID:    userID,
		ProfileID: profileID,
		RowsTotal: total,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}

	imported := 0
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}

		n, err := s.transactions.InsertBatch(ctx, records[start:end])
		if err != nil {
			pct := progressPct(imported, total)
			msg := fmt.Sprintf("importação interrompida após %d de %d transações", imported, total)
			if finishErr := s.repo.FinishJob(ctx, job.ID, repository.StatusFailed, imported, pct, &msg); finishErr != nil {
				s.logger.Warn("failed to finish import job", "error", finishErr, "job_id", job.ID)
			}
			return nil, fmt.Errorf("failed to insert batch starting at row %d: %w", start+1, err)
		}

		imported += n
		if err := s.repo.UpdateJobProgress(ctx, job.ID, imported, progressPct(imported, total)); err != nil {
			s.logger.Warn("failed to update import job progress", "error", err, "job_id", job.ID)
		}
	}

	if err := s.repo.FinishJob(ctx, job.ID, repository.StatusSucceeded, imported, progressPct(imported, total), nil); err != nil {
		s.logger.Warn("failed to finish import job", "error", err, "job_id", job.ID)
	}

	return &ImportResult{
		JobID:        job.ID,
		RowsTotal:    total,
		RowsImported: imported,
		ProgressPct:  progressPct(imported, total),
	}, nil
}

// GetJob fetches an import job owned by userID.
func (s *ImportService) GetJob(ctx context.Context, id, userID uuid.UUID) (*repository.ImportJob, error) {
	return s.repo.GetJobByID(ctx, id, userID)
}

func progressPct(imported, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(imported) / float64(total) * 100))
}

var exportHeader = []string{"Descrição", "Valor", "Tipo", "Forma de Pagamento", "Fonte/Cartão", "Data", "Observação"}

// ExportCSV renders a profile's ledger as UTF-8 CSV with a BOM, semicolon
// delimiter and Brazilian display formats.
func (s *ImportService) ExportCSV(ctx context.Context, userID, profileID uuid.UUID) ([]byte, error) {
	if err := s.profiles.EnsureOwned(ctx, profileID, userID); err != nil {
		return nil, err
	}

	records, err := s.transactions.ListByProfile(ctx, profileID, userID, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for export: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("﻿")

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, t := range records {
		label := "Despesa"
		if t.Type == transaction.TypeIncome {
			label = "Receita"
		}
		row := []string{
			t.Description,
			normalizer.FormatCurrency(t.Amount),
			label,
			string(t.PaymentMethod),
			deref(t.PaymentSource),
			normalizer.FormatDate(t.TransactionDate),
			deref(t.Notes),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
