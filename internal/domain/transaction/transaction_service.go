package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brlucas/fluxo/internal/domain/common"
	"github.com/brlucas/fluxo/internal/domain/import/normalizer"
)

// ProfileChecker verifies that a profile exists and belongs to a user.
// Implemented by the profile service.
type ProfileChecker interface {
	EnsureOwned(ctx context.Context, profileID, userID uuid.UUID) error
}

// Service implements the transaction business logic.
type Service struct {
	repo     Repository
	profiles ProfileChecker
	logger   *slog.Logger
}

// NewService creates a new transaction service.
func NewService(repo Repository, profiles ProfileChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, profiles: profiles, logger: logger}
}

// Input carries the user-supplied fields for creating or updating an entry.
// Type and PaymentMethod are raw text and are normalized permissively, the
// same way the CSV import does.
type Input struct {
	ProfileID       uuid.UUID       `json:"profile_id" binding:"required"`
	Type            string          `json:"type"`
	Description     string          `json:"description" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentSource   string          `json:"payment_source"`
	TransactionDate string          `json:"transaction_date" binding:"required"`
	Notes           string          `json:"notes"`
}

// Create validates, normalizes and persists a new ledger entry for userID.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input) (*Transaction, error) {
	if err := s.profiles.EnsureOwned(ctx, in.ProfileID, userID); err != nil {
		return nil, err
	}

	record, err := s.buildRecord(userID, in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		s.logger.Error("failed to create transaction", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return &record, nil
}

// Get fetches one entry owned by userID.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Transaction, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// ListByProfile returns the entries of one of userID's profiles, optionally
// bounded to an inclusive ISO date range.
func (s *Service) ListByProfile(ctx context.Context, profileID, userID uuid.UUID, f ListFilter) ([]Transaction, error) {
	if err := s.profiles.EnsureOwned(ctx, profileID, userID); err != nil {
		return nil, err
	}
	for _, bound := range []string{f.From, f.To} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", bound); err != nil {
			return nil, fmt.Errorf("%w: invalid date filter", common.ErrBadRequest)
		}
	}
	return s.repo.ListByProfile(ctx, profileID, userID, f)
}

// Update replaces the mutable fields of an existing entry owned by userID.
func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, in Input) (*Transaction, error) {
	if err := s.profiles.EnsureOwned(ctx, in.ProfileID, userID); err != nil {
		return nil, err
	}

	record, err := s.buildRecord(userID, in)
	if err != nil {
		return nil, err
	}
	record.ID = id

	if err := s.repo.Update(ctx, &record); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, userID)
}

// Delete removes an entry owned by userID.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}

// Summary aggregates one profile's ledger for dashboard display.
func (s *Service) Summary(ctx context.Context, profileID, userID uuid.UUID) (*Summary, error) {
	if err := s.profiles.EnsureOwned(ctx, profileID, userID); err != nil {
		return nil, err
	}
	return s.repo.SummaryByProfile(ctx, profileID, userID)
}

func (s *Service) buildRecord(userID uuid.UUID, in Input) (Transaction, error) {
	record := NewRecord(RecordInput{
		UserID:          userID,
		ProfileID:       in.ProfileID,
		Type:            NormalizeType(in.Type),
		Description:     in.Description,
		Amount:          in.Amount,
		PaymentMethod:   NormalizePaymentMethod(in.PaymentMethod),
		PaymentSource:   in.PaymentSource,
		TransactionDate: normalizer.ParseDate(in.TransactionDate),
		Notes:           in.Notes,
	})

	if record.Description == "" || len(record.Description) > MaxDescriptionLen {
		return Transaction{}, fmt.Errorf("%w: invalid description", common.ErrBadRequest)
	}
	if record.Amount.LessThan(MinAmount) || record.Amount.GreaterThan(MaxAmount) {
		return Transaction{}, fmt.Errorf("%w: amount out of range", common.ErrBadRequest)
	}
	if record.PaymentSource != nil && len(*record.PaymentSource) > MaxPaymentSourceLen {
		return Transaction{}, fmt.Errorf("%w: payment source too long", common.ErrBadRequest)
	}
	if record.Notes != nil && len(*record.Notes) > MaxNotesLen {
		return Transaction{}, fmt.Errorf("%w: notes too long", common.ErrBadRequest)
	}
	if _, err := time.Parse("2006-01-02", record.TransactionDate); err != nil {
		return Transaction{}, fmt.Errorf("%w: invalid transaction date", common.ErrBadRequest)
	}
	return record, nil
}
