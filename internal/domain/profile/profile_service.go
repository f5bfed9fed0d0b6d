package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/brlucas/fluxo/internal/domain/common"
	"github.com/brlucas/fluxo/pkg/sanitize"
)

// Service implements the profile business logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Input carries the user-supplied fields for creating or updating a profile.
type Input struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Create persists a new profile for userID.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input) (*Profile, error) {
	name := sanitize.Text(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", common.ErrBadRequest)
	}

	p := &Profile{
		UserID:      userID,
		Name:        name,
		Description: sanitize.Optional(in.Description),
		Color:       in.Color,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create profile", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

// Get fetches one profile owned by userID.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Profile, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// List returns all of userID's profiles.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Profile, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update replaces the mutable fields of a profile owned by userID.
func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, in Input) (*Profile, error) {
	name := sanitize.Text(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", common.ErrBadRequest)
	}

	color := in.Color
	if color == "" {
		color = DefaultColor
	}

	p := &Profile{
		ID:          id,
		UserID:      userID,
		Name:        name,
		Description: sanitize.Optional(in.Description),
		Color:       color,
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, userID)
}

// Delete removes a profile and, through the schema cascade, its ledger.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}

// EnsureOwned verifies the profile exists and belongs to userID. The same
// not-found error is returned whether the profile is missing or owned by
// someone else.
func (s *Service) EnsureOwned(ctx context.Context, profileID, userID uuid.UUID) error {
	_, err := s.repo.GetByID(ctx, profileID, userID)
	return err
}
