// Package profile manages the named ledgers a user records transactions
// against. Deleting a profile cascades to its transactions.
package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brlucas/fluxo/internal/domain/common"
)

// DefaultColor is assigned when a profile is created without one.
const DefaultColor = "#14b8a6"

// Profile is a named sub-ledger (a client, a person, a project).
type Profile struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	Color       string    `db:"color" json:"color"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PgxPool abstracts the subset of pgxpool.Pool used by the repository to allow mocking in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ PgxPool = (*pgxpool.Pool)(nil)

// Repository persists profiles.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*Profile, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

const createProfileQuery = `
	INSERT INTO profiles (id, user_id, name, description, color)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
`

const getProfileQuery = `
	SELECT id, user_id, name, description, color, created_at, updated_at
	FROM profiles
	WHERE id = $1 AND user_id = $2
`

const listProfilesQuery = `
	SELECT id, user_id, name, description, color, created_at, updated_at
	FROM profiles
	WHERE user_id = $1
	ORDER BY created_at ASC
`

const updateProfileQuery = `
	UPDATE profiles SET name = $3, description = $4, color = $5, updated_at = NOW()
	WHERE id = $1 AND user_id = $2
`

const deleteProfileQuery = `
	DELETE FROM profiles WHERE id = $1 AND user_id = $2
`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pgpool PgxPool
}

// NewPostgresRepository creates a new PostgreSQL-backed profile repository.
func NewPostgresRepository(pgpool PgxPool) *PostgresRepository {
	return &PostgresRepository{pgpool: pgpool}
}

func (r *PostgresRepository) Create(ctx context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Color == "" {
		p.Color = DefaultColor
	}

	return r.pgpool.QueryRow(ctx, createProfileQuery,
		p.ID, p.UserID, p.Name, p.Description, p.Color,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*Profile, error) {
	rows, err := r.pgpool.Query(ctx, getProfileQuery, id, userID)
	if err != nil {
		return nil, err
	}

	p, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Profile])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Profile, error) {
	rows, err := r.pgpool.Query(ctx, listProfilesQuery, userID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[Profile])
}

func (r *PostgresRepository) Update(ctx context.Context, p *Profile) error {
	tag, err := r.pgpool.Exec(ctx, updateProfileQuery,
		p.ID, p.UserID, p.Name, p.Description, p.Color,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes a profile; its transactions go with it via the cascade on
// the foreign key.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, deleteProfileQuery, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
