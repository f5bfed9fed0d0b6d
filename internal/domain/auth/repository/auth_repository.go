package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brlucas/fluxo/internal/domain/common"
)

// PgxPool abstracts the subset of pgxpool.Pool used by the repository to allow mocking in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ PgxPool = (*pgxpool.Pool)(nil)

const createUserQuery = `
	INSERT INTO users (id, email, password_hash, display_name)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
`

const getUserByEmailQuery = `
	SELECT id, email, password_hash, display_name, created_at, updated_at
	FROM users WHERE email = $1
`

const getUserByIDQuery = `
	SELECT id, email, password_hash, display_name, created_at, updated_at
	FROM users WHERE id = $1
`

// PostgresAuthRepository handles database operations for authentication.
type PostgresAuthRepository struct {
	pgpool PgxPool
}

// NewPostgresAuthRepository creates a new auth repository.
func NewPostgresAuthRepository(pgpool PgxPool) *PostgresAuthRepository {
	return &PostgresAuthRepository{pgpool: pgpool}
}

// CreateUser creates a new user account. Duplicate emails surface as
// ErrConflict via the unique constraint.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, email, passwordHash, displayName string) (*User, error) {
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
	}

	err := r.pgpool.QueryRow(ctx, createUserQuery,
		user.ID, user.Email, user.PasswordHash, user.DisplayName,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// GetUserByEmail looks up an account by email.
func (r *PostgresAuthRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	rows, err := r.pgpool.Query(ctx, getUserByEmailQuery, email)
	if err != nil {
		return nil, err
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID looks up an account by id.
func (r *PostgresAuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	rows, err := r.pgpool.Query(ctx, getUserByIDQuery, id)
	if err != nil {
		return nil, err
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
