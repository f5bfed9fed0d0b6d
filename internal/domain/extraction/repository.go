package extraction

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

// Repository persists uploaded file records and their status transitions.
type Repository interface {
	CreateFile(ctx context.Context, f *UploadedFile) error
	GetFileByID(ctx context.Context, id, userID uuid.UUID) (*UploadedFile, error)
	ListFilesByProfile(ctx context.Context, profileID, userID uuid.UUID) ([]UploadedFile, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
	MarkCompleted(ctx context.Context, id uuid.UUID, processedCount int) error
}

const createFileQuery = `
	INSERT INTO uploaded_files (id, profile_id, user_id, file_name, file_type, file_size, storage_path, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
`

const getFileQuery = `
	SELECT id, profile_id, user_id, file_name, file_type, file_size, storage_path,
	       status, processed_count, error_message, created_at, updated_at
	FROM uploaded_files
	WHERE id = $1 AND user_id = $2
`

const listFilesQuery = `
	SELECT id, profile_id, user_id, file_name, file_type, file_size, storage_path,
	       status, processed_count, error_message, created_at, updated_at
	FROM uploaded_files
	WHERE profile_id = $1 AND user_id = $2
	ORDER BY created_at DESC
`

// Guarded transition: only a pending file may move to processing, so two
// concurrent extraction requests for the same file cannot both proceed.
const markProcessingQuery = `
	UPDATE uploaded_files SET status = 'processing', updated_at = NOW()
	WHERE id = $1 AND status = 'pending'
`

const markFailedQuery = `
	UPDATE uploaded_files SET status = 'failed', error_message = $2, updated_at = NOW()
	WHERE id = $1
`

const markCompletedQuery = `
	UPDATE uploaded_files SET status = 'completed', processed_count = $2,
		error_message = NULL, updated_at = NOW()
	WHERE id = $1
`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pgpool PgxPool
}

// NewPostgresRepository creates a new PostgreSQL-backed extraction repository.
func NewPostgresRepository(pgpool PgxPool) *PostgresRepository {
	return &PostgresRepository{pgpool: pgpool}
}

// CreateFile inserts a new pending file record.
func (r *PostgresRepository) CreateFile(ctx context.Context, f *UploadedFile) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.Status == "" {
		f.Status = StatusPending
	}

	return r.pgpool.QueryRow(ctx, createFileQuery,
		f.ID, f.ProfileID, f.UserID, f.FileName, f.FileType, f.FileSize, f.StoragePath, f.Status,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
}

// GetFileByID fetches a file record scoped to the owning user.
func (r *PostgresRepository) GetFileByID(ctx context.Context, id, userID uuid.UUID) (*UploadedFile, error) {
	rows, err := r.pgpool.Query(ctx, getFileQuery, id, userID)
	if err != nil {
		return nil, err
	}

	f, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[UploadedFile])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFilesByProfile returns a profile's file records, newest first.
func (r *PostgresRepository) ListFilesByProfile(ctx context.Context, profileID, userID uuid.UUID) ([]UploadedFile, error) {
	rows, err := r.pgpool.Query(ctx, listFilesQuery, profileID, userID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[UploadedFile])
}

// MarkProcessing moves a pending file to processing. Returns ErrConflict if
// the file is not currently pending.
func (r *PostgresRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, markProcessingQuery, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrConflict
	}
	return nil
}

// MarkFailed records a terminal failure with its user-facing message.
func (r *PostgresRepository) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	_, err := r.pgpool.Exec(ctx, markFailedQuery, id, message)
	return err
}

// MarkCompleted records a terminal success and the number of rows produced.
func (r *PostgresRepository) MarkCompleted(ctx context.Context, id uuid.UUID, processedCount int) error {
	_, err := r.pgpool.Exec(ctx, markCompletedQuery, id, processedCount)
	return err
}
