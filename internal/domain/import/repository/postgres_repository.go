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

const createJobQuery = `
	INSERT INTO import_jobs (id, user_id, profile_id, status, rows_total)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
`

const getJobQuery = `
	SELECT id, user_id, profile_id, status, rows_total, rows_imported, progress_pct,
	       error_message, created_at, finished_at
	FROM import_jobs
	WHERE id = $1 AND user_id = $2
`

const updateJobProgressQuery = `
	UPDATE import_jobs SET rows_imported = $2, progress_pct = $3 WHERE id = $1
`

const finishJobQuery = `
	UPDATE import_jobs SET
		status = $2, rows_imported = $3, progress_pct = $4, error_message = $5,
		finished_at = NOW()
	WHERE id = $1
`

// PostgresImportRepository implements ImportRepository using PostgreSQL.
type PostgresImportRepository struct {
	pgpool PgxPool
}

// NewPostgresImportRepository creates a new PostgreSQL-backed import repository.
func NewPostgresImportRepository(pgpool PgxPool) *PostgresImportRepository {
	return &PostgresImportRepository{pgpool: pgpool}
}

// CreateJob inserts a new running import job.
func (r *PostgresImportRepository) CreateJob(ctx context.Context, job *ImportJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = StatusRunning
	}

	return r.pgpool.QueryRow(ctx, createJobQuery,
		job.ID, job.UserID, job.ProfileID, job.Status, job.RowsTotal,
	).Scan(&job.CreatedAt)
}

// GetJobByID fetches a job scoped to the owning user.
func (r *PostgresImportRepository) GetJobByID(ctx context.Context, id, userID uuid.UUID) (*ImportJob, error) {
	rows, err := r.pgpool.Query(ctx, getJobQuery, id, userID)
	if err != nil {
		return nil, err
	}

	job, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[ImportJob])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJobProgress records the rows committed so far.
func (r *PostgresImportRepository) UpdateJobProgress(ctx context.Context, id uuid.UUID, rowsImported, progressPct int) error {
	_, err := r.pgpool.Exec(ctx, updateJobProgressQuery, id, rowsImported, progressPct)
	return err
}

// FinishJob marks the job terminal.
func (r *PostgresImportRepository) FinishJob(ctx context.Context, id uuid.UUID, status string, rowsImported, progressPct int, errorMessage *string) error {
	_, err := r.pgpool.Exec(ctx, finishJobQuery, id, status, rowsImported, progressPct, errorMessage)
	return err
}
