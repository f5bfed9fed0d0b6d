// Package repository persists import job records.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ImportJob is the durable progress record of one CSV import run.
type ImportJob struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	ProfileID    uuid.UUID  `db:"profile_id" json:"profile_id"`
	Status       string     `db:"status" json:"status"`
	RowsTotal    int        `db:"rows_total" json:"rows_total"`
	RowsImported int        `db:"rows_imported" json:"rows_imported"`
	ProgressPct  int        `db:"progress_pct" json:"progress_pct"`
	ErrorMessage *string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time `db:"finished_at" json:"finished_at"`
}

// ImportRepository persists import jobs and their progress.
type ImportRepository interface {
	CreateJob(ctx context.Context, job *ImportJob) error
	GetJobByID(ctx context.Context, id, userID uuid.UUID) (*ImportJob, error)
	UpdateJobProgress(ctx context.Context, id uuid.UUID, rowsImported, progressPct int) error
	FinishJob(ctx context.Context, id uuid.UUID, status string, rowsImported, progressPct int, errorMessage *string) error
}
