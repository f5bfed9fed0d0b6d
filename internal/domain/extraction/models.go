// Package extraction runs the document-to-ledger ingestion workflow: a
// staged file is downloaded from blob storage, sent to a multimodal model,
// and the extracted rows are normalized and persisted against the file's
// profile. Every step records its outcome on the file record.
package extraction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// File statuses. Transitions are one-directional:
// pending -> processing -> completed | failed.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Upstream failure classes. They map to distinct HTTP statuses because they
// need different caller-side remediation.
var (
	ErrRateLimited = errors.New("ai gateway rate limited")
	ErrNoCredits   = errors.New("ai gateway credits exhausted")
	ErrExtraction  = errors.New("document extraction failed")
)

// UploadedFile is the durable record of one staged document and of the
// extraction attempt run against it.
type UploadedFile struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ProfileID      uuid.UUID `db:"profile_id" json:"profile_id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	FileName       string    `db:"file_name" json:"file_name"`
	FileType       string    `db:"file_type" json:"file_type"`
	FileSize       int64     `db:"file_size" json:"file_size"`
	StoragePath    string    `db:"storage_path" json:"-"`
	Status         string    `db:"status" json:"status"`
	ProcessedCount int       `db:"processed_count" json:"processed_count"`
	ErrorMessage   *string   `db:"error_message" json:"error_message"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ExtractedTransaction is one candidate row as produced by the model. All
// fields are untrusted until normalized.
type ExtractedTransaction struct {
	Description     string  `json:"description"`
	Amount          float64 `json:"amount"`
	Type            string  `json:"type"`
	PaymentMethod   string  `json:"payment_method"`
	PaymentSource   string  `json:"payment_source"`
	TransactionDate string  `json:"transaction_date"`
	Notes           string  `json:"notes"`
}
