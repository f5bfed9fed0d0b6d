package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/brlucas/fluxo/internal/domain/common"
)

// PgxPool abstracts the subset of pgxpool.Pool used by the repository to allow mocking in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var _ PgxPool = (*pgxpool.Pool)(nil)

// Repository persists ledger entries.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*Transaction, error)
	ListByProfile(ctx context.Context, profileID, userID uuid.UUID, f ListFilter) ([]Transaction, error)
	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	InsertBatch(ctx context.Context, records []Transaction) (int, error)
	SummaryByProfile(ctx context.Context, profileID, userID uuid.UUID) (*Summary, error)
}

// ListFilter narrows ListByProfile. Empty bounds mean unbounded; dates are
// ISO (YYYY-MM-DD) and inclusive.
type ListFilter struct {
	From string
	To   string
}

// Summary aggregates a profile's ledger for dashboard display.
type Summary struct {
	TotalIncome  decimal.Decimal `db:"total_income" json:"total_income"`
	TotalExpense decimal.Decimal `db:"total_expense" json:"total_expense"`
	Balance      decimal.Decimal `db:"balance" json:"balance"`
	Count        int64           `db:"count" json:"count"`
}

const transactionColumns = `
	id, profile_id, user_id, type, description, amount, payment_method, payment_source,
	to_char(transaction_date, 'YYYY-MM-DD') AS transaction_date, notes, created_at, updated_at
`

const createTransactionQuery = `
	INSERT INTO transactions (id, profile_id, user_id, type, description, amount,
		payment_method, payment_source, transaction_date, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::date, $10)
	RETURNING created_at, updated_at
`

const getTransactionQuery = `
	SELECT ` + transactionColumns + `
	FROM transactions
	WHERE id = $1 AND user_id = $2
`

const listTransactionsQuery = `
	SELECT ` + transactionColumns + `
	FROM transactions
	WHERE profile_id = $1 AND user_id = $2
`

const listTransactionsOrder = ` ORDER BY transaction_date DESC, created_at DESC`

const updateTransactionQuery = `
	UPDATE transactions SET
		type = $3, description = $4, amount = $5, payment_method = $6,
		payment_source = $7, transaction_date = $8::date, notes = $9, updated_at = NOW()
	WHERE id = $1 AND user_id = $2
`

const deleteTransactionQuery = `
	DELETE FROM transactions WHERE id = $1 AND user_id = $2
`

const summaryQuery = `
	SELECT
		COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)  AS total_income,
		COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) AS total_expense,
		COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0) AS balance,
		COUNT(*) AS count
	FROM transactions
	WHERE profile_id = $1 AND user_id = $2
`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pgpool PgxPool
}

// NewPostgresRepository creates a new PostgreSQL-backed transaction repository.
func NewPostgresRepository(pgpool PgxPool) *PostgresRepository {
	return &PostgresRepository{pgpool: pgpool}
}

// Create inserts a single ledger entry.
func (r *PostgresRepository) Create(ctx context.Context, t *Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	err := r.pgpool.QueryRow(ctx, createTransactionQuery,
		t.ID, t.ProfileID, t.UserID, t.Type, t.Description, t.Amount,
		t.PaymentMethod, t.PaymentSource, t.TransactionDate, t.Notes,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

// GetByID fetches one entry scoped to the owning user.
func (r *PostgresRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*Transaction, error) {
	rows, err := r.pgpool.Query(ctx, getTransactionQuery, id, userID)
	if err != nil {
		return nil, err
	}

	t, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Transaction])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByProfile returns a profile's entries, newest first, optionally bounded
// by an inclusive date range.
func (r *PostgresRepository) ListByProfile(ctx context.Context, profileID, userID uuid.UUID, f ListFilter) ([]Transaction, error) {
	query := listTransactionsQuery
	args := []any{profileID, userID}

	if f.From != "" {
		args = append(args, f.From)
		query += fmt.Sprintf(" AND transaction_date >= $%d::date", len(args))
	}
	if f.To != "" {
		args = append(args, f.To)
		query += fmt.Sprintf(" AND transaction_date <= $%d::date", len(args))
	}
	query += listTransactionsOrder

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[Transaction])
}

// Update rewrites the mutable fields of an entry owned by userID.
func (r *PostgresRepository) Update(ctx context.Context, t *Transaction) error {
	tag, err := r.pgpool.Exec(ctx, updateTransactionQuery,
		t.ID, t.UserID, t.Type, t.Description, t.Amount,
		t.PaymentMethod, t.PaymentSource, t.TransactionDate, t.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes an entry owned by userID.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, deleteTransactionQuery, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// InsertBatch bulk-inserts a chunk of entries with COPY and returns the
// number of rows written.
func (r *PostgresRepository) InsertBatch(ctx context.Context, records []Transaction) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	columns := []string{
		"id", "profile_id", "user_id", "type", "description", "amount",
		"payment_method", "payment_source", "transaction_date", "notes",
	}

	count, err := r.pgpool.CopyFrom(ctx,
		pgx.Identifier{"transactions"},
		columns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			t := records[i]
			return []any{
				t.ID, t.ProfileID, t.UserID, string(t.Type), t.Description, t.Amount,
				string(t.PaymentMethod), t.PaymentSource, t.TransactionDate, t.Notes,
			}, nil
		}),
	)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// SummaryByProfile aggregates income, expense, balance and entry count.
func (r *PostgresRepository) SummaryByProfile(ctx context.Context, profileID, userID uuid.UUID) (*Summary, error) {
	rows, err := r.pgpool.Query(ctx, summaryQuery, profileID, userID)
	if err != nil {
		return nil, err
	}

	s, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Summary])
	if err != nil {
		return nil, err
	}
	return &s, nil
}
