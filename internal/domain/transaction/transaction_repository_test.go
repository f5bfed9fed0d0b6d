package transaction

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/brlucas/fluxo/internal/domain/common"
)

func TestPostgresRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(createTransactionQuery)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), TypeExpense, "Mercado",
			pgxmock.AnyArg(), PaymentPix, nil, "2024-01-05", nil).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := NewPostgresRepository(mock)
	tx := Transaction{
		ProfileID:       uuid.New(),
		UserID:          uuid.New(),
		Type:            TypeExpense,
		Description:     "Mercado",
		Amount:          decimal.RequireFromString("45.23"),
		PaymentMethod:   PaymentPix,
		TransactionDate: "2024-01-05",
	}
	if err := repo.Create(context.Background(), &tx); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tx.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	id, userID := uuid.New(), uuid.New()
	rows := pgxmock.NewRows([]string{
		"id", "profile_id", "user_id", "type", "description", "amount", "payment_method",
		"payment_source", "transaction_date", "notes", "created_at", "updated_at",
	})
	mock.ExpectQuery(regexp.QuoteMeta(getTransactionQuery)).
		WithArgs(id, userID).
		WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	_, err = repo.GetByID(context.Background(), id, userID)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepository_ListByProfile_DateFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	profileID, userID := uuid.New(), uuid.New()
	query := listTransactionsQuery +
		" AND transaction_date >= $3::date AND transaction_date <= $4::date" +
		listTransactionsOrder
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(profileID, userID, "2024-01-01", "2024-01-31").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "profile_id", "user_id", "type", "description", "amount", "payment_method",
			"payment_source", "transaction_date", "notes", "created_at", "updated_at",
		}))

	repo := NewPostgresRepository(mock)
	list, err := repo.ListByProfile(context.Background(), profileID, userID, ListFilter{From: "2024-01-01", To: "2024-01-31"})
	if err != nil {
		t.Fatalf("ListByProfile: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("len = %d, want 0", len(list))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepository_Delete_NotOwned(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	id, userID := uuid.New(), uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(deleteTransactionQuery)).
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgresRepository(mock)
	if err := repo.Delete(context.Background(), id, userID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepository_InsertBatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"transactions"}, []string{
		"id", "profile_id", "user_id", "type", "description", "amount",
		"payment_method", "payment_source", "transaction_date", "notes",
	}).WillReturnResult(2)

	records := []Transaction{
		{ID: uuid.New(), Type: TypeExpense, Description: "A", Amount: decimal.RequireFromString("1.00"), PaymentMethod: PaymentPix, TransactionDate: "2024-01-05"},
		{ID: uuid.New(), Type: TypeIncome, Description: "B", Amount: decimal.RequireFromString("2.00"), PaymentMethod: PaymentPix, TransactionDate: "2024-01-06"},
	}

	repo := NewPostgresRepository(mock)
	n, err := repo.InsertBatch(context.Background(), records)
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepository_InsertBatch_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	n, err := repo.InsertBatch(context.Background(), nil)
	if err != nil || n != 0 {
		t.Fatalf("InsertBatch(nil) = %d, %v", n, err)
	}
}
