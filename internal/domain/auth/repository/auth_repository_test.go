package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/brlucas/fluxo/internal/domain/common"
)

func TestPostgresAuthRepository_CreateUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(createUserQuery)).
		WithArgs(pgxmock.AnyArg(), "repo@example.com", "hashed", "Repo User").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := NewPostgresAuthRepository(mock)
	user, err := repo.CreateUser(context.Background(), "repo@example.com", "hashed", "Repo User")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if !user.CreatedAt.Equal(now) {
		t.Fatalf("created_at not populated: %v", user.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresAuthRepository_GetUserByEmail_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "email", "password_hash", "display_name", "created_at", "updated_at"})
	mock.ExpectQuery(regexp.QuoteMeta(getUserByEmailQuery)).
		WithArgs("missing@example.com").
		WillReturnRows(rows)

	repo := NewPostgresAuthRepository(mock)
	_, err = repo.GetUserByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresAuthRepository_GetUserByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "email", "password_hash", "display_name", "created_at", "updated_at"}).
		AddRow(id, "found@example.com", "hashed", "Found", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(getUserByEmailQuery)).
		WithArgs("found@example.com").
		WillReturnRows(rows)

	repo := NewPostgresAuthRepository(mock)
	user, err := repo.GetUserByEmail(context.Background(), "found@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user.ID != id || user.Email != "found@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
