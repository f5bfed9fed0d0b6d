package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brlucas/fluxo/internal/domain/import/repository"
	"github.com/brlucas/fluxo/internal/domain/transaction"
)

type fakeImportRepo struct {
	jobs      map[uuid.UUID]*repository.ImportJob
	progress  []int
	finished  string
	finishPct int
}

func newFakeImportRepo() *fakeImportRepo {
	return &fakeImportRepo{jobs: make(map[uuid.UUID]*repository.ImportJob)}
}

func (r *fakeImportRepo) CreateJob(_ context.Context, job *repository.ImportJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = repository.StatusRunning
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeImportRepo) GetJobByID(_ context.Context, id, _ uuid.UUID) (*repository.ImportJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return job, nil
}

func (r *fakeImportRepo) UpdateJobProgress(_ context.Context, id uuid.UUID, rowsImported, progressPct int) error {
	r.progress = append(r.progress, progressPct)
	if job, ok := r.jobs[id]; ok {
		job.RowsImported = rowsImported
		job.ProgressPct = progressPct
	}
	return nil
}

func (r *fakeImportRepo) FinishJob(_ context.Context, id uuid.UUID, status string, rowsImported, progressPct int, errorMessage *string) error {
	r.finished = status
	r.finishPct = progressPct
	if job, ok := r.jobs[id]; ok {
		job.Status = status
		job.RowsImported = rowsImported
		job.ProgressPct = progressPct
		job.ErrorMessage = errorMessage
	}
	return nil
}

type fakeTransactionStore struct {
	batches  [][]transaction.Transaction
	inserted int
	failAt   int // batch index to fail on, -1 for never
}

func (s *fakeTransactionStore) InsertBatch(_ context.Context, records []transaction.Transaction) (int, error) {
	if s.failAt >= 0 && len(s.batches) == s.failAt {
		return 0, errors.New("connection reset")
	}
	s.batches = append(s.batches, records)
	s.inserted += len(records)
	return len(records), nil
}

func (s *fakeTransactionStore) ListByProfile(_ context.Context, _, _ uuid.UUID, _ transaction.ListFilter) ([]transaction.Transaction, error) {
	var all []transaction.Transaction
	for _, b := range s.batches {
		all = append(all, b...)
	}
	return all, nil
}

type allowAllProfiles struct{}

func (allowAllProfiles) EnsureOwned(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func testService(store *fakeTransactionStore) (*ImportService, *fakeImportRepo) {
	repo := newFakeImportRepo()
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return NewImportService(repo, store, allowAllProfiles{}, logger), repo
}

func makeRecords(n int) []transaction.Transaction {
	userID, profileID := uuid.New(), uuid.New()
	records := make([]transaction.Transaction, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, transaction.NewRecord(transaction.RecordInput{
			UserID:          userID,
			ProfileID:       profileID,
			Type:            transaction.TypeExpense,
			Description:     fmt.Sprintf("Item %d", i+1),
			Amount:          decimal.RequireFromString("10.00"),
			PaymentMethod:   transaction.PaymentPix,
			TransactionDate: "2024-01-05",
		}))
	}
	return records
}

func TestImportValidated_BatchesAndProgress(t *testing.T) {
	store := &fakeTransactionStore{failAt: -1}
	svc, repo := testService(store)

	result, err := svc.importValidated(context.Background(), uuid.New(), uuid.New(), makeRecords(120))
	if err != nil {
		t.Fatalf("importValidated: %v", err)
	}

	if len(store.batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(store.batches))
	}
	for i, want := range []int{50, 50, 20} {
		if len(store.batches[i]) != want {
			t.Errorf("batch %d has %d rows, want %d", i, len(store.batches[i]), want)
		}
	}

	if len(repo.progress) != 3 || repo.progress[0] != 42 || repo.progress[1] != 83 || repo.progress[2] != 100 {
		t.Errorf("progress = %v, want [42 83 100]", repo.progress)
	}

	if result.RowsImported != 120 || result.ProgressPct != 100 {
		t.Errorf("result = %+v", result)
	}
	if repo.finished != repository.StatusSucceeded {
		t.Errorf("job finished as %q", repo.finished)
	}
}

func TestImportValidated_RowCapRejectedBeforePersist(t *testing.T) {
	store := &fakeTransactionStore{failAt: -1}
	svc, repo := testService(store)

	_, err := svc.importValidated(context.Background(), uuid.New(), uuid.New(), makeRecords(501))
	if !errors.Is(err, ErrTooManyRows) {
		t.Fatalf("err = %v, want ErrTooManyRows", err)
	}
	if store.inserted != 0 {
		t.Errorf("%d rows persisted, want 0", store.inserted)
	}
	if len(repo.jobs) != 0 {
		t.Errorf("job record created for rejected import")
	}
}

func TestImportValidated_HaltsOnBatchFailure(t *testing.T) {
	store := &fakeTransactionStore{failAt: 2}
	svc, repo := testService(store)

	_, err := svc.importValidated(context.Background(), uuid.New(), uuid.New(), makeRecords(120))
	if err == nil {
		t.Fatal("expected error")
	}

	// first two batches stay committed, the third is never attempted
	if store.inserted != 100 {
		t.Errorf("%d rows committed, want 100", store.inserted)
	}
	if repo.finished != repository.StatusFailed {
		t.Errorf("job finished as %q, want failed", repo.finished)
	}
	if repo.finishPct != 83 {
		t.Errorf("failure progress = %d, want 83", repo.finishPct)
	}
}

func TestImportCSV_ValidationErrorsBlockImport(t *testing.T) {
	store := &fakeTransactionStore{failAt: -1}
	svc, _ := testService(store)

	csvData := "descricao;valor;data\nOk;10,00;05/01/2024\n;0,00;05/01/2024\n"
	result, validationErrs, err := svc.ImportCSV(context.Background(), uuid.New(), uuid.New(), []byte(csvData))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if result != nil {
		t.Fatal("expected no result while validation errors exist")
	}
	if len(validationErrs) == 0 {
		t.Fatal("expected validation errors")
	}
	if store.inserted != 0 {
		t.Errorf("%d rows persisted despite validation errors", store.inserted)
	}
}

func TestImportCSV_EndToEnd(t *testing.T) {
	store := &fakeTransactionStore{failAt: -1}
	svc, _ := testService(store)

	csvData := "Descrição;Valor;Tipo;Forma de Pagamento;Fonte;Data;Observação\n" +
		"Salário;5.000,00;Receita;PIX;Nubank;05/01/2024;\n" +
		"Mercado;345,67;Despesa;Crédito;Itaú;10/01/2024;semana\n"

	result, validationErrs, err := svc.ImportCSV(context.Background(), uuid.New(), uuid.New(), []byte(csvData))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(validationErrs) != 0 {
		t.Fatalf("unexpected validation errors: %+v", validationErrs)
	}
	if result.RowsImported != 2 {
		t.Errorf("RowsImported = %d, want 2", result.RowsImported)
	}
}

func TestExportCSV_Format(t *testing.T) {
	store := &fakeTransactionStore{failAt: -1}
	svc, _ := testService(store)

	source := "Nubank"
	store.batches = append(store.batches, []transaction.Transaction{{
		Type:            transaction.TypeIncome,
		Description:     "Salário",
		Amount:          decimal.RequireFromString("5000.00"),
		PaymentMethod:   transaction.PaymentPix,
		PaymentSource:   &source,
		TransactionDate: "2024-01-05",
	}})

	out, err := svc.ExportCSV(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	text := string(out)
	if !strings.HasPrefix(text, "﻿") {
		t.Error("missing BOM")
	}
	if !strings.Contains(text, "Descrição;Valor;Tipo;Forma de Pagamento;Fonte/Cartão;Data;Observação") {
		t.Errorf("missing header: %q", text)
	}
	if !strings.Contains(text, "Salário;5000,00;Receita;pix;Nubank;05/01/2024;") {
		t.Errorf("unexpected row rendering: %q", text)
	}
}
