package validator

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brlucas/fluxo/internal/domain/import/tokenizer"
	"github.com/brlucas/fluxo/internal/domain/transaction"
)

var (
	testUser    = uuid.New()
	testProfile = uuid.New()
)

func row(n int, desc, valor, tipo, forma, fonte, data, obs string) tokenizer.RawRow {
	return tokenizer.RawRow{
		RowNumber:      n,
		Descricao:      desc,
		Valor:          valor,
		Tipo:           tipo,
		FormaPagamento: forma,
		FontePagamento: fonte,
		Data:           data,
		Observacao:     obs,
	}
}

func TestValidate_SalaryRow(t *testing.T) {
	rows := []tokenizer.RawRow{
		row(1, "Salário", "5.000,00", "Receita", "PIX", "Nubank", "05/01/2024", ""),
	}

	result := Validate(rows, testUser, testProfile)
	if !result.Valid {
		t.Fatalf("expected valid, got errors: %+v", result.Errors)
	}
	if len(result.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(result.Transactions))
	}

	tx := result.Transactions[0]
	if tx.Description != "Salário" {
		t.Errorf("Description = %q", tx.Description)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("5000.00")) {
		t.Errorf("Amount = %s, want 5000.00", tx.Amount)
	}
	if tx.Type != transaction.TypeIncome {
		t.Errorf("Type = %s, want income", tx.Type)
	}
	if tx.PaymentMethod != transaction.PaymentPix {
		t.Errorf("PaymentMethod = %s, want pix", tx.PaymentMethod)
	}
	if tx.PaymentSource == nil || *tx.PaymentSource != "Nubank" {
		t.Errorf("PaymentSource = %v, want Nubank", tx.PaymentSource)
	}
	if tx.TransactionDate != "2024-01-05" {
		t.Errorf("TransactionDate = %q, want 2024-01-05", tx.TransactionDate)
	}
	if tx.Notes != nil {
		t.Errorf("Notes = %v, want nil", tx.Notes)
	}
	if tx.UserID != testUser || tx.ProfileID != testProfile {
		t.Errorf("ownership not attached: %+v", tx)
	}
}

func TestValidate_AccumulatesAllErrors(t *testing.T) {
	rows := []tokenizer.RawRow{
		row(1, "", "0,00", "despesa", "pix", "", "05/01/2024", ""),
		row(2, "Ok", "10,00", "receita", "pix", "", "05/01/2024", ""),
		row(3, strings.Repeat("a", 501), "-5,00", "despesa", "pix", "", "05/01/2024", ""),
	}

	result := Validate(rows, testUser, testProfile)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Transactions) != 1 {
		t.Fatalf("got %d valid transactions, want 1", len(result.Transactions))
	}
	// row 1: empty description + zero amount; row 3: overlong description + negative amount
	if len(result.Errors) != 4 {
		t.Fatalf("got %d errors, want 4: %+v", len(result.Errors), result.Errors)
	}
	for _, e := range result.Errors {
		if e.Row != 1 && e.Row != 3 {
			t.Errorf("error on unexpected row %d", e.Row)
		}
	}
}

// A description that is empty only after sanitization must surface as a
// validation error, not a silently dropped row.
func TestValidate_DescriptionEmptyAfterSanitize(t *testing.T) {
	rows := []tokenizer.RawRow{
		row(1, "<><>", "10,00", "despesa", "pix", "", "05/01/2024", ""),
	}

	result := Validate(rows, testUser, testProfile)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) != 1 || result.Errors[0].Field != "descricao" {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Transactions) != 0 {
		t.Fatalf("row must not produce a transaction")
	}
}

func TestValidate_DateWindow(t *testing.T) {
	farFuture := fmt.Sprintf("01/01/%d", time.Now().Year()+2)
	rows := []tokenizer.RawRow{
		row(1, "Antiga", "10,00", "despesa", "pix", "", "31/12/1989", ""),
		row(2, "Futura", "10,00", "despesa", "pix", "", farFuture, ""),
		row(3, "Limite inferior", "10,00", "despesa", "pix", "", "01/01/1990", ""),
		row(4, "Limite superior", "10,00", "despesa", "pix", "", fmt.Sprintf("31/12/%d", time.Now().Year()+1), ""),
	}

	result := Validate(rows, testUser, testProfile)
	if len(result.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %+v", len(result.Errors), result.Errors)
	}
	if len(result.Transactions) != 2 {
		t.Fatalf("got %d valid, want 2", len(result.Transactions))
	}
}

func TestValidate_UnknownEnumsFallBackToDefaults(t *testing.T) {
	rows := []tokenizer.RawRow{
		row(1, "Compra", "10,00", "whatever", "cheque", "", "05/01/2024", ""),
	}

	result := Validate(rows, testUser, testProfile)
	if !result.Valid {
		t.Fatalf("expected valid, got %+v", result.Errors)
	}
	tx := result.Transactions[0]
	if tx.Type != transaction.TypeExpense || tx.PaymentMethod != transaction.PaymentPix {
		t.Errorf("defaults not applied: type=%s method=%s", tx.Type, tx.PaymentMethod)
	}
}

// Every input row must end up exactly once as either a valid transaction or
// the subject of at least one error.
func TestValidate_RowAccounting(t *testing.T) {
	var rows []tokenizer.RawRow
	for i := 1; i <= 20; i++ {
		valor := "10,00"
		if i%3 == 0 {
			valor = "0,00"
		}
		rows = append(rows, row(i, fmt.Sprintf("Item %d", i), valor, "despesa", "pix", "", "05/01/2024", ""))
	}

	result := Validate(rows, testUser, testProfile)

	errRows := make(map[int]bool)
	for _, e := range result.Errors {
		errRows[e.Row] = true
	}
	if len(result.Transactions)+len(errRows) != len(rows) {
		t.Fatalf("accounting mismatch: %d valid + %d error rows != %d input rows",
			len(result.Transactions), len(errRows), len(rows))
	}
}
