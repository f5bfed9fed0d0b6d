// Package validator converts raw tokenized CSV rows into persist-ready
// ledger records, collecting every violation instead of failing fast.
package validator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/brlucas/fluxo/internal/domain/import/normalizer"
	"github.com/brlucas/fluxo/internal/domain/import/tokenizer"
	"github.com/brlucas/fluxo/internal/domain/transaction"
)

// ValidationError describes one field violation on one row. Row numbers are
// 1-based and match what the user sees in a spreadsheet.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of validating a whole file. A row appears either in
// Transactions or as the subject of at least one error, never both and never
// neither.
type Result struct {
	Valid        bool
	Errors       []ValidationError
	Transactions []transaction.Transaction
}

var isoDateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// earliest accepted transaction date; anything older is assumed to be a
// parsing accident rather than a real ledger entry
var minDate = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

// Validate normalizes and bounds-checks every row independently. It is pure:
// no I/O, no side effects, safe to call concurrently.
func Validate(rows []tokenizer.RawRow, userID, profileID uuid.UUID) Result {
	result := Result{}
	maxDate := time.Date(time.Now().Year()+1, 12, 31, 0, 0, 0, 0, time.UTC)

	for _, row := range rows {
		record := transaction.NewRecord(transaction.RecordInput{
			UserID:          userID,
			ProfileID:       profileID,
			Type:            transaction.NormalizeType(row.Tipo),
			Description:     row.Descricao,
			Amount:          normalizer.ParseCurrency(row.Valor),
			PaymentMethod:   transaction.NormalizePaymentMethod(row.FormaPagamento),
			PaymentSource:   row.FontePagamento,
			TransactionDate: normalizer.ParseDate(row.Data),
			Notes:           row.Observacao,
		})

		rowErrors := checkBounds(row.RowNumber, record, maxDate)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			continue
		}
		result.Transactions = append(result.Transactions, record)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func checkBounds(rowNum int, t transaction.Transaction, maxDate time.Time) []ValidationError {
	var errs []ValidationError

	fail := func(field, message string) {
		errs = append(errs, ValidationError{Row: rowNum, Field: field, Message: message})
	}

	if t.Description == "" {
		fail("descricao", "Descrição é obrigatória")
	} else if len(t.Description) > transaction.MaxDescriptionLen {
		fail("descricao", fmt.Sprintf("Descrição excede %d caracteres", transaction.MaxDescriptionLen))
	}

	if t.Amount.LessThan(transaction.MinAmount) {
		fail("valor", "Valor deve ser maior que zero")
	} else if t.Amount.GreaterThan(transaction.MaxAmount) {
		fail("valor", "Valor excede o limite permitido")
	}

	if t.PaymentSource != nil && len(*t.PaymentSource) > transaction.MaxPaymentSourceLen {
		fail("fonte_pagamento", fmt.Sprintf("Fonte de pagamento excede %d caracteres", transaction.MaxPaymentSourceLen))
	}

	if t.Notes != nil && len(*t.Notes) > transaction.MaxNotesLen {
		fail("observacao", fmt.Sprintf("Observação excede %d caracteres", transaction.MaxNotesLen))
	}

	if !isoDateShape.MatchString(t.TransactionDate) {
		fail("data", "Data inválida")
	} else {
		parsed, err := time.Parse("2006-01-02", t.TransactionDate)
		if err != nil || parsed.Before(minDate) || parsed.After(maxDate) {
			fail("data", "Data fora do intervalo permitido")
		}
	}

	return errs
}
