// Package transaction holds the ledger entry model and its persistence and
// business logic. Every ingestion path (manual entry, CSV import, AI
// extraction) funnels through NewRecord so free-text fields are sanitized
// exactly once, at the same boundary.
package transaction

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brlucas/fluxo/pkg/sanitize"
)

// Type is the direction of a ledger entry. Amounts are always stored
// positive; Type alone carries the sign.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// PaymentMethod is the payment instrument of a ledger entry.
type PaymentMethod string

const (
	PaymentPix           PaymentMethod = "pix"
	PaymentBoleto        PaymentMethod = "boleto"
	PaymentCredito       PaymentMethod = "credito"
	PaymentDebito        PaymentMethod = "debito"
	PaymentDinheiro      PaymentMethod = "dinheiro"
	PaymentTransferencia PaymentMethod = "transferencia"
)

// Field bounds shared by the CSV validator and the HTTP layer.
const (
	MaxDescriptionLen   = 500
	MaxPaymentSourceLen = 100
	MaxNotesLen         = 1000
)

var (
	MinAmount = decimal.RequireFromString("0.01")
	MaxAmount = decimal.RequireFromString("999999999.99")
)

var typeAliases = map[string]Type{
	"income":  TypeIncome,
	"receita": TypeIncome,
	"expense": TypeExpense,
	"despesa": TypeExpense,
}

var paymentAliases = map[string]PaymentMethod{
	"pix":               PaymentPix,
	"boleto":            PaymentBoleto,
	"credito":           PaymentCredito,
	"crédito":           PaymentCredito,
	"cartao de credito": PaymentCredito,
	"cartão de crédito": PaymentCredito,
	"credit":            PaymentCredito,
	"credit card":       PaymentCredito,
	"debito":            PaymentDebito,
	"débito":            PaymentDebito,
	"cartao de debito":  PaymentDebito,
	"cartão de débito":  PaymentDebito,
	"debit":             PaymentDebito,
	"debit card":        PaymentDebito,
	"dinheiro":          PaymentDinheiro,
	"cash":              PaymentDinheiro,
	"transferencia":     PaymentTransferencia,
	"transferência":     PaymentTransferencia,
	"transfer":          PaymentTransferencia,
	"ted":               PaymentTransferencia,
	"doc":               PaymentTransferencia,
}

// NormalizeType maps a raw textual type (Portuguese or English, any case)
// onto a canonical Type. Unrecognized input defaults to expense.
func NormalizeType(raw string) Type {
	if t, ok := typeAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return TypeExpense
}

// NormalizePaymentMethod maps raw payment method text onto a canonical
// PaymentMethod, tolerating accented and unaccented Portuguese spellings.
// Unrecognized input defaults to pix.
func NormalizePaymentMethod(raw string) PaymentMethod {
	if m, ok := paymentAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return m
	}
	return PaymentPix
}

// Transaction is one persisted ledger entry.
type Transaction struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	ProfileID       uuid.UUID       `db:"profile_id" json:"profile_id"`
	UserID          uuid.UUID       `db:"user_id" json:"user_id"`
	Type            Type            `db:"type" json:"type"`
	Description     string          `db:"description" json:"description"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod   PaymentMethod   `db:"payment_method" json:"payment_method"`
	PaymentSource   *string         `db:"payment_source" json:"payment_source"`
	TransactionDate string          `db:"transaction_date" json:"transaction_date"`
	Notes           *string         `db:"notes" json:"notes"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// RecordInput carries the already-normalized fields for one ledger entry.
// Type, PaymentMethod and Amount are expected to be canonical; free text may
// still be dirty.
type RecordInput struct {
	UserID          uuid.UUID
	ProfileID       uuid.UUID
	Type            Type
	Description     string
	Amount          decimal.Decimal
	PaymentMethod   PaymentMethod
	PaymentSource   string
	TransactionDate string
	Notes           string
}

// NewRecord assembles a persist-ready ledger entry, sanitizing every
// free-text field. This is the single ingestion boundary: both the CSV
// import and the AI extraction pipeline build their rows through here.
func NewRecord(in RecordInput) Transaction {
	return Transaction{
		ID:              uuid.New(),
		ProfileID:       in.ProfileID,
		UserID:          in.UserID,
		Type:            in.Type,
		Description:     sanitize.Text(in.Description),
		Amount:          in.Amount,
		PaymentMethod:   in.PaymentMethod,
		PaymentSource:   sanitize.Optional(in.PaymentSource),
		TransactionDate: in.TransactionDate,
		Notes:           sanitize.Optional(in.Notes),
	}
}
