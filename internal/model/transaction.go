package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of a transaction.
type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

// RawRow is one data row from an uploaded file, keyed by the normalized
// header token. Keys preserves the source column order; Index is the 1-based
// row number in the source file.
type RawRow struct {
	Index int
	Keys  []string
	Cells map[string]string
}

// Transaction is a canonical draft built from an imported row. It is not
// persisted; the ledger owns the stored form.
type Transaction struct {
	Date        time.Time // midnight UTC
	Amount      decimal.Decimal
	Category    string
	SubCategory string
	Description string
	PaymentMode string
	Remark      string
	Type        TransactionType
	RowIndex    int

	// Invalid marks drafts that must not reach the matcher. Reason is
	// human-readable and shown to the user alongside the row.
	Invalid bool
	Reason  string
}

// LedgerTransaction is a persisted record owned by the ledger collaborator.
type LedgerTransaction struct {
	ID          string
	Date        time.Time
	Amount      decimal.Decimal
	Category    string
	Description string
	PaymentMode string
	Type        TransactionType
	CreatedAt   time.Time
}
