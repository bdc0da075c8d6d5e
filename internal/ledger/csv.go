package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Header is the CSV header for a ledger file.
const Header = "id,date,amount,category,description,payment_mode,type,created_at"

const (
	numFields      = 8
	dateFormat     = "2006-01-02"
	colID          = 0
	colDate        = 1
	colAmount      = 2
	colCategory    = 3
	colDescription = 4
	colPaymentMode = 5
	colType        = 6
	colCreatedAt   = 7
)

// ReadTransactions reads all records from a ledger CSV reader.
func ReadTransactions(r io.Reader) ([]model.LedgerTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.LedgerTransaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes records to a ledger CSV writer, header included.
func WriteTransactions(w io.Writer, txns []model.LedgerTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendTransactions appends records to an existing ledger CSV (no header).
func AppendTransactions(w io.Writer, txns []model.LedgerTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a LedgerTransaction to a CSV row.
func MarshalTransaction(txn model.LedgerTransaction) []string {
	row := make([]string, numFields)
	row[colID] = txn.ID
	row[colDate] = txn.Date.Format(dateFormat)
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colCategory] = txn.Category
	row[colDescription] = txn.Description
	row[colPaymentMode] = txn.PaymentMode
	row[colType] = string(txn.Type)
	row[colCreatedAt] = txn.CreatedAt.Format(time.RFC3339)
	return row
}

// UnmarshalTransaction converts a CSV row to a LedgerTransaction.
func UnmarshalTransaction(record []string) (model.LedgerTransaction, error) {
	if len(record) != numFields {
		return model.LedgerTransaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.LedgerTransaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.LedgerTransaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	createdAt, err := time.Parse(time.RFC3339, record[colCreatedAt])
	if err != nil {
		return model.LedgerTransaction{}, fmt.Errorf("parsing created_at %q: %w", record[colCreatedAt], err)
	}

	return model.LedgerTransaction{
		ID:          record[colID],
		Date:        date,
		Amount:      amount,
		Category:    record[colCategory],
		Description: record[colDescription],
		PaymentMode: record[colPaymentMode],
		Type:        model.TransactionType(record[colType]),
		CreatedAt:   createdAt,
	}, nil
}
