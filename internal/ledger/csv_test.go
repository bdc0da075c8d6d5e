package ledger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleTxns() []model.LedgerTransaction {
	return []model.LedgerTransaction{
		{
			ID:          "a1b2",
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Amount:      dec("1200.00"),
			Category:    "Groceries",
			Description: "Grocery Store Market",
			PaymentMode: "Card",
			Type:        model.TypeExpense,
			CreatedAt:   time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:          "c3d4",
			Date:        time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
			Amount:      dec("450.50"),
			Category:    "Travel",
			Description: "Fuel, station refill",
			PaymentMode: "UPI",
			Type:        model.TypeExpense,
			CreatedAt:   time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestRoundTrip(t *testing.T) {
	txns := sampleTxns()

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txns))
	assert.True(t, strings.HasPrefix(buf.String(), "id,"))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range txns {
		assert.Equal(t, txns[i].ID, got[i].ID)
		assert.True(t, txns[i].Date.Equal(got[i].Date))
		assert.True(t, txns[i].Amount.Equal(got[i].Amount), "amount mismatch row %d", i)
		assert.Equal(t, txns[i].Category, got[i].Category)
		assert.Equal(t, txns[i].Description, got[i].Description)
		assert.Equal(t, txns[i].PaymentMode, got[i].PaymentMode)
		assert.Equal(t, txns[i].Type, got[i].Type)
		assert.True(t, txns[i].CreatedAt.Equal(got[i].CreatedAt))
	}
}

func TestUnmarshalTransaction_Errors(t *testing.T) {
	base := MarshalTransaction(sampleTxns()[0])

	short := base[:numFields-1]
	_, err := UnmarshalTransaction(short)
	assert.ErrorContains(t, err, "expected 8 fields")

	badDate := append([]string{}, base...)
	badDate[colDate] = "not-a-date"
	_, err = UnmarshalTransaction(badDate)
	assert.ErrorContains(t, err, "parsing date")

	badAmount := append([]string{}, base...)
	badAmount[colAmount] = "NaN¤"
	_, err = UnmarshalTransaction(badAmount)
	assert.ErrorContains(t, err, "parsing amount")
}
