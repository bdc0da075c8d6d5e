package importer

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/logging"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/tabular"
)

func existingEntry(id string, day int, amount, desc string) model.LedgerTransaction {
	return model.LedgerTransaction{
		ID:          id,
		Date:        time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Amount:      dec(amount),
		Description: desc,
		Type:        model.TypeExpense,
	}
}

func TestService_PreviewFromFile(t *testing.T) {
	data, err := os.ReadFile("testdata/bank_export.csv")
	require.NoError(t, err)

	fake := &fakeLedger{entries: []model.LedgerTransaction{
		existingEntry("L1", 5, "1200.00", "Grocery Store Market"),
		existingEntry("L2", 6, "450.49", "Fuel station"),
	}}
	svc := NewService(config.Default(), fake, nil, logging.Nop())

	p, err := svc.Preview(context.Background(), data, "bank_export.csv")
	require.NoError(t, err)

	s := p.Summary
	assert.Equal(t, 4, s.TotalImported)
	assert.Equal(t, 2, s.Matches) // exact 1200.00, tolerant 450.50 vs 450.49
	assert.Equal(t, 1, s.Mismatches)
	assert.Equal(t, 1, s.InvalidCount)
	assert.Equal(t, s.TotalImported, s.Matches+s.Mismatches+s.InvalidCount)

	require.Len(t, p.Results, 4)
	assert.Equal(t, model.StrategyExact, p.Results[0].Strategy)
	assert.Equal(t, model.StrategyTolerance, p.Results[1].Strategy)
	assert.Equal(t, model.StatusInvalid, p.Results[2].Status)
	assert.Contains(t, p.Results[2].Reason, "amount")
	assert.Equal(t, model.StatusMismatch, p.Results[3].Status)
}

func TestService_PreviewRejectsNonTabular(t *testing.T) {
	svc := NewService(config.Default(), &fakeLedger{}, nil, logging.Nop())

	_, err := svc.Preview(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "receipt.png")
	assert.ErrorIs(t, err, tabular.ErrUnsupportedFormat)
}

func TestService_ImportValid(t *testing.T) {
	data, err := os.ReadFile("testdata/bank_export.csv")
	require.NoError(t, err)

	fake := &fakeLedger{}
	svc := NewService(config.Default(), fake, nil, logging.Nop())

	p, err := svc.Preview(context.Background(), data, "bank_export.csv")
	require.NoError(t, err)

	outcome := svc.ImportValid(context.Background(), p)
	// 3 valid rows; the "abc" amount row never reaches the executor.
	assert.Equal(t, 3, outcome.ImportedCount)
	assert.Empty(t, outcome.Errors)
	assert.Len(t, fake.created, 3)
}

func TestService_ImportMismatchedOnly(t *testing.T) {
	data, err := os.ReadFile("testdata/bank_export.csv")
	require.NoError(t, err)

	fake := &fakeLedger{entries: []model.LedgerTransaction{
		existingEntry("L1", 5, "1200.00", "Grocery Store Market"),
		existingEntry("L2", 6, "450.50", "Fuel station refill"),
	}}
	svc := NewService(config.Default(), fake, nil, logging.Nop())

	p, err := svc.Preview(context.Background(), data, "bank_export.csv")
	require.NoError(t, err)

	outcome := svc.ImportMismatched(context.Background(), p)
	require.Equal(t, 1, outcome.ImportedCount)
	require.Len(t, fake.created, 1)
	assert.Equal(t, "New gym membership", fake.created[0].Description)
	assert.Equal(t, "99.99", fake.created[0].Amount.StringFixed(2))
}
