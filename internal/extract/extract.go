// Package extract builds canonical transaction drafts from raw rows using
// ordered fallback chains over the available source keys.
package extract

import (
	"fmt"
	"strings"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/normalize"
)

// Extractor turns raw rows into drafts tagged valid or invalid.
type Extractor struct {
	cfg *config.Config
}

// New creates an Extractor with the given engine configuration.
func New(cfg *config.Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// ExtractAll extracts every row in order.
func (e *Extractor) ExtractAll(rows []model.RawRow) []model.Transaction {
	drafts := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		drafts = append(drafts, e.Extract(row))
	}
	return drafts
}

// Extract builds one draft. A draft is tagged invalid, with a reason, when
// its date does not parse or its amount is not positive. Invalid drafts are
// kept for display and never reach the matcher.
func (e *Extractor) Extract(row model.RawRow) model.Transaction {
	row = e.canonicalize(row)
	fb := e.cfg.Fallbacks
	draft := model.Transaction{
		Type:     model.TypeExpense,
		RowIndex: row.Index,
	}

	rawDate := resolve(row, fb.Date)
	date, ok := normalize.Date(rawDate, e.cfg.DateMonthFirst)
	if !ok {
		return invalid(draft, fmt.Sprintf("unrecognized date %q", rawDate))
	}
	draft.Date = date

	amount := normalize.Amount(resolve(row, fb.Amount))
	if !amount.IsPositive() {
		return invalid(draft, fmt.Sprintf("invalid amount %q", resolve(row, fb.Amount)))
	}
	draft.Amount = amount

	draft.Description = resolve(row, fb.Description)
	draft.SubCategory = resolve(row, fb.SubCategory)
	draft.Remark = resolve(row, fb.Remark)
	draft.PaymentMode = resolve(row, fb.PaymentMode)

	// An explicitly supplied category always wins; keyword detection is
	// advisory and only fills the gap.
	draft.Category = resolve(row, fb.Category)
	if draft.Category == "" && draft.Description != "" {
		draft.Category = detectCategory(draft.Description, e.cfg.Keywords)
	}

	applyDefaults(&draft, e.cfg.Defaults)
	return draft
}

// canonicalize maps each header key through the synonym table, in source
// column order. The original key is kept alongside the canonical one so
// fallback chains can still reach unmapped labels; when two columns collapse
// onto the same canonical key the first non-empty cell wins.
func (e *Extractor) canonicalize(row model.RawRow) model.RawRow {
	cells := make(map[string]string, len(row.Cells))
	keys := make([]string, 0, len(row.Keys))

	for _, key := range row.Keys {
		val := row.Cells[key]
		canonical := normalize.Header(key, e.cfg.Synonyms)

		if existing, ok := cells[canonical]; !ok {
			keys = append(keys, canonical)
			cells[canonical] = val
		} else if existing == "" && val != "" {
			cells[canonical] = val
		}

		if canonical != key {
			if _, ok := cells[key]; !ok {
				keys = append(keys, key)
				cells[key] = val
			}
		}
	}

	return model.RawRow{Index: row.Index, Keys: keys, Cells: cells}
}

// resolve returns the first non-empty cell among the candidate keys.
func resolve(row model.RawRow, keys []string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(row.Cells[key]); val != "" {
			return val
		}
	}
	return ""
}

// detectCategory returns the first configured category whose keyword appears
// in the description, or empty when nothing matches.
func detectCategory(description string, keywords []config.KeywordCategory) string {
	desc := strings.ToLower(description)
	for _, kc := range keywords {
		for _, kw := range kc.Keywords {
			if strings.Contains(desc, strings.ToLower(kw)) {
				return kc.Category
			}
		}
	}
	return ""
}

func applyDefaults(draft *model.Transaction, d config.DefaultsConfig) {
	if draft.Category == "" {
		draft.Category = d.Category
	}
	if draft.Description == "" {
		draft.Description = d.Description
	}
	if draft.PaymentMode == "" {
		draft.PaymentMode = d.PaymentMode
	}
}

func invalid(draft model.Transaction, reason string) model.Transaction {
	draft.Invalid = true
	draft.Reason = reason
	return draft
}
