// Package reconcile classifies imported drafts against the existing ledger
// using three strategies tried in strict priority order: exact amount match,
// small-tolerance match, then fuzzy match on amount plus description overlap.
package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/model"
)

const mismatchReason = "no matching transaction found"

// Matcher pairs drafts with ledger entries.
type Matcher struct {
	tolerance  decimal.Decimal
	fuzzySlack decimal.Decimal
	overlap    float64
	minToken   int
}

// New creates a Matcher from matching thresholds.
func New(cfg config.MatchingConfig) *Matcher {
	return &Matcher{
		tolerance:  decimal.NewFromFloat(cfg.AmountTolerance),
		fuzzySlack: decimal.NewFromFloat(cfg.FuzzyAmountSlack),
		overlap:    cfg.FuzzyOverlap,
		minToken:   cfg.MinTokenLength,
	}
}

// Reconcile produces exactly one MatchResult per draft. Ledger entries are
// bucketed by date and type first, so each strategy only scans same-day
// candidates. A ledger entry may match more than one draft; no one-to-one
// constraint is enforced.
func (m *Matcher) Reconcile(ledger []model.LedgerTransaction, drafts []model.Transaction) ([]model.MatchResult, model.ImportSummary) {
	index := buildIndex(ledger)

	results := make([]model.MatchResult, 0, len(drafts))
	summary := model.ImportSummary{TotalImported: len(drafts)}

	for _, draft := range drafts {
		if draft.Invalid {
			summary.InvalidCount++
			results = append(results, model.MatchResult{
				Draft:  draft,
				Status: model.StatusInvalid,
				Reason: draft.Reason,
			})
			continue
		}

		res := m.matchOne(index[bucketKey(draft.Date, draft.Type)], draft)
		if res.Status == model.StatusMatch {
			summary.Matches++
		} else {
			summary.Mismatches++
		}
		results = append(results, res)
	}

	return results, summary
}

// matchOne tries the strategies in priority order; the first hit wins and no
// further strategy is evaluated.
func (m *Matcher) matchOne(candidates []model.LedgerTransaction, draft model.Transaction) model.MatchResult {
	for _, entry := range candidates {
		if entry.Amount.Equal(draft.Amount) {
			return matched(draft, entry, model.StrategyExact)
		}
	}

	for _, entry := range candidates {
		if entry.Amount.Sub(draft.Amount).Abs().LessThanOrEqual(m.tolerance) {
			return matched(draft, entry, model.StrategyTolerance)
		}
	}

	for _, entry := range candidates {
		if entry.Amount.Sub(draft.Amount).Abs().LessThanOrEqual(m.fuzzySlack) &&
			m.overlapRatio(entry.Description, draft.Description) > m.overlap {
			return matched(draft, entry, model.StrategyFuzzy)
		}
	}

	return model.MatchResult{
		Draft:  draft,
		Status: model.StatusMismatch,
		Reason: mismatchReason,
	}
}

func matched(draft model.Transaction, entry model.LedgerTransaction, s model.Strategy) model.MatchResult {
	return model.MatchResult{
		Draft:    draft,
		LedgerID: entry.ID,
		Status:   model.StatusMatch,
		Strategy: s,
	}
}

// overlapRatio is |common significant tokens| / max(|a tokens|, |b tokens|),
// where a significant token is longer than minToken characters.
func (m *Matcher) overlapRatio(a, b string) float64 {
	ta := m.tokens(a)
	tb := m.tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	common := 0
	for tok := range tb {
		if ta[tok] {
			common++
		}
	}

	max := len(ta)
	if len(tb) > max {
		max = len(tb)
	}
	return float64(common) / float64(max)
}

func (m *Matcher) tokens(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		if len(tok) > m.minToken {
			set[tok] = true
		}
	}
	return set
}

func buildIndex(ledger []model.LedgerTransaction) map[string][]model.LedgerTransaction {
	index := make(map[string][]model.LedgerTransaction, len(ledger))
	for _, entry := range ledger {
		key := bucketKey(entry.Date, entry.Type)
		index[key] = append(index[key], entry)
	}
	return index
}

func bucketKey(date time.Time, t model.TransactionType) string {
	return date.Format("2006-01-02") + "|" + string(t)
}
