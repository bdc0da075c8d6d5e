package model

// MatchStatus is the reconciliation outcome for one draft.
type MatchStatus string

const (
	StatusMatch    MatchStatus = "match"
	StatusMismatch MatchStatus = "mismatch"
	StatusInvalid  MatchStatus = "invalid"
)

// Strategy identifies which matching rule paired a draft with a ledger entry.
type Strategy string

const (
	StrategyExact     Strategy = "exact"
	StrategyTolerance Strategy = "tolerance"
	StrategyFuzzy     Strategy = "fuzzy"
)

// MatchResult records the reconciliation outcome for a single draft.
// Exactly one MatchResult exists per draft that reached extraction.
type MatchResult struct {
	Draft    Transaction
	LedgerID string // matched ledger entry, empty on mismatch/invalid
	Status   MatchStatus
	Strategy Strategy // set only when Status == StatusMatch
	Reason   string   // set on mismatch and invalid
}

// ImportSummary aggregates reconciliation counts for display.
type ImportSummary struct {
	TotalImported int
	Matches       int
	Mismatches    int
	InvalidCount  int
}

// ValidRecords is the number of drafts that reached the matcher.
func (s ImportSummary) ValidRecords() int {
	return s.Matches + s.Mismatches
}

// RecordError is a persistence failure for one draft during import.
type RecordError struct {
	RowIndex int
	Err      error
}

// ImportOutcome reports what happened to each draft handed to the executor.
type ImportOutcome struct {
	ImportedCount int
	Errors        []RecordError
}

// Failed reports whether nothing was imported at all.
func (o ImportOutcome) Failed() bool {
	return o.ImportedCount == 0 && len(o.Errors) > 0
}

// PartialSuccess reports whether some drafts imported while others failed.
func (o ImportOutcome) PartialSuccess() bool {
	return o.ImportedCount > 0 && len(o.Errors) > 0
}
