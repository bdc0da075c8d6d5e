// Package importer persists accepted drafts into the ledger and ties the
// parse, extract, and reconcile phases together for callers.
package importer

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Ledger is the externally owned transaction store. The engine only reads
// and creates through it; listing caches and persistence belong to the
// collaborator.
type Ledger interface {
	List(ctx context.Context, txType model.TransactionType) ([]model.LedgerTransaction, error)
	Create(ctx context.Context, draft model.Transaction) (model.LedgerTransaction, error)
}

// Invalidator is called after each successful create so the ledger owner can
// refresh its listing cache. May be nil.
type Invalidator func()

// ErrInvalidDraft is recorded for drafts that were tagged invalid and still
// handed to the executor.
var ErrInvalidDraft = errors.New("draft is invalid")

// Executor persists drafts one at a time with isolated failure handling.
type Executor struct {
	ledger     Ledger
	invalidate Invalidator
	log        zerolog.Logger
}

// NewExecutor creates an Executor. invalidate may be nil.
func NewExecutor(ledger Ledger, invalidate Invalidator, log zerolog.Logger) *Executor {
	return &Executor{ledger: ledger, invalidate: invalidate, log: log}
}

// ImportBatch persists each draft sequentially. A failure on one draft is
// recorded and does not abort the rest; a started batch runs to completion.
func (e *Executor) ImportBatch(ctx context.Context, drafts []model.Transaction) model.ImportOutcome {
	var outcome model.ImportOutcome

	for _, draft := range drafts {
		if draft.Invalid {
			outcome.Errors = append(outcome.Errors, model.RecordError{RowIndex: draft.RowIndex, Err: ErrInvalidDraft})
			continue
		}

		if _, err := e.ledger.Create(ctx, draft); err != nil {
			e.log.Warn().Int("row", draft.RowIndex).Err(err).Msg("create failed")
			outcome.Errors = append(outcome.Errors, model.RecordError{RowIndex: draft.RowIndex, Err: err})
			continue
		}

		outcome.ImportedCount++
		if e.invalidate != nil {
			e.invalidate()
		}
	}

	e.log.Info().
		Int("imported", outcome.ImportedCount).
		Int("failed", len(outcome.Errors)).
		Msg("import batch finished")
	return outcome
}
