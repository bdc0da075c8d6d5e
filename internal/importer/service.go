package importer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/extract"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/reconcile"
	"github.com/fintrack-dev/fintrack/internal/tabular"
)

// Preview is the result of parsing and reconciling an uploaded file, shown
// to the user before anything is committed.
type Preview struct {
	Results []model.MatchResult
	Summary model.ImportSummary
}

// ValidDrafts returns every draft that reached the matcher.
func (p *Preview) ValidDrafts() []model.Transaction {
	var drafts []model.Transaction
	for _, r := range p.Results {
		if r.Status != model.StatusInvalid {
			drafts = append(drafts, r.Draft)
		}
	}
	return drafts
}

// MismatchedDrafts returns only the drafts with no ledger counterpart, for
// the "bring in what's new" flow.
func (p *Preview) MismatchedDrafts() []model.Transaction {
	var drafts []model.Transaction
	for _, r := range p.Results {
		if r.Status == model.StatusMismatch {
			drafts = append(drafts, r.Draft)
		}
	}
	return drafts
}

// Service runs the full pipeline: parse, extract, reconcile, import.
type Service struct {
	extractor *extract.Extractor
	matcher   *reconcile.Matcher
	executor  *Executor
	ledger    Ledger
	log       zerolog.Logger
}

// NewService wires the pipeline against a ledger collaborator.
func NewService(cfg *config.Config, ledger Ledger, invalidate Invalidator, log zerolog.Logger) *Service {
	return &Service{
		extractor: extract.New(cfg),
		matcher:   reconcile.New(cfg.Matching),
		executor:  NewExecutor(ledger, invalidate, log),
		ledger:    ledger,
		log:       log,
	}
}

// Preview parses an uploaded file and reconciles its rows against the
// existing ledger. Nothing is persisted.
func (s *Service) Preview(ctx context.Context, data []byte, fileName string) (*Preview, error) {
	rows, err := tabular.Parse(data, fileName)
	if err != nil {
		return nil, err
	}

	drafts := s.extractor.ExtractAll(rows)

	existing, err := s.ledger.List(ctx, model.TypeExpense)
	if err != nil {
		return nil, fmt.Errorf("listing ledger: %w", err)
	}

	results, summary := s.matcher.Reconcile(existing, drafts)
	s.log.Debug().
		Str("file", fileName).
		Int("rows", len(rows)).
		Int("matches", summary.Matches).
		Int("mismatches", summary.Mismatches).
		Int("invalid", summary.InvalidCount).
		Msg("preview complete")

	return &Preview{Results: results, Summary: summary}, nil
}

// ImportValid commits every valid draft from a preview.
func (s *Service) ImportValid(ctx context.Context, p *Preview) model.ImportOutcome {
	return s.executor.ImportBatch(ctx, p.ValidDrafts())
}

// ImportMismatched commits only the drafts the ledger does not already have.
func (s *Service) ImportMismatched(ctx context.Context, p *Preview) model.ImportOutcome {
	return s.executor.ImportBatch(ctx, p.MismatchedDrafts())
}
