// Package ledger provides a CSV-file-backed transaction store. The import
// engine only sees the importer.Ledger interface; this is the concrete
// collaborator used by the CLI and tests.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// Store keeps a user's transactions in a single CSV file, with an in-memory
// listing cache that the import executor invalidates after writes.
type Store struct {
	path   string
	cache  []model.LedgerTransaction
	cached bool
}

// NewStore creates a Store over a ledger CSV file. The file may not exist
// yet; it is created on the first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// List returns all transactions of the given type, served from the cache
// when it is warm.
func (s *Store) List(_ context.Context, txType model.TransactionType) ([]model.LedgerTransaction, error) {
	if !s.cached {
		txns, err := s.readAll()
		if err != nil {
			return nil, err
		}
		s.cache = txns
		s.cached = true
	}

	var result []model.LedgerTransaction
	for _, txn := range s.cache {
		if txn.Type == txType {
			result = append(result, txn)
		}
	}
	return result, nil
}

// Create appends a draft as a new persisted record and returns it.
func (s *Store) Create(_ context.Context, draft model.Transaction) (model.LedgerTransaction, error) {
	if draft.Invalid {
		return model.LedgerTransaction{}, fmt.Errorf("row %d: cannot persist invalid draft", draft.RowIndex)
	}

	txn := model.LedgerTransaction{
		ID:          uuid.NewString(),
		Date:        draft.Date,
		Amount:      draft.Amount,
		Category:    draft.Category,
		Description: draft.Description,
		PaymentMode: draft.PaymentMode,
		Type:        draft.Type,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.append(txn); err != nil {
		return model.LedgerTransaction{}, err
	}
	return txn, nil
}

// InvalidateCache drops the listing cache so the next List re-reads the file.
func (s *Store) InvalidateCache() {
	s.cache = nil
	s.cached = false
}

func (s *Store) readAll() ([]model.LedgerTransaction, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", s.path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}
	return txns, nil
}

func (s *Store) append(txn model.LedgerTransaction) error {
	isNew := false
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransactions(f, []model.LedgerTransaction{txn}); err != nil {
		return fmt.Errorf("appending transaction: %w", err)
	}
	return nil
}
