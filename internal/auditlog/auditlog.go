// Package auditlog appends one row per import batch to an append-only CSV,
// so every commit against the ledger is traceable to a source file.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp  time.Time
	File       string
	Imported   int
	Failed     int
	Matches    int
	Mismatches int
	Invalid    int
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,file,imported,failed,matches,mismatches,invalid"

const (
	numFields     = 7
	logDir        = "logs"
	logFile       = "logs/import-log.csv"
	colTimestamp  = 0
	colFile       = 1
	colImported   = 2
	colFailed     = 3
	colMatches    = 4
	colMismatches = 5
	colInvalid    = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colImported] = strconv.Itoa(e.Imported)
	row[colFailed] = strconv.Itoa(e.Failed)
	row[colMatches] = strconv.Itoa(e.Matches)
	row[colMismatches] = strconv.Itoa(e.Mismatches)
	row[colInvalid] = strconv.Itoa(e.Invalid)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	ints := make([]int, numFields)
	for _, col := range []int{colImported, colFailed, colMatches, colMismatches, colInvalid} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing field %d %q: %w", col, record[col], err)
		}
		ints[col] = n
	}

	return Entry{
		Timestamp:  ts,
		File:       record[colFile],
		Imported:   ints[colImported],
		Failed:     ints[colFailed],
		Matches:    ints[colMatches],
		Mismatches: ints[colMismatches],
		Invalid:    ints[colInvalid],
	}, nil
}

// Append writes entries to <root>/logs/import-log.csv, creating the file and
// header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	if needsHeader {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	return writeEntries(f, entries)
}

// Read reads all entries from <root>/logs/import-log.csv.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log: %w", err)
	}

	var entries []Entry
	for i, rec := range records {
		if i == 0 && strings.HasPrefix(rec[0], "timestamp") {
			continue
		}
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func writeEntries(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}
