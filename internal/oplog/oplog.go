// Package oplog keeps an append-only CSV audit trail of ledger
// operations, separate from the database so it survives a rebuild.
package oplog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operation names the kind of ledger action being audited.
type Operation string

const (
	OpChargeRun Operation = "charge_run"
	OpConfirm   Operation = "confirm"
	OpTransfer  Operation = "transfer"
	OpIncome    Operation = "income"
	OpExpense   Operation = "expense"
	OpDelete    Operation = "delete"
	OpReconcile Operation = "reconcile"
	OpRebuild   Operation = "rebuild"
)

// Entry is one row in the operations log.
type Entry struct {
	Timestamp time.Time
	Operation Operation
	Reference string // movement ID, period, or account pair
	Details   string
	EntryID   string
}

// Header is the CSV header for operations.csv.
const Header = "timestamp,operation,reference,details,entry_id"

const (
	numFields    = 5
	logDir       = "logs"
	logFile      = "logs/operations.csv"
	colTimestamp = 0
	colOperation = 1
	colReference = 2
	colDetails   = 3
	colEntryID   = 4
)

// New builds an Entry stamped now with a fresh ID.
func New(op Operation, reference, details string) Entry {
	return Entry{
		Timestamp: time.Now().UTC(),
		Operation: op,
		Reference: reference,
		Details:   details,
		EntryID:   uuid.NewString(),
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colOperation] = string(e.Operation)
	row[colReference] = e.Reference
	row[colDetails] = e.Details
	row[colEntryID] = e.EntryID
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

	return Entry{
		Timestamp: ts,
		Operation: Operation(record[colOperation]),
		Reference: record[colReference],
		Details:   record[colDetails],
		EntryID:   record[colEntryID],
	}, nil
}

// Append writes entries to <dataDir>/logs/operations.csv, creating the
// file and header if needed.
func Append(dataDir string, entries []Entry) error {
	dir := filepath.Join(dataDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening operations log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <dataDir>/logs/operations.csv.
// Returns an empty slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	path := filepath.Join(dataDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening operations log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading operations CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
