package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zendpb/HabitTracker/internal/domain/habits"
)

var (
	// ErrMalformedBackup reports a document that could not be decoded.
	// Nothing is restored when decoding fails.
	ErrMalformedBackup = errors.New("malformed backup document")
	// ErrBackupIO reports a read or write failure on the backup blob.
	ErrBackupIO = errors.New("backup i/o failure")
)

// Document is the backup exchange format: one structured JSON document with
// the full habit and completion sets. Round-tripping a document reproduces
// every record id-for-id.
type Document struct {
	Habits      []habits.Habit           `json:"habits"`
	Completions []habits.CompletionEntry `json:"completions"`
}

// Encode writes the document as indented UTF-8 JSON.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrBackupIO, err)
	}
	return nil
}

// Decode reads a backup document. A document that fails to parse yields
// ErrMalformedBackup; a failing reader yields ErrBackupIO.
func Decode(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackupIO, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	return &doc, nil
}
