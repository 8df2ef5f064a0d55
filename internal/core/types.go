package core

import (
	"fmt"
	"time"
)

// Delimiter separates fields on both input and output.
const Delimiter = ";"

// Record is one structurally valid data line.
// Values[i] is the cell under header i of the table that owns the record, so
// duplicate header names still address distinct columns.
type Record struct {
	Values []string
}

// Value returns the cell under header position i, or "" when the record has
// no such cell.
func (r Record) Value(i int) string {
	if i < 0 || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}

// RowError describes one rejected data line.
type RowError struct {
	Line     int    `json:"line"`     // 1-based, header is line 1
	Expected int    `json:"expected"` // column count declared by the header
	Actual   int    `json:"actual"`   // column count found on the line
	Data     string `json:"data"`     // raw, unsplit line
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: expected %d columns, found %d", e.Line, e.Expected, e.Actual)
}

// Is reports whether target is ErrRowColumnMismatch.
func (e *RowError) Is(target error) bool {
	return target == ErrRowColumnMismatch
}

// ParsedTable is the output of Parse.
type ParsedTable struct {
	Headers   []string
	Records   []Record
	RowErrors []*RowError
}

// ExpectedColumns returns the column count every data line must have.
func (t *ParsedTable) ExpectedColumns() int {
	return len(t.Headers)
}

// NormalizedTable has the same headers and record order as the ParsedTable it
// was built from; only cell contents differ.
type NormalizedTable struct {
	Headers []string
	Records []Record
}

// Session is the transient state of one uploaded file.
// Sessions are never mutated once stored; each pipeline step yields a new one.
type Session struct {
	ID         string
	FileName   string
	Encoding   Encoding
	Parsed     *ParsedTable
	Normalized *NormalizedTable // nil until processed
	Changed    int
	CreatedAt  time.Time
}

// Processed reports whether normalization has run for this session.
func (s *Session) Processed() bool {
	return s.Normalized != nil
}

// withNormalized returns a copy of the session carrying the normalized table.
func (s *Session) withNormalized(t *NormalizedTable, changed int) *Session {
	next := *s
	next.Normalized = t
	next.Changed = changed
	return &next
}

// Export is a serialized file ready to be offered for download.
type Export struct {
	FileName    string
	Content     []byte
	ContentType string
}
