package core

// index.go folds validated rows into the postal-code index.
//
// BuildIndex makes a single synchronous pass over the text. The returned
// index is always freshly allocated; callers replace their previous index
// with it rather than merging.

import (
	"fmt"
	"sort"
	"strings"
)

// EmptyInputMessage is reported when the upload has no non-blank line.
const EmptyInputMessage = "CSV file is empty or contains no data."

// PostalCodeEntry holds the coordinates and stores for one postal code.
// Stores keeps file order and may contain the same name more than once.
type PostalCodeEntry struct {
	Lat    float64  `json:"lat" yaml:"lat"`
	Lng    float64  `json:"lng" yaml:"lng"`
	Stores []string `json:"stores" yaml:"stores"`
}

// PostalIndex maps a postal code, matched as exact text, to its entry.
type PostalIndex map[string]*PostalCodeEntry

// ParseSummary reports the outcome of one BuildIndex pass.
type ParseSummary struct {
	ProcessedRows int          `json:"processedRows" yaml:"processedRows"`
	SkippedRows   int          `json:"skippedRows" yaml:"skippedRows"`
	Error         string       `json:"error,omitempty" yaml:"error,omitempty"`
	Skipped       []SkippedRow `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// ValidEntries returns the number of store names appended to the index.
func (s ParseSummary) ValidEntries() int {
	return s.ProcessedRows - s.SkippedRows
}

// Err returns ErrEmptyInput when the pass ended on the empty-input condition.
func (s ParseSummary) Err() error {
	if s.Error == "" {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrEmptyInput, s.Error)
}

// BuildIndex parses csvText into a fresh PostalIndex.
//
// Lines are split on '\n' only; a trailing '\r' is removed by per-line
// trimming. Input without any non-blank line short-circuits with
// EmptyInputMessage and zero counters.
func BuildIndex(csvText string) (PostalIndex, ParseSummary) {
	index := make(PostalIndex)
	var summary ParseSummary

	if strings.TrimSpace(csvText) == "" {
		summary.Error = EmptyInputMessage
		return index, summary
	}

	for i, line := range strings.Split(csvText, "\n") {
		switch r := ParseRow(line, i+1).(type) {
		case BlankLine:
			continue
		case SkippedRow:
			summary.ProcessedRows++
			summary.SkippedRows++
			summary.Skipped = append(summary.Skipped, r)
		case ParsedRow:
			summary.ProcessedRows++
			index.add(r)
		}
	}

	return index, summary
}

// add records row under its postal code. Coordinates are overwritten so the
// last row for a code wins; the store name is always appended.
func (idx PostalIndex) add(row ParsedRow) {
	entry, ok := idx[row.PostalCode]
	if !ok {
		entry = &PostalCodeEntry{}
		idx[row.PostalCode] = entry
	}
	entry.Lat = row.Lat
	entry.Lng = row.Lng
	entry.Stores = append(entry.Stores, row.StoreName)
}

// Len returns the number of distinct postal codes.
func (idx PostalIndex) Len() int {
	return len(idx)
}

// StoreCount returns the total number of store names across all entries.
func (idx PostalIndex) StoreCount() int {
	n := 0
	for _, e := range idx {
		n += len(e.Stores)
	}
	return n
}

// PostalCodes returns the index keys in ascending order.
func (idx PostalIndex) PostalCodes() []string {
	codes := make([]string, 0, len(idx))
	for code := range idx {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
