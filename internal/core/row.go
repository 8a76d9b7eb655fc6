package core

// row.go turns one line of CSV text into a validated store record.
//
// Each line produces exactly one RowResult:
//   - BlankLine: whitespace only, never counted
//   - SkippedRow: failed a validation rule, counted as processed and skipped
//   - ParsedRow: passed every rule
//
// Rules run in a fixed order and the first failure wins, so a line that is
// both short of columns and missing a store name reports insufficient columns.

import (
	"math"
	"strconv"
	"strings"
)

// MinColumns is the number of fields a row needs: store, postal code, lat, lng.
const MinColumns = 4

// SkipReason explains why a processed row was rejected.
type SkipReason string

const (
	ReasonInsufficientColumns SkipReason = "malformed: insufficient columns"
	ReasonMissingStoreName    SkipReason = "missing store name"
	ReasonMissingPostalCode   SkipReason = "missing postal code"
	ReasonInvalidCoordinates  SkipReason = "invalid coordinates"
)

// RowResult is the outcome of validating one line.
// It is implemented by ParsedRow, SkippedRow and BlankLine only.
type RowResult interface {
	rowResult()
}

// ParsedRow is a line that passed every validation rule.
type ParsedRow struct {
	StoreName  string
	PostalCode string
	Lat        float64
	Lng        float64
}

// SkippedRow is a processed line rejected by a validation rule.
type SkippedRow struct {
	Line   int        `json:"line" yaml:"line"`
	Reason SkipReason `json:"reason" yaml:"reason"`
	Text   string     `json:"text" yaml:"text"`
}

// BlankLine is a line containing only whitespace.
type BlankLine struct{}

func (ParsedRow) rowResult()  {}
func (SkippedRow) rowResult() {}
func (BlankLine) rowResult()  {}

// ParseRow validates a single line. lineNum is 1-based and only used to
// label skips for diagnostics.
func ParseRow(line string, lineNum int) RowResult {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return BlankLine{}
	}

	skip := func(reason SkipReason) RowResult {
		return SkippedRow{Line: lineNum, Reason: reason, Text: trimmed}
	}

	parts := strings.Split(trimmed, ",")
	if len(parts) < MinColumns {
		return skip(ReasonInsufficientColumns)
	}

	storeName := strings.TrimSpace(parts[0])
	postalCode := strings.TrimSpace(parts[1])
	latText := strings.TrimSpace(parts[2])
	lngText := strings.TrimSpace(parts[3])

	if storeName == "" {
		return skip(ReasonMissingStoreName)
	}
	if postalCode == "" {
		return skip(ReasonMissingPostalCode)
	}

	lat, ok := parseCoordinate(latText)
	if !ok {
		return skip(ReasonInvalidCoordinates)
	}
	lng, ok := parseCoordinate(lngText)
	if !ok {
		return skip(ReasonInvalidCoordinates)
	}

	return ParsedRow{
		StoreName:  storeName,
		PostalCode: postalCode,
		Lat:        lat,
		Lng:        lng,
	}
}

// parseCoordinate parses a plain decimal number. ParseFloat is locale
// independent; hex floats, digit separators, NaN and infinities are rejected.
func parseCoordinate(s string) (float64, bool) {
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
