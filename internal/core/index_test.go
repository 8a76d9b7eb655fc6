package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestBuildIndex_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantIndex     PostalIndex
		wantProcessed int
		wantSkipped   int
	}{
		{
			name:  "groups stores by postal code",
			input: "Store A,12345,10.0,20.0\nStore B,67890,12.5,22.5\nStore C,12345,10.0,20.0",
			wantIndex: PostalIndex{
				"12345": {Lat: 10, Lng: 20, Stores: []string{"Store A", "Store C"}},
				"67890": {Lat: 12.5, Lng: 22.5, Stores: []string{"Store B"}},
			},
			wantProcessed: 3,
		},
		{
			name:  "short row skipped",
			input: "Store A,12345,10.0,20.0\nStore B,67890,12.5",
			wantIndex: PostalIndex{
				"12345": {Lat: 10, Lng: 20, Stores: []string{"Store A"}},
			},
			wantProcessed: 2,
			wantSkipped:   1,
		},
		{
			name:  "last coordinates win",
			input: "Store A,12345,10.0,20.0\nStore B,12345,10.1,20.1",
			wantIndex: PostalIndex{
				"12345": {Lat: 10.1, Lng: 20.1, Stores: []string{"Store A", "Store B"}},
			},
			wantProcessed: 2,
		},
		{
			name:  "trailing newline not counted",
			input: "Store A,12345,10.0,20.0\nStore B,67890,12.5,22.5\n",
			wantIndex: PostalIndex{
				"12345": {Lat: 10, Lng: 20, Stores: []string{"Store A"}},
				"67890": {Lat: 12.5, Lng: 22.5, Stores: []string{"Store B"}},
			},
			wantProcessed: 2,
		},
		{
			name:  "CRLF line endings",
			input: "Store A,12345,10.0,20.0\r\n\r\nStore B,67890,12.5,22.5\r\n",
			wantIndex: PostalIndex{
				"12345": {Lat: 10, Lng: 20, Stores: []string{"Store A"}},
				"67890": {Lat: 12.5, Lng: 22.5, Stores: []string{"Store B"}},
			},
			wantProcessed: 2,
		},
		{
			name:  "duplicate store names kept",
			input: "Store A,12345,1,2\nStore A,12345,1,2",
			wantIndex: PostalIndex{
				"12345": {Lat: 1, Lng: 2, Stores: []string{"Store A", "Store A"}},
			},
			wantProcessed: 2,
		},
		{
			name:          "nothing valid",
			input:         "header,only\n,12345,1,2\nStore,,1,2\nStore,1,x,y",
			wantIndex:     PostalIndex{},
			wantProcessed: 4,
			wantSkipped:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, summary := BuildIndex(tt.input)

			if !reflect.DeepEqual(index, tt.wantIndex) {
				t.Errorf("BuildIndex() index = %v, want %v", dump(index), dump(tt.wantIndex))
			}
			if summary.ProcessedRows != tt.wantProcessed {
				t.Errorf("ProcessedRows = %d, want %d", summary.ProcessedRows, tt.wantProcessed)
			}
			if summary.SkippedRows != tt.wantSkipped {
				t.Errorf("SkippedRows = %d, want %d", summary.SkippedRows, tt.wantSkipped)
			}
			if len(summary.Skipped) != summary.SkippedRows {
				t.Errorf("len(Skipped) = %d, want %d", len(summary.Skipped), summary.SkippedRows)
			}
			if summary.Error != "" || summary.Err() != nil {
				t.Errorf("unexpected error %q", summary.Error)
			}
		})
	}
}

func TestBuildIndex_EmptyInput(t *testing.T) {
	inputs := []string{"", "\n", "   \n   \n ", "\r\n\r\n", "\t"}

	for _, input := range inputs {
		index, summary := BuildIndex(input)

		if len(index) != 0 {
			t.Errorf("BuildIndex(%q) index has %d entries, want 0", input, len(index))
		}
		want := ParseSummary{Error: EmptyInputMessage}
		if !reflect.DeepEqual(summary, want) {
			t.Errorf("BuildIndex(%q) summary = %+v, want %+v", input, summary, want)
		}
		if err := summary.Err(); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Err() = %v, want ErrEmptyInput", err)
		}
	}
}

func TestBuildIndex_SkippedRowDetails(t *testing.T) {
	input := "Store A,12345,1,2\n\n  Bad row  \n,12345,1,2\nStore,,1,2\nStore,1,lat,2"

	_, summary := BuildIndex(input)

	want := []SkippedRow{
		{Line: 3, Reason: ReasonInsufficientColumns, Text: "Bad row"},
		{Line: 4, Reason: ReasonMissingStoreName, Text: ",12345,1,2"},
		{Line: 5, Reason: ReasonMissingPostalCode, Text: "Store,,1,2"},
		{Line: 6, Reason: ReasonInvalidCoordinates, Text: "Store,1,lat,2"},
	}
	if !reflect.DeepEqual(summary.Skipped, want) {
		t.Errorf("Skipped = %+v, want %+v", summary.Skipped, want)
	}
	if got := summary.ValidEntries(); got != 1 {
		t.Errorf("ValidEntries() = %d, want 1", got)
	}
}

func TestBuildIndex_Invariants(t *testing.T) {
	input := strings.Join([]string{
		"Alpha,100,1,1",
		"Beta,200,2,2",
		"broken",
		"Gamma,100,3,3",
		"",
		"Delta,300,x,4",
		"Epsilon,200,5,5",
		"Zeta,100,6,6",
	}, "\n")

	index, summary := BuildIndex(input)

	// Appended store names equal processed minus skipped.
	if got, want := index.StoreCount(), summary.ValidEntries(); got != want {
		t.Errorf("StoreCount() = %d, want %d", got, want)
	}

	// Coordinates follow the last valid row for each code.
	if e := index["100"]; e.Lat != 6 || e.Lng != 6 || len(e.Stores) != 3 {
		t.Errorf(`index["100"] = %+v`, *e)
	}
	if e := index["200"]; e.Lat != 5 || len(e.Stores) != 2 {
		t.Errorf(`index["200"] = %+v`, *e)
	}
	if _, ok := index["300"]; ok {
		t.Error(`index["300"] exists for a row with invalid coordinates`)
	}

	// Same text, same result.
	again, againSummary := BuildIndex(input)
	if !reflect.DeepEqual(index, again) || !reflect.DeepEqual(summary, againSummary) {
		t.Error("BuildIndex is not deterministic")
	}
}

func TestBuildIndex_FreshIndexEachCall(t *testing.T) {
	first, _ := BuildIndex("Store A,1,1,1")
	second, _ := BuildIndex("Store B,2,2,2")

	if _, ok := second["1"]; ok {
		t.Error("second index contains entries from the first call")
	}
	if len(first) != 1 || len(second) != 1 {
		t.Errorf("len(first) = %d, len(second) = %d, want 1 and 1", len(first), len(second))
	}
}

func TestPostalIndex_PostalCodes(t *testing.T) {
	index, _ := BuildIndex("A,300,1,1\nB,100,1,1\nC,200,1,1\nD,100,1,1")

	got := index.PostalCodes()
	want := []string{"100", "200", "300"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PostalCodes() = %v, want %v", got, want)
	}
	if index.Len() != 3 {
		t.Errorf("Len() = %d, want 3", index.Len())
	}
	if index.StoreCount() != 4 {
		t.Errorf("StoreCount() = %d, want 4", index.StoreCount())
	}
}

func dump(idx PostalIndex) map[string]PostalCodeEntry {
	out := make(map[string]PostalCodeEntry, len(idx))
	for k, v := range idx {
		out[k] = *v
	}
	return out
}
