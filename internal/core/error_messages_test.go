package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "wrapped empty input",
			err:         fmt.Errorf("%w: %s", ErrEmptyInput, EmptyInputMessage),
			wantCode:    "FILE005",
			wantMessage: EmptyInputMessage,
		},
		{
			name:        "encoding problems are not a separate error",
			err:         errors.New("encoding error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "read failure",
			err:         fmt.Errorf("%w: unexpected EOF", ErrReadFailed),
			wantCode:    "FILE006",
			wantMessage: "Error reading file.",
		},
		{
			name:        "no file",
			err:         ErrNoFile,
			wantCode:    "FILE004",
			wantMessage: "No file selected.",
		},
		{
			name:        "postal code not found",
			err:         fmt.Errorf("%w: 999999", ErrPostalCodeNotFound),
			wantCode:    "QRY001",
			wantMessage: "Pincode not found in uploaded data.",
		},
		{
			name:        "empty postal code",
			err:         ErrEmptyPostalCode,
			wantCode:    "QRY002",
			wantMessage: "Pincode cannot be empty.",
		},
		{
			name:        "empty store query",
			err:         ErrEmptyStoreQuery,
			wantCode:    "QRY003",
			wantMessage: "Store name cannot be empty.",
		},
		{
			name:        "busy upload slot",
			err:         ErrTooManyUploads,
			wantCode:    "UPL002",
			wantMessage: "Another upload is being processed",
		},
		{
			name:        "cancelled request",
			err:         fmt.Errorf("upload: %w", context.Canceled),
			wantCode:    "UPL004",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "sentinel lost its type",
			err:         errors.New("file too large: exceeds 10 bytes"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to reach the upload history store",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("Postal Code Not Found"),
			wantCode:    "QRY001",
			wantMessage: "Pincode not found in uploaded data.",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrNoFile)

	expected := "No file selected. (Code: FILE004). Please select a CSV file to upload"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}
