package core

// error_messages.go maps technical errors to user-facing messages.
//
// # Error Codes Reference
//
// Users can quote the code to support staff.
//
//	FILE001 - File too large             Patterns: "file too large"
//	FILE004 - No file selected           Patterns: "no file provided"
//	FILE005 - Empty file                 Patterns: "empty file"
//	FILE006 - File could not be read     Patterns: "read file failed"
//	UPL002  - Too many uploads           Patterns: "too many concurrent uploads"
//	UPL004  - Request cancelled          Patterns: "context canceled"
//	UPL005  - Request timeout            Patterns: "context deadline exceeded"
//	QRY001  - Postal code not found      Patterns: "postal code not found"
//	QRY002  - Postal code empty          Patterns: "empty postal code"
//	QRY003  - Store name empty           Patterns: "empty store query"
//	QRY004  - No matching stores         Patterns: "no stores found"
//	DB004   - History store unreachable  Patterns: "connection refused"
//	DB006   - History store timeout      Patterns: "timeout"
//	RATE001 - Rate limited               Patterns: "rate limit"
//	ERR000  - Anything else
//
// Sentinel errors are matched with errors.Is before falling back to
// case-insensitive substring patterns. The first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgFileTooLarge = UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}
	msgNoFile = UserMessage{
		Message: "No file selected.",
		Action:  "Please select a CSV file to upload",
		Code:    "FILE004",
	}
	msgEmptyFile = UserMessage{
		Message: EmptyInputMessage,
		Action:  "Upload rows of: store name, postal code, latitude, longitude",
		Code:    "FILE005",
	}
	msgReadFailed = UserMessage{
		Message: "Error reading file.",
		Action:  "Check the file and try again",
		Code:    "FILE006",
	}
	msgBusy = UserMessage{
		Message: "Another upload is being processed",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try uploading a smaller file or check your connection",
		Code:    "UPL005",
	}
	msgNotFound = UserMessage{
		Message: "Pincode not found in uploaded data.",
		Action:  "Check the postal code or upload a file that contains it",
		Code:    "QRY001",
	}
	msgEmptyPostalCode = UserMessage{
		Message: "Pincode cannot be empty.",
		Action:  "Enter a postal code to plot",
		Code:    "QRY002",
	}
	msgEmptyStoreQuery = UserMessage{
		Message: "Store name cannot be empty.",
		Action:  "Enter part of a store name to search",
		Code:    "QRY003",
	}
	msgNoStores = UserMessage{
		Message: "No stores found.",
		Action:  "Try a shorter or different search term",
		Code:    "QRY004",
	}
)

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// sentinelMessages is checked first, in order, using errors.Is.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrFileTooLarge, msgFileTooLarge},
	{ErrNoFile, msgNoFile},
	{ErrEmptyInput, msgEmptyFile},
	{ErrReadFailed, msgReadFailed},
	{ErrTooManyUploads, msgBusy},
	{ErrPostalCodeNotFound, msgNotFound},
	{ErrEmptyPostalCode, msgEmptyPostalCode},
	{ErrEmptyStoreQuery, msgEmptyStoreQuery},
	{ErrNoStoresFound, msgNoStores},
	{context.Canceled, msgCancelled},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catches errors that lost their sentinel, e.g. after
// crossing a process boundary. Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{pattern: "file too large", msg: msgFileTooLarge},
	{pattern: "request body too large", msg: msgFileTooLarge},
	{pattern: "no file provided", msg: msgNoFile},
	{pattern: "empty file", msg: msgEmptyFile},
	{pattern: "read file failed", msg: msgReadFailed},
	{pattern: "too many concurrent uploads", msg: msgBusy},
	{pattern: "context canceled", msg: msgCancelled},
	{pattern: "context deadline exceeded", msg: msgTimeout},
	{pattern: "postal code not found", msg: msgNotFound},
	{pattern: "empty postal code", msg: msgEmptyPostalCode},
	{pattern: "empty store query", msg: msgEmptyStoreQuery},
	{pattern: "no stores found", msg: msgNoStores},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the upload history store",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
