package core

import "errors"

var (
	// ErrEmptyInput is returned when an upload has no non-blank line.
	ErrEmptyInput = errors.New("empty file")

	// ErrReadFailed wraps failures reading the uploaded content.
	ErrReadFailed = errors.New("read file failed")

	// ErrFileTooLarge is returned when content exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoFile is returned when an upload request carries no file.
	ErrNoFile = errors.New("no file provided")

	ErrEmptyPostalCode    = errors.New("empty postal code")
	ErrPostalCodeNotFound = errors.New("postal code not found")
	ErrEmptyStoreQuery    = errors.New("empty store query")
	ErrNoStoresFound      = errors.New("no stores found")
)
