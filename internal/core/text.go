package core

import (
	"bytes"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadText reads r to the end and decodes it with decodeText.
// Content longer than limit bytes fails with ErrFileTooLarge; limit <= 0
// disables the check. Read failures wrap ErrReadFailed.
func ReadText(r io.Reader, limit int64) (string, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, limit)
	}
	return decodeText(data), nil
}

// decodeText turns uploaded bytes into text. A leading UTF-8 BOM, common in
// files saved by spreadsheet programs, is dropped and invalid UTF-8 sequences
// become U+FFFD so a stray byte cannot corrupt neighbouring fields.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	return string(bytes.ToValidUTF8(data, []byte("\uFFFD")))
}
