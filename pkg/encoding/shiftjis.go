// Package encoding provides text encoding utilities for J3D animation files.
package encoding

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ShiftJISToUTF8 converts Shift-JIS encoded bytes to a UTF-8 string.
// Plain ASCII passes through unchanged.
func ShiftJISToUTF8(data []byte) (string, error) {
	decoder := japanese.ShiftJIS.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("decoding shift-jis: %w", err)
	}
	return string(result), nil
}

// UTF8ToShiftJIS converts a UTF-8 string to Shift-JIS encoded bytes.
// Fails if the string holds characters Shift-JIS cannot represent.
func UTF8ToShiftJIS(s string) ([]byte, error) {
	encoder := japanese.ShiftJIS.NewEncoder()
	result, _, err := transform.Bytes(encoder, []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %q as shift-jis: %w", s, err)
	}
	return result, nil
}

// CString returns the bytes of the null-terminated string starting at data[0].
// The second result is false if no terminator was found.
func CString(data []byte) ([]byte, bool) {
	end := bytes.IndexByte(data, 0)
	if end < 0 {
		return nil, false
	}
	return data[:end], true
}

// NewBOMReader wraps r so that a leading UTF-8, UTF-16LE or UTF-16BE byte
// order mark is consumed and the content is delivered as UTF-8.
// Input without a BOM is passed through as UTF-8.
func NewBOMReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// StripBOM returns data converted to UTF-8 with any byte order mark removed.
func StripBOM(data []byte) ([]byte, error) {
	result, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("stripping byte order mark: %w", err)
	}
	return result, nil
}
