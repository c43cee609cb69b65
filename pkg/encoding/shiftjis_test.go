package encoding

import (
	"bytes"
	"io"
	"testing"
)

func TestShiftJISRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ascii", "eyeL_mat"},
		{"empty", ""},
		{"katakana", "マテリアル"},
		{"mixed", "mat_目"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := UTF8ToShiftJIS(tt.input)
			if err != nil {
				t.Fatalf("UTF8ToShiftJIS failed: %v", err)
			}
			decoded, err := ShiftJISToUTF8(encoded)
			if err != nil {
				t.Fatalf("ShiftJISToUTF8 failed: %v", err)
			}
			if decoded != tt.input {
				t.Errorf("expected %q, got %q", tt.input, decoded)
			}
		})
	}
}

func TestShiftJISKnownBytes(t *testing.T) {
	// "ア" is 0x83 0x41 in Shift-JIS
	encoded, err := UTF8ToShiftJIS("ア")
	if err != nil {
		t.Fatalf("UTF8ToShiftJIS failed: %v", err)
	}
	if !bytes.Equal(encoded, []byte{0x83, 0x41}) {
		t.Errorf("expected 83 41, got % X", encoded)
	}
}

func TestUTF8ToShiftJISUnencodable(t *testing.T) {
	if _, err := UTF8ToShiftJIS("emoji 😀"); err == nil {
		t.Error("expected error for character outside Shift-JIS")
	}
}

func TestCString(t *testing.T) {
	s, ok := CString([]byte("abc\x00def"))
	if !ok || string(s) != "abc" {
		t.Errorf("expected 'abc', got %q (ok=%v)", s, ok)
	}

	s, ok = CString([]byte("\x00"))
	if !ok || len(s) != 0 {
		t.Errorf("expected empty string, got %q (ok=%v)", s, ok)
	}

	if _, ok := CString([]byte("abc")); ok {
		t.Error("expected missing terminator to be reported")
	}
}

func TestStripBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"a":1}`)...)
	out, err := StripBOM(data)
	if err != nil {
		t.Fatalf("StripBOM failed: %v", err)
	}
	if string(out) != `{"a":1}` {
		t.Errorf("expected BOM removed, got %q", out)
	}

	out, err = StripBOM([]byte("plain"))
	if err != nil {
		t.Fatalf("StripBOM failed: %v", err)
	}
	if string(out) != "plain" {
		t.Errorf("expected passthrough, got %q", out)
	}
}

func TestNewBOMReaderUTF16(t *testing.T) {
	// UTF-16LE BOM followed by "hi"
	data := []byte{0xFF, 0xFE, 'h', 0, 'i', 0}
	out, err := io.ReadAll(NewBOMReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(out) != "hi" {
		t.Errorf("expected 'hi', got %q", out)
	}
}
