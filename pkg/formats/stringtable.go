package formats

import (
	"fmt"

	"github.com/Faultbox/btkconv/pkg/encoding"
)

// stringTableSentinel follows the string count in every J3D string table.
const stringTableSentinel = 0xFFFF

// HashString computes the lookup hash the runtime stores next to each name.
// It runs over Unicode code points, not encoded bytes.
func HashString(s string) uint16 {
	var h uint16
	for _, c := range s {
		h = h*3 + uint16(c)
	}
	return h
}

// readStringTable decodes the string table starting at the reader's
// current position. Entry hashes are ignored; only offsets are used.
func readStringTable(br *btkReader) ([]string, error) {
	start := br.tell()

	count := br.u16("string count")
	br.u16("string table sentinel")

	offsets := make([]uint16, count)
	for i := range offsets {
		br.u16("string hash")
		offsets[i] = br.u16("string offset")
	}
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("reading string table header: %w", err)
	}

	data := make([]byte, br.size())
	br.seek(0)
	br.read("string table data", data)
	if err := br.Err(); err != nil {
		return nil, err
	}

	strs := make([]string, 0, count)
	for i, off := range offsets {
		pos := start + int64(off)
		if pos >= int64(len(data)) {
			return nil, fmt.Errorf("%w: string %d offset 0x%X past end of data", ErrCorruptData, i, pos)
		}
		raw, ok := encoding.CString(data[pos:])
		if !ok {
			return nil, fmt.Errorf("%w: string %d at 0x%X is not terminated", ErrCorruptData, i, pos)
		}
		s, err := encoding.ShiftJISToUTF8(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: string %d: %w", ErrCorruptData, i, err)
		}
		strs = append(strs, s)
	}

	return strs, nil
}

// writeStringTable appends a string table holding strs in order.
// Alignment after the table is left to the caller.
func writeStringTable(bw *btkWriter, strs []string) error {
	if len(strs) > 0xFFFF {
		return fmt.Errorf("%w: %d strings exceed table capacity", ErrInvalidStructure, len(strs))
	}

	start := bw.pos()
	bw.u16(uint16(len(strs)))
	bw.u16(stringTableSentinel)

	entries := make([]int, len(strs))
	for i, s := range strs {
		bw.u16(HashString(s))
		entries[i] = bw.pos()
		bw.u16(0) // offset, patched below
	}

	for i, s := range strs {
		raw, err := encoding.UTF8ToShiftJIS(s)
		if err != nil {
			return fmt.Errorf("%w: string %d: %w", ErrCorruptData, i, err)
		}
		rel := bw.pos() - start
		if rel > 0xFFFF {
			return fmt.Errorf("%w: string table exceeds 64 KiB", ErrInvalidStructure)
		}
		bw.putU16At(entries[i], uint16(rel))
		bw.write(raw)
		bw.u8(0)
	}

	return nil
}
