package formats

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashString(t *testing.T) {
	require.Equal(t, uint16(0), HashString(""))
	require.Equal(t, uint16('a'), HashString("a"))
	require.Equal(t, uint16('a'*3+'b'), HashString("ab"))

	// Recurrence with 16-bit wraparound.
	s := "a_very_long_material_name_that_overflows"
	var want uint32
	for _, c := range s {
		want = (want*3 + uint32(c)) & 0xFFFF
	}
	require.Equal(t, uint16(want), HashString(s))
	require.Equal(t, HashString(s), HashString(s))
}

func TestHashString_CodePoints(t *testing.T) {
	// Hash uses the code point, not the Shift-JIS bytes.
	require.Equal(t, uint16(0x30A2), HashString("ア"))
}

func TestStringTable_RoundTrip(t *testing.T) {
	names := []string{"eyeL_mat", "", "water", "マテリアル"}

	bw := newBTKWriter()
	bw.write([]byte{0xAA, 0xBB}) // table need not start at zero
	require.NoError(t, writeStringTable(bw, names))

	data := bw.Bytes()
	require.Equal(t, uint16(len(names)), binary.BigEndian.Uint16(data[2:]))
	require.Equal(t, uint16(0xFFFF), binary.BigEndian.Uint16(data[4:]))
	require.Equal(t, HashString("eyeL_mat"), binary.BigEndian.Uint16(data[6:]))
	// First string follows the header and 4 entries.
	require.Equal(t, uint16(4+4*4), binary.BigEndian.Uint16(data[8:]))

	br := newBTKReader(data)
	br.seek(2)
	got, err := readStringTable(br)
	require.NoError(t, err)
	require.Equal(t, names, got)
}

func TestStringTable_Empty(t *testing.T) {
	bw := newBTKWriter()
	require.NoError(t, writeStringTable(bw, nil))
	require.Equal(t, []byte{0, 0, 0xFF, 0xFF}, bw.Bytes())

	got, err := readStringTable(newBTKReader(bw.Bytes()))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestStringTable_Unterminated(t *testing.T) {
	bw := newBTKWriter()
	require.NoError(t, writeStringTable(bw, []string{"abc"}))
	data := bw.Bytes()
	data = data[:len(data)-1] // drop terminator

	_, err := readStringTable(newBTKReader(data))
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestStringTable_OffsetPastEnd(t *testing.T) {
	data := []byte{
		0x00, 0x01, 0xFF, 0xFF,
		0x00, 0x00, 0x01, 0x00, // offset 0x100
	}
	_, err := readStringTable(newBTKReader(data))
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestStringTable_TruncatedHeader(t *testing.T) {
	data := []byte{0x00, 0x02, 0xFF, 0xFF, 0x00, 0x00}
	_, err := readStringTable(newBTKReader(data))
	require.ErrorIs(t, err, ErrIO)
}

func TestStringTable_Unencodable(t *testing.T) {
	err := writeStringTable(newBTKWriter(), []string{"😀"})
	require.ErrorIs(t, err, ErrCorruptData)
}
