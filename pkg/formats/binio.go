package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// paddingFiller is repeated into alignment gaps, starting at its first byte
// on every pad call.
const paddingFiller = "This is padding data to align."

// btkReader reads big-endian fields from an in-memory buffer.
// The first failure sticks; later reads return zero values.
type btkReader struct {
	r   *bytes.Reader
	err error
}

func newBTKReader(data []byte) *btkReader {
	return &btkReader{r: bytes.NewReader(data)}
}

// Err returns the first error encountered.
func (br *btkReader) Err() error {
	return br.err
}

func (br *btkReader) size() int64 {
	return br.r.Size()
}

func (br *btkReader) tell() int64 {
	return br.r.Size() - int64(br.r.Len())
}

func (br *btkReader) seek(offset int64) {
	if br.err != nil {
		return
	}
	if offset < 0 || offset > br.r.Size() {
		br.err = fmt.Errorf("%w: seek to 0x%X outside %d bytes", ErrIO, offset, br.r.Size())
		return
	}
	br.r.Seek(offset, io.SeekStart)
}

func (br *btkReader) read(what string, v any) {
	if br.err != nil {
		return
	}
	pos := br.tell()
	if err := binary.Read(br.r, binary.BigEndian, v); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		br.err = fmt.Errorf("%w: reading %s at 0x%X: %w", ErrIO, what, pos, err)
	}
}

func (br *btkReader) bytes(what string, n int) []byte {
	buf := make([]byte, n)
	br.read(what, buf)
	return buf
}

func (br *btkReader) u8(what string) uint8 {
	var v uint8
	br.read(what, &v)
	return v
}

func (br *btkReader) i8(what string) int8 {
	var v int8
	br.read(what, &v)
	return v
}

func (br *btkReader) u16(what string) uint16 {
	var v uint16
	br.read(what, &v)
	return v
}

func (br *btkReader) i16(what string) int16 {
	var v int16
	br.read(what, &v)
	return v
}

func (br *btkReader) u32(what string) uint32 {
	var v uint32
	br.read(what, &v)
	return v
}

func (br *btkReader) f32(what string) float32 {
	var v float32
	br.read(what, &v)
	return v
}

// btkWriter builds big-endian output in memory. Placeholders are reserved
// with zero values and filled later with the put*At methods.
type btkWriter struct {
	buf []byte
}

func newBTKWriter() *btkWriter {
	return &btkWriter{buf: make([]byte, 0, 1024)}
}

func (bw *btkWriter) Bytes() []byte {
	return bw.buf
}

func (bw *btkWriter) pos() int {
	return len(bw.buf)
}

func (bw *btkWriter) write(p []byte) {
	bw.buf = append(bw.buf, p...)
}

func (bw *btkWriter) u8(v uint8) {
	bw.buf = append(bw.buf, v)
}

func (bw *btkWriter) i8(v int8) {
	bw.buf = append(bw.buf, byte(v))
}

func (bw *btkWriter) u16(v uint16) {
	bw.buf = binary.BigEndian.AppendUint16(bw.buf, v)
}

func (bw *btkWriter) i16(v int16) {
	bw.buf = binary.BigEndian.AppendUint16(bw.buf, uint16(v))
}

func (bw *btkWriter) u32(v uint32) {
	bw.buf = binary.BigEndian.AppendUint32(bw.buf, v)
}

func (bw *btkWriter) f32(v float32) {
	bw.buf = binary.BigEndian.AppendUint32(bw.buf, math.Float32bits(v))
}

// zeros appends n zero bytes.
func (bw *btkWriter) zeros(n int) {
	bw.buf = append(bw.buf, make([]byte, n)...)
}

func (bw *btkWriter) putU16At(offset int, v uint16) {
	binary.BigEndian.PutUint16(bw.buf[offset:], v)
}

func (bw *btkWriter) putU32At(offset int, v uint32) {
	binary.BigEndian.PutUint32(bw.buf[offset:], v)
}

// pad advances to the next multiple of multiple using the filler pattern.
func (bw *btkWriter) pad(multiple int) {
	next := (bw.pos() + multiple - 1) / multiple * multiple
	for i := 0; bw.pos() < next; i++ {
		bw.buf = append(bw.buf, paddingFiller[i%len(paddingFiller)])
	}
}

// padTo zero-fills up to the absolute offset.
func (bw *btkWriter) padTo(offset int) {
	if n := offset - bw.pos(); n > 0 {
		bw.zeros(n)
	}
}
