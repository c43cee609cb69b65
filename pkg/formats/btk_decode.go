package formats

import (
	"fmt"

	"go.uber.org/zap"
)

// File layout constants.
const (
	btkMagic             = "J3D1btk1"
	ttkMagic             = "TTK1"
	btkChunkStart        = 0x20 // after magic, size, section count and sub-header
	btkDescriptorSize    = 0x36 // 27 u16 per animation
	btkUnknownAddressPos = 0x7C // absolute
)

// btkSections holds the section offsets of a TTK1 chunk, relative to the
// chunk start, in on-disk order.
type btkSections struct {
	Descriptors     uint32 // per-animation curve references
	Indices         uint32 // u16 per animation
	Names           uint32 // string table
	MaterialIndices uint32 // u8 per animation
	Centers         uint32 // 3 f32 per animation
	Scales          uint32 // f32 pool
	Rotations       uint32 // i16 pool
	Translations    uint32 // f32 pool
}

func (s *btkSections) fields() []*uint32 {
	return []*uint32{
		&s.Descriptors, &s.Indices, &s.Names, &s.MaterialIndices,
		&s.Centers, &s.Scales, &s.Rotations, &s.Translations,
	}
}

// ParseBTK parses a BTK file from raw bytes.
func ParseBTK(data []byte, opts ...Option) (*BTK, error) {
	o := newOptions(opts)
	br := newBTKReader(data)

	magic := br.bytes("magic", len(btkMagic))
	if err := br.Err(); err != nil {
		return nil, err
	}
	if string(magic) != btkMagic {
		return nil, fmt.Errorf("%w: found %q", ErrInvalidBTKMagic, magic)
	}

	fileSize := br.u32("file size")
	sectionCount := br.u32("section count")
	if err := br.Err(); err != nil {
		return nil, err
	}
	if sectionCount != 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSectionCount, sectionCount)
	}
	br.bytes("sub-header", 16)

	chunkStart := br.tell()
	chunkMagic := br.bytes("chunk magic", 4)
	chunkSize := br.u32("chunk size")

	btk := &BTK{
		LoopMode:   LoopMode(br.u8("loop mode")),
		AngleScale: br.i8("angle scale"),
		Duration:   br.u16("duration"),
	}

	tripleCount := br.u16("animation count")
	scaleCount := br.u16("scale count")
	rotationCount := br.u16("rotation count")
	translationCount := br.u16("translation count")

	var sec btkSections
	for _, f := range sec.fields() {
		*f = br.u32("section offset")
	}

	br.seek(btkUnknownAddressPos)
	btk.UnknownAddress = br.u32("unknown address")
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("reading chunk header: %w", err)
	}

	if string(chunkMagic) != ttkMagic {
		o.log.Warn("unexpected chunk magic", zap.ByteString("magic", chunkMagic))
	}
	if int(fileSize) != len(data) {
		o.log.Debug("file size mismatch", zap.Uint32("header", fileSize), zap.Int("actual", len(data)))
	}
	if tripleCount%3 != 0 {
		return nil, fmt.Errorf("%w: animation count field %d is not a multiple of 3", ErrInvalidStructure, tripleCount)
	}
	animCount := int(tripleCount / 3)

	o.log.Debug("parsed BTK header",
		zap.Uint32("chunk_size", chunkSize),
		zap.Int("animations", animCount),
		zap.Uint16("scales", scaleCount),
		zap.Uint16("rotations", rotationCount),
		zap.Uint16("translations", translationCount),
		zap.Stringer("loop_mode", btk.LoopMode),
		zap.Int8("angle_scale", btk.AngleScale),
		zap.Uint16("duration", btk.Duration),
	)

	at := func(rel uint32) int64 { return chunkStart + int64(rel) }

	indices := make([]uint16, animCount)
	br.seek(at(sec.Indices))
	for i := range indices {
		indices[i] = br.u16("animation index")
	}

	matIndices := make([]uint8, animCount)
	br.seek(at(sec.MaterialIndices))
	for i := range matIndices {
		matIndices[i] = br.u8("material index")
	}
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("reading index tables: %w", err)
	}

	br.seek(at(sec.Names))
	names, err := readStringTable(br)
	if err != nil {
		return nil, fmt.Errorf("reading material names: %w", err)
	}
	if len(names) < animCount {
		return nil, fmt.Errorf("%w: %d names for %d animations", ErrInvalidStructure, len(names), animCount)
	}

	scales := readFloatPool(br, at(sec.Scales), int(scaleCount), "scale")
	rotations := readFixedPool(br, at(sec.Rotations), int(rotationCount))
	translations := readFloatPool(br, at(sec.Translations), int(translationCount), "translation")
	if err := br.Err(); err != nil {
		return nil, fmt.Errorf("reading value pools: %w", err)
	}

	pools := [CurveKindCount][]float32{scales, rotations, translations}
	rotscale := btk.RotationScale()

	btk.Animations = make([]MatrixAnimation, 0, animCount)
	for _, idx := range indices {
		if int(idx) >= animCount {
			return nil, fmt.Errorf("%w: animation index %d out of %d", ErrInvalidStructure, idx, animCount)
		}

		anim := MatrixAnimation{
			MaterialIndex: matIndices[idx],
			Name:          names[idx],
		}

		br.seek(at(sec.Centers) + 12*int64(idx))
		for i := range anim.Center {
			anim.Center[i] = br.f32("center")
		}

		br.seek(at(sec.Descriptors) + btkDescriptorSize*int64(idx))
		var refs [AxisCount][CurveKindCount]curveRef
		for axis := range refs {
			for kind := range refs[axis] {
				refs[axis][kind] = curveRef{
					Count:       br.u16("key count"),
					Offset:      br.u16("key offset"),
					TangentType: TangentType(br.u16("tangent type")),
				}
			}
		}
		if err := br.Err(); err != nil {
			return nil, fmt.Errorf("reading animation %d: %w", idx, err)
		}

		for axis := Axis(0); axis < AxisCount; axis++ {
			for kind := CurveKind(0); kind < CurveKindCount; kind++ {
				curve, err := readCurve(pools[kind], refs[axis][kind])
				if err != nil {
					return nil, fmt.Errorf("animation %d (%s) %s %s: %w", idx, anim.Name, kind, axis, err)
				}
				if kind == CurveRotation {
					scaleCurve(curve, rotscale)
				}
				anim.Axes[axis].SetCurve(kind, curve)
			}
		}

		o.log.Debug("parsed texture matrix animation",
			zap.Uint16("index", idx),
			zap.String("name", anim.Name),
			zap.Uint8("material_index", anim.MaterialIndex),
		)
		btk.Animations = append(btk.Animations, anim)
	}

	return btk, nil
}

func readFloatPool(br *btkReader, offset int64, count int, what string) []float32 {
	pool := make([]float32, count)
	br.seek(offset)
	for i := range pool {
		pool[i] = br.f32(what)
	}
	return pool
}

// readFixedPool reads the i16 rotation pool as raw fixed-point values.
func readFixedPool(br *btkReader, offset int64, count int) []float32 {
	pool := make([]float32, count)
	br.seek(offset)
	for i := range pool {
		pool[i] = float32(br.i16("rotation"))
	}
	return pool
}

// IsBTK reports whether data starts with the BTK file magic.
func IsBTK(data []byte) bool {
	return len(data) >= len(btkMagic) && string(data[:len(btkMagic)]) == btkMagic
}
