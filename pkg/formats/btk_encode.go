package formats

import (
	"fmt"

	"go.uber.org/zap"
)

// btkSubHeader fills the 16 opaque bytes after the section count.
var btkSubHeader = []byte("SVR1\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF")

// btkLayout is the pool arrangement computed for one encode.
type btkLayout struct {
	scales       floatPool
	rotations    fixedPool
	translations floatPool
	refs         [][AxisCount][CurveKindCount]curveRef
}

// layoutPools flattens every curve into the shared pools, reusing runs
// already present, and records where each curve landed.
func layoutPools(doc *BTK) (*btkLayout, error) {
	l := &btkLayout{refs: make([][AxisCount][CurveKindCount]curveRef, len(doc.Animations))}
	rotscale := doc.RotationScale()

	for i := range doc.Animations {
		anim := &doc.Animations[i]
		for axis := Axis(0); axis < AxisCount; axis++ {
			for kind := CurveKind(0); kind < CurveKindCount; kind++ {
				curve := anim.Axes[axis].Curve(kind)
				if len(curve) == 0 {
					return nil, fmt.Errorf("%w: animation %d (%s) %s %s", ErrEmptyCurve, i, anim.Name, kind, axis)
				}
				if len(curve) > 0xFFFF {
					return nil, fmt.Errorf("%w: animation %d %s %s has %d keys", ErrInvalidStructure, i, kind, axis, len(curve))
				}

				var off int
				switch kind {
				case CurveRotation:
					values, err := flattenRotation(curve, rotscale)
					if err != nil {
						return nil, fmt.Errorf("animation %d (%s) %s %s: %w", i, anim.Name, kind, axis, err)
					}
					off = l.rotations.add(values)
				case CurveScale:
					off = l.scales.add(flattenCurve(curve))
				case CurveTranslation:
					off = l.translations.add(flattenCurve(curve))
				}
				if off > 0xFFFF {
					return nil, fmt.Errorf("%w: %s pool offset %d exceeds 16 bits", ErrInvalidStructure, kind, off)
				}

				l.refs[i][axis][kind] = curveRef{
					Count:       uint16(len(curve)),
					Offset:      uint16(off),
					TangentType: TangentSplit,
				}
			}
		}
	}

	for _, n := range []int{len(l.scales.values), len(l.rotations.values), len(l.translations.values)} {
		if n > 0xFFFF {
			return nil, fmt.Errorf("%w: pool of %d values exceeds 16-bit count", ErrInvalidStructure, n)
		}
	}
	return l, nil
}

// EncodeBTK serializes doc into a BTK file.
func EncodeBTK(doc *BTK, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	layout, err := layoutPools(doc)
	if err != nil {
		return nil, err
	}

	n := len(doc.Animations)
	bw := newBTKWriter()

	// File header
	bw.write([]byte(btkMagic))
	fileSizePos := bw.pos()
	bw.u32(0)
	bw.u32(1) // section count
	bw.write(btkSubHeader)

	// Chunk header
	chunkStart := bw.pos()
	bw.write([]byte(ttkMagic))
	chunkSizePos := bw.pos()
	bw.u32(0)
	bw.u8(uint8(doc.LoopMode))
	bw.i8(doc.AngleScale)
	bw.u16(doc.Duration)
	bw.u16(uint16(n * 3))
	countsPos := bw.pos()
	bw.zeros(3 * 2)
	offsetsPos := bw.pos()
	bw.zeros(8 * 4)
	bw.padTo(btkUnknownAddressPos)
	bw.u32(doc.UnknownAddress)

	var sec btkSections
	rel := func() uint32 { return uint32(bw.pos() - chunkStart) }

	sec.Descriptors = rel()
	descPos := bw.pos()
	bw.zeros(btkDescriptorSize * n)
	bw.pad(4)

	sec.Indices = rel()
	for i := 0; i < n; i++ {
		bw.u16(uint16(i))
	}
	bw.pad(4)

	sec.Names = rel()
	names := make([]string, n)
	for i := range doc.Animations {
		names[i] = doc.Animations[i].Name
	}
	if err := writeStringTable(bw, names); err != nil {
		return nil, fmt.Errorf("writing material names: %w", err)
	}
	bw.pad(4)

	sec.MaterialIndices = rel()
	for i := range doc.Animations {
		bw.u8(doc.Animations[i].MaterialIndex)
	}
	bw.pad(4)

	sec.Centers = rel()
	for i := range doc.Animations {
		for _, c := range doc.Animations[i].Center {
			bw.f32(c)
		}
	}
	bw.pad(4)

	sec.Scales = rel()
	for _, v := range layout.scales.values {
		bw.f32(v)
	}
	bw.pad(4)

	sec.Rotations = rel()
	for _, v := range layout.rotations.values {
		bw.i16(v)
	}
	bw.pad(4)

	sec.Translations = rel()
	for _, v := range layout.translations.values {
		bw.f32(v)
	}
	bw.pad(32)

	// Back-patch descriptors and header placeholders.
	for i, refs := range layout.refs {
		p := descPos + i*btkDescriptorSize
		for axis := range refs {
			for kind := range refs[axis] {
				ref := refs[axis][kind]
				bw.putU16At(p, ref.Count)
				bw.putU16At(p+2, ref.Offset)
				bw.putU16At(p+4, uint16(ref.TangentType))
				p += 6
			}
		}
	}

	bw.putU32At(fileSizePos, uint32(bw.pos()))
	bw.putU32At(chunkSizePos, uint32(bw.pos()-chunkStart))
	bw.putU16At(countsPos, uint16(len(layout.scales.values)))
	bw.putU16At(countsPos+2, uint16(len(layout.rotations.values)))
	bw.putU16At(countsPos+4, uint16(len(layout.translations.values)))
	for i, f := range sec.fields() {
		bw.putU32At(offsetsPos+4*i, *f)
	}

	o.log.Debug("encoded BTK",
		zap.Int("animations", n),
		zap.Int("scales", len(layout.scales.values)),
		zap.Int("rotations", len(layout.rotations.values)),
		zap.Int("translations", len(layout.translations.values)),
		zap.Int("size", bw.pos()),
	)

	return bw.Bytes(), nil
}
