package formats

import (
	"fmt"
	"math"
)

// AnimComponent is one keyframe of a curve.
type AnimComponent struct {
	Time       float32
	Value      float32
	TangentIn  float32
	TangentOut float32
}

// ConstantComponent returns the single keyframe of a constant curve.
func ConstantComponent(value float32) AnimComponent {
	return AnimComponent{Value: value}
}

// TangentType selects how keyframes are laid out in a pool.
type TangentType uint16

const (
	TangentShared TangentType = 0 // time, value, tangent
	TangentSplit  TangentType = 1 // time, value, tangent in, tangent out
)

// stride returns the pool entries consumed per keyframe.
func (t TangentType) stride() (int, error) {
	switch t {
	case TangentShared:
		return 3, nil
	case TangentSplit:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedTangentType, uint16(t))
	}
}

// RotationScale returns degrees per rotation fixed-point unit for the
// given angle scale exponent: 2^exp * 180/32768.
func RotationScale(exp int8) float64 {
	return math.Ldexp(180.0/32768.0, int(exp))
}

// curveRef locates a curve inside a pool.
type curveRef struct {
	Count       uint16
	Offset      uint16
	TangentType TangentType
}

// readCurve rebuilds a curve from pool entries.
func readCurve(pool []float32, ref curveRef) ([]AnimComponent, error) {
	count, offset := int(ref.Count), int(ref.Offset)
	if count == 0 {
		return nil, fmt.Errorf("%w: curve has no keyframes", ErrInvalidStructure)
	}

	if count == 1 {
		if offset >= len(pool) {
			return nil, fmt.Errorf("%w: offset %d past pool of %d", ErrInvalidStructure, offset, len(pool))
		}
		return []AnimComponent{ConstantComponent(pool[offset])}, nil
	}

	stride, err := ref.TangentType.stride()
	if err != nil {
		return nil, err
	}
	if end := offset + count*stride; end > len(pool) {
		return nil, fmt.Errorf("%w: keys %d..%d past pool of %d", ErrInvalidStructure, offset, end, len(pool))
	}

	curve := make([]AnimComponent, count)
	for i := range curve {
		v := pool[offset+i*stride:]
		curve[i] = AnimComponent{Time: v[0], Value: v[1], TangentIn: v[2], TangentOut: v[2]}
		if stride == 4 {
			curve[i].TangentOut = v[3]
		}
	}
	return curve, nil
}

// scaleCurve multiplies values and tangents by factor in place.
func scaleCurve(curve []AnimComponent, factor float64) {
	for i := range curve {
		curve[i].Value = float32(float64(curve[i].Value) * factor)
		curve[i].TangentIn = float32(float64(curve[i].TangentIn) * factor)
		curve[i].TangentOut = float32(float64(curve[i].TangentOut) * factor)
	}
}

// flattenCurve returns the pool entries for a curve: the bare value when
// constant, otherwise time, value, tangent in, tangent out per keyframe.
func flattenCurve(curve []AnimComponent) []float32 {
	if len(curve) == 1 {
		return []float32{curve[0].Value}
	}
	out := make([]float32, 0, len(curve)*4)
	for _, c := range curve {
		out = append(out, c.Time, c.Value, c.TangentIn, c.TangentOut)
	}
	return out
}

// flattenRotation is flattenCurve for the rotation pool: values and
// tangents are converted to fixed-point, keyframe times are kept as is.
func flattenRotation(curve []AnimComponent, rotscale float64) ([]int16, error) {
	if len(curve) == 1 {
		v, err := quantizeRotation(curve[0].Value, rotscale)
		if err != nil {
			return nil, err
		}
		return []int16{v}, nil
	}

	out := make([]int16, 0, len(curve)*4)
	for i, c := range curve {
		tm, err := toInt16(float64(c.Time))
		if err != nil {
			return nil, fmt.Errorf("key %d time: %w", i, err)
		}
		out = append(out, tm)
		for _, v := range [...]float32{c.Value, c.TangentIn, c.TangentOut} {
			q, err := quantizeRotation(v, rotscale)
			if err != nil {
				return nil, fmt.Errorf("key %d: %w", i, err)
			}
			out = append(out, q)
		}
	}
	return out, nil
}

// quantizeRotation converts degrees to fixed-point, truncating toward zero.
func quantizeRotation(degrees float32, rotscale float64) (int16, error) {
	return toInt16(float64(degrees) / rotscale)
}

func toInt16(v float64) (int16, error) {
	t := math.Trunc(v)
	if math.IsNaN(t) || t < math.MinInt16 || t > math.MaxInt16 {
		return 0, fmt.Errorf("%w: %g does not fit in 16 bits", ErrValueOutOfRange, v)
	}
	return int16(t), nil
}
