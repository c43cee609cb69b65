// Package animdoc maps BTK animations to and from an editable text document.
package animdoc

import (
	"errors"
	"fmt"

	"github.com/Faultbox/btkconv/pkg/formats"
)

// Document errors.
var (
	ErrInvalidKeyframe = errors.New("invalid keyframe")
	ErrUnknownFormat   = errors.New("unknown document format")
)

// Keyframe is a 1-tuple (value) for a constant curve, otherwise a 4-tuple
// (time, value, tangent in, tangent out).
type Keyframe []float32

// Document is the text form of a BTK file.
type Document struct {
	LoopMode       uint8       `json:"loop_mode" yaml:"loop_mode"`
	AngleScale     int8        `json:"angle_scale" yaml:"angle_scale"`
	Duration       uint16      `json:"duration" yaml:"duration"`
	UnknownAddress uint32      `json:"unknown_address" yaml:"unknown_address"`
	Animations     []Animation `json:"animations" yaml:"animations"`
}

// Animation is the text form of one material's texture matrix animation.
// Rotation keyframes are in degrees.
type Animation struct {
	Name          string     `json:"name" yaml:"name"`
	MaterialIndex uint8      `json:"material_index" yaml:"material_index"`
	Center        [3]float32 `json:"center" yaml:"center,flow"`

	ScaleU       []Keyframe `json:"scale_u" yaml:"scale_u"`
	ScaleV       []Keyframe `json:"scale_v" yaml:"scale_v"`
	ScaleW       []Keyframe `json:"scale_w" yaml:"scale_w"`
	RotationU    []Keyframe `json:"rotation_u" yaml:"rotation_u"`
	RotationV    []Keyframe `json:"rotation_v" yaml:"rotation_v"`
	RotationW    []Keyframe `json:"rotation_w" yaml:"rotation_w"`
	TranslationU []Keyframe `json:"translation_u" yaml:"translation_u"`
	TranslationV []Keyframe `json:"translation_v" yaml:"translation_v"`
	TranslationW []Keyframe `json:"translation_w" yaml:"translation_w"`
}

// curves returns the keyframe lists indexed by axis and curve kind.
func (a *Animation) curves() [formats.AxisCount][formats.CurveKindCount]*[]Keyframe {
	return [formats.AxisCount][formats.CurveKindCount]*[]Keyframe{
		{&a.ScaleU, &a.RotationU, &a.TranslationU},
		{&a.ScaleV, &a.RotationV, &a.TranslationV},
		{&a.ScaleW, &a.RotationW, &a.TranslationW},
	}
}

// FromBTK converts a decoded BTK into its text form.
func FromBTK(b *formats.BTK) *Document {
	doc := &Document{
		LoopMode:       uint8(b.LoopMode),
		AngleScale:     b.AngleScale,
		Duration:       b.Duration,
		UnknownAddress: b.UnknownAddress,
		Animations:     make([]Animation, 0, len(b.Animations)),
	}

	for i := range b.Animations {
		src := &b.Animations[i]
		anim := Animation{
			Name:          src.Name,
			MaterialIndex: src.MaterialIndex,
			Center:        src.Center,
		}
		dst := anim.curves()
		for axis := formats.Axis(0); axis < formats.AxisCount; axis++ {
			for kind := formats.CurveKind(0); kind < formats.CurveKindCount; kind++ {
				*dst[axis][kind] = keyframesFromCurve(src.Axes[axis].Curve(kind))
			}
		}
		doc.Animations = append(doc.Animations, anim)
	}

	return doc
}

func keyframesFromCurve(curve []formats.AnimComponent) []Keyframe {
	if len(curve) == 1 {
		return []Keyframe{{curve[0].Value}}
	}
	keys := make([]Keyframe, len(curve))
	for i, c := range curve {
		keys[i] = Keyframe{c.Time, c.Value, c.TangentIn, c.TangentOut}
	}
	return keys
}

// BTK converts the document into the binary model.
func (d *Document) BTK() (*formats.BTK, error) {
	b := &formats.BTK{
		LoopMode:       formats.LoopMode(d.LoopMode),
		AngleScale:     d.AngleScale,
		Duration:       d.Duration,
		UnknownAddress: d.UnknownAddress,
		Animations:     make([]formats.MatrixAnimation, 0, len(d.Animations)),
	}

	for i := range d.Animations {
		src := &d.Animations[i]
		anim := formats.MatrixAnimation{
			MaterialIndex: src.MaterialIndex,
			Name:          src.Name,
			Center:        src.Center,
		}
		curves := src.curves()
		for axis := formats.Axis(0); axis < formats.AxisCount; axis++ {
			for kind := formats.CurveKind(0); kind < formats.CurveKindCount; kind++ {
				curve, err := curveFromKeyframes(*curves[axis][kind])
				if err != nil {
					return nil, fmt.Errorf("animation %d (%s) %s %s: %w", i, src.Name, kind, axis, err)
				}
				anim.Axes[axis].SetCurve(kind, curve)
			}
		}
		b.Animations = append(b.Animations, anim)
	}

	return b, nil
}

func curveFromKeyframes(keys []Keyframe) ([]formats.AnimComponent, error) {
	if len(keys) == 0 {
		return nil, formats.ErrEmptyCurve
	}

	curve := make([]formats.AnimComponent, len(keys))
	for i, k := range keys {
		switch {
		case len(k) == 1 && len(keys) == 1:
			curve[i] = formats.ConstantComponent(k[0])
		case len(k) == 4:
			curve[i] = formats.AnimComponent{Time: k[0], Value: k[1], TangentIn: k[2], TangentOut: k[3]}
		default:
			return nil, fmt.Errorf("%w: key %d has %d values", ErrInvalidKeyframe, i, len(k))
		}
	}
	return curve, nil
}
