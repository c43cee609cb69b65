// Package formats provides codecs for J3D animation file formats.
// BTK (texture matrix animation) format model.
package formats

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// BTK format errors.
var (
	ErrInvalidBTKMagic         = errors.New("invalid BTK magic: expected 'J3D1btk1'")
	ErrUnsupportedSectionCount = errors.New("unsupported BTK section count")
	ErrCorruptData             = errors.New("corrupt BTK data")
	ErrUnsupportedTangentType  = errors.New("unsupported BTK tangent type")
	ErrInvalidStructure        = errors.New("invalid BTK structure")
	ErrEmptyCurve              = errors.New("empty BTK curve")
	ErrValueOutOfRange         = errors.New("BTK value out of range")
	ErrIO                      = errors.New("BTK i/o error")
)

// Axis identifies one texture-transform channel of a material.
type Axis int

// Axis constants, in on-disk order.
const (
	AxisU Axis = iota
	AxisV
	AxisW

	AxisCount = 3
)

// String returns the axis letter.
func (a Axis) String() string {
	switch a {
	case AxisU:
		return "U"
	case AxisV:
		return "V"
	case AxisW:
		return "W"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// CurveKind identifies the transform component a curve animates.
type CurveKind int

// Curve kinds, in on-disk order within an axis.
const (
	CurveScale CurveKind = iota
	CurveRotation
	CurveTranslation

	CurveKindCount = 3
)

// String returns a human-readable curve kind name.
func (k CurveKind) String() string {
	switch k {
	case CurveScale:
		return "Scale"
	case CurveRotation:
		return "Rotation"
	case CurveTranslation:
		return "Translation"
	default:
		return fmt.Sprintf("CurveKind(%d)", int(k))
	}
}

// LoopMode is the playback mode stored in the animation header.
type LoopMode uint8

// Loop modes understood by the runtime.
const (
	LoopOnce       LoopMode = 0
	LoopOnceReset  LoopMode = 1
	LoopRepeat     LoopMode = 2
	LoopMirrorOnce LoopMode = 3
	LoopMirror     LoopMode = 4
)

// String returns a human-readable loop mode name.
func (m LoopMode) String() string {
	switch m {
	case LoopOnce:
		return "Once"
	case LoopOnceReset:
		return "OnceReset"
	case LoopRepeat:
		return "Loop"
	case LoopMirrorOnce:
		return "MirrorOnce"
	case LoopMirror:
		return "MirrorLoop"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(m))
	}
}

// AxisTrack holds the three curves animating one axis.
type AxisTrack struct {
	Scale       []AnimComponent
	Rotation    []AnimComponent // degrees
	Translation []AnimComponent
}

// Curve returns the curve of the given kind.
func (t *AxisTrack) Curve(kind CurveKind) []AnimComponent {
	switch kind {
	case CurveScale:
		return t.Scale
	case CurveRotation:
		return t.Rotation
	case CurveTranslation:
		return t.Translation
	}
	return nil
}

// SetCurve replaces the curve of the given kind.
func (t *AxisTrack) SetCurve(kind CurveKind, curve []AnimComponent) {
	switch kind {
	case CurveScale:
		t.Scale = curve
	case CurveRotation:
		t.Rotation = curve
	case CurveTranslation:
		t.Translation = curve
	}
}

// MatrixAnimation is the texture matrix animation of one material.
type MatrixAnimation struct {
	MaterialIndex uint8      // Index into the model's texture matrix table
	Name          string     // Material name
	Center        [3]float32 // Pivot of the matrix transform
	Axes          [AxisCount]AxisTrack
}

// BTK represents a parsed BTK (texture matrix animation) file.
type BTK struct {
	LoopMode       LoopMode
	AngleScale     int8   // Rotation fixed-point exponent
	Duration       uint16 // Frames
	UnknownAddress uint32 // Opaque, preserved as-is
	Animations     []MatrixAnimation
}

// RotationScale returns the degrees per rotation fixed-point unit.
func (b *BTK) RotationScale() float64 {
	return RotationScale(b.AngleScale)
}

// Validate checks the invariants the encoder relies on.
func (b *BTK) Validate() error {
	if len(b.Animations)*3 > 0xFFFF {
		return fmt.Errorf("%w: %d animations exceed header capacity", ErrInvalidStructure, len(b.Animations))
	}
	for i := range b.Animations {
		anim := &b.Animations[i]
		for axis := Axis(0); axis < AxisCount; axis++ {
			for kind := CurveKind(0); kind < CurveKindCount; kind++ {
				if len(anim.Axes[axis].Curve(kind)) == 0 {
					return fmt.Errorf("%w: animation %d (%s) %s %s", ErrEmptyCurve, i, anim.Name, kind, axis)
				}
			}
		}
	}
	return nil
}

// BTKStats summarizes the curves of a BTK document.
type BTKStats struct {
	Animations     int
	ConstantCurves int
	KeyedCurves    int
	Keyframes      int
}

// Stats counts constant and keyed curves across all animations.
func (b *BTK) Stats() BTKStats {
	stats := BTKStats{Animations: len(b.Animations)}
	for i := range b.Animations {
		for axis := range b.Animations[i].Axes {
			track := &b.Animations[i].Axes[axis]
			for kind := CurveKind(0); kind < CurveKindCount; kind++ {
				curve := track.Curve(kind)
				if len(curve) == 1 {
					stats.ConstantCurves++
				} else if len(curve) > 1 {
					stats.KeyedCurves++
				}
				stats.Keyframes += len(curve)
			}
		}
	}
	return stats
}

// Option configures BTK parsing and encoding.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger routes codec diagnostics to log at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ParseBTKFile parses a BTK file from disk.
func ParseBTKFile(path string, opts ...Option) (*BTK, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading BTK file: %w", err)
	}
	return ParseBTK(data, opts...)
}

// WriteBTKFile encodes doc and writes it to disk.
func WriteBTKFile(path string, doc *BTK, opts ...Option) error {
	data, err := EncodeBTK(doc, opts...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing BTK file: %w", err)
	}
	return nil
}
