package formats

import "math"

// FindSequence returns the lowest index at which needle occurs as a
// contiguous run of haystack, or -1. An empty needle matches at 0.
func FindSequence[T comparable](haystack, needle []T) int {
	return findSequenceFunc(haystack, needle, func(a, b T) bool { return a == b })
}

func findSequenceFunc[T any](haystack, needle []T, eq func(a, b T) bool) int {
	if len(needle) > len(haystack) {
		return -1
	}
outer:
	for start := 0; start+len(needle) <= len(haystack); start++ {
		for i := range needle {
			if !eq(haystack[start+i], needle[i]) {
				continue outer
			}
		}
		return start
	}
	return -1
}

// sameFloatBits compares floats by representation so reused runs encode
// to the same bytes as the values they replace.
func sameFloatBits(a, b float32) bool {
	return math.Float32bits(a) == math.Float32bits(b)
}

// floatPool is a deduplicating pool of f32 entries.
type floatPool struct {
	values []float32
}

// add returns the offset of values in the pool, appending them if no
// identical run exists yet.
func (p *floatPool) add(values []float32) int {
	if off := findSequenceFunc(p.values, values, sameFloatBits); off >= 0 {
		return off
	}
	off := len(p.values)
	p.values = append(p.values, values...)
	return off
}

// fixedPool is a deduplicating pool of i16 fixed-point entries.
type fixedPool struct {
	values []int16
}

func (p *fixedPool) add(values []int16) int {
	if off := FindSequence(p.values, values); off >= 0 {
		return off
	}
	off := len(p.values)
	p.values = append(p.values, values...)
	return off
}
