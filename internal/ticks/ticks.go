package ticks

import (
	"errors"
	"fmt"
)

// MaxBoundary is the boundary of a free-running 32-bit counter.
const MaxBoundary Boundary = 0xFFFFFFFF

var ErrOutOfRange = errors.New("ticks: value outside half-boundary window")

// Boundary is the largest tick value the timer presents before wrapping to 0.
type Boundary uint32

// Half returns B >> 1.
func (b Boundary) Half() uint32 {
	return uint32(b) >> 1
}

// Adjust maps raw into [0, B]. Values above B are treated either as negative
// offsets expressed in two's complement or as amounts just past the boundary.
// It panics when raw sits in neither window.
func (b Boundary) Adjust(raw uint32) uint32 {
	v, err := b.CheckedAdjust(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// CheckedAdjust is Adjust returning ErrOutOfRange instead of panicking.
func (b Boundary) CheckedAdjust(raw uint32) (uint32, error) {
	bound := uint32(b)
	if raw <= bound {
		return raw, nil
	}
	half := bound >> 1
	switch {
	case raw >= ^half:
		return raw + bound + 1, nil
	case raw <= bound+1+half:
		return raw - (bound + 1), nil
	default:
		return 0, fmt.Errorf("%w: raw=%#x boundary=%#x", ErrOutOfRange, raw, bound)
	}
}

// Add returns t advanced by delta and wrapped into [0, B].
func (b Boundary) Add(t, delta uint32) uint32 {
	return b.Adjust(t + delta)
}

// TargetDelta returns how many ticks target lies after reference, or 0 when
// target is not strictly in the future. Both values must be within B/2 ticks
// of each other in real time.
func (b Boundary) TargetDelta(target, reference uint32) uint32 {
	target = b.Adjust(target)
	reference = b.Adjust(reference)
	window := b.Half() + 1

	if target > reference {
		if target-reference < window {
			return target - reference
		}
		// reference wrapped; target is behind it
		return 0
	}
	if reference-target < window {
		return 0
	}
	// target wrapped forward past the boundary
	return uint32(b) - (reference - target) + 1
}
