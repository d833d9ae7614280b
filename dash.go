package linemesh

import "math"

// Dash is a dash pattern of alternating dash and gap lengths.
// For example, [5, 3] draws 5 units, skips 3.
type Dash struct {
	// Array contains alternating dash/gap lengths.
	// An odd-length array is logically duplicated ([5] becomes [5, 5]).
	Array []float64

	// Offset is the starting offset into the pattern.
	Offset float64
}

// NewDash creates a dash pattern from alternating dash/gap lengths.
// Negative lengths are made positive. Returns nil if no lengths are
// provided or all lengths are zero.
func NewDash(lengths ...float64) *Dash {
	normalized := make([]float64, len(lengths))
	dashed := false
	for i, l := range lengths {
		normalized[i] = math.Abs(l)
		if normalized[i] > 0 {
			dashed = true
		}
	}
	if !dashed {
		return nil
	}
	return &Dash{Array: normalized}
}

// PatternLength returns the length of one complete pattern cycle,
// including the duplication of odd-length arrays.
func (d *Dash) PatternLength() float64 {
	if d == nil {
		return 0
	}
	var total float64
	for _, l := range d.Array {
		total += l
	}
	if len(d.Array)%2 != 0 {
		total *= 2
	}
	return total
}

// IsDashed reports whether d describes a dashed (not solid) line.
func (d *Dash) IsDashed() bool {
	return d.PatternLength() > 0
}

// Scale returns a new Dash with all lengths multiplied by factor.
func (d *Dash) Scale(factor float64) *Dash {
	if d == nil || factor <= 0 {
		return d
	}
	scaled := make([]float64, len(d.Array))
	for i, l := range d.Array {
		scaled[i] = l * factor
	}
	return &Dash{Array: scaled, Offset: d.Offset * factor}
}

// TileUnits converts a pattern in pixels to tile units for a tile drawn
// with the given overscaling factor. Overscaled tiles cover more pixels
// per tile unit, so the repeat distance shrinks accordingly.
func (d *Dash) TileUnits(overscaling uint32) *Dash {
	return d.Scale(Extent / (TileSize * float64(max(overscaling, 1))))
}

// NormalizedOffset returns the offset wrapped into one pattern cycle.
func (d *Dash) NormalizedOffset() float64 {
	patternLen := d.PatternLength()
	if patternLen <= 0 {
		return 0
	}
	offset := math.Mod(d.Offset, patternLen)
	if offset < 0 {
		offset += patternLen
	}
	return offset
}
