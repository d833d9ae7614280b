package linemesh

import (
	"math"
	"testing"
)

func TestNewDash(t *testing.T) {
	tests := []struct {
		name    string
		lengths []float64
		want    []float64
	}{
		{"empty", nil, nil},
		{"all zero", []float64{0, 0}, nil},
		{"simple", []float64{5, 3}, []float64{5, 3}},
		{"negative", []float64{-4, 2}, []float64{4, 2}},
		{"odd", []float64{5}, []float64{5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDash(tt.lengths...)
			if tt.want == nil {
				if d != nil {
					t.Fatalf("NewDash(%v) = %v, want nil", tt.lengths, d.Array)
				}
				return
			}
			if d == nil {
				t.Fatalf("NewDash(%v) = nil", tt.lengths)
			}
			for i := range tt.want {
				if d.Array[i] != tt.want[i] {
					t.Errorf("NewDash(%v).Array = %v, want %v", tt.lengths, d.Array, tt.want)
					break
				}
			}
		})
	}
}

func TestDash_PatternLength(t *testing.T) {
	tests := []struct {
		name string
		d    *Dash
		want float64
	}{
		{"nil", nil, 0},
		{"even", NewDash(5, 3), 8},
		{"odd duplicated", NewDash(5), 10},
		{"odd three", NewDash(1, 2, 3), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.PatternLength(); got != tt.want {
				t.Errorf("PatternLength() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDash_IsDashed(t *testing.T) {
	var d *Dash
	if d.IsDashed() {
		t.Error("nil Dash IsDashed() = true, want false")
	}
	if !NewDash(2, 1).IsDashed() {
		t.Error("NewDash(2, 1).IsDashed() = false, want true")
	}
}

func TestDash_TileUnits(t *testing.T) {
	d := NewDash(4, 2)

	exact := d.TileUnits(1)
	if got, want := exact.PatternLength(), 6.0*Extent/TileSize; got != want {
		t.Errorf("TileUnits(1).PatternLength() = %v, want %v", got, want)
	}

	over := d.TileUnits(2)
	if got, want := over.PatternLength(), exact.PatternLength()/2; got != want {
		t.Errorf("TileUnits(2).PatternLength() = %v, want %v", got, want)
	}

	if got := d.TileUnits(0).PatternLength(); got != exact.PatternLength() {
		t.Errorf("TileUnits(0).PatternLength() = %v, want %v", got, exact.PatternLength())
	}
}

func TestDash_NormalizedOffset(t *testing.T) {
	tests := []struct {
		offset, want float64
	}{
		{0, 0},
		{3, 3},
		{10, 2},
		{-2, 6},
	}
	for _, tt := range tests {
		d := &Dash{Array: []float64{5, 3}, Offset: tt.offset}
		if got := d.NormalizedOffset(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizedOffset(%v) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}
