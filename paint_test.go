package linemesh

import (
	"testing"
)

func widthFeature(width float64) Feature {
	return NewFeature(FeatureTypeLineString,
		[][]GeometryCoordinate{{Pt(0, 0), Pt(100, 0)}},
		map[string]any{"width": width})
}

func propertyWidth(f Feature) float32 {
	v, ok := f.Value("width")
	if !ok {
		return 0
	}
	w, _ := v.(float64)
	return float32(w)
}

// TestPropertyValue tests evaluation of the three property kinds.
func TestPropertyValue(t *testing.T) {
	f := widthFeature(3)

	tests := []struct {
		name         string
		p            PropertyValue[float32]
		wantConstant bool
		want         float32
	}{
		{"zero value", PropertyValue[float32]{}, true, 0},
		{"constant", Constant[float32](2), true, 2},
		{"source", Source(propertyWidth), false, 3},
		{"composite", Composite(func(f Feature, zoom float32) float32 { return propertyWidth(f) * zoom }), false, 30},
		{"nil source", Source[float32](nil), true, 0},
		{"nil composite", Composite[float32](nil), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsConstant(); got != tt.wantConstant {
				t.Errorf("IsConstant() = %v, want %v", got, tt.wantConstant)
			}
			if got := tt.p.Evaluate(f, 10); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestConstantValue tests that only constant properties expose a value.
func TestConstantValue(t *testing.T) {
	if v, ok := Constant(Black).ConstantValue(); !ok || v != Black {
		t.Errorf("Constant(Black).ConstantValue() = %v, %v, want %v, true", v, ok, Black)
	}
	if _, ok := Source(propertyWidth).ConstantValue(); ok {
		t.Error("Source().ConstantValue() ok = true, want false")
	}
}

// TestDefaultLinePaint tests the default paint values.
func TestDefaultLinePaint(t *testing.T) {
	p := DefaultLinePaint()
	f := widthFeature(1)

	if c := p.Color.Evaluate(f, 0); c != Black {
		t.Errorf("Color = %v, want %v", c, Black)
	}
	if o := p.Opacity.Evaluate(f, 0); o != 1 {
		t.Errorf("Opacity = %v, want 1", o)
	}
	if w := p.Width.Evaluate(f, 0); w != 1 {
		t.Errorf("Width = %v, want 1", w)
	}
	for name, v := range map[string]PropertyValue[float32]{
		"GapWidth": p.GapWidth, "Offset": p.Offset, "Blur": p.Blur,
	} {
		if !v.IsConstant() || v.Evaluate(f, 0) != 0 {
			t.Errorf("%s = %v, want constant 0", name, v.Evaluate(f, 0))
		}
	}
	if len(p.DashArray) != 0 {
		t.Errorf("DashArray = %v, want solid", p.DashArray)
	}
}
