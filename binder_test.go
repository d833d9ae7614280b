package linemesh

import (
	"testing"
)

func TestBinderKinds(t *testing.T) {
	paint := DefaultLinePaint()
	paint.Width = Source(propertyWidth)
	paint.Opacity = Composite(func(_ Feature, zoom float32) float32 { return zoom / 20 })
	set := NewBinderSet(LineLayer{ID: "roads", Paint: paint}, 10)

	tests := []struct {
		attr       Attribute
		kind       BinderKind
		stride     int
		dataDriven bool
	}{
		{AttributeColor, BinderConstant, 2, false},
		{AttributeOpacity, BinderComposite, 2, true},
		{AttributeWidth, BinderSource, 1, true},
		{AttributeGapWidth, BinderConstant, 1, false},
		{AttributeOffset, BinderConstant, 1, false},
		{AttributeBlur, BinderConstant, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.attr.String(), func(t *testing.T) {
			b := set.Binder(tt.attr)
			if b.Attribute() != tt.attr {
				t.Errorf("Attribute() = %v, want %v", b.Attribute(), tt.attr)
			}
			if b.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", b.Kind(), tt.kind)
			}
			if b.Stride() != tt.stride {
				t.Errorf("Stride() = %d, want %d", b.Stride(), tt.stride)
			}
			if b.IsDataDriven() != tt.dataDriven {
				t.Errorf("IsDataDriven() = %v, want %v", b.IsDataDriven(), tt.dataDriven)
			}
		})
	}

	// color constant, opacity composite, width source, rest constant.
	want := uint32(BinderComposite)<<2 | uint32(BinderSource)<<4
	if got := set.Key(); got != want {
		t.Errorf("Key() = %#x, want %#x", got, want)
	}
}

func TestBinderStreams(t *testing.T) {
	paint := DefaultLinePaint()
	paint.Width = Source(propertyWidth)
	paint.Opacity = Composite(func(_ Feature, zoom float32) float32 { return zoom / 20 })
	set := NewBinderSet(LineLayer{ID: "roads", Paint: paint}, 10)

	for _, f := range []struct {
		width    float64
		vertices int
	}{{2, 4}, {6, 3}} {
		set.BeginFeature(widthFeature(f.width))
		for range f.vertices {
			set.VertexAppended()
		}
	}

	if set.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", set.Len())
	}

	width := set.Binder(AttributeWidth)
	if width.Len() != 7 {
		t.Errorf("width Len() = %d, want 7", width.Len())
	}
	wantWidth := []float32{2, 2, 2, 2, 6, 6, 6}
	for i, w := range width.Data() {
		if w != wantWidth[i] {
			t.Errorf("width[%d] = %v, want %v", i, w, wantWidth[i])
		}
	}
	if width.MaxValue() != 6 {
		t.Errorf("width MaxValue() = %v, want 6", width.MaxValue())
	}

	opacity := set.Binder(AttributeOpacity)
	if opacity.Len() != 7 || len(opacity.Data()) != 14 {
		t.Fatalf("opacity Len() = %d, data = %d, want 7, 14", opacity.Len(), len(opacity.Data()))
	}
	if d := opacity.Data(); d[0] != 0.5 || d[1] != 0.55 {
		t.Errorf("opacity pair = %v, %v, want 0.5, 0.55", d[0], d[1])
	}

	color := set.Binder(AttributeColor)
	if color.Len() != 0 || len(color.Data()) != 0 {
		t.Errorf("constant color has a stream of %d values", len(color.Data()))
	}
}

func TestBinderInterpolation(t *testing.T) {
	paint := DefaultLinePaint()
	paint.Width = Composite(func(_ Feature, zoom float32) float32 { return zoom })
	set := NewBinderSet(LineLayer{ID: "roads", Paint: paint}, 10)
	width := set.Binder(AttributeWidth)

	tests := []struct {
		zoom float32
		want float32
	}{
		{9, 0},
		{10, 0},
		{10.25, 0.25},
		{11, 1},
		{14, 1},
	}
	for _, tt := range tests {
		if got := width.Interpolation(tt.zoom); got != tt.want {
			t.Errorf("Interpolation(%v) = %v, want %v", tt.zoom, got, tt.want)
		}
	}

	if got := set.Binder(AttributeOpacity).Interpolation(10.5); got != 0 {
		t.Errorf("constant Interpolation() = %v, want 0", got)
	}

	u := set.Uniforms(10.5)
	if u.Interpolation[AttributeWidth] != 0.5 {
		t.Errorf("Uniforms().Interpolation[width] = %v, want 0.5", u.Interpolation[AttributeWidth])
	}
	if u.Constant[AttributeOpacity][0] != 1 {
		t.Errorf("Uniforms().Constant[opacity] = %v, want 1", u.Constant[AttributeOpacity][0])
	}
	if u.Constant[AttributeWidth] != [2]float32{} {
		t.Errorf("Uniforms().Constant[width] = %v, want zero", u.Constant[AttributeWidth])
	}
}

func TestBinderConstantColor(t *testing.T) {
	paint := DefaultLinePaint()
	paint.Color = Constant(RGB(1, 0, 0))
	set := NewBinderSet(LineLayer{ID: "roads", Paint: paint}, 0)

	got := set.Binder(AttributeColor).Constant()
	want := []float32{255 * 256, 255}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("color Constant() = %v, want %v", got, want)
	}
}

func TestRegistry(t *testing.T) {
	a := LineLayer{ID: "a", Paint: DefaultLinePaint()}
	b := LineLayer{ID: "b", Paint: DefaultLinePaint()}
	wide := a
	wide.Paint.Width = Constant[float32](8)

	r := NewRegistry([]LineLayer{a, b, wide}, 0)

	if got := r.Layers(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Layers() = %v, want [a b]", got)
	}
	set, ok := r.Get("a")
	if !ok {
		t.Fatal("Get(a) not found")
	}
	if w := set.Binder(AttributeWidth).MaxValue(); w != 8 {
		t.Errorf("layer a width = %v, want 8 (later layer replaces earlier)", w)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}

	r.BeginFeature(widthFeature(1))
	r.VertexAppended()
	r.VertexAppended()
	for _, id := range r.Layers() {
		s, _ := r.Get(id)
		if s.Len() != 2 {
			t.Errorf("layer %s Len() = %d, want 2", id, s.Len())
		}
	}
}

func TestAttributeString(t *testing.T) {
	tests := []struct {
		a    Attribute
		want string
	}{
		{AttributeColor, "color"},
		{AttributeGapWidth, "gapwidth"},
		{AttributeBlur, "blur"},
		{Attribute(42), "Attribute(42)"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("Attribute(%d).String() = %q, want %q", int(tt.a), got, tt.want)
		}
	}
}
