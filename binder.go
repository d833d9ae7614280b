package linemesh

import (
	"fmt"
	"math"
)

// Attribute identifies one paint attribute stream.
type Attribute int

// Paint attributes in binding order.
const (
	AttributeColor Attribute = iota
	AttributeOpacity
	AttributeWidth
	AttributeGapWidth
	AttributeOffset
	AttributeBlur
)

// AttributeCount is the number of paint attributes of a line layer.
const AttributeCount = 6

// String returns the attribute name used in shaders and logs.
func (a Attribute) String() string {
	switch a {
	case AttributeColor:
		return "color"
	case AttributeOpacity:
		return "opacity"
	case AttributeWidth:
		return "width"
	case AttributeGapWidth:
		return "gapwidth"
	case AttributeOffset:
		return "offset"
	case AttributeBlur:
		return "blur"
	default:
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
}

// Components returns the number of floats of one value: 2 for the packed
// color, 1 otherwise.
func (a Attribute) Components() int {
	if a == AttributeColor {
		return 2
	}
	return 1
}

// BinderKind tells how a binder provides its values to the shader.
type BinderKind int

const (
	// BinderConstant provides one value for all vertices.
	BinderConstant BinderKind = iota
	// BinderSource provides one value per vertex.
	BinderSource
	// BinderComposite provides two values per vertex, at the bucket zoom
	// and one level deeper.
	BinderComposite
)

// String returns the kind name.
func (k BinderKind) String() string {
	switch k {
	case BinderConstant:
		return "constant"
	case BinderSource:
		return "source"
	case BinderComposite:
		return "composite"
	default:
		return fmt.Sprintf("BinderKind(%d)", int(k))
	}
}

// Binder holds the values of one paint attribute for one layer.
//
// Data-driven binders keep a per-vertex stream that grows in lockstep with
// the bucket's vertices: the tessellator evaluates the property once per
// feature and repeats the value for every vertex of that feature.
type Binder struct {
	attr Attribute
	kind BinderKind
	zoom float32

	// eval writes the packed value(s) for a feature into dst, which has
	// Stride floats, and returns their magnitude.
	eval func(f Feature, dst []float32) float64

	constant []float32
	current  []float32
	data     []float32
	max      float64
}

func newBinder[T any](attr Attribute, p PropertyValue[T], zoom float32, pack func(T, []float32), magnitude func(T) float64) *Binder {
	comps := attr.Components()
	b := &Binder{attr: attr, zoom: zoom}

	if v, ok := p.ConstantValue(); ok {
		b.kind = BinderConstant
		b.constant = make([]float32, comps)
		pack(v, b.constant)
		b.max = magnitude(v)
		return b
	}

	b.kind = BinderSource
	if p.kind == propertyComposite {
		b.kind = BinderComposite
	}
	b.current = make([]float32, b.Stride())
	b.eval = func(f Feature, dst []float32) float64 {
		v := p.Evaluate(f, zoom)
		pack(v, dst[:comps])
		m := magnitude(v)
		if b.kind == BinderComposite {
			next := p.Evaluate(f, zoom+1)
			pack(next, dst[comps:])
			m = max(m, magnitude(next))
		}
		return m
	}
	return b
}

func packFloat(v float32, dst []float32) { dst[0] = v }

func floatMagnitude(v float32) float64 { return math.Abs(float64(v)) }

func packColorInto(c Color, dst []float32) {
	p := packColor(c)
	dst[0], dst[1] = p[0], p[1]
}

func colorMagnitude(Color) float64 { return 0 }

// Attribute returns the attribute the binder provides.
func (b *Binder) Attribute() Attribute { return b.attr }

// Kind returns how the binder provides its values.
func (b *Binder) Kind() BinderKind { return b.kind }

// IsDataDriven reports whether the binder keeps a per-vertex stream.
func (b *Binder) IsDataDriven() bool { return b.kind != BinderConstant }

// Stride returns the number of floats per vertex in Data, or per value in
// Constant for constant binders.
func (b *Binder) Stride() int {
	if b.kind == BinderComposite {
		return 2 * b.attr.Components()
	}
	return b.attr.Components()
}

// Constant returns the packed constant value. It is nil for data-driven
// binders.
func (b *Binder) Constant() []float32 { return b.constant }

// Data returns the per-vertex stream. It is empty for constant binders.
// Callers must not modify it.
func (b *Binder) Data() []float32 { return b.data }

// Len returns the number of vertices in the stream.
func (b *Binder) Len() int {
	if b.kind == BinderConstant {
		return 0
	}
	return len(b.data) / b.Stride()
}

// MaxValue returns the largest magnitude seen for the attribute: the
// constant itself, or the maximum over all features for data-driven
// binders. Colors report 0.
func (b *Binder) MaxValue() float64 { return b.max }

// Interpolation returns the factor between the two stored zoom levels
// of a composite binder at zoom. Other binders report 0.
func (b *Binder) Interpolation(zoom float32) float32 {
	if b.kind != BinderComposite {
		return 0
	}
	return max(0, min(1, zoom-b.zoom))
}

func (b *Binder) beginFeature(f Feature) {
	if b.eval == nil {
		return
	}
	b.max = max(b.max, b.eval(f, b.current))
}

func (b *Binder) vertexAppended() {
	if b.eval == nil {
		return
	}
	b.data = append(b.data, b.current...)
}

// Uniforms is the per-draw snapshot of a layer's paint state.
type Uniforms struct {
	// Constant holds the packed constant values. Entries of data-driven
	// attributes are zero.
	Constant [AttributeCount][2]float32

	// Interpolation holds the composite interpolation factors.
	Interpolation [AttributeCount]float32

	// Translate is the layer translation in pixels.
	Translate [2]float32
}

// BinderSet holds the binders of all paint attributes of one layer.
type BinderSet struct {
	layer       LineLayer
	binders     [AttributeCount]*Binder
	vertexCount int
}

// NewBinderSet creates the binders for layer at zoom.
func NewBinderSet(layer LineLayer, zoom float32) *BinderSet {
	p := layer.Paint
	s := &BinderSet{layer: layer}
	s.binders[AttributeColor] = newBinder(AttributeColor, p.Color, zoom, packColorInto, colorMagnitude)
	s.binders[AttributeOpacity] = newBinder(AttributeOpacity, p.Opacity, zoom, packFloat, floatMagnitude)
	s.binders[AttributeWidth] = newBinder(AttributeWidth, p.Width, zoom, packFloat, floatMagnitude)
	s.binders[AttributeGapWidth] = newBinder(AttributeGapWidth, p.GapWidth, zoom, packFloat, floatMagnitude)
	s.binders[AttributeOffset] = newBinder(AttributeOffset, p.Offset, zoom, packFloat, floatMagnitude)
	s.binders[AttributeBlur] = newBinder(AttributeBlur, p.Blur, zoom, packFloat, floatMagnitude)
	return s
}

// Layer returns the layer the set was created for.
func (s *BinderSet) Layer() LineLayer { return s.layer }

// Binder returns the binder of attr.
func (s *BinderSet) Binder(attr Attribute) *Binder { return s.binders[attr] }

// Binders returns all binders in attribute order.
func (s *BinderSet) Binders() []*Binder { return s.binders[:] }

// Len returns the number of vertices the set has seen.
func (s *BinderSet) Len() int { return s.vertexCount }

// BeginFeature evaluates the data-driven properties for f. Every vertex
// appended until the next call gets these values.
func (s *BinderSet) BeginFeature(f Feature) {
	for _, b := range s.binders {
		b.beginFeature(f)
	}
}

// VertexAppended extends every data-driven stream by one vertex.
func (s *BinderSet) VertexAppended() {
	for _, b := range s.binders {
		b.vertexAppended()
	}
	s.vertexCount++
}

// Key returns a value that identifies the shader variant for the set:
// two bits of BinderKind per attribute.
func (s *BinderSet) Key() uint32 {
	var key uint32
	for i, b := range s.binders {
		key |= uint32(b.kind) << (2 * i)
	}
	return key
}

// Uniforms returns the constant values and interpolation factors for
// drawing at zoom.
func (s *BinderSet) Uniforms(zoom float32) Uniforms {
	u := Uniforms{Translate: s.layer.Paint.Translate}
	for i, b := range s.binders {
		copy(u.Constant[i][:], b.constant)
		u.Interpolation[i] = b.Interpolation(zoom)
	}
	return u
}

// Registry maps layer IDs to their binder sets. The tessellator notifies
// it once per feature and once per appended vertex.
type Registry struct {
	sets  map[string]*BinderSet
	order []string
}

// NewRegistry creates binder sets for layers at zoom. A later layer with
// the same ID replaces an earlier one.
func NewRegistry(layers []LineLayer, zoom float32) *Registry {
	r := &Registry{sets: make(map[string]*BinderSet, len(layers))}
	for _, l := range layers {
		if _, ok := r.sets[l.ID]; !ok {
			r.order = append(r.order, l.ID)
		}
		r.sets[l.ID] = NewBinderSet(l, zoom)
	}
	return r
}

// Get returns the binder set of a layer.
func (r *Registry) Get(layerID string) (*BinderSet, bool) {
	s, ok := r.sets[layerID]
	return s, ok
}

// Layers returns the layer IDs in registration order.
func (r *Registry) Layers() []string { return r.order }

// BeginFeature forwards to every binder set.
func (r *Registry) BeginFeature(f Feature) {
	for _, id := range r.order {
		r.sets[id].BeginFeature(f)
	}
}

// VertexAppended forwards to every binder set.
func (r *Registry) VertexAppended() {
	for _, id := range r.order {
		r.sets[id].VertexAppended()
	}
}
