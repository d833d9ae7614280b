package linemesh

// propertyKind tells how a paint property is evaluated.
type propertyKind int

const (
	propertyConstant propertyKind = iota
	propertySource
	propertyComposite
)

// PropertyValue is an already-evaluated paint property: a constant, a
// function of the feature (source) or a function of the feature and the
// zoom (composite). The zero value is the constant zero value of T.
type PropertyValue[T any] struct {
	kind      propertyKind
	constant  T
	source    func(Feature) T
	composite func(Feature, float32) T
}

// Constant returns a property with the same value for every feature.
func Constant[T any](v T) PropertyValue[T] {
	return PropertyValue[T]{kind: propertyConstant, constant: v}
}

// Source returns a property evaluated per feature.
func Source[T any](fn func(Feature) T) PropertyValue[T] {
	if fn == nil {
		var zero T
		return Constant(zero)
	}
	return PropertyValue[T]{kind: propertySource, source: fn}
}

// Composite returns a property evaluated per feature and zoom. Buckets
// store the values at their zoom and one level deeper, and renderers
// interpolate between them.
func Composite[T any](fn func(f Feature, zoom float32) T) PropertyValue[T] {
	if fn == nil {
		var zero T
		return Constant(zero)
	}
	return PropertyValue[T]{kind: propertyComposite, composite: fn}
}

// IsConstant reports whether the property has the same value for every
// feature.
func (p PropertyValue[T]) IsConstant() bool {
	return p.kind == propertyConstant
}

// ConstantValue returns the constant value, if the property is constant.
func (p PropertyValue[T]) ConstantValue() (T, bool) {
	return p.constant, p.kind == propertyConstant
}

// Evaluate returns the value for f at zoom.
func (p PropertyValue[T]) Evaluate(f Feature, zoom float32) T {
	switch p.kind {
	case propertySource:
		return p.source(f)
	case propertyComposite:
		return p.composite(f, zoom)
	default:
		return p.constant
	}
}

// LinePaint holds the paint properties of a line layer.
type LinePaint struct {
	Color    PropertyValue[Color]
	Opacity  PropertyValue[float32]
	Width    PropertyValue[float32]
	GapWidth PropertyValue[float32]
	Offset   PropertyValue[float32]
	Blur     PropertyValue[float32]

	// Translate moves the whole layer, in pixels.
	Translate [2]float32

	// DashArray holds alternating dash and gap lengths in pixels.
	// Empty means a solid line.
	DashArray []float64
}

// DefaultLinePaint returns the default paint: an opaque black line one
// pixel wide.
func DefaultLinePaint() LinePaint {
	return LinePaint{
		Color:   Constant(Black),
		Opacity: Constant[float32](1),
		Width:   Constant[float32](1),
	}
}

// LineLayer is one style layer rendering a bucket.
type LineLayer struct {
	ID    string
	Paint LinePaint
}
