package linemesh

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/maptile"
)

// FeatureType is the geometry type of a vector tile feature.
type FeatureType int

const (
	// FeatureTypeUnknown is a feature without a usable geometry type.
	FeatureTypeUnknown FeatureType = iota
	// FeatureTypePoint is a point feature. Points produce no line geometry.
	FeatureTypePoint
	// FeatureTypeLineString is a polyline feature.
	FeatureTypeLineString
	// FeatureTypePolygon is a polygon feature. Its rings are stroked as
	// closed lines.
	FeatureTypePolygon
)

// String returns the vector tile name of the type.
func (t FeatureType) String() string {
	switch t {
	case FeatureTypePoint:
		return "Point"
	case FeatureTypeLineString:
		return "LineString"
	case FeatureTypePolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Feature is a decoded vector tile feature.
type Feature interface {
	// Type returns the geometry type.
	Type() FeatureType

	// Geometry returns the feature's rings in tile coordinates.
	Geometry() [][]GeometryCoordinate

	// Value returns the property stored under key.
	Value(key string) (any, bool)
}

type feature struct {
	typ   FeatureType
	rings [][]GeometryCoordinate
	props map[string]any
}

// NewFeature creates a feature from already decoded rings.
// props may be nil.
func NewFeature(t FeatureType, rings [][]GeometryCoordinate, props map[string]any) Feature {
	return &feature{typ: t, rings: rings, props: props}
}

func (f *feature) Type() FeatureType                { return f.typ }
func (f *feature) Geometry() [][]GeometryCoordinate { return f.rings }

func (f *feature) Value(key string) (any, bool) {
	v, ok := f.props[key]
	return v, ok
}

// FeatureOption configures FromOrb.
type FeatureOption func(*featureOptions)

type featureOptions struct {
	clip   bool
	buffer float64
}

// WithClipBuffer clips the geometry to the tile extent grown by buffer
// tile units on every side before conversion.
func WithClipBuffer(buffer float64) FeatureOption {
	return func(o *featureOptions) {
		o.clip = true
		o.buffer = buffer
	}
}

// FromOrb converts an orb geometry in tile coordinates into a Feature.
//
// Line strings and multi line strings become LineString features. Rings,
// polygons and multi polygons become Polygon features whose rings are all
// stroked. A collection takes the type of its first line-like member and
// keeps only members of that kind. Coordinates are rounded to the nearest
// tile unit and clamped to the packable range.
func FromOrb(g orb.Geometry, props map[string]any, opts ...FeatureOption) Feature {
	var o featureOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.clip && g != nil {
		b := orb.Bound{
			Min: orb.Point{-o.buffer, -o.buffer},
			Max: orb.Point{Extent + o.buffer, Extent + o.buffer},
		}
		g = clip.Geometry(b, g)
	}

	f := &feature{props: props}
	f.typ, f.rings = convertGeometry(g, nil)
	return f
}

func convertGeometry(g orb.Geometry, rings [][]GeometryCoordinate) (FeatureType, [][]GeometryCoordinate) {
	switch g := g.(type) {
	case orb.Point:
		return FeatureTypePoint, append(rings, convertPoints([]orb.Point{g}))
	case orb.MultiPoint:
		return FeatureTypePoint, append(rings, convertPoints(g))
	case orb.LineString:
		return FeatureTypeLineString, append(rings, convertPoints(g))
	case orb.MultiLineString:
		for _, ls := range g {
			rings = append(rings, convertPoints(ls))
		}
		return FeatureTypeLineString, rings
	case orb.Ring:
		return FeatureTypePolygon, append(rings, convertPoints(g))
	case orb.Polygon:
		for _, r := range g {
			rings = append(rings, convertPoints(r))
		}
		return FeatureTypePolygon, rings
	case orb.MultiPolygon:
		for _, p := range g {
			for _, r := range p {
				rings = append(rings, convertPoints(r))
			}
		}
		return FeatureTypePolygon, rings
	case orb.Collection:
		typ := FeatureTypeUnknown
		for _, member := range g {
			mt, mr := convertGeometry(member, nil)
			if mt != FeatureTypeLineString && mt != FeatureTypePolygon {
				continue
			}
			if typ == FeatureTypeUnknown {
				typ = mt
			}
			if mt == typ {
				rings = append(rings, mr...)
			}
		}
		return typ, rings
	default:
		return FeatureTypeUnknown, rings
	}
}

func convertPoints(points []orb.Point) []GeometryCoordinate {
	ring := make([]GeometryCoordinate, len(points))
	for i, p := range points {
		ring[i] = GeometryCoordinate{
			X: clampCoordinate(math.Round(p.X())),
			Y: clampCoordinate(math.Round(p.Y())),
		}
	}
	return ring
}

// Overscaling returns the overscaling factor of tile when displayed at
// zoom: 2^(zoom-tile.Z) when zoom is deeper than the tile, 1 otherwise.
func Overscaling(tile maptile.Tile, zoom maptile.Zoom) uint32 {
	if zoom <= tile.Z {
		return 1
	}
	d := zoom - tile.Z
	if d > 31 {
		d = 31
	}
	return 1 << uint32(d)
}
