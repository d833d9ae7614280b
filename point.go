package linemesh

import "math"

// Tile geometry constants.
const (
	// Extent is the number of tile-local units along one tile edge.
	Extent = 8192

	// TileSize is the size of a tile in pixels at its native zoom.
	TileSize = 512

	// MinCoordinate and MaxCoordinate bound the tile-local coordinates that
	// survive vertex packing (the position is stored doubled in an int16).
	MinCoordinate = math.MinInt16 / 2
	MaxCoordinate = math.MaxInt16 / 2
)

// GeometryCoordinate is a point in tile-local integer units.
type GeometryCoordinate struct {
	X, Y int16
}

// Pt is a convenience function to create a GeometryCoordinate.
func Pt(x, y int16) GeometryCoordinate {
	return GeometryCoordinate{X: x, Y: y}
}

// Sub returns the vector from q to p.
func (p GeometryCoordinate) Sub(q GeometryCoordinate) Vec2 {
	return Vec2{X: float64(p.X) - float64(q.X), Y: float64(p.Y) - float64(q.Y)}
}

// Offset returns p moved by v, rounded to the nearest tile unit.
func (p GeometryCoordinate) Offset(v Vec2) GeometryCoordinate {
	return GeometryCoordinate{
		X: clampCoordinate(float64(p.X) + math.Round(v.X)),
		Y: clampCoordinate(float64(p.Y) + math.Round(v.Y)),
	}
}

// packable reports whether p survives vertex packing unchanged.
func (p GeometryCoordinate) packable() bool {
	return p.X >= MinCoordinate && p.X <= MaxCoordinate &&
		p.Y >= MinCoordinate && p.Y <= MaxCoordinate
}

// Distance returns the euclidean distance between two coordinates.
func (p GeometryCoordinate) Distance(q GeometryCoordinate) float64 {
	return p.Sub(q).Length()
}

// clampCoordinate rounds v and clamps it to the packable coordinate range.
func clampCoordinate(v float64) int16 {
	v = math.Round(v)
	switch {
	case v < MinCoordinate:
		return MinCoordinate
	case v > MaxCoordinate:
		return MaxCoordinate
	default:
		return int16(v)
	}
}
