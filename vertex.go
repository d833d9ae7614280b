package linemesh

import (
	"encoding/binary"
	"math"
)

// ExtrudeScale is the fixed-point scale of extrusion vectors: a unit
// extrusion (one half width) is stored as 63.
const ExtrudeScale = 63

// maxExtrudeLength is the longest extrusion, in half widths, that survives
// packing into an unsigned byte biased by 128.
const maxExtrudeLength = 127.0 / ExtrudeScale

// LayoutVertexStride is the byte size of one packed LayoutVertex.
//
//	position  (sint16x2) = 4 bytes (location 0)
//	data      (uint8x4)  = 4 bytes (location 1)
//	linesofar (f32)      = 4 bytes (location 2)
const LayoutVertexStride = 12

// LayoutVertex is one packed line vertex.
type LayoutVertex struct {
	// Pos holds x*2|round and y*2|up. Up vertices are extruded against
	// the segment normal.
	Pos [2]int16

	// Data holds the biased extrusion (x, y), the direction+1 and a
	// reserved zero byte.
	Data [4]uint8

	// LineSoFar is the distance along the line in pixels at the bucket's
	// overscaled zoom.
	LineSoFar float32
}

// NewLayoutVertex packs a vertex.
//
// e is the extrusion in half widths. round sets the x component of the
// shader normal; joins and caps are built from fans and leave it unset. up
// sets the sign of the y component: pair vertices extruded against the
// segment normal set it, and fan vertices take the side opposite to their
// anchor. dir is the direction (-1, 0 or 1) the vertex was pushed along
// the line by a cap or bevel.
func NewLayoutVertex(p GeometryCoordinate, e Vec2, round, up bool, dir int, lineSoFar float64) LayoutVertex {
	var v LayoutVertex
	v.Pos[0] = p.X * 2
	v.Pos[1] = p.Y * 2
	if round {
		v.Pos[0] |= 1
	}
	if up {
		v.Pos[1] |= 1
	}
	v.Data[0] = packExtrude(e.X)
	v.Data[1] = packExtrude(e.Y)
	switch {
	case dir < 0:
		v.Data[2] = 0
	case dir > 0:
		v.Data[2] = 2
	default:
		v.Data[2] = 1
	}
	v.LineSoFar = float32(lineSoFar)
	return v
}

func packExtrude(c float64) uint8 {
	s := math.Round(ExtrudeScale*c) + 128
	return uint8(max(0, min(255, s)))
}

// Point returns the tile coordinate of the vertex.
func (v LayoutVertex) Point() GeometryCoordinate {
	return GeometryCoordinate{X: v.Pos[0] >> 1, Y: v.Pos[1] >> 1}
}

// Round reports whether the round bit of the vertex is set.
func (v LayoutVertex) Round() bool {
	return v.Pos[0]&1 != 0
}

// Up reports whether the vertex is extruded against the segment normal.
func (v LayoutVertex) Up() bool {
	return v.Pos[1]&1 != 0
}

// Extrude returns the unpacked extrusion in half widths.
func (v LayoutVertex) Extrude() Vec2 {
	return Vec2{
		X: (float64(v.Data[0]) - 128) / ExtrudeScale,
		Y: (float64(v.Data[1]) - 128) / ExtrudeScale,
	}
}

// Direction returns the direction value (-1, 0 or 1).
func (v LayoutVertex) Direction() int {
	return int(v.Data[2]) - 1
}

// EncodeLayoutVertex writes v into dst using little-endian byte order.
// dst must be at least LayoutVertexStride bytes long.
func EncodeLayoutVertex(dst []byte, v LayoutVertex) {
	binary.LittleEndian.PutUint16(dst[0:], uint16(v.Pos[0]))
	binary.LittleEndian.PutUint16(dst[2:], uint16(v.Pos[1]))
	copy(dst[4:8], v.Data[:])
	binary.LittleEndian.PutUint32(dst[8:], math.Float32bits(v.LineSoFar))
}
