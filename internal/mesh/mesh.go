// Package mesh provides append-only storage for tessellated geometry that is
// drawn with 16-bit indices.
//
// Vertices and indices are plain slices that only grow. A SegmentVector
// partitions them into draw ranges: every segment addresses at most
// MaxSegmentVertices vertices, so indices inside a segment always fit in a
// uint16 and are relative to the segment's VertexOffset.
package mesh

import (
	"encoding/binary"
)

// MaxSegmentVertices is the number of vertices addressable by one segment
// with 16-bit indices (indices 0..65535).
const MaxSegmentVertices = 1 << 16

// initialCapacity is the starting capacity of vertex and index slices.
// Most tiles carry a few hundred line vertices per layer group.
const initialCapacity = 256

// Triangle is a triangle staged with line-local vertex indices.
// Indices are ints because a single line may produce more vertices than one
// segment can address; they are narrowed to uint16 on commit.
type Triangle struct {
	A, B, C int
}

func (t Triangle) minMax() (lo, hi int) {
	lo, hi = t.A, t.A
	for _, v := range [2]int{t.B, t.C} {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// VertexVector is an append-only list of vertices.
type VertexVector[T any] struct {
	elements []T
}

// NewVertexVector creates an empty vertex vector.
func NewVertexVector[T any]() *VertexVector[T] {
	return &VertexVector[T]{elements: make([]T, 0, initialCapacity)}
}

// Append adds a vertex and returns its index.
func (v *VertexVector[T]) Append(e T) int {
	v.elements = append(v.elements, e)
	return len(v.elements) - 1
}

// Len returns the number of vertices.
func (v *VertexVector[T]) Len() int {
	return len(v.elements)
}

// At returns the vertex at index i.
func (v *VertexVector[T]) At(i int) T {
	return v.elements[i]
}

// Elements returns the backing slice. Callers must not modify it.
func (v *VertexVector[T]) Elements() []T {
	return v.elements
}

// Bytes encodes all vertices into a tightly packed byte slice using encode,
// which writes exactly stride bytes for one vertex.
func (v *VertexVector[T]) Bytes(stride int, encode func(dst []byte, e T)) []byte {
	data := make([]byte, len(v.elements)*stride)
	for i, e := range v.elements {
		encode(data[i*stride:(i+1)*stride], e)
	}
	return data
}

// IndexVector is an append-only list of triangle indices.
type IndexVector struct {
	indices []uint16
}

// NewIndexVector creates an empty index vector.
func NewIndexVector() *IndexVector {
	return &IndexVector{indices: make([]uint16, 0, initialCapacity*3)}
}

// Append adds one triangle.
func (v *IndexVector) Append(a, b, c uint16) {
	v.indices = append(v.indices, a, b, c)
}

// Len returns the number of indices (three per triangle).
func (v *IndexVector) Len() int {
	return len(v.indices)
}

// Triangles returns the number of triangles.
func (v *IndexVector) Triangles() int {
	return len(v.indices) / 3
}

// Indices returns the backing slice. Callers must not modify it.
func (v *IndexVector) Indices() []uint16 {
	return v.indices
}

// Bytes encodes the indices as little-endian uint16 values. The result is
// padded to a multiple of 4 bytes, as required for buffer writes.
func (v *IndexVector) Bytes() []byte {
	size := len(v.indices) * 2
	size = (size + 3) &^ 3
	data := make([]byte, size)
	for i, idx := range v.indices {
		binary.LittleEndian.PutUint16(data[i*2:], idx)
	}
	return data
}
