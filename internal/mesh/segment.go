package mesh

// Segment is a contiguous draw range over the vertex and index stores.
// Indices stored in [IndexOffset, IndexOffset+IndexLength) are relative to
// VertexOffset.
type Segment struct {
	VertexOffset int
	VertexLength int
	IndexOffset  int
	IndexLength  int

	// FirstFeature and FeatureCount describe the span of source features
	// (in AddFeature order) with geometry in this segment.
	FirstFeature int
	FeatureCount int
}

func (s *Segment) addFeature(feature int) {
	if s.FeatureCount == 0 {
		s.FirstFeature = feature
		s.FeatureCount = 1
		return
	}
	if n := feature - s.FirstFeature + 1; n > s.FeatureCount {
		s.FeatureCount = n
	}
}

// SegmentVector is the ordered list of segments of one mesh.
type SegmentVector struct {
	segments []Segment
}

// Len returns the number of segments.
func (s *SegmentVector) Len() int {
	return len(s.segments)
}

// At returns the segment at index i.
func (s *SegmentVector) At(i int) Segment {
	return s.segments[i]
}

// All returns the backing slice. Callers must not modify it.
func (s *SegmentVector) All() []Segment {
	return s.segments
}

// fits reports whether count vertices starting at start can be appended
// to the segment.
func (s *Segment) fits(start, count int) bool {
	return s.VertexOffset+s.VertexLength == start && s.VertexLength+count <= MaxSegmentVertices
}

func (s *SegmentVector) open(vertexOffset, indexOffset int) *Segment {
	s.segments = append(s.segments, Segment{
		VertexOffset: vertexOffset,
		IndexOffset:  indexOffset,
	})
	return &s.segments[len(s.segments)-1]
}

// Commit appends the staged triangles of one line to indices.
//
// The line's vertices occupy [startVertex, startVertex+vertexCount) in the
// vertex store and triangles reference them with line-local indices. The
// triangles go into the last segment when it has room for vertexCount more
// vertices; otherwise a new segment starts at startVertex and indices are
// re-based from 0. A line that does not fit in a single segment is spread
// over several, each starting at the first vertex of the triangle that
// overflowed the previous one.
func (s *SegmentVector) Commit(indices *IndexVector, startVertex, vertexCount int, triangles []Triangle, feature int) {
	if vertexCount <= 0 {
		return
	}
	if vertexCount > MaxSegmentVertices {
		s.commitSplit(indices, startVertex, vertexCount, triangles, feature)
		return
	}

	var seg *Segment
	if n := len(s.segments); n > 0 && s.segments[n-1].fits(startVertex, vertexCount) {
		seg = &s.segments[n-1]
	} else {
		seg = s.open(startVertex, indices.Len())
	}

	base := seg.VertexLength
	for _, t := range triangles {
		indices.Append(uint16(base+t.A), uint16(base+t.B), uint16(base+t.C))
	}
	seg.VertexLength += vertexCount
	seg.IndexLength += len(triangles) * 3
	seg.addFeature(feature)
}

func (s *SegmentVector) commitSplit(indices *IndexVector, startVertex, vertexCount int, triangles []Triangle, feature int) {
	lo, hi := 0, 0
	seg := s.open(startVertex, indices.Len())
	seg.addFeature(feature)

	for _, t := range triangles {
		tlo, thi := t.minMax()
		if thi-lo >= MaxSegmentVertices {
			seg.VertexLength = hi - lo
			lo = tlo
			seg = s.open(startVertex+lo, indices.Len())
			seg.addFeature(feature)
		}
		indices.Append(uint16(t.A-lo), uint16(t.B-lo), uint16(t.C-lo))
		seg.IndexLength += 3
		hi = max(hi, thi+1)
	}

	if vertexCount-lo <= MaxSegmentVertices {
		seg.VertexLength = vertexCount - lo
		return
	}
	// Trailing vertices without triangles do not fit; leave an empty
	// segment so the next line starts contiguously.
	seg.VertexLength = hi - lo
	s.open(startVertex+vertexCount, indices.Len())
}
