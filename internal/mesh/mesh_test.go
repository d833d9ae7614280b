package mesh

import (
	"encoding/binary"
	"testing"
)

func TestVertexVector_Append(t *testing.T) {
	v := NewVertexVector[int]()
	for i := range 5 {
		if got := v.Append(i * 10); got != i {
			t.Errorf("Append() index = %d, want %d", got, i)
		}
	}
	if v.Len() != 5 {
		t.Errorf("Len() = %d, want 5", v.Len())
	}
	if v.At(3) != 30 {
		t.Errorf("At(3) = %d, want 30", v.At(3))
	}
}

func TestVertexVector_Bytes(t *testing.T) {
	v := NewVertexVector[uint16]()
	v.Append(0x0102)
	v.Append(0x0304)

	data := v.Bytes(2, func(dst []byte, e uint16) {
		binary.LittleEndian.PutUint16(dst, e)
	})
	want := []byte{0x02, 0x01, 0x04, 0x03}
	if len(data) != len(want) {
		t.Fatalf("len(Bytes()) = %d, want %d", len(data), len(want))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("Bytes()[%d] = %#x, want %#x", i, data[i], want[i])
		}
	}
}

func TestIndexVector_BytesPadded(t *testing.T) {
	tests := []struct {
		name      string
		triangles int
		wantSize  int
	}{
		{"empty", 0, 0},
		{"one", 1, 8},  // 6 bytes padded to 8
		{"two", 2, 12}, // 12 bytes already aligned
		{"three", 3, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewIndexVector()
			for i := range tt.triangles {
				v.Append(uint16(i), uint16(i+1), uint16(i+2))
			}
			if v.Triangles() != tt.triangles {
				t.Errorf("Triangles() = %d, want %d", v.Triangles(), tt.triangles)
			}
			if got := len(v.Bytes()); got != tt.wantSize {
				t.Errorf("len(Bytes()) = %d, want %d", got, tt.wantSize)
			}
		})
	}
}

func strip(n int) []Triangle {
	tris := make([]Triangle, 0, n)
	for i := range n {
		tris = append(tris, Triangle{i, i + 1, i + 2})
	}
	return tris
}

func TestSegmentVector_CommitSameSegment(t *testing.T) {
	var segs SegmentVector
	idx := NewIndexVector()

	segs.Commit(idx, 0, 4, strip(2), 0)
	segs.Commit(idx, 4, 4, strip(2), 1)

	if segs.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", segs.Len())
	}
	seg := segs.At(0)
	if seg.VertexLength != 8 || seg.IndexLength != 12 {
		t.Errorf("segment = %+v, want VertexLength 8, IndexLength 12", seg)
	}
	if seg.FirstFeature != 0 || seg.FeatureCount != 2 {
		t.Errorf("feature span = (%d, %d), want (0, 2)", seg.FirstFeature, seg.FeatureCount)
	}
	// Second line is re-based onto the first.
	if got := idx.Indices()[6]; got != 4 {
		t.Errorf("first index of second line = %d, want 4", got)
	}
}

func TestSegmentVector_CommitOpensSegmentAtCeiling(t *testing.T) {
	var segs SegmentVector
	idx := NewIndexVector()

	first := MaxSegmentVertices - 2
	segs.Commit(idx, 0, first, strip(first-2), 0)
	segs.Commit(idx, first, 2, []Triangle{{0, 1, 1}}, 1)
	if segs.Len() != 1 {
		t.Fatalf("Len() = %d after filling to the ceiling, want 1", segs.Len())
	}
	if got := segs.At(0).VertexLength; got != MaxSegmentVertices {
		t.Fatalf("VertexLength = %d, want %d", got, MaxSegmentVertices)
	}

	// Vertex 65537 must start a new segment.
	segs.Commit(idx, MaxSegmentVertices, 4, strip(2), 2)
	if segs.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", segs.Len())
	}
	seg := segs.At(1)
	if seg.VertexOffset != MaxSegmentVertices {
		t.Errorf("VertexOffset = %d, want %d", seg.VertexOffset, MaxSegmentVertices)
	}
	if seg.FirstFeature != 2 || seg.FeatureCount != 1 {
		t.Errorf("feature span = (%d, %d), want (2, 1)", seg.FirstFeature, seg.FeatureCount)
	}
	got := idx.Indices()[seg.IndexOffset : seg.IndexOffset+seg.IndexLength]
	want := []uint16{0, 1, 2, 1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("re-based index[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSegmentVector_CommitSplitsOversizedLine(t *testing.T) {
	var segs SegmentVector
	idx := NewIndexVector()

	n := MaxSegmentVertices*2 + 100
	tris := strip(n - 2)
	segs.Commit(idx, 10, n, tris, 0)

	if segs.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", segs.Len())
	}

	total := 0
	for i, seg := range segs.All() {
		if seg.VertexLength > MaxSegmentVertices {
			t.Errorf("segment %d VertexLength = %d exceeds %d", i, seg.VertexLength, MaxSegmentVertices)
		}
		for _, index := range idx.Indices()[seg.IndexOffset : seg.IndexOffset+seg.IndexLength] {
			if int(index) >= seg.VertexLength {
				t.Fatalf("segment %d index %d >= VertexLength %d", i, index, seg.VertexLength)
			}
		}
		total += seg.IndexLength
	}
	if total != len(tris)*3 {
		t.Errorf("committed %d indices, want %d (nothing truncated)", total, len(tris)*3)
	}
	last := segs.At(segs.Len() - 1)
	if last.VertexOffset+last.VertexLength != 10+n {
		t.Errorf("last segment ends at %d, want %d", last.VertexOffset+last.VertexLength, 10+n)
	}
}

func TestSegmentVector_CommitEmpty(t *testing.T) {
	var segs SegmentVector
	idx := NewIndexVector()
	segs.Commit(idx, 0, 0, nil, 0)
	if segs.Len() != 0 {
		t.Errorf("Len() = %d, want 0", segs.Len())
	}
}
