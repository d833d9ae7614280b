package linemesh

import (
	"log/slog"
	"math"

	"github.com/gogpu/linemesh/internal/mesh"
)

const (
	// roundCapSlices is the number of intermediate vertices of a round cap.
	roundCapSlices = 15

	// maxJoinSlices bounds the intermediate vertices of a round join.
	maxJoinSlices = 15

	// joinSliceAngle is the largest angle covered by one round join slice.
	joinSliceAngle = math.Pi / 16

	// bevelMiterLimit replaces the layout miter limit for bevel joins, so
	// that nearly straight corners are mitered instead.
	bevelMiterLimit = 1.05

	// sharpCornerPixels is the distance, in pixels, at which extra vertices
	// are inserted before and after a sharp corner.
	sharpCornerPixels = 15
)

// cosHalfSharpCorner is the cosine of half the smallest corner angle that
// is not considered sharp (75 degrees).
var cosHalfSharpCorner = math.Cos(75.0 / 2 * math.Pi / 180)

// effectiveJoin is the join that is actually emitted at one vertex.
type effectiveJoin int

const (
	joinMiter effectiveJoin = iota
	joinBevel
	joinFlipBevel
	joinRound
)

// tessellator turns one line at a time into vertices and line-local
// triangles.
//
// Vertices go straight into the shared vertex store, triangles are staged
// until the line is complete and then committed by the caller.
type tessellator struct {
	layout      Layout
	overscaling float64
	vertices    *mesh.VertexVector[LayoutVertex]
	log         *slog.Logger

	// onVertex is invoked after every appended vertex.
	onVertex func()

	// Per-line state, reset by begin.
	startVertex int
	window      [3]int
	triangles   []mesh.Triangle
}

func newTessellator(layout Layout, overscaling uint32, vertices *mesh.VertexVector[LayoutVertex], log *slog.Logger) *tessellator {
	return &tessellator{
		layout:      layout,
		overscaling: float64(max(overscaling, 1)),
		vertices:    vertices,
		log:         log,
	}
}

func (t *tessellator) begin() {
	t.startVertex = t.vertices.Len()
	t.window = [3]int{-1, -1, -1}
	t.triangles = t.triangles[:0]
}

// vertexCount returns the number of vertices appended for the current line.
func (t *tessellator) vertexCount() int {
	return t.vertices.Len() - t.startVertex
}

// addGeometry tessellates one line or polygon ring. It reports false when
// the ring was dropped as degenerate.
func (t *tessellator) addGeometry(coords []GeometryCoordinate, typ FeatureType) bool {
	t.begin()

	polygon := typ == FeatureTypePolygon
	minVertices := 2
	if polygon {
		minVertices = 3
	}

	if clamped, ok := clampRing(coords); ok {
		t.log.Debug("linemesh: clamp coordinates outside the packable range",
			"min", MinCoordinate, "max", MaxCoordinate, "points", len(coords))
		coords = clamped
	}

	first, n := 0, len(coords)
	for n > first+1 && coords[n-1] == coords[n-2] {
		n--
	}
	for first < n-1 && coords[first] == coords[first+1] {
		first++
	}
	if n-first < minVertices {
		t.log.Debug("linemesh: skip degenerate line", "type", typ, "points", len(coords))
		return false
	}
	coords = coords[first:n]
	if polygon && coords[0] != coords[len(coords)-1] {
		closed := make([]GeometryCoordinate, len(coords)+1)
		copy(closed, coords)
		closed[len(coords)] = coords[0]
		coords = closed
	}

	join := t.layout.Join
	miterLimit := t.layout.MiterLimit
	if join == LineJoinBevel {
		miterLimit = bevelMiterLimit
	}
	// Miter joins that fall back to bevels keep every joint vertex within
	// the miter limit. A plain pair already spans one half width.
	maxJoinExtrude := math.Inf(1)
	if join == LineJoinMiter {
		maxJoinExtrude = max(miterLimit, 1)
	}
	sharpCornerOffset := sharpCornerPixels * Extent / (TileSize * t.overscaling)

	beginCap := t.layout.Cap
	endCap := t.layout.Cap
	if polygon {
		endCap = LineCapButt
	}

	var (
		distance    float64
		startOfLine = true

		current, prev, next          GeometryCoordinate
		hasCurrent, hasPrev, hasNext bool
		prevNormal, nextNormal       Vec2
		hasPrevNormal, hasNextNormal bool
	)

	last := len(coords) - 1
	if polygon {
		current, hasCurrent = coords[last-1], true
		nextNormal, hasNextNormal = coords[0].Sub(current).Unit().Perp(), true
	}

	for i := 0; i <= last; i++ {
		switch {
		case polygon && i == last:
			// The closing vertex of a ring joins back into the first segment.
			next, hasNext = coords[1], true
		case i < last:
			next, hasNext = coords[i+1], true
		default:
			hasNext = false
		}

		if hasNext && coords[i] == next {
			continue
		}

		if hasNextNormal {
			prevNormal, hasPrevNormal = nextNormal, true
		}
		if hasCurrent {
			prev, hasPrev = current, true
		}
		current, hasCurrent = coords[i], true

		// Without a next vertex the line continues straight.
		if hasNext {
			nextNormal, hasNextNormal = next.Sub(current).Unit().Perp(), true
		} else {
			nextNormal = prevNormal
		}
		if !hasPrevNormal {
			prevNormal, hasPrevNormal = nextNormal, true
		}

		// Bisector of the two normals. Opposite normals cancel and leave a
		// zero join normal, which makes the miter length infinite.
		joinNormal := prevNormal.Add(nextNormal).Unit()
		cosHalfAngle := joinNormal.Dot(nextNormal)
		miterLength := math.Inf(1)
		if cosHalfAngle != 0 {
			miterLength = 1 / cosHalfAngle
		}

		sharpCorner := cosHalfAngle < cosHalfSharpCorner && hasPrev && hasNext

		if sharpCorner && i > 0 {
			prevLength := current.Distance(prev)
			if prevLength > 2*sharpCornerOffset {
				p := current.Offset(current.Sub(prev).Mul(-sharpCornerOffset / prevLength))
				distance += p.Distance(prev)
				t.addCurrentVertex(p, distance, prevNormal, 0, 0, false)
				prev = p
			}
		}

		middle := hasPrev && hasNext
		lineCap := beginCap
		if !hasNext {
			lineCap = endCap
		}
		var currentJoin effectiveJoin
		if middle {
			currentJoin = t.selectJoin(join, miterLength, miterLimit)
		}

		if hasPrev {
			distance += current.Distance(prev)
		}

		switch {
		case middle && currentJoin == joinMiter:
			t.addCurrentVertex(current, distance, joinNormal.Mul(miterLength), 0, 0, false)

		case middle && currentJoin == joinFlipBevel:
			if miterLength > 100 {
				// Nearly parallel reversal.
				joinNormal = nextNormal.Neg()
			} else {
				direction := 1.0
				if prevNormal.Cross(nextNormal) > 0 {
					direction = -1
				}
				bevelLength := miterLength * prevNormal.Add(nextNormal).Length() / prevNormal.Sub(nextNormal).Length()
				bevelLength = min(bevelLength, maxJoinExtrude)
				joinNormal = joinNormal.Perp().Mul(bevelLength * direction)
			}
			t.addCurrentVertex(current, distance, joinNormal, 0, 0, false)
			t.addCurrentVertex(current, distance, joinNormal.Neg(), 0, 0, false)

		case middle:
			lineTurnsLeft := prevNormal.Cross(nextNormal) > 0
			// The inner vertices sit on the miter point, which is
			// sqrt(m²-1) half widths along the line.
			offset := 0.0
			if miterLength <= 2 {
				m := min(miterLength, maxJoinExtrude)
				offset = -math.Sqrt(max(0, m*m-1))
			}
			var offsetA, offsetB float64
			if lineTurnsLeft {
				offsetA = offset
			} else {
				offsetB = offset
			}

			if !startOfLine {
				t.addCurrentVertex(current, distance, prevNormal, offsetA, offsetB, false)
				if currentJoin == joinRound {
					t.addRoundJoin(current, distance, prevNormal, nextNormal, lineTurnsLeft)
				}
			}
			if hasNext {
				t.addCurrentVertex(current, distance, nextNormal, -offsetA, -offsetB, false)
			}

		case lineCap == LineCapSquare:
			if !startOfLine {
				t.addCurrentVertex(current, distance, prevNormal, 1, 1, false)
			}
			if hasNext {
				t.addCurrentVertex(current, distance, nextNormal, -1, -1, false)
			}

		case lineCap == LineCapRound:
			if !startOfLine {
				t.addCurrentVertex(current, distance, prevNormal, 0, 0, false)
				t.addRoundCap(current, distance, prevNormal, false)
			}
			if hasNext {
				t.addCurrentVertex(current, distance, nextNormal, 0, 0, false)
				t.addRoundCap(current, distance, nextNormal, true)
			}

		default:
			if !startOfLine {
				t.addCurrentVertex(current, distance, prevNormal, 0, 0, false)
			}
			if hasNext {
				t.addCurrentVertex(current, distance, nextNormal, 0, 0, false)
			}
		}

		if sharpCorner && i < last {
			nextLength := current.Distance(next)
			if nextLength > 2*sharpCornerOffset {
				p := current.Offset(next.Sub(current).Mul(sharpCornerOffset / nextLength))
				distance += p.Distance(current)
				t.addCurrentVertex(p, distance, nextNormal, 0, 0, false)
				current = p
			}
		}

		startOfLine = false
	}

	if len(t.triangles) == 0 {
		t.log.Debug("linemesh: line produced no triangles", "type", typ, "points", len(coords))
	}
	return true
}

// selectJoin picks the join emitted at a middle vertex.
//
// Round joins below the round limit and bevels below the miter limit are
// mitered. Miters beyond the miter limit, or longer than a packed
// extrusion can hold, are beveled. Bevels with a miter longer than two half
// widths are flipped so the outer vertices stay close to the line.
func (t *tessellator) selectJoin(join LineJoin, miterLength, miterLimit float64) effectiveJoin {
	current := joinMiter
	switch join {
	case LineJoinBevel:
		current = joinBevel
	case LineJoinRound:
		if miterLength >= t.layout.RoundLimit {
			return joinRound
		}
	}

	if current == joinMiter && (miterLength > miterLimit || miterLength > maxExtrudeLength) {
		current = joinBevel
	}
	if current == joinBevel {
		switch {
		case miterLength < miterLimit && miterLength <= maxExtrudeLength:
			current = joinMiter
		case miterLength > 2:
			current = joinFlipBevel
		}
	}
	return current
}

// addCurrentVertex appends the vertex pair at point: one extruded along
// normal and one against it. endLeft and endRight push the respective
// vertex along the line (positive is forward), in half widths.
func (t *tessellator) addCurrentVertex(point GeometryCoordinate, distance float64, normal Vec2, endLeft, endRight float64, round bool) {
	extrude := normal
	if endLeft != 0 {
		extrude = extrude.Sub(normal.Perp().Mul(endLeft))
	}
	t.appendStrip(NewLayoutVertex(point, extrude, round, false, sign(endLeft), t.lineSoFar(distance)))

	extrude = normal.Neg()
	if endRight != 0 {
		extrude = extrude.Sub(normal.Perp().Mul(endRight))
	}
	t.appendStrip(NewLayoutVertex(point, extrude, round, true, -sign(endRight), t.lineSoFar(distance)))
}

// addPieSliceVertex appends one fan vertex. The fan stays anchored on the
// inner vertex of the window: the left one when the line turns left. Fan
// vertices lie on the outer edge, so they carry the up flag opposite to
// the anchor and the fragment distance reaches one half width there.
func (t *tessellator) addPieSliceVertex(point GeometryCoordinate, distance float64, extrude Vec2, lineTurnsLeft bool) {
	if lineTurnsLeft {
		extrude = extrude.Neg()
	}
	e3 := t.append(NewLayoutVertex(point, extrude, false, lineTurnsLeft, 0, t.lineSoFar(distance)))
	t.window[2] = e3
	if t.window[0] >= 0 && t.window[1] >= 0 {
		t.triangles = append(t.triangles, mesh.Triangle{A: t.window[0], B: t.window[1], C: e3})
	}
	if lineTurnsLeft {
		t.window[1] = e3
	} else {
		t.window[0] = e3
	}
}

// addRoundJoin fans the outer corner between the closing pair along
// prevNormal and the opening pair along nextNormal.
func (t *tessellator) addRoundJoin(point GeometryCoordinate, distance float64, prevNormal, nextNormal Vec2, lineTurnsLeft bool) {
	phi := prevNormal.Angle(nextNormal)
	if !lineTurnsLeft && phi > 0 {
		phi -= 2 * math.Pi
	}
	slices := joinSlices(phi)
	for k := 1; k <= slices; k++ {
		n := prevNormal.Rotate(phi * float64(k) / float64(slices+1))
		t.addPieSliceVertex(point, distance, n, lineTurnsLeft)
	}
}

// joinSlices returns the number of intermediate fan vertices for a turn of
// phi radians.
func joinSlices(phi float64) int {
	n := int(math.Ceil(math.Abs(phi)/joinSliceAngle)) - 1
	return max(1, min(maxJoinSlices, n))
}

// addRoundCap fans a half circle around point. The window must hold the
// pair just emitted along normal. An end cap bulges forward, a start cap
// backward; after a start cap the window is restored so the strip
// continues from the pair.
func (t *tessellator) addRoundCap(point GeometryCoordinate, distance float64, normal Vec2, start bool) {
	left, right := t.window[0], t.window[1]
	for k := 1; k <= roundCapSlices; k++ {
		n := normal.Rotate(-math.Pi * float64(k) / float64(roundCapSlices+1))
		t.addPieSliceVertex(point, distance, n, start)
	}
	if start {
		t.window[0], t.window[1] = left, right
	}
}

// appendStrip appends a vertex and emits the strip triangle closed by it.
func (t *tessellator) appendStrip(v LayoutVertex) {
	e3 := t.append(v)
	t.window[2] = e3
	if t.window[0] >= 0 && t.window[1] >= 0 {
		t.triangles = append(t.triangles, mesh.Triangle{A: t.window[0], B: t.window[1], C: e3})
	}
	t.window[0], t.window[1] = t.window[1], e3
}

// append stores v and returns its line-local index.
func (t *tessellator) append(v LayoutVertex) int {
	idx := t.vertices.Append(v) - t.startVertex
	if t.onVertex != nil {
		t.onVertex()
	}
	return idx
}

// lineSoFar converts a distance in tile units to pixels at the overscaled
// zoom.
func (t *tessellator) lineSoFar(distance float64) float64 {
	return distance * t.overscaling * TileSize / Extent
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// clampRing returns coords with every point clamped to the range that
// survives vertex packing. The second result reports whether any point was
// outside; coords itself is never modified.
func clampRing(coords []GeometryCoordinate) ([]GeometryCoordinate, bool) {
	for i, c := range coords {
		if c.packable() {
			continue
		}
		out := make([]GeometryCoordinate, len(coords))
		copy(out, coords[:i])
		for j := i; j < len(coords); j++ {
			out[j] = GeometryCoordinate{
				X: clampCoordinate(float64(coords[j].X)),
				Y: clampCoordinate(float64(coords[j].Y)),
			}
		}
		return out, true
	}
	return coords, false
}
