package linemesh

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/linemesh/internal/mesh"
	"github.com/gogpu/linemesh/render"
)

// Segment is a draw range of a bucket. Indices in a segment are relative
// to its VertexOffset.
type Segment = mesh.Segment

// MaxSegmentVertices is the number of vertices one segment can address
// with 16-bit indices.
const MaxSegmentVertices = mesh.MaxSegmentVertices

// Stats summarizes the contents of a bucket.
type Stats struct {
	Features  int
	Lines     int
	Vertices  int
	Triangles int
	Segments  int
	Layers    int
}

// layerBuffers holds the uploaded paint attribute buffers of one layer.
type layerBuffers struct {
	binders    *BinderSet
	attributes []hal.Buffer
}

// Bucket holds the tessellated lines of one tile for a group of layers
// that share the same layout.
//
// A bucket is built by one goroutine through AddFeature and then handed
// over to the render goroutine, which calls Upload once and Render once
// per layer per frame. A Bucket is not safe for concurrent use.
type Bucket struct {
	layout      Layout
	overscaling uint32
	zoom        float32
	log         *slog.Logger

	vertices *mesh.VertexVector[LayoutVertex]
	indices  *mesh.IndexVector
	segments mesh.SegmentVector
	binders  *Registry
	tess     *tessellator

	features int
	lines    int

	dev          *render.Device
	uploaded     bool
	destroyed    bool
	vertexBuffer hal.Buffer
	indexBuffer  hal.Buffer
	layers       map[string]*layerBuffers
}

// NewBucket creates an empty bucket for layout. Out-of-range layout
// fields fall back to their defaults.
func NewBucket(layout Layout, opts ...BucketOption) *Bucket {
	o := defaultBucketOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}
	if err := layout.Validate(); err != nil {
		log.Warn("linemesh: invalid layout, using defaults for invalid fields", "err", err)
		layout = layout.normalized()
	}

	b := &Bucket{
		layout:      layout,
		overscaling: o.overscaling,
		zoom:        o.zoom,
		log:         log,
		vertices:    mesh.NewVertexVector[LayoutVertex](),
		indices:     mesh.NewIndexVector(),
		binders:     NewRegistry(o.layers, o.zoom),
	}
	b.tess = newTessellator(layout, o.overscaling, b.vertices, log)
	b.tess.onVertex = b.binders.VertexAppended
	return b
}

// Layout returns the layout snapshot of the bucket.
func (b *Bucket) Layout() Layout { return b.layout }

// Overscaling returns the overscaling factor of the bucket.
func (b *Bucket) Overscaling() uint32 { return b.overscaling }

// Zoom returns the zoom the bucket's paint values were evaluated at.
func (b *Bucket) Zoom() float32 { return b.zoom }

// AddFeature tessellates every ring of f. Lines with fewer than two
// distinct points, polygon rings with fewer than three, and features that
// are neither lines nor polygons are skipped.
func (b *Bucket) AddFeature(f Feature) {
	if f == nil {
		return
	}
	if b.uploaded || b.destroyed {
		b.log.Warn("linemesh: feature added after upload is ignored")
		return
	}
	typ := f.Type()
	if typ != FeatureTypeLineString && typ != FeatureTypePolygon {
		b.log.Debug("linemesh: skip feature", "type", typ)
		return
	}

	feature := b.features
	b.features++
	b.binders.BeginFeature(f)

	for _, ring := range f.Geometry() {
		if !b.tess.addGeometry(ring, typ) {
			continue
		}
		count := b.tess.vertexCount()
		if count > MaxSegmentVertices {
			b.log.Debug("linemesh: line spans several segments", "vertices", count)
		}
		b.segments.Commit(b.indices, b.tess.startVertex, count, b.tess.triangles, feature)
		b.lines++
	}
}

// HasData reports whether any vertex was produced.
func (b *Bucket) HasData() bool {
	return b.vertices.Len() > 0
}

// Vertices returns the vertex store. Callers must not modify it.
func (b *Bucket) Vertices() []LayoutVertex { return b.vertices.Elements() }

// Indices returns the index store. Callers must not modify it.
func (b *Bucket) Indices() []uint16 { return b.indices.Indices() }

// Segments returns the draw ranges. Callers must not modify them.
func (b *Bucket) Segments() []Segment { return b.segments.All() }

// Binders returns the paint binders of a layer.
func (b *Bucket) Binders(layerID string) (*BinderSet, bool) {
	return b.binders.Get(layerID)
}

// Stats returns counts describing the bucket.
func (b *Bucket) Stats() Stats {
	return Stats{
		Features:  b.features,
		Lines:     b.lines,
		Vertices:  b.vertices.Len(),
		Triangles: b.indices.Triangles(),
		Segments:  b.segments.Len(),
		Layers:    len(b.binders.Layers()),
	}
}

// QueryRadius returns how far, in pixels, a query point may be from the
// line center and still hit a feature of the layer. Data-driven widths
// and offsets use the largest value in the bucket.
func (b *Bucket) QueryRadius(layerID string) float64 {
	set, ok := b.binders.Get(layerID)
	if !ok {
		return 0
	}
	width := set.Binder(AttributeWidth).MaxValue() * b.layout.WidthScale
	gapWidth := set.Binder(AttributeGapWidth).MaxValue()
	offset := set.Binder(AttributeOffset).MaxValue()
	translate := set.Layer().Paint.Translate

	return lineWidth(width, gapWidth)/2 + math.Abs(offset) +
		math.Hypot(float64(translate[0]), float64(translate[1]))
}

func lineWidth(width, gapWidth float64) float64 {
	if gapWidth > 0 {
		return gapWidth + 2*width
	}
	return width
}

// DashRepeat returns the repeat distance, in tile units, of the layer's
// dash pattern at the bucket's overscaling. It is 0 for solid lines.
func (b *Bucket) DashRepeat(layerID string) float64 {
	set, ok := b.binders.Get(layerID)
	if !ok {
		return 0
	}
	return NewDash(set.Layer().Paint.DashArray...).TileUnits(b.overscaling).PatternLength()
}

// Upload creates the GPU buffers of the bucket. Calling it again is a
// no-op.
func (b *Bucket) Upload(dev *render.Device) error {
	if b.destroyed {
		return ErrDestroyed
	}
	if b.uploaded {
		return nil
	}
	if dev == nil || dev.Device == nil || dev.Queue == nil {
		return ErrNilDevice
	}
	b.dev = dev

	var err error
	b.vertexBuffer, err = dev.CreateBuffer("line_vertices",
		b.vertices.Bytes(LayoutVertexStride, EncodeLayoutVertex), gputypes.BufferUsageVertex)
	if err != nil {
		b.release()
		return fmt.Errorf("upload line bucket: %w", err)
	}
	b.indexBuffer, err = dev.CreateBuffer("line_indices", b.indices.Bytes(), gputypes.BufferUsageIndex)
	if err != nil {
		b.release()
		return fmt.Errorf("upload line bucket: %w", err)
	}

	b.layers = make(map[string]*layerBuffers, len(b.binders.Layers()))
	for _, id := range b.binders.Layers() {
		set, _ := b.binders.Get(id)
		lb := &layerBuffers{binders: set}
		b.layers[id] = lb
		for _, binder := range set.Binders() {
			label := "line_" + binder.Attribute().String()
			buf, err := dev.CreateBuffer(label, binderBytes(binder), gputypes.BufferUsageVertex)
			if err != nil {
				b.release()
				return fmt.Errorf("upload layer %q: %w", id, err)
			}
			lb.attributes = append(lb.attributes, buf)
		}
	}

	b.uploaded = true
	b.log.Debug("linemesh: bucket uploaded",
		"vertices", b.vertices.Len(),
		"indices", b.indices.Len(),
		"segments", b.segments.Len(),
		"layers", len(b.layers))
	return nil
}

// binderBytes encodes the constant value or the per-vertex stream of a
// binder as little-endian floats.
func binderBytes(b *Binder) []byte {
	values := b.Data()
	if !b.IsDataDriven() {
		values = b.Constant()
	}
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(v))
	}
	return data
}

// Render draws the bucket for one layer: it binds program and issues one
// indexed draw per non-empty segment.
func (b *Bucket) Render(pass hal.RenderPassEncoder, program Program, layerID string, params RenderParams) error {
	if b.destroyed {
		return ErrDestroyed
	}
	if !b.uploaded {
		return ErrNotUploaded
	}
	if program == nil {
		return ErrNilProgram
	}
	layer, ok := b.layers[layerID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, layerID)
	}

	if err := program.Bind(pass, layer.binders, params); err != nil {
		return fmt.Errorf("bind layer %q: %w", layerID, err)
	}
	pass.SetVertexBuffer(0, b.vertexBuffer, 0)
	for i, buf := range layer.attributes {
		pass.SetVertexBuffer(uint32(1+i), buf, 0)
	}
	pass.SetIndexBuffer(b.indexBuffer, gputypes.IndexFormatUint16, 0)

	for _, seg := range b.segments.All() {
		if seg.IndexLength == 0 {
			continue
		}
		pass.DrawIndexed(uint32(seg.IndexLength), 1, uint32(seg.IndexOffset), int32(seg.VertexOffset), 0)
	}
	return nil
}

// Destroy releases the GPU buffers. It is safe to call more than once.
func (b *Bucket) Destroy() {
	if b.destroyed {
		return
	}
	b.release()
	b.destroyed = true
}

func (b *Bucket) release() {
	if b.dev == nil {
		return
	}
	b.dev.DestroyBuffer(b.vertexBuffer)
	b.dev.DestroyBuffer(b.indexBuffer)
	for _, lb := range b.layers {
		for _, buf := range lb.attributes {
			b.dev.DestroyBuffer(buf)
		}
	}
	b.vertexBuffer = nil
	b.indexBuffer = nil
	b.layers = nil
	b.uploaded = false
}
