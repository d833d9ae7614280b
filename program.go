package linemesh

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/linemesh/internal/gpu"
	"github.com/gogpu/linemesh/render"
)

// RenderParams is the per-draw state a Program needs besides the paint
// binders.
type RenderParams struct {
	// Matrix maps tile units to clip space (column-major).
	Matrix [16]float32

	// Zoom is the current (fractional) zoom, used to interpolate
	// composite paint values.
	Zoom float32

	// PixelsToTileUnits is the number of tile units per pixel at Zoom.
	// Zero means Extent/TileSize (the tile's native zoom).
	PixelsToTileUnits float32

	// DevicePixelRatio is the ratio of device pixels to CSS pixels.
	// Zero means 1.
	DevicePixelRatio float32

	// UnitsToPixels converts tile units to screen pixels along x and y.
	UnitsToPixels [2]float32
}

// Program binds the pipeline and per-draw state for one layer.
type Program interface {
	Bind(pass hal.RenderPassEncoder, binders *BinderSet, params RenderParams) error
}

// LineProgram is the WGSL line program. It creates one pipeline per
// combination of constant, source and composite paint attributes.
type LineProgram struct {
	pipelines *gpu.LinePipelines
}

// NewLineProgram creates a line program drawing into targets of format.
func NewLineProgram(dev *render.Device, format gputypes.TextureFormat, sampleCount uint32) (*LineProgram, error) {
	if dev == nil || dev.Device == nil || dev.Queue == nil {
		return nil, ErrNilDevice
	}
	return &LineProgram{
		pipelines: gpu.NewLinePipelines(dev.Device, dev.Queue, format, sampleCount),
	}, nil
}

// Bind implements Program.
func (p *LineProgram) Bind(pass hal.RenderPassEncoder, binders *BinderSet, params RenderParams) error {
	return p.pipelines.Bind(pass, attributeSpecs(binders), encodeUniforms(binders.Uniforms(params.Zoom), params))
}

// BeginFrame releases the uniform slots of the previous frame.
func (p *LineProgram) BeginFrame() {
	p.pipelines.BeginFrame()
}

// PipelineCount returns the number of pipeline variants created so far.
func (p *LineProgram) PipelineCount() int {
	return p.pipelines.PipelineCount()
}

// Destroy releases the program's GPU resources.
func (p *LineProgram) Destroy() {
	p.pipelines.Destroy()
}

func attributeSpecs(binders *BinderSet) []gpu.AttributeSpec {
	specs := make([]gpu.AttributeSpec, AttributeCount)
	for i, b := range binders.Binders() {
		specs[i] = gpu.AttributeSpec{Components: b.Attribute().Components()}
		switch b.Kind() {
		case BinderSource:
			specs[i].Kind = gpu.AttributeSource
		case BinderComposite:
			specs[i].Kind = gpu.AttributeComposite
		default:
			specs[i].Kind = gpu.AttributeConstant
		}
	}
	return specs
}

// encodeUniforms writes the LineUniforms struct of line.wgsl.
func encodeUniforms(u Uniforms, params RenderParams) []byte {
	data := make([]byte, gpu.UniformSize)
	put := func(offset int, v float32) {
		binary.LittleEndian.PutUint32(data[offset:], math.Float32bits(v))
	}

	for i, v := range params.Matrix {
		put(i*4, v)
	}
	put(64, params.UnitsToPixels[0])
	put(68, params.UnitsToPixels[1])

	pixelsToTileUnits := params.PixelsToTileUnits
	if pixelsToTileUnits <= 0 {
		pixelsToTileUnits = Extent / TileSize
	}
	put(72, 1/pixelsToTileUnits)

	dpr := params.DevicePixelRatio
	if dpr <= 0 {
		dpr = 1
	}
	put(76, dpr)
	put(80, u.Translate[0])
	put(84, u.Translate[1])

	for i, t := range u.Interpolation {
		put(96+i*4, t)
	}
	return data
}
