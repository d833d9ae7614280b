// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

const (
	// LineVertexStride is the byte stride of one line vertex.
	// Layout per vertex:
	//
	//	pos_normal (sint16x2) = 4 bytes (location 0)
	//	data       (uint8x4)  = 4 bytes (location 1)
	//	linesofar  (f32)      = 4 bytes (location 2)
	LineVertexStride = 12

	// UniformSize is the byte size of the LineUniforms struct in line.wgsl.
	UniformSize = 128

	// uniformAlignment is the minimum dynamic offset alignment.
	uniformAlignment = 256

	// uniformSlotsPerRing is the number of draws one uniform ring buffer
	// can hold before another ring is allocated.
	uniformSlotsPerRing = 64

	// firstAttributeLocation is the shader location of the first paint
	// attribute; paint attributes use one vertex buffer slot each, after
	// the line vertices in slot 0.
	firstAttributeLocation = 3
)

// ErrTooManyAttributes is returned when a pipeline is requested for more
// paint attributes than the shader declares.
var ErrTooManyAttributes = errors.New("gpu: too many paint attributes")

// maxAttributes is the number of paint attributes in line.wgsl.
const maxAttributes = 6

// AttributeKind tells how a paint attribute buffer is laid out.
type AttributeKind uint8

const (
	// AttributeConstant is a one-element buffer read once per instance.
	AttributeConstant AttributeKind = iota
	// AttributeSource is a per-vertex buffer with one value per vertex.
	AttributeSource
	// AttributeComposite is a per-vertex buffer with two values per vertex.
	AttributeComposite
)

// AttributeSpec describes the buffer of one paint attribute.
type AttributeSpec struct {
	// Components is the number of floats of one value.
	Components int
	Kind       AttributeKind
}

// floats returns the number of floats per element.
func (a AttributeSpec) floats() int {
	if a.Kind == AttributeComposite {
		return 2 * a.Components
	}
	return a.Components
}

func (a AttributeSpec) format() gputypes.VertexFormat {
	switch a.floats() {
	case 1:
		return gputypes.VertexFormatFloat32
	case 2:
		return gputypes.VertexFormatFloat32x2
	case 3:
		return gputypes.VertexFormatFloat32x3
	default:
		return gputypes.VertexFormatFloat32x4
	}
}

// Stride returns the byte stride of one element.
func (a AttributeSpec) Stride() uint64 {
	return uint64(4 * a.floats())
}

// LineVertexLayout returns the layout of vertex buffer slot 0.
func LineVertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: LineVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatSint16x2, Offset: 0, ShaderLocation: 0}, // pos_normal
			{Format: gputypes.VertexFormatUint8x4, Offset: 4, ShaderLocation: 1},  // data
			{Format: gputypes.VertexFormatFloat32, Offset: 8, ShaderLocation: 2},  // linesofar
		},
	}
}

// AttributeLayout returns the layout of the buffer of the i-th paint
// attribute.
func AttributeLayout(i int, spec AttributeSpec) gputypes.VertexBufferLayout {
	step := gputypes.VertexStepModeVertex
	if spec.Kind == AttributeConstant {
		step = gputypes.VertexStepModeInstance
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: spec.Stride(),
		StepMode:    step,
		Attributes: []gputypes.VertexAttribute{
			{Format: spec.format(), Offset: 0, ShaderLocation: uint32(firstAttributeLocation + i)},
		},
	}
}

// VertexLayouts returns the layouts of all vertex buffer slots.
func VertexLayouts(attrs []AttributeSpec) []gputypes.VertexBufferLayout {
	layouts := make([]gputypes.VertexBufferLayout, 0, 1+len(attrs))
	layouts = append(layouts, LineVertexLayout())
	for i, a := range attrs {
		layouts = append(layouts, AttributeLayout(i, a))
	}
	return layouts
}

// pipelineKey packs the attribute kinds, two bits each.
func pipelineKey(attrs []AttributeSpec) uint32 {
	var key uint32
	for i, a := range attrs {
		key |= uint32(a.Kind) << (2 * i)
	}
	return key
}

// uniformRing is one uniform buffer with its bind group.
type uniformRing struct {
	buffer    hal.Buffer
	bindGroup hal.BindGroup
}

// LinePipelines creates and caches the render pipelines of the line
// shader, one per combination of attribute kinds, and streams per-draw
// uniforms.
type LinePipelines struct {
	device      hal.Device
	queue       hal.Queue
	format      gputypes.TextureFormat
	sampleCount uint32

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipelines     map[uint32]hal.RenderPipeline

	rings    []uniformRing
	nextSlot int
}

// NewLinePipelines creates a pipeline cache for color targets of format.
// GPU objects are created lazily on first use.
func NewLinePipelines(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, sampleCount uint32) *LinePipelines {
	return &LinePipelines{
		device:      device,
		queue:       queue,
		format:      format,
		sampleCount: max(sampleCount, 1),
		pipelines:   make(map[uint32]hal.RenderPipeline),
	}
}

// PipelineCount returns the number of pipeline variants created so far.
func (p *LinePipelines) PipelineCount() int {
	return len(p.pipelines)
}

// BeginFrame makes all uniform slots available again. Call it once per
// frame, after the previous frame's commands were submitted.
func (p *LinePipelines) BeginFrame() {
	p.nextSlot = 0
}

// Bind sets the pipeline for attrs and binds uniforms, which must be at
// most UniformSize bytes, at a fresh uniform slot.
func (p *LinePipelines) Bind(pass hal.RenderPassEncoder, attrs []AttributeSpec, uniforms []byte) error {
	pipeline, err := p.Pipeline(attrs)
	if err != nil {
		return err
	}
	ring, offset, err := p.writeUniforms(uniforms)
	if err != nil {
		return err
	}
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, ring.bindGroup, []uint32{offset})
	return nil
}

// Pipeline returns the render pipeline for attrs, creating it on first use.
func (p *LinePipelines) Pipeline(attrs []AttributeSpec) (hal.RenderPipeline, error) {
	if len(attrs) > maxAttributes {
		return nil, fmt.Errorf("%w: %d", ErrTooManyAttributes, len(attrs))
	}
	key := pipelineKey(attrs)
	if pipeline, ok := p.pipelines[key]; ok {
		return pipeline, nil
	}
	if err := p.ensureBase(); err != nil {
		return nil, err
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("line_pipeline_%03x", key),
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    VertexLayouts(attrs),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: p.sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create line pipeline: %w", err)
	}
	p.pipelines[key] = pipeline
	slogger().Info("line pipeline created", "key", key, "variants", len(p.pipelines))
	return pipeline, nil
}

// ensureBase compiles the shader and creates the layouts shared by all
// pipeline variants.
func (p *LinePipelines) ensureBase() error {
	if p.pipeLayout != nil {
		return nil
	}

	code, err := CompileWGSL(lineShaderSource)
	if err != nil {
		return fmt.Errorf("line shader: %w", err)
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "line_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("create line shader module: %w", err)
	}
	p.shader = shader

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "line_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   UniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create line uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "line_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create line pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout
	return nil
}

// writeUniforms copies data into the next free uniform slot and returns the
// ring holding it and the dynamic offset.
func (p *LinePipelines) writeUniforms(data []byte) (uniformRing, uint32, error) {
	if len(data) > UniformSize {
		return uniformRing{}, 0, fmt.Errorf("gpu: uniform data is %d bytes, want at most %d", len(data), UniformSize)
	}
	if err := p.ensureBase(); err != nil {
		return uniformRing{}, 0, err
	}

	ringIndex := p.nextSlot / uniformSlotsPerRing
	for ringIndex >= len(p.rings) {
		if err := p.addRing(); err != nil {
			return uniformRing{}, 0, err
		}
	}
	ring := p.rings[ringIndex]
	offset := uint32((p.nextSlot % uniformSlotsPerRing) * uniformAlignment)

	if err := p.queue.WriteBuffer(ring.buffer, uint64(offset), data); err != nil {
		return uniformRing{}, 0, fmt.Errorf("write line uniforms: %w", err)
	}
	p.nextSlot++
	return ring, offset, nil
}

func (p *LinePipelines) addRing() error {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: fmt.Sprintf("line_uniforms_%d", len(p.rings)),
		Size:  uniformSlotsPerRing * uniformAlignment,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create line uniform buffer: %w", err)
	}
	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "line_uniform_bind_group",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding: 0,
				Resource: gputypes.BufferBinding{
					Buffer: buf.NativeHandle(),
					Offset: 0,
					Size:   UniformSize,
				},
			},
		},
	})
	if err != nil {
		p.device.DestroyBuffer(buf)
		return fmt.Errorf("create line uniform bind group: %w", err)
	}
	p.rings = append(p.rings, uniformRing{buffer: buf, bindGroup: bindGroup})
	slogger().Debug("line uniform ring allocated", "rings", len(p.rings))
	return nil
}

// Destroy releases all GPU resources in reverse creation order. Safe to
// call multiple times.
func (p *LinePipelines) Destroy() {
	if p.device == nil {
		return
	}
	for key, pipeline := range p.pipelines {
		p.device.DestroyRenderPipeline(pipeline)
		delete(p.pipelines, key)
	}
	for _, r := range p.rings {
		p.device.DestroyBindGroup(r.bindGroup)
		p.device.DestroyBuffer(r.buffer)
	}
	p.rings = nil
	p.nextSlot = 0
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
