// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu holds the WebGPU render pipelines for line buckets.
//
// The package knows the vertex buffer layout of a line bucket and the WGSL
// shader that draws it. It compiles the shader with naga, creates one
// render pipeline per combination of paint attribute kinds, and streams
// per-draw uniforms through a ring buffer bound with dynamic offsets.
//
// Vertex buffer slots:
//
//	slot 0: line vertices (position+flags, extrusion+direction, distance)
//	slot 1..6: paint attributes (color, opacity, width, gap width, offset, blur)
//
// A constant paint attribute is a one-element buffer with instance step
// mode, a data-driven one is a per-vertex buffer. The shader reads every
// attribute as a (value at zoom, value at zoom+1) pair and interpolates
// with the factor from the uniforms, which is 0 for non-composite values.
package gpu
