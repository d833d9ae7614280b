// Package linemesh turns vector tile line features into GPU-ready triangle
// meshes and draws them.
//
// # Overview
//
// A Bucket collects the lines of one tile that share a layout (cap, join,
// miter and round limits). Every line string, and every ring of a polygon,
// is extruded into a strip of packed vertices with joins, caps and the
// distance along the line needed for dash patterns. Paint properties of
// each layer drawing the bucket are evaluated per feature into binder
// streams that grow in lockstep with the vertices.
//
// # Quick Start
//
//	b := linemesh.NewBucket(linemesh.DefaultLayout().WithJoin(linemesh.LineJoinRound),
//	    linemesh.WithOverscaling(2),
//	    linemesh.WithLayers(roads),
//	)
//	for _, f := range features {
//	    b.AddFeature(f)
//	}
//
//	// On the render goroutine:
//	if err := b.Upload(dev); err != nil {
//	    return err
//	}
//	err := b.Render(pass, program, "roads", params)
//
// # Segments
//
// Indices are 16-bit. Vertices are partitioned into segments of at most
// MaxSegmentVertices vertices and each segment is drawn with its own base
// vertex, so a bucket can hold any number of vertices.
//
// # Coordinate System
//
// Geometry is in tile units: a tile spans Extent units and is displayed at
// TileSize pixels at its native zoom. Y increases down.
//
// # Subpackages
//
//   - worker: builds buckets for many tiles concurrently
//   - cache: LRU cache of buckets keyed by tile, destroying evicted ones
//   - render: GPU device wrapper used by Upload
//
// # Logging
//
// The package is silent by default. Use SetLogger to route diagnostics
// (skipped geometry, pipeline creation, uploads) to a slog.Logger.
package linemesh

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
