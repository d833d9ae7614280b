package linemesh

import "log/slog"

// BucketOption configures a Bucket during creation.
//
// Example:
//
//	b := linemesh.NewBucket(layout,
//	    linemesh.WithOverscaling(2),
//	    linemesh.WithZoom(14),
//	    linemesh.WithLayers(roads, casings),
//	)
type BucketOption func(*bucketOptions)

// bucketOptions holds optional configuration for Bucket creation.
type bucketOptions struct {
	overscaling uint32
	zoom        float32
	layers      []LineLayer
	logger      *slog.Logger
}

// defaultBucketOptions returns the options of a bucket for an exact
// (not overscaled) tile at zoom 0 without paint layers.
func defaultBucketOptions() bucketOptions {
	return bucketOptions{
		overscaling: 1,
	}
}

// WithOverscaling sets the overscaling factor: the ratio between the zoom
// the tile is displayed at and the zoom it was cut for. Values below 1 are
// treated as 1.
func WithOverscaling(factor uint32) BucketOption {
	return func(o *bucketOptions) {
		o.overscaling = max(factor, 1)
	}
}

// WithZoom sets the zoom level used to evaluate composite paint values.
func WithZoom(zoom float32) BucketOption {
	return func(o *bucketOptions) {
		o.zoom = zoom
	}
}

// WithLayers adds paint layers that consume the bucket. Each layer gets
// its own binder set keyed by the layer ID; a later layer with the same ID
// replaces an earlier one.
func WithLayers(layers ...LineLayer) BucketOption {
	return func(o *bucketOptions) {
		o.layers = append(o.layers, layers...)
	}
}

// WithLogger sets the logger of one bucket. Without it the bucket logs to
// the package logger (see SetLogger).
func WithLogger(l *slog.Logger) BucketOption {
	return func(o *bucketOptions) {
		o.logger = l
	}
}
