package linemesh

import "errors"

// Bucket errors.
var (
	// ErrInvalidLayout is returned when a layout property is out of range.
	ErrInvalidLayout = errors.New("linemesh: invalid layout")

	// ErrNotUploaded is returned when rendering a bucket before Upload.
	ErrNotUploaded = errors.New("linemesh: bucket has not been uploaded")

	// ErrUnknownLayer is returned when a layer ID has no binders in the bucket.
	ErrUnknownLayer = errors.New("linemesh: unknown layer")

	// ErrNilDevice is returned when uploading without a device.
	ErrNilDevice = errors.New("linemesh: device is nil")

	// ErrNilProgram is returned when rendering without a program.
	ErrNilProgram = errors.New("linemesh: program is nil")

	// ErrDestroyed is returned when uploading or rendering a destroyed bucket.
	ErrDestroyed = errors.New("linemesh: bucket has been destroyed")
)
