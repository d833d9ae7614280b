package linemesh

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestBucketDefaults tests the options of a bucket created without any.
func TestBucketDefaults(t *testing.T) {
	b := NewBucket(DefaultLayout())
	if b.Overscaling() != 1 {
		t.Errorf("Overscaling() = %d, want 1", b.Overscaling())
	}
	if b.Zoom() != 0 {
		t.Errorf("Zoom() = %v, want 0", b.Zoom())
	}
	if b.Stats().Layers != 0 {
		t.Errorf("Layers = %d, want 0", b.Stats().Layers)
	}
}

// TestWithOverscaling tests that factors below 1 are raised to 1.
func TestWithOverscaling(t *testing.T) {
	tests := []struct {
		factor uint32
		want   uint32
	}{
		{0, 1},
		{1, 1},
		{4, 4},
	}
	for _, tt := range tests {
		if got := NewBucket(DefaultLayout(), WithOverscaling(tt.factor)).Overscaling(); got != tt.want {
			t.Errorf("WithOverscaling(%d) = %d, want %d", tt.factor, got, tt.want)
		}
	}
}

// TestWithLayersAccumulates tests that repeated WithLayers calls add layers.
func TestWithLayersAccumulates(t *testing.T) {
	b := NewBucket(DefaultLayout(),
		WithZoom(14),
		WithLayers(LineLayer{ID: "casing", Paint: DefaultLinePaint()}),
		WithLayers(LineLayer{ID: "fill", Paint: DefaultLinePaint()}),
	)
	if b.Zoom() != 14 {
		t.Errorf("Zoom() = %v, want 14", b.Zoom())
	}
	for _, id := range []string{"casing", "fill"} {
		if _, ok := b.Binders(id); !ok {
			t.Errorf("Binders(%q) not found", id)
		}
	}
}

// TestWithLogger tests that a bucket logger overrides the package logger.
func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b := NewBucket(DefaultLayout(), WithLogger(l))
	b.AddFeature(NewFeature(FeatureTypePoint, nil, nil))

	if !strings.Contains(buf.String(), "skip feature") {
		t.Errorf("bucket logger output = %q, want a skip message", buf.String())
	}
}

// TestInvalidLayoutWarns tests that an invalid layout is reported.
func TestInvalidLayoutWarns(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	NewBucket(DefaultLayout().WithMiterLimit(0), WithLogger(l))

	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("log output = %q, want a warning", buf.String())
	}
}
