// Command linemesh tessellates GeoJSON lines into line buckets and prints
// statistics about the resulting meshes.
//
// Each input file is a FeatureCollection whose coordinates are already in
// tile units (0..8192). Files are parsed concurrently, one bucket each.
//
// Usage:
//
//	linemesh [-config style.toml] [-tile z/x/y] [-zoom z] [-clip units] file.geojson...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"

	"github.com/gogpu/linemesh"
	"github.com/gogpu/linemesh/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "linemesh:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("linemesh", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var (
		configPath = fs.String("config", "", "TOML style file")
		tileFlag   = fs.String("tile", "0/0/0", "tile the features belong to, as z/x/y")
		zoom       = fs.Int("zoom", -1, "display zoom; deeper than the tile zoom overscales (default: tile zoom)")
		clipBuffer = fs.Float64("clip", -1, "clip geometry to the tile grown by this many units (default: no clipping)")
		workers    = fs.Int("workers", 0, "parser goroutines (default: GOMAXPROCS)")
		verbose    = fs.Bool("v", false, "log tessellation details")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("no input files")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	tile, err := parseTile(*tileFlag)
	if err != nil {
		return err
	}
	displayZoom := tile.Z
	if *zoom >= 0 {
		displayZoom = maptile.Zoom(*zoom)
	}

	var opts []linemesh.FeatureOption
	if *clipBuffer >= 0 {
		opts = append(opts, linemesh.WithClipBuffer(*clipBuffer))
	}

	layers := cfg.lineLayers()
	jobs := make([]worker.Job, fs.NArg())
	for i, path := range fs.Args() {
		features, err := readFeatures(path, opts...)
		if err != nil {
			return err
		}
		jobs[i] = worker.Job{
			Tile:     tile,
			Zoom:     displayZoom,
			Layout:   cfg.Layout,
			Layers:   layers,
			Features: features,
		}
	}

	p := worker.NewParser(worker.WithWorkers(*workers), worker.WithLogger(log))
	defer p.Close()

	results, err := p.Parse(ctx, jobs)
	if err != nil {
		return err
	}
	for i, r := range results {
		if r.Bucket == nil {
			continue
		}
		report(log, fs.Arg(i), r.Bucket, layers)
		r.Bucket.Destroy()
	}
	return nil
}

func parseTile(s string) (maptile.Tile, error) {
	var z, x, y uint32
	if n, err := fmt.Sscanf(s, "%d/%d/%d", &z, &x, &y); err != nil || n != 3 {
		return maptile.Tile{}, fmt.Errorf("invalid tile %q, want z/x/y", s)
	}
	if z > 31 {
		return maptile.Tile{}, fmt.Errorf("invalid tile %q: zoom %d out of range", s, z)
	}
	if size := uint32(1) << z; x >= size || y >= size {
		return maptile.Tile{}, fmt.Errorf("invalid tile %q: x or y out of range", s)
	}
	return maptile.New(x, y, maptile.Zoom(z)), nil
}

func readFeatures(path string, opts ...linemesh.FeatureOption) ([]linemesh.Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	features := make([]linemesh.Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		features = append(features, linemesh.FromOrb(f.Geometry, f.Properties, opts...))
	}
	return features, nil
}

func report(log *slog.Logger, name string, b *linemesh.Bucket, layers []linemesh.LineLayer) {
	stats := b.Stats()
	log.Info("bucket",
		"file", name,
		"features", stats.Features,
		"lines", stats.Lines,
		"vertices", stats.Vertices,
		"triangles", stats.Triangles,
		"segments", stats.Segments)

	for i, seg := range b.Segments() {
		log.Debug("segment",
			"file", name,
			"index", i,
			"vertex_offset", seg.VertexOffset,
			"vertices", seg.VertexLength,
			"index_offset", seg.IndexOffset,
			"indices", seg.IndexLength)
	}
	for _, l := range layers {
		log.Info("layer",
			"file", name,
			"id", l.ID,
			"query_radius", b.QueryRadius(l.ID),
			"dash_repeat", b.DashRepeat(l.ID))
	}
}
