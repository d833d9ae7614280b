// Package worker builds line buckets for many tiles concurrently.
//
// A Parser owns a work-stealing Pool. Each Job becomes one goroutine-local
// Bucket; results are published only after every job has finished, so a
// bucket is never observed while it is still being built.
package worker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/paulmach/orb/maptile"

	"github.com/gogpu/linemesh"
)

// cancelCheckInterval is the number of features between context checks
// inside one job.
const cancelCheckInterval = 256

// ErrClosed is returned by Parse and Pool.Run after Close.
var ErrClosed = errors.New("worker: closed")

// Job describes one tile to tessellate.
type Job struct {
	// Tile is the tile the features were cut for.
	Tile maptile.Tile

	// Zoom is the zoom the tile is displayed at. Zooms deeper than
	// Tile.Z overscale the bucket.
	Zoom maptile.Zoom

	Layout   linemesh.Layout
	Layers   []linemesh.LineLayer
	Features []linemesh.Feature
}

// Result is the outcome of one Job.
type Result struct {
	Tile   maptile.Tile
	Bucket *linemesh.Bucket

	// Err is set when the job was cancelled; Bucket is nil then.
	Err error
}

// Option configures a Parser.
type Option func(*Parser)

// WithWorkers sets the number of worker goroutines. Values <= 0 use
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Parser) {
		p.workers = n
	}
}

// WithLogger sets the logger used by the parser and its buckets.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		p.log = l
	}
}

// Parser tessellates tiles on a worker pool.
type Parser struct {
	workers int
	log     *slog.Logger
	pool    *Pool
}

// NewParser creates a parser and starts its workers. Call Close when done.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = linemesh.Logger()
	}
	p.pool = NewPool(p.workers)
	return p
}

// Workers returns the number of worker goroutines.
func (p *Parser) Workers() int {
	return p.pool.Workers()
}

// Parse builds one bucket per job and returns the results in job order.
//
// Cancellation is checked before each job and periodically between
// features; a cancelled job's partial bucket is discarded and its Result
// carries the context error. Parse returns ctx.Err() if any job was
// cancelled.
func (p *Parser) Parse(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	work := make([]func(), len(jobs))
	for i := range jobs {
		work[i] = func() {
			results[i] = p.parse(ctx, jobs[i])
		}
	}
	if err := p.pool.Run(work); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		for _, r := range results {
			if r.Err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

func (p *Parser) parse(ctx context.Context, job Job) Result {
	res := Result{Tile: job.Tile}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	b := linemesh.NewBucket(job.Layout,
		linemesh.WithOverscaling(linemesh.Overscaling(job.Tile, job.Zoom)),
		linemesh.WithZoom(float32(job.Tile.Z)),
		linemesh.WithLayers(job.Layers...),
		linemesh.WithLogger(p.log),
	)
	for i, f := range job.Features {
		if i%cancelCheckInterval == cancelCheckInterval-1 {
			if err := ctx.Err(); err != nil {
				p.log.Debug("linemesh: tile cancelled", "tile", job.Tile, "features", i)
				b.Destroy()
				res.Err = err
				return res
			}
		}
		b.AddFeature(f)
	}

	stats := b.Stats()
	p.log.Debug("linemesh: tile parsed",
		"tile", job.Tile,
		"features", stats.Features,
		"vertices", stats.Vertices,
		"segments", stats.Segments)
	res.Bucket = b
	return res
}

// Close stops the workers. It is safe to call more than once.
func (p *Parser) Close() {
	p.pool.Close()
}
