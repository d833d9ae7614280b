package worker

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 3, 3},
		{"single", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(tt.workers)
			defer p.Close()
			assert.Equal(t, tt.want, p.Workers())
			assert.True(t, p.IsRunning())
		})
	}

	p := NewPool(0)
	defer p.Close()
	assert.Positive(t, p.Workers(), "zero workers should fall back to GOMAXPROCS")
}

func TestPoolRunWaits(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var count atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { count.Add(1) }
	}
	require.NoError(t, p.Run(work))

	assert.Equal(t, int64(100), count.Load())
}

func TestPoolRunEmpty(t *testing.T) {
	p := NewPool(2)
	defer p.Close()
	assert.NoError(t, p.Run(nil))
}

func TestPoolClose(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()
	assert.False(t, p.IsRunning())

	var ran atomic.Bool
	err := p.Run([]func(){func() { ran.Store(true) }})
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, ran.Load(), "closed pool should not run work")
}

func TestPoolCloseWaitsForRun(t *testing.T) {
	p := NewPool(2)

	started := make(chan struct{})
	release := make(chan struct{})
	var count atomic.Int64
	work := make([]func(), 16)
	for i := range work {
		work[i] = func() {
			if i == 0 {
				close(started)
			}
			<-release
			count.Add(1)
		}
	}

	runErr := make(chan error, 1)
	go func() { runErr <- p.Run(work) }()
	<-started

	closed := make(chan struct{})
	go func() {
		p.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while Run was still in progress")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-runErr)
	<-closed
	assert.Equal(t, int64(len(work)), count.Load(), "every item of the in-flight Run should run")
	assert.False(t, p.IsRunning())
	assert.ErrorIs(t, p.Run(work), ErrClosed)
}
