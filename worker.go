package main

import (
	"golang.org/x/sync/errgroup"
)

// rowBand is a half-open range of output rows owned by one worker.
type rowBand struct{ y0, y1 int }

// splitRowBands cuts height rows into at most workers contiguous bands of
// near-equal size. Bands never overlap, so workers need no locking.
func splitRowBands(height, workers int) []rowBand {
	if height <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	rowsPer := (height + workers - 1) / workers
	bands := make([]rowBand, 0, workers)
	for y0 := 0; y0 < height; y0 += rowsPer {
		bands = append(bands, rowBand{y0: y0, y1: min(y0+rowsPer, height)})
	}
	return bands
}

// cpuRenderer evaluates the frame on goroutines, one row band each.
type cpuRenderer struct {
	workers int
}

func newCPURenderer(workers int) *cpuRenderer {
	return &cpuRenderer{workers: max(workers, 1)}
}

// Render blocks until every band has been written.
func (r *cpuRenderer) Render(in frameInputs, dst *pixelBuffer) error {
	if r.workers == 1 {
		renderFrame(in, dst)
		return nil
	}
	var g errgroup.Group
	g.SetLimit(r.workers)
	for _, band := range splitRowBands(dst.height, r.workers) {
		g.Go(func() error {
			renderRows(in, dst, band.y0, band.y1)
			return nil
		})
	}
	return g.Wait()
}

func (r *cpuRenderer) Name() string { return "cpu" }

func (r *cpuRenderer) Close() {}
