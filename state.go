package main

import (
	"sync/atomic"
	"time"
)

// renderState owns the buffers, clock, and origin that persist between
// frames. Buffers and the clock are only touched by the frame driver's
// goroutine; the origin may be written from anywhere.
type renderState struct {
	params rippleParams
	maxDim int

	source  *pixelBuffer
	output  *pixelBuffer
	readyAt time.Time

	origin atomic.Pointer[rippleOrigin]

	now func() time.Time
}

// newRenderState returns an empty state with the origin at the centre.
func newRenderState(params rippleParams, maxDim int) *renderState {
	s := &renderState{
		params: params,
		maxDim: maxDim,
		now:    time.Now,
	}
	s.resetOrigin()
	return s
}

// loadImage installs a freshly decoded source, sizes the output by the
// resize policy, and restarts the clock. The origin is kept.
func (s *renderState) loadImage(src *pixelBuffer) {
	s.source = src
	w, h := fitDimensions(src.width, src.height, s.maxDim)
	if !s.output.sameSize(w, h) {
		s.output = newPixelBuffer(w, h)
	}
	s.readyAt = s.now()
}

// displayResize reallocates the output buffer for a new display size.
// Zero or negative sizes are ignored.
func (s *renderState) displayResize(width, height int) {
	if width < 1 || height < 1 || s.output.sameSize(width, height) {
		return
	}
	s.output = newPixelBuffer(width, height)
}

// updateOrigin stores a new normalized origin. The pair is swapped as one
// value, so a frame never sees x from one update and y from another.
func (s *renderState) updateOrigin(x, y float64) {
	s.origin.Store(&rippleOrigin{x: x, y: y})
}

func (s *renderState) resetOrigin() {
	o := centerOrigin()
	s.origin.Store(&o)
}

func (s *renderState) currentOrigin() rippleOrigin {
	return *s.origin.Load()
}

// ready reports whether a source and output buffer are installed.
func (s *renderState) ready() bool {
	return s.source != nil && s.output != nil
}

// elapsed returns seconds since the current image became ready.
func (s *renderState) elapsed() float64 {
	if s.readyAt.IsZero() {
		return 0
	}
	return s.now().Sub(s.readyAt).Seconds()
}

// frameInputs snapshots the state for one frame, reading the origin once.
func (s *renderState) frameInputs() frameInputs {
	return frameInputs{
		elapsed: s.elapsed(),
		origin:  s.currentOrigin(),
		params:  s.params,
		source:  s.source,
	}
}
