package main

import (
	"context"
	"log"
	"os"
	"runtime"
	"time"
)

var (
	infoLogger  = log.New(os.Stdout, "INFO: ", log.LstdFlags)
	errorLogger = log.New(os.Stderr, "ERROR: ", log.LstdFlags|log.Lshortfile)
)

// schedulerPhase tracks whether there is anything to draw.
type schedulerPhase int

const (
	phaseIdle schedulerPhase = iota
	phaseLoading
	phaseReady
)

func (p schedulerPhase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseLoading:
		return "loading"
	case phaseReady:
		return "ready"
	}
	return "unknown"
}

// displaySurface receives each completed frame.
type displaySurface interface {
	Present(buf *pixelBuffer)
}

// rippleApp is the frame scheduler shared by the window and terminal
// drivers. A driver calls poll and tick once per display refresh from a
// single goroutine; updateOrigin may be called from anywhere.
type rippleApp struct {
	state    *renderState
	loader   *imageLoader
	renderer frameRenderer
	phase    schedulerPhase

	// onLoad runs after a new source is installed, before its first frame.
	onLoad func(src *pixelBuffer)

	// loadErr is the most recent load failure, shown on screen until
	// loadNoticeDuration has passed or an image loads.
	loadErr   error
	loadErrAt time.Time

	lastFrame time.Duration
	avgFrame  time.Duration
	frames    uint64
}

func newRippleApp(ctx context.Context, params rippleParams, maxDim int, renderer frameRenderer) *rippleApp {
	return &rippleApp{
		state:    newRenderState(params, maxDim),
		loader:   newImageLoader(ctx),
		renderer: renderer,
	}
}

// requestLoad starts decoding src in the background. Until it finishes no
// frames are computed; a load still in flight from an earlier request is
// abandoned.
func (a *rippleApp) requestLoad(src imageSource) {
	infoLogger.Printf("loading %s", src.Name())
	a.loader.request(src)
	a.phase = phaseLoading
}

// poll installs a finished load, falling back to the placeholder when the
// load failed.
func (a *rippleApp) poll() {
	r, ok := a.loader.poll()
	if !ok {
		return
	}
	buf := r.buf
	if r.err != nil {
		errorLogger.Printf("loading image failed, using placeholder: %v", r.err)
		buf = placeholderBuffer()
		a.loadErr, a.loadErrAt = r.err, a.state.now()
	} else {
		infoLogger.Printf("loaded %s (%dx%d)", r.name, buf.width, buf.height)
		a.loadErr = nil
	}
	a.loadImage(buf)
}

// loadImage installs buf as the source and enters the ready phase.
func (a *rippleApp) loadImage(buf *pixelBuffer) {
	a.state.loadImage(buf)
	if a.onLoad != nil {
		a.onLoad(buf)
	}
	a.phase = phaseReady
}

// loadNotice returns a short message about the last failed load, or "" once
// it has been on screen for loadNoticeDuration.
func (a *rippleApp) loadNotice() string {
	if a.loadErr == nil || a.state.now().Sub(a.loadErrAt) >= loadNoticeDuration {
		return ""
	}
	return "Error loading image: " + a.loadErr.Error()
}

func (a *rippleApp) updateOrigin(x, y float64) {
	a.state.updateOrigin(x, y)
}

func (a *rippleApp) displayResize(width, height int) {
	a.state.displayResize(width, height)
}

// tick renders and presents one frame. It reports false, without touching
// the surface, when no image is ready.
func (a *rippleApp) tick(surface displaySurface) bool {
	if a.phase != phaseReady || !a.state.ready() {
		return false
	}
	start := time.Now()
	in := a.state.frameInputs()
	out := a.state.output
	if err := a.renderer.Render(in, out); err != nil {
		errorLogger.Printf("%s backend failed, switching to cpu: %v", a.renderer.Name(), err)
		a.renderer.Close()
		a.renderer = newCPURenderer(runtime.NumCPU())
		renderFrame(in, out)
	}
	a.recordFrameTime(time.Since(start))
	surface.Present(out)
	return true
}

func (a *rippleApp) recordFrameTime(d time.Duration) {
	a.lastFrame = d
	if a.frames == 0 {
		a.avgFrame = d
	} else {
		a.avgFrame += time.Duration(frameTimeSmoothing * float64(d-a.avgFrame))
	}
	a.frames++
}

// close stops background loads and releases the renderer.
func (a *rippleApp) close() {
	a.loader.close()
	a.renderer.Close()
}
