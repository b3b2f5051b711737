package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type recordingSurface struct {
	frames []*pixelBuffer
}

func (s *recordingSurface) Present(buf *pixelBuffer) {
	s.frames = append(s.frames, buf)
}

type failingRenderer struct {
	closed bool
}

func (r *failingRenderer) Render(frameInputs, *pixelBuffer) error {
	return errors.New("device lost")
}

func (r *failingRenderer) Name() string { return "failing" }

func (r *failingRenderer) Close() { r.closed = true }

type failingSource struct{}

func (failingSource) Name() string { return "broken" }

func (failingSource) Read(context.Context) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func newTestApp(r frameRenderer) *rippleApp {
	return newRippleApp(context.Background(), defaultRippleParams(), maxDimension, r)
}

func waitForPhase(t *testing.T, a *rippleApp, want schedulerPhase) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		a.poll()
		if a.phase == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("phase = %s, want %s", a.phase, want)
}

func TestAppSkipsFramesUntilReady(t *testing.T) {
	a := newTestApp(newCPURenderer(2))
	defer a.close()
	surface := &recordingSurface{}

	if a.phase != phaseIdle {
		t.Fatalf("initial phase = %s, want idle", a.phase)
	}
	if a.tick(surface) {
		t.Errorf("tick rendered while idle")
	}
	if len(surface.frames) != 0 {
		t.Errorf("surface received %d frames while idle", len(surface.frames))
	}

	a.loadImage(gradientBuffer(16, 8))
	if a.phase != phaseReady {
		t.Fatalf("phase after load = %s, want ready", a.phase)
	}
	if !a.tick(surface) {
		t.Fatalf("tick did not render when ready")
	}
	if len(surface.frames) != 1 {
		t.Fatalf("surface received %d frames, want 1", len(surface.frames))
	}
	if f := surface.frames[0]; f.width != 16 || f.height != 8 {
		t.Errorf("presented %dx%d, want 16x8", f.width, f.height)
	}
	if a.frames != 1 {
		t.Errorf("frame counter = %d, want 1", a.frames)
	}
}

func TestAppLoadReturnsToLoading(t *testing.T) {
	a := newTestApp(newCPURenderer(1))
	defer a.close()
	a.loadImage(gradientBuffer(4, 4))

	a.requestLoad(bytesSource{name: "next", data: encodePNG(t, 6, 3)})
	if a.phase != phaseLoading {
		t.Fatalf("phase = %s, want loading", a.phase)
	}
	if a.tick(&recordingSurface{}) {
		t.Errorf("tick rendered while loading")
	}
	waitForPhase(t, a, phaseReady)
	if src := a.state.source; src.width != 6 || src.height != 3 {
		t.Errorf("source = %dx%d, want 6x3", src.width, src.height)
	}
}

func TestAppFallsBackToPlaceholder(t *testing.T) {
	a := newTestApp(newCPURenderer(1))
	defer a.close()
	var loaded *pixelBuffer
	a.onLoad = func(buf *pixelBuffer) { loaded = buf }

	a.requestLoad(failingSource{})
	waitForPhase(t, a, phaseReady)

	want := placeholderBuffer()
	if loaded == nil || loaded.width != want.width || loaded.height != want.height {
		t.Fatalf("loaded %+v, want placeholder %dx%d", loaded, want.width, want.height)
	}
	if string(loaded.pix) != string(want.pix) {
		t.Errorf("fallback pixels differ from placeholder")
	}
	if !a.tick(&recordingSurface{}) {
		t.Errorf("placeholder did not render")
	}
}

func TestAppLoadNotice(t *testing.T) {
	a := newTestApp(newCPURenderer(1))
	defer a.close()
	clock := &fakeClock{t: time.Unix(1000, 0)}
	a.state.now = clock.now

	if n := a.loadNotice(); n != "" {
		t.Fatalf("notice before any load = %q", n)
	}
	a.requestLoad(failingSource{})
	waitForPhase(t, a, phaseReady)
	if n := a.loadNotice(); !strings.HasPrefix(n, "Error loading image: ") {
		t.Errorf("notice after failure = %q", n)
	}

	clock.advance(loadNoticeDuration)
	if n := a.loadNotice(); n != "" {
		t.Errorf("notice after %v = %q, want none", loadNoticeDuration, n)
	}

	a.requestLoad(bytesSource{name: "ok", data: encodePNG(t, 2, 2)})
	waitForPhase(t, a, phaseReady)
	if n := a.loadNotice(); n != "" {
		t.Errorf("notice after successful load = %q, want none", n)
	}
}

func TestAppSwitchesToCPUWhenBackendFails(t *testing.T) {
	failing := &failingRenderer{}
	a := newTestApp(failing)
	defer a.close()
	a.loadImage(gradientBuffer(8, 8))

	surface := &recordingSurface{}
	if !a.tick(surface) {
		t.Fatalf("tick did not present after backend failure")
	}
	if !failing.closed {
		t.Errorf("failed backend was not closed")
	}
	if a.renderer.Name() != "cpu" {
		t.Errorf("renderer = %s, want cpu", a.renderer.Name())
	}
	if len(surface.frames) != 1 {
		t.Fatalf("presented %d frames, want 1", len(surface.frames))
	}
}

func TestSchedulerPhaseString(t *testing.T) {
	for p, want := range map[schedulerPhase]string{
		phaseIdle:          "idle",
		phaseLoading:       "loading",
		phaseReady:         "ready",
		schedulerPhase(42): "unknown",
	} {
		if got := p.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(p), got, want)
		}
	}
}
