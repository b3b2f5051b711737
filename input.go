package main

import (
	"io/fs"
	"path"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pointerToOrigin normalizes a pointer position against a width x height
// surface. ok is false when the pointer is outside the surface.
func pointerToOrigin(px, py, width, height int) (rippleOrigin, bool) {
	if width < 1 || height < 1 || px < 0 || py < 0 || px >= width || py >= height {
		return rippleOrigin{}, false
	}
	return rippleOrigin{
		x: float64(px) / float64(width),
		y: float64(py) / float64(height),
	}, true
}

// pointerAction is what a pointer observation does to the origin.
type pointerAction int

const (
	pointerNone pointerAction = iota
	pointerMove
	pointerReset
)

// pointerTracker remembers the last pointer position so that the origin
// only follows actual movement. A stationary cursor never overrides an
// origin set some other way, such as the reset hotkey.
type pointerTracker struct {
	x, y   int
	seen   bool
	inside bool
}

// observe records a pointer at (px, py) on a width x height surface. fresh
// marks an observation that counts as movement even at the same position:
// a touch that just started, or a terminal mouse event. Leaving the surface
// recentres the origin only with resetOnLeave.
func (p *pointerTracker) observe(px, py, width, height int, fresh, resetOnLeave bool) (rippleOrigin, pointerAction) {
	moved := fresh || (p.seen && (px != p.x || py != p.y))
	p.x, p.y, p.seen = px, py, true

	o, inside := pointerToOrigin(px, py, width, height)
	wasInside := p.inside
	p.inside = inside
	switch {
	case inside && moved:
		return o, pointerMove
	case !inside && wasInside && resetOnLeave:
		return centerOrigin(), pointerReset
	}
	return rippleOrigin{}, pointerNone
}

// apply carries out the action returned by observe.
func (a pointerAction) apply(app *rippleApp, o rippleOrigin) {
	switch a {
	case pointerMove:
		app.updateOrigin(o.x, o.y)
	case pointerReset:
		app.state.resetOrigin()
	}
}

// handlePointer moves the origin with the mouse or the first touch.
func (d *windowDriver) handlePointer() {
	w, h := d.Layout(0, 0)

	d.touchIDs = ebiten.AppendTouchIDs(d.touchIDs[:0])
	px, py := ebiten.CursorPosition()
	fresh := false
	if len(d.touchIDs) > 0 {
		px, py = ebiten.TouchPosition(d.touchIDs[0])
		fresh = inpututil.TouchPressDuration(d.touchIDs[0]) == 1
	}

	o, act := d.pointer.observe(px, py, w, h, fresh, d.cfg.resetOnLeave)
	act.apply(d.app, o)
}

// handleKeys processes hotkeys: Ctrl+V pastes an image, R recentres the
// origin, F12 saves a screenshot.
func (d *windowDriver) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		d.app.requestLoad(clipboardSource{})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		d.app.state.resetOrigin()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if out := d.app.state.output; d.app.phase == phaseReady && out != nil {
			if name, err := saveScreenshot(d.cfg.screenshotDir, out); err != nil {
				errorLogger.Printf("saving screenshot: %v", err)
			} else {
				infoLogger.Printf("saved screenshot %s", name)
			}
		}
	}
}

// handleDroppedFiles loads the first regular file dropped onto the window.
func (d *windowDriver) handleDroppedFiles() {
	files := ebiten.DroppedFiles()
	if files == nil {
		return
	}
	if name, ok := firstRegularFile(files); ok {
		d.app.requestLoad(fsSource{fsys: files, name: name})
	}
}

// firstRegularFile walks fsys in lexical order and returns the first
// regular file it finds.
func firstRegularFile(fsys fs.FS) (string, bool) {
	var found string
	_ = fs.WalkDir(fsys, ".", func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if e.Type().IsRegular() {
			found = path.Clean(p)
			return fs.SkipAll
		}
		return nil
	})
	return found, found != ""
}
