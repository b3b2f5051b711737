package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// windowDriver runs the ripple in a desktop window. Ebiten calls Update and
// Draw once per tick; Draw is the frame scheduler's tick.
type windowDriver struct {
	app *rippleApp
	cfg appConfig

	pointer  pointerTracker
	touchIDs []ebiten.TouchID

	background color.NRGBA
	surface    ebitenSurface
}

// newWindowDriver wires app to an ebiten window. Each loaded image resizes
// the window to the output buffer times the configured scale.
func newWindowDriver(app *rippleApp, cfg appConfig) *windowDriver {
	d := &windowDriver{app: app, cfg: cfg, background: cfg.background}
	app.onLoad = func(*pixelBuffer) {
		out := app.state.output
		ebiten.SetWindowSize(out.width*cfg.windowScale, out.height*cfg.windowScale)
	}
	return d
}

// Update polls for finished loads and applies pointer and keyboard input.
func (d *windowDriver) Update() error {
	d.app.poll()
	d.handlePointer()
	d.handleKeys()
	d.handleDroppedFiles()
	return nil
}

// Draw renders a frame when an image is ready and otherwise shows the
// background color.
func (d *windowDriver) Draw(screen *ebiten.Image) {
	d.surface.screen = screen
	if !d.app.tick(&d.surface) {
		screen.Fill(d.background)
	}
	if d.cfg.debug {
		d.drawDebugOverlay(screen)
	} else if notice := d.app.loadNotice(); notice != "" {
		ebitenutil.DebugPrint(screen, notice)
	}
}

// Layout reports the output buffer as the logical screen; ebiten scales it
// to the window.
func (d *windowDriver) Layout(_, _ int) (int, int) {
	if out := d.app.state.output; out != nil {
		return out.width, out.height
	}
	return idleWidth, idleHeight
}

func (d *windowDriver) drawDebugOverlay(screen *ebiten.Image) {
	o := d.app.state.currentOrigin()
	msg := fmt.Sprintf("FPS: %.1f TPS: %.1f\nState: %s\nBackend: %s\nFrame: %.2f ms (avg %.2f)\nT: %.2f s  cycle %.2f\nOrigin: %.3f, %.3f",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		d.app.phase, d.app.renderer.Name(),
		d.app.lastFrame.Seconds()*1000, d.app.avgFrame.Seconds()*1000,
		d.app.state.elapsed(), effectiveTime(d.app.state.elapsed()),
		o.x, o.y)
	if notice := d.app.loadNotice(); notice != "" {
		msg += "\n" + notice
	}
	ebitenutil.DebugPrint(screen, msg)
}

// ebitenSurface presents frames onto an ebiten screen image.
type ebitenSurface struct {
	screen  *ebiten.Image
	scaled  *ebiten.Image
	scratch []byte
}

// Present copies buf to the screen. When the screen does not match the
// buffer size, as on the tick after a resize, the frame is drawn scaled
// through an offscreen image instead.
func (s *ebitenSurface) Present(buf *pixelBuffer) {
	s.scratch = premultiplyInto(s.scratch, buf.pix)
	b := s.screen.Bounds()
	if b.Dx() == buf.width && b.Dy() == buf.height {
		s.screen.WritePixels(s.scratch)
		return
	}
	if s.scaled == nil || s.scaled.Bounds().Dx() != buf.width || s.scaled.Bounds().Dy() != buf.height {
		if s.scaled != nil {
			s.scaled.Deallocate()
		}
		s.scaled = ebiten.NewImage(buf.width, buf.height)
	}
	s.scaled.WritePixels(s.scratch)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(b.Dx())/float64(buf.width), float64(b.Dy())/float64(buf.height))
	op.Filter = ebiten.FilterNearest
	s.screen.DrawImage(s.scaled, op)
}
