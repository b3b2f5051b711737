package main

import (
	"bytes"
	"image/color"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
)

// upperHalfBlock draws the top pixel of a cell in the foreground color and
// the bottom pixel in the background color, doubling vertical resolution.
const upperHalfBlock = '▀'

// terminalDriver runs the ripple in a truecolor terminal. The output buffer
// tracks the terminal size: one column per cell and two rows per cell.
type terminalDriver struct {
	app    *rippleApp
	cfg    appConfig
	screen tcell.Screen

	pointer    pointerTracker
	background color.NRGBA
}

// runTerminal drives app on the current terminal until the user quits with
// q, Esc, or Ctrl+C.
func runTerminal(app *rippleApp, cfg appConfig) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	// Log lines would tear the frame; hold errors until the terminal is
	// restored.
	var held bytes.Buffer
	infoLogger.SetOutput(io.Discard)
	errorLogger.SetOutput(&held)
	defer func() {
		screen.Fini()
		infoLogger.SetOutput(os.Stdout)
		errorLogger.SetOutput(os.Stderr)
		_, _ = held.WriteTo(os.Stderr)
	}()
	screen.EnableMouse()
	screen.HideCursor()
	screen.SetStyle(tcell.StyleDefault.Background(toTCellColor(cfg.background)))

	d := &terminalDriver{app: app, cfg: cfg, screen: screen, background: cfg.background}
	app.onLoad = func(*pixelBuffer) { d.resize() }
	d.resize()

	done := make(chan struct{})
	defer close(done)
	events := pumpEvents(screen, done, terminalEventQueue)

	ticker := time.NewTicker(terminalFrameInterval)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if d.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			d.app.poll()
			if !d.app.tick(d) {
				screen.Clear()
			}
			if notice := d.app.loadNotice(); notice != "" {
				d.drawText(0, 0, notice)
			}
			screen.Show()
		}
	}
}

// pumpEvents forwards screen events to the returned channel until the
// screen is finalized or done is closed. The channel is closed on exit.
func pumpEvents(screen tcell.Screen, done <-chan struct{}, depth int) <-chan tcell.Event {
	events := make(chan tcell.Event, depth)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

// resize matches the output buffer to the terminal's cell grid.
func (d *terminalDriver) resize() {
	cols, rows := d.screen.Size()
	d.app.displayResize(cols, rows*2)
}

// handleEvent applies one terminal event and reports whether to quit.
func (d *terminalDriver) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case 'r', 'R':
				d.app.state.resetOrigin()
			}
		}
	case *tcell.EventMouse:
		out := d.app.state.output
		if out == nil {
			return false
		}
		cx, cy := ev.Position()
		// tcell only reports the mouse when something changed.
		o, act := d.pointer.observe(cx, cy*2, out.width, out.height, true, d.cfg.resetOnLeave)
		act.apply(d.app, o)
	case *tcell.EventResize:
		d.screen.Sync()
		d.resize()
	}
	return false
}

// Present draws buf two pixel rows per terminal row.
func (d *terminalDriver) Present(buf *pixelBuffer) {
	cols, rows := d.screen.Size()
	for cy := 0; cy < rows; cy++ {
		top := cy * 2
		if top >= buf.height {
			break
		}
		bottom := top + 1
		for cx := 0; cx < cols && cx < buf.width; cx++ {
			fg := blendOver(buf.at(cx, top), d.background)
			bg := d.background
			if bottom < buf.height {
				bg = blendOver(buf.at(cx, bottom), d.background)
			}
			style := tcell.StyleDefault.Foreground(toTCellColor(fg)).Background(toTCellColor(bg))
			d.screen.SetContent(cx, cy, upperHalfBlock, nil, style)
		}
	}
}

// drawText writes a single line of text starting at cell (x, y), clipped
// to the screen width.
func (d *terminalDriver) drawText(x, y int, text string) {
	cols, _ := d.screen.Size()
	style := tcell.StyleDefault.
		Foreground(tcell.ColorWhite).
		Background(toTCellColor(d.background))
	for _, r := range text {
		if x >= cols {
			return
		}
		d.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// blendOver composites c over an opaque background.
func blendOver(c, bg color.NRGBA) color.NRGBA {
	if c.A == 0xff {
		return c
	}
	a := uint32(c.A)
	mix := func(f, b uint8) uint8 {
		return uint8((uint32(f)*a + uint32(b)*(255-a) + 127) / 255)
	}
	return color.NRGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 0xff}
}

func toTCellColor(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
