package main

import (
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

var terminalBackground = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

// newTestTerminal returns a driver on a cols x rows simulation screen with
// an image loaded and the output sized to the screen.
func newTestTerminal(t *testing.T, cols, rows int, resetOnLeave bool) (*terminalDriver, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)

	a := newTestApp(newCPURenderer(1))
	t.Cleanup(a.close)
	d := &terminalDriver{
		app:        a,
		cfg:        appConfig{resetOnLeave: resetOnLeave},
		screen:     screen,
		background: terminalBackground,
	}
	a.loadImage(newPixelBuffer(4, 4))
	d.resize()
	return d, screen
}

func TestTerminalResizeUsesTwoRowsPerCell(t *testing.T) {
	d, screen := newTestTerminal(t, 10, 5, false)
	if out := d.app.state.output; out.width != 10 || out.height != 10 {
		t.Fatalf("output = %dx%d, want 10x10", out.width, out.height)
	}

	screen.SetSize(6, 3)
	if quit := d.handleEvent(tcell.NewEventResize(6, 3)); quit {
		t.Fatalf("resize event quit")
	}
	if out := d.app.state.output; out.width != 6 || out.height != 6 {
		t.Errorf("output after resize = %dx%d, want 6x6", out.width, out.height)
	}
}

func TestTerminalMouse(t *testing.T) {
	inside := rippleOrigin{x: 0.5, y: 0.4}
	tests := []struct {
		name         string
		resetOnLeave bool
		events       [][2]int
		want         rippleOrigin
	}{
		{"inside moves the origin", false, [][2]int{{5, 2}}, inside},
		{"outside before inside keeps the centre", false, [][2]int{{20, 2}}, centerOrigin()},
		{"leaving keeps the origin", false, [][2]int{{5, 2}, {20, 2}}, inside},
		{"leaving recentres when asked", true, [][2]int{{5, 2}, {20, 2}}, centerOrigin()},
		{"returning moves again", true, [][2]int{{5, 2}, {20, 2}, {0, 0}}, rippleOrigin{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestTerminal(t, 10, 5, tt.resetOnLeave)
			for _, e := range tt.events {
				if d.handleEvent(tcell.NewEventMouse(e[0], e[1], tcell.ButtonNone, tcell.ModNone)) {
					t.Fatalf("mouse event quit")
				}
			}
			if got := d.app.state.currentOrigin(); got != tt.want {
				t.Errorf("origin = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerminalKeys(t *testing.T) {
	tests := []struct {
		name     string
		ev       *tcell.EventKey
		wantQuit bool
	}{
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), true},
		{"Q", tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone), true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true},
		{"ctrl+c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), true},
		{"r", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), false},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestTerminal(t, 10, 5, false)
			if got := d.handleEvent(tt.ev); got != tt.wantQuit {
				t.Errorf("quit = %v, want %v", got, tt.wantQuit)
			}
		})
	}
}

func TestTerminalResetKey(t *testing.T) {
	d, _ := newTestTerminal(t, 10, 5, false)
	d.handleEvent(tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone))
	if d.app.state.currentOrigin() == centerOrigin() {
		t.Fatalf("mouse did not move the origin")
	}
	d.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if got := d.app.state.currentOrigin(); got != centerOrigin() {
		t.Errorf("origin after r = %v, want centre", got)
	}
}

func TestTerminalPresent(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	transparent := color.NRGBA{G: 255}

	d, screen := newTestTerminal(t, 2, 2, false)
	buf := newPixelBuffer(2, 3)
	buf.set(0, 0, red)
	buf.set(0, 1, blue)
	buf.set(1, 0, transparent)
	buf.set(1, 1, white)
	buf.set(0, 2, white)
	buf.set(1, 2, red)
	d.Present(buf)

	tests := []struct {
		x, y   int
		fg, bg color.NRGBA
	}{
		{0, 0, red, blue},
		{1, 0, terminalBackground, white},
		{0, 1, white, terminalBackground},
		{1, 1, red, terminalBackground},
	}
	for _, tt := range tests {
		r, _, style, _ := screen.GetContent(tt.x, tt.y)
		if r != upperHalfBlock {
			t.Errorf("cell (%d, %d) rune = %q, want %q", tt.x, tt.y, r, upperHalfBlock)
		}
		fg, bg, _ := style.Decompose()
		if fg != toTCellColor(tt.fg) || bg != toTCellColor(tt.bg) {
			t.Errorf("cell (%d, %d) colors = %v/%v, want %v/%v", tt.x, tt.y, fg, bg, tt.fg, tt.bg)
		}
	}
}

func TestTerminalDrawTextClips(t *testing.T) {
	d, screen := newTestTerminal(t, 3, 1, false)
	d.drawText(1, 0, "abc")
	for x, want := range []rune{' ', 'a', 'b'} {
		if r, _, _, _ := screen.GetContent(x, 0); r != want {
			t.Errorf("cell %d = %q, want %q", x, r, want)
		}
	}
}

func TestPumpEventsStopsWhenDone(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	done := make(chan struct{})
	events := pumpEvents(screen, done, 0)

	// Nobody reads this event, so the pump is left blocked on the send.
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	time.Sleep(10 * time.Millisecond)
	close(done)
	screen.Fini()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event pump still running after done")
		}
	}
}

func TestBlendOver(t *testing.T) {
	bg := color.NRGBA{R: 0, G: 0, B: 200, A: 255}
	tests := []struct {
		c, want color.NRGBA
	}{
		{color.NRGBA{R: 10, G: 20, B: 30, A: 255}, color.NRGBA{R: 10, G: 20, B: 30, A: 255}},
		{color.NRGBA{R: 255, G: 255, B: 255, A: 0}, bg},
		{color.NRGBA{R: 255, G: 0, B: 0, A: 128}, color.NRGBA{R: 128, G: 0, B: 100, A: 255}},
	}
	for _, tt := range tests {
		if got := blendOver(tt.c, bg); got != tt.want {
			t.Errorf("blendOver(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}
