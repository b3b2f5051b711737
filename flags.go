package main

import (
	"flag"
	"fmt"
	"image/color"
	"runtime"
	"strings"

	css "github.com/mazznoer/csscolorparser"
)

// Command-line flags controlling the ripple look, the image source, and the
// frame driver. They are read once by configFromFlags; nothing else touches
// them.
var (
	// imageFlag names the initial image: a local path or an http(s) URL.
	imageFlag = flag.String("image", defaultImageURL, "image file path or http(s) URL to ripple")

	amplitudeFlag = flag.Float64("amplitude", defaultAmplitude, "displacement magnitude in normalized units")
	frequencyFlag = flag.Float64("frequency", defaultFrequency, "oscillation rate of the ripple")
	decayFlag     = flag.Float64("decay", defaultDecay, "exponential damping rate of the ripple")
	speedFlag     = flag.Float64("speed", defaultSpeed, "propagation speed in normalized units per second")

	// maxDimFlag caps the longer edge of the output buffer at load time.
	maxDimFlag = flag.Int("max-dim", maxDimension, "longest output edge in pixels; larger images are scaled down")

	// backendFlag selects the per-pixel evaluator.
	backendFlag = flag.String("backend", "cpu", "frame backend: 'cpu' or 'opencl' (requires -tags opencl)")

	// displayFlag selects the frame driver and display surface.
	displayFlag = flag.String("display", "window", "display surface: 'window' or 'terminal'")

	workersFlag = flag.Int("workers", 0, "row-band workers for the cpu backend (0 = one per CPU)")

	// debugFlag enables the FPS and frame-time overlay.
	debugFlag = flag.Bool("debug", false, "show FPS, frame time, and origin overlay")

	backgroundFlag = flag.String("background", defaultBackground, "CSS color shown while no image is ready")

	// resetOnLeaveFlag returns the origin to the centre when the pointer
	// leaves the surface instead of keeping the last position.
	resetOnLeaveFlag = flag.Bool("reset-origin-on-leave", false, "recentre the ripple origin when the pointer leaves")

	cpuProfileFlag    = flag.String("cpuprofile", "", "write a CPU profile to this file")
	windowScaleFlag   = flag.Int("window-scale", defaultWindowScale, "integer window scale for the output buffer")
	screenshotDirFlag = flag.String("screenshot-dir", ".", "directory for F12 screenshots")
)

// appConfig is the validated form of the command line.
type appConfig struct {
	params        rippleParams
	maxDim        int
	image         string
	backend       string
	display       string
	workers       int
	debug         bool
	background    color.NRGBA
	resetOnLeave  bool
	cpuProfile    string
	windowScale   int
	screenshotDir string
}

// configFromFlags validates the parsed flags.
func configFromFlags() (appConfig, error) {
	cfg := appConfig{
		params: rippleParams{
			amplitude: *amplitudeFlag,
			frequency: *frequencyFlag,
			decay:     *decayFlag,
			speed:     *speedFlag,
		},
		maxDim:        *maxDimFlag,
		image:         strings.TrimSpace(*imageFlag),
		backend:       strings.ToLower(*backendFlag),
		display:       strings.ToLower(*displayFlag),
		workers:       *workersFlag,
		debug:         *debugFlag,
		resetOnLeave:  *resetOnLeaveFlag,
		cpuProfile:    *cpuProfileFlag,
		windowScale:   *windowScaleFlag,
		screenshotDir: *screenshotDirFlag,
	}
	bg, err := parseColor(*backgroundFlag)
	if err != nil {
		return appConfig{}, fmt.Errorf("-background: %w", err)
	}
	cfg.background = bg
	if err := cfg.validate(); err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}

func (c *appConfig) validate() error {
	if c.maxDim < 1 {
		return fmt.Errorf("-max-dim must be positive, got %d", c.maxDim)
	}
	if c.params.speed < 0 {
		return fmt.Errorf("-speed must not be negative, got %g", c.params.speed)
	}
	if c.params.decay < 0 {
		return fmt.Errorf("-decay must not be negative, got %g", c.params.decay)
	}
	switch c.backend {
	case "cpu", "opencl":
	default:
		return fmt.Errorf("unknown -backend %q (use 'cpu' or 'opencl')", c.backend)
	}
	switch c.display {
	case "window", "terminal":
	default:
		return fmt.Errorf("unknown -display %q (use 'window' or 'terminal')", c.display)
	}
	if c.workers < 1 {
		c.workers = runtime.NumCPU()
	}
	if c.windowScale < 1 {
		c.windowScale = 1
	}
	return nil
}

// parseColor accepts any CSS color string ("#334", "rebeccapurple",
// "hsl(200, 40%, 20%)") and returns it as non-premultiplied RGBA.
func parseColor(str string) (color.NRGBA, error) {
	c, err := css.Parse(str)
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{
		R: uint8(255 * c.R),
		G: uint8(255 * c.G),
		B: uint8(255 * c.B),
		A: uint8(255 * c.A),
	}, nil
}
