package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"
)

// selectRenderer builds the backend named by cfg, falling back to the cpu
// backend when OpenCL cannot start.
func selectRenderer(cfg appConfig) frameRenderer {
	if cfg.backend == "opencl" {
		r, err := newOpenCLRippleRenderer()
		if err == nil {
			log.Printf("OpenCL renderer enabled (device: %s)", r.DeviceName())
			return r
		}
		log.Printf("OpenCL initialization failed, using cpu: %v", err)
	}
	return newCPURenderer(cfg.workers)
}

// loadInitialImage starts loading the -image argument, or shows the
// placeholder right away when none was given.
func loadInitialImage(app *rippleApp, arg string) {
	if arg == "" {
		app.loadImage(placeholderBuffer())
		return
	}
	app.requestLoad(sourceFor(arg))
}

func main() {
	flag.Parse()
	cfg, err := configFromFlags()
	if err != nil {
		log.Fatalf("invalid flags: %v", err)
	}

	if cfg.cpuProfile != "" {
		stop, err := startCPUProfile(cfg.cpuProfile)
		if err != nil {
			log.Fatalf("starting CPU profile: %v", err)
		}
		defer stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := newRippleApp(ctx, cfg.params, cfg.maxDim, selectRenderer(cfg))
	defer app.close()

	switch cfg.display {
	case "terminal":
		loadInitialImage(app, cfg.image)
		if err := runTerminal(app, cfg); err != nil {
			log.Fatalf("terminal: %v", err)
		}
	default:
		initClipboard()
		ebiten.SetVsyncEnabled(true)
		ebiten.SetTPS(int(defaultTPS))
		ebiten.SetWindowSize(idleWidth*cfg.windowScale, idleHeight*cfg.windowScale)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		ebiten.SetWindowTitle("Ripple")
		d := newWindowDriver(app, cfg)
		loadInitialImage(app, cfg.image)
		if err := ebiten.RunGame(d); err != nil {
			log.Fatalf("%v", err)
		}
	}
}
