package main

import "time"

// Ripple, sizing, and driver configuration constants used throughout the
// application. The ripple defaults reproduce the look of the classic
// "shader toy" ripple: a short, fast-decaying ring that restarts every
// two seconds.
const (
	defaultAmplitude = 0.05
	defaultFrequency = 15.0
	defaultDecay     = 8.0
	defaultSpeed     = 2.0

	// timeScale and the unit modulus in effectiveTime make the visible
	// phase loop every 1/timeScale seconds.
	timeScale = 0.5

	originEpsilon    = 1e-5
	colorAdjustScale = 0.3

	defaultOriginX = 0.5
	defaultOriginY = 0.5

	maxDimension = 600

	idleWidth, idleHeight = 600, 400
	defaultWindowScale    = 1
	defaultTPS            = 60.0

	defaultBackground = "#101018"
	defaultImageURL   = "https://picsum.photos/seed/shadertoyripple/600/400"

	imageFetchTimeout     = 15 * time.Second
	maxImageBytes         = 64 << 20
	loadQueueDepth        = 4
	loadNoticeDuration    = 5 * time.Second
	terminalFrameInterval = time.Second / 30
	terminalEventQueue    = 100
	frameTimeSmoothing    = 0.1
	screenshotPrefix      = "ripple"
)
