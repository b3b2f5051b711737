package main

import "math"

// rippleParams holds the constants of the damped radial wave. They are fixed
// for the lifetime of the process.
type rippleParams struct {
	amplitude float64
	frequency float64
	decay     float64
	speed     float64
}

// defaultRippleParams returns the classic ripple look.
func defaultRippleParams() rippleParams {
	return rippleParams{
		amplitude: defaultAmplitude,
		frequency: defaultFrequency,
		decay:     defaultDecay,
		speed:     defaultSpeed,
	}
}

// rippleOrigin is the wave source in coordinates normalized against the
// output buffer.
type rippleOrigin struct {
	x, y float64
}

func centerOrigin() rippleOrigin {
	return rippleOrigin{x: defaultOriginX, y: defaultOriginY}
}

// rippleSample is the field value at one pixel: a signed displacement
// amount along the unit vector (dirX, dirY) pointing away from the origin.
type rippleSample struct {
	amount     float64
	dirX, dirY float64
}

// effectiveTime folds elapsed seconds into the looping wave cycle. The ring
// restarts from the origin every 1/timeScale seconds; this is the intended
// animation, not a single ever-growing ripple.
func effectiveTime(t float64) float64 {
	return fract(t * timeScale)
}

// evaluate computes the field at normalized pixel position (px, py) at
// elapsed time t. aspect is displayHeight/displayWidth and is applied to the
// y axis so distances are measured on a square plane.
func (p rippleParams) evaluate(t float64, origin rippleOrigin, aspect, px, py float64) rippleSample {
	return p.evaluateAt(effectiveTime(t), origin.x, origin.y*aspect, px, py*aspect)
}

// evaluateAt is evaluate with the cycle time and the aspect-corrected
// positions already computed, so per-frame invariants can be hoisted out of
// the pixel loop.
func (p rippleParams) evaluateAt(cycle, ox, oy, x, y float64) rippleSample {
	dx := x - ox
	dy := y - oy
	distance := math.Sqrt(dx*dx + dy*dy)

	delay := math.Inf(1)
	if p.speed > 0 {
		delay = distance / p.speed
	}
	local := max(0, cycle-delay)

	var s rippleSample
	if local > 0 {
		wave := math.Sin(p.frequency*local) * math.Exp(-p.decay*local)
		s.amount = p.amplitude * wave
	}
	if distance > originEpsilon {
		s.dirX = dx / distance
		s.dirY = dy / distance
	}
	return s
}

// sampleCoord displaces the un-corrected pixel position (px, py) by the
// field and returns the normalized source coordinate to sample. Displacement
// happens in aspect-corrected space; only the y offset needs undoing, which
// keeps an undisplaced pixel's coordinate exact.
func (s rippleSample) sampleCoord(px, py, aspect float64) (float64, float64) {
	u := px + s.amount*s.dirX
	dy := s.amount * s.dirY
	if aspect > 0 {
		dy /= aspect
	}
	return u, py + dy
}
