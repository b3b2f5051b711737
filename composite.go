package main

import (
	"image/color"
	"math"
)

// composite brightens or darkens a sampled color in proportion to the local
// wave value: crests lighten, troughs darken, by at most colorAdjustScale of
// full range. Alpha passes through.
func composite(c color.NRGBA, amount, amplitude float64) color.NRGBA {
	if amplitude == 0 {
		return c
	}
	adjust := colorAdjustScale * (amount / amplitude) * 255
	if adjust == 0 {
		return c
	}
	c.R = shiftChannel(c.R, adjust)
	c.G = shiftChannel(c.G, adjust)
	c.B = shiftChannel(c.B, adjust)
	return c
}

// shiftChannel adds delta to v and saturates, rounding half to even like a
// clamped byte canvas.
func shiftChannel(v uint8, delta float64) uint8 {
	f := clamp(float64(v)+delta, 0, 255)
	if math.IsNaN(f) {
		return v
	}
	return uint8(math.RoundToEven(f))
}
