package main

import (
	"image/color"
	"math"
)

// sampleNearest returns the source pixel nearest to the normalized
// coordinate (u, v). Coordinates outside [0,1] are clamped to the edge
// pixels, so any finite or infinite input yields an in-bounds read.
func sampleNearest(buf *pixelBuffer, u, v float64) color.NRGBA {
	return buf.at(sampleIndex(u, buf.width), sampleIndex(v, buf.height))
}

// sampleIndex maps a normalized coordinate onto [0, n-1]. Clamping happens
// in float space so huge values cannot overflow the int conversion.
func sampleIndex(u float64, n int) int {
	f := math.Floor(u * float64(n))
	if math.IsNaN(f) {
		return 0
	}
	return int(clamp(f, 0, float64(n-1)))
}
