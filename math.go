package main

import (
	"math"

	"golang.org/x/exp/constraints"
)

// clamp constrains v to lie within the inclusive [lo, hi] range.
func clamp[N constraints.Integer | constraints.Float](v, lo, hi N) N {
	v = min(v, hi)
	v = max(v, lo)
	return v
}

// fract returns the fractional part of v in [0, 1), also for negative v.
func fract(v float64) float64 {
	f := v - math.Floor(v)
	if f >= 1 {
		return 0
	}
	return f
}

// fitDimensions scales (w, h) down so that neither edge exceeds limit while
// keeping the aspect ratio. Images already within the limit are unchanged.
func fitDimensions(w, h, limit int) (int, int) {
	if w < 1 || h < 1 {
		return max(w, 1), max(h, 1)
	}
	if w <= limit && h <= limit {
		return w, h
	}
	aspect := float64(w) / float64(h)
	fw, fh := float64(w), float64(h)
	if aspect > 1 {
		fw = float64(limit)
		fh = float64(limit) / aspect
	} else {
		fh = float64(limit)
		fw = float64(limit) * aspect
	}
	return max(int(math.Round(fw)), 1), max(int(math.Round(fh)), 1)
}
