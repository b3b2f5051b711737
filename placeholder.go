package main

import (
	_ "embed"
	"image/color"
)

//go:embed assets/placeholder.png
var placeholderPNG []byte

// placeholderBuffer is the image shown when loading fails. It never fails
// itself: if the embedded PNG cannot be decoded a single grey pixel is used.
func placeholderBuffer() *pixelBuffer {
	if buf, err := decodeImage(placeholderPNG); err == nil {
		return buf
	}
	buf := newPixelBuffer(1, 1)
	buf.set(0, 0, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	return buf
}
