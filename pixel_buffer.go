package main

import (
	"image"
	"image/color"
	"image/draw"
)

// pixelBuffer is a row-major RGBA8 raster with non-premultiplied alpha. The
// same type backs the source image and the output frame.
type pixelBuffer struct {
	width, height int
	pix           []byte
}

// newPixelBuffer allocates a zeroed buffer of the given size.
func newPixelBuffer(width, height int) *pixelBuffer {
	return &pixelBuffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
	}
}

// pixelBufferFromImage copies any decoded image into a tightly packed
// buffer, converting to non-premultiplied RGBA.
func pixelBufferFromImage(img image.Image) *pixelBuffer {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &pixelBuffer{width: b.Dx(), height: b.Dy(), pix: dst.Pix}
}

// at returns the pixel at (x, y). Callers guarantee the coordinates are in
// bounds.
func (b *pixelBuffer) at(x, y int) color.NRGBA {
	i := (y*b.width + x) * 4
	p := b.pix[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func (b *pixelBuffer) set(x, y int, c color.NRGBA) {
	i := (y*b.width + x) * 4
	p := b.pix[i : i+4 : i+4]
	p[0] = c.R
	p[1] = c.G
	p[2] = c.B
	p[3] = c.A
}

// sameSize reports whether b is non-nil and has the given dimensions.
func (b *pixelBuffer) sameSize(width, height int) bool {
	return b != nil && b.width == width && b.height == height
}

// toImage wraps the pixels as an image.NRGBA without copying.
func (b *pixelBuffer) toImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.pix,
		Stride: b.width * 4,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// premultiplyInto writes src with alpha premultiplied into dst, reusing
// dst's storage when it is large enough.
func premultiplyInto(dst, src []byte) []byte {
	if cap(dst) < len(src) {
		dst = make([]byte, len(src))
	}
	dst = dst[:len(src)]
	for i := 0; i+3 < len(src); i += 4 {
		a := uint32(src[i+3])
		if a == 0xff {
			copy(dst[i:i+4], src[i:i+4])
			continue
		}
		dst[i] = uint8((uint32(src[i])*a + 127) / 255)
		dst[i+1] = uint8((uint32(src[i+1])*a + 127) / 255)
		dst[i+2] = uint8((uint32(src[i+2])*a + 127) / 255)
		dst[i+3] = uint8(a)
	}
	return dst
}
