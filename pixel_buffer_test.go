package main

import (
	"image"
	"image/color"
	"testing"
)

func TestPixelBufferFromImageUnpremultiplies(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 12, 21))
	src.SetRGBA(10, 20, color.RGBA{R: 255, A: 255})
	// Half-transparent white in premultiplied form.
	src.SetRGBA(11, 20, color.RGBA{R: 128, G: 128, B: 128, A: 128})

	buf := pixelBufferFromImage(src)
	if buf.width != 2 || buf.height != 1 {
		t.Fatalf("size = %dx%d, want 2x1", buf.width, buf.height)
	}
	if len(buf.pix) != 2*1*4 {
		t.Fatalf("len(pix) = %d, want 8", len(buf.pix))
	}
	if got := buf.at(0, 0); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("at(0,0) = %v, want opaque red", got)
	}
	if got := buf.at(1, 0); got.A != 128 || got.R != 255 {
		t.Errorf("at(1,0) = %v, want straight-alpha white at A=128", got)
	}
}

func TestPixelBufferSetAt(t *testing.T) {
	buf := newPixelBuffer(3, 2)
	c := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	buf.set(2, 1, c)
	if got := buf.at(2, 1); got != c {
		t.Errorf("at(2,1) = %v, want %v", got, c)
	}
	if got := buf.toImage().NRGBAAt(2, 1); got != c {
		t.Errorf("toImage().NRGBAAt(2,1) = %v, want %v", got, c)
	}
	if !buf.sameSize(3, 2) || buf.sameSize(2, 3) {
		t.Errorf("sameSize mismatch for %dx%d buffer", buf.width, buf.height)
	}
	var nilBuf *pixelBuffer
	if nilBuf.sameSize(0, 0) {
		t.Errorf("nil buffer reported a size")
	}
}

func TestPremultiplyInto(t *testing.T) {
	src := []byte{
		200, 100, 50, 255,
		255, 255, 255, 128,
		90, 90, 90, 0,
	}
	got := premultiplyInto(nil, src)
	want := []byte{
		200, 100, 50, 255,
		128, 128, 128, 128,
		0, 0, 0, 0,
	}
	if string(got) != string(want) {
		t.Errorf("premultiplyInto = %v, want %v", got, want)
	}

	reused := premultiplyInto(make([]byte, 0, 64), src[:4])
	if cap(reused) != 64 || len(reused) != 4 {
		t.Errorf("scratch not reused: len %d cap %d", len(reused), cap(reused))
	}
}
