package main

import (
	"bytes"
	"image/png"
	"os"
	"testing"
)

func TestSaveScreenshot(t *testing.T) {
	dir := t.TempDir()
	buf := gradientBuffer(6, 4)

	first, err := saveScreenshot(dir, buf)
	if err != nil {
		t.Fatalf("saveScreenshot: %v", err)
	}
	second, err := saveScreenshot(dir, buf)
	if err != nil {
		t.Fatalf("second saveScreenshot: %v", err)
	}
	if first == second {
		t.Errorf("both screenshots written to %s", first)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("reading screenshot: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding screenshot: %v", err)
	}
	got := pixelBufferFromImage(img)
	if !bytes.Equal(got.pix, buf.pix) {
		t.Errorf("screenshot pixels differ from the frame")
	}
}
