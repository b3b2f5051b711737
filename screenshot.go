package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// saveScreenshot writes buf as a PNG into dir under a timestamped name,
// adding a counter when the name is already taken. It returns the path.
func saveScreenshot(dir string, buf *pixelBuffer) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	name := filepath.Join(dir, fmt.Sprintf("%s-%s.png", screenshotPrefix, stamp))
	for n := 2; ; n++ {
		if _, err := os.Stat(name); err != nil {
			break
		}
		name = filepath.Join(dir, fmt.Sprintf("%s-%s-(%d).png", screenshotPrefix, stamp, n))
	}

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, buf.toImage()); err != nil {
		return "", fmt.Errorf("encoding screenshot: %w", err)
	}
	if err := os.WriteFile(name, encoded.Bytes(), 0o644); err != nil {
		return "", err
	}
	return name, nil
}
