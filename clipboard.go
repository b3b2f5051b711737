package main

import (
	"context"
	"errors"

	"golang.design/x/clipboard"
)

var theClipboard struct {
	initialized bool
}

// initClipboard prepares clipboard access. Without a clipboard (headless
// sessions, missing X11) pasting reports an unavailable source.
func initClipboard() {
	err := clipboard.Init()
	theClipboard.initialized = err == nil
	if err != nil {
		infoLogger.Printf("clipboard disabled: %v", err)
	}
}

// clipboardSource reads an image from the system clipboard.
type clipboardSource struct{}

func (clipboardSource) Name() string { return "clipboard" }

func (clipboardSource) Read(context.Context) ([]byte, error) {
	if !theClipboard.initialized {
		return nil, errors.New("clipboard not available")
	}
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil, errors.New("clipboard holds no image")
	}
	return data, nil
}
