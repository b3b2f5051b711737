//go:build !opencl

package main

import "errors"

type openCLRippleRenderer struct{}

func newOpenCLRippleRenderer() (*openCLRippleRenderer, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (r *openCLRippleRenderer) Render(frameInputs, *pixelBuffer) error {
	return errors.New("OpenCL renderer unavailable")
}

func (r *openCLRippleRenderer) Name() string { return "opencl" }

func (r *openCLRippleRenderer) Close() {}

func (r *openCLRippleRenderer) DeviceName() string { return "" }
