//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// openCLRippleRenderer evaluates the ripple with one work item per output
// pixel. It computes in single precision, so its output may differ from the
// cpu backend by a rounding step on a few pixels.
type openCLRippleRenderer struct {
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kernel  *cl.Kernel

	srcBuf  *cl.MemObject
	dstBuf  *cl.MemObject
	srcSize int
	dstSize int

	// source is the buffer last uploaded to srcBuf.
	source *pixelBuffer

	deviceName string
}

const rippleKernelSource = `__kernel void ripple_frame(
    const int src_w,
    const int src_h,
    const int dst_w,
    const int dst_h,
    const float cycle,
    const float origin_x,
    const float origin_y,
    const float amplitude,
    const float frequency,
    const float decay,
    const float speed,
    __global const uchar* src,
    __global uchar* dst)
{
    int idx = get_global_id(0);
    if (idx >= dst_w * dst_h) {
        return;
    }
    int x = idx % dst_w;
    int y = idx / dst_w;
    float aspect = (float)dst_h / (float)dst_w;
    float px = (float)x / (float)dst_w;
    float py = (float)y / (float)dst_h;

    float dx = px - origin_x;
    float dy = py * aspect - origin_y * aspect;
    float distance = sqrt(dx * dx + dy * dy);
    float local_time = 0.0f;
    if (speed > 0.0f) {
        local_time = fmax(0.0f, cycle - distance / speed);
    }
    float amount = amplitude * sin(frequency * local_time) * exp(-decay * local_time);
    float dir_x = 0.0f;
    float dir_y = 0.0f;
    if (distance > 1e-5f) {
        dir_x = dx / distance;
        dir_y = dy / distance;
    }
    float u = px + amount * dir_x;
    float v = py + (aspect > 0.0f ? amount * dir_y / aspect : amount * dir_y);

    int sx = (int)clamp(floor(u * (float)src_w), 0.0f, (float)(src_w - 1));
    int sy = (int)clamp(floor(v * (float)src_h), 0.0f, (float)(src_h - 1));
    int s = (sy * src_w + sx) * 4;
    int d = idx * 4;

    float adjust = 0.0f;
    if (amplitude != 0.0f) {
        adjust = 0.3f * (amount / amplitude) * 255.0f;
    }
    dst[d] = (uchar)rint(clamp((float)src[s] + adjust, 0.0f, 255.0f));
    dst[d + 1] = (uchar)rint(clamp((float)src[s + 1] + adjust, 0.0f, 255.0f));
    dst[d + 2] = (uchar)rint(clamp((float)src[s + 2] + adjust, 0.0f, 255.0f));
    dst[d + 3] = src[s + 3];
}`

func newOpenCLRippleRenderer() (*openCLRippleRenderer, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	device := firstDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = firstDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	r := &openCLRippleRenderer{deviceName: device.Name()}
	if r.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if r.queue, err = r.context.CreateCommandQueue(device, 0); err != nil {
		r.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if r.program, err = r.context.CreateProgramWithSource([]string{rippleKernelSource}); err != nil {
		r.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := r.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		r.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if r.kernel, err = r.program.CreateKernel("ripple_frame"); err != nil {
		r.Close()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	return r, nil
}

func firstDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

// ensureBuffer returns buf if it already holds size bytes and otherwise
// replaces it.
func (r *openCLRippleRenderer) ensureBuffer(buf *cl.MemObject, have *int, size int, flags cl.MemFlag) (*cl.MemObject, error) {
	if buf != nil && *have == size {
		return buf, nil
	}
	if buf != nil {
		buf.Release()
	}
	next, err := r.context.CreateEmptyBuffer(flags, size)
	if err != nil {
		*have = 0
		return nil, err
	}
	*have = size
	return next, nil
}

// Render uploads the source when it changed, runs the kernel, and reads the
// frame back into dst.
func (r *openCLRippleRenderer) Render(in frameInputs, dst *pixelBuffer) error {
	src := in.source
	if src == nil || len(dst.pix) == 0 {
		return nil
	}
	var err error
	if r.srcBuf, err = r.ensureBuffer(r.srcBuf, &r.srcSize, len(src.pix), cl.MemReadOnly); err != nil {
		return fmt.Errorf("allocating source buffer: %w", err)
	}
	if r.dstBuf, err = r.ensureBuffer(r.dstBuf, &r.dstSize, len(dst.pix), cl.MemWriteOnly); err != nil {
		return fmt.Errorf("allocating output buffer: %w", err)
	}
	if r.source != src {
		if _, err := r.queue.EnqueueWriteBuffer(r.srcBuf, true, 0, len(src.pix), unsafe.Pointer(&src.pix[0]), nil); err != nil {
			return fmt.Errorf("writing source buffer: %w", err)
		}
		r.source = src
	}
	p := in.params
	if err := r.kernel.SetArgs(
		int32(src.width),
		int32(src.height),
		int32(dst.width),
		int32(dst.height),
		float32(effectiveTime(in.elapsed)),
		float32(in.origin.x),
		float32(in.origin.y),
		float32(p.amplitude),
		float32(p.frequency),
		float32(p.decay),
		float32(p.speed),
		r.srcBuf,
		r.dstBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	global := []int{dst.width * dst.height}
	if _, err := r.queue.EnqueueNDRangeKernel(r.kernel, nil, global, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	if _, err := r.queue.EnqueueReadBuffer(r.dstBuf, true, 0, len(dst.pix), unsafe.Pointer(&dst.pix[0]), nil); err != nil {
		return fmt.Errorf("reading output buffer: %w", err)
	}
	return nil
}

func (r *openCLRippleRenderer) Name() string { return "opencl" }

func (r *openCLRippleRenderer) Close() {
	if r.dstBuf != nil {
		r.dstBuf.Release()
		r.dstBuf = nil
	}
	if r.srcBuf != nil {
		r.srcBuf.Release()
		r.srcBuf = nil
	}
	if r.kernel != nil {
		r.kernel.Release()
		r.kernel = nil
	}
	if r.program != nil {
		r.program.Release()
		r.program = nil
	}
	if r.queue != nil {
		r.queue.Release()
		r.queue = nil
	}
	if r.context != nil {
		r.context.Release()
		r.context = nil
	}
}

func (r *openCLRippleRenderer) DeviceName() string {
	return r.deviceName
}
