package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load failures fall into three kinds. All of them end the same way: the
// failure is logged and the placeholder image is shown instead.
var (
	ErrSourceUnavailable = errors.New("image source unavailable")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecodeFailure     = errors.New("image decode failed")
)

// imageSource produces encoded image bytes.
type imageSource interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// sourceFor picks a file or URL source for a command-line argument.
func sourceFor(arg string) imageSource {
	lower := strings.ToLower(arg)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return urlSource{url: arg, client: http.DefaultClient}
	}
	return fileSource{path: arg}
}

type fileSource struct{ path string }

func (s fileSource) Name() string { return s.path }

func (s fileSource) Read(context.Context) ([]byte, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

type urlSource struct {
	url    string
	client *http.Client
}

func (s urlSource) Name() string { return s.url }

func (s urlSource) Read(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, imageFetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return readLimited(resp.Body)
}

// readLimited reads all of r, refusing anything over maxImageBytes.
func readLimited(r io.Reader) ([]byte, error) {
	return readAtMost(r, maxImageBytes)
}

func readAtMost(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrSourceUnavailable, limit)
	}
	return data, nil
}

// fsSource reads one file out of a filesystem, such as the set of files
// dropped onto the window.
type fsSource struct {
	fsys fs.FS
	name string
}

func (s fsSource) Name() string { return s.name }

func (s fsSource) Read(context.Context) ([]byte, error) {
	f, err := s.fsys.Open(s.name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

// loadSource reads and decodes src, wrapping failures in the matching
// error kind.
func loadSource(ctx context.Context, src imageSource) (*pixelBuffer, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, src.Name(), err)
	}
	buf, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}
	return buf, nil
}

// decodeImage turns encoded bytes into a pixel buffer. Any format
// registered with the image package is accepted.
func decodeImage(data []byte) (*pixelBuffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrDecodeFailure)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("%w: %s image is %dx%d", ErrDecodeFailure, format, b.Dx(), b.Dy())
	}
	return pixelBufferFromImage(img), nil
}

// loadResult is what a background load hands back to the frame driver.
type loadResult struct {
	gen  uint64
	name string
	buf  *pixelBuffer
	err  error
}

// imageLoader decodes images off the frame goroutine. Only the newest
// request counts: starting a load cancels the previous one and poll drops
// results from superseded generations.
type imageLoader struct {
	ctx     context.Context
	results chan loadResult
	gen     uint64
	cancel  context.CancelFunc
}

func newImageLoader(ctx context.Context) *imageLoader {
	return &imageLoader{
		ctx:     ctx,
		results: make(chan loadResult, loadQueueDepth),
	}
}

// request starts loading src and returns its generation.
func (l *imageLoader) request(src imageSource) uint64 {
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(l.ctx)
	l.cancel = cancel
	l.gen++
	gen := l.gen
	go func() {
		buf, err := loadSource(ctx, src)
		select {
		case l.results <- loadResult{gen: gen, name: src.Name(), buf: buf, err: err}:
		case <-ctx.Done():
		}
	}()
	return gen
}

// poll returns the result of the current request if it has finished.
func (l *imageLoader) poll() (loadResult, bool) {
	for {
		select {
		case r := <-l.results:
			if r.gen != l.gen {
				continue
			}
			return r, true
		default:
			return loadResult{}, false
		}
	}
}

// close cancels any load still in flight.
func (l *imageLoader) close() {
	if l.cancel != nil {
		l.cancel()
	}
}
