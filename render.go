package main

// frameInputs is everything one frame depends on. renderFrame is a pure
// function of these values and the destination size, so two calls with
// equal inputs produce byte-identical output.
type frameInputs struct {
	elapsed float64
	origin  rippleOrigin
	params  rippleParams
	source  *pixelBuffer
}

// frameRenderer evaluates the ripple for every output pixel.
type frameRenderer interface {
	Render(in frameInputs, dst *pixelBuffer) error
	Name() string
	Close()
}

// renderFrame computes the whole output buffer on the calling goroutine.
func renderFrame(in frameInputs, dst *pixelBuffer) {
	renderRows(in, dst, 0, dst.height)
}

// renderRows fills output rows [y0, y1). Rows are independent: each pixel
// reads only the source buffer and writes only its own output slot.
func renderRows(in frameInputs, dst *pixelBuffer, y0, y1 int) {
	if dst.width == 0 || dst.height == 0 || in.source == nil {
		return
	}
	p := in.params
	cycle := effectiveTime(in.elapsed)
	fw := float64(dst.width)
	fh := float64(dst.height)
	aspect := fh / fw
	ox := in.origin.x
	oy := in.origin.y * aspect

	for y := y0; y < y1; y++ {
		// x/width, not a multiply by 1/width: the former maps pixel x of an
		// equally sized source exactly back onto x.
		py := float64(y) / fh
		pyT := py * aspect
		for x := 0; x < dst.width; x++ {
			px := float64(x) / fw
			s := p.evaluateAt(cycle, ox, oy, px, pyT)
			u, v := s.sampleCoord(px, py, aspect)
			c := sampleNearest(in.source, u, v)
			dst.set(x, y, composite(c, s.amount, p.amplitude))
		}
	}
}
