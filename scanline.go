// seehuhn.de/go/colorproc - colour processing on the CPU
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package colorproc

// imageView gives typed access to the samples of an image.
type imageView[T Sample] struct {
	width, height    int
	xStride, yStride int    // in samples
	ch               [4][]T // R, G, B, A; A is nil if absent
	start            [4]int
	packedRGBA       bool
	float            bool
}

func newImageView[T Sample](img ImageDesc, bd BitDepth) (*imageView[T], error) {
	var l *imageLayout
	if img != nil {
		l = img.layout()
	}
	if l == nil || l.width == 0 {
		return nil, errorf(ErrNullBuffer, "missing image descriptor")
	}
	if l.bitDepth != bd {
		return nil, errorf(ErrBitDepthMismatch,
			"image bit-depth %s does not match processor bit-depth %s", l.bitDepth, bd)
	}
	v := &imageView[T]{
		width:      l.width,
		height:     l.height,
		xStride:    l.xStride,
		yStride:    l.yStride,
		start:      l.start,
		packedRGBA: l.packedRGBA,
		float:      l.float,
	}
	for k := range 3 {
		v.ch[k] = samples[T](l.planes[k])
	}
	if l.hasAlpha {
		v.ch[3] = samples[T](l.planes[3])
	}
	return v, nil
}

// line returns the samples of line y of a packed RGBA image.
func (v *imageView[T]) line(y int) []T {
	i := v.start[0] + y*v.yStride
	return v.ch[0][i : i+4*v.width]
}

// gather copies line y into buf as packed RGBA.  Missing alpha is set
// to zero.
func (v *imageView[T]) gather(y int, buf []T) {
	off := y * v.yStride
	r, g, b, a := v.start[0]+off, v.start[1]+off, v.start[2]+off, v.start[3]+off
	R, G, B, A := v.ch[0], v.ch[1], v.ch[2], v.ch[3]
	xs := v.xStride
	for x := range v.width {
		buf[4*x] = R[r]
		buf[4*x+1] = G[g]
		buf[4*x+2] = B[b]
		if A != nil {
			buf[4*x+3] = A[a]
			a += xs
		} else {
			buf[4*x+3] = 0
		}
		r += xs
		g += xs
		b += xs
	}
}

// scatter copies packed RGBA samples from buf into line y.  Alpha is
// dropped if the image has no alpha channel.
func (v *imageView[T]) scatter(y int, buf []T) {
	off := y * v.yStride
	r, g, b, a := v.start[0]+off, v.start[1]+off, v.start[2]+off, v.start[3]+off
	R, G, B, A := v.ch[0], v.ch[1], v.ch[2], v.ch[3]
	xs := v.xStride
	for x := range v.width {
		R[r] = buf[4*x]
		G[g] = buf[4*x+1]
		B[b] = buf[4*x+2]
		if A != nil {
			A[a] = buf[4*x+3]
			a += xs
		}
		r += xs
		g += xs
		b += xs
	}
}

// optimization describes how a scanline helper accesses an image.
type optimization int

const (
	optimNone        optimization = iota // gather or scatter through a work buffer
	optimPacked                          // access packed RGBA lines directly
	optimPackedFloat                     // packed RGBA with float32 samples
)

func optimizationOf[T Sample](v *imageView[T]) optimization {
	switch {
	case v.packedRGBA && v.float:
		return optimPackedFloat
	case v.packedRGBA:
		return optimPacked
	default:
		return optimNone
	}
}

// scanliner is the interface between a CPUProcessor and a scanline
// helper.
type scanliner interface {
	init(src, dst ImageDesc) error

	// prepRGBAScanline converts the next line of the source image to
	// packed RGBA float32 and returns it, together with the number of
	// pixels.  When all lines have been processed, the pixel count is 0.
	prepRGBAScanline() ([]float32, int)

	// finishRGBAScanline writes the line returned by the last call to
	// prepRGBAScanline to the destination image.
	finishRGBAScanline()
}

// scanlineHelper moves image data one line at a time between the
// source and destination images and a packed RGBA float32 buffer.
// A scanlineHelper is used by a single goroutine for a single call to
// Apply.
type scanlineHelper[In, Out Sample] struct {
	inBD, outBD BitDepth
	inOp, outOp Kernel

	src *imageView[In]
	dst *imageView[Out]

	inOptim, outOptim optimization
	useDstBuffer      bool

	inBitDepthBuffer  []In
	rgbaFloatBuffer   []float32
	outBitDepthBuffer []Out

	yIndex int
	buffer []float32
}

func newScanlineHelper[In, Out Sample](inBD, outBD BitDepth, inOp, outOp Kernel) scanliner {
	return &scanlineHelper[In, Out]{
		inBD:  inBD,
		outBD: outBD,
		inOp:  inOp,
		outOp: outOp,
	}
}

func (h *scanlineHelper[In, Out]) init(src, dst ImageDesc) error {
	var err error
	h.src, err = newImageView[In](src, h.inBD)
	if err != nil {
		return err
	}
	h.dst, err = newImageView[Out](dst, h.outBD)
	if err != nil {
		return err
	}
	if h.src.width != h.dst.width || h.src.height != h.dst.height {
		return errorf(ErrInvalidGeometry,
			"image dimensions differ: source is %dx%d, destination is %dx%d",
			h.src.width, h.src.height, h.dst.width, h.dst.height)
	}

	h.inOptim = optimizationOf(h.src)
	h.outOptim = optimizationOf(h.dst)
	h.useDstBuffer = h.outOptim == optimPackedFloat

	n := 4 * h.src.width
	if h.inOptim == optimNone {
		h.inBitDepthBuffer = make([]In, n)
	}
	if !h.useDstBuffer {
		h.rgbaFloatBuffer = make([]float32, n)
	}
	if h.outOptim == optimNone {
		h.outBitDepthBuffer = make([]Out, n)
	}
	h.yIndex = 0
	return nil
}

func (h *scanlineHelper[In, Out]) prepRGBAScanline() ([]float32, int) {
	if h.yIndex >= h.src.height {
		return nil, 0
	}
	w := h.src.width

	if h.useDstBuffer {
		h.buffer = any(h.dst.line(h.yIndex)).([]float32)
	} else {
		h.buffer = h.rgbaFloatBuffer
	}

	var in Buffer
	if h.inOptim == optimNone {
		h.src.gather(h.yIndex, h.inBitDepthBuffer)
		in = BufferOf(h.inBitDepthBuffer)
	} else {
		in = BufferOf(h.src.line(h.yIndex))
	}
	h.inOp.ApplyBuffer(in, Buffer{F32: h.buffer}, w)
	return h.buffer, w
}

func (h *scanlineHelper[In, Out]) finishRGBAScanline() {
	w := h.src.width
	if h.outOptim == optimNone {
		h.outOp.ApplyBuffer(Buffer{F32: h.buffer}, BufferOf(h.outBitDepthBuffer), w)
		h.dst.scatter(h.yIndex, h.outBitDepthBuffer)
	} else {
		h.outOp.ApplyBuffer(Buffer{F32: h.buffer}, BufferOf(h.dst.line(h.yIndex)), w)
	}
	h.yIndex++
}

// scanlineFactory returns a constructor for scanline helpers converting
// between the given bit depths.
func scanlineFactory(inBD, outBD BitDepth, inOp, outOp Kernel) func() scanliner {
	switch inBD.info().storage {
	case sampleU8:
		return scanlineFactoryFrom[uint8](inBD, outBD, inOp, outOp)
	case sampleU16:
		return scanlineFactoryFrom[uint16](inBD, outBD, inOp, outOp)
	default:
		return scanlineFactoryFrom[float32](inBD, outBD, inOp, outOp)
	}
}

func scanlineFactoryFrom[In Sample](inBD, outBD BitDepth, inOp, outOp Kernel) func() scanliner {
	switch outBD.info().storage {
	case sampleU8:
		return func() scanliner { return newScanlineHelper[In, uint8](inBD, outBD, inOp, outOp) }
	case sampleU16:
		return func() scanliner { return newScanlineHelper[In, uint16](inBD, outBD, inOp, outOp) }
	default:
		return func() scanliner { return newScanlineHelper[In, float32](inBD, outBD, inOp, outOp) }
	}
}
