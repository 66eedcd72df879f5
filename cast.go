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

// NewBitDepthCast returns a kernel which converts packed RGBA pixels from
// bit depth src to bit depth dst.  Every value is multiplied by
// dst.MaxValue()/src.MaxValue() and then rounded and clamped as described
// for [CastAndClamp].
func NewBitDepthCast(src, dst BitDepth) (Kernel, error) {
	if err := checkBoundary(src); err != nil {
		return nil, err
	}
	if err := checkBoundary(dst); err != nil {
		return nil, err
	}
	if src == BitDepthF32 && dst == BitDepthF32 {
		return copyCast{}, nil
	}
	if k := newDirectCast(src, dst); k != nil {
		return k, nil
	}
	switch src.info().storage {
	case sampleU8:
		return newCastFrom[uint8](src, dst), nil
	case sampleU16:
		return newCastFrom[uint16](src, dst), nil
	default:
		return newCastFrom[float32](src, dst), nil
	}
}

func newCastFrom[In Sample](src, dst BitDepth) Kernel {
	switch dst.info().storage {
	case sampleU8:
		return newCast[In, uint8](src, dst)
	case sampleU16:
		return newCast[In, uint16](src, dst)
	default:
		return newCast[In, float32](src, dst)
	}
}

// unsignedSample is the set of storage types of integer bit depths.
type unsignedSample interface {
	uint8 | uint16
}

// newDirectCast returns a cast kernel whose inner loop converts values
// without calling through function values.  It returns nil if src or
// dst is a half float bit depth; these use [bitDepthCast].
func newDirectCast(src, dst BitDepth) Kernel {
	if src == BitDepthF16 || dst == BitDepthF16 {
		return nil
	}
	scale := float32(dst.MaxValue() / src.MaxValue())
	hi := float32(dst.MaxValue())
	in8 := src.info().storage == sampleU8
	out8 := dst.info().storage == sampleU8
	switch {
	case src == BitDepthF32 && out8:
		return &floatToIntCast[uint8]{scale: scale, hi: hi}
	case src == BitDepthF32:
		return &floatToIntCast[uint16]{scale: scale, hi: hi}
	case dst == BitDepthF32 && in8:
		return &intToFloatCast[uint8]{scale: scale}
	case dst == BitDepthF32:
		return &intToFloatCast[uint16]{scale: scale}
	case in8 && out8:
		return &intCast[uint8, uint8]{scale: scale, hi: hi}
	case in8:
		return &intCast[uint8, uint16]{scale: scale, hi: hi}
	case out8:
		return &intCast[uint16, uint8]{scale: scale, hi: hi}
	default:
		return &intCast[uint16, uint16]{scale: scale, hi: hi}
	}
}

type intToFloatCast[In unsignedSample] struct {
	staticKernel
	scale float32
}

func (c *intToFloatCast[In]) ApplyBuffer(in, out Buffer, numPixels int) {
	src := samples[In](in)[:4*numPixels]
	dst := out.F32[:4*numPixels]
	for i, v := range src {
		dst[i] = float32(v) * c.scale
	}
}

type floatToIntCast[Out unsignedSample] struct {
	staticKernel
	scale, hi float32
}

func (c *floatToIntCast[Out]) ApplyBuffer(in, out Buffer, numPixels int) {
	src := in.F32[:4*numPixels]
	dst := samples[Out](out)[:4*numPixels]
	for i, v := range src {
		dst[i] = Out(clampRound(v*c.scale, c.hi))
	}
}

type intCast[In, Out unsignedSample] struct {
	staticKernel
	scale, hi float32
}

func (c *intCast[In, Out]) ApplyBuffer(in, out Buffer, numPixels int) {
	src := samples[In](in)[:4*numPixels]
	dst := samples[Out](out)[:4*numPixels]
	for i, v := range src {
		dst[i] = Out(clampRound(float32(v)*c.scale, c.hi))
	}
}

// bitDepthCast converts between arbitrary bit depths, including half
// floats.
type bitDepthCast[In, Out Sample] struct {
	staticKernel
	scale float32
	load  func(In) float32
	store func(float32) Out
}

func newCast[In, Out Sample](src, dst BitDepth) *bitDepthCast[In, Out] {
	return &bitDepthCast[In, Out]{
		scale: float32(dst.MaxValue() / src.MaxValue()),
		load:  loader[In](src),
		store: storer[Out](dst),
	}
}

func (c *bitDepthCast[In, Out]) ApplyBuffer(in, out Buffer, numPixels int) {
	src := samples[In](in)[:4*numPixels]
	dst := samples[Out](out)[:4*numPixels]
	for i, v := range src {
		dst[i] = c.store(c.load(v) * c.scale)
	}
}

// copyCast is the f32 to f32 cast.
type copyCast struct {
	staticKernel
}

func (copyCast) ApplyBuffer(in, out Buffer, numPixels int) {
	n := 4 * numPixels
	if sameStart(in.F32[:n], out.F32[:n]) {
		return
	}
	copy(out.F32[:n], in.F32[:n])
}
