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

import (
	"fmt"
	"math"
	"math/bits"
)

// ChannelOrdering describes the order of the channels within a pixel of a
// packed image.
type ChannelOrdering int

// These are the supported channel orderings.
const (
	ChannelOrderingRGBA ChannelOrdering = iota
	ChannelOrderingBGRA
	ChannelOrderingABGR
	ChannelOrderingRGB
	ChannelOrderingBGR
)

type orderingInfo struct {
	name string
	n    int
	pos  [4]int // position of R, G, B and A within a pixel, -1 if absent
}

var orderingTable = [...]orderingInfo{
	ChannelOrderingRGBA: {"RGBA", 4, [4]int{0, 1, 2, 3}},
	ChannelOrderingBGRA: {"BGRA", 4, [4]int{2, 1, 0, 3}},
	ChannelOrderingABGR: {"ABGR", 4, [4]int{3, 2, 1, 0}},
	ChannelOrderingRGB:  {"RGB", 3, [4]int{0, 1, 2, -1}},
	ChannelOrderingBGR:  {"BGR", 3, [4]int{2, 1, 0, -1}},
}

func (o ChannelOrdering) valid() bool {
	return o >= 0 && int(o) < len(orderingTable)
}

func (o ChannelOrdering) String() string {
	if !o.valid() {
		return fmt.Sprintf("ChannelOrdering(%d)", int(o))
	}
	return orderingTable[o].name
}

// NumChannels returns the number of channels per pixel.
func (o ChannelOrdering) NumChannels() int {
	if !o.valid() {
		return 0
	}
	return orderingTable[o].n
}

// HasAlpha reports whether the ordering includes an alpha channel.
func (o ChannelOrdering) HasAlpha() bool {
	return o.valid() && orderingTable[o].pos[3] >= 0
}

// AutoStride, used in a [Strides] field, asks for the stride to be
// derived from the image geometry.
const AutoStride = 0

// Strides describes the memory layout of an image, in bytes.
//
// Chan is the distance between the channels of a pixel, X the distance
// between horizontally adjacent pixels and Y the distance between lines.
// Fields set to [AutoStride] are derived as tightly packed: Chan is the
// sample size, X is |Chan| times the number of channels, and Y is |X|
// times the width.  Negative strides are allowed.
//
// Origin is the byte offset of the first channel of pixel (0, 0) within
// the buffer.  A layout with negative strides normally starts near the
// end of the buffer.
type Strides struct {
	Origin int
	Chan   int
	X      int
	Y      int
}

// ImageDesc describes the pixels of an image for a [CPUProcessor].
// Implementations are [*PackedImageDesc] and [*PlanarImageDesc].
type ImageDesc interface {
	Width() int
	Height() int
	BitDepth() BitDepth

	// XStrideBytes returns the distance between adjacent pixels of a line.
	XStrideBytes() int

	// YStrideBytes returns the distance between adjacent lines.
	YStrideBytes() int

	// IsRGBAPacked reports whether the image is stored as tightly packed
	// RGBA pixels.
	IsRGBAPacked() bool

	// IsFloat reports whether channel values are float32 stored next to
	// each other.
	IsFloat() bool

	String() string

	// layout returns nil for a nil descriptor.
	layout() *imageLayout
}

// imageLayout is the storage-independent description of an image shared
// by all ImageDesc implementations.
type imageLayout struct {
	width, height    int
	bitDepth         BitDepth
	xStride, yStride int       // in samples
	planes           [4]Buffer // R, G, B, A
	start            [4]int    // sample index of pixel (0,0) in each plane
	hasAlpha         bool
	packedRGBA       bool
	float            bool
}

// PackedImageDesc describes an image whose channels are interleaved in a
// single buffer.
type PackedImageDesc struct {
	order                     ChannelOrdering
	chanBytes, xBytes, yBytes int
	l                         imageLayout
}

// NewPackedImageDesc describes an interleaved image stored in data.  The
// Go type of the samples must match the storage type of bd: uint8 for
// [BitDepthUint8], uint16 for [BitDepthUint10], [BitDepthUint12],
// [BitDepthUint16] and [BitDepthF16], and float32 for [BitDepthF32].
func NewPackedImageDesc[T Sample](data []T, width, height int, order ChannelOrdering, bd BitDepth, s Strides) (*PackedImageDesc, error) {
	if err := checkImage[T](width, height, bd); err != nil {
		return nil, err
	}
	if !order.valid() {
		return nil, errorf(ErrInvalidGeometry, "PackedImageDesc: unknown channel ordering %d", int(order))
	}
	if len(data) == 0 {
		return nil, errorf(ErrNullBuffer, "PackedImageDesc: missing image buffer")
	}

	size := bd.BytesPerChannel()
	nch := order.NumChannels()
	chanBytes := s.Chan
	if chanBytes == AutoStride {
		chanBytes = size
	}
	span, ok := mulStride(chanBytes, nch)
	if !ok {
		return nil, errorf(ErrInvalidGeometry,
			"PackedImageDesc: %d channels with stride %d overflow the address range", nch, chanBytes)
	}
	xBytes := s.X
	if xBytes == AutoStride {
		xBytes = span
	}
	row, ok := mulStride(xBytes, width)
	if !ok {
		return nil, errorf(ErrInvalidGeometry,
			"PackedImageDesc: %d pixels with stride %d overflow the address range", width, xBytes)
	}
	yBytes := s.Y
	if yBytes == AutoStride {
		yBytes = row
	}
	if span > abs(xBytes) {
		return nil, errorf(ErrInvalidGeometry,
			"PackedImageDesc: x stride %d too small for %d channels with stride %d",
			xBytes, nch, chanBytes)
	}
	if row > abs(yBytes) {
		return nil, errorf(ErrInvalidGeometry,
			"PackedImageDesc: y stride %d too small for %d pixels with stride %d",
			yBytes, width, xBytes)
	}
	for _, v := range []int{s.Origin, chanBytes, xBytes, yBytes} {
		if v%size != 0 {
			return nil, errorf(ErrInvalidGeometry,
				"PackedImageDesc: offset %d is not a multiple of the sample size %d", v, size)
		}
	}

	origin, c, x, y := s.Origin/size, chanBytes/size, xBytes/size, yBytes/size
	if err := checkExtent(len(data), origin, width, height, x, y, c, nch); err != nil {
		return nil, err
	}

	pos := orderingTable[order].pos
	desc := &PackedImageDesc{
		order:     order,
		chanBytes: chanBytes,
		xBytes:    xBytes,
		yBytes:    yBytes,
		l: imageLayout{
			width:      width,
			height:     height,
			bitDepth:   bd,
			xStride:    x,
			yStride:    y,
			hasAlpha:   pos[3] >= 0,
			packedRGBA: order == ChannelOrderingRGBA && c == 1 && x == 4,
			float:      bd == BitDepthF32 && c == 1,
		},
	}
	buf := BufferOf(data)
	for k, p := range pos {
		if p < 0 {
			continue
		}
		desc.l.planes[k] = buf
		desc.l.start[k] = origin + p*c
	}
	return desc, nil
}

// Width implements the [ImageDesc] interface.
func (d *PackedImageDesc) Width() int { return d.l.width }

// Height implements the [ImageDesc] interface.
func (d *PackedImageDesc) Height() int { return d.l.height }

// BitDepth implements the [ImageDesc] interface.
func (d *PackedImageDesc) BitDepth() BitDepth { return d.l.bitDepth }

// ChannelOrdering returns the order of the channels within a pixel.
func (d *PackedImageDesc) ChannelOrdering() ChannelOrdering { return d.order }

// NumChannels returns the number of channels per pixel.
func (d *PackedImageDesc) NumChannels() int { return d.order.NumChannels() }

// ChanStrideBytes returns the distance between the channels of a pixel.
func (d *PackedImageDesc) ChanStrideBytes() int { return d.chanBytes }

// XStrideBytes implements the [ImageDesc] interface.
func (d *PackedImageDesc) XStrideBytes() int { return d.xBytes }

// YStrideBytes implements the [ImageDesc] interface.
func (d *PackedImageDesc) YStrideBytes() int { return d.yBytes }

// IsRGBAPacked implements the [ImageDesc] interface.
func (d *PackedImageDesc) IsRGBAPacked() bool { return d.l.packedRGBA }

// IsFloat implements the [ImageDesc] interface.
func (d *PackedImageDesc) IsFloat() bool { return d.l.float }

func (d *PackedImageDesc) layout() *imageLayout {
	if d == nil {
		return nil
	}
	return &d.l
}

func (d *PackedImageDesc) String() string {
	return fmt.Sprintf("<PackedImageDesc width=%d height=%d chanOrder=%s bitDepth=%s chanStrideBytes=%d xStrideBytes=%d yStrideBytes=%d>",
		d.l.width, d.l.height, d.order, d.l.bitDepth, d.chanBytes, d.xBytes, d.yBytes)
}

// PlanarImageDesc describes an image whose channels are stored in
// separate buffers.
type PlanarImageDesc struct {
	xBytes, yBytes int
	l              imageLayout
}

// NewPlanarImageDesc describes an image stored in one buffer per channel.
// The alpha buffer a may be nil.  All planes share the same strides and
// origin; s.Chan must be [AutoStride].  The sample type rules of
// [NewPackedImageDesc] apply.
func NewPlanarImageDesc[T Sample](r, g, b, a []T, width, height int, bd BitDepth, s Strides) (*PlanarImageDesc, error) {
	if err := checkImage[T](width, height, bd); err != nil {
		return nil, err
	}
	if len(r) == 0 || len(g) == 0 || len(b) == 0 {
		return nil, errorf(ErrNullBuffer,
			"PlanarImageDesc: valid buffers must be passed for all 3 image rgb color channels")
	}
	if s.Chan != AutoStride {
		return nil, errorf(ErrInvalidGeometry, "PlanarImageDesc: channel stride must be AutoStride")
	}

	size := bd.BytesPerChannel()
	xBytes := s.X
	if xBytes == AutoStride {
		xBytes = size
	}
	row, ok := mulStride(xBytes, width)
	if !ok {
		return nil, errorf(ErrInvalidGeometry,
			"PlanarImageDesc: %d pixels with stride %d overflow the address range", width, xBytes)
	}
	yBytes := s.Y
	if yBytes == AutoStride {
		yBytes = row
	}
	if size > abs(xBytes) {
		return nil, errorf(ErrInvalidGeometry,
			"PlanarImageDesc: x stride %d smaller than the sample size %d", xBytes, size)
	}
	if row > abs(yBytes) {
		return nil, errorf(ErrInvalidGeometry,
			"PlanarImageDesc: y stride %d too small for %d pixels with stride %d",
			yBytes, width, xBytes)
	}
	for _, v := range []int{s.Origin, xBytes, yBytes} {
		if v%size != 0 {
			return nil, errorf(ErrInvalidGeometry,
				"PlanarImageDesc: offset %d is not a multiple of the sample size %d", v, size)
		}
	}

	origin, x, y := s.Origin/size, xBytes/size, yBytes/size
	desc := &PlanarImageDesc{
		xBytes: xBytes,
		yBytes: yBytes,
		l: imageLayout{
			width:    width,
			height:   height,
			bitDepth: bd,
			xStride:  x,
			yStride:  y,
			hasAlpha: a != nil,
			float:    bd == BitDepthF32 && x == 1,
		},
	}
	for k, plane := range [4][]T{r, g, b, a} {
		if k == 3 && a == nil {
			break
		}
		if err := checkExtent(len(plane), origin, width, height, x, y, 0, 1); err != nil {
			return nil, err
		}
		desc.l.planes[k] = BufferOf(plane)
		desc.l.start[k] = origin
	}
	return desc, nil
}

// Width implements the [ImageDesc] interface.
func (d *PlanarImageDesc) Width() int { return d.l.width }

// Height implements the [ImageDesc] interface.
func (d *PlanarImageDesc) Height() int { return d.l.height }

// BitDepth implements the [ImageDesc] interface.
func (d *PlanarImageDesc) BitDepth() BitDepth { return d.l.bitDepth }

// XStrideBytes implements the [ImageDesc] interface.
func (d *PlanarImageDesc) XStrideBytes() int { return d.xBytes }

// YStrideBytes implements the [ImageDesc] interface.
func (d *PlanarImageDesc) YStrideBytes() int { return d.yBytes }

// IsRGBAPacked implements the [ImageDesc] interface.  Planar images are
// never packed.
func (d *PlanarImageDesc) IsRGBAPacked() bool { return false }

// IsFloat implements the [ImageDesc] interface.
func (d *PlanarImageDesc) IsFloat() bool { return d.l.float }

// HasAlpha reports whether the image has an alpha plane.
func (d *PlanarImageDesc) HasAlpha() bool { return d.l.hasAlpha }

func (d *PlanarImageDesc) layout() *imageLayout {
	if d == nil {
		return nil
	}
	return &d.l
}

func (d *PlanarImageDesc) String() string {
	return fmt.Sprintf("<PlanarImageDesc width=%d height=%d bitDepth=%s alpha=%t xStrideBytes=%d yStrideBytes=%d>",
		d.l.width, d.l.height, d.l.bitDepth, d.l.hasAlpha, d.xBytes, d.yBytes)
}

func checkImage[T Sample](width, height int, bd BitDepth) error {
	if width <= 0 || height <= 0 {
		return errorf(ErrInvalidGeometry,
			"image dimensions must be positive, got width %d and height %d", width, height)
	}
	if err := checkBoundary(bd); err != nil {
		return err
	}
	if bd.info().storage != sampleTypeOf[T]() {
		var zero T
		return errorf(ErrBitDepthMismatch, "%s samples cannot be stored as %T", bd, zero)
	}
	return nil
}

// checkExtent verifies that all samples addressed by the layout lie
// within a buffer of n samples.  All arguments are in samples.
func checkExtent(n, origin, width, height, x, y, c, nch int) error {
	if origin < 0 || origin >= n {
		return errorf(ErrInvalidGeometry,
			"origin %d lies outside the buffer of %d samples", origin, n)
	}
	lo, hi := origin, origin
	for _, step := range [][2]int{{c, nch}, {x, width}, {y, height}} {
		// Each offset is checked against n before it is added, so that
		// lo and hi cannot overflow.
		d, ok := mulStride(step[0], step[1]-1)
		if !ok || d >= n {
			return errorf(ErrInvalidGeometry,
				"buffer of %d samples is too small for %d steps of %d samples",
				n, step[1]-1, step[0])
		}
		if step[0] < 0 {
			lo -= d
		} else {
			hi += d
		}
	}
	if lo < 0 || hi >= n {
		return errorf(ErrInvalidGeometry,
			"buffer of %d samples does not cover sample indices %d to %d", n, lo, hi)
	}
	return nil
}

// mulStride returns |stride|*count, and false if the product does not
// fit into an int.
func mulStride(stride, count int) (int, bool) {
	u := uint64(stride)
	if stride < 0 {
		u = -u
	}
	hi, lo := bits.Mul64(u, uint64(count))
	if hi != 0 || lo > math.MaxInt {
		return 0, false
	}
	return int(lo), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
