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
	"errors"
	"math"
	"testing"
)

func TestPackedImageDescStrides(t *testing.T) {
	tests := []struct {
		name       string
		desc       func() (*PackedImageDesc, error)
		chanStride int
		xStride    int
		yStride    int
		packedRGBA bool
		isFloat    bool
	}{
		{
			name: "RGBA 32f",
			desc: func() (*PackedImageDesc, error) {
				return NewPackedImageDesc(make([]float32, 24), 3, 2, ChannelOrderingRGBA, BitDepthF32, Strides{})
			},
			chanStride: 4, xStride: 16, yStride: 48, packedRGBA: true, isFloat: true,
		},
		{
			name: "RGBA 8ui",
			desc: func() (*PackedImageDesc, error) {
				return NewPackedImageDesc(make([]uint8, 24), 3, 2, ChannelOrderingRGBA, BitDepthUint8, Strides{})
			},
			chanStride: 1, xStride: 4, yStride: 12, packedRGBA: true,
		},
		{
			name: "RGB 16ui",
			desc: func() (*PackedImageDesc, error) {
				return NewPackedImageDesc(make([]uint16, 18), 3, 2, ChannelOrderingRGB, BitDepthUint16, Strides{})
			},
			chanStride: 2, xStride: 6, yStride: 18,
		},
		{
			name: "BGRA 32f",
			desc: func() (*PackedImageDesc, error) {
				return NewPackedImageDesc(make([]float32, 8), 2, 1, ChannelOrderingBGRA, BitDepthF32, Strides{})
			},
			chanStride: 4, xStride: 16, yStride: 32, isFloat: true,
		},
		{
			name: "RGBA 32f with padding",
			desc: func() (*PackedImageDesc, error) {
				return NewPackedImageDesc(make([]float32, 10), 2, 1, ChannelOrderingRGBA, BitDepthF32, Strides{X: 20})
			},
			chanStride: 4, xStride: 20, yStride: 40, isFloat: true,
		},
		{
			name: "RGBA 16f",
			desc: func() (*PackedImageDesc, error) {
				return NewPackedImageDesc(make([]uint16, 4), 1, 1, ChannelOrderingRGBA, BitDepthF16, Strides{})
			},
			chanStride: 2, xStride: 8, yStride: 8, packedRGBA: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.desc()
			if err != nil {
				t.Fatal(err)
			}
			if got := d.ChanStrideBytes(); got != tt.chanStride {
				t.Errorf("ChanStrideBytes() = %d, want %d", got, tt.chanStride)
			}
			if got := d.XStrideBytes(); got != tt.xStride {
				t.Errorf("XStrideBytes() = %d, want %d", got, tt.xStride)
			}
			if got := d.YStrideBytes(); got != tt.yStride {
				t.Errorf("YStrideBytes() = %d, want %d", got, tt.yStride)
			}
			if got := d.IsRGBAPacked(); got != tt.packedRGBA {
				t.Errorf("IsRGBAPacked() = %v, want %v", got, tt.packedRGBA)
			}
			if got := d.IsFloat(); got != tt.isFloat {
				t.Errorf("IsFloat() = %v, want %v", got, tt.isFloat)
			}
		})
	}
}

func TestPackedImageDescErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"zero width", packedErr(make([]float32, 4), 0, 1, ChannelOrderingRGBA, BitDepthF32, Strides{}), ErrInvalidGeometry},
		{"negative height", packedErr(make([]float32, 4), 1, -1, ChannelOrderingRGBA, BitDepthF32, Strides{}), ErrInvalidGeometry},
		{"wrong sample type", packedErr(make([]uint8, 4), 1, 1, ChannelOrderingRGBA, BitDepthF32, Strides{}), ErrBitDepthMismatch},
		{"16f as float32", packedErr(make([]float32, 4), 1, 1, ChannelOrderingRGBA, BitDepthF16, Strides{}), ErrBitDepthMismatch},
		{"14ui", packedErr(make([]uint16, 4), 1, 1, ChannelOrderingRGBA, BitDepthUint14, Strides{}), ErrUnsupportedBitDepth},
		{"no data", packedErr([]float32(nil), 1, 1, ChannelOrderingRGBA, BitDepthF32, Strides{}), ErrNullBuffer},
		{"short buffer", packedErr(make([]float32, 7), 2, 1, ChannelOrderingRGBA, BitDepthF32, Strides{}), ErrInvalidGeometry},
		{"x stride too small", packedErr(make([]float32, 8), 2, 1, ChannelOrderingRGBA, BitDepthF32, Strides{X: 12}), ErrInvalidGeometry},
		{"y stride too small", packedErr(make([]float32, 16), 2, 2, ChannelOrderingRGBA, BitDepthF32, Strides{Y: 16}), ErrInvalidGeometry},
		{"odd stride", packedErr(make([]uint16, 16), 2, 1, ChannelOrderingRGBA, BitDepthUint16, Strides{Chan: 3}), ErrInvalidGeometry},
		{"odd origin", packedErr(make([]uint16, 16), 2, 1, ChannelOrderingRGBA, BitDepthUint16, Strides{Origin: 1}), ErrInvalidGeometry},
		{"origin past end", packedErr(make([]float32, 8), 2, 1, ChannelOrderingRGBA, BitDepthF32, Strides{Origin: 4}), ErrInvalidGeometry},
		{"negative stride before start", packedErr(make([]float32, 8), 2, 1, ChannelOrderingRGBA, BitDepthF32, Strides{X: -16}), ErrInvalidGeometry},
		{"bad ordering", packedErr(make([]float32, 4), 1, 1, ChannelOrdering(17), BitDepthF32, Strides{}), ErrInvalidGeometry},
		{"width overflows row size", packedErr(make([]uint8, 16), math.MaxInt/4+2, 1, ChannelOrderingRGBA, BitDepthUint8, Strides{}), ErrInvalidGeometry},
		{"huge x stride", packedErr(make([]uint8, 16), 2, 1, ChannelOrderingRGBA, BitDepthUint8, Strides{X: math.MaxInt - 3}), ErrInvalidGeometry},
		{"min int channel stride", packedErr(make([]uint8, 16), 1, 1, ChannelOrderingRGBA, BitDepthUint8, Strides{Chan: math.MinInt}), ErrInvalidGeometry},
		{"huge y stride", packedErr(make([]uint8, 16), 1, 3, ChannelOrderingRGBA, BitDepthUint8, Strides{Y: math.MaxInt / 2}), ErrInvalidGeometry},
		{"min int y stride", packedErr(make([]uint8, 16), 1, 2, ChannelOrderingRGBA, BitDepthUint8, Strides{Y: math.MinInt}), ErrInvalidGeometry},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, tt.err, tt.want)
		}
	}
}

func packedErr[T Sample](data []T, width, height int, order ChannelOrdering, bd BitDepth, s Strides) error {
	_, err := NewPackedImageDesc(data, width, height, order, bd, s)
	return err
}

func TestPlanarImageDesc(t *testing.T) {
	r := make([]float32, 6)
	g := make([]float32, 6)
	b := make([]float32, 6)
	d, err := NewPlanarImageDesc(r, g, b, nil, 3, 2, BitDepthF32, Strides{})
	if err != nil {
		t.Fatal(err)
	}
	if d.XStrideBytes() != 4 || d.YStrideBytes() != 12 {
		t.Errorf("strides = %d, %d, want 4, 12", d.XStrideBytes(), d.YStrideBytes())
	}
	if d.HasAlpha() {
		t.Error("HasAlpha() = true for three planes")
	}
	if d.IsRGBAPacked() {
		t.Error("planar image reported as packed")
	}
	if !d.IsFloat() {
		t.Error("IsFloat() = false for a 32f planar image")
	}

	d, err = NewPlanarImageDesc(r, g, b, make([]float32, 6), 3, 2, BitDepthF32, Strides{})
	if err != nil {
		t.Fatal(err)
	}
	if !d.HasAlpha() {
		t.Error("HasAlpha() = false for four planes")
	}

	_, err = NewPlanarImageDesc(r, nil, b, nil, 3, 2, BitDepthF32, Strides{})
	if !errors.Is(err, ErrNullBuffer) {
		t.Errorf("missing green plane: got %v, want ErrNullBuffer", err)
	}
	want := "colorproc: PlanarImageDesc: valid buffers must be passed for all 3 image rgb color channels"
	if err == nil || err.Error() != want {
		t.Errorf("error text = %q, want %q", err, want)
	}

	_, err = NewPlanarImageDesc(r, g, b, nil, 3, 2, BitDepthF32, Strides{Chan: 4})
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("channel stride: got %v, want ErrInvalidGeometry", err)
	}

	_, err = NewPlanarImageDesc(r, g, b, make([]float32, 5), 3, 2, BitDepthF32, Strides{})
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("short alpha plane: got %v, want ErrInvalidGeometry", err)
	}

	_, err = NewPlanarImageDesc(r, g, b, nil, math.MaxInt/2, 1, BitDepthF32, Strides{})
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("overflowing width: got %v, want ErrInvalidGeometry", err)
	}
}

func TestImageDescString(t *testing.T) {
	p := mustPacked(t, make([]float32, 8), 2, 1, ChannelOrderingRGBA, BitDepthF32)
	want := "<PackedImageDesc width=2 height=1 chanOrder=RGBA bitDepth=32f chanStrideBytes=4 xStrideBytes=16 yStrideBytes=32>"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	plane := make([]uint8, 2)
	q, err := NewPlanarImageDesc(plane, plane, plane, nil, 2, 1, BitDepthUint8, Strides{})
	if err != nil {
		t.Fatal(err)
	}
	want = "<PlanarImageDesc width=2 height=1 bitDepth=8ui alpha=false xStrideBytes=1 yStrideBytes=2>"
	if got := q.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestChannelOrdering(t *testing.T) {
	tests := []struct {
		o        ChannelOrdering
		name     string
		n        int
		hasAlpha bool
	}{
		{ChannelOrderingRGBA, "RGBA", 4, true},
		{ChannelOrderingBGRA, "BGRA", 4, true},
		{ChannelOrderingABGR, "ABGR", 4, true},
		{ChannelOrderingRGB, "RGB", 3, false},
		{ChannelOrderingBGR, "BGR", 3, false},
		{ChannelOrdering(9), "ChannelOrdering(9)", 0, false},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.o.NumChannels(); got != tt.n {
			t.Errorf("%s: NumChannels() = %d, want %d", tt.name, got, tt.n)
		}
		if got := tt.o.HasAlpha(); got != tt.hasAlpha {
			t.Errorf("%s: HasAlpha() = %v, want %v", tt.name, got, tt.hasAlpha)
		}
	}
}
