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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestImageViewGatherScatter(t *testing.T) {
	// 2x2 BGR image
	data := []uint8{
		3, 2, 1, 6, 5, 4,
		9, 8, 7, 12, 11, 10,
	}
	desc := mustPacked(t, data, 2, 2, ChannelOrderingBGR, BitDepthUint8)
	v, err := newImageView[uint8](desc, BitDepthUint8)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]uint8, 8)
	v.gather(1, buf)
	if d := cmp.Diff([]uint8{7, 8, 9, 0, 10, 11, 12, 0}, buf); d != "" {
		t.Errorf("gather (-want +got):\n%s", d)
	}

	v.scatter(0, []uint8{21, 22, 23, 99, 24, 25, 26, 99})
	want := []uint8{
		23, 22, 21, 26, 25, 24,
		9, 8, 7, 12, 11, 10,
	}
	if d := cmp.Diff(want, data); d != "" {
		t.Errorf("scatter (-want +got):\n%s", d)
	}
}

func TestImageViewMismatch(t *testing.T) {
	desc := mustPacked(t, make([]uint16, 4), 1, 1, ChannelOrderingRGBA, BitDepthUint16)
	_, err := newImageView[uint16](desc, BitDepthUint12)
	if !errors.Is(err, ErrBitDepthMismatch) {
		t.Errorf("got %v, want ErrBitDepthMismatch", err)
	}

	_, err = newImageView[uint16](nil, BitDepthUint16)
	if !errors.Is(err, ErrNullBuffer) {
		t.Errorf("nil image: got %v, want ErrNullBuffer", err)
	}

	var packed *PackedImageDesc
	var planar *PlanarImageDesc
	for _, img := range []ImageDesc{packed, planar, &PackedImageDesc{}} {
		_, err = newImageView[uint16](img, BitDepthUint16)
		if !errors.Is(err, ErrNullBuffer) {
			t.Errorf("%T without data: got %v, want ErrNullBuffer", img, err)
		}
	}
}

func TestScanlineHelperModes(t *testing.T) {
	packedF32 := func() ImageDesc {
		return mustPacked(t, make([]float32, 8), 2, 1, ChannelOrderingRGBA, BitDepthF32)
	}
	bgraF32 := func() ImageDesc {
		return mustPacked(t, make([]float32, 8), 2, 1, ChannelOrderingBGRA, BitDepthF32)
	}

	tests := []struct {
		name              string
		src, dst          ImageDesc
		inOptim, outOptim optimization
		useDstBuffer      bool
	}{
		{"packed to packed", packedF32(), packedF32(), optimPackedFloat, optimPackedFloat, true},
		{"packed to BGRA", packedF32(), bgraF32(), optimPackedFloat, optimNone, false},
		{"BGRA to packed", bgraF32(), packedF32(), optimNone, optimPackedFloat, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newScanlineHelper[float32, float32](BitDepthF32, BitDepthF32, copyCast{}, copyCast{}).(*scanlineHelper[float32, float32])
			if err := h.init(tt.src, tt.dst); err != nil {
				t.Fatal(err)
			}
			if h.inOptim != tt.inOptim || h.outOptim != tt.outOptim {
				t.Errorf("optimizations = %d, %d, want %d, %d",
					h.inOptim, h.outOptim, tt.inOptim, tt.outOptim)
			}
			if h.useDstBuffer != tt.useDstBuffer {
				t.Errorf("useDstBuffer = %v, want %v", h.useDstBuffer, tt.useDstBuffer)
			}
			if (h.inBitDepthBuffer != nil) != (tt.inOptim == optimNone) {
				t.Error("input work buffer allocated wrongly")
			}
			if (h.rgbaFloatBuffer != nil) == tt.useDstBuffer {
				t.Error("float work buffer allocated wrongly")
			}
		})
	}
}

func TestScanlineHelperLines(t *testing.T) {
	src := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	}
	in, err := NewPackedImageDesc(src, 1, 3, ChannelOrderingRGBA, BitDepthF32, Strides{})
	if err != nil {
		t.Fatal(err)
	}
	r := make([]float32, 3)
	g := make([]float32, 3)
	b := make([]float32, 3)
	out, err := NewPlanarImageDesc(r, g, b, nil, 1, 3, BitDepthF32, Strides{})
	if err != nil {
		t.Fatal(err)
	}

	h := newScanlineHelper[float32, float32](BitDepthF32, BitDepthF32, copyCast{}, copyCast{})
	if err := h.init(in, out); err != nil {
		t.Fatal(err)
	}
	lines := 0
	for {
		buf, n := h.prepRGBAScanline()
		if n == 0 {
			break
		}
		if n != 1 {
			t.Fatalf("line has %d pixels, want 1", n)
		}
		for i := range 3 {
			buf[i] *= 10
		}
		h.finishRGBAScanline()
		lines++
	}
	if lines != 3 {
		t.Errorf("processed %d lines, want 3", lines)
	}
	if d := cmp.Diff([][]float32{{10, 50, 90}, {20, 60, 100}, {30, 70, 110}}, [][]float32{r, g, b}); d != "" {
		t.Errorf("planes (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]float32{1, 2, 3, 4}, src[:4]); d != "" {
		t.Errorf("source changed (-want +got):\n%s", d)
	}
}

func TestScanlineHelperSizeMismatch(t *testing.T) {
	a := mustPacked(t, make([]float32, 8), 2, 1, ChannelOrderingRGBA, BitDepthF32)
	b := mustPacked(t, make([]float32, 8), 1, 2, ChannelOrderingRGBA, BitDepthF32)
	h := newScanlineHelper[float32, float32](BitDepthF32, BitDepthF32, copyCast{}, copyCast{})
	if err := h.init(a, b); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("got %v, want ErrInvalidGeometry", err)
	}
}
