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

func TestBitDepthNames(t *testing.T) {
	tests := []struct {
		bd       BitDepth
		name     string
		bytes    int
		max      float64
		isFloat  bool
		boundary bool
	}{
		{BitDepthUnknown, "unknown", 0, 0, false, false},
		{BitDepthUint8, "8ui", 1, 255, false, true},
		{BitDepthUint10, "10ui", 2, 1023, false, true},
		{BitDepthUint12, "12ui", 2, 4095, false, true},
		{BitDepthUint14, "14ui", 2, 16383, false, false},
		{BitDepthUint16, "16ui", 2, 65535, false, true},
		{BitDepthUint32, "32ui", 4, 4294967295, false, false},
		{BitDepthF16, "16f", 2, 1, true, true},
		{BitDepthF32, "32f", 4, 1, true, true},
		{BitDepth(99), "unknown", 0, 0, false, false},
	}
	for _, tt := range tests {
		if got := tt.bd.String(); got != tt.name {
			t.Errorf("BitDepth(%d).String() = %q, want %q", int(tt.bd), got, tt.name)
		}
		if got := tt.bd.BytesPerChannel(); got != tt.bytes {
			t.Errorf("%s: BytesPerChannel() = %d, want %d", tt.name, got, tt.bytes)
		}
		if got := tt.bd.MaxValue(); got != tt.max {
			t.Errorf("%s: MaxValue() = %g, want %g", tt.name, got, tt.max)
		}
		if got := tt.bd.IsFloat(); got != tt.isFloat {
			t.Errorf("%s: IsFloat() = %v, want %v", tt.name, got, tt.isFloat)
		}
		if got := checkBoundary(tt.bd) == nil; got != tt.boundary {
			t.Errorf("%s: usable at boundary = %v, want %v", tt.name, got, tt.boundary)
		}
	}
}

func TestParseBitDepth(t *testing.T) {
	tests := []struct {
		in   string
		want BitDepth
		ok   bool
	}{
		{"8ui", BitDepthUint8, true},
		{"16UI", BitDepthUint16, true},
		{" 16f ", BitDepthF16, true},
		{"32f", BitDepthF32, true},
		{"32ui", BitDepthUint32, true},
		{"unknown", BitDepthUnknown, false},
		{"", BitDepthUnknown, false},
		{"24ui", BitDepthUnknown, false},
	}
	for _, tt := range tests {
		got, err := ParseBitDepth(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseBitDepth(%q): error = %v, want ok = %v", tt.in, err, tt.ok)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedBitDepth) {
			t.Errorf("ParseBitDepth(%q): error %v is not ErrUnsupportedBitDepth", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseBitDepth(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCastAndClamp(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		bd   BitDepth
		in   float32
		want float32
	}{
		{BitDepthUint8, 0, 0},
		{BitDepthUint8, 127.5, 128},
		{BitDepthUint8, 127.4, 127},
		{BitDepthUint8, 300, 255},
		{BitDepthUint8, -3, 0},
		{BitDepthUint8, nan, 0},
		{BitDepthUint10, 1023.4, 1023},
		{BitDepthUint10, 1100, 1023},
		{BitDepthUint12, 4000.6, 4001},
		{BitDepthUint16, 70000, 65535},
		{BitDepthUint16, 0.49, 0},
		{BitDepthF16, 1, 1},
		{BitDepthF16, 0.1, 0.0999755859375},
		{BitDepthF32, 3.7, 3.7},
		{BitDepthF32, -1, -1},
	}
	for _, tt := range tests {
		got, err := CastAndClamp(tt.bd, tt.in)
		if err != nil {
			t.Errorf("CastAndClamp(%s, %g): %v", tt.bd, tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CastAndClamp(%s, %g) = %g, want %g", tt.bd, tt.in, got, tt.want)
		}
	}

	for _, bd := range []BitDepth{BitDepthUnknown, BitDepthUint14, BitDepthUint32, BitDepth(-1)} {
		_, err := CastAndClamp(bd, 1)
		if !errors.Is(err, ErrUnsupportedBitDepth) {
			t.Errorf("CastAndClamp(%s): got %v, want ErrUnsupportedBitDepth", bd, err)
		}
	}

	_, err := CastAndClamp(BitDepthUint14, 1)
	want := "colorproc: Unsupported bit-depth: 14ui"
	if err == nil || err.Error() != want {
		t.Errorf("error text = %q, want %q", err, want)
	}
}
