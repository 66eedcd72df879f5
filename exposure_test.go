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

func TestExposureContrast(t *testing.T) {
	tests := []struct {
		name                      string
		exposure, contrast, gamma float64
		in, want                  float32
	}{
		{"exposure only", 1, 1, 1, 0.1, 0.2},
		{"negative exposure", -1, 1, 1, 0.5, 0.25},
		{"contrast at pivot", 0, 2, 1, 0.18, 0.18},
		{"contrast", 0, 2, 1, 0.36, 0.72},
		{"gamma acts as contrast", 0, 1, 2, 0.36, 0.72},
		{"exposure and contrast", 1, 2, 1, 0.09, 0.18},
		{"negative input", 0, 2, 1, -0.5, 0},
		{"minimum contrast", 0, 0, 1, 0.36, float32(math.Pow(2, minContrast) * 0.18)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewExposureContrastOp(tt.exposure, tt.contrast, tt.gamma, 0.18)
			p := mustProcessor(t, OpList{op}, BitDepthF32, BitDepthF32)
			px := []float32{tt.in, tt.in, tt.in, 0.5}
			if err := p.ApplyRGBA(px); err != nil {
				t.Fatal(err)
			}
			want := []float32{tt.want, tt.want, tt.want, 0.5}
			checkFloats(t, px, want, 1e-6)

			inv, err := op.Inverse()
			if err != nil {
				t.Fatal(err)
			}
			if tt.in < 0 || tt.contrast == 0 {
				return
			}
			q := mustProcessor(t, OpList{inv}, BitDepthF32, BitDepthF32)
			if err := q.ApplyRGBA(px); err != nil {
				t.Fatal(err)
			}
			checkFloats(t, px, []float32{tt.in, tt.in, tt.in, 0.5}, 1e-5)
		})
	}
}

func TestExposureContrastCacheID(t *testing.T) {
	a := NewExposureContrastOp(1, 1, 1, 0.18)
	b := NewExposureContrastOp(2, 1, 1, 0.18)
	if a.CacheID() == b.CacheID() {
		t.Error("different exposures have equal cache IDs")
	}
	a.MakeDynamic(DynamicPropertyExposure)
	b.MakeDynamic(DynamicPropertyExposure)
	if a.CacheID() != b.CacheID() {
		t.Error("dynamic exposure values changed the cache ID")
	}
	b.MakeDynamic(DynamicPropertyGamma)
	if a.CacheID() == b.CacheID() {
		t.Error("dynamic gamma did not change the cache ID")
	}
}

func TestExposureContrastInvalidPivot(t *testing.T) {
	op := NewExposureContrastOp(1, 1, 1, 0)
	_, err := NewCPUProcessor(OpList{op}, BitDepthF32, BitDepthF32)
	if !errors.Is(err, ErrInvalidOp) {
		t.Errorf("got %v, want ErrInvalidOp", err)
	}
}

func TestExposureContrastMakeStatic(t *testing.T) {
	op := NewExposureContrastOp(0, 1, 1, 0.18)
	op.MakeDynamic(DynamicPropertyContrast)
	op.MakeDynamic(DynamicPropertyCurve) // ignored
	props := op.DynamicProperties()
	if len(props) != 1 || props[0].Kind() != DynamicPropertyContrast {
		t.Fatalf("DynamicProperties() = %v", props)
	}
	if op.IsNoOp() {
		t.Error("dynamic op is a no-op")
	}
	op.MakeStatic(DynamicPropertyContrast)
	if len(op.DynamicProperties()) != 0 {
		t.Error("MakeStatic did not remove the property")
	}
	if !op.IsNoOp() {
		t.Error("neutral static op is not a no-op")
	}
}
