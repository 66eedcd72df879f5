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
)

// swapLut3D returns a LUT which exchanges the red and green channels.
func swapLut3D(gridSize int) []float32 {
	data := identityLut3D(gridSize)
	for i := 0; i < len(data); i += 3 {
		data[i], data[i+1] = data[i+1], data[i]
	}
	return data
}

func TestLut3DOpApply(t *testing.T) {
	for _, interp := range []Interpolation{InterpolationTetrahedral, InterpolationTrilinear} {
		op, err := NewLut3DOp(5, swapLut3D(5))
		if err != nil {
			t.Fatal(err)
		}
		op.Interpolation = interp
		if op.IsNoOp() {
			t.Error("swap LUT is a no-op")
		}
		if !op.HasChannelCrosstalk() {
			t.Error("swap LUT has no channel crosstalk")
		}

		p := mustProcessor(t, OpList{op}, BitDepthF32, BitDepthF32)
		if !p.HasChannelCrosstalk() {
			t.Error("processor has no channel crosstalk")
		}
		px := []float32{0.2, 0.7, 0.4, 0.9}
		if err := p.ApplyRGBA(px); err != nil {
			t.Fatal(err)
		}
		checkFloats(t, px, []float32{0.7, 0.2, 0.4, 0.9}, 1e-6)

		px = []float32{-0.5, 1.5, 0.5, 1}
		if err := p.ApplyRGBA(px); err != nil {
			t.Fatal(err)
		}
		checkFloats(t, px, []float32{1, 0, 0.5, 1}, 1e-6)
	}
}

func TestLut3DOpIdentity(t *testing.T) {
	op, err := NewIdentityLut3DOp(17)
	if err != nil {
		t.Fatal(err)
	}
	if !op.IsNoOp() || op.HasChannelCrosstalk() {
		t.Error("identity LUT is not a no-op")
	}
	if op.GridSize() != 17 || len(op.Data()) != 3*17*17*17 {
		t.Errorf("grid size %d with %d values", op.GridSize(), len(op.Data()))
	}

	data := op.Data()
	data[0] = 1
	if !op.IsNoOp() {
		t.Error("Data() does not return a copy")
	}
}

func TestLut3DOpErrors(t *testing.T) {
	if _, err := NewLut3DOp(1, make([]float32, 3)); !errors.Is(err, ErrInvalidOp) {
		t.Errorf("grid size 1: got %v, want ErrInvalidOp", err)
	}
	if _, err := NewLut3DOp(2, make([]float32, 23)); !errors.Is(err, ErrInvalidOp) {
		t.Errorf("short data: got %v, want ErrInvalidOp", err)
	}
	if _, err := NewIdentityLut3DOp(0); !errors.Is(err, ErrInvalidOp) {
		t.Errorf("identity of size 0: got %v, want ErrInvalidOp", err)
	}
}
