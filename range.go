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
)

// RangeOp maps [MinIn, MaxIn] linearly onto [MinOut, MaxOut] and clamps
// the result to [MinOut, MaxOut].  Alpha is not changed.
type RangeOp struct {
	MinIn, MaxIn   float64
	MinOut, MaxOut float64
}

// NewRangeOp returns a new range op.  The bounds must be finite, with
// minIn < maxIn and minOut < maxOut.
func NewRangeOp(minIn, maxIn, minOut, maxOut float64) (*RangeOp, error) {
	for _, v := range []float64{minIn, maxIn, minOut, maxOut} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errorf(ErrInvalidOp, "range bound %g is not finite", v)
		}
	}
	if !(minIn < maxIn) || !(minOut < maxOut) {
		return nil, errorf(ErrInvalidOp, "empty range [%g, %g] -> [%g, %g]",
			minIn, maxIn, minOut, maxOut)
	}
	return &RangeOp{MinIn: minIn, MaxIn: maxIn, MinOut: minOut, MaxOut: maxOut}, nil
}

// NewClampOp returns a range op which clamps to [0, 1].
func NewClampOp() *RangeOp {
	return &RangeOp{MinIn: 0, MaxIn: 1, MinOut: 0, MaxOut: 1}
}

// IsClampOnly01 reports whether the op only clamps to [0, 1].
func (op *RangeOp) IsClampOnly01() bool {
	return op.MinIn == 0 && op.MaxIn == 1 && op.MinOut == 0 && op.MaxOut == 1
}

func (op *RangeOp) scaleOffset() (scale, offset float64) {
	scale = (op.MaxOut - op.MinOut) / (op.MaxIn - op.MinIn)
	offset = op.MinOut - scale*op.MinIn
	return scale, offset
}

// Type implements the [Op] interface.
func (op *RangeOp) Type() OpType { return OpTypeRange }

// CacheID implements the [Op] interface.
func (op *RangeOp) CacheID() string {
	d := &digest{}
	d.float64s(op.MinIn, op.MaxIn, op.MinOut, op.MaxOut)
	return d.id("RangeOp")
}

// IsNoOp implements the [Op] interface.  A range op always clamps, so it
// is never a no-op.
func (op *RangeOp) IsNoOp() bool { return false }

// HasChannelCrosstalk implements the [Op] interface.
func (op *RangeOp) HasChannelCrosstalk() bool { return false }

// Clone implements the [Op] interface.
func (op *RangeOp) Clone() Op {
	res := *op
	return &res
}

// Inverse returns the range op mapping the output range back onto the
// input range.
func (op *RangeOp) Inverse() (Op, error) {
	return NewRangeOp(op.MinOut, op.MaxOut, op.MinIn, op.MaxIn)
}

// CPUOp implements the [Op] interface.
func (op *RangeOp) CPUOp(bool) (OpCPU, error) {
	if !(op.MinIn < op.MaxIn) || !(op.MinOut < op.MaxOut) {
		return nil, errorf(ErrInvalidOp, "empty range [%g, %g] -> [%g, %g]",
			op.MinIn, op.MaxIn, op.MinOut, op.MaxOut)
	}
	scale, offset := op.scaleOffset()
	return &rangeKernel{
		scale:  float32(scale),
		offset: float32(offset),
		lo:     float32(op.MinOut),
		hi:     float32(op.MaxOut),
	}, nil
}

func (op *RangeOp) String() string {
	return fmt.Sprintf("range [%g, %g] -> [%g, %g]", op.MinIn, op.MaxIn, op.MinOut, op.MaxOut)
}

type rangeKernel struct {
	staticKernel
	scale, offset float32
	lo, hi        float32
}

func (k *rangeKernel) Apply(in, out []float32, numPixels int) {
	for i := 0; i < 4*numPixels; i += 4 {
		out[i] = clampTo(in[i]*k.scale+k.offset, k.lo, k.hi)
		out[i+1] = clampTo(in[i+1]*k.scale+k.offset, k.lo, k.hi)
		out[i+2] = clampTo(in[i+2]*k.scale+k.offset, k.lo, k.hi)
		out[i+3] = in[i+3]
	}
}
