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

	"golang.org/x/image/math/f32"
)

// MatrixOp computes out = M·in + Offset on RGBA pixels.
// M is stored row by row, i.e. M[4*i+j] is the weight of input channel j
// in output channel i.
type MatrixOp struct {
	M      f32.Mat4
	Offset f32.Vec4
}

var identityMat4 = f32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// NewMatrixOp returns a matrix op with the given matrix and offset.
func NewMatrixOp(m f32.Mat4, offset f32.Vec4) *MatrixOp {
	return &MatrixOp{M: m, Offset: offset}
}

// NewIdentityMatrixOp returns a matrix op which leaves all pixels
// unchanged.
func NewIdentityMatrixOp() *MatrixOp {
	return &MatrixOp{M: identityMat4}
}

// NewOffsetOp returns a matrix op which adds offset to every pixel.
func NewOffsetOp(offset f32.Vec4) *MatrixOp {
	return &MatrixOp{M: identityMat4, Offset: offset}
}

// NewScaleOp returns a matrix op which multiplies every channel by the
// corresponding entry of scale.
func NewScaleOp(scale f32.Vec4) *MatrixOp {
	op := &MatrixOp{}
	for i := range 4 {
		op.M[5*i] = scale[i]
	}
	return op
}

// Type implements the [Op] interface.
func (op *MatrixOp) Type() OpType { return OpTypeMatrix }

// CacheID implements the [Op] interface.
func (op *MatrixOp) CacheID() string {
	d := &digest{}
	d.float32s(op.M[:]...)
	d.float32s(op.Offset[:]...)
	return d.id("MatrixOffsetOp")
}

// IsNoOp implements the [Op] interface.
func (op *MatrixOp) IsNoOp() bool {
	return op.M == identityMat4 && op.Offset == f32.Vec4{}
}

func (op *MatrixOp) isDiagonal() bool {
	for i := range 4 {
		for j := range 4 {
			if i != j && op.M[4*i+j] != 0 {
				return false
			}
		}
	}
	return true
}

// HasChannelCrosstalk implements the [Op] interface.
func (op *MatrixOp) HasChannelCrosstalk() bool {
	return !op.isDiagonal()
}

// Clone implements the [Op] interface.
func (op *MatrixOp) Clone() Op {
	res := *op
	return &res
}

// Compose returns the matrix op which applies op first and then next.
func (op *MatrixOp) Compose(next *MatrixOp) *MatrixOp {
	res := &MatrixOp{}
	for i := range 4 {
		for j := range 4 {
			var s float64
			for k := range 4 {
				s += float64(next.M[4*i+k]) * float64(op.M[4*k+j])
			}
			res.M[4*i+j] = float32(s)
		}
		s := float64(next.Offset[i])
		for k := range 4 {
			s += float64(next.M[4*i+k]) * float64(op.Offset[k])
		}
		res.Offset[i] = float32(s)
	}
	return res
}

// Inverse returns the op which undoes op.
// An error is returned if the matrix is singular.
func (op *MatrixOp) Inverse() (Op, error) {
	var m [16]float64
	for i, v := range op.M {
		m[i] = float64(v)
	}
	inv, ok := invertMatrix4x4(m)
	if !ok {
		return nil, errorf(ErrInvalidOp, "singular matrix")
	}
	res := &MatrixOp{}
	for i := range 4 {
		var s float64
		for k := range 4 {
			res.M[4*i+k] = float32(inv[4*i+k])
			s -= inv[4*i+k] * float64(op.Offset[k])
		}
		res.Offset[i] = float32(s)
	}
	return res, nil
}

// CPUOp implements the [Op] interface.
func (op *MatrixOp) CPUOp(bool) (OpCPU, error) {
	for _, v := range op.M {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, errorf(ErrInvalidOp, "matrix entry %g is not finite", v)
		}
	}
	if op.isDiagonal() {
		k := &scaleOffsetKernel{offset: op.Offset}
		for i := range 4 {
			k.scale[i] = op.M[5*i]
		}
		return k, nil
	}
	return &matrixKernel{m: op.M, offset: op.Offset}, nil
}

func (op *MatrixOp) String() string {
	return fmt.Sprintf("matrix %v offset %v", op.M, op.Offset)
}

type matrixKernel struct {
	staticKernel
	m      f32.Mat4
	offset f32.Vec4
}

func (k *matrixKernel) Apply(in, out []float32, numPixels int) {
	m := &k.m
	o := &k.offset
	for i := 0; i < 4*numPixels; i += 4 {
		r, g, b, a := in[i], in[i+1], in[i+2], in[i+3]
		out[i] = m[0]*r + m[1]*g + m[2]*b + m[3]*a + o[0]
		out[i+1] = m[4]*r + m[5]*g + m[6]*b + m[7]*a + o[1]
		out[i+2] = m[8]*r + m[9]*g + m[10]*b + m[11]*a + o[2]
		out[i+3] = m[12]*r + m[13]*g + m[14]*b + m[15]*a + o[3]
	}
}

type scaleOffsetKernel struct {
	staticKernel
	scale  f32.Vec4
	offset f32.Vec4
}

func (k *scaleOffsetKernel) Apply(in, out []float32, numPixels int) {
	s := &k.scale
	o := &k.offset
	for i := 0; i < 4*numPixels; i += 4 {
		out[i] = in[i]*s[0] + o[0]
		out[i+1] = in[i+1]*s[1] + o[1]
		out[i+2] = in[i+2]*s[2] + o[2]
		out[i+3] = in[i+3]*s[3] + o[3]
	}
}

// invertMatrix4x4 returns the inverse of a 4x4 matrix, using Gauss-Jordan
// elimination with partial pivoting.
func invertMatrix4x4(m [16]float64) ([16]float64, bool) {
	inv := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	for col := range 4 {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(m[4*row+col]) > math.Abs(m[4*pivot+col]) {
				pivot = row
			}
		}
		if m[4*pivot+col] == 0 {
			return inv, false
		}
		if pivot != col {
			for j := range 4 {
				m[4*col+j], m[4*pivot+j] = m[4*pivot+j], m[4*col+j]
				inv[4*col+j], inv[4*pivot+j] = inv[4*pivot+j], inv[4*col+j]
			}
		}

		f := 1 / m[4*col+col]
		for j := range 4 {
			m[4*col+j] *= f
			inv[4*col+j] *= f
		}
		for row := range 4 {
			if row == col {
				continue
			}
			f := m[4*row+col]
			if f == 0 {
				continue
			}
			for j := range 4 {
				m[4*row+j] -= f * m[4*col+j]
				inv[4*row+j] -= f * inv[4*col+j]
			}
		}
	}
	return inv, true
}
