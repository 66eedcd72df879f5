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

import "slices"

// Interpolation selects how a [Lut3DOp] interpolates between grid points.
type Interpolation int

// These are the supported interpolation methods.
const (
	InterpolationTetrahedral Interpolation = iota
	InterpolationTrilinear
)

// Lut3DOp maps RGB through a cube of GridSize^3 grid points.  The grid
// covers [0, 1]^3; inputs outside are clamped.  Alpha is not changed.
type Lut3DOp struct {
	Interpolation Interpolation

	gridSize int
	data     []float32
}

// NewLut3DOp returns a 3D LUT op.  data holds three values per grid
// point, with the red index varying slowest and the blue index varying
// fastest.  The data is copied.
func NewLut3DOp(gridSize int, data []float32) (*Lut3DOp, error) {
	if gridSize < 2 {
		return nil, errorf(ErrInvalidOp, "3D LUT grid size %d, need at least 2", gridSize)
	}
	if want := 3 * gridSize * gridSize * gridSize; len(data) != want {
		return nil, errorf(ErrInvalidOp, "3D LUT of size %d needs %d values, got %d",
			gridSize, want, len(data))
	}
	return &Lut3DOp{gridSize: gridSize, data: slices.Clone(data)}, nil
}

// NewIdentityLut3DOp returns a 3D LUT which maps every grid point to
// itself.
func NewIdentityLut3DOp(gridSize int) (*Lut3DOp, error) {
	if gridSize < 2 {
		return nil, errorf(ErrInvalidOp, "3D LUT grid size %d, need at least 2", gridSize)
	}
	return &Lut3DOp{gridSize: gridSize, data: identityLut3D(gridSize)}, nil
}

func identityLut3D(gridSize int) []float32 {
	data := make([]float32, 0, 3*gridSize*gridSize*gridSize)
	scale := float32(gridSize - 1)
	for r := range gridSize {
		for g := range gridSize {
			for b := range gridSize {
				data = append(data, float32(r)/scale, float32(g)/scale, float32(b)/scale)
			}
		}
	}
	return data
}

// GridSize returns the number of grid points along each axis.
func (op *Lut3DOp) GridSize() int { return op.gridSize }

// Data returns a copy of the grid values.
func (op *Lut3DOp) Data() []float32 { return slices.Clone(op.data) }

// Type implements the [Op] interface.
func (op *Lut3DOp) Type() OpType { return OpTypeLut3D }

// CacheID implements the [Op] interface.
func (op *Lut3DOp) CacheID() string {
	d := &digest{}
	d.int(int(op.Interpolation))
	d.int(op.gridSize)
	d.float32s(op.data...)
	return d.id("Lut3DOp")
}

// IsNoOp implements the [Op] interface.
func (op *Lut3DOp) IsNoOp() bool {
	return slices.Equal(op.data, identityLut3D(op.gridSize))
}

// HasChannelCrosstalk implements the [Op] interface.  A 3D LUT has
// crosstalk unless it is the identity.
func (op *Lut3DOp) HasChannelCrosstalk() bool {
	return !op.IsNoOp()
}

// Clone implements the [Op] interface.
func (op *Lut3DOp) Clone() Op {
	return &Lut3DOp{
		Interpolation: op.Interpolation,
		gridSize:      op.gridSize,
		data:          slices.Clone(op.data),
	}
}

// CPUOp implements the [Op] interface.
func (op *Lut3DOp) CPUOp(bool) (OpCPU, error) {
	if op.gridSize < 2 || len(op.data) != 3*op.gridSize*op.gridSize*op.gridSize {
		return nil, errorf(ErrInvalidOp, "malformed 3D LUT")
	}
	k := &lut3DKernel{
		gridSize: op.gridSize,
		data:     slices.Clone(op.data),
		interp:   tetrahedralInterp3D,
	}
	if op.Interpolation == InterpolationTrilinear {
		k.interp = trilinearInterp3D
	}
	return k, nil
}

type lut3DKernel struct {
	staticKernel
	gridSize int
	data     []float32
	interp   func(lut []float32, gridSize int, r, g, b float32, out *[3]float32)
}

func (k *lut3DKernel) Apply(in, out []float32, numPixels int) {
	var rgb [3]float32
	for i := 0; i < 4*numPixels; i += 4 {
		k.interp(k.data, k.gridSize, in[i], in[i+1], in[i+2], &rgb)
		out[i] = rgb[0]
		out[i+1] = rgb[1]
		out[i+2] = rgb[2]
		out[i+3] = in[i+3]
	}
}
