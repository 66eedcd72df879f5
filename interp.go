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

// gridPos splits the grid coordinate of v in [0, 1] into an index in
// [0, gridSize-2] and a fraction in [0, 1].
func gridPos(v float32, gridSize int) (int, float32) {
	pos := clampTo(v, 0, 1) * float32(gridSize-1)
	idx := clampIndex(int(pos), gridSize-1)
	return idx, clampTo(pos-float32(idx), 0, 1)
}

// tetrahedralInterp3D performs tetrahedral interpolation in a 3D LUT with
// three output channels.  The input r, g, b values are clamped to [0, 1].
// The lut contains flattened data with red varying slowest.
// gridSize is the number of grid points per dimension and must be at
// least 2.
func tetrahedralInterp3D(lut []float32, gridSize int, r, g, b float32, out *[3]float32) {
	ri, fr := gridPos(r, gridSize)
	gi, fg := gridPos(g, gridSize)
	bi, fb := gridPos(b, gridSize)

	// compute base offset for cube corner (ri, gi, bi)
	const stride = 3
	gStride := gridSize * stride
	rStride := gridSize * gStride

	base := ri*rStride + gi*gStride + bi*stride

	// get the 8 corners of the cube
	c000 := base
	c001 := base + stride
	c010 := base + gStride
	c011 := base + gStride + stride
	c100 := base + rStride
	c101 := base + rStride + stride
	c110 := base + rStride + gStride
	c111 := base + rStride + gStride + stride

	// select the tetrahedron based on the order of the fractional parts
	if fr > fg {
		if fg > fb {
			// fr > fg > fb
			for i := range 3 {
				out[i] = (1-fr)*lut[c000+i] +
					(fr-fg)*lut[c100+i] +
					(fg-fb)*lut[c110+i] +
					fb*lut[c111+i]
			}
		} else if fr > fb {
			// fr > fb >= fg
			for i := range 3 {
				out[i] = (1-fr)*lut[c000+i] +
					(fr-fb)*lut[c100+i] +
					(fb-fg)*lut[c101+i] +
					fg*lut[c111+i]
			}
		} else {
			// fb >= fr > fg
			for i := range 3 {
				out[i] = (1-fb)*lut[c000+i] +
					(fb-fr)*lut[c001+i] +
					(fr-fg)*lut[c101+i] +
					fg*lut[c111+i]
			}
		}
	} else {
		if fr > fb {
			// fg >= fr > fb
			for i := range 3 {
				out[i] = (1-fg)*lut[c000+i] +
					(fg-fr)*lut[c010+i] +
					(fr-fb)*lut[c110+i] +
					fb*lut[c111+i]
			}
		} else if fg > fb {
			// fg > fb >= fr
			for i := range 3 {
				out[i] = (1-fg)*lut[c000+i] +
					(fg-fb)*lut[c010+i] +
					(fb-fr)*lut[c011+i] +
					fr*lut[c111+i]
			}
		} else {
			// fb >= fg >= fr
			for i := range 3 {
				out[i] = (1-fb)*lut[c000+i] +
					(fb-fg)*lut[c001+i] +
					(fg-fr)*lut[c011+i] +
					fr*lut[c111+i]
			}
		}
	}
}

// trilinearInterp3D performs trilinear interpolation in a 3D LUT with the
// same layout as for tetrahedralInterp3D.
func trilinearInterp3D(lut []float32, gridSize int, r, g, b float32, out *[3]float32) {
	var idx [3]int
	var frac [3]float32
	idx[0], frac[0] = gridPos(r, gridSize)
	idx[1], frac[1] = gridPos(g, gridSize)
	idx[2], frac[2] = gridPos(b, gridSize)

	strides := [3]int{gridSize * gridSize * 3, gridSize * 3, 3}
	base := idx[0]*strides[0] + idx[1]*strides[1] + idx[2]*strides[2]

	*out = [3]float32{}
	// iterate over the 8 corners of the cube
	for corner := range 8 {
		offset := base
		weight := float32(1)
		for d := range 3 {
			if corner&(4>>d) != 0 {
				offset += strides[d]
				weight *= frac[d]
			} else {
				weight *= 1 - frac[d]
			}
		}
		for i := range 3 {
			out[i] += weight * lut[offset+i]
		}
	}
}
