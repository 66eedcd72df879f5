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

// Package colorproc applies colour transforms to images on the CPU.
//
// A transform is an [OpList], a sequence of steps such as matrices, 1D and
// 3D lookup tables, transfer curves and exposure/contrast adjustments.
// [NewCPUProcessor] finalizes the list for given input and output bit
// depths and returns a [CPUProcessor], which can then be applied to images
// described by [PackedImageDesc] or [PlanarImageDesc] values.
//
// Internally, pixels are processed one scanline at a time as packed RGBA
// float32 values, where 0 and 1 represent zero and full intensity.  The
// conversion from and to the storage format of the images happens at the
// two ends of the pipeline; where possible it is folded into the first or
// last step.
//
// Some parameters, for example exposure, can be marked as dynamic.  Their
// values can be changed through a [DynamicProperty] handle after the
// processor has been built.
package colorproc
