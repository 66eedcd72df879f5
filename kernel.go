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

// Kernel converts a run of packed RGBA pixels between two storage
// formats.  Kernels at the input and output of a [CPUProcessor] implement
// this interface; the input and output bit depths are fixed when the
// kernel is created.
//
// in and out may refer to the same memory.
type Kernel interface {
	ApplyBuffer(in, out Buffer, numPixels int)

	IsDynamic() bool
	HasDynamicProperty(kind DynamicPropertyKind) bool
	DynamicProperty(kind DynamicPropertyKind) (DynamicProperty, error)
}

// staticKernel implements the dynamic property methods for kernels
// without dynamic properties.
type staticKernel struct{}

func (staticKernel) IsDynamic() bool                             { return false }
func (staticKernel) HasDynamicProperty(DynamicPropertyKind) bool { return false }

func (staticKernel) DynamicProperty(DynamicPropertyKind) (DynamicProperty, error) {
	return nil, errMissingDynamicProperty
}

// floatKernel turns an OpCPU into a Kernel working on f32 buffers.
type floatKernel struct {
	OpCPU
}

func (k floatKernel) ApplyBuffer(in, out Buffer, numPixels int) {
	k.Apply(in.F32, out.F32, numPixels)
}
