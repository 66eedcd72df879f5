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

// Buffer holds a run of RGBA samples.  Only the field matching the storage
// type of the buffer's bit depth is used: U8 for [BitDepthUint8], U16 for
// [BitDepthUint10], [BitDepthUint12], [BitDepthUint16] and [BitDepthF16],
// and F32 for [BitDepthF32].
type Buffer struct {
	U8  []uint8
	U16 []uint16
	F32 []float32
}

// BufferOf wraps a typed slice into a Buffer.
func BufferOf[T Sample](s []T) Buffer {
	switch s := any(s).(type) {
	case []uint8:
		return Buffer{U8: s}
	case []uint16:
		return Buffer{U16: s}
	case []float32:
		return Buffer{F32: s}
	}
	panic("unreachable")
}

// from returns the part of b starting at sample i.
func (b Buffer) from(i int) Buffer {
	if b.U8 != nil {
		b.U8 = b.U8[i:]
	}
	if b.U16 != nil {
		b.U16 = b.U16[i:]
	}
	if b.F32 != nil {
		b.F32 = b.F32[i:]
	}
	return b
}

// samples returns the field of b which holds values of type T.
func samples[T Sample](b Buffer) []T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return any(b.U8).([]T)
	case uint16:
		return any(b.U16).([]T)
	default:
		return any(b.F32).([]T)
	}
}

// sameStart reports whether a and b start at the same memory location.
func sameStart[T Sample](a, b []T) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}
