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
	"strings"

	"github.com/x448/float16"
)

// BitDepth describes how the channel values of an image are stored.
type BitDepth int

// These are the bit depths known to the package.  Only
// [BitDepthUint8], [BitDepthUint10], [BitDepthUint12], [BitDepthUint16],
// [BitDepthF16] and [BitDepthF32] can be used for processor inputs and
// outputs.
const (
	BitDepthUnknown BitDepth = iota
	BitDepthUint8
	BitDepthUint10
	BitDepthUint12
	BitDepthUint14
	BitDepthUint16
	BitDepthUint32
	BitDepthF16
	BitDepthF32
)

// sampleType identifies the Go type used to store one channel value.
type sampleType int

const (
	sampleNone sampleType = iota
	sampleU8
	sampleU16
	sampleF32
)

type bitDepthInfo struct {
	name     string
	bytes    int
	max      float64
	float    bool
	storage  sampleType
	boundary bool // usable as processor input or output
}

var bitDepthTable = [...]bitDepthInfo{
	BitDepthUnknown: {name: "unknown"},
	BitDepthUint8:   {name: "8ui", bytes: 1, max: 255, storage: sampleU8, boundary: true},
	BitDepthUint10:  {name: "10ui", bytes: 2, max: 1023, storage: sampleU16, boundary: true},
	BitDepthUint12:  {name: "12ui", bytes: 2, max: 4095, storage: sampleU16, boundary: true},
	BitDepthUint14:  {name: "14ui", bytes: 2, max: 16383, storage: sampleU16},
	BitDepthUint16:  {name: "16ui", bytes: 2, max: 65535, storage: sampleU16, boundary: true},
	BitDepthUint32:  {name: "32ui", bytes: 4, max: 4294967295},
	BitDepthF16:     {name: "16f", bytes: 2, max: 1, float: true, storage: sampleU16, boundary: true},
	BitDepthF32:     {name: "32f", bytes: 4, max: 1, float: true, storage: sampleF32, boundary: true},
}

func (bd BitDepth) info() bitDepthInfo {
	if bd < 0 || int(bd) >= len(bitDepthTable) {
		return bitDepthTable[BitDepthUnknown]
	}
	return bitDepthTable[bd]
}

func (bd BitDepth) String() string {
	return bd.info().name
}

// BytesPerChannel returns the storage size of one channel value.
// The result is 0 for [BitDepthUnknown].
func (bd BitDepth) BytesPerChannel() int {
	return bd.info().bytes
}

// MaxValue returns the channel value which represents full intensity.
// This is 1 for the floating point bit depths.
func (bd BitDepth) MaxValue() float64 {
	return bd.info().max
}

// IsFloat reports whether channel values are stored as floating point
// numbers.
func (bd BitDepth) IsFloat() bool {
	return bd.info().float
}

// ParseBitDepth converts a bit depth name, as returned by
// [BitDepth.String], back into a BitDepth.  Case is ignored.
func ParseBitDepth(s string) (BitDepth, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for bd, info := range bitDepthTable {
		if BitDepth(bd) != BitDepthUnknown && info.name == key {
			return BitDepth(bd), nil
		}
	}
	return BitDepthUnknown, errorf(ErrUnsupportedBitDepth, "Unsupported bit-depth %q", s)
}

// checkBoundary verifies that bd can be used as a processor input or
// output.
func checkBoundary(bd BitDepth) error {
	if !bd.info().boundary {
		return errorf(ErrUnsupportedBitDepth, "Unsupported bit-depth: %s", bd)
	}
	return nil
}

// CastAndClamp returns the value which a bit-depth cast stores for v.
// For integer bit depths, v is rounded to the nearest integer and clamped
// to [0, bd.MaxValue()]; NaN maps to 0.  For [BitDepthF16] the value is
// rounded to half precision, for [BitDepthF32] it is returned unchanged.
func CastAndClamp(bd BitDepth, v float32) (float32, error) {
	if err := checkBoundary(bd); err != nil {
		return 0, err
	}
	switch bd {
	case BitDepthF32:
		return v, nil
	case BitDepthF16:
		return float16.Fromfloat32(v).Float32(), nil
	default:
		return float32(clampRound(v, float32(bd.MaxValue()))), nil
	}
}

// clampRound rounds v to the nearest integer in [0, hi].
func clampRound(v, hi float32) uint32 {
	if !(v > 0) {
		return 0
	}
	if v >= hi {
		return uint32(hi)
	}
	return uint32(v + 0.5)
}

// Sample is the set of Go types used to store channel values.
type Sample interface {
	uint8 | uint16 | float32
}

func sampleTypeOf[T Sample]() sampleType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return sampleU8
	case uint16:
		return sampleU16
	default:
		return sampleF32
	}
}

// loader returns a function which converts stored values of bit depth bd
// to float32, without normalization.
// T must match the storage type of bd.
func loader[T Sample](bd BitDepth) func(T) float32 {
	var f any
	switch bd {
	case BitDepthUint8:
		f = func(v uint8) float32 { return float32(v) }
	case BitDepthUint10, BitDepthUint12, BitDepthUint16:
		f = func(v uint16) float32 { return float32(v) }
	case BitDepthF16:
		f = func(v uint16) float32 { return float16.Frombits(v).Float32() }
	case BitDepthF32:
		f = func(v float32) float32 { return v }
	default:
		panic(fmt.Sprintf("colorproc: no loader for %s", bd))
	}
	return f.(func(T) float32)
}

// storer returns the cast-and-clamp function for bit depth bd.
// T must match the storage type of bd.
func storer[T Sample](bd BitDepth) func(float32) T {
	var f any
	switch bd {
	case BitDepthUint8:
		f = func(v float32) uint8 { return uint8(clampRound(v, 255)) }
	case BitDepthUint10:
		f = func(v float32) uint16 { return uint16(clampRound(v, 1023)) }
	case BitDepthUint12:
		f = func(v float32) uint16 { return uint16(clampRound(v, 4095)) }
	case BitDepthUint16:
		f = func(v float32) uint16 { return uint16(clampRound(v, 65535)) }
	case BitDepthF16:
		f = func(v float32) uint16 { return float16.Fromfloat32(v).Bits() }
	case BitDepthF32:
		f = func(v float32) float32 { return v }
	default:
		panic(fmt.Sprintf("colorproc: no storer for %s", bd))
	}
	return f.(func(float32) T)
}
