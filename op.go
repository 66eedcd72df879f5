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
	"log/slog"
	"strings"
)

// OpType identifies the kind of an [Op].
type OpType int

// These are the op types known to the package.
const (
	OpTypeUnknown OpType = iota
	OpTypeMatrix
	OpTypeLut1D
	OpTypeLut3D
	OpTypeRange
	OpTypeExposureContrast
	OpTypeCurve
)

func (t OpType) String() string {
	switch t {
	case OpTypeMatrix:
		return "Matrix"
	case OpTypeLut1D:
		return "Lut1D"
	case OpTypeLut3D:
		return "Lut3D"
	case OpTypeRange:
		return "Range"
	case OpTypeExposureContrast:
		return "ExposureContrast"
	case OpTypeCurve:
		return "Curve"
	default:
		return "Unknown"
	}
}

// Op is one step of a colour transform.  Channel values seen by an Op are
// float32, with 0 and 1 representing zero and full intensity.
//
// Ops are immutable once they are part of a processor, except through
// their dynamic property handles.
type Op interface {
	Type() OpType

	// CacheID returns a string which identifies the op and its
	// parameters.  Equal parameters give equal cache IDs.
	CacheID() string

	// IsNoOp reports whether the op leaves every pixel unchanged.
	IsNoOp() bool

	// HasChannelCrosstalk reports whether an output channel can depend on
	// more than one input channel.
	HasChannelCrosstalk() bool

	// Clone returns a deep copy.  Dynamic property handles are copied, so
	// that the clone can be changed independently.
	Clone() Op

	// CPUOp returns the kernel implementing the op.
	CPUOp(fastMath bool) (OpCPU, error)
}

// OpCPU is the kernel of an Op.  Apply reads numPixels packed RGBA pixels
// from in and writes them to out.  in and out may be the same slice.
type OpCPU interface {
	Apply(in, out []float32, numPixels int)

	IsDynamic() bool
	HasDynamicProperty(kind DynamicPropertyKind) bool
	DynamicProperty(kind DynamicPropertyKind) (DynamicProperty, error)
}

// BitDepthAdapter is implemented by ops whose kernels can read and write
// non-float storage directly.  A processor uses this to fuse the op with
// the bit-depth cast at its input or output.
type BitDepthAdapter interface {
	BitDepthCPUOp(in, out BitDepth, fastMath bool) (Kernel, error)
}

// DynamicOp is implemented by ops with dynamic properties.
type DynamicOp interface {
	Op

	// DynamicProperties returns the handles of all properties of the op
	// which are currently dynamic.
	DynamicProperties() []DynamicProperty

	// MakeStatic fixes the property of the given kind at its current
	// value.
	MakeStatic(kind DynamicPropertyKind)
}

// Inverter is implemented by ops which can be inverted.
type Inverter interface {
	Inverse() (Op, error)
}

// pairCanceller is implemented by ops which can recognise their own
// inverse.
type pairCanceller interface {
	cancels(next Op) bool
	pairFlag() OptimizationFlags
}

// identityReplacer is implemented by ops which are the identity on
// [0, 1] but clamp values outside.  identityReplacement returns the
// cheaper op to use instead, or nil if the op is not such an identity.
type identityReplacer interface {
	identityReplacement() Op
}

// OpList is a sequence of ops, applied in order.
type OpList []Op

// Clone returns a deep copy of the list.
func (l OpList) Clone() OpList {
	res := make(OpList, len(l))
	for i, op := range l {
		res[i] = op.Clone()
	}
	return res
}

// IsNoOp reports whether every op in the list is a no-op.
// The empty list is a no-op.
func (l OpList) IsNoOp() bool {
	for _, op := range l {
		if !op.IsNoOp() {
			return false
		}
	}
	return true
}

// HasChannelCrosstalk reports whether any op in the list has channel
// crosstalk.
func (l OpList) HasChannelCrosstalk() bool {
	for _, op := range l {
		if op.HasChannelCrosstalk() {
			return true
		}
	}
	return false
}

// IsDynamic reports whether any op in the list has a dynamic property.
func (l OpList) IsDynamic() bool {
	for _, op := range l {
		if d, ok := op.(DynamicOp); ok && len(d.DynamicProperties()) > 0 {
			return true
		}
	}
	return false
}

// CacheID returns the space-separated cache IDs of the ops.
func (l OpList) CacheID() string {
	ids := make([]string, len(l))
	for i, op := range l {
		ids[i] = op.CacheID()
	}
	return strings.Join(ids, " ")
}

// ValidateDynamicProperties makes sure that every dynamic property kind
// is owned by at most one op.  The first op in list order keeps the
// property, later ones are made static and a warning is logged.
func (l OpList) ValidateDynamicProperties(logger *slog.Logger) {
	if logger == nil {
		logger = Logger()
	}
	seen := make(map[DynamicPropertyKind]int)
	for i, op := range l {
		d, ok := op.(DynamicOp)
		if !ok {
			continue
		}
		for _, p := range d.DynamicProperties() {
			kind := p.Kind()
			if first, dup := seen[kind]; dup {
				d.MakeStatic(kind)
				logger.Warn("dynamic property made static",
					"property", kind.String(),
					"op", i,
					"type", op.Type().String(),
					"owner", first)
				continue
			}
			seen[kind] = i
		}
	}
}

// makeAllStatic fixes every dynamic property at its current value.
func (l OpList) makeAllStatic() {
	for _, op := range l {
		d, ok := op.(DynamicOp)
		if !ok {
			continue
		}
		for _, p := range d.DynamicProperties() {
			d.MakeStatic(p.Kind())
		}
	}
}

// Direction selects whether an op applies its transform or the inverse of
// its transform.
type Direction int

// These are the supported directions.
const (
	DirectionForward Direction = iota
	DirectionInverse
)

func (d Direction) String() string {
	if d == DirectionInverse {
		return "inverse"
	}
	return "forward"
}

func (d Direction) flip() Direction {
	if d == DirectionInverse {
		return DirectionForward
	}
	return DirectionInverse
}
