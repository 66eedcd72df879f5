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

import "math"

// minContrast is the smallest effective contrast used by the
// exposure/contrast kernels.
const minContrast = 0.001

// ExposureContrastOp adjusts exposure (in stops) and contrast around a
// pivot, on linear data.  Exposure, contrast and gamma can be made
// dynamic.
type ExposureContrastOp struct {
	Direction Direction
	Pivot     float64

	exposure *DynamicDouble
	contrast *DynamicDouble
	gamma    *DynamicDouble
}

// NewExposureContrastOp returns a forward exposure/contrast op.  The
// usual pivot for scene-linear data is 0.18.
func NewExposureContrastOp(exposure, contrast, gamma, pivot float64) *ExposureContrastOp {
	return &ExposureContrastOp{
		Pivot:    pivot,
		exposure: newDynamicDouble(DynamicPropertyExposure, exposure, false),
		contrast: newDynamicDouble(DynamicPropertyContrast, contrast, false),
		gamma:    newDynamicDouble(DynamicPropertyGamma, gamma, false),
	}
}

func (op *ExposureContrastOp) handle(kind DynamicPropertyKind) *DynamicDouble {
	switch kind {
	case DynamicPropertyExposure:
		return op.exposure
	case DynamicPropertyContrast:
		return op.contrast
	case DynamicPropertyGamma:
		return op.gamma
	}
	return nil
}

// MakeDynamic allows the property of the given kind to be changed after
// a processor has been built.  Kinds other than exposure, contrast and
// gamma are ignored.
func (op *ExposureContrastOp) MakeDynamic(kind DynamicPropertyKind) {
	if h := op.handle(kind); h != nil {
		h.dynamic.Store(true)
	}
}

// MakeStatic implements the [DynamicOp] interface.
func (op *ExposureContrastOp) MakeStatic(kind DynamicPropertyKind) {
	if h := op.handle(kind); h != nil {
		h.dynamic.Store(false)
	}
}

// DynamicProperties implements the [DynamicOp] interface.
func (op *ExposureContrastOp) DynamicProperties() []DynamicProperty {
	var res []DynamicProperty
	for _, h := range []*DynamicDouble{op.exposure, op.contrast, op.gamma} {
		if h.IsDynamic() {
			res = append(res, h)
		}
	}
	return res
}

// Exposure returns the current exposure, in stops.
func (op *ExposureContrastOp) Exposure() float64 { return op.exposure.Value() }

// Contrast returns the current contrast.
func (op *ExposureContrastOp) Contrast() float64 { return op.contrast.Value() }

// Gamma returns the current gamma.
func (op *ExposureContrastOp) Gamma() float64 { return op.gamma.Value() }

// Type implements the [Op] interface.
func (op *ExposureContrastOp) Type() OpType { return OpTypeExposureContrast }

// CacheID implements the [Op] interface.  The values of dynamic
// properties are not part of the ID.
func (op *ExposureContrastOp) CacheID() string {
	d := &digest{}
	d.int(int(op.Direction))
	d.float64s(op.Pivot)
	for _, h := range []*DynamicDouble{op.exposure, op.contrast, op.gamma} {
		if h.IsDynamic() {
			d.int(1)
		} else {
			d.int(0)
			d.float64s(h.Value())
		}
	}
	return d.id("ExposureContrastOp")
}

// IsNoOp implements the [Op] interface.
func (op *ExposureContrastOp) IsNoOp() bool {
	if len(op.DynamicProperties()) > 0 {
		return false
	}
	return op.Exposure() == 0 && op.Contrast() == 1 && op.Gamma() == 1
}

// HasChannelCrosstalk implements the [Op] interface.
func (op *ExposureContrastOp) HasChannelCrosstalk() bool { return false }

// Clone implements the [Op] interface.
func (op *ExposureContrastOp) Clone() Op {
	return &ExposureContrastOp{
		Direction: op.Direction,
		Pivot:     op.Pivot,
		exposure:  op.exposure.clone(),
		contrast:  op.contrast.clone(),
		gamma:     op.gamma.clone(),
	}
}

// Inverse implements the [Inverter] interface.
func (op *ExposureContrastOp) Inverse() (Op, error) {
	res := op.Clone().(*ExposureContrastOp)
	res.Direction = op.Direction.flip()
	return res, nil
}

func (op *ExposureContrastOp) cancels(next Op) bool {
	o, ok := next.(*ExposureContrastOp)
	if !ok || o.Direction == op.Direction {
		return false
	}
	if len(op.DynamicProperties()) > 0 || len(o.DynamicProperties()) > 0 {
		return false
	}
	return op.Pivot == o.Pivot &&
		op.Exposure() == o.Exposure() &&
		op.Contrast() == o.Contrast() &&
		op.Gamma() == o.Gamma()
}

func (op *ExposureContrastOp) pairFlag() OptimizationFlags {
	return OptimizationPairIdentityExposureContrast
}

// CPUOp implements the [Op] interface.
func (op *ExposureContrastOp) CPUOp(bool) (OpCPU, error) {
	if !(op.Pivot > 0) {
		return nil, errorf(ErrInvalidOp, "exposure/contrast pivot %g must be positive", op.Pivot)
	}
	return &exposureContrastKernel{
		dynamicKernel: dynamicKernel{props: []DynamicProperty{op.exposure, op.contrast, op.gamma}},
		inverse:       op.Direction == DirectionInverse,
		pivot:         op.Pivot,
		exposure:      op.exposure,
		contrast:      op.contrast,
		gamma:         op.gamma,
	}, nil
}

type exposureContrastKernel struct {
	dynamicKernel
	inverse  bool
	pivot    float64
	exposure *DynamicDouble
	contrast *DynamicDouble
	gamma    *DynamicDouble
}

func (k *exposureContrastKernel) Apply(in, out []float32, numPixels int) {
	contrast := max(minContrast, k.contrast.Value()*k.gamma.Value())
	gain := math.Exp2(k.exposure.Value())
	if k.inverse {
		k.applyInverse(in, out, numPixels, gain, contrast)
	} else {
		k.applyForward(in, out, numPixels, gain, contrast)
	}
}

func (k *exposureContrastKernel) applyForward(in, out []float32, numPixels int, gain, contrast float64) {
	if contrast == 1 {
		scale := float32(gain)
		for i := 0; i < 4*numPixels; i += 4 {
			out[i] = in[i] * scale
			out[i+1] = in[i+1] * scale
			out[i+2] = in[i+2] * scale
			out[i+3] = in[i+3]
		}
		return
	}
	expOverPivot := gain / k.pivot
	for i := 0; i < 4*numPixels; i += 4 {
		for c := range 3 {
			v := max(0, float64(in[i+c])*expOverPivot)
			out[i+c] = float32(math.Pow(v, contrast) * k.pivot)
		}
		out[i+3] = in[i+3]
	}
}

func (k *exposureContrastKernel) applyInverse(in, out []float32, numPixels int, gain, contrast float64) {
	if contrast == 1 {
		scale := float32(1 / gain)
		for i := 0; i < 4*numPixels; i += 4 {
			out[i] = in[i] * scale
			out[i+1] = in[i+1] * scale
			out[i+2] = in[i+2] * scale
			out[i+3] = in[i+3]
		}
		return
	}
	invContrast := 1 / contrast
	pivotOverExp := k.pivot / gain
	for i := 0; i < 4*numPixels; i += 4 {
		for c := range 3 {
			v := max(0, float64(in[i+c])/k.pivot)
			out[i+c] = float32(math.Pow(v, invContrast) * pivotOverExp)
		}
		out[i+3] = in[i+3]
	}
}
