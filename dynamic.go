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
	"math"
	"sync/atomic"
)

// DynamicPropertyKind identifies a parameter which can be changed after a
// processor has been built.
type DynamicPropertyKind int

// These are the supported dynamic property kinds.
const (
	DynamicPropertyExposure DynamicPropertyKind = iota + 1
	DynamicPropertyContrast
	DynamicPropertyGamma
	DynamicPropertyCurve
)

func (k DynamicPropertyKind) String() string {
	switch k {
	case DynamicPropertyExposure:
		return "exposure"
	case DynamicPropertyContrast:
		return "contrast"
	case DynamicPropertyGamma:
		return "gamma"
	case DynamicPropertyCurve:
		return "curve"
	default:
		return "unknown"
	}
}

var allDynamicKinds = []DynamicPropertyKind{
	DynamicPropertyExposure,
	DynamicPropertyContrast,
	DynamicPropertyGamma,
	DynamicPropertyCurve,
}

var errMissingDynamicProperty = &Error{
	Kind: ErrMissingDynamicProperty,
	Msg:  "Cannot find dynamic property; not used by CPU processor.",
}

// DynamicProperty is a handle to a parameter which can be changed while
// a processor is in use.  Use a type switch to get the concrete handle
// type, [*DynamicDouble] or [*DynamicCurve].
type DynamicProperty interface {
	Kind() DynamicPropertyKind
	IsDynamic() bool
}

// DynamicDouble is a dynamic property holding a single number.
//
// Values are read by the kernels once per call to Apply for every
// scanline, so a change made while an image is processed becomes visible
// at the next scanline.
type DynamicDouble struct {
	kind    DynamicPropertyKind
	bits    atomic.Uint64
	dynamic atomic.Bool
}

func newDynamicDouble(kind DynamicPropertyKind, v float64, dynamic bool) *DynamicDouble {
	d := &DynamicDouble{kind: kind}
	d.bits.Store(math.Float64bits(v))
	d.dynamic.Store(dynamic)
	return d
}

// Kind implements the [DynamicProperty] interface.
func (d *DynamicDouble) Kind() DynamicPropertyKind { return d.kind }

// IsDynamic implements the [DynamicProperty] interface.
func (d *DynamicDouble) IsDynamic() bool { return d.dynamic.Load() }

// Value returns the current value.
func (d *DynamicDouble) Value() float64 {
	return math.Float64frombits(d.bits.Load())
}

// SetValue changes the value.  It is safe to call SetValue while the
// owning processor is applied in other goroutines.
func (d *DynamicDouble) SetValue(v float64) {
	d.bits.Store(math.Float64bits(v))
}

// clone returns an independent handle with the same state.
func (d *DynamicDouble) clone() *DynamicDouble {
	return newDynamicDouble(d.kind, d.Value(), d.IsDynamic())
}

// DynamicCurve is a dynamic property holding one transfer curve per
// colour channel.
type DynamicCurve struct {
	cur     atomic.Pointer[curveSet]
	dynamic atomic.Bool
}

func newDynamicCurve(r, g, b *Curve, dynamic bool) *DynamicCurve {
	d := &DynamicCurve{}
	d.cur.Store(newCurveSet(r, g, b))
	d.dynamic.Store(dynamic)
	return d
}

// Kind implements the [DynamicProperty] interface.
func (d *DynamicCurve) Kind() DynamicPropertyKind { return DynamicPropertyCurve }

// IsDynamic implements the [DynamicProperty] interface.
func (d *DynamicCurve) IsDynamic() bool { return d.dynamic.Load() }

// Value returns copies of the current red, green and blue curves.
func (d *DynamicCurve) Value() (r, g, b *Curve) {
	s := d.cur.Load()
	return s.c[0].clone(), s.c[1].clone(), s.c[2].clone()
}

// SetValue replaces the curves.  The curves are copied.  A nil curve
// is the identity.
func (d *DynamicCurve) SetValue(r, g, b *Curve) error {
	s := newCurveSet(r, g, b)
	if err := s.check(); err != nil {
		return err
	}
	d.cur.Store(s)
	return nil
}

func (d *DynamicCurve) load() *curveSet {
	return d.cur.Load()
}

func (d *DynamicCurve) clone() *DynamicCurve {
	nd := &DynamicCurve{}
	nd.cur.Store(d.cur.Load())
	nd.dynamic.Store(d.IsDynamic())
	return nd
}

// dynamicKernel implements the dynamic property methods of [OpCPU] and
// [Kernel] for kernels which hold property handles.
type dynamicKernel struct {
	props []DynamicProperty
}

func (k dynamicKernel) IsDynamic() bool {
	for _, p := range k.props {
		if p.IsDynamic() {
			return true
		}
	}
	return false
}

func (k dynamicKernel) HasDynamicProperty(kind DynamicPropertyKind) bool {
	_, err := k.DynamicProperty(kind)
	return err == nil
}

func (k dynamicKernel) DynamicProperty(kind DynamicPropertyKind) (DynamicProperty, error) {
	for _, p := range k.props {
		if p.Kind() == kind && p.IsDynamic() {
			return p, nil
		}
	}
	return nil, errMissingDynamicProperty
}
