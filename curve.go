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
	"slices"
)

// Curve describes a transfer function for a single colour channel.
// There are three forms:
//   - a power law y = x^Gamma (set Gamma only, e.g. &Curve{Gamma: 2.2}),
//   - one of the ICC parametric function types (set FuncType and Params),
//   - a sampled table (set Table only).
//
// If more than one form is set, Params takes precedence over Table, and
// Table over Gamma.  The zero Curve is the identity.
//
// Power laws are extended to negative inputs by odd symmetry, and the
// parametric types use their formulas on the whole real line, so that
// values outside [0, 1] pass through the pipeline.  Sampled tables only
// cover the domain [0, 1] and clamp their input to it.
type Curve struct {
	// Gamma specifies the exponent for a simple power law.  The values 0
	// and 1 both give the identity.
	Gamma float64

	// FuncType and Params define a parametric curve. FuncType selects
	// the function type (0-4) and Params provides the coefficients
	// [g, a, b, c, d, e, f]:
	//   - type 0: y = x^g
	//   - type 1: y = (ax+b)^g for x >= -b/a, else y = 0
	//   - type 2: y = (ax+b)^g + c for x >= -b/a, else y = c
	//   - type 3: y = (ax+b)^g for x >= d, else y = cx
	//   - type 4: y = (ax+b)^g + e for x >= d, else y = cx + f
	FuncType int
	Params   []float64 // [g], [g,a,b], [g,a,b,c], [g,a,b,c,d], or [g,a,b,c,d,e,f]

	// Table specifies a sampled curve. Values are evenly spaced from input
	// 0 to 1, with linear interpolation between samples.
	Table []uint16
}

// Evaluate computes the output value for the input x.
//
// Evaluate is meant for single values.  Ops convert their curves once,
// when they are created.
func (c *Curve) Evaluate(x float64) float64 {
	t := c.transfer()
	if t.kind == transferSampled {
		return float64(lut1DEval(t.table, float32(x)))
	}
	return t.forward(x)
}

// Invert computes the input value which Evaluate maps to y.  Sampled
// tables must be monotonic for this to work.
func (c *Curve) Invert(y float64) float64 {
	t := c.transfer()
	if t.kind == transferSampled {
		return float64(t.invertSampled(float32(y)))
	}
	return t.inverse(y)
}

// IsIdentity reports whether the curve maps every value to itself.
// Sampled tables are never the identity, since they clamp their input.
func (c *Curve) IsIdentity() bool {
	return c == nil || c.transfer().kind == transferIdentity
}

func (c *Curve) clone() *Curve {
	if c == nil {
		return &Curve{Gamma: 1}
	}
	return &Curve{
		Gamma:    c.Gamma,
		FuncType: c.FuncType,
		Params:   slices.Clone(c.Params),
		Table:    slices.Clone(c.Table),
	}
}

func (c *Curve) equal(other *Curve) bool {
	return c.Gamma == other.Gamma &&
		c.FuncType == other.FuncType &&
		slices.Equal(c.Params, other.Params) &&
		slices.Equal(c.Table, other.Table)
}

func (c *Curve) addTo(d *digest) {
	d.float64s(c.Gamma)
	d.int(c.FuncType)
	d.int(len(c.Params))
	d.float64s(c.Params...)
	d.int(len(c.Table))
	for _, v := range c.Table {
		d.int(int(v))
	}
}

type transferKind uint8

const (
	transferIdentity transferKind = iota
	transferPower
	transferParametric
	transferSampled
)

// transfer is the evaluation form of a Curve.  All parametric types are
// mapped onto the general form
//
//	y = (ax+b)^g + e  for x >= d,
//	y = cx + f        otherwise.
type transfer struct {
	kind transferKind

	g, a, b, c, d, e, f float64

	// sampled curves
	table    []float32
	rising   []float32 // table in increasing order, for inversion
	reversed bool
}

// transfer converts c into its evaluation form.  Missing parameters are
// taken to be zero; [curveSet.check] reports them as errors.
func (c *Curve) transfer() *transfer {
	switch {
	case c.Params != nil:
		var p [7]float64
		copy(p[:], c.Params)
		g, a, b := p[0], p[1], p[2]
		switch c.FuncType {
		case 0:
			return newPowerTransfer(g)
		case 1:
			return &transfer{kind: transferParametric, g: g, a: a, b: b, d: -b / a}
		case 2:
			return &transfer{kind: transferParametric, g: g, a: a, b: b, d: -b / a, e: p[3], f: p[3]}
		case 3:
			return &transfer{kind: transferParametric, g: g, a: a, b: b, c: p[3], d: p[4]}
		case 4:
			return &transfer{kind: transferParametric, g: g, a: a, b: b, c: p[3], d: p[4], e: p[5], f: p[6]}
		}
		return &transfer{kind: transferIdentity}

	case len(c.Table) > 0:
		t := &transfer{kind: transferSampled}
		t.table = make([]float32, len(c.Table))
		for i, v := range c.Table {
			t.table[i] = float32(v) / 65535
		}
		if len(t.table) == 1 {
			// a constant
			t.table = append(t.table, t.table[0])
		}
		t.rising = t.table
		if t.table[0] > t.table[len(t.table)-1] {
			t.rising = slices.Clone(t.table)
			slices.Reverse(t.rising)
			t.reversed = true
		}
		return t
	}
	return newPowerTransfer(c.Gamma)
}

func newPowerTransfer(g float64) *transfer {
	if g == 0 || g == 1 {
		return &transfer{kind: transferIdentity}
	}
	return &transfer{kind: transferPower, g: g}
}

func (t *transfer) forward(x float64) float64 {
	switch t.kind {
	case transferPower:
		return signedPow(x, t.g)
	case transferParametric:
		if x < t.d {
			return t.c*x + t.f
		}
		v := t.a*x + t.b
		if v <= 0 {
			return t.e
		}
		return math.Pow(v, t.g) + t.e
	}
	return x
}

func (t *transfer) inverse(y float64) float64 {
	switch t.kind {
	case transferPower:
		return signedPow(y, 1/t.g)
	case transferParametric:
		if y < t.c*t.d+t.f {
			if t.c == 0 {
				return t.d
			}
			return (y - t.f) / t.c
		}
		v := y - t.e
		if v <= 0 || t.a == 0 || t.g == 0 {
			return t.d
		}
		return (math.Pow(v, 1/t.g) - t.b) / t.a
	}
	return y
}

func (t *transfer) invertSampled(y float32) float32 {
	x := lut1DInvert(t.rising, y)
	if t.reversed {
		return 1 - x
	}
	return x
}

// run maps channel ch of n RGBA pixels from src to dst.
func (t *transfer) run(dst, src []float32, ch, n int, inverse bool) {
	end := 4 * n
	switch {
	case t.kind == transferIdentity:
		for i := ch; i < end; i += 4 {
			dst[i] = src[i]
		}
	case t.kind == transferSampled && inverse:
		for i := ch; i < end; i += 4 {
			dst[i] = t.invertSampled(src[i])
		}
	case t.kind == transferSampled:
		for i := ch; i < end; i += 4 {
			dst[i] = lut1DEval(t.table, src[i])
		}
	case inverse:
		for i := ch; i < end; i += 4 {
			dst[i] = float32(t.inverse(float64(src[i])))
		}
	default:
		for i := ch; i < end; i += 4 {
			dst[i] = float32(t.forward(float64(src[i])))
		}
	}
}

// signedPow computes sign(x) |x|^g.
func signedPow(x, g float64) float64 {
	if x < 0 {
		return -math.Pow(-x, g)
	}
	return math.Pow(x, g)
}

// curveSet is an immutable triple of curves together with their
// evaluation forms.
type curveSet struct {
	c [3]*Curve
	t [3]*transfer
}

func newCurveSet(r, g, b *Curve) *curveSet {
	s := &curveSet{c: [3]*Curve{r.clone(), g.clone(), b.clone()}}
	for i, c := range s.c {
		s.t[i] = c.transfer()
	}
	return s
}

func (s *curveSet) check() error {
	for _, c := range s.c {
		if c.Params == nil {
			continue
		}
		if c.FuncType < 0 || c.FuncType >= len(numParams) {
			return errorf(ErrInvalidOp, "unknown curve type %d", c.FuncType)
		}
		if len(c.Params) < numParams[c.FuncType] {
			return errorf(ErrInvalidOp, "curve type %d needs %d parameters, got %d",
				c.FuncType, numParams[c.FuncType], len(c.Params))
		}
	}
	return nil
}

func (s *curveSet) isIdentity() bool {
	for _, t := range s.t {
		if t.kind != transferIdentity {
			return false
		}
	}
	return true
}

// CurveOp applies one transfer curve per colour channel.  Alpha is not
// changed.
type CurveOp struct {
	Direction Direction

	curves *DynamicCurve
}

// NewCurveOp returns a forward curve op.  A nil curve leaves its channel
// unchanged.  The curves are copied.
func NewCurveOp(r, g, b *Curve) *CurveOp {
	return &CurveOp{curves: newDynamicCurve(r, g, b, false)}
}

// NewGammaOp returns a curve op applying y = x^gamma to the colour
// channels.
func NewGammaOp(gamma float64) *CurveOp {
	c := &Curve{Gamma: gamma}
	return NewCurveOp(c, c, c)
}

// Curves returns copies of the current curves.
func (op *CurveOp) Curves() (r, g, b *Curve) {
	return op.curves.Value()
}

// MakeDynamic allows the curves to be replaced after a processor has
// been built, through the [DynamicPropertyCurve] property.
func (op *CurveOp) MakeDynamic() {
	op.curves.dynamic.Store(true)
}

// MakeStatic implements the [DynamicOp] interface.
func (op *CurveOp) MakeStatic(kind DynamicPropertyKind) {
	if kind == DynamicPropertyCurve {
		op.curves.dynamic.Store(false)
	}
}

// DynamicProperties implements the [DynamicOp] interface.
func (op *CurveOp) DynamicProperties() []DynamicProperty {
	if op.curves.IsDynamic() {
		return []DynamicProperty{op.curves}
	}
	return nil
}

// Type implements the [Op] interface.
func (op *CurveOp) Type() OpType { return OpTypeCurve }

// CacheID implements the [Op] interface.
func (op *CurveOp) CacheID() string {
	d := &digest{}
	d.int(int(op.Direction))
	if op.curves.IsDynamic() {
		d.int(1)
	} else {
		d.int(0)
		for _, c := range op.curves.load().c {
			c.addTo(d)
		}
	}
	return d.id("CurveOp")
}

// IsNoOp implements the [Op] interface.
func (op *CurveOp) IsNoOp() bool {
	return !op.curves.IsDynamic() && op.curves.load().isIdentity()
}

// HasChannelCrosstalk implements the [Op] interface.
func (op *CurveOp) HasChannelCrosstalk() bool { return false }

// Clone implements the [Op] interface.
func (op *CurveOp) Clone() Op {
	return &CurveOp{Direction: op.Direction, curves: op.curves.clone()}
}

// Inverse implements the [Inverter] interface.
func (op *CurveOp) Inverse() (Op, error) {
	res := op.Clone().(*CurveOp)
	res.Direction = op.Direction.flip()
	return res, nil
}

func (op *CurveOp) cancels(next Op) bool {
	o, ok := next.(*CurveOp)
	if !ok || o.Direction == op.Direction {
		return false
	}
	if op.curves.IsDynamic() || o.curves.IsDynamic() {
		return false
	}
	a, b := op.curves.load(), o.curves.load()
	for i := range a.c {
		if !a.c[i].equal(b.c[i]) {
			return false
		}
	}
	return true
}

func (op *CurveOp) pairFlag() OptimizationFlags {
	return OptimizationPairIdentityGamma
}

// CPUOp implements the [Op] interface.
func (op *CurveOp) CPUOp(bool) (OpCPU, error) {
	if err := op.curves.load().check(); err != nil {
		return nil, err
	}
	return &curveKernel{
		dynamicKernel: dynamicKernel{props: []DynamicProperty{op.curves}},
		inverse:       op.Direction == DirectionInverse,
		curves:        op.curves,
	}, nil
}

// numParams gives the number of parameters of each parametric curve type.
var numParams = [5]int{1, 3, 4, 5, 7}

type curveKernel struct {
	dynamicKernel
	inverse bool
	curves  *DynamicCurve
}

func (k *curveKernel) Apply(in, out []float32, numPixels int) {
	s := k.curves.load()
	for c, t := range s.t {
		t.run(out, in, c, numPixels, k.inverse)
	}
	for i := 3; i < 4*numPixels; i += 4 {
		out[i] = in[i]
	}
}
