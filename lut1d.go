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
	"slices"
	"sort"
)

// Lut1DOp applies one lookup table per colour channel.  The table
// entries are evenly spaced over the input domain [0, 1]; inputs outside
// the domain are clamped, and values between entries are interpolated
// linearly.  Table values are not restricted.  Alpha is not changed.
//
// In the inverse direction the tables must be non-decreasing.
type Lut1DOp struct {
	Direction Direction

	tables [3][]float32
}

// NewLut1DOp returns a forward 1D LUT op.  Every table needs at least two
// entries.  The tables are copied.
func NewLut1DOp(r, g, b []float32) (*Lut1DOp, error) {
	op := &Lut1DOp{}
	for c, t := range [3][]float32{r, g, b} {
		if len(t) < 2 {
			return nil, errorf(ErrInvalidOp, "1D LUT channel %d has %d entries, need at least 2", c, len(t))
		}
		op.tables[c] = slices.Clone(t)
	}
	return op, nil
}

// NewLut1DOpMono returns a forward 1D LUT op which uses the same table
// for all three colour channels.
func NewLut1DOpMono(values []float32) (*Lut1DOp, error) {
	return NewLut1DOp(values, values, values)
}

// Tables returns copies of the red, green and blue tables.
func (op *Lut1DOp) Tables() (r, g, b []float32) {
	return slices.Clone(op.tables[0]), slices.Clone(op.tables[1]), slices.Clone(op.tables[2])
}

// Type implements the [Op] interface.
func (op *Lut1DOp) Type() OpType { return OpTypeLut1D }

// CacheID implements the [Op] interface.
func (op *Lut1DOp) CacheID() string {
	d := &digest{}
	d.int(int(op.Direction))
	for _, t := range op.tables {
		d.int(len(t))
		d.float32s(t...)
	}
	return d.id("Lut1DOp")
}

// IsNoOp implements the [Op] interface.  A 1D LUT is never a no-op,
// since it clamps its input to [0, 1].
func (op *Lut1DOp) IsNoOp() bool { return false }

// isIdentityRamp reports whether every table maps each entry position
// to itself.
func (op *Lut1DOp) isIdentityRamp() bool {
	for _, t := range op.tables {
		scale := float32(len(t) - 1)
		for i, v := range t {
			if v != float32(i)/scale {
				return false
			}
		}
	}
	return true
}

// identityReplacement returns a [0, 1] clamp if the tables are identity
// ramps, and nil otherwise.
func (op *Lut1DOp) identityReplacement() Op {
	if op.isIdentityRamp() {
		return NewClampOp()
	}
	return nil
}

// HasChannelCrosstalk implements the [Op] interface.
func (op *Lut1DOp) HasChannelCrosstalk() bool { return false }

// Clone implements the [Op] interface.
func (op *Lut1DOp) Clone() Op {
	res := &Lut1DOp{Direction: op.Direction}
	for c, t := range op.tables {
		res.tables[c] = slices.Clone(t)
	}
	return res
}

// Inverse implements the [Inverter] interface.
func (op *Lut1DOp) Inverse() (Op, error) {
	if err := op.checkInvertible(); err != nil {
		return nil, err
	}
	res := op.Clone().(*Lut1DOp)
	res.Direction = op.Direction.flip()
	return res, nil
}

func (op *Lut1DOp) checkInvertible() error {
	for c, t := range op.tables {
		if !(t[0] < t[len(t)-1]) {
			return errorf(ErrInvalidOp, "1D LUT channel %d is not increasing", c)
		}
		for i := 1; i < len(t); i++ {
			if !(t[i] >= t[i-1]) {
				return errorf(ErrInvalidOp, "1D LUT channel %d decreases at entry %d", c, i)
			}
		}
	}
	return nil
}

func (op *Lut1DOp) cancels(next Op) bool {
	o, ok := next.(*Lut1DOp)
	if !ok || o.Direction == op.Direction {
		return false
	}
	for c := range op.tables {
		if !slices.Equal(op.tables[c], o.tables[c]) {
			return false
		}
	}
	return true
}

func (op *Lut1DOp) pairFlag() OptimizationFlags {
	return OptimizationPairIdentityLut1D
}

func (op *Lut1DOp) check() error {
	for c, t := range op.tables {
		if len(t) < 2 {
			return errorf(ErrInvalidOp, "1D LUT channel %d has %d entries, need at least 2", c, len(t))
		}
	}
	if op.Direction == DirectionInverse {
		return op.checkInvertible()
	}
	return nil
}

// eval maps x through the table of channel c.
func (op *Lut1DOp) eval(c int, x float32) float32 {
	if op.Direction == DirectionInverse {
		return lut1DInvert(op.tables[c], x)
	}
	return lut1DEval(op.tables[c], x)
}

// applyTables maps the colour channels of n packed RGBA pixels in place.
func (op *Lut1DOp) applyTables(v []float32, n int) {
	end := 4 * n
	for c, t := range op.tables {
		if op.Direction == DirectionInverse {
			for i := c; i < end; i += 4 {
				v[i] = lut1DInvert(t, v[i])
			}
		} else {
			for i := c; i < end; i += 4 {
				v[i] = lut1DEval(t, v[i])
			}
		}
	}
}

func lut1DEval(t []float32, x float32) float32 {
	n := len(t)
	pos := clampTo(x, 0, 1) * float32(n-1)
	i := int(pos)
	if i >= n-1 {
		return t[n-1]
	}
	f := pos - float32(i)
	return t[i] + f*(t[i+1]-t[i])
}

func lut1DInvert(t []float32, y float32) float32 {
	n := len(t)
	if !(y > t[0]) {
		return 0
	}
	if y >= t[n-1] {
		return 1
	}
	i := sort.Search(n, func(j int) bool { return t[j] >= y })
	lo, hi := t[i-1], t[i]
	f := (y - lo) / (hi - lo)
	return (float32(i-1) + f) / float32(n-1)
}

// CPUOp implements the [Op] interface.
func (op *Lut1DOp) CPUOp(bool) (OpCPU, error) {
	if err := op.check(); err != nil {
		return nil, err
	}
	return &lut1DKernel{op: op.Clone().(*Lut1DOp)}, nil
}

type lut1DKernel struct {
	staticKernel
	op *Lut1DOp
}

func (k *lut1DKernel) Apply(in, out []float32, numPixels int) {
	n := 4 * numPixels
	if !sameStart(in[:n], out[:n]) {
		copy(out[:n], in[:n])
	}
	k.op.applyTables(out, numPixels)
}

// BitDepthCPUOp implements the [BitDepthAdapter] interface.  For forward
// tables and integer input the kernel looks up every input code in a
// precomputed table, otherwise it interpolates.  Alpha is rescaled from
// the input range to the output range.
func (op *Lut1DOp) BitDepthCPUOp(in, out BitDepth, _ bool) (Kernel, error) {
	if err := checkBoundary(in); err != nil {
		return nil, err
	}
	if err := checkBoundary(out); err != nil {
		return nil, err
	}
	if err := op.check(); err != nil {
		return nil, err
	}
	op = op.Clone().(*Lut1DOp)

	if op.Direction == DirectionForward && !in.IsFloat() {
		if in.info().storage == sampleU8 {
			return newLutLookupFrom[uint8](op, in, out), nil
		}
		return newLutLookupFrom[uint16](op, in, out), nil
	}
	return newLutInterp(op, in, out)
}

func newLutLookupFrom[In unsignedSample](op *Lut1DOp, in, out BitDepth) Kernel {
	switch out.info().storage {
	case sampleU8:
		return newLutLookup[In, uint8](op, in, out)
	case sampleU16:
		return newLutLookup[In, uint16](op, in, out)
	default:
		return newLutLookup[In, float32](op, in, out)
	}
}

// lutLookup maps integer input codes through precomputed tables, one
// per channel including alpha.
type lutLookup[In unsignedSample, Out Sample] struct {
	staticKernel
	tables [4][]Out
}

func newLutLookup[In unsignedSample, Out Sample](op *Lut1DOp, in, out BitDepth) *lutLookup[In, Out] {
	maxIn := int(in.MaxValue())
	outScale := float32(out.MaxValue())
	alphaScale := float32(out.MaxValue() / in.MaxValue())
	store := storer[Out](out)
	k := &lutLookup[In, Out]{}
	for c := range k.tables {
		t := make([]Out, maxIn+1)
		for i := range t {
			if c == 3 {
				t[i] = store(float32(i) * alphaScale)
			} else {
				t[i] = store(op.eval(c, float32(i)/float32(maxIn)) * outScale)
			}
		}
		k.tables[c] = t
	}
	return k
}

func (k *lutLookup[In, Out]) ApplyBuffer(in, out Buffer, numPixels int) {
	src := samples[In](in)[:4*numPixels]
	dst := samples[Out](out)[:4*numPixels]
	R, G, B, A := k.tables[0], k.tables[1], k.tables[2], k.tables[3]
	n := len(R)
	for i := 0; i < len(src); i += 4 {
		dst[i] = R[clampIndex(int(src[i]), n)]
		dst[i+1] = G[clampIndex(int(src[i+1]), n)]
		dst[i+2] = B[clampIndex(int(src[i+2]), n)]
		dst[i+3] = A[clampIndex(int(src[i+3]), n)]
	}
}

// lutChunk is the number of pixels which lutInterp converts at a time.
const lutChunk = 64

// lutInterp converts the input to float32, interpolates the tables and
// converts the result to the output bit depth.  This is done in chunks
// of lutChunk pixels, using a buffer on the stack.
type lutInterp struct {
	staticKernel
	op              *Lut1DOp
	inCast, outCast Kernel
}

func newLutInterp(op *Lut1DOp, in, out BitDepth) (*lutInterp, error) {
	inCast, err := NewBitDepthCast(in, BitDepthF32)
	if err != nil {
		return nil, err
	}
	outCast, err := NewBitDepthCast(BitDepthF32, out)
	if err != nil {
		return nil, err
	}
	return &lutInterp{op: op, inCast: inCast, outCast: outCast}, nil
}

func (k *lutInterp) ApplyBuffer(in, out Buffer, numPixels int) {
	var buf [4 * lutChunk]float32
	tmp := Buffer{F32: buf[:]}
	for done := 0; done < numPixels; done += lutChunk {
		n := min(lutChunk, numPixels-done)
		k.inCast.ApplyBuffer(in.from(4*done), tmp, n)
		k.op.applyTables(buf[:], n)
		k.outCast.ApplyBuffer(tmp, out.from(4*done), n)
	}
}
