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
	"log/slog"
	"strings"
)

// CPUProcessor applies a finalized op list to images on the CPU.
//
// A CPUProcessor is safe for concurrent use.  Each call to Apply uses its
// own scanline buffers.  The dynamic properties of a CPUProcessor are not
// shared with the op list it was built from, or with any other
// CPUProcessor.
type CPUProcessor struct {
	inBD, outBD BitDepth
	flags       OptimizationFlags

	inOp  Kernel
	ops   []OpCPU
	outOp Kernel

	isIdentity bool
	isNoOp     bool
	crosstalk  bool
	cacheID    string

	newHelper func() scanliner
	logger    *slog.Logger
}

// NewCPUProcessor builds a processor which reads pixels with bit depth in,
// applies ops, and writes pixels with bit depth out.  The op list is
// cloned and finalized; ops is not modified.
func NewCPUProcessor(ops OpList, in, out BitDepth, opts ...Option) (*CPUProcessor, error) {
	o := buildOptions(opts)

	if err := checkBoundary(in); err != nil {
		return nil, err
	}
	if err := checkBoundary(out); err != nil {
		return nil, err
	}

	final, err := ops.Finalize(o.flags)
	if err != nil {
		return nil, err
	}
	final = final.OptimizeForBitDepth(in, out, o.flags)
	if len(final) == 0 {
		// The boundary casts normalize to [0, 1], so no scaling is needed.
		final = OpList{NewIdentityMatrixOp()}
	}
	if !o.flags.Has(OptimizationNoDynamicProperties) {
		final.ValidateDynamicProperties(o.logger)
	}

	p := &CPUProcessor{
		inBD:       in,
		outBD:      out,
		flags:      o.flags,
		isIdentity: final.IsNoOp(),
		crosstalk:  final.HasChannelCrosstalk(),
		logger:     o.logger,
	}
	p.isNoOp = p.isIdentity && in == out

	err = p.assemble(final, o.flags.Has(OptimizationFastLogExpPow))
	if err != nil {
		return nil, err
	}
	p.newHelper = scanlineFactory(in, out, p.inOp, p.outOp)

	var id strings.Builder
	fmt.Fprintf(&id, "CPU Processor: from %s to %s oFlags %d ops:", in, out, uint32(o.flags))
	for _, op := range final {
		id.WriteByte(' ')
		id.WriteString(op.CacheID())
	}
	p.cacheID = id.String()

	p.logger.Debug("CPU processor built",
		"cacheID", p.cacheID,
		"ops", len(final),
		"inKernel", fmt.Sprintf("%T", p.inOp),
		"outKernel", fmt.Sprintf("%T", p.outOp))
	return p, nil
}

// assemble turns the finalized op list into the input kernel, the
// interior float kernels and the output kernel.  A 1D LUT at either end
// of the list absorbs the bit-depth conversion, as does any op at an
// f32 end.  Otherwise explicit bit-depth casts are added.
func (p *CPUProcessor) assemble(ops OpList, fastMath bool) error {
	last := len(ops) - 1
	for i, op := range ops {
		switch {
		case i == 0:
			adapter, isLut := op.(BitDepthAdapter)
			switch {
			case isLut:
				k, err := adapter.BitDepthCPUOp(p.inBD, BitDepthF32, fastMath)
				if err != nil {
					return err
				}
				p.inOp = k
			case p.inBD == BitDepthF32:
				cpu, err := op.CPUOp(fastMath)
				if err != nil {
					return err
				}
				p.inOp = floatKernel{cpu}
			default:
				k, err := NewBitDepthCast(p.inBD, BitDepthF32)
				if err != nil {
					return err
				}
				p.inOp = k
				cpu, err := op.CPUOp(fastMath)
				if err != nil {
					return err
				}
				p.ops = append(p.ops, cpu)
			}
			if i == last {
				k, err := NewBitDepthCast(BitDepthF32, p.outBD)
				if err != nil {
					return err
				}
				p.outOp = k
			}

		case i == last:
			adapter, isLut := op.(BitDepthAdapter)
			switch {
			case isLut:
				k, err := adapter.BitDepthCPUOp(BitDepthF32, p.outBD, fastMath)
				if err != nil {
					return err
				}
				p.outOp = k
			case p.outBD == BitDepthF32:
				cpu, err := op.CPUOp(fastMath)
				if err != nil {
					return err
				}
				p.outOp = floatKernel{cpu}
			default:
				cpu, err := op.CPUOp(fastMath)
				if err != nil {
					return err
				}
				p.ops = append(p.ops, cpu)
				k, err := NewBitDepthCast(BitDepthF32, p.outBD)
				if err != nil {
					return err
				}
				p.outOp = k
			}

		default:
			cpu, err := op.CPUOp(fastMath)
			if err != nil {
				return err
			}
			p.ops = append(p.ops, cpu)
		}
	}
	return nil
}

// InputBitDepth returns the bit depth of source images.
func (p *CPUProcessor) InputBitDepth() BitDepth { return p.inBD }

// OutputBitDepth returns the bit depth of destination images.
func (p *CPUProcessor) OutputBitDepth() BitDepth { return p.outBD }

// IsIdentity reports whether the processor leaves colours unchanged,
// apart from the bit-depth conversion.
func (p *CPUProcessor) IsIdentity() bool { return p.isIdentity }

// IsNoOp reports whether the processor leaves pixels unchanged.  This
// requires an identity transform and equal input and output bit depths.
func (p *CPUProcessor) IsNoOp() bool { return p.isNoOp }

// HasChannelCrosstalk reports whether an output channel can depend on
// more than one input channel.
func (p *CPUProcessor) HasChannelCrosstalk() bool { return p.crosstalk }

// CacheID returns a string which identifies the processor.  Processors
// built from equal op lists with equal parameters have equal cache IDs.
func (p *CPUProcessor) CacheID() string { return p.cacheID }

// kernels calls yield for every stage of the processor, in order.
func (p *CPUProcessor) kernels(yield func(dynamicHolder) bool) {
	if !yield(p.inOp) {
		return
	}
	for _, op := range p.ops {
		if !yield(op) {
			return
		}
	}
	yield(p.outOp)
}

type dynamicHolder interface {
	IsDynamic() bool
	DynamicProperty(kind DynamicPropertyKind) (DynamicProperty, error)
}

// IsDynamic reports whether the processor has any dynamic properties.
func (p *CPUProcessor) IsDynamic() bool {
	for k := range p.kernels {
		if k.IsDynamic() {
			return true
		}
	}
	return false
}

// HasDynamicProperty reports whether the processor has a dynamic
// property of the given kind.
func (p *CPUProcessor) HasDynamicProperty(kind DynamicPropertyKind) bool {
	_, err := p.DynamicProperty(kind)
	return err == nil
}

// DynamicProperty returns the handle of the dynamic property of the given
// kind.  Changing the value through the handle affects later calls to
// Apply of this processor only.
func (p *CPUProcessor) DynamicProperty(kind DynamicPropertyKind) (DynamicProperty, error) {
	for k := range p.kernels {
		if prop, err := k.DynamicProperty(kind); err == nil {
			return prop, nil
		}
	}
	return nil, errMissingDynamicProperty
}

// Apply transforms img in place.  The image must have the input bit depth
// of the processor, which must equal the output bit depth.
func (p *CPUProcessor) Apply(img ImageDesc) error {
	h := p.newHelper()
	if err := h.init(img, img); err != nil {
		return err
	}
	if p.isNoOp {
		return nil
	}
	p.run(h)
	return nil
}

// ApplyTo reads src, transforms the pixels and writes them to dst.
// src must have the input bit depth and dst the output bit depth of the
// processor, and both must have the same size.  The channel layouts may
// differ.
func (p *CPUProcessor) ApplyTo(src, dst ImageDesc) error {
	h := p.newHelper()
	if err := h.init(src, dst); err != nil {
		return err
	}
	p.run(h)
	return nil
}

func (p *CPUProcessor) run(h scanliner) {
	for {
		buf, n := h.prepRGBAScanline()
		if n == 0 {
			break
		}
		for _, op := range p.ops {
			op.Apply(buf, buf, n)
		}
		h.finishRGBAScanline()
	}
}

// ApplyRGB transforms a single RGB pixel in place.  The processor must
// have f32 input and output.
func (p *CPUProcessor) ApplyRGB(pixel []float32) error {
	if err := p.checkPixel(pixel, 3); err != nil {
		return err
	}
	v := [4]float32{pixel[0], pixel[1], pixel[2], 0}
	p.applyPixel(v[:])
	copy(pixel[:3], v[:3])
	return nil
}

// ApplyRGBA transforms a single RGBA pixel in place.  The processor must
// have f32 input and output.
func (p *CPUProcessor) ApplyRGBA(pixel []float32) error {
	if err := p.checkPixel(pixel, 4); err != nil {
		return err
	}
	p.applyPixel(pixel[:4])
	return nil
}

func (p *CPUProcessor) checkPixel(pixel []float32, n int) error {
	if p.inBD != BitDepthF32 || p.outBD != BitDepthF32 {
		return errorf(ErrBitDepthMismatch,
			"single pixel processing needs 32f input and output, processor uses %s and %s",
			p.inBD, p.outBD)
	}
	if len(pixel) < n {
		return errorf(ErrNullBuffer, "pixel has %d values, need %d", len(pixel), n)
	}
	return nil
}

func (p *CPUProcessor) applyPixel(v []float32) {
	buf := Buffer{F32: v}
	p.inOp.ApplyBuffer(buf, buf, 1)
	for _, op := range p.ops {
		op.Apply(v, v, 1)
	}
	p.outOp.ApplyBuffer(buf, buf, 1)
}
