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
	"sync"
)

// Processor holds an op list and builds CPU processors from it.
//
// CPU processors without dynamic properties are cached, so that asking
// twice for the same bit depths and flags returns the same
// [CPUProcessor].  Processors with dynamic properties are built afresh
// every time, since each must own its property handles.
//
// A Processor is safe for concurrent use.
type Processor struct {
	ops    OpList
	logger *slog.Logger

	mu    sync.Mutex
	cache map[cpuKey]*CPUProcessor
}

type cpuKey struct {
	in, out BitDepth
	flags   OptimizationFlags
}

// NewProcessor returns a processor for a copy of ops.  Only the
// [WithLogger] option is used; optimization flags are given to
// [Processor.CPUProcessor].
func NewProcessor(ops OpList, opts ...Option) (*Processor, error) {
	for i, op := range ops {
		if op == nil {
			return nil, errorf(ErrInvalidOp, "op %d is nil", i)
		}
	}
	o := buildOptions(opts)
	return &Processor{
		ops:    ops.Clone(),
		logger: o.logger,
		cache:  make(map[cpuKey]*CPUProcessor),
	}, nil
}

// CPUProcessor returns a CPU processor for the given bit depths and
// optimization flags.
func (p *Processor) CPUProcessor(in, out BitDepth, flags OptimizationFlags) (*CPUProcessor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := cpuKey{in: in, out: out, flags: flags}
	if cpu, ok := p.cache[key]; ok {
		return cpu, nil
	}
	cpu, err := NewCPUProcessor(p.ops, in, out,
		WithOptimization(flags), WithLogger(p.logger))
	if err != nil {
		return nil, err
	}
	if !cpu.IsDynamic() {
		p.cache[key] = cpu
	}
	return cpu, nil
}

// DefaultCPUProcessor returns a CPU processor with f32 input and output,
// using [OptimizationDefault].
func (p *Processor) DefaultCPUProcessor() (*CPUProcessor, error) {
	return p.CPUProcessor(BitDepthF32, BitDepthF32, OptimizationDefault)
}

// IsNoOp reports whether the op list leaves all pixels unchanged.
func (p *Processor) IsNoOp() bool { return p.ops.IsNoOp() }

// HasChannelCrosstalk reports whether any op of the list has channel
// crosstalk.
func (p *Processor) HasChannelCrosstalk() bool { return p.ops.HasChannelCrosstalk() }

// IsDynamic reports whether any op of the list has dynamic properties.
func (p *Processor) IsDynamic() bool { return p.ops.IsDynamic() }

// CacheID returns a string identifying the op list.
func (p *Processor) CacheID() string {
	return "Processor: ops: " + p.ops.CacheID()
}
