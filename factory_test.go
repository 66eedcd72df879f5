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
	"errors"
	"strings"
	"sync"
	"testing"

	"golang.org/x/image/math/f32"
)

func TestProcessorCache(t *testing.T) {
	proc, err := NewProcessor(OpList{NewOffsetOp(f32.Vec4{0.1, 0, 0, 0})})
	if err != nil {
		t.Fatal(err)
	}

	a, err := proc.CPUProcessor(BitDepthUint8, BitDepthF32, OptimizationDefault)
	if err != nil {
		t.Fatal(err)
	}
	b, err := proc.CPUProcessor(BitDepthUint8, BitDepthF32, OptimizationDefault)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("second request did not hit the cache")
	}

	c, err := proc.CPUProcessor(BitDepthUint8, BitDepthF32, OptimizationNone)
	if err != nil {
		t.Fatal(err)
	}
	if c == a {
		t.Error("different flags returned the cached processor")
	}
	d, err := proc.DefaultCPUProcessor()
	if err != nil {
		t.Fatal(err)
	}
	if d == a || d.InputBitDepth() != BitDepthF32 || d.OutputBitDepth() != BitDepthF32 {
		t.Errorf("DefaultCPUProcessor() is %s -> %s", d.InputBitDepth(), d.OutputBitDepth())
	}
}

func TestProcessorNoCacheWhenDynamic(t *testing.T) {
	ec := NewExposureContrastOp(0, 1, 1, 0.18)
	ec.MakeDynamic(DynamicPropertyExposure)
	proc, err := NewProcessor(OpList{ec})
	if err != nil {
		t.Fatal(err)
	}
	if !proc.IsDynamic() {
		t.Error("processor is not dynamic")
	}

	a, err := proc.DefaultCPUProcessor()
	if err != nil {
		t.Fatal(err)
	}
	b, err := proc.DefaultCPUProcessor()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("dynamic processors are shared")
	}

	prop, err := a.DynamicProperty(DynamicPropertyExposure)
	if err != nil {
		t.Fatal(err)
	}
	prop.(*DynamicDouble).SetValue(2)
	px := []float32{0.1, 0.1, 0.1, 1}
	if err := b.ApplyRGBA(px); err != nil {
		t.Fatal(err)
	}
	checkFloats(t, px, []float32{0.1, 0.1, 0.1, 1}, 1e-6)
}

func TestProcessorCopiesOps(t *testing.T) {
	op := NewOffsetOp(f32.Vec4{0.1, 0, 0, 0})
	proc, err := NewProcessor(OpList{op})
	if err != nil {
		t.Fatal(err)
	}
	op.Offset[0] = 0.5

	cpu, err := proc.DefaultCPUProcessor()
	if err != nil {
		t.Fatal(err)
	}
	px := []float32{0, 0, 0, 0}
	if err := cpu.ApplyRGBA(px); err != nil {
		t.Fatal(err)
	}
	checkFloats(t, px, []float32{0.1, 0, 0, 0}, 1e-7)
}

func TestProcessorQueries(t *testing.T) {
	proc, err := NewProcessor(OpList{NewIdentityMatrixOp(), NewGammaOp(1)})
	if err != nil {
		t.Fatal(err)
	}
	if !proc.IsNoOp() {
		t.Error("identity list is not a no-op")
	}
	if proc.HasChannelCrosstalk() {
		t.Error("identity list has channel crosstalk")
	}
	if proc.IsDynamic() {
		t.Error("static list is dynamic")
	}
	if !strings.HasPrefix(proc.CacheID(), "Processor: ops: <MatrixOffsetOp ") {
		t.Errorf("CacheID() = %q", proc.CacheID())
	}

	if _, err := NewProcessor(OpList{nil}); !errors.Is(err, ErrInvalidOp) {
		t.Errorf("nil op: got %v, want ErrInvalidOp", err)
	}
	if _, err := proc.CPUProcessor(BitDepthUint14, BitDepthF32, OptimizationDefault); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("14ui input: got %v, want ErrUnsupportedBitDepth", err)
	}
}

func TestProcessorConcurrentRequests(t *testing.T) {
	proc, err := NewProcessor(OpList{NewGammaOp(2.2)})
	if err != nil {
		t.Fatal(err)
	}
	const n = 16
	res := make([]*CPUProcessor, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cpu, err := proc.CPUProcessor(BitDepthUint16, BitDepthUint8, OptimizationDefault)
			if err != nil {
				t.Error(err)
				return
			}
			res[i] = cpu
		}()
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		if res[i] != res[0] {
			t.Fatalf("request %d got a different processor", i)
		}
	}
}
