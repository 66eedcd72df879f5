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

import "slices"

// Finalize returns an optimized copy of the list.  The ops in the result
// are clones, so the result can be changed without affecting l.
//
// The following flags are used:
//   - [OptimizationNoDynamicProperties]: all dynamic properties are made
//     static before optimizing.
//   - [OptimizationIdentity]: no-op steps are removed, and identity
//     tables which only clamp are replaced by a [0, 1] clamp.
//   - the OptimizationPairIdentity flags: adjacent ops which cancel each
//     other are removed.
//   - [OptimizationCompMatrix]: adjacent matrices are combined.
func (l OpList) Finalize(flags OptimizationFlags) (OpList, error) {
	for i, op := range l {
		if op == nil {
			return nil, errorf(ErrInvalidOp, "op %d is nil", i)
		}
	}

	ops := l.Clone()
	if flags.Has(OptimizationNoDynamicProperties) {
		ops.makeAllStatic()
	}

	for {
		n := len(ops)
		if flags.Has(OptimizationIdentity) {
			ops = removeNoOps(ops)
		}
		ops = removeInversePairs(ops, flags)
		if flags.Has(OptimizationCompMatrix) {
			ops = composeMatrices(ops)
		}
		if len(ops) == n {
			break
		}
	}
	return ops, nil
}

// OptimizeForBitDepth removes steps which have no effect for the given
// input and output bit depths.  A [0, 1] clamp at the start of the list
// is redundant for integer input, and a [0, 1] clamp at the end is
// redundant for integer output since the output cast clamps anyway.
//
// This only happens if flags include [OptimizationIdentity].
func (l OpList) OptimizeForBitDepth(in, out BitDepth, flags OptimizationFlags) OpList {
	if !flags.Has(OptimizationIdentity) {
		return l
	}
	ops := slices.Clone(l)
	if !in.IsFloat() && len(ops) > 0 {
		if r, ok := ops[0].(*RangeOp); ok && r.IsClampOnly01() {
			ops = ops[1:]
		}
	}
	if !out.IsFloat() && len(ops) > 0 {
		if r, ok := ops[len(ops)-1].(*RangeOp); ok && r.IsClampOnly01() {
			ops = ops[:len(ops)-1]
		}
	}
	return ops
}

func removeNoOps(ops OpList) OpList {
	ops = slices.DeleteFunc(ops, func(op Op) bool {
		return op.IsNoOp()
	})
	for i, op := range ops {
		if r, ok := op.(identityReplacer); ok {
			if repl := r.identityReplacement(); repl != nil {
				ops[i] = repl
			}
		}
	}
	return ops
}

func removeInversePairs(ops OpList, flags OptimizationFlags) OpList {
	i := 0
	for i+1 < len(ops) {
		pc, ok := ops[i].(pairCanceller)
		if ok && flags.Has(pc.pairFlag()) && pc.cancels(ops[i+1]) {
			ops = slices.Delete(ops, i, i+2)
			i = max(i-1, 0)
			continue
		}
		i++
	}
	return ops
}

func composeMatrices(ops OpList) OpList {
	i := 0
	for i+1 < len(ops) {
		a, ok1 := ops[i].(*MatrixOp)
		b, ok2 := ops[i+1].(*MatrixOp)
		if ok1 && ok2 {
			ops[i] = a.Compose(b)
			ops = slices.Delete(ops, i+1, i+2)
			continue
		}
		i++
	}
	return ops
}
