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

import "golang.org/x/exp/constraints"

// clampTo restricts v to [lo, hi].  NaN is mapped to lo.
func clampTo[T constraints.Float](v, lo, hi T) T {
	if !(v > lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampIndex restricts i to [0, n-1].
func clampIndex[T constraints.Integer](i, n T) T {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
