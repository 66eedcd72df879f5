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
	"strings"
)

// OptimizationFlags select the transformations which may be applied to an
// op list before it is turned into a processor.  The numeric values are
// stable and appear in processor cache IDs.
type OptimizationFlags uint32

// Individual optimization flags.
const (
	OptimizationNone OptimizationFlags = 0

	OptimizationIdentity      OptimizationFlags = 0x01000000
	OptimizationIdentityGamma OptimizationFlags = 0x02000000

	OptimizationPairIdentityCDL              OptimizationFlags = 0x00000040
	OptimizationPairIdentityExposureContrast OptimizationFlags = 0x00000080
	OptimizationPairIdentityFixedFunction    OptimizationFlags = 0x00000100
	OptimizationPairIdentityGamma            OptimizationFlags = 0x00000200
	OptimizationPairIdentityLut1D            OptimizationFlags = 0x00000400
	OptimizationPairIdentityLut3D            OptimizationFlags = 0x00000800
	OptimizationPairIdentityLog              OptimizationFlags = 0x00001000
	OptimizationPairIdentityGrading          OptimizationFlags = 0x00002000

	OptimizationCompExponent        OptimizationFlags = 0x00040000
	OptimizationCompGamma           OptimizationFlags = 0x00080000
	OptimizationCompMatrix          OptimizationFlags = 0x00100000
	OptimizationCompLut1D           OptimizationFlags = 0x00200000
	OptimizationCompLut3D           OptimizationFlags = 0x00400000
	OptimizationCompRange           OptimizationFlags = 0x00800000
	OptimizationCompSeparablePrefix OptimizationFlags = 0x04000000

	OptimizationLutInvFast          OptimizationFlags = 0x08000000
	OptimizationFastLogExpPow       OptimizationFlags = 0x10000000
	OptimizationSimplifyOps         OptimizationFlags = 0x20000000
	OptimizationNoDynamicProperties OptimizationFlags = 0x40000000

	OptimizationAll OptimizationFlags = 0xFFFFFFFF
)

// Composite optimization levels.  Each level includes the previous one.
const (
	OptimizationLossless = OptimizationIdentity |
		OptimizationIdentityGamma |
		OptimizationPairIdentityCDL |
		OptimizationPairIdentityExposureContrast |
		OptimizationPairIdentityFixedFunction |
		OptimizationPairIdentityGamma |
		OptimizationPairIdentityLog |
		OptimizationPairIdentityLut1D |
		OptimizationPairIdentityLut3D |
		OptimizationPairIdentityGrading |
		OptimizationCompExponent |
		OptimizationCompGamma |
		OptimizationCompMatrix |
		OptimizationCompRange |
		OptimizationSimplifyOps

	OptimizationVeryGood = OptimizationLossless |
		OptimizationCompLut1D |
		OptimizationLutInvFast |
		OptimizationFastLogExpPow |
		OptimizationCompSeparablePrefix

	OptimizationGood  = OptimizationVeryGood | OptimizationCompLut3D
	OptimizationDraft = OptimizationAll

	OptimizationDefault = OptimizationVeryGood
)

// Has reports whether all bits of f are set in flags.
func (flags OptimizationFlags) Has(f OptimizationFlags) bool {
	return flags&f == f
}

func (flags OptimizationFlags) String() string {
	switch flags {
	case OptimizationNone:
		return "none"
	case OptimizationLossless:
		return "lossless"
	case OptimizationVeryGood:
		return "very-good"
	case OptimizationGood:
		return "good"
	case OptimizationDraft:
		return "draft"
	}
	var parts []string
	for _, f := range flagNames {
		if flags.Has(f.flag) {
			parts = append(parts, f.name)
			flags &^= f.flag
		}
	}
	if flags != 0 {
		parts = append(parts, fmt.Sprintf("0x%08x", uint32(flags)))
	}
	return strings.Join(parts, "|")
}

var flagNames = []struct {
	flag OptimizationFlags
	name string
}{
	{OptimizationIdentity, "identity"},
	{OptimizationIdentityGamma, "identity-gamma"},
	{OptimizationPairIdentityCDL, "pair-cdl"},
	{OptimizationPairIdentityExposureContrast, "pair-exposure-contrast"},
	{OptimizationPairIdentityFixedFunction, "pair-fixed-function"},
	{OptimizationPairIdentityGamma, "pair-gamma"},
	{OptimizationPairIdentityLut1D, "pair-lut1d"},
	{OptimizationPairIdentityLut3D, "pair-lut3d"},
	{OptimizationPairIdentityLog, "pair-log"},
	{OptimizationPairIdentityGrading, "pair-grading"},
	{OptimizationCompExponent, "comp-exponent"},
	{OptimizationCompGamma, "comp-gamma"},
	{OptimizationCompMatrix, "comp-matrix"},
	{OptimizationCompLut1D, "comp-lut1d"},
	{OptimizationCompLut3D, "comp-lut3d"},
	{OptimizationCompRange, "comp-range"},
	{OptimizationCompSeparablePrefix, "comp-separable-prefix"},
	{OptimizationLutInvFast, "lut-inv-fast"},
	{OptimizationFastLogExpPow, "fast-log-exp-pow"},
	{OptimizationSimplifyOps, "simplify-ops"},
	{OptimizationNoDynamicProperties, "no-dynamic-properties"},
}
