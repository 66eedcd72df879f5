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
	"encoding/binary"
	"encoding/hex"
	"math"

	"golang.org/x/crypto/blake2b"
)

// digest accumulates op parameters for a cache ID.
type digest struct {
	buf []byte
}

func (d *digest) int(v int) {
	d.buf = binary.LittleEndian.AppendUint64(d.buf, uint64(v))
}

func (d *digest) float64s(vv ...float64) {
	for _, v := range vv {
		d.buf = binary.LittleEndian.AppendUint64(d.buf, math.Float64bits(v))
	}
}

func (d *digest) float32s(vv ...float32) {
	for _, v := range vv {
		d.buf = binary.LittleEndian.AppendUint32(d.buf, math.Float32bits(v))
	}
}

// id returns "<name hash>", where hash is the first 16 bytes of the
// BLAKE2b-256 sum of the accumulated parameters, in hex.
func (d *digest) id(name string) string {
	sum := blake2b.Sum256(d.buf)
	return "<" + name + " " + hex.EncodeToString(sum[:16]) + ">"
}
