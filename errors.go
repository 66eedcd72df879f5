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

import "fmt"

// ErrorKind classifies the failures reported by this package.
// An ErrorKind is itself an error, so that callers can write
// errors.Is(err, colorproc.ErrUnsupportedBitDepth).
type ErrorKind int

// These are the error kinds used by the package.
const (
	ErrUnsupportedBitDepth ErrorKind = iota + 1
	ErrInvalidGeometry
	ErrNullBuffer
	ErrBitDepthMismatch
	ErrMissingDynamicProperty
	ErrUnresolvedContextVariable
	ErrInvalidOp
)

func (k ErrorKind) Error() string {
	switch k {
	case ErrUnsupportedBitDepth:
		return "unsupported bit-depth"
	case ErrInvalidGeometry:
		return "invalid image geometry"
	case ErrNullBuffer:
		return "missing image buffer"
	case ErrBitDepthMismatch:
		return "bit-depth mismatch"
	case ErrMissingDynamicProperty:
		return "missing dynamic property"
	case ErrUnresolvedContextVariable:
		return "unresolved context variable"
	case ErrInvalidOp:
		return "invalid op"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// Error is the error type returned by all operations of this package.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return "colorproc: " + e.Msg
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

func errorf(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
