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

import "log/slog"

// Option configures the construction of a [Processor] or [CPUProcessor].
//
// Example:
//
//	p, err := colorproc.NewCPUProcessor(ops, colorproc.BitDepthUint8, colorproc.BitDepthF32,
//		colorproc.WithOptimization(colorproc.OptimizationLossless))
type Option func(*options)

type options struct {
	flags  OptimizationFlags
	logger *slog.Logger
}

func defaultOptions() options {
	return options{
		flags: OptimizationDefault,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	return o
}

// WithOptimization sets the optimization flags used when the op list
// is finalized.  The default is [OptimizationDefault].
func WithOptimization(flags OptimizationFlags) Option {
	return func(o *options) {
		o.flags = flags
	}
}

// WithLogger sets the log sink of the processor.  If this option is not
// given, the package logger (see [SetLogger]) is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
