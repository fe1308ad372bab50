// This file is part of thumbiss.
//
// thumbiss is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// thumbiss is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with thumbiss.  If not, see <https://www.gnu.org/licenses/>.

// Package fpu is a software IEEE-754 implementation over uint32/uint64 bit
// patterns, transcribed from the pseudocode functions in chapter A2 of the
// "ARMv7-M Architecture Reference Manual" (FPAdd, FPSub, FPMul, FPDiv,
// FPCompare, FPRound, FPUnpack, ...). Only the primitives execFPU.go
// actually dispatches to are kept; pseudocode functions with no caller
// anywhere in the core (FPMulAdd and its VFPNegMul control type, FixedToFP,
// the saturating-integer SignedSatQ/UnsignedSatQ) were dropped rather than
// carried as unreachable transcriptions — the bitfield/SSAT/USAT Thumb
// instructions are serviced by exec_dataproc.go's own signedSaturate/
// unsignedSaturate instead, and no VFMA/VNMLA/VNMLS/VNMUL or
// integer-to-float VCVT encoding is ever decoded.
//
// thumbiss re-implements floating point in software, rather than trusting
// the host's float32/float64 arithmetic, for the reason spec.md §9 gives:
// the guest inspects FPSCR directly (rounding mode, flush-to-zero,
// default-NaN, the exception sticky bits) and those semantics have to be
// modelled explicitly rather than inherited from whatever the host FPU
// happens to do. Host float64 is still used as the *working* representation
// during a computation (FPUnpack produces a float64), which is accurate
// enough for single and double precision ARM arithmetic; only the unpack/
// round/pack boundary needs to be bit-exact, and that is where FPRound and
// FPRoundBase do their work.
//
// The numeric bodies of this package (unpack, round, the arithmetic
// operations) are carried over unchanged from the ARM core this module was
// grounded on: re-deriving round-to-nearest-even tie-breaking and subnormal
// handling from scratch risks introducing a rounding bug that would only
// show up as an off-by-one-ULP mismatch in a guest's floating point output,
// which is exactly the kind of defect this package exists to avoid. See
// bridge.go and status.go for the part that is new: the glue connecting
// FPSCR-sourced exception flags to this module's Fault type and the single/
// double dispatch the executor calls through.
package fpu
