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

package fpu

// Precision selects the width of an FPU operand for the dispatch helpers
// below. It exists so the executor package (which decodes VADD.F32 vs
// VADD.F64 from the instruction's sz bit) doesn't need to know the ARM
// pseudocode's "N" bit-width convention directly.
type Precision int

const (
	Single Precision = 32
	Double Precision = 64
)

// Add, Sub, Mul, Div and Compare dispatch to the FPSCR-controlled
// arithmetic functions at the given precision. They are the only entry
// points the executor needs for VADD/VSUB/VMUL/VDIV/VCMP.
func (fpu *FPU) Add(op1, op2 uint64, p Precision) uint64 { return fpu.FPAdd(op1, op2, int(p), true) }
func (fpu *FPU) Sub(op1, op2 uint64, p Precision) uint64 { return fpu.FPSub(op1, op2, int(p), true) }
func (fpu *FPU) Mul(op1, op2 uint64, p Precision) uint64 { return fpu.FPMul(op1, op2, int(p), true) }
func (fpu *FPU) Div(op1, op2 uint64, p Precision) uint64 { return fpu.FPDiv(op1, op2, int(p), true) }

// Compare sets FPSCR.{N,Z,C,V} from comparing op1 against op2; quietNaNexc
// selects whether an unordered QNaN comparison raises InvalidOp (VCMP.F32
// does, VCMPE.F32 always does regardless of NaN signalling).
func (fpu *FPU) Compare(op1, op2 uint64, p Precision, quietNaNexc bool) {
	fpu.FPCompare(op1, op2, int(p), quietNaNexc, true)
}

// Neg and Abs forward to FPNeg/FPAbs at the given precision; VNEG/VABS never
// raise an exception and don't go through FPUnpack/FPRound at all.
func (fpu *FPU) Neg(op uint64, p Precision) uint64 { return fpu.FPNeg(op, int(p)) }
func (fpu *FPU) Abs(op uint64, p Precision) uint64 { return fpu.FPAbs(op, int(p)) }

// ExceptionFlags returns the FPSCR cumulative exception bits (IOC, DZC, OFC,
// UFC, IXC, IDC) that are currently set, for a caller that wants to surface
// them as part of a guest-visible fault rather than silently accumulate
// them in FPSCR. thumbiss never traps on these (ExcTrapEnable bits always
// read back as implemented-but-ignored here, matching the "no FP exception
// trapping" choice most Cortex-M FPUs make), so this is purely informative.
func (fpu *FPU) ExceptionFlags() uint32 {
	return fpu.Status.value & 0x9f
}
