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

package arm

// Record is the decoder's output: a single struct carrying every field any
// instruction family might need, tagged by Op. spec.md §9 notes that "a
// class hierarchy with a visitor dispatch or a function-pointer table keyed
// by an op-code integer is equivalent" to a ~200-variant sum type in a
// language without algebraic data types; Record plus the Op-keyed switch in
// exec.go is that table. This is the central structural departure from the
// teacher, whose decodeThumb*/thumb2* functions each return a closure that
// both decodes AND executes in one step (see decodeThumbMoveShiftedRegister
// in the teacher's thumb.go for the pattern being split apart) — spec.md
// §2's component table requires decode and execute to be separate stages
// so the instruction cache can store the decoded form independently of
// executing it.
//
// Only the fields relevant to a given Op are meaningful; decode.go never
// leaves stale data from a previous decode in a freshly returned Record, but
// callers should not read fields the particular Op doesn't document as
// using.
type Record struct {
	Op Op

	// Thumb32 records encoded instruction size, used by core.go to advance
	// PC and by the instruction cache to reserve a second (unused) slot.
	Thumb32 bool

	// RawOpcode is the original halfword (or first halfword of a Thumb32
	// pair, with the second packed into the upper 16 bits) for
	// disassembly and for the UDF fault payload.
	RawOpcode uint32

	// Cond is the 4-bit condition field for the conditional-branch and IT
	// encodings; for every other encoding predication instead comes from
	// IT state (spec.md §4.3) and Cond is unused.
	Cond uint8

	// register operands. Not every field is used by every Op; a negative
	// value (-1) marks "not present" for optional register operands like
	// Ra in MUL (vs MLA) or Rd in compare-only forms.
	Rd, Rn, Rm, Rt, Rt2, Ra int8

	// RdHi/RdLo name the destination pair for UMULL/SMULL/UMLAL/SMLAL.
	RdHi, RdLo int8

	// Imm32 is the primary expanded immediate (offset, shift amount
	// source, or branch displacement already sign-extended).
	Imm32 uint32

	// ImmC0/ImmC1/ImmHasCarry hold the APSR.C-dependent immediate
	// expansion precomputed by the decoder per spec.md §4.2 and §9
	// ("Immediate-with-carry precomputation"): when ImmHasCarry is true the
	// executor selects ImmC1 if the carry flag is set at execute time,
	// ImmC0 otherwise, instead of re-running ThumbExpandImmC on every
	// execution of a hot loop body.
	ImmC0, ImmC1 uint32
	ImmHasCarry  bool

	// ShiftType/ShiftAmount describe a register or immediate shift applied
	// to Rm (data-processing operand2) or to Rn (address calculation).
	ShiftType   ShiftType
	ShiftAmount uint32

	// addressing-mode booleans shared by load/store single and multiple
	// (spec.md §4.3 "Loads/Stores").
	Add       bool // offset is added (true) or subtracted (false)
	Index     bool // pre-indexed (true) or post-indexed (false)
	Wback     bool // write the offset address back to Rn
	Unaligned bool // access permits misalignment (most Thumb loads/stores)

	// RegList is the bitmask of registers for LDM/STM/PUSH/POP, bit n set
	// meaning register n is included.
	RegList uint16

	// SetFlags selects whether this instruction updates N/Z/C/V, per
	// spec.md §4.2's four-way selector.
	SetFlags SetFlags

	// Width is the access width in bytes for loads/stores (1, 2, or 4) and
	// Signed marks a sign-extending load (LDRSB/LDRSH).
	Width  uint8
	Signed bool

	// Imm16 / Imm8 hold small fixed-width immediates that don't go through
	// ThumbExpandImmC: BKPT's comment field, SVC's imm8, MOVW/MOVT's imm16.
	Imm16 uint16

	// MovTop distinguishes MOVT (true, write Imm16 into Rd's upper halfword,
	// lower halfword unchanged) from MOVW/MOV (false, Imm32 replaces Rd
	// whole). Both decode to OpMOV; only this flag tells them apart.
	MovTop bool

	// FPPrecision/Fd/Fn/Fm are the floating-point register operands and
	// precision selector for VADD/VSUB/VMUL/VDIV/VCMP/VMOV/VLDR/VSTR/
	// VPUSH/VPOP (spec.md §4.3, "Floating-point").
	FPPrecision uint8 // 32 or 64, mirrors fpu.Precision
	Fd, Fn, Fm  uint8

	// VMovToCore distinguishes the two directions of the single-precision
	// core-register transfer form of VMOV (Rd valid, Fd the Sn operand):
	// true is "VMOV Rd, Sn" (FP to core), false is "VMOV Sn, Rd" (core to
	// FP). Unused by every other VMOV form, where Fd/Fm alone suffice.
	VMovToCore bool

	// ITFirstCond/ITMask carry the operands of the IT instruction itself.
	ITFirstCond uint8
	ITMask      uint8

	// SpecialReg names the special register operand of MRS/MSR (APSR,
	// IPSR, EPSR, MSP, PSP, PRIMASK, BASEPRI, FAULTMASK, CONTROL, ...).
	SpecialReg SpecialRegister
}

// SetFlags is the decoder's resolved "does this instruction update the
// flags" selector (spec.md §4.2, last sentence of point 4).
type SetFlags int

const (
	// FlagsUnconditional means the encoding always updates flags
	// regardless of IT state (eg. CMP, TST, flag-setting Thumb32 forms
	// with an explicit S suffix bit set).
	FlagsUnconditional SetFlags = iota
	// FlagsNever means the encoding never updates flags (eg. Thumb32 MOV
	// without S, ADD Rd,Rn,Rm in the non-flag-setting Thumb32 form).
	FlagsNever
	// FlagsNotInITBlock means the 16-bit encoding updates flags exactly
	// when it is not predicated by an enclosing IT block; this is the
	// "NotInITBlock" selector spec.md §9 requires in place of the
	// teacher's blanket False in the affected encodings.
	FlagsNotInITBlock
)

// Resolve reports whether flags should actually be updated given the
// current IT-block state.
func (s SetFlags) Resolve(inITBlock bool) bool {
	switch s {
	case FlagsUnconditional:
		return true
	case FlagsNever:
		return false
	case FlagsNotInITBlock:
		return !inITBlock
	}
	return false
}

// SpecialRegister names one of the special registers addressable from MRS/
// MSR (spec.md §4.3, "CPS, MRS, MSR").
type SpecialRegister int

const (
	SpecialNone SpecialRegister = iota
	SpecialAPSR
	SpecialIPSR
	SpecialEPSR
	SpecialIEPSR
	SpecialIAPSR
	SpecialEAPSR
	SpecialXPSR
	SpecialMSP
	SpecialPSP
	SpecialPRIMASK
	SpecialBASEPRI
	SpecialBASEPRIMax
	SpecialFAULTMASK
	SpecialCONTROL
)

// recordUDF builds the record the decoder returns for any bit pattern it
// does not recognize (spec.md §4.2, "Errors"). The executor maps this Op to
// a UsageFault.
func recordUDF(raw uint32, thumb32 bool) Record {
	return Record{Op: OpUDF, RawOpcode: raw, Thumb32: thumb32}
}
