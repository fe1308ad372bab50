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

// register names, grounded on the flat [NumRegisters]uint32 register array
// convention used throughout the teacher's ARM core (rSB, rSL, rFP, rIP,
// rSP, rLR, rPC in arm.go), extended here with the banked SP registers
// spec.md §3.1 requires for exception nesting.
const (
	rSB = 9 + iota // static base
	rSL            // stack limit
	rFP            // frame pointer
	rIP            // intra-procedure-call scratch register
	rSP
	rLR
	rPC
	NumRegisters
)

// Mode is the processor mode: Thread (application code) or Handler
// (exception handlers). See spec.md §3.2.
type Mode int

const (
	Thread Mode = iota
	Handler
)

// Registers holds the programmer-visible integer register file: R0-R12,
// LR, PC, and both banked stack pointers. Only one of MSP/PSP is "live" at
// R13 at any moment, selected by CONTROL.SPSEL and the current Mode.
type Registers struct {
	gpr [13]uint32 // R0-R12

	msp uint32
	psp uint32

	lr uint32
	pc uint32

	mode Mode

	// control bits (spec.md §3.4)
	spsel bool // CONTROL.SPSEL: 0 selects MSP, 1 selects PSP (Thread mode only)
	nPriv bool // CONTROL.nPRIV

	primask   bool
	faultmask bool // ARMv7-M only
	basepri   uint8
}

// Reset clears the register file. SP is loaded from the vector table by the
// caller (exception.go's ResetCore); this only establishes the zero state.
func (r *Registers) Reset() {
	*r = Registers{}
}

// R returns the value of register n (0-15), aliasing R13/R14/R15 onto the
// banked SP, LR, and PC storage the way the real register file does, so
// callers that read a hi-register operand (eg. "ADD Rd, SP", "BX LR") don't
// need their own special case.
func (r *Registers) R(n int) uint32 {
	switch n {
	case rSP:
		return r.SP()
	case rLR:
		return r.lr
	case rPC:
		return r.PC()
	}
	return r.gpr[n]
}

// SetR sets register n (0-15) to v, aliasing R13/R14 onto SP/LR. Writing
// R15 generically (rather than through BranchWritePC/LoadWritePC) isn't
// valid for any instruction this decoder produces; it's treated as a plain
// branch so a mistaken write can't corrupt unrelated state.
func (r *Registers) SetR(n int, v uint32) {
	switch n {
	case rSP:
		r.SetSP(v)
	case rLR:
		r.lr = v
	case rPC:
		r.BranchWritePC(v)
	default:
		r.gpr[n] = v
	}
}

// activeSP reports whether PSP (true) or MSP (false) is the register
// addressed as R13/SP right now: PSP only when CONTROL.SPSEL is set AND we
// are in Thread mode (spec.md §3.1 - Handler mode always uses MSP).
func (r *Registers) activeSP() bool {
	return r.mode == Thread && r.spsel
}

// SP returns the currently active stack pointer (R13).
func (r *Registers) SP() uint32 {
	if r.activeSP() {
		return r.psp
	}
	return r.msp
}

// SetSP writes the currently active stack pointer (R13). Like the general
// registers, SP wraps on overflow/underflow: PUSH, STMDB, VPUSH and the
// exception-frame push all write SP through SetSP/SetR with plain
// subtraction, and nothing calls the checked SPAdd/SPSub helpers below, so
// a stack underflow is not detected.
func (r *Registers) SetSP(v uint32) {
	if r.activeSP() {
		r.psp = v
	} else {
		r.msp = v
	}
}

// MSP/PSP access the banked stack pointers directly regardless of which one
// is currently active — needed by exception entry/return and by the debug
// interface (spec.md §6.3).
func (r *Registers) MSP() uint32     { return r.msp }
func (r *Registers) SetMSP(v uint32) { r.msp = v }
func (r *Registers) PSP() uint32     { return r.psp }
func (r *Registers) SetPSP(v uint32) { r.psp = v }

// SPAdd/SPSub perform checked stack-pointer arithmetic: unlike general
// register wraparound, decrementing SP below zero is a programming error in
// a guest image and is surfaced as a fault rather than silently wrapping
// (spec.md §9, fourth bullet - "the original implementation uses wrapping
// arithmetic; the specification requires ... checked arithmetic for stack
// pointers with a fault on underflow").
func (r *Registers) SPSub(n uint32) (newSP uint32, underflow bool) {
	sp := r.SP()
	if n > sp {
		return 0, true
	}
	return sp - n, false
}

func (r *Registers) SPAdd(n uint32) uint32 {
	return r.SP() + n
}

// LR/SetLR access the link register (R14).
func (r *Registers) LR() uint32     { return r.lr }
func (r *Registers) SetLR(v uint32) { r.lr = v }

// PC returns the architectural "PC as an instruction operand" value: the
// address of the currently executing instruction plus 4, matching the
// two-halfword-ahead Thumb pipeline convention (spec.md §3.1). Use PCReg for
// the literal value of the PC register instead (eg. for disassembly).
func (r *Registers) PC() uint32 {
	return r.pc + 4
}

// PCReg returns the literal, unadjusted value of the PC register.
func (r *Registers) PCReg() uint32 {
	return r.pc
}

// SetPCReg sets the literal PC register value directly. General executor
// code must not call this for anything but the four PC-write helpers below
// and the fetch/advance logic in core.go (spec.md §3.1 invariant).
func (r *Registers) SetPCReg(v uint32) {
	r.pc = v
}

// AdvancePC moves the literal PC forward by an instruction's encoded size
// (2 or 4 bytes) after a Taken/NotTaken step.
func (r *Registers) AdvancePC(size uint32) {
	r.pc += size
}

// BranchWritePC performs an ordinary (non-interworking) branch: the target
// is known to be Thumb code, so only the halfword alignment is enforced.
// Used by B, BL, CBZ/CBNZ, TBB/TBH, and flag-setting MOV/ADD/... to PC.
func (r *Registers) BranchWritePC(target uint32) {
	r.pc = target &^ 1
}

// BXWritePC performs an interworking branch: bit 0 of the target selects
// Thumb (1) vs ARM (0) state. thumbiss is Thumb-only, so a target with bit
// 0 clear is a usage fault (spec.md §4.3, BX/BLX). The returned bool is
// false when the target is not interworking-safe.
func (r *Registers) BXWritePC(target uint32) bool {
	if target&1 == 0 {
		return false
	}
	r.pc = target &^ 1
	return true
}

// BLXWritePC is BXWritePC with the same interworking restriction; the
// distinction from BXWritePC exists only because BLX additionally writes LR
// before calling this (handled by the executor, not here).
func (r *Registers) BLXWritePC(target uint32) bool {
	return r.BXWritePC(target)
}

// LoadWritePC is used when a load instruction targets PC (eg. POP {PC},
// LDR PC, [...]). The loaded value's bit 0 selects interworking exactly
// like BXWritePC, except a popped EXC_RETURN token (top byte 0xFF) is
// handled by the exception subsystem before this is ever reached.
func (r *Registers) LoadWritePC(value uint32) bool {
	return r.BXWritePC(value)
}
