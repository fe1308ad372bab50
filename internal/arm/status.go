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

import (
	"fmt"
	"strings"
)

// Status is the combined Program Status Register: the N/Z/C/V/Q/GE flags
// (the APSR view), the current exception number (the IPSR view), and the
// two-nibble IT-block state (part of the EPSR view). It is split into named
// Go fields rather than kept as a single uint32, following the teacher's
// status.go, but extended with Q, GE, and the ISR number the teacher never
// needed (DPC+/CDFJ cartridges never take a nested exception).
type Status struct {
	negative bool
	zero     bool
	carry    bool
	overflow bool
	saturation bool // Q flag, DSP extension
	ge         uint8 // GE[3:0], bits 16-19 of APSR

	// isrNumber is the IPSR view: 0 in Thread mode, the active exception
	// number in Handler mode. spec.md §3.2 invariant: zero iff Thread mode.
	isrNumber uint32

	// itCond/itMask are the split IT-state fields (spec.md §3.3). Rather
	// than maintaining a single 8-bit itState value, the condition and mask
	// are split for clarity and for a cheap in-IT-block check (itMask != 0),
	// exactly as the teacher's status.go does.
	itCond uint8
	itMask uint8
}

func (sr Status) String() string {
	s := strings.Builder{}
	flag := func(set bool, c byte) {
		if set {
			s.WriteByte(c - 32)
		} else {
			s.WriteByte(c)
		}
	}
	flag(sr.negative, 'n')
	flag(sr.zero, 'z')
	flag(sr.carry, 'c')
	flag(sr.overflow, 'v')
	flag(sr.saturation, 'q')
	fmt.Fprintf(&s, " ge:%04b isr:%d itMask:%04b", sr.ge, sr.isrNumber, sr.itMask)
	return s.String()
}

func (sr *Status) reset() {
	*sr = Status{}
}

// --- APSR -------------------------------------------------------------

func (sr *Status) isNegative(a uint32) { sr.negative = a&0x80000000 == 0x80000000 }
func (sr *Status) isZero(a uint32)     { sr.zero = a == 0 }

func (sr *Status) isOverflow(a, b, c uint32) {
	d := (a & 0x7fffffff) + (b & 0x7fffffff) + c
	d >>= 31
	e := (d & 0x01) + ((a >> 31) & 0x01) + ((b >> 31) & 0x01)
	e >>= 1
	sr.overflow = (d^e)&0x01 == 0x01
}

func (sr *Status) isCarry(a, b, c uint32) {
	d := (a & 0x7fffffff) + (b & 0x7fffffff) + c
	d = (d >> 31) + (a >> 31) + (b >> 31)
	sr.carry = d&0x02 == 0x02
}

func (sr *Status) setCarry(v bool)      { sr.carry = v }
func (sr *Status) setOverflow(v bool)   { sr.overflow = v }
func (sr *Status) setSaturation(v bool) { sr.saturation = v }

// NZCV packs the four arithmetic flags into the conventional 4-bit order,
// matching Status() in FPSCR.SetNZCV and the APSR bit layout (N=bit3..V=bit0
// here, shifted into bits 31..28 of real APSR by Registers callers).
func (sr Status) NZCV() uint8 {
	var v uint8
	if sr.negative {
		v |= 0b1000
	}
	if sr.zero {
		v |= 0b0100
	}
	if sr.carry {
		v |= 0b0010
	}
	if sr.overflow {
		v |= 0b0001
	}
	return v
}

func (sr *Status) setNZCV(v uint8) {
	sr.negative = v&0b1000 != 0
	sr.zero = v&0b0100 != 0
	sr.carry = v&0b0010 != 0
	sr.overflow = v&0b0001 != 0
}

// APSR packs N/Z/C/V/Q/GE into the real 32-bit APSR layout for MRS/MSR.
func (sr Status) APSR() uint32 {
	var v uint32
	if sr.negative {
		v |= 1 << 31
	}
	if sr.zero {
		v |= 1 << 30
	}
	if sr.carry {
		v |= 1 << 29
	}
	if sr.overflow {
		v |= 1 << 28
	}
	if sr.saturation {
		v |= 1 << 27
	}
	v |= uint32(sr.ge&0xf) << 16
	return v
}

func (sr *Status) SetAPSR(v uint32) {
	sr.negative = v&(1<<31) != 0
	sr.zero = v&(1<<30) != 0
	sr.carry = v&(1<<29) != 0
	sr.overflow = v&(1<<28) != 0
	sr.saturation = v&(1<<27) != 0
	sr.ge = uint8((v >> 16) & 0xf)
}

// --- IPSR ---------------------------------------------------------------

func (sr Status) ISRNumber() uint32     { return sr.isrNumber }
func (sr *Status) SetISRNumber(n uint32) { sr.isrNumber = n }

// --- EPSR / IT state ------------------------------------------------------

// InITBlock reports whether execution is currently inside an IT block
// (spec.md §3.3).
func (sr Status) InITBlock() bool { return sr.itMask != 0b0000 }

// LastInITBlock reports whether the current instruction is the last slot of
// an IT block.
func (sr Status) LastInITBlock() bool { return sr.itMask == 0b1000 }

// ITCondition returns bits 4..7 of the conceptual 8-bit IT state: the
// condition code of the current IT slot.
func (sr Status) ITCondition() uint8 { return sr.itCond }

// itStateMask exposes the raw 4-bit mask field for the xPSR exception-frame
// packing in exception.go; everywhere else should use InITBlock/
// LastInITBlock/CurrentCondition instead of reading this directly.
func (sr Status) itStateMask() uint8 { return sr.itMask }

// CurrentCondition returns the condition code that applies to the
// instruction about to execute: the IT-block condition, whose low bit
// ITAdvance has already set to the current slot's then/else bit, when
// inside a block, or AL (always) otherwise. This is "condition_passed()"
// minus the actual flag test, split out so the decoder and disassembler can
// both use it.
func (sr Status) CurrentCondition() uint8 {
	if !sr.InITBlock() {
		return 0b1110 // AL
	}
	return sr.itCond
}

// SetIT installs a new IT state: firstcond is the 4-bit base condition,
// mask is the 4-bit then/else/end encoding from the IT instruction itself.
func (sr *Status) SetIT(firstcond, mask uint8) {
	sr.itCond = firstcond & 0xf
	sr.itMask = mask & 0xf
}

// ITAdvance rotates the low 5 conceptual IT-state bits (cond[0]:mask) left
// by one, clearing to zero once the mask bits drain to 0b1000 (spec.md
// §3.3). Must be called exactly once per instruction executed while
// InITBlock() was true at entry (spec.md §4.3).
func (sr *Status) ITAdvance() {
	if sr.itMask == 0b0000 {
		return
	}
	if sr.itMask&0b0111 == 0b0000 {
		sr.itCond = 0
		sr.itMask = 0
		return
	}
	sr.itCond = sr.itCond&0b1110 | sr.itMask>>3
	sr.itMask = (sr.itMask << 1) & 0b1111
}

// Condition evaluates condition code cond (bits 31..28 of a 32-bit ARM
// condition field, or the 4-bit field from a Bcc/IT encoding) against the
// current flags. "A7.3 Conditional execution" in "ARMv7-M".
func (sr *Status) Condition(cond uint8) bool {
	var b bool
	switch cond {
	case 0b0000: // EQ
		b = sr.zero
	case 0b0001: // NE
		b = !sr.zero
	case 0b0010: // CS/HS
		b = sr.carry
	case 0b0011: // CC/LO
		b = !sr.carry
	case 0b0100: // MI
		b = sr.negative
	case 0b0101: // PL
		b = !sr.negative
	case 0b0110: // VS
		b = sr.overflow
	case 0b0111: // VC
		b = !sr.overflow
	case 0b1000: // HI
		b = sr.carry && !sr.zero
	case 0b1001: // LS
		b = !sr.carry || sr.zero
	case 0b1010: // GE
		b = sr.negative == sr.overflow
	case 0b1011: // LT
		b = sr.negative != sr.overflow
	case 0b1100: // GT
		b = !sr.zero && sr.negative == sr.overflow
	case 0b1101: // LE
		b = sr.zero || sr.negative != sr.overflow
	case 0b1110: // AL
		b = true
	case 0b1111:
		// UNPREDICTABLE in the base ISA; IT permits 0b1111 only as the
		// "firstcond" of an IT instruction whose mask selects AL for every
		// slot, which never reaches Condition() via CurrentCondition().
		b = true
	}
	return b
}
