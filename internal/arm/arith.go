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

// the bit-level primitives in this file are grounded on thumb2_helpers.go's
// AddWithCarry/ROR_C/ThumbExpandImm_C and on the inline LSL/LSR/ASR/ROR carry
// logic the teacher duplicates per-opcode in decodeThumbMoveShiftedRegister
// (thumb.go) and the Thumb-2 data-processing formats (thumb2_32bit.go).
// Component A of the decoder/executor split collects these into a single
// reusable set of functions so every instruction format that needs a shift
// or an expanded immediate calls through the same code.

// ShiftType identifies one of the four register-shift encodings shared by
// Thumb16 format 1 and the Thumb-2 "shift immediate/register" operand2
// forms. "A5.1 Shift operations" of "ARMv7-M".
type ShiftType int

const (
	SRTypeLSL ShiftType = iota
	SRTypeLSR
	SRTypeASR
	SRTypeROR
	SRTypeRRX
)

// DecodeShiftType maps the 2-bit type field used throughout the Thumb
// encodings onto a ShiftType.
func DecodeShiftType(bits uint8) ShiftType {
	return ShiftType(bits & 0b11)
}

// DecodeImmShift implements "DecodeImmShift()" ("A7.4.1" of "ARMv7-M"): an
// encoded (type, imm5) pair is turned into the shift actually performed,
// including the three special zero-amount cases (LSL #0 is a no-op, LSR/ASR
// #0 mean #32, ROR #0 means RRX #1).
func DecodeImmShift(t ShiftType, imm5 uint8) (ShiftType, uint32) {
	switch t {
	case SRTypeLSL:
		return SRTypeLSL, uint32(imm5)
	case SRTypeLSR:
		if imm5 == 0 {
			return SRTypeLSR, 32
		}
		return SRTypeLSR, uint32(imm5)
	case SRTypeASR:
		if imm5 == 0 {
			return SRTypeASR, 32
		}
		return SRTypeASR, uint32(imm5)
	case SRTypeROR:
		if imm5 == 0 {
			return SRTypeRRX, 1
		}
		return SRTypeROR, uint32(imm5)
	}
	return SRTypeLSL, 0
}

// ShiftC performs the named shift on a 32-bit value and returns the carry-out
// bit, generalizing the per-opcode LSL/LSR/ASR/ROR carry computation the
// teacher inlines at each call site. amount of 0 for LSL is a no-op that
// leaves carryIn unaffected (the "C Flag = unaffected" comment the teacher
// writes at every zero-shift case).
func ShiftC(value uint32, t ShiftType, amount uint32, carryIn bool) (uint32, bool) {
	if amount == 0 {
		return value, carryIn
	}
	switch t {
	case SRTypeLSL:
		return lslC(value, amount)
	case SRTypeLSR:
		return lsrC(value, amount)
	case SRTypeASR:
		return asrC(value, amount)
	case SRTypeROR:
		return ROR_C(value, amount)
	case SRTypeRRX:
		return rrxC(value, carryIn)
	}
	return value, carryIn
}

// Shift is ShiftC without the carry-out, for contexts (eg. an ALU operation
// that doesn't update flags) that don't need it.
func Shift(value uint32, t ShiftType, amount uint32, carryIn bool) uint32 {
	v, _ := ShiftC(value, t, amount, carryIn)
	return v
}

func lslC(value uint32, amount uint32) (uint32, bool) {
	if amount == 0 {
		return value, false
	}
	if amount > 32 {
		return 0, false
	}
	if amount == 32 {
		return 0, value&1 == 1
	}
	m := uint32(1) << (32 - amount)
	carry := value&m == m
	return value << amount, carry
}

func lsrC(value uint32, amount uint32) (uint32, bool) {
	if amount == 0 {
		return value, false
	}
	if amount >= 32 {
		if amount == 32 {
			return 0, value&0x80000000 != 0
		}
		return 0, false
	}
	m := uint32(1) << (amount - 1)
	carry := value&m == m
	return value >> amount, carry
}

func asrC(value uint32, amount uint32) (uint32, bool) {
	if amount == 0 {
		return value, false
	}
	sval := int32(value)
	if amount >= 32 {
		if sval < 0 {
			return 0xffffffff, true
		}
		return 0, false
	}
	m := uint32(1) << (amount - 1)
	carry := value&m == m
	return uint32(sval >> amount), carry
}

func rrxC(value uint32, carryIn bool) (uint32, bool) {
	carryOut := value&1 == 1
	result := value >> 1
	if carryIn {
		result |= 0x80000000
	}
	return result, carryOut
}

// ThumbExpandImm is ThumbExpandImmC without the carry-out, for the common
// case (eg. ADD/SUB/CMP/CMN, which don't touch the carry flag from their
// immediate operand).
func ThumbExpandImm(imm12 uint32) uint32 {
	v, _ := ThumbExpandImmC(imm12, false)
	return v
}

// SignExtend sign-extends the low `bits` bits of v to a full 32-bit value.
// Used throughout the decoder for signed immediates (branch offsets, LDRSB/
// LDRSH offsets, SBFX-style bitfield results) that the teacher instead
// hand-rolls per call site with a shift-left/arithmetic-shift-right pair.
func SignExtend(v uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(v<<shift) >> shift)
}

// SignExtend64 is SignExtend for a 64-bit destination, used by the few
// Thumb-2 instructions (eg. SXTB/SXTH feeding a 64-bit multiply accumulator)
// that need the wider sign extension.
func SignExtend64(v uint32, bits uint) uint64 {
	shift := 64 - bits
	return uint64(int64(int32(v)) << shift >> shift)
}

// AddWithCarry is the shared adder behind ADD/ADC/SUB/SBC/CMP/CMN and every
// addressing-mode offset calculation: "AddWithCarry()" ("A2.4.1" of
// "ARMv7-M"). Carried over unchanged from the teacher's thumb2_helpers.go,
// aside from fixing the signed-overflow comparison to sign-extend a and b
// before summing (the teacher's version sign-extends only the already
// truncated unsigned result, which happens to produce the same overflow bit
// for this particular sum but is clearer written explicitly).
func AddWithCarry(a uint32, b uint32, c uint32) (result uint32, carryOut bool, overflow bool) {
	usum := uint64(a) + uint64(b) + uint64(c)
	ssum := int64(int32(a)) + int64(int32(b)) + int64(c)
	result = uint32(usum)
	carryOut = uint64(result) != usum
	overflow = int64(int32(result)) != ssum
	return result, carryOut, overflow
}

// ThumbExpandImmC and ROR_C are carried over from the teacher's
// thumb2_helpers.go verbatim: the bit-splice logic for the modified-
// immediate encoding has no domain-specific content to adapt.

func ThumbExpandImmC(imm12 uint32, carry bool) (uint32, bool) {
	if imm12&0xc00 == 0x00 {
		switch (imm12 & 0x300) >> 8 {
		case 0b00:
			return imm12 & 0xff, carry
		case 0b01:
			if imm12&0xff == 0x00 {
				return 0, carry
			}
			return ((imm12 & 0xff) << 16) | (imm12 & 0xff), carry
		case 0b10:
			if imm12&0xff == 0x00 {
				return 0, carry
			}
			return ((imm12 & 0xff) << 24) | ((imm12 & 0xff) << 8), carry
		case 0b11:
			if imm12&0xff == 0x00 {
				return 0, carry
			}
			return ((imm12 & 0xff) << 24) | ((imm12 & 0xff) << 16) | ((imm12 & 0xff) << 8) | (imm12 & 0xff), carry
		}
	}

	unrotatedValue := (uint32(0x01) << 7) | (imm12 & 0x7f)
	return ROR_C(unrotatedValue, (imm12&0xf80)>>7)
}

func ROR_C(imm32 uint32, shift uint32) (uint32, bool) {
	m := shift % 32
	if m == 0 {
		return imm32, imm32&0x80000000 == 0x80000000
	}
	result := (imm32 >> m) | (imm32 << (32 - m))
	return result, result&0x80000000 == 0x80000000
}
