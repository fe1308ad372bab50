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

// decodeMoveShiftedRegister is format 1 (spec.md §4.2); grounded on
// decodeThumbMoveShiftedRegister in the teacher's thumb.go, which
// interleaves the same bit-field extraction with its (now removed) inline
// execution.
func decodeMoveShiftedRegister(opcode uint16) Record {
	op := (opcode & 0x1800) >> 11
	shift := uint8((opcode & 0x7c0) >> 6)
	rm := int8((opcode & 0x38) >> 3)
	rd := int8(opcode & 0x07)

	var st ShiftType
	switch op {
	case 0b00:
		st = SRTypeLSL
	case 0b01:
		st = SRTypeLSR
	case 0b10:
		st = SRTypeASR
	default:
		return recordUDF(uint32(opcode), false)
	}

	t, amount := DecodeImmShift(st, shift)
	var shiftOp Op
	switch st {
	case SRTypeLSL:
		shiftOp = OpLSL
	case SRTypeLSR:
		shiftOp = OpLSR
	default:
		shiftOp = OpASR
	}
	return Record{
		Op: shiftOp,
		Rd: rd, Rm: rm, Rn: -1, Rt: -1, Rt2: -1, Ra: -1,
		ShiftType: t, ShiftAmount: amount,
		SetFlags:  setFlagsOutsideIT(),
		RawOpcode: uint32(opcode),
	}
}

// decodeAddSubtract is format 2 (ADD/SUB Rd, Rn, Rm|#imm3).
func decodeAddSubtract(opcode uint16) Record {
	immediate := opcode&0x400 != 0
	sub := opcode&0x200 != 0
	rmOrImm3 := (opcode & 0x1c0) >> 6
	rn := int8((opcode & 0x38) >> 3)
	rd := int8(opcode & 0x07)

	r := Record{
		Rd: rd, Rn: rn, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
		SetFlags:  setFlagsOutsideIT(),
		RawOpcode: uint32(opcode),
	}
	if immediate {
		r.Imm32 = uint32(rmOrImm3)
	} else {
		r.Rm = int8(rmOrImm3)
	}
	if sub {
		r.Op = OpSUB
	} else {
		r.Op = OpADD
	}
	return r
}

// decodeMovCmpAddSubImm is format 3 (MOV/CMP/ADD/SUB Rd, #imm8).
func decodeMovCmpAddSubImm(opcode uint16) Record {
	op := (opcode & 0x1800) >> 11
	rd := int8((opcode & 0x700) >> 8)
	imm8 := uint32(opcode & 0xff)

	r := Record{
		Rd: rd, Rn: rd, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
		Imm32:     imm8,
		SetFlags:  setFlagsOutsideIT(),
		RawOpcode: uint32(opcode),
	}
	switch op {
	case 0b00:
		r.Op = OpMOV
		r.Rn = -1
	case 0b01:
		r.Op = OpCMP
	case 0b10:
		r.Op = OpADD
	case 0b11:
		r.Op = OpSUB
	}
	return r
}

// decodeALUOperations is format 4: the sixteen two-operand ALU mnemonics
// (AND/EOR/LSL/LSR/ASR/ADC/SBC/ROR/TST/NEG/CMP/CMN/ORR/MUL/BIC/MVN).
func decodeALUOperations(opcode uint16) Record {
	op := (opcode & 0x3c0) >> 6
	rm := int8((opcode & 0x38) >> 3)
	rd := int8(opcode & 0x07)

	r := Record{
		Rd: rd, Rn: rd, Rm: rm, Rt: -1, Rt2: -1, Ra: -1,
		SetFlags:  setFlagsOutsideIT(),
		RawOpcode: uint32(opcode),
	}

	switch op {
	case 0b0000:
		r.Op = OpAND
	case 0b0001:
		r.Op = OpEOR
	case 0b0010:
		r.Op, r.ShiftType, r.Rn, r.Rm = OpLSL, SRTypeLSL, rd, rm
	case 0b0011:
		r.Op, r.ShiftType, r.Rn, r.Rm = OpLSR, SRTypeLSR, rd, rm
	case 0b0100:
		r.Op, r.ShiftType, r.Rn, r.Rm = OpASR, SRTypeASR, rd, rm
	case 0b0101:
		r.Op = OpADC
	case 0b0110:
		r.Op = OpSBC
	case 0b0111:
		r.Op, r.ShiftType, r.Rn, r.Rm = OpROR, SRTypeROR, rd, rm
	case 0b1000:
		r.Op = OpTST
	case 0b1001:
		r.Op = OpRSB // NEG Rd,Rm == RSB Rd,Rm,#0
		r.Rn = rm
		r.Rm = -1
		r.Imm32 = 0
	case 0b1010:
		r.Op = OpCMP
	case 0b1011:
		r.Op = OpCMN
	case 0b1100:
		r.Op = OpORR
	case 0b1101:
		r.Op = OpMUL
		r.Ra = -1
	case 0b1110:
		r.Op = OpBIC
	case 0b1111:
		r.Op = OpMVN
		r.Rn = -1
	}
	return r
}

// decodeHiRegisterOps is format 5: ADD/CMP/MOV on any register pair
// (including R8-R15), and BX/BLX.
func decodeHiRegisterOps(opcode uint16) Record {
	op := (opcode & 0x300) >> 8
	h1 := opcode&0x80 != 0
	h2 := opcode&0x40 != 0
	rmLow := (opcode & 0x38) >> 3
	rdLow := opcode & 0x07

	rm := int8(rmLow)
	if h2 {
		rm += 8
	}
	rd := int8(rdLow)
	if h1 {
		rd += 8
	}

	r := Record{
		Rd: rd, Rn: rd, Rm: rm, Rt: -1, Rt2: -1, Ra: -1,
		SetFlags:  FlagsNever,
		RawOpcode: uint32(opcode),
	}
	switch op {
	case 0b00:
		r.Op = OpADD
	case 0b01:
		r.Op = OpCMP
		r.SetFlags = FlagsUnconditional
	case 0b10:
		r.Op = OpMOV
		r.Rn = -1
	case 0b11:
		if h1 {
			r.Op = OpBLX
		} else {
			r.Op = OpBX
		}
		r.Rm = rm
	}
	return r
}

// decodePCRelativeLoad is format 6: LDR Rd, [PC, #imm8*4].
func decodePCRelativeLoad(opcode uint16) Record {
	rd := int8((opcode & 0x700) >> 8)
	imm8 := uint32(opcode & 0xff)
	return Record{
		Op: OpLDR, Rt: rd, Rn: -1, Rm: -1, Rd: -1, Rt2: -1, Ra: -1,
		Imm32: imm8 << 2, Add: true, Index: true, Width: 4,
		RawOpcode: uint32(opcode),
	}
}

// decodeLoadStoreWithRegisterOffset is format 7: LDR/STR/LDRB/STRB Rd,
// [Rn, Rm].
func decodeLoadStoreWithRegisterOffset(opcode uint16) Record {
	lb := (opcode & 0xc00) >> 10
	rm := int8((opcode & 0x1c0) >> 6)
	rn := int8((opcode & 0x38) >> 3)
	rt := int8(opcode & 0x07)

	r := Record{
		Rt: rt, Rn: rn, Rm: rm, Rd: -1, Rt2: -1, Ra: -1,
		Add: true, Index: true, Width: 4,
		RawOpcode: uint32(opcode),
	}
	switch lb {
	case 0b00:
		r.Op = OpSTR
	case 0b01:
		r.Op, r.Width = OpSTRB, 1
	case 0b10:
		r.Op = OpLDR
	case 0b11:
		r.Op, r.Width = OpLDRB, 1
	}
	return r
}

// decodeLoadStoreSignExtended is format 8: STRH/LDRSB/LDRH/LDRSH Rd, [Rn, Rm].
func decodeLoadStoreSignExtended(opcode uint16) Record {
	hs := (opcode & 0xc00) >> 10
	rm := int8((opcode & 0x1c0) >> 6)
	rn := int8((opcode & 0x38) >> 3)
	rt := int8(opcode & 0x07)

	r := Record{
		Rt: rt, Rn: rn, Rm: rm, Rd: -1, Rt2: -1, Ra: -1,
		Add: true, Index: true,
		RawOpcode: uint32(opcode),
	}
	switch hs {
	case 0b00:
		r.Op, r.Width = OpSTRH, 2
	case 0b01:
		r.Op, r.Width, r.Signed = OpLDRSB, 1, true
	case 0b10:
		r.Op, r.Width = OpLDRH, 2
	case 0b11:
		r.Op, r.Width, r.Signed = OpLDRSH, 2, true
	}
	return r
}

// decodeLoadStoreWithImmOffset is format 9: LDR/STR/LDRB/STRB Rd, [Rn, #imm].
func decodeLoadStoreWithImmOffset(opcode uint16) Record {
	b := opcode&0x1000 != 0
	l := opcode&0x800 != 0
	imm5 := uint32((opcode & 0x7c0) >> 6)
	rn := int8((opcode & 0x38) >> 3)
	rt := int8(opcode & 0x07)

	r := Record{
		Rt: rt, Rn: rn, Rm: -1, Rd: -1, Rt2: -1, Ra: -1,
		Add: true, Index: true,
		RawOpcode: uint32(opcode),
	}
	if b {
		r.Width = 1
		r.Imm32 = imm5
	} else {
		r.Width = 4
		r.Imm32 = imm5 << 2
	}
	switch {
	case !b && l:
		r.Op = OpLDR
	case !b && !l:
		r.Op = OpSTR
	case b && l:
		r.Op = OpLDRB
	case b && !l:
		r.Op = OpSTRB
	}
	return r
}

// decodeLoadStoreHalfword is format 10: LDRH/STRH Rd, [Rn, #imm5*2].
func decodeLoadStoreHalfword(opcode uint16) Record {
	l := opcode&0x800 != 0
	imm5 := uint32((opcode & 0x7c0) >> 6)
	rn := int8((opcode & 0x38) >> 3)
	rt := int8(opcode & 0x07)

	r := Record{
		Rt: rt, Rn: rn, Rm: -1, Rd: -1, Rt2: -1, Ra: -1,
		Imm32: imm5 << 1, Width: 2, Add: true, Index: true,
		RawOpcode: uint32(opcode),
	}
	if l {
		r.Op = OpLDRH
	} else {
		r.Op = OpSTRH
	}
	return r
}

// decodeSPRelativeLoadStore is format 11: LDR/STR Rd, [SP, #imm8*4].
func decodeSPRelativeLoadStore(opcode uint16) Record {
	l := opcode&0x800 != 0
	rd := int8((opcode & 0x700) >> 8)
	imm8 := uint32(opcode & 0xff)

	r := Record{
		Rt: rd, Rn: rSP, Rm: -1, Rd: -1, Rt2: -1, Ra: -1,
		Imm32: imm8 << 2, Width: 4, Add: true, Index: true,
		RawOpcode: uint32(opcode),
	}
	if l {
		r.Op = OpLDR
	} else {
		r.Op = OpSTR
	}
	return r
}

// decodeLoadAddress is format 12: ADD Rd, PC|SP, #imm8*4 (ADR / ADD-from-SP).
func decodeLoadAddress(opcode uint16) Record {
	sp := opcode&0x800 != 0
	rd := int8((opcode & 0x700) >> 8)
	imm8 := uint32(opcode & 0xff)

	r := Record{
		Rd: rd, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
		Imm32: imm8 << 2, SetFlags: FlagsNever,
		RawOpcode: uint32(opcode),
	}
	if sp {
		r.Op = OpADD
		r.Rn = rSP
	} else {
		r.Op = OpADR
		r.Rn = -1
	}
	return r
}

// decodeAddOffsetToSP is format 13: ADD/SUB SP, SP, #imm7*4.
func decodeAddOffsetToSP(opcode uint16) Record {
	sub := opcode&0x80 != 0
	imm7 := uint32(opcode & 0x7f)

	r := Record{
		Rd: rSP, Rn: rSP, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
		Imm32: imm7 << 2, SetFlags: FlagsNever,
		RawOpcode: uint32(opcode),
	}
	if sub {
		r.Op = OpSUB
	} else {
		r.Op = OpADD
	}
	return r
}

// decodeExtend is the 0xb200 "miscellaneous" group: SXTH/SXTB/UXTH/UXTB,
// sign/zero-extending the low byte or halfword of Rm into Rd with no
// rotation and no accumulate (those only exist in the Thumb-2 SXTAH/SXTAB/
// UXTAH/UXTAB encodings DecodeThumb32 handles). execExtendMisc shares the
// executor path with those Thumb-2 forms, so Rn is left at -1 here to mark
// "no add" the same way DecodeThumb32's plain-extend case does.
func decodeExtend(opcode uint16) Record {
	op := (opcode & 0xc0) >> 6
	rm := int8((opcode & 0x38) >> 3)
	rd := int8(opcode & 0x07)

	r := Record{
		Rd: rd, Rn: -1, Rm: rm, Rt: -1, Rt2: -1, Ra: -1,
		RawOpcode: uint32(opcode),
	}
	switch op {
	case 0b00:
		r.Op = OpSXTH
	case 0b01:
		r.Op = OpSXTB
	case 0b10:
		r.Op = OpUXTH
	case 0b11:
		r.Op = OpUXTB
	}
	return r
}

// decodeReverseBytes is the 0xba00 "miscellaneous" group: REV/REV16/REVSH.
// Bit pattern 0b10 (the fourth combination of the two opcode bits) has no
// assigned instruction in this group and is UDF, matching the ARM ARM's
// Thumb16 encoding table.
func decodeReverseBytes(opcode uint16) Record {
	op := (opcode & 0xc0) >> 6
	rm := int8((opcode & 0x38) >> 3)
	rd := int8(opcode & 0x07)

	r := Record{
		Rd: rd, Rn: -1, Rm: rm, Rt: -1, Rt2: -1, Ra: -1,
		RawOpcode: uint32(opcode),
	}
	switch op {
	case 0b00:
		r.Op = OpREV
	case 0b01:
		r.Op = OpREV16
	case 0b11:
		r.Op = OpREVSH
	default:
		return recordUDF(uint32(opcode), false)
	}
	return r
}

// decodeHintsAndIT is the "miscellaneous 16-bit instructions" class that
// overlaps format 14's top nibble: NOP/YIELD/WFE/WFI/SEV hints and the IT
// instruction, both encoded 1011_1111_xxxx_xxxx.
func decodeHintsAndIT(opcode uint16) Record {
	op := uint8((opcode & 0xf0) >> 4)
	low := uint8(opcode & 0xf)

	if low != 0 {
		return Record{
			Op: OpIT, ITFirstCond: op, ITMask: low,
			Rd: -1, Rn: -1, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
			RawOpcode: uint32(opcode),
		}
	}

	r := Record{Rd: -1, Rn: -1, Rm: -1, Rt: -1, Rt2: -1, Ra: -1, RawOpcode: uint32(opcode)}
	switch op {
	case 0b0000:
		r.Op = OpNOP
	case 0b0001:
		r.Op = OpYIELD
	case 0b0010:
		r.Op = OpWFE
	case 0b0011:
		r.Op = OpWFI
	case 0b0100:
		r.Op = OpSEV
	default:
		r.Op = OpNOP // reserved hints treated as NOP, matching real cores
	}
	return r
}

// decodePushPopRegisters is format 14: PUSH/POP {register list}.
func decodePushPopRegisters(opcode uint16) Record {
	l := opcode&0x800 != 0
	r := opcode&0x100 != 0
	regList := uint16(opcode & 0xff)

	rec := Record{
		Rn: rSP, Rd: -1, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
		RegList:   regList,
		RawOpcode: uint32(opcode),
	}
	if l {
		rec.Op = OpPOP
		if r {
			rec.RegList |= 1 << rPC
		}
	} else {
		rec.Op = OpPUSH
		if r {
			rec.RegList |= 1 << rLR
		}
	}
	return rec
}

// decodeMultipleLoadStore is format 15: LDM/STM Rn!, {register list}.
func decodeMultipleLoadStore(opcode uint16) Record {
	l := opcode&0x800 != 0
	rn := int8((opcode & 0x700) >> 8)
	regList := uint16(opcode & 0xff)

	rec := Record{
		Rn: rn, Rd: -1, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
		RegList: regList, Wback: true,
		RawOpcode: uint32(opcode),
	}
	if l {
		rec.Op = OpLDM
	} else {
		rec.Op = OpSTM
	}
	return rec
}

// decodeConditionalBranch is format 16: Bcc <label>, plus the embedded
// format 17 (SVC) handled separately before this is reached.
func decodeConditionalBranch(opcode uint16) Record {
	cond := uint8((opcode & 0xf00) >> 8)
	imm8 := uint32(opcode & 0xff)
	offset := SignExtend(imm8<<1, 9)

	return Record{
		Op: OpB, Cond: cond, Imm32: offset,
		Rd: -1, Rn: -1, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
		RawOpcode: uint32(opcode),
	}
}

// decodeSoftwareInterrupt is format 17: SVC #imm8.
func decodeSoftwareInterrupt(opcode uint16) Record {
	imm8 := uint16(opcode & 0xff)
	return Record{
		Op: OpSVC, Imm16: imm8,
		Rd: -1, Rn: -1, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
		RawOpcode: uint32(opcode),
	}
}

// decodeBreakpoint is BKPT #imm8 (1011 1110 iiii iiii), one bit away from
// the hints/IT class at 0xbf00 this sits right next to in the dispatch
// chain. thumbiss routes BKPT #0xAB to the semihosting bridge (spec.md
// §4.8); any other immediate reaches execBKPT's DebugMonitor fault.
func decodeBreakpoint(opcode uint16) Record {
	return Record{
		Op: OpBKPT, Imm32: uint32(opcode & 0xff),
		Rd: -1, Rn: -1, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
		RawOpcode: uint32(opcode),
	}
}

// decodeUnconditionalBranch is format 18: B <label> (+-2048..2046).
func decodeUnconditionalBranch(opcode uint16) Record {
	imm11 := uint32(opcode & 0x7ff)
	offset := SignExtend(imm11<<1, 12)
	return Record{
		Op: OpB, Cond: 0b1110, Imm32: offset,
		Rd: -1, Rn: -1, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
		RawOpcode: uint32(opcode),
	}
}

// decodeCompareAndBranch is the "miscellaneous 16-bit instructions" CBZ/
// CBNZ encoding (ARMv7-M "CBZ, CBNZ"), never predicated by IT and not part
// of the Thumb16 format-1-through-19 table the teacher's decodeThumb uses
// (the teacher's cartridge subroutines never needed it), so it is decoded
// directly from the architecture manual's bit layout: op at bit 11
// selects CBNZ (1) vs CBZ (0), i at bit 9 and imm5 at bits 7:3 form the
// zero-extended branch displacement, Rn at bits 2:0 is the tested register.
func decodeCompareAndBranch(opcode uint16, nonZero bool) Record {
	i := uint32((opcode >> 9) & 0x1)
	imm5 := uint32((opcode >> 3) & 0x1f)
	offset := (i << 6) | (imm5 << 1)
	rn := int8(opcode & 0x7)

	op := OpCBZ
	if nonZero {
		op = OpCBNZ
	}
	return Record{
		Op: op, Imm32: offset, Rn: rn,
		Rd: -1, Rm: -1, Rt: -1, Rt2: -1, Ra: -1,
		RawOpcode: uint32(opcode),
	}
}
