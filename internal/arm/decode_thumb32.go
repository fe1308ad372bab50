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

// DecodeThumb32 decodes a 32-bit Thumb-2 instruction from its two
// constituent halfwords (hw1 is the first halfword fetched, carrying the
// top-level class bits; hw2 is the second). The dispatch tree mirrors the
// teacher's decode32bitThumb2/thumb2DataProcessingNonImmediate/
// thumb2LoadStoreSingle/thumb2LoadStoreMultiple/thumb2LoadStoreDoubleEtc/
// thumb2BranchesORDataProcessing (thumb2_32bit.go), generalized the same way
// decode_thumb16.go is: every variable-shift or variable-width case becomes
// fields on Record (ShiftType/ShiftAmount/Width/Signed) for exec.go to
// interpret generically, instead of the teacher's one-case-per-shift-amount
// duplication.
func DecodeThumb32(hw1, hw2 uint16) Record {
	raw := uint32(hw1) | uint32(hw2)<<16

	var rec Record
	switch {
	case hw1&0xef00 == 0xef00:
		// coprocessor / SIMD / floating point (thumb2_coproc.go, thumb2_fpu.go)
		rec = decodeCoprocessorOrFPU(hw1, hw2)
	case hw1&0xf800 == 0xf000:
		rec = decodeBranchesOrDataProcessing(hw1, hw2)
	case hw1&0xfe40 == 0xe800:
		rec = decodeLoadStoreMultiple(hw1, hw2)
	case hw1&0xfe40 == 0xe840:
		rec = decodeLoadStoreDoubleEtc(hw1, hw2)
	case hw1&0xfe00 == 0xf800:
		rec = decodeLoadStoreSingle(hw1, hw2)
	case hw1&0xee00 == 0xea00:
		rec = decodeDataProcessingNonImmediate(hw1, hw2)
	default:
		rec = recordUDF(raw, true)
	}

	rec.Thumb32 = true
	rec.RawOpcode = raw
	return rec
}

func noRegs() Record {
	return Record{Rd: -1, Rn: -1, Rm: -1, Rt: -1, Rt2: -1, Ra: -1, RdHi: -1, RdLo: -1}
}

// decodeDataProcessingNonImmediate covers "3.3.2 Data processing
// instructions, non-immediate" of the Thumb-2 Supplement: register
// data-processing with a constant or register-controlled shift, extend
// instructions, and the 32/64-bit multiply and divide groups.
func decodeDataProcessingNonImmediate(hw1, hw2 uint16) Record {
	rn := int8(hw1 & 0x000f)
	rm := int8(hw2 & 0x000f)
	rd := int8((hw2 & 0x0f00) >> 8)

	r := noRegs()
	r.Rn, r.Rm, r.Rd = rn, rm, rd

	switch {
	case hw1&0xfe00 == 0xea00:
		// data processing with constant shift
		op := (hw1 & 0x01e0) >> 5
		setFlags := hw1&0x0010 != 0
		imm3 := (hw2 & 0x7000) >> 12
		imm2 := (hw2 & 0x00c0) >> 6
		typ := uint8((hw2 & 0x0030) >> 4)
		imm5 := uint8((imm3 << 2) | imm2)

		st := DecodeShiftType(typ)
		shiftType, shiftAmount := DecodeImmShift(st, imm5)
		r.ShiftType, r.ShiftAmount = shiftType, shiftAmount
		if setFlags {
			r.SetFlags = FlagsUnconditional
		} else {
			r.SetFlags = FlagsNever
		}

		switch op {
		case 0b0000:
			r.Op = OpAND
			if rd == int8(0x0f) {
				r.Op = OpTST
				r.Rd = -1
			}
		case 0b0001:
			r.Op = OpBIC
		case 0b0010:
			if rn == int8(0x0f) {
				// move or shift-immediate form; Rn==PC means Rd = shift(Rm)
				switch typ {
				case 0b00:
					if imm5 == 0 {
						r.Op = OpMOV
						r.Rn = -1
					} else {
						r.Op = OpLSL
					}
				case 0b01:
					r.Op = OpLSR
				case 0b10:
					r.Op = OpASR
				case 0b11:
					if imm5 == 0 {
						r.Op = OpRRX
					} else {
						r.Op = OpROR
					}
				}
				r.Rn = -1
			} else {
				r.Op = OpORR
			}
		case 0b0011:
			r.Op = OpORN
			if rn == int8(0x0f) {
				r.Op = OpMVN
				r.Rn = -1
			}
		case 0b0100:
			r.Op = OpEOR
		case 0b1000:
			r.Op = OpADD
			if rd == int8(0x0f) && setFlags {
				r.Op = OpCMN
				r.Rd = -1
			}
		case 0b1010:
			r.Op = OpADC
		case 0b1011:
			r.Op = OpSBC
		case 0b1101:
			r.Op = OpSUB
			if rd == int8(0x0f) && setFlags {
				r.Op = OpCMP
				r.Rd = -1
			}
		case 0b1110:
			r.Op = OpRSB
		default:
			return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
		}
		return r

	case hw1&0xff80 == 0xfa00 && hw2&0x0080 == 0:
		// register-controlled shift instructions
		op := (hw1 & 0x0060) >> 5
		setFlags := hw1&0x0010 != 0
		if setFlags {
			r.SetFlags = FlagsUnconditional
		} else {
			r.SetFlags = FlagsNever
		}
		r.Rn = rm // shift amount register is Rm field of hw2 in the teacher's layout
		r.Rm = int8(hw1 & 0x000f)
		switch op {
		case 0b00:
			r.Op = OpLSL
		case 0b01:
			r.Op = OpLSR
		case 0b10:
			r.Op = OpASR
		case 0b11:
			r.Op = OpROR
		}
		return r

	case hw1&0xff80 == 0xfa00 && hw2&0x0080 != 0:
		// signed/unsigned extend with optional addition
		op := (hw1 & 0x0070) >> 4
		rot := uint32((hw2 & 0x0030) >> 4)
		r.ShiftType = SRTypeROR
		r.ShiftAmount = rot << 3
		hasAdd := rn != int8(0x0f)
		switch op {
		case 0b000:
			r.Op = OpSXTH
		case 0b001:
			r.Op = OpUXTH
		case 0b100:
			r.Op = OpSXTB
		case 0b101:
			r.Op = OpUXTB
		default:
			return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
		}
		if !hasAdd {
			r.Rn = -1
		}
		return r

	case hw1&0xff80 == 0xfb00:
		// 32-bit multiplies, with or without accumulate
		op := (hw1 & 0x0070) >> 4
		ra := int8((hw2 & 0xf000) >> 12)
		op2 := (hw2 & 0x00f0) >> 4
		r.Ra = ra
		switch {
		case op == 0b000 && op2 == 0b0000:
			if ra == int8(0x0f) {
				r.Op = OpMUL
				r.Ra = -1
			} else {
				r.Op = OpMLA
			}
		case op == 0b000 && op2 == 0b0001:
			r.Op = OpMLS
		default:
			return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
		}
		return r

	case hw1&0xff80 == 0xfb80:
		// 64-bit multiply, multiply-accumulate, and divide
		op := (hw1 & 0x0070) >> 4
		rdLo := int8((hw2 & 0xf000) >> 12)
		rdHi := rd
		op2 := (hw2 & 0x00f0) >> 4
		r.RdLo, r.RdHi = rdLo, rdHi
		r.Rd = -1
		switch {
		case op == 0b000 && op2 == 0b0000:
			r.Op = OpSMULL
		case op == 0b010 && op2 == 0b0000:
			r.Op = OpUMULL
		case op == 0b100 && op2 == 0b0000:
			r.Op = OpSMLAL
		case op == 0b110 && op2 == 0b0000:
			r.Op = OpUMLAL
		case op == 0b001 && op2 == 0b1111:
			r.Op = OpSDIV
			r.RdLo, r.RdHi = -1, -1
			r.Rd = rd
		case op == 0b011 && op2 == 0b1111:
			r.Op = OpUDIV
			r.RdLo, r.RdHi = -1, -1
			r.Rd = rd
		default:
			return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
		}
		return r
	}

	return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
}

// decodeLoadStoreDoubleEtc covers "3.3.4 Load/store double and exclusive,
// and table branch".
func decodeLoadStoreDoubleEtc(hw1, hw2 uint16) Record {
	p := hw1&0x0100 != 0
	u := hw1&0x0080 != 0
	w := hw1&0x0020 != 0
	rn := int8(hw1 & 0x000f)
	rt := int8((hw2 & 0xf000) >> 12)
	rt2 := int8((hw2 & 0x0f00) >> 8)
	imm8 := uint32(hw2 & 0x00ff)

	r := noRegs()
	r.Rn, r.Rt, r.Rt2 = rn, rt, rt2
	r.Add, r.Index, r.Wback = u, p, w
	r.Imm32 = imm8 << 2

	if p || w {
		if hw1&0x0010 != 0 {
			r.Op = OpLDRD
		} else {
			r.Op = OpSTRD
		}
		return r
	}

	if hw1&0x0080 != 0 {
		// load/store exclusive byte/halfword/doubleword and table branch
		op := (hw2 & 0x00f0) >> 4
		rm := int8(hw2 & 0x000f)
		switch op {
		case 0b0000:
			r.Op = OpTBB
			r.Rm = rm
			r.Rn, r.Rt, r.Rt2 = rn, -1, -1
		case 0b0001:
			r.Op = OpTBH
			r.Rm = rm
			r.Rn, r.Rt, r.Rt2 = rn, -1, -1
		case 0b0100:
			r.Op, r.Width = OpSTREX, 4
			r.Rt, r.Rd = rt, int8(hw2&0x000f)
			r.Imm32 = imm8 << 2
		case 0b0101:
			r.Op, r.Width = OpLDREX, 4
			r.Imm32 = imm8 << 2
		case 0b1100:
			r.Op, r.Width = OpSTREXB, 1
			r.Rd = int8(hw2 & 0x000f)
		case 0b1101:
			r.Op, r.Width = OpSTREXH, 2
			r.Rd = int8(hw2 & 0x000f)
		case 0b1110:
			r.Op, r.Width = OpLDREXB, 1
		case 0b1111:
			r.Op, r.Width = OpLDREXH, 2
		default:
			return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
		}
		return r
	}

	return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
}

// decodeLoadStoreSingle covers "3.3.3 Load and store single data item, and
// memory hints" across its seven addressing-mode sub-formats.
func decodeLoadStoreSingle(hw1, hw2 uint16) Record {
	size := (hw1 & 0x0060) >> 5
	signed := hw1&0x0100 != 0
	load := hw1&0x0010 != 0
	rn := int8(hw1 & 0x000f)
	rt := int8((hw2 & 0xf000) >> 12)

	r := noRegs()
	r.Rt, r.Rn = rt, rn
	r.Signed = signed
	switch size {
	case 0b00:
		r.Width = 1
	case 0b01:
		r.Width = 2
	case 0b10:
		r.Width = 4
	}

	opFor := func(load bool) Op {
		if load {
			switch {
			case size == 0b00 && signed:
				return OpLDRSB
			case size == 0b00:
				return OpLDRB
			case size == 0b01 && signed:
				return OpLDRSH
			case size == 0b01:
				return OpLDRH
			default:
				return OpLDR
			}
		}
		switch size {
		case 0b00:
			return OpSTRB
		case 0b01:
			return OpSTRH
		default:
			return OpSTR
		}
	}

	switch {
	case rn == int8(0x0f):
		// PC-relative literal: always a load
		u := hw1&0x0080 != 0
		imm12 := uint32(hw2 & 0x0fff)
		r.Add, r.Index = u, true
		r.Imm32 = imm12
		r.Op = opFor(true)
		r.Unaligned = true

	case hw1&0xfe80 == 0xf880:
		// Rn + imm12
		imm12 := uint32(hw2 & 0x0fff)
		r.Add, r.Index = true, true
		r.Imm32 = imm12
		r.Op = opFor(load)
		r.Unaligned = true

	case hw2&0x0f00 == 0x0c00:
		// Rn - imm8
		imm8 := uint32(hw2 & 0x00ff)
		r.Add, r.Index = false, true
		r.Imm32 = imm8
		r.Op = opFor(load)
		r.Unaligned = true

	case hw2&0x0d00 == 0x0900:
		// post-indexed +/- imm8
		u := hw2&0x0200 != 0
		imm8 := uint32(hw2 & 0x00ff)
		r.Add, r.Index, r.Wback = u, false, true
		r.Imm32 = imm8
		r.Op = opFor(load)
		r.Unaligned = true

	case hw2&0x0d00 == 0x0d00:
		// pre-indexed +/- imm8
		u := hw2&0x0200 != 0
		imm8 := uint32(hw2 & 0x00ff)
		r.Add, r.Index, r.Wback = u, true, true
		r.Imm32 = imm8
		r.Op = opFor(load)
		r.Unaligned = true

	case hw2&0x0fc0 == 0x0000:
		// Rn + shifted register
		rm := int8(hw2 & 0x0007)
		shift := uint32((hw2 & 0x0030) >> 4)
		r.Rm = rm
		r.ShiftType = SRTypeLSL
		r.ShiftAmount = shift
		r.Add, r.Index = true, true
		r.Op = opFor(load)
		r.Unaligned = true

	default:
		return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
	}

	return r
}

// decodeLoadStoreMultiple covers "3.3.5 Load and store multiple" (RFE/SRS
// are privileged-mode instructions out of scope per spec.md's user-mode
// focus and decode to UDF).
func decodeLoadStoreMultiple(hw1, hw2 uint16) Record {
	op := (hw1 & 0x0180) >> 7
	load := hw1&0x0010 != 0
	wback := hw1&0x0020 != 0
	rn := int8(hw1 & 0x000f)
	regList := hw2

	r := noRegs()
	r.Rn = rn
	r.Wback = wback
	r.RegList = regList

	switch op {
	case 0b01:
		if !load {
			return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
		}
		if rn == rSP && wback {
			r.Op = OpPOP
		} else {
			r.Op = OpLDM
		}
	case 0b10:
		if load {
			return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
		}
		if rn == rSP && wback {
			r.Op = OpPUSH
		} else {
			r.Op = OpSTM
		}
	default:
		return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
	}
	return r
}

// decodeBranchesOrDataProcessing dispatches "3.3.1 Data processing
// instructions: immediate" vs "3.3.6 Branches, miscellaneous control
// instructions" on hw2 bit 15, matching thumb2BranchesORDataProcessing.
func decodeBranchesOrDataProcessing(hw1, hw2 uint16) Record {
	if hw2&0x8000 != 0 {
		return decodeBranchesMiscControl(hw1, hw2)
	}
	return decodeDataProcessingImmediate(hw1, hw2)
}

func decodeDataProcessingImmediate(hw1, hw2 uint16) Record {
	r := noRegs()

	switch {
	case hw1&0xfa00 == 0xf000:
		// modified 12-bit immediate
		i := uint32((hw1 & 0x0400) >> 10)
		op := (hw1 & 0x01e0) >> 5
		setFlags := hw1&0x0010 != 0
		rn := int8(hw1 & 0x000f)
		imm3 := uint32((hw2 & 0x7000) >> 12)
		rd := int8((hw2 & 0x0f00) >> 8)
		imm8 := uint32(hw2 & 0x00ff)
		imm12 := (i << 11) | (imm3 << 8) | imm8

		r.Rn, r.Rd = rn, rd
		r.ImmC0, _ = ThumbExpandImmC(imm12, false)
		r.ImmC1, _ = ThumbExpandImmC(imm12, true)
		r.ImmHasCarry = true
		r.Imm32 = ThumbExpandImm(imm12)
		if setFlags {
			r.SetFlags = FlagsUnconditional
		} else {
			r.SetFlags = FlagsNever
		}

		switch op {
		case 0b0000:
			r.Op = OpAND
			if rd == int8(0x0f) {
				r.Op, r.Rd = OpTST, -1
			}
		case 0b0001:
			r.Op = OpBIC
		case 0b0010:
			r.Op = OpORR
			if rn == int8(0x0f) {
				r.Op, r.Rn = OpMOV, -1
			}
		case 0b0011:
			r.Op = OpORN
			if rn == int8(0x0f) {
				r.Op, r.Rn = OpMVN, -1
			}
		case 0b0100:
			r.Op = OpEOR
			r.ImmHasCarry = false
		case 0b1000:
			r.Op = OpADD
			r.ImmHasCarry = false
			if rd == int8(0x0f) && setFlags {
				r.Op, r.Rd = OpCMN, -1
			}
		case 0b1010:
			r.Op = OpADC
			r.ImmHasCarry = false
		case 0b1011:
			r.Op = OpSBC
			r.ImmHasCarry = false
		case 0b1101:
			r.Op = OpSUB
			r.ImmHasCarry = false
			if rd == int8(0x0f) && setFlags {
				r.Op, r.Rd = OpCMP, -1
			}
		case 0b1110:
			r.Op = OpRSB
			r.ImmHasCarry = false
		default:
			return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
		}
		return r

	case hw1&0xfb40 == 0xf240:
		// plain 16-bit immediate: MOVW/MOVT
		i := uint32((hw1 & 0x0400) >> 10)
		movt := hw1&0x0080 != 0
		imm4 := uint32(hw1 & 0x000f)
		imm3 := uint32((hw2 & 0x7000) >> 12)
		rd := int8((hw2 & 0x0f00) >> 8)
		imm8 := uint32(hw2 & 0x00ff)
		imm16 := (imm4 << 12) | (i << 11) | (imm3 << 8) | imm8

		r.Rd, r.Rn = rd, -1
		r.Op = OpMOV
		r.Imm16 = uint16(imm16)
		r.MovTop = movt
		r.SetFlags = FlagsNever
		return r

	case hw1&0xfb10 == 0xf300:
		// bitfield and saturate
		op := (hw1 & 0x00e0) >> 5
		rn := int8(hw1 & 0x000f)
		imm3 := uint32((hw2 & 0x7000) >> 12)
		rd := int8((hw2 & 0x0f00) >> 8)
		imm2 := uint32((hw2 & 0x00c0) >> 6)
		widthm1OrSat := uint32(hw2 & 0x001f)
		lsbit := (imm3 << 2) | imm2

		r.Rd, r.Rn = rd, rn

		switch op {
		case 0b010:
			r.Op = OpSSAT
			r.Imm32 = widthm1OrSat + 1
			r.ShiftAmount = lsbit
		case 0b011:
			r.Op = OpSBFX
			r.Imm32 = lsbit
			r.ShiftAmount = widthm1OrSat + 1
		case 0b110:
			r.Op = OpUBFX
			r.Imm32 = lsbit
			r.ShiftAmount = widthm1OrSat + 1
		case 0b100:
			if rn == int8(0x0f) {
				r.Op = OpBFC
				r.Rn = -1
			} else {
				r.Op = OpBFI
			}
			r.Imm32 = lsbit
			r.ShiftAmount = widthm1OrSat // msb field, combined with lsbit in the executor
		default:
			return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
		}
		return r
	}

	return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
}

func decodeBranchesMiscControl(hw1, hw2 uint16) Record {
	r := noRegs()

	switch {
	case hw2&0xd000 == 0xd000:
		// BL
		s := uint32((hw1 & 0x400) >> 10)
		j1 := uint32((hw2 & 0x2000) >> 13)
		j2 := uint32((hw2 & 0x0800) >> 11)
		i1 := (^(j1 ^ s)) & 1
		i2 := (^(j2 ^ s)) & 1
		imm10 := uint32(hw1 & 0x3ff)
		imm11 := uint32(hw2 & 0x7ff)
		imm32 := (i1 << 23) | (i2 << 22) | (imm10 << 12) | (imm11 << 1)
		if s != 0 {
			imm32 |= 0xff000000
		}
		r.Op = OpBL
		r.Imm32 = imm32
		return r

	case hw2&0xd001 == 0xc000:
		// BLX (same displacement encoding as BL, target forced word-aligned
		// and ARM state; thumbiss is Thumb-only so this behaves as BL)
		s := uint32((hw1 & 0x400) >> 10)
		j1 := uint32((hw2 & 0x2000) >> 13)
		j2 := uint32((hw2 & 0x0800) >> 11)
		i1 := (^(j1 ^ s)) & 1
		i2 := (^(j2 ^ s)) & 1
		imm10 := uint32(hw1 & 0x3ff)
		imm11 := uint32(hw2&0x7fe) >> 1 << 1
		imm32 := (i1 << 23) | (i2 << 22) | (imm10 << 12) | (imm11 << 1)
		if s != 0 {
			imm32 |= 0xff000000
		}
		r.Op = OpBL
		r.Imm32 = imm32
		return r

	case hw2&0xd000 == 0x8000 && hw1&0x0380 != 0x0380:
		// conditional B, T3 encoding (a cond field of 111x is the
		// miscellaneous-control group decoded below instead)
		s := uint32((hw1 & 0x0400) >> 10)
		cond := uint8((hw1 & 0x03c0) >> 6)
		imm6 := uint32(hw1 & 0x003f)
		j1 := uint32((hw2 & 0x2000) >> 13)
		j2 := uint32((hw2 & 0x0800) >> 11)
		imm11 := uint32(hw2 & 0x07ff)
		imm32 := (s << 20) | (j2 << 19) | (j1 << 18) | (imm6 << 12) | (imm11 << 1)
		if s != 0 {
			imm32 |= 0xfff00000
		}
		r.Op = OpB
		r.Cond = cond
		r.Imm32 = imm32
		return r

	case hw1 == 0xf3bf && hw2&0xff00 == 0x8f00:
		// DMB/DSB/ISB barriers
		switch hw2 & 0x00f0 {
		case 0x0040:
			r.Op = OpDSB
		case 0x0050:
			r.Op = OpDMB
		case 0x0060:
			r.Op = OpISB
		default:
			return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
		}
		return r

	case hw1&0xfff0 == 0xf3e0 && hw2&0xf000 == 0x8000:
		// MRS
		r.Op = OpMRS
		r.Rd = int8((hw2 & 0x0f00) >> 8)
		r.SpecialReg = decodeSpecialReg(uint8(hw2 & 0x00ff))
		return r

	case hw1&0xfff0 == 0xf380 && hw2&0xff00 == 0x8800:
		// MSR
		r.Op = OpMSR
		r.Rn = int8(hw1 & 0x000f)
		r.SpecialReg = decodeSpecialReg(uint8(hw2 & 0x00ff))
		return r

	case hw1 == 0xf3af && hw2&0xff00 == 0x8000:
		r.Op = OpNOP
		return r
	}

	return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
}

func decodeSpecialReg(sysm uint8) SpecialRegister {
	switch sysm {
	case 0:
		return SpecialAPSR
	case 5:
		return SpecialIPSR
	case 6:
		return SpecialEPSR
	case 8:
		return SpecialMSP
	case 9:
		return SpecialPSP
	case 16:
		return SpecialPRIMASK
	case 17:
		return SpecialBASEPRI
	case 18:
		return SpecialBASEPRIMax
	case 19:
		return SpecialFAULTMASK
	case 20:
		return SpecialCONTROL
	default:
		return SpecialNone
	}
}

// decodeCoprocessorOrFPU handles the single-precision VFP encodings
// (grounded on thumb2_fpu.go's decodeThumb2FPU/decodeThumb2FPUDataProcessing/
// decodeThumb2FPURegisterLoadStore, which in turn implement "A6.4 Floating-
// point data-processing instructions" and "A6.5 Extension register load or
// store instructions" of ARMv7-M) that thumbiss supports when HasFPU is
// set. Double-precision operands are decoded (FPPrecision/Fd/Fn/Fm reflect
// the D:Vd form) but the teacher's own FPU only ever exercises single
// precision in anger, so double-precision execution support in exec_fpu.go
// is correspondingly thinner; genuine (non-VFP) coprocessor instructions
// (thumb2_coproc.go) decode to UDF, same as the teacher.
func decodeCoprocessorOrFPU(hw1, hw2 uint16) Record {
	coproc := (hw2 & 0x0f00) >> 8
	if coproc != 0b1010 && coproc != 0b1011 {
		return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
	}

	r := noRegs()
	dp := coproc == 0b1011
	if dp {
		r.FPPrecision = 64
	} else {
		r.FPPrecision = 32
	}

	d := hw2&0x8000 != 0
	n := hw1&0x0080 != 0
	m := hw2&0x0020 != 0
	vd := uint8((hw2 & 0x7000) >> 12)
	vn := uint8(hw1 & 0x000f)
	vm := uint8(hw2 & 0x000f)
	if dp {
		r.Fd = boolBit(d, 4) | vd
		r.Fn = boolBit(n, 4) | vn
		r.Fm = boolBit(m, 4) | vm
	} else {
		r.Fd = vd<<1 | boolBit(d, 0)
		r.Fn = vn<<1 | boolBit(n, 0)
		r.Fm = vm<<1 | boolBit(m, 0)
	}

	switch hw1 & 0x0e00 {
	case 0x0e00:
		if hw2&0x0010 == 0 {
			return decodeFPUDataProcessing(hw1, hw2, r)
		}
		return decodeFPU32bitTransfer(hw1, hw2, r)
	case 0x0c00:
		return decodeFPURegisterLoadStore(hw1, hw2, r)
	}

	return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
}

func boolBit(b bool, shift uint8) uint8 {
	if b {
		return 1 << shift
	}
	return 0
}

func decodeFPUDataProcessing(hw1, hw2 uint16, r Record) Record {
	opc1 := (hw1 & 0x00f0) >> 4
	opc3 := (hw2 & 0x00c0) >> 6

	switch opc1 & 0b1011 {
	case 0b0011:
		if opc3&0b01 == 0 {
			r.Op = OpVADD
		} else {
			r.Op = OpVSUB
		}
	case 0b0010:
		r.Op = OpVMUL
	case 0b1000:
		r.Op = OpVDIV
	case 0b1011:
		opc2 := hw1 & 0x000f
		switch {
		case opc2 == 0b0000 && opc3&0b01 == 0:
			r.Op = OpVMOV
		case opc2 == 0b0001 && opc3&0b01 == 0:
			r.Op = OpVABS
		case opc2 == 0b0000 && opc3&0b01 != 0:
			r.Op = OpVNEG
		case opc2 == 0b0100, opc2 == 0b0101:
			r.Op = OpVCMP
		case opc2&0b1000 != 0 && opc3&0b01 != 0:
			r.Op = OpVCVT
		default:
			return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
		}
	default:
		return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
	}
	return r
}

func decodeFPU32bitTransfer(hw1, hw2 uint16, r Record) Record {
	l := hw1&0x0010 != 0
	a := (hw1 & 0x00e0) >> 5
	c := hw2&0x0100 != 0

	if a == 0b111 {
		if l {
			r.Op = OpVMRS
		} else {
			r.Op = OpVMSR
		}
		r.Rd = int8((hw2 & 0xf000) >> 12)
		return r
	}

	if c {
		return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
	}
	r.Op = OpVMOV
	r.Rd = int8((hw2 & 0xf000) >> 12)
	r.VMovToCore = l
	return r
}

func decodeFPURegisterLoadStore(hw1, hw2 uint16, r Record) Record {
	op := (hw1 & 0x01f0) >> 4
	rn := int8(hw1 & 0x000f)
	imm8 := uint32(hw2 & 0x00ff)
	add := hw1&0x0080 != 0

	r.Rn = rn
	r.Imm32 = imm8 << 2
	r.Add = add
	r.Index = true

	switch op & 0b11011 {
	case 0b10000, 0b11000:
		r.Op = OpVSTR
		if op&0b00001 != 0 {
			r.Op = OpVLDR
		}
	case 0b10010:
		if rn == rSP {
			r.Op = OpVPUSH
		} else {
			r.Op = OpVLDR
		}
	case 0b10011:
		if rn == rSP {
			r.Op = OpVPOP
		} else {
			r.Op = OpVLDR
		}
	default:
		return recordUDF(uint32(hw1)|uint32(hw2)<<16, true)
	}
	return r
}
