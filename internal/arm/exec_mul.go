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

// execMultiplyDivide covers every Op in spec.md §4.3's "Multiplies" and
// "Divides" groups. Grounded on the teacher's MUL case in
// decodeThumbALUOperations (thumb.go, 16-bit MULS only) and the
// thumb2DataProcessingNonImmediate multiply/divide cases of
// thumb2_32bit.go (MLA/MLS/UMULL/SMULL/UMLAL/SMLAL/UDIV/SDIV), which the
// teacher implements with the host's native int64/uint64 multiply and
// division exactly as here.
func (c *Core) execMultiplyDivide(rec Record) StepResult {
	rn := c.Regs.R(int(rec.Rn))
	rm := c.Regs.R(int(rec.Rm))

	switch rec.Op {
	case OpMUL:
		result := rn * rm
		c.Regs.SetR(int(rec.Rd), result)
		if rec.SetFlags.Resolve(c.Status.InITBlock()) {
			c.Status.isNegative(result)
			c.Status.isZero(result)
		}
		return Taken(1)

	case OpMLA:
		ra := c.Regs.R(int(rec.Ra))
		c.Regs.SetR(int(rec.Rd), rn*rm+ra)
		return Taken(1)

	case OpMLS:
		ra := c.Regs.R(int(rec.Ra))
		c.Regs.SetR(int(rec.Rd), ra-rn*rm)
		return Taken(1)

	case OpUMULL:
		result := uint64(rn) * uint64(rm)
		c.Regs.SetR(int(rec.RdLo), uint32(result))
		c.Regs.SetR(int(rec.RdHi), uint32(result>>32))
		return Taken(3)

	case OpSMULL:
		result := uint64(int64(int32(rn)) * int64(int32(rm)))
		c.Regs.SetR(int(rec.RdLo), uint32(result))
		c.Regs.SetR(int(rec.RdHi), uint32(result>>32))
		return Taken(3)

	case OpUMLAL:
		acc := uint64(c.Regs.R(int(rec.RdHi)))<<32 | uint64(c.Regs.R(int(rec.RdLo)))
		result := acc + uint64(rn)*uint64(rm)
		c.Regs.SetR(int(rec.RdLo), uint32(result))
		c.Regs.SetR(int(rec.RdHi), uint32(result>>32))
		return Taken(3)

	case OpSMLAL:
		acc := int64(uint64(c.Regs.R(int(rec.RdHi)))<<32 | uint64(c.Regs.R(int(rec.RdLo))))
		result := uint64(acc + int64(int32(rn))*int64(int32(rm)))
		c.Regs.SetR(int(rec.RdLo), uint32(result))
		c.Regs.SetR(int(rec.RdHi), uint32(result>>32))
		return Taken(3)

	case OpSMULBB:
		// halfword selection (BB/BT/TB/TT) is carried in ShiftAmount's low
		// two bits, bit0 selecting Rn's half and bit1 selecting Rm's half.
		a := selectHalfword(rn, rec.ShiftAmount&0x1 != 0)
		b := selectHalfword(rm, rec.ShiftAmount&0x2 != 0)
		c.Regs.SetR(int(rec.Rd), uint32(a*b))
		return Taken(1)

	case OpSMLABB:
		a := selectHalfword(rn, rec.ShiftAmount&0x1 != 0)
		b := selectHalfword(rm, rec.ShiftAmount&0x2 != 0)
		ra := int32(c.Regs.R(int(rec.Ra)))
		c.Regs.SetR(int(rec.Rd), uint32(a*b+ra))
		return Taken(1)

	case OpUDIV:
		if rm == 0 {
			c.Regs.SetR(int(rec.Rd), 0)
			return Taken(2)
		}
		c.Regs.SetR(int(rec.Rd), rn/rm)
		return Taken(2)

	case OpSDIV:
		srn, srm := int32(rn), int32(rm)
		if srm == 0 {
			c.Regs.SetR(int(rec.Rd), 0)
			return Taken(2)
		}
		c.Regs.SetR(int(rec.Rd), uint32(srn/srm))
		return Taken(2)
	}

	return FaultResult(usageFault("unimplemented multiply/divide", rec.RawOpcode))
}

// selectHalfword extracts the top or bottom signed 16-bit halfword of v,
// for the SMULxy/SMLAxy halfword-select DSP multiplies (spec.md §4.3,
// "Multiplies"): top selects bits 31:16, bottom selects bits 15:0.
func selectHalfword(v uint32, top bool) int32 {
	if top {
		return int32(int16(v >> 16))
	}
	return int32(int16(v))
}
