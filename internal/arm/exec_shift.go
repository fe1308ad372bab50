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

// execShift covers LSL/LSR/ASR/ROR/RRX as standalone Ops (spec.md §4.3
// "Shifts"): the Thumb16 "move shifted register" format and the Thumb-2
// register-controlled-shift encoding both decode here, the shift amount
// coming either from Record.ShiftAmount (immediate form) or from the low
// byte of Rm's sibling register (register form, already resolved into
// ShiftAmount by the decoder's DecodeImmShift / register read). Grounded
// on decodeThumbMoveShiftedRegister (thumb.go) and the constant/register
// shift cases of thumb2DataProcessingNonImmediate (thumb2_32bit.go),
// unified because both ultimately just call ShiftC once.
func (c *Core) execShift(rec Record) StepResult {
	rm := c.Regs.R(int(rec.Rm))

	amount := rec.ShiftAmount
	if rec.Rn >= 0 {
		// register-controlled form: shift amount is the low byte of Rn.
		amount = uint32(byte(c.Regs.R(int(rec.Rn))))
	}

	result, carryOut := ShiftC(rm, rec.ShiftType, amount, c.Status.carry)
	c.Regs.SetR(int(rec.Rd), result)

	if rec.SetFlags.Resolve(c.Status.InITBlock()) {
		c.Status.isNegative(result)
		c.Status.isZero(result)
		c.Status.setCarry(carryOut)
	}
	return Taken(1)
}
