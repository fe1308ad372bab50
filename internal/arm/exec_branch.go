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

// execBranch covers B/BL/BX/BLX/CBZ/CBNZ/TBB/TBH (spec.md §4.3,
// "Branches"). Grounded on the teacher's decodeThumbConditionalBranch/
// decodeThumbUnconditionalBranch/decodeThumbHiRegisterOps bodies in
// thumb.go for the conditional/unconditional/BX forms; CBZ/CBNZ/TBB/TBH
// have no teacher analogue (the cartridge subroutines this core was lifted
// from never branch-on-compare or jump-table) and are built directly from
// the architecture manual's pseudocode instead.
//
// B is the one branch family still subject to its own condition test after
// execute()'s ambient IT-block predication has already been bypassed for it
// (exec.go's predicated() excludes OpB): Record.Cond carries either the
// encoded condition (Bcc, T1/T3) or the fixed "always" value 0b1110 (the
// unconditional B, T2/T4), so a single Condition(rec.Cond) check serves
// both forms.
func (c *Core) execBranch(rec Record) StepResult {
	switch rec.Op {
	case OpB:
		if rec.Cond != 0b1110 && !c.Status.Condition(rec.Cond) {
			return NotTaken()
		}
		c.Regs.BranchWritePC(c.Regs.PC() + rec.Imm32)
		return Branched(3)

	case OpBL:
		c.Regs.SetLR(c.Regs.PC() | 1)
		c.Regs.BranchWritePC(c.Regs.PC() + rec.Imm32)
		return Branched(4)

	case OpBX:
		target := c.Regs.R(int(rec.Rm))
		if isExcReturn(target) {
			if f := c.ExceptionReturn(target); f.Kind != "" {
				return FaultResult(f)
			}
			return Branched(3)
		}
		if !c.Regs.BXWritePC(target) {
			return FaultResult(usageFault("BX to non-interworking target", target))
		}
		return Branched(3)

	case OpBLX:
		target := c.Regs.R(int(rec.Rm))
		lr := c.Regs.PC() | 1
		if !c.Regs.BLXWritePC(target) {
			return FaultResult(usageFault("BLX to non-interworking target", target))
		}
		c.Regs.SetLR(lr)
		return Branched(3)

	case OpCBZ, OpCBNZ:
		rn := c.Regs.R(int(rec.Rn))
		zero := rn == 0
		take := zero
		if rec.Op == OpCBNZ {
			take = !zero
		}
		if !take {
			return NotTaken()
		}
		c.Regs.BranchWritePC(c.Regs.PC() + rec.Imm32)
		return Branched(3)

	case OpTBB, OpTBH:
		return c.execTableBranch(rec)
	}

	return FaultResult(usageFault("unimplemented branch", rec.RawOpcode))
}

// execTableBranch implements TBB/TBH: a byte (TBB) or halfword (TBH) table
// indexed by Rm, read from Rn+Rm(<<1), giving the count of halfwords to
// advance PC by (spec.md §4.3: "branch to PC + 2*entry").
func (c *Core) execTableBranch(rec Record) StepResult {
	rn := c.Regs.R(int(rec.Rn))
	rm := c.Regs.R(int(rec.Rm))

	var entry uint32
	if rec.Op == OpTBB {
		v, f := c.Bus.Read8(rn + rm)
		if f.Kind != "" {
			return FaultResult(f)
		}
		entry = uint32(v)
	} else {
		v, f := c.Bus.Read16(rn + rm*2)
		if f.Kind != "" {
			return FaultResult(f)
		}
		entry = uint32(v)
	}

	c.Regs.BranchWritePC(c.Regs.PC() + entry*2)
	return Branched(4)
}
