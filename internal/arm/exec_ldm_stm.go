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

import "math/bits"

// execLoadStoreMultiple covers LDM/STM/PUSH/POP (spec.md §4.3 "Load/Store
// Multiple"), grounded on decodeThumbPushPopRegisters/
// decodeThumbMultipleLoadStore (thumb.go) and the Thumb-2
// thumb2LoadStoreMultiple group of thumb2_32bit.go, unified into one
// function the way decode_thumb32.go already unified PUSH/POP/LDM/STM at
// decode time: all four share the same "walk RegList low-to-high,
// incrementing address by 4 per register" loop, differing only in
// direction (STM/PUSH go low-to-high ascending from a base that's already
// been decremented for PUSH) and whether PC/LR are included.
func (c *Core) execLoadStoreMultiple(rec Record) StepResult {
	n := bits.OnesCount16(rec.RegList)
	if n == 0 {
		return FaultResult(usageFault("empty register list", rec.RawOpcode))
	}

	rn := c.Regs.R(int(rec.Rn))
	var addr uint32
	if rec.Op == OpPUSH {
		addr = rn - uint32(n)*4
	} else if !rec.Add {
		addr = rn - uint32(n)*4
	} else {
		addr = rn
	}

	isLoad := rec.Op == OpLDM || rec.Op == OpPOP

	for reg := 0; reg < 16; reg++ {
		if rec.RegList&(1<<uint(reg)) == 0 {
			continue
		}
		if isLoad {
			v, f := c.Bus.Read32(addr)
			if f.Kind != "" {
				return FaultResult(f)
			}
			if reg == rPCOperand {
				if isExcReturn(v) {
					if f := c.ExceptionReturn(v); f.Kind != "" {
						return FaultResult(f)
					}
				} else if !c.Regs.LoadWritePC(v) {
					return FaultResult(usageFault("POP/LDM to PC with bit0 clear", v))
				}
			} else {
				c.Regs.SetR(reg, v)
			}
		} else {
			if f := c.Bus.Write32(addr, c.Regs.R(reg)); f.Kind != "" {
				return FaultResult(f)
			}
		}
		addr += 4
	}

	if rec.Wback {
		switch rec.Op {
		case OpPUSH:
			c.Regs.SetR(int(rec.Rn), rn-uint32(n)*4)
		case OpPOP:
			c.Regs.SetR(int(rec.Rn), rn+uint32(n)*4)
		default:
			if rec.Add {
				c.Regs.SetR(int(rec.Rn), rn+uint32(n)*4)
			} else {
				c.Regs.SetR(int(rec.Rn), rn-uint32(n)*4)
			}
		}
	}

	if isLoad && rec.RegList&(1<<rPCOperand) != 0 {
		return Branched(uint32(n) + 3)
	}
	return Taken(uint32(n) + 1)
}
