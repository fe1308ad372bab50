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

import "fmt"

// Supplemented feature (SPEC_FULL.md §6): spec.md doesn't ask for a
// disassembler, but a Record already carries every field a human-readable
// trace needs, and the teacher devotes real budget to exactly this
// (disasm.go/disassembly.go/disassembly_entry.go in the teacher's ARM
// package). DisasmEntry here is the same idea cut down to what Record
// supports: an address, an operator, an operand string, and the register
// snapshot/cycle count once the instruction has actually executed — fields
// the teacher's CartCoProcDisasmEntry interface also carries, renamed to
// this package's own Record-based decode shape instead of the teacher's
// 6-field cartridge entry.
type DisasmEntry struct {
	Addr     uint32
	Operator string
	Operand  string

	// populated only once the entry has actually executed (teacher's
	// "values ... not defined unless the instruction has been executed"
	// convention).
	Executed   bool
	Cycles     uint32
	Registers  [13]uint32
}

func (e DisasmEntry) String() string {
	if e.Operand == "" {
		return e.Operator
	}
	return fmt.Sprintf("%-6s %s", e.Operator, e.Operand)
}

// regName formats general-purpose register n the way ARM disassembly
// conventionally does (r0..r12, sp, lr, pc), following the teacher's own
// register-naming switch in disasm.go.
func regName(n int8) string {
	switch {
	case n < 0:
		return ""
	case n == 13:
		return "sp"
	case n == 14:
		return "lr"
	case n == 15:
		return "pc"
	default:
		return fmt.Sprintf("r%d", n)
	}
}

func condSuffix(rec Record) string {
	if rec.Op == OpB && rec.Cond != 0b1110 {
		return condName(rec.Cond)
	}
	return ""
}

var condNames = [...]string{"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc", "hi", "ls", "ge", "lt", "gt", "le", "al", ""}

func condName(cond uint8) string {
	if int(cond) < len(condNames) {
		return condNames[cond]
	}
	return ""
}

// Disassemble renders a decoded Record as a mnemonic/operand pair, grounded
// on the teacher's disasm.go operator/operand split (DisasmEntry.String
// joins Operator and Operand with a space, the operator padded to six
// columns). Only the
// families common in hand-written Thumb — data processing, branch, load/
// store, IT — get a dedicated operand format; every other Op falls back to
// a register-dump rendering that is still useful for tracing, matching the
// teacher's own "unimplemented disassembly falls back to a generic form"
// posture in unexpected-opcode cases.
func Disassemble(addr uint32, rec Record) DisasmEntry {
	e := DisasmEntry{Addr: addr, Operator: rec.Op.String() + condSuffix(rec)}

	switch rec.Op {
	case OpUDF:
		e.Operand = fmt.Sprintf("#0x%x", rec.RawOpcode)
	case OpMOV, OpMVN:
		if rec.ImmHasCarry || rec.Rm < 0 {
			e.Operand = fmt.Sprintf("%s, #%d", regName(rec.Rd), rec.Imm32)
		} else {
			e.Operand = fmt.Sprintf("%s, %s", regName(rec.Rd), regName(rec.Rm))
		}
	case OpADD, OpSUB, OpADC, OpSBC, OpRSB, OpAND, OpEOR, OpORR, OpBIC, OpORN:
		if rec.Rm >= 0 {
			e.Operand = fmt.Sprintf("%s, %s, %s", regName(rec.Rd), regName(rec.Rn), regName(rec.Rm))
		} else {
			e.Operand = fmt.Sprintf("%s, %s, #%d", regName(rec.Rd), regName(rec.Rn), rec.Imm32)
		}
	case OpCMP, OpCMN, OpTST, OpTEQ:
		if rec.Rm >= 0 {
			e.Operand = fmt.Sprintf("%s, %s", regName(rec.Rn), regName(rec.Rm))
		} else {
			e.Operand = fmt.Sprintf("%s, #%d", regName(rec.Rn), rec.Imm32)
		}
	case OpB, OpBL:
		e.Operand = fmt.Sprintf("#0x%x", addr+rec.Imm32)
	case OpBX, OpBLX:
		e.Operand = regName(rec.Rm)
	case OpCBZ, OpCBNZ:
		e.Operand = fmt.Sprintf("%s, #0x%x", regName(rec.Rn), addr+rec.Imm32)
	case OpLDR, OpLDRB, OpLDRH, OpLDRSB, OpLDRSH, OpSTR, OpSTRB, OpSTRH:
		if rec.Rm >= 0 {
			e.Operand = fmt.Sprintf("%s, [%s, %s]", regName(rec.Rt), regName(rec.Rn), regName(rec.Rm))
		} else {
			e.Operand = fmt.Sprintf("%s, [%s, #%d]", regName(rec.Rt), regName(rec.Rn), rec.Imm32)
		}
	case OpLDM, OpSTM:
		e.Operand = fmt.Sprintf("%s, {%s}", regName(rec.Rn), regListString(rec.RegList))
	case OpPUSH, OpPOP:
		e.Operand = fmt.Sprintf("{%s}", regListString(rec.RegList))
	case OpIT:
		e.Operand = condName(rec.ITFirstCond)
	case OpBKPT, OpSVC:
		e.Operand = fmt.Sprintf("#%d", rec.Imm32)
	default:
		e.Operand = fmt.Sprintf("rd=%s rn=%s rm=%s imm=%d",
			regName(rec.Rd), regName(rec.Rn), regName(rec.Rm), rec.Imm32)
	}

	return e
}

func regListString(list uint16) string {
	s := ""
	for n := 0; n < 16; n++ {
		if list&(1<<n) == 0 {
			continue
		}
		if s != "" {
			s += ", "
		}
		s += regName(int8(n))
	}
	return s
}
