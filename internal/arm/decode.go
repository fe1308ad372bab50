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

// This file and decode_thumb16.go/decode_thumb32.go are Component E
// (spec.md §4.2): given a 16-bit halfword or a 32-bit halfword pair, return
// exactly one Record or the UDF record. Decoding here is pure — no core
// state is touched — which is the central departure from the teacher's
// decodeThumb()/decodeThumb2() functions (thumb.go, thumb2.go), each of
// which returns a decodeFunction closure that performs BOTH the decode
// dispatch AND, when invoked, the actual register/memory side effects in
// one step. Splitting the two apart is what lets core.go's instruction
// cache (icache.go) store just the Record and reuse it across a hot loop
// body without re-running the bit-pattern matching every time.
//
// The outer dispatch chain below mirrors the teacher's format table
// (thumb.go's decodeThumb, "working backwards up the table in Figure 5-1 of
// the ARM7TDMI Data Sheet") bit-for-bit, down to the format numbering in
// the comments, since that table is simply the canonical Thumb16 encoding
// table and has no reason to be reinvented.

// DecodeThumb16 decodes a single 16-bit Thumb halfword into a Record.
func DecodeThumb16(opcode uint16) Record {
	switch {
	case opcode&0xf000 == 0xf000:
		// format 19 - long branch with link (BL/BLX prefix+suffix halfwords);
		// in the Thumb-2 encoding these always combine into a 32-bit
		// instruction, so this path hands off to the Thumb32 decoder by
		// returning a marker the caller (core.decodeAt) never reaches
		// directly, because isThumb32 already routes 0xf000-class
		// halfwords to DecodeThumb32. Kept here only as a defensive UDF
		// for a lone trailing halfword at the end of code memory.
		return recordUDF(uint32(opcode), false)
	case opcode&0xf000 == 0xe000:
		return decodeUnconditionalBranch(opcode)
	case opcode&0xff00 == 0xdf00:
		return decodeSoftwareInterrupt(opcode)
	case opcode&0xff00 == 0xbe00:
		return decodeBreakpoint(opcode)
	case opcode&0xf000 == 0xd000:
		return decodeConditionalBranch(opcode)
	case opcode&0xf000 == 0xc000:
		return decodeMultipleLoadStore(opcode)
	case opcode&0xff00 == 0xbf00:
		return decodeHintsAndIT(opcode)
	case opcode&0xfd00 == 0xb100:
		return decodeCompareAndBranch(opcode, false)
	case opcode&0xfd00 == 0xb900:
		return decodeCompareAndBranch(opcode, true)
	case opcode&0xff00 == 0xb200:
		return decodeExtend(opcode)
	case opcode&0xff00 == 0xba00:
		return decodeReverseBytes(opcode)
	case opcode&0xf600 == 0xb400:
		return decodePushPopRegisters(opcode)
	case opcode&0xff00 == 0xb000:
		return decodeAddOffsetToSP(opcode)
	case opcode&0xf000 == 0xa000:
		return decodeLoadAddress(opcode)
	case opcode&0xf000 == 0x9000:
		return decodeSPRelativeLoadStore(opcode)
	case opcode&0xf000 == 0x8000:
		return decodeLoadStoreHalfword(opcode)
	case opcode&0xe000 == 0x6000:
		return decodeLoadStoreWithImmOffset(opcode)
	case opcode&0xf200 == 0x5200:
		return decodeLoadStoreSignExtended(opcode)
	case opcode&0xf200 == 0x5000:
		return decodeLoadStoreWithRegisterOffset(opcode)
	case opcode&0xf800 == 0x4800:
		return decodePCRelativeLoad(opcode)
	case opcode&0xfc00 == 0x4400:
		return decodeHiRegisterOps(opcode)
	case opcode&0xfc00 == 0x4000:
		return decodeALUOperations(opcode)
	case opcode&0xe000 == 0x2000:
		return decodeMovCmpAddSubImm(opcode)
	case opcode&0xf800 == 0x1800:
		return decodeAddSubtract(opcode)
	case opcode&0xe000 == 0x0000:
		return decodeMoveShiftedRegister(opcode)
	}
	return recordUDF(uint32(opcode), false)
}

// setFlagsOutsideIT is the spec.md §9 fix for the open question "some
// 16-bit encodings' setflags should be NotInITBlock but are coded False in
// places" — every 16-bit encoding that only sets flags outside an IT block
// decodes with FlagsNotInITBlock here, never FlagsNever.
func setFlagsOutsideIT() SetFlags { return FlagsNotInITBlock }
