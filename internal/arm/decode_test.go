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

import "testing"

// TestDecodeThumb16NeverPanics walks every 16-bit Thumb halfword value
// through the decoder and the disassembler, the exhaustive form of spec.md
// §8 item 6's decode round-trip property.
func TestDecodeThumb16NeverPanics(t *testing.T) {
	for hw := 0; hw < 1<<16; hw++ {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("DecodeThumb16(%#04x) panicked: %v", hw, r)
				}
			}()
			rec := DecodeThumb16(uint16(hw))
			_ = Disassemble(0, rec)
		}()
	}
}

// TestDecodeThumb32SampleNeverPanics samples the Thumb32 second-halfword
// space (exhaustive here is 2^32 combinations, infeasible even for a test)
// with every first halfword that begins a 32-bit instruction and a handful
// of representative second halfwords.
func TestDecodeThumb32SampleNeverPanics(t *testing.T) {
	second := []uint16{0x0000, 0xffff, 0x8000, 0x0001, 0x1234, 0xabcd}
	for hw1 := 0; hw1 < 1<<16; hw1++ {
		if !isThumb32(uint16(hw1)) {
			continue
		}
		for _, hw2 := range second {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Fatalf("DecodeThumb32(%#04x,%#04x) panicked: %v", hw1, hw2, r)
					}
				}()
				rec := DecodeThumb32(uint16(hw1), hw2)
				_ = Disassemble(0, rec)
			}()
		}
	}
}

// TestDecodeMovImmediate checks one concrete, hand-assembled encoding
// (MOVS r0,#1, used by scenario S1 in core_test.go) decodes to the fields
// the executor expects, pinning the bit layout the scenario tests depend on.
func TestDecodeMovImmediate(t *testing.T) {
	rec := DecodeThumb16(0x2001) // MOVS r0,#1
	if rec.Op != OpMOV {
		t.Fatalf("opcode = %v, want OpMOV", rec.Op)
	}
	if rec.Rd != 0 {
		t.Fatalf("Rd = %d, want 0", rec.Rd)
	}
	if rec.Imm32 != 1 {
		t.Fatalf("Imm32 = %d, want 1", rec.Imm32)
	}
}

func TestDecodeAddRegister(t *testing.T) {
	rec := DecodeThumb16(0x1c40) // ADDS r0,r0,#1 (format 2, imm3)
	if rec.Op != OpADD {
		t.Fatalf("opcode = %v, want OpADD", rec.Op)
	}
	if rec.Rd != 0 || rec.Rn != 0 {
		t.Fatalf("Rd/Rn = %d/%d, want 0/0", rec.Rd, rec.Rn)
	}
	if rec.Imm32 != 1 {
		t.Fatalf("Imm32 = %d, want 1", rec.Imm32)
	}
}

// TestDecodeExtendGroup pins the 0xb200 "miscellaneous" dispatch case: a
// missing case here used to send every SXTB/SXTH/UXTB/UXTH encoding to
// recordUDF instead of decodeExtend.
func TestDecodeExtendGroup(t *testing.T) {
	cases := []struct {
		opcode uint16
		op     Op
	}{
		{0xb208, OpSXTH}, // SXTH r0,r1
		{0xb248, OpSXTB}, // SXTB r0,r1
		{0xb288, OpUXTH}, // UXTH r0,r1
		{0xb2c8, OpUXTB}, // UXTB r0,r1
	}
	for _, tc := range cases {
		rec := DecodeThumb16(tc.opcode)
		if rec.Op != tc.op {
			t.Fatalf("DecodeThumb16(%#04x).Op = %v, want %v", tc.opcode, rec.Op, tc.op)
		}
		if rec.Rd != 0 || rec.Rm != 1 {
			t.Fatalf("DecodeThumb16(%#04x): Rd/Rm = %d/%d, want 0/1", tc.opcode, rec.Rd, rec.Rm)
		}
		if rec.Rn != -1 {
			t.Fatalf("DecodeThumb16(%#04x): Rn = %d, want -1 (no accumulate)", tc.opcode, rec.Rn)
		}
	}
}

// TestDecodeReverseBytesGroup pins the 0xba00 "miscellaneous" dispatch
// case, including the unassigned 0b10 combination UDF-ing rather than
// matching a bogus instruction.
func TestDecodeReverseBytesGroup(t *testing.T) {
	cases := []struct {
		opcode uint16
		op     Op
	}{
		{0xba08, OpREV},
		{0xba48, OpREV16},
		{0xbac8, OpREVSH},
	}
	for _, tc := range cases {
		rec := DecodeThumb16(tc.opcode)
		if rec.Op != tc.op {
			t.Fatalf("DecodeThumb16(%#04x).Op = %v, want %v", tc.opcode, rec.Op, tc.op)
		}
	}

	if rec := DecodeThumb16(0xba88); rec.Op != OpUDF {
		t.Fatalf("DecodeThumb16(0xba88).Op = %v, want OpUDF (unassigned 0b10 combination)", rec.Op)
	}
}
