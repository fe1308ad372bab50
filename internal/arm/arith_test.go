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

func TestAddWithCarryMatchesWrappingSum(t *testing.T) {
	cases := []struct{ a, b, c uint32 }{
		{0, 0, 0},
		{0xffffffff, 1, 0},
		{0xffffffff, 0, 1},
		{0x7fffffff, 1, 0},
		{0x80000000, 0x80000000, 0},
		{1234, 5678, 1},
	}
	for _, tc := range cases {
		result, carryOut, _ := AddWithCarry(tc.a, tc.b, tc.c)
		want := tc.a + tc.b + tc.c
		if result != want {
			t.Fatalf("AddWithCarry(%#x,%#x,%d).result = %#x, want %#x", tc.a, tc.b, tc.c, result, want)
		}
		wantCarry := uint64(tc.a)+uint64(tc.b)+uint64(tc.c) > 0xffffffff
		if carryOut != wantCarry {
			t.Fatalf("AddWithCarry(%#x,%#x,%d).carryOut = %v, want %v", tc.a, tc.b, tc.c, carryOut, wantCarry)
		}
	}
}

func TestAddWithCarryOverflow(t *testing.T) {
	// two large positives summing into the negative range: signed overflow.
	_, _, overflow := AddWithCarry(0x7fffffff, 0x7fffffff, 0)
	if !overflow {
		t.Fatalf("expected overflow adding two large positives")
	}
	_, _, overflow = AddWithCarry(1, 2, 0)
	if overflow {
		t.Fatalf("did not expect overflow adding small positives")
	}
}

func TestShiftCZeroAmountIsNoOp(t *testing.T) {
	for _, st := range []ShiftType{SRTypeLSL, SRTypeLSR, SRTypeASR, SRTypeROR} {
		for _, carryIn := range []bool{true, false} {
			v, c := ShiftC(0xdeadbeef, st, 0, carryIn)
			if v != 0xdeadbeef || c != carryIn {
				t.Fatalf("ShiftC(v, %v, 0, %v) = (%#x, %v), want (%#x, %v)", st, carryIn, v, c, uint32(0xdeadbeef), carryIn)
			}
		}
	}
}

func TestShiftCLSL(t *testing.T) {
	v, c := ShiftC(0x80000001, SRTypeLSL, 1, false)
	if v != 0x00000002 || !c {
		t.Fatalf("LSL #1 of 0x80000001 = (%#x, %v), want (0x2, true)", v, c)
	}
}

func TestShiftCRRX(t *testing.T) {
	v, c := ShiftC(0x00000002, SRTypeRRX, 1, true)
	if v != 0x80000001 || c {
		t.Fatalf("RRX of 0x2 with carry in = (%#x, %v), want (0x80000001, false)", v, c)
	}
}
