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

// newScenarioCore builds a Core directly over a flat code image starting at
// address 0, with a small SRAM region at the conventional 0x20000000 base.
// Unlike newResetCore (exception_test.go), it does not call ResetCore: the
// zero-value Registers (PC 0, Thread mode) is exactly the starting state the
// §8 scenarios below assume, and none of them touch the vector table.
func newScenarioCore(t *testing.T, image []byte) *Core {
	t.Helper()
	code := NewCodeRegion(0, image)
	bus := NewBus(code)
	bus.Attach(NewSRAMRegion(0x20000000, 4096))
	ppb := NewPPBRegion()
	bus.Attach(ppb)
	return NewCore(bus, ppb, uint32(len(image)))
}

// TestS1MovAdd is spec.md §8 scenario S1: MOVS r0,#1 ; ADDS r0,r0,#1 leaves
// r0=2 with every arithmetic flag clear.
func TestS1MovAdd(t *testing.T) {
	image := []byte{
		0x01, 0x20, // MOVS r0,#1
		0x40, 0x1c, // ADDS r0,r0,#1
	}
	c := newScenarioCore(t, image)

	c.Step()
	if c.Regs.R(0) != 1 {
		t.Fatalf("after MOVS: r0 = %d, want 1", c.Regs.R(0))
	}

	c.Step()
	if c.Regs.R(0) != 2 {
		t.Fatalf("after ADDS: r0 = %d, want 2", c.Regs.R(0))
	}
	if c.Regs.PCReg() != 4 {
		t.Fatalf("PC = %#x, want 0x4", c.Regs.PCReg())
	}
	if nzcv := c.Status.NZCV(); nzcv != 0 {
		t.Fatalf("NZCV = %04b, want all clear", nzcv)
	}
}

// TestS2ConditionalBranch is spec.md §8 scenario S2: MOVS r0,#0 sets r0 to
// a value CMP r0,#0 finds equal, so BEQ is taken and the skipped MOVS
// r0,#1 never executes; r0 ends at 2, not 1.
func TestS2ConditionalBranch(t *testing.T) {
	image := []byte{
		0x00, 0x20, // 0: MOVS r0,#0
		0x00, 0x28, // 2: CMP r0,#0
		0x00, 0xd0, // 4: BEQ +0 (targets address 8)
		0x01, 0x20, // 6: MOVS r0,#1 (skipped)
		0x02, 0x20, // 8: MOVS r0,#2 (landed on)
	}
	c := newScenarioCore(t, image)

	c.Step() // MOVS r0,#0
	if c.Regs.R(0) != 0 {
		t.Fatalf("after MOVS #0: r0 = %d, want 0", c.Regs.R(0))
	}

	c.Step() // CMP r0,#0
	if !c.Status.zero {
		t.Fatalf("after CMP r0,#0 with r0=0: Z flag clear, want set")
	}

	c.Step() // BEQ, taken
	if c.Regs.PCReg() != 8 {
		t.Fatalf("after BEQ: PC = %#x, want 0x8 (branch taken over the skipped MOVS)", c.Regs.PCReg())
	}

	c.Step() // MOVS r0,#2
	if c.Regs.R(0) != 2 {
		t.Fatalf("final r0 = %d, want 2 (the skipped MOVS r0,#1 must not have run)", c.Regs.R(0))
	}
	if c.Regs.PCReg() != 10 {
		t.Fatalf("final PC = %#x, want 0xa", c.Regs.PCReg())
	}
}

// TestS3CallReturn is spec.md §8 scenario S3: BL pushes a return address
// into LR and branches to a callee that immediately returns with BX LR,
// landing exactly after the 4-byte BL instruction.
func TestS3CallReturn(t *testing.T) {
	image := []byte{
		0x00, 0xf0, 0x02, 0xf8, // 0: BL +4 (targets address 8)
		0x00, 0xbf, 0x00, 0xbf, // 4: unreached padding (NOP, NOP)
		0x70, 0x47, // 8: BX LR
	}
	c := newScenarioCore(t, image)

	c.Step() // BL
	if c.Regs.LR() != 5 {
		t.Fatalf("after BL: LR = %#x, want 0x5 (return address 4, Thumb bit set)", c.Regs.LR())
	}
	if c.Regs.PCReg() != 8 {
		t.Fatalf("after BL: PC = %#x, want 0x8", c.Regs.PCReg())
	}

	c.Step() // BX LR
	if c.Regs.PCReg() != 4 {
		t.Fatalf("after BX LR: PC = %#x, want 0x4 (the instruction right after BL)", c.Regs.PCReg())
	}
}

// TestS6ITBlockSkipped is spec.md §8 scenario S6 with r0==r5: CMP sets Z,
// so ITT NE predicates both following MOVS instructions on a false
// condition and neither one reaches r4.
func TestS6ITBlockSkipped(t *testing.T) {
	image := []byte{
		0xa8, 0x42, // 0: CMP r0,r5
		0x1c, 0xbf, // 2: ITT NE
		0x00, 0x24, // 4: MOVS r4,#0 (skipped)
		0x01, 0x24, // 6: MOVS r4,#1 (skipped)
	}
	c := newScenarioCore(t, image)
	c.Regs.SetR(0, 5)
	c.Regs.SetR(5, 5)
	c.Regs.SetR(4, 0xAAAAAAAA)

	for i := 0; i < 4; i++ {
		c.Step()
	}

	if c.Regs.R(4) != 0xAAAAAAAA {
		t.Fatalf("r4 = %#x, want untouched 0xaaaaaaaa (both IT slots should have been skipped)", c.Regs.R(4))
	}
	if c.Regs.PCReg() != 8 {
		t.Fatalf("PC = %#x, want 0x8", c.Regs.PCReg())
	}
	if c.Status.InITBlock() {
		t.Fatalf("IT block still active after its two slots executed")
	}
}

// TestS6ITBlockExecuted is the converse of TestS6ITBlockSkipped: r0!=r5
// makes NE true, so both predicated MOVS instructions execute in order and
// the second one's value wins.
func TestS6ITBlockExecuted(t *testing.T) {
	image := []byte{
		0xa8, 0x42, // 0: CMP r0,r5
		0x1c, 0xbf, // 2: ITT NE
		0x00, 0x24, // 4: MOVS r4,#0
		0x01, 0x24, // 6: MOVS r4,#1
	}
	c := newScenarioCore(t, image)
	c.Regs.SetR(0, 5)
	c.Regs.SetR(5, 6)

	for i := 0; i < 4; i++ {
		c.Step()
	}

	if c.Regs.R(4) != 1 {
		t.Fatalf("r4 = %d, want 1 (both IT slots should have executed)", c.Regs.R(4))
	}
}

// TestExecREV16 runs REV16 r0,r0 through Step and checks the reversed-
// halfword result end to end, pinning the fix to the double-shifted high
// halfword in execExtendMisc.
func TestExecREV16(t *testing.T) {
	image := []byte{
		0x40, 0xba, // 0: REV16 r0,r0
	}
	c := newScenarioCore(t, image)
	c.Regs.SetR(0, 0x12345678)

	c.Step()

	if c.Regs.R(0) != 0x34127856 {
		t.Fatalf("REV16(0x12345678) = %#08x, want 0x34127856", c.Regs.R(0))
	}
}

// TestExecREVSH runs REVSH r0,r0 through Step and checks the reversed,
// sign-extended halfword result, pinning the fix to the wrong sign-extend
// width in execExtendMisc.
func TestExecREVSH(t *testing.T) {
	image := []byte{
		0xc0, 0xba, // 0: REVSH r0,r0
	}
	c := newScenarioCore(t, image)
	c.Regs.SetR(0, 0x000000ff)

	c.Step()

	if c.Regs.R(0) != 0xffffff00 {
		t.Fatalf("REVSH(0x000000ff) = %#08x, want 0xffffff00", c.Regs.R(0))
	}
}

// TestExecSXTB runs SXTB r0,r1 through Step, confirming the previously-
// undispatched 0xb200 group now reaches the executor instead of faulting
// as UDF.
func TestExecSXTB(t *testing.T) {
	image := []byte{
		0x48, 0xb2, // 0: SXTB r0,r1
	}
	c := newScenarioCore(t, image)
	c.Regs.SetR(1, 0x000000ff) // low byte 0xff, sign bit set

	c.Step()

	if c.Regs.R(0) != 0xffffffff {
		t.Fatalf("SXTB(0xff) = %#08x, want 0xffffffff", c.Regs.R(0))
	}
}
