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

func TestExclusiveMonitorSetCheck(t *testing.T) {
	var m ExclusiveMonitor

	if m.Check(0x20000000, 4) {
		t.Fatalf("unarmed monitor reported a matching STREX as valid")
	}

	m.Set(0x20000000, 4)
	if !m.Check(0x20000000, 4) {
		t.Fatalf("armed monitor rejected a STREX at the same address/width")
	}
	if m.Check(0x20000004, 4) {
		t.Fatalf("armed monitor accepted a STREX at a different address")
	}
	if m.Check(0x20000000, 2) {
		t.Fatalf("armed monitor accepted a STREX at a different width")
	}
}

func TestExclusiveMonitorClear(t *testing.T) {
	var m ExclusiveMonitor
	m.Set(0x20000000, 4)
	m.Clear()
	if m.Check(0x20000000, 4) {
		t.Fatalf("cleared monitor still reports a matching STREX as valid")
	}
}

// TestExceptionEntryClearsExclusiveMonitor is spec.md §9's resolution of
// the nested-exception-entry open question: any exception entry disarms
// the monitor, matching CLREX.
func TestExceptionEntryClearsExclusiveMonitor(t *testing.T) {
	c := newResetCore(t, s4Image())
	c.Monitor.Set(0x20000000, 4)

	c.PPB.SysTick.RVR = 1000000
	c.PPB.SysTick.CSR = 0b011 // ENABLE | TICKINT

	steps := 0
	for c.Regs.mode != Handler && steps < 4 {
		c.Step()
		steps++
	}
	if c.Regs.mode != Handler {
		t.Fatalf("SysTick exception never entered Handler mode within %d steps", steps)
	}
	if c.Monitor.Check(0x20000000, 4) {
		t.Fatalf("exclusive monitor still armed after exception entry")
	}
}
