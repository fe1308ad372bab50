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

package peripherals

import "testing"

func TestSysTickUnderflowReloadsAndPends(t *testing.T) {
	var s SysTick
	s.Reset()
	s.RVR = 10
	s.CVR = 0
	s.CSR = systickENABLE | systickTICKINT

	s.Tick(3)
	if s.CVR != 10-3 {
		t.Fatalf("CVR = %d, want %d", s.CVR, 10-3)
	}
	if s.TakePending() {
		t.Fatalf("pending exception latched before underflow")
	}

	s.Tick(7) // exactly reaches zero, reload fires
	if s.CVR != 10 {
		t.Fatalf("CVR after underflow = %d, want reloaded %d", s.CVR, 10)
	}
	if s.CSR&systickCOUNTFLAG == 0 {
		t.Fatalf("COUNTFLAG not set after underflow")
	}
	if !s.TakePending() {
		t.Fatalf("pending exception not latched after underflow with TICKINT set")
	}
	if s.TakePending() {
		t.Fatalf("TakePending did not clear the latch")
	}
}

func TestSysTickDisabledDoesNotTick(t *testing.T) {
	var s SysTick
	s.Reset()
	s.RVR = 10
	s.CVR = 5
	// CSR left at zero: ENABLE clear.
	s.Tick(100)
	if s.CVR != 5 {
		t.Fatalf("CVR = %d, want unchanged 5 (disabled SysTick must not count)", s.CVR)
	}
}

func TestSysTickCOUNTFLAGClearsOnRead(t *testing.T) {
	var s SysTick
	s.Reset()
	s.RVR = 1
	s.CVR = 0
	s.CSR = systickENABLE
	s.Tick(1)
	if s.CSR&systickCOUNTFLAG == 0 {
		t.Fatalf("COUNTFLAG not set after underflow")
	}
	v, ok := s.Read32(0xE000E010)
	if !ok {
		t.Fatalf("Read32(CSR) not recognized")
	}
	if v&systickCOUNTFLAG == 0 {
		t.Fatalf("returned CSR value missing COUNTFLAG on the read that clears it")
	}
	if s.CSR&systickCOUNTFLAG != 0 {
		t.Fatalf("COUNTFLAG still set in stored CSR after read")
	}
}

func TestDWTCYCCNTGatedByEnable(t *testing.T) {
	var d DWT
	d.Reset()
	d.Tick(100)
	if d.CYCCNT != 0 {
		t.Fatalf("CYCCNT = %d, want 0 (CYCCNTENA clear)", d.CYCCNT)
	}

	d.CTRL = dwtCYCCNTENA
	d.Tick(42)
	if d.CYCCNT != 42 {
		t.Fatalf("CYCCNT = %d, want 42", d.CYCCNT)
	}
}

func TestNVICPendingActiveRoundTrip(t *testing.T) {
	var n NVIC
	n.Reset()

	if n.IsPending(5) || n.IsEnabled(5) {
		t.Fatalf("freshly reset NVIC reports irq 5 enabled/pending")
	}

	n.SetPending(5)
	if !n.IsPending(5) {
		t.Fatalf("SetPending(5) did not take effect")
	}
	n.ClearPending(5)
	if n.IsPending(5) {
		t.Fatalf("ClearPending(5) did not take effect")
	}

	n.SetActive(3, true)
	if !n.IsActive(3) {
		t.Fatalf("SetActive(3, true) did not take effect")
	}
}

func TestSCBResetIdentity(t *testing.T) {
	var s SCB
	s.Reset()
	if s.CPUID == 0 {
		t.Fatalf("CPUID left zero after Reset")
	}
	if s.AIRCR&0xFFFF0000 != aircrVECTKEY {
		t.Fatalf("AIRCR = %#x, want VECTKEY %#x in the top halfword", s.AIRCR, aircrVECTKEY)
	}
}

func TestSCBPRIGROUP(t *testing.T) {
	var s SCB
	s.Reset()
	s.AIRCR = aircrVECTKEY | (5 << 8)
	if got := s.PRIGROUP(); got != 5 {
		t.Fatalf("PRIGROUP() = %d, want 5", got)
	}
}
