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

// Package peripherals models the fixed set of Private Peripheral Bus
// devices thumbiss's core requires bit-exact behavior for: SysTick, DWT,
// NVIC, SCB, and ITM (spec.md §4.6). Each type follows the small-struct,
// address-switched read/write shape the teacher uses for its RNG and timer
// models (rng.go, peripherals.go in the teacher's ARM package): a set of
// named fields mirroring the real register layout, a reset() and a
// read(addr)/write(addr, val) pair switched on register offset, rather than
// a byte-array-backed register file.
package peripherals

// SysTick is the 0xE000E010..0xE000E01C register block: a 24-bit
// down-counter that reloads from RVR on underflow and optionally requests
// an exception (spec.md §4.6, "SysTick").
type SysTick struct {
	CSR  uint32 // control and status register
	RVR  uint32 // reload value register, 24 bits
	CVR  uint32 // current value register, 24 bits
	CALIB uint32 // calibration value register

	// pendingExc is latched true the cycle the counter underflows while
	// TICKINT is set; core.go's pending-exception check consumes and
	// clears it via TakePending.
	pendingExc bool
}

const (
	systickENABLE  = 1 << 0
	systickTICKINT = 1 << 1
	systickCLKSRC  = 1 << 2
	systickCOUNTFLAG = 1 << 16
)

func (s *SysTick) Reset() {
	*s = SysTick{}
}

// Tick decrements CVR by count cycles (spec.md: "the counter is decremented
// by the instruction cycle count"), reloading from RVR and setting
// COUNTFLAG on underflow, and latching a pending exception request if
// TICKINT is enabled.
func (s *SysTick) Tick(count uint32) {
	if s.CSR&systickENABLE == 0 {
		return
	}
	for count > 0 {
		if s.CVR == 0 {
			s.CVR = s.RVR & 0x00ffffff
			s.CSR |= systickCOUNTFLAG
			if s.CSR&systickTICKINT != 0 {
				s.pendingExc = true
			}
			if s.RVR == 0 {
				// reload of zero never counts down again; avoid spinning
				break
			}
		}
		step := count
		if step > s.CVR {
			step = s.CVR
		}
		if step == 0 {
			step = 1
		}
		s.CVR -= step
		count -= step
	}
}

// TakePending reports and clears a latched SysTick exception request.
func (s *SysTick) TakePending() bool {
	p := s.pendingExc
	s.pendingExc = false
	return p
}

func (s *SysTick) InRange(addr uint32) bool {
	return addr >= 0xE000E010 && addr <= 0xE000E01C
}

func (s *SysTick) Read32(addr uint32) (uint32, bool) {
	switch addr {
	case 0xE000E010:
		v := s.CSR
		s.CSR &^= systickCOUNTFLAG // COUNTFLAG clears on read
		return v, true
	case 0xE000E014:
		return s.RVR & 0x00ffffff, true
	case 0xE000E018:
		return s.CVR & 0x00ffffff, true
	case 0xE000E01C:
		return s.CALIB, true
	}
	return 0, false
}

func (s *SysTick) Write32(addr uint32, v uint32) bool {
	switch addr {
	case 0xE000E010:
		s.CSR = v & 0x00010007
	case 0xE000E014:
		s.RVR = v & 0x00ffffff
	case 0xE000E018:
		s.CVR = 0
		s.CSR &^= systickCOUNTFLAG
	case 0xE000E01C:
		// read-only in a real device; thumbiss accepts the write silently
		// so a guest calibration routine that blind-writes doesn't fault.
	default:
		return false
	}
	return true
}
