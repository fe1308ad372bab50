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

// DWT models the single register thumbiss's core needs bit-exact (spec.md
// §4.6, "DWT"): CYCCNT, a free-running 32-bit counter ticked by the same
// cycle count SysTick receives every step.
type DWT struct {
	CTRL   uint32
	CYCCNT uint32
}

const dwtCYCCNTENA = 1 << 0

func (d *DWT) Reset() {
	*d = DWT{}
}

func (d *DWT) Tick(count uint32) {
	if d.CTRL&dwtCYCCNTENA != 0 {
		d.CYCCNT += count
	}
}

func (d *DWT) InRange(addr uint32) bool {
	return addr >= 0xE0001000 && addr < 0xE0001010
}

func (d *DWT) Read32(addr uint32) (uint32, bool) {
	switch addr {
	case 0xE0001000:
		return d.CTRL, true
	case 0xE0001004:
		return d.CYCCNT, true
	}
	return 0, false
}

func (d *DWT) Write32(addr uint32, v uint32) bool {
	switch addr {
	case 0xE0001000:
		d.CTRL = v
	case 0xE0001004:
		d.CYCCNT = v
	default:
		return false
	}
	return true
}
