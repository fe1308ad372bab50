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

import "github.com/jetsetilly/thumbiss/internal/arm/peripherals"

// PPBRegion is the Private Peripheral Bus, 0xE000_0000..0xE00F_FFFF
// (spec.md §3.7), implemented as a Region that fans out to the fixed
// peripheral set of spec.md §4.6. Per spec.md §3.7: "Access width rules:
// PPB permits 32-bit only for most registers and rejects byte/halfword
// reads with a bus fault, except ITM stimulus ports (byte/halfword/word
// writes)."
type PPBRegion struct {
	SysTick peripherals.SysTick
	DWT     peripherals.DWT
	NVIC    peripherals.NVIC
	SCB     peripherals.SCB
	ITM     peripherals.ITM
}

func NewPPBRegion() *PPBRegion {
	p := &PPBRegion{}
	p.Reset()
	return p
}

func (p *PPBRegion) Reset() {
	p.SysTick.Reset()
	p.DWT.Reset()
	p.NVIC.Reset()
	p.SCB.Reset()
	p.ITM.Reset()
}

func (p *PPBRegion) Label() string { return "ppb" }

func (p *PPBRegion) InRange(addr uint32) bool {
	return addr >= 0xE0000000 && addr <= 0xE00FFFFF
}

// Tick advances SysTick and DWT by count cycles, called once per
// processor step (spec.md §4.7).
func (p *PPBRegion) Tick(count uint32) {
	p.SysTick.Tick(count)
	p.DWT.Tick(count)
}

func (p *PPBRegion) Read8(addr uint32) (uint8, bool) {
	if p.ITM.InRange(addr) {
		if v, ok := p.ITM.Read32(addr); ok {
			return uint8(v), true
		}
	}
	return 0, false
}

func (p *PPBRegion) Read16(addr uint32) (uint16, bool) {
	if p.ITM.InRange(addr) {
		if v, ok := p.ITM.Read32(addr); ok {
			return uint16(v), true
		}
	}
	return 0, false
}

func (p *PPBRegion) Read32(addr uint32) (uint32, bool) {
	switch {
	case p.SysTick.InRange(addr):
		return p.SysTick.Read32(addr)
	case p.DWT.InRange(addr):
		return p.DWT.Read32(addr)
	case p.NVIC.InRange(addr):
		return p.NVIC.Read32(addr)
	case p.SCB.InRange(addr):
		return p.SCB.Read32(addr)
	case p.ITM.InRange(addr):
		return p.ITM.Read32(addr)
	}
	return 0, false
}

func (p *PPBRegion) Write8(addr uint32, v uint8) bool {
	if p.ITM.InRange(addr) {
		return p.ITM.Write8(addr, v)
	}
	return false
}

func (p *PPBRegion) Write16(addr uint32, v uint16) bool {
	if p.ITM.InRange(addr) {
		return p.ITM.Write16(addr, v)
	}
	return false
}

func (p *PPBRegion) Write32(addr uint32, v uint32) bool {
	switch {
	case p.SysTick.InRange(addr):
		return p.SysTick.Write32(addr, v)
	case p.DWT.InRange(addr):
		return p.DWT.Write32(addr, v)
	case p.NVIC.InRange(addr):
		return p.NVIC.Write32(addr, v)
	case p.SCB.InRange(addr):
		return p.SCB.Write32(addr, v)
	case p.ITM.InRange(addr):
		return p.ITM.Write32(addr, v)
	}
	return false
}
