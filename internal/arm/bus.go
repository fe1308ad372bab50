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

import (
	"encoding/binary"

	"github.com/jetsetilly/thumbiss/logger"
)

// Region is one addressable span of the bus: code ROM, SRAM, the PPB, or a
// pluggable device model (spec.md §3.7, §4.5). Grounded on the teacher's
// read8bit/read16bit/read32bit dispatch chain in memory_access.go, which
// walks a fixed sequence of optional peripherals (MAM, RNG, two timers)
// after a primary MapAddress lookup fails; Region generalizes that ad hoc
// chain into a single interface so the bus can hold an arbitrary ordered
// list of regions instead of one hardcoded fallback chain per cartridge
// type.
type Region interface {
	// Label identifies the region for diagnostics and for the debug
	// interface's memory map query.
	Label() string

	// InRange reports whether addr falls inside this region.
	InRange(addr uint32) bool

	Read8(addr uint32) (uint8, bool)
	Read16(addr uint32) (uint16, bool)
	Read32(addr uint32) (uint32, bool)
	Write8(addr uint32, v uint8) bool
	Write16(addr uint32, v uint16) bool
	Write32(addr uint32, v uint32) bool
}

// Bus dispatches reads and writes to an ordered list of Regions, exactly as
// spec.md §4.5 describes: "each region is a handler ... the dispatcher
// walks a small ordered list and delegates". Unmapped addresses fault.
type Bus struct {
	regions []Region

	// code is the region instructions are fetched from; kept separately so
	// MapAddress (used by the instruction cache) doesn't have to walk the
	// full region list on every fetch.
	code *CodeRegion

	order binary.ByteOrder
}

// NewBus constructs a bus over a code region plus whatever additional
// regions (SRAM, PPB, device models) the caller attaches with Attach.
// thumbiss is little-endian only (spec.md §6.1, "raw little-endian
// binary"), matching the teacher's byteOrder field in arm.go which the same
// cartridge family always sets to binary.LittleEndian.
func NewBus(code *CodeRegion) *Bus {
	return &Bus{
		regions: []Region{code},
		code:    code,
		order:   binary.LittleEndian,
	}
}

// Attach adds a region to the dispatch list. Later-attached regions are
// searched after earlier ones; callers should attach SRAM before the PPB
// before any pluggable device so that fixed architectural regions always
// take priority over vendor-supplied overlaps.
func (b *Bus) Attach(r Region) {
	b.regions = append(b.regions, r)
}

// SetCodeWriteHook installs the callback CodeRegion.onWrite invokes after a
// successful write to code memory, letting Core invalidate the matching
// instruction-cache entry (spec.md §3.8: "Population is lazy at first
// fetch; contents are invalidated on explicit code-memory write"). Wired up
// once by NewCore.
func (b *Bus) SetCodeWriteHook(f func(addr uint32)) {
	b.code.onWrite = f
}

// MapAddress returns the physical byte offset of addr into the code region,
// used by the instruction cache (spec.md §3.8) to index decoded records by
// PC>>1. ok is false if addr does not fall inside the code region at all,
// which core.go treats as a BusFault on instruction fetch.
func (b *Bus) MapAddress(addr uint32) (offset uint32, ok bool) {
	if !b.code.InRange(addr) {
		return 0, false
	}
	return addr - b.code.base, true
}

func (b *Bus) find(addr uint32) Region {
	for _, r := range b.regions {
		if r.InRange(addr) {
			return r
		}
	}
	return nil
}

func (b *Bus) Read8(addr uint32) (uint8, Fault) {
	if r := b.find(addr); r != nil {
		if v, ok := r.Read8(addr); ok {
			return v, Fault{}
		}
	}
	logger.Logf(logger.Allow, "bus", "unmapped 8-bit read at %08x", addr)
	return 0, busFault("read8", addr)
}

func (b *Bus) Read16(addr uint32) (uint16, Fault) {
	if addr&0x1 != 0 {
		logger.Logf(logger.Allow, "bus", "misaligned 16-bit read at %08x", addr)
	}
	if r := b.find(addr); r != nil {
		if v, ok := r.Read16(addr); ok {
			return v, Fault{}
		}
	}
	return 0, busFault("read16", addr)
}

func (b *Bus) Read32(addr uint32) (uint32, Fault) {
	if addr&0x3 != 0 {
		logger.Logf(logger.Allow, "bus", "misaligned 32-bit read at %08x", addr)
	}
	if r := b.find(addr); r != nil {
		if v, ok := r.Read32(addr); ok {
			return v, Fault{}
		}
	}
	return 0, busFault("read32", addr)
}

func (b *Bus) Write8(addr uint32, v uint8) Fault {
	if r := b.find(addr); r != nil {
		if r.Write8(addr, v) {
			return Fault{}
		}
	}
	logger.Logf(logger.Allow, "bus", "unmapped 8-bit write at %08x", addr)
	return busFault("write8", addr)
}

func (b *Bus) Write16(addr uint32, v uint16) Fault {
	if addr&0x1 != 0 {
		logger.Logf(logger.Allow, "bus", "misaligned 16-bit write at %08x", addr)
	}
	if r := b.find(addr); r != nil {
		if r.Write16(addr, v) {
			return Fault{}
		}
	}
	return busFault("write16", addr)
}

func (b *Bus) Write32(addr uint32, v uint32) Fault {
	if addr&0x3 != 0 {
		logger.Logf(logger.Allow, "bus", "misaligned 32-bit write at %08x", addr)
	}
	if r := b.find(addr); r != nil {
		if r.Write32(addr, v) {
			return Fault{}
		}
	}
	return busFault("write32", addr)
}

// FetchHalfword reads one halfword from the code region for the decoder,
// bypassing the region-list walk that Read16 performs since instruction
// fetch is always from code memory.
func (b *Bus) FetchHalfword(addr uint32) (uint16, bool) {
	return b.code.Read16(addr)
}

// CodeRegion is the executable image loaded at construction (spec.md §6.1):
// a flat byte slice based at a configurable address, read-only from the
// guest's perspective except through the explicit invalidation hook self-
// modifying code would need (spec.md §3.8 - out of scope, but the hook must
// exist, so Write8/16/32 below succeed and invalidate the instruction
// cache's corresponding entries via the owning Core).
type CodeRegion struct {
	base uint32
	mem  []byte

	// onWrite is invoked after any successful write so Core can invalidate
	// the instruction cache at that address; nil until NewCore wires it up
	// via SetCodeWriteHook.
	onWrite func(addr uint32)
}

func NewCodeRegion(base uint32, image []byte) *CodeRegion {
	return &CodeRegion{base: base, mem: image}
}

func (c *CodeRegion) Label() string { return "code" }

func (c *CodeRegion) InRange(addr uint32) bool {
	return addr >= c.base && addr < c.base+uint32(len(c.mem))
}

func (c *CodeRegion) Read8(addr uint32) (uint8, bool) {
	if !c.InRange(addr) {
		return 0, false
	}
	return c.mem[addr-c.base], true
}

func (c *CodeRegion) Read16(addr uint32) (uint16, bool) {
	if !c.InRange(addr) || addr-c.base+1 >= uint32(len(c.mem)) {
		return 0, false
	}
	i := addr - c.base
	return binary.LittleEndian.Uint16(c.mem[i:]), true
}

func (c *CodeRegion) Read32(addr uint32) (uint32, bool) {
	if !c.InRange(addr) || addr-c.base+3 >= uint32(len(c.mem)) {
		return 0, false
	}
	i := addr - c.base
	return binary.LittleEndian.Uint32(c.mem[i:]), true
}

func (c *CodeRegion) Write8(addr uint32, v uint8) bool {
	if !c.InRange(addr) {
		return false
	}
	c.mem[addr-c.base] = v
	if c.onWrite != nil {
		c.onWrite(addr)
	}
	return true
}

func (c *CodeRegion) Write16(addr uint32, v uint16) bool {
	if !c.InRange(addr) || addr-c.base+1 >= uint32(len(c.mem)) {
		return false
	}
	binary.LittleEndian.PutUint16(c.mem[addr-c.base:], v)
	if c.onWrite != nil {
		c.onWrite(addr)
	}
	return true
}

func (c *CodeRegion) Write32(addr uint32, v uint32) bool {
	if !c.InRange(addr) || addr-c.base+3 >= uint32(len(c.mem)) {
		return false
	}
	binary.LittleEndian.PutUint32(c.mem[addr-c.base:], v)
	if c.onWrite != nil {
		c.onWrite(addr)
	}
	return true
}

// SRAMRegion is a flat, fully read-write RAM span (spec.md §3.7).
type SRAMRegion struct {
	base uint32
	mem  []byte
}

func NewSRAMRegion(base uint32, size uint32) *SRAMRegion {
	return &SRAMRegion{base: base, mem: make([]byte, size)}
}

func (s *SRAMRegion) Label() string { return "sram" }

func (s *SRAMRegion) InRange(addr uint32) bool {
	return addr >= s.base && addr < s.base+uint32(len(s.mem))
}

func (s *SRAMRegion) Read8(addr uint32) (uint8, bool) {
	if !s.InRange(addr) {
		return 0, false
	}
	return s.mem[addr-s.base], true
}

func (s *SRAMRegion) Read16(addr uint32) (uint16, bool) {
	if !s.InRange(addr) || addr-s.base+1 >= uint32(len(s.mem)) {
		return 0, false
	}
	i := addr - s.base
	return binary.LittleEndian.Uint16(s.mem[i:]), true
}

func (s *SRAMRegion) Read32(addr uint32) (uint32, bool) {
	if !s.InRange(addr) || addr-s.base+3 >= uint32(len(s.mem)) {
		return 0, false
	}
	i := addr - s.base
	return binary.LittleEndian.Uint32(s.mem[i:]), true
}

func (s *SRAMRegion) Write8(addr uint32, v uint8) bool {
	if !s.InRange(addr) {
		return false
	}
	s.mem[addr-s.base] = v
	return true
}

func (s *SRAMRegion) Write16(addr uint32, v uint16) bool {
	if !s.InRange(addr) || addr-s.base+1 >= uint32(len(s.mem)) {
		return false
	}
	binary.LittleEndian.PutUint16(s.mem[addr-s.base:], v)
	return true
}

func (s *SRAMRegion) Write32(addr uint32, v uint32) bool {
	if !s.InRange(addr) || addr-s.base+3 >= uint32(len(s.mem)) {
		return false
	}
	binary.LittleEndian.PutUint32(s.mem[addr-s.base:], v)
	return true
}
