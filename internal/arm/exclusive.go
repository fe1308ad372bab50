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

// ExclusiveMonitor is the single-holder LDREX/STREX state (spec.md §4.3,
// "Exclusive access access"; §5, "Shared resources"). Because execution is
// single-threaded the monitor never has a genuine competing holder, so
// armed tracks only whether the address set by the most recent LDREX-family
// instruction is still "exclusively open" for a matching STREX.
type ExclusiveMonitor struct {
	armed bool
	addr  uint32
	width uint8
}

// Set arms the monitor for a LDREX/LDREXB/LDREXH at addr with the given
// access width in bytes.
func (m *ExclusiveMonitor) Set(addr uint32, width uint8) {
	m.armed = true
	m.addr = addr
	m.width = width
}

// Check reports whether a STREX-family instruction at addr/width should
// succeed: the monitor must still be armed for exactly this address and
// width (spec.md §4.3: "STREX returns 0 and commits only if the monitor is
// still armed for the same (aligned) address").
func (m *ExclusiveMonitor) Check(addr uint32, width uint8) bool {
	return m.armed && m.addr == addr && m.width == width
}

// Clear disarms the monitor. Called by CLREX and by any exception entry
// (spec.md §9's resolution of the nested-exception-entry open question:
// "this specification mandates clearing on any exception entry and on
// CLREX").
func (m *ExclusiveMonitor) Clear() {
	m.armed = false
}

// ClearExclusiveMonitor is the Core-level entry point exception.go calls on
// every ExceptionEntry.
func (c *Core) ClearExclusiveMonitor() {
	c.Monitor.Clear()
}
