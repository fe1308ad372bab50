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

// debug.go is the core-side half of the boundary spec.md §6.3 describes: a
// GDB remote serial protocol server is explicitly out of scope (spec.md
// §1), but the API such a server would drive against — register read/
// write, memory read/write, breakpoint set/clear, single-step/continue/
// interrupt, and watchpoints — belongs to the core and is implemented here.
// There is no teacher analogue (DPC+/CDFJ cartridges are never attached to
// a live debugger); this is built directly from spec.md §6.3's list and
// exercises existing Core/Registers/Bus/ICache machinery rather than adding
// any new architectural state.

// RegisterName is one of the names the debug interface can read or write.
type RegisterName int

const (
	RegR0 RegisterName = iota
	RegR1
	RegR2
	RegR3
	RegR4
	RegR5
	RegR6
	RegR7
	RegR8
	RegR9
	RegR10
	RegR11
	RegR12
	RegSP
	RegLR
	RegPC
	RegXPSR
	RegMSP
	RegPSP
	RegPRIMASK
	RegCONTROL
)

// ReadRegister implements spec.md §6.3's "read/write general registers (R0
// ..R15 + xPSR + MSP/PSP/PRIMASK/CONTROL ...)".
func (c *Core) ReadRegister(name RegisterName) uint32 {
	switch {
	case name >= RegR0 && name <= RegR12:
		return c.Regs.R(int(name - RegR0))
	}
	switch name {
	case RegSP:
		return c.Regs.SP()
	case RegLR:
		return c.Regs.LR()
	case RegPC:
		return c.Regs.PCReg()
	case RegXPSR:
		return c.Status.APSR() | c.Status.ISRNumber()
	case RegMSP:
		return c.Regs.MSP()
	case RegPSP:
		return c.Regs.PSP()
	case RegPRIMASK:
		return boolToUint32(c.Regs.primask)
	case RegCONTROL:
		return boolToUint32(c.Regs.nPriv) | (boolToUint32(c.Regs.spsel) << 1)
	}
	return 0
}

// WriteRegister is the write half of ReadRegister.
func (c *Core) WriteRegister(name RegisterName, v uint32) {
	switch {
	case name >= RegR0 && name <= RegR12:
		c.Regs.SetR(int(name-RegR0), v)
		return
	}
	switch name {
	case RegSP:
		c.Regs.SetSP(v)
	case RegLR:
		c.Regs.SetLR(v)
	case RegPC:
		c.Regs.SetPCReg(v &^ 1)
	case RegXPSR:
		c.Status.SetAPSR(v)
		c.Status.SetISRNumber(v & 0x1ff)
	case RegMSP:
		c.Regs.SetMSP(v)
	case RegPSP:
		c.Regs.SetPSP(v)
	case RegPRIMASK:
		c.Regs.primask = v&1 != 0
	case RegCONTROL:
		c.Regs.nPriv = v&1 != 0
		c.Regs.spsel = v&2 != 0
	}
}

// ReadFPRegister/WriteFPRegister address the 32 single-precision FP
// registers (spec.md §6.3, "optional FP regs"); n is 0..31 for S0..S31.
// Double-precision Dn is the pair (S2n, S2n+1), left to the caller to
// combine since the debug interface's wire format is register-width, not
// precision-aware.
func (c *Core) ReadFPRegister(n int) uint32 {
	if c.FPU == nil || n < 0 || n >= len(c.FPU.Registers) {
		return 0
	}
	return c.FPU.Registers[n]
}

func (c *Core) WriteFPRegister(n int, v uint32) {
	if c.FPU == nil || n < 0 || n >= len(c.FPU.Registers) {
		return
	}
	c.FPU.Registers[n] = v
}

// ReadMemory/WriteMemory implement spec.md §6.3's "read/write memory byte
// range" over the bus, bypassing any fault-raising side effects an
// instruction fetch/load/store would have: a debugger probing an unmapped
// byte gets ok=false, not a guest-visible BusFault.
func (c *Core) ReadMemory(addr uint32, length uint32) ([]byte, bool) {
	buf := make([]byte, 0, length)
	for i := uint32(0); i < length; i++ {
		v, fault := c.Bus.Read8(addr + i)
		if fault.Kind != "" {
			return buf, false
		}
		buf = append(buf, v)
	}
	return buf, true
}

func (c *Core) WriteMemory(addr uint32, data []byte) bool {
	for i, b := range data {
		if fault := c.Bus.Write8(addr+uint32(i), b); fault.Kind != "" {
			return false
		}
	}
	return true
}

// SetBreakpoint/ClearBreakpoint implement spec.md §6.3's "set/clear software
// breakpoint at address (implemented by flagging an instruction-cache
// entry)". ok is false when addr does not fall inside the code region at
// all (the instruction cache has no slot to flag).
func (c *Core) SetBreakpoint(addr uint32) bool {
	offset, ok := c.Bus.MapAddress(addr)
	if !ok {
		return false
	}
	c.ICache.SetBreakpoint(offset)
	return true
}

func (c *Core) ClearBreakpoint(addr uint32) bool {
	offset, ok := c.Bus.MapAddress(addr)
	if !ok {
		return false
	}
	c.ICache.ClearBreakpoint(offset)
	return true
}

// WatchKind selects what access a Watchpoint fires on (spec.md §6.3,
// "watchpoints on address ranges (read/write/access) — optional").
type WatchKind int

const (
	WatchRead WatchKind = iota
	WatchWrite
	WatchAccess // either read or write
)

// Watchpoint is one registered address range and the access kind that
// should stop execution. There is no hardware DWT comparator model behind
// this (spec.md's DWT component only implements CYCCNT); watchpoints are
// evaluated in software by the debug driver via Bus instrumentation, which
// is why this type only describes the range and kind rather than wiring
// into the bus dispatch itself.
type Watchpoint struct {
	Low, High uint32
	Kind      WatchKind
}

// Matches reports whether an access of the given kind to addr falls inside
// the watchpoint's range.
func (w Watchpoint) Matches(addr uint32, isWrite bool) bool {
	if addr < w.Low || addr > w.High {
		return false
	}
	switch w.Kind {
	case WatchRead:
		return !isWrite
	case WatchWrite:
		return isWrite
	default:
		return true
	}
}

// StopReason is what Continue returns when it stops, mirroring the GDB stop
// reasons spec.md §6.3/§7 names (SIGTRAP for breakpoint, SIGINT for
// interrupt, SIGSEGV/SIGILL for faults surfaced rather than silently
// handled).
type StopReason int

const (
	StopBreakpoint StopReason = iota
	StopInterrupt
	StopStep
	StopFault
	StopSemihostingExit
)

// Continue single-steps the core until a breakpoint is hit, interrupt() (the
// caller-supplied poll function, which a GDB front-end wires to "poll for
// incoming debugger bytes") returns true, a semihosting response halts the
// core, or maxSteps is exhausted (0 means unbounded). This is the "server's event loop selects between poll for
// incoming debugger bytes and take one simulator step" scheduler spec.md §5
// describes, with the polling itself left to the caller.
func (c *Core) Continue(interrupt func() bool, maxSteps uint64) StopReason {
	var steps uint64
	for {
		if interrupt != nil && interrupt() {
			return StopInterrupt
		}

		offset, ok := c.Bus.MapAddress(c.Regs.PCReg())
		if ok && c.ICache.HasBreakpoint(offset) {
			return StopBreakpoint
		}

		c.Step()
		steps++

		if c.Halted {
			return StopSemihostingExit
		}
		if maxSteps != 0 && steps >= maxSteps {
			return StopStep
		}
	}
}
