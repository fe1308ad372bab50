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

// Fixed exception numbers (spec.md §3.5, §6.1). Numbers 16 and up are
// external interrupts (IRQ0 = 16).
const (
	ExcReset      = 1
	ExcNMI        = 2
	ExcHardFault  = 3
	ExcMemManage  = 4
	ExcBusFault   = 5
	ExcUsageFault = 6
	ExcSVCall     = 11
	ExcDebugMon   = 12
	ExcPendSV     = 14
	ExcSysTick    = 15
	ExcIRQ0       = 16
)

// fixed negative priorities for the three exceptions the architecture
// never allows to be reconfigured (spec.md §3.5).
const (
	priorityReset     = -3
	priorityNMI       = -2
	priorityHardFault = -1
)

// excEntry is one slot of the exception table (spec.md §3.5).
type excEntry struct {
	pending bool
	active  bool
}

// ExceptionTable tracks pending/active state for every exception number;
// priority for the fixed exceptions 1-3 is hardwired, and priority for 4+
// is read from SCB.SHPR (system exceptions) or NVIC (external interrupts)
// on demand rather than duplicated here, so there is a single source of
// truth for configurable priority.
type ExceptionTable struct {
	entries [ExcIRQ0 + peripherals.NumExternalInterrupts]excEntry
}

func (t *ExceptionTable) Reset() {
	*t = ExceptionTable{}
}

func (t *ExceptionTable) SetPending(exc int)   { t.entries[exc].pending = true }
func (t *ExceptionTable) ClearPending(exc int) { t.entries[exc].pending = false }
func (t *ExceptionTable) IsPending(exc int) bool { return t.entries[exc].pending }
func (t *ExceptionTable) IsActive(exc int) bool  { return t.entries[exc].active }
func (t *ExceptionTable) SetActive(exc int, v bool) { t.entries[exc].active = v }

// ActiveCount implements the invariant of spec.md §3.5:
// "exception_active_bit_count equals the number of handlers on the
// exception stack".
func (t *ExceptionTable) ActiveCount() int {
	n := 0
	for _, e := range t.entries {
		if e.active {
			n++
		}
	}
	return n
}

// groupPriority applies AIRCR.PRIGROUP to zero out the sub-priority bits
// of a raw priority byte (spec.md §4.4, point 2). Fixed negative
// priorities bypass grouping entirely since they aren't byte-encoded.
func groupPriority(raw uint8, prigroup uint8) int {
	shift := prigroup
	if shift > 7 {
		shift = 7
	}
	mask := uint8(0xff << shift)
	return int(raw & mask)
}

// priorityOf returns the group-adjusted priority of exception exc, using
// the fixed negative priorities for Reset/NMI/HardFault and SCB/NVIC
// configured bytes otherwise.
func priorityOf(exc int, scb *peripherals.SCB, nvic *peripherals.NVIC) int {
	switch exc {
	case ExcReset:
		return priorityReset
	case ExcNMI:
		return priorityNMI
	case ExcHardFault:
		return priorityHardFault
	}
	prigroup := scb.PRIGROUP()
	if exc < ExcIRQ0 {
		return groupPriority(scb.SystemHandlerPriority(exc), prigroup)
	}
	return groupPriority(nvic.Priority(exc-ExcIRQ0), prigroup)
}

// GetExecutionPriority implements get_execution_priority() (spec.md §4.4):
// the minimum priority among active exceptions, clamped by BASEPRI,
// PRIMASK, and FAULTMASK.
func (t *ExceptionTable) GetExecutionPriority(scb *peripherals.SCB, nvic *peripherals.NVIC, primask bool, faultmask bool, basepri uint8) int {
	highest := 256 // "no exception active" sentinel, higher than any real priority
	for exc, e := range t.entries {
		if !e.active {
			continue
		}
		if p := priorityOf(exc, scb, nvic); p < highest {
			highest = p
		}
	}

	boosted := highest
	if basepri != 0 {
		bp := groupPriority(basepri, scb.PRIGROUP())
		if bp < boosted {
			boosted = bp
		}
	}
	if primask {
		if 0 < boosted {
			boosted = 0
		}
	}
	if faultmask {
		boosted = -1
	}

	if boosted < highest {
		return boosted
	}
	return highest
}

// GetPendingException implements get_pending_exception() (spec.md §4.4):
// among pending exceptions whose priority is strictly less than
// execPriority, return the one with smallest priority, ties broken by
// smaller exception number.
func (t *ExceptionTable) GetPendingException(execPriority int, scb *peripherals.SCB, nvic *peripherals.NVIC) (int, bool) {
	best := -1
	bestPriority := 257
	for exc, e := range t.entries {
		if !e.pending {
			continue
		}
		p := priorityOf(exc, scb, nvic)
		if p >= execPriority {
			continue
		}
		if p < bestPriority {
			best = exc
			bestPriority = p
		}
	}
	return best, best != -1
}

// EXC_RETURN token low-nibble values (spec.md §4.4).
const (
	excReturnHandler    = 0b0001
	excReturnThreadMSP  = 0b1001
	excReturnThreadPSP  = 0b1101
	excReturnTokenBase  = 0xFFFFFFF0
)

// isExcReturn reports whether v has the EXC_RETURN top byte 0xFF (spec.md
// §4.4); whether it is one of the three valid tokens is checked afterwards
// by ExceptionReturn. BX, POP{PC}, and LDR-to-PC
// all check this before treating their operand as an ordinary interworking
// branch target, per registers.go's LoadWritePC doc comment.
func isExcReturn(v uint32) bool {
	return v&0xFF000000 == 0xFF000000
}

// excReturnToken builds the LR value exception entry loads, selecting
// among the three valid tokens by the mode/stack the exception interrupted
// (spec.md §4.4, point 2).
func excReturnToken(returningMode Mode, returningSPSEL bool) uint32 {
	switch {
	case returningMode == Handler:
		return excReturnTokenBase | excReturnHandler
	case returningSPSEL:
		return excReturnTokenBase | excReturnThreadPSP
	default:
		return excReturnTokenBase | excReturnThreadMSP
	}
}

// exceptionFramePush writes the 8-word exception stack frame (spec.md
// §4.4, point 1): {R0, R1, R2, R3, R12, LR, return_addr, xPSR}. The stack
// pointer is first 8-byte-aligned, the adjustment recorded into xPSR bit 9
// so exceptionFramePop can undo it exactly.
func (c *Core) exceptionFramePush(returnAddr uint32) Fault {
	sp := c.Regs.SP()
	frameSize := uint32(32)
	aligned := sp
	alignBit := uint32(0)
	if sp&0x4 != 0 {
		aligned = sp - 4
		alignBit = 1
	}
	newSP := aligned - frameSize
	c.Regs.SetSP(newSP)

	it8 := uint32(c.Status.ITCondition())<<4 | uint32(c.Status.itStateMask())
	xpsr := c.Status.APSR() |
		(alignBit << 9) |
		(1 << 24) | // T bit always 1
		((it8 & 0x3) << 25) |
		((it8 >> 2 & 0x3f) << 10) |
		(c.Status.ISRNumber() & 0x1ff) // IPSR, bits 8:0

	words := [8]uint32{
		c.Regs.R(0), c.Regs.R(1), c.Regs.R(2), c.Regs.R(3),
		c.Regs.R(12), c.Regs.LR(), returnAddr,
		xpsr,
	}
	for i, w := range words {
		if f := c.Bus.Write32(newSP+uint32(i*4), w); f.Kind != "" {
			return f
		}
	}
	return Fault{}
}

// exceptionFramePop reverses exceptionFramePush as part of exception
// return, restoring R0-R3, R12, LR and the user-visible xPSR bits, and
// returning the popped return address for a BranchWritePC.
func (c *Core) exceptionFramePop() (returnAddr uint32, fault Fault) {
	sp := c.Regs.SP()
	var words [8]uint32
	for i := range words {
		v, f := c.Bus.Read32(sp + uint32(i*4))
		if f.Kind != "" {
			return 0, f
		}
		words[i] = v
	}
	c.Regs.SetR(0, words[0])
	c.Regs.SetR(1, words[1])
	c.Regs.SetR(2, words[2])
	c.Regs.SetR(3, words[3])
	c.Regs.SetR(12, words[4])
	c.Regs.SetLR(words[5])
	returnAddr = words[6]
	xpsr := words[7]

	c.Status.SetAPSR(xpsr)
	c.Status.SetISRNumber(xpsr & 0x1ff)
	it8 := uint8((xpsr>>10)&0x3f)<<2 | uint8((xpsr>>25)&0x3)
	c.Status.SetIT(it8>>4, it8&0xf)

	alignBit := (xpsr >> 9) & 0x1
	newSP := sp + 32
	if alignBit != 0 {
		newSP += 4
	}
	c.Regs.SetSP(newSP)
	return returnAddr, Fault{}
}

// ExceptionEntry implements exception_entry() (spec.md §4.4): pushes the
// stack frame, loads the EXC_RETURN token, clears SPSEL, enters Handler
// mode with IPSR set, marks the exception active, and branches to its
// vector. It also clears the exclusive monitor per spec.md §9's resolution
// of the nested-exception-entry open question.
func (c *Core) ExceptionEntry(exc int, returnAddr uint32) Fault {
	returningMode := c.Regs.mode
	returningSPSEL := c.Regs.spsel

	if f := c.exceptionFramePush(returnAddr); f.Kind != "" {
		return f
	}

	c.Regs.SetLR(excReturnToken(returningMode, returningSPSEL))
	c.Regs.spsel = false
	c.Regs.mode = Handler
	c.Status.SetISRNumber(uint32(exc))
	c.Exceptions.SetActive(exc, true)
	c.Exceptions.ClearPending(exc)
	c.ClearExclusiveMonitor()

	vector, f := c.Bus.Read32(c.PPB.SCB.VTOR + uint32(exc)*4)
	if f.Kind != "" {
		return f
	}
	c.Regs.BLXWritePC(vector)
	return Fault{}
}

// ExceptionReturn implements exception_return() (spec.md §4.4). Only valid
// from Handler mode; an invalid token or resulting inconsistent state
// raises UsageFault (spec.md §7) instead of silently corrupting state.
func (c *Core) ExceptionReturn(excReturn uint32) Fault {
	if c.Regs.mode != Handler {
		return usageFault("EXC_RETURN outside handler mode", excReturn)
	}

	returningExc := int(c.Status.ISRNumber())

	switch excReturn & 0xf {
	case excReturnHandler:
		c.Regs.mode = Handler
		c.Regs.spsel = false
	case excReturnThreadMSP:
		c.Regs.mode = Thread
		c.Regs.spsel = false
	case excReturnThreadPSP:
		c.Regs.mode = Thread
		c.Regs.spsel = true
	default:
		return usageFault("invalid EXC_RETURN", excReturn)
	}

	c.Exceptions.SetActive(returningExc, false)

	returnAddr, f := c.exceptionFramePop()
	if f.Kind != "" {
		return f
	}

	if (c.Regs.mode == Handler) != (c.Status.ISRNumber() != 0) {
		return usageFault("inconsistent mode/IPSR on exception return", excReturn)
	}

	c.Regs.BranchWritePC(returnAddr)
	return Fault{}
}

// ResetCore implements the Reset exception special case (spec.md §4.4,
// "Reset"): clears the register file, loads MSP from the vector table,
// and branches to the reset vector.
func (c *Core) ResetCore() Fault {
	c.Regs.Reset()
	c.Status.reset()
	c.Exceptions.Reset()
	c.PPB.Reset()
	c.ClearExclusiveMonitor()

	msp, f := c.Bus.Read32(0)
	if f.Kind != "" {
		return f
	}
	resetVector, f := c.Bus.Read32(4)
	if f.Kind != "" {
		return f
	}
	c.Regs.SetMSP(msp &^ 0x7)
	c.Regs.SetPSP(0)
	c.Regs.mode = Thread
	if !c.Regs.BXWritePC(resetVector) {
		return usageFault("reset vector not Thumb-interworking", resetVector)
	}
	return Fault{}
}
