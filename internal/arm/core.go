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

// Package arm is a cycle-counting instruction-set simulator for the 32-bit
// ARM Thumb architecture (ARMv6-M/ARMv7-M/ARMv7E-M with optional
// single/double-precision floating point). It is grounded on the ARM
// emulation core embedded in the teacher's cartridge support (the package
// that gave the ARM7TDMI/Thumb-2 coprocessor on DPC+ and CDFJ cartridges
// its behavior), generalized from a single-cartridge-subroutine call model
// to a freestanding processor with exceptions, a memory-mapped peripheral
// set, and a GDB-facing debug surface.
package arm

import (
	"github.com/jetsetilly/thumbiss/internal/arm/fpu"
	"github.com/jetsetilly/thumbiss/logger"
)

// SemihostingHost is the single callback the processor invokes for every
// BKPT #0xAB trap (spec.md §4.8, §6.2). It is supplied by the CLI driver
// (out of scope for this package, per spec.md §1).
type SemihostingHost interface {
	Semihosting(cmd SemihostingCommand) SemihostingResponse
}

// Core owns every piece of architectural state: the register file, PSR,
// exception table, bus, PPB peripherals, exclusive monitor, instruction
// cache, and (when the FP extension is enabled) the software FPU. Step()
// is the sole entry point that advances simulated time, matching spec.md
// §5's single-threaded, cooperative scheduling model.
type Core struct {
	Regs       Registers
	Status     Status
	Bus        *Bus
	PPB        *PPBRegion
	Exceptions ExceptionTable
	Monitor    ExclusiveMonitor
	ICache     *ICache
	FPU        *fpu.FPU
	FPSCR      uint32

	// HasFPU selects whether VFP instructions decode to their FP ops or to
	// UDF, matching the "optional single-precision and double-precision
	// floating-point extensions" wording of spec.md §1.
	HasFPU bool

	// ARMv6M selects the reduced instruction set and the "all faults
	// escalate to HardFault" behavior of spec.md §7; false means
	// ARMv7-M/ARMv7E-M.
	ARMv6M bool

	Host SemihostingHost

	sleeping   bool
	CycleCount uint64

	// Halted is set once a semihosting SysException/SysExitExtended
	// response carries Stop=true (spec.md §4.8): "the signal to terminate
	// the simulation". Distinct from sleeping (WFI/WFE) because a debug
	// front-end needs to tell the two apart (spec.md §6.3's Continue keeps
	// stepping through sleep but must stop on Halted).
	Halted bool

	// instructionPC is the address of the instruction currently executing,
	// used by fault messages the way the teacher's arm.state.instructionPC
	// does.
	instructionPC uint32
}

// NewCore wires a Core around an already-constructed bus. The caller is
// responsible for attaching SRAM and any vendor device regions to bus
// before the first Step, and for calling ResetCore to establish the
// initial register state from the image's vector table (spec.md §6.1).
func NewCore(bus *Bus, ppb *PPBRegion, codeSize uint32) *Core {
	c := &Core{
		Bus:    bus,
		PPB:    ppb,
		ICache: NewICache(codeSize),
		FPU:    &fpu.FPU{},
	}
	bus.SetCodeWriteHook(func(addr uint32) {
		if offset, ok := bus.MapAddress(addr); ok {
			c.ICache.Invalidate(offset)
		}
	})
	return c
}

// Sleeping reports whether WFI/WFE has parked the core (spec.md §4.7: "if
// core.sleeping").
func (c *Core) Sleeping() bool { return c.sleeping }

func (c *Core) Sleep()  { c.sleeping = true }
func (c *Core) Wake()   { c.sleeping = false }

// StepResult is the executor's return shape (spec.md §4.3): exactly one of
// Taken, NotTaken, Branched, or a Fault.
type StepResult struct {
	kind   stepKind
	cycles uint32
	fault  Fault
}

type stepKind int

const (
	resultTaken stepKind = iota
	resultNotTaken
	resultBranched
	resultFault
)

func Taken(cycles uint32) StepResult    { return StepResult{kind: resultTaken, cycles: cycles} }
func NotTaken() StepResult              { return StepResult{kind: resultNotTaken, cycles: 1} }
func Branched(cycles uint32) StepResult { return StepResult{kind: resultBranched, cycles: cycles} }
func FaultResult(f Fault) StepResult    { return StepResult{kind: resultFault, fault: f} }

// Step performs one iteration of the processor loop exactly as spec.md
// §4.7 describes: fetch, decode (via the cache), execute, advance PC and
// cycle count, tick peripherals, check for a pending exception.
func (c *Core) Step() {
	if c.sleeping {
		c.PPB.Tick(1)
		c.CycleCount++
		c.checkPendingException()
		return
	}

	pc := c.Regs.PCReg()
	c.instructionPC = pc

	offset, ok := c.Bus.MapAddress(pc)
	if !ok {
		c.raiseFault(busFault("instruction fetch", pc))
		return
	}

	rec, size, ok := c.ICache.Lookup(offset)
	if !ok {
		rec, size = c.decodeAt(pc, offset)
	}

	if c.ICache.HasBreakpoint(offset) {
		c.sleeping = true
		return
	}

	result := c.execute(rec)

	var cycles uint32
	switch result.kind {
	case resultTaken:
		c.Regs.AdvancePC(size)
		cycles = result.cycles
	case resultNotTaken:
		c.Regs.AdvancePC(size)
		cycles = 1
	case resultBranched:
		cycles = result.cycles
	case resultFault:
		c.raiseFault(result.fault)
		return
	}

	// IT installs ITSTATE directly from its own operands (it is not itself
	// a predicated instruction and never advances its own state); every
	// other instruction rotates whatever IT-block state was already active,
	// per spec.md §3.3/§4.3.
	if rec.Op != OpIT {
		c.Status.ITAdvance()
	}

	c.CycleCount += uint64(cycles)
	c.PPB.Tick(cycles)
	c.checkPendingException()
}

// decodeAt fetches and decodes the instruction at pc, populating the
// instruction cache (spec.md §4.7: "populate on miss by fetching halfwords
// and invoking decoder").
func (c *Core) decodeAt(pc uint32, offset uint32) (Record, uint32) {
	hw, ok := c.Bus.FetchHalfword(pc)
	if !ok {
		return recordUDF(0, false), 2
	}

	if isThumb32(hw) {
		hw2, ok2 := c.Bus.FetchHalfword(pc + 2)
		if !ok2 {
			rec := recordUDF(uint32(hw), true)
			c.ICache.Populate(offset, rec, 4)
			return rec, 4
		}
		rec := DecodeThumb32(hw, hw2)
		c.ICache.Populate(offset, rec, 4)
		return rec, 4
	}

	rec := DecodeThumb16(hw)
	c.ICache.Populate(offset, rec, 2)
	return rec, 2
}

// checkPendingException implements the pending-exception check of spec.md
// §4.7: entering the highest-priority pending exception whose priority is
// numerically lower than the current execution priority.
func (c *Core) checkPendingException() {
	if c.PPB.SysTick.TakePending() {
		c.Exceptions.SetPending(ExcSysTick)
	}

	execPriority := c.Exceptions.GetExecutionPriority(&c.PPB.SCB, &c.PPB.NVIC, c.Regs.primask, c.Regs.faultmask, c.Regs.basepri)
	exc, ok := c.Exceptions.GetPendingException(execPriority, &c.PPB.SCB, &c.PPB.NVIC)
	if !ok {
		return
	}

	if c.sleeping {
		c.sleeping = false
	}

	if f := c.ExceptionEntry(exc, c.Regs.PCReg()); f.Kind != "" {
		logger.Logf(logger.Allow, "arm", "fault entering exception %d: %s", exc, f.Error())
	}
}

// raiseFault converts an executor Fault into the matching exception entry
// (spec.md §7, "Propagation"). On ARMv6-M every fault escalates to
// HardFault; on ARMv7-M it enters the specific fault exception unless that
// exception is itself the one currently executing (fault-within-fault,
// which escalates to HardFault per the real architecture's "fault
// escalation" rule).
func (c *Core) raiseFault(f Fault) {
	exc := c.faultException(f.Kind)
	if c.ARMv6M || c.Exceptions.IsActive(exc) {
		exc = ExcHardFault
	}
	c.Exceptions.SetPending(exc)
	logger.Logf(logger.Allow, "arm", "%s at PC %08x", f.Error(), c.instructionPC)
	c.checkPendingException()
}

func (c *Core) faultException(kind FaultKind) int {
	switch kind {
	case BusFault:
		return ExcBusFault
	case UsageFault:
		return ExcUsageFault
	case DebugMonitor:
		return ExcDebugMon
	default:
		return ExcHardFault
	}
}

func isThumb32(hw uint16) bool {
	top5 := hw >> 11
	return top5 == 0b11101 || top5 == 0b11110 || top5 == 0b11111
}
