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

import "fmt"

// FaultKind classifies why the executor or bus gave up on an instruction,
// grounded on the Category type in the teacher's coprocessor/faults package
// but renamed and reduced to the four ARM exception classes spec.md §7
// names rather than the teacher's host-debugging categories (null
// dereference, stack collision, ...), since those are diagnostic labels for
// a coprocessor host and not exceptions the guest itself can observe.
type FaultKind string

const (
	// BusFault is an unmapped access, or a misaligned access where the
	// region does not permit one (spec.md §4.5).
	BusFault FaultKind = "bus fault"

	// UsageFault covers undefined instructions, trapping divide-by-zero,
	// an invalid EXC_RETURN value, and inconsistent mode/IPSR state
	// (spec.md §4.4, "exception return"; §7).
	UsageFault FaultKind = "usage fault"

	// HardFault is escalated from BusFault/UsageFault when the specific
	// fault handler is disabled or the fault nests (spec.md §7).
	HardFault FaultKind = "hard fault"

	// DebugMonitor is raised by BKPT with an immediate other than 0xAB,
	// i.e. a breakpoint that is not the semihosting trap (spec.md §4.8).
	DebugMonitor FaultKind = "debug monitor"
)

// Fault is the value an executor function returns when it cannot complete
// an instruction. Event names the specific condition ("undefined
// instruction", "unaligned STR", ...) the way the teacher's memoryFault
// helper names events for its fault log, and Addr carries the faulting
// address or opcode when relevant.
type Fault struct {
	Kind  FaultKind
	Event string
	Addr  uint32
}

func (f Fault) Error() string {
	return fmt.Sprintf("%s: %s (%08x)", f.Kind, f.Event, f.Addr)
}

func busFault(event string, addr uint32) Fault {
	return Fault{Kind: BusFault, Event: event, Addr: addr}
}

func usageFault(event string, addr uint32) Fault {
	return Fault{Kind: UsageFault, Event: event, Addr: addr}
}

func hardFault(event string, addr uint32) Fault {
	return Fault{Kind: HardFault, Event: event, Addr: addr}
}
