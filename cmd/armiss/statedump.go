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

package main

import (
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/thumbiss/internal/arm"
)

// dumpStateGraph renders the core's register file, exception table, and
// PPB state as a Graphviz .dot file via memviz, the same ad hoc in-memory
// graph visualiser the teacher pulls in for development-time debugging
// (SPEC_FULL.md §3). Post-mortem, a stuck or faulted core's full state
// graph is often faster to read than stepping a debugger back through the
// events that produced it.
func dumpStateGraph(path string, c *arm.Core) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump-state-graph: %w", err)
	}
	defer f.Close()

	snapshot := struct {
		Regs       arm.Registers
		Status     arm.Status
		Exceptions arm.ExceptionTable
		PPB        *arm.PPBRegion
		CycleCount uint64
	}{
		Regs:       c.Regs,
		Status:     c.Status,
		Exceptions: c.Exceptions,
		PPB:        c.PPB,
		CycleCount: c.CycleCount,
	}

	memviz.Map(f, &snapshot)
	return nil
}
