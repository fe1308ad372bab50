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
	"expvar"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/jetsetilly/thumbiss/internal/arm"
)

// startDashboard wires the teacher's "attach a browser to a running Go
// process" pattern (SPEC_FULL.md §3: the teacher uses statsview for a live
// frame-rate dashboard) to this simulator's own cycle/exception counters
// instead of frame timing. statsview serves Go runtime stats out of the box
// (goroutines, heap, GC pauses); the ISS-specific series are published
// through the same expvar mechanism statsview already polls, so they show
// up on the same dashboard without needing a custom chart registration
// path.
func startDashboard(addr string, c *arm.Core) func() {
	cycles := expvar.NewInt("thumbiss_cycles")
	exceptions := expvar.NewInt("thumbiss_exceptions_entered")
	lastCycles := c.CycleCount

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cur := c.CycleCount
				cycles.Set(int64(cur - lastCycles))
				lastCycles = cur
				exceptions.Set(int64(c.Exceptions.ActiveCount()))
			case <-stop:
				return
			}
		}
	}()

	mgr := statsview.New(viewer.WithAddr(addr))
	go mgr.Start()

	return func() { close(stop) }
}
