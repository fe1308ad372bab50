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
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// monitor puts stdin into cbreak mode (when attached to a terminal and not
// running -batch) so a single keypress can request the "Interrupt" stop
// reason spec.md §6.3 describes without the user needing to press Enter,
// and separately listens for SIGINT so a background/piped run can still be
// interrupted the normal way. Grounded directly on the teacher's
// debugger/terminal/colorterm/easyterm package (easyterm.go): the same
// Tcgetattr/Cfmakecbreak/Tcsetattr sequence, reduced from the teacher's
// full canonical/raw/cbreak three-mode terminal wrapper to the one mode
// this CLI needs.
type monitor struct {
	fd       uintptr
	canonical syscall.Termios
	cbreak    syscall.Termios
	restored  bool

	interrupted int32
}

// newMonitor prepares stdin for cbreak mode but does not switch into it;
// call Start once the image is about to run. ok is false when stdin is not
// a terminal (piped input, CI), in which case the caller should fall back
// to -batch-style SIGINT-only interruption.
func newMonitor() (*monitor, bool) {
	fd := os.Stdin.Fd()
	var attr syscall.Termios
	if err := termios.Tcgetattr(fd, &attr); err != nil {
		return nil, false
	}
	m := &monitor{fd: fd, canonical: attr, cbreak: attr}
	termios.Cfmakecbreak(&m.cbreak)
	return m, true
}

// Start switches the terminal into cbreak mode and begins watching for a
// keypress on a background goroutine, in addition to registering the
// ordinary SIGINT handler.
func (m *monitor) Start() {
	termios.Tcsetattr(m.fd, termios.TCIFLUSH, &m.cbreak)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGINT)
	go func() {
		for range sig {
			atomic.StoreInt32(&m.interrupted, 1)
		}
	}()

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				return
			}
			atomic.StoreInt32(&m.interrupted, 1)
		}
	}()
}

// Interrupted reports, and clears, the pending interrupt request. This is
// the poll function passed to arm.Core.Continue (spec.md §6.3, §5: "the
// server's event loop selects between poll for incoming debugger bytes and
// take one simulator step").
func (m *monitor) Interrupted() bool {
	return atomic.CompareAndSwapInt32(&m.interrupted, 1, 0)
}

// Restore returns the terminal to its original (canonical) mode. Safe to
// call more than once.
func (m *monitor) Restore() {
	if m.restored {
		return
	}
	m.restored = true
	termios.Tcsetattr(m.fd, termios.TCIFLUSH, &m.canonical)
}
