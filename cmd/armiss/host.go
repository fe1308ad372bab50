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
	"bufio"
	"os"
	"time"

	"github.com/jetsetilly/thumbiss/internal/arm"
)

// semihostHandle names the fixed handles the host assigns, following the
// ":tt" convention of the ARM semihosting spec and grounded directly on
// _examples/original_source/src/semihost.rs's TT_HANDLE_* constants (the
// reference driver this spec was distilled from): a guest SYS_OPEN of
// ":tt" in read mode gets stdin, write modes up to 7 get stdout, the rest
// get stderr, and ":semihosting-features" gets its own fixed handle backed
// by an in-memory cursor rather than a file descriptor.
type semihostHandle = uint32

const (
	handleStdin    semihostHandle = 1
	handleStdout   semihostHandle = 2
	handleStderr   semihostHandle = 3
	handleFeatures semihostHandle = 4
)

// host implements arm.SemihostingHost, backing the guest's ":tt" pseudo-
// file with the process's real stdin/stdout/stderr and ":semihosting-
// features" with an in-memory cursor over arm.SemihostingFeatures, exactly
// the two pseudo-files spec.md §4.8 names.
type host struct {
	stdout *bufio.Writer
	stderr *bufio.Writer
	stdin  *bufio.Reader

	featuresPos uint32

	start time.Time

	// Exited is set once the guest signals termination via
	// SysException/SysExitExtended with ADPStoppedApplicationExit, and
	// ExitCode carries the process exit code main() should use.
	Exited   bool
	ExitCode int
}

func newHost() *host {
	return &host{
		stdout: bufio.NewWriter(os.Stdout),
		stderr: bufio.NewWriter(os.Stderr),
		stdin:  bufio.NewReader(os.Stdin),
		start:  time.Now(),
	}
}

func (h *host) Semihosting(cmd arm.SemihostingCommand) arm.SemihostingResponse {
	resp := arm.SemihostingResponse{Op: cmd.Op}

	switch cmd.Op {
	case arm.SysOpen:
		resp.Result = int32(h.open(cmd.Name, cmd.Mode))

	case arm.SysClose:
		if cmd.Handle == handleFeatures {
			h.featuresPos = 0
		}
		resp.Success = true

	case arm.SysWrite:
		switch cmd.Handle {
		case handleStdout:
			h.stdout.Write(cmd.Data)
			h.stdout.Flush()
			resp.Result = 0
		case handleStderr:
			h.stderr.Write(cmd.Data)
			h.stderr.Flush()
			resp.Result = 0
		default:
			resp.Err = true
		}

	case arm.SysRead:
		resp.MemPtr = cmd.MemPtr
		if cmd.Handle == handleFeatures {
			data, notRead := h.readFeatures(cmd.Len)
			resp.ReadData = data
			resp.BytesNotRead = notRead
		} else if cmd.Handle == handleStdin {
			buf := make([]byte, cmd.Len)
			n, _ := h.stdin.Read(buf)
			resp.ReadData = buf[:n]
			resp.BytesNotRead = cmd.Len - uint32(n)
		} else {
			resp.Err = true
		}

	case arm.SysSeek:
		if cmd.Handle == handleFeatures && cmd.Position < uint32(len(arm.SemihostingFeatures)) {
			h.featuresPos = cmd.Position
			resp.Success = true
		} else {
			resp.Success = false
		}

	case arm.SysFlen:
		switch cmd.Handle {
		case handleFeatures:
			resp.Result = int32(len(arm.SemihostingFeatures))
		case handleStdin, handleStdout, handleStderr:
			resp.Result = 0
		default:
			resp.Err = true
		}

	case arm.SysIstty:
		switch cmd.Handle {
		case handleStdin, handleStdout, handleStderr:
			resp.Result = 1
		case handleFeatures:
			resp.Result = 0
		default:
			resp.Err = true
		}

	case arm.SysClock:
		elapsed := time.Since(h.start)
		resp.Result = int32(elapsed.Milliseconds() / 10) // centiseconds

	case arm.SysErrno:
		resp.Result = 0

	case arm.SysException:
		resp.Success = true
		resp.Stop = cmd.Reason == arm.ADPStoppedApplicationExit || cmd.Reason == arm.ADPStopped
		if resp.Stop {
			h.Exited = true
			h.ExitCode = exitCodeFor(cmd.Reason)
		}

	case arm.SysExitExtended:
		resp.Success = true
		resp.Stop = cmd.Reason == arm.ADPStoppedApplicationExit
		h.Exited = true
		if resp.Stop {
			h.ExitCode = int(cmd.Subcode)
		} else {
			h.ExitCode = exitCodeFor(cmd.Reason)
		}
	}

	return resp
}

func (h *host) open(name string, mode uint32) int {
	switch name {
	case ":tt":
		switch {
		case mode <= 3:
			return int(handleStdin)
		case mode <= 7:
			return int(handleStdout)
		default:
			return int(handleStderr)
		}
	case ":semihosting-features":
		h.featuresPos = 0
		return int(handleFeatures)
	default:
		return -1
	}
}

func (h *host) readFeatures(length uint32) (data []byte, bytesNotRead uint32) {
	remaining := uint32(len(arm.SemihostingFeatures)) - h.featuresPos
	n := length
	if n > remaining {
		n = remaining
	}
	data = append(data, arm.SemihostingFeatures[h.featuresPos:h.featuresPos+n]...)
	h.featuresPos += n
	return data, length - n
}

// exitCodeFor maps a non-application-exit stop reason to a nonzero process
// exit code (spec.md §6.3, "Exit codes": "other stops yield non-zero").
func exitCodeFor(reason arm.SysExceptionReason) int {
	if reason == arm.ADPStoppedApplicationExit {
		return 0
	}
	return 1
}
