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

// Component I (spec.md §4.8, §6.2): the ARM semihosting ABI, triggered by
// BKPT #0xAB with R0 holding the operation number and R1 pointing at a
// parameter block in guest memory. Not present in the teacher at all (DPC+/
// CDFJ cartridges have no host I/O ABI); built directly from spec.md's
// command/response shapes and cross-checked against the reference
// semihosting host callback in _examples/original_source/src/semihost.rs
// (the non-Go driver this spec was distilled from), which is itself the
// grounding for the op numbers and parameter-block layouts below since
// spec.md only names the shapes, not the wire encoding.

// SemihostingOp is the R0 operation selector.
type SemihostingOp uint32

const (
	SysOpen          SemihostingOp = 0x01
	SysClose         SemihostingOp = 0x02
	SysWriteC        SemihostingOp = 0x03
	SysWrite0        SemihostingOp = 0x04
	SysWrite         SemihostingOp = 0x05
	SysRead          SemihostingOp = 0x06
	SysReadC         SemihostingOp = 0x07
	SysIsError       SemihostingOp = 0x08
	SysIstty         SemihostingOp = 0x09
	SysSeek          SemihostingOp = 0x0A
	SysFlen          SemihostingOp = 0x0C
	SysClock         SemihostingOp = 0x10
	SysErrno         SemihostingOp = 0x13
	SysException     SemihostingOp = 0x18
	SysExitExtended  SemihostingOp = 0x20
)

// SysExceptionReason is the ADP_Stopped_* reason code carried by
// SysException and SysExitExtended (spec.md §4.8).
type SysExceptionReason uint32

const (
	ADPStoppedBranchThroughZero SysExceptionReason = 0x20000
	ADPStoppedUndefinedInstr    SysExceptionReason = 0x20001
	ADPStoppedRuntimeError      SysExceptionReason = 0x20024
	ADPStoppedInternalError     SysExceptionReason = 0x20025
	ADPStoppedApplicationExit   SysExceptionReason = 0x20026
	ADPStopped                  SysExceptionReason = 0x20023
)

// SemihostingCommand is the tagged union the processor builds from the
// guest's parameter block and hands to the host callback (spec.md §6.2).
// Only the fields documented for Op are meaningful, the same convention
// Record uses.
type SemihostingCommand struct {
	Op SemihostingOp

	// SysOpen
	Name string
	Mode uint32

	// SysClose, SysWrite, SysRead, SysSeek, SysFlen, SysIstty
	Handle uint32

	// SysWrite
	Data []byte

	// SysRead
	MemPtr uint32
	Len    uint32

	// SysSeek
	Position uint32

	// SysException, SysExitExtended
	Reason  SysExceptionReason
	Subcode uint32
}

// SemihostingResponse is what the host callback returns; the processor
// marshals it back into R0 and/or guest memory per spec.md §4.8.
type SemihostingResponse struct {
	Op SemihostingOp

	// SysOpen, SysWrite, SysFlen, SysIstty, SysClock: a signed result, or
	// Err true with Result holding the host errno-equivalent.
	Result int32
	Err    bool

	// SysClose, SysSeek, SysException, SysExitExtended
	Success bool

	// SysRead: ReadData is written to guest memory at MemPtr
	MemPtr       uint32
	ReadData     []byte
	BytesNotRead uint32

	// SysException, SysExitExtended: Stop tells the processor loop the
	// simulation should terminate (spec.md §4.8, "the signal to terminate
	// the simulation").
	Stop bool
}

const (
	ttHandleStdin  = 1
	ttHandleStdout = 2
	ttHandleStderr = 3
)

// readSemihostingCommand decodes the BKPT #0xAB parameter block pointed to
// by R1 into a SemihostingCommand, per the op-specific layouts the ARM
// semihosting specification (and the reference semihost.rs driver) define.
// R0 carries the operation number.
func (c *Core) readSemihostingCommand() SemihostingCommand {
	op := SemihostingOp(c.Regs.R(0))
	block := c.Regs.R(1)

	cmd := SemihostingCommand{Op: op}

	switch op {
	case SysOpen:
		namePtr, _ := c.Bus.Read32(block)
		mode, _ := c.Bus.Read32(block + 4)
		nameLen, _ := c.Bus.Read32(block + 8)
		cmd.Name = c.readCString(namePtr, nameLen)
		cmd.Mode = mode

	case SysClose, SysFlen, SysIstty:
		cmd.Handle, _ = c.Bus.Read32(block)

	case SysWrite:
		handle, _ := c.Bus.Read32(block)
		bufPtr, _ := c.Bus.Read32(block + 4)
		length, _ := c.Bus.Read32(block + 8)
		cmd.Handle = handle
		cmd.Data = c.readBytes(bufPtr, length)

	case SysRead:
		handle, _ := c.Bus.Read32(block)
		bufPtr, _ := c.Bus.Read32(block + 4)
		length, _ := c.Bus.Read32(block + 8)
		cmd.Handle = handle
		cmd.MemPtr = bufPtr
		cmd.Len = length

	case SysSeek:
		handle, _ := c.Bus.Read32(block)
		pos, _ := c.Bus.Read32(block + 4)
		cmd.Handle = handle
		cmd.Position = pos

	case SysClock, SysErrno:
		// no parameters

	case SysException:
		// R1 is the reason code directly, not a pointer (pre-extended-exit
		// ABI form).
		cmd.Reason = SysExceptionReason(block)

	case SysExitExtended:
		reason, _ := c.Bus.Read32(block)
		subcode, _ := c.Bus.Read32(block + 4)
		cmd.Reason = SysExceptionReason(reason)
		cmd.Subcode = subcode
	}

	return cmd
}

// writeSemihostingResponse marshals a SemihostingResponse back into R0 and,
// for SysRead, the guest memory at MemPtr (spec.md §4.8).
func (c *Core) writeSemihostingResponse(resp SemihostingResponse) {
	switch resp.Op {
	case SysOpen, SysWrite, SysFlen, SysIstty, SysClock:
		if resp.Err {
			c.Regs.SetR(0, 0xffffffff)
		} else {
			c.Regs.SetR(0, uint32(resp.Result))
		}

	case SysClose, SysSeek:
		if resp.Success {
			c.Regs.SetR(0, 0)
		} else {
			c.Regs.SetR(0, 0xffffffff)
		}

	case SysRead:
		if resp.Err {
			c.Regs.SetR(0, 0xffffffff)
			return
		}
		for i, b := range resp.ReadData {
			c.Bus.Write8(resp.MemPtr+uint32(i), b)
		}
		c.Regs.SetR(0, resp.BytesNotRead)

	case SysErrno:
		c.Regs.SetR(0, uint32(resp.Result))

	case SysException, SysExitExtended:
		if resp.Stop {
			c.Halted = true
		}
		c.Regs.SetR(0, 0)
	}
}

func (c *Core) readCString(addr uint32, maxLen uint32) string {
	buf := make([]byte, 0, 32)
	for i := uint32(0); maxLen == 0 || i < maxLen; i++ {
		v, fault := c.Bus.Read8(addr + i)
		if fault.Kind != "" {
			break
		}
		if maxLen == 0 && v == 0 {
			break
		}
		buf = append(buf, v)
	}
	return string(buf)
}

func (c *Core) readBytes(addr uint32, length uint32) []byte {
	buf := make([]byte, 0, length)
	for i := uint32(0); i < length; i++ {
		v, fault := c.Bus.Read8(addr + i)
		if fault.Kind != "" {
			break
		}
		buf = append(buf, v)
	}
	return buf
}

// SemihostingFeatures is the 5-byte SHFB feature blob :semihosting-features
// exposes (spec.md §4.8): the SHFB magic number followed by a feature-bits
// byte. Exported so a host callback implementation (cmd/armiss) can back a
// :semihosting-features pseudo-file with the same bytes the simulator
// itself agrees on.
var SemihostingFeatures = [5]byte{0x53, 0x48, 0x46, 0x42, 0x03}
