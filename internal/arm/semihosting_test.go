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

import "testing"

// fakeSemihostingHost records the last command it was given and replays a
// fixed response, standing in for cmd/armiss's real host callback.
type fakeSemihostingHost struct {
	got  SemihostingCommand
	resp SemihostingResponse
}

func (h *fakeSemihostingHost) Semihosting(cmd SemihostingCommand) SemihostingResponse {
	h.got = cmd
	return h.resp
}

// TestS5SemihostingWrite is spec.md §8 scenario S5: R0 selects SYS_WRITE,
// R1 points at a {handle, buf, len} parameter block naming a 5-byte
// buffer holding "hello", and BKPT #0xAB must hand the host callback a
// SysWrite command carrying exactly those bytes and report success in R0.
func TestS5SemihostingWrite(t *testing.T) {
	image := []byte{
		0xab, 0xbe, // 0: BKPT #0xAB
	}
	c := newScenarioCore(t, image)

	const (
		block = 0x20000100
		buf   = 0x20000200
	)
	c.Bus.Write32(block, 1)
	c.Bus.Write32(block+4, buf)
	c.Bus.Write32(block+8, 5)
	for i, b := range []byte("hello") {
		c.Bus.Write8(buf+uint32(i), b)
	}

	c.Regs.SetR(0, uint32(SysWrite))
	c.Regs.SetR(1, block)

	host := &fakeSemihostingHost{resp: SemihostingResponse{Op: SysWrite, Result: 0}}
	c.Host = host

	c.Step()

	if host.got.Op != SysWrite {
		t.Fatalf("host saw op %v, want SysWrite", host.got.Op)
	}
	if host.got.Handle != 1 {
		t.Fatalf("host saw handle %d, want 1", host.got.Handle)
	}
	if string(host.got.Data) != "hello" {
		t.Fatalf("host saw data %q, want %q", host.got.Data, "hello")
	}
	if c.Regs.R(0) != 0 {
		t.Fatalf("R0 after BKPT = %d, want 0 (success)", c.Regs.R(0))
	}
}
