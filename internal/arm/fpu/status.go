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

package fpu

type FPSCR struct {
	// "A2.5.3 Floating-point Status and Control Register, FPSCR" of "ARMv7-M"
	// Page A2-37
	value uint32
}

func (fpscr *FPSCR) AHP() bool {
	// bit 26
	return fpscr.value&0x04000000 == 0x04000000
}

func (fpscr *FPSCR) SetAHP(set bool) {
	// bit 26
	fpscr.value &= 0xfbffffff
	if set {
		fpscr.value |= 0x04000000
	}
}

func (fpscr *FPSCR) DN() bool {
	// bit 25
	return fpscr.value&0x02000000 == 0x02000000
}

func (fpscr *FPSCR) SetDN(set bool) {
	// bit 25
	fpscr.value &= 0xfdffffff
	if set {
		fpscr.value |= 0x02000000
	}
}

func (fpscr *FPSCR) FZ() bool {
	// bit 24
	return fpscr.value&0x01000000 == 0x01000000
}

func (fpscr *FPSCR) SetFZ(set bool) {
	// bit 24
	fpscr.value &= 0xfeffffff
	if set {
		fpscr.value |= 0x01000000
	}
}

func (fpscr *FPSCR) UFC() bool {
	// bit 3
	return fpscr.value&0x00000008 == 0x00000008
}

func (fpscr *FPSCR) SetUFC(set bool) {
	// bit 3
	fpscr.value &= 0xfffffff7
	if set {
		fpscr.value |= 0x00000008
	}
}

// Value returns the raw 32-bit FPSCR word, for VMRS <Rd>, FPSCR.
func (fpscr *FPSCR) Value() uint32 { return fpscr.value }

// SetValue replaces the raw 32-bit FPSCR word, for VMSR FPSCR, <Rd>.
func (fpscr *FPSCR) SetValue(v uint32) { fpscr.value = v }

// NZCV returns the FPSCR condition flags packed as N:Z:C:V in bits 3:2:1:0,
// the same packing VMRS APSR_nzcv, FPSCR and FPCompare's callers use.
func (fpscr *FPSCR) NZCV() uint8 {
	return uint8(fpscr.value >> 28)
}

// SetNZCV sets the FPSCR.{N,Z,C,V} bits (31:28) from the low 4 bits of nzcv.
func (fpscr *FPSCR) SetNZCV(nzcv uint8) {
	fpscr.value &= 0x0fffffff
	fpscr.value |= uint32(nzcv&0xf) << 28
}

type FPRounding byte

// List of valid rounding methods for FPU
const (
	FPRoundNearest FPRounding = 0b00
	FPRoundPlusInf FPRounding = 0b01
	FPRoundNegInf  FPRounding = 0b10
	FPRoundZero    FPRounding = 0b11
)

func (fpscr *FPSCR) RMode() FPRounding {
	// bits 22-23
	return FPRounding((fpscr.value & 0x00c00000) >> 22)
}

func (fpscr *FPSCR) SetRMode(mode FPRounding) {
	// bits 22-23
	fpscr.value &= 0xff3fffff
	fpscr.value |= uint32(mode) << 22
}

func (fpu *FPU) StandardFPSCRValue() FPSCR {
	// page A2-53 of "ARMv7-M"
	var fpscr FPSCR
	fpscr.SetDN(true)
	fpscr.SetFZ(true)
	fpscr.SetAHP(fpu.Status.AHP())
	return fpscr
}
