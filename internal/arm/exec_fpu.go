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

import "github.com/jetsetilly/thumbiss/internal/arm/fpu"

// execFPU covers the VFP data-processing, register-transfer, and load/store
// families (spec.md §4.3 "Floating-point"), grounded on the teacher's
// fpu.FPU arithmetic package (functions_arithmetic.go, functions_rounding.go
// etc.) which this simulator already carries as-is; this file is the
// dispatch glue the teacher never needed, since the cartridge subroutine
// model called fpu.FPAdd/FPSub/etc. directly from a handful of named
// coprocessor trap sites instead of from a general decode/execute split.
func (c *Core) execFPU(rec Record) StepResult {
	p := fpu.Precision(rec.FPPrecision)

	switch rec.Op {
	case OpVADD:
		c.setFPReg(rec.Fd, c.FPU.Add(c.fpReg(rec.Fn), c.fpReg(rec.Fm), p))
		return Taken(1)
	case OpVSUB:
		c.setFPReg(rec.Fd, c.FPU.Sub(c.fpReg(rec.Fn), c.fpReg(rec.Fm), p))
		return Taken(1)
	case OpVMUL:
		c.setFPReg(rec.Fd, c.FPU.Mul(c.fpReg(rec.Fn), c.fpReg(rec.Fm), p))
		return Taken(1)
	case OpVDIV:
		c.setFPReg(rec.Fd, c.FPU.Div(c.fpReg(rec.Fn), c.fpReg(rec.Fm), p))
		return Taken(14)
	case OpVABS:
		c.setFPReg(rec.Fd, c.FPU.Abs(c.fpReg(rec.Fm), p))
		return Taken(1)
	case OpVNEG:
		c.setFPReg(rec.Fd, c.FPU.Neg(c.fpReg(rec.Fm), p))
		return Taken(1)
	case OpVCMP:
		c.FPU.Compare(c.fpReg(rec.Fd), c.fpReg(rec.Fm), p, true)
		return Taken(1)
	case OpVCVT:
		return c.execVCVT(rec)
	case OpVMOV:
		return c.execVMOV(rec)
	case OpVMOVImm:
		c.setFPReg(rec.Fd, c.FPU.VFPExpandImm(uint8(rec.Imm32), int(p)))
		return Taken(1)
	case OpVLDR:
		return c.execVLDR(rec)
	case OpVSTR:
		return c.execVSTR(rec)
	case OpVPUSH:
		return c.execVPushPop(rec, true)
	case OpVPOP:
		return c.execVPushPop(rec, false)
	case OpVMRS:
		return c.execVMRS(rec)
	case OpVMSR:
		c.FPU.Status.SetValue(c.Regs.R(int(rec.Rd)))
		return Taken(1)
	}

	return FaultResult(usageFault("unimplemented floating point op", rec.RawOpcode))
}

// fpReg/setFPReg read and write the extension register file by precision:
// single-precision index n is Registers[n]; double-precision index n is the
// register pair Registers[2n] (low word) / Registers[2n+1] (high word), the
// same S2n:S2n+1 aliasing the architecture defines for Dn.
func (c *Core) fpReg(idx uint8) uint64 {
	if idx >= 32 {
		lo := uint64(c.FPU.Registers[(idx-32)*2])
		hi := uint64(c.FPU.Registers[(idx-32)*2+1])
		return lo | hi<<32
	}
	return uint64(c.FPU.Registers[idx])
}

func (c *Core) setFPReg(idx uint8, v uint64) {
	if idx >= 32 {
		c.FPU.Registers[(idx-32)*2] = uint32(v)
		c.FPU.Registers[(idx-32)*2+1] = uint32(v >> 32)
		return
	}
	c.FPU.Registers[idx] = uint32(v)
}

// execVMOV handles both VMOV forms this decoder produces: a plain
// register-to-register copy (Rd absent) and the single-precision
// core-register transfer (Rd present, direction per VMovToCore).
func (c *Core) execVMOV(rec Record) StepResult {
	if rec.Rd < 0 {
		c.setFPReg(rec.Fd, c.fpReg(rec.Fm))
		return Taken(1)
	}
	if rec.VMovToCore {
		c.Regs.SetR(int(rec.Rd), uint32(c.fpReg(rec.Fd)))
	} else {
		c.FPU.Registers[rec.Fd] = c.Regs.R(int(rec.Rd))
	}
	return Taken(1)
}

// execVMRS handles VMRS <Rd>, FPSCR: Rd==15 transfers FPSCR.{N,Z,C,V} into
// APSR (the VMRS APSR_nzcv, FPSCR encoding), any other Rd reads the whole
// FPSCR word.
func (c *Core) execVMRS(rec Record) StepResult {
	if rec.Rd == 15 {
		c.Status.setNZCV(c.FPU.Status.NZCV())
	} else {
		c.Regs.SetR(int(rec.Rd), c.FPU.Status.Value())
	}
	return Taken(1)
}

// execVCVT handles the two VCVT families this decoder distinguishes:
// single<->double precision conversion, and conversion to a 32-bit integer.
// Conversion from integer to floating-point is not produced by this
// decoder's FPU dispatch (it decodes under a different top-level opcode
// class thumbiss's FPU decode tree does not recognise), so the fpu package's
// FixedToFP was dropped rather than carried unreachable; see fpu/doc.go.
func (c *Core) execVCVT(rec Record) StepResult {
	hw1 := uint16(rec.RawOpcode)
	opc2 := hw1 & 0x000f

	if opc2&0b1110 == 0b1010 {
		// single<->double precision conversion
		other := fpu.Double
		if rec.FPPrecision == 64 {
			other = fpu.Single
		}
		typ, _, value := c.FPU.FPUnpack(c.fpReg(rec.Fm), int(fpu.Precision(rec.FPPrecision)), c.FPU.Status)
		if typ == fpu.FPType_SNaN || typ == fpu.FPType_QNaN {
			c.setFPReg(rec.Fd, c.FPU.FPDefaultNaN(int(other)))
			return Taken(1)
		}
		c.setFPReg(rec.Fd, c.FPU.FPRound(value, int(other), c.FPU.Status))
		return Taken(1)
	}

	// VCVT to integer: opc3 bit 0 (hw2 bit 7) selects round-towards-zero.
	hw2 := uint16(rec.RawOpcode >> 16)
	roundZero := hw2&0x0080 != 0
	unsigned := opc2&0x0001 == 0

	_, _, value := c.FPU.FPUnpack(c.fpReg(rec.Fm), int(fpu.Precision(rec.FPPrecision)), c.FPU.Status)
	if roundZero {
		value = float64(int64(value))
	}
	var result uint32
	if unsigned {
		if value < 0 {
			value = 0
		}
		result = uint32(value)
	} else {
		result = uint32(int32(value))
	}
	c.FPU.Registers[rec.Fd] = result
	return Taken(1)
}

// execVLDR/execVSTR perform the single-register extension load/store
// (spec.md §4.3): an unindexed, non-writeback access at Rn +/- imm32.
func (c *Core) execVLDR(rec Record) StepResult {
	addr := fpuAddress(c, rec)
	if rec.FPPrecision == 64 {
		lo, f := c.Bus.Read32(addr)
		if f.Kind != "" {
			return FaultResult(f)
		}
		hi, f := c.Bus.Read32(addr + 4)
		if f.Kind != "" {
			return FaultResult(f)
		}
		c.setFPReg(rec.Fd, uint64(lo)|uint64(hi)<<32)
		return Taken(2)
	}
	v, f := c.Bus.Read32(addr)
	if f.Kind != "" {
		return FaultResult(f)
	}
	c.FPU.Registers[rec.Fd] = v
	return Taken(2)
}

func (c *Core) execVSTR(rec Record) StepResult {
	addr := fpuAddress(c, rec)
	if rec.FPPrecision == 64 {
		v := c.fpReg(rec.Fd)
		if f := c.Bus.Write32(addr, uint32(v)); f.Kind != "" {
			return FaultResult(f)
		}
		if f := c.Bus.Write32(addr+4, uint32(v>>32)); f.Kind != "" {
			return FaultResult(f)
		}
		return Taken(2)
	}
	if f := c.Bus.Write32(addr, c.FPU.Registers[rec.Fd]); f.Kind != "" {
		return FaultResult(f)
	}
	return Taken(2)
}

func fpuAddress(c *Core, rec Record) uint32 {
	rn := c.Regs.R(int(rec.Rn))
	if rec.Add {
		return rn + rec.Imm32
	}
	return rn - rec.Imm32
}

// execVPushPop covers VPUSH/VPOP: a contiguous run of extension registers
// starting at Fd, Imm32/regSize registers long, pushed to or popped from the
// stack exactly like execLoadStoreMultiple's integer PUSH/POP but over the
// FPU register file instead of the core one.
func (c *Core) execVPushPop(rec Record, push bool) StepResult {
	regSize := uint32(4)
	if rec.FPPrecision == 64 {
		regSize = 8
	}
	if rec.Imm32 == 0 || rec.Imm32%regSize != 0 {
		return FaultResult(usageFault("empty or misaligned VPUSH/VPOP register list", rec.RawOpcode))
	}
	n := rec.Imm32 / regSize

	sp := c.Regs.SP()
	var addr uint32
	if push {
		addr = sp - rec.Imm32
	} else {
		addr = sp
	}

	for i := uint32(0); i < n; i++ {
		reg := rec.Fd + uint8(i)
		if push {
			v := c.fpReg(reg)
			if f := c.Bus.Write32(addr, uint32(v)); f.Kind != "" {
				return FaultResult(f)
			}
			if regSize == 8 {
				if f := c.Bus.Write32(addr+4, uint32(v>>32)); f.Kind != "" {
					return FaultResult(f)
				}
			}
		} else {
			lo, f := c.Bus.Read32(addr)
			if f.Kind != "" {
				return FaultResult(f)
			}
			v := uint64(lo)
			if regSize == 8 {
				hi, f := c.Bus.Read32(addr + 4)
				if f.Kind != "" {
					return FaultResult(f)
				}
				v |= uint64(hi) << 32
			}
			c.setFPReg(reg, v)
		}
		addr += regSize
	}

	if push {
		c.Regs.SetSP(sp - rec.Imm32)
	} else {
		c.Regs.SetSP(sp + rec.Imm32)
	}
	return Taken(n + 1)
}
