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

// This file and exec_dataproc.go/exec_shift.go/exec_mul.go/
// exec_loadstore.go/exec_ldm_stm.go/exec_branch.go/exec_fpu.go are
// Component F (spec.md §4.3): given a decoded Record, perform its side
// effects and return a StepResult. This is the other half of the split the
// teacher never makes: every case below is grounded on the corresponding
// decodeFunction closure body in thumb.go/thumb2_32bit.go/thumb2_fpu.go,
// with the decode-time bit extraction stripped out (that part already ran,
// in decode_thumb16.go/decode_thumb32.go) and only the register/memory/flag
// side effects kept.
//
// execute is the single entry point core.Step() calls. Predication
// (spec.md §4.3: "instructions skipped by IT-block predication execute as
// a 1-cycle no-op advancing PC normally") is handled once, here, rather
// than duplicated in every case, except for the handful of Ops (IT itself,
// B, CBZ and CBNZ; see predicated) that are never predicated.
func (c *Core) execute(rec Record) StepResult {
	if c.predicated(rec) && !c.Status.Condition(c.Status.CurrentCondition()) {
		return NotTaken()
	}

	switch rec.Op {
	case OpNOP, OpYIELD, OpSEV:
		return Taken(1)
	case OpWFE:
		if !c.Exceptions.anyPending() {
			c.Sleep()
		}
		return Taken(1)
	case OpWFI:
		c.Sleep()
		return Taken(1)
	case OpIT:
		c.Status.SetIT(rec.ITFirstCond, rec.ITMask)
		return Taken(1)
	case OpCPS:
		return c.execCPS(rec)
	case OpMRS:
		return c.execMRS(rec)
	case OpMSR:
		return c.execMSR(rec)
	case OpBKPT:
		return c.execBKPT(rec)
	case OpSVC:
		c.Exceptions.SetPending(ExcSVCall)
		return Taken(1)
	case OpDMB, OpDSB, OpISB:
		// thumbiss runs single-threaded with an in-order bus, so every
		// barrier is a no-op beyond the cycle it costs on real silicon.
		return Taken(2)
	case OpCLREX:
		c.Monitor.Clear()
		return Taken(1)

	case OpAND, OpEOR, OpORR, OpBIC, OpORN, OpADD, OpADC, OpSUB, OpSBC, OpRSB,
		OpCMP, OpCMN, OpTST, OpTEQ, OpMOV, OpMVN, OpADR:
		return c.execDataProcessing(rec)

	case OpLSL, OpLSR, OpASR, OpROR, OpRRX:
		return c.execShift(rec)

	case OpSXTB, OpSXTH, OpUXTB, OpUXTH, OpREV, OpREV16, OpREVSH, OpCLZ:
		return c.execExtendMisc(rec)

	case OpBFI, OpBFC, OpSBFX, OpUBFX, OpSSAT, OpUSAT:
		return c.execBitfield(rec)

	case OpMUL, OpMLA, OpMLS, OpUMULL, OpSMULL, OpUMLAL, OpSMLAL,
		OpSMULBB, OpSMLABB, OpUDIV, OpSDIV:
		return c.execMultiplyDivide(rec)

	case OpLDR, OpLDRB, OpLDRH, OpLDRSB, OpLDRSH, OpSTR, OpSTRB, OpSTRH,
		OpLDRD, OpSTRD:
		return c.execLoadStore(rec)

	case OpLDREX, OpLDREXB, OpLDREXH, OpSTREX, OpSTREXB, OpSTREXH:
		return c.execExclusive(rec)

	case OpLDM, OpSTM, OpPUSH, OpPOP:
		return c.execLoadStoreMultiple(rec)

	case OpB, OpBL, OpBX, OpBLX, OpCBZ, OpCBNZ, OpTBB, OpTBH:
		return c.execBranch(rec)

	case OpVADD, OpVSUB, OpVMUL, OpVDIV, OpVABS, OpVNEG, OpVCMP, OpVCVT,
		OpVMOV, OpVMOVImm, OpVLDR, OpVSTR, OpVPUSH, OpVPOP, OpVMRS, OpVMSR:
		if !c.HasFPU {
			return FaultResult(usageFault("floating point not enabled", rec.RawOpcode))
		}
		return c.execFPU(rec)

	case OpUDF:
		return FaultResult(usageFault("undefined instruction", rec.RawOpcode))
	}

	return FaultResult(usageFault("unimplemented instruction", rec.RawOpcode))
}

// predicated reports whether rec is subject to IT-block (or Bcc/CBZ/CBNZ)
// conditional skipping. IT itself, unconditional branches, and anything
// that already carries its own condition test (conditional branch, CBZ/
// CBNZ) are excluded: spec.md §4.3 singles out conditional branch as
// evaluating Record.Cond directly rather than going through the ambient
// IT-block predication path.
func (c *Core) predicated(rec Record) bool {
	switch rec.Op {
	case OpIT, OpB, OpCBZ, OpCBNZ:
		return false
	}
	return c.Status.InITBlock()
}

func (c *Core) execCPS(rec Record) StepResult {
	c.Regs.primask = rec.Imm32 != 0
	return Taken(1)
}

func (c *Core) execBKPT(rec Record) StepResult {
	const semihostingImmediate = 0xAB
	if rec.Imm32 == semihostingImmediate && c.Host != nil {
		resp := c.Host.Semihosting(c.readSemihostingCommand())
		c.writeSemihostingResponse(resp)
		return Taken(1)
	}
	return FaultResult(Fault{Kind: DebugMonitor, Event: "breakpoint", Addr: rec.Imm32})
}

func (c *Core) execMRS(rec Record) StepResult {
	var v uint32
	switch rec.SpecialReg {
	case SpecialAPSR, SpecialIAPSR, SpecialEAPSR, SpecialXPSR:
		v = c.Status.APSR()
		if rec.SpecialReg != SpecialAPSR {
			v |= c.Status.ISRNumber()
		}
	case SpecialIPSR, SpecialIEPSR:
		v = c.Status.ISRNumber()
	case SpecialEPSR:
		v = 0
	case SpecialMSP:
		v = c.Regs.MSP()
	case SpecialPSP:
		v = c.Regs.PSP()
	case SpecialPRIMASK:
		v = boolToUint32(c.Regs.primask)
	case SpecialBASEPRI, SpecialBASEPRIMax:
		v = uint32(c.Regs.basepri)
	case SpecialFAULTMASK:
		v = boolToUint32(c.Regs.faultmask)
	case SpecialCONTROL:
		v = boolToUint32(c.Regs.nPriv) | (boolToUint32(c.Regs.spsel) << 1)
	}
	c.Regs.SetR(int(rec.Rd), v)
	return Taken(4)
}

func (c *Core) execMSR(rec Record) StepResult {
	v := c.Regs.R(int(rec.Rn))
	switch rec.SpecialReg {
	case SpecialAPSR, SpecialIAPSR, SpecialEAPSR, SpecialXPSR:
		c.Status.SetAPSR(v)
	case SpecialMSP:
		c.Regs.SetMSP(v)
	case SpecialPSP:
		c.Regs.SetPSP(v)
	case SpecialPRIMASK:
		c.Regs.primask = v&1 != 0
	case SpecialBASEPRI, SpecialBASEPRIMax:
		c.Regs.basepri = uint8(v)
	case SpecialFAULTMASK:
		c.Regs.faultmask = v&1 != 0
	case SpecialCONTROL:
		c.Regs.nPriv = v&1 != 0
		if c.Regs.mode == Thread {
			c.Regs.spsel = v&2 != 0
		}
	}
	return Taken(4)
}

func boolToUint32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// anyPending reports whether any exception is pending, the WFE wake-up
// condition spec.md §4.3 names ("WFE sleeps unless an exception is already
// pending").
func (t *ExceptionTable) anyPending() bool {
	for _, e := range t.entries {
		if e.pending {
			return true
		}
	}
	return false
}
