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

// Op names one decoded operation family. Related encodings that share
// identical executor semantics collapse onto the same Op (eg. the Thumb16
// "ADD Rd,Rn,#imm3" and Thumb32 "ADD.W Rd,Rn,#imm12" encodings both decode
// to OpADD, differing only in Record.Imm32/ShiftType); encodings whose
// semantics genuinely differ (ADD vs ADDS vs ADD (SP plus immediate)) get
// distinct Ops only when the executor needs to branch on it, per spec.md
// §9's grouping-by-common-shape guidance.
type Op int

const (
	OpUDF Op = iota
	OpNOP

	// data-processing (spec.md §4.3 "Data-processing")
	OpAND
	OpEOR
	OpORR
	OpBIC
	OpORN
	OpADD
	OpADC
	OpSUB
	OpSBC
	OpRSB
	OpCMP
	OpCMN
	OpTST
	OpTEQ
	OpMOV
	OpMVN
	OpADR

	// shifts (spec.md §4.3 "Shifts")
	OpLSL
	OpLSR
	OpASR
	OpROR
	OpRRX

	// extend
	OpSXTB
	OpSXTH
	OpUXTB
	OpUXTH
	OpREV
	OpREV16
	OpREVSH

	// multiply / divide (spec.md §4.3 "Multiplies"/"Divides")
	OpMUL
	OpMLA
	OpMLS
	OpUMULL
	OpSMULL
	OpUMLAL
	OpSMLAL
	OpSMULBB // halfword-select DSP multiplies (SMULBB/SMULBT/SMULTB/SMULTT share this Op)
	OpSMLABB // halfword-select DSP multiply-accumulate
	OpUDIV
	OpSDIV

	// loads/stores (spec.md §4.3 "Loads/Stores")
	OpLDR
	OpLDRB
	OpLDRH
	OpLDRSB
	OpLDRSH
	OpSTR
	OpSTRB
	OpSTRH
	OpLDRD
	OpSTRD

	// load/store multiple (spec.md §4.3 "Load/Store Multiple")
	OpLDM
	OpSTM
	OpPUSH
	OpPOP

	// exclusive access (spec.md §4.3 "Exclusive access")
	OpLDREX
	OpLDREXB
	OpLDREXH
	OpSTREX
	OpSTREXB
	OpSTREXH
	OpCLREX

	// branches (spec.md §4.3 "Branches")
	OpB
	OpBL
	OpBX
	OpBLX
	OpCBZ
	OpCBNZ
	OpTBB
	OpTBH

	// IT and hints (spec.md §4.3 "IT")
	OpIT
	OpYIELD
	OpWFE
	OpWFI
	OpSEV

	// CPS/MRS/MSR (spec.md §4.3 "CPS, MRS, MSR")
	OpCPS
	OpMRS
	OpMSR

	// misc
	OpBKPT
	OpSVC
	OpDMB
	OpDSB
	OpISB

	// bitfield
	OpBFI
	OpBFC
	OpSBFX
	OpUBFX
	OpCLZ

	// saturating arithmetic (ARMv7E-M DSP extension)
	OpSSAT
	OpUSAT

	// floating-point (spec.md §4.3 "Floating-point")
	OpVADD
	OpVSUB
	OpVMUL
	OpVDIV
	OpVABS
	OpVNEG
	OpVCMP
	OpVCVT
	OpVMOV
	OpVMOVImm
	OpVLDR
	OpVSTR
	OpVPUSH
	OpVPOP
	OpVMRS
	OpVMSR
)

// opName is used by the disassembler and by fault/log messages; kept as a
// simple slice indexed by Op rather than a map; Op values that share a
// family with multiple printed mnemonics (eg. OpSMULBB covering
// SMULBB/SMULBT/SMULTB/SMULTT) print the family's canonical name and rely
// on the disassembler to refine it from Record fields when needed.
var opName = [...]string{
	OpUDF:     "UDF",
	OpNOP:     "NOP",
	OpAND:     "AND",
	OpEOR:     "EOR",
	OpORR:     "ORR",
	OpBIC:     "BIC",
	OpORN:     "ORN",
	OpADD:     "ADD",
	OpADC:     "ADC",
	OpSUB:     "SUB",
	OpSBC:     "SBC",
	OpRSB:     "RSB",
	OpCMP:     "CMP",
	OpCMN:     "CMN",
	OpTST:     "TST",
	OpTEQ:     "TEQ",
	OpMOV:     "MOV",
	OpMVN:     "MVN",
	OpADR:     "ADR",
	OpLSL:     "LSL",
	OpLSR:     "LSR",
	OpASR:     "ASR",
	OpROR:     "ROR",
	OpRRX:     "RRX",
	OpSXTB:    "SXTB",
	OpSXTH:    "SXTH",
	OpUXTB:    "UXTB",
	OpUXTH:    "UXTH",
	OpREV:     "REV",
	OpREV16:   "REV16",
	OpREVSH:   "REVSH",
	OpMUL:     "MUL",
	OpMLA:     "MLA",
	OpMLS:     "MLS",
	OpUMULL:   "UMULL",
	OpSMULL:   "SMULL",
	OpUMLAL:   "UMLAL",
	OpSMLAL:   "SMLAL",
	OpSMULBB:  "SMULxy",
	OpSMLABB:  "SMLAxy",
	OpUDIV:    "UDIV",
	OpSDIV:    "SDIV",
	OpLDR:     "LDR",
	OpLDRB:    "LDRB",
	OpLDRH:    "LDRH",
	OpLDRSB:   "LDRSB",
	OpLDRSH:   "LDRSH",
	OpSTR:     "STR",
	OpSTRB:    "STRB",
	OpSTRH:    "STRH",
	OpLDRD:    "LDRD",
	OpSTRD:    "STRD",
	OpLDM:     "LDM",
	OpSTM:     "STM",
	OpPUSH:    "PUSH",
	OpPOP:     "POP",
	OpLDREX:   "LDREX",
	OpLDREXB:  "LDREXB",
	OpLDREXH:  "LDREXH",
	OpSTREX:   "STREX",
	OpSTREXB:  "STREXB",
	OpSTREXH:  "STREXH",
	OpCLREX:   "CLREX",
	OpB:       "B",
	OpBL:      "BL",
	OpBX:      "BX",
	OpBLX:     "BLX",
	OpCBZ:     "CBZ",
	OpCBNZ:    "CBNZ",
	OpTBB:     "TBB",
	OpTBH:     "TBH",
	OpIT:      "IT",
	OpYIELD:   "YIELD",
	OpWFE:     "WFE",
	OpWFI:     "WFI",
	OpSEV:     "SEV",
	OpCPS:     "CPS",
	OpMRS:     "MRS",
	OpMSR:     "MSR",
	OpBKPT:    "BKPT",
	OpSVC:     "SVC",
	OpDMB:     "DMB",
	OpDSB:     "DSB",
	OpISB:     "ISB",
	OpBFI:     "BFI",
	OpBFC:     "BFC",
	OpSBFX:    "SBFX",
	OpUBFX:    "UBFX",
	OpCLZ:     "CLZ",
	OpSSAT:    "SSAT",
	OpUSAT:    "USAT",
	OpVADD:    "VADD",
	OpVSUB:    "VSUB",
	OpVMUL:    "VMUL",
	OpVDIV:    "VDIV",
	OpVABS:    "VABS",
	OpVNEG:    "VNEG",
	OpVCMP:    "VCMP",
	OpVCVT:    "VCVT",
	OpVMOV:    "VMOV",
	OpVMOVImm: "VMOV",
	OpVLDR:    "VLDR",
	OpVSTR:    "VSTR",
	OpVPUSH:   "VPUSH",
	OpVPOP:    "VPOP",
	OpVMRS:    "VMRS",
	OpVMSR:    "VMSR",
}

func (o Op) String() string {
	if int(o) < len(opName) && opName[o] != "" {
		return opName[o]
	}
	return "???"
}
