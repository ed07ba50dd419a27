package cpu

import (
	"github.com/jmchacon/rp2350sim/decode"
	"github.com/jmchacon/rp2350sim/memory"
)

// execute dispatches to the one routine implementing enc. Every
// routine receives the instruction's own two (or four) opcode bytes
// pre-split into halfwords, and instrAddr, the address PC held before
// the step prologue advanced it — the "opcode-relative PC" spec.md
// section 4.6 describes. PC has already been advanced by the
// instruction's width by the time a routine runs; a routine that
// branches overrides that by writing PC itself.
func (c *Chip) execute(enc decode.Encoding, hw1, hw2 uint16, instrAddr uint32) error {
	switch enc {
	case decode.LSLImm, decode.LSRImm, decode.ASRImm:
		c.execShiftImm(enc, hw1)
	case decode.AddReg:
		c.execAddSubReg(hw1, true)
	case decode.SubReg:
		c.execAddSubReg(hw1, false)
	case decode.AddImm3:
		c.execAddSubImm3(hw1, true)
	case decode.SubImm3:
		c.execAddSubImm3(hw1, false)
	case decode.MovImm8:
		c.execMovCmpAddSubImm8(hw1, 0)
	case decode.CmpImm8:
		c.execMovCmpAddSubImm8(hw1, 1)
	case decode.AddImm8:
		c.execMovCmpAddSubImm8(hw1, 2)
	case decode.SubImm8:
		c.execMovCmpAddSubImm8(hw1, 3)
	case decode.ALU:
		c.execALU(hw1)
	case decode.AddHi:
		c.execAddHi(hw1, instrAddr)
	case decode.CmpHi:
		c.execCmpHi(hw1, instrAddr)
	case decode.MovHi:
		c.execMovHi(hw1, instrAddr)
	case decode.BxBlx:
		return c.execBxBlx(hw1, instrAddr)
	case decode.LdrLiteral:
		return c.execLdrLiteral(hw1, instrAddr)
	case decode.LoadStoreReg:
		return c.execLoadStoreReg(hw1)
	case decode.LoadStoreImm:
		return c.execLoadStoreImm(hw1)
	case decode.LoadStoreHalfImm:
		return c.execLoadStoreHalfImm(hw1)
	case decode.LoadStoreSP:
		return c.execLoadStoreSP(hw1)
	case decode.Adr:
		c.execAdr(hw1, instrAddr)
	case decode.AddSPImm8:
		c.execAddSPImm8(hw1)
	case decode.AddSubSPImm7:
		c.execAddSubSPImm7(hw1)
	case decode.Extend:
		c.execExtend(hw1)
	case decode.Rev:
		c.execRev(hw1)
	case decode.Cps:
		c.execCps(hw1)
	case decode.Hint:
		// NOP/YIELD/WFE/WFI/SEV: PC already advanced, nothing else
		// observable in this model (spec.md section 4.6).
	case decode.PushPop:
		return c.execPushPop(hw1)
	case decode.LdmiaStmia:
		return c.execLdmiaStmia(hw1)
	case decode.Bcond:
		c.execBcond(hw1, instrAddr)
	case decode.UdfT1, decode.UdfT2:
		c.Exc.Pend(ExcHardFault) // UsageFault modeled as HardFault-pending, see errors.go doc
	case decode.Svc:
		c.execSvc(hw1)
	case decode.BUncond:
		c.execBUncond(hw1, instrAddr)
	case decode.BlT1:
		c.execBl(hw1, hw2, instrAddr)
	case decode.Mrs:
		c.execMrs(hw1, hw2)
	case decode.Msr:
		return c.execMsr(hw1, hw2)
	case decode.Dmb, decode.Dsb, decode.Isb:
		// Observable as no-ops that advance PC (spec.md section 4.6);
		// single-core model has nothing to order or flush.
	}
	return nil
}

// setNZ sets N and Z from result per the flag table's common NZ rule.
func (c *Chip) setNZ(result uint32) {
	c.PSR.N = result&0x8000_0000 != 0
	c.PSR.Z = result == 0
}

func (c *Chip) memFault(f *memory.Fault) error {
	if f != nil {
		c.Exc.Pend(ExcHardFault)
	}
	return nil
}

// field3 extracts a 3-bit low-register field (Rd/Rn/Rm) from a 16-bit
// opcode. Callers pass the bit position of the field.
func field3(opcode uint16, shift uint) int {
	return int((opcode >> shift) & 0x7)
}

func field8(opcode uint16) uint32 {
	return uint32(opcode & 0xFF)
}
