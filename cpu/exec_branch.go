package cpu

import "github.com/jmchacon/rp2350sim/bits"

// condPasses evaluates the 4-bit condition field against the current
// APSR flags, per spec.md section 4.6's standard condition-code table.
// 1110 (AL) and 1111 never reach here (the decoder maps them to UDF
// and SVC); the default case treats them as AL for completeness.
func (c *Chip) condPasses(cond uint16) bool {
	n, z, cFlag, v := c.PSR.N, c.PSR.Z, c.PSR.C, c.PSR.V
	switch cond {
	case 0x0: // EQ
		return z
	case 0x1: // NE
		return !z
	case 0x2: // CS/HS
		return cFlag
	case 0x3: // CC/LO
		return !cFlag
	case 0x4: // MI
		return n
	case 0x5: // PL
		return !n
	case 0x6: // VS
		return v
	case 0x7: // VC
		return !v
	case 0x8: // HI
		return cFlag && !z
	case 0x9: // LS
		return !cFlag || z
	case 0xA: // GE
		return n == v
	case 0xB: // LT
		return n != v
	case 0xC: // GT
		return !z && n == v
	case 0xD: // LE
		return z || n != v
	default: // AL
		return true
	}
}

// execBcond implements Bcc (format 16): sign-extended imm8<<1 added to
// PC-as-read on a taken branch.
func (c *Chip) execBcond(opcode uint16, instrAddr uint32) {
	cond := (opcode >> 8) & 0xF
	if !c.condPasses(cond) {
		return
	}
	imm8 := uint32(opcode & 0xFF)
	offset := bits.SignExtend(imm8<<1, 8, 32)
	c.Regs.Write(PC, pcRead(instrAddr)+offset)
}

// execBUncond implements B T2 (format 18): sign-extended imm11<<1.
func (c *Chip) execBUncond(opcode uint16, instrAddr uint32) {
	imm11 := uint32(opcode & 0x7FF)
	offset := bits.SignExtend(imm11<<1, 11, 32)
	c.Regs.Write(PC, pcRead(instrAddr)+offset)
}

// execBl implements BL T1 (format 19), a 32-bit encoding spanning both
// halfwords. imm32 assembles S:I1:I2:imm10:imm11:'0' per spec.md
// section 4.6's formula, where I1 = NOT(J1 XOR S) and I2 = NOT(J2 XOR
// S). LR is set to the address of the instruction after BL, with bit 0
// set (Thumb state marker for a subsequent BX).
func (c *Chip) execBl(hw1, hw2 uint16, instrAddr uint32) {
	s := uint32((hw1 >> 10) & 0x1)
	imm10 := uint32(hw1 & 0x3FF)
	j1 := uint32((hw2 >> 13) & 0x1)
	j2 := uint32((hw2 >> 11) & 0x1)
	imm11 := uint32(hw2 & 0x7FF)

	i1 := (^(j1 ^ s)) & 0x1
	i2 := (^(j2 ^ s)) & 0x1

	imm25 := (s << 24) | (i1 << 23) | (i2 << 22) | (imm10 << 12) | (imm11 << 1)
	offset := bits.SignExtend(imm25, 24, 32)

	nextInstr := instrAddr + 4
	c.Regs.Write(LR, nextInstr|1)
	c.Regs.Write(PC, pcRead(instrAddr)+offset)
}

// execBxBlx implements BX/BLX Rm (format 5): PC <- Rm & ~1, or for the
// EXC_RETURN sentinel a full exception return. BLX additionally sets
// LR to the return address with bit 0 set. Bit 0 of Rm must be 1
// (Thumb state); otherwise spec.md section 4.6 requires a pending
// UsageFault, modeled here (like all faults raised inside an
// instruction, spec.md section 7) as HardFault-pending.
func (c *Chip) execBxBlx(opcode uint16, instrAddr uint32) error {
	link := opcode&0x80 != 0 // BLX when set, BX when clear
	rm := int((opcode >> 3) & 0xF)
	target := c.regRead(rm, instrAddr)

	if isExcReturn(target) {
		return c.ExcReturn(target)
	}

	if target&1 == 0 {
		c.Exc.Pend(ExcHardFault) // UsageFault modeled as HardFault-pending
		return nil
	}

	if link {
		c.Regs.Write(LR, (instrAddr+2)|1)
	}
	c.Regs.Write(PC, target&^1)
	return nil
}

// execAdr implements ADR Rd, label (format 12, PC-relative form):
// Rd <- (PC & ~3) + 4 + (imm8 << 2).
func (c *Chip) execAdr(opcode uint16, instrAddr uint32) {
	rd := field3(opcode, 8)
	imm8 := field8(opcode)
	base := pcRead(instrAddr) &^ 0x3
	c.Regs.Write(rd, base+(imm8<<2))
}

// execAddSPImm8 implements ADD Rd, SP, #imm8 (format 12, SP-relative
// form): Rd <- SP + (imm8 << 2).
func (c *Chip) execAddSPImm8(opcode uint16) {
	rd := field3(opcode, 8)
	imm8 := field8(opcode)
	c.Regs.Write(rd, c.Regs.Read(SP)+(imm8<<2))
}

// execAddSubSPImm7 implements ADD/SUB SP, #imm7 (format 13): bit 7
// selects subtraction.
func (c *Chip) execAddSubSPImm7(opcode uint16) {
	imm7 := uint32(opcode&0x7F) << 2
	if opcode&0x80 != 0 {
		c.Regs.Write(SP, c.Regs.Read(SP)-imm7)
	} else {
		c.Regs.Write(SP, c.Regs.Read(SP)+imm7)
	}
}
