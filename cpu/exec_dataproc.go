package cpu

import (
	"github.com/jmchacon/rp2350sim/bits"
	"github.com/jmchacon/rp2350sim/decode"
)

// execShiftImm implements LSL/LSR/ASR Rd, Rm, #imm5 (format 1):
// logical/arithmetic shifts set N, Z, and the shifter carry-out; V is
// unchanged per the flag table in spec.md section 4.6.
func (c *Chip) execShiftImm(enc decode.Encoding, opcode uint16) {
	imm5 := uint32((opcode >> 6) & 0x1F)
	rm := field3(opcode, 3)
	rd := field3(opcode, 0)

	var typ bits.ShiftType
	switch enc {
	case decode.LSLImm:
		typ = bits.LSL
	case decode.LSRImm:
		typ, imm5 = bits.LSR, imm32OrThirtyTwo(imm5)
	default:
		typ, imm5 = bits.ASR, imm32OrThirtyTwo(imm5)
	}

	result, carryOut := bits.ShiftC(c.Regs.Read(rm), typ, uint(imm5), c.PSR.C)
	c.Regs.Write(rd, result)
	c.setNZ(result)
	c.PSR.C = carryOut
}

// imm32OrThirtyTwo applies the LSR/ASR imm5==0 special case (spec.md
// section 4.1's decode_imm_shift): an encoded shift amount of zero
// means an actual shift of 32.
func imm32OrThirtyTwo(imm5 uint32) uint32 {
	if imm5 == 0 {
		return 32
	}
	return imm5
}

// execAddSubReg implements ADD/SUB Rd, Rn, Rm (format 2, three low
// registers), flag-setting via add_with_carry.
func (c *Chip) execAddSubReg(opcode uint16, isAdd bool) {
	rm := field3(opcode, 6)
	rn := field3(opcode, 3)
	rd := field3(opcode, 0)
	c.addSubCommon(rd, c.Regs.Read(rn), c.Regs.Read(rm), isAdd)
}

// execAddSubImm3 implements ADD/SUB Rd, Rn, #imm3 (format 2, 3-bit
// immediate).
func (c *Chip) execAddSubImm3(opcode uint16, isAdd bool) {
	imm3 := uint32((opcode >> 6) & 0x7)
	rn := field3(opcode, 3)
	rd := field3(opcode, 0)
	c.addSubCommon(rd, c.Regs.Read(rn), imm3, isAdd)
}

func (c *Chip) addSubCommon(rd int, a, b uint32, isAdd bool) {
	var sum uint32
	var carryOut, overflow bool
	if isAdd {
		sum, carryOut, overflow = bits.AddWithCarry(a, b, false)
	} else {
		sum, carryOut, overflow = bits.AddWithCarry(a, ^b, true)
	}
	c.Regs.Write(rd, sum)
	c.setNZ(sum)
	c.PSR.C = carryOut
	c.PSR.V = overflow
}

// execMovCmpAddSubImm8 implements format 3: MOV/CMP/ADD/SUB Rd, #imm8.
// op: 0=MOV,1=CMP,2=ADD,3=SUB.
func (c *Chip) execMovCmpAddSubImm8(opcode uint16, op int) {
	rd := field3(opcode, 8)
	imm8 := field8(opcode)
	switch op {
	case 0:
		c.Regs.Write(rd, imm8)
		c.setNZ(imm8)
	case 1:
		sum, carryOut, overflow := bits.AddWithCarry(c.Regs.Read(rd), ^imm8, true)
		c.setNZ(sum)
		c.PSR.C = carryOut
		c.PSR.V = overflow
	case 2:
		c.addSubCommon(rd, c.Regs.Read(rd), imm8, true)
	default:
		c.addSubCommon(rd, c.Regs.Read(rd), imm8, false)
	}
}

// aluOp names the 16 two-register data-processing operations (format
// 4), selected by opcode bits 9:6.
const (
	aluAND = iota
	aluEOR
	aluLSL
	aluLSR
	aluASR
	aluADC
	aluSBC
	aluROR
	aluTST
	aluRSB
	aluCMP
	aluCMN
	aluORR
	aluMUL
	aluBIC
	aluMVN
)

// execALU implements format 4's 16 ALU operations on Rdn, Rm. Flags
// follow the logical-op row (N,Z,shifter-carry,unchanged-V) for
// AND/EOR/TST/ORR/BIC/MVN, the flag-setting add_with_carry row for
// ADC/SBC/CMP/CMN/RSB, the shift row for LSL/LSR/ASR/ROR, and the
// MUL row (N,Z only).
func (c *Chip) execALU(opcode uint16) {
	op := int((opcode >> 6) & 0xF)
	rm := field3(opcode, 3)
	rdn := field3(opcode, 0)
	dst := c.Regs.Read(rdn)
	src := c.Regs.Read(rm)

	switch op {
	case aluAND:
		result := dst & src
		c.Regs.Write(rdn, result)
		c.setNZ(result)
	case aluEOR:
		result := dst ^ src
		c.Regs.Write(rdn, result)
		c.setNZ(result)
	case aluLSL:
		result, carryOut := shiftByRegister(dst, src, bits.LSL, c.PSR.C)
		c.Regs.Write(rdn, result)
		c.setNZ(result)
		c.PSR.C = carryOut
	case aluLSR:
		result, carryOut := shiftByRegister(dst, src, bits.LSR, c.PSR.C)
		c.Regs.Write(rdn, result)
		c.setNZ(result)
		c.PSR.C = carryOut
	case aluASR:
		result, carryOut := shiftByRegister(dst, src, bits.ASR, c.PSR.C)
		c.Regs.Write(rdn, result)
		c.setNZ(result)
		c.PSR.C = carryOut
	case aluADC:
		sum, carryOut, overflow := bits.AddWithCarry(dst, src, c.PSR.C)
		c.Regs.Write(rdn, sum)
		c.setNZ(sum)
		c.PSR.C = carryOut
		c.PSR.V = overflow
	case aluSBC:
		sum, carryOut, overflow := bits.AddWithCarry(dst, ^src, c.PSR.C)
		c.Regs.Write(rdn, sum)
		c.setNZ(sum)
		c.PSR.C = carryOut
		c.PSR.V = overflow
	case aluROR:
		result, carryOut := shiftByRegister(dst, src, bits.ROR, c.PSR.C)
		c.Regs.Write(rdn, result)
		c.setNZ(result)
		c.PSR.C = carryOut
	case aluTST:
		result := dst & src
		c.setNZ(result)
	case aluRSB:
		sum, carryOut, overflow := bits.AddWithCarry(^src, 0, true) // RSB Rd, Rn, #0 : 0 - Rn
		c.Regs.Write(rdn, sum)
		c.setNZ(sum)
		c.PSR.C = carryOut
		c.PSR.V = overflow
	case aluCMP:
		sum, carryOut, overflow := bits.AddWithCarry(dst, ^src, true)
		c.setNZ(sum)
		c.PSR.C = carryOut
		c.PSR.V = overflow
	case aluCMN:
		sum, carryOut, overflow := bits.AddWithCarry(dst, src, false)
		c.setNZ(sum)
		c.PSR.C = carryOut
		c.PSR.V = overflow
	case aluORR:
		result := dst | src
		c.Regs.Write(rdn, result)
		c.setNZ(result)
	case aluMUL:
		result := dst * src
		c.Regs.Write(rdn, result)
		c.setNZ(result)
	case aluBIC:
		result := dst &^ src
		c.Regs.Write(rdn, result)
		c.setNZ(result)
	default: // aluMVN
		result := ^src
		c.Regs.Write(rdn, result)
		c.setNZ(result)
	}
}

// shiftByRegister applies a register-specified shift amount (only the
// low byte of the shift-amount register is architecturally
// significant).
func shiftByRegister(value, amountReg uint32, typ bits.ShiftType, carryIn bool) (uint32, bool) {
	return bits.ShiftC(value, typ, uint(amountReg&0xFF), carryIn)
}

// hiReg reconstructs a 4-bit register number from a 3-bit field plus
// its H bit, used by the high-register operations (format 5).
func hiReg(loBits int, hBit bool) int {
	n := loBits
	if hBit {
		n += 8
	}
	return n
}

// regRead returns the value an instruction sees when it reads reg as
// an operand: the ordinary register file contents, except for PC,
// which reads as instrAddr+4 regardless of the instruction's own width
// (spec.md section 4.6's "PC as read" rule; Registers.Read(PC) alone
// only reflects the step prologue's own advance, not this rule).
func (c *Chip) regRead(reg int, instrAddr uint32) uint32 {
	if reg == PC {
		return pcRead(instrAddr)
	}
	return c.Regs.Read(reg)
}

// execAddHi implements ADD Rd, Rm where either operand may be a high
// register (R8-R15); does not set flags. Writes to PC align to 2,
// writes to SP align to 4 (both enforced by Registers.Write).
func (c *Chip) execAddHi(opcode uint16, instrAddr uint32) {
	h1 := opcode&0x80 != 0
	h2 := opcode&0x40 != 0
	rm := hiReg(field3(opcode, 3), h2)
	rd := hiReg(field3(opcode, 0), h1)
	c.Regs.Write(rd, c.regRead(rd, instrAddr)+c.regRead(rm, instrAddr))
}

// execCmpHi implements CMP Rd, Rm for high registers: sets flags via
// add_with_carry, writes nothing.
func (c *Chip) execCmpHi(opcode uint16, instrAddr uint32) {
	h1 := opcode&0x80 != 0
	h2 := opcode&0x40 != 0
	rm := hiReg(field3(opcode, 3), h2)
	rd := hiReg(field3(opcode, 0), h1)
	sum, carryOut, overflow := bits.AddWithCarry(c.regRead(rd, instrAddr), ^c.regRead(rm, instrAddr), true)
	c.setNZ(sum)
	c.PSR.C = carryOut
	c.PSR.V = overflow
}

// execMovHi implements MOV Rd, Rm (format 5): no flag update.
func (c *Chip) execMovHi(opcode uint16, instrAddr uint32) {
	h1 := opcode&0x80 != 0
	h2 := opcode&0x40 != 0
	rm := hiReg(field3(opcode, 3), h2)
	rd := hiReg(field3(opcode, 0), h1)
	c.Regs.Write(rd, c.regRead(rm, instrAddr))
}
