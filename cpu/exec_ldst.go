package cpu

// execLdrLiteral implements LDR Rd, [PC, #imm8*4] (format 6): address
// = (PC & ~3) + 4 + (imm8 << 2), always a word load.
func (c *Chip) execLdrLiteral(opcode uint16, instrAddr uint32) error {
	rd := field3(opcode, 8)
	imm8 := field8(opcode)
	addr := (pcRead(instrAddr) &^ 0x3) + (imm8 << 2)
	val, f := c.Bus.ReadU32(addr)
	if f != nil {
		return c.memFault(f)
	}
	c.Regs.Write(rd, val)
	return nil
}

// Sub-operation codes for LoadStoreReg (format 7/8), selected by
// opcode bits 11:9.
const (
	lsrSTR = iota
	lsrSTRH
	lsrSTRB
	lsrLDRSB
	lsrLDR
	lsrLDRH
	lsrLDRB
	lsrLDRSH
)

// execLoadStoreReg implements the eight register-offset load/store
// variants (formats 7 and 8): address = Rn + Rm.
func (c *Chip) execLoadStoreReg(opcode uint16) error {
	op := int((opcode >> 9) & 0x7)
	rm := field3(opcode, 6)
	rn := field3(opcode, 3)
	rd := field3(opcode, 0)
	addr := c.Regs.Read(rn) + c.Regs.Read(rm)

	switch op {
	case lsrSTR:
		return c.memFault(c.Bus.WriteU32(addr, c.Regs.Read(rd)))
	case lsrSTRH:
		return c.memFault(c.Bus.WriteU16(addr, uint16(c.Regs.Read(rd))))
	case lsrSTRB:
		return c.memFault(c.Bus.WriteU8(addr, uint8(c.Regs.Read(rd))))
	case lsrLDRSB:
		v, f := c.Bus.ReadU8(addr)
		if f != nil {
			return c.memFault(f)
		}
		c.Regs.Write(rd, signExtendByte(v))
		return nil
	case lsrLDR:
		v, f := c.Bus.ReadU32(addr)
		if f != nil {
			return c.memFault(f)
		}
		c.Regs.Write(rd, v)
		return nil
	case lsrLDRH:
		v, f := c.Bus.ReadU16(addr)
		if f != nil {
			return c.memFault(f)
		}
		c.Regs.Write(rd, uint32(v))
		return nil
	case lsrLDRB:
		v, f := c.Bus.ReadU8(addr)
		if f != nil {
			return c.memFault(f)
		}
		c.Regs.Write(rd, uint32(v))
		return nil
	default: // lsrLDRSH
		v, f := c.Bus.ReadU16(addr)
		if f != nil {
			return c.memFault(f)
		}
		c.Regs.Write(rd, signExtendHalfword(v))
		return nil
	}
}

func signExtendByte(v uint8) uint32 {
	return uint32(int32(int8(v)))
}

func signExtendHalfword(v uint16) uint32 {
	return uint32(int32(int16(v)))
}

// execLoadStoreImm implements STR/LDR/STRB/LDRB Rd, [Rn, #imm5]
// (format 9): B selects byte (unscaled imm5) vs word (imm5 << 2); L
// selects load vs store.
func (c *Chip) execLoadStoreImm(opcode uint16) error {
	byteAccess := opcode&0x1000 != 0
	load := opcode&0x0800 != 0
	imm5 := uint32((opcode >> 6) & 0x1F)
	rn := field3(opcode, 3)
	rd := field3(opcode, 0)

	if byteAccess {
		addr := c.Regs.Read(rn) + imm5
		if load {
			v, f := c.Bus.ReadU8(addr)
			if f != nil {
				return c.memFault(f)
			}
			c.Regs.Write(rd, uint32(v))
			return nil
		}
		return c.memFault(c.Bus.WriteU8(addr, uint8(c.Regs.Read(rd))))
	}

	addr := c.Regs.Read(rn) + (imm5 << 2)
	if load {
		v, f := c.Bus.ReadU32(addr)
		if f != nil {
			return c.memFault(f)
		}
		c.Regs.Write(rd, v)
		return nil
	}
	return c.memFault(c.Bus.WriteU32(addr, c.Regs.Read(rd)))
}

// execLoadStoreHalfImm implements STRH/LDRH Rd, [Rn, #imm5*2]
// (format 10).
func (c *Chip) execLoadStoreHalfImm(opcode uint16) error {
	load := opcode&0x0800 != 0
	imm5 := uint32((opcode >> 6) & 0x1F)
	rn := field3(opcode, 3)
	rd := field3(opcode, 0)
	addr := c.Regs.Read(rn) + (imm5 << 1)

	if load {
		v, f := c.Bus.ReadU16(addr)
		if f != nil {
			return c.memFault(f)
		}
		c.Regs.Write(rd, uint32(v))
		return nil
	}
	return c.memFault(c.Bus.WriteU16(addr, uint16(c.Regs.Read(rd))))
}

// execLoadStoreSP implements STR/LDR Rd, [SP, #imm8*4] (format 11).
func (c *Chip) execLoadStoreSP(opcode uint16) error {
	load := opcode&0x0800 != 0
	rd := field3(opcode, 8)
	imm8 := field8(opcode)
	addr := c.Regs.Read(SP) + (imm8 << 2)

	if load {
		v, f := c.Bus.ReadU32(addr)
		if f != nil {
			return c.memFault(f)
		}
		c.Regs.Write(rd, v)
		return nil
	}
	return c.memFault(c.Bus.WriteU32(addr, c.Regs.Read(rd)))
}
