package cpu

import "math/bits"

// execPushPop implements PUSH/POP {reglist} (format 14). The register
// list is the low 8 bits (R0-R7); bit 8 is LR on PUSH or PC on POP.
// PUSH stores registers in ascending number order at ascending
// addresses below the pre-decremented SP; POP loads in the same order
// from the pre-incremented SP, per spec.md section 4.6. A POP that
// includes PC writes a synthetic return address to PC, triggering
// ExcReturn when it is an EXC_RETURN sentinel, otherwise an ordinary
// branch.
func (c *Chip) execPushPop(opcode uint16) error {
	pop := opcode&0x0800 != 0
	extra := opcode&0x0100 != 0
	list := opcode & 0xFF

	count := bits.OnesCount16(list)
	if extra {
		count++
	}

	if pop {
		addr := c.Regs.Read(SP)
		for i := 0; i < 8; i++ {
			if list&(1<<uint(i)) == 0 {
				continue
			}
			v, f := c.Bus.ReadU32(addr)
			if f != nil {
				return c.memFault(f)
			}
			c.Regs.Write(i, v)
			addr += 4
		}
		if extra {
			v, f := c.Bus.ReadU32(addr)
			if f != nil {
				return c.memFault(f)
			}
			addr += 4
			c.Regs.Write(SP, addr)
			if isExcReturn(v) {
				return c.ExcReturn(v)
			}
			if v&1 == 0 {
				c.Exc.Pend(ExcHardFault) // UsageFault modeled as HardFault-pending
				return nil
			}
			c.Regs.Write(PC, v&^1)
			return nil
		}
		c.Regs.Write(SP, addr)
		return nil
	}

	addr := c.Regs.Read(SP) - uint32(count)*4
	base := addr
	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		if f := c.Bus.WriteU32(base, c.Regs.Read(i)); f != nil {
			return c.memFault(f)
		}
		base += 4
	}
	if extra {
		if f := c.Bus.WriteU32(base, c.Regs.Read(LR)); f != nil {
			return c.memFault(f)
		}
	}
	c.Regs.Write(SP, addr)
	return nil
}

// execLdmiaStmia implements LDMIA/STMIA Rn!, {reglist} (format 15).
// STMIA always writes back the incremented base. LDMIA writes back
// too, except when Rn itself is in the register list — architecturally
// the loaded value for Rn then wins, matching the real core's
// suppressed-writeback rule for that one case.
func (c *Chip) execLdmiaStmia(opcode uint16) error {
	load := opcode&0x0800 != 0
	rn := field3(opcode, 8)
	list := opcode & 0xFF
	count := bits.OnesCount16(list)

	addr := c.Regs.Read(rn)
	baseInList := list&(1<<uint(rn)) != 0

	if load {
		cur := addr
		for i := 0; i < 8; i++ {
			if list&(1<<uint(i)) == 0 {
				continue
			}
			v, f := c.Bus.ReadU32(cur)
			if f != nil {
				return c.memFault(f)
			}
			c.Regs.Write(i, v)
			cur += 4
		}
		if !baseInList {
			c.Regs.Write(rn, addr+uint32(count)*4)
		}
		return nil
	}

	cur := addr
	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) == 0 {
			continue
		}
		if f := c.Bus.WriteU32(cur, c.Regs.Read(i)); f != nil {
			return c.memFault(f)
		}
		cur += 4
	}
	c.Regs.Write(rn, addr+uint32(count)*4)
	return nil
}
