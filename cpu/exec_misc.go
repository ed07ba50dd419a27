package cpu

import "github.com/jmchacon/rp2350sim/bits"

// execExtend implements SXTB/SXTH/UXTB/UXTH Rd, Rm (format: opcode bits
// 7:6 select the sub-operation, no rotation field on this core since
// Armv8-M Baseline only ever encodes a zero rotate).
func (c *Chip) execExtend(opcode uint16) {
	op := (opcode >> 6) & 0x3
	rm := field3(opcode, 3)
	rd := field3(opcode, 0)
	v := c.Regs.Read(rm)

	var result uint32
	switch op {
	case 0: // SXTH
		result = bits.SignExtend(v&0xFFFF, 15, 32)
	case 1: // SXTB
		result = bits.SignExtend(v&0xFF, 7, 32)
	case 2: // UXTH
		result = v & 0xFFFF
	default: // UXTB
		result = v & 0xFF
	}
	c.Regs.Write(rd, result)
}

// execRev implements REV/REV16/REVSH Rd, Rm. REVSH (op==3) reverses
// the low byte pair then sign-extends from bit 15, unlike REV16 (op==1)
// which reverses both halfword byte pairs independently.
func (c *Chip) execRev(opcode uint16) {
	op := (opcode >> 6) & 0x3
	rm := field3(opcode, 3)
	rd := field3(opcode, 0)
	v := c.Regs.Read(rm)

	var result uint32
	switch op {
	case 0: // REV
		result = (v&0xFF)<<24 | (v&0xFF00)<<8 | (v&0xFF0000)>>8 | (v&0xFF000000)>>24
	case 1: // REV16
		lo := (v&0xFF)<<8 | (v&0xFF00)>>8
		hi := (v&0xFF0000)<<8 | (v&0xFF000000)>>8
		result = (hi & 0xFFFF0000) | (lo & 0xFFFF)
	default: // REVSH
		swapped := (v&0xFF)<<8 | (v&0xFF00)>>8
		result = bits.SignExtend(swapped&0xFFFF, 15, 32)
	}
	c.Regs.Write(rd, result)
}

// execCps implements CPS effect, i (PRIMASK set/clear): bit 4 set means
// CPSID (disable, PRIMASK=1), clear means CPSIE (enable, PRIMASK=0).
// Per spec.md section 4.6, unprivileged code executing CPS has no
// effect (not faulted, simply a no-op per the UNPREDICTABLE-avoidance
// contract).
func (c *Chip) execCps(opcode uint16) {
	if c.Control.NPriv == Unprivileged {
		return
	}
	disable := opcode&0x10 != 0
	c.Exc.SetPrimask(disable)
}

// execSvc implements SVC #imm8: pends SVCall. The immediate is not
// otherwise interpreted by the core (spec.md section 4.6); a handler
// reads it back out of the stacked return instruction if it cares.
func (c *Chip) execSvc(opcode uint16) {
	_ = field8(opcode)
	c.Exc.Pend(ExcSVCall)
}

// System register numbers recognized by MRS/MSR (spec.md section 4.4's
// special-register set), matching the architectural SYSm encoding.
const (
	sysmAPSR    = 0
	sysmIPSR    = 5
	sysmEPSR    = 6
	sysmIEPSR   = 7
	sysmXPSR    = 3
	sysmMSP     = 8
	sysmPSP     = 9
	sysmPRIMASK = 16
	sysmCONTROL = 20
)

// execMrs implements MRS Rd, <spec_reg> (32-bit encoding): hw2 carries
// Rd in bits 11:8 and SYSm in bits 7:0.
func (c *Chip) execMrs(hw1, hw2 uint16) {
	_ = hw1
	rd := int((hw2 >> 8) & 0xF)
	sysm := hw2 & 0xFF

	var v uint32
	switch sysm {
	case sysmAPSR:
		v = c.PSR.APSROnly()
	case sysmIPSR:
		v = uint32(c.PSR.ExceptionNumber)
	case sysmEPSR, sysmIEPSR:
		v = c.PSR.Pack() &^ (ipsrMask | (1 << apsrNBit) | (1 << apsrZBit) | (1 << apsrCBit) | (1 << apsrVBit) | (1 << apsrQBit))
	case sysmXPSR:
		v = c.PSR.Pack()
	case sysmMSP:
		v = c.Regs.MSP()
	case sysmPSP:
		v = c.Regs.PSP()
	case sysmPRIMASK:
		if c.Exc.Primask() {
			v = 1
		}
	case sysmCONTROL:
		v = c.Control.Pack()
	}
	c.Regs.Write(rd, v)
}

// execMsr implements MSR <spec_reg>, Rn (32-bit encoding): hw1 carries
// Rn in bits 3:0, hw2 carries SYSm in bits 7:0. Writes to MSP/PSP from
// unprivileged code are architecturally ineffective and raise no fault
// of their own. Writes to PRIMASK or CONTROL from unprivileged code are
// illegal and pend a fault (spec.md section 7), unlike CPS's legitimate
// architectural no-op (execCps). Writes from Handler mode or privileged
// Thread mode take effect immediately.
func (c *Chip) execMsr(hw1, hw2 uint16) error {
	rn := int(hw1 & 0xF)
	sysm := hw2 & 0xFF
	v := c.Regs.Read(rn)

	privileged := c.Mode == Handler || c.Control.NPriv == Privileged

	switch sysm {
	case sysmAPSR:
		c.PSR.N = v&(1<<apsrNBit) != 0
		c.PSR.Z = v&(1<<apsrZBit) != 0
		c.PSR.C = v&(1<<apsrCBit) != 0
		c.PSR.V = v&(1<<apsrVBit) != 0
		c.PSR.Q = v&(1<<apsrQBit) != 0
		c.PSR.GE = uint8((v >> apsrGEShift) & apsrGEMask)
	case sysmMSP:
		if privileged {
			c.Regs.SetMSP(v)
		}
	case sysmPSP:
		if privileged {
			c.Regs.SetPSP(v)
		}
	case sysmPRIMASK:
		if privileged {
			c.Exc.SetPrimask(v&0x1 != 0)
		} else {
			c.Exc.Pend(ExcHardFault) // illegal MSR in unprivileged mode, UsageFault modeled as HardFault-pending
		}
	case sysmCONTROL:
		if privileged {
			var ctl Control
			ctl.Unpack(v)
			if c.Mode == Thread {
				c.Control = ctl
				c.Regs.SetStackSelect(ctl.SPSel == SPSelProcess)
			} else {
				// CONTROL.SPSEL writes from Handler mode are ignored;
				// Handler mode is always Main-stack (spec.md section 4.3).
				c.Control.NPriv = ctl.NPriv
			}
		} else {
			c.Exc.Pend(ExcHardFault) // illegal MSR in unprivileged mode, UsageFault modeled as HardFault-pending
		}
	}
	return nil
}
