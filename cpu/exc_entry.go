package cpu

// EXC_RETURN encodings (spec.md section 4.4). The low four bits of a
// synthetic LR value with top nibble 0xF select the mode and stack to
// restore to on exception return.
const (
	excReturnHandlerMSP = 0xFFFF_FFF1
	excReturnThreadMSP  = 0xFFFF_FFF9
	excReturnThreadPSP  = 0xFFFF_FFFD
)

// frameAlignBit is bit 9 of the stacked xPSR, set when the hardware
// padded the stack frame to an 8-byte boundary before pushing.
const frameAlignBit = 1 << 9

// TakeException implements spec.md section 4.4's exception entry
// sequence for exception number n: push {R0,R1,R2,R3,R12,LR,return
// address,xPSR} onto whichever stack is currently active, vector PC to
// the table entry for n, synthesize LR as the appropriate EXC_RETURN
// value, clear n's pending bit, mark it active, switch to Handler
// mode, and force SPSEL to Main.
//
// returnPC is the address execution should resume at on return (the
// address of the instruction that would have executed next).
func (c *Chip) TakeException(n uint16, returnPC uint32) error {
	framePtr := c.Regs.Read(SP)

	var excReturn uint32
	if c.Mode == Thread && c.Regs.UseProcessStack() {
		excReturn = excReturnThreadPSP
	} else if c.Mode == Thread {
		excReturn = excReturnThreadMSP
	} else {
		excReturn = excReturnHandlerMSP
	}

	align := framePtr&0x4 != 0
	if align {
		framePtr -= 4
	}
	frame := []uint32{
		c.Regs.Read(R0), c.Regs.Read(R1), c.Regs.Read(R2), c.Regs.Read(R3),
		c.Regs.Read(R12), c.Regs.Read(LR), returnPC, c.stackedXPSR(align),
	}
	framePtr -= uint32(len(frame) * 4)
	for i, v := range frame {
		if f := c.Bus.WriteU32(framePtr+uint32(i*4), v); f != nil {
			return InvalidCPUState{Reason: "stacking fault during exception entry"}
		}
	}
	c.Regs.Write(SP, framePtr)

	c.Regs.Write(LR, excReturn)

	vector, f := c.Bus.ReadU32(c.vtor + uint32(n)*4)
	if f != nil {
		return InvalidCPUState{Reason: "fault reading vector table"}
	}
	c.Regs.Write(PC, vector)

	c.Exc.ClearPending(n)
	c.Exc.SetActive(n)
	c.PSR.ExceptionNumber = n
	c.Mode = Handler
	c.Regs.SetStackSelect(false)
	c.Control.SPSel = SPSelMain
	return nil
}

func (c *Chip) stackedXPSR(align bool) uint32 {
	v := c.PSR.Pack()
	if align {
		v |= frameAlignBit
	} else {
		v &^= frameAlignBit
	}
	return v
}

// ExcReturn implements spec.md section 4.4's unstack sequence, invoked
// when a value with top nibble 0xF is written to PC by BX/BLX or by a
// POP that includes PC; MOV and ADD writes to PC do not invoke it. It
// restores {R0,R1,R2,R3,R12,LR,PC,xPSR}
// from the selected stack, adjusts that stack past the frame (plus the
// optional alignment word), clears the returning exception's active
// bit, and restores Mode/CONTROL.SPSEL from the EXC_RETURN encoding.
//
// An EXC_RETURN value whose low nibble doesn't match one of the three
// defined encodings, or one issued while no exception is active, is
// UNPREDICTABLE: logged, and escalated to HardFault rather than
// followed, per the glossary's "must not hang, not corrupt state"
// contract.
func (c *Chip) ExcReturn(value uint32) error {
	if !c.Exc.AnyActive() {
		c.logUnpredictable("EXC_RETURN %#08x with no active exception", value)
		c.escalateToHardFault()
		return nil
	}

	var toThread bool
	var toProcess bool
	switch value {
	case excReturnHandlerMSP:
		toThread, toProcess = false, false
	case excReturnThreadMSP:
		toThread, toProcess = true, false
	case excReturnThreadPSP:
		toThread, toProcess = true, true
	default:
		c.logUnpredictable("illegal EXC_RETURN value %#08x", value)
		c.escalateToHardFault()
		return nil
	}

	returning := c.PSR.ExceptionNumber
	c.Exc.ClearActive(returning)

	c.Regs.SetStackSelect(toProcess)
	framePtr := c.Regs.Read(SP)

	var words [8]uint32
	for i := range words {
		v, f := c.Bus.ReadU32(framePtr + uint32(i*4))
		if f != nil {
			return InvalidCPUState{Reason: "unstacking fault during exception return"}
		}
		words[i] = v
	}
	c.Regs.Write(R0, words[0])
	c.Regs.Write(R1, words[1])
	c.Regs.Write(R2, words[2])
	c.Regs.Write(R3, words[3])
	c.Regs.Write(R12, words[4])
	c.Regs.Write(LR, words[5])
	c.Regs.Write(PC, words[6])
	c.PSR.Unpack(words[7])

	framePtr += 8 * 4
	if words[7]&frameAlignBit != 0 {
		framePtr += 4
	}
	c.Regs.Write(SP, framePtr)

	if toThread {
		c.Mode = Thread
		if toProcess {
			c.Control.SPSel = SPSelProcess
		} else {
			c.Control.SPSel = SPSelMain
		}
	} else {
		c.Mode = Handler
		c.Regs.SetStackSelect(false)
	}
	if c.Mode == Thread {
		c.Regs.SetStackSelect(toProcess)
	}
	return nil
}

// isExcReturn reports whether value is a synthetic EXC_RETURN (top
// nibble 0xF), the trigger for ExcReturn on a write to PC.
func isExcReturn(value uint32) bool {
	return value&0xF000_0000 == 0xF000_0000
}

// ServiceExceptions is called by the step driver at each instruction
// boundary (spec.md section 5): if the highest-priority pending,
// enabled, unmasked exception outranks whatever is currently active,
// take it. A HardFault taken while HardFault is already active
// escalates to Lockup.
func (c *Chip) ServiceExceptions() error {
	if c.lockedUp {
		return nil
	}
	c.pollIRQSources()
	// Highest never selects a pending HardFault while HardFault is
	// active (it does not outrank itself), so check that case first.
	if c.Exc.Pending(ExcHardFault) && c.Exc.Active(ExcHardFault) {
		c.lockedUp = true
		return Lockup{Reason: "HardFault taken while HardFault active"}
	}
	n, ok := c.Exc.Highest()
	if !ok {
		return nil
	}
	returnPC := c.Regs.Read(PC)
	if err := c.TakeException(n, returnPC); err != nil {
		c.escalateToHardFault()
	}
	return nil
}

// escalateToHardFault is invoked when taking an exception itself fails
// (e.g. a stacking fault reading/writing the vector table or frame).
// It pends HardFault, or if HardFault is already active, locks up.
func (c *Chip) escalateToHardFault() {
	if c.Exc.Active(ExcHardFault) {
		c.lockedUp = true
		return
	}
	c.Exc.Pend(ExcHardFault)
}
