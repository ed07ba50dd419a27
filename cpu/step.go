package cpu

import "github.com/jmchacon/rp2350sim/decode"

// Step implements spec.md section 4.8/C9: fetch the halfword at the
// current PC (and, for a 32-bit encoding, the halfword that follows
// it), classify it, execute it, and service any exception that now
// outranks whatever is active. Exactly one instruction executes per
// call; no pipelining is modeled (spec.md section 5).
//
// Step is a permanent no-op once the core has reached Lockup.
func (c *Chip) Step() error {
	if c.lockedUp {
		return nil
	}

	pc := c.Regs.Read(PC)
	hw1, f := c.Bus.ReadU16(pc)
	if f != nil {
		c.Exc.Pend(ExcHardFault)
		return c.ServiceExceptions()
	}

	// Fetch the second halfword only when hw1's top bits mark a 32-bit
	// encoding; Classify needs it to tell those encodings apart.
	var hw2 uint16
	if instrWidthGuess(hw1) == 4 {
		hw2, f = c.Bus.ReadU16(pc + 2)
		if f != nil {
			c.Exc.Pend(ExcHardFault)
			return c.ServiceExceptions()
		}
	}
	enc := decode.Classify(hw1, hw2)

	if enc == decode.Unsupported {
		if c.strict {
			return UnsupportedInstruction{Opcode: hw1, Address: pc}
		}
		c.Exc.Pend(ExcHardFault) // promoted UsageFault, modeled as HardFault-pending per spec.md section 7
		c.Regs.Write(PC, pc+uint32(instrWidthGuess(hw1)))
		return c.ServiceExceptions()
	}

	c.Regs.Write(PC, pc+uint32(decode.Width(enc)))
	if err := c.execute(enc, hw1, hw2, pc); err != nil {
		return err
	}
	return c.ServiceExceptions()
}

// instrWidthGuess reports the width implied by hw1's top bits alone: 4
// when they are in the 32-bit instruction range, else 2. Step uses it
// to decide whether to fetch a second halfword, and on the
// unsupported-instruction path (where decode.Width(Unsupported) can't
// tell us how far to advance) so the PC never stalls.
func instrWidthGuess(hw1 uint16) int {
	if hw1&0xE000 == 0xE000 && hw1&0xF800 != 0xE000 {
		return 4
	}
	return 2
}

// RunUntil repeatedly calls Step until predicate returns true, a fault
// is raised, Lockup is reached, or RequestStop has been called.
func (c *Chip) RunUntil(predicate func(*Chip) bool) error {
	for {
		if c.requestStop || c.lockedUp || predicate(c) {
			c.requestStop = false
			return nil
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
}

// pcRead returns the value instructions see when they read PC as an
// operand: the instruction's own address plus 4, regardless of
// whether the instruction itself is 2 or 4 bytes wide (spec.md section
// 4.6's "PC as read" rule).
func pcRead(instrAddr uint32) uint32 {
	return instrAddr + 4
}
