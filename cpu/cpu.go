// Package cpu implements the RP2350 core's register file, program
// status, exception model, and Thumb-2 executor: the Chip type is the
// host embedding API named in spec.md section 6.
package cpu

import (
	"log"

	"github.com/jmchacon/rp2350sim/irq"
	"github.com/jmchacon/rp2350sim/memory"
)

// VTOR default: this simulator always loads firmware into the flash
// window (C8, package hexload writes there), so the reset vector table
// is assumed to live at the base of flash unless SetVTOR overrides it.
const defaultVTOR = memory.FlashBase

// Config configures a new Chip at construction.
type Config struct {
	Memory memory.Config
	// Strict selects the decoder's unsupported-encoding policy
	// (spec.md section 4.5): true returns UnsupportedInstruction
	// synchronously from Step, false pends HardFault (modeling
	// UsageFault) and continues.
	Strict bool
}

// Chip is the RP2350 core: register file, program status, CONTROL,
// mode, memory bus, and exception model, all owned exclusively by this
// instance (spec.md section 5 — no resource here is shared across
// goroutines).
type Chip struct {
	Regs    Registers
	PSR     PSR
	Control Control
	Mode    Mode
	Bus     *memory.Bus
	Exc     *Exceptions

	vtor uint32

	strict      bool
	requestStop bool
	lockedUp    bool

	ppb *ppbHandler

	// irqSources holds, per external interrupt number (NVIC input
	// 0..=31), the peripheral that raises it. ServiceExceptions polls
	// these each step and pends the mapped exception when Raised is
	// true, the way AttachIRQSource's doc comment describes.
	irqSources [lastException - firstExternal + 1]irq.Source
}

// AttachIRQSource installs src as the raiser of external interrupt
// number irqNum (0..=31, NVIC input numbering), which maps to
// exception number firstExternal+irqNum. ServiceExceptions polls
// src.Raised() every step and pends that exception when it is true,
// so a peripheral model never needs to call PendInterrupt itself.
func (c *Chip) AttachIRQSource(irqNum int, src irq.Source) {
	c.irqSources[irqNum] = src
}

// pollIRQSources pends the mapped exception number for every attached
// irq.Source currently reporting Raised.
func (c *Chip) pollIRQSources() {
	for i, src := range c.irqSources {
		if src == nil {
			continue
		}
		if src.Raised() {
			c.Exc.Pend(uint16(firstExternal + i))
		}
	}
}

// New constructs a Chip with a freshly allocated memory bus (ROM,
// flash, and SRAM windows per cfg.Memory) and the private peripheral
// bus (NVIC/SHPR/SCB) installed and backed by the Chip's own exception
// table, mirroring the teacher's pattern of wiring a peripheral's
// register window against the bus at construction
// (atari2600.newController in the retrieval pack).
func New(cfg Config) *Chip {
	c := &Chip{
		PSR:  NewPSR(),
		Exc:  NewExceptions(),
		Bus:  memory.New(cfg.Memory),
		vtor: defaultVTOR,
		strict: cfg.Strict,
	}
	c.ppb = newPPBHandler(c)
	c.Bus.InstallPeripheral(memory.PPBBase, memory.PPBSize, c.ppb)
	c.Exc.SetActive(ExcReset) // reset is "active" only conceptually; cleared again right away
	c.Exc.ClearActive(ExcReset)
	return c
}

// SetPC sets the initial program counter, used after loading an image
// instead of vectoring through Reset (tests and the CLI's -pc flag
// both bypass the reset sequence for determinism).
func (c *Chip) SetPC(addr uint32) {
	c.Regs.Write(PC, addr)
}

// SetVTOR overrides the vector table base address.
func (c *Chip) SetVTOR(addr uint32) { c.vtor = addr }

// InspectRegister returns the current value of register i (0..=15),
// part of the host embedding API (spec.md section 6).
func (c *Chip) InspectRegister(i int) uint32 {
	return c.Regs.Read(i)
}

// InspectFlag returns the named APSR flag's current value. Recognized
// names: "N", "Z", "C", "V", "Q".
func (c *Chip) InspectFlag(name string) bool {
	switch name {
	case "N":
		return c.PSR.N
	case "Z":
		return c.PSR.Z
	case "C":
		return c.PSR.C
	case "V":
		return c.PSR.V
	case "Q":
		return c.PSR.Q
	default:
		return false
	}
}

// ReadMemory reads len bytes starting at addr for inspection. Unmapped
// bytes read as zero, matching the bus's own read fault handling.
func (c *Chip) ReadMemory(addr uint32, length int) []uint8 {
	out := make([]uint8, length)
	for i := 0; i < length; i++ {
		v, _ := c.Bus.ReadU8(addr + uint32(i))
		out[i] = v
	}
	return out
}

// PendInterrupt marks exception number n pending directly, part of the
// host embedding API, for embedders that want to pend an interrupt
// without modeling it as an irq.Source. Peripherals that do implement
// irq.Source should be installed with AttachIRQSource instead; those
// are polled automatically every step.
func (c *Chip) PendInterrupt(n uint16) {
	c.Exc.Pend(n)
}

// RequestStop asks the step driver to stop at the next instruction
// boundary. Checked by RunUntil; Step itself always executes exactly
// one instruction regardless of this flag.
func (c *Chip) RequestStop() { c.requestStop = true }

// LockedUp reports whether the core has reached the terminal Lockup
// state (double HardFault). Once true, Step is a no-op forever.
func (c *Chip) LockedUp() bool { return c.lockedUp }

func (c *Chip) logUnpredictable(format string, args ...any) {
	log.Printf("UNPREDICTABLE: "+format, args...)
}
