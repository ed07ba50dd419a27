package cpu

import "fmt"

// InvalidCPUState reports that the core reached a state its model
// doesn't define a transition for (e.g. a bus fault while unstacking an
// exception frame on return).
type InvalidCPUState struct {
	Reason string
}

func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// UnsupportedInstruction reports that the decoder found no matching
// encoding variant for a fetched opcode. In a strict build this is
// returned synchronously from Step; in a lenient build it is instead
// promoted internally to a pending fault (spec.md section 4.5). This
// model has no separate UsageFault exception: every UsageFault-class
// condition is pended as ExcHardFault.
type UnsupportedInstruction struct {
	Opcode  uint16
	Address uint32
}

func (e UnsupportedInstruction) Error() string {
	return fmt.Sprintf("unsupported instruction %#04x at %#08x", e.Opcode, e.Address)
}

// Lockup reports that the core took a HardFault while HardFault was
// already active, the terminal double-fault state. Once Lockup is
// returned, Step is a permanent no-op (spec.md section 5).
type Lockup struct {
	Reason string
}

func (e Lockup) Error() string {
	return fmt.Sprintf("lockup: %s", e.Reason)
}
