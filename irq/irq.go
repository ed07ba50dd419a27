// Package irq defines the basic interface for working with an external
// interrupt source in the RP2350's NVIC. A peripheral model installed on
// the memory bus implements this interface to raise its mapped external
// interrupt without cross coupling peripheral logic into the exception
// model.
// NOTE: the architecture distinguishes level and pulse interrupts at the
// NVIC input; this interface doesn't, and assumes implementors latch a
// pending condition until it is explicitly cleared by the handler that
// services it.
package irq

// Source defines the interface for an external interrupt source (an
// NVIC input 0..=31, exception numbers 16..=47).
type Source interface {
	// Raised indicates whether this source currently wants its mapped
	// exception number to be pended.
	Raised() bool
}
