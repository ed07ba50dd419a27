package cpu

import "testing"

func TestFixedSystemPriorities(t *testing.T) {
	e := NewExceptions()
	if p := e.Priority(ExcReset); p != -3 {
		t.Errorf("Reset priority = %d, want -3", p)
	}
	if p := e.Priority(ExcNMI); p != -2 {
		t.Errorf("NMI priority = %d, want -2", p)
	}
	if p := e.Priority(ExcHardFault); p != -1 {
		t.Errorf("HardFault priority = %d, want -1", p)
	}
}

func TestHighestPrefersLowerPriorityNumber(t *testing.T) {
	e := NewExceptions()
	e.SetSystemPriority(ExcSVCall, 2)
	e.SetExternalEnable(0, true)
	e.SetExternalPriority(0, 1)

	e.Pend(ExcSVCall)
	e.Pend(firstExternal)

	n, ok := e.Highest()
	if !ok || n != firstExternal {
		t.Errorf("Highest() = (%d,%v), want (%d,true)", n, ok, firstExternal)
	}
}

func TestHighestRespectsActiveCeiling(t *testing.T) {
	e := NewExceptions()
	e.SetActive(ExcNMI) // priority -2 active
	e.SetSystemPriority(ExcSVCall, 1)
	e.Pend(ExcSVCall) // priority 1, does not outrank -2
	if _, ok := e.Highest(); ok {
		t.Error("Highest() returned an exception that does not outrank the active one")
	}

	e.Pend(ExcNMI) // can't re-pend same priority usefully, but HardFault does outrank NMI? no, -1 > -2
	// HardFault is lower priority (numerically higher) than active NMI, so still not eligible.
	e.Pend(ExcHardFault)
	if _, ok := e.Highest(); ok {
		t.Error("Highest() returned HardFault though NMI(-2) is active and outranks it")
	}
}

func TestPrimaskMasksConfigurableOnly(t *testing.T) {
	e := NewExceptions()
	e.SetPrimask(true)
	e.SetSystemPriority(ExcSVCall, 0)
	e.Pend(ExcSVCall)
	e.Pend(ExcNMI)

	n, ok := e.Highest()
	if !ok || n != ExcNMI {
		t.Errorf("Highest() with PRIMASK set = (%d,%v), want (%d,true) for NMI", n, ok, ExcNMI)
	}
}

func TestActiveSetConsistentWithAnyActive(t *testing.T) {
	e := NewExceptions()
	if e.AnyActive() {
		t.Error("fresh Exceptions reports AnyActive")
	}
	e.SetActive(ExcSVCall)
	if !e.AnyActive() {
		t.Error("AnyActive false after SetActive")
	}
	e.ClearActive(ExcSVCall)
	if e.AnyActive() {
		t.Error("AnyActive true after ClearActive")
	}
}
