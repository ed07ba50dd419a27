package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
)

func TestPCWriteClearsBit0(t *testing.T) {
	var r Registers
	r.Write(PC, 0x2000_0011)
	if got := r.Read(PC); got != 0x2000_0010 {
		t.Errorf("PC = %#x, want 0x20000010", got)
	}
}

func TestSPWriteAligns(t *testing.T) {
	var r Registers
	r.Write(SP, 0x2000_0103)
	if got := r.Read(SP); got != 0x2000_0100 {
		t.Errorf("SP = %#x, want 0x20000100", got)
	}
}

func TestBankedStackPointer(t *testing.T) {
	var r Registers
	r.SetMSP(0x2000_0100)
	r.SetPSP(0x2000_0200)

	r.SetStackSelect(false)
	if got := r.Read(SP); got != 0x2000_0100 {
		t.Errorf("MSP selected, SP = %#x, want 0x20000100", got)
	}

	r.SetStackSelect(true)
	if got := r.Read(SP); got != 0x2000_0200 {
		t.Errorf("PSP selected, SP = %#x, want 0x20000200", got)
	}

	r.Write(SP, 0x2000_0300)
	if r.PSP() != 0x2000_0300 {
		t.Errorf("PSP after write = %#x, want 0x20000300", r.PSP())
	}
	if r.MSP() != 0x2000_0100 {
		t.Errorf("MSP changed unexpectedly: %#x", r.MSP())
	}
}

func TestGeneralRegisterRoundTrip(t *testing.T) {
	var r Registers
	r.Write(R4, 0xDEAD_BEEF)
	if got := r.Read(R4); got != 0xDEAD_BEEF {
		t.Errorf("R4 = %#x, want 0xDEADBEEF", got)
	}
}

// TestAllRegistersRoundTrip writes a distinct value to every register
// and diffs the readback against what was written, spew-dumping the
// register file on any mismatch.
func TestAllRegistersRoundTrip(t *testing.T) {
	var r Registers
	want := make(map[int]uint32, NumRegisters)
	for i := 0; i < NumRegisters; i++ {
		v := uint32(i)*0x1111_1111 + 1
		r.Write(i, v)
		switch i {
		case PC:
			want[i] = v &^ 0x1
		case SP:
			want[i] = v &^ 0x3
		default:
			want[i] = v
		}
	}

	got := make(map[int]uint32, NumRegisters)
	for i := 0; i < NumRegisters; i++ {
		got[i] = r.Read(i)
	}

	if diff := deep.Equal(want, got); diff != nil {
		t.Errorf("register round trip mismatch: %v\nfull state: %s", diff, spew.Sdump(r))
	}
}
