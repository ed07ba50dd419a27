package memory

import (
	"testing"

	"github.com/go-test/deep"
)

func TestSRAMReadWriteLittleEndian(t *testing.T) {
	b := New(Config{})
	if f := b.WriteU32(SRAMBase+4, 0xF00DF00D); f != nil {
		t.Fatalf("WriteU32: %v", f)
	}
	got, f := b.ReadU32(SRAMBase + 4)
	if f != nil {
		t.Fatalf("ReadU32: %v", f)
	}
	if got != 0xF00DF00D {
		t.Errorf("ReadU32 = %#x, want 0xF00DF00D", got)
	}
	lo, f := b.ReadU8(SRAMBase + 4)
	if f != nil || lo != 0x0D {
		t.Errorf("low byte = %#x, %v, want 0x0D, nil", lo, f)
	}
}

func TestFlashWriteFromCoreFaults(t *testing.T) {
	b := New(Config{})
	f := b.WriteU8(FlashBase, 0x42)
	if f == nil || f.Kind != FaultWriteProtected {
		t.Fatalf("WriteU8 to flash = %v, want FaultWriteProtected", f)
	}
}

func TestLoaderFlashWriteBypassesFault(t *testing.T) {
	b := New(Config{})
	if err := b.WriteFlash(FlashBase, []uint8{1, 2, 3}); err != nil {
		t.Fatalf("WriteFlash: %v", err)
	}
	got, f := b.ReadU8(FlashBase + 2)
	if f != nil || got != 3 {
		t.Errorf("ReadU8 after WriteFlash = %#x, %v, want 3, nil", got, f)
	}
}

func TestUnmappedReadReturnsZeroAndFault(t *testing.T) {
	b := New(Config{})
	got, f := b.ReadU8(0x6000_0000)
	if got != 0 {
		t.Errorf("unmapped read = %#x, want 0", got)
	}
	if f == nil || f.Kind != FaultUnmapped {
		t.Errorf("unmapped read fault = %v, want FaultUnmapped", f)
	}
}

func TestWriteFlashPayloadMatchesExactly(t *testing.T) {
	b := New(Config{})
	payload := []uint8{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02}
	if err := b.WriteFlash(FlashBase+0x100, payload); err != nil {
		t.Fatalf("WriteFlash: %v", err)
	}
	got := make([]uint8, len(payload))
	for i := range got {
		v, f := b.ReadU8(FlashBase + 0x100 + uint32(i))
		if f != nil {
			t.Fatalf("ReadU8 at offset %d: %v", i, f)
		}
		got[i] = v
	}
	if diff := deep.Equal(payload, got); diff != nil {
		t.Errorf("flash payload mismatch: %v", diff)
	}
}

type stubPeripheral struct {
	reg uint8
}

func (s *stubPeripheral) ReadByte(offset uint32) uint8 {
	return s.reg
}

func (s *stubPeripheral) WriteByte(offset uint32, val uint8) {
	s.reg = val
}

func TestInstallPeripheralDelegates(t *testing.T) {
	b := New(Config{})
	p := &stubPeripheral{}
	b.InstallPeripheral(APBBase, 0x1000, p)
	if f := b.WriteU8(APBBase+4, 0x55); f != nil {
		t.Fatalf("WriteU8: %v", f)
	}
	if p.reg != 0x55 {
		t.Errorf("peripheral register = %#x, want 0x55", p.reg)
	}
	got, f := b.ReadU8(APBBase + 4)
	if f != nil || got != 0x55 {
		t.Errorf("ReadU8 = %#x, %v, want 0x55, nil", got, f)
	}
}

func TestInstallPeripheralOverlapPanics(t *testing.T) {
	b := New(Config{})
	p := &stubPeripheral{}
	b.InstallPeripheral(APBBase, 0x1000, p)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on overlapping install")
		}
	}()
	b.InstallPeripheral(APBBase+0x10, 0x10, p)
}
