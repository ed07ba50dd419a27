package hexload

import (
	"strings"
	"testing"

	"github.com/jmchacon/rp2350sim/memory"
)

func checksumByte(fields ...[]byte) byte {
	var sum byte
	for _, f := range fields {
		for _, b := range f {
			sum += b
		}
	}
	return uint8(-int8(sum))
}

func dataRecord(addr uint16, payload []byte) string {
	rec := []byte{byte(len(payload)), byte(addr >> 8), byte(addr), recData}
	rec = append(rec, payload...)
	cksum := checksumByte(rec)
	return ":" + hexEncode(rec) + hexEncode([]byte{cksum})
}

func hexEncode(b []byte) string {
	const digits = "0123456789ABCDEF"
	out := make([]byte, 0, len(b)*2)
	for _, v := range b {
		out = append(out, digits[v>>4], digits[v&0xF])
	}
	return string(out)
}

func eofRecord() string {
	return ":00000001FF"
}

func TestLoadSimpleImage(t *testing.T) {
	bus := memory.New(memory.Config{FlashSize: 4096, SRAMSize: 4096})
	text := strings.Join([]string{
		dataRecord(0, []byte{0xDE, 0xAD, 0xBE, 0xEF}),
		eofRecord(),
	}, "\n")

	if err := Load(bus, text); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i, want := range []byte{0xDE, 0xAD, 0xBE, 0xEF} {
		got, f := bus.ReadU8(memory.FlashBase + uint32(i))
		if f != nil {
			t.Fatalf("ReadU8: %v", f)
		}
		if got != want {
			t.Errorf("flash[%d] = %#x, want %#x", i, got, want)
		}
	}
}

func TestLoadExtendedLinearAddress(t *testing.T) {
	bus := memory.New(memory.Config{FlashSize: 1 << 20, SRAMSize: 4096})
	ela := []byte{2, 0, 0, recExtendedLinearAddress, 0x10, 0x01}
	elaRec := ":" + hexEncode(ela) + hexEncode([]byte{checksumByte(ela)})

	text := strings.Join([]string{
		elaRec,
		dataRecord(0x0004, []byte{0x01, 0x02}),
		eofRecord(),
	}, "\n")

	if err := Load(bus, text); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, f := bus.ReadU8(0x10010004)
	if f != nil {
		t.Fatalf("ReadU8: %v", f)
	}
	if got != 0x01 {
		t.Errorf("flash[0x10010004] = %#x, want 0x01", got)
	}
}

func TestLoadBadChecksum(t *testing.T) {
	bus := memory.New(memory.Config{FlashSize: 4096, SRAMSize: 4096})
	if err := Load(bus, ":0400000000DEADBEEF00\n"); err == nil {
		t.Fatal("expected a checksum error, got nil")
	}
}

func TestLoadMissingColon(t *testing.T) {
	bus := memory.New(memory.Config{FlashSize: 4096, SRAMSize: 4096})
	if err := Load(bus, "0400000000DEADBEEF00\n"); err == nil {
		t.Fatal("expected a malformed-line error, got nil")
	}
}
