package bits

import "testing"

func TestAddWithCarry(t *testing.T) {
	tests := []struct {
		name          string
		x, y          uint32
		cin           bool
		sum           uint32
		cout, overflow bool
	}{
		{"55+66+c1", 55, 66, true, 122, false, false},
		{"0x7FFFFFFF+0+c1", 0x7FFFFFFF, 0, true, 0x80000000, false, true},
		{"0x80000000+0x80000000+c0", 0x80000000, 0x80000000, false, 0, true, true},
		{"0xFFFFFFFF+1+c0", 0xFFFFFFFF, 1, false, 0, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sum, cout, v := AddWithCarry(tc.x, tc.y, tc.cin)
			if sum != tc.sum || cout != tc.cout || v != tc.overflow {
				t.Errorf("AddWithCarry(%#x,%#x,%v) = (%#x,%v,%v), want (%#x,%v,%v)",
					tc.x, tc.y, tc.cin, sum, cout, v, tc.sum, tc.cout, tc.overflow)
			}
		})
	}
}

func TestSignExtend(t *testing.T) {
	if got := SignExtend(0x7F, 7, 32); got != 0x7F {
		t.Errorf("positive imm8 sign extend = %#x, want 0x7F", got)
	}
	if got := SignExtend(0xFF, 7, 32); got != 0xFFFFFFFF {
		t.Errorf("negative imm8 sign extend = %#x, want 0xFFFFFFFF", got)
	}
	if got := SignExtend(0x3FF, 10, 32); got != 0x3FF {
		t.Errorf("positive imm11 sign extend = %#x, want 0x3FF", got)
	}
	if got := SignExtend(0x401, 10, 32); got != 0xFFFFFC01 {
		t.Errorf("negative imm11 sign extend = %#x, want 0xFFFFFC01", got)
	}
}

func TestShiftCBoundary(t *testing.T) {
	if res, c := ShiftC(0x80000000, ASR, 32, false); res != 0xFFFFFFFF || !c {
		t.Errorf("ASR #32 of 0x80000000 = (%#x,%v), want (0xFFFFFFFF,true)", res, c)
	}
	if res, c := ShiftC(0x1, LSL, 0, true); res != 1 || !c {
		t.Errorf("LSL #0 changed carry: (%#x,%v)", res, c)
	}
	if res, c := ShiftC(0x1, LSL, 32, false); res != 0 || !c {
		t.Errorf("LSL #32 of 1 = (%#x,%v), want (0,true)", res, c)
	}
	if res, c := ShiftC(0x2, LSL, 32, false); res != 0 || c {
		t.Errorf("LSL #32 of 2 = (%#x,%v), want (0,false)", res, c)
	}
}

func TestShiftCRRX(t *testing.T) {
	res, c := ShiftC(0x1, RRX, 1, true)
	if res != 0x80000000 || !c {
		t.Errorf("RRX of 1 with carry_in=1 = (%#x,%v), want (0x80000000,true)", res, c)
	}
}

func TestDecodeImmShift(t *testing.T) {
	if typ, n := DecodeImmShift(1, 0); typ != LSR || n != 32 {
		t.Errorf("LSR imm5=0 = (%v,%d), want (LSR,32)", typ, n)
	}
	if typ, n := DecodeImmShift(2, 0); typ != ASR || n != 32 {
		t.Errorf("ASR imm5=0 = (%v,%d), want (ASR,32)", typ, n)
	}
	if typ, n := DecodeImmShift(3, 0); typ != RRX || n != 1 {
		t.Errorf("ROR imm5=0 = (%v,%d), want (RRX,1)", typ, n)
	}
	if typ, n := DecodeImmShift(3, 4); typ != ROR || n != 4 {
		t.Errorf("ROR imm5=4 = (%v,%d), want (ROR,4)", typ, n)
	}
}
