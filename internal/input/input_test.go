package input

import "testing"

func TestShiftRegisterClocksButtonsInOrder(t *testing.T) {
	i := New()
	i.SetButton(ButtonB, true)
	i.SetButton(ButtonStart, true)

	i.WriteRegister(0, 1) // strobe high
	i.WriteRegister(0, 0) // strobe low: latch

	var bits [16]uint8
	for n := 0; n < 16; n++ {
		bits[n] = i.ReadRegister(0)
	}

	if bits[ButtonB] != 1 {
		t.Fatalf("bit %d (B) = %d, want 1", ButtonB, bits[ButtonB])
	}
	if bits[ButtonStart] != 1 {
		t.Fatalf("bit %d (Start) = %d, want 1", ButtonStart, bits[ButtonStart])
	}
	if bits[ButtonY] != 0 {
		t.Fatalf("bit %d (Y) = %d, want 0 (not held)", ButtonY, bits[ButtonY])
	}
}

func TestReadsPastSixteenBitsReadHigh(t *testing.T) {
	i := New()
	i.WriteRegister(0, 1)
	i.WriteRegister(0, 0)
	for n := 0; n < 16; n++ {
		i.ReadRegister(0)
	}
	if v := i.ReadRegister(0); v != 1 {
		t.Fatalf("read past bit 16 = %d, want 1", v)
	}
}

func TestStrobeHighReflectsLiveState(t *testing.T) {
	i := New()
	i.WriteRegister(0, 1) // strobe high: continuous capture
	if v := i.ReadRegister(0); v != 0 {
		t.Fatalf("B not held, expected 0, got %d", v)
	}
	i.SetButton(ButtonB, true)
	if v := i.ReadRegister(0); v != 1 {
		t.Fatalf("B held while strobe high should read live, got %d", v)
	}
}

func TestController2ReadsHigh(t *testing.T) {
	i := New()
	if v := i.ReadRegister(1); v != 1 {
		t.Fatalf("unplugged controller 2 should read high, got %d", v)
	}
}
