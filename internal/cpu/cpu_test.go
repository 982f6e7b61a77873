package cpu

import "testing"

// fakeBus is a flat 16 MiB address space for isolated CPU testing.
type fakeBus struct {
	mem [1 << 24]uint8
}

func (b *fakeBus) Read8(addr uint32) uint8   { return b.mem[addr&0xFFFFFF] }
func (b *fakeBus) Write8(addr uint32, v uint8) { b.mem[addr&0xFFFFFF] = v }

func newTestCPU() (*CPU, *fakeBus) {
	bus := &fakeBus{}
	bus.Write8(0xFFFC, 0x00)
	bus.Write8(0xFFFD, 0x80) // reset vector -> 0x0000:8000
	c := New(bus)
	return c, bus
}

func TestResetReadsVectorAndDefaults(t *testing.T) {
	c, _ := newTestCPU()
	if c.State.PC != 0x8000 {
		t.Fatalf("PC after reset = 0x%04X, want 0x8000", c.State.PC)
	}
	if c.State.SP != 0x01FF {
		t.Fatalf("SP after reset = 0x%04X, want 0x01FF", c.State.SP)
	}
	if !c.State.Emulation {
		t.Fatal("CPU should start in emulation mode")
	}
	if !c.eightBitMemory() || !c.eightBitIndex() {
		t.Fatal("emulation mode must force 8-bit M and X")
	}
	if !c.flagSet(FlagI) {
		t.Fatal("IRQ-disable must be set on reset")
	}
}

func TestLDAImmediateAndFlags(t *testing.T) {
	c, bus := newTestCPU()
	bus.Write8(0x8000, 0xA9) // LDA #imm
	bus.Write8(0x8001, 0x00)
	c.Step()
	if !c.flagSet(FlagZ) {
		t.Fatal("loading 0 should set Zero")
	}

	c.State.PC = 0x8000
	bus.Write8(0x8000, 0xA9)
	bus.Write8(0x8001, 0x80)
	c.Step()
	if !c.flagSet(FlagN) {
		t.Fatal("loading 0x80 (8-bit) should set Negative")
	}
	if c.State.A&0x00FF != 0x80 {
		t.Fatalf("A low byte = 0x%02X, want 0x80", c.State.A&0xFF)
	}
}

func TestWidthDiscipline16BitAccumulator(t *testing.T) {
	c, bus := newTestCPU()
	c.State.Emulation = false
	c.State.P &^= FlagM // 16-bit accumulator

	bus.Write8(0x8000, 0xA9) // LDA #imm (16-bit now)
	bus.Write8(0x8001, 0x34)
	bus.Write8(0x8002, 0x12)
	c.Step()
	if c.State.A != 0x1234 {
		t.Fatalf("A = 0x%04X, want 0x1234", c.State.A)
	}
}

func TestNarrowAccumulatorWritePreservesHighByte(t *testing.T) {
	c, _ := newTestCPU()
	c.State.Emulation = false
	c.State.P &^= FlagM
	c.State.A = 0xBEEF
	c.State.P |= FlagM // narrow to 8-bit
	c.setAccum(0x99)
	if c.State.A != 0xBE99 {
		t.Fatalf("narrowing write should only touch the low byte, got 0x%04X", c.State.A)
	}
}

func TestADCBinaryCarryAndOverflow(t *testing.T) {
	c, bus := newTestCPU()
	c.State.A = 0x7F // 8-bit emulation mode
	bus.Write8(0x8000, 0x69) // ADC #imm
	bus.Write8(0x8001, 0x01)
	c.Step()
	if c.State.A&0xFF != 0x80 {
		t.Fatalf("A = 0x%02X, want 0x80", c.State.A&0xFF)
	}
	if !c.flagSet(FlagV) {
		t.Fatal("0x7F + 0x01 should set Overflow (signed 127 -> -128)")
	}
	if c.flagSet(FlagC) {
		t.Fatal("0x7F + 0x01 should not set Carry")
	}
}

func TestBranchTaken(t *testing.T) {
	c, bus := newTestCPU()
	c.State.P |= FlagZ
	bus.Write8(0x8000, 0xF0) // BEQ
	bus.Write8(0x8001, 0x10) // +16
	c.Step()
	if c.State.PC != 0x8012 {
		t.Fatalf("PC after taken branch = 0x%04X, want 0x8012", c.State.PC)
	}
}

func TestStackPushPullEmulationPinsSPHighByte(t *testing.T) {
	c, _ := newTestCPU()
	c.push8(0x42)
	if c.State.SP&0xFF00 != 0x0100 {
		t.Fatalf("SP high byte = 0x%02X, want 0x01 (emulation-mode pin)", c.State.SP>>8)
	}
	if v := c.pull8(); v != 0x42 {
		t.Fatalf("pulled 0x%02X, want 0x42", v)
	}
}

func TestXCESwapsCarryAndEmulation(t *testing.T) {
	c, _ := newTestCPU()
	c.State.Emulation = false
	c.State.P &^= (FlagM | FlagX)
	c.State.P |= FlagC // carry set selects emulation mode after the exchange

	opXCE(c, modeImplied)
	if !c.State.Emulation {
		t.Fatal("XCE should have entered emulation mode (carry was set)")
	}
	if !c.flagSet(FlagM) || !c.flagSet(FlagX) {
		t.Fatal("entering emulation mode must force 8-bit M and X")
	}
}

func TestNMIDeliveredOnNextStep(t *testing.T) {
	c, bus := newTestCPU()
	bus.Write8(vectorNMIEmu, 0x00)
	bus.Write8(vectorNMIEmu+1, 0x90) // NMI vector -> 0x9000

	bus.Write8(0x8000, 0xEA) // NOP, so the pending NMI preempts it
	c.TriggerNMI()
	c.Step()
	if c.State.PC != 0x9000 {
		t.Fatalf("PC after NMI = 0x%04X, want 0x9000", c.State.PC)
	}
	if !c.flagSet(FlagI) {
		t.Fatal("NMI entry must set the I flag")
	}
}

func TestUnknownOpcodeIsNonFatal(t *testing.T) {
	c, bus := newTestCPU()
	bus.Write8(0x8000, 0x03) // unmapped by this opcode table
	cycles := c.Step()
	if c.UnknownOpcodeCount != 1 {
		t.Fatalf("UnknownOpcodeCount = %d, want 1", c.UnknownOpcodeCount)
	}
	if cycles != 2 {
		t.Fatalf("unknown-opcode cycles = %d, want 2", cycles)
	}
}

func TestJSRThenRTSRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	bus.Write8(0x8000, 0x20) // JSR
	bus.Write8(0x8001, 0x00)
	bus.Write8(0x8002, 0x90)
	bus.Write8(0x9000, 0x60) // RTS

	c.Step() // JSR
	if c.State.PC != 0x9000 {
		t.Fatalf("PC after JSR = 0x%04X, want 0x9000", c.State.PC)
	}
	c.Step() // RTS
	if c.State.PC != 0x8003 {
		t.Fatalf("PC after RTS = 0x%04X, want 0x8003 (return address + 1)", c.State.PC)
	}
}
