package emulator

import (
	"bytes"
	"encoding/gob"
	"testing"

	"gosnescore/internal/input"
)

// buildTestCartridge returns a minimal valid low-mapped cartridge image
// with a checksum that balances against its complement, with its reset
// vector (0xFFFC relative to bank 0 in low-mapped space, which lands at
// byte offset 0x7FFC in this flat image) pointed at 0x8000.
func buildTestCartridge() []byte {
	const (
		base           = 0x7FB0
		hdrROMType     = 0x25
		hdrMapMode     = 0x26
		hdrROMSize     = 0x27
		hdrSRAMSize    = 0x28
		hdrChecksum    = 0x2C
		hdrChecksumInv = 0x2E
	)
	data := make([]byte, 0x10000)
	copy(data[base:base+21], []byte("TESTROM              "))
	data[base+hdrROMType] = 0x00
	data[base+hdrMapMode] = 0x20
	data[base+hdrROMSize] = 0x06
	data[base+hdrSRAMSize] = 0x00

	// Reset vector (low-mapped bank 0, 0xFFFC -> ROM offset 0x7FFC) -> 0x8000.
	data[0x7FFC] = 0x00
	data[0x7FFD] = 0x80

	var sum uint16
	for i, b := range data {
		if i >= base+hdrChecksum && i < base+hdrChecksum+4 {
			continue
		}
		sum += uint16(b)
	}
	compl := ^sum
	data[base+hdrChecksum] = uint8(sum)
	data[base+hdrChecksum+1] = uint8(sum >> 8)
	data[base+hdrChecksumInv] = uint8(compl)
	data[base+hdrChecksumInv+1] = uint8(compl >> 8)
	return data
}

func newTestEmulator(t *testing.T) *Emulator {
	t.Helper()
	e := New()
	if err := e.LoadCartridge(buildTestCartridge()); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	e.Reset()
	return e
}

func TestRunIsNoOpUntilStarted(t *testing.T) {
	e := newTestEmulator(t)
	before := e.FrameCount
	e.Run()
	if e.FrameCount != before {
		t.Fatal("Run before Start should not advance a frame")
	}
}

func TestRunAdvancesOneFrameWhenStarted(t *testing.T) {
	e := newTestEmulator(t)
	e.Start()
	e.Run()
	if e.FrameCount != 1 {
		t.Fatalf("FrameCount = %d, want 1", e.FrameCount)
	}
}

func TestRunDeliversNMIAtVBlankWhenEnabled(t *testing.T) {
	e := newTestEmulator(t)
	e.Bus.NMIEnable = true
	e.Start()
	e.Run()
	// The remainder of the frame after the vblank boundary gives the CPU
	// enough Step calls to service the latched NMI before Run returns.
	if e.CPU.State.NMIPending {
		t.Fatal("NMI raised at vblank should have been serviced before the frame ends")
	}
	if e.Bus.InVBlank {
		t.Fatal("InVBlank should be cleared again once the frame completes")
	}
}

func TestRunInvokesFrameSink(t *testing.T) {
	e := newTestEmulator(t)
	var got []byte
	e.SetFrameSink(func(frame []byte) { got = frame })
	e.Start()
	e.Run()
	if got == nil {
		t.Fatal("frame sink was never invoked")
	}
	if len(got) == 0 {
		t.Fatal("frame sink received an empty frame")
	}
}

func TestStopHaltsRun(t *testing.T) {
	e := newTestEmulator(t)
	e.Start()
	e.Run()
	e.Stop()
	count := e.FrameCount
	e.Run()
	if e.FrameCount != count {
		t.Fatal("Run after Stop should not advance a frame")
	}
}

func TestResetRetainsCartridge(t *testing.T) {
	e := newTestEmulator(t)
	e.Start()
	e.Run()
	e.Reset()
	if e.FrameCount != 0 {
		t.Fatalf("FrameCount after Reset = %d, want 0", e.FrameCount)
	}
	if e.Cart == nil {
		t.Fatal("Reset should not drop the loaded cartridge")
	}
}

func TestSetButtonReachesInputComponent(t *testing.T) {
	e := newTestEmulator(t)
	e.SetButton(input.ButtonA, true)
	if e.Input.Buttons&(1<<uint(input.ButtonA)) == 0 {
		t.Fatal("SetButton should set the bit on the Input component")
	}
}

func TestFillAudioProducesSilentBuffer(t *testing.T) {
	e := newTestEmulator(t)
	left := make([]float32, 64)
	right := make([]float32, 64)
	left[0], right[0] = 1, 1 // sentinel, should be overwritten
	e.FillAudio(left, right)
	for i, v := range left {
		if v != 0 {
			t.Fatalf("left[%d] = %f, want 0", i, v)
		}
	}
}

func TestDiagnosticsReflectsComponentCounters(t *testing.T) {
	e := newTestEmulator(t)
	e.CPU.UnknownOpcodeCount = 3
	e.Bus.Diagnostics.MappingWarnings = 2
	e.Bus.Diagnostics.SRAMBoundsWarnings = 1

	d := e.Diagnostics()
	if d.DecodeMiss != 3 || d.MappingWarning != 2 || d.SRAMBoundsWarning != 1 {
		t.Fatalf("Diagnostics() = %+v, want {3 2 1}", d)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	e := newTestEmulator(t)
	e.Start()
	e.Run()
	e.Run()
	e.SetButton(input.ButtonStart, true)
	e.PPU.VRAM[10] = 0xBEEF
	e.Bus.WorkRAM[42] = 0x7A
	e.CPU.UnknownOpcodeCount = 5
	e.Bus.Diagnostics.MappingWarnings = 4

	blob, err := e.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	other := newTestEmulator(t)
	if err := other.Restore(blob); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if other.FrameCount != e.FrameCount {
		t.Fatalf("FrameCount = %d, want %d", other.FrameCount, e.FrameCount)
	}
	if other.Diagnostics() != e.Diagnostics() {
		t.Fatalf("Diagnostics() = %+v, want %+v", other.Diagnostics(), e.Diagnostics())
	}
	if other.CPU.State != e.CPU.State {
		t.Fatalf("CPU.State mismatch after restore:\n got %+v\nwant %+v", other.CPU.State, e.CPU.State)
	}
	if other.PPU.VRAM[10] != 0xBEEF {
		t.Fatalf("PPU.VRAM[10] = 0x%04X, want 0xBEEF", other.PPU.VRAM[10])
	}
	if other.Bus.WorkRAM[42] != 0x7A {
		t.Fatalf("WorkRAM[42] = 0x%02X, want 0x7A", other.Bus.WorkRAM[42])
	}
	if other.Input.Buttons != e.Input.Buttons {
		t.Fatalf("Input.Buttons = %d, want %d", other.Input.Buttons, e.Input.Buttons)
	}

	blob2, err := other.Snapshot()
	if err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}
	if !bytes.Equal(blob, blob2) {
		t.Fatal("re-snapshotting a restored emulator should reproduce the same bytes")
	}
}

func TestRestoreRejectsWrongVersion(t *testing.T) {
	var buf bytes.Buffer
	state := SaveState{Version: saveStateVersion + 1}
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		t.Fatalf("encode: %v", err)
	}

	e := newTestEmulator(t)
	if err := e.Restore(buf.Bytes()); err == nil {
		t.Fatal("Restore should reject a save state with an unsupported version")
	}
}
