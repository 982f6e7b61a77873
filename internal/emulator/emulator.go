// Package emulator is the Scheduler / Emulator facade: it owns every
// other component, paces simulated time in whole frames, delivers NMI at
// vertical-blank, mediates DMA through the bus, and exposes the
// embedder-facing API spec.md §4.5/§6 names.
//
// Grounded on the teacher's internal/emulator/emulator.go component-owner
// shape (an Emulator struct holding CPU/Bus/Cartridge/PPU/APU/Input,
// Start/Stop/Reset, a frame-stepping loop) adapted from the teacher's
// free-running clock-driven scanline stepper to the cooperative,
// yields-once-per-frame model spec.md §5 requires.
package emulator

import (
	"fmt"

	"gosnescore/internal/apu"
	"gosnescore/internal/cartridge"
	"gosnescore/internal/cpu"
	"gosnescore/internal/input"
	"gosnescore/internal/memory"
	"gosnescore/internal/ppu"
	"gosnescore/internal/trace"
)

// Timing constants per spec.md §4.5: ~21.477 MHz master clock, 262
// scanlines per frame (224 visible + 38 vertical-blank).
const (
	MasterCyclesPerFrame = 357368
	TotalScanlines       = 262
	VisibleScanlines     = 224

	cyclesPerScanline = MasterCyclesPerFrame / TotalScanlines
	vblankBoundary    = cyclesPerScanline * VisibleScanlines
)

// FrameSink receives a completed 256x224 RGBA framebuffer once per frame.
type FrameSink func(frame []byte)

// Emulator owns every component and drives frame pacing.
type Emulator struct {
	Bus   *memory.Bus
	CPU   *cpu.CPU
	PPU   *ppu.PPU
	APU   *apu.APU
	Input *input.Input
	Cart  *cartridge.Cartridge

	Trace *trace.Sink

	running   bool
	frameSink FrameSink

	FrameCount uint64
}

// New creates an Emulator with no cartridge loaded. Call LoadCartridge
// before Run.
func New() *Emulator {
	e := &Emulator{
		Trace: trace.NewSink(2048),
	}
	e.wireComponents(nil)
	return e
}

func (e *Emulator) wireComponents(cart *cartridge.Cartridge) {
	bus := memory.NewBus(cart)
	bus.Trace = e.Trace

	p := ppu.New()
	p.Trace = e.Trace
	a := apu.New()
	a.Trace = e.Trace
	in := input.New()
	in.Trace = e.Trace

	bus.PPU = p
	bus.APU = a
	bus.Input = in

	e.Bus = bus
	e.PPU = p
	e.APU = a
	e.Input = in
	e.Cart = cart
	e.CPU = cpu.New(bus)
	e.CPU.Trace = e.Trace
}

// LoadCartridge implements spec.md §6's `load_cartridge`: parses the
// image and rebuilds every component around the new cartridge. Load
// failures (ErrTooSmall, ErrUnreadableHeader) are returned to the
// embedder; a checksum mismatch is a warning already recorded on the
// cartridge, not a failure.
func (e *Emulator) LoadCartridge(data []byte) error {
	cart, err := cartridge.Load(data)
	if err != nil {
		return fmt.Errorf("load cartridge: %w", err)
	}
	e.wireComponents(cart)
	return nil
}

// Reset resets all components; the cartridge is retained (spec §6).
func (e *Emulator) Reset() {
	e.Bus.Reset()
	e.CPU.Reset()
	e.PPU.Reset()
	e.APU.Reset()
	e.Input.Reset()
	e.FrameCount = 0
}

// Run executes exactly one simulated frame and returns, if the emulator
// is running; otherwise it is a no-op. Per spec.md §5, the embedder calls
// Run repeatedly (once per host frame) rather than handing control to a
// spinning loop.
func (e *Emulator) Run() {
	if !e.running {
		return
	}
	e.runOneFrame()
}

// Stop clears the running flag; a subsequent Run call does nothing until
// Start is called again.
func (e *Emulator) Stop() { e.running = false }

// Start sets the running flag.
func (e *Emulator) Start() { e.running = true }

// SetButton implements spec.md §6's `set_button`.
func (e *Emulator) SetButton(b input.Button, pressed bool) {
	e.Input.SetButton(b, pressed)
}

// SetFrameSink implements spec.md §6's `set_frame_sink`.
func (e *Emulator) SetFrameSink(sink FrameSink) { e.frameSink = sink }

// FillAudio implements spec.md §6's `fill_audio`.
func (e *Emulator) FillAudio(left, right []float32) {
	e.APU.FillAudio(left, right)
}

// Diagnostics reports the non-fatal runtime fault counters spec.md §7
// requires the core to track instead of failing outright: unmapped
// opcodes, bus-mapping misses, and out-of-range save-RAM accesses.
type Diagnostics struct {
	DecodeMiss        uint64
	MappingWarning    uint64
	SRAMBoundsWarning uint64
}

// Diagnostics implements spec.md §6's counter query, gathering the
// counters from the components that actually increment them (the CPU's
// unknown-opcode count, the Bus's mapping/SRAM-bounds warnings).
func (e *Emulator) Diagnostics() Diagnostics {
	return Diagnostics{
		DecodeMiss:        e.CPU.UnknownOpcodeCount,
		MappingWarning:    e.Bus.Diagnostics.MappingWarnings,
		SRAMBoundsWarning: e.Bus.Diagnostics.SRAMBoundsWarnings,
	}
}

// runOneFrame implements the frame model of spec.md §4.5: advance the CPU
// to the vertical-blank boundary, raise vblank and NMI, render and emit
// the frame, resume through the remaining vblank cycles, then clear
// vblank.
func (e *Emulator) runOneFrame() {
	var accumulated uint64

	for accumulated < vblankBoundary {
		accumulated += e.CPU.Step()
	}

	nmiEnabled := e.Bus.RaiseVBlank()
	if nmiEnabled {
		e.CPU.TriggerNMI()
	}

	frame := e.PPU.RenderFrame()
	if e.frameSink != nil {
		e.frameSink(frame)
	}

	for accumulated < MasterCyclesPerFrame {
		accumulated += e.CPU.Step()
	}

	e.Bus.ClearVBlank()
	e.FrameCount++
}
