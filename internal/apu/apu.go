// Package apu is the audio unit: it accepts writes to the audio registers
// spec.md §4.4 names (0x2140-0x2143, mirrored internally at 0x40-0x43) and
// fills stereo sample buffers on demand. A silence-generating
// implementation is a conforming baseline per the spec; this package
// stores the register writes so a later DSP synthesizer can slot in
// without changing the register-routing contract, but FillAudio always
// produces silence.
//
// Grounded on the teacher's internal/apu/apu.go register-dispatch idiom
// (Read8/Write8 over an offset switch, a Logger field) trimmed to the
// smaller register set and non-goal this spec actually calls for.
package apu

import "gosnescore/internal/trace"

const registerCount = 4

// APU owns the audio register file. Register contents are retained for
// inspection/save-state purposes even though FillAudio does not yet
// synthesize from them.
type APU struct {
	Registers [registerCount]uint8

	Trace *trace.Sink
}

// New creates a silent APU.
func New() *APU {
	return &APU{}
}

// Reset clears the register file (spec §4.5 Reset()).
func (a *APU) Reset() {
	a.Registers = [registerCount]uint8{}
}

// ReadRegister implements memory.RegisterHandler for offsets 0x00-0x03,
// relative to 0x2140.
func (a *APU) ReadRegister(offset uint16) uint8 {
	if int(offset) >= registerCount {
		return 0
	}
	return a.Registers[offset]
}

// WriteRegister implements memory.RegisterHandler.
func (a *APU) WriteRegister(offset uint16, value uint8) {
	if int(offset) >= registerCount {
		return
	}
	a.Registers[offset] = value
}

// FillAudio fills the given stereo buffers with samples, per spec.md §6's
// `fill_audio` operation. The conforming silence baseline writes zeros;
// left and right must be equal length.
func (a *APU) FillAudio(left, right []float32) {
	for i := range left {
		left[i] = 0
	}
	for i := range right {
		right[i] = 0
	}
}
