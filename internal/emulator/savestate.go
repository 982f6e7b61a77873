package emulator

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gosnescore/internal/cpu"
	"gosnescore/internal/memory"
	"gosnescore/internal/ppu"
)

const saveStateVersion = 1

// SaveState is a versioned snapshot of the emulator's mutable state, per
// spec.md §6's `snapshot()`/`restore()`. No particular byte layout is
// mandated; round-trip equality after Snapshot -> Restore is the contract
// for the fields listed here. It does not capture the PPU's VRAM-address
// and palette-data latches, the controller strobe/shift-register position,
// or the Bus's latched 0x4210 NMI flag; Restore leaves those as they were.
type SaveState struct {
	Version uint16

	CartridgeSize     int
	CartridgeChecksum uint16

	CPU cpu.CPUState

	WorkRAM [128 * 1024]byte
	SaveRAM []byte

	NMIEnable bool
	IRQEnable bool
	InVBlank  bool
	DMA       [8]memory.DMAChannel

	PPUVRAM       [64 * 1024]uint16
	PPUPalette    [256]uint16
	PPUOAM        [544]byte
	PPUForced     bool
	PPUBrightness uint8
	PPUBGMode     uint8
	PPULayers     [4]ppu.Layer
	PPUMain       uint8
	PPUSub        uint8

	APURegisters [4]uint8

	InputButtons uint16

	FrameCount uint64

	DecodeMiss        uint64
	MappingWarning    uint64
	SRAMBoundsWarning uint64
}

// Snapshot implements spec.md §6's `snapshot()`.
func (e *Emulator) Snapshot() ([]byte, error) {
	state := SaveState{
		Version: saveStateVersion,
		CPU:     e.CPU.State,

		WorkRAM: e.Bus.WorkRAM,
		SaveRAM: append([]byte(nil), e.Bus.SaveRAM...),

		NMIEnable: e.Bus.NMIEnable,
		IRQEnable: e.Bus.IRQEnable,
		InVBlank:  e.Bus.InVBlank,
		DMA:       e.Bus.DMA.Channels,

		PPUVRAM:       e.PPU.VRAM,
		PPUPalette:    e.PPU.Palette,
		PPUOAM:        e.PPU.OAM,
		PPUForced:     e.PPU.ForcedBlank,
		PPUBrightness: e.PPU.Brightness,
		PPUBGMode:     e.PPU.BGMode,
		PPULayers:     e.PPU.Layers,
		PPUMain:       e.PPU.MainScreen,
		PPUSub:        e.PPU.SubScreen,

		APURegisters: e.APU.Registers,

		InputButtons: e.Input.Buttons,

		FrameCount: e.FrameCount,

		DecodeMiss:        e.CPU.UnknownOpcodeCount,
		MappingWarning:    e.Bus.Diagnostics.MappingWarnings,
		SRAMBoundsWarning: e.Bus.Diagnostics.SRAMBoundsWarnings,
	}
	if e.Cart != nil {
		state.CartridgeSize = e.Cart.Size()
		state.CartridgeChecksum = e.Cart.Checksum
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, fmt.Errorf("encode save state: %w", err)
	}
	return buf.Bytes(), nil
}

// Restore implements spec.md §6's `restore()`. The loaded cartridge is
// not part of the blob; restoring onto a different cartridge than the one
// the snapshot was taken against is the caller's mistake to avoid (the
// cartridge fingerprint is carried for the caller to check, not enforced
// here).
func (e *Emulator) Restore(data []byte) error {
	var state SaveState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return fmt.Errorf("decode save state: %w", err)
	}
	if state.Version != saveStateVersion {
		return fmt.Errorf("unsupported save state version %d (want %d)", state.Version, saveStateVersion)
	}

	e.CPU.State = state.CPU

	e.Bus.WorkRAM = state.WorkRAM
	e.Bus.SaveRAM = append([]byte(nil), state.SaveRAM...)
	e.Bus.NMIEnable = state.NMIEnable
	e.Bus.IRQEnable = state.IRQEnable
	e.Bus.InVBlank = state.InVBlank
	e.Bus.DMA.Channels = state.DMA

	e.PPU.VRAM = state.PPUVRAM
	e.PPU.Palette = state.PPUPalette
	e.PPU.OAM = state.PPUOAM
	e.PPU.ForcedBlank = state.PPUForced
	e.PPU.Brightness = state.PPUBrightness
	e.PPU.BGMode = state.PPUBGMode
	e.PPU.Layers = state.PPULayers
	e.PPU.MainScreen = state.PPUMain
	e.PPU.SubScreen = state.PPUSub

	e.APU.Registers = state.APURegisters

	e.Input.Buttons = state.InputButtons

	e.FrameCount = state.FrameCount

	e.CPU.UnknownOpcodeCount = state.DecodeMiss
	e.Bus.Diagnostics.MappingWarnings = state.MappingWarning
	e.Bus.Diagnostics.SRAMBoundsWarnings = state.SRAMBoundsWarning
	return nil
}
