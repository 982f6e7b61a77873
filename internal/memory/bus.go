// Package memory is the MMU: it translates 24-bit machine addresses into
// work-RAM, save-RAM, cartridge, or register-file accesses, and routes
// register reads/writes to the PPU, APU, and DMA engine. Grounded on the
// teacher's internal/memory/bus.go bank-switch idiom (Read8/Write8 dispatch
// on bank first, then offset), widened from the teacher's flat 128-bank
// toy map to the real low-mapped/high-mapped cartridge address decode in
// spec.md §4.1.
package memory

import (
	"gosnescore/internal/cartridge"
	"gosnescore/internal/trace"
)

const (
	workRAMSize = 128 * 1024
	wramMirror  = 0x2000 // low 8 KiB of work-RAM mirrored into low-mapped banks
)

// RegisterHandler is the interface the PPU and APU satisfy so the Bus can
// route register-space reads/writes to them without holding a reference
// back (design note §9: components receive ephemeral references, not
// mutual ownership — here the Bus is handed the handler once, by the
// Scheduler that owns everything, never the reverse).
type RegisterHandler interface {
	ReadRegister(offset uint16) uint8
	WriteRegister(offset uint16, value uint8)
}

// Bus is the memory bus / MMU. It owns work-RAM and save-RAM, holds a
// reference to the loaded cartridge, and forwards register accesses to
// whichever handler the Scheduler wired in for PPU/APU/input.
type Bus struct {
	WorkRAM [workRAMSize]byte
	SaveRAM []byte

	Cart *cartridge.Cartridge

	PPU   RegisterHandler
	APU   RegisterHandler
	Input RegisterHandler

	DMA DMAEngine

	NMIEnable   bool // bit 7 of 0x4200
	IRQEnable   bool // bit 4 of 0x4200 (auto-joy not modeled; kept simple)
	InVBlank    bool
	nmiFlagSet  bool // latched until read via 0x4210

	Diagnostics Diagnostics

	Trace *trace.Sink
}

// Diagnostics counts the non-fatal runtime faults spec.md §7 requires the
// core to track instead of failing: MappingWarning and SRAMBoundsWarning.
type Diagnostics struct {
	MappingWarnings    uint64
	SRAMBoundsWarnings uint64
}

// NewBus constructs a Bus for the given cartridge. Save-RAM is sized from
// the cartridge's header-declared size (0 when the cartridge has none).
func NewBus(cart *cartridge.Cartridge) *Bus {
	b := &Bus{Cart: cart}
	if cart != nil && cart.HasSaveRAM {
		b.SaveRAM = make([]byte, cart.SaveRAMSize)
	}
	b.DMA.bus = b
	return b
}

// Reset clears work-RAM (spec §3: "Zeroed on reset") and DMA/vblank state.
// Save-RAM is untouched — it is non-volatile across resets.
func (b *Bus) Reset() {
	for i := range b.WorkRAM {
		b.WorkRAM[i] = 0
	}
	b.NMIEnable = false
	b.InVBlank = false
	b.nmiFlagSet = false
	b.DMA = DMAEngine{bus: b}
}

// Read8 reads one byte at a 24-bit machine address (bank:offset).
func (b *Bus) Read8(addr uint32) uint8 {
	bank := uint8(addr >> 16)
	offset := uint16(addr)

	if b.Cart != nil && b.Cart.Mapping == cartridge.HighMapped {
		return b.readHighMapped(bank, offset)
	}
	return b.readLowMapped(bank, offset)
}

// Write8 writes one byte at a 24-bit machine address. Writes into
// cartridge space are silently dropped per spec §4.1.
func (b *Bus) Write8(addr uint32, value uint8) {
	bank := uint8(addr >> 16)
	offset := uint16(addr)

	if b.Cart != nil && b.Cart.Mapping == cartridge.HighMapped {
		b.writeHighMapped(bank, offset, value)
		return
	}
	b.writeLowMapped(bank, offset, value)
}

// Read16 / Write16 are little-endian 16-bit helpers built on Read8/Write8.
func (b *Bus) Read16(addr uint32) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (b *Bus) Write16(addr uint32, value uint16) {
	b.Write8(addr, uint8(value))
	b.Write8(addr+1, uint8(value>>8))
}

func isLowBankGroup(bank uint8) bool {
	return bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)
}

func (b *Bus) wramBank(bank uint8) bool { return bank == 0x7E || bank == 0x7F }

func (b *Bus) readLowMapped(bank uint8, offset uint16) uint8 {
	switch {
	case b.wramBank(bank):
		idx := uint32(bank-0x7E)*0x10000 + uint32(offset)
		if idx < workRAMSize {
			return b.WorkRAM[idx]
		}
		return 0
	case isLowBankGroup(bank) && offset < wramMirror:
		return b.WorkRAM[offset]
	case isLowBankGroup(bank) && offset >= 0x2000 && offset < 0x6000:
		return b.readRegister(offset)
	case bank >= 0x70 && bank <= 0x7D && offset < 0x8000:
		return b.readSaveRAM(uint32(bank-0x70)*0x8000 + uint32(offset))
	default:
		if b.Cart == nil {
			b.mappingMiss()
			return 0
		}
		romOffset := (uint32(bank&0x7F) * 0x8000) | uint32(offset&0x7FFF)
		return b.Cart.ReadAt(romOffset % uint32(max1(b.Cart.Size())))
	}
}

func (b *Bus) writeLowMapped(bank uint8, offset uint16, value uint8) {
	switch {
	case b.wramBank(bank):
		idx := uint32(bank-0x7E)*0x10000 + uint32(offset)
		if idx < workRAMSize {
			b.WorkRAM[idx] = value
		}
	case isLowBankGroup(bank) && offset < wramMirror:
		b.WorkRAM[offset] = value
	case isLowBankGroup(bank) && offset >= 0x2000 && offset < 0x6000:
		b.writeRegister(offset, value)
	case bank >= 0x70 && bank <= 0x7D && offset < 0x8000:
		b.writeSaveRAM(uint32(bank-0x70)*0x8000+uint32(offset), value)
	default:
		// cartridge space: writes dropped
	}
}

func (b *Bus) readHighMapped(bank uint8, offset uint16) uint8 {
	switch {
	case b.wramBank(bank):
		idx := uint32(bank-0x7E)*0x10000 + uint32(offset)
		if idx < workRAMSize {
			return b.WorkRAM[idx]
		}
		return 0
	case (bank >= 0xC0) || (bank >= 0x40 && bank <= 0x7D):
		if b.Cart == nil {
			b.mappingMiss()
			return 0
		}
		romAddr := (uint32(bank)<<16 | uint32(offset)) & 0x3FFFFF
		return b.Cart.ReadAt(romAddr % uint32(max1(b.Cart.Size())))
	case (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && offset >= 0x8000:
		if b.Cart == nil {
			b.mappingMiss()
			return 0
		}
		romAddr := uint32(bank&0x3F)*0x8000 + uint32(offset&0x7FFF)
		return b.Cart.ReadAt(romAddr % uint32(max1(b.Cart.Size())))
	case b.Cart != nil && b.Cart.HasSaveRAM && bank >= 0x20 && bank <= 0x3F && offset >= 0x6000 && offset < 0x8000:
		return b.readSaveRAM(uint32(bank-0x20)*0x2000 + uint32(offset-0x6000))
	case offset < wramMirror:
		return b.WorkRAM[offset]
	case offset >= 0x2000 && offset < 0x6000:
		return b.readRegister(offset)
	default:
		b.mappingMiss()
		return 0
	}
}

func (b *Bus) writeHighMapped(bank uint8, offset uint16, value uint8) {
	switch {
	case b.wramBank(bank):
		idx := uint32(bank-0x7E)*0x10000 + uint32(offset)
		if idx < workRAMSize {
			b.WorkRAM[idx] = value
		}
	case (bank >= 0xC0) || (bank >= 0x40 && bank <= 0x7D):
		// cartridge space: writes dropped
	case (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && offset >= 0x8000:
		// cartridge space: writes dropped
	case b.Cart != nil && b.Cart.HasSaveRAM && bank >= 0x20 && bank <= 0x3F && offset >= 0x6000 && offset < 0x8000:
		b.writeSaveRAM(uint32(bank-0x20)*0x2000+uint32(offset-0x6000), value)
	case offset < wramMirror:
		b.WorkRAM[offset] = value
	case offset >= 0x2000 && offset < 0x6000:
		b.writeRegister(offset, value)
	default:
		b.mappingMiss()
	}
}

func (b *Bus) readSaveRAM(offset uint32) uint8 {
	if int(offset) >= len(b.SaveRAM) {
		b.Diagnostics.SRAMBoundsWarnings++
		return 0
	}
	return b.SaveRAM[offset]
}

func (b *Bus) writeSaveRAM(offset uint32, value uint8) {
	if int(offset) >= len(b.SaveRAM) {
		b.Diagnostics.SRAMBoundsWarnings++
		return
	}
	b.SaveRAM[offset] = value
}

func (b *Bus) mappingMiss() {
	b.Diagnostics.MappingWarnings++
	if b.Trace.Enabled(trace.ComponentMemory, trace.LevelWarning) {
		b.Trace.Trace(trace.ComponentMemory, trace.LevelWarning, "unmapped address access: read returns 0, write dropped")
	}
}

func max1(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
