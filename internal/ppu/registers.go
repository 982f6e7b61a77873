package ppu

// Register offsets are relative to 0x2100, per spec.md §4.1's PPU register
// table.
const (
	regDisplay     = 0x00
	regBGMode      = 0x05
	regBG1MapBase  = 0x07
	regBG2MapBase  = 0x08
	regBG3MapBase  = 0x09
	regBG4MapBase  = 0x0A
	regBG12Char    = 0x0B
	regBG34Char    = 0x0C
	regVRAMMode    = 0x15
	regVRAMAddrLo  = 0x16
	regVRAMAddrHi  = 0x17
	regVRAMDataLo  = 0x18
	regVRAMDataHi  = 0x19
	regPaletteAddr = 0x21
	regPaletteData = 0x22
	regMainScreen  = 0x2C
	regSubScreen   = 0x2D
)

// ReadRegister implements memory.RegisterHandler. Only the VRAM data
// ports are readable; every other offset reads back as 0.
func (p *PPU) ReadRegister(offset uint16) uint8 {
	switch offset {
	case regVRAMDataLo:
		return p.readVRAMData(false)
	case regVRAMDataHi:
		return p.readVRAMData(true)
	default:
		return 0
	}
}

// WriteRegister implements memory.RegisterHandler.
func (p *PPU) WriteRegister(offset uint16, value uint8) {
	switch offset {
	case regDisplay:
		p.ForcedBlank = value&0x80 != 0
		p.Brightness = value & 0x0F
	case regBGMode:
		p.BGMode = value & 0x07
		for layer := 0; layer < 4; layer++ {
			p.Layers[layer].TileSize16 = value&(0x10<<uint(layer)) != 0
		}
	case regBG1MapBase:
		p.setMapBase(0, value)
	case regBG2MapBase:
		p.setMapBase(1, value)
	case regBG3MapBase:
		p.setMapBase(2, value)
	case regBG4MapBase:
		p.setMapBase(3, value)
	case regBG12Char:
		p.Layers[0].CharBase = uint16(value&0x0F) << 12
		p.Layers[1].CharBase = uint16(value&0xF0) << 8
	case regBG34Char:
		p.Layers[2].CharBase = uint16(value&0x0F) << 12
		p.Layers[3].CharBase = uint16(value&0xF0) << 8
	case regVRAMMode:
		p.vram.incOnHigh = value&0x80 != 0
		switch value & 0x03 {
		case 0:
			p.vram.incStep = 1
		case 1:
			p.vram.incStep = 32
		default:
			p.vram.incStep = 128
		}
	case regVRAMAddrLo:
		p.vram.addr = (p.vram.addr &^ 0x00FF) | uint16(value)
	case regVRAMAddrHi:
		p.vram.addr = (p.vram.addr &^ 0xFF00) | uint16(value)<<8
	case regVRAMDataLo:
		p.writeVRAMData(false, value)
	case regVRAMDataHi:
		p.writeVRAMData(true, value)
	case regPaletteAddr:
		p.palette.index = value
		p.palette.highHalf = false
	case regPaletteData:
		p.writePaletteData(value)
	case regMainScreen:
		p.MainScreen = value & 0x0F
	case regSubScreen:
		p.SubScreen = value & 0x0F
	}
}

func (p *PPU) setMapBase(layer int, value uint8) {
	p.Layers[layer].TilemapBase = uint16(value&0xFC) << 8
	p.Layers[layer].TilemapSizeCode = value & 0x03
	p.Layers[layer].Enabled = true
}

// writeVRAMData stores one byte into the low or high half of the VRAM word
// at the current address, immediately. The address then advances by the
// configured increment step after the low-byte write, or after the
// high-byte write when the increment-on-high flag is set; with
// increment-on-low, a following high-byte write lands in the next word.
func (p *PPU) writeVRAMData(high bool, value uint8) {
	addr := p.vram.addr
	if int(addr) >= vramWords {
		return
	}
	word := p.VRAM[addr]
	if high {
		word = (word &^ 0xFF00) | uint16(value)<<8
	} else {
		word = (word &^ 0x00FF) | uint16(value)
	}
	p.VRAM[addr] = word

	if high == p.vram.incOnHigh {
		p.vram.addr += p.vram.incStep
	}
}

func (p *PPU) readVRAMData(high bool) uint8 {
	addr := p.vram.addr
	var word uint16
	if int(addr) < vramWords {
		word = p.VRAM[addr]
	}
	if high == p.vram.incOnHigh {
		p.vram.addr += p.vram.incStep
	}
	if high {
		return uint8(word >> 8)
	}
	return uint8(word)
}

// writePaletteData implements the palette two-write commit: the first
// write latches the low byte, the second commits a full 15-bit BGR entry
// and advances to the next palette index (spec §3 testable property 3).
func (p *PPU) writePaletteData(value uint8) {
	if !p.palette.highHalf {
		p.palette.lowByte = value
		p.palette.highHalf = true
		return
	}
	entry := uint16(p.palette.lowByte) | uint16(value&0x7F)<<8
	if int(p.palette.index) < paletteSlots {
		p.Palette[p.palette.index] = entry
	}
	p.palette.index++
	p.palette.highHalf = false
}
