package ppu

import "testing"

func TestVRAMWriteAutoIncrement(t *testing.T) {
	// Testable property 2: with increment-on-low, the low-byte write advances
	// the address by the configured step, so the following high-byte write
	// lands in the next word.
	p := New()
	p.WriteRegister(regVRAMMode, 0x00) // step 1, increment on low write
	p.WriteRegister(regVRAMAddrLo, 0x10)
	p.WriteRegister(regVRAMAddrHi, 0x00)

	p.WriteRegister(regVRAMDataLo, 0x34)
	if p.vram.addr != 0x11 {
		t.Fatalf("address after low write = 0x%04X, want 0x0011 (increment-on-low)", p.vram.addr)
	}
	p.WriteRegister(regVRAMDataHi, 0x12)

	if p.VRAM[0x10] != 0x0034 {
		t.Fatalf("VRAM[0x10] = 0x%04X, want 0x0034 (high write only updates the high byte of the already-addressed word)", p.VRAM[0x10])
	}
}

func TestVRAMWriteIncrementOnHigh(t *testing.T) {
	p := New()
	p.WriteRegister(regVRAMMode, 0x80) // increment on high write
	p.WriteRegister(regVRAMAddrLo, 0x00)
	p.WriteRegister(regVRAMAddrHi, 0x00)

	p.WriteRegister(regVRAMDataLo, 0xCD)
	if p.vram.addr != 0x0000 {
		t.Fatalf("address should not advance on low write when increment-on-high is set, got 0x%04X", p.vram.addr)
	}
	p.WriteRegister(regVRAMDataHi, 0xAB)
	if p.vram.addr != 0x0001 {
		t.Fatalf("address after high write = 0x%04X, want 0x0001", p.vram.addr)
	}
	if p.VRAM[0] != 0xABCD {
		t.Fatalf("VRAM[0] = 0x%04X, want 0xABCD", p.VRAM[0])
	}
}

func TestPaletteTwoWriteCommit(t *testing.T) {
	// Testable property 3: palette data register takes two writes to commit
	// one 15-bit color and then auto-advances the palette index.
	p := New()
	p.WriteRegister(regPaletteAddr, 5)
	p.WriteRegister(regPaletteData, 0xFF) // low byte latched, nothing committed yet
	if p.Palette[5] != 0 {
		t.Fatalf("palette entry committed after only one write: 0x%04X", p.Palette[5])
	}
	p.WriteRegister(regPaletteData, 0x7F) // high byte -> commit
	want := uint16(0x7FFF)
	if p.Palette[5] != want {
		t.Fatalf("palette[5] = 0x%04X, want 0x%04X", p.Palette[5], want)
	}

	// index should have auto-advanced to 6
	p.WriteRegister(regPaletteData, 0x00)
	p.WriteRegister(regPaletteData, 0x00)
	if p.Palette[5] != want {
		t.Fatalf("writing again should not have touched index 5, got 0x%04X", p.Palette[5])
	}
}

func TestForcedBlankRendersBlack(t *testing.T) {
	p := New()
	p.WriteRegister(regDisplay, 0x80) // forced blank
	frame := p.RenderFrame()
	for i := 0; i < len(frame); i += 4 {
		if frame[i] != 0 || frame[i+1] != 0 || frame[i+2] != 0 {
			t.Fatalf("forced-blank frame must be solid black, found non-zero pixel at byte %d", i)
		}
	}
}

// TestMode0SingleTileRender exercises the 2bpp decode + palette + tilemap
// path end to end: a single solid-color tile at screen position (0,0).
func TestMode0SingleTileRender(t *testing.T) {
	p := New()

	// Palette group 0, color index 3 = bright white.
	p.WriteRegister(regPaletteAddr, 3)
	p.WriteRegister(regPaletteData, 0xFF)
	p.WriteRegister(regPaletteData, 0x7F)

	// Character data for tile 0 at char base word 0x1000 (kept separate
	// from the tilemap, which lives at word 0): every row both bitplanes
	// all-ones -> color index 3 for every pixel.
	const charBase = 0x1000
	for row := 0; row < 8; row++ {
		p.VRAM[charBase+row] = 0xFFFF
	}

	// Tilemap entry at word 0 (BG1 map base 0): tile index 0, palette
	// group 0, no flip.
	p.VRAM[0x0000+0] = 0x0000

	p.WriteRegister(regBGMode, 0) // mode 0, 2bpp
	p.WriteRegister(regBG1MapBase, 0x00)
	p.WriteRegister(regBG12Char, 0x01) // BG1 char base = 0x1 << 12 = 0x1000
	p.WriteRegister(regMainScreen, 0x01) // enable BG1 only
	p.WriteRegister(regDisplay, 0x0F)    // full brightness, not forced blank

	frame := p.RenderFrame()
	off := (0*ScreenWidth + 0) * 4
	if frame[off] != 0xFF || frame[off+1] != 0xFF || frame[off+2] != 0xFF {
		t.Fatalf("pixel (0,0) = (%d,%d,%d), want full white", frame[off], frame[off+1], frame[off+2])
	}
}

func TestColorAtExpandsBGR555(t *testing.T) {
	p := New()
	p.Palette[0] = 0x001F // red = 0x1F, green/blue = 0
	c := p.colorAt(0)
	if c[0] != 0xFF || c[1] != 0 || c[2] != 0 {
		t.Fatalf("colorAt(0) = %v, want pure red (255,0,0)", c)
	}
}

func TestResetClearsMemories(t *testing.T) {
	p := New()
	p.VRAM[10] = 0xBEEF
	p.Palette[1] = 0x1234 & 0x7FFF
	p.OAM[0] = 0xFF
	p.Reset()
	if p.VRAM[10] != 0 || p.Palette[1] != 0 || p.OAM[0] != 0 {
		t.Fatal("Reset did not clear VRAM/Palette/OAM")
	}
}
