// Package ppu is the pixel unit: VRAM, palette RAM, sprite-attribute RAM,
// and the tile pipeline that decodes background tilemaps into a 256x224
// RGBA framebuffer once per frame. Grounded on the teacher's
// internal/ppu/ppu.go (register-offset Read8/Write8 dispatch, a RenderFrame
// entry point, a getColorFromCGRAM palette lookup) widened from the
// teacher's fictional nibble-packed tile format to the real 2bpp/4bpp
// planar bitplane layout and 15-bit BGR palette spec.md §3/§4.3 require.
package ppu

import "gosnescore/internal/trace"

const (
	vramWords    = 64 * 1024
	paletteSlots = 256
	oamBytes     = 544

	ScreenWidth  = 256
	ScreenHeight = 224

	tilesPerRow = ScreenWidth / 8
	tilesPerCol = ScreenHeight / 8
)

// Layer is one of the four background layers described in spec.md §3.
type Layer struct {
	Enabled         bool
	TileSize16      bool
	TilemapBase     uint16 // word address
	TilemapSizeCode uint8
	CharBase        uint16 // word address
}

// vramLatch models the two-phase address/data state machine VRAM writes
// go through (spec §3: "VRAM write address auto-increments on either the
// low-byte write or the high-byte write per the increment-on-high flag").
type vramLatch struct {
	addr      uint16
	incStep   uint16
	incOnHigh bool
}

// paletteLatch models the palette-data two-write commit state machine
// (spec §3 / §8 testable property 3).
type paletteLatch struct {
	index    uint8
	highHalf bool
	lowByte  uint8
}

// PPU owns VRAM, palette RAM (CGRAM), and OAM, plus the register-visible
// configuration state spec.md §3 calls PPUState.
type PPU struct {
	VRAM    [vramWords]uint16
	Palette [paletteSlots]uint16 // 15-bit BGR, low 15 bits used
	OAM     [oamBytes]byte

	ForcedBlank bool
	Brightness  uint8 // 0..15
	BGMode      uint8 // 0..7
	Layers      [4]Layer
	MainScreen  uint8 // per-layer enable mask, bit i = layer i
	SubScreen   uint8

	vram    vramLatch
	palette paletteLatch

	Trace *trace.Sink
}

// New creates a PPU with its auto-increment step defaulted the way a cold
// SNES leaves it (step 1, increment on low-byte write).
func New() *PPU {
	p := &PPU{}
	p.vram.incStep = 1
	return p
}

// Reset clears all owned memories and register state (spec §4.5 Reset()).
func (p *PPU) Reset() {
	for i := range p.VRAM {
		p.VRAM[i] = 0
	}
	for i := range p.Palette {
		p.Palette[i] = 0
	}
	for i := range p.OAM {
		p.OAM[i] = 0
	}
	p.ForcedBlank = false
	p.Brightness = 0
	p.BGMode = 0
	p.Layers = [4]Layer{}
	p.MainScreen = 0
	p.SubScreen = 0
	p.vram = vramLatch{incStep: 1}
	p.palette = paletteLatch{}
}

// bppForLayer returns the bits-per-pixel for a background layer under the
// current mode, per spec.md §4.3 ("mode 0 -> all layers 2bpp; mode 1 ->
// layers 1,2 are 4bpp, layer 3 is 2bpp; other modes may fall back").
func (p *PPU) bppForLayer(layer int) int {
	switch p.BGMode {
	case 0:
		return 2
	case 1:
		if layer == 2 {
			return 2
		}
		return 4
	default:
		return 2
	}
}

// RenderFrame decodes the currently configured backgrounds into a fresh
// 256x224 RGBA byte buffer. Forced-blank and a zero main-screen mask both
// render solid black (spec §4.3).
func (p *PPU) RenderFrame() []byte {
	buf := make([]byte, ScreenWidth*ScreenHeight*4)
	for i := 3; i < len(buf); i += 4 {
		buf[i] = 0xFF // opaque alpha baseline
	}

	if p.ForcedBlank || p.MainScreen == 0 {
		return buf
	}

	switch p.BGMode {
	case 0, 1:
		for layer := 3; layer >= 0; layer-- {
			if p.MainScreen&(1<<uint(layer)) == 0 || !p.Layers[layer].Enabled {
				continue
			}
			p.renderLayer(buf, layer)
		}
	default:
		// Other modes fall back to the primary background (layer 0) path
		// per spec §4.3/§9 rather than reproducing emergency scaffolding.
		if p.MainScreen&0x01 != 0 && p.Layers[0].Enabled {
			p.renderLayer(buf, 0)
		}
	}

	p.applyBrightness(buf)
	return buf
}

func (p *PPU) applyBrightness(buf []byte) {
	if p.Brightness >= 15 {
		return
	}
	for i := 0; i < len(buf); i += 4 {
		for c := 0; c < 3; c++ {
			buf[i+c] = uint8(uint16(buf[i+c]) * uint16(p.Brightness) / 15)
		}
	}
}

func (p *PPU) renderLayer(buf []byte, layerIdx int) {
	layer := &p.Layers[layerIdx]
	bpp := p.bppForLayer(layerIdx)
	colorsPerGroup := 4
	if bpp == 4 {
		colorsPerGroup = 16
	}

	for ty := 0; ty < tilesPerCol; ty++ {
		for tx := 0; tx < tilesPerRow; tx++ {
			p.renderTilePosition(buf, layer, bpp, colorsPerGroup, tx, ty)
		}
	}
}

func (p *PPU) renderTilePosition(buf []byte, layer *Layer, bpp, colorsPerGroup, tx, ty int) {
	mapWidth := 32
	entryAddr := layer.TilemapBase + uint16(ty*mapWidth+tx)
	if int(entryAddr) >= vramWords {
		return
	}
	entry := p.VRAM[entryAddr]

	tileIndex := entry & 0x03FF
	paletteGroup := uint16((entry >> 10) & 0x07)
	hFlip := entry&0x4000 != 0
	vFlip := entry&0x8000 != 0

	size := 8
	if layer.TileSize16 {
		size = 16
	}

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			subTile, subRow, subCol := subTileFor(tileIndex, row, col, size)
			r := subRow
			c := subCol
			if hFlip {
				c = 7 - c
			}
			if vFlip {
				r = 7 - r
			}
			colorIdx := p.readPixel(layer.CharBase, subTile, bpp, r, c)
			if colorIdx == 0 {
				continue
			}
			palIdx := paletteGroup*uint16(colorsPerGroup) + uint16(colorIdx)
			color := p.colorAt(palIdx)

			px := tx*8 + col
			py := ty*8 + row
			if px >= ScreenWidth || py >= ScreenHeight {
				continue
			}
			off := (py*ScreenWidth + px) * 4
			buf[off] = color[0]
			buf[off+1] = color[1]
			buf[off+2] = color[2]
		}
	}
}

// subTileFor maps a pixel within a (possibly 16x16) tile position to the
// underlying 8x8 character tile and the row/col within it, per the
// standard four-quadrant layout (top-left, top-right, bottom-left,
// bottom-right tiles at index, index+1, index+0x10, index+0x11).
func subTileFor(baseIndex uint16, row, col, size int) (tile uint16, r, c int) {
	if size == 8 {
		return baseIndex, row, col
	}
	quadRow := row / 8
	quadCol := col / 8
	tile = baseIndex + uint16(quadCol) + uint16(quadRow)*0x10
	return tile, row % 8, col % 8
}

// readPixel decodes the color index (0..15) of one pixel within an 8x8
// character tile, per spec.md §4.3's bitplane description.
func (p *PPU) readPixel(charBase uint16, tileIndex uint16, bpp, row, col int) uint8 {
	wordsPerTile := uint16(8 * (bpp / 2))
	tileBase := charBase + tileIndex*wordsPerTile
	if int(tileBase)+int(wordsPerTile) > vramWords {
		return 0
	}

	bit := uint(7 - col)
	word01 := p.VRAM[tileBase+uint16(row)]
	plane0 := uint8(word01) >> bit & 1
	plane1 := uint8(word01>>8) >> bit & 1
	idx := plane0 | plane1<<1

	if bpp == 4 {
		word23 := p.VRAM[tileBase+8+uint16(row)]
		plane2 := uint8(word23) >> bit & 1
		plane3 := uint8(word23>>8) >> bit & 1
		idx |= plane2 << 2
		idx |= plane3 << 3
	}
	return idx
}

// colorAt converts a 15-bit BGR palette entry (spec §4.3: "0bbbbb
// gggggrrrrr") into 8-bit-per-channel RGB, replicating the high 5 bits
// into the low 3 so full brightness (0x1F) maps to 0xFF.
func (p *PPU) colorAt(index uint16) [3]byte {
	if int(index) >= paletteSlots {
		return [3]byte{}
	}
	entry := p.Palette[index]
	r5 := entry & 0x1F
	g5 := (entry >> 5) & 0x1F
	b5 := (entry >> 10) & 0x1F
	return [3]byte{expand5to8(r5), expand5to8(g5), expand5to8(b5)}
}

func expand5to8(v uint16) byte {
	return byte((v << 3) | (v >> 2))
}
