package cpu

// AddrMode identifies one of the 65816 addressing modes spec.md §4.2 lists.
type AddrMode int

const (
	modeImplied AddrMode = iota
	modeAccumulator
	modeImmediateM // sized by the memory/accumulator width flag
	modeImmediateX // sized by the index width flag
	modeImmediate8 // always one byte (REP/SEP/BRK/COP signature, stack offsets)
	modeDirectPage
	modeDirectPageX
	modeDirectPageY
	modeDPIndirect
	modeDPIndirectLong
	modeDPIndexedIndirectX
	modeDPIndirectIndexedY
	modeDPIndirectLongIndexedY
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeAbsoluteLong
	modeAbsoluteLongX
	modeAbsoluteIndirect
	modeAbsoluteIndexedIndirectX
	modeRelative8
	modeRelative16
	modeStack
	modeBlockMove
)

// indexValue returns X truncated to the current index width, matching the
// 65816 rule that a narrowed X/Y's high byte reads as zero.
func (c *CPU) indexValue() uint16 {
	if c.eightBitIndex() {
		return c.State.X & 0x00FF
	}
	return c.State.X
}

func (c *CPU) yIndexValue() uint16 {
	if c.eightBitIndex() {
		return c.State.Y & 0x00FF
	}
	return c.State.Y
}

// accumValue returns A truncated to the current memory width.
func (c *CPU) accumValue() uint16 {
	if c.eightBitMemory() {
		return c.State.A & 0x00FF
	}
	return c.State.A
}

// setAccum writes a result back into A, leaving the untouched half alone
// when operating in 8-bit mode: an 8-bit write replaces only the low byte
// and the high byte is preserved.
func (c *CPU) setAccum(v uint16) {
	if c.eightBitMemory() {
		c.State.A = (c.State.A & 0xFF00) | (v & 0x00FF)
		return
	}
	c.State.A = v
}

func (c *CPU) setX(v uint16) {
	if c.eightBitIndex() {
		c.State.X = v & 0x00FF
		return
	}
	c.State.X = v
}

func (c *CPU) setY(v uint16) {
	if c.eightBitIndex() {
		c.State.Y = v & 0x00FF
		return
	}
	c.State.Y = v
}

// effectiveAddress resolves a memory-referencing addressing mode to its
// 24-bit machine address, consuming operand bytes from the instruction
// stream as it goes. Modes that don't reference memory (implied,
// accumulator, immediate, stack, relative, block-move) are handled by
// their opcode functions directly and never reach here.
func (c *CPU) effectiveAddress(mode AddrMode) uint32 {
	switch mode {
	case modeDirectPage:
		off := c.fetch8()
		return uint32(c.State.D + uint16(off))
	case modeDirectPageX:
		off := c.fetch8()
		return uint32(c.State.D + uint16(off) + c.indexValue())
	case modeDirectPageY:
		off := c.fetch8()
		return uint32(c.State.D + uint16(off) + c.yIndexValue())
	case modeDPIndirect:
		off := c.fetch8()
		ptrAddr := uint32(c.State.D + uint16(off))
		ptr := c.read16(ptrAddr)
		return uint32(c.State.DBR)<<16 | uint32(ptr)
	case modeDPIndirectLong:
		off := c.fetch8()
		ptrAddr := uint32(c.State.D + uint16(off))
		lo := c.read16(ptrAddr)
		bank := c.read8(ptrAddr + 2)
		return uint32(bank)<<16 | uint32(lo)
	case modeDPIndexedIndirectX:
		off := c.fetch8()
		ptrAddr := uint32(c.State.D + uint16(off) + c.indexValue())
		ptr := c.read16(ptrAddr)
		return uint32(c.State.DBR)<<16 | uint32(ptr)
	case modeDPIndirectIndexedY:
		off := c.fetch8()
		ptrAddr := uint32(c.State.D + uint16(off))
		ptr := c.read16(ptrAddr)
		base := uint32(c.State.DBR)<<16 | uint32(ptr)
		return base + uint32(c.yIndexValue())
	case modeDPIndirectLongIndexedY:
		off := c.fetch8()
		ptrAddr := uint32(c.State.D + uint16(off))
		lo := c.read16(ptrAddr)
		bank := c.read8(ptrAddr + 2)
		base := uint32(bank)<<16 | uint32(lo)
		return base + uint32(c.yIndexValue())
	case modeAbsolute:
		addr16 := c.fetch16()
		return uint32(c.State.DBR)<<16 | uint32(addr16)
	case modeAbsoluteX:
		addr16 := c.fetch16()
		return (uint32(c.State.DBR)<<16 | uint32(addr16)) + uint32(c.indexValue())
	case modeAbsoluteY:
		addr16 := c.fetch16()
		return (uint32(c.State.DBR)<<16 | uint32(addr16)) + uint32(c.yIndexValue())
	case modeAbsoluteLong:
		lo := c.fetch16()
		bank := c.fetch8()
		return uint32(bank)<<16 | uint32(lo)
	case modeAbsoluteLongX:
		lo := c.fetch16()
		bank := c.fetch8()
		return (uint32(bank)<<16 | uint32(lo)) + uint32(c.indexValue())
	default:
		return 0
	}
}
