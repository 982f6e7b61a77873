package cpu

// readMem/writeMem read or write an operand at the CPU's current memory
// width (8-bit in emulation mode or when the M flag is set).
func (c *CPU) readMem(addr uint32) uint16 {
	if c.eightBitMemory() {
		return uint16(c.read8(addr))
	}
	return c.read16(addr)
}

func (c *CPU) writeMem(addr uint32, v uint16) {
	if c.eightBitMemory() {
		c.write8(addr, uint8(v))
		return
	}
	c.write16(addr, v)
}

func (c *CPU) fetchImmediateM() uint16 {
	if c.eightBitMemory() {
		return uint16(c.fetch8())
	}
	return c.fetch16()
}

func (c *CPU) fetchImmediateX() uint16 {
	if c.eightBitIndex() {
		return uint16(c.fetch8())
	}
	return c.fetch16()
}

// operandValue resolves either an immediate or a memory-referencing
// addressing mode to its operand value, at the CPU's current memory
// width.
func (c *CPU) operandValue(mode AddrMode) uint16 {
	if mode == modeImmediateM {
		return c.fetchImmediateM()
	}
	return c.readMem(c.effectiveAddress(mode))
}

func (c *CPU) setNZByWidth(v uint16) {
	if c.eightBitMemory() {
		c.setNZ8(uint8(v))
	} else {
		c.setNZ16(v)
	}
}

func (c *CPU) setNZIndexByWidth(v uint16) {
	if c.eightBitIndex() {
		c.setNZ8(uint8(v))
	} else {
		c.setNZ16(v)
	}
}

// addWithCarry implements binary ADC at the given width, per spec.md
// §4.2's "standard 6502/65816 semantics" note.
func addWithCarry(a, b uint16, carryIn, width8 bool) (result uint16, carryOut, overflow bool) {
	if width8 {
		aa, bb := uint8(a), uint8(b)
		sum := uint16(aa) + uint16(bb)
		if carryIn {
			sum++
		}
		res := uint8(sum)
		carryOut = sum > 0xFF
		overflow = (^(aa ^ bb) & (aa ^ res) & 0x80) != 0
		return uint16(res), carryOut, overflow
	}
	sum := uint32(a) + uint32(b)
	if carryIn {
		sum++
	}
	res := uint16(sum)
	carryOut = sum > 0xFFFF
	overflow = (^(a ^ b) & (a ^ res) & 0x8000) != 0
	return res, carryOut, overflow
}

// bcdAdd8/bcdSub8 are a simplified decimal-mode adjustment, used whenever
// the D flag is set and the accumulator is 8-bit (always the case in
// emulation mode). There is no 16-bit decimal path: with a 16-bit
// accumulator ADC/SBC use binary arithmetic regardless of D.
func bcdAdd8(a, b uint8, carryIn bool) (result uint8, carryOut bool) {
	lo := int(a&0x0F) + int(b&0x0F)
	if carryIn {
		lo++
	}
	hi := int(a>>4) + int(b>>4)
	if lo > 9 {
		lo -= 10
		hi++
	}
	if hi > 9 {
		hi -= 10
		carryOut = true
	}
	result = uint8(hi<<4) | uint8(lo&0x0F)
	return
}

func bcdSub8(a, b uint8, carryIn bool) (result uint8, carryOut bool) {
	borrow := 0
	if !carryIn {
		borrow = 1
	}
	lo := int(a&0x0F) - int(b&0x0F) - borrow
	hi := int(a>>4) - int(b>>4)
	if lo < 0 {
		lo += 10
		hi--
	}
	if hi < 0 {
		hi += 10
	} else {
		carryOut = true
	}
	result = uint8(hi<<4) | uint8(lo&0x0F)
	return
}

func opADC(c *CPU, mode AddrMode) uint64 {
	operand := c.operandValue(mode)
	a := c.accumValue()
	carryIn := c.flagSet(FlagC)

	if c.eightBitMemory() && c.flagSet(FlagD) {
		result, carryOut := bcdAdd8(uint8(a), uint8(operand), carryIn)
		c.setAccum(uint16(result))
		c.setFlag(FlagC, carryOut)
		c.setNZ8(result)
		return 2
	}

	result, carryOut, overflow := addWithCarry(a, operand, carryIn, c.eightBitMemory())
	c.setAccum(result)
	c.setFlag(FlagC, carryOut)
	c.setFlag(FlagV, overflow)
	c.setNZByWidth(result)
	return 2
}

func opSBC(c *CPU, mode AddrMode) uint64 {
	operand := c.operandValue(mode)
	a := c.accumValue()
	carryIn := c.flagSet(FlagC)

	if c.eightBitMemory() && c.flagSet(FlagD) {
		result, carryOut := bcdSub8(uint8(a), uint8(operand), carryIn)
		c.setAccum(uint16(result))
		c.setFlag(FlagC, carryOut)
		c.setNZ8(result)
		return 2
	}

	width8 := c.eightBitMemory()
	var notOperand uint16
	if width8 {
		notOperand = uint16(^uint8(operand))
	} else {
		notOperand = ^operand
	}
	result, carryOut, overflow := addWithCarry(a, notOperand, carryIn, width8)
	c.setAccum(result)
	c.setFlag(FlagC, carryOut)
	c.setFlag(FlagV, overflow)
	c.setNZByWidth(result)
	return 2
}

func opAND(c *CPU, mode AddrMode) uint64 {
	v := c.accumValue() & c.operandValue(mode)
	c.setAccum(v)
	c.setNZByWidth(v)
	return 2
}

func opORA(c *CPU, mode AddrMode) uint64 {
	v := c.accumValue() | c.operandValue(mode)
	c.setAccum(v)
	c.setNZByWidth(v)
	return 2
}

func opEOR(c *CPU, mode AddrMode) uint64 {
	v := c.accumValue() ^ c.operandValue(mode)
	c.setAccum(v)
	c.setNZByWidth(v)
	return 2
}

func compare(c *CPU, reg, operand uint16, width8 bool) {
	var result uint16
	var carry bool
	if width8 {
		r, ca := uint8(reg), uint8(operand)
		carry = r >= ca
		result = uint16(r - ca)
		c.setNZ8(uint8(result))
	} else {
		carry = reg >= operand
		result = reg - operand
		c.setNZ16(result)
	}
	c.setFlag(FlagC, carry)
}

func opCMP(c *CPU, mode AddrMode) uint64 {
	compare(c, c.accumValue(), c.operandValue(mode), c.eightBitMemory())
	return 2
}

func opCPX(c *CPU, mode AddrMode) uint64 {
	var operand uint16
	if mode == modeImmediateX {
		operand = c.fetchImmediateX()
	} else {
		operand = c.readIndexWidth(c.effectiveAddress(mode))
	}
	compare(c, c.indexValue(), operand, c.eightBitIndex())
	return 2
}

func opCPY(c *CPU, mode AddrMode) uint64 {
	var operand uint16
	if mode == modeImmediateX {
		operand = c.fetchImmediateX()
	} else {
		operand = c.readIndexWidth(c.effectiveAddress(mode))
	}
	compare(c, c.yIndexValue(), operand, c.eightBitIndex())
	return 2
}

func (c *CPU) readIndexWidth(addr uint32) uint16 {
	if c.eightBitIndex() {
		return uint16(c.read8(addr))
	}
	return c.read16(addr)
}

func (c *CPU) writeIndexWidth(addr uint32, v uint16) {
	if c.eightBitIndex() {
		c.write8(addr, uint8(v))
		return
	}
	c.write16(addr, v)
}

func opBIT(c *CPU, mode AddrMode) uint64 {
	var operand uint16
	immediate := mode == modeImmediateM
	if immediate {
		operand = c.fetchImmediateM()
	} else {
		operand = c.readMem(c.effectiveAddress(mode))
	}
	a := c.accumValue()
	c.setFlag(FlagZ, a&operand == 0)
	if !immediate {
		if c.eightBitMemory() {
			c.setFlag(FlagN, operand&0x80 != 0)
			c.setFlag(FlagV, operand&0x40 != 0)
		} else {
			c.setFlag(FlagN, operand&0x8000 != 0)
			c.setFlag(FlagV, operand&0x4000 != 0)
		}
	}
	return 2
}

func shiftLeft(v uint16, width8 bool) (result uint16, carryOut bool) {
	if width8 {
		carryOut = v&0x80 != 0
		return (v << 1) & 0xFF, carryOut
	}
	carryOut = v&0x8000 != 0
	return v << 1, carryOut
}

func shiftRight(v uint16, width8 bool) (result uint16, carryOut bool) {
	carryOut = v&0x01 != 0
	return v >> 1, carryOut
}

func rotateLeft(v uint16, carryIn, width8 bool) (result uint16, carryOut bool) {
	result, carryOut = shiftLeft(v, width8)
	if carryIn {
		result |= 1
	}
	return
}

func rotateRight(v uint16, carryIn, width8 bool) (result uint16, carryOut bool) {
	result, carryOut = shiftRight(v, width8)
	if carryIn {
		if width8 {
			result |= 0x80
		} else {
			result |= 0x8000
		}
	}
	return
}

type shiftOp func(v uint16, carryIn, width8 bool) (uint16, bool)

func wrapNoCarry(f func(uint16, bool) (uint16, bool)) shiftOp {
	return func(v uint16, _ bool, width8 bool) (uint16, bool) { return f(v, width8) }
}

func doShift(c *CPU, mode AddrMode, op shiftOp) uint64 {
	width8 := c.eightBitMemory()
	if mode == modeAccumulator {
		result, carry := op(c.accumValue(), c.flagSet(FlagC), width8)
		c.setAccum(result)
		c.setFlag(FlagC, carry)
		c.setNZByWidth(result)
		return 2
	}
	addr := c.effectiveAddress(mode)
	v := c.readMem(addr)
	result, carry := op(v, c.flagSet(FlagC), width8)
	c.writeMem(addr, result)
	c.setFlag(FlagC, carry)
	c.setNZByWidth(result)
	return 6
}

func opASL(c *CPU, mode AddrMode) uint64 { return doShift(c, mode, wrapNoCarry(shiftLeft)) }
func opLSR(c *CPU, mode AddrMode) uint64 { return doShift(c, mode, wrapNoCarry(shiftRight)) }
func opROL(c *CPU, mode AddrMode) uint64 { return doShift(c, mode, rotateLeft) }
func opROR(c *CPU, mode AddrMode) uint64 { return doShift(c, mode, rotateRight) }

func opINCMem(c *CPU, mode AddrMode) uint64 {
	if mode == modeAccumulator {
		v := c.accumValue() + 1
		if c.eightBitMemory() {
			v &= 0xFF
		}
		c.setAccum(v)
		c.setNZByWidth(v)
		return 2
	}
	addr := c.effectiveAddress(mode)
	v := c.readMem(addr) + 1
	if c.eightBitMemory() {
		v &= 0xFF
	}
	c.writeMem(addr, v)
	c.setNZByWidth(v)
	return 6
}

func opDECMem(c *CPU, mode AddrMode) uint64 {
	if mode == modeAccumulator {
		v := c.accumValue() - 1
		if c.eightBitMemory() {
			v &= 0xFF
		}
		c.setAccum(v)
		c.setNZByWidth(v)
		return 2
	}
	addr := c.effectiveAddress(mode)
	v := c.readMem(addr) - 1
	if c.eightBitMemory() {
		v &= 0xFF
	}
	c.writeMem(addr, v)
	c.setNZByWidth(v)
	return 6
}

func opINX(c *CPU, _ AddrMode) uint64 {
	v := c.indexValue() + 1
	c.setX(v)
	c.setNZIndexByWidth(c.indexValue())
	return 2
}

func opDEX(c *CPU, _ AddrMode) uint64 {
	v := c.indexValue() - 1
	c.setX(v)
	c.setNZIndexByWidth(c.indexValue())
	return 2
}

func opINY(c *CPU, _ AddrMode) uint64 {
	v := c.yIndexValue() + 1
	c.setY(v)
	c.setNZIndexByWidth(c.yIndexValue())
	return 2
}

func opDEY(c *CPU, _ AddrMode) uint64 {
	v := c.yIndexValue() - 1
	c.setY(v)
	c.setNZIndexByWidth(c.yIndexValue())
	return 2
}
