package memory

const (
	regPPULow   = 0x2100
	regPPUHigh  = 0x2140
	regAPULow   = 0x2140
	regAPUHigh  = 0x2144
	regNMIEnbl  = 0x4200
	regNMIFlag  = 0x4210
	regHVStatus = 0x4212
	regDMAStart = 0x420B
	regJoyLow   = 0x4016
	regJoyHigh  = 0x4018
	regDMABase  = 0x4300
	regDMAEnd   = 0x4380
)

// readRegister and writeRegister implement the 0x2100-0x5FFF register-file
// projection described in spec.md §4.1's table: most addresses forward to
// the PPU or APU, a handful (NMI enable/flag, H/V status, DMA channel
// registers and the DMA start trigger) are owned directly by the Bus
// because they mediate DMA and interrupt delivery, which the Scheduler
// (not the PPU or APU) is responsible for.
func (b *Bus) readRegister(offset uint16) uint8 {
	switch {
	case offset >= regPPULow && offset < regAPULow:
		if b.PPU != nil {
			return b.PPU.ReadRegister(offset - regPPULow)
		}
		return 0
	case offset >= regAPULow && offset < regAPUHigh:
		if b.APU != nil {
			return b.APU.ReadRegister(offset - regAPULow)
		}
		return 0
	case offset == regNMIFlag:
		v := uint8(0)
		if b.nmiFlagSet {
			v = 0x80
		}
		b.nmiFlagSet = false // read-to-clear
		return v
	case offset == regHVStatus:
		if b.InVBlank {
			return 0x80
		}
		return 0
	case offset >= regJoyLow && offset < regJoyHigh:
		if b.Input != nil {
			return b.Input.ReadRegister(offset - regJoyLow)
		}
		return 0
	case offset >= regDMABase && offset < regDMAEnd:
		return b.DMA.readRegister(offset - regDMABase)
	default:
		return 0
	}
}

func (b *Bus) writeRegister(offset uint16, value uint8) {
	switch {
	case offset >= regPPULow && offset < regAPULow:
		if b.PPU != nil {
			b.PPU.WriteRegister(offset-regPPULow, value)
		}
	case offset >= regAPULow && offset < regAPUHigh:
		if b.APU != nil {
			b.APU.WriteRegister(offset-regAPULow, value)
		}
	case offset == regNMIEnbl:
		b.NMIEnable = value&0x80 != 0
		b.IRQEnable = value&0x10 != 0
	case offset == regDMAStart:
		b.DMA.Trigger(value)
	case offset >= regJoyLow && offset < regJoyHigh:
		if b.Input != nil {
			b.Input.WriteRegister(offset-regJoyLow, value)
		}
	case offset >= regDMABase && offset < regDMAEnd:
		b.DMA.writeRegister(offset-regDMABase, value)
	}
}

// RaiseVBlank is called by the Scheduler at vertical-blank entry. It sets
// the latched NMI flag (read-and-clear at 0x4210) and the live 0x4212
// status bit, and reports whether NMI delivery is currently enabled.
func (b *Bus) RaiseVBlank() (nmiEnabled bool) {
	b.InVBlank = true
	b.nmiFlagSet = true
	return b.NMIEnable
}

// ClearVBlank is called by the Scheduler when the vertical-blank period
// ends (spec §4.5 step (f)).
func (b *Bus) ClearVBlank() {
	b.InVBlank = false
}
