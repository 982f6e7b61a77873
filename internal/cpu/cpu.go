// Package cpu is the 65816-class fetch/decode/execute core: it owns the
// register file, status flags, and stack discipline, and advances one
// instruction per Step call, returning the cycle count consumed.
//
// Grounded on the teacher's internal/cpu/cpu.go shape (a CPUState value
// type, a CPU struct wrapping it plus a Mem interface, Reset/Step/
// TriggerInterrupt entry points, Push16/error-wrapped execute dispatch)
// widened from the teacher's fictional 16-opcode ISA to the real 65816
// instruction set spec.md §4.2 requires, including its native/emulation
// mode split and width discipline.
package cpu

import (
	"fmt"

	"gosnescore/internal/trace"
)

// Bus is the memory-access contract the CPU needs from the MMU.
type Bus interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, value uint8)
}

// Interrupt vector addresses, bank 0, per spec.md §4.2.
const (
	vectorCOPNative  = 0xFFE4
	vectorBRKNative  = 0xFFE6
	vectorNMINative  = 0xFFEA
	vectorIRQNative  = 0xFFEE
	vectorCOPEmu     = 0xFFF4
	vectorNMIEmu     = 0xFFFA
	vectorResetEmu   = 0xFFFC
	vectorBRKIRQEmu  = 0xFFFE
)

// Status flag bits, matching the 65816's P register layout.
const (
	FlagC uint8 = 1 << 0 // carry
	FlagZ uint8 = 1 << 1 // zero
	FlagI uint8 = 1 << 2 // irq disable
	FlagD uint8 = 1 << 3 // decimal
	FlagX uint8 = 1 << 4 // index width (1 = 8-bit); also the B/break flag in emulation mode
	FlagM uint8 = 1 << 5 // memory/accumulator width (1 = 8-bit)
	FlagV uint8 = 1 << 6 // overflow
	FlagN uint8 = 1 << 7 // negative
)

// CPUState is the register file spec.md §3 names.
type CPUState struct {
	A, X, Y uint16
	SP      uint16
	PC      uint16
	PBR     uint8
	DBR     uint8
	D       uint16 // direct page register
	P       uint8  // status flags

	Emulation bool
	Cycles    uint64

	IRQPending bool
	NMIPending bool
}

// CPU is the 65816-class core. Mem is the MMU it fetches and operates
// through; Trace is the optional diagnostic sink.
type CPU struct {
	State CPUState
	Mem   Bus
	Trace *trace.Sink

	UnknownOpcodeCount uint64
}

// New creates a CPU wired to the given bus.
func New(mem Bus) *CPU {
	c := &CPU{Mem: mem}
	c.Reset()
	return c
}

// Reset performs spec.md §4.2's reset sequence: program counter from the
// reset vector at 0x00:FFFC, stack pointer 0x01FF, emulation mode true,
// 8-bit M/X, decimal clear, IRQ disabled.
func (c *CPU) Reset() {
	c.State = CPUState{
		SP:        0x01FF,
		Emulation: true,
		P:         FlagM | FlagX | FlagI,
	}
	lo := c.Mem.Read8(vectorResetEmu)
	hi := c.Mem.Read8(vectorResetEmu + 1)
	c.State.PC = uint16(lo) | uint16(hi)<<8
	c.State.PBR = 0
	c.State.DBR = 0
}

func (c *CPU) flagSet(f uint8) bool  { return c.State.P&f != 0 }
func (c *CPU) setFlag(f uint8, v bool) {
	if v {
		c.State.P |= f
	} else {
		c.State.P &^= f
	}
}

// eightBitMemory reports whether accumulator/memory operations are 8-bit
// width right now (emulation mode always forces this).
func (c *CPU) eightBitMemory() bool { return c.State.Emulation || c.flagSet(FlagM) }

// eightBitIndex reports whether X/Y operations are 8-bit width right now.
func (c *CPU) eightBitIndex() bool { return c.State.Emulation || c.flagSet(FlagX) }

// enforceEmulationConstraints re-applies the invariants spec.md §4.2
// requires whenever the CPU is in (or enters) emulation mode: 8-bit M/X
// and a forced-0x01 stack-pointer high byte.
func (c *CPU) enforceEmulationConstraints() {
	if !c.State.Emulation {
		return
	}
	c.State.P |= FlagM | FlagX
	c.State.SP = 0x0100 | (c.State.SP & 0x00FF)
}

func (c *CPU) fetch8() uint8 {
	addr := uint32(c.State.PBR)<<16 | uint32(c.State.PC)
	v := c.Mem.Read8(addr)
	c.State.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) read8(addr uint32) uint8  { return c.Mem.Read8(addr) }
func (c *CPU) write8(addr uint32, v uint8) { c.Mem.Write8(addr, v) }

func (c *CPU) read16(addr uint32) uint16 {
	bank := addr &^ 0xFFFF
	lo := c.Mem.Read8(addr)
	hi := c.Mem.Read8(bank | ((addr + 1) & 0xFFFF))
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) write16(addr uint32, v uint16) {
	bank := addr &^ 0xFFFF
	c.Mem.Write8(addr, uint8(v))
	c.Mem.Write8(bank|((addr+1)&0xFFFF), uint8(v>>8))
}

// push8/push16 write at the stack pointer and then decrement it, and in
// emulation mode keep its high byte pinned to 0x01 (spec §4.2 Stack).
func (c *CPU) push8(v uint8) {
	c.Mem.Write8(uint32(c.State.SP), v)
	c.State.SP--
	c.enforceEmulationConstraints()
}

func (c *CPU) push16(v uint16) {
	c.push8(uint8(v >> 8))
	c.push8(uint8(v))
}

func (c *CPU) pull8() uint8 {
	c.State.SP++
	c.enforceEmulationConstraints()
	return c.Mem.Read8(uint32(c.State.SP))
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(lo) | uint16(hi)<<8
}

// setNZ8/setNZ16 update the Negative/Zero flags for the full
// effective-width result, per spec.md §4.2's status-update rule.
func (c *CPU) setNZ8(v uint8) {
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, v&0x80 != 0)
}

func (c *CPU) setNZ16(v uint16) {
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, v&0x8000 != 0)
}

// TriggerNMI latches an edge-triggered NMI, delivered on the next
// instruction boundary regardless of the I flag (spec §4.2).
func (c *CPU) TriggerNMI() { c.State.NMIPending = true }

// SetIRQLine sets or clears the level-triggered IRQ line.
func (c *CPU) SetIRQLine(asserted bool) { c.State.IRQPending = asserted }

// Step executes exactly one instruction (servicing a pending interrupt
// first, per spec.md §4.2's "honor IRQ and NMI on instruction boundaries")
// and returns the number of master cycles it consumed.
func (c *CPU) Step() uint64 {
	if cycles, handled := c.serviceInterrupts(); handled {
		c.State.Cycles += cycles
		return cycles
	}

	opcode := c.fetch8()
	entry := opcodeTable[opcode]
	if entry.exec == nil {
		c.UnknownOpcodeCount++
		if c.Trace.Enabled(trace.ComponentCPU, trace.LevelWarning) {
			c.Trace.Tracef(trace.ComponentCPU, trace.LevelWarning, "unknown opcode 0x%02X at %02X:%04X", opcode, c.State.PBR, c.State.PC-1)
		}
		c.State.Cycles += 2
		return 2
	}

	if c.Trace.Enabled(trace.ComponentCPU, trace.LevelDebug) {
		c.Trace.Tracef(trace.ComponentCPU, trace.LevelDebug, "opcode 0x%02X %s", opcode, c.fmtState())
	}

	cycles := entry.exec(c, entry.mode)
	c.State.Cycles += cycles
	return cycles
}

// serviceInterrupts delivers a pending NMI (highest priority) or, failing
// that, a pending level-triggered IRQ when the I flag is clear.
func (c *CPU) serviceInterrupts() (cycles uint64, handled bool) {
	if c.State.NMIPending {
		c.State.NMIPending = false
		c.enterInterrupt(vectorNMINative, vectorNMIEmu, false)
		return 8, true
	}
	if c.State.IRQPending && !c.flagSet(FlagI) {
		c.enterInterrupt(vectorIRQNative, vectorBRKIRQEmu, false)
		return 7, true
	}
	return 0, false
}

// enterInterrupt performs the push-PB/push-PC/push-P, set-I, clear-D
// (native only), PBR=0, vector-jump sequence common to NMI/IRQ/BRK/COP,
// per spec.md §4.2.
func (c *CPU) enterInterrupt(nativeVector, emuVector uint16, brk bool) {
	if !c.State.Emulation {
		c.push8(c.State.PBR)
	}
	c.push16(c.State.PC)
	status := c.State.P
	if c.State.Emulation {
		if brk {
			status |= FlagX // the B flag shares the X bit position in emulation mode
		} else {
			status &^= FlagX
		}
	}
	c.push8(status)

	c.setFlag(FlagI, true)
	if !c.State.Emulation {
		c.setFlag(FlagD, false)
	}
	c.State.PBR = 0

	vector := emuVector
	if !c.State.Emulation {
		vector = nativeVector
	}
	c.State.PC = c.read16(uint32(vector))
}

func (c *CPU) fmtState() string {
	return fmt.Sprintf("A=%04X X=%04X Y=%04X SP=%04X PC=%02X:%04X P=%02X E=%v",
		c.State.A, c.State.X, c.State.Y, c.State.SP, c.State.PBR, c.State.PC, c.State.P, c.State.Emulation)
}
