package cpu

type opcodeFunc func(c *CPU, mode AddrMode) uint64

type opcodeEntry struct {
	mode AddrMode
	exec opcodeFunc
}

var opcodeTable [256]opcodeEntry

func set(op uint8, mode AddrMode, fn opcodeFunc) {
	opcodeTable[op] = opcodeEntry{mode: mode, exec: fn}
}

// init builds the opcode dispatch table. Coverage follows spec.md §4.2's
// operation list: every named operation appears with at least its most
// common addressing modes; opcode bytes this table leaves unset fall
// through to Step's "unknown opcode" path, which is non-fatal per spec.
func init() {
	// Load/store/compare/logical/arithmetic, full addressing-mode spread
	// for the ops that take the whole mode set.
	set(0xA9, modeImmediateM, opLDA)
	set(0xA5, modeDirectPage, opLDA)
	set(0xB5, modeDirectPageX, opLDA)
	set(0xAD, modeAbsolute, opLDA)
	set(0xBD, modeAbsoluteX, opLDA)
	set(0xB9, modeAbsoluteY, opLDA)
	set(0xA1, modeDPIndexedIndirectX, opLDA)
	set(0xB1, modeDPIndirectIndexedY, opLDA)
	set(0xB2, modeDPIndirect, opLDA)
	set(0xA7, modeDPIndirectLong, opLDA)
	set(0xB7, modeDPIndirectLongIndexedY, opLDA)
	set(0xAF, modeAbsoluteLong, opLDA)
	set(0xBF, modeAbsoluteLongX, opLDA)

	set(0x85, modeDirectPage, opSTA)
	set(0x95, modeDirectPageX, opSTA)
	set(0x8D, modeAbsolute, opSTA)
	set(0x9D, modeAbsoluteX, opSTA)
	set(0x99, modeAbsoluteY, opSTA)
	set(0x81, modeDPIndexedIndirectX, opSTA)
	set(0x91, modeDPIndirectIndexedY, opSTA)
	set(0x92, modeDPIndirect, opSTA)
	set(0x87, modeDPIndirectLong, opSTA)
	set(0x97, modeDPIndirectLongIndexedY, opSTA)
	set(0x8F, modeAbsoluteLong, opSTA)
	set(0x9F, modeAbsoluteLongX, opSTA)

	set(0xA2, modeImmediateX, opLDX)
	set(0xA6, modeDirectPage, opLDX)
	set(0xB6, modeDirectPageY, opLDX)
	set(0xAE, modeAbsolute, opLDX)
	set(0xBE, modeAbsoluteY, opLDX)

	set(0xA0, modeImmediateX, opLDY)
	set(0xA4, modeDirectPage, opLDY)
	set(0xB4, modeDirectPageX, opLDY)
	set(0xAC, modeAbsolute, opLDY)
	set(0xBC, modeAbsoluteX, opLDY)

	set(0x86, modeDirectPage, opSTX)
	set(0x96, modeDirectPageY, opSTX)
	set(0x8E, modeAbsolute, opSTX)

	set(0x84, modeDirectPage, opSTY)
	set(0x94, modeDirectPageX, opSTY)
	set(0x8C, modeAbsolute, opSTY)

	set(0x69, modeImmediateM, opADC)
	set(0x65, modeDirectPage, opADC)
	set(0x75, modeDirectPageX, opADC)
	set(0x6D, modeAbsolute, opADC)
	set(0x7D, modeAbsoluteX, opADC)
	set(0x79, modeAbsoluteY, opADC)
	set(0x61, modeDPIndexedIndirectX, opADC)
	set(0x71, modeDPIndirectIndexedY, opADC)
	set(0x72, modeDPIndirect, opADC)
	set(0x67, modeDPIndirectLong, opADC)
	set(0x77, modeDPIndirectLongIndexedY, opADC)
	set(0x6F, modeAbsoluteLong, opADC)
	set(0x7F, modeAbsoluteLongX, opADC)

	set(0xE9, modeImmediateM, opSBC)
	set(0xE5, modeDirectPage, opSBC)
	set(0xF5, modeDirectPageX, opSBC)
	set(0xED, modeAbsolute, opSBC)
	set(0xFD, modeAbsoluteX, opSBC)
	set(0xF9, modeAbsoluteY, opSBC)
	set(0xE1, modeDPIndexedIndirectX, opSBC)
	set(0xF1, modeDPIndirectIndexedY, opSBC)
	set(0xF2, modeDPIndirect, opSBC)
	set(0xE7, modeDPIndirectLong, opSBC)
	set(0xF7, modeDPIndirectLongIndexedY, opSBC)
	set(0xEF, modeAbsoluteLong, opSBC)
	set(0xFF, modeAbsoluteLongX, opSBC)

	set(0x29, modeImmediateM, opAND)
	set(0x25, modeDirectPage, opAND)
	set(0x35, modeDirectPageX, opAND)
	set(0x2D, modeAbsolute, opAND)
	set(0x3D, modeAbsoluteX, opAND)
	set(0x39, modeAbsoluteY, opAND)
	set(0x21, modeDPIndexedIndirectX, opAND)
	set(0x31, modeDPIndirectIndexedY, opAND)
	set(0x32, modeDPIndirect, opAND)
	set(0x2F, modeAbsoluteLong, opAND)

	set(0x09, modeImmediateM, opORA)
	set(0x05, modeDirectPage, opORA)
	set(0x15, modeDirectPageX, opORA)
	set(0x0D, modeAbsolute, opORA)
	set(0x1D, modeAbsoluteX, opORA)
	set(0x19, modeAbsoluteY, opORA)
	set(0x01, modeDPIndexedIndirectX, opORA)
	set(0x11, modeDPIndirectIndexedY, opORA)
	set(0x12, modeDPIndirect, opORA)
	set(0x0F, modeAbsoluteLong, opORA)

	set(0x49, modeImmediateM, opEOR)
	set(0x45, modeDirectPage, opEOR)
	set(0x55, modeDirectPageX, opEOR)
	set(0x4D, modeAbsolute, opEOR)
	set(0x5D, modeAbsoluteX, opEOR)
	set(0x59, modeAbsoluteY, opEOR)
	set(0x41, modeDPIndexedIndirectX, opEOR)
	set(0x51, modeDPIndirectIndexedY, opEOR)
	set(0x52, modeDPIndirect, opEOR)
	set(0x4F, modeAbsoluteLong, opEOR)

	set(0xC9, modeImmediateM, opCMP)
	set(0xC5, modeDirectPage, opCMP)
	set(0xD5, modeDirectPageX, opCMP)
	set(0xCD, modeAbsolute, opCMP)
	set(0xDD, modeAbsoluteX, opCMP)
	set(0xD9, modeAbsoluteY, opCMP)
	set(0xC1, modeDPIndexedIndirectX, opCMP)
	set(0xD1, modeDPIndirectIndexedY, opCMP)
	set(0xD2, modeDPIndirect, opCMP)
	set(0xCF, modeAbsoluteLong, opCMP)

	set(0xE0, modeImmediateX, opCPX)
	set(0xE4, modeDirectPage, opCPX)
	set(0xEC, modeAbsolute, opCPX)

	set(0xC0, modeImmediateX, opCPY)
	set(0xC4, modeDirectPage, opCPY)
	set(0xCC, modeAbsolute, opCPY)

	set(0x89, modeImmediateM, opBIT)
	set(0x24, modeDirectPage, opBIT)
	set(0x2C, modeAbsolute, opBIT)
	set(0x34, modeDirectPageX, opBIT)
	set(0x3C, modeAbsoluteX, opBIT)

	set(0x0A, modeAccumulator, opASL)
	set(0x06, modeDirectPage, opASL)
	set(0x16, modeDirectPageX, opASL)
	set(0x0E, modeAbsolute, opASL)
	set(0x1E, modeAbsoluteX, opASL)

	set(0x4A, modeAccumulator, opLSR)
	set(0x46, modeDirectPage, opLSR)
	set(0x56, modeDirectPageX, opLSR)
	set(0x4E, modeAbsolute, opLSR)
	set(0x5E, modeAbsoluteX, opLSR)

	set(0x2A, modeAccumulator, opROL)
	set(0x26, modeDirectPage, opROL)
	set(0x36, modeDirectPageX, opROL)
	set(0x2E, modeAbsolute, opROL)
	set(0x3E, modeAbsoluteX, opROL)

	set(0x6A, modeAccumulator, opROR)
	set(0x66, modeDirectPage, opROR)
	set(0x76, modeDirectPageX, opROR)
	set(0x6E, modeAbsolute, opROR)
	set(0x7E, modeAbsoluteX, opROR)

	set(0x1A, modeAccumulator, opINCMem)
	set(0xE6, modeDirectPage, opINCMem)
	set(0xF6, modeDirectPageX, opINCMem)
	set(0xEE, modeAbsolute, opINCMem)
	set(0xFE, modeAbsoluteX, opINCMem)

	set(0x3A, modeAccumulator, opDECMem)
	set(0xC6, modeDirectPage, opDECMem)
	set(0xD6, modeDirectPageX, opDECMem)
	set(0xCE, modeAbsolute, opDECMem)
	set(0xDE, modeAbsoluteX, opDECMem)

	set(0xE8, modeImplied, opINX)
	set(0xCA, modeImplied, opDEX)
	set(0xC8, modeImplied, opINY)
	set(0x88, modeImplied, opDEY)

	set(0xAA, modeImplied, opTAX)
	set(0xA8, modeImplied, opTAY)
	set(0x8A, modeImplied, opTXA)
	set(0x98, modeImplied, opTYA)
	set(0xBA, modeImplied, opTSX)
	set(0x9A, modeImplied, opTXS)
	set(0x9B, modeImplied, opTXY)
	set(0xBB, modeImplied, opTYX)
	set(0x5B, modeImplied, opTCD)
	set(0x7B, modeImplied, opTDC)
	set(0x1B, modeImplied, opTCS)
	set(0x3B, modeImplied, opTSC)
	set(0xEB, modeImplied, opXBA)
	set(0xFB, modeImplied, opXCE)

	set(0x10, modeRelative8, opBPL)
	set(0x30, modeRelative8, opBMI)
	set(0x50, modeRelative8, opBVC)
	set(0x70, modeRelative8, opBVS)
	set(0x90, modeRelative8, opBCC)
	set(0xB0, modeRelative8, opBCS)
	set(0xD0, modeRelative8, opBNE)
	set(0xF0, modeRelative8, opBEQ)
	set(0x80, modeRelative8, opBRA)
	set(0x82, modeRelative16, opBRL)

	set(0x4C, modeAbsolute, opJMP)
	set(0x6C, modeAbsoluteIndirect, opJMPIndirect)
	set(0x7C, modeAbsoluteIndexedIndirectX, opJMPIndexedIndirect)
	set(0x5C, modeAbsoluteLong, opJML)
	set(0xDC, modeAbsoluteIndirect, opJMLIndirect)
	set(0x20, modeAbsolute, opJSR)
	set(0x22, modeAbsoluteLong, opJSL)
	set(0x60, modeImplied, opRTS)
	set(0x6B, modeImplied, opRTL)
	set(0x40, modeImplied, opRTI)

	set(0x48, modeImplied, opPHA)
	set(0x68, modeImplied, opPLA)
	set(0xDA, modeImplied, opPHX)
	set(0xFA, modeImplied, opPLX)
	set(0x5A, modeImplied, opPHY)
	set(0x7A, modeImplied, opPLY)
	set(0x08, modeImplied, opPHP)
	set(0x28, modeImplied, opPLP)
	set(0x8B, modeImplied, opPHB)
	set(0xAB, modeImplied, opPLB)
	set(0x0B, modeImplied, opPHD)
	set(0x2B, modeImplied, opPLD)
	set(0x4B, modeImplied, opPHK)
	set(0xF4, modeStack, opPEA)
	set(0xD4, modeImplied, opPEI)
	set(0x62, modeImplied, opPER)

	set(0x18, modeImplied, opCLC)
	set(0x38, modeImplied, opSEC)
	set(0x58, modeImplied, opCLI)
	set(0x78, modeImplied, opSEI)
	set(0xD8, modeImplied, opCLD)
	set(0xF8, modeImplied, opSED)
	set(0xB8, modeImplied, opCLV)
	set(0xC2, modeImmediate8, opREP)
	set(0xE2, modeImmediate8, opSEP)

	set(0x00, modeImplied, opBRK)
	set(0x02, modeImplied, opCOP)
	set(0xEA, modeImplied, opNOP)
	set(0x42, modeImplied, opWDM)
	set(0xDB, modeImplied, opSTP)
	set(0xCB, modeImplied, opWAI)

	set(0x44, modeImplied, opMVP)
	set(0x54, modeImplied, opMVN)
}
