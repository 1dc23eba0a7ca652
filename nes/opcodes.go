package nes

// OpFn is one of the operation routines, invoked once per tick while the
// CPU is in the Execute phase, parameterized by a 1-based cycle counter
// private to this phase.
type OpFn func(cpu *CPU, execCycle int) BusRequest

// Instruction is one decoded opcode: its disassembly shape, addressing
// co-routine, operation routine, and base (best-case) cycle count.
type Instruction struct {
	Mnemonic string
	Mode     AddressingMode
	Bytes    byte
	Cycles   byte
	AddrFn   AddrFn
	OpFn     OpFn
	Illegal  bool
}

func inst(mnemonic string, mode AddressingMode, cycles byte, addr AddrFn, op OpFn) Instruction {
	return Instruction{Mnemonic: mnemonic, Mode: mode, Bytes: bytesForMode(mode), Cycles: cycles, AddrFn: addr, OpFn: op}
}

var illegalInstruction = Instruction{Mnemonic: "???", Mode: IMP, Bytes: 1, Cycles: 2, AddrFn: addrIMP, OpFn: opNOP, Illegal: true}

// resetInstruction, irqInstruction and nmiInstruction are synthetic
// pseudo-instructions dispatched through the same Fetch/Addressing/
// Execute machinery as real opcodes. All three take 8 cycles. IRQ and
// NMI do their work on the earliest execute calls, with trailing idle
// calls filling out the budget; RESET idles first and does its work on
// cycles 6-8.
var (
	resetInstruction = Instruction{Mnemonic: "RESET", Mode: IMP, Bytes: 1, Cycles: 8, AddrFn: addrIMP, OpFn: opReset}
	irqInstruction    = Instruction{Mnemonic: "IRQ", Mode: IMP, Bytes: 1, Cycles: 8, AddrFn: addrIMP, OpFn: opInterrupt}
	nmiInstruction    = Instruction{Mnemonic: "NMI", Mode: IMP, Bytes: 1, Cycles: 8, AddrFn: addrIMP, OpFn: opInterrupt}
)

// opcodeTable is the full 256-entry dispatch table: 151 legal opcodes and
// 105 illegal markers. Mnemonic/mode/cycle assignments follow the
// canonical NMOS 6502 instruction matrix.
var opcodeTable = buildOpcodeTable()

func buildOpcodeTable() [256]Instruction {
	var t [256]Instruction
	for i := range t {
		t[i] = illegalInstruction
	}

	set := func(op byte, i Instruction) { t[op] = i }

	set(0x00, inst("BRK", IMP, 7, addrIMP, opBRK))
	set(0x01, inst("ORA", IZX, 6, addrIZX, opORA))
	set(0x05, inst("ORA", ZP0, 3, addrZP0, opORA))
	set(0x06, inst("ASL", ZP0, 5, addrZP0, opASL))
	set(0x08, inst("PHP", IMP, 3, addrIMP, opPHP))
	set(0x09, inst("ORA", IMM, 2, addrIMM, opORA))
	set(0x0A, inst("ASL", ACC, 2, addrACC, opASL))
	set(0x0D, inst("ORA", ABS, 4, addrABS, opORA))
	set(0x0E, inst("ASL", ABS, 6, addrABS, opASL))

	set(0x10, inst("BPL", REL, 2, addrREL, opBPL))
	set(0x11, inst("ORA", IZY, 5, addrIZY, opORA))
	set(0x15, inst("ORA", ZPX, 4, addrZPX, opORA))
	set(0x16, inst("ASL", ZPX, 6, addrZPX, opASL))
	set(0x18, inst("CLC", IMP, 2, addrIMP, opCLC))
	set(0x19, inst("ORA", ABY, 4, addrABY, opORA))
	set(0x1D, inst("ORA", ABX, 4, addrABX, opORA))
	set(0x1E, inst("ASL", ABX, 7, addrABXFixed, opASL))

	set(0x20, inst("JSR", ABS, 6, addrABS, opJSR))
	set(0x21, inst("AND", IZX, 6, addrIZX, opAND))
	set(0x24, inst("BIT", ZP0, 3, addrZP0, opBIT))
	set(0x25, inst("AND", ZP0, 3, addrZP0, opAND))
	set(0x26, inst("ROL", ZP0, 5, addrZP0, opROL))
	set(0x28, inst("PLP", IMP, 4, addrIMP, opPLP))
	set(0x29, inst("AND", IMM, 2, addrIMM, opAND))
	set(0x2A, inst("ROL", ACC, 2, addrACC, opROL))
	set(0x2C, inst("BIT", ABS, 4, addrABS, opBIT))
	set(0x2D, inst("AND", ABS, 4, addrABS, opAND))
	set(0x2E, inst("ROL", ABS, 6, addrABS, opROL))

	set(0x30, inst("BMI", REL, 2, addrREL, opBMI))
	set(0x31, inst("AND", IZY, 5, addrIZY, opAND))
	set(0x35, inst("AND", ZPX, 4, addrZPX, opAND))
	set(0x36, inst("ROL", ZPX, 6, addrZPX, opROL))
	set(0x38, inst("SEC", IMP, 2, addrIMP, opSEC))
	set(0x39, inst("AND", ABY, 4, addrABY, opAND))
	set(0x3D, inst("AND", ABX, 4, addrABX, opAND))
	set(0x3E, inst("ROL", ABX, 7, addrABXFixed, opROL))

	set(0x40, inst("RTI", IMP, 6, addrIMP, opRTI))
	set(0x41, inst("EOR", IZX, 6, addrIZX, opEOR))
	set(0x45, inst("EOR", ZP0, 3, addrZP0, opEOR))
	set(0x46, inst("LSR", ZP0, 5, addrZP0, opLSR))
	set(0x48, inst("PHA", IMP, 3, addrIMP, opPHA))
	set(0x49, inst("EOR", IMM, 2, addrIMM, opEOR))
	set(0x4A, inst("LSR", ACC, 2, addrACC, opLSR))
	set(0x4C, inst("JMP", ABS, 3, addrABS, opJMP))
	set(0x4D, inst("EOR", ABS, 4, addrABS, opEOR))
	set(0x4E, inst("LSR", ABS, 6, addrABS, opLSR))

	set(0x50, inst("BVC", REL, 2, addrREL, opBVC))
	set(0x51, inst("EOR", IZY, 5, addrIZY, opEOR))
	set(0x55, inst("EOR", ZPX, 4, addrZPX, opEOR))
	set(0x56, inst("LSR", ZPX, 6, addrZPX, opLSR))
	set(0x58, inst("CLI", IMP, 2, addrIMP, opCLI))
	set(0x59, inst("EOR", ABY, 4, addrABY, opEOR))
	set(0x5D, inst("EOR", ABX, 4, addrABX, opEOR))
	set(0x5E, inst("LSR", ABX, 7, addrABXFixed, opLSR))

	set(0x60, inst("RTS", IMP, 6, addrIMP, opRTS))
	set(0x61, inst("ADC", IZX, 6, addrIZX, opADC))
	set(0x65, inst("ADC", ZP0, 3, addrZP0, opADC))
	set(0x66, inst("ROR", ZP0, 5, addrZP0, opROR))
	set(0x68, inst("PLA", IMP, 4, addrIMP, opPLA))
	set(0x69, inst("ADC", IMM, 2, addrIMM, opADC))
	set(0x6A, inst("ROR", ACC, 2, addrACC, opROR))
	set(0x6C, inst("JMP", IND, 5, addrIND, opJMP))
	set(0x6D, inst("ADC", ABS, 4, addrABS, opADC))
	set(0x6E, inst("ROR", ABS, 6, addrABS, opROR))

	set(0x70, inst("BVS", REL, 2, addrREL, opBVS))
	set(0x71, inst("ADC", IZY, 5, addrIZY, opADC))
	set(0x75, inst("ADC", ZPX, 4, addrZPX, opADC))
	set(0x76, inst("ROR", ZPX, 6, addrZPX, opROR))
	set(0x78, inst("SEI", IMP, 2, addrIMP, opSEI))
	set(0x79, inst("ADC", ABY, 4, addrABY, opADC))
	set(0x7D, inst("ADC", ABX, 4, addrABX, opADC))
	set(0x7E, inst("ROR", ABX, 7, addrABXFixed, opROR))

	set(0x81, inst("STA", IZX, 6, addrIZX, opSTA))
	set(0x84, inst("STY", ZP0, 3, addrZP0, opSTY))
	set(0x85, inst("STA", ZP0, 3, addrZP0, opSTA))
	set(0x86, inst("STX", ZP0, 3, addrZP0, opSTX))
	set(0x88, inst("DEY", IMP, 2, addrIMP, opDEY))
	set(0x8A, inst("TXA", IMP, 2, addrIMP, opTXA))
	set(0x8C, inst("STY", ABS, 4, addrABS, opSTY))
	set(0x8D, inst("STA", ABS, 4, addrABS, opSTA))
	set(0x8E, inst("STX", ABS, 4, addrABS, opSTX))

	set(0x90, inst("BCC", REL, 2, addrREL, opBCC))
	set(0x91, inst("STA", IZY, 6, addrIZYFixed, opSTA))
	set(0x94, inst("STY", ZPX, 4, addrZPX, opSTY))
	set(0x95, inst("STA", ZPX, 4, addrZPX, opSTA))
	set(0x96, inst("STX", ZPY, 4, addrZPY, opSTX))
	set(0x98, inst("TYA", IMP, 2, addrIMP, opTYA))
	set(0x99, inst("STA", ABY, 5, addrABYFixed, opSTA))
	set(0x9A, inst("TXS", IMP, 2, addrIMP, opTXS))
	set(0x9D, inst("STA", ABX, 5, addrABXFixed, opSTA))

	set(0xA0, inst("LDY", IMM, 2, addrIMM, opLDY))
	set(0xA1, inst("LDA", IZX, 6, addrIZX, opLDA))
	set(0xA2, inst("LDX", IMM, 2, addrIMM, opLDX))
	set(0xA4, inst("LDY", ZP0, 3, addrZP0, opLDY))
	set(0xA5, inst("LDA", ZP0, 3, addrZP0, opLDA))
	set(0xA6, inst("LDX", ZP0, 3, addrZP0, opLDX))
	set(0xA8, inst("TAY", IMP, 2, addrIMP, opTAY))
	set(0xA9, inst("LDA", IMM, 2, addrIMM, opLDA))
	set(0xAA, inst("TAX", IMP, 2, addrIMP, opTAX))
	set(0xAC, inst("LDY", ABS, 4, addrABS, opLDY))
	set(0xAD, inst("LDA", ABS, 4, addrABS, opLDA))
	set(0xAE, inst("LDX", ABS, 4, addrABS, opLDX))

	set(0xB0, inst("BCS", REL, 2, addrREL, opBCS))
	set(0xB1, inst("LDA", IZY, 5, addrIZY, opLDA))
	set(0xB4, inst("LDY", ZPX, 4, addrZPX, opLDY))
	set(0xB5, inst("LDA", ZPX, 4, addrZPX, opLDA))
	set(0xB6, inst("LDX", ZPY, 4, addrZPY, opLDX))
	set(0xB8, inst("CLV", IMP, 2, addrIMP, opCLV))
	set(0xB9, inst("LDA", ABY, 4, addrABY, opLDA))
	set(0xBA, inst("TSX", IMP, 2, addrIMP, opTSX))
	set(0xBC, inst("LDY", ABX, 4, addrABX, opLDY))
	set(0xBD, inst("LDA", ABX, 4, addrABX, opLDA))
	set(0xBE, inst("LDX", ABY, 4, addrABY, opLDX))

	set(0xC0, inst("CPY", IMM, 2, addrIMM, opCPY))
	set(0xC1, inst("CMP", IZX, 6, addrIZX, opCMP))
	set(0xC4, inst("CPY", ZP0, 3, addrZP0, opCPY))
	set(0xC5, inst("CMP", ZP0, 3, addrZP0, opCMP))
	set(0xC6, inst("DEC", ZP0, 5, addrZP0, opDEC))
	set(0xC8, inst("INY", IMP, 2, addrIMP, opINY))
	set(0xC9, inst("CMP", IMM, 2, addrIMM, opCMP))
	set(0xCA, inst("DEX", IMP, 2, addrIMP, opDEX))
	set(0xCC, inst("CPY", ABS, 4, addrABS, opCPY))
	set(0xCD, inst("CMP", ABS, 4, addrABS, opCMP))
	set(0xCE, inst("DEC", ABS, 6, addrABS, opDEC))

	set(0xD0, inst("BNE", REL, 2, addrREL, opBNE))
	set(0xD1, inst("CMP", IZY, 5, addrIZY, opCMP))
	set(0xD5, inst("CMP", ZPX, 4, addrZPX, opCMP))
	set(0xD6, inst("DEC", ZPX, 6, addrZPX, opDEC))
	set(0xD8, inst("CLD", IMP, 2, addrIMP, opCLD))
	set(0xD9, inst("CMP", ABY, 4, addrABY, opCMP))
	set(0xDD, inst("CMP", ABX, 4, addrABX, opCMP))
	set(0xDE, inst("DEC", ABX, 7, addrABXFixed, opDEC))

	set(0xE0, inst("CPX", IMM, 2, addrIMM, opCPX))
	set(0xE1, inst("SBC", IZX, 6, addrIZX, opSBC))
	set(0xE4, inst("CPX", ZP0, 3, addrZP0, opCPX))
	set(0xE5, inst("SBC", ZP0, 3, addrZP0, opSBC))
	set(0xE6, inst("INC", ZP0, 5, addrZP0, opINC))
	set(0xE8, inst("INX", IMP, 2, addrIMP, opINX))
	set(0xE9, inst("SBC", IMM, 2, addrIMM, opSBC))
	set(0xEA, inst("NOP", IMP, 2, addrIMP, opNOP))
	set(0xEC, inst("CPX", ABS, 4, addrABS, opCPX))
	set(0xED, inst("SBC", ABS, 4, addrABS, opSBC))
	set(0xEE, inst("INC", ABS, 6, addrABS, opINC))

	set(0xF0, inst("BEQ", REL, 2, addrREL, opBEQ))
	set(0xF1, inst("SBC", IZY, 5, addrIZY, opSBC))
	set(0xF5, inst("SBC", ZPX, 4, addrZPX, opSBC))
	set(0xF6, inst("INC", ZPX, 6, addrZPX, opINC))
	set(0xF8, inst("SED", IMP, 2, addrIMP, opSED))
	set(0xF9, inst("SBC", ABY, 4, addrABY, opSBC))
	set(0xFD, inst("SBC", ABX, 4, addrABX, opSBC))
	set(0xFE, inst("INC", ABX, 7, addrABXFixed, opINC))

	return t
}
