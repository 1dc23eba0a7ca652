package nes

// AddressingMode labels one of the 13 6502 addressing modes. It is carried
// on each Instruction purely for disassembly/debug text; dispatch itself
// goes through the AddrFn/OpFn function pointers in the opcode table.
type AddressingMode int

const (
	IMP AddressingMode = iota // implied
	ACC                       // accumulator
	IMM                       // immediate
	REL                       // relative (branches)
	ZP0                       // zero page
	ZPX                       // zero page, X
	ZPY                       // zero page, Y
	ABS                       // absolute
	ABX                       // absolute, X
	ABY                       // absolute, Y
	IND                       // indirect
	IZX                       // (indirect, X)
	IZY                       // (indirect), Y
)

func (m AddressingMode) String() string {
	switch m {
	case IMP:
		return "IMP"
	case ACC:
		return "ACC"
	case IMM:
		return "IMM"
	case REL:
		return "REL"
	case ZP0:
		return "ZP0"
	case ZPX:
		return "ZPX"
	case ZPY:
		return "ZPY"
	case ABS:
		return "ABS"
	case ABX:
		return "ABX"
	case ABY:
		return "ABY"
	case IND:
		return "IND"
	case IZX:
		return "IZX"
	case IZY:
		return "IZY"
	default:
		return "???"
	}
}

// bytesForMode returns the instruction length implied by an addressing
// mode: the opcode byte plus however many operand bytes that mode reads
// during the fetch phase.
func bytesForMode(m AddressingMode) byte {
	switch m {
	case IMP, ACC:
		return 1
	case ABS, ABX, ABY, IND:
		return 3
	default:
		return 2
	}
}

// AddrFn is one of the 13 addressing-mode co-routines. It is invoked once
// per tick while the CPU is in the Addressing phase, parameterized by a
// 1-based cycle counter private to this phase. A false done means the
// returned BusRequest is this tick's output and the routine will be
// called again next tick; a true done means the operand is finalized and
// the interpreter falls through to Execute within the same tick (the
// returned BusRequest is then discarded).
type AddrFn func(cpu *CPU, addrCycle int) (BusRequest, Operand, bool)

func addrIMP(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	return IdleRequest, operandImplied, true
}

// addrACC is dispatch-identical to addrIMP; the accumulator-vs-memory
// distinction is made by the operation routine via Operand.Kind.
func addrACC(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	return IdleRequest, operandImplied, true
}

func addrIMM(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	return IdleRequest, operandImmediate(cpu.o1), true
}

func addrZP0(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	return IdleRequest, operandAddress(uint16(cpu.o1)), true
}

func addrZPX(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	if addrCycle == 1 {
		return IdleRequest, Operand{}, false
	}
	return IdleRequest, operandAddress(uint16(cpu.o1 + cpu.X)), true
}

func addrZPY(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	if addrCycle == 1 {
		return IdleRequest, Operand{}, false
	}
	return IdleRequest, operandAddress(uint16(cpu.o1 + cpu.Y)), true
}

func addrABS(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	return IdleRequest, operandAddress(uint16(cpu.o2)<<8 | uint16(cpu.o1)), true
}

func absIndexed(cpu *CPU, index byte, penalty bool) Operand {
	base := uint16(cpu.o2)<<8 | uint16(cpu.o1)
	result := base + uint16(index)
	if penalty && result&0xFF00 != base&0xFF00 {
		cpu.extraCycle = true
	}
	return operandAddress(result)
}

// addrABX is the conditional-penalty absolute,X used by read instructions.
func addrABX(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	return IdleRequest, absIndexed(cpu, cpu.X, true), true
}

// addrABXFixed is the always-worst-case absolute,X used by stores and
// read-modify-write instructions, whose base cycle count already budgets
// for the page-cross case every time.
func addrABXFixed(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	return IdleRequest, absIndexed(cpu, cpu.X, false), true
}

func addrABY(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	return IdleRequest, absIndexed(cpu, cpu.Y, true), true
}

func addrABYFixed(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	return IdleRequest, absIndexed(cpu, cpu.Y, false), true
}

// addrIND implements JMP's indirect fetch. The real hardware's page-wrap
// bug on a 0xFF-aligned pointer low byte is not modeled.
func addrIND(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	ptr := uint16(cpu.o2)<<8 | uint16(cpu.o1)
	switch addrCycle {
	case 1:
		return ReadRequest(ptr), Operand{}, false
	case 2:
		cpu.tmp = uint16(cpu.data)
		return ReadRequest(ptr + 1), Operand{}, false
	default:
		return IdleRequest, operandAddress(uint16(cpu.data)<<8 | cpu.tmp), true
	}
}

func addrIZX(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	zp := cpu.o1 + cpu.X
	switch addrCycle {
	case 1:
		return ReadRequest(uint16(zp)), Operand{}, false
	case 2:
		cpu.tmp = uint16(cpu.data)
		return ReadRequest(uint16(zp + 1)), Operand{}, false
	default:
		return IdleRequest, operandAddress(uint16(cpu.data)<<8 | cpu.tmp), true
	}
}

func izyIndexed(cpu *CPU, addrCycle int, penalty bool) (BusRequest, Operand, bool) {
	switch addrCycle {
	case 1:
		return ReadRequest(uint16(cpu.o1)), Operand{}, false
	case 2:
		cpu.tmp = uint16(cpu.data)
		return ReadRequest(uint16(cpu.o1 + 1)), Operand{}, false
	default:
		base := uint16(cpu.data)<<8 | cpu.tmp
		result := base + uint16(cpu.Y)
		if penalty && result&0xFF00 != base&0xFF00 {
			cpu.extraCycle = true
		}
		return IdleRequest, operandAddress(result), true
	}
}

func addrIZY(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	return izyIndexed(cpu, addrCycle, true)
}

func addrIZYFixed(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	return izyIndexed(cpu, addrCycle, false)
}

func addrREL(cpu *CPU, addrCycle int) (BusRequest, Operand, bool) {
	offset := int8(cpu.o1)
	target := uint16(int32(cpu.PC) + int32(offset))
	return IdleRequest, operandAddress(target), true
}
