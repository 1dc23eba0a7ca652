package nes

import "log"

// CPU is the per-cycle 6502 interpreter. One call to Tick advances its
// internal state machine by exactly one master-clock cycle and returns
// the bus transaction that cycle performs.
type CPU struct {
	A, X, Y, SP, P byte
	PC             uint16

	// Interpreter scratch.
	op, o1, o2    byte
	data          byte
	tmp           uint16
	extraCycle    bool
	branchCrossed bool

	phase      Phase
	opCycle    int
	addrCycle  int
	execCycle  int
	fetchCount int

	inst             *Instruction
	operand          Operand
	additionalCycles int
	vector           uint16

	pending      PendingInterrupt
	totalTicks   uint64
	instComplete bool

	expectRead bool
	err        error

	Logger *log.Logger
}

// NewCPU returns a CPU parked in Halt until Reset is called: a
// zero-value-safe construction followed by an explicit reset before
// the first tick.
func NewCPU(logger *log.Logger) *CPU {
	if logger == nil {
		logger = log.Default()
	}
	return &CPU{phase: PhaseHalt, Logger: logger}
}

// Reset arms the synthetic RESET pseudo-instruction and enters Execute.
// It does not touch A/X/Y/SP directly; the pseudo-instruction's eighth
// cycle does.
func (cpu *CPU) Reset() {
	cpu.phase = PhaseExecute
	cpu.inst = &resetInstruction
	cpu.vector = vectorReset
	cpu.operand = operandAddress(vectorReset)
	cpu.opCycle = 0
	cpu.addrCycle = 0
	cpu.execCycle = 0
	cpu.fetchCount = 0
	cpu.additionalCycles = 0
	cpu.extraCycle = false
	cpu.pending = PendingInterrupt{}
	cpu.instComplete = false
	cpu.expectRead = false
	cpu.err = nil
	cpu.P = 0x24
}

// IRQ latches a maskable interrupt request, honored at the next
// instruction boundary, unless I is set or one is already pending.
func (cpu *CPU) IRQ() {
	if cpu.flag(FlagI) || cpu.pending.Kind != InterruptNone {
		return
	}
	cpu.pending = PendingInterrupt{Kind: InterruptIRQ, Vector: vectorIRQ}
}

// NMI unconditionally latches a non-maskable interrupt request; edge
// detection is the caller's responsibility.
func (cpu *CPU) NMI() {
	cpu.pending = PendingInterrupt{Kind: InterruptNMI, Vector: vectorNMI}
}

// Halted reports whether the CPU is in Halt: either it has not been
// reset since NewCPU, or it stopped advancing after a fatal condition
// (illegal opcode or contract violation).
func (cpu *CPU) Halted() bool { return cpu.phase == PhaseHalt }

// Err returns the fatal error that halted the CPU, if any.
func (cpu *CPU) Err() error { return cpu.err }

// Tick advances the interpreter by one master-clock cycle. input carries
// the byte the bus latched in response to the previous tick's Read
// request; it must be nil exactly when that request was not a Read.
func (cpu *CPU) Tick(input *byte) BusRequest {
	if cpu.phase == PhaseHalt {
		return IdleRequest
	}
	if cpu.expectRead && input == nil {
		cpu.fatal(NewContractViolationError("tick(None) following a Read request"))
		return IdleRequest
	}
	if !cpu.expectRead && input != nil {
		cpu.fatal(NewContractViolationError("tick(Some) following a non-Read request"))
		return IdleRequest
	}
	if input != nil {
		cpu.data = *input
	}

	cpu.totalTicks++
	cpu.opCycle++
	cpu.instComplete = false

	req, done := cpu.step()
	if done {
		req = cpu.completeInstruction()
	}

	cpu.expectRead = req.Kind == ReqRead
	return req
}

func (cpu *CPU) step() (BusRequest, bool) {
	switch cpu.phase {
	case PhaseFetch:
		return cpu.stepFetch()
	case PhaseAddressing:
		return cpu.stepAddressing()
	default:
		return cpu.stepExecute()
	}
}

// stepFetch runs the Fetch phase. fetchCount 0 is also the interrupt
// sampling point: a pending IRQ/NMI discovered here diverts into the
// interrupt pseudo-instruction before the waiting byte is ever decoded
// as an opcode, and PC is left untouched -- the byte that was fetched
// to get here is thrown away exactly the way real hardware discards
// the opcode fetch it starts before recognizing a pending interrupt.
func (cpu *CPU) stepFetch() (BusRequest, bool) {
	if cpu.fetchCount == 0 && cpu.pending.Kind != InterruptNone {
		return cpu.enterInterrupt()
	}

	switch cpu.fetchCount {
	case 0:
		cpu.op = cpu.data
		cpu.inst = &opcodeTable[cpu.op]
		cpu.PC++
		if cpu.inst.Illegal {
			cpu.illegalOpcode()
			return IdleRequest, false
		}
	case 1:
		cpu.o1 = cpu.data
	case 2:
		cpu.o2 = cpu.data
	}
	cpu.fetchCount++

	if cpu.fetchCount < int(cpu.inst.Bytes) {
		req := ReadRequest(cpu.PC)
		cpu.PC++
		return req, false
	}

	cpu.phase = PhaseAddressing
	cpu.addrCycle = 0
	return cpu.stepAddressing()
}

// enterInterrupt arms the IRQ or NMI pseudo-instruction carrying its
// vector as operand and falls through to its first execute cycle
// within the same tick, matching the no-request-wasted phase rule.
func (cpu *CPU) enterInterrupt() (BusRequest, bool) {
	kind := cpu.pending.Kind
	vector := cpu.pending.Vector
	cpu.pending = PendingInterrupt{}
	cpu.vector = vector
	cpu.operand = operandAddress(vector)
	if kind == InterruptNMI {
		cpu.inst = &nmiInstruction
	} else {
		cpu.inst = &irqInstruction
	}
	cpu.phase = PhaseExecute
	cpu.execCycle = 0
	return cpu.stepExecute()
}

func (cpu *CPU) stepAddressing() (BusRequest, bool) {
	cpu.addrCycle++
	req, operand, done := cpu.inst.AddrFn(cpu, cpu.addrCycle)
	if !done {
		return req, false
	}
	cpu.operand = operand
	cpu.phase = PhaseExecute
	cpu.execCycle = 0
	return cpu.stepExecute()
}

func (cpu *CPU) stepExecute() (BusRequest, bool) {
	cpu.execCycle++
	req := cpu.inst.OpFn(cpu, cpu.execCycle)

	if cpu.extraCycle {
		cpu.additionalCycles++
		cpu.extraCycle = false
	}

	total := int(cpu.inst.Cycles) + cpu.additionalCycles
	return req, cpu.opCycle >= total
}

// completeInstruction closes out the instruction that just finished
// its last cycle and reopens the Fetch phase. Whether the next thing
// to run turns out to be a real opcode or a serviced interrupt is
// decided one tick later, at stepFetch's first cycle -- this always
// just re-arms Fetch and issues Read(PC), per spec "in either case".
func (cpu *CPU) completeInstruction() BusRequest {
	cpu.opCycle = 0
	cpu.addrCycle = 0
	cpu.execCycle = 0
	cpu.additionalCycles = 0
	cpu.fetchCount = 0
	cpu.instComplete = true

	cpu.inst = nil
	cpu.operand = Operand{}
	cpu.phase = PhaseFetch

	return ReadRequest(cpu.PC)
}

func (cpu *CPU) illegalOpcode() {
	cpu.fatal(NewIllegalOpcodeError(cpu.op, cpu.PC-1))
}

func (cpu *CPU) fatal(err error) {
	cpu.phase = PhaseHalt
	cpu.err = err
	if cpu.Logger != nil {
		cpu.Logger.Printf("cpu halted: %v", err)
	}
}

func (cpu *CPU) flag(f StatusFlag) bool {
	return cpu.P&byte(f) != 0
}

func (cpu *CPU) setFlag(f StatusFlag, set bool) {
	if set {
		cpu.P |= byte(f)
	} else {
		cpu.P &^= byte(f)
	}
}

func (cpu *CPU) setZN(v byte) {
	cpu.setFlag(FlagZ, v == 0)
	cpu.setFlag(FlagN, v&0x80 != 0)
}
