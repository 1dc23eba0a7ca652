package nes

import "github.com/davecgh/go-spew/spew"

// Snapshot is a read-only copy of the CPU's register file and
// interpreter state, safe to retain and compare across ticks. It is the
// only window this module gives onto CPU internals; there is no
// stepping or breakpoint control here, only inspection.
type Snapshot struct {
	A, X, Y, SP, P byte
	PC             uint16

	Phase            Phase
	OpCycle          int
	AdditionalCycles int
	TotalTicks       uint64
	InstComplete     bool

	Opcode   byte
	Mnemonic string
	Mode     AddressingMode
	Operand  Operand

	Pending PendingInterrupt
	Halted  bool
	Err     error
}

// Snapshot captures the CPU's current state for inspection. It does not
// mutate the CPU.
func (cpu *CPU) Snapshot() Snapshot {
	s := Snapshot{
		A: cpu.A, X: cpu.X, Y: cpu.Y, SP: cpu.SP, P: cpu.P, PC: cpu.PC,

		Phase:            cpu.phase,
		OpCycle:          cpu.opCycle,
		AdditionalCycles: cpu.additionalCycles,
		TotalTicks:       cpu.totalTicks,
		InstComplete:     cpu.instComplete,

		Opcode:  cpu.op,
		Operand: cpu.operand,

		Pending: cpu.pending,
		Halted:  cpu.phase == PhaseHalt,
		Err:     cpu.err,
	}
	if cpu.inst != nil {
		s.Mnemonic = cpu.inst.Mnemonic
		s.Mode = cpu.inst.Mode
	}
	return s
}

// Dump renders a Snapshot as a multi-line debug string, grounded on the
// same go-spew dumping approach used for CPU-state inspection.
func (s Snapshot) Dump() string {
	return spew.Sdump(s)
}

func (s Snapshot) String() string {
	return s.Mnemonic + " " + s.Mode.String() +
		" A=" + hex8(s.A) + " X=" + hex8(s.X) + " Y=" + hex8(s.Y) +
		" SP=" + hex8(s.SP) + " P=" + hex8(s.P) + " PC=" + hex16(s.PC)
}
