package nes

import (
	"log"
	"time"
)

const (
	ramMinAddr uint16 = 0x0000
	ramMaxAddr uint16 = 0x1FFF
	ramMirror  uint16 = 0x07FF // mirror every 2KB

	stubMinAddr uint16 = 0x2000 // PPU/APU/test-mode registers: not implemented
	stubMaxAddr uint16 = 0x401F

	cartMinAddr uint16 = 0x4020
)

// Emulator is the single-threaded owner of the CPU, its 2KiB of work
// RAM, and the loaded cartridge. It is the only component that talks to
// the CPU's Tick contract directly; everything else goes through it.
type Emulator struct {
	CPU  *CPU
	Ram  [2048]byte
	Cart *Cartridge

	pending *byte
	warned  map[uint16]bool

	Logger *log.Logger
}

// NewEmulator wires a fresh CPU to the given cartridge and parks the
// CPU in Halt until Reset is called.
func NewEmulator(cart *Cartridge, logger *log.Logger) *Emulator {
	if logger == nil {
		logger = log.Default()
	}
	return &Emulator{
		CPU:    NewCPU(logger),
		Cart:   cart,
		warned: make(map[uint16]bool),
		Logger: logger,
	}
}

// Reset re-arms the CPU's RESET pseudo-instruction and clears any bus
// transaction in flight.
func (e *Emulator) Reset() {
	e.CPU.Reset()
	e.pending = nil
}

// IRQ and NMI forward to the owned CPU as a thin pass-through for the
// interrupt lines.
func (e *Emulator) IRQ() { e.CPU.IRQ() }
func (e *Emulator) NMI() { e.CPU.NMI() }

// Tick drives the CPU by exactly one master-clock cycle, servicing
// whatever BusRequest it returns against RAM or the cartridge and
// latching the response for the CPU's next Tick call.
func (e *Emulator) Tick() {
	req := e.CPU.Tick(e.pending)
	e.pending = nil

	switch req.Kind {
	case ReqRead:
		v := e.read(req.Addr)
		e.pending = &v
	case ReqWrite:
		e.write(req.Addr, req.Data)
	}
}

// Run drives the CPU for n ticks, or until it halts, logging the
// elapsed wall-clock time on return.
func (e *Emulator) Run(n int) {
	defer TimeTrack(time.Now())
	for i := 0; i < n && !e.CPU.Halted(); i++ {
		e.Tick()
	}
}

func (e *Emulator) read(addr uint16) byte {
	switch {
	case addr >= ramMinAddr && addr <= ramMaxAddr:
		return e.Ram[addr&ramMirror]
	case addr >= stubMinAddr && addr <= stubMaxAddr:
		e.warnOnce(addr, "read from unimplemented PPU/APU/test region")
		return 0
	case addr >= cartMinAddr:
		if v, ok := e.Cart.CpuRead(addr); ok {
			return v
		}
		e.warnOnce(addr, "read from unmapped cartridge address")
		return 0
	default:
		e.warnOnce(addr, "read from unmapped address")
		return 0
	}
}

func (e *Emulator) write(addr uint16, data byte) {
	switch {
	case addr >= ramMinAddr && addr <= ramMaxAddr:
		e.Ram[addr&ramMirror] = data
	case addr >= stubMinAddr && addr <= stubMaxAddr:
		e.warnOnce(addr, "write to unimplemented PPU/APU/test region")
	case addr >= cartMinAddr:
		if !e.Cart.CpuWrite(addr, data) {
			e.warnOnce(addr, "write to unmapped cartridge address")
		}
	default:
		e.warnOnce(addr, "write to unmapped address")
	}
}

// warnOnce logs a soft/ignored bus condition a single time per address,
// so a tight loop hammering an unimplemented register doesn't flood the
// log.
func (e *Emulator) warnOnce(addr uint16, reason string) {
	if e.warned[addr] {
		return
	}
	e.warned[addr] = true
	e.Logger.Printf("%s: %s", reason, hex16(addr))
}
