package main

import (
	"flag"
	"log"

	"github.com/sixtyfiver/nes6502/nes"
)

// main is a minimal loader/driver: load a cartridge, reset the
// emulator, and clock it for a fixed number of cycles. It exists to
// exercise the core in isolation, not as a debugger front end.
func main() {
	romPath := flag.String("rom", "./roms/test.nes", "path to an iNES/NES 2.0 ROM image")
	cycles := flag.Int("cycles", 1_000_000, "number of CPU clock cycles to run")
	flag.Parse()

	cart, err := nes.LoadCartridge(*romPath)
	if err != nil {
		log.Fatalf("loading cartridge: %v", err)
	}

	emu := nes.NewEmulator(cart, nil)
	emu.Reset()
	emu.Run(*cycles)

	if err := emu.CPU.Err(); err != nil {
		log.Fatalf("cpu halted: %v", err)
	}

	log.Println(emu.CPU.Snapshot())
}
