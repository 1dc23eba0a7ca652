package nes

import (
	"bytes"
	"encoding/binary"
	"log"
	"os"

	"github.com/pkg/errors"
)

// CartridgeHeader is the 16-byte iNES/NES 2.0 file header.
// reference: https://wiki.nesdev.org/w/index.php/INES
// reference: https://wiki.nesdev.org/w/index.php/NES_2.0
type CartridgeHeader struct {
	Name         [4]byte // Constant "NES" followed by MS-DOS end of file
	PrgRomChunks byte    // PRG ROM size LSB (16KB units)
	ChrRomChunks byte    // CHR ROM size LSB (8KB units)
	Mapper1      byte    // Flags 6
	Mapper2      byte    // Flags 7
	MapperMSB    byte    // Flags 8: mapper MSB / submapper (NES 2.0) / PRG-RAM size (iNES 1.0)
	PrgChrMSB    byte    // Flags 9: PRG/CHR ROM size MSB (NES 2.0) / TV system (iNES 1.0)
	PrgRamShift  byte    // Flags 10: PRG-RAM size (NES 2.0) / TV system+PRG-RAM presence (iNES 1.0)
	ChrRamShift  byte    // Flags 11: CHR-RAM size (NES 2.0)
	Unused       [4]byte // Flags 12-15
}

var iNESMagic = [4]byte{'N', 'E', 'S', 0x1A}

// NES 2.0 is signalled by bits 2-3 of Flags 7 reading 0b10.
func (h *CartridgeHeader) isNES2() bool {
	return h.Mapper2&0x0C == 0x08
}

func (h *CartridgeHeader) hasTrainer() bool {
	return h.Mapper1&0x04 != 0
}

func (h *CartridgeHeader) mapperID() uint16 {
	id := uint16(h.Mapper2&0xF0) | uint16(h.Mapper1>>4)
	if h.isNES2() {
		id |= uint16(h.MapperMSB&0x0F) << 8
	}
	return id
}

// romSize decodes an iNES/NES 2.0 ROM size field. lsb is the classic
// count byte (Flags 4 or 5); msbNibble is the NES 2.0 high nibble for
// that field, 0 under plain iNES 1.0. The canonical NES 2.0 exponent-
// multiplier form (msbNibble == 0x0F) packs an exponent and a
// multiplier into lsb instead of a literal chunk count.
func romSize(lsb, msbNibble byte, unit int) int {
	if msbNibble == 0x0F {
		exponent := lsb >> 2
		multiplier := int(lsb&0x03)*2 + 1
		return (1 << exponent) * multiplier
	}
	return (int(msbNibble)<<8 | int(lsb)) * unit
}

// Cartridge owns a loaded NES ROM image: its backing PRG/CHR stores and
// the mapper strategy that resolves CPU/PPU addresses into them.
type Cartridge struct {
	Header  CartridgeHeader
	Trainer []byte
	PrgRom  []byte
	PrgRam  []byte
	ChrRom  []byte
	ChrRam  []byte

	mapper Mapper
}

// LoadCartridge reads and parses an iNES/NES 2.0 ROM image from disk.
func LoadCartridge(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading cartridge file %q", path)
	}
	return NewCartridge(data)
}

// NewCartridge parses an in-memory iNES/NES 2.0 image into a Cartridge.
func NewCartridge(data []byte) (*Cartridge, error) {
	buf := bytes.NewReader(data)

	var header CartridgeHeader
	if err := binary.Read(buf, binary.BigEndian, &header); err != nil {
		return nil, NewCartridgeError("truncated header: " + err.Error())
	}
	if header.Name != iNESMagic {
		return nil, NewCartridgeError("bad magic bytes, not an iNES image")
	}

	cart := &Cartridge{Header: header}

	if header.hasTrainer() {
		cart.Trainer = make([]byte, 512)
		if err := binary.Read(buf, binary.BigEndian, cart.Trainer); err != nil {
			return nil, NewCartridgeError("truncated trainer: " + err.Error())
		}
	}

	var prgMSB, chrMSB byte
	if header.isNES2() {
		prgMSB = header.PrgChrMSB & 0x0F
		chrMSB = header.PrgChrMSB >> 4
	}
	prgSize := romSize(header.PrgRomChunks, prgMSB, 16*1024)
	chrSize := romSize(header.ChrRomChunks, chrMSB, 8*1024)

	cart.PrgRom = make([]byte, prgSize)
	if err := binary.Read(buf, binary.BigEndian, cart.PrgRom); err != nil {
		return nil, NewCartridgeError("truncated PRG ROM: " + err.Error())
	}

	if chrSize == 0 {
		cart.ChrRam = make([]byte, 8*1024)
	} else {
		cart.ChrRom = make([]byte, chrSize)
		if err := binary.Read(buf, binary.BigEndian, cart.ChrRom); err != nil {
			return nil, NewCartridgeError("truncated CHR ROM: " + err.Error())
		}
	}

	// v2 headers carry explicit exponent-form RAM sizes (64 << shift);
	// v1 only has the battery-present flag, and always implies a fixed
	// 8KiB PRG-RAM window when that flag is set.
	var hasPrgRam bool
	if header.isNES2() {
		if prgRamSize := 64 << (header.PrgRamShift & 0x0F); prgRamSize > 0 {
			cart.PrgRam = make([]byte, prgRamSize)
			hasPrgRam = true
		}
		if cart.ChrRam != nil {
			if chrRamSize := 64 << (header.ChrRamShift & 0x0F); chrRamSize > 0 {
				cart.ChrRam = make([]byte, chrRamSize)
			}
		}
	} else if header.PrgRamChunks() {
		cart.PrgRam = make([]byte, 8*1024)
		hasPrgRam = true
	}

	mapperID := header.mapperID()
	switch mapperID {
	case 0:
		cart.mapper = NewMapper000(header.PrgRomChunks, header.ChrRomChunks, hasPrgRam)
	default:
		return nil, NewUnsupportedMapperError(mapperID)
	}

	log.Printf("loaded cartridge: mapper %d, prg=%dKB, chr=%dKB, prgram=%v", mapperID, prgSize/1024, chrSize/1024, hasPrgRam)

	return cart, nil
}

// PrgRamChunks reports whether the cartridge declares battery-backed or
// work PRG RAM under the classic iNES 1.0 flags (Flags 6 bit 1).
func (h *CartridgeHeader) PrgRamChunks() bool {
	return h.Mapper1&0x02 != 0
}

// CpuRead services a CPU-bus read in the cartridge's address range
// (0x4020-0xFFFF). ok is false when nothing in the cartridge claims addr.
func (c *Cartridge) CpuRead(addr uint16) (data byte, ok bool) {
	switch m := c.mapper.MapCPU(addr); m.Kind {
	case MapPrgRom:
		return c.PrgRom[int(m.Offset)%len(c.PrgRom)], true
	case MapPrgRam:
		return c.PrgRam[m.Offset], true
	default:
		return 0, false
	}
}

// CpuWrite services a CPU-bus write. PRG ROM writes are silently
// ignored (ok reports whether the address was claimed at all, not
// whether the store was writable).
func (c *Cartridge) CpuWrite(addr uint16, data byte) (ok bool) {
	switch m := c.mapper.MapCPU(addr); m.Kind {
	case MapPrgRam:
		c.PrgRam[m.Offset] = data
		return true
	case MapPrgRom:
		return true
	default:
		return false
	}
}

// PpuRead services a PPU-bus (pattern table) read.
func (c *Cartridge) PpuRead(addr uint16) (data byte, ok bool) {
	switch m := c.mapper.MapPPU(addr); m.Kind {
	case MapChrRom:
		return c.ChrRom[m.Offset], true
	case MapChrRam:
		return c.ChrRam[m.Offset], true
	default:
		return 0, false
	}
}

// PpuWrite services a PPU-bus write; CHR ROM writes are ignored.
func (c *Cartridge) PpuWrite(addr uint16, data byte) (ok bool) {
	switch m := c.mapper.MapPPU(addr); m.Kind {
	case MapChrRam:
		c.ChrRam[m.Offset] = data
		return true
	case MapChrRom:
		return true
	default:
		return false
	}
}
