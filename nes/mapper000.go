package nes

// Mapper000 is the NROM mapper: no bank switching, 16KB or 32KB PRG ROM
// mirrored flat into 0x8000-0xFFFF, an optional 8KB PRG RAM window at
// 0x6000-0x7FFF, and 8KB of CHR ROM or CHR RAM at 0x0000-0x1FFF on the
// PPU bus.
//
// Address mapping:
//
//	16KB PRG ROM: 0x8000-0xBFFF -> 0x0000-0x3FFF
//	              0xC000-0xFFFF -> 0x0000-0x3FFF (mirror)
//	32KB PRG ROM: 0x8000-0xFFFF -> 0x0000-0x7FFF
type Mapper000 struct {
	PrgBanks byte // 16KB units
	ChrBanks byte // 8KB units
	HasPrgRam bool
}

func NewMapper000(prgBanks, chrBanks byte, hasPrgRam bool) *Mapper000 {
	return &Mapper000{PrgBanks: prgBanks, ChrBanks: chrBanks, HasPrgRam: hasPrgRam}
}

func (m *Mapper000) MapCPU(addr uint16) MappedAddress {
	switch {
	case addr >= 0x6000 && addr <= 0x7FFF && m.HasPrgRam:
		return MappedAddress{Kind: MapPrgRam, Offset: uint32(addr - 0x6000)}
	case addr >= 0x8000:
		masked := addr - 0x8000
		if m.PrgBanks <= 1 {
			masked &= 0x3FFF
		} else {
			masked &= 0x7FFF
		}
		return MappedAddress{Kind: MapPrgRom, Offset: uint32(masked)}
	default:
		return unmapped
	}
}

func (m *Mapper000) MapPPU(addr uint16) MappedAddress {
	if addr > 0x1FFF {
		return unmapped
	}
	kind := MapChrRom
	if m.ChrBanks == 0 {
		kind = MapChrRam
	}
	return MappedAddress{Kind: kind, Offset: uint32(addr)}
}
