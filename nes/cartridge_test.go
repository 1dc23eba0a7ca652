package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildINES assembles a minimal iNES (or NES 2.0, when mapper2&0x08 is
// set by the caller) image in memory so cartridge parsing can be
// exercised without shipping a real ROM file alongside the module.
func buildINES(mapper1, mapper2 byte, prgChunks, chrChunks byte, trainer bool) []byte {
	header := make([]byte, 16)
	copy(header[0:4], iNESMagic[:])
	header[4] = prgChunks
	header[5] = chrChunks
	header[6] = mapper1
	header[7] = mapper2

	if trainer {
		header[6] |= 0x04
	}

	buf := append([]byte{}, header...)
	if trainer {
		buf = append(buf, make([]byte, 512)...)
	}
	buf = append(buf, make([]byte, int(prgChunks)*16*1024)...)
	if chrChunks > 0 {
		buf = append(buf, make([]byte, int(chrChunks)*8*1024)...)
	}
	return buf
}

func TestNewCartridgeMapper000(t *testing.T) {
	data := buildINES(0x00, 0x00, 2, 1, false)

	cart, err := NewCartridge(data)

	require.NoError(t, err)
	assert.Len(t, cart.PrgRom, 2*16*1024)
	assert.Len(t, cart.ChrRom, 8*1024)
	assert.Nil(t, cart.ChrRam)
}

func TestNewCartridgeChrRam(t *testing.T) {
	data := buildINES(0x00, 0x00, 1, 0, false)

	cart, err := NewCartridge(data)

	require.NoError(t, err)
	assert.Len(t, cart.ChrRam, 8*1024)
	assert.Nil(t, cart.ChrRom)
}

func TestNewCartridgeTrainerIsRetained(t *testing.T) {
	data := buildINES(0x04, 0x00, 1, 1, true)
	for i := range data[16:528] {
		data[16+i] = 0xAA
	}

	cart, err := NewCartridge(data)

	require.NoError(t, err)
	require.Len(t, cart.Trainer, 512)
	assert.Equal(t, byte(0xAA), cart.Trainer[0])
}

func TestNewCartridgeRejectsBadMagic(t *testing.T) {
	data := buildINES(0x00, 0x00, 1, 1, false)
	data[0] = 'X'

	_, err := NewCartridge(data)

	require.Error(t, err)
	var cartErr *CartridgeError
	assert.ErrorAs(t, err, &cartErr)
}

func TestNewCartridgeUnsupportedMapper(t *testing.T) {
	// Mapper 4 (MMC3): high nibble of mapper1 contributes to mapper ID.
	data := buildINES(0x40, 0x00, 1, 1, false)

	_, err := NewCartridge(data)

	require.Error(t, err)
	var mapperErr *UnsupportedMapperError
	assert.ErrorAs(t, err, &mapperErr)
}

func TestRomSizeNES2ExponentMultiplier(t *testing.T) {
	// exponent=10, multiplier index=1 -> (1<<10)*3 = 3072
	got := romSize((10<<2)|1, 0x0F, 16*1024)
	assert.Equal(t, (1<<10)*3, got)
}

func TestRomSizeClassicLinear(t *testing.T) {
	got := romSize(4, 0, 16*1024)
	assert.Equal(t, 4*16*1024, got)
}

func TestCartridgeMapper000CpuReadWrite(t *testing.T) {
	data := buildINES(0x02, 0x00, 1, 1, false) // mapper1 bit1 set -> has PRG RAM
	data[16+0] = 0x42                          // first byte of PRG ROM
	cart, err := NewCartridge(data)
	require.NoError(t, err)

	v, ok := cart.CpuRead(0x8000)
	require.True(t, ok)
	assert.Equal(t, byte(0x42), v)

	ok = cart.CpuWrite(0x6000, 0x99)
	require.True(t, ok)
	v, ok = cart.CpuRead(0x6000)
	require.True(t, ok)
	assert.Equal(t, byte(0x99), v)

	_, ok = cart.CpuRead(0x5000)
	assert.False(t, ok)
}
