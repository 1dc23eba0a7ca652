package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatMem is a 64KB byte array standing in for a real bus in CPU-only
// tests, so instruction timing and register effects can be checked
// without needing a cartridge.
type flatMem [65536]byte

// cpuHarness services a CPU's Tick calls against a flat memory image,
// carrying an outstanding Read request's address across calls the way
// an Emulator carries its latch between ticks -- the memory behind a
// pending read is only consulted right before it's handed to the next
// Tick, so a test can still write a program byte after the read that
// will consume it was issued but before it's delivered.
type cpuHarness struct {
	t           *testing.T
	cpu         *CPU
	mem         *flatMem
	pendingAddr *uint16
}

func newHarness(t *testing.T, resetVector uint16) *cpuHarness {
	t.Helper()
	var mem flatMem
	mem[0xFFFC] = byte(resetVector)
	mem[0xFFFD] = byte(resetVector >> 8)

	h := &cpuHarness{t: t, cpu: NewCPU(nil), mem: &mem}
	h.cpu.Reset()
	ticks := h.runUntilBoundary(8)
	require.Equal(t, 8, ticks, "reset must complete in exactly 8 ticks")
	return h
}

// tick drives exactly one CPU cycle, servicing the outstanding read
// (if any) from the harness's memory and recording whatever request
// this cycle produces for the next call.
func (h *cpuHarness) tick() BusRequest {
	h.t.Helper()
	var in *byte
	if h.pendingAddr != nil {
		v := h.mem[*h.pendingAddr]
		in = &v
	}
	req := h.cpu.Tick(in)
	h.pendingAddr = nil
	switch req.Kind {
	case ReqRead:
		addr := req.Addr
		h.pendingAddr = &addr
	case ReqWrite:
		h.mem[req.Addr] = req.Data
	}
	return req
}

// runUntilBoundary ticks until the CPU reports an instruction
// boundary (or maxTicks is exhausted, guarding a buggy test against
// spinning forever) and returns the number of ticks consumed.
func (h *cpuHarness) runUntilBoundary(maxTicks int) int {
	h.t.Helper()
	for ticks := 1; ticks <= maxTicks; ticks++ {
		h.tick()
		if h.cpu.instComplete {
			return ticks
		}
	}
	return maxTicks
}

func TestImmediateLoad(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.mem[0x8000] = 0xA9 // LDA #$7F
	h.mem[0x8001] = 0x7F

	ticks := h.runUntilBoundary(10)

	require.Equal(t, 2, ticks)
	assert.Equal(t, byte(0x7F), h.cpu.A)
	assert.False(t, h.cpu.flag(FlagZ))
	assert.False(t, h.cpu.flag(FlagN))
}

func TestZeroPageStore(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.A = 0x42
	h.mem[0x8000] = 0x85 // STA $10
	h.mem[0x8001] = 0x10

	ticks := h.runUntilBoundary(10)

	require.Equal(t, 3, ticks)
	assert.Equal(t, byte(0x42), h.mem[0x0010])
}

func TestJSRRTSRoundTrip(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.SP = 0xFD

	h.mem[0x8000] = 0x20 // JSR $9000
	h.mem[0x8001] = 0x00
	h.mem[0x8002] = 0x90
	h.mem[0x9000] = 0x60 // RTS

	jsrTicks := h.runUntilBoundary(10)
	require.Equal(t, 6, jsrTicks)
	assert.Equal(t, uint16(0x9000), h.cpu.PC)
	assert.Equal(t, byte(0xFB), h.cpu.SP)
	assert.Equal(t, byte(0x80), h.mem[0x01FD])
	assert.Equal(t, byte(0x02), h.mem[0x01FC])

	rtsTicks := h.runUntilBoundary(10)
	require.Equal(t, 6, rtsTicks)
	assert.Equal(t, uint16(0x8003), h.cpu.PC)
	assert.Equal(t, byte(0xFD), h.cpu.SP)
}

func TestBranchTakenAcrossPage(t *testing.T) {
	h := newHarness(t, 0x80F0)
	h.cpu.setFlag(FlagZ, true)
	h.mem[0x80F0] = 0xF0 // BEQ $12 (forward 0x12, crosses into next page)
	h.mem[0x80F1] = 0x12

	ticks := h.runUntilBoundary(10)

	require.Equal(t, 4, ticks)
	assert.Equal(t, uint16(0x8104), h.cpu.PC)
}

func TestBranchNotTaken(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.setFlag(FlagZ, false)
	h.mem[0x8000] = 0xF0 // BEQ $10
	h.mem[0x8001] = 0x10

	ticks := h.runUntilBoundary(10)

	require.Equal(t, 2, ticks)
	assert.Equal(t, uint16(0x8002), h.cpu.PC)
}

func TestBranchTakenSamePage(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.setFlag(FlagC, true)
	h.mem[0x8000] = 0xB0 // BCS $05
	h.mem[0x8001] = 0x05

	ticks := h.runUntilBoundary(10)

	require.Equal(t, 3, ticks)
	assert.Equal(t, uint16(0x8007), h.cpu.PC)
}

func TestADCOverflowFlag(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.A = 0x50
	h.mem[0x8000] = 0x69 // ADC #$50
	h.mem[0x8001] = 0x50

	h.runUntilBoundary(10)

	assert.Equal(t, byte(0xA0), h.cpu.A)
	assert.True(t, h.cpu.flag(FlagV), "adding two positives into a negative result must set V")
	assert.True(t, h.cpu.flag(FlagN))
	assert.False(t, h.cpu.flag(FlagC))
}

func TestSBCViaComplementedADC(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.A = 0x10
	h.cpu.setFlag(FlagC, true) // no borrow
	h.mem[0x8000] = 0xE9       // SBC #$01
	h.mem[0x8001] = 0x01

	h.runUntilBoundary(10)

	assert.Equal(t, byte(0x0F), h.cpu.A)
	assert.True(t, h.cpu.flag(FlagC))
}

func TestBITUsesBit6ForOverflow(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.A = 0xFF
	h.mem[0x8000] = 0x24 // BIT $10
	h.mem[0x8001] = 0x10
	h.mem[0x0010] = 0x40 // bit 6 set, bit 7 clear

	h.runUntilBoundary(10)

	assert.True(t, h.cpu.flag(FlagV))
	assert.False(t, h.cpu.flag(FlagN))
	assert.False(t, h.cpu.flag(FlagZ))
}

func TestIllegalOpcodeHalts(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.mem[0x8000] = 0x02 // illegal

	h.runUntilBoundary(10)

	assert.True(t, h.cpu.Halted())
	require.Error(t, h.cpu.Err())
	var illegal *IllegalOpcodeError
	assert.ErrorAs(t, h.cpu.Err(), &illegal)
}

func TestAbsoluteXPageCrossPenalty(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.X = 0xFF
	h.mem[0x8000] = 0xBD // LDA $80FF,X -> crosses into $81FE
	h.mem[0x8001] = 0xFF
	h.mem[0x8002] = 0x80
	h.mem[0x81FE] = 0x33

	ticks := h.runUntilBoundary(10)

	require.Equal(t, 5, ticks)
	assert.Equal(t, byte(0x33), h.cpu.A)
}

func TestAbsoluteXNoPageCross(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.X = 0x01
	h.mem[0x8000] = 0xBD // LDA $8010,X -> $8011, same page
	h.mem[0x8001] = 0x10
	h.mem[0x8002] = 0x80
	h.mem[0x8011] = 0x77

	ticks := h.runUntilBoundary(10)

	require.Equal(t, 4, ticks)
	assert.Equal(t, byte(0x77), h.cpu.A)
}

func TestResetSequenceFinalState(t *testing.T) {
	h := newHarness(t, 0x8000)

	assert.Equal(t, uint16(0x8000), h.cpu.PC)
	assert.Equal(t, byte(0xFD), h.cpu.SP)
	assert.Equal(t, byte(0x24), h.cpu.P)
	assert.Equal(t, byte(0), h.cpu.A)
	assert.Equal(t, byte(0), h.cpu.X)
	assert.Equal(t, byte(0), h.cpu.Y)
}

func TestNMITakesEightCyclesAndPushesState(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.mem[0xFFFA] = 0x00 // NMI vector
	h.mem[0xFFFB] = 0x90
	h.cpu.SP = 0xFD
	h.cpu.P = 0x00
	h.cpu.NMI()
	h.mem[0x8000] = 0xEA // NOP, never reached: NMI preempts the fetch
	h.mem[0x9000] = 0xEA

	ticks := h.runUntilBoundary(10)

	require.Equal(t, 8, ticks)
	assert.Equal(t, uint16(0x9000), h.cpu.PC)
	assert.True(t, h.cpu.flag(FlagI))
	assert.Equal(t, byte(0xFA), h.cpu.SP)
	assert.Equal(t, byte(0x80), h.mem[0x01FD])
	assert.Equal(t, byte(0x00), h.mem[0x01FC])
}

func TestIRQIgnoredWhenIFlagSet(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.setFlag(FlagI, true)
	h.cpu.IRQ()
	h.mem[0x8000] = 0xA9 // LDA #$01, should run normally
	h.mem[0x8001] = 0x01

	h.runUntilBoundary(10)

	assert.Equal(t, byte(0x01), h.cpu.A)
	assert.Equal(t, uint16(0x8002), h.cpu.PC)
}

func TestPHAPLARoundTrip(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.SP = 0xFD
	h.cpu.A = 0x37
	h.mem[0x8000] = 0x48 // PHA
	h.mem[0x8001] = 0x68 // PLA

	h.runUntilBoundary(10)
	h.runUntilBoundary(10)

	assert.Equal(t, byte(0x37), h.cpu.A)
	assert.Equal(t, byte(0xFD), h.cpu.SP)
}

func TestPHPPLPPreservesStatus(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.SP = 0xFD
	h.cpu.P = 0x24 | byte(FlagC) | byte(FlagN)
	h.mem[0x8000] = 0x08 // PHP
	h.mem[0x8001] = 0x28 // PLP

	h.runUntilBoundary(10)
	pushed := h.mem[0x01FD]
	assert.Equal(t, byte(0x30), pushed&0x30, "pushed status always carries B and bit 5 set")

	h.runUntilBoundary(10)
	assert.True(t, h.cpu.flag(FlagC))
	assert.True(t, h.cpu.flag(FlagN))
	assert.True(t, h.cpu.flag(Flag5))
}

func TestSPWrapsOnPush(t *testing.T) {
	h := newHarness(t, 0x8000)
	h.cpu.SP = 0x00
	h.cpu.A = 0x5A
	h.mem[0x8000] = 0x48 // PHA

	h.runUntilBoundary(10)

	assert.Equal(t, byte(0x5A), h.mem[0x0100])
	assert.Equal(t, byte(0xFF), h.cpu.SP)
}

func TestPCWrapsAtTopOfAddressSpace(t *testing.T) {
	h := newHarness(t, 0xFFFF)
	h.mem[0xFFFF] = 0xEA // NOP

	h.runUntilBoundary(10)

	assert.Equal(t, uint16(0x0000), h.cpu.PC)
}
