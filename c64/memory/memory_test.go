package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testROMs() (basic, kernal, chargen []uint8) {
	basic = make([]uint8, 8192)
	kernal = make([]uint8, 8192)
	chargen = make([]uint8, 4096)
	for i := range basic {
		basic[i] = 0xB0
	}
	for i := range kernal {
		kernal[i] = 0xE0
	}
	for i := range chargen {
		chargen[i] = 0xC0
	}
	return
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager()
	basic, kernal, chargen := testROMs()
	if err := m.LoadROM(basic, "basic"); err != nil {
		t.Fatal(err)
	}
	if err := m.LoadROM(kernal, "kernal"); err != nil {
		t.Fatal(err)
	}
	if err := m.LoadROM(chargen, "char"); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestInitialState(t *testing.T) {
	assert := assert.New(t)
	m := NewManager()

	assert.Equal(uint8(0x2F), m.Read(PLA_PORT), "data direction register default")
	assert.Equal(uint8(0x37), m.Read(PROCESSOR_PORT), "bank bits default to all ROMs visible")
}

func TestLoadROMSizeChecks(t *testing.T) {
	assert := assert.New(t)
	m := NewManager()

	assert.Error(m.LoadROM(make([]uint8, 100), "basic"))
	assert.Error(m.LoadROM(make([]uint8, 8192), "char"))
	assert.Error(m.LoadROM(make([]uint8, 8192), "floppy"))
	assert.NoError(m.LoadROM(make([]uint8, 8192), "kernal"))
}

func TestBasicROMBanking(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	// Default bank 0x37: BASIC visible.
	assert.Equal(uint8(0xB0), m.Read(0xA000))
	assert.Equal(uint8(0xB0), m.Read(0xBFFF))

	// Write goes to the RAM underneath.
	m.Write(0xA000, 0x12)
	assert.Equal(uint8(0xB0), m.Read(0xA000), "ROM still visible after write")

	// Clearing LORAM banks BASIC out; the write is revealed.
	m.Write(PROCESSOR_PORT, 0x36)
	assert.Equal(uint8(0x12), m.Read(0xA000))
}

func TestKernalROMBanking(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	assert.Equal(uint8(0xE0), m.Read(0xE000))
	assert.Equal(uint8(0xE0), m.Read(0xFFFF))

	m.Write(0xE123, 0x99)
	assert.Equal(uint8(0xE0), m.Read(0xE123))

	// Bit 1 clear banks the KERNAL out.
	m.Write(PROCESSOR_PORT, 0x35)
	assert.Equal(uint8(0x99), m.Read(0xE123))
}

func TestDRegionDecode(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	// Bits 0-1 non-zero, bit 2 clear: character ROM.
	m.Write(PROCESSOR_PORT, 0x33)
	assert.Equal(uint8(0xC0), m.Read(0xD000))
	assert.Equal(uint8(0xC0), m.Read(0xDFFF))

	// Bits 0-1 zero: plain RAM.
	m.Write(PROCESSOR_PORT, 0x30)
	m.Write(0xD123, 0x55)
	assert.Equal(uint8(0x55), m.Read(0xD123))

	// Bit 2 set with bits 0-1 non-zero: I/O devices.
	m.Write(PROCESSOR_PORT, 0x37)
	m.Write(0xD020, 0x0E)
	assert.Equal(uint8(0x0E), m.VIC().BorderColor())
}

func TestVICRegisterMirroring(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	// $D018 mirrors every 64 bytes across $D000-$D3FF.
	m.Write(0xD018, 0x15)
	assert.Equal(uint8(0x15), m.Read(0xD018))
	assert.Equal(uint8(0x15), m.Read(0xD058))
	assert.Equal(uint8(0x15), m.Read(0xD018+0x300))
}

func TestColorRAMRouting(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	m.Write(0xD800, 0x07)
	m.Write(0xDBFF, 0x0E)
	assert.Equal(uint8(0x07), m.Read(0xD800))
	assert.Equal(uint8(0x07), m.ReadColor(0))
	assert.Equal(uint8(0x0E), m.ReadColor(1023))
}

func TestCIA1Mirroring(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	// $DC00 page mirrors the register file every 16 bytes.
	m.Write(0xDC0E, 0x11)
	assert.Equal(uint8(0x11), m.Read(0xDC0E))
	assert.Equal(uint8(0x11), m.Read(0xDC1E))
	assert.Equal(uint8(0x11), m.CIA1().TimerAControl())
}

func TestCIA2Routing(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	m.Write(0xDD00, 0x03)
	assert.Equal(uint8(0x03), m.Read(0xDD00))
	assert.Equal(uint16(0x0000), m.CIA2().VICBankBase())
}

func TestSIDStubReadsZero(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	m.Write(0xD400, 0x42)
	assert.Equal(uint8(0), m.Read(0xD400))
}

func TestStackAccessIgnoresBanking(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	m.WriteStack(0xFD, 0xC0)
	assert.Equal(uint8(0xC0), m.ReadStack(0xFD))
	assert.Equal(uint8(0xC0), m.Read(0x01FD))
}

func TestZeroPageHelpers(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	m.WriteZeroPage(0x10, 0x42)
	assert.Equal(uint8(0x42), m.ReadZeroPage(0x10))
	assert.Equal(uint8(0x42), m.Read(0x0010))
}

func TestReadVIC(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	m.Write(0x0400, 0x21)
	m.Write(0x8123, 0x7A)

	// VIC sees RAM regardless of the CPU bank latches.
	assert.Equal(uint8(0x21), m.ReadVIC(0x0400))
	assert.Equal(uint8(0x7A), m.ReadVIC(0x8123))

	// The character ROM shadows $1000-$1FFF and $9000-$9FFF.
	assert.Equal(uint8(0xC0), m.ReadVIC(0x1000))
	assert.Equal(uint8(0xC0), m.ReadVIC(0x1FFF))
	assert.Equal(uint8(0xC0), m.ReadVIC(0x9000))
}

func TestResetVectorTarget(t *testing.T) {
	assert := assert.New(t)
	m := NewManager()

	kernal := make([]uint8, 8192)
	kernal[0x1FFC] = 0x00
	kernal[0x1FFD] = 0xC0
	assert.NoError(m.LoadROM(kernal, "kernal"))

	assert.Equal(uint16(0xC000), m.ResetVectorTarget(), "vector read through the KERNAL overlay")
}

func TestReadDebugHasNoSideEffects(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	m.CIA1().Write(0xDC0D, 0x81)
	m.CIA1().InterruptTimerA()

	// A debug walk across the I/O window must not clear the interrupt
	// data latch or touch unmapped device registers.
	for addr := 0xD000; addr <= 0xDFFF; addr++ {
		m.ReadDebug(uint16(addr))
	}
	assert.Equal(uint8(0x81), m.Read(0xDC0D), "latch survives the debug walk")

	// ROM overlays still apply to debug reads.
	assert.Equal(uint8(0xB0), m.ReadDebug(0xA000))
	assert.Equal(uint8(0xE0), m.ReadDebug(0xE000))
}

func TestBankDecodeIsReferentiallyTransparent(t *testing.T) {
	assert := assert.New(t)
	m := newTestManager(t)

	first := m.Read(0xA123)
	second := m.Read(0xA123)
	assert.Equal(first, second, "reads outside I/O have no side effects")
}
