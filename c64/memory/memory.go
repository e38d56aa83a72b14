package memory

import (
	"fmt"

	"github.com/newhook/c64/c64/cia"
	"github.com/newhook/c64/c64/sid"
	"github.com/newhook/c64/c64/vic"
)

const (
	// Memory regions
	BASIC_ROM_START  = 0xA000
	BASIC_ROM_END    = 0xBFFF
	IO_START         = 0xD000
	IO_END           = 0xDFFF
	KERNAL_ROM_START = 0xE000

	COLOR_RAM_START = 0xD800
	CIA1_START      = 0xDC00
	CIA2_START      = 0xDD00

	// On-chip I/O port at the bottom of the zero page: $0000 is the
	// data direction register, $0001 carries the bank-select bits.
	PLA_PORT       = 0x0000
	PROCESSOR_PORT = 0x0001

	ResetVector = 0xFFFC
	IRQVector   = 0xFFFE
)

// Manager is the 64 KiB address decoder. RAM backs the whole map; the
// ROMs and the I/O window overlay it for reads according to the
// bank-select bits in RAM[$0001]. Writes always land in RAM except
// within a visible I/O window, where they go to the device.
type Manager struct {
	ram     [65536]uint8
	basic   [8192]uint8
	kernal  [8192]uint8
	chargen [4096]uint8

	colorRAM [1024]uint8

	vic  *vic.Registers
	sid  *sid.SID
	cia1 *cia.CIA1
	cia2 *cia.CIA2
}

func NewManager() *Manager {
	m := &Manager{
		vic:  vic.NewRegisters(),
		sid:  sid.NewSID(),
		cia1: cia.NewCIA1(),
		cia2: cia.NewCIA2(),
	}
	m.ram[PLA_PORT] = 0x2F
	m.ram[PROCESSOR_PORT] = 0x37
	return m
}

// LoadROM loads ROM data into the specified ROM area
func (m *Manager) LoadROM(data []uint8, romType string) error {
	switch romType {
	case "basic":
		if len(data) != len(m.basic) {
			return fmt.Errorf("BASIC ROM must be 8K, got %d bytes", len(data))
		}
		copy(m.basic[:], data)
	case "kernal":
		if len(data) != len(m.kernal) {
			return fmt.Errorf("KERNAL ROM must be 8K, got %d bytes", len(data))
		}
		copy(m.kernal[:], data)
	case "char":
		if len(data) != len(m.chargen) {
			return fmt.Errorf("Character ROM must be 4K, got %d bytes", len(data))
		}
		copy(m.chargen[:], data)
	default:
		return fmt.Errorf("unknown ROM type: %s", romType)
	}
	return nil
}

// Read handles memory reads with banking.
func (m *Manager) Read(address uint16) uint8 {
	bank := m.ram[PROCESSOR_PORT]
	switch {
	case address >= BASIC_ROM_START && address <= BASIC_ROM_END && bank&0x03 == 0x03:
		return m.basic[address-BASIC_ROM_START]
	case address >= KERNAL_ROM_START && bank&0x02 != 0:
		return m.kernal[address-KERNAL_ROM_START]
	case address >= IO_START && address <= IO_END && bank&0x03 != 0:
		if bank&0x04 == 0 {
			return m.chargen[address-IO_START]
		}
		return m.readIO(address)
	}
	return m.ram[address]
}

// Write handles memory writes with banking. RAM under a ROM overlay is
// always writable.
func (m *Manager) Write(address uint16, value uint8) {
	bank := m.ram[PROCESSOR_PORT]
	if address >= IO_START && address <= IO_END && bank&0x03 != 0 && bank&0x04 != 0 {
		m.writeIO(address, value)
		return
	}
	m.ram[address] = value
}

func (m *Manager) readIO(address uint16) uint8 {
	switch {
	case address < 0xD400:
		return m.vic.Read(uint8((address - IO_START) % 64))
	case address < COLOR_RAM_START:
		return m.sid.Read(address)
	case address < CIA1_START:
		return m.colorRAM[address-COLOR_RAM_START]
	case address < CIA2_START:
		return m.cia1.Read(CIA1_START + (address-CIA1_START)%16)
	case address < 0xDE00:
		return m.cia2.Read(CIA2_START + (address-CIA2_START)%16)
	}
	// Expansion I/O areas $DE00-$DFFF are unpopulated.
	return m.ram[address]
}

func (m *Manager) writeIO(address uint16, value uint8) {
	switch {
	case address < 0xD400:
		m.vic.Write(uint8((address-IO_START)%64), value)
	case address < COLOR_RAM_START:
		m.sid.Write(address, value)
	case address < CIA1_START:
		m.colorRAM[address-COLOR_RAM_START] = value
	case address < CIA2_START:
		m.cia1.Write(CIA1_START+(address-CIA1_START)%16, value)
	case address < 0xDE00:
		m.cia2.Write(CIA2_START+(address-CIA2_START)%16, value)
	default:
		m.ram[address] = value
	}
}

// ReadZeroPage and WriteZeroPage are the CPU's zero-page access path.
func (m *Manager) ReadZeroPage(low uint8) uint8 {
	return m.Read(uint16(low))
}

func (m *Manager) WriteZeroPage(low uint8, value uint8) {
	m.Write(uint16(low), value)
}

// ReadStack and WriteStack always target page $0100 regardless of
// banking.
func (m *Manager) ReadStack(sp uint8) uint8 {
	return m.ram[0x0100|uint16(sp)]
}

func (m *Manager) WriteStack(sp uint8, value uint8) {
	m.ram[0x0100|uint16(sp)] = value
}

// ReadDebug follows the ROM banking of Read but treats the I/O window
// as plain RAM, so debugging surfaces can walk the whole address space
// without device side effects (register reads that clear state, or
// panics on unmapped device addresses).
func (m *Manager) ReadDebug(address uint16) uint8 {
	bank := m.ram[PROCESSOR_PORT]
	switch {
	case address >= BASIC_ROM_START && address <= BASIC_ROM_END && bank&0x03 == 0x03:
		return m.basic[address-BASIC_ROM_START]
	case address >= KERNAL_ROM_START && bank&0x02 != 0:
		return m.kernal[address-KERNAL_ROM_START]
	}
	return m.ram[address]
}

// ReadVIC is the video chip's read path. It ignores the CPU bank
// latches: the VIC always sees the character ROM at $1000-$1FFF and
// $9000-$9FFF, and RAM everywhere else.
func (m *Manager) ReadVIC(address uint16) uint8 {
	if (address >= 0x1000 && address < 0x2000) || (address >= 0x9000 && address < 0xA000) {
		return m.chargen[(address%0x8000)-0x1000]
	}
	return m.ram[address]
}

// ReadColor exposes color RAM to the raster engine. Only the low
// nibble is defined.
func (m *Manager) ReadColor(index uint16) uint8 {
	return m.colorRAM[index]
}

// ResetVectorTarget reads the little-endian word at $FFFC/$FFFD
// through the banked map.
func (m *Manager) ResetVectorTarget() uint16 {
	return uint16(m.Read(ResetVector)) | uint16(m.Read(ResetVector+1))<<8
}

func (m *Manager) VIC() *vic.Registers {
	return m.vic
}

func (m *Manager) CIA1() *cia.CIA1 {
	return m.cia1
}

func (m *Manager) CIA2() *cia.CIA2 {
	return m.cia2
}
