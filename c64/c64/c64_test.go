package c64

import (
	"testing"
	"time"

	"github.com/newhook/c64/cpu"
	"github.com/stretchr/testify/assert"
)

// newTestMachine builds a machine with synthetic ROMs whose reset
// vector points at $C000 and IRQ vector at $C100, both in RAM.
func newTestMachine(t *testing.T) *C64 {
	t.Helper()
	machine := NewC64()

	basic := make([]uint8, 8192)
	chargen := make([]uint8, 4096)
	kernal := make([]uint8, 8192)
	kernal[0x1FFC] = 0x00 // $FFFC
	kernal[0x1FFD] = 0xC0
	kernal[0x1FFE] = 0x00 // $FFFE
	kernal[0x1FFF] = 0xC1

	for _, rom := range []struct {
		data []uint8
		kind string
	}{{basic, "basic"}, {kernal, "kernal"}, {chargen, "char"}} {
		if err := machine.Memory.LoadROM(rom.data, rom.kind); err != nil {
			t.Fatal(err)
		}
	}

	machine.Reset()
	machine.CPU.SP = 0xFF
	return machine
}

// loadProgram writes bytes into RAM at the reset target.
func loadProgram(machine *C64, addr uint16, program ...uint8) {
	for i, b := range program {
		machine.Memory.Write(addr+uint16(i), b)
	}
}

func TestResetVectorThroughKernal(t *testing.T) {
	assert := assert.New(t)
	machine := newTestMachine(t)

	assert.Equal(uint16(0xC000), machine.CPU.PC, "PC loaded from $FFFC/$FFFD")
	assert.Equal(uint8(0x37), machine.Memory.Read(0x0001), "bank bits at the reset default")
}

func TestLDAImmediateProgram(t *testing.T) {
	assert := assert.New(t)
	machine := newTestMachine(t)

	loadProgram(machine, 0xC000, cpu.LDA_IMM, 0x42)

	before := machine.TickCount()
	assert.NoError(machine.StepInstruction())

	assert.Equal(uint64(2), machine.TickCount()-before, "LDA # is two system cycles")
	assert.Equal(uint8(0x42), machine.CPU.A)
	assert.Equal(uint16(0xC002), machine.CPU.PC)
	assert.True(machine.CPU.P&cpu.FlagZ == 0)
	assert.True(machine.CPU.P&cpu.FlagN == 0)
}

func TestStepRunsToTickBudget(t *testing.T) {
	assert := assert.New(t)
	machine := newTestMachine(t)

	// NOP run-out looping back to $C000.
	program := make([]uint8, 0, 67)
	for i := 0; i < 64; i++ {
		program = append(program, cpu.NOP)
	}
	program = append(program, cpu.JMP_ABS, 0x00, 0xC0)
	loadProgram(machine, 0xC000, program...)

	assert.NoError(machine.Step(time.Millisecond))
	assert.Equal(uint64(985), machine.TickCount(), "floor(1ms * 985248 Hz)")

	assert.NoError(machine.Step(time.Second))
	assert.Equal(uint64(985248), machine.TickCount(), "one PAL second of cycles")
}

func TestTargetTicks(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint64(0), targetTicks(0))
	assert.Equal(uint64(985248), targetTicks(time.Second))
	assert.Equal(uint64(985), targetTicks(time.Millisecond))
	// Split arithmetic stays exact across the one-second boundary.
	assert.Equal(uint64(985248+985), targetTicks(time.Second+time.Millisecond))
}

func TestStepPropagatesIllegalOpcode(t *testing.T) {
	assert := assert.New(t)
	machine := newTestMachine(t)

	loadProgram(machine, 0xC000, 0x02)

	err := machine.Step(time.Millisecond)
	assert.Error(err)

	var opErr *cpu.IllegalOpcodeError
	assert.ErrorAs(err, &opErr)
	assert.Equal(uint16(0xC000), opErr.PC)
}

func TestTimerAUnderflowInterruptsCPU(t *testing.T) {
	assert := assert.New(t)
	machine := newTestMachine(t)

	// NOP run-out at $C000; handler at $C100 spins on NOPs too.
	program := make([]uint8, 64)
	for i := range program {
		program[i] = cpu.NOP
	}
	loadProgram(machine, 0xC000, program...)
	loadProgram(machine, 0xC100, cpu.NOP, cpu.NOP, cpu.JMP_ABS, 0x00, 0xC1)

	// Program Timer A through the banked bus: start latch $0002,
	// interrupt enabled, start+force-load.
	machine.Memory.Write(0xDC04, 0x02)
	machine.Memory.Write(0xDC05, 0x00)
	machine.Memory.Write(0xDC0D, 0x81)
	machine.Memory.Write(0xDC0E, 0x11)

	for i := 0; i < 12; i++ {
		assert.NoError(machine.StepInstruction())
	}

	assert.True(machine.CPU.P&cpu.FlagI != 0, "I set by the IRQ entry")
	assert.Equal(uint8(0xFC), machine.CPU.SP, "three bytes pushed")
	assert.True(machine.CPU.PC >= 0xC100 && machine.CPU.PC < 0xC110, "executing the handler")

	assert.Equal(uint8(0x81), machine.Memory.Read(0xDC0D), "interrupt data reads once")
	assert.Equal(uint8(0x00), machine.Memory.Read(0xDC0D), "and is cleared")
}

func TestKeyboardMatrixThroughMachine(t *testing.T) {
	assert := assert.New(t)
	machine := newTestMachine(t)

	loadProgram(machine, 0xC000, cpu.NOP, cpu.NOP, cpu.NOP, cpu.NOP)

	// Strobe column 2 with every column line driven.
	machine.Memory.Write(0xDC02, 0xFF)
	machine.Memory.Write(0xDC00, 0xFB)
	machine.SetKey(1*8+2, true)

	assert.NoError(machine.StepInstruction())
	assert.Equal(uint8(0xFD), machine.Memory.Read(0xDC01), "row 1 pulled low")

	// Without a strobed column the matrix floats high.
	machine.Memory.Write(0xDC00, 0xFF)
	assert.NoError(machine.StepInstruction())
	assert.Equal(uint8(0xFF), machine.Memory.Read(0xDC01))
}

func TestRasterAdvancesWithMachine(t *testing.T) {
	assert := assert.New(t)
	machine := newTestMachine(t)

	program := make([]uint8, 64)
	for i := range program {
		program[i] = cpu.NOP
	}
	loadProgram(machine, 0xC000, program...)
	loadProgram(machine, 0xC040, cpu.JMP_ABS, 0x00, 0xC0)

	assert.NoError(machine.Step(10 * time.Millisecond))
	assert.Equal(uint64(1), machine.VIC.FrameCount(), "one full frame per 8000 cycles")
}

func TestPaletteMatchesHardware(t *testing.T) {
	assert := assert.New(t)

	assert.Len(C64Colors, 16)
	assert.Equal(uint32(0x000000), C64Colors[0])
	assert.Equal(uint32(0xFFFFFF), C64Colors[1])
	assert.Equal(uint32(0x0000AA), C64Colors[6])
	assert.Equal(uint32(0xBBBBBB), C64Colors[15])
}
