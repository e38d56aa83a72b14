package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSTAZeroPage(t *testing.T) {
	assert := assert.New(t)
	c, bus := newTestCPU()

	c.PC = 0x0200
	c.A = 0x42
	bus.mem[0x0200] = STA_ZP
	bus.mem[0x0201] = 0x10

	cycles := step(t, c)

	assert.Equal(uint8(3), cycles, "incorrect cycle count")
	assert.Equal(uint8(0x42), bus.mem[0x10], "value not stored")
}

func TestSTAZeroPageX(t *testing.T) {
	assert := assert.New(t)
	c, bus := newTestCPU()

	c.PC = 0x0200
	c.A = 0x42
	c.X = 0x05
	bus.mem[0x0200] = STA_ZPX
	bus.mem[0x0201] = 0xFE // wraps to 0x03

	cycles := step(t, c)

	assert.Equal(uint8(4), cycles, "incorrect cycle count")
	assert.Equal(uint8(0x42), bus.mem[0x03], "value not stored with zero page wrap")
}

func TestSTAAbsolute(t *testing.T) {
	assert := assert.New(t)
	c, bus := newTestCPU()

	c.PC = 0x0200
	c.A = 0x42
	bus.mem[0x0200] = STA_ABS
	bus.mem[0x0201] = 0x34
	bus.mem[0x0202] = 0x12

	cycles := step(t, c)

	assert.Equal(uint8(4), cycles, "incorrect cycle count")
	assert.Equal(uint8(0x42), bus.mem[0x1234], "value not stored")
}

func TestSTAAbsoluteIndexed(t *testing.T) {
	assert := assert.New(t)

	// Indexed stores always pay the fix-up cycle, page cross or not.
	tests := []struct {
		name     string
		opcode   uint8
		baseAddr uint16
		index    uint8
	}{
		{
			name:     "X index, no page cross",
			opcode:   STA_ABX,
			baseAddr: 0x1234,
			index:    0x01,
		},
		{
			name:     "X index, page cross",
			opcode:   STA_ABX,
			baseAddr: 0x12FF,
			index:    0x01,
		},
		{
			name:     "Y index, page cross",
			opcode:   STA_ABY,
			baseAddr: 0x12FF,
			index:    0x02,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c, bus := newTestCPU()
			c.PC = 0x0200
			c.A = 0x42
			bus.mem[0x0200] = test.opcode
			bus.mem[0x0201] = uint8(test.baseAddr & 0xFF)
			bus.mem[0x0202] = uint8(test.baseAddr >> 8)
			if test.opcode == STA_ABX {
				c.X = test.index
			} else {
				c.Y = test.index
			}

			cycles := step(t, c)

			assert.Equal(uint8(5), cycles, "incorrect cycle count")
			assert.Equal(uint8(0x42), bus.mem[test.baseAddr+uint16(test.index)], "value not stored")
		})
	}
}

func TestSTAIndirectY(t *testing.T) {
	assert := assert.New(t)
	c, bus := newTestCPU()

	c.PC = 0x0200
	c.A = 0x42
	c.Y = 0xFF
	bus.mem[0x0200] = STA_INY
	bus.mem[0x0201] = 0x20
	bus.mem[0x20] = 0x34
	bus.mem[0x21] = 0x12

	cycles := step(t, c)

	// Always 6 cycles; the high-byte fix is unconditional for writes.
	assert.Equal(uint8(6), cycles, "incorrect cycle count")
	assert.Equal(uint8(0x42), bus.mem[0x1234+0xFF], "value not stored")
}

func TestSTAIndirectX(t *testing.T) {
	assert := assert.New(t)
	c, bus := newTestCPU()

	c.PC = 0x0200
	c.A = 0x42
	c.X = 0x04
	bus.mem[0x0200] = STA_INX
	bus.mem[0x0201] = 0x20
	bus.mem[0x24] = 0x34
	bus.mem[0x25] = 0x12

	cycles := step(t, c)

	assert.Equal(uint8(6), cycles, "incorrect cycle count")
	assert.Equal(uint8(0x42), bus.mem[0x1234], "value not stored")
}

func TestSTXZeroPageY(t *testing.T) {
	assert := assert.New(t)
	c, bus := newTestCPU()

	c.PC = 0x0200
	c.X = 0x42
	c.Y = 0x05
	bus.mem[0x0200] = STX_ZPY
	bus.mem[0x0201] = 0x10

	cycles := step(t, c)

	assert.Equal(uint8(4), cycles, "incorrect cycle count")
	assert.Equal(uint8(0x42), bus.mem[0x15], "value not stored")
}

func TestSTYAbsolute(t *testing.T) {
	assert := assert.New(t)
	c, bus := newTestCPU()

	c.PC = 0x0200
	c.Y = 0x42
	bus.mem[0x0200] = STY_ABS
	bus.mem[0x0201] = 0x34
	bus.mem[0x0202] = 0x12

	cycles := step(t, c)

	assert.Equal(uint8(4), cycles, "incorrect cycle count")
	assert.Equal(uint8(0x42), bus.mem[0x1234], "value not stored")
}

func TestStoreDoesNotTouchFlags(t *testing.T) {
	assert := assert.New(t)
	c, bus := newTestCPU()

	c.PC = 0x0200
	c.A = 0x00
	c.P = flagUnused | FlagN | FlagC
	bus.mem[0x0200] = STA_ZP
	bus.mem[0x0201] = 0x10

	step(t, c)

	assert.Equal(flagUnused|FlagN|FlagC, c.P, "store must not modify flags")
}
