package dis

import (
	"fmt"
	"strings"
)

const maxMemory = 0xFFFF

// Memory is the read-only view the disassembler walks; the machine's
// banked memory manager satisfies it.
type Memory interface {
	Read(address uint16) uint8
}

type Location struct {
	PC           uint16
	Value        uint8
	OperandBytes []byte
	Inst         *Instruction
}

func (l Location) instruction() string {
	if l.Inst == nil {
		return fmt.Sprintf("db $%02X", l.Value)
	}
	// Relative operands read better as their resolved target address.
	if l.Inst.Mode == Relative {
		offset := int8(l.OperandBytes[0])
		target := l.PC + 2 + uint16(offset)
		return fmt.Sprintf("%s $%04X", l.Inst.Name, target)
	}
	operand := l.Inst.Mode.FormatOperand(l.OperandBytes)
	if operand == "" {
		return l.Inst.Name
	}
	return fmt.Sprintf("%s %s", l.Inst.Name, operand)
}

func (l Location) Size() int {
	if l.Inst == nil {
		return 1
	}
	return 1 + l.Inst.Mode.OperandBytes()
}

func (l Location) String() string {
	var hexDump string
	switch len(l.OperandBytes) {
	case 0:
		hexDump = fmt.Sprintf("%02X", l.Value)
	case 1:
		hexDump = fmt.Sprintf("%02X %02X", l.Value, l.OperandBytes[0])
	default:
		hexDump = fmt.Sprintf("%02X %02X %02X", l.Value, l.OperandBytes[0], l.OperandBytes[1])
	}

	return fmt.Sprintf("$%04X: %-8s  %s", l.PC, hexDump, l.instruction())
}

// Decode takes an opcode and returns the corresponding instruction
func Decode(opcode byte) (Instruction, bool) {
	instruction, exists := instructionSet[opcode]
	return instruction, exists
}

// DisassembleInstructions walks the whole address space into decoded
// locations.
func DisassembleInstructions(memory Memory) []Location {
	pc := 0
	var rows []Location
	for pc < maxMemory {
		loc := disassembleLocation(memory, pc)
		rows = append(rows, loc)
		pc += loc.Size()
	}
	return rows
}

// DisassembleMemory disassembles a range of memory starting at the given address
func DisassembleMemory(memory Memory, startAddr, length int) string {
	var out strings.Builder
	pc := startAddr
	endAddr := startAddr + length

	for pc < endAddr && pc < maxMemory {
		loc := disassembleLocation(memory, pc)
		out.WriteString(loc.String())
		out.WriteString("\n")
		pc += loc.Size()
	}

	return out.String()
}

func disassembleLocation(memory Memory, pc int) Location {
	opcode := memory.Read(uint16(pc))
	l := Location{PC: uint16(pc), Value: opcode}

	inst, exists := instructionSet[opcode]
	if !exists {
		return l
	}

	operandCount := inst.Mode.OperandBytes()
	if pc+operandCount >= maxMemory {
		return l
	}
	l.Inst = &inst

	for i := 0; i < operandCount; i++ {
		l.OperandBytes = append(l.OperandBytes, memory.Read(uint16(pc+1+i)))
	}

	return l
}
