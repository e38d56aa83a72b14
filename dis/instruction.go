package dis

import (
	"fmt"

	"github.com/newhook/c64/cpu"
)

// Instruction represents a decoded 6502 instruction
type Instruction struct {
	Name   string
	Mode   AddressingMode
	OpCode byte
}

// AddressingMode represents the different 6502 addressing modes
type AddressingMode int

const (
	Implicit AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
)

// FormatOperand formats the operand bytes according to the addressing mode
func (mode AddressingMode) FormatOperand(bytes []byte) string {
	switch mode {
	case Implicit:
		return ""
	case Accumulator:
		return "A"
	case Immediate:
		return fmt.Sprintf("#$%02X", bytes[0])
	case ZeroPage:
		return fmt.Sprintf("$%02X", bytes[0])
	case ZeroPageX:
		return fmt.Sprintf("$%02X,X", bytes[0])
	case ZeroPageY:
		return fmt.Sprintf("$%02X,Y", bytes[0])
	case Absolute:
		return fmt.Sprintf("$%02X%02X", bytes[1], bytes[0])
	case AbsoluteX:
		return fmt.Sprintf("$%02X%02X,X", bytes[1], bytes[0])
	case AbsoluteY:
		return fmt.Sprintf("$%02X%02X,Y", bytes[1], bytes[0])
	case Indirect:
		return fmt.Sprintf("($%02X%02X)", bytes[1], bytes[0])
	case IndirectX:
		return fmt.Sprintf("($%02X,X)", bytes[0])
	case IndirectY:
		return fmt.Sprintf("($%02X),Y", bytes[0])
	case Relative:
		return fmt.Sprintf("$%02X", bytes[0])
	default:
		return "???"
	}
}

// OperandBytes returns the number of operand bytes for a given addressing mode
func (mode AddressingMode) OperandBytes() int {
	switch mode {
	case Implicit, Accumulator:
		return 0
	case Immediate, ZeroPage, ZeroPageX, ZeroPageY, IndirectX, IndirectY, Relative:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	default:
		return 0
	}
}

var instructionSet = buildInstructionSet()

func buildInstructionSet() map[byte]Instruction {
	set := make(map[byte]Instruction)
	add := func(name string, mode AddressingMode, opcodes ...byte) {
		for _, op := range opcodes {
			set[op] = Instruction{Name: name, Mode: mode, OpCode: op}
		}
	}

	add("LDA", Immediate, cpu.LDA_IMM)
	add("LDA", ZeroPage, cpu.LDA_ZP)
	add("LDA", ZeroPageX, cpu.LDA_ZPX)
	add("LDA", Absolute, cpu.LDA_ABS)
	add("LDA", AbsoluteX, cpu.LDA_ABX)
	add("LDA", AbsoluteY, cpu.LDA_ABY)
	add("LDA", IndirectX, cpu.LDA_INX)
	add("LDA", IndirectY, cpu.LDA_INY)

	add("LDX", Immediate, cpu.LDX_IMM)
	add("LDX", ZeroPage, cpu.LDX_ZP)
	add("LDX", ZeroPageY, cpu.LDX_ZPY)
	add("LDX", Absolute, cpu.LDX_ABS)
	add("LDX", AbsoluteY, cpu.LDX_ABY)

	add("LDY", Immediate, cpu.LDY_IMM)
	add("LDY", ZeroPage, cpu.LDY_ZP)
	add("LDY", ZeroPageX, cpu.LDY_ZPX)
	add("LDY", Absolute, cpu.LDY_ABS)
	add("LDY", AbsoluteX, cpu.LDY_ABX)

	add("STA", ZeroPage, cpu.STA_ZP)
	add("STA", ZeroPageX, cpu.STA_ZPX)
	add("STA", Absolute, cpu.STA_ABS)
	add("STA", AbsoluteX, cpu.STA_ABX)
	add("STA", AbsoluteY, cpu.STA_ABY)
	add("STA", IndirectX, cpu.STA_INX)
	add("STA", IndirectY, cpu.STA_INY)

	add("STX", ZeroPage, cpu.STX_ZP)
	add("STX", ZeroPageY, cpu.STX_ZPY)
	add("STX", Absolute, cpu.STX_ABS)

	add("STY", ZeroPage, cpu.STY_ZP)
	add("STY", ZeroPageX, cpu.STY_ZPX)
	add("STY", Absolute, cpu.STY_ABS)

	add("TAX", Implicit, cpu.TAX)
	add("TAY", Implicit, cpu.TAY)
	add("TXA", Implicit, cpu.TXA)
	add("TYA", Implicit, cpu.TYA)
	add("TSX", Implicit, cpu.TSX)
	add("TXS", Implicit, cpu.TXS)

	add("PHA", Implicit, cpu.PHA)
	add("PHP", Implicit, cpu.PHP)
	add("PLA", Implicit, cpu.PLA)
	add("PLP", Implicit, cpu.PLP)

	add("AND", Immediate, cpu.AND_IMM)
	add("AND", ZeroPage, cpu.AND_ZP)
	add("AND", ZeroPageX, cpu.AND_ZPX)
	add("AND", Absolute, cpu.AND_ABS)
	add("AND", AbsoluteX, cpu.AND_ABX)
	add("AND", AbsoluteY, cpu.AND_ABY)
	add("AND", IndirectX, cpu.AND_INX)
	add("AND", IndirectY, cpu.AND_INY)

	add("EOR", Immediate, cpu.EOR_IMM)
	add("EOR", ZeroPage, cpu.EOR_ZP)
	add("EOR", ZeroPageX, cpu.EOR_ZPX)
	add("EOR", Absolute, cpu.EOR_ABS)
	add("EOR", AbsoluteX, cpu.EOR_ABX)
	add("EOR", AbsoluteY, cpu.EOR_ABY)
	add("EOR", IndirectX, cpu.EOR_INX)
	add("EOR", IndirectY, cpu.EOR_INY)

	add("ORA", Immediate, cpu.ORA_IMM)
	add("ORA", ZeroPage, cpu.ORA_ZP)
	add("ORA", ZeroPageX, cpu.ORA_ZPX)
	add("ORA", Absolute, cpu.ORA_ABS)
	add("ORA", AbsoluteX, cpu.ORA_ABX)
	add("ORA", AbsoluteY, cpu.ORA_ABY)
	add("ORA", IndirectX, cpu.ORA_INX)
	add("ORA", IndirectY, cpu.ORA_INY)

	add("BIT", ZeroPage, cpu.BIT_ZP)
	add("BIT", Absolute, cpu.BIT_ABS)

	add("ADC", Immediate, cpu.ADC_IMM)
	add("ADC", ZeroPage, cpu.ADC_ZP)
	add("ADC", ZeroPageX, cpu.ADC_ZPX)
	add("ADC", Absolute, cpu.ADC_ABS)
	add("ADC", AbsoluteX, cpu.ADC_ABX)
	add("ADC", AbsoluteY, cpu.ADC_ABY)
	add("ADC", IndirectX, cpu.ADC_INX)
	add("ADC", IndirectY, cpu.ADC_INY)

	add("SBC", Immediate, cpu.SBC_IMM)
	add("SBC", ZeroPage, cpu.SBC_ZP)
	add("SBC", ZeroPageX, cpu.SBC_ZPX)
	add("SBC", Absolute, cpu.SBC_ABS)
	add("SBC", AbsoluteX, cpu.SBC_ABX)
	add("SBC", AbsoluteY, cpu.SBC_ABY)
	add("SBC", IndirectX, cpu.SBC_INX)
	add("SBC", IndirectY, cpu.SBC_INY)

	add("CMP", Immediate, cpu.CMP_IMM)
	add("CMP", ZeroPage, cpu.CMP_ZP)
	add("CMP", ZeroPageX, cpu.CMP_ZPX)
	add("CMP", Absolute, cpu.CMP_ABS)
	add("CMP", AbsoluteX, cpu.CMP_ABX)
	add("CMP", AbsoluteY, cpu.CMP_ABY)
	add("CMP", IndirectX, cpu.CMP_INX)
	add("CMP", IndirectY, cpu.CMP_INY)

	add("CPX", Immediate, cpu.CPX_IMM)
	add("CPX", ZeroPage, cpu.CPX_ZP)
	add("CPX", Absolute, cpu.CPX_ABS)

	add("CPY", Immediate, cpu.CPY_IMM)
	add("CPY", ZeroPage, cpu.CPY_ZP)
	add("CPY", Absolute, cpu.CPY_ABS)

	add("INC", ZeroPage, cpu.INC_ZP)
	add("INC", ZeroPageX, cpu.INC_ZPX)
	add("INC", Absolute, cpu.INC_ABS)
	add("INC", AbsoluteX, cpu.INC_ABX)

	add("DEC", ZeroPage, cpu.DEC_ZP)
	add("DEC", ZeroPageX, cpu.DEC_ZPX)
	add("DEC", Absolute, cpu.DEC_ABS)
	add("DEC", AbsoluteX, cpu.DEC_ABX)

	add("INX", Implicit, cpu.INX)
	add("INY", Implicit, cpu.INY)
	add("DEX", Implicit, cpu.DEX)
	add("DEY", Implicit, cpu.DEY)

	add("ASL", Accumulator, cpu.ASL_ACC)
	add("ASL", ZeroPage, cpu.ASL_ZP)
	add("ASL", ZeroPageX, cpu.ASL_ZPX)
	add("ASL", Absolute, cpu.ASL_ABS)
	add("ASL", AbsoluteX, cpu.ASL_ABX)

	add("LSR", Accumulator, cpu.LSR_ACC)
	add("LSR", ZeroPage, cpu.LSR_ZP)
	add("LSR", ZeroPageX, cpu.LSR_ZPX)
	add("LSR", Absolute, cpu.LSR_ABS)
	add("LSR", AbsoluteX, cpu.LSR_ABX)

	add("ROL", Accumulator, cpu.ROL_ACC)
	add("ROL", ZeroPage, cpu.ROL_ZP)
	add("ROL", ZeroPageX, cpu.ROL_ZPX)
	add("ROL", Absolute, cpu.ROL_ABS)
	add("ROL", AbsoluteX, cpu.ROL_ABX)

	add("ROR", Accumulator, cpu.ROR_ACC)
	add("ROR", ZeroPage, cpu.ROR_ZP)
	add("ROR", ZeroPageX, cpu.ROR_ZPX)
	add("ROR", Absolute, cpu.ROR_ABS)
	add("ROR", AbsoluteX, cpu.ROR_ABX)

	add("JMP", Absolute, cpu.JMP_ABS)
	add("JMP", Indirect, cpu.JMP_IND)
	add("JSR", Absolute, cpu.JSR_ABS)
	add("RTS", Implicit, cpu.RTS)

	add("BCC", Relative, cpu.BCC)
	add("BCS", Relative, cpu.BCS)
	add("BEQ", Relative, cpu.BEQ)
	add("BMI", Relative, cpu.BMI)
	add("BNE", Relative, cpu.BNE)
	add("BPL", Relative, cpu.BPL)
	add("BVC", Relative, cpu.BVC)
	add("BVS", Relative, cpu.BVS)

	add("CLC", Implicit, cpu.CLC)
	add("CLD", Implicit, cpu.CLD)
	add("CLI", Implicit, cpu.CLI)
	add("CLV", Implicit, cpu.CLV)
	add("SEC", Implicit, cpu.SEC)
	add("SED", Implicit, cpu.SED)
	add("SEI", Implicit, cpu.SEI)

	add("BRK", Implicit, cpu.BRK)
	add("NOP", Implicit, cpu.NOP)
	add("RTI", Implicit, cpu.RTI)

	return set
}
