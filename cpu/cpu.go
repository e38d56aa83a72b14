package cpu

// CPU is a MOS 6510 core driven one system cycle at a time. Each
// instruction runs as a multi-cycle microsequence; subTick tracks the
// position within the current instruction and returns to 1 exactly when
// the instruction retires. A pending IRQ is sampled only at that
// boundary.
type CPU struct {
	A  uint8  // Accumulator
	X  uint8  // X index register
	Y  uint8  // Y index register
	PC uint16 // Program Counter
	SP uint8  // Stack Pointer
	P  uint8  // Status Register (Flags)

	bus Bus

	// Micro-architectural state.
	opcode   uint8
	opcodePC uint16
	subTick  uint8

	// Addressing scratch, reset implicitly when a new instruction
	// begins fetching operands.
	low     uint8
	high    uint8
	latch   uint8
	fixHigh bool

	irqPending bool
	inIRQ      bool

	tracer *Tracer
}

// Status flag bits
const (
	FlagC uint8 = 0x01 // Carry
	FlagZ uint8 = 0x02 // Zero
	FlagI uint8 = 0x04 // Interrupt Disable
	FlagD uint8 = 0x08 // Decimal Mode
	FlagB uint8 = 0x10 // Break Command
	FlagV uint8 = 0x40 // Overflow
	FlagN uint8 = 0x80 // Negative

	// Bit 5 has no flag; it reads as 1.
	flagUnused uint8 = 0x20
)

// Bus is the CPU's view of the memory map. The zero-page and stack
// helpers exist because those access paths bypass bank decoding on the
// real machine: the stack always lives in page $0100.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	ReadZeroPage(low uint8) uint8
	WriteZeroPage(low uint8, value uint8)
	ReadStack(sp uint8) uint8
	WriteStack(sp uint8, value uint8)
}

// NewCPU creates a 6510 core attached to the given bus. The program
// counter is left at zero; the machine loads it from the reset vector.
func NewCPU(bus Bus) *CPU {
	return &CPU{
		bus:     bus,
		P:       flagUnused,
		subTick: 1,
	}
}

// SetTracer installs an instruction trace sink. Pass nil to disable.
func (c *CPU) SetTracer(t *Tracer) {
	c.tracer = t
}

// Interrupt latches a pending IRQ. The latch is held until the CPU
// accepts it at an instruction boundary with the I flag clear.
func (c *CPU) Interrupt() {
	c.irqPending = true
}

// InstructionBoundary reports whether the next Tick starts a fresh
// instruction (or accepts a pending interrupt).
func (c *CPU) InstructionBoundary() bool {
	return c.subTick == 1
}

// Tick advances the CPU by one system cycle.
func (c *CPU) Tick() error {
	if c.subTick == 1 {
		if c.tracer != nil {
			c.tracer.begin(c)
		}
		if c.irqPending && c.P&FlagI == 0 {
			c.irqPending = false
			c.inIRQ = true
			c.subTick = 2
			return nil
		}
		c.inIRQ = false
		c.opcodePC = c.PC
		c.opcode = c.bus.Read(c.PC)
		c.PC++
		if c.tracer != nil {
			c.tracer.opcodeFetched(c.opcode)
		}
		c.subTick = 2
		return nil
	}

	var next uint8
	var err error
	if c.inIRQ {
		next, err = c.interruptSequence()
	} else {
		next, err = c.execute(c.opcode)
	}
	if err != nil {
		return err
	}
	c.subTick = next
	return nil
}

// interruptSequence is the 7-cycle hardware IRQ entry: push return
// state, set I, load PC from $FFFE/$FFFF. The pushed status has B
// clear; B is never stored in the physical P register.
func (c *CPU) interruptSequence() (uint8, error) {
	switch c.subTick {
	case 2:
		return c.subTick + 1, nil
	case 3:
		c.bus.WriteStack(c.SP, c.pch())
		c.SP--
		return c.subTick + 1, nil
	case 4:
		c.bus.WriteStack(c.SP, c.pcl())
		c.SP--
		return c.subTick + 1, nil
	case 5:
		c.bus.WriteStack(c.SP, (c.P|flagUnused)&^FlagB)
		c.SP--
		c.P |= FlagI
		return c.subTick + 1, nil
	case 6:
		c.setPCL(c.bus.Read(0xFFFE))
		return c.subTick + 1, nil
	case 7:
		c.setPCH(c.bus.Read(0xFFFF))
		c.inst("IRQ")
		return 1, nil
	}
	return 0, &IllegalSubTickError{Opcode: c.opcode, SubTick: c.subTick}
}

func (c *CPU) pch() uint8 {
	return uint8(c.PC >> 8)
}

func (c *CPU) pcl() uint8 {
	return uint8(c.PC)
}

func (c *CPU) setPCH(value uint8) {
	c.PC = (c.PC & 0x00FF) | (uint16(value) << 8)
}

func (c *CPU) setPCL(value uint8) {
	c.PC = (c.PC & 0xFF00) | uint16(value)
}

func (c *CPU) setPC(low, high uint8) {
	c.PC = uint16(low) | (uint16(high) << 8)
}

// fetch reads the byte at PC and advances it.
func (c *CPU) fetch() uint8 {
	value := c.bus.Read(c.PC)
	c.PC++
	if c.tracer != nil {
		c.tracer.operandFetched(value)
	}
	return value
}

func (c *CPU) inst(name string) {
	if c.tracer != nil {
		c.tracer.instruction(name)
	}
}

// updateZN updates Zero and Negative flags based on value
func (c *CPU) updateZN(value uint8) {
	if value == 0 {
		c.P |= FlagZ
	} else {
		c.P &^= FlagZ
	}

	if value&0x80 != 0 {
		c.P |= FlagN
	} else {
		c.P &^= FlagN
	}
}

func (c *CPU) setCarry(value bool) {
	if value {
		c.P |= FlagC
	} else {
		c.P &^= FlagC
	}
}

func (c *CPU) setOverflow(value bool) {
	if value {
		c.P |= FlagV
	} else {
		c.P &^= FlagV
	}
}

// Load/store operators.

func (c *CPU) lda(value uint8) {
	c.inst("LDA")
	c.A = value
	c.updateZN(c.A)
}

func (c *CPU) ldx(value uint8) {
	c.inst("LDX")
	c.X = value
	c.updateZN(c.X)
}

func (c *CPU) ldy(value uint8) {
	c.inst("LDY")
	c.Y = value
	c.updateZN(c.Y)
}

func (c *CPU) sta() uint8 {
	c.inst("STA")
	return c.A
}

func (c *CPU) stx() uint8 {
	c.inst("STX")
	return c.X
}

func (c *CPU) sty() uint8 {
	c.inst("STY")
	return c.Y
}

// Logical operators.

func (c *CPU) and(value uint8) {
	c.inst("AND")
	c.A &= value
	c.updateZN(c.A)
}

func (c *CPU) ora(value uint8) {
	c.inst("ORA")
	c.A |= value
	c.updateZN(c.A)
}

func (c *CPU) eor(value uint8) {
	c.inst("EOR")
	c.A ^= value
	c.updateZN(c.A)
}

func (c *CPU) bit(value uint8) {
	c.inst("BIT")
	// N and V come from the operand, Z from the masked accumulator.
	c.P = (c.P &^ (FlagN | FlagV)) | (value & (FlagN | FlagV))
	if c.A&value == 0 {
		c.P |= FlagZ
	} else {
		c.P &^= FlagZ
	}
}

// Arithmetic operators.

func (c *CPU) adc(value uint8) {
	c.inst("ADC")
	if c.P&FlagD != 0 {
		c.addDecimal(value)
		return
	}
	c.addBinary(value)
}

func (c *CPU) sbc(value uint8) {
	c.inst("SBC")
	if c.P&FlagD != 0 {
		c.subDecimal(value)
		return
	}
	// Binary SBC is ADC of the one's complement.
	c.addBinary(^value)
}

func (c *CPU) addBinary(value uint8) {
	sum := uint16(c.A) + uint16(value) + uint16(c.P&FlagC)
	result := uint8(sum)
	c.setOverflow((result^c.A)&(result^value)&0x80 != 0)
	c.setCarry(sum > 0xFF)
	c.A = result
	c.updateZN(c.A)
}

// addDecimal adds in BCD modulo 100.
// TODO: derive V from the binary intermediate like the NMOS part does;
// decimal mode currently leaves V untouched.
func (c *CPU) addDecimal(value uint8) {
	a := fromBCD(c.A)
	m := fromBCD(value)
	sum := a + m + (c.P & FlagC)
	c.setCarry(sum > 99)
	c.A = toBCD(sum % 100)
	c.updateZN(c.A)
}

func (c *CPU) subDecimal(value uint8) {
	a := int16(fromBCD(c.A))
	m := int16(fromBCD(value))
	borrow := int16(1 - c.P&FlagC)
	diff := a - m - borrow
	c.setCarry(diff >= 0)
	if diff < 0 {
		diff += 100
	}
	c.A = toBCD(uint8(diff))
	c.updateZN(c.A)
}

func fromBCD(value uint8) uint8 {
	return (value&0x0F)%10 + ((value>>4)&0x0F)%10*10
}

func toBCD(value uint8) uint8 {
	return (value % 10) | ((value / 10) << 4)
}

// Compare operators.

func (c *CPU) cmp(value uint8) {
	c.inst("CMP")
	c.compare(c.A, value)
}

func (c *CPU) cpx(value uint8) {
	c.inst("CPX")
	c.compare(c.X, value)
}

func (c *CPU) cpy(value uint8) {
	c.inst("CPY")
	c.compare(c.Y, value)
}

func (c *CPU) compare(reg, value uint8) {
	c.setCarry(reg >= value)
	c.updateZN(reg - value)
}

// Shift and rotate operators.

func (c *CPU) asl(value uint8) uint8 {
	c.inst("ASL")
	c.setCarry(value&0x80 != 0)
	result := value << 1
	c.updateZN(result)
	return result
}

func (c *CPU) lsr(value uint8) uint8 {
	c.inst("LSR")
	c.setCarry(value&0x01 != 0)
	result := value >> 1
	c.updateZN(result)
	return result
}

func (c *CPU) rol(value uint8) uint8 {
	c.inst("ROL")
	oldCarry := c.P & FlagC
	c.setCarry(value&0x80 != 0)
	result := value << 1
	if oldCarry != 0 {
		result |= 0x01
	}
	c.updateZN(result)
	return result
}

func (c *CPU) ror(value uint8) uint8 {
	c.inst("ROR")
	oldCarry := c.P & FlagC
	c.setCarry(value&0x01 != 0)
	result := value >> 1
	if oldCarry != 0 {
		result |= 0x80
	}
	c.updateZN(result)
	return result
}

// Increment/decrement operators.

func (c *CPU) incOp(value uint8) uint8 {
	c.inst("INC")
	result := value + 1
	c.updateZN(result)
	return result
}

func (c *CPU) decOp(value uint8) uint8 {
	c.inst("DEC")
	result := value - 1
	c.updateZN(result)
	return result
}

func (c *CPU) inx() {
	c.inst("INX")
	c.X++
	c.updateZN(c.X)
}

func (c *CPU) iny() {
	c.inst("INY")
	c.Y++
	c.updateZN(c.Y)
}

func (c *CPU) dex() {
	c.inst("DEX")
	c.X--
	c.updateZN(c.X)
}

func (c *CPU) dey() {
	c.inst("DEY")
	c.Y--
	c.updateZN(c.Y)
}

// Transfer operators.

func (c *CPU) tax() {
	c.inst("TAX")
	c.X = c.A
	c.updateZN(c.X)
}

func (c *CPU) tay() {
	c.inst("TAY")
	c.Y = c.A
	c.updateZN(c.Y)
}

func (c *CPU) txa() {
	c.inst("TXA")
	c.A = c.X
	c.updateZN(c.A)
}

func (c *CPU) tya() {
	c.inst("TYA")
	c.A = c.Y
	c.updateZN(c.A)
}

func (c *CPU) tsx() {
	c.inst("TSX")
	c.X = c.SP
	c.updateZN(c.X)
}

func (c *CPU) txs() {
	// TXS does not affect status flags.
	c.inst("TXS")
	c.SP = c.X
}

// Stack operators for the push/pull microsequences.

func (c *CPU) pha() uint8 {
	c.inst("PHA")
	return c.A
}

func (c *CPU) php() uint8 {
	// PHP pushes with B set; the physical P never holds B.
	c.inst("PHP")
	return c.P | FlagB | flagUnused
}

func (c *CPU) pla(value uint8) {
	c.inst("PLA")
	c.A = value
	c.updateZN(c.A)
}

func (c *CPU) plp(value uint8) {
	c.inst("PLP")
	c.P = (value &^ FlagB) | flagUnused
}

// Flag operators.

func (c *CPU) clc() {
	c.inst("CLC")
	c.P &^= FlagC
}

func (c *CPU) sec() {
	c.inst("SEC")
	c.P |= FlagC
}

func (c *CPU) cli() {
	c.inst("CLI")
	c.P &^= FlagI
}

func (c *CPU) sei() {
	c.inst("SEI")
	c.P |= FlagI
}

func (c *CPU) clv() {
	c.inst("CLV")
	c.P &^= FlagV
}

func (c *CPU) cld() {
	c.inst("CLD")
	c.P &^= FlagD
}

func (c *CPU) sed() {
	c.inst("SED")
	c.P |= FlagD
}

func (c *CPU) nop() {
	c.inst("NOP")
}

// Branch predicates.

func (c *CPU) bpl() bool {
	c.inst("BPL")
	return c.P&FlagN == 0
}

func (c *CPU) bmi() bool {
	c.inst("BMI")
	return c.P&FlagN != 0
}

func (c *CPU) bvc() bool {
	c.inst("BVC")
	return c.P&FlagV == 0
}

func (c *CPU) bvs() bool {
	c.inst("BVS")
	return c.P&FlagV != 0
}

func (c *CPU) bcc() bool {
	c.inst("BCC")
	return c.P&FlagC == 0
}

func (c *CPU) bcs() bool {
	c.inst("BCS")
	return c.P&FlagC != 0
}

func (c *CPU) bne() bool {
	c.inst("BNE")
	return c.P&FlagZ == 0
}

func (c *CPU) beq() bool {
	c.inst("BEQ")
	return c.P&FlagZ != 0
}
