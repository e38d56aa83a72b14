package cpu

// Addressing-mode microsequences. Every instruction is one of these
// schedules parameterised by an operator; the operator signature says
// what the instruction does with the bus:
//
//	readOp   consumes the value at the effective address
//	writeOp  produces the value to store there
//	rmwOp    transforms the value in place
//	branchOp decides whether the relative branch is taken
//
// Each microsequence is entered once per system cycle with subTick in
// [2, n] and returns the next sub-cycle value; returning 1 retires the
// instruction. Reaching a sub-cycle a schedule does not define is an
// internal invariant violation.
type (
	readOp    func(*CPU, uint8)
	writeOp   func(*CPU) uint8
	rmwOp     func(*CPU, uint8) uint8
	branchOp  func(*CPU) bool
	impliedOp func(*CPU)
)

func (c *CPU) illegalSubTick() (uint8, error) {
	return 0, &IllegalSubTickError{Opcode: c.opcode, SubTick: c.subTick}
}

func (c *CPU) implied(inst impliedOp) (uint8, error) {
	if c.subTick == 2 {
		inst(c)
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) immediate(inst readOp) (uint8, error) {
	if c.subTick == 2 {
		inst(c, c.fetch())
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) accumulator(inst rmwOp) (uint8, error) {
	if c.subTick == 2 {
		c.A = inst(c, c.A)
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) zeroPageRead(inst readOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		inst(c, c.bus.ReadZeroPage(c.low))
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) zeroPageWrite(inst writeOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.bus.WriteZeroPage(c.low, inst(c))
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) zeroPageRMW(inst rmwOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.latch = c.bus.ReadZeroPage(c.low)
		return c.subTick + 1, nil
	case 4:
		c.latch = inst(c, c.latch)
		return c.subTick + 1, nil
	case 5:
		c.bus.WriteZeroPage(c.low, c.latch)
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) zeroPageIndexedRead(inst readOp, index uint8) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		// Index addition wraps within the zero page.
		c.low += index
		return c.subTick + 1, nil
	case 4:
		inst(c, c.bus.ReadZeroPage(c.low))
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) zeroPageReadX(inst readOp) (uint8, error) {
	return c.zeroPageIndexedRead(inst, c.X)
}

func (c *CPU) zeroPageReadY(inst readOp) (uint8, error) {
	return c.zeroPageIndexedRead(inst, c.Y)
}

func (c *CPU) zeroPageIndexedWrite(inst writeOp, index uint8) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.low += index
		return c.subTick + 1, nil
	case 4:
		c.bus.WriteZeroPage(c.low, inst(c))
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) zeroPageWriteX(inst writeOp) (uint8, error) {
	return c.zeroPageIndexedWrite(inst, c.X)
}

func (c *CPU) zeroPageWriteY(inst writeOp) (uint8, error) {
	return c.zeroPageIndexedWrite(inst, c.Y)
}

func (c *CPU) zeroPageRMWX(inst rmwOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.low += c.X
		return c.subTick + 1, nil
	case 4:
		return c.subTick + 1, nil
	case 5:
		return c.subTick + 1, nil
	case 6:
		c.bus.WriteZeroPage(c.low, inst(c, c.bus.ReadZeroPage(c.low)))
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) absoluteRead(inst readOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.high = c.fetch()
		return c.subTick + 1, nil
	case 4:
		inst(c, c.bus.Read(addr(c.low, c.high)))
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) absoluteWrite(inst writeOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.high = c.fetch()
		return c.subTick + 1, nil
	case 4:
		c.bus.Write(addr(c.low, c.high), inst(c))
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) absoluteRMW(inst rmwOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.high = c.fetch()
		return c.subTick + 1, nil
	case 4:
		c.latch = c.bus.Read(addr(c.low, c.high))
		return c.subTick + 1, nil
	case 5:
		c.latch = inst(c, c.latch)
		return c.subTick + 1, nil
	case 6:
		c.bus.Write(addr(c.low, c.high), c.latch)
		return 1, nil
	}
	return c.illegalSubTick()
}

// absoluteIndexedRead costs the extra cycle only when the low-byte
// addition crosses into the next page.
func (c *CPU) absoluteIndexedRead(inst readOp, index uint8) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.low, c.fixHigh = overflowingAdd(c.low, index)
		c.high = c.fetch()
		return c.subTick + 1, nil
	case 4:
		if c.fixHigh {
			c.high++
			return c.subTick + 1, nil
		}
		inst(c, c.bus.Read(addr(c.low, c.high)))
		return 1, nil
	case 5:
		inst(c, c.bus.Read(addr(c.low, c.high)))
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) absoluteReadX(inst readOp) (uint8, error) {
	return c.absoluteIndexedRead(inst, c.X)
}

func (c *CPU) absoluteReadY(inst readOp) (uint8, error) {
	return c.absoluteIndexedRead(inst, c.Y)
}

// absoluteIndexedWrite always pays the fix-up cycle.
func (c *CPU) absoluteIndexedWrite(inst writeOp, index uint8) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.low, c.fixHigh = overflowingAdd(c.low, index)
		c.high = c.fetch()
		return c.subTick + 1, nil
	case 4:
		if c.fixHigh {
			c.high++
		}
		return c.subTick + 1, nil
	case 5:
		c.bus.Write(addr(c.low, c.high), inst(c))
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) absoluteWriteX(inst writeOp) (uint8, error) {
	return c.absoluteIndexedWrite(inst, c.X)
}

func (c *CPU) absoluteWriteY(inst writeOp) (uint8, error) {
	return c.absoluteIndexedWrite(inst, c.Y)
}

func (c *CPU) absoluteRMWX(inst rmwOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.low, c.fixHigh = overflowingAdd(c.low, c.X)
		c.high = c.fetch()
		return c.subTick + 1, nil
	case 4:
		if c.fixHigh {
			c.high++
		}
		return c.subTick + 1, nil
	case 5:
		c.latch = c.bus.Read(addr(c.low, c.high))
		return c.subTick + 1, nil
	case 6:
		c.latch = inst(c, c.latch)
		return c.subTick + 1, nil
	case 7:
		c.bus.Write(addr(c.low, c.high), c.latch)
		return 1, nil
	}
	return c.illegalSubTick()
}

// indirectIndexedRead is ($nn),Y.
func (c *CPU) indirectIndexedRead(inst readOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.latch = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.low = c.bus.ReadZeroPage(c.latch)
		return c.subTick + 1, nil
	case 4:
		c.high = c.bus.ReadZeroPage(c.latch + 1)
		c.low, c.fixHigh = overflowingAdd(c.low, c.Y)
		return c.subTick + 1, nil
	case 5:
		if c.fixHigh {
			c.high++
			return c.subTick + 1, nil
		}
		inst(c, c.bus.Read(addr(c.low, c.high)))
		return 1, nil
	case 6:
		inst(c, c.bus.Read(addr(c.low, c.high)))
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) indirectIndexedWrite(inst writeOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.latch = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.low = c.bus.ReadZeroPage(c.latch)
		return c.subTick + 1, nil
	case 4:
		c.high = c.bus.ReadZeroPage(c.latch + 1)
		c.low, c.fixHigh = overflowingAdd(c.low, c.Y)
		return c.subTick + 1, nil
	case 5:
		if c.fixHigh {
			c.high++
		}
		return c.subTick + 1, nil
	case 6:
		c.bus.Write(addr(c.low, c.high), inst(c))
		return 1, nil
	}
	return c.illegalSubTick()
}

// indexedIndirectRead is ($nn,X).
func (c *CPU) indexedIndirectRead(inst readOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.latch = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.latch += c.X
		return c.subTick + 1, nil
	case 4:
		c.low = c.bus.ReadZeroPage(c.latch)
		return c.subTick + 1, nil
	case 5:
		c.high = c.bus.ReadZeroPage(c.latch + 1)
		return c.subTick + 1, nil
	case 6:
		inst(c, c.bus.Read(addr(c.low, c.high)))
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) indexedIndirectWrite(inst writeOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.latch = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.latch += c.X
		return c.subTick + 1, nil
	case 4:
		c.low = c.bus.ReadZeroPage(c.latch)
		return c.subTick + 1, nil
	case 5:
		c.high = c.bus.ReadZeroPage(c.latch + 1)
		return c.subTick + 1, nil
	case 6:
		c.bus.Write(addr(c.low, c.high), inst(c))
		return 1, nil
	}
	return c.illegalSubTick()
}

// relative runs the branch schedule: 2 cycles not taken, 3 taken, 4
// taken across a page boundary.
func (c *CPU) relative(inst branchOp) (uint8, error) {
	switch c.subTick {
	case 2:
		c.latch = c.fetch()
		if inst(c) {
			return c.subTick + 1, nil
		}
		return 1, nil
	case 3:
		r, overflow := overflowingAdd(c.pcl(), c.latch)
		fix := c.relativeFixHigh(overflow, c.pcl())
		c.high = uint8(int16(c.pch()) + int16(fix))
		c.setPCL(r)
		if fix != 0 {
			return c.subTick + 1, nil
		}
		return 1, nil
	case 4:
		c.setPCH(c.high)
		return 1, nil
	}
	return c.illegalSubTick()
}

// relativeFixHigh decides the PCH adjustment for a signed branch
// offset given the unsigned low-byte addition's carry.
func (c *CPU) relativeFixHigh(carry bool, low uint8) int8 {
	if c.latch&0x80 == 0 {
		if carry {
			return 1
		}
		return 0
	}
	magnitude := ^c.latch + 1
	if magnitude > low {
		return -1
	}
	return 0
}

func (c *CPU) absoluteJMP() (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.high = c.fetch()
		c.setPC(c.low, c.high)
		c.inst("JMP")
		return 1, nil
	}
	return c.illegalSubTick()
}

// absoluteIndirectJMP keeps the NMOS page-wrap bug: the pointer's high
// byte is fetched without carrying the low-byte increment.
func (c *CPU) absoluteIndirectJMP() (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		c.high = c.fetch()
		return c.subTick + 1, nil
	case 4:
		c.latch = c.bus.Read(addr(c.low, c.high))
		return c.subTick + 1, nil
	case 5:
		c.setPC(c.latch, c.bus.Read(addr(c.low+1, c.high)))
		c.inst("JMP")
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) absoluteJSR() (uint8, error) {
	switch c.subTick {
	case 2:
		c.low = c.fetch()
		return c.subTick + 1, nil
	case 3:
		return c.subTick + 1, nil
	case 4:
		c.bus.WriteStack(c.SP, c.pch())
		c.SP--
		return c.subTick + 1, nil
	case 5:
		c.bus.WriteStack(c.SP, c.pcl())
		c.SP--
		return c.subTick + 1, nil
	case 6:
		c.high = c.fetch()
		c.setPC(c.low, c.high)
		c.inst("JSR")
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) impliedRTS() (uint8, error) {
	switch c.subTick {
	case 2:
		return c.subTick + 1, nil
	case 3:
		c.SP++
		return c.subTick + 1, nil
	case 4:
		c.setPCL(c.bus.ReadStack(c.SP))
		c.SP++
		return c.subTick + 1, nil
	case 5:
		c.setPCH(c.bus.ReadStack(c.SP))
		return c.subTick + 1, nil
	case 6:
		c.PC++
		c.inst("RTS")
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) impliedRTI() (uint8, error) {
	switch c.subTick {
	case 2:
		return c.subTick + 1, nil
	case 3:
		c.SP++
		return c.subTick + 1, nil
	case 4:
		c.P = (c.bus.ReadStack(c.SP) &^ FlagB) | flagUnused
		c.SP++
		return c.subTick + 1, nil
	case 5:
		c.setPCL(c.bus.ReadStack(c.SP))
		c.SP++
		return c.subTick + 1, nil
	case 6:
		c.setPCH(c.bus.ReadStack(c.SP))
		c.inst("RTI")
		return 1, nil
	}
	return c.illegalSubTick()
}

// impliedBRK pushes the address past the padding byte, then the status
// with B set, and vectors through $FFFE/$FFFF like a hardware IRQ.
func (c *CPU) impliedBRK() (uint8, error) {
	switch c.subTick {
	case 2:
		c.fetch()
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
		c.bus.WriteStack(c.SP, c.P|FlagB|flagUnused)
		c.SP--
		c.P |= FlagI
		return c.subTick + 1, nil
	case 6:
		c.setPCL(c.bus.Read(0xFFFE))
		return c.subTick + 1, nil
	case 7:
		c.setPCH(c.bus.Read(0xFFFF))
		c.inst("BRK")
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) impliedPush(inst writeOp) (uint8, error) {
	switch c.subTick {
	case 2:
		return c.subTick + 1, nil
	case 3:
		c.bus.WriteStack(c.SP, inst(c))
		c.SP--
		return 1, nil
	}
	return c.illegalSubTick()
}

func (c *CPU) impliedPull(inst readOp) (uint8, error) {
	switch c.subTick {
	case 2:
		return c.subTick + 1, nil
	case 3:
		c.SP++
		return c.subTick + 1, nil
	case 4:
		inst(c, c.bus.ReadStack(c.SP))
		return 1, nil
	}
	return c.illegalSubTick()
}

func addr(low, high uint8) uint16 {
	return uint16(low) | (uint16(high) << 8)
}

func overflowingAdd(a, b uint8) (uint8, bool) {
	sum := uint16(a) + uint16(b)
	return uint8(sum), sum > 0xFF
}
