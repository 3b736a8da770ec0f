package mos6502

// operand is what an instruction works on once addressing has been
// resolved.
type operand struct {
	mode uint8
	addr uint16
}

// instructions maps each instruction id to its implementation.
var instructions = [NUM_INSTRUCTIONS]func(*CPU, operand){
	ADC: (*CPU).opADC,
	AND: (*CPU).opAND,
	ASL: (*CPU).opASL,
	BCC: (*CPU).opBCC,
	BCS: (*CPU).opBCS,
	BEQ: (*CPU).opBEQ,
	BIT: (*CPU).opBIT,
	BMI: (*CPU).opBMI,
	BNE: (*CPU).opBNE,
	BPL: (*CPU).opBPL,
	BRK: (*CPU).opBRK,
	BVC: (*CPU).opBVC,
	BVS: (*CPU).opBVS,
	CLC: (*CPU).opCLC,
	CLD: (*CPU).opCLD,
	CLI: (*CPU).opCLI,
	CLV: (*CPU).opCLV,
	CMP: (*CPU).opCMP,
	CPX: (*CPU).opCPX,
	CPY: (*CPU).opCPY,
	DEC: (*CPU).opDEC,
	DEX: (*CPU).opDEX,
	DEY: (*CPU).opDEY,
	EOR: (*CPU).opEOR,
	INC: (*CPU).opINC,
	INX: (*CPU).opINX,
	INY: (*CPU).opINY,
	JMP: (*CPU).opJMP,
	JSR: (*CPU).opJSR,
	LDA: (*CPU).opLDA,
	LDX: (*CPU).opLDX,
	LDY: (*CPU).opLDY,
	LSR: (*CPU).opLSR,
	NOP: (*CPU).opNOP,
	ORA: (*CPU).opORA,
	PHA: (*CPU).opPHA,
	PHP: (*CPU).opPHP,
	PLA: (*CPU).opPLA,
	PLP: (*CPU).opPLP,
	ROL: (*CPU).opROL,
	ROR: (*CPU).opROR,
	RTI: (*CPU).opRTI,
	RTS: (*CPU).opRTS,
	SBC: (*CPU).opSBC,
	SEC: (*CPU).opSEC,
	SED: (*CPU).opSED,
	SEI: (*CPU).opSEI,
	STA: (*CPU).opSTA,
	STX: (*CPU).opSTX,
	STY: (*CPU).opSTY,
	TAX: (*CPU).opTAX,
	TAY: (*CPU).opTAY,
	TSX: (*CPU).opTSX,
	TXA: (*CPU).opTXA,
	TXS: (*CPU).opTXS,
	TYA: (*CPU).opTYA,
}

// load fetches the value an instruction operates on.
func (c *CPU) load(o operand) uint8 {
	if o.mode == ACCUMULATOR {
		return c.acc
	}

	return c.read(o.addr)
}

// store puts a result back where load found it.
func (c *CPU) store(o operand, val uint8) {
	if o.mode == ACCUMULATOR {
		c.acc = val
		return
	}

	c.write(o.addr, val)
}

// addWithCarry is shared by ADC and SBC. There is no decimal mode on
// the 2A03, so D is ignored.
func (c *CPU) addWithCarry(m uint8) {
	var carry uint16
	if c.flag(STATUS_FLAG_CARRY) {
		carry = 1
	}

	sum := uint16(c.acc) + uint16(m) + carry
	res := uint8(sum)

	c.setFlag(STATUS_FLAG_CARRY, sum > 0xFF)
	// overflow when both inputs share a sign the result doesn't
	c.setFlag(STATUS_FLAG_OVERFLOW, (^(c.acc^m))&(c.acc^res)&0x80 != 0)
	c.acc = res
	c.setNegativeAndZeroFlags(c.acc)
}

func (c *CPU) opADC(o operand) {
	c.addWithCarry(c.load(o))
}

func (c *CPU) opSBC(o operand) {
	c.addWithCarry(^c.load(o))
}

func (c *CPU) opAND(o operand) {
	c.acc &= c.load(o)
	c.setNegativeAndZeroFlags(c.acc)
}

func (c *CPU) opORA(o operand) {
	c.acc |= c.load(o)
	c.setNegativeAndZeroFlags(c.acc)
}

func (c *CPU) opEOR(o operand) {
	c.acc ^= c.load(o)
	c.setNegativeAndZeroFlags(c.acc)
}

func (c *CPU) opBIT(o operand) {
	m := c.load(o)
	c.setFlag(STATUS_FLAG_ZERO, c.acc&m == 0)
	c.setFlag(STATUS_FLAG_OVERFLOW, m&0x40 != 0)
	c.setFlag(STATUS_FLAG_NEGATIVE, m&0x80 != 0)
}

func (c *CPU) opASL(o operand) {
	m := c.load(o)
	c.setFlag(STATUS_FLAG_CARRY, m&0x80 != 0)
	m <<= 1
	c.store(o, m)
	c.setNegativeAndZeroFlags(m)
}

func (c *CPU) opLSR(o operand) {
	m := c.load(o)
	c.setFlag(STATUS_FLAG_CARRY, m&0x01 != 0)
	m >>= 1
	c.store(o, m)
	c.setNegativeAndZeroFlags(m)
}

func (c *CPU) opROL(o operand) {
	m := c.load(o)
	var carry uint8
	if c.flag(STATUS_FLAG_CARRY) {
		carry = 1
	}
	c.setFlag(STATUS_FLAG_CARRY, m&0x80 != 0)
	m = (m << 1) | carry
	c.store(o, m)
	c.setNegativeAndZeroFlags(m)
}

func (c *CPU) opROR(o operand) {
	m := c.load(o)
	var carry uint8
	if c.flag(STATUS_FLAG_CARRY) {
		carry = 0x80
	}
	c.setFlag(STATUS_FLAG_CARRY, m&0x01 != 0)
	m = (m >> 1) | carry
	c.store(o, m)
	c.setNegativeAndZeroFlags(m)
}

// branch moves pc to the target when cond holds, charging one cycle
// for the taken branch and another if it lands on a new page.
func (c *CPU) branch(cond bool, o operand) {
	if !cond {
		return
	}

	c.stepCycles++
	if pageCrossed(c.pc, o.addr) {
		c.stepCycles++
	}
	c.pc = o.addr
}

func (c *CPU) opBCC(o operand) {
	c.branch(!c.flag(STATUS_FLAG_CARRY), o)
}

func (c *CPU) opBCS(o operand) {
	c.branch(c.flag(STATUS_FLAG_CARRY), o)
}

func (c *CPU) opBEQ(o operand) {
	c.branch(c.flag(STATUS_FLAG_ZERO), o)
}

func (c *CPU) opBNE(o operand) {
	c.branch(!c.flag(STATUS_FLAG_ZERO), o)
}

func (c *CPU) opBMI(o operand) {
	c.branch(c.flag(STATUS_FLAG_NEGATIVE), o)
}

func (c *CPU) opBPL(o operand) {
	c.branch(!c.flag(STATUS_FLAG_NEGATIVE), o)
}

func (c *CPU) opBVC(o operand) {
	c.branch(!c.flag(STATUS_FLAG_OVERFLOW), o)
}

func (c *CPU) opBVS(o operand) {
	c.branch(c.flag(STATUS_FLAG_OVERFLOW), o)
}

func (c *CPU) opBRK(o operand) {
	// pc is past the opcode; skip the padding byte too
	c.push16(c.pc + 1)
	c.push(c.status | STATUS_FLAG_BREAK | STATUS_FLAG_UNUSED)
	c.flagsOn(STATUS_FLAG_INTERRUPT_DISABLE)
	c.pc = c.read16(IRQ_VECTOR)
}

func (c *CPU) opCLC(o operand) {
	c.flagsOff(STATUS_FLAG_CARRY)
}

func (c *CPU) opCLD(o operand) {
	c.flagsOff(STATUS_FLAG_DECIMAL)
}

func (c *CPU) opCLI(o operand) {
	c.flagsOff(STATUS_FLAG_INTERRUPT_DISABLE)
}

func (c *CPU) opCLV(o operand) {
	c.flagsOff(STATUS_FLAG_OVERFLOW)
}

func (c *CPU) opSEC(o operand) {
	c.flagsOn(STATUS_FLAG_CARRY)
}

func (c *CPU) opSED(o operand) {
	c.flagsOn(STATUS_FLAG_DECIMAL)
}

func (c *CPU) opSEI(o operand) {
	c.flagsOn(STATUS_FLAG_INTERRUPT_DISABLE)
}

// compare sets C, Z and N from reg - m without storing the result.
func (c *CPU) compare(reg uint8, o operand) {
	m := c.load(o)
	c.setFlag(STATUS_FLAG_CARRY, reg >= m)
	c.setNegativeAndZeroFlags(reg - m)
}

func (c *CPU) opCMP(o operand) {
	c.compare(c.acc, o)
}

func (c *CPU) opCPX(o operand) {
	c.compare(c.x, o)
}

func (c *CPU) opCPY(o operand) {
	c.compare(c.y, o)
}

func (c *CPU) opDEC(o operand) {
	m := c.load(o) - 1
	c.store(o, m)
	c.setNegativeAndZeroFlags(m)
}

func (c *CPU) opINC(o operand) {
	m := c.load(o) + 1
	c.store(o, m)
	c.setNegativeAndZeroFlags(m)
}

func (c *CPU) opDEX(o operand) {
	c.x--
	c.setNegativeAndZeroFlags(c.x)
}

func (c *CPU) opDEY(o operand) {
	c.y--
	c.setNegativeAndZeroFlags(c.y)
}

func (c *CPU) opINX(o operand) {
	c.x++
	c.setNegativeAndZeroFlags(c.x)
}

func (c *CPU) opINY(o operand) {
	c.y++
	c.setNegativeAndZeroFlags(c.y)
}

func (c *CPU) opJMP(o operand) {
	c.pc = o.addr
}

func (c *CPU) opJSR(o operand) {
	// The return address pushed is that of the last byte of the
	// JSR; RTS adds the missing one.
	c.push16(c.pc - 1)
	c.pc = o.addr
}

func (c *CPU) opRTS(o operand) {
	c.pc = c.pop16() + 1
}

func (c *CPU) opRTI(o operand) {
	c.status = (c.pop() &^ STATUS_FLAG_BREAK) | STATUS_FLAG_UNUSED
	c.pc = c.pop16()
}

func (c *CPU) opLDA(o operand) {
	c.acc = c.load(o)
	c.setNegativeAndZeroFlags(c.acc)
}

func (c *CPU) opLDX(o operand) {
	c.x = c.load(o)
	c.setNegativeAndZeroFlags(c.x)
}

func (c *CPU) opLDY(o operand) {
	c.y = c.load(o)
	c.setNegativeAndZeroFlags(c.y)
}

func (c *CPU) opNOP(o operand) {}

func (c *CPU) opPHA(o operand) {
	c.push(c.acc)
}

func (c *CPU) opPHP(o operand) {
	c.push(c.status | STATUS_FLAG_BREAK | STATUS_FLAG_UNUSED)
}

func (c *CPU) opPLA(o operand) {
	c.acc = c.pop()
	c.setNegativeAndZeroFlags(c.acc)
}

func (c *CPU) opPLP(o operand) {
	c.status = (c.pop() &^ STATUS_FLAG_BREAK) | STATUS_FLAG_UNUSED
}

func (c *CPU) opSTA(o operand) {
	c.write(o.addr, c.acc)
}

func (c *CPU) opSTX(o operand) {
	c.write(o.addr, c.x)
}

func (c *CPU) opSTY(o operand) {
	c.write(o.addr, c.y)
}

func (c *CPU) opTAX(o operand) {
	c.x = c.acc
	c.setNegativeAndZeroFlags(c.x)
}

func (c *CPU) opTAY(o operand) {
	c.y = c.acc
	c.setNegativeAndZeroFlags(c.y)
}

func (c *CPU) opTSX(o operand) {
	c.x = c.sp
	c.setNegativeAndZeroFlags(c.x)
}

func (c *CPU) opTXA(o operand) {
	c.acc = c.x
	c.setNegativeAndZeroFlags(c.acc)
}

// TXS is the only transfer that leaves the flags alone.
func (c *CPU) opTXS(o operand) {
	c.sp = c.x
}

func (c *CPU) opTYA(o operand) {
	c.acc = c.y
	c.setNegativeAndZeroFlags(c.acc)
}
