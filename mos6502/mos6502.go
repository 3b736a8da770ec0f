// package mos6502 implements the MOS Technologies 6502 processor, as
// found in the NES 2A03 (no decimal mode).
package mos6502

import (
	"errors"
	"fmt"
)

// Interrupt vectors
const (
	NMI_VECTOR   = 0xFFFA
	RESET_VECTOR = 0xFFFC
	IRQ_VECTOR   = 0xFFFE
)

// Status register bits
// 7  bit  0
// ---- ----
// NV1B DIZC
const (
	STATUS_FLAG_CARRY             = 1 << 0
	STATUS_FLAG_ZERO              = 1 << 1
	STATUS_FLAG_INTERRUPT_DISABLE = 1 << 2
	STATUS_FLAG_DECIMAL           = 1 << 3
	STATUS_FLAG_BREAK             = 1 << 4
	STATUS_FLAG_UNUSED            = 1 << 5 // always reads back as 1
	STATUS_FLAG_OVERFLOW          = 1 << 6
	STATUS_FLAG_NEGATIVE          = 1 << 7
)

const (
	RESET_STATUS = STATUS_FLAG_INTERRUPT_DISABLE | STATUS_FLAG_UNUSED
	RESET_SP     = 0xFD
	NMI_CYCLES   = 7
)

var (
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrHalted        = errors.New("cpu halted")
)

// CPU implements all of the machine state for the 6502
type CPU struct {
	bus    Bus
	acc    uint8  // main register
	x, y   uint8  // index registers
	status uint8  // a register for storing various status bits
	sp     uint8  // stack pointer - stack is 0x0100-0x01FF so only 8 bits needed
	pc     uint16 // the program counter

	cycles     uint64 // total cycles executed
	stepCycles uint8  // cycles consumed by the instruction in flight
	halted     bool   // set when we hit an opcode we can't execute
}

func New(b Bus) *CPU {
	return &CPU{bus: b, sp: RESET_SP, status: RESET_STATUS}
}

func (c *CPU) String() string {
	return fmt.Sprintf("PC: 0x%04x, ACC: 0x%02x, X: 0x%02x, Y: 0x%02x, SP: 0x%02x, STATUS: %08b", c.pc, c.acc, c.x, c.y, c.sp, c.status)
}

// Reset emulates the reset line: the program counter is loaded from
// the reset vector and the status and stack pointer take their
// documented post-reset values.
func (c *CPU) Reset() {
	c.pc = c.read16(RESET_VECTOR)
	c.sp = RESET_SP
	c.status = RESET_STATUS
	c.halted = false
}

// Halted reports whether the processor stopped on an unknown opcode.
func (c *CPU) Halted() bool {
	return c.halted
}

// SetPC moves the program counter. It exists for debuggers.
func (c *CPU) SetPC(addr uint16) {
	c.pc = addr
}

// Step executes exactly one instruction and returns the number of
// cycles it consumed. An unknown opcode halts the processor with PC
// left pointing at it.
func (c *CPU) Step() (int, error) {
	if c.halted {
		return 0, ErrHalted
	}

	at := c.pc
	code := c.read(at)
	op := opcodes[code]
	if !op.valid() {
		c.halted = true
		return 0, fmt.Errorf("%w 0x%02x at 0x%04x", ErrUnknownOpcode, code, at)
	}

	c.pc++
	addr, crossed := c.getOperandAddr(op.mode)
	c.pc += uint16(op.bytes) - 1

	c.stepCycles = op.cycles
	if crossed && op.penalty {
		c.stepCycles++
	}

	instructions[op.inst](c, operand{mode: op.mode, addr: addr})

	c.cycles += uint64(c.stepCycles)
	return int(c.stepCycles), nil
}

// NMI runs the non-maskable interrupt sequence and returns the cycles
// it took.
func (c *CPU) NMI() int {
	c.push16(c.pc)
	c.push((c.status &^ STATUS_FLAG_BREAK) | STATUS_FLAG_UNUSED)
	c.flagsOn(STATUS_FLAG_INTERRUPT_DISABLE)
	c.pc = c.read16(NMI_VECTOR)
	c.cycles += NMI_CYCLES

	return NMI_CYCLES
}

// getOperandAddr resolves the effective address for mode, with pc
// pointing at the first operand byte. The second return value is
// true when indexing moved the address onto a different page.
func (c *CPU) getOperandAddr(mode uint8) (uint16, bool) {
	switch mode {
	case IMMEDIATE:
		return c.pc, false
	case ZERO_PAGE:
		return uint16(c.read(c.pc)), false
	case ZERO_PAGE_X:
		return uint16(c.read(c.pc) + c.x), false
	case ZERO_PAGE_Y:
		return uint16(c.read(c.pc) + c.y), false
	case RELATIVE:
		// relative to the instruction after the branch
		off := int8(c.read(c.pc))
		return c.pc + 1 + uint16(off), false
	case ABSOLUTE:
		return c.read16(c.pc), false
	case ABSOLUTE_X:
		base := c.read16(c.pc)
		a := base + uint16(c.x)
		return a, pageCrossed(base, a)
	case ABSOLUTE_Y:
		base := c.read16(c.pc)
		a := base + uint16(c.y)
		return a, pageCrossed(base, a)
	case INDIRECT:
		return c.read16Wrapped(c.read16(c.pc)), false
	case INDIRECT_X:
		return c.read16Wrapped(uint16(c.read(c.pc) + c.x)), false
	case INDIRECT_Y:
		base := c.read16Wrapped(uint16(c.read(c.pc)))
		a := base + uint16(c.y)
		return a, pageCrossed(base, a)
	}

	// IMPLICIT and ACCUMULATOR have no address
	return 0, false
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

func (c *CPU) flagsOn(mask uint8) {
	c.status |= mask
}

func (c *CPU) flagsOff(mask uint8) {
	c.status &^= mask
}

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.flagsOn(mask)
	} else {
		c.flagsOff(mask)
	}
}

func (c *CPU) flag(mask uint8) bool {
	return c.status&mask != 0
}

// setNegativeAndZeroFlags is the shared Z/N rule for every
// instruction that produces a result.
func (c *CPU) setNegativeAndZeroFlags(n uint8) {
	c.setFlag(STATUS_FLAG_ZERO, n == 0)
	c.setFlag(STATUS_FLAG_NEGATIVE, n&0x80 != 0)
}
