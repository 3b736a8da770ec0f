package mos6502

// Bus is everything the processor can see. All instruction and
// operand fetches, stack traffic and data accesses go through it.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

func (c *CPU) read(addr uint16) uint8 {
	return c.bus.Read(addr)
}

func (c *CPU) write(addr uint16, val uint8) {
	c.bus.Write(addr, val)
}

// read16 returns the two bytes from memory at addr (lower byte is
// first).
func (c *CPU) read16(addr uint16) uint16 {
	lsb := uint16(c.read(addr))
	msb := uint16(c.read(addr + 1))

	return (msb << 8) | lsb
}

// read16Wrapped is read16, except the high byte is fetched from the
// same page as the low byte. This is how the hardware treats
// pointers in page zero and the JMP ($xxFF) bug.
func (c *CPU) read16Wrapped(addr uint16) uint16 {
	lsb := uint16(c.read(addr))
	msb := uint16(c.read((addr & 0xFF00) | uint16(uint8(addr)+1)))

	return (msb << 8) | lsb
}

func (c *CPU) getStackAddr() uint16 {
	return STACK_PAGE + uint16(c.sp)
}

func (c *CPU) push(val uint8) {
	c.write(c.getStackAddr(), val)
	c.sp--
}

func (c *CPU) pop() uint8 {
	c.sp++
	return c.read(c.getStackAddr())
}

// push16 pushes the high byte and then the low byte of val.
func (c *CPU) push16(val uint16) {
	c.push(uint8(val >> 8))
	c.push(uint8(val & 0x00FF))
}

func (c *CPU) pop16() uint16 {
	lsb := uint16(c.pop())
	msb := uint16(c.pop())

	return (msb << 8) | lsb
}
