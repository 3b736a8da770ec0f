package console

import (
	"github.com/bdwalton/famicore/mappers"
	"github.com/bdwalton/famicore/ppu"
)

// CPU memory map
// https://www.nesdev.org/wiki/CPU_memory_map
const (
	RAM_SIZE            = 0x0800
	MAX_RAM_MIRRORED    = 0x2000
	PPU_REG_BASE        = 0x2000
	MAX_IO_REG_MIRRORED = 0x4000
	CONTROLLER_1        = 0x4016
	PRG_ROM_BASE        = 0x8000
)

// bus decodes CPU addresses. It owns the console RAM and nothing
// else.
type bus struct {
	ram    [RAM_SIZE]uint8
	ppu    *ppu.PPU
	mapper mappers.Mapper
	pad    *controller // nil when nothing is plugged in
}

func (b *bus) Read(addr uint16) uint8 {
	switch {
	case addr < MAX_RAM_MIRRORED:
		// 0x800-0x1FFF mirrors 0x0000-0x07FF
		return b.ram[addr%RAM_SIZE]
	case addr < MAX_IO_REG_MIRRORED:
		// PPU registers are mirrored between 0x2000 and 0x4000
		return b.ppu.ReadReg(PPU_REG_BASE + addr%8)
	case addr == CONTROLLER_1:
		if b.pad != nil {
			return b.pad.read()
		}
	case addr >= PRG_ROM_BASE:
		return b.mapper.PrgRead(addr)
	}

	// APU, expansion and cartridge RAM aren't implemented
	return 0
}

func (b *bus) Write(addr uint16, val uint8) {
	switch {
	case addr < MAX_RAM_MIRRORED:
		b.ram[addr%RAM_SIZE] = val
	case addr < MAX_IO_REG_MIRRORED:
		b.ppu.WriteReg(PPU_REG_BASE+addr%8, val)
	case addr == CONTROLLER_1:
		if b.pad != nil {
			b.pad.write(val)
		}
	case addr >= PRG_ROM_BASE:
		b.mapper.PrgWrite(addr, val)
	}
}

// peek is Read without side effects, for inspection. Registers whose
// reads change state show as 0.
func (b *bus) peek(addr uint16) uint8 {
	if addr >= MAX_RAM_MIRRORED && addr < MAX_IO_REG_MIRRORED || addr == CONTROLLER_1 {
		return 0
	}

	return b.Read(addr)
}
