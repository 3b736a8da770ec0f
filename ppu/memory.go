package ppu

// PPU address space
const (
	PATTERN_TABLE_0  = 0x0000
	PATTERN_TABLE_1  = 0x1000
	BASE_NAMETABLE   = 0x2000
	NAMETABLE_SIZE   = 0x0400
	ATTRIBUTE_OFFSET = 0x03C0 // each nametable has attribute data at the end of it
	NAMETABLE_0      = BASE_NAMETABLE
	NAMETABLE_1      = 0x2400
	NAMETABLE_2      = 0x2800
	NAMETABLE_3      = 0x2C00
	PALETTE_RAM      = 0x3F00
	ADDR_SPACE_MASK  = 0x3FFF

	PALETTE_ENTRY_MASK = 0x3F
)

// addrMask folds addr into the 14-bit PPU address space.
func addrMask(addr uint16) uint16 {
	return addr & ADDR_SPACE_MASK
}

// nametableAddr maps 0x2000-0x3EFF onto the 2KiB of internal VRAM.
// The four logical nametables fold by plain modulo, so 0x2800 and
// 0x2C00 alias 0x2000 and 0x2400.
func nametableAddr(addr uint16) uint16 {
	return (addr - BASE_NAMETABLE) % VRAM_SIZE
}

// paletteAddr maps 0x3F00-0x3FFF onto the 32 bytes of palette RAM.
// Entry 0 of each sprite palette is the matching background entry.
func paletteAddr(addr uint16) uint16 {
	a := (addr - PALETTE_RAM) % PALETTE_SIZE
	if a >= 0x10 && a%4 == 0 {
		a -= 0x10
	}

	return a
}

func (p *PPU) read(addr uint16) uint8 {
	a := addrMask(addr)

	switch {
	case a < BASE_NAMETABLE:
		// Pattern Table 0 and 1 (upper: 0x0FFF, 0x1FFF)
		return p.bus.ChrRead(a)
	case a < PALETTE_RAM:
		return p.vram[nametableAddr(a)]
	default:
		return p.palette[paletteAddr(a)]
	}
}

func (p *PPU) write(addr uint16, val uint8) {
	a := addrMask(addr)

	switch {
	case a < BASE_NAMETABLE:
		// Only CHR RAM takes the write; keep the tile table in step.
		p.bus.ChrWrite(a, val)
		p.refreshTile(int(a / TILE_BYTES))
	case a < PALETTE_RAM:
		p.vram[nametableAddr(a)] = val
	default:
		// palette RAM is 6 bits wide
		p.palette[paletteAddr(a)] = val & PALETTE_ENTRY_MASK
	}
}
