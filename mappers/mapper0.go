package mappers

import (
	"fmt"

	"github.com/bdwalton/famicore/nesrom"
)

const (
	PRG_BASE     = 0x8000
	CHR_RAM_SIZE = 0x2000
)

func init() {
	RegisterMapper(0, func(r *nesrom.ROM) (Mapper, error) {
		return NewNROM(r.Prg(), r.Chr())
	})
}

// NROM is mapper 0: 16KiB or 32KiB of PRG ROM with no bank
// switching and 8KiB of CHR ROM, or CHR RAM when the image has none.
type NROM struct {
	*baseMapper
	prg    []uint8
	chr    []uint8
	chrRAM bool
}

// NewNROM wraps prg and chr. A 16KiB prg is mirrored into both halves
// of 0x8000-0xFFFF. An empty chr gets 8KiB of CHR RAM.
func NewNROM(prg, chr []uint8) (*NROM, error) {
	if l := len(prg); l != nesrom.PRG_BLOCK_SIZE && l != 2*nesrom.PRG_BLOCK_SIZE {
		return nil, fmt.Errorf("NROM: PRG ROM must be 16KiB or 32KiB, got %d bytes", l)
	}
	if len(chr) > CHR_RAM_SIZE {
		return nil, fmt.Errorf("NROM: CHR ROM must be at most 8KiB, got %d bytes", len(chr))
	}

	m := &NROM{baseMapper: newBaseMapper(0, "NROM"), prg: prg, chr: chr}
	if len(chr) == 0 {
		m.chr = make([]uint8, CHR_RAM_SIZE)
		m.chrRAM = true
	}

	return m, nil
}

func (m *NROM) PrgRead(addr uint16) uint8 {
	if addr < PRG_BASE {
		return 0
	}

	return m.prg[int(addr-PRG_BASE)%len(m.prg)]
}

// PrgWrite is a no-op; there are no registers or RAM behind PRG on
// NROM.
func (m *NROM) PrgWrite(addr uint16, val uint8) {}

func (m *NROM) ChrRead(addr uint16) uint8 {
	if int(addr) >= len(m.chr) {
		return 0
	}

	return m.chr[addr]
}

func (m *NROM) ChrWrite(addr uint16, val uint8) {
	if m.chrRAM && int(addr) < len(m.chr) {
		m.chr[addr] = val
	}
}

func (m *NROM) ChrSize() int {
	return len(m.chr)
}
