package nesrom

import (
	"fmt"
)

const (
	HEADER_SIZE = 16
	MAGIC       = "NES\x1A"
)

// Flags 6: the top nibble is the low nibble of the mapper number.
const (
	FLAG6_VERTICAL    = 1 << 0
	FLAG6_BATTERY     = 1 << 1 // PRG RAM at 0x6000-0x7FFF is kept alive
	FLAG6_TRAINER     = 1 << 2 // 512 bytes for 0x7000-0x71FF precede PRG
	FLAG6_FOUR_SCREEN = 1 << 3
)

// Flags 7: the top nibble is the high nibble of the mapper number;
// bits 2-3 equal to 0b10 mark NES 2.0.
const (
	FLAG7_NES2_MASK = 0x0C
	FLAG7_NES2      = 0x08
)

type Mirroring uint8

const (
	MIRROR_HORIZONTAL Mirroring = iota
	MIRROR_VERTICAL
	MIRROR_FOUR_SCREEN
)

func (m Mirroring) String() string {
	switch m {
	case MIRROR_HORIZONTAL:
		return "horizontal"
	case MIRROR_VERTICAL:
		return "vertical"
	case MIRROR_FOUR_SCREEN:
		return "four-screen"
	}

	return fmt.Sprintf("mirroring(%d)", uint8(m))
}

// Region is the console timing the image was made for. The first
// two values are all iNES can say; NES 2.0 adds the rest.
type Region uint8

const (
	NTSC Region = iota
	PAL
	MULTI_REGION
	DENDY
)

func (r Region) String() string {
	switch r {
	case NTSC:
		return "NTSC"
	case PAL:
		return "PAL"
	case MULTI_REGION:
		return "multi-region"
	case DENDY:
		return "Dendy"
	}

	return fmt.Sprintf("region(%d)", uint8(r))
}

// Header is the decoded iNES header.
// https://www.nesdev.org/wiki/INES, https://www.nesdev.org/wiki/NES_2.0
type Header struct {
	PrgBlocks uint8 // 16KiB units
	ChrBlocks uint8 // 8KiB units; 0 means the board has CHR RAM
	Mapper    uint8
	Mirroring Mirroring
	Region    Region
	Trainer   bool
	NES2      bool

	// Battery backed PRG RAM, in 8KiB units. Zero without a battery.
	SaveRAMBlocks uint8
}

// parseHeader decodes the 16 header bytes in b.
func parseHeader(b []byte) (Header, error) {
	if string(b[0:4]) != MAGIC {
		return Header{}, fmt.Errorf("%w: magic %q", ErrBadMagic, b[0:4])
	}

	f6, f7 := b[6], b[7]
	h := Header{
		PrgBlocks: b[4],
		ChrBlocks: b[5],
		Trainer:   f6&FLAG6_TRAINER != 0,
		NES2:      f7&FLAG7_NES2_MASK == FLAG7_NES2,
	}

	h.Mapper = f6 >> 4
	// Old rippers signed their name across bytes 7-15 ("DiskDude!"),
	// which corrupts the high nibble. Trust it only when 12-15 are
	// clear or the header is NES 2.0.
	if h.NES2 || b[12]|b[13]|b[14]|b[15] == 0 {
		h.Mapper |= f7 & 0xF0
	}

	switch {
	case f6&FLAG6_FOUR_SCREEN != 0:
		h.Mirroring = MIRROR_FOUR_SCREEN
	case f6&FLAG6_VERTICAL != 0:
		h.Mirroring = MIRROR_VERTICAL
	}

	if h.NES2 {
		h.Region = Region(b[12] & 0x03)
	} else {
		h.Region = Region(b[9] & 0x01)
	}

	if f6&FLAG6_BATTERY != 0 {
		// iNES says 0 here means one block, for compatibility
		h.SaveRAMBlocks = b[8]
		if h.NES2 || h.SaveRAMBlocks == 0 {
			h.SaveRAMBlocks = 1
		}
	}

	return h, nil
}

func (h Header) String() string {
	s := fmt.Sprintf("mapper %d, %s mirroring, %s", h.Mapper, h.Mirroring, h.Region)
	if h.SaveRAMBlocks > 0 {
		s += fmt.Sprintf(", %dKiB battery RAM", 8*int(h.SaveRAMBlocks))
	}
	if h.Trainer {
		s += ", trainer"
	}
	if h.NES2 {
		s += ", NES 2.0"
	}

	return s
}
