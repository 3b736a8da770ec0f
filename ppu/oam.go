package ppu

type priority uint8

const (
	FRONT priority = iota
	BACK
)

const SPRITE_COUNT = OAM_SIZE / 4

// Sprite is one decoded OAM entry. Sprites aren't drawn; they're
// decoded for inspection.
type Sprite struct {
	// Y position of top of sprite. Sprite data is delayed by one
	// scanline, so this is one less than the line the sprite
	// starts on. Values of $EF-$FF hide the sprite.
	Y uint8
	// For 8x8 sprites, this is the tile number of this sprite
	// within the pattern table selected in bit 3 of PPUCTRL
	// ($2000). For 8x16 sprites, bit 0 picks the table.
	Tile uint8

	Palette      uint8 // 4 to 7, stored as 0 to 3
	Priority     priority
	FlipV, FlipH bool

	// X position of left side of sprite.
	X uint8
}

func spriteFromBytes(in []uint8) Sprite {
	// 76543210 -> in[2]
	// ||||||||
	// ||||||++- Palette (4 to 7) of sprite
	// |||+++--- Unimplemented (read 0)
	// ||+------ Priority (0: in front of background; 1: behind background)
	// |+------- Flip sprite horizontally
	// +-------- Flip sprite vertically
	return Sprite{
		Y:        in[0],
		Tile:     in[1],
		Palette:  (in[2] & 0x03),
		Priority: priority((in[2] & 0x20) >> 5),
		FlipH:    ((in[2] & 0x40) >> 6) == 1,
		FlipV:    ((in[2] & 0x80) >> 7) == 1,
		X:        in[3],
	}
}

// Attributes packs the sprite flags back into OAM byte 2.
func (s Sprite) Attributes() uint8 {
	a := s.Palette | uint8(s.Priority<<5)
	if s.FlipH {
		a |= (1 << 6)
	}
	if s.FlipV {
		a |= (1 << 7)
	}

	return a
}

// Sprite decodes OAM entry n, which wraps at SPRITE_COUNT.
func (p *PPU) Sprite(n int) Sprite {
	i := (n % SPRITE_COUNT) * 4
	return spriteFromBytes(p.oamData[i : i+4])
}
