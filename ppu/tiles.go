package ppu

const (
	TILE_BYTES       = 16
	TILES_PER_TABLE  = 256
	NAMETABLE_COLS   = 32
	NAMETABLE_ROWS   = 30
	TILE_PIXEL_WIDTH = 8
)

// Tile is one 8x8 pattern, as 2-bit color indexes in [row][column]
// order.
type Tile [8][8]uint8

// DecodeTiles unpacks CHR data into tiles. Each 16 byte record holds
// two bit planes: bytes 0-7 are the low bit of each row, bytes 8-15
// the high bit, and bit 7 of a byte is the leftmost pixel. A trailing
// partial record is ignored.
func DecodeTiles(chr []uint8) []Tile {
	tiles := make([]Tile, len(chr)/TILE_BYTES)
	for i := range tiles {
		tiles[i] = decodeTile(chr[i*TILE_BYTES : (i+1)*TILE_BYTES])
	}

	return tiles
}

func decodeTile(rec []uint8) Tile {
	var t Tile
	for y := 0; y < 8; y++ {
		lo, hi := rec[y], rec[y+8]
		for x := 0; x < 8; x++ {
			bit := 7 - x
			t[y][x] = (lo>>bit)&1 | ((hi>>bit)&1)<<1
		}
	}

	return t
}

// refreshTile re-decodes tile n after its pattern bytes changed.
func (p *PPU) refreshTile(n int) {
	if n < 0 || n >= len(p.tiles) {
		return
	}

	var rec [TILE_BYTES]uint8
	for i := range rec {
		rec[i] = p.bus.ChrRead(uint16(n*TILE_BYTES + i))
	}
	p.tiles[n] = decodeTile(rec[:])
}
