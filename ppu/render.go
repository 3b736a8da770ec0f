package ppu

import (
	"fmt"
)

// RenderFrame draws the background of all four logical nametables
// into the frame buffer, 0x2000 top left, 0x2400 top right, 0x2800
// bottom left and 0x2C00 bottom right. The output depends only on the
// nametables, attribute tables, palette RAM and tile table.
//
// A tile index with nothing behind it stops rendering with an error
// wrapping ErrTileRange; the buffer is left partially drawn.
func (p *PPU) RenderFrame() error {
	bank := int(p.backgroundTableID()) * TILES_PER_TABLE

	for nt := 0; nt < 4; nt++ {
		base := uint16(BASE_NAMETABLE + nt*NAMETABLE_SIZE)
		ox, oy := (nt%2)*NES_RES_WIDTH, (nt/2)*NES_RES_HEIGHT

		for row := 0; row < NAMETABLE_ROWS; row++ {
			for col := 0; col < NAMETABLE_COLS; col++ {
				id := bank + int(p.read(base+uint16(row*NAMETABLE_COLS+col)))
				if id >= len(p.tiles) {
					return fmt.Errorf("%w: tile %d at nametable %d (%d, %d), %d tiles loaded", ErrTileRange, id, nt, col, row, len(p.tiles))
				}

				pal := p.attributePalette(base, row, col)
				p.drawTile(&p.tiles[id], pal, ox+col*TILE_PIXEL_WIDTH, oy+row*TILE_PIXEL_WIDTH)
			}
		}
	}

	return nil
}

// attributePalette returns the palette (0-3) for the tile at row, col
// of the nametable at base. Each attribute byte covers a 4x4 tile
// area split into 2x2 quadrants:
//
//	7654 3210
//	|||| ||++- top left
//	|||| ++--- top right
//	||++------ bottom left
//	++-------- bottom right
func (p *PPU) attributePalette(base uint16, row, col int) uint8 {
	attr := p.read(base + ATTRIBUTE_OFFSET + uint16((row/4)*8+col/4))
	shift := ((row%4)/2)*4 + ((col%4)/2)*2

	return (attr >> shift) & 0x03
}

func (p *PPU) drawTile(t *Tile, pal uint8, px, py int) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			ci := t[y][x]
			// Index 0 is transparent, which for the background
			// means the universal backdrop at 0x3F00.
			c := p.palette[0]
			if ci != 0 {
				c = p.palette[pal*4+ci]
			}
			p.pixels[(py+y)*FRAME_WIDTH+px+x] = SYSTEM_PALETTE[c]
		}
	}
}
