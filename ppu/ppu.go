// Package ppu implements the PPU hardware in the NES: the register
// file the CPU sees, VRAM, palette RAM, OAM and a background renderer.
package ppu

import (
	"errors"
	"fmt"
	"image/color"
)

const (
	VRAM_SIZE    = 2048
	OAM_SIZE     = 256
	PALETTE_SIZE = 32
)

// Display constants
const (
	NES_RES_WIDTH  = 256
	NES_RES_HEIGHT = 240

	// RenderFrame lays the four logical nametables out 2x2
	FRAME_WIDTH  = 2 * NES_RES_WIDTH
	FRAME_HEIGHT = 2 * NES_RES_HEIGHT
)

// Frame timing
const (
	DOTS_PER_SCANLINE  = 341
	SCANLINES          = 262
	VBLANK_SCANLINE    = 241
	PRERENDER_SCANLINE = 261
)

var ErrTileRange = errors.New("tile index out of range")

// Special Registers. These are the addresses on which they're exposed
// to the CPU. When we get calls to WriteReg from the Bus that's
// driving us, we'll get these values because that's all the CPU knows
const (
	PPUCTRL   = 0x2000
	PPUMASK   = 0x2001
	PPUSTATUS = 0x2002
	OAMADDR   = 0x2003
	OAMDATA   = 0x2004
	PPUSCROLL = 0x2005
	PPUADDR   = 0x2006
	PPUDATA   = 0x2007
)

// PPUCTRL bit flags
// 7  bit  0
// ---- ----
// VPHB SINN
// |||| ||||
// |||| ||++- Base nametable address
// |||| ||    (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
// |||| |+--- VRAM address increment per CPU read/write of PPUDATA
// |||| |     (0: add 1, going across; 1: add 32, going down)
// |||| +---- Sprite pattern table address for 8x8 sprites
// ||||       (0: $0000; 1: $1000; ignored in 8x16 mode)
// |||+------ Background pattern table address (0: $0000; 1: $1000)
// ||+------- Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
// |+-------- PPU master/slave select
// |          (0: read backdrop from EXT pins; 1: output color on EXT pins)
// +--------- Generate an NMI at the start of the
//
//	vertical blanking interval (0: off; 1: on)
const (
	CTRL_NAMETABLE1              = 1
	CTRL_NAMETABLE2              = 1 << 1
	CTRL_VRAM_ADD_INCREMENT      = 1 << 2
	CTRL_SPRITE_PATTERN_ADDR     = 1 << 3
	CTRL_BACKGROUND_PATTERN_ADDR = 1 << 4
	CTRL_SPRITE_SIZE             = 1 << 5
	CTRL_MASTER_SLAVE_SELECT     = 1 << 6
	CTRL_GENERATE_NMI            = 1 << 7
)

// VRAM increment options
const (
	CTRL_INCR_ACROSS = 1
	CTRL_INCR_DOWN   = 32
)

// 7  bit  0
// ---- ----
// VSO. ....
// |||| ||||
// |||+-++++- PPU open bus. Returns stale PPU bus contents.
// ||+------- Sprite overflow. The intent was for this flag to be set
// ||         whenever more than eight sprites appear on a scanline, but a
// ||         hardware bug causes the actual behavior to be more complicated
// ||         and generate false positives as well as false negatives; see
// ||         PPU sprite evaluation. This flag is set during sprite
// ||         evaluation and cleared at dot 1 (the second dot) of the
// ||         pre-render line.
// |+-------- Sprite 0 Hit.  Set when a nonzero pixel of sprite 0 overlaps
// |          a nonzero background pixel; cleared at dot 1 of the pre-render
// |          line.  Used for raster timing.
// +--------- Vertical blank has started (0: not in vblank; 1: in vblank).
//
//	Set at dot 1 of line 241 (the line *after* the post-render
//	line); cleared after reading $2002 and at dot 1 of the
//	pre-render line.
const (
	STATUS_SPRITE_OVERFLOW = 1 << 5 // never set; sprites aren't evaluated
	STATUS_SPRITE_0_HIT    = 1 << 6
	STATUS_VERTICAL_BLANK  = 1 << 7
)

// 7  bit  0
// ---- ----
// BGRs bMmG
// |||| ||||
// |||| |||+- Greyscale (0: normal color, 1: produce a greyscale display)
// |||| ||+-- 1: Show background in leftmost 8 pixels of screen, 0: Hide
// |||| |+--- 1: Show sprites in leftmost 8 pixels of screen, 0: Hide
// |||| +---- 1: Show background
// |||+------ 1: Show sprites
// ||+------- Emphasize red (green on PAL/Dendy)
// |+-------- Emphasize green (red on PAL/Dendy)
// +--------- Emphasize blue

// Mask flags
const (
	MASK_GREYSCALE         = 1 << 0
	MASK_SHOW_LEFT_TILES   = 1 << 1
	MASK_SHOW_LEFT_SPRITES = 1 << 2
	MASK_RENDER_BG         = 1 << 3
	MASK_RENDER_FG         = 1 << 4
	MASK_EMPHASIZE_RED     = 1 << 5
	MASK_EMPHASIZE_GREEN   = 1 << 6
	MASK_EMPHASIZE_BLUE    = 1 << 7
)

// Bus is the cartridge side of the PPU: the pattern tables in CHR
// ROM or RAM.
type Bus interface {
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	ChrSize() int
}

type PPU struct {
	bus     Bus
	tiles   []Tile
	pixels  []color.RGBA
	palette [PALETTE_SIZE]uint8
	oamData [OAM_SIZE]uint8
	vram    [VRAM_SIZE]uint8

	// internal registers
	v, t   loopy // current vram addr, temp vram addr
	x      uint8 // fine x scroll, only 3 bits used
	wLatch uint8 // first or second write toggle; 1 bit

	// registers that maintain state not captured in v, t, etc.
	ctrl    uint8
	status  uint8
	mask    uint8
	oamaddr uint8

	scanline int16 // 0 through 261 (0 - 239 are visible, 261 is pre-render)
	scandot  int16 // 0 through 340 (1 - 256 are visible)
	frame    uint64

	nmiPending bool

	// For reads from registers that are delayed due to cycle counts
	bufferData uint8
}

// New returns a PPU reading pattern data through b. The tile table is
// decoded from CHR once, here.
func New(b Bus) *PPU {
	ps := FRAME_WIDTH * FRAME_HEIGHT
	px := make([]color.RGBA, ps)
	for i := 0; i < ps; i++ {
		px[i] = color.RGBA{0, 0, 0, 0xff} // Black
	}

	chr := make([]uint8, b.ChrSize())
	for i := range chr {
		chr[i] = b.ChrRead(uint16(i))
	}

	return &PPU{
		bus:    b,
		pixels: px,
		tiles:  DecodeTiles(chr),
	}
}

func (p *PPU) String() string {
	return fmt.Sprintf("x=%d, y=%d, v=0x%04x, t=0x%04x, scroll=%s, ctrl=%08b, mask=%08b, status=%08b", p.scandot, p.scanline, p.v.get(), p.t.get(), p.scroll(), p.ctrl, p.mask, p.status)
}

// scroll describes the scroll position latched in t: the starting
// nametable, then the coarse and fine offsets in x and y.
func (p *PPU) scroll() string {
	return fmt.Sprintf("nt%d+(%d.%d,%d.%d)", p.t.nametableY()<<1|p.t.nametableX(), p.t.coarseX(), p.x, p.t.coarseY(), p.t.fineY())
}

// Reset puts the register file back to its power-up state. Memory is
// left alone.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.wLatch = 0
	p.x = 0
	p.t.set(0)
	p.bufferData = 0
	p.scanline, p.scandot = 0, 0
	p.nmiPending = false
}

func (p *PPU) Pixels() []color.RGBA {
	return p.pixels
}

func (p *PPU) Resolution() (int, int) {
	return FRAME_WIDTH, FRAME_HEIGHT
}

// WriteReg handles a CPU write to one of the eight registers. r must
// already be folded into 0x2000-0x2007.
func (p *PPU) WriteReg(r uint16, val uint8) {
	switch r {
	case PPUCTRL:
		// NMI enabled during vblank fires straight away
		if !p.generateNMI() && val&CTRL_GENERATE_NMI != 0 && p.status&STATUS_VERTICAL_BLANK != 0 {
			p.nmiPending = true
		}
		p.ctrl = val
		// we set loopy t's nametable x and y
		p.t.setNametableX(uint16(val))
		p.t.setNametableY(uint16(val >> 1))
	case PPUMASK:
		p.mask = val
	case OAMADDR:
		p.oamaddr = val
	case OAMDATA:
		p.oamData[p.oamaddr] = val
		p.oamaddr++
	case PPUSCROLL:
		if p.wLatch == 0 {
			p.t.setCoarseX(uint16(val) >> 3)
			p.x = (val & 0x07)
			p.wLatch = 1
		} else {
			// we set loopy t's coarse y and fine y
			p.t.setCoarseY(uint16(val) >> 3)
			p.t.setFineY(uint16(val) & 0x0007)
			p.wLatch = 0
		}
	case PPUADDR:
		if p.wLatch == 0 {
			p.t.set((uint16(val&0x3F) << 8) | (p.t.get() & 0x00FF))
			p.wLatch = 1
		} else {
			p.t.set((p.t.get() & 0xFF00) | uint16(val))
			p.v.set(p.t.get())
			p.wLatch = 0
		}
	case PPUDATA:
		p.write(p.v.get(), val)
		p.vramIncrement()
	}
}

// ReadReg returns the current value of a register. Reads of PPUSTATUS
// and PPUDATA have side effects, as on the hardware.
func (p *PPU) ReadReg(r uint16) uint8 {
	var ret uint8 = 0x00 // Most registers aren't readable, so we'll return 0
	switch r {
	case PPUSTATUS:
		ret = p.status
		p.clearVBlank()
		p.wLatch = 0
	case OAMDATA:
		// reads leave OAMADDR alone; only writes advance it
		ret = p.oamData[p.oamaddr]
	case PPUDATA:
		a := addrMask(p.v.get())
		if a >= PALETTE_RAM {
			// Palette reads skip the buffer, which is refilled
			// from the nametable "underneath" instead.
			ret = p.read(a)
			p.bufferData = p.read(a - 0x1000)
		} else {
			ret = p.bufferData
			p.bufferData = p.read(a)
		}
		p.vramIncrement()
	}

	return ret
}

func (p *PPU) vramIncrement() {
	x := uint16(CTRL_INCR_ACROSS)
	if p.ctrl&CTRL_VRAM_ADD_INCREMENT > 0 {
		x = CTRL_INCR_DOWN
	}

	p.v.set(addrMask(p.v.get() + x))
}

func (p *PPU) generateNMI() bool {
	return p.ctrl&CTRL_GENERATE_NMI > 0
}

// backgroundTableID is the pattern table (0 or 1) background tiles
// come from.
func (p *PPU) backgroundTableID() uint16 {
	if p.ctrl&CTRL_BACKGROUND_PATTERN_ADDR > 0 {
		return 1
	}
	return 0
}

// Tick executes n cycles. We call it tick instead of step because
// there is no real logic. It's just a fixed loop in the hardware.
func (p *PPU) Tick(n int) {
	for i := 0; i < n; i++ {
		p.tick()
	}
}

// PollNMI reports whether an NMI has been raised since the last call.
func (p *PPU) PollNMI() bool {
	n := p.nmiPending
	p.nmiPending = false
	return n
}

func (p *PPU) clearVBlank() {
	p.status &^= STATUS_VERTICAL_BLANK
}

func (p *PPU) setVBlank() {
	p.status |= STATUS_VERTICAL_BLANK
}

// This is the main execution logic for the PPU
func (p *PPU) tick() {
	if p.scandot == 1 {
		switch p.scanline {
		case VBLANK_SCANLINE:
			p.setVBlank()
			if p.generateNMI() {
				p.nmiPending = true
			}
		case PRERENDER_SCANLINE:
			p.status &^= STATUS_VERTICAL_BLANK | STATUS_SPRITE_0_HIT | STATUS_SPRITE_OVERFLOW
		}
	}

	p.scandot++
	if p.scandot == DOTS_PER_SCANLINE {
		p.scandot = 0
		p.scanline++
		if p.scanline == SCANLINES {
			p.scanline = 0
			p.frame++
		}
	}
}
