package ppu

import (
	"strings"
	"testing"
)

type testBus struct {
	chr []uint8
}

func newTestBus() *testBus {
	return &testBus{chr: make([]uint8, 0x2000)}
}

func (tb *testBus) ChrRead(addr uint16) uint8 {
	if int(addr) < len(tb.chr) {
		return tb.chr[addr]
	}
	return 0
}

func (tb *testBus) ChrWrite(addr uint16, val uint8) {
	if int(addr) < len(tb.chr) {
		tb.chr[addr] = val
	}
}

func (tb *testBus) ChrSize() int {
	return len(tb.chr)
}

// setAddr points v at addr through PPUADDR.
func setAddr(p *PPU, addr uint16) {
	p.WriteReg(PPUADDR, uint8(addr>>8))
	p.WriteReg(PPUADDR, uint8(addr))
}

// writeVRAM stores vals from addr on, through PPUDATA.
func writeVRAM(p *PPU, addr uint16, vals ...uint8) {
	setAddr(p, addr)
	for _, v := range vals {
		p.WriteReg(PPUDATA, v)
	}
}

func TestVramIncrement(t *testing.T) {
	cases := []struct {
		v    uint16
		ctrl uint8
		want uint16
	}{
		{0, 0b00010000, 1},
		{1, 0b00010000, 2},
		{33, 0b00010000, 34},
		{0, 0b00111100, 32},
		{32, 0b00111100, 64},
		{65, 0b00111100, 97},
		{0x3FFF, 0b00000000, 0x0000},
		{0x3FF0, 0b00000100, 0x0010},
	}

	for i, tc := range cases {
		p := New(newTestBus())
		p.v.set(tc.v)
		p.WriteReg(PPUCTRL, tc.ctrl)
		p.vramIncrement()
		if p.v.get() != tc.want {
			t.Errorf("%d: Got 0x%04x, wanted 0x%04x", i, p.v.get(), tc.want)
		}
	}
}

func TestBackgroundTableID(t *testing.T) {
	cases := []struct {
		ctrl uint8
		want uint16
	}{
		{0b00010000, 1},
		{0b00111100, 1},
		{0b00101100, 0},
	}

	for i, tc := range cases {
		p := New(newTestBus())
		p.WriteReg(PPUCTRL, tc.ctrl)
		if got := p.backgroundTableID(); got != tc.want {
			t.Errorf("%d: Got %d, wanted %d; ctrl=%08b", i, got, tc.want, p.ctrl)
		}
	}
}

func TestNametableAddr(t *testing.T) {
	cases := []struct {
		addr uint16
		want uint16
	}{
		{0x2000, 0x0000},
		{0x2001, 0x0001},
		{0x2400, 0x0400},
		{0x2401, 0x0401},
		{0x2800, 0x0000},
		{0x2C01, 0x0401},
		{0x3000, 0x0000},
		{0x3EFF, 0x06FF},
	}

	for i, tc := range cases {
		if got := nametableAddr(tc.addr); got != tc.want {
			t.Errorf("%d: Mapped 0x%04x and got 0x%04x, wanted 0x%04x", i, tc.addr, got, tc.want)
		}
	}
}

func TestPaletteAddr(t *testing.T) {
	cases := []struct {
		addr uint16
		want uint16
	}{
		{0x3F00, 0x00},
		{0x3F01, 0x01},
		{0x3F10, 0x00},
		{0x3F11, 0x11},
		{0x3F14, 0x04},
		{0x3F18, 0x08},
		{0x3F1C, 0x0C},
		{0x3F20, 0x00},
		{0x3F3C, 0x0C},
		{0x3FFF, 0x1F},
	}

	for i, tc := range cases {
		if got := paletteAddr(tc.addr); got != tc.want {
			t.Errorf("%d: Mapped 0x%04x and got 0x%02x, wanted 0x%02x", i, tc.addr, got, tc.want)
		}
	}
}

func TestPaletteMirror(t *testing.T) {
	for i, r := range []uint16{0x10, 0x14, 0x18, 0x1C} {
		p := New(newTestBus())
		val := uint8(0x20 + i)
		writeVRAM(p, PALETTE_RAM+r, val)

		setAddr(p, PALETTE_RAM+r-0x10)
		if got := p.ReadReg(PPUDATA); got != val {
			t.Errorf("%d: Wrote 0x%02x at 0x%04x, read 0x%02x at 0x%04x", i, val, PALETTE_RAM+r, got, PALETTE_RAM+r-0x10)
		}
	}
}

func TestClearVBlank(t *testing.T) {
	cases := []struct {
		status uint8
		want   uint8
	}{
		{0x80, 0x00},
		{0x91, 0x11},
	}

	for i, tc := range cases {
		p := New(newTestBus())
		p.status = tc.status
		p.clearVBlank()
		if p.status != tc.want {
			t.Errorf("%d: Got 0x%02x, wanted 0x%02x", i, p.status, tc.want)
		}
	}

}

func TestSetVBlank(t *testing.T) {
	cases := []struct {
		status uint8
		want   uint8
	}{
		{0x00, 0x80},
		{0x11, 0x91},
	}

	for i, tc := range cases {
		p := New(newTestBus())
		p.status = tc.status
		p.setVBlank()
		if p.status != tc.want {
			t.Errorf("%d: Got 0x%02x, wanted 0x%02x", i, p.status, tc.want)
		}
	}

}

func TestWriteRegPPUCTRL(t *testing.T) {
	cases := []struct {
		val   uint8
		wantT uint16
	}{
		// These are cumulative
		{0b11001100, 0b00000000_00000000},
		{0b01010101, 0b00000100_00000000},
		{0b01010111, 0b00001100_00000000},
		{0b01010100, 0b00000000_00000000},
		{0b01010110, 0b00001000_00000000},
	}

	p := New(newTestBus())

	for i, tc := range cases {
		p.WriteReg(PPUCTRL, tc.val)
		if p.t.get() != tc.wantT || p.ctrl != tc.val {
			t.Errorf("%d: Got t=%015b (ctrl %08b) wanted %015b", i, p.t.get(), p.ctrl, tc.wantT)
		}
	}
}

func TestWriteRegPPUSCROLL(t *testing.T) {
	cases := []struct {
		val   uint8
		wantT uint16
		wantX uint8
		wantW uint8
	}{
		// These are cumulative
		{0b11001100, 0b00000000_00011001, 0b00000100, 1},
		{0b01010101, 0b01010001_01011001, 0b00000100, 0},
		{0b11111111, 0b01010001_01011111, 0b00000111, 1},
		{0b00000000, 0b00000000_00011111, 0b00000111, 0},
		{0b01101010, 0b00000000_00001101, 0b00000010, 1},
		{0b01101010, 0b00100001_10101101, 0b00000010, 0},
	}

	p := New(newTestBus())
	for i, tc := range cases {
		p.WriteReg(PPUSCROLL, tc.val)
		if p.t.get() != tc.wantT || p.x != tc.wantX || p.wLatch != tc.wantW {
			t.Errorf("%d: Got t,x,w=%015b,%03b,%d, wanted:\n\t\t          %015b,%03b,%d", i, p.t.get(), p.x, p.wLatch, tc.wantT, tc.wantX, tc.wantW)
		}
	}
}

func TestWriteRegOAMADDR(t *testing.T) {
	cases := []struct {
		val  uint8
		want uint8
	}{
		{0x0, 0x0},
		{0x1, 0x1},
		{0xFF, 0xFF},
	}

	for i, tc := range cases {
		p := New(newTestBus())
		p.WriteReg(OAMADDR, tc.val)
		if p.oamaddr != tc.want {
			t.Errorf("%d: OAMADDR = 0x%02x, wanted 0x%02x", i, p.oamaddr, tc.want)
		}
	}
}

func TestWriteRegOAMDATA(t *testing.T) {
	fullOam := make([]uint8, 256)
	for i := 0; i < 256; i++ {
		fullOam[i] = uint8(i*2 - 3)
	}
	cases := []struct {
		data     []uint8 // elements to write
		want     uint8   // the n-2th element in oamData
		wantAddr uint8   // the expected value of p.oamaddr

	}{
		{[]uint8{1, 10, 11, 255, 3}, 255, 0x5},
		{[]uint8{2, 3, 19, 254, 16, 22}, 16, 0x6},
		{[]uint8{1, 2, 19, 26, 29, 0, 10, 1, 3, 99, 124, 18, 39}, 18, 0xD},
		{fullOam, 0xf9, 0x0}, // oamaddr wraps
	}

	for i, tc := range cases {
		p := New(newTestBus())
		p.WriteReg(OAMADDR, 0x00)
		for _, n := range tc.data {
			p.WriteReg(OAMDATA, n)
		}

		if got := p.oamData[len(tc.data)-2]; p.oamaddr != tc.wantAddr || got != tc.want {
			t.Errorf("%d: addr = 0x%02x, oamData[x] = 0x%02x, wanted 0x%02x, 0x%02x, ", i, p.oamaddr, got, tc.wantAddr, tc.want)
		}
	}
}

func TestReadRegOAMDATA(t *testing.T) {
	p := New(newTestBus())
	p.WriteReg(OAMADDR, 0x10)
	p.WriteReg(OAMDATA, 0xAA)
	p.WriteReg(OAMDATA, 0xBB)
	p.WriteReg(OAMADDR, 0x10)

	for i := 0; i < 2; i++ {
		if got := p.ReadReg(OAMDATA); got != 0xAA || p.oamaddr != 0x10 {
			t.Errorf("%d: Got 0x%02x (addr 0x%02x), wanted 0xaa (addr 0x10)", i, got, p.oamaddr)
		}
	}
}

func TestWriteRegPPUADDR(t *testing.T) {
	cases := []struct {
		val    uint8
		startT uint16
		wantT  uint16
		wantV  uint16
		wantW  uint8
	}{
		// These are cumulative
		{0b11001100, 0b1000000_00000000, 0b00001100_00000000, 0x0000, 1},
		{0b11001100, 0b00001100_00000000, 0b00001100_11001100, 0b00001100_11001100, 0},
		{0b11111111, 0b00001100_11001100, 0b00111111_11001100, 0b00001100_11001100, 1},
		{0b10001110, 0b00111111_11001100, 0b00111111_10001110, 0b00111111_10001110, 0},
	}

	p := New(newTestBus())

	for i, tc := range cases {
		p.t.set(tc.startT)
		p.WriteReg(PPUADDR, tc.val)
		if p.t.get() != tc.wantT || p.v.get() != tc.wantV || p.wLatch != tc.wantW {
			t.Errorf("%d: Got t,v,w=%015b,%015b,%d,\n\t\t   wanted %015b,%015b,%d", i, p.t.get(), p.v.get(), p.wLatch, tc.wantT, tc.wantV, tc.wantW)
		}
	}
}

func TestReadRegPPUSTATUS(t *testing.T) {
	cases := []struct {
		status     uint8
		want       uint8
		wantStatus uint8
	}{
		{0x80, 0x80, 0x00},
		{0xC0, 0xC0, 0x40},
		{0x60, 0x60, 0x60},
		{0x00, 0x00, 0x00},
	}

	for i, tc := range cases {
		p := New(newTestBus())
		p.WriteReg(PPUSCROLL, 0x11) // leave the toggle set
		p.status = tc.status

		if got := p.ReadReg(PPUSTATUS); got != tc.want || p.status != tc.wantStatus || p.wLatch != 0 {
			t.Errorf("%d: Got 0x%02x (status 0x%02x, w %d), wanted 0x%02x (0x%02x, 0)", i, got, p.status, p.wLatch, tc.want, tc.wantStatus)
		}
	}
}

func TestWriteOnlyRegistersReadZero(t *testing.T) {
	p := New(newTestBus())
	p.WriteReg(PPUCTRL, 0xFF)
	p.WriteReg(PPUMASK, 0xFF)
	p.WriteReg(OAMADDR, 0xFF)
	p.WriteReg(PPUSCROLL, 0xFF)
	p.WriteReg(PPUADDR, 0xFF)

	for _, r := range []uint16{PPUCTRL, PPUMASK, OAMADDR, PPUSCROLL, PPUADDR} {
		if got := p.ReadReg(r); got != 0 {
			t.Errorf("0x%04x: Got 0x%02x, wanted 0", r, got)
		}
	}
}

func TestBufferedRead(t *testing.T) {
	cases := []struct {
		addr uint16
		val  uint8
	}{
		{0x2000, 0xAB},
		{0x2345, 0x01},
		{0x2FFF, 0xFF},
		{0x3ABC, 0x42}, // nametable mirror space
	}

	for i, tc := range cases {
		p := New(newTestBus())
		writeVRAM(p, tc.addr, tc.val)

		setAddr(p, tc.addr)
		if got := p.ReadReg(PPUDATA); got != 0 {
			t.Errorf("%d: First read got 0x%02x, wanted the empty buffer", i, got)
		}
		if got := p.ReadReg(PPUDATA); got != tc.val {
			t.Errorf("%d: Second read got 0x%02x, wanted 0x%02x", i, got, tc.val)
		}
	}
}

func TestPaletteEntryWidth(t *testing.T) {
	cases := []struct {
		addr      uint16
		val, want uint8
	}{
		{0x3F00, 0xCF, 0x0F},
		{0x3F05, 0x40, 0x00},
		{0x3F1F, 0xFF, 0x3F},
		{0x3F10, 0x8C, 0x0C}, // through the backdrop alias
		{0x3F01, 0x30, 0x30},
	}

	for i, tc := range cases {
		p := New(newTestBus())
		writeVRAM(p, tc.addr, tc.val)

		setAddr(p, tc.addr)
		if got := p.ReadReg(PPUDATA); got != tc.want {
			t.Errorf("%d: Wrote 0x%02x at 0x%04x, read 0x%02x, wanted 0x%02x", i, tc.val, tc.addr, got, tc.want)
		}
	}
}

func TestPaletteReadRefillsBuffer(t *testing.T) {
	p := New(newTestBus())
	writeVRAM(p, 0x2F05, 0x77)
	writeVRAM(p, 0x3F05, 0x21)

	setAddr(p, 0x3F05)
	if got := p.ReadReg(PPUDATA); got != 0x21 || p.bufferData != 0x77 {
		t.Errorf("Got 0x%02x (buffer 0x%02x), wanted 0x21 (buffer 0x77)", got, p.bufferData)
	}
}

func TestChrRAMWriteRefreshesTile(t *testing.T) {
	p := New(newTestBus())
	writeVRAM(p, 0x0010, 0x80) // tile 1, row 0, low plane
	writeVRAM(p, 0x0018, 0x01) // tile 1, row 0, high plane

	if row := p.tiles[1][0]; row != [8]uint8{1, 0, 0, 0, 0, 0, 0, 2} {
		t.Errorf("Got row %v", row)
	}
}

func TestVBlankTiming(t *testing.T) {
	p := New(newTestBus())
	p.WriteReg(PPUCTRL, CTRL_GENERATE_NMI)

	p.Tick(VBLANK_SCANLINE*DOTS_PER_SCANLINE + 1)
	if p.status&STATUS_VERTICAL_BLANK != 0 || p.PollNMI() {
		t.Fatalf("vblank set early: %s", p)
	}

	p.Tick(1)
	if p.status&STATUS_VERTICAL_BLANK == 0 || !p.PollNMI() {
		t.Fatalf("vblank not set at scanline 241 dot 1: %s", p)
	}
	if p.PollNMI() {
		t.Errorf("PollNMI didn't clear the pending NMI")
	}

	p.status |= STATUS_SPRITE_0_HIT | STATUS_SPRITE_OVERFLOW
	p.Tick((PRERENDER_SCANLINE - VBLANK_SCANLINE) * DOTS_PER_SCANLINE)
	if p.status != 0 {
		t.Errorf("status 0x%02x not cleared on the pre-render line", p.status)
	}

	p.Tick(DOTS_PER_SCANLINE - 2)
	if s := p.Snapshot(); s.Frame != 1 || s.Scanline != 0 || s.Dot != 0 {
		t.Errorf("Got frame %d at %d,%d, wanted frame 1 at 0,0", s.Frame, s.Scanline, s.Dot)
	}
}

func TestNMIDisabled(t *testing.T) {
	p := New(newTestBus())
	p.Tick(SCANLINES * DOTS_PER_SCANLINE)

	if p.PollNMI() {
		t.Errorf("NMI raised with PPUCTRL bit 7 clear")
	}
}

func TestNMIOnEnableDuringVBlank(t *testing.T) {
	cases := []struct {
		status  uint8
		oldCtrl uint8
		want    bool
	}{
		{STATUS_VERTICAL_BLANK, 0x00, true},
		{STATUS_VERTICAL_BLANK, CTRL_GENERATE_NMI, false}, // already enabled
		{0x00, 0x00, false},
	}

	for i, tc := range cases {
		p := New(newTestBus())
		p.ctrl = tc.oldCtrl
		p.status = tc.status

		p.WriteReg(PPUCTRL, CTRL_GENERATE_NMI)
		if got := p.PollNMI(); got != tc.want {
			t.Errorf("%d: Got NMI %t, wanted %t", i, got, tc.want)
		}
	}
}

func TestReset(t *testing.T) {
	p := New(newTestBus())
	p.WriteReg(PPUCTRL, 0xFF)
	p.WriteReg(PPUMASK, 0xFF)
	writeVRAM(p, 0x2000, 0x12)
	p.WriteReg(PPUSCROLL, 0xFF) // leaves the toggle set

	p.Reset()
	if s := p.Snapshot(); s.Ctrl != 0 || s.Mask != 0 || s.WriteToggle || s.T != 0 {
		t.Errorf("Got %+v after reset", s)
	}
	if p.vram[0] != 0x12 {
		t.Errorf("reset cleared VRAM")
	}
}

func TestSnapshot(t *testing.T) {
	p := New(newTestBus())
	p.WriteReg(PPUCTRL, 0x81)
	p.WriteReg(PPUMASK, 0x1E)
	p.WriteReg(OAMADDR, 0x40)
	p.WriteReg(PPUSCROLL, 0x0D)

	want := Snapshot{
		Version:     SNAPSHOT_VERSION,
		Ctrl:        0x81,
		Mask:        0x1E,
		OAMAddr:     0x40,
		T:           0x0401,
		FineX:       0x05,
		WriteToggle: true,
	}
	if got := p.Snapshot(); got != want {
		t.Errorf("Got %+v, wanted %+v", got, want)
	}
}

func TestScroll(t *testing.T) {
	cases := []struct {
		ctrl, x, y uint8
		want       string
	}{
		{0x00, 0x00, 0x00, "nt0+(0.0,0.0)"},
		{0x03, 0x7D, 0x5E, "nt3+(15.5,11.6)"},
		{0x01, 0xFF, 0xEF, "nt1+(31.7,29.7)"},
		{0x82, 0x08, 0x01, "nt2+(1.0,0.1)"},
	}

	for i, tc := range cases {
		p := New(newTestBus())
		p.WriteReg(PPUCTRL, tc.ctrl)
		p.WriteReg(PPUSCROLL, tc.x)
		p.WriteReg(PPUSCROLL, tc.y)

		if got := p.scroll(); got != tc.want {
			t.Errorf("%d: Got %q, wanted %q", i, got, tc.want)
		}
		if !strings.Contains(p.String(), "scroll="+tc.want) {
			t.Errorf("%d: String() = %q doesn't show the scroll", i, p.String())
		}
	}
}
