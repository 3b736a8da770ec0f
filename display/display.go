// Package display puts the frame buffer in a window with ebiten.
package display

import (
	"errors"
	"image/color"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	TITLE         = "famicore"
	OVERLAY_LINE  = 14 // basicfont.Face7x13 plus a pixel of leading
	OVERLAY_INSET = 4
)

var overlayBackground = color.RGBA{0x00, 0x00, 0x00, 0xC0}

// Emulator is the part of the console a window needs.
type Emulator interface {
	StepFrame() error
	Pixels() []color.RGBA
	Resolution() (int, int)
	String() string
}

// game is the ebiten.Game driving one console. Update runs a frame
// of emulation; Draw copies the result to the screen.
type game struct {
	emu     Emulator
	w, h    int
	screen  *ebiten.Image
	buf     []byte
	overlay bool
	stopped bool // the emulator returned an error; keep showing the last frame
}

func newGame(emu Emulator) *game {
	w, h := emu.Resolution()
	return &game{
		emu: emu,
		w:   w,
		h:   h,
		buf: make([]byte, 4*w*h),
	}
}

// Run opens a window scale times the console's resolution and runs
// until it is closed or Escape is pressed. F1 toggles the state
// overlay.
func Run(emu Emulator, scale int) error {
	g := newGame(emu)

	ebiten.SetWindowSize(g.w*scale, g.h*scale)
	ebiten.SetWindowTitle(TITLE)
	ebiten.SetWindowResizable(true)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}

	return err
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.overlay = !g.overlay
	}

	if g.stopped {
		return nil
	}

	if err := g.emu.StepFrame(); err != nil {
		log.Printf("emulation stopped: %v", err)
		g.stopped = true
		g.overlay = true
	}

	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(g.w, g.h)
	}

	rgbaBytes(g.buf, g.emu.Pixels())
	g.screen.WritePixels(g.buf)
	screen.DrawImage(g.screen, nil)

	if g.overlay {
		g.drawOverlay(screen)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.w, g.h
}

func (g *game) drawOverlay(screen *ebiten.Image) {
	lines := overlayLines(g.emu.String(), g.stopped)

	widest := 0
	for _, l := range lines {
		if w := text.BoundString(basicfont.Face7x13, l).Dx(); w > widest {
			widest = w
		}
	}

	bg := ebiten.NewImage(widest+2*OVERLAY_INSET, len(lines)*OVERLAY_LINE+2*OVERLAY_INSET)
	defer bg.Dispose()
	bg.Fill(overlayBackground)
	screen.DrawImage(bg, nil)

	for i, l := range lines {
		text.Draw(screen, l, basicfont.Face7x13, OVERLAY_INSET, OVERLAY_INSET+(i+1)*OVERLAY_LINE-3, color.White)
	}
}

// overlayLines splits the machine state into lines for the overlay.
func overlayLines(state string, stopped bool) []string {
	var lines []string
	for _, l := range strings.Split(state, "\n") {
		for _, f := range strings.Split(l, ", ") {
			if f = strings.TrimSpace(f); f != "" {
				lines = append(lines, f)
			}
		}
	}

	if stopped {
		lines = append(lines, "STOPPED")
	}

	return lines
}

// rgbaBytes flattens px into dst, which must hold 4 bytes per pixel.
func rgbaBytes(dst []byte, px []color.RGBA) {
	for i, c := range px {
		dst[4*i] = c.R
		dst[4*i+1] = c.G
		dst[4*i+2] = c.B
		dst[4*i+3] = c.A
	}
}
