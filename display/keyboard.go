package display

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// keys are in controller bit order: A, B, Select, Start, Up, Down,
// Left, Right.
var keys = [8]ebiten.Key{
	ebiten.KeyA,     // A
	ebiten.KeyB,     // B
	ebiten.KeySpace, // Select
	ebiten.KeyEnter, // Start
	ebiten.KeyUp,    // Up
	ebiten.KeyDown,  // Down
	ebiten.KeyLeft,  // Left
	ebiten.KeyRight, // Right
}

// Keyboard is a controller driven by the window's keyboard. Only
// meaningful while Run is active.
type Keyboard struct{}

func (Keyboard) Buttons() uint8 {
	var b uint8
	for i, k := range keys {
		if ebiten.IsKeyPressed(k) {
			b |= 1 << i
		}
	}

	return b
}
