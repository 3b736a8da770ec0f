package console

// Buttons, as bits:
// 0 - A
// 1 - B
// 2 - Select
// 3 - Start
// 4 - Up
// 5 - Down
// 6 - Left
// 7 - Right
const (
	BUTTON_A = 1 << iota
	BUTTON_B
	BUTTON_SELECT
	BUTTON_START
	BUTTON_UP
	BUTTON_DOWN
	BUTTON_LEFT
	BUTTON_RIGHT
)

// Buttons supplies the current state of a controller, one bit per
// button as above.
type Buttons interface {
	Buttons() uint8
}

// controller is the standard pad's shift register, read one bit at a
// time through 0x4016.
type controller struct {
	src     Buttons
	strobe  bool
	buttons uint8
	idx     uint8
}

func (c *controller) write(val uint8) {
	switch val & 0x01 {
	case 0:
		if c.strobe {
			c.buttons = c.src.Buttons()
		}
		c.strobe = false
		c.idx = 0
	case 1:
		c.strobe = true
		c.idx = 0
	}
}

func (c *controller) read() uint8 {
	// While strobe is high the register keeps reloading, so only
	// A is ever seen.
	if c.strobe {
		return c.src.Buttons() & BUTTON_A
	}

	if c.idx > 7 {
		return 1
	}

	ret := c.buttons & (1 << c.idx) >> c.idx
	c.idx++
	return ret
}
