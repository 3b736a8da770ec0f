// Package console wires the processor, video unit and cartridge
// together and drives them in lock step.
package console

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/bdwalton/famicore/mappers"
	"github.com/bdwalton/famicore/mos6502"
	"github.com/bdwalton/famicore/ppu"
)

const (
	PPU_TICKS_PER_CPU_CYCLE = 3
	// 341 * 262 / 3, rounded up
	CPU_CYCLES_PER_FRAME = 29781
)

type Machine struct {
	bus *bus
	cpu *mos6502.CPU
	ppu *ppu.PPU

	log         *log.Logger
	frameCycles int // CPU cycles into the current frame
	haltLogged  bool
}

// New builds a console around the cartridge m. Reset must be called
// before stepping.
func New(m mappers.Mapper) *Machine {
	b := &bus{mapper: m, ppu: ppu.New(m)}

	return &Machine{
		bus: b,
		cpu: mos6502.New(b),
		ppu: b.ppu,
		log: log.New(io.Discard, "", 0),
	}
}

// SetLogger sends diagnostics (halts, render failures) to l.
func (m *Machine) SetLogger(l *log.Logger) {
	m.log = l
}

// SetController plugs a pad into the first controller port.
func (m *Machine) SetController(b Buttons) {
	m.bus.pad = &controller{src: b}
}

func (m *Machine) String() string {
	return fmt.Sprintf("%s\n%s", m.cpu, m.ppu)
}

// Reset hits the reset button.
func (m *Machine) Reset() {
	m.ppu.Reset()
	m.cpu.Reset()
	m.frameCycles = 0
	m.haltLogged = false
}

// Step runs one instruction, then the PPU for the matching number of
// dots, then an NMI if the PPU raised one. It returns the CPU cycles
// consumed, including any NMI.
func (m *Machine) Step() (int, error) {
	c, err := m.cpu.Step()
	if err != nil {
		if !m.haltLogged {
			m.log.Printf("cpu halted: %v", err)
			m.haltLogged = true
		}
		return 0, err
	}
	m.ppu.Tick(c * PPU_TICKS_PER_CPU_CYCLE)

	if m.ppu.PollNMI() {
		n := m.cpu.NMI()
		m.ppu.Tick(n * PPU_TICKS_PER_CPU_CYCLE)
		c += n
	}

	return c, nil
}

// StepFrame runs a frame's worth of CPU cycles and renders. Cycles
// run past the end of the frame count against the next one.
func (m *Machine) StepFrame() error {
	for m.frameCycles < CPU_CYCLES_PER_FRAME {
		c, err := m.Step()
		if err != nil {
			return err
		}
		m.frameCycles += c
	}
	m.frameCycles -= CPU_CYCLES_PER_FRAME

	if err := m.ppu.RenderFrame(); err != nil {
		m.log.Printf("render: %v", err)
		return err
	}

	return nil
}

// Run steps until ctx is done, the CPU halts or PC lands on one of
// breaks. At least one instruction is always run.
func (m *Machine) Run(ctx context.Context, breaks map[uint16]struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := m.Step(); err != nil {
			return err
		}

		if _, ok := breaks[m.cpu.Snapshot().PC]; ok {
			return nil
		}
	}
}

func (m *Machine) Halted() bool {
	return m.cpu.Halted()
}

func (m *Machine) Pixels() []color.RGBA {
	return m.ppu.Pixels()
}

func (m *Machine) Resolution() (int, int) {
	return m.ppu.Resolution()
}

// Snapshot is the state of both chips at one instant.
type Snapshot struct {
	CPU mos6502.Snapshot
	PPU ppu.Snapshot
}

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{CPU: m.cpu.Snapshot(), PPU: m.ppu.Snapshot()}
}
