package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/bdwalton/famicore/mos6502"
	"github.com/bdwalton/famicore/ppu"
)

const menu = `(B)reak - add breakpoint
(C)lear - clear breakpoints
(R)un - run until a breakpoint, halt or ^C
(S)tep - step the cpu one instruction
(F)rame - run one frame and render it
R(e)set - hit the reset button
(M)emory - select a memory range to display
S(t)ack - show last 3 items on the stack
(I)nstruction - show the instruction at PC
(P)C - set program counter
(V)ideo - show the ppu registers
(O)AM - show visible sprites
(Q)uit - shutdown the famicore
`

type monitor struct {
	m      *Machine
	in     *bufio.Scanner
	out    io.Writer
	breaks map[uint16]struct{}
}

// Monitor runs the interactive debug monitor, reading commands from in
// and writing to out, until quit, end of input or ctx is done.
func (m *Machine) Monitor(ctx context.Context, in io.Reader, out io.Writer) error {
	mon := &monitor{
		m:      m,
		in:     bufio.NewScanner(in),
		out:    out,
		breaks: make(map[uint16]struct{}),
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(out, "%s\n\n%s", m.cpu, menu)
		choice, ok := mon.readLine("Choice: ")
		if !ok {
			return mon.in.Err()
		}
		if choice == "" {
			continue
		}

		switch choice[0] {
		case 'b', 'B':
			if a, ok := mon.readAddress("Breakpoint (eg: ff15): "); ok {
				mon.breaks[a] = struct{}{}
			}
		case 'c', 'C':
			mon.breaks = make(map[uint16]struct{})
		case 'p', 'P':
			if a, ok := mon.readAddress("Set PC to what address (eg: 0400)?: "); ok {
				m.cpu.SetPC(a)
			}
		case 'q', 'Q':
			return nil
		case 'r', 'R':
			mon.run(ctx)
		case 's', 'S':
			if _, err := m.Step(); err != nil {
				fmt.Fprintf(out, "\n%v\n\n", err)
			}
		case 'f', 'F':
			if err := m.StepFrame(); err != nil {
				fmt.Fprintf(out, "\n%v\n\n", err)
			}
		case 'e', 'E':
			m.Reset()
		case 't', 'T':
			mon.stack()
		case 'i', 'I':
			mon.instruction()
		case 'm', 'M':
			mon.memory()
		case 'v', 'V':
			mon.video()
		case 'o', 'O':
			mon.sprites()
		default:
			fmt.Fprintf(out, "\nUnknown choice %q\n\n", choice)
		}
	}
}

func (mon *monitor) readLine(prompt string) (string, bool) {
	fmt.Fprint(mon.out, prompt)
	if !mon.in.Scan() {
		return "", false
	}

	return strings.TrimSpace(mon.in.Text()), true
}

// readAddress prompts until it gets a hex address or input runs out.
func (mon *monitor) readAddress(prompt string) (uint16, bool) {
	for {
		s, ok := mon.readLine(prompt)
		if !ok {
			return 0, false
		}

		a, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 16)
		if err == nil {
			return uint16(a), true
		}
		fmt.Fprintf(mon.out, "Invalid address %q\n", s)
	}
}

func (mon *monitor) run(ctx context.Context) {
	rctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := mon.m.Run(rctx, mon.breaks)
	switch {
	case err == nil:
		fmt.Fprintf(mon.out, "\nBreakpoint at 0x%04x\n\n", mon.m.cpu.Snapshot().PC)
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(mon.out, "\nInterrupted\n\n")
	default:
		fmt.Fprintf(mon.out, "\n%v\n\n", err)
	}
}

func (mon *monitor) stack() {
	fmt.Fprintln(mon.out)
	s := mon.m.cpu.Snapshot()
	for i := 1; i <= 3; i++ {
		a := s.StackAddr() + uint16(i)
		if a > 0x01FF {
			break
		}
		fmt.Fprintf(mon.out, "0x%04x: 0x%02x ", a, mon.m.bus.peek(a))
	}
	fmt.Fprintf(mon.out, "\n\n")
}

func (mon *monitor) instruction() {
	fmt.Fprintln(mon.out)
	pc := mon.m.cpu.Snapshot().PC
	code := mon.m.bus.peek(pc)

	op, ok := mos6502.Decode(code)
	if !ok {
		fmt.Fprintf(mon.out, "0x%04x: 0x%02x unknown opcode\n\n", pc, code)
		return
	}

	for i := 0; i < int(op.Bytes); i++ {
		a := pc + uint16(i)
		fmt.Fprintf(mon.out, "0x%04x: 0x%02x ", a, mon.m.bus.peek(a))
	}
	fmt.Fprintf(mon.out, "%s %s (%d cycles)\n\n", op.Name, op.Mode, op.Cycles)
}

func (mon *monitor) memory() {
	fmt.Fprintln(mon.out)
	low, ok := mon.readAddress("Low address (eg f00d): ")
	if !ok {
		return
	}
	high, ok := mon.readAddress("High address (eg beef): ")
	if !ok {
		return
	}
	fmt.Fprintln(mon.out)

	x := 1
	i := low
	for {
		fmt.Fprintf(mon.out, "0x%04x: 0x%02x ", i, mon.m.bus.peek(i))
		if x%5 == 0 {
			fmt.Fprintln(mon.out)
		}
		if i >= high || i == math.MaxUint16 {
			break
		}
		x += 1
		i += 1
	}
	fmt.Fprintf(mon.out, "\n\n")
}

func (mon *monitor) video() {
	s := mon.m.ppu.Snapshot()
	fmt.Fprintf(mon.out, "\nframe %d, scanline %d, dot %d\n", s.Frame, s.Scanline, s.Dot)
	fmt.Fprintf(mon.out, "ctrl=%08b mask=%08b status=%08b oamaddr=0x%02x\n", s.Ctrl, s.Mask, s.Status, s.OAMAddr)
	fmt.Fprintf(mon.out, "v=0x%04x t=0x%04x fineX=%d w=%t nmi=%t\n\n", s.V, s.T, s.FineX, s.WriteToggle, s.NMIPending)
}

func (mon *monitor) sprites() {
	fmt.Fprintln(mon.out)
	n := 0
	for i := 0; i < ppu.SPRITE_COUNT; i++ {
		s := mon.m.ppu.Sprite(i)
		if s.Y >= 0xEF {
			continue
		}
		n++
		fmt.Fprintf(mon.out, "%2d: x=%3d y=%3d tile=0x%02x attr=%08b\n", i, s.X, s.Y, s.Tile, s.Attributes())
	}
	fmt.Fprintf(mon.out, "%d visible\n\n", n)
}
