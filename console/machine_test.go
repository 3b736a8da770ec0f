package console

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/bdwalton/famicore/mos6502"
	"github.com/bdwalton/famicore/ppu"
)

func TestSEISTAJMP(t *testing.T) {
	cases := []struct {
		code []uint8
		acc  uint8
	}{
		{[]uint8{0x78, 0x8D, 0x00, 0x20, 0x4C, 0x00, 0x80}, 0x00},             // SEI; STA $2000; JMP $8000
		{[]uint8{0x78, 0xA9, 0x90, 0x8D, 0x00, 0x20, 0x4C, 0x00, 0x80}, 0x90}, // with LDA #$90 first
	}

	for i, tc := range cases {
		m := newTestMachine(t, PRG_16K, tc.code, 0, nil)

		if _, err := m.Step(); err != nil {
			t.Fatalf("%d: Step() = %v", i, err)
		}
		if s := m.Snapshot().CPU; s.Status&mos6502.STATUS_FLAG_INTERRUPT_DISABLE == 0 {
			t.Errorf("%d: I not set after SEI: %s", i, s.Flags())
		}

		// run up to and including STA
		for m.Snapshot().CPU.PC != uint16(0x8000+len(tc.code)-3) {
			if _, err := m.Step(); err != nil {
				t.Fatalf("%d: Step() = %v", i, err)
			}
		}

		s := m.Snapshot()
		if s.CPU.A != tc.acc || s.PPU.Ctrl != s.CPU.A {
			t.Errorf("%d: Got A=0x%02x, PPUCTRL=0x%02x, wanted 0x%02x", i, s.CPU.A, s.PPU.Ctrl, tc.acc)
		}

		if _, err := m.Step(); err != nil || m.Snapshot().CPU.PC != 0x8000 {
			t.Errorf("%d: JMP landed at 0x%04x (err %v)", i, m.Snapshot().CPU.PC, err)
		}
	}
}

func TestStepTicksPPU(t *testing.T) {
	m := newTestMachine(t, PRG_16K, []uint8{0x78, 0x8D, 0x00, 0x20}, 0, nil)

	want := 0
	for _, c := range []int{2, 4} {
		n, err := m.Step()
		if err != nil || n != c {
			t.Fatalf("Step() = %d, %v; wanted %d cycles", n, err, c)
		}
		want += c * PPU_TICKS_PER_CPU_CYCLE
		if s := m.ppu.Snapshot(); s.Dot != want {
			t.Errorf("PPU at dot %d, wanted %d", s.Dot, want)
		}
	}
}

// nmiProgram enables NMI and spins; the handler counts NMIs in 0x0010.
func nmiProgram(t *testing.T) *Machine {
	return newTestMachine(t, PRG_16K,
		[]uint8{0xA9, 0x80, 0x8D, 0x00, 0x20, 0x4C, 0x05, 0x80}, // LDA #$80; STA $2000; JMP $8005
		0x8100,
		map[uint16][]uint8{0x8100: {0xEE, 0x10, 0x00, 0x40}}, // INC $0010; RTI
	)
}

func TestNMIDelivery(t *testing.T) {
	m := nmiProgram(t)

	for frame := 1; frame <= 3; frame++ {
		if err := m.StepFrame(); err != nil {
			t.Fatalf("%d: StepFrame() = %v", frame, err)
		}
		if got := m.bus.Read(0x0010); got != uint8(frame) {
			t.Errorf("After frame %d, %d NMIs", frame, got)
		}
	}

	s := m.Snapshot().CPU
	if s.SP != mos6502.RESET_SP {
		t.Errorf("Stack unbalanced after NMIs, SP=0x%02x", s.SP)
	}
}

func TestNoNMIWhenDisabled(t *testing.T) {
	m := newTestMachine(t, PRG_16K, []uint8{0x4C, 0x00, 0x80}, 0x8100, map[uint16][]uint8{0x8100: {0xEE, 0x10, 0x00, 0x40}})

	if err := m.StepFrame(); err != nil {
		t.Fatalf("StepFrame() = %v", err)
	}
	if got := m.bus.Read(0x0010); got != 0 {
		t.Errorf("Got %d NMIs with NMI disabled", got)
	}
}

func TestStepFrame(t *testing.T) {
	m := newTestMachine(t, PRG_16K, []uint8{0x4C, 0x00, 0x80}, 0, nil) // JMP $8000

	if err := m.StepFrame(); err != nil {
		t.Fatalf("StepFrame() = %v", err)
	}

	// JMP costs 3 and 29781 is a multiple of 3, but anything left over
	// carries into the next frame
	if m.frameCycles < 0 || m.frameCycles >= 3 {
		t.Errorf("Carried %d cycles into the next frame", m.frameCycles)
	}
	if got := m.Snapshot().CPU.Cycles; got != CPU_CYCLES_PER_FRAME+uint64(m.frameCycles) {
		t.Errorf("Ran %d cycles", got)
	}

	// palette RAM is all zero, so everything is color 0
	w, h := m.Resolution()
	px := m.Pixels()
	for _, i := range []int{0, w - 1, w * (h - 1), w*h - 1} {
		if px[i] != ppu.SYSTEM_PALETTE[0] {
			t.Errorf("pixel %d = %v, wanted %v", i, px[i], ppu.SYSTEM_PALETTE[0])
		}
	}
}

func TestHalt(t *testing.T) {
	var buf bytes.Buffer
	m := newTestMachine(t, PRG_16K, []uint8{0xEA, 0x02}, 0, nil)
	m.SetLogger(log.New(&buf, "", 0))

	if _, err := m.Step(); err != nil {
		t.Fatalf("NOP: %v", err)
	}
	if _, err := m.Step(); !errors.Is(err, mos6502.ErrUnknownOpcode) || !m.Halted() {
		t.Errorf("Got %v (halted %t), wanted %v", err, m.Halted(), mos6502.ErrUnknownOpcode)
	}
	if _, err := m.Step(); !errors.Is(err, mos6502.ErrHalted) {
		t.Errorf("Got %v, wanted %v", err, mos6502.ErrHalted)
	}
	if err := m.StepFrame(); !errors.Is(err, mos6502.ErrHalted) {
		t.Errorf("StepFrame() = %v, wanted %v", err, mos6502.ErrHalted)
	}

	if n := strings.Count(buf.String(), "cpu halted"); n != 1 {
		t.Errorf("Halt logged %d times: %q", n, buf.String())
	}
	if pc := m.Snapshot().CPU.PC; pc != 0x8001 {
		t.Errorf("PC = 0x%04x, wanted 0x8001", pc)
	}

	m.Reset()
	if m.Halted() {
		t.Errorf("Reset didn't clear the halt")
	}
}

func TestRun(t *testing.T) {
	code := []uint8{0xE8, 0xE8, 0x4C, 0x00, 0x80} // INX; INX; JMP $8000

	cases := []struct {
		breaks map[uint16]struct{}
		wantPC uint16
	}{
		{map[uint16]struct{}{0x8002: {}}, 0x8002},
		{map[uint16]struct{}{0x8000: {}}, 0x8000}, // after going round once
		{map[uint16]struct{}{0x8001: {}, 0x8002: {}}, 0x8001},
	}

	for i, tc := range cases {
		m := newTestMachine(t, PRG_16K, code, 0, nil)
		if err := m.Run(context.Background(), tc.breaks); err != nil || m.Snapshot().CPU.PC != tc.wantPC {
			t.Errorf("%d: Run() = %v, stopped at 0x%04x, wanted 0x%04x", i, err, m.Snapshot().CPU.PC, tc.wantPC)
		}
	}
}

func TestRunStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newTestMachine(t, PRG_16K, []uint8{0x4C, 0x00, 0x80}, 0, nil)
	if err := m.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, wanted %v", err, context.Canceled)
	}

	m = newTestMachine(t, PRG_16K, []uint8{0xEA, 0xEA, 0xFF}, 0, nil)
	if err := m.Run(context.Background(), nil); !errors.Is(err, mos6502.ErrUnknownOpcode) {
		t.Errorf("Run() = %v, wanted %v", err, mos6502.ErrUnknownOpcode)
	}
}

func TestWidePaletteWriteKeepsRunning(t *testing.T) {
	m := newTestMachine(t, PRG_16K, []uint8{
		0xA9, 0x3F, 0x8D, 0x06, 0x20, // LDA #$3F; STA $2006
		0xA9, 0x00, 0x8D, 0x06, 0x20, // LDA #$00; STA $2006
		0xA9, 0xCF, 0x8D, 0x07, 0x20, // LDA #$CF; STA $2007
		0x4C, 0x0F, 0x80,             // JMP *
	}, 0, nil)

	for frame := 1; frame <= 3; frame++ {
		if err := m.StepFrame(); err != nil {
			t.Fatalf("%d: StepFrame() = %v", frame, err)
		}
	}

	if px := m.Pixels()[0]; px != ppu.SYSTEM_PALETTE[0x0F] {
		t.Errorf("Got backdrop %v, wanted %v", px, ppu.SYSTEM_PALETTE[0x0F])
	}
}
