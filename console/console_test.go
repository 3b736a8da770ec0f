package console

import (
	"testing"

	"github.com/bdwalton/famicore/mappers"
)

const (
	PRG_16K = 0x4000
	PRG_32K = 0x8000
)

// newTestMachine builds a reset console whose PRG ROM holds code at
// 0x8000 and any vectors given (NMI first, then reset). The reset
// vector defaults to 0x8000.
func newTestMachine(t *testing.T, size int, code []uint8, nmi uint16, extra map[uint16][]uint8) *Machine {
	t.Helper()

	prg := make([]uint8, size)
	copy(prg, code)
	for a, b := range extra {
		copy(prg[int(a-PRG_ROM_BASE)%size:], b)
	}

	// 0xFFFA NMI, 0xFFFC reset
	prg[size-6], prg[size-5] = uint8(nmi), uint8(nmi>>8)
	prg[size-4], prg[size-3] = 0x00, 0x80

	mp, err := mappers.NewNROM(prg, nil)
	if err != nil {
		t.Fatalf("NewNROM() = %v", err)
	}

	m := New(mp)
	m.Reset()
	return m
}
