package mos6502

import (
	"strings"
)

// SNAPSHOT_VERSION changes whenever fields are added to or removed
// from Snapshot.
const SNAPSHOT_VERSION = 1

// Snapshot is a copy of the externally interesting processor state.
type Snapshot struct {
	Version             uint8
	PC                  uint16
	A, X, Y, SP, Status uint8
	Cycles              uint64
	Halted              bool
}

func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		Version: SNAPSHOT_VERSION,
		PC:      c.pc,
		A:       c.acc,
		X:       c.x,
		Y:       c.y,
		SP:      c.sp,
		Status:  c.status,
		Cycles:  c.cycles,
		Halted:  c.halted,
	}
}

// StackAddr is the address the next push will write to.
func (s Snapshot) StackAddr() uint16 {
	return STACK_PAGE + uint16(s.SP)
}

// Flags renders the status register as NV-BDIZC, with clear flags
// shown as '.'.
func (s Snapshot) Flags() string {
	const names = "NV-BDIZC"

	var sb strings.Builder
	for i := 0; i < 8; i++ {
		if s.Status&(0x80>>i) != 0 {
			sb.WriteByte(names[i])
		} else {
			sb.WriteByte('.')
		}
	}

	return sb.String()
}
