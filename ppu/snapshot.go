package ppu

// SNAPSHOT_VERSION changes whenever fields are added to or removed
// from Snapshot.
const SNAPSHOT_VERSION = 1

// Snapshot is a copy of the register file and beam position.
type Snapshot struct {
	Version                     uint8
	Ctrl, Mask, Status, OAMAddr uint8
	V, T                        uint16
	FineX                       uint8
	WriteToggle                 bool
	Scanline, Dot               int
	Frame                       uint64
	NMIPending                  bool
}

func (p *PPU) Snapshot() Snapshot {
	return Snapshot{
		Version:     SNAPSHOT_VERSION,
		Ctrl:        p.ctrl,
		Mask:        p.mask,
		Status:      p.status,
		OAMAddr:     p.oamaddr,
		V:           p.v.get(),
		T:           p.t.get(),
		FineX:       p.x,
		WriteToggle: p.wLatch == 1,
		Scanline:    int(p.scanline),
		Dot:         int(p.scandot),
		Frame:       p.frame,
		NMIPending:  p.nmiPending,
	}
}
