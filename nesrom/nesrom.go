// package nesrom implements support for the NES (iNES, NES2) ROM
// format. https://www.nesdev.org/wiki/INES
package nesrom

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	TRAINER_SIZE   = 512
	PRG_BLOCK_SIZE = 16384
	CHR_BLOCK_SIZE = 8192
)

var ErrBadMagic = errors.New("not an iNES image")

// ROM is a parsed cartridge image. Anything after the CHR data
// (PlayChoice-10 hint screens and such) is not read.
type ROM struct {
	h   Header
	prg []byte // 16384 * x bytes; x from header
	chr []byte // 8192 * y bytes; y from header
}

// New parses the ROM file at path.
func New(path string) (*ROM, error) {
	rf, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open ROM file %q: %w", path, err)
	}
	defer rf.Close()

	r, err := Parse(bufio.NewReader(rf))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return r, nil
}

// Parse reads an iNES image: header, PRG ROM and CHR ROM. A trainer
// is skipped; nothing in this console maps it.
func Parse(rd io.Reader) (*ROM, error) {
	hbytes := make([]byte, HEADER_SIZE)
	if _, err := io.ReadFull(rd, hbytes); err != nil {
		return nil, fmt.Errorf("couldn't read header: %w", err)
	}

	h, err := parseHeader(hbytes)
	if err != nil {
		return nil, err
	}

	if h.Trainer {
		if _, err := io.CopyN(io.Discard, rd, TRAINER_SIZE); err != nil {
			return nil, fmt.Errorf("error skipping trainer: %w", err)
		}
	}

	r := &ROM{h: h}
	if r.prg, err = readBlocks(rd, "PRG", int(h.PrgBlocks), PRG_BLOCK_SIZE); err != nil {
		return nil, err
	}
	if r.chr, err = readBlocks(rd, "CHR", int(h.ChrBlocks), CHR_BLOCK_SIZE); err != nil {
		return nil, err
	}

	return r, nil
}

func readBlocks(rd io.Reader, what string, n, size int) ([]byte, error) {
	b := make([]byte, n*size)
	if got, err := io.ReadFull(rd, b); err != nil {
		return nil, fmt.Errorf("error reading %s ROM (read %d, wanted %d): %w", what, got, len(b), err)
	}

	return b, nil
}

func (r *ROM) String() string {
	return fmt.Sprintf("PRG %d bytes, CHR %d bytes, %s", len(r.prg), len(r.chr), r.h)
}

func (r *ROM) Header() Header {
	return r.h
}

// Prg returns the PRG ROM image. The slice is shared with the ROM.
func (r *ROM) Prg() []uint8 {
	return r.prg
}

// Chr returns the CHR ROM image, empty for boards with CHR RAM.
func (r *ROM) Chr() []uint8 {
	return r.chr
}

func (r *ROM) MapperNum() uint8 {
	return r.h.Mapper
}
