// Package mappers implements and registers mappers that are
// referenced numerically by iNES and NES2.0 ROM files.
package mappers

import (
	"errors"
	"fmt"

	"github.com/bdwalton/famicore/nesrom"
)

var (
	ErrUnsupportedMapper = errors.New("unsupported mapper")
	ErrUnsupportedImage  = errors.New("unsupported image")
)

// Mapper is the cartridge as the two buses see it. PRG addresses are
// CPU addresses (0x8000-0xFFFF); CHR addresses are PPU addresses
// (0x0000-0x1FFF).
type Mapper interface {
	ID() uint8
	Name() string
	PrgRead(addr uint16) uint8
	PrgWrite(addr uint16, val uint8)
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	ChrSize() int
}

type constructor func(*nesrom.ROM) (Mapper, error)

// A global registry of mapper constructors, keyed by mapper id
var allMappers = map[uint8]constructor{}

// RegisterMapper makes a mapper available to New. Registering the
// same id twice panics.
func RegisterMapper(id uint8, c constructor) {
	if _, ok := allMappers[id]; ok {
		panic(fmt.Sprintf("mapper %d registered twice", id))
	}
	allMappers[id] = c
}

// New builds the mapper the ROM header asks for. Images needing
// four-screen VRAM or non-NTSC timing are refused; the console has
// 2KiB of nametable RAM and runs at NTSC rates only.
func New(r *nesrom.ROM) (Mapper, error) {
	h := r.Header()
	if h.Mirroring == nesrom.MIRROR_FOUR_SCREEN {
		return nil, fmt.Errorf("%w: %s mirroring needs cartridge VRAM", ErrUnsupportedImage, h.Mirroring)
	}
	if h.Region != nesrom.NTSC && h.Region != nesrom.MULTI_REGION {
		return nil, fmt.Errorf("%w: %s timing", ErrUnsupportedImage, h.Region)
	}

	c, ok := allMappers[r.MapperNum()]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, r.MapperNum())
	}

	return c(r)
}

type baseMapper struct {
	id   uint8
	name string
}

func newBaseMapper(id uint8, name string) *baseMapper {
	return &baseMapper{id: id, name: name}
}

func (bm *baseMapper) ID() uint8 {
	return bm.id
}

func (bm *baseMapper) Name() string {
	return bm.name
}

func (bm *baseMapper) String() string {
	return fmt.Sprintf("%s (mapper %d)", bm.name, bm.id)
}
