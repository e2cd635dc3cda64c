package c8vm

import (
	"fmt"
	"strings"
)

const (
	MemorySize     = 4096
	startOfProgram = 0x200
	startOfFont    = 0x050
	glyphSize      = 5

	// MaxProgramSize is the room left between the start of the program and the end of memory
	MaxProgramSize = MemorySize - startOfProgram
)

// Memory of the console, 4096 bytes addressed from 0x000 to 0xFFF
type Memory [MemorySize]byte

// NewMemory creates an empty memory of 4096 bytes
func NewMemory() *Memory {
	return &Memory{}
}

func (mem Memory) Clone() *Memory {
	m := NewMemory()

	copy(m[:], mem[:])

	return m
}

func (mem Memory) String() string {
	sb := strings.Builder{}

	sb.WriteString("[ ")
	for _, b := range mem[:startOfProgram] {
		sb.WriteString(fmt.Sprintf("%X ", b))
	}
	sb.WriteString("]\n")
	sb.WriteString("[ ")
	for _, b := range mem[startOfProgram:] {
		sb.WriteString(fmt.Sprintf("%X ", b))
	}
	sb.WriteString("]")

	return sb.String()
}

func (mem Memory) IsEqual(other Memory) bool {
	return mem == other
}

// LoadProgram zeroes the memory, loads the font glyphs and copies the program at 0x200
func (mem *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrRomTooLarge, len(program), MaxProgramSize)
	}

	*mem = Memory{}
	copy(mem[startOfFont:], fontGlyphs[:])
	copy(mem[startOfProgram:], program)

	return nil
}

// Read returns the byte at addr
func (mem *Memory) Read(addr uint16) (byte, error) {
	if int(addr) >= MemorySize {
		return 0, MemoryFault{Addr: int(addr)}
	}

	return mem[addr], nil
}

// Write stores b at addr
func (mem *Memory) Write(addr uint16, b byte) error {
	if int(addr) >= MemorySize {
		return MemoryFault{Addr: int(addr)}
	}

	mem[addr] = b

	return nil
}

// ReadWord reads the big-endian instruction word at addr
func (mem *Memory) ReadWord(addr uint16) (uint16, error) {
	hi, err := mem.Read(addr)
	if err != nil {
		return 0, err
	}
	lo, err := mem.Read(addr + 1)
	if err != nil {
		return 0, err
	}

	return uint16(hi)<<8 | uint16(lo), nil
}

// ReadRange returns the n bytes starting at addr.
// The returned slice aliases the memory.
func (mem *Memory) ReadRange(addr uint16, n int) ([]byte, error) {
	end := int(addr) + n
	if end > MemorySize {
		return nil, MemoryFault{Addr: end - 1}
	}

	return mem[addr:end], nil
}

// WriteRange copies data into memory starting at addr.
// Nothing is written when data does not fit.
func (mem *Memory) WriteRange(addr uint16, data []byte) error {
	end := int(addr) + len(data)
	if end > MemorySize {
		return MemoryFault{Addr: end - 1}
	}

	copy(mem[addr:end], data)

	return nil
}

// GlyphAddress is the location of the sprite for the hexadecimal digit d
func GlyphAddress(d byte) uint16 {
	return startOfFont + uint16(d)*glyphSize
}

var fontGlyphs = [16 * glyphSize]byte{
	// 0
	0xF0, 0x90, 0x90, 0x90, 0xF0,
	// 1
	0x20, 0x60, 0x20, 0x20, 0x70,
	// 2
	0xF0, 0x10, 0xF0, 0x80, 0xF0,
	// 3
	0xF0, 0x10, 0xF0, 0x10, 0xF0,
	// 4
	0x90, 0x90, 0xF0, 0x10, 0x10,
	// 5
	0xF0, 0x80, 0xF0, 0x10, 0xF0,
	// 6
	0xF0, 0x80, 0xF0, 0x90, 0xF0,
	// 7
	0xF0, 0x10, 0x20, 0x40, 0x40,
	// 8
	0xF0, 0x90, 0xF0, 0x90, 0xF0,
	// 9
	0xF0, 0x90, 0xF0, 0x10, 0xF0,
	// A
	0xF0, 0x90, 0xF0, 0x90, 0x90,
	// B
	0xE0, 0x90, 0xE0, 0x90, 0xE0,
	// C
	0xF0, 0x80, 0x80, 0x80, 0xF0,
	// D
	0xE0, 0x90, 0x90, 0x90, 0xE0,
	// E
	0xF0, 0x80, 0xF0, 0x80, 0xF0,
	// F
	0xF0, 0x80, 0xF0, 0x80, 0x80,
}
