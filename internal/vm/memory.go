package vm

import "fmt"

// CHIP-8 memory layout constants.
//
//	0x000-0x04F: unused interpreter area
//	0x050-0x09F: built-in font, 16 glyphs of 5 bytes each
//	0x0A0-0x1FF: unused interpreter area
//	0x200-0xFFF: program image and scratch memory
const (
	// MemorySize is the size of the CHIP-8 address space in bytes.
	MemorySize = 4096

	// FontStart is the address of the first font glyph.
	FontStart = 0x50

	// FontGlyphSize is the number of bytes, and pixel rows, of one font glyph.
	FontGlyphSize = 5

	// ProgramStart is the address that programs are loaded to and start
	// executing from.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart
)

// font contains the hexadecimal digit glyphs 0-F, each row is a 4 pixel
// wide bitmap stored in the upper nibble.
var font = [16 * FontGlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the bounds checked CHIP-8 address space.
type Memory struct {
	data [MemorySize]byte
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if int(address) >= MemorySize {
		return 0, fmt.Errorf("reading address $%04X: %w", address, ErrOutOfBounds)
	}
	return m.data[address], nil
}

// Write sets the byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if int(address) >= MemorySize {
		return fmt.Errorf("writing address $%04X: %w", address, ErrOutOfBounds)
	}
	m.data[address] = value
	return nil
}

// Slice returns a copy of length bytes starting at the given address.
// The whole range is validated before anything is read.
func (m *Memory) Slice(address uint16, length int) ([]byte, error) {
	if err := checkRange(address, length); err != nil {
		return nil, err
	}
	data := make([]byte, length)
	copy(data, m.data[address:])
	return data, nil
}

// WriteSlice copies data into memory starting at the given address.
// Nothing is written if any byte of the range is outside of memory.
func (m *Memory) WriteSlice(address uint16, data []byte) error {
	if err := checkRange(address, len(data)); err != nil {
		return err
	}
	copy(m.data[address:], data)
	return nil
}

// Load copies the program image into memory at ProgramStart.
func (m *Memory) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes (max: %d)", ErrImageTooLarge, len(program), MaxProgramSize)
	}
	copy(m.data[ProgramStart:], program)
	return nil
}

// Snapshot returns a copy of the whole address space.
func (m *Memory) Snapshot() [MemorySize]byte {
	return m.data
}

func (m *Memory) burnFont() {
	copy(m.data[FontStart:], font[:])
}

func (m *Memory) clear() {
	m.data = [MemorySize]byte{}
}

func checkRange(address uint16, length int) error {
	if length < 0 || int(address)+length > MemorySize {
		return fmt.Errorf("accessing $%04X-$%04X: %w", address, int(address)+length-1, ErrOutOfBounds)
	}
	return nil
}
