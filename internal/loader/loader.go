// Package loader handles program image loading operations.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
)

// ErrUnsupportedSystem is returned for files of a system other than CHIP-8.
var ErrUnsupportedSystem = errors.New("unsupported system")

// Loader handles loading program images from disk.
type Loader struct{}

// New creates a new program image loader.
func New() *Loader {
	return &Loader{}
}

// Load loads a raw program image file for the given system.
func (l *Loader) Load(path string, system arch.System) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return l.LoadFromBytes(data, system)
}

// LoadFromBytes loads a program image that is already in memory. CHIP-8
// images have no header, the raw buffer is loaded as the only bank and
// the padding of the bank is removed again.
func (l *Loader) LoadFromBytes(data []byte, system arch.System) ([]byte, error) {
	if system != arch.CHIP8System {
		return nil, fmt.Errorf("%w '%s'", ErrUnsupportedSystem, system)
	}
	if len(data) > vm.MaxProgramSize {
		return nil, fmt.Errorf("loading %d bytes: %w", len(data), vm.ErrImageTooLarge)
	}

	cart, err := cartridge.LoadBuffer(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading buffer: %w", err)
	}
	if len(cart.PRG) < len(data) {
		return nil, fmt.Errorf("loaded bank of %d bytes is smaller than the image of %d bytes", len(cart.PRG), len(data))
	}
	return cart.PRG[:len(data):len(data)], nil
}
