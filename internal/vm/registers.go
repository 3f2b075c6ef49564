package vm

import "fmt"

const (
	// RegisterCount is the number of general purpose V registers.
	RegisterCount = 16

	// FlagRegister is the index of VF, which doubles as carry, borrow and
	// collision flag.
	FlagRegister = 0xF

	// StackSize is the maximum call nesting depth.
	StackSize = 16

	// KeyCount is the number of keys on the hexadecimal keypad.
	KeyCount = 16
)

// Registers contains the CHIP-8 register file.
type Registers struct {
	V  [RegisterCount]byte // general purpose registers V0-VF
	I  uint16              // index register used for memory addressing
	PC uint16              // program counter

	Stack [StackSize]uint16 // return addresses
	SP    uint8             // number of used stack slots

	DelayTimer byte
	SoundTimer byte
}

// push stores a return address on the call stack.
func (r *Registers) push(address uint16) error {
	if int(r.SP) >= StackSize {
		return fmt.Errorf("pushing $%03X: %w", address, ErrStackOverflow)
	}
	r.Stack[r.SP] = address
	r.SP++
	return nil
}

// pop removes and returns the last pushed return address.
func (r *Registers) pop() (uint16, error) {
	if r.SP == 0 {
		return 0, ErrStackUnderflow
	}
	r.SP--
	return r.Stack[r.SP], nil
}

func (r *Registers) setFlag(set bool) {
	if set {
		r.V[FlagRegister] = 1
	} else {
		r.V[FlagRegister] = 0
	}
}

// tickTimers decrements both timers, they stop at 0.
func (r *Registers) tickTimers() {
	if r.DelayTimer > 0 {
		r.DelayTimer--
	}
	if r.SoundTimer > 0 {
		r.SoundTimer--
	}
}

// Keypad is the live state of the 16 key hexadecimal keypad.
type Keypad struct {
	keys [KeyCount]bool
}

// Set updates the state of a key.
func (k *Keypad) Set(index int, pressed bool) error {
	if index < 0 || index >= KeyCount {
		return fmt.Errorf("setting key %d: %w", index, ErrInvalidKey)
	}
	k.keys[index] = pressed
	return nil
}

// Pressed returns whether the key is currently pressed.
func (k *Keypad) Pressed(index byte) (bool, error) {
	if int(index) >= KeyCount {
		return false, fmt.Errorf("testing key %d: %w", index, ErrInvalidKey)
	}
	return k.keys[index], nil
}

// FirstPressed returns the lowest index of all pressed keys.
func (k *Keypad) FirstPressed() (byte, bool) {
	for i, pressed := range k.keys {
		if pressed {
			return byte(i), true
		}
	}
	return 0, false
}
