package vm

import (
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

// Machine is a CHIP-8 virtual machine instance.
type Machine struct {
	logger *log.Logger
	trace  bool
	rng    *rand.Rand

	memory  Memory
	regs    Registers
	keys    Keypad
	display Framebuffer

	program []byte
	last    Instruction
}

// Option configures a Machine.
type Option func(*Machine)

// WithTrace enables logging every executed instruction at debug level.
func WithTrace(trace bool) Option {
	return func(m *Machine) {
		m.trace = trace
	}
}

// WithSeed makes the random number instruction deterministic.
func WithSeed(seed uint64) Option {
	return func(m *Machine) {
		m.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// New returns a powered on machine with the font loaded and an empty program.
func New(logger *log.Logger, options ...Option) *Machine {
	m := &Machine{
		logger: logger,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, option := range options {
		option(m)
	}
	m.Reset()
	return m
}

// LoadProgram resets the machine and loads the program image at ProgramStart.
// The machine is not modified if the image does not fit into memory.
func (m *Machine) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes (max: %d)", ErrImageTooLarge, len(program), MaxProgramSize)
	}

	m.program = append(m.program[:0], program...)
	m.Reset()
	return nil
}

// Reset returns the machine to its power on state and reloads the last loaded
// program. The key states are kept as they reflect the host input.
func (m *Machine) Reset() {
	m.memory.clear()
	m.memory.burnFont()
	_ = m.memory.Load(m.program) // size was validated by LoadProgram

	m.regs = Registers{PC: ProgramStart}
	m.display.Clear()
	m.last = Instruction{}
}

// Step executes a single instruction and updates the timers.
// If the instruction traps, the returned error wraps the cause and the machine
// state is left unchanged, including the program counter and the timers.
func (m *Machine) Step() error {
	pc := m.regs.PC

	high, err := m.memory.Read(pc)
	if err != nil {
		return fmt.Errorf("fetching instruction at $%04X: %w", pc, err)
	}
	low, err := m.memory.Read(pc + 1)
	if err != nil {
		return fmt.Errorf("fetching instruction at $%04X: %w", pc, err)
	}

	in := Decode(uint16(high)<<8 | uint16(low))
	if m.trace {
		m.logger.Debug("Executing instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", in.Word),
			log.Stringer("operation", in.Op))
	}

	m.regs.PC += 2
	if err := m.execute(in); err != nil {
		m.regs.PC = pc
		return fmt.Errorf("executing %s at $%04X: %w", in.Op, pc, err)
	}
	m.last = in

	m.regs.tickTimers()
	return nil
}

// SetKeyState updates the pressed state of a keypad key in the range 0-F.
func (m *Machine) SetKeyState(index int, pressed bool) error {
	return m.keys.Set(index, pressed)
}

// Timers returns the current delay and sound timer values.
func (m *Machine) Timers() (delay, sound byte) {
	return m.regs.DelayTimer, m.regs.SoundTimer
}

// Framebuffer returns the display, it must only be read by the caller.
func (m *Machine) Framebuffer() *Framebuffer {
	return &m.display
}

// Registers returns the register file.
func (m *Machine) Registers() *Registers {
	return &m.regs
}

// Memory returns the address space.
func (m *Machine) Memory() *Memory {
	return &m.memory
}

// LastInstruction returns the instruction executed by the last successful
// step, it allows hosts to detect ignored unknown opcodes.
func (m *Machine) LastInstruction() Instruction {
	return m.last
}
