// Package vm implements the CHIP-8 interpreter core.
//
// # Machine Overview
//
// A Machine owns every piece of CHIP-8 state:
//   - Memory: 4KB address space, font glyphs at FontStart, program at ProgramStart
//   - Registers: V0-VF, the index register I, the program counter, the call
//     stack with its stack pointer and the delay and sound timers
//   - Keypad: the 16 key flags written by the host
//   - Framebuffer: the 64x32 monochrome display
//
// # Execution
//
// The host drives the machine by calling Step at its own cadence. Each step
// fetches the big-endian instruction word at PC, advances PC by 2, decodes the
// word into an Instruction and executes it, then decrements both timers if
// they are non-zero.
//
// Decoding is a pure function. Decode maps a word onto an Operation, a tagged
// enumeration of every supported instruction, plus its operand fields. Words
// that do not match a known instruction decode to OpNoop and are ignored.
//
// # Register VF
//
// VF is a general purpose register that is also written by the arithmetic,
// shift and draw instructions as carry, no-borrow, shifted-out bit or
// collision flag.
//
// # Errors
//
// Memory accesses outside the 4KB address space, call stack overflow and
// underflow, key indexes above 0xF and font digits above 0xF trap: Step
// returns a wrapped sentinel error and the machine is left as it was before
// the step, so the host can inspect it, reset it or stop.
//
// # Usage Example
//
//	machine := vm.New(logger)
//	if err := machine.LoadProgram(rom); err != nil {
//		return fmt.Errorf("loading program: %w", err)
//	}
//	for {
//		if err := machine.Step(); err != nil {
//			return err
//		}
//	}
package vm
