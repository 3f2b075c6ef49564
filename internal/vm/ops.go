package vm

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// execute runs a decoded instruction. PC already points to the next
// instruction. Every handler validates its memory, stack and key accesses
// before it modifies any state, so a returned error leaves the machine as it
// was apart from the program counter that Step restores.
//
//nolint:funlen,cyclop // one case per operation
func (m *Machine) execute(in Instruction) error {
	r := &m.regs

	switch in.Op {
	case OpNoop:
		m.logger.Debug("Ignoring unknown opcode",
			log.Hex("pc", r.PC-2),
			log.Hex("opcode", in.Word))

	case OpClear:
		m.display.Clear()

	case OpReturn:
		address, err := r.pop()
		if err != nil {
			return err
		}
		r.PC = address

	case OpJump:
		r.PC = in.NNN

	case OpCall:
		if err := r.push(r.PC); err != nil {
			return err
		}
		r.PC = in.NNN

	case OpSkipEqualImm:
		m.skipIf(r.V[in.X] == in.KK)

	case OpSkipNotEqualImm:
		m.skipIf(r.V[in.X] != in.KK)

	case OpSkipEqualReg:
		m.skipIf(r.V[in.X] == r.V[in.Y])

	case OpSkipNotEqualReg:
		m.skipIf(r.V[in.X] != r.V[in.Y])

	case OpLoadImm:
		r.V[in.X] = in.KK

	case OpAddImm:
		r.V[in.X] += in.KK // no carry flag

	case OpMove, OpOr, OpAnd, OpXor, OpAdd, OpSub, OpShiftRight, OpSubReverse, OpShiftLeft:
		m.alu(in)

	case OpLoadIndex:
		r.I = in.NNN

	case OpJumpOffset:
		r.PC = in.NNN + uint16(r.V[0])

	case OpRandom:
		r.V[in.X] = byte(m.rng.IntN(256)) & in.KK

	case OpDraw:
		return m.draw(in)

	case OpSkipKeyPressed, OpSkipKeyReleased:
		pressed, err := m.keys.Pressed(r.V[in.X])
		if err != nil {
			return err
		}
		m.skipIf(pressed == (in.Op == OpSkipKeyPressed))

	case OpLoadDelay:
		r.V[in.X] = r.DelayTimer

	case OpWaitKey:
		key, ok := m.keys.FirstPressed()
		if !ok {
			r.PC -= 2 // fetch this instruction again on the next step
			return nil
		}
		r.V[in.X] = key

	case OpSetDelay:
		r.DelayTimer = r.V[in.X]

	case OpSetSound:
		r.SoundTimer = r.V[in.X]

	case OpAddIndex:
		r.I += uint16(r.V[in.X])

	case OpLoadFont:
		digit := r.V[in.X]
		if digit > 0xF {
			return fmt.Errorf("digit $%02X in V%X: %w", digit, in.X, ErrInvalidDigit)
		}
		r.I = FontStart + FontGlyphSize*uint16(digit)

	case OpStoreBCD:
		value := r.V[in.X]
		return m.memory.WriteSlice(r.I, []byte{value / 100, value / 10 % 10, value % 10})

	case OpStoreRegisters:
		return m.memory.WriteSlice(r.I, r.V[:in.X+1])

	case OpLoadRegisters:
		data, err := m.memory.Slice(r.I, int(in.X)+1)
		if err != nil {
			return err
		}
		copy(r.V[:], data)

	default:
		return fmt.Errorf("unsupported operation %d", in.Op)
	}

	return nil
}

// skipIf skips the next instruction if the condition holds.
func (m *Machine) skipIf(condition bool) {
	if condition {
		m.regs.PC += 2
	}
}

// alu executes the 8xyN register to register operations. Operations that set
// VF write the flag before the result, so a result in VF replaces the flag.
func (m *Machine) alu(in Instruction) {
	r := &m.regs
	vx, vy := r.V[in.X], r.V[in.Y]

	switch in.Op {
	case OpMove:
		r.V[in.X] = vy

	case OpOr:
		r.V[in.X] = vx | vy

	case OpAnd:
		r.V[in.X] = vx & vy

	case OpXor:
		r.V[in.X] = vx ^ vy

	case OpAdd:
		sum := uint16(vx) + uint16(vy)
		r.setFlag(sum > 0xFF)
		r.V[in.X] = byte(sum)

	case OpSub:
		r.setFlag(vx > vy) // set when no borrow occurs
		r.V[in.X] = vx - vy

	case OpSubReverse:
		r.setFlag(vy > vx)
		r.V[in.X] = vy - vx

	case OpShiftRight:
		r.V[FlagRegister] = vx & 0x01
		r.V[in.X] = vx >> 1

	case OpShiftLeft:
		r.V[FlagRegister] = vx >> 7
		r.V[in.X] = vx << 1
	}
}

// draw XORs an n rows high sprite read from I onto the display at (Vx, Vy)
// and sets VF if any pixel was turned off.
func (m *Machine) draw(in Instruction) error {
	r := &m.regs

	sprite, err := m.memory.Slice(r.I, int(in.N))
	if err != nil {
		return err
	}

	collision := m.display.drawSprite(r.V[in.X], r.V[in.Y], sprite)
	r.setFlag(collision)
	return nil
}
