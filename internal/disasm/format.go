package disasm

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// formatInstruction formats an instruction with its parameters, using the
// mnemonic of its opcode table entry. Address operands are replaced by their
// label if one exists.
func formatInstruction(opcode chip8.Opcode, in vm.Instruction, labels map[uint16]string) string {
	name := opcode.Instruction.Name
	if params := formatParams(in, labels); params != "" {
		return name + " " + params
	}
	return name
}

func formatParams(in vm.Instruction, labels map[uint16]string) string {
	switch in.Op {
	case vm.OpClear, vm.OpReturn:
		return ""
	case vm.OpJump, vm.OpCall:
		return formatAddress(in.NNN, labels)
	case vm.OpJumpOffset:
		return "V0, " + formatAddress(in.NNN, labels)
	case vm.OpLoadIndex:
		return "I, " + formatAddress(in.NNN, labels)
	case vm.OpSkipEqualImm, vm.OpSkipNotEqualImm, vm.OpLoadImm, vm.OpAddImm, vm.OpRandom:
		return fmt.Sprintf("V%X, $%02X", in.X, in.KK)
	case vm.OpSkipEqualReg, vm.OpSkipNotEqualReg, vm.OpMove, vm.OpOr, vm.OpAnd,
		vm.OpXor, vm.OpAdd, vm.OpSub, vm.OpSubReverse:
		return fmt.Sprintf("V%X, V%X", in.X, in.Y)
	case vm.OpShiftRight, vm.OpShiftLeft:
		// the unused source register is kept to reproduce the word
		if in.Y != 0 {
			return fmt.Sprintf("V%X, V%X", in.X, in.Y)
		}
		return fmt.Sprintf("V%X", in.X)
	case vm.OpSkipKeyPressed, vm.OpSkipKeyReleased:
		return fmt.Sprintf("V%X", in.X)
	case vm.OpDraw:
		return fmt.Sprintf("V%X, V%X, $%X", in.X, in.Y, in.N)
	default:
		return formatMiscParams(in)
	}
}

// formatMiscParams formats the Fx group, which all take Vx plus a special
// operand on one side.
func formatMiscParams(in vm.Instruction) string {
	reg := fmt.Sprintf("V%X", in.X)
	switch in.Op {
	case vm.OpLoadDelay:
		return reg + ", DT"
	case vm.OpWaitKey:
		return reg + ", K"
	case vm.OpSetDelay:
		return "DT, " + reg
	case vm.OpSetSound:
		return "ST, " + reg
	case vm.OpAddIndex:
		return "I, " + reg
	case vm.OpLoadFont:
		return "F, " + reg
	case vm.OpStoreBCD:
		return "B, " + reg
	case vm.OpStoreRegisters:
		return "[I], " + reg
	case vm.OpLoadRegisters:
		return reg + ", [I]"
	default:
		return ""
	}
}

func formatAddress(address uint16, labels map[uint16]string) string {
	if label, ok := labels[address]; ok {
		return label
	}
	return fmt.Sprintf("$%03X", address)
}

func formatData(data []byte) string {
	var buf strings.Builder
	buf.WriteString(".byte ")
	for i, b := range data {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "$%02X", b)
	}
	return buf.String()
}

func (dis *Disasm) setComment(line *Line) {
	var comments []string
	if dis.options.OffsetComments {
		comments = append(comments, fmt.Sprintf("$%04X", line.Address))
	}
	if dis.options.HexComments {
		comments = append(comments, hexCodeComment(line.Data))
	}
	line.Comment = strings.Join(comments, "  ")
}

func hexCodeComment(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}
