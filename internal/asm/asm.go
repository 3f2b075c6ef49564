// Package asm implements an assembler for CHIP-8 assembly listings as
// written by the disassembler of this module.
//
// A line consists of an optional label definition, an optional instruction
// or directive and an optional comment:
//
//	loop:  drw V0, V1, $5   ; draw the sprite
//	       jp loop
//	data:  .byte $F0, $90, %11110000
//
// Numbers are written as $hex, 0xhex, %binary or decimal. Mnemonics and the
// register names V0-VF, I, DT, ST, K, F, B and [I] are case insensitive,
// labels are case sensitive.
package asm

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

const opcodeSize = 2

// Assembler converts assembly source into a program image.
type Assembler struct {
	logger *log.Logger
}

// New returns a new assembler.
func New(logger *log.Logger) *Assembler {
	return &Assembler{
		logger: logger,
	}
}

// Assemble assembles the source text. The filename is only used for error
// positions. The returned image is located at the program start address.
func (a *Assembler) Assemble(filename, text string) ([]byte, error) {
	src, err := parser.ParseString(filename, text+"\n")
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}

	labels, err := assignLabels(src)
	if err != nil {
		return nil, err
	}

	image := make([]byte, 0, len(src.Lines)*opcodeSize)
	for _, l := range src.Lines {
		if l.Statement == nil {
			continue
		}

		data, err := encodeStatement(l.Statement, labels)
		if err != nil {
			return nil, err
		}
		image = append(image, data...)
	}

	if len(image) > vm.MaxProgramSize {
		return nil, fmt.Errorf("assembling %d bytes: %w", len(image), vm.ErrImageTooLarge)
	}

	a.logger.Debug("Assembled program",
		log.String("file", filename),
		log.Int("size", len(image)),
		log.Int("labels", len(labels)))
	return image, nil
}

// assignLabels assigns the memory address of every label definition.
func assignLabels(src *source) (map[string]uint16, error) {
	labels := map[string]uint16{}
	address := uint16(vm.ProgramStart)

	for _, l := range src.Lines {
		if l.Label != nil {
			name := *l.Label
			if _, ok := labels[name]; ok {
				return nil, positionError(l.Pos, ErrDuplicateLabel, "%s", name)
			}
			labels[name] = address
		}

		if l.Statement != nil {
			address += statementSize(l.Statement)
		}
	}
	return labels, nil
}

func statementSize(stmt *statement) uint16 {
	if isDataDirective(stmt.Mnemonic) {
		return uint16(len(stmt.Operands))
	}
	return opcodeSize
}

func isDataDirective(mnemonic string) bool {
	switch strings.ToLower(mnemonic) {
	case ".byte", "db":
		return true
	default:
		return false
	}
}

func encodeStatement(stmt *statement, labels map[string]uint16) ([]byte, error) {
	values := make([]value, 0, len(stmt.Operands))
	for _, op := range stmt.Operands {
		v, err := resolveOperand(op, labels)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	if isDataDirective(stmt.Mnemonic) {
		return encodeData(stmt, values)
	}

	in, err := encodeInstruction(stmt, values)
	if err != nil {
		return nil, err
	}
	word := in.Encode()
	return []byte{byte(word >> 8), byte(word)}, nil
}

func encodeData(stmt *statement, values []value) ([]byte, error) {
	if len(values) == 0 {
		return nil, positionError(stmt.Pos, ErrInvalidOperands, "%s without values", stmt.Mnemonic)
	}

	data := make([]byte, 0, len(values))
	for _, v := range values {
		if v.kind != kindValue {
			return nil, positionError(v.pos, ErrInvalidOperands, "%s is not a value", v.text)
		}
		if v.value > 0xFF {
			return nil, positionError(v.pos, ErrValueRange, "%s does not fit into a byte", v.text)
		}
		data = append(data, byte(v.value))
	}
	return data, nil
}

// encodeInstruction finds the form of the mnemonic that matches the operand
// kinds and fills the instruction fields from the operands.
func encodeInstruction(stmt *statement, values []value) (vm.Instruction, error) {
	candidates, ok := forms[strings.ToLower(stmt.Mnemonic)]
	if !ok {
		return vm.Instruction{}, positionError(stmt.Pos, ErrUnknownMnemonic, "%s", stmt.Mnemonic)
	}

	for _, f := range candidates {
		if !f.matches(values) {
			continue
		}

		in := vm.Instruction{Op: f.op}
		for i, s := range f.slots {
			if err := setField(&in, s, values[i]); err != nil {
				return vm.Instruction{}, err
			}
		}
		return in, nil
	}

	return vm.Instruction{}, positionError(stmt.Pos, ErrInvalidOperands, "%s", describe(stmt.Mnemonic, values))
}

func setField(in *vm.Instruction, s slot, v value) error {
	switch s {
	case slotX:
		in.X = byte(v.value)
	case slotY:
		in.Y = byte(v.value)
	case slotV0:
		if v.value != 0 {
			return positionError(v.pos, ErrInvalidOperands, "%s instead of V0", v.text)
		}
	case slotKK, slotNNN, slotN:
		if limit := valueLimit(s); v.value > limit {
			return positionError(v.pos, ErrValueRange, "%s exceeds $%X", v.text, limit)
		}
		switch s {
		case slotKK:
			in.KK = byte(v.value)
		case slotNNN:
			in.NNN = v.value
		default:
			in.N = byte(v.value)
		}
	default:
	}
	return nil
}

func describe(mnemonic string, values []value) string {
	texts := make([]string, len(values))
	for i, v := range values {
		texts[i] = v.text
	}
	return strings.TrimSpace(mnemonic + " " + strings.Join(texts, ", "))
}
