package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/retroenv/retrochip8/internal/vm"
)

type operandKind uint8

const (
	kindRegister operandKind = iota + 1
	kindValue                // number or label
	kindIndex                // I
	kindDelay                // DT
	kindSound                // ST
	kindKey                  // K
	kindFont                 // F
	kindBCD                  // B
	kindIndirect             // [I]
)

var specialNames = map[string]operandKind{
	"i":  kindIndex,
	"dt": kindDelay,
	"st": kindSound,
	"k":  kindKey,
	"f":  kindFont,
	"b":  kindBCD,
}

// slot is the position an operand is encoded into.
type slot uint8

const (
	slotX   slot = iota + 1 // Vx
	slotY                   // Vy
	slotV0                  // V0, the only register jp accepts
	slotKK                  // byte value
	slotNNN                 // address value
	slotN                   // nibble value
	slotIndex
	slotDelay
	slotSound
	slotKey
	slotFont
	slotBCD
	slotIndirect
)

func (s slot) kind() operandKind {
	switch s {
	case slotX, slotY, slotV0:
		return kindRegister
	case slotKK, slotNNN, slotN:
		return kindValue
	case slotIndex:
		return kindIndex
	case slotDelay:
		return kindDelay
	case slotSound:
		return kindSound
	case slotKey:
		return kindKey
	case slotFont:
		return kindFont
	case slotBCD:
		return kindBCD
	default:
		return kindIndirect
	}
}

// value is a resolved operand.
type value struct {
	pos   lexer.Position
	kind  operandKind
	value uint16 // register index or numeric value
	text  string
}

// resolveOperand classifies an operand and resolves numbers and labels.
func resolveOperand(op *operand, labels map[string]uint16) (value, error) {
	v := value{pos: op.Pos}

	switch {
	case op.Indirect:
		v.kind = kindIndirect
		v.text = "[I]"
		return v, nil

	case op.Number != nil:
		v.kind = kindValue
		v.text = *op.Number
		n, err := parseNumber(*op.Number)
		if err != nil {
			return v, positionError(op.Pos, ErrValueRange, "%s", *op.Number)
		}
		v.value = n
		return v, nil
	}

	name := *op.Name
	v.text = name
	if index, ok := parseRegister(name); ok {
		v.kind = kindRegister
		v.value = uint16(index)
		return v, nil
	}
	if kind, ok := specialNames[strings.ToLower(name)]; ok {
		v.kind = kind
		return v, nil
	}

	address, ok := labels[name]
	if !ok {
		return v, positionError(op.Pos, ErrUndefinedLabel, "%s", name)
	}
	v.kind = kindValue
	v.value = address
	return v, nil
}

// parseRegister parses V0 to VF, case insensitive.
func parseRegister(name string) (byte, bool) {
	if len(name) != 2 || (name[0] != 'v' && name[0] != 'V') {
		return 0, false
	}
	index, err := strconv.ParseUint(name[1:], 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(index), true
}

// parseNumber parses $hex, 0xhex, %binary and decimal numbers up to 16 bit.
func parseNumber(s string) (uint16, error) {
	base := 10
	switch {
	case strings.HasPrefix(s, "$"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "%"):
		s, base = s[1:], 2
	}

	n, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("parsing number '%s': %w", s, err)
	}
	return uint16(n), nil
}

func positionError(pos lexer.Position, err error, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %w: %s", pos.Filename, pos.Line, err, fmt.Sprintf(format, args...))
}

// valueLimit returns the largest value a slot can encode.
func valueLimit(s slot) uint16 {
	switch s {
	case slotKK:
		return 0xFF
	case slotN:
		return 0xF
	default:
		return vm.MemorySize - 1
	}
}
