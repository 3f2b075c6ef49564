package asm

import "errors"

var (
	// ErrUnknownMnemonic is returned for a mnemonic or directive that does not exist.
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	// ErrInvalidOperands is returned when no form of the mnemonic matches the operands.
	ErrInvalidOperands = errors.New("invalid operands")
	// ErrValueRange is returned for a number that does not fit its operand field.
	ErrValueRange = errors.New("value out of range")
	// ErrUndefinedLabel is returned for a reference to a label that is never defined.
	ErrUndefinedLabel = errors.New("undefined label")
	// ErrDuplicateLabel is returned when a label is defined twice.
	ErrDuplicateLabel = errors.New("duplicate label")
)
