package vm

import "errors"

// Errors returned by the machine. Traps raised while executing an instruction
// wrap one of these, use errors.Is to check for them.
var (
	ErrImageTooLarge  = errors.New("program image too large")
	ErrOutOfBounds    = errors.New("memory access out of bounds")
	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("call stack underflow")
	ErrInvalidKey     = errors.New("invalid key index")
	ErrInvalidDigit   = errors.New("invalid font digit")
)
