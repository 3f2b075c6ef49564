package asm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

//nolint:funlen // one entry per instruction form
func TestAssemble_Instructions(t *testing.T) {
	tests := []struct {
		source string
		want   uint16
	}{
		{"cls", 0x00E0},
		{"ret", 0x00EE},
		{"jp $234", 0x1234},
		{"call $345", 0x2345},
		{"se VA, $12", 0x3A12},
		{"sne VA, $12", 0x4A12},
		{"se VA, VB", 0x5AB0},
		{"sne VA, VB", 0x9AB0},
		{"ld VA, $12", 0x6A12},
		{"add VA, $12", 0x7A12},
		{"ld VA, VB", 0x8AB0},
		{"or VA, VB", 0x8AB1},
		{"and VA, VB", 0x8AB2},
		{"xor VA, VB", 0x8AB3},
		{"add VA, VB", 0x8AB4},
		{"sub VA, VB", 0x8AB5},
		{"shr VA", 0x8A06},
		{"shr VA, VB", 0x8AB6},
		{"subn VA, VB", 0x8AB7},
		{"shl VA", 0x8A0E},
		{"shl VA, VB", 0x8ABE},
		{"ld I, $123", 0xA123},
		{"jp V0, $123", 0xB123},
		{"rnd VA, $0F", 0xCA0F},
		{"drw V2, V3, $5", 0xD235},
		{"skp VA", 0xEA9E},
		{"sknp VA", 0xEAA1},
		{"ld VA, DT", 0xFA07},
		{"ld VA, K", 0xFA0A},
		{"ld DT, VA", 0xFA15},
		{"ld ST, VA", 0xFA18},
		{"add I, VA", 0xFA1E},
		{"ld F, VA", 0xFA29},
		{"ld B, VA", 0xFA33},
		{"ld [I], VA", 0xFA55},
		{"ld VA, [I]", 0xFA65},

		// case insensitive mnemonics and register names
		{"LD va, dt", 0xFA07},
		{"Drw v0, v1, 15", 0xD01F},
		{"ld [i], v3", 0xF355},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			a := New(log.NewTestLogger(t))
			image, err := a.Assemble("test.asm", tt.source)
			assert.NoError(t, err)
			assert.True(t, bytes.Equal([]byte{byte(tt.want >> 8), byte(tt.want)}, image))
		})
	}
}

func TestAssemble_Numbers(t *testing.T) {
	tests := []struct {
		source string
		want   byte
	}{
		{"ld V0, $1f", 0x1F},
		{"ld V0, 0x1F", 0x1F},
		{"ld V0, 0X1F", 0x1F},
		{"ld V0, %00011111", 0x1F},
		{"ld V0, 31", 0x1F},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			a := New(log.NewTestLogger(t))
			image, err := a.Assemble("test.asm", tt.source)
			assert.NoError(t, err)
			assert.Len(t, image, 2)
			assert.Equal(t, tt.want, image[1])
		})
	}
}

func TestAssemble_LabelsAndData(t *testing.T) {
	source := `; sprite demo
Start:
    ld I, sprite      ; point at the sprite
    call draw
loop:
    jp loop

draw:
    drw V0, V1, $2
    ret
sprite: .byte $F0, %10010000
    db 7
`
	a := New(log.NewTestLogger(t))
	image, err := a.Assemble("demo.asm", source)
	assert.NoError(t, err)

	want := []byte{
		0xA2, 0x0A, // ld I, sprite ($20A)
		0x22, 0x06, // call draw ($206)
		0x12, 0x04, // jp loop ($204)
		0xD0, 0x12, // drw
		0x00, 0xEE, // ret
		0xF0, 0x90, // sprite
		0x07,
	}
	assert.True(t, bytes.Equal(want, image))
}

func TestAssemble_ForwardReferenceAfterOddData(t *testing.T) {
	source := `
    jp end
    .byte 1
end:
    cls
`
	a := New(log.NewTestLogger(t))
	image, err := a.Assemble("odd.asm", source)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal([]byte{0x12, 0x03, 0x01, 0x00, 0xE0}, image))
}

func TestAssemble_EmptySource(t *testing.T) {
	a := New(log.NewTestLogger(t))

	image, err := a.Assemble("empty.asm", "; nothing here\n\n")
	assert.NoError(t, err)
	assert.Empty(t, image)
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr error
		line    string
	}{
		{"unknown mnemonic", "cls\nfoo V0", ErrUnknownMnemonic, "test.asm:2:"},
		{"wrong operand count", "ld V0", ErrInvalidOperands, "test.asm:1:"},
		{"wrong operand kind", "drw V0, V1, V2", ErrInvalidOperands, "test.asm:1:"},
		{"jump offset register", "jp V1, $200", ErrInvalidOperands, "test.asm:1:"},
		{"byte out of range", "\n\nld V0, $100", ErrValueRange, "test.asm:3:"},
		{"nibble out of range", "drw V0, V1, 16", ErrValueRange, "test.asm:1:"},
		{"address out of range", "jp $1000", ErrValueRange, "test.asm:1:"},
		{"number too large", "jp $10000", ErrValueRange, "test.asm:1:"},
		{"data out of range", ".byte 256", ErrValueRange, "test.asm:1:"},
		{"data register", ".byte V0", ErrInvalidOperands, "test.asm:1:"},
		{"empty data", ".byte", ErrInvalidOperands, "test.asm:1:"},
		{"undefined label", "jp nowhere", ErrUndefinedLabel, "test.asm:1:"},
		{"duplicate label", "a: cls\na: cls", ErrDuplicateLabel, "test.asm:2:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(log.NewTestLogger(t))
			_, err := a.Assemble("test.asm", tt.source)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, strings.HasPrefix(err.Error(), tt.line))
		})
	}
}

func TestAssemble_SyntaxError(t *testing.T) {
	a := New(log.NewTestLogger(t))

	_, err := a.Assemble("test.asm", "ld V0,, V1")
	assert.ErrorContains(t, err, "parsing source")
}

func TestAssemble_ImageTooLarge(t *testing.T) {
	a := New(log.NewTestLogger(t))
	source := strings.Repeat("cls\n", vm.MaxProgramSize/2+1)

	_, err := a.Assemble("large.asm", source)
	assert.True(t, errors.Is(err, vm.ErrImageTooLarge))
}

func TestForms_CoverAllOperations(t *testing.T) {
	seen := map[vm.Operation]bool{}
	for _, f := range operationForms {
		seen[f.op] = true
	}
	// every operation except noop can be assembled
	for op := vm.OpClear; op <= vm.OpLoadRegisters; op++ {
		assert.True(t, seen[op])
	}
}
