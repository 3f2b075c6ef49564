package disasm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var testProgram = []byte{
	0x00, 0xE0, // cls
	0x22, 0x08, // call $208
	0x12, 0x04, // jp $204
	0xA2, 0x0C, // ld I, $20C
	0x00, 0xEE, // ret
	0x01, 0x23, // unknown
	0xF0, 0xF0, // unknown
	0x90, // trailing byte
}

func TestDisasm_Process(t *testing.T) {
	dis := New(log.NewTestLogger(t), Options{})

	listing, err := dis.Process(context.Background(), testProgram)
	assert.NoError(t, err)
	assert.Len(t, listing.Lines, 8)
	assert.Equal(t, len(testProgram), listing.Size)

	tests := []struct {
		address uint16
		label   string
		code    string
		isData  bool
	}{
		{0x200, "Start", "cls", false},
		{0x202, "", "call _func_0208", false},
		{0x204, "_label_0204", "jp _label_0204", false},
		{0x206, "", "ld I, _data_020c", false},
		{0x208, "_func_0208", "ret", false},
		{0x20A, "", ".byte $01, $23", true},
		{0x20C, "_data_020c", ".byte $F0, $F0", true},
		{0x20E, "", ".byte $90", true},
	}

	for i, tt := range tests {
		line := listing.Lines[i]
		assert.Equal(t, tt.address, line.Address)
		assert.Equal(t, tt.label, line.Label)
		assert.Equal(t, tt.code, line.Code)
		assert.Equal(t, tt.isData, line.IsData)
		assert.Equal(t, "", line.Comment)
	}
}

func TestDisasm_NonCanonicalWordsAreData(t *testing.T) {
	dis := New(log.NewTestLogger(t), Options{})

	// 0000 executes as cls and 5AB7 as se VA, VB but neither is canonical
	listing, err := dis.Process(context.Background(), []byte{0x00, 0x00, 0x5A, 0xB7})
	assert.NoError(t, err)
	assert.Equal(t, ".byte $00, $00", listing.Lines[0].Code)
	assert.Equal(t, ".byte $5A, $B7", listing.Lines[1].Code)
}

func TestDisasm_TargetsOutsideProgramStayNumeric(t *testing.T) {
	dis := New(log.NewTestLogger(t), Options{})

	// targets below the program, past its end and in the middle of a word
	listing, err := dis.Process(context.Background(), []byte{0x11, 0x00, 0x23, 0x00, 0xA2, 0x01})
	assert.NoError(t, err)
	assert.Equal(t, "jp $100", listing.Lines[0].Code)
	assert.Equal(t, "call $300", listing.Lines[1].Code)
	assert.Equal(t, "ld I, $201", listing.Lines[2].Code)
}

func TestDisasm_Comments(t *testing.T) {
	dis := New(log.NewTestLogger(t), Options{HexComments: true, OffsetComments: true})

	listing, err := dis.Process(context.Background(), []byte{0x60, 0x05, 0x7F})
	assert.NoError(t, err)
	assert.Equal(t, "$0200  60 05", listing.Lines[0].Comment)
	assert.Equal(t, "$0202  7F", listing.Lines[1].Comment)
}

func TestDisasm_Errors(t *testing.T) {
	dis := New(log.NewTestLogger(t), Options{})

	_, err := dis.Process(context.Background(), make([]byte, vm.MaxProgramSize+1))
	assert.True(t, errors.Is(err, vm.ErrImageTooLarge))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = dis.Process(ctx, []byte{0x00, 0xE0})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDisasm_EmptyImage(t *testing.T) {
	dis := New(log.NewTestLogger(t), Options{})

	listing, err := dis.Process(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, listing.Lines)
}

//nolint:funlen // one entry per operation
func TestFormatInstruction(t *testing.T) {
	tests := []struct {
		word uint16
		want string
	}{
		{0x00E0, "cls"},
		{0x00EE, "ret"},
		{0x1234, "jp $234"},
		{0x2345, "call $345"},
		{0x3A12, "se VA, $12"},
		{0x4A12, "sne VA, $12"},
		{0x5AB0, "se VA, VB"},
		{0x6A12, "ld VA, $12"},
		{0x7A12, "add VA, $12"},
		{0x8AB0, "ld VA, VB"},
		{0x8AB1, "or VA, VB"},
		{0x8AB2, "and VA, VB"},
		{0x8AB3, "xor VA, VB"},
		{0x8AB4, "add VA, VB"},
		{0x8AB5, "sub VA, VB"},
		{0x8AB6, "shr VA, VB"},
		{0x8A06, "shr VA"},
		{0x8AB7, "subn VA, VB"},
		{0x8ABE, "shl VA, VB"},
		{0x8A0E, "shl VA"},
		{0x9AB0, "sne VA, VB"},
		{0xA123, "ld I, $123"},
		{0xB123, "jp V0, $123"},
		{0xCA0F, "rnd VA, $0F"},
		{0xD235, "drw V2, V3, $5"},
		{0xEA9E, "skp VA"},
		{0xEAA1, "sknp VA"},
		{0xFA07, "ld VA, DT"},
		{0xFA0A, "ld VA, K"},
		{0xFA15, "ld DT, VA"},
		{0xFA18, "ld ST, VA"},
		{0xFA1E, "add I, VA"},
		{0xFA29, "ld F, VA"},
		{0xFA33, "ld B, VA"},
		{0xFA55, "ld [I], VA"},
		{0xFA65, "ld VA, [I]"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			opcode, ok := lookupOpcode(tt.word)
			assert.True(t, ok)
			assert.Equal(t, tt.want, formatInstruction(opcode, vm.Decode(tt.word), nil))
		})
	}
}

func TestListing_Write(t *testing.T) {
	dis := New(log.NewTestLogger(t), Options{OffsetComments: true})

	listing, err := dis.Process(context.Background(), testProgram)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, listing.Write(&buf))
	output := buf.String()

	assert.True(t, strings.HasPrefix(output, "; CHIP-8 program disassembly\n"))
	assert.Contains(t, output, "; Program starts at $200, 15 bytes\n")
	assert.Contains(t, output, "Start:\n    cls")
	assert.Contains(t, output, "\n_func_0208:\n    ret")
	assert.Contains(t, output, "    .byte $90")
	assert.Contains(t, output, "; $020E")
}

func TestLookupOpcode(t *testing.T) {
	op, ok := lookupOpcode(0xD123)
	assert.True(t, ok)
	assert.True(t, op.Instruction == vm.OpDraw.Instruction())
	assert.Equal(t, uint16(0xD000), op.Info.Value)

	for _, word := range []uint16{0x0000, 0x0123, 0x5AB7, 0x8AB8, 0xEA0E, 0xFA00} {
		_, ok = lookupOpcode(word)
		assert.False(t, ok)
	}
}

func TestDisasm_OpcodeTableDecidesCode(t *testing.T) {
	dis := New(log.NewTestLogger(t), Options{})
	image := []byte{
		0xD1, 0x23, // drw
		0x01, 0x23, // no table entry
		0x8A, 0xB8, // no table entry
		0xFA, 0x55, // ld [I], VA
	}

	listing, err := dis.Process(context.Background(), image)
	assert.NoError(t, err)
	assert.Len(t, listing.Lines, 4)

	assert.False(t, listing.Lines[0].IsData)
	assert.Equal(t, "drw", listing.Lines[0].Opcode.Instruction.Name)
	assert.Equal(t, "drw V1, V2, $3", listing.Lines[0].Code)
	assert.True(t, listing.Lines[1].IsData)
	assert.Equal(t, ".byte $01, $23", listing.Lines[1].Code)
	assert.True(t, listing.Lines[2].IsData)
	assert.Equal(t, "ld", listing.Lines[3].Opcode.Instruction.Name)
	assert.Equal(t, "ld [I], VA", listing.Lines[3].Code)
}
