package vm

import (
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode_Fields(t *testing.T) {
	in := Decode(0xD12F)

	assert.Equal(t, OpDraw, in.Op)
	assert.Equal(t, uint16(0xD12F), in.Word)
	assert.Equal(t, byte(0x1), in.X)
	assert.Equal(t, byte(0x2), in.Y)
	assert.Equal(t, byte(0xF), in.N)
	assert.Equal(t, byte(0x2F), in.KK)
	assert.Equal(t, uint16(0x12F), in.NNN)
}

//nolint:funlen // one entry per operation
func TestDecode_Operations(t *testing.T) {
	tests := []struct {
		word uint16
		want Operation
	}{
		{0x00E0, OpClear},
		{0x00EE, OpReturn},
		{0x1234, OpJump},
		{0x2345, OpCall},
		{0x3A12, OpSkipEqualImm},
		{0x4A12, OpSkipNotEqualImm},
		{0x5AB0, OpSkipEqualReg},
		{0x6A12, OpLoadImm},
		{0x7A12, OpAddImm},
		{0x8AB0, OpMove},
		{0x8AB1, OpOr},
		{0x8AB2, OpAnd},
		{0x8AB3, OpXor},
		{0x8AB4, OpAdd},
		{0x8AB5, OpSub},
		{0x8AB6, OpShiftRight},
		{0x8AB7, OpSubReverse},
		{0x8ABE, OpShiftLeft},
		{0x9AB0, OpSkipNotEqualReg},
		{0xA123, OpLoadIndex},
		{0xB123, OpJumpOffset},
		{0xCA0F, OpRandom},
		{0xDAB5, OpDraw},
		{0xEA9E, OpSkipKeyPressed},
		{0xEAA1, OpSkipKeyReleased},
		{0xFA07, OpLoadDelay},
		{0xFA0A, OpWaitKey},
		{0xFA15, OpSetDelay},
		{0xFA18, OpSetSound},
		{0xFA1E, OpAddIndex},
		{0xFA29, OpLoadFont},
		{0xFA33, OpStoreBCD},
		{0xFA55, OpStoreRegisters},
		{0xFA65, OpLoadRegisters},

		// grouped families select on the low nibble only
		{0x0000, OpClear},
		{0x01FE, OpReturn},
		{0xEA0E, OpSkipKeyPressed},
		{0xEA91, OpSkipKeyReleased},
		// 5xyN and 9xyN ignore the nibble
		{0x5AB7, OpSkipEqualReg},
		{0x9AB3, OpSkipNotEqualReg},

		// unknown selectors
		{0x0123, OpNoop},
		{0x8AB8, OpNoop},
		{0x8ABF, OpNoop},
		{0xEA9F, OpNoop},
		{0xFA00, OpNoop},
		{0xFA66, OpNoop},
		{0xFAFF, OpNoop},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.word).Op)
		})
	}
}

func TestInstruction_EncodeRoundTrip(t *testing.T) {
	words := []uint16{
		0x00E0, 0x00EE, 0x1ABC, 0x2ABC, 0x3A12, 0x4A12, 0x5AB0, 0x6A12, 0x7A12,
		0x8AB0, 0x8AB1, 0x8AB2, 0x8AB3, 0x8AB4, 0x8AB5, 0x8AB6, 0x8AB7, 0x8ABE,
		0x9AB0, 0xA123, 0xB123, 0xCA0F, 0xDAB5, 0xEA9E, 0xEAA1, 0xFA07, 0xFA0A,
		0xFA15, 0xFA18, 0xFA1E, 0xFA29, 0xFA33, 0xFA55, 0xFA65,
	}

	for _, word := range words {
		in := Decode(word)
		assert.Equal(t, word, in.Encode())
	}
}

func TestInstruction_EncodeNonCanonical(t *testing.T) {
	tests := []struct {
		word uint16
		want uint16
	}{
		{0x0000, 0x00E0},
		{0x5AB7, 0x5AB0},
		{0xEA0E, 0xEA9E},
		{0x0123, 0x0123}, // noop keeps its word
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Decode(tt.word).Encode())
	}
}

func TestOperation_Instruction(t *testing.T) {
	tests := []struct {
		op   Operation
		want *chip8.Instruction
	}{
		{OpNoop, nil},
		{OpClear, chip8.ClsInst},
		{OpReturn, chip8.RetInst},
		{OpJump, chip8.JpInst},
		{OpJumpOffset, chip8.JpInst},
		{OpCall, chip8.CallInst},
		{OpSkipEqualReg, chip8.SeInst},
		{OpSkipNotEqualImm, chip8.SneInst},
		{OpStoreRegisters, chip8.LdInst},
		{OpAddIndex, chip8.AddInst},
		{OpSubReverse, chip8.SubnInst},
		{OpShiftLeft, chip8.ShlInst},
		{OpDraw, chip8.DrwInst},
		{OpSkipKeyReleased, chip8.SknpInst},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.True(t, tt.want == tt.op.Instruction())
		})
	}
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "noop", OpNoop.String())
	assert.Equal(t, chip8.DrwInst.Name+" (Dxyn)", OpDraw.String())
	assert.Equal(t, "Operation(200)", Operation(200).String())

	for op := OpClear; op < operationCount; op++ {
		assert.NotEmpty(t, op.Mnemonic())
	}
	assert.Equal(t, "", OpNoop.Mnemonic())
}
