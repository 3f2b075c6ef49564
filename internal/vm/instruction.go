package vm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Operation identifies the instruction that a word decodes to.
type Operation uint8

// All supported operations, the comments show the instruction encoding.
const (
	OpNoop              Operation = iota // any word that is not a known instruction
	OpClear                              // 00E0
	OpReturn                             // 00EE
	OpJump                               // 1nnn
	OpCall                               // 2nnn
	OpSkipEqualImm                       // 3xkk
	OpSkipNotEqualImm                    // 4xkk
	OpSkipEqualReg                       // 5xy0
	OpLoadImm                            // 6xkk
	OpAddImm                             // 7xkk
	OpMove                               // 8xy0
	OpOr                                 // 8xy1
	OpAnd                                // 8xy2
	OpXor                                // 8xy3
	OpAdd                                // 8xy4
	OpSub                                // 8xy5
	OpShiftRight                         // 8xy6
	OpSubReverse                         // 8xy7
	OpShiftLeft                          // 8xyE
	OpSkipNotEqualReg                    // 9xy0
	OpLoadIndex                          // Annn
	OpJumpOffset                         // Bnnn
	OpRandom                             // Cxkk
	OpDraw                               // Dxyn
	OpSkipKeyPressed                     // Ex9E
	OpSkipKeyReleased                    // ExA1
	OpLoadDelay                          // Fx07
	OpWaitKey                            // Fx0A
	OpSetDelay                           // Fx15
	OpSetSound                           // Fx18
	OpAddIndex                           // Fx1E
	OpLoadFont                           // Fx29
	OpStoreBCD                           // Fx33
	OpStoreRegisters                     // Fx55
	OpLoadRegisters                      // Fx65

	operationCount
)

// Instruction is a decoded instruction word.
type Instruction struct {
	Op   Operation
	Word uint16

	X   byte   // register index in bits 8-11
	Y   byte   // register index in bits 4-7
	N   byte   // nibble in bits 0-3
	KK  byte   // immediate byte in bits 0-7
	NNN uint16 // address in bits 0-11
}

// Decode splits an instruction word into its operand fields and determines
// the operation. Groups that share a primary nibble are disambiguated by the
// low nibble, or the low byte for the 0xF group.
func Decode(word uint16) Instruction {
	in := Instruction{
		Word: word,
		X:    byte(word>>8) & 0x0F,
		Y:    byte(word>>4) & 0x0F,
		N:    byte(word) & 0x0F,
		KK:   byte(word),
		NNN:  word & 0x0FFF,
	}

	switch word >> 12 {
	case 0x0:
		in.Op = decodeSystem(in.N)
	case 0x1:
		in.Op = OpJump
	case 0x2:
		in.Op = OpCall
	case 0x3:
		in.Op = OpSkipEqualImm
	case 0x4:
		in.Op = OpSkipNotEqualImm
	case 0x5:
		in.Op = OpSkipEqualReg
	case 0x6:
		in.Op = OpLoadImm
	case 0x7:
		in.Op = OpAddImm
	case 0x8:
		in.Op = decodeALU(in.N)
	case 0x9:
		in.Op = OpSkipNotEqualReg
	case 0xA:
		in.Op = OpLoadIndex
	case 0xB:
		in.Op = OpJumpOffset
	case 0xC:
		in.Op = OpRandom
	case 0xD:
		in.Op = OpDraw
	case 0xE:
		in.Op = decodeKey(in.N)
	case 0xF:
		in.Op = decodeMisc(in.KK)
	}
	return in
}

func decodeSystem(selector byte) Operation {
	switch selector {
	case 0x0:
		return OpClear
	case 0xE:
		return OpReturn
	default:
		return OpNoop
	}
}

func decodeALU(selector byte) Operation {
	switch selector {
	case 0x0:
		return OpMove
	case 0x1:
		return OpOr
	case 0x2:
		return OpAnd
	case 0x3:
		return OpXor
	case 0x4:
		return OpAdd
	case 0x5:
		return OpSub
	case 0x6:
		return OpShiftRight
	case 0x7:
		return OpSubReverse
	case 0xE:
		return OpShiftLeft
	default:
		return OpNoop
	}
}

func decodeKey(selector byte) Operation {
	switch selector {
	case 0xE:
		return OpSkipKeyPressed
	case 0x1:
		return OpSkipKeyReleased
	default:
		return OpNoop
	}
}

func decodeMisc(selector byte) Operation {
	switch selector {
	case 0x07:
		return OpLoadDelay
	case 0x0A:
		return OpWaitKey
	case 0x15:
		return OpSetDelay
	case 0x18:
		return OpSetSound
	case 0x1E:
		return OpAddIndex
	case 0x29:
		return OpLoadFont
	case 0x33:
		return OpStoreBCD
	case 0x55:
		return OpStoreRegisters
	case 0x65:
		return OpLoadRegisters
	default:
		return OpNoop
	}
}

// Encode returns the canonical instruction word for the operation and its
// operand fields. Fields that the operation does not use are encoded as 0,
// an OpNoop instruction returns its original word.
func (in Instruction) Encode() uint16 {
	x := uint16(in.X&0x0F) << 8
	y := uint16(in.Y&0x0F) << 4
	kk := uint16(in.KK)
	nnn := in.NNN & 0x0FFF

	switch in.Op {
	case OpClear:
		return 0x00E0
	case OpReturn:
		return 0x00EE
	case OpJump:
		return 0x1000 | nnn
	case OpCall:
		return 0x2000 | nnn
	case OpSkipEqualImm:
		return 0x3000 | x | kk
	case OpSkipNotEqualImm:
		return 0x4000 | x | kk
	case OpSkipEqualReg:
		return 0x5000 | x | y
	case OpLoadImm:
		return 0x6000 | x | kk
	case OpAddImm:
		return 0x7000 | x | kk
	case OpMove, OpOr, OpAnd, OpXor, OpAdd, OpSub, OpShiftRight, OpSubReverse, OpShiftLeft:
		return 0x8000 | x | y | aluSelectors[in.Op]
	case OpSkipNotEqualReg:
		return 0x9000 | x | y
	case OpLoadIndex:
		return 0xA000 | nnn
	case OpJumpOffset:
		return 0xB000 | nnn
	case OpRandom:
		return 0xC000 | x | kk
	case OpDraw:
		return 0xD000 | x | y | uint16(in.N&0x0F)
	case OpSkipKeyPressed:
		return 0xE09E | x
	case OpSkipKeyReleased:
		return 0xE0A1 | x
	case OpLoadDelay, OpWaitKey, OpSetDelay, OpSetSound, OpAddIndex,
		OpLoadFont, OpStoreBCD, OpStoreRegisters, OpLoadRegisters:
		return 0xF000 | x | miscSelectors[in.Op]
	default:
		return in.Word
	}
}

var aluSelectors = map[Operation]uint16{
	OpMove:       0x0,
	OpOr:         0x1,
	OpAnd:        0x2,
	OpXor:        0x3,
	OpAdd:        0x4,
	OpSub:        0x5,
	OpShiftRight: 0x6,
	OpSubReverse: 0x7,
	OpShiftLeft:  0xE,
}

var miscSelectors = map[Operation]uint16{
	OpLoadDelay:      0x07,
	OpWaitKey:        0x0A,
	OpSetDelay:       0x15,
	OpSetSound:       0x18,
	OpAddIndex:       0x1E,
	OpLoadFont:       0x29,
	OpStoreBCD:       0x33,
	OpStoreRegisters: 0x55,
	OpLoadRegisters:  0x65,
}

// Instruction returns the CHIP-8 instruction definition of the operation,
// nil for OpNoop.
func (o Operation) Instruction() *chip8.Instruction {
	switch o {
	case OpClear:
		return chip8.ClsInst
	case OpReturn:
		return chip8.RetInst
	case OpJump, OpJumpOffset:
		return chip8.JpInst
	case OpCall:
		return chip8.CallInst
	case OpSkipEqualImm, OpSkipEqualReg:
		return chip8.SeInst
	case OpSkipNotEqualImm, OpSkipNotEqualReg:
		return chip8.SneInst
	case OpLoadImm, OpMove, OpLoadIndex, OpLoadDelay, OpWaitKey, OpSetDelay,
		OpSetSound, OpLoadFont, OpStoreBCD, OpStoreRegisters, OpLoadRegisters:
		return chip8.LdInst
	case OpAddImm, OpAdd, OpAddIndex:
		return chip8.AddInst
	case OpOr:
		return chip8.OrInst
	case OpAnd:
		return chip8.AndInst
	case OpXor:
		return chip8.XorInst
	case OpSub:
		return chip8.SubInst
	case OpSubReverse:
		return chip8.SubnInst
	case OpShiftRight:
		return chip8.ShrInst
	case OpShiftLeft:
		return chip8.ShlInst
	case OpRandom:
		return chip8.RndInst
	case OpDraw:
		return chip8.DrwInst
	case OpSkipKeyPressed:
		return chip8.SkpInst
	case OpSkipKeyReleased:
		return chip8.SknpInst
	default:
		return nil
	}
}

// Mnemonic returns the assembly mnemonic of the operation, an empty string
// for OpNoop.
func (o Operation) Mnemonic() string {
	ins := o.Instruction()
	if ins == nil {
		return ""
	}
	return ins.Name
}

// String returns the mnemonic of the operation, with the encoding appended
// to disambiguate operations sharing a mnemonic.
func (o Operation) String() string {
	if o == OpNoop {
		return "noop"
	}
	if o >= operationCount {
		return fmt.Sprintf("Operation(%d)", uint8(o))
	}
	return fmt.Sprintf("%s (%s)", o.Mnemonic(), encodings[o])
}

var encodings = [operationCount]string{
	OpNoop:            "",
	OpClear:           "00E0",
	OpReturn:          "00EE",
	OpJump:            "1nnn",
	OpCall:            "2nnn",
	OpSkipEqualImm:    "3xkk",
	OpSkipNotEqualImm: "4xkk",
	OpSkipEqualReg:    "5xy0",
	OpLoadImm:         "6xkk",
	OpAddImm:          "7xkk",
	OpMove:            "8xy0",
	OpOr:              "8xy1",
	OpAnd:             "8xy2",
	OpXor:             "8xy3",
	OpAdd:             "8xy4",
	OpSub:             "8xy5",
	OpShiftRight:      "8xy6",
	OpSubReverse:      "8xy7",
	OpShiftLeft:       "8xyE",
	OpSkipNotEqualReg: "9xy0",
	OpLoadIndex:       "Annn",
	OpJumpOffset:      "Bnnn",
	OpRandom:          "Cxkk",
	OpDraw:            "Dxyn",
	OpSkipKeyPressed:  "Ex9E",
	OpSkipKeyReleased: "ExA1",
	OpLoadDelay:       "Fx07",
	OpWaitKey:         "Fx0A",
	OpSetDelay:        "Fx15",
	OpSetSound:        "Fx18",
	OpAddIndex:        "Fx1E",
	OpLoadFont:        "Fx29",
	OpStoreBCD:        "Fx33",
	OpStoreRegisters:  "Fx55",
	OpLoadRegisters:   "Fx65",
}
