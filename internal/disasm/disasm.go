// Package disasm converts CHIP-8 program images into assembly listings
// that the assembler of this module turns back into the same bytes.
package disasm

import (
	"context"
	"fmt"
	"hash/crc32"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	startLabel  = "Start"
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"

	opcodeSize = 2
)

// Options defines options to control the listing output.
type Options struct {
	HexComments    bool // output opcode bytes as hex values in comments
	OffsetComments bool // output memory addresses in comments
}

// Line is a single instruction or data line of a listing.
type Line struct {
	Address uint16
	Data    []byte
	Label   string
	Code    string
	Comment string

	Opcode      chip8.Opcode // reference table entry of a code line
	Instruction vm.Instruction
	IsData      bool
}

// Listing is the disassembled program.
type Listing struct {
	Lines    []Line
	Checksum uint32 // CRC32 of the program image
	Size     int
}

// Disasm implements a linear sweep disassembler.
type Disasm struct {
	logger  *log.Logger
	options Options
}

// New returns a new disassembler.
func New(logger *log.Logger, options Options) *Disasm {
	return &Disasm{
		logger:  logger,
		options: options,
	}
}

// Process disassembles the program image. Every word that matches an entry
// of the opcode table and equals the canonical encoding of its instruction
// becomes code, all other words and a trailing odd byte become data.
func (dis *Disasm) Process(ctx context.Context, image []byte) (*Listing, error) {
	if len(image) > vm.MaxProgramSize {
		return nil, fmt.Errorf("disassembling %d bytes: %w", len(image), vm.ErrImageTooLarge)
	}

	listing := &Listing{
		Lines:    make([]Line, 0, (len(image)+1)/opcodeSize),
		Checksum: crc32.ChecksumIEEE(image),
		Size:     len(image),
	}
	lineStarts := set.New[uint16]()

	for offset := 0; offset < len(image); offset += opcodeSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("disassembling: %w", err)
		}

		address := uint16(vm.ProgramStart + offset)
		lineStarts.Add(address)

		if offset+1 == len(image) {
			listing.Lines = append(listing.Lines, Line{
				Address: address,
				Data:    image[offset : offset+1],
				IsData:  true,
			})
			break
		}

		word := uint16(image[offset])<<8 | uint16(image[offset+1])
		listing.Lines = append(listing.Lines, dis.processWord(address, word, image[offset:offset+opcodeSize]))
	}

	labels := dis.collectLabels(listing.Lines, lineStarts)
	for i := range listing.Lines {
		line := &listing.Lines[i]
		line.Label = labels[line.Address]
		if line.IsData {
			line.Code = formatData(line.Data)
		} else {
			line.Code = formatInstruction(line.Opcode, line.Instruction, labels)
		}
		dis.setComment(line)
	}

	return listing, nil
}

func (dis *Disasm) processWord(address, word uint16, data []byte) Line {
	line := Line{
		Address: address,
		Data:    data,
	}

	opcode, ok := lookupOpcode(word)
	if !ok {
		line.IsData = true
		return line
	}

	in := vm.Decode(word)
	if in.Op.Instruction() != opcode.Instruction {
		dis.logger.Debug("Decoded operation differs from opcode table",
			log.Hex("address", address),
			log.Hex("opcode", word),
			log.Stringer("operation", in.Op))
		line.IsData = true
		return line
	}
	if in.Encode() != word {
		line.IsData = true
		return line
	}

	line.Opcode = opcode
	line.Instruction = in
	return line
}

// lookupOpcode finds the reference opcode definition of an instruction word.
func lookupOpcode(word uint16) (chip8.Opcode, bool) {
	opcodes := chip8.Opcodes[int(word>>12)]
	for _, op := range opcodes {
		if op.Info.Mask&word == op.Info.Value {
			return op, op.Instruction != nil
		}
	}
	return chip8.Opcode{}, false
}

// collectLabels names every address inside the program that is referenced by
// a jump, call or index load. Labels are only placed at line starts, other
// targets stay numeric operands.
func (dis *Disasm) collectLabels(lines []Line, lineStarts set.Set[uint16]) map[uint16]string {
	kinds := map[uint16]vm.Operation{}
	for _, line := range lines {
		if line.IsData {
			continue
		}
		in := line.Instruction
		switch in.Op {
		case vm.OpJump, vm.OpCall, vm.OpLoadIndex:
		default:
			continue
		}
		if !lineStarts.Contains(in.NNN) {
			continue
		}
		if existing, ok := kinds[in.NNN]; !ok || labelPriority(in.Op) > labelPriority(existing) {
			kinds[in.NNN] = in.Op
		}
	}

	labels := make(map[uint16]string, len(kinds)+1)
	for address, op := range kinds {
		switch op {
		case vm.OpCall:
			labels[address] = fmt.Sprintf(funcNaming, address)
		case vm.OpJump:
			labels[address] = fmt.Sprintf(labelNaming, address)
		default:
			labels[address] = fmt.Sprintf(dataNaming, address)
		}
	}
	if len(lines) > 0 {
		labels[vm.ProgramStart] = startLabel
	}

	dis.logger.Debug("Collected labels", log.Int("count", len(labels)))
	return labels
}

func labelPriority(op vm.Operation) int {
	switch op {
	case vm.OpCall:
		return 3
	case vm.OpJump:
		return 2
	default:
		return 1
	}
}
