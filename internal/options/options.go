// Package options contains the program options.
package options

// Mode is the operation the program performs on its input file.
type Mode string

// Supported program modes.
const (
	ModeRun    Mode = "run"    // execute a program image
	ModeDisasm Mode = "disasm" // disassemble a program image
	ModeAsm    Mode = "asm"    // assemble a source file into a program image
)

// Default emulation settings.
const (
	DefaultCyclesPerFrame = 10
	DefaultScale          = 10
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `arg:"positional" usage:"program image or assembly source file"`
	Output string `flag:"o" usage:"output file (default: stdout for listings)"`
}

// Flags contains behavior options.
type Flags struct {
	System      string `flag:"s" usage:"target system: chip8 (default: auto-detect)"`
	Disassemble bool   `flag:"disasm" usage:"disassemble the program image instead of running it"`
	Assemble    bool   `flag:"asm" usage:"assemble the source file into a program image"`
	Verify      bool   `flag:"verify" usage:"verify the listing by reassembling and comparing to input"`
	Debug       bool   `flag:"debug" usage:"enable debug logging"`
	Quiet       bool   `flag:"q" usage:"quiet mode"`
}

// Emulation contains options of the run mode.
type Emulation struct {
	Headless       bool   `flag:"headless" usage:"run without a window and print the final display"`
	Frames         int    `flag:"frames" usage:"stop after this many frames, 0 runs until closed"`
	CyclesPerFrame int    `flag:"cpf" usage:"instructions executed per 60 Hz frame" default:"10"`
	Scale          int    `flag:"scale" usage:"window pixels per display pixel" default:"10"`
	Seed           uint64 `flag:"seed" usage:"seed of the random number generator, 0 picks a random seed"`
	Trace          bool   `flag:"trace" usage:"log every executed instruction, implies -debug"`
}

// OutputFlags contains listing formatting options.
type OutputFlags struct {
	NoHexComments bool `flag:"nohexcomments" usage:"omit hex opcode bytes in comments"`
	NoOffsets     bool `flag:"nooffsets" usage:"omit memory addresses in comments"`
}

// Program options.
type Program struct {
	Parameters
	Flags
	Emulation
	OutputFlags
}

// Mode returns the operation selected by the flags.
func (p Program) Mode() Mode {
	switch {
	case p.Assemble:
		return ModeAsm
	case p.Disassemble:
		return ModeDisasm
	default:
		return ModeRun
	}
}
