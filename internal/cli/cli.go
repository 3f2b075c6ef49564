// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
)

// ParseFlags parses the command line flags of the process and returns the
// program options.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	// parse errors and usage are printed once by UsageError.ShowUsage
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	if err := flags.Parse(os.Args[1:]); err != nil {
		usageErr := &UsageError{flags: flags}
		if !errors.Is(err, flag.ErrHelp) {
			usageErr.msg = err.Error()
		}
		return opts, usageErr
	}
	args := flags.Args()
	if len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(flags, args); err != nil {
		return opts, err
	}
	opts.Input = args[0]

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	if err := validateOptionCombinations(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the command usage and all flag defaults.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	fmt.Printf("usage: retrochip8 [options] <file>\n\n")
	e.flags.SetOutput(os.Stdout)
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(flags *flag.FlagSet, args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("Potential argument %s found after file to process, please pass the file as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{
			flags: flags,
			msg:   "only one file can be processed at a time",
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.System = strings.ToLower(opts.System)
	if opts.System == "" {
		return nil
	}

	system, _ := arch.SystemFromString(opts.System)
	if system != arch.CHIP8System {
		return fmt.Errorf("unsupported system: %s. Valid options: %s", opts.System, arch.CHIP8System)
	}
	return nil
}

// validateOptionCombinations rejects flags that can not be used together.
func validateOptionCombinations(opts options.Program) error {
	switch {
	case opts.Assemble && opts.Disassemble:
		return errors.New("-asm and -disasm can not be used together")
	case opts.Verify && !opts.Disassemble:
		return errors.New("-verify can only be used with -disasm")
	case opts.Assemble && opts.Output == "":
		return errors.New("-asm requires an output file set with -o")
	case opts.CyclesPerFrame < 1:
		return fmt.Errorf("cycles per frame must be at least 1, got %d", opts.CyclesPerFrame)
	case opts.Scale < 1:
		return fmt.Errorf("scale must be at least 1, got %d", opts.Scale)
	case opts.Frames < 0:
		return fmt.Errorf("frames can not be negative, got %d", opts.Frames)
	}
	return nil
}

// DisasmOptions converts the program options to disassembler options.
func DisasmOptions(opts options.Program) disasm.Options {
	return disasm.Options{
		HexComments:    !opts.NoHexComments,
		OffsetComments: !opts.NoOffsets,
	}
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "name of the output file, listings are printed on console if no name given")
	flags.StringVar(&opts.System, "s", "", "system of the program (chip8) - if not auto-detected from file extension")
	flags.BoolVar(&opts.Disassemble, "disasm", false, "disassemble the program image instead of running it")
	flags.BoolVar(&opts.Assemble, "asm", false, "assemble the source file into a program image")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the generated listing by assembling it and check if it matches the input")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.BoolVar(&opts.Headless, "headless", false, "run without a window and print the display when stopping")
	flags.IntVar(&opts.Frames, "frames", 0, "stop after the given number of frames, 0 runs until the window is closed")
	flags.IntVar(&opts.CyclesPerFrame, "cpf", options.DefaultCyclesPerFrame, "instructions executed per 60 Hz frame")
	flags.IntVar(&opts.Scale, "scale", options.DefaultScale, "window pixels per display pixel")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 picks a random seed")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")

	flags.BoolVar(&opts.NoHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output offsets in comments")
}
