// Package pipeline orchestrates the workflow stages of the program modes.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/retrochip8/internal/asm"
	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/verification"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete workflow of a program mode.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the mode selected by the options. Listings and the text
// display of headless runs are written to the writer unless an output file
// is set.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) error {
	switch opts.Mode() {
	case options.ModeAsm:
		return p.assemble(opts)
	case options.ModeDisasm:
		return p.disassemble(ctx, opts, writer)
	default:
		return p.run(ctx, opts, writer)
	}
}

// loadImage detects the system and loads the program image of the input file.
func (p *Pipeline) loadImage(opts options.Program) ([]byte, error) {
	system := p.detector.Detect(opts)

	image, err := p.loader.Load(opts.Input, system)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	p.printInfo(opts, len(image))
	return image, nil
}

func (p *Pipeline) disassemble(ctx context.Context, opts options.Program, writer io.Writer) error {
	image, err := p.loadImage(opts)
	if err != nil {
		return err
	}

	dis := disasm.New(p.logger, cli.DisasmOptions(opts))
	listing, err := dis.Process(ctx, image)
	if err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}

	if err := writeOutput(opts.Output, writer, listing.Write); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}

	if opts.Verify {
		if err := verification.VerifyListing(ctx, p.logger, listing, image); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}
	return nil
}

func (p *Pipeline) assemble(opts options.Program) error {
	source, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading source file %s: %w", opts.Input, err)
	}

	assembler := asm.New(p.logger)
	image, err := assembler.Assemble(filepath.Base(opts.Input), string(source))
	if err != nil {
		return fmt.Errorf("assembling: %w", err)
	}

	if err := os.WriteFile(opts.Output, image, 0o644); err != nil {
		return fmt.Errorf("writing program file %s: %w", opts.Output, err)
	}

	if !opts.Quiet {
		p.logger.Info("Assembled program",
			log.String("file", opts.Output),
			log.Int("size", len(image)))
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, opts options.Program, writer io.Writer) error {
	image, err := p.loadImage(opts)
	if err != nil {
		return err
	}

	machineOptions := []vm.Option{vm.WithTrace(opts.Trace)}
	if opts.Seed != 0 {
		machineOptions = append(machineOptions, vm.WithSeed(opts.Seed))
	}
	machine := vm.New(p.logger, machineOptions...)
	if err := machine.LoadProgram(image); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	cfg := runner.Config{
		CyclesPerFrame: opts.CyclesPerFrame,
		Frames:         opts.Frames,
	}

	if opts.Headless {
		return p.runHeadless(ctx, opts, machine, cfg, writer)
	}
	return p.runWindow(ctx, opts, machine, cfg)
}

// runHeadless runs the machine as fast as possible and prints the display
// after stopping.
func (p *Pipeline) runHeadless(ctx context.Context, opts options.Program, machine *vm.Machine,
	cfg runner.Config, writer io.Writer) error {

	cfg.Unthrottled = true
	renderer := &runner.TextRenderer{}
	run := runner.New(p.logger, machine, nil, renderer, cfg)
	runErr := run.Run(ctx)

	if err := writeOutput(opts.Output, writer, func(w io.Writer) error {
		_, err := renderer.WriteTo(w)
		return err
	}); err != nil {
		return fmt.Errorf("writing display: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	p.logger.Debug("Program stopped", log.Int("frames", run.Frames()))
	return nil
}

func (p *Pipeline) runWindow(ctx context.Context, opts options.Program, machine *vm.Machine, cfg runner.Config) error {
	var runErr error
	frontend.Run(func() {
		window, err := frontend.NewWindow("retrochip8 - "+filepath.Base(opts.Input), opts.Scale)
		if err != nil {
			runErr = err
			return
		}
		defer window.Close()

		runErr = runner.New(p.logger, machine, window, window, cfg).Run(ctx)
	})

	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

// writeOutput calls the write function with the output file, or with the
// writer if no output file name is set.
func writeOutput(output string, writer io.Writer, write func(w io.Writer) error) error {
	if output == "" {
		return write(writer)
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", output, err)
	}

	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file '%s': %w", output, err)
	}
	return nil
}

// printInfo prints information about the program being processed.
func (p *Pipeline) printInfo(opts options.Program, size int) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing CHIP-8 program",
		log.String("file", opts.Input),
		log.Int("size", size),
		log.String("mode", string(opts.Mode())),
	)
}
