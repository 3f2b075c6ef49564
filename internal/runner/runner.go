// Package runner drives a machine at a fixed frame rate. Every frame it
// polls the host input, executes a number of instructions and renders the
// framebuffer.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

// FrameRate is the number of frames per second, the rate that timers run
// at on original hardware.
const FrameRate = 60

// Event is a host request besides key state changes.
type Event uint8

// Host events.
const (
	EventNone  Event = iota
	EventQuit        // stop running
	EventReset       // reset the machine to its power on state
)

// Input polls the host keypad state.
type Input interface {
	// Poll returns the pressed state of all keys and a pending host event.
	Poll() ([vm.KeyCount]bool, Event)
}

// Renderer presents a frame.
type Renderer interface {
	// Render draws the framebuffer, sound is set while the sound timer is active.
	Render(fb *vm.Framebuffer, sound bool) error
}

// Config contains the runner settings.
type Config struct {
	CyclesPerFrame int  // instructions executed per frame
	Frames         int  // stop after this many frames, 0 runs until quit
	Unthrottled    bool // do not wait for the frame ticker
}

// Runner drives a machine.
type Runner struct {
	logger   *log.Logger
	machine  *vm.Machine
	input    Input
	renderer Renderer
	config   Config

	frames int
}

// New returns a new runner. The input is optional.
func New(logger *log.Logger, machine *vm.Machine, input Input, renderer Renderer, config Config) *Runner {
	if config.CyclesPerFrame < 1 {
		config.CyclesPerFrame = 1
	}
	return &Runner{
		logger:   logger,
		machine:  machine,
		input:    input,
		renderer: renderer,
		config:   config,
	}
}

// Run executes frames until the frame limit is reached, the input requests
// to quit, the context is cancelled or the machine traps. A trap stops the
// machine before the failing instruction and is returned.
func (r *Runner) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if !r.config.Unthrottled {
		ticker := time.NewTicker(time.Second / FrameRate)
		defer ticker.Stop()
		tick = ticker.C
	}

	for r.config.Frames == 0 || r.frames < r.config.Frames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("running frame %d: %w", r.frames, err)
		}

		quit, err := r.frame()
		if err != nil {
			return err
		}
		if quit {
			r.logger.Debug("Quit requested", log.Int("frames", r.frames))
			return nil
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return fmt.Errorf("running frame %d: %w", r.frames, ctx.Err())
			case <-tick:
			}
		}
	}
	return nil
}

// Frames returns the number of completed frames.
func (r *Runner) Frames() int {
	return r.frames
}

func (r *Runner) frame() (bool, error) {
	if r.input != nil {
		keys, event := r.input.Poll()
		switch event {
		case EventQuit:
			return true, nil
		case EventReset:
			r.logger.Info("Resetting machine")
			r.machine.Reset()
		default:
		}

		for i, pressed := range keys {
			if err := r.machine.SetKeyState(i, pressed); err != nil {
				return false, fmt.Errorf("setting key state: %w", err)
			}
		}
	}

	for range r.config.CyclesPerFrame {
		if err := r.machine.Step(); err != nil {
			r.logger.Debug("Machine halted", log.Int("frame", r.frames), log.Err(err))
			return false, fmt.Errorf("frame %d: %w", r.frames, err)
		}
	}

	_, sound := r.machine.Timers()
	if err := r.renderer.Render(r.machine.Framebuffer(), sound > 0); err != nil {
		return false, fmt.Errorf("rendering frame %d: %w", r.frames, err)
	}

	r.frames++
	return false, nil
}
