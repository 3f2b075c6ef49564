package runner

import (
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/vm"
)

// TextRenderer keeps the last rendered frame for printing it as text.
type TextRenderer struct {
	last   vm.Framebuffer
	sound  bool
	frames int
}

// Render stores a copy of the framebuffer.
func (t *TextRenderer) Render(fb *vm.Framebuffer, sound bool) error {
	t.last = *fb
	t.sound = sound
	t.frames++
	return nil
}

// WriteTo writes the last rendered frame.
func (t *TextRenderer) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "%s", t.last.String())
	if err != nil {
		return int64(n), fmt.Errorf("writing frame: %w", err)
	}
	return int64(n), nil
}

// Frame returns the last rendered frame.
func (t *TextRenderer) Frame() *vm.Framebuffer {
	return &t.last
}

// Sound returns whether the sound timer was active in the last frame.
func (t *TextRenderer) Sound() bool {
	return t.sound
}

// Frames returns the number of rendered frames.
func (t *TextRenderer) Frames() int {
	return t.frames
}
