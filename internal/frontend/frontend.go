// Package frontend implements the window frontend using pixel. It renders
// the framebuffer scaled up and maps the left side of a QWERTY keyboard to
// the hexadecimal keypad:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
//
// Escape quits and Backspace resets the machine.
package frontend

import (
	"fmt"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/vm"
	"golang.org/x/image/colornames"
)

var keyMap = map[pixelgl.Button]byte{
	pixelgl.Key1: 0x1, pixelgl.Key2: 0x2, pixelgl.Key3: 0x3, pixelgl.Key4: 0xC,
	pixelgl.KeyQ: 0x4, pixelgl.KeyW: 0x5, pixelgl.KeyE: 0x6, pixelgl.KeyR: 0xD,
	pixelgl.KeyA: 0x7, pixelgl.KeyS: 0x8, pixelgl.KeyD: 0x9, pixelgl.KeyF: 0xE,
	pixelgl.KeyZ: 0xA, pixelgl.KeyX: 0x0, pixelgl.KeyC: 0xB, pixelgl.KeyV: 0xF,
}

var (
	backgroundColor = colornames.Black
	soundColor      = colornames.Darkslategray
	pixelColor      = colornames.White
)

// Run runs the function on the main thread, as required by the window
// system. It returns when the function returns.
func Run(run func()) {
	pixelgl.Run(run)
}

// Window is a host window that implements runner.Input and runner.Renderer.
type Window struct {
	win   *pixelgl.Window
	imd   *imdraw.IMDraw
	scale float64
}

// NewWindow opens a window that shows the display scaled by the given factor.
// It must be called from the function passed to Run.
func NewWindow(title string, scale int) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, float64(vm.DisplayWidth*scale), float64(vm.DisplayHeight*scale)),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	return &Window{
		win:   win,
		imd:   imdraw.New(nil),
		scale: float64(scale),
	}, nil
}

// Poll returns the state of the mapped keys and a quit event when the window
// was closed or Escape was pressed.
func (w *Window) Poll() ([vm.KeyCount]bool, runner.Event) {
	var keys [vm.KeyCount]bool
	for button, key := range keyMap {
		keys[key] = w.win.Pressed(button)
	}

	switch {
	case w.win.Closed(), w.win.JustPressed(pixelgl.KeyEscape):
		return keys, runner.EventQuit
	case w.win.JustPressed(pixelgl.KeyBackspace):
		return keys, runner.EventReset
	default:
		return keys, runner.EventNone
	}
}

// Render draws the framebuffer. The background is tinted while sound plays.
func (w *Window) Render(fb *vm.Framebuffer, sound bool) error {
	if sound {
		w.win.Clear(soundColor)
	} else {
		w.win.Clear(backgroundColor)
	}

	w.imd.Clear()
	w.imd.Color = pixelColor
	for _, rect := range pixelRects(fb, w.scale) {
		w.imd.Push(rect.Min, rect.Max)
		w.imd.Rectangle(0)
	}
	w.imd.Draw(w.win)
	w.win.Update()
	return nil
}

// Close closes the window.
func (w *Window) Close() {
	w.win.Destroy()
}

// pixelRects returns the window rectangles of all set pixels. The window
// origin is the bottom left corner, the display origin the top left one.
func pixelRects(fb *vm.Framebuffer, scale float64) []pixel.Rect {
	var rects []pixel.Rect
	for y := range vm.DisplayHeight {
		for x := range vm.DisplayWidth {
			if !fb.Pixel(x, y) {
				continue
			}
			flipped := vm.DisplayHeight - 1 - y
			rects = append(rects, pixel.R(
				float64(x)*scale, float64(flipped)*scale,
				float64(x+1)*scale, float64(flipped+1)*scale,
			))
		}
	}
	return rects
}
