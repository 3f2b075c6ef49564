package vm

import "strings"

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Framebuffer is the monochrome CHIP-8 display. Only the clear and draw
// instructions modify it, hosts read it to render a frame.
type Framebuffer struct {
	pixels [DisplayWidth * DisplayHeight]bool
}

// Pixel returns whether the pixel at the given coordinates is set.
// Coordinates outside of the display return false.
func (f *Framebuffer) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return f.pixels[y*DisplayWidth+x]
}

// Clear turns off all pixels.
func (f *Framebuffer) Clear() {
	f.pixels = [DisplayWidth * DisplayHeight]bool{}
}

// Lit returns the number of pixels that are turned on.
func (f *Framebuffer) Lit() int {
	var count int
	for _, on := range f.pixels {
		if on {
			count++
		}
	}
	return count
}

// String renders the framebuffer as text, one line per pixel row.
func (f *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow((DisplayWidth + 1) * DisplayHeight)
	for y := range DisplayHeight {
		for x := range DisplayWidth {
			if f.pixels[y*DisplayWidth+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// drawSprite XORs the sprite rows onto the display with the top left corner
// at the given position. Pixels that fall off an edge wrap around to the
// opposite edge. It returns whether any set pixel was turned off.
func (f *Framebuffer) drawSprite(x, y byte, sprite []byte) bool {
	var collision bool
	for row, bits := range sprite {
		yPos := (int(y) + row) % DisplayHeight

		for col := range 8 {
			if bits&(0x80>>col) == 0 {
				continue
			}

			xPos := (int(x) + col) % DisplayWidth
			index := yPos*DisplayWidth + xPos
			if f.pixels[index] {
				collision = true
			}
			f.pixels[index] = !f.pixels[index]
		}
	}
	return collision
}
