// Package framebuffer implements the "framebuffer sink" collaborator: a
// plain RGBA pixel grid the rasterizer core's fragments are written
// into, plus PNG, binary PPM, and terminal half-block output.
package framebuffer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"

	"github.com/taigrr/quadraster/internal/logging"
)

// Framebuffer is a 2D array of pixels. We use double vertical resolution
// by using the upper half-block character (▀) when drawn to a terminal.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // row-major
}

// New creates a framebuffer with the given dimensions, cleared to
// opaque white.
func New(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
	fb.Clear(color.RGBA{255, 255, 255, 255})
	return fb
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y). Out-of-bounds writes are silently
// dropped: the rasterizer core's bounding-box traversal can legitimately
// visit quad corners outside the framebuffer near the screen edge.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or transparent black when out
// of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}

// WritePPM saves the framebuffer as a binary (P6) PPM file: a three-line
// ASCII header ("P6", "<width> <height>", "255") followed by raw
// interleaved RGB bytes, row-major, with no per-pixel alpha. This is the
// original reference tool's only output format.
func (fb *Framebuffer) WritePPM(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString("P6\n"); err != nil {
		return err
	}
	if _, err := f.WriteString(strconv.Itoa(fb.Width) + " " + strconv.Itoa(fb.Height) + "\n"); err != nil {
		return err
	}
	if _, err := f.WriteString("255\n"); err != nil {
		return err
	}

	buf := make([]byte, fb.Width*fb.Height*3)
	for i, p := range fb.Pixels {
		buf[i*3+0] = p.R
		buf[i*3+1] = p.G
		buf[i*3+2] = p.B
	}
	if _, err := f.Write(buf); err != nil {
		return err
	}
	logging.Logger().Debug("wrote ppm", "path", path, "width", fb.Width, "height", fb.Height)
	return nil
}
