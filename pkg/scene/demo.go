package scene

import (
	"image/color"

	"github.com/taigrr/quadraster/pkg/fixed"
	"github.com/taigrr/quadraster/pkg/raster"
)

// DemoTrianglesE1E2 returns the pair of seed triangles used to exercise
// the rasterizer core directly, bypassing Camera entirely: two
// already-projected triangles in screen space that tile the same
// bounding box and together cover it exactly once. Running the first
// then the second against a shared framebuffer reproduces the
// reference implementation's default demo output.
func DemoTrianglesE1E2() (a, b [3]raster.Vertex) {
	a = [3]raster.Vertex{
		{X: fixed.Q12_4(0x0949), Y: fixed.Q12_4(0x0449), Z: fixed.FromFloat64Q12_4(1.0), Color: color.RGBA{220, 60, 60, 255}},
		{X: fixed.Q12_4(0x1EB6), Y: fixed.Q12_4(0x19B6), Z: fixed.FromFloat64Q12_4(2.0), Color: color.RGBA{220, 60, 60, 255}},
		{X: fixed.Q12_4(0x0949), Y: fixed.Q12_4(0x19B6), Z: fixed.FromFloat64Q12_4(1.0), Color: color.RGBA{220, 60, 60, 255}},
	}
	b = [3]raster.Vertex{
		{X: fixed.Q12_4(0x1EB6), Y: fixed.Q12_4(0x19B6), Z: fixed.FromFloat64Q12_4(2.0), Color: color.RGBA{60, 160, 220, 255}},
		{X: fixed.Q12_4(0x0949), Y: fixed.Q12_4(0x0449), Z: fixed.FromFloat64Q12_4(1.0), Color: color.RGBA{60, 160, 220, 255}},
		{X: fixed.Q12_4(0x1EB6), Y: fixed.Q12_4(0x0449), Z: fixed.FromFloat64Q12_4(2.0), Color: color.RGBA{60, 160, 220, 255}},
	}
	return a, b
}
