package scene

import (
	"image/color"
	"math"

	"github.com/taigrr/quadraster/pkg/fixed"
	"github.com/taigrr/quadraster/pkg/raster"
)

// maxScreenCoordinate bounds projected screen coordinates away from the
// FP12.4 range's edge (+-2048). Vertices projecting outside this range
// are rejected by Project rather than risking silent FP24.4 overflow
// downstream in the edge-function accumulators.
const maxScreenCoordinate = 1024.0

// Camera is a pinhole camera used to project world-space geometry into
// the screen-space coordinates the rasterizer core expects.
type Camera struct {
	Position         Vec3
	Yaw, Pitch, Roll float64 // radians
	FOV              float64 // vertical field of view, radians
	Width, Height    int     // rasterization target, in pixels

	// Near is the minimum eye-space depth a point may have to be
	// projected. It must stay >= 1.0: the core's per-vertex reciprocal
	// depth is stored in FP8.8, which overflows for z < 1.0.
	Near float64
}

// NewCamera returns a camera with a reasonable default pose.
func NewCamera(width, height int) *Camera {
	return &Camera{
		Position: V3(0, 0, 5),
		FOV:      math.Pi / 3,
		Width:    width,
		Height:   height,
		Near:     1.0,
	}
}

// ViewMatrix returns the camera's view matrix (rotation * translation):
// world-space points are translated by -Position, then rotated into
// camera space (forward = -Z).
func (c *Camera) ViewMatrix() Mat4 {
	rot := RotateZ(-c.Roll).Mul(RotateX(-c.Pitch)).Mul(RotateY(-c.Yaw))
	trans := Translate(c.Position.Negate())
	return rot.Mul(trans)
}

// Project transforms a world-space point into screen pixel coordinates
// and a positive eye-space depth. ok is false when the point is nearer
// than Near or would project outside the supported coordinate range.
func (c *Camera) Project(world Vec3) (screenX, screenY, depth float64, ok bool) {
	view := c.ViewMatrix().MulVec3(world)
	depth = -view.Z
	if depth < c.Near {
		return 0, 0, 0, false
	}

	focal := float64(c.Height) / (2 * math.Tan(c.FOV/2))
	screenX = float64(c.Width)/2 + view.X*focal/depth
	screenY = float64(c.Height)/2 - view.Y*focal/depth

	if math.Abs(screenX) > maxScreenCoordinate || math.Abs(screenY) > maxScreenCoordinate {
		return 0, 0, 0, false
	}

	return screenX, screenY, depth, true
}

// ProjectVertex projects a world-space point and colour into a
// raster.Vertex ready for Setup. ok is false when Project rejects the
// point.
func (c *Camera) ProjectVertex(world Vec3, col color.RGBA) (raster.Vertex, bool) {
	x, y, depth, ok := c.Project(world)
	if !ok {
		return raster.Vertex{}, false
	}
	return raster.Vertex{
		X:     fixed.FromFloat64Q12_4(x),
		Y:     fixed.FromFloat64Q12_4(y),
		Z:     fixed.FromFloat64Q12_4(depth),
		Color: col,
	}, true
}
