package scene

import "math"

// orientation returns the camera-to-world rotation: the inverse of
// ViewMatrix's rotation restricted to yaw and pitch. Roll is omitted:
// Forward does not depend on it, and Right and Up, built from this
// matrix, ignore Camera.Roll.
func (c *Camera) orientation() Mat4 {
	return RotateY(c.Yaw).Mul(RotateX(c.Pitch))
}

// Forward returns the camera's forward direction in world space: camera
// space -Z, rotated into world space by orientation.
func (c *Camera) Forward() Vec3 {
	return c.orientation().MulVec3Dir(V3(0, 0, -1))
}

// Right returns the camera's right direction in world space: camera
// space +X, rotated into world space by orientation.
func (c *Camera) Right() Vec3 {
	return c.orientation().MulVec3Dir(V3(1, 0, 0))
}

// Up returns the camera's up direction in world space.
func (c *Camera) Up() Vec3 {
	return c.Right().Cross(c.Forward())
}

// Plane is a half-space Ax+By+Cz+D=0 with D measured from the origin;
// DistanceToPoint is positive on the side the normal points toward.
type Plane struct {
	Normal Vec3
	D      float64
}

// eq packs the plane as a homogeneous Vec4 (A, B, C, D) so a point's
// signed distance is a single 4D dot product against (point, 1).
func (p Plane) eq() Vec4 { return V4FromV3(p.Normal, p.D) }

// DistanceToPoint returns the signed distance from the plane to p.
func (p Plane) DistanceToPoint(point Vec3) float64 {
	return p.eq().Dot(V4FromV3(point, 1))
}

// Frustum is the four side planes (left, right, top, bottom) of the
// camera's view cone; there is no near/far pair since this camera's
// Near is already enforced by Project and there is no far-plane
// concept in the core.
type Frustum struct {
	Planes [4]Plane
}

// GetFrustum builds the camera's view frustum from its current pose and
// field of view, for coarse whole-mesh visibility rejection before any
// triangle reaches the rasterizer core. This is mesh-granularity
// culling, not per-triangle clipping.
func (c *Camera) GetFrustum() Frustum {
	aspect := float64(c.Width) / float64(c.Height)
	halfV := c.FOV / 2
	halfH := math.Atan(math.Tan(halfV) * aspect)

	forward, right, up := c.Forward(), c.Right(), c.Up()

	plane := func(normal Vec3) Plane {
		n := normal.Normalize()
		return Plane{Normal: n, D: -n.Dot(c.Position)}
	}

	// Each side plane's normal is perpendicular to that side of the view
	// cone and points toward the interior: the forward direction rotated
	// by 90 degrees minus the half-angle, using the corresponding basis
	// vector as the rotation axis.
	rotateToward := func(axis Vec3, angle float64) Vec3 {
		axis = axis.Normalize()
		cosA, sinA := math.Cos(angle), math.Sin(angle)
		// Rodrigues' rotation formula.
		return forward.Scale(cosA).
			Add(axis.Cross(forward).Scale(sinA)).
			Add(axis.Scale(axis.Dot(forward) * (1 - cosA)))
	}

	var f Frustum
	f.Planes[0] = plane(rotateToward(up, halfH-math.Pi/2))    // left
	f.Planes[1] = plane(rotateToward(up, math.Pi/2-halfH))    // right
	f.Planes[2] = plane(rotateToward(right, halfV-math.Pi/2)) // top
	f.Planes[3] = plane(rotateToward(right, math.Pi/2-halfV)) // bottom
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// IntersectsAABB reports whether any part of box is within all four
// side planes of the frustum, using the standard positive-vertex test.
func (f Frustum) IntersectsAABB(box AABB) bool {
	for _, p := range f.Planes {
		pos := V3(
			selectComponent(p.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(p.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(p.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if p.DistanceToPoint(pos) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
