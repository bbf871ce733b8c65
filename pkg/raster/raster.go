// Package raster implements the cycle-stepped, fixed-point rasterizer
// state machine: a boustrophedon 2x2-quad traversal of a triangle's
// bounding box that emits per-quad coverage masks and perspective-correct
// barycentric interpolants. The state machine is purely sequential; a
// single GPUState is owned by one caller and mutated only by Step.
package raster

import (
	"errors"
	"image/color"

	"github.com/taigrr/quadraster/pkg/fixed"
)

// ErrDegenerateTriangle is returned by Setup when the triangle has zero
// signed area. The returned GPUState is still usable: it runs to
// completion and emits no covered pixels, matching the reference
// implementation's behavior.
var ErrDegenerateTriangle = errors.New("raster: triangle has zero signed area")

// ErrZeroDepth is returned by Setup when a vertex has z == 0, so its
// reciprocal depth cannot be formed. Setup returns a nil state in this
// case; there is nothing sensible to drain.
var ErrZeroDepth = errors.New("raster: vertex has zero depth")

// Vertex is one corner of a triangle submitted to Setup: x and y are
// screen-space pixel coordinates, z is a positive eye-space depth.
type Vertex struct {
	X, Y, Z fixed.Q12_4
	Color   color.RGBA
}

// Fragment is one 2x2 quad of candidate pixels, as emitted by Step.
// Index 0 is top-left, 1 top-right, 2 bottom-left, 3 bottom-right.
type Fragment struct {
	X, Y  [4]fixed.Q12_4
	Valid [4]bool

	// InterpA, InterpB, InterpC are the perspective-correct barycentric
	// weights at the quad center; InterpA+InterpB+InterpC ~= 1 in 8.8.
	InterpA, InterpB, InterpC fixed.Q8_8

	// Depth is the perspective-correct interpolated z at the quad
	// center, in 8.8.
	Depth fixed.Q8_8
}

// GPUState is the rasterizer's running state for one triangle.
type GPUState struct {
	aX, aY fixed.Q12_4
	bX, bY fixed.Q12_4
	cX, cY fixed.Q12_4

	aInvZQ8, bInvZQ8, cInvZQ8 fixed.Q8_8

	totalArea fixed.Q24_4

	startX, startY, stopX, stopY fixed.Q12_4

	edgeAB, edgeBC, edgeCA fixed.Q24_4
	edgeABdx, edgeABdy     fixed.Q12_4
	edgeBCdx, edgeBCdy     fixed.Q12_4
	edgeCAdx, edgeCAdy     fixed.Q12_4

	x, y    fixed.Q12_4
	xInc    fixed.Q12_4
	drawing bool
}

// Setup computes the bounding box, initial edge values, per-unit
// increments, and per-vertex reciprocal depths for a triangle, and
// returns a GPUState ready for Step. Callers must submit
// counter-clockwise vertices under a screen-y-down convention
// (total_area < 0); clockwise triangles run to completion but emit no
// covered pixels.
func Setup(a, b, c Vertex) (*GPUState, error) {
	if a.Z.IsZero() || b.Z.IsZero() || c.Z.IsZero() {
		return nil, ErrZeroDepth
	}

	g := &GPUState{
		aX: a.X, aY: a.Y,
		bX: b.X, bY: b.Y,
		cX: c.X, cY: c.Y,
	}

	g.startX = min3(a.X, b.X, c.X)
	g.startY = min3(a.Y, b.Y, c.Y)
	g.stopX = max3(a.X, b.X, c.X)
	g.stopY = max3(a.Y, b.Y, c.Y)

	half := fixed.Half12_4()
	cx, cy := g.startX.Add(half), g.startY.Add(half)

	g.totalArea = fixed.EdgeFunction(a.X, a.Y, b.X, b.Y, c.X, c.Y)

	g.edgeAB = fixed.EdgeFunction(a.X, a.Y, b.X, b.Y, cx, cy)
	g.edgeBC = fixed.EdgeFunction(b.X, b.Y, c.X, c.Y, cx, cy)
	g.edgeCA = fixed.EdgeFunction(c.X, c.Y, a.X, a.Y, cx, cy)

	g.edgeABdx, g.edgeABdy = b.Y.Sub(a.Y), a.X.Sub(b.X)
	g.edgeBCdx, g.edgeBCdy = c.Y.Sub(b.Y), b.X.Sub(c.X)
	g.edgeCAdx, g.edgeCAdy = a.Y.Sub(c.Y), c.X.Sub(a.X)

	g.aInvZQ8 = fixed.DivQ24P4(fixed.One24_4(), a.Z.ToQ24_4())
	g.bInvZQ8 = fixed.DivQ24P4(fixed.One24_4(), b.Z.ToQ24_4())
	g.cInvZQ8 = fixed.DivQ24P4(fixed.One24_4(), c.Z.ToQ24_4())

	g.x, g.y = cx, cy
	g.xInc = fixed.One12_4()
	g.drawing = true

	if g.totalArea.IsZero() {
		return g, ErrDegenerateTriangle
	}
	return g, nil
}

// StillDrawing reports whether further quads remain.
func (g *GPUState) StillDrawing() bool { return g.drawing }

// passesFillRule implements the top-left fill rule: an edge value e with
// per-unit increments (dx, dy) passes iff e < 0, or e == 0 and the edge
// ties toward "inside" (top edge or strictly-left edge).
func passesFillRule(e fixed.Q24_4, dx, dy fixed.Q12_4) bool {
	if e.IsNegative() {
		return true
	}
	if !e.IsZero() {
		return false
	}
	if dy.IsNegative() {
		return true
	}
	return dy.IsZero() && dx.IsNegative()
}

func (g *GPUState) covered(ab, bc, ca fixed.Q24_4) bool {
	return passesFillRule(ab, g.edgeABdx, g.edgeABdy) &&
		passesFillRule(bc, g.edgeBCdx, g.edgeBCdy) &&
		passesFillRule(ca, g.edgeCAdx, g.edgeCAdy)
}

// Step emits the current quad's Fragment and advances the traversal.
// Once StillDrawing is false, Step returns an all-invalid Fragment at
// the frozen (x, y) and performs no further mutation.
func (g *GPUState) Step() Fragment {
	var frag Fragment

	if !g.drawing {
		frag.X = [4]fixed.Q12_4{g.x, g.x, g.x, g.x}
		frag.Y = [4]fixed.Q12_4{g.y, g.y, g.y, g.y}
		return frag
	}

	one := fixed.One12_4()

	frag.X[0], frag.Y[0] = g.x, g.y
	frag.X[1], frag.Y[1] = g.x.Add(g.xInc), g.y
	frag.X[2], frag.Y[2] = g.x, g.y.Add(one)
	frag.X[3], frag.Y[3] = g.x.Add(g.xInc), g.y.Add(one)

	frag.Valid[0] = g.covered(g.edgeAB, g.edgeBC, g.edgeCA)
	frag.Valid[1] = g.covered(
		g.edgeAB.AddQ12_4(g.edgeABdx),
		g.edgeBC.AddQ12_4(g.edgeBCdx),
		g.edgeCA.AddQ12_4(g.edgeCAdx),
	)
	frag.Valid[2] = g.covered(
		g.edgeAB.AddQ12_4(g.edgeABdy),
		g.edgeBC.AddQ12_4(g.edgeBCdy),
		g.edgeCA.AddQ12_4(g.edgeCAdy),
	)
	frag.Valid[3] = g.covered(
		g.edgeAB.AddQ12_4(g.edgeABdx).AddQ12_4(g.edgeABdy),
		g.edgeBC.AddQ12_4(g.edgeBCdx).AddQ12_4(g.edgeBCdy),
		g.edgeCA.AddQ12_4(g.edgeCAdx).AddQ12_4(g.edgeCAdy),
	)

	// On right-to-left rows pixel 0 is the quad's right column; swap the
	// columns so index 0 stays top-left and index 1 top-right.
	if g.xInc.IsNegative() {
		frag.X[0], frag.X[1] = frag.X[1], frag.X[0]
		frag.X[2], frag.X[3] = frag.X[3], frag.X[2]
		frag.Valid[0], frag.Valid[1] = frag.Valid[1], frag.Valid[0]
		frag.Valid[2], frag.Valid[3] = frag.Valid[3], frag.Valid[2]
	}

	g.interpolate(&frag)
	g.advance()

	return frag
}

// interpolate fills InterpA/B/C and Depth at the quad center, following
// the opposite-edge barycentric convention: A<->BC, B<->CA, C<->AB.
func (g *GPUState) interpolate(frag *Fragment) {
	half := fixed.Half12_4()

	rawA := g.edgeBC.Add(g.edgeBCdx.Mul(half)).Add(g.edgeBCdy.Mul(half))
	rawB := g.edgeCA.Add(g.edgeCAdx.Mul(half)).Add(g.edgeCAdy.Mul(half))
	rawC := g.edgeAB.Add(g.edgeABdx.Mul(half)).Add(g.edgeABdy.Mul(half))

	interpA := fixed.DivQ24P4(rawA, g.totalArea)
	interpB := fixed.DivQ24P4(rawB, g.totalArea)
	interpC := fixed.DivQ24P4(rawC, g.totalArea)

	invDepth := interpA.Mul(g.aInvZQ8).Add(interpB.Mul(g.bInvZQ8)).Add(interpC.Mul(g.cInvZQ8))
	depth := fixed.One8_8().Div(invDepth)

	frag.InterpA = interpA.Mul(depth)
	frag.InterpB = interpB.Mul(depth)
	frag.InterpC = interpC.Mul(depth)
	frag.Depth = depth
}

// advance performs the boustrophedon traversal step described in the
// component design: step two pixels in the current direction, turning
// the row around (and flipping x_inc) when the next step would exit the
// bounding box.
func (g *GPUState) advance() {
	twoStep := g.xInc.Shl(1)
	next := g.x.Add(twoStep)

	turnaround := (g.xInc.IsPositive() && next > g.stopX) ||
		(g.xInc.IsNegative() && next <= g.startX)

	if turnaround {
		g.x = next
		g.xInc = g.xInc.Neg()
		g.y = g.y.Add(fixed.Two12_4())

		g.edgeAB = g.edgeAB.AddQ12_4(g.edgeABdx.Shl(1)).AddQ12_4(g.edgeABdy.Shl(1))
		g.edgeBC = g.edgeBC.AddQ12_4(g.edgeBCdx.Shl(1)).AddQ12_4(g.edgeBCdy.Shl(1))
		g.edgeCA = g.edgeCA.AddQ12_4(g.edgeCAdx.Shl(1)).AddQ12_4(g.edgeCAdy.Shl(1))

		g.edgeABdx = g.edgeABdx.Neg()
		g.edgeBCdx = g.edgeBCdx.Neg()
		g.edgeCAdx = g.edgeCAdx.Neg()
	} else {
		g.x = next
		g.edgeAB = g.edgeAB.AddQ12_4(g.edgeABdx.Shl(1))
		g.edgeBC = g.edgeBC.AddQ12_4(g.edgeBCdx.Shl(1))
		g.edgeCA = g.edgeCA.AddQ12_4(g.edgeCAdx.Shl(1))
	}

	g.drawing = g.y <= g.stopY
}

func min3(a, b, c fixed.Q12_4) fixed.Q12_4 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c fixed.Q12_4) fixed.Q12_4 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
