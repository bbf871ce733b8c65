package scene

import "image/color"

// MeshVertex is a mesh vertex: a position and a flat colour. There is no
// UV and no normal — the core has no texture sampling and no lighting
// model, so neither attribute would ever reach the rasterizer.
type MeshVertex struct {
	Position Vec3
	Color    color.RGBA
}

// Face is a triangle face as three indices into Mesh.Vertices.
type Face struct {
	V [3]int
}

// Mesh is a triangle mesh in world space.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	BoundsMin, BoundsMax Vec3
}

// NewMesh creates an empty, named mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds recomputes the mesh's axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// AABB returns the mesh's bounding box.
func (m *Mesh) AABB() AABB {
	return AABB{Min: m.BoundsMin, Max: m.BoundsMax}
}

// TriangleCount returns the number of triangle faces.
func (m *Mesh) TriangleCount() int { return len(m.Faces) }

// Transform applies a transformation matrix to every vertex position and
// recomputes bounds.
func (m *Mesh) Transform(mat Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
	}
	m.CalculateBounds()
}

// palette cycles a small set of flat colours across faces when a source
// format (such as glTF) carries no per-vertex colour of its own.
var palette = []color.RGBA{
	{220, 60, 60, 255},
	{60, 160, 220, 255},
	{80, 200, 120, 255},
	{230, 200, 60, 255},
	{180, 100, 220, 255},
	{240, 140, 60, 255},
}

func paletteColor(i int) color.RGBA { return palette[i%len(palette)] }
