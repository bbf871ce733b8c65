package scene

import (
	"testing"

	"github.com/taigrr/quadraster/pkg/raster"
)

func TestDemoTrianglesE1E2SetupSucceeds(t *testing.T) {
	a, b := DemoTrianglesE1E2()

	if _, err := raster.Setup(a[0], a[1], a[2]); err != nil {
		t.Errorf("Setup(E1) returned error %v, want nil", err)
	}
	if _, err := raster.Setup(b[0], b[1], b[2]); err != nil {
		t.Errorf("Setup(E2) returned error %v, want nil", err)
	}
}

func TestDemoTrianglesE1E2ShareVertices(t *testing.T) {
	a, b := DemoTrianglesE1E2()

	// E2's A and B vertices are E1's B and A, confirming the two
	// triangles tile the same bounding box along the shared diagonal.
	if a[0].X != b[1].X || a[0].Y != b[1].Y {
		t.Errorf("E1.A and E2.B should share screen coordinates")
	}
	if a[1].X != b[0].X || a[1].Y != b[0].Y {
		t.Errorf("E1.B and E2.A should share screen coordinates")
	}
}
