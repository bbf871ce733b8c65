// quadraster renders triangles through the cycle-stepped fixed-point
// rasterizer core, either the built-in E1/E2 demo pair or a loaded
// glTF/GLB mesh, and writes the result as a binary PPM (and optionally a
// PNG or a terminal half-block preview).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/quadraster/internal/logging"
	"github.com/taigrr/quadraster/pkg/fixed"
	"github.com/taigrr/quadraster/pkg/framebuffer"
	"github.com/taigrr/quadraster/pkg/raster"
	"github.com/taigrr/quadraster/pkg/scene"
)

var (
	outPath   = flag.String("o", "triangle.ppm", "output PPM path")
	pngPath   = flag.String("png", "", "optional output PNG path")
	width     = flag.Int("width", 512, "framebuffer width")
	height    = flag.Int("height", 512, "framebuffer height")
	modelPath = flag.String("model", "", "glTF/GLB model to render instead of the built-in E1/E2 demo")
	live      = flag.Bool("live", false, "preview the rendered framebuffer in the terminal")
	wireframe = flag.Bool("wireframe", false, "overlay triangle edges on the rendered output")
	animate   = flag.Int("animate", 0, "render N frames of a depth-spring animation (frame-0000.ppm, frame-0001.ppm, ...) instead of a single image")
	verbose   = flag.Bool("v", false, "enable info-level logging")
	vverbose  = flag.Bool("vv", false, "enable debug-level logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "quadraster - cycle-stepped fixed-point triangle rasterizer simulator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: quadraster [options]\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	switch {
	case *vverbose:
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	case *verbose:
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *animate > 0 {
		return runAnimation(*animate)
	}

	fb := framebuffer.New(*width, *height)

	var err error
	if *modelPath != "" {
		err = renderModel(fb, *modelPath)
	} else {
		err = renderDemo(fb)
	}
	if err != nil {
		return err
	}

	if err := fb.WritePPM(*outPath); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	logging.Logger().Info("wrote framebuffer", "path", *outPath, "width", fb.Width, "height", fb.Height)

	if *pngPath != "" {
		if err := fb.SavePNG(*pngPath); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
	}

	if *live {
		return previewLive(fb)
	}
	return nil
}

// rasterizeInto drains one triangle's GPUState into fb, calling shade for
// every valid quad pixel. A degenerate triangle (ErrDegenerateTriangle)
// still produces a usable, drainable state that simply covers no pixels
// — matching the core's documented behavior — so it is drained rather
// than treated as a fatal error. A zero-depth vertex (ErrZeroDepth) has
// no usable state and is returned directly.
func rasterizeInto(fb *framebuffer.Framebuffer, verts [3]raster.Vertex, shade func(raster.Fragment, int) color.RGBA) error {
	g, err := raster.Setup(verts[0], verts[1], verts[2])
	if err != nil {
		if !errors.Is(err, raster.ErrDegenerateTriangle) {
			return fmt.Errorf("setup triangle: %w", err)
		}
		logging.Logger().Debug("degenerate triangle, draining with no coverage", "err", err)
	}

	for g.StillDrawing() {
		frag := g.Step()
		for i := range 4 {
			if !frag.Valid[i] {
				continue
			}
			x, y := int(frag.X[i].Truncate()), int(frag.Y[i].Truncate())
			fb.SetPixel(x, y, shade(frag, i))
		}
	}
	return nil
}

// demoShade reproduces the reference demo's depth-tinted green channel
// against a fixed base R/B pair identifying which of the two seed
// triangles a pixel came from.
func demoShade(baseR, baseB uint8) func(raster.Fragment, int) color.RGBA {
	return func(frag raster.Fragment, _ int) color.RGBA {
		g := int(frag.Depth.ToFloat64() * 15)
		return color.RGBA{baseR, clampByte(float64(g)), baseB, 255}
	}
}

func renderDemo(fb *framebuffer.Framebuffer) error {
	e1, e2 := scene.DemoTrianglesE1E2()
	// Matches the reference tool: both triangles accumulate into the
	// same framebuffer, uncleared between them.
	if err := rasterizeInto(fb, e1, demoShade(0, 255)); err != nil {
		return err
	}
	if err := rasterizeInto(fb, e2, demoShade(255, 0)); err != nil {
		return err
	}
	if *wireframe {
		drawWireframeEdges(fb, e1, color.RGBA{0, 0, 0, 255})
		drawWireframeEdges(fb, e2, color.RGBA{0, 0, 0, 255})
	}
	return nil
}

// drawWireframeEdges overlays a triangle's three screen-space edges atop
// the filled rasterization, for the -wireframe debug flag.
func drawWireframeEdges(fb *framebuffer.Framebuffer, verts [3]raster.Vertex, c color.RGBA) {
	x := [3]int{int(verts[0].X.Truncate()), int(verts[1].X.Truncate()), int(verts[2].X.Truncate())}
	y := [3]int{int(verts[0].Y.Truncate()), int(verts[1].Y.Truncate()), int(verts[2].Y.Truncate())}
	for i := range 3 {
		j := (i + 1) % 3
		fb.DrawLine(x[i], y[i], x[j], y[j], c)
	}
}

// meshShade interpolates the triangle's three vertex colors by the
// fragment's perspective-correct barycentric weights.
func meshShade(verts [3]raster.Vertex) func(raster.Fragment, int) color.RGBA {
	return func(frag raster.Fragment, _ int) color.RGBA {
		a, b, c := frag.InterpA.ToFloat64(), frag.InterpB.ToFloat64(), frag.InterpC.ToFloat64()
		r := a*float64(verts[0].Color.R) + b*float64(verts[1].Color.R) + c*float64(verts[2].Color.R)
		g := a*float64(verts[0].Color.G) + b*float64(verts[1].Color.G) + c*float64(verts[2].Color.G)
		bl := a*float64(verts[0].Color.B) + b*float64(verts[1].Color.B) + c*float64(verts[2].Color.B)
		return color.RGBA{clampByte(r), clampByte(g), clampByte(bl), 255}
	}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func renderModel(fb *framebuffer.Framebuffer, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".glb" && ext != ".gltf" {
		return fmt.Errorf("unsupported model format %q (use .gltf or .glb)", ext)
	}

	mesh, err := scene.LoadGLTF(path)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	fitMeshToView(mesh)

	cam := scene.NewCamera(fb.Width, fb.Height)
	cam.Position = scene.V3(0, 0, 4)

	type face struct {
		verts [3]raster.Vertex
		depth float64
	}
	var faces []face

	for _, f := range mesh.Faces {
		var verts [3]raster.Vertex
		var sumDepth float64
		ok := true
		for i, vi := range f.V {
			mv := mesh.Vertices[vi]
			v, projOK := cam.ProjectVertex(mv.Position, mv.Color)
			if !projOK {
				ok = false
				break
			}
			verts[i] = v
			sumDepth += v.Z.ToFloat64()
		}
		if !ok {
			continue
		}
		faces = append(faces, face{verts: verts, depth: sumDepth / 3})
	}

	// Simple back-to-front painter's sort: the core has no Z-buffer
	// (explicit non-goal), so overlap between independently-rasterized
	// triangles is resolved by draw order alone.
	sort.Slice(faces, func(i, j int) bool { return faces[i].depth > faces[j].depth })

	for _, f := range faces {
		if err := rasterizeInto(fb, f.verts, meshShade(f.verts)); err != nil {
			return err
		}
		if *wireframe {
			drawWireframeEdges(fb, f.verts, color.RGBA{0, 0, 0, 255})
		}
	}

	logging.Logger().Info("rendered mesh", "path", path, "triangles", len(faces))
	return nil
}

// fitMeshToView centers the mesh on the origin and scales its largest
// dimension to 2 world units, the way the teacher's viewer prepares a
// freshly loaded model before the first frame.
func fitMeshToView(mesh *scene.Mesh) {
	mesh.CalculateBounds()
	center := mesh.BoundsMin.Add(mesh.BoundsMax).Scale(0.5)
	size := mesh.BoundsMax.Sub(mesh.BoundsMin)
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim == 0 {
		return
	}
	s := 2.0 / maxDim
	transform := scene.Scale(scene.V3(s, s, s)).Mul(scene.Translate(center.Negate()))
	mesh.Transform(transform)
}

func previewLive(fb *framebuffer.Framebuffer) error {
	term := uv.DefaultTerminal()
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer term.Shutdown(context.Background())

	term.EnterAltScreen()
	defer term.ExitAltScreen()

	rows := fb.Height / 2
	scr := uv.NewScreenBuffer(fb.Width, rows)
	fb.Draw(scr, uv.Rectangle{Max: uv.Position{X: fb.Width, Y: rows}})
	return term.Display(scr)
}

// runAnimation renders n frames of a vertex's depth sweeping from 1.0 to
// a target value, each frame an entirely independent Setup()/Step() run
// against the E1 seed triangle. The spring only ever varies the *input*
// to Setup between frames; it never reaches into a GPUState mid-run, so
// the core's per-frame determinism is untouched.
func runAnimation(n int) error {
	spring := harmonica.NewSpring(harmonica.FPS(30), 4.0, 1.0)
	pos, vel := 1.0, 0.0
	const target = 2.0

	e1, _ := scene.DemoTrianglesE1E2()

	for frame := range n {
		pos, vel = spring.Update(pos, vel, target)

		verts := e1
		verts[1].Z = fixed.FromFloat64Q12_4(pos)

		fb := framebuffer.New(*width, *height)
		if err := rasterizeInto(fb, verts, demoShade(0, 255)); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}

		path := fmt.Sprintf("frame-%04d.ppm", frame)
		if err := fb.WritePPM(path); err != nil {
			return fmt.Errorf("frame %d: write ppm: %w", frame, err)
		}
		logging.Logger().Debug("rendered animation frame", "frame", frame, "depth", pos)
	}
	return nil
}
