package render

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/cubeviz"
)

const (
	cubieHalf   = 0.5  // cubies are unit-sized; spacing only moves centers
	stickerHalf = 0.42 // sticker inset leaves a visible seam
	cullDot     = 0.15 // view-space normal threshold for backfaces
)

type quad struct {
	pts   [4][2]float64
	depth float64
	color cubeviz.Color
}

// Render draws the grid through the camera and returns styled lines.
func Render(g *cubeviz.Grid, cam *Camera, width, height int) string {
	f := NewFrame(width, height)
	Draw(f, g, cam)
	return f.String()
}

// Draw rasterizes every visible sticker of the grid into the frame,
// painter-sorted so near stickers overwrite far ones.
func Draw(f *Frame, g *cubeviz.Grid, cam *Camera) {
	view := cam.View()

	var quads []quad
	for _, c := range g.Cubies() {
		w := c.World()
		for _, s := range c.Stickers() {
			worldNormal := w.Rotation.Rotate(s.Normal)
			if view.Rotate(worldNormal).Z() < cullDot {
				continue
			}

			t1, t2 := tangents(s.Normal)
			q := quad{color: s.Color}
			visible := true
			for i, corner := range stickerCorners(s.Normal, t1, t2) {
				x, y, depth, ok := cam.WorldToScreen(w.Apply(corner), f.Width, f.Height)
				if !ok {
					visible = false
					break
				}
				q.pts[i] = [2]float64{x, y}
				q.depth += depth / 4
			}
			if visible {
				quads = append(quads, q)
			}
		}
	}

	sort.Slice(quads, func(i, j int) bool { return quads[i].depth > quads[j].depth })

	for _, q := range quads {
		fillQuad(f, q)
	}
}

// tangents returns two unit vectors spanning the sticker plane in the
// cubie's local frame.
func tangents(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	axis := 0
	for i := 1; i < 3; i++ {
		if math.Abs(normal[i]) > math.Abs(normal[axis]) {
			axis = i
		}
	}

	var t1, t2 mgl64.Vec3
	t1[(axis+1)%3] = 1
	t2[(axis+2)%3] = 1
	return t1, t2
}

// stickerCorners returns the sticker quad in the cubie's local frame,
// ordered around the perimeter.
func stickerCorners(normal, t1, t2 mgl64.Vec3) [4]mgl64.Vec3 {
	center := normal.Mul(cubieHalf)
	a := t1.Mul(stickerHalf)
	b := t2.Mul(stickerHalf)
	return [4]mgl64.Vec3{
		center.Add(a).Add(b),
		center.Add(a).Sub(b),
		center.Sub(a).Sub(b),
		center.Sub(a).Add(b),
	}
}

func fillQuad(f *Frame, q quad) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range q.pts {
		minX = math.Min(minX, p[0])
		maxX = math.Max(maxX, p[0])
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		for x := int(math.Floor(minX)); x <= int(math.Ceil(maxX)); x++ {
			px, py := float64(x), float64(y)
			if pointInTriangle(px, py, q.pts[0], q.pts[1], q.pts[2]) ||
				pointInTriangle(px, py, q.pts[0], q.pts[2], q.pts[3]) {
				f.Set(x, y, q.color)
			}
		}
	}
}

// pointInTriangle is a sign-consistent edge test, winding-independent.
func pointInTriangle(px, py float64, a, b, c [2]float64) bool {
	d1 := edge(px, py, a, b)
	d2 := edge(px, py, b, c)
	d3 := edge(px, py, c, a)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func edge(px, py float64, a, b [2]float64) float64 {
	return (px-b[0])*(a[1]-b[1]) - (a[0]-b[0])*(py-b[1])
}
