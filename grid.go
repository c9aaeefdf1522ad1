package cubeviz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultSpacing is the default center-to-center distance between
// adjacent cubies: a unit cubie edge plus a small gap.
const DefaultSpacing = 1.1

// layerCubies is how many cubies occupy one layer of a 3x3x3 grid.
const layerCubies = 9

// Grid owns the 27 cubies of the puzzle. It is created once, mutated in
// place for the lifetime of a session, and never rebuilt mid-move. The
// grid root frame is the world frame; it never moves.
//
// Selection tolerance and snapping are derived from the spacing
// constant, so changing the spacing cannot desynchronize them:
// the selection epsilon is spacing/4, strictly less than half the
// inter-layer distance, and positions snap to multiples of spacing.
type Grid struct {
	spacing float64
	cubies  []*Cubie
}

// NewGrid builds a solved grid with the given spacing. A spacing of
// zero or less falls back to DefaultSpacing.
func NewGrid(spacing float64) *Grid {
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	g := &Grid{spacing: spacing}
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				g.cubies = append(g.cubies, newCubie([3]int{x, y, z}, spacing))
			}
		}
	}
	return g
}

// Spacing returns the center-to-center distance between adjacent cubies.
func (g *Grid) Spacing() float64 {
	return g.spacing
}

// Epsilon returns the layer selection tolerance, derived from spacing.
func (g *Grid) Epsilon() float64 {
	return g.spacing / 4
}

// Cubies returns the 27 cubies. The returned slice is a copy; the
// cubies themselves expose only read access outside this package.
func (g *Grid) Cubies() []*Cubie {
	out := make([]*Cubie, len(g.cubies))
	copy(out, g.cubies)
	return out
}

// Reset returns every cubie to its home pose.
func (g *Grid) Reset() {
	for _, c := range g.cubies {
		c.reset(g.spacing)
	}
}

// SelectLayer returns the cubies currently occupying the given layer,
// classified by world position: a cubie belongs iff its coordinate
// along the axis is within Epsilon of layer*spacing. With the grid
// invariant intact (positions snapped after every move) this returns
// exactly 9 cubies for any layer in {-1,0,1}; an out-of-range layer
// returns an empty slice.
func (g *Grid) SelectLayer(axis Axis, layer int) []*Cubie {
	target := float64(layer) * g.spacing
	eps := g.Epsilon()
	var out []*Cubie
	for _, c := range g.cubies {
		if math.Abs(c.world.Position[axis]-target) < eps {
			out = append(out, c)
		}
	}
	return out
}

// Snap applies drift correction to every cubie: each position component
// rounds to the nearest multiple of spacing, and each orientation to
// the nearest multiple of 90 degrees about each axis. This restores the
// invariant SelectLayer depends on; without it float error accumulates
// across moves until a layer selection goes wrong.
func (g *Grid) Snap() {
	for _, c := range g.cubies {
		for i := 0; i < 3; i++ {
			c.world.Position[i] = math.Round(c.world.Position[i]/g.spacing) * g.spacing
		}
		c.world.Rotation = snapRotation(c.world.Rotation)
	}
}

// snapRotation rounds a rotation to the nearest 90-degree-multiple
// orientation. Every such orientation is a signed permutation matrix,
// so rounding the matrix entries to integers lands exactly on it.
func snapRotation(q mgl64.Quat) mgl64.Quat {
	m := q.Mat4()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m.Set(row, col, math.Round(m.At(row, col)))
		}
	}
	return mgl64.Mat4ToQuat(m).Normalize()
}

// faceFrame orients one face of the cube for facelet derivation:
// normal points out of the face; right and down walk the facelet grid
// in index order (0..8 row-major) as seen from outside the cube. The
// frames match the standard flat net with U above F and B to the right
// of R.
type faceFrame struct {
	normal mgl64.Vec3
	right  mgl64.Vec3
	down   mgl64.Vec3
}

var faceFrames = [6]faceFrame{
	CubeFaceU: {normal: mgl64.Vec3{0, 1, 0}, right: mgl64.Vec3{1, 0, 0}, down: mgl64.Vec3{0, 0, 1}},
	CubeFaceD: {normal: mgl64.Vec3{0, -1, 0}, right: mgl64.Vec3{1, 0, 0}, down: mgl64.Vec3{0, 0, -1}},
	CubeFaceF: {normal: mgl64.Vec3{0, 0, 1}, right: mgl64.Vec3{1, 0, 0}, down: mgl64.Vec3{0, -1, 0}},
	CubeFaceB: {normal: mgl64.Vec3{0, 0, -1}, right: mgl64.Vec3{-1, 0, 0}, down: mgl64.Vec3{0, -1, 0}},
	CubeFaceR: {normal: mgl64.Vec3{1, 0, 0}, right: mgl64.Vec3{0, 0, -1}, down: mgl64.Vec3{0, -1, 0}},
	CubeFaceL: {normal: mgl64.Vec3{-1, 0, 0}, right: mgl64.Vec3{0, 0, 1}, down: mgl64.Vec3{0, -1, 0}},
}

// Facelets derives the flat facelet view of the cube from the cubies'
// world transforms. Each face is indexed
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// as seen from outside the cube. The view is exact whenever the grid
// invariant holds (between moves); mid-animation it reflects whichever
// cubie currently sits nearest each slot.
func (g *Grid) Facelets() [6][9]Color {
	var out [6][9]Color
	for face := CubeFace(0); face < 6; face++ {
		fr := faceFrames[face]
		for i := 0; i < 9; i++ {
			row := float64(i/3 - 1)
			col := float64(i%3 - 1)
			slot := fr.normal.Mul(g.spacing).
				Add(fr.right.Mul(col * g.spacing)).
				Add(fr.down.Mul(row * g.spacing))
			c := g.nearestCubie(slot)
			if color, ok := c.colorToward(fr.normal); ok {
				out[face][i] = color
			}
		}
	}
	return out
}

func (g *Grid) nearestCubie(p mgl64.Vec3) *Cubie {
	best := math.MaxFloat64
	var nearest *Cubie
	for _, c := range g.cubies {
		if d := c.world.Position.Sub(p).Len(); d < best {
			best = d
			nearest = c
		}
	}
	return nearest
}

// IsSolved reports whether every face shows a single color.
func (g *Grid) IsSolved() bool {
	facelets := g.Facelets()
	for face := CubeFace(0); face < 6; face++ {
		for i := 0; i < 9; i++ {
			if facelets[face][i] != facelets[face][4] {
				return false
			}
		}
	}
	return true
}

// Progress summarizes how close the cube is to solved. It is a coarse
// count, not a solving-phase analysis.
type Progress struct {
	HomeCubies  int  // cubies at their home pose (of 27)
	SolvedFaces int  // faces showing a single color (of 6)
	Solved      bool // all faces uniform
}

// Progress reports the current solve progress.
func (g *Grid) Progress() Progress {
	var p Progress
	eps := g.Epsilon()
	for _, c := range g.cubies {
		if c.atHome(g.spacing, eps) {
			p.HomeCubies++
		}
	}
	facelets := g.Facelets()
	for face := CubeFace(0); face < 6; face++ {
		uniform := true
		for i := 0; i < 9; i++ {
			if facelets[face][i] != facelets[face][4] {
				uniform = false
				break
			}
		}
		if uniform {
			p.SolvedFaces++
		}
	}
	p.Solved = p.SolvedFaces == 6
	return p
}

// String returns the flat net of the cube:
//
//	      U U U
//	      U U U
//	      U U U
//	L L L F F F R R R B B B
//	L L L F F F R R R B B B
//	L L L F F F R R R B B B
//	      D D D
//	      D D D
//	      D D D
func (g *Grid) String() string {
	facelets := g.Facelets()
	var b strings.Builder

	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(facelets[CubeFaceU][row*3+col].String() + " ")
		}
		b.WriteString("\n")
	}

	for row := 0; row < 3; row++ {
		for _, face := range []CubeFace{CubeFaceL, CubeFaceF, CubeFaceR, CubeFaceB} {
			for col := 0; col < 3; col++ {
				b.WriteString(facelets[face][row*3+col].String() + " ")
			}
		}
		b.WriteString("\n")
	}

	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(facelets[CubeFaceD][row*3+col].String() + " ")
		}
		b.WriteString("\n")
	}

	return b.String()
}
