package cubeviz

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewGridGeometry(t *testing.T) {
	g := NewGrid(DefaultSpacing)
	if len(g.Cubies()) != 27 {
		t.Fatalf("grid has %d cubies, want 27", len(g.Cubies()))
	}
	if g.Epsilon() >= g.Spacing()/2 {
		t.Error("selection epsilon must stay strictly below half the inter-layer distance")
	}
}

func TestSelectLayer_AllFacesAllInversions(t *testing.T) {
	faces := []Face{FaceU, FaceD, FaceL, FaceR, FaceF, FaceB}
	for _, face := range faces {
		for _, invert := range []bool{false, true} {
			g := NewGrid(DefaultSpacing)
			mv, ok := ResolveFace(face, invert)
			if !ok {
				t.Fatalf("ResolveFace(%s, %v) failed", face, invert)
			}
			if got := len(g.SelectLayer(mv.Axis, mv.Layer)); got != 9 {
				t.Errorf("%s invert=%v selected %d cubies, want 9", face, invert, got)
			}
		}
	}
}

func TestSelectLayer_AllIndices(t *testing.T) {
	g := NewGrid(DefaultSpacing)
	for axis := AxisX; axis <= AxisZ; axis++ {
		for layer := -1; layer <= 1; layer++ {
			if got := len(g.SelectLayer(axis, layer)); got != 9 {
				t.Errorf("axis %s layer %d selected %d cubies, want 9", axis, layer, got)
			}
		}
		for _, layer := range []int{-2, 2, 5} {
			if got := len(g.SelectLayer(axis, layer)); got != 0 {
				t.Errorf("axis %s out-of-range layer %d selected %d cubies, want 0", axis, layer, got)
			}
		}
	}
}

func TestSelectLayer_EpsilonEdges(t *testing.T) {
	// A cubie displaced just inside the tolerance still belongs to its
	// layer; just outside, it drops out. This is the float-drift margin
	// the snap step exists to protect.
	for _, tc := range []struct {
		name   string
		factor float64
		want   int
	}{
		{"just inside", 0.99, 9},
		{"just outside", 1.01, 8},
	} {
		g := NewGrid(DefaultSpacing)
		cubie := g.SelectLayer(AxisX, 1)[0]
		cubie.world.Position[AxisX] += g.Epsilon() * tc.factor

		if got := len(g.SelectLayer(AxisX, 1)); got != tc.want {
			t.Errorf("%s: selected %d cubies, want %d", tc.name, got, tc.want)
		}
	}
}

func TestSnapRestoresGridInvariant(t *testing.T) {
	g := NewGrid(DefaultSpacing)

	// Perturb every cubie with the kind of error easing leaves behind.
	wobble := mgl64.QuatRotate(0.02, mgl64.Vec3{0, 0, 1})
	for _, c := range g.cubies {
		c.world.Position = c.world.Position.Add(mgl64.Vec3{0.04, -0.03, 0.05})
		c.world.Rotation = wobble.Mul(c.world.Rotation)
	}

	g.Snap()
	assertGridInvariant(t, g)

	for _, c := range g.cubies {
		home := mgl64.Vec3{
			float64(c.home[0]) * g.spacing,
			float64(c.home[1]) * g.spacing,
			float64(c.home[2]) * g.spacing,
		}
		if !vecClose(c.world.Position, home, 0) {
			t.Fatalf("snap should land exactly on the home point, got %v want %v", c.world.Position, home)
		}
	}
}

// assertGridInvariant checks the post-move contract: positions on exact
// grid multiples, orientations on exact 90-degree multiples.
func assertGridInvariant(t *testing.T, g *Grid) {
	t.Helper()
	for i, c := range g.Cubies() {
		w := c.World()
		for axis := 0; axis < 3; axis++ {
			steps := w.Position[axis] / g.Spacing()
			if math.Abs(steps-math.Round(steps)) > 1e-9 {
				t.Fatalf("cubie %d position[%d]=%v is not a grid multiple", i, axis, w.Position[axis])
			}
			if r := math.Round(steps); r < -1 || r > 1 {
				t.Fatalf("cubie %d position[%d]=%v is outside the grid", i, axis, w.Position[axis])
			}
		}
		m := w.Rotation.Mat4()
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				v := m.At(row, col)
				if math.Abs(v-math.Round(v)) > 1e-9 {
					t.Fatalf("cubie %d rotation is not a 90-degree multiple (entry %v)", i, v)
				}
			}
		}
	}
}

func TestGridInvariantSurvivesManyMoves(t *testing.T) {
	e := New()
	moves := NewScramble(100)
	for _, m := range moves {
		if err := e.ApplyMoves(m); err != nil {
			t.Fatalf("failed to apply %s: %v", m.Notation(), err)
		}
		// SelectLayer must keep finding full layers move after move.
		for axis := AxisX; axis <= AxisZ; axis++ {
			for layer := -1; layer <= 1; layer++ {
				if got := len(e.Grid().SelectLayer(axis, layer)); got != 9 {
					t.Fatalf("after %s: axis %s layer %d selected %d cubies", m.Notation(), axis, layer, got)
				}
			}
		}
	}
	assertGridInvariant(t, e.Grid())
}

func TestFaceletsSolved(t *testing.T) {
	g := NewGrid(DefaultSpacing)
	facelets := g.Facelets()
	for face := CubeFace(0); face < 6; face++ {
		for i := 0; i < 9; i++ {
			if facelets[face][i] != solvedColor(face) {
				t.Errorf("face %s slot %d = %s, want %s", face, i, facelets[face][i], solvedColor(face))
			}
		}
	}
	if !g.IsSolved() {
		t.Error("fresh grid should be solved")
	}
}

func TestFaceletsAfterR(t *testing.T) {
	e := New()
	if err := e.ApplyMoves(R); err != nil {
		t.Fatalf("failed to apply R: %v", err)
	}
	facelets := e.Grid().Facelets()

	expect := func(face CubeFace, idx int, want Color) {
		t.Helper()
		if got := facelets[face][idx]; got != want {
			t.Errorf("after R: face %s slot %d = %s, want %s", face, idx, got, want)
			t.Log(e.Grid().String())
		}
	}

	// R carries the F column up: F->U->B->D->F.
	for _, idx := range []int{2, 5, 8} {
		expect(CubeFaceU, idx, Green)
		expect(CubeFaceF, idx, Yellow)
		expect(CubeFaceD, idx, Blue)
	}
	for _, idx := range []int{0, 3, 6} {
		expect(CubeFaceB, idx, White)
	}
	// The turned face and the opposite face stay uniform.
	for i := 0; i < 9; i++ {
		expect(CubeFaceR, i, Red)
		expect(CubeFaceL, i, Orange)
	}
	// Untouched columns keep their colors.
	for _, idx := range []int{0, 1, 3, 4, 6, 7} {
		expect(CubeFaceU, idx, White)
		expect(CubeFaceF, idx, Green)
		expect(CubeFaceD, idx, Yellow)
	}
}

func TestProgress(t *testing.T) {
	e := New()
	p := e.Progress()
	if p.HomeCubies != 27 || p.SolvedFaces != 6 || !p.Solved {
		t.Errorf("solved progress = %+v", p)
	}

	if err := e.ApplyMoves(R); err != nil {
		t.Fatalf("failed to apply R: %v", err)
	}
	p = e.Progress()
	if p.Solved {
		t.Error("cube should not report solved after R")
	}
	// R displaces 8 cubies; the R-face center spins in place and still
	// counts as home. R and L faces stay uniform.
	if p.HomeCubies != 19 {
		t.Errorf("HomeCubies = %d, want 19", p.HomeCubies)
	}
	if p.SolvedFaces != 2 {
		t.Errorf("SolvedFaces = %d, want 2", p.SolvedFaces)
	}
}

func TestGridString(t *testing.T) {
	g := NewGrid(DefaultSpacing)
	net := g.String()
	want := "      W W W \n" +
		"      W W W \n" +
		"      W W W \n" +
		"O O O G G G R R R B B B \n" +
		"O O O G G G R R R B B B \n" +
		"O O O G G G R R R B B B \n" +
		"      Y Y Y \n" +
		"      Y Y Y \n" +
		"      Y Y Y \n"
	if net != want {
		t.Errorf("solved net mismatch:\ngot:\n%s\nwant:\n%s", net, want)
	}
}

func TestGridReset(t *testing.T) {
	e := New()
	if err := e.ApplyNotation("R U F' D2"); err != nil {
		t.Fatalf("failed to scramble: %v", err)
	}
	e.Grid().Reset()
	if !e.Grid().IsSolved() {
		t.Error("grid should be solved after reset")
	}
}

func TestCustomSpacing(t *testing.T) {
	// Epsilon and snapping derive from spacing, so a different spacing
	// must work end to end.
	e := New(WithSpacing(2.5))
	if err := e.ApplyNotation("R U R' U' R U R' U'"); err != nil {
		t.Fatalf("failed to apply moves: %v", err)
	}
	assertGridInvariant(t, e.Grid())
	for axis := AxisX; axis <= AxisZ; axis++ {
		for layer := -1; layer <= 1; layer++ {
			if got := len(e.Grid().SelectLayer(axis, layer)); got != 9 {
				t.Errorf("spacing 2.5: axis %s layer %d selected %d cubies", axis, layer, got)
			}
		}
	}
}
