package cubeviz

import "github.com/go-gl/mathgl/mgl64"

// Sticker is one colored facelet of a cubie. Normal is the sticker's
// outward direction in the cubie's local frame; it never changes after
// construction. The sticker's world direction is the cubie's current
// rotation applied to Normal.
type Sticker struct {
	Normal mgl64.Vec3
	Color  Color
}

// Cubie is one of the 27 unit sub-cubes of the puzzle. Its pose is
// expressed relative to the grid root (which never moves, so the pose
// is also the world pose). The pose is mutated only by the rotation
// animator; everything else reads it.
type Cubie struct {
	home     [3]int // home grid coordinates, each in {-1,0,1}
	world    Transform
	stickers []Sticker
}

// stickerColor maps a home-face direction to its solved color:
// White up, Green front.
func stickerColor(axis Axis, sign int) Color {
	switch {
	case axis == AxisX && sign > 0:
		return Red
	case axis == AxisX && sign < 0:
		return Orange
	case axis == AxisY && sign > 0:
		return White
	case axis == AxisY && sign < 0:
		return Yellow
	case axis == AxisZ && sign > 0:
		return Green
	default:
		return Blue
	}
}

func newCubie(home [3]int, spacing float64) *Cubie {
	c := &Cubie{home: home}
	for axis := AxisX; axis <= AxisZ; axis++ {
		sign := home[axis]
		if sign == 0 {
			continue
		}
		c.stickers = append(c.stickers, Sticker{
			Normal: axis.Vec().Mul(float64(sign)),
			Color:  stickerColor(axis, sign),
		})
	}
	c.reset(spacing)
	return c
}

// reset returns the cubie to its home pose.
func (c *Cubie) reset(spacing float64) {
	c.world = Transform{
		Position: mgl64.Vec3{
			float64(c.home[0]) * spacing,
			float64(c.home[1]) * spacing,
			float64(c.home[2]) * spacing,
		},
		Rotation: mgl64.QuatIdent(),
	}
}

// World returns the cubie's current pose.
func (c *Cubie) World() Transform {
	return c.world
}

func (c *Cubie) setWorld(t Transform) {
	c.world = t
}

// Stickers returns a copy of the cubie's stickers. The core cubie at
// the grid center has none; face centers have one, edges two, corners
// three.
func (c *Cubie) Stickers() []Sticker {
	out := make([]Sticker, len(c.stickers))
	copy(out, c.stickers)
	return out
}

// colorToward returns the color of the sticker whose world direction
// best matches dir, or ok=false if the cubie has no stickers.
func (c *Cubie) colorToward(dir mgl64.Vec3) (Color, bool) {
	best := -2.0
	var color Color
	for _, s := range c.stickers {
		d := c.world.Rotation.Rotate(s.Normal).Dot(dir)
		if d > best {
			best = d
			color = s.Color
		}
	}
	return color, len(c.stickers) > 0
}

// atHome reports whether the cubie sits at its home grid point with all
// stickers facing their home directions. Tolerance covers float error
// only; call after drift correction for exact answers.
func (c *Cubie) atHome(spacing, eps float64) bool {
	for axis := AxisX; axis <= AxisZ; axis++ {
		want := float64(c.home[axis]) * spacing
		if diff := c.world.Position[axis] - want; diff > eps || diff < -eps {
			return false
		}
	}
	for _, s := range c.stickers {
		if c.world.Rotation.Rotate(s.Normal).Dot(s.Normal) < 0.5 {
			return false
		}
	}
	return true
}
