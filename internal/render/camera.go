// Package render draws the cube grid into a terminal cell frame.
// Cubies are drawn from their live poses, so a layer mid-rotation
// appears mid-rotation.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera projects world points onto the terminal cell grid. The eye
// sits on +Z looking at the origin; Yaw and Pitch orbit the world under
// it. X is doubled to compensate for terminal cell aspect.
type Camera struct {
	Yaw      float64 // orbit about +Y, radians
	Pitch    float64 // orbit about +X, radians
	Distance float64 // eye distance from the origin
	FOV      float64 // projection scale in cells
}

// DefaultCamera gives the usual three-visible-faces view: up, front
// and right.
func DefaultCamera() *Camera {
	return &Camera{
		Yaw:      -0.6,
		Pitch:    0.45,
		Distance: 10,
		FOV:      14,
	}
}

// View returns the rotation taking world space into camera space.
func (c *Camera) View() mgl64.Quat {
	pitch := mgl64.QuatRotate(c.Pitch, mgl64.Vec3{1, 0, 0})
	yaw := mgl64.QuatRotate(c.Yaw, mgl64.Vec3{0, 1, 0})
	return pitch.Mul(yaw)
}

// WorldToScreen projects a world point into cell coordinates. Returns
// the cell position, the depth from the eye, and whether the point is
// in front of the eye.
func (c *Camera) WorldToScreen(p mgl64.Vec3, width, height int) (float64, float64, float64, bool) {
	pv := c.View().Rotate(p)

	depth := c.Distance - pv.Z()
	if depth < 0.1 {
		return 0, 0, 0, false
	}

	x := float64(width)/2 + 2*c.FOV*pv.X()/depth
	y := float64(height)/2 - c.FOV*pv.Y()/depth
	return x, y, depth, true
}

// Orbit adjusts the camera angles, clamping pitch short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch += dPitch

	limit := math.Pi/2 - 0.1
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}
