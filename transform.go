package cubeviz

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid pose in 3D space: a position and an orientation.
// Cubies and the rotation pivot are posed with Transforms; there is no
// scale component because the grid is rigid.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// IdentityTransform returns the identity pose at the origin.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// Compose treats t as a parent frame and returns the world pose of a
// child expressed in that frame: world = t ∘ child.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Position: t.Position.Add(t.Rotation.Rotate(child.Position)),
		Rotation: t.Rotation.Mul(child.Rotation),
	}
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	inv := t.Rotation.Inverse()
	return Transform{
		Position: inv.Rotate(t.Position.Mul(-1)),
		Rotation: inv,
	}
}

// RelativeTo re-expresses the world pose t as a local pose under the
// given parent, such that parent.Compose(local) == t. This is the
// reparent-preserving-world-transform operation: regrouping an entity
// under a new parent without any visual jump.
func (t Transform) RelativeTo(parent Transform) Transform {
	return parent.Inverse().Compose(t)
}

// Apply transforms a point from the local frame of t into world space.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(p))
}

// Mat4 returns the pose as a homogeneous transform matrix.
func (t Transform) Mat4() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Mat4())
}
