package cubeviz

import "github.com/go-gl/mathgl/mgl64"

// Axis identifies a world axis of the cube grid.
type Axis int

const (
	AxisX Axis = 0
	AxisY Axis = 1
	AxisZ Axis = 2
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "?"
	}
}

// Vec returns the unit vector along the axis.
func (a Axis) Vec() mgl64.Vec3 {
	var v mgl64.Vec3
	v[int(a)] = 1
	return v
}

// LayerMove describes one layer rotation in grid terms: which axis the
// layer stacks along, which of the three layers turns, and the rotation
// sign about that axis.
type LayerMove struct {
	Axis      Axis // rotation axis
	Layer     int  // layer index along the axis: -1, 0 or +1
	Direction int  // rotation sign about the axis: +1 or -1
}

// faceLayers is the single source of truth for the mapping between face
// notation and layer rotations. The base directions encode that a move
// notated "clockwise looking at the face" is a negative right-hand-rule
// rotation for faces on the positive side of an axis, and positive for
// faces on the negative side. Nothing else may re-derive these signs.
var faceLayers = map[Face]LayerMove{
	FaceR: {Axis: AxisX, Layer: +1, Direction: -1},
	FaceL: {Axis: AxisX, Layer: -1, Direction: +1},
	FaceU: {Axis: AxisY, Layer: +1, Direction: -1},
	FaceD: {Axis: AxisY, Layer: -1, Direction: +1},
	FaceF: {Axis: AxisZ, Layer: +1, Direction: -1},
	FaceB: {Axis: AxisZ, Layer: -1, Direction: +1},
}

// ResolveFace translates a face letter and inversion flag into a layer
// rotation. Inverting negates the direction (the "prime" move). An
// unrecognized face returns ok=false and the zero LayerMove; callers
// treat that as a no-op rather than an error.
func ResolveFace(face Face, invert bool) (LayerMove, bool) {
	mv, ok := faceLayers[face]
	if !ok {
		return LayerMove{}, false
	}
	if invert {
		mv.Direction = -mv.Direction
	}
	return mv, true
}
