package cubeviz

// Color represents a sticker color.
type Color byte

const (
	White  Color = 0 // Up face when solved
	Yellow Color = 1 // Down face when solved
	Green  Color = 2 // Front face when solved
	Blue   Color = 3 // Back face when solved
	Red    Color = 4 // Right face when solved
	Orange Color = 5 // Left face when solved
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	default:
		return "?"
	}
}

// CubeFace indexes a face of the cube model.
// This is distinct from Face, which is used for move notation.
type CubeFace int

const (
	CubeFaceU CubeFace = 0 // Up (White)
	CubeFaceD CubeFace = 1 // Down (Yellow)
	CubeFaceF CubeFace = 2 // Front (Green)
	CubeFaceB CubeFace = 3 // Back (Blue)
	CubeFaceR CubeFace = 4 // Right (Red)
	CubeFaceL CubeFace = 5 // Left (Orange)
)

func (f CubeFace) String() string {
	switch f {
	case CubeFaceU:
		return "U"
	case CubeFaceD:
		return "D"
	case CubeFaceF:
		return "F"
	case CubeFaceB:
		return "B"
	case CubeFaceR:
		return "R"
	case CubeFaceL:
		return "L"
	default:
		return "?"
	}
}

// solvedColor returns the color of a face when solved:
// White on top, Green in front.
func solvedColor(f CubeFace) Color {
	switch f {
	case CubeFaceU:
		return White
	case CubeFaceD:
		return Yellow
	case CubeFaceF:
		return Green
	case CubeFaceB:
		return Blue
	case CubeFaceR:
		return Red
	case CubeFaceL:
		return Orange
	default:
		return White
	}
}
