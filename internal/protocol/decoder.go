package protocol

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/SeamusWaldron/cubeviz"
)

// RotationEvent is a single face rotation reported by the cube.
type RotationEvent struct {
	FaceCode          byte         // Raw face+direction code (0x00-0x0B)
	CenterOrientation byte         // Center piece orientation
	Clockwise         bool         // Direction of rotation
	Face              cubeviz.Face // Face in standard notation, White-up Green-front
	Color             string       // Center color name, for logs
}

// Move converts the event to an engine move stamped at t.
func (e RotationEvent) Move(t time.Time) cubeviz.Move {
	turn := cubeviz.CCW
	if e.Clockwise {
		turn = cubeviz.CW
	}
	return cubeviz.Move{Face: e.Face, Turn: turn, Time: t}
}

// BatteryEvent is a battery level notification.
type BatteryEvent struct {
	Level int // 0-100 percentage
}

// CubeTypeEvent is a cube type notification.
type CubeTypeEvent struct {
	TypeCode byte
	TypeName string
}

// OrientationEvent is a whole-cube orientation notification.
type OrientationEvent struct {
	X float64
	Y float64
	Z float64
	W float64

	// Derived discrete orientation
	UpFace    cubeviz.Face // Face currently pointing up
	FrontFace cubeviz.Face // Face currently toward the solver
}

// OfflineStatsEvent reports statistics accumulated while disconnected.
type OfflineStatsEvent struct {
	Moves  int
	Time   int // seconds
	Solves int
}

// Center color index to face, assuming White on top and Green in front.
var colorFaces = map[byte]cubeviz.Face{
	0: cubeviz.FaceB, // blue
	1: cubeviz.FaceF, // green
	2: cubeviz.FaceU, // white
	3: cubeviz.FaceD, // yellow
	4: cubeviz.FaceR, // red
	5: cubeviz.FaceL, // orange
}

var colorNames = map[byte]string{
	0: "blue",
	1: "green",
	2: "white",
	3: "yellow",
	4: "red",
	5: "orange",
}

// DecodeRotation decodes a rotation payload into rotation events.
// Rotation payloads contain pairs of bytes: [face_dir] [center_orientation].
// Even face codes are clockwise, odd are counter-clockwise.
func DecodeRotation(payload []byte) ([]RotationEvent, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("rotation payload must have even length, got %d", len(payload))
	}

	var events []RotationEvent
	for i := 0; i < len(payload); i += 2 {
		faceCode := payload[i]
		centerOrient := payload[i+1]

		// Face codes run 0x00-0x0B, two per center color.
		clockwise := faceCode%2 == 0
		colorIdx := faceCode / 2

		face, ok := colorFaces[colorIdx]
		if !ok {
			return nil, fmt.Errorf("unknown color index %d from face code 0x%02X", colorIdx, faceCode)
		}

		events = append(events, RotationEvent{
			FaceCode:          faceCode,
			CenterOrientation: centerOrient,
			Clockwise:         clockwise,
			Face:              face,
			Color:             colorNames[colorIdx],
		})
	}

	return events, nil
}

// DecodeBattery decodes a battery payload.
func DecodeBattery(payload []byte) (*BatteryEvent, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("battery payload too short")
	}
	return &BatteryEvent{
		Level: int(payload[0]),
	}, nil
}

// DecodeCubeType decodes a cube type payload.
func DecodeCubeType(payload []byte) (*CubeTypeEvent, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("cube type payload too short")
	}

	typeName := "standard"
	if payload[0] == 0x01 {
		typeName = "edge"
	}

	return &CubeTypeEvent{
		TypeCode: payload[0],
		TypeName: typeName,
	}, nil
}

// DecodeOrientation decodes an orientation payload.
// Format: ASCII string "x#y#z#w" of raw integer quaternion components.
// The w part may carry trailing non-numeric bytes, which are ignored.
func DecodeOrientation(payload []byte) (*OrientationEvent, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 4 {
		return nil, fmt.Errorf("orientation payload must have 4 parts, got %d", len(parts))
	}

	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid x value: %w", err)
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid y value: %w", err)
	}
	z, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid z value: %w", err)
	}

	w, err := strconv.ParseFloat(extractNumeric(parts[3]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid w value: %w", err)
	}

	event := &OrientationEvent{X: x, Y: y, Z: z, W: w}
	event.UpFace, event.FrontFace = quaternionToFaces(x, y, z, w)

	return event, nil
}

// extractNumeric returns the leading numeric run of s, with optional minus sign.
func extractNumeric(s string) string {
	var result strings.Builder
	for i, r := range s {
		if r == '-' && i == 0 {
			result.WriteRune(r)
		} else if r >= '0' && r <= '9' {
			result.WriteRune(r)
		} else if r == '.' {
			result.WriteRune(r)
		} else {
			break
		}
	}
	return result.String()
}

// quaternionToFaces derives which faces point up and toward the solver.
func quaternionToFaces(x, y, z, w float64) (upFace, frontFace cubeviz.Face) {
	// The cube sends raw integer components; normalize first.
	mag := math.Sqrt(x*x + y*y + z*z + w*w)
	if mag > 0 {
		x /= mag
		y /= mag
		z /= mag
		w /= mag
	}

	// Rotate the up vector (0, 1, 0) by the quaternion.
	upX := 2 * (x*y - w*z)
	upY := 1 - 2*(x*x+z*z)
	upZ := 2 * (y*z + w*x)

	// Rotate the front vector (0, 0, 1) by the quaternion.
	frontX := 2 * (x*z + w*y)
	frontY := 2 * (y*z - w*x)
	frontZ := 1 - 2*(x*x+y*y)

	return vectorToFace(upX, upY, upZ), vectorToFace(frontX, frontY, frontZ)
}

// vectorToFace picks the face whose outward normal is closest to the vector.
func vectorToFace(x, y, z float64) cubeviz.Face {
	absX := math.Abs(x)
	absY := math.Abs(y)
	absZ := math.Abs(z)

	if absY >= absX && absY >= absZ {
		if y > 0 {
			return cubeviz.FaceU
		}
		return cubeviz.FaceD
	}
	if absZ >= absX && absZ >= absY {
		if z > 0 {
			return cubeviz.FaceF
		}
		return cubeviz.FaceB
	}
	if x > 0 {
		return cubeviz.FaceR
	}
	return cubeviz.FaceL
}

// DecodeOfflineStats decodes an offline stats payload.
// Format: ASCII string "moves#seconds#solves".
func DecodeOfflineStats(payload []byte) (*OfflineStatsEvent, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 3 {
		return nil, fmt.Errorf("offline stats payload must have 3 parts, got %d", len(parts))
	}

	moves, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid moves value: %w", err)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid time value: %w", err)
	}
	solves, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("invalid solves value: %w", err)
	}

	return &OfflineStatsEvent{
		Moves:  moves,
		Time:   seconds,
		Solves: solves,
	}, nil
}
