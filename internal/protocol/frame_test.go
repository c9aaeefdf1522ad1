package protocol

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/SeamusWaldron/cubeviz"
)

// buildFrame assembles a well-formed frame around a payload.
func buildFrame(frameType byte, payload []byte) []byte {
	length := byte(1 + len(payload) + 1 + 2)
	data := []byte{framePrefix, length, frameType}
	data = append(data, payload...)

	var checksum byte
	for _, b := range data {
		checksum += b
	}
	return append(data, checksum, frameSuffix1, frameSuffix2)
}

func TestParseFrame(t *testing.T) {
	raw := buildFrame(TypeRotation, []byte{0x08, 0x00})

	frame, err := ParseFrame(raw)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if frame.Type != TypeRotation {
		t.Errorf("Type = 0x%02X, want 0x%02X", frame.Type, TypeRotation)
	}
	if !bytes.Equal(frame.Payload, []byte{0x08, 0x00}) {
		t.Errorf("Payload = %v, want [8 0]", frame.Payload)
	}
	if !bytes.Equal(frame.Raw, raw) {
		t.Errorf("Raw = %v, want %v", frame.Raw, raw)
	}
}

func TestParseFrameEmptyPayload(t *testing.T) {
	frame, err := ParseFrame(buildFrame(TypeState, nil))
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if len(frame.Payload) != 0 {
		t.Errorf("Payload = %v, want empty", frame.Payload)
	}
}

func TestParseFrameDoesNotAliasInput(t *testing.T) {
	raw := buildFrame(TypeBattery, []byte{0x55})

	frame, err := ParseFrame(raw)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}

	// Simulate the BLE stack reusing the notification buffer.
	for i := range raw {
		raw[i] = 0xFF
	}
	if frame.Payload[0] != 0x55 {
		t.Errorf("Payload mutated with input buffer: got 0x%02X", frame.Payload[0])
	}
}

func TestParseFrameErrors(t *testing.T) {
	good := buildFrame(TypeRotation, []byte{0x02, 0x00})

	badPrefix := append([]byte{}, good...)
	badPrefix[0] = 0x2B

	badSuffix := append([]byte{}, good...)
	badSuffix[len(badSuffix)-1] = 0x00

	badChecksum := append([]byte{}, good...)
	badChecksum[len(badChecksum)-3] ^= 0xFF

	truncated := good[:4]

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad prefix", badPrefix, ErrInvalidPrefix},
		{"bad suffix", badSuffix, ErrInvalidSuffix},
		{"bad checksum", badChecksum, ErrInvalidChecksum},
		{"truncated", truncated, ErrFrameTooShort},
		{"declared length exceeds data", []byte{0x2A, 0x20, 0x01, 0x00, 0x00}, ErrInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFrame(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("ParseFrame error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildCommandRoundTrip(t *testing.T) {
	raw := BuildCommand(CmdRequestBattery)

	// Commands use the same framing as notifications minus the type
	// byte, so checksum and delimiters can be verified directly.
	if raw[0] != framePrefix || raw[1] != 0x01 || raw[2] != CmdRequestBattery {
		t.Errorf("unexpected command header: %v", raw)
	}
	if raw[3] != framePrefix+0x01+CmdRequestBattery {
		t.Errorf("checksum = 0x%02X, want 0x%02X", raw[3], framePrefix+0x01+CmdRequestBattery)
	}
	if raw[4] != frameSuffix1 || raw[5] != frameSuffix2 {
		t.Errorf("unexpected suffix: %v", raw[4:])
	}
}

func TestDecodeRotation(t *testing.T) {
	tests := []struct {
		name      string
		faceCode  byte
		wantFace  cubeviz.Face
		clockwise bool
	}{
		{"blue CW is B", 0x00, cubeviz.FaceB, true},
		{"blue CCW is B'", 0x01, cubeviz.FaceB, false},
		{"green CW is F", 0x02, cubeviz.FaceF, true},
		{"white CW is U", 0x04, cubeviz.FaceU, true},
		{"yellow CCW is D'", 0x07, cubeviz.FaceD, false},
		{"red CW is R", 0x08, cubeviz.FaceR, true},
		{"orange CCW is L'", 0x0B, cubeviz.FaceL, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := DecodeRotation([]byte{tt.faceCode, 0x03})
			if err != nil {
				t.Fatalf("DecodeRotation failed: %v", err)
			}
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1", len(events))
			}
			ev := events[0]
			if ev.Face != tt.wantFace {
				t.Errorf("Face = %v, want %v", ev.Face, tt.wantFace)
			}
			if ev.Clockwise != tt.clockwise {
				t.Errorf("Clockwise = %v, want %v", ev.Clockwise, tt.clockwise)
			}
			if ev.CenterOrientation != 0x03 {
				t.Errorf("CenterOrientation = %d, want 3", ev.CenterOrientation)
			}
		})
	}
}

func TestDecodeRotationMulti(t *testing.T) {
	events, err := DecodeRotation([]byte{0x08, 0x00, 0x05, 0x01})
	if err != nil {
		t.Fatalf("DecodeRotation failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Face != cubeviz.FaceR || !events[0].Clockwise {
		t.Errorf("first event = %+v, want R clockwise", events[0])
	}
	if events[1].Face != cubeviz.FaceU || events[1].Clockwise {
		t.Errorf("second event = %+v, want U counter-clockwise", events[1])
	}
}

func TestDecodeRotationErrors(t *testing.T) {
	if _, err := DecodeRotation([]byte{0x08}); err == nil {
		t.Error("expected error for odd-length payload")
	}
	if _, err := DecodeRotation([]byte{0x0C, 0x00}); err == nil {
		t.Error("expected error for out-of-range face code")
	}
}

func TestRotationEventMove(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	events, err := DecodeRotation([]byte{0x09, 0x00})
	if err != nil {
		t.Fatalf("DecodeRotation failed: %v", err)
	}

	move := events[0].Move(now)
	if move.Face != cubeviz.FaceR || move.Turn != cubeviz.CCW {
		t.Errorf("Move = %v, want R'", move)
	}
	if !move.Time.Equal(now) {
		t.Errorf("Time = %v, want %v", move.Time, now)
	}
	if move.Notation() != "R'" {
		t.Errorf("Notation = %q, want R'", move.Notation())
	}
}

func TestDecodeBattery(t *testing.T) {
	ev, err := DecodeBattery([]byte{0x42})
	if err != nil {
		t.Fatalf("DecodeBattery failed: %v", err)
	}
	if ev.Level != 66 {
		t.Errorf("Level = %d, want 66", ev.Level)
	}

	if _, err := DecodeBattery(nil); err == nil {
		t.Error("expected error for empty payload")
	}
}

func TestDecodeCubeType(t *testing.T) {
	ev, err := DecodeCubeType([]byte{0x01})
	if err != nil {
		t.Fatalf("DecodeCubeType failed: %v", err)
	}
	if ev.TypeName != "edge" {
		t.Errorf("TypeName = %q, want edge", ev.TypeName)
	}

	ev, err = DecodeCubeType([]byte{0x00})
	if err != nil {
		t.Fatalf("DecodeCubeType failed: %v", err)
	}
	if ev.TypeName != "standard" {
		t.Errorf("TypeName = %q, want standard", ev.TypeName)
	}
}

func TestDecodeOrientation(t *testing.T) {
	// Identity quaternion: white stays up, green stays in front.
	ev, err := DecodeOrientation([]byte("0#0#0#100"))
	if err != nil {
		t.Fatalf("DecodeOrientation failed: %v", err)
	}
	if ev.UpFace != cubeviz.FaceU {
		t.Errorf("UpFace = %v, want U", ev.UpFace)
	}
	if ev.FrontFace != cubeviz.FaceF {
		t.Errorf("FrontFace = %v, want F", ev.FrontFace)
	}

	// Quarter turn about Z tips the up vector toward -X.
	ev, err = DecodeOrientation([]byte("0#0#71#71"))
	if err != nil {
		t.Fatalf("DecodeOrientation failed: %v", err)
	}
	if ev.UpFace != cubeviz.FaceL {
		t.Errorf("UpFace = %v, want L", ev.UpFace)
	}
	if ev.FrontFace != cubeviz.FaceF {
		t.Errorf("FrontFace = %v, want F", ev.FrontFace)
	}
}

func TestDecodeOrientationTrailingBytes(t *testing.T) {
	ev, err := DecodeOrientation([]byte("12#-34#5#67\x0D\x0A"))
	if err != nil {
		t.Fatalf("DecodeOrientation failed: %v", err)
	}
	if ev.X != 12 || ev.Y != -34 || ev.Z != 5 || ev.W != 67 {
		t.Errorf("components = (%v, %v, %v, %v), want (12, -34, 5, 67)", ev.X, ev.Y, ev.Z, ev.W)
	}
}

func TestDecodeOrientationErrors(t *testing.T) {
	if _, err := DecodeOrientation([]byte("1#2#3")); err == nil {
		t.Error("expected error for missing component")
	}
	if _, err := DecodeOrientation([]byte("a#2#3#4")); err == nil {
		t.Error("expected error for non-numeric component")
	}
}

func TestDecodeOfflineStats(t *testing.T) {
	ev, err := DecodeOfflineStats([]byte("1524#3600#12"))
	if err != nil {
		t.Fatalf("DecodeOfflineStats failed: %v", err)
	}
	if ev.Moves != 1524 || ev.Time != 3600 || ev.Solves != 12 {
		t.Errorf("stats = %+v, want {1524 3600 12}", ev)
	}

	if _, err := DecodeOfflineStats([]byte("1#2")); err == nil {
		t.Error("expected error for missing part")
	}
}

func TestTypeName(t *testing.T) {
	if got := TypeName(TypeRotation); got != "rotation" {
		t.Errorf("TypeName(rotation) = %q", got)
	}
	if got := TypeName(0xEE); got != "unknown_0xEE" {
		t.Errorf("TypeName(0xEE) = %q", got)
	}
}
