// Package protocol implements the GoCube BLE wire protocol. Frames
// arriving on the notify characteristic are parsed here and decoded
// into events the engine can mirror.
package protocol

import (
	"errors"
	"fmt"
)

// GoCube BLE service and characteristic UUIDs (Nordic UART layout).
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	TxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // Notify
	RxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // Write
)

// Frame type identifiers.
const (
	TypeRotation     byte = 0x01
	TypeState        byte = 0x02
	TypeOrientation  byte = 0x03
	TypeBattery      byte = 0x05
	TypeOfflineStats byte = 0x07
	TypeCubeType     byte = 0x08
)

// Command codes written to the RX characteristic.
const (
	CmdRequestBattery       byte = 0x32
	CmdRequestState         byte = 0x33
	CmdReboot               byte = 0x34
	CmdResetSolved          byte = 0x35
	CmdDisableOrientation   byte = 0x37
	CmdEnableOrientation    byte = 0x38
	CmdRequestOfflineStats  byte = 0x39
	CmdFlashBacklight       byte = 0x41
	CmdToggleAnimatedBL     byte = 0x42
	CmdSlowFlashBacklight   byte = 0x43
	CmdToggleBacklight      byte = 0x44
	CmdRequestCubeType      byte = 0x56
	CmdCalibrateOrientation byte = 0x57
)

// Frame delimiter bytes.
const (
	framePrefix  byte = 0x2A // '*'
	frameSuffix1 byte = 0x0D // CR
	frameSuffix2 byte = 0x0A // LF
)

// Errors
var (
	ErrInvalidPrefix   = errors.New("invalid frame prefix")
	ErrInvalidSuffix   = errors.New("invalid frame suffix")
	ErrInvalidChecksum = errors.New("invalid checksum")
	ErrFrameTooShort   = errors.New("frame too short")
	ErrInvalidLength   = errors.New("invalid frame length")
)

// Frame is a parsed BLE notification.
type Frame struct {
	Type    byte   // Frame type identifier
	Payload []byte // Payload without framing overhead
	Raw     []byte // Complete frame bytes, for session logs
}

// ParseFrame parses a raw BLE notification.
// Frame format: [0x2A] [length] [type] [payload...] [checksum] [0x0D 0x0A]
// The length byte counts bytes from position 2 to end (type + payload + checksum + suffix).
// The returned frame does not alias data; notification buffers are reused by the BLE stack.
func ParseFrame(data []byte) (*Frame, error) {
	if len(data) < 5 {
		return nil, ErrFrameTooShort
	}

	if data[0] != framePrefix {
		return nil, ErrInvalidPrefix
	}

	length := int(data[1])

	// Total frame length = prefix(1) + length_byte(1) + length
	expectedLen := 2 + length
	if len(data) < expectedLen {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidLength, expectedLen, len(data))
	}

	// Checksum sits at (length - 1) from the start, suffix follows.
	// The shortest legal frame carries a type byte and empty payload.
	checksumIdx := length - 1
	if checksumIdx < 3 {
		return nil, ErrFrameTooShort
	}

	if data[checksumIdx+1] != frameSuffix1 || data[checksumIdx+2] != frameSuffix2 {
		return nil, ErrInvalidSuffix
	}

	// Checksum is the byte sum of everything before it.
	var checksum byte
	for i := 0; i < checksumIdx; i++ {
		checksum += data[i]
	}
	if checksum != data[checksumIdx] {
		return nil, fmt.Errorf("%w: expected 0x%02X, got 0x%02X", ErrInvalidChecksum, data[checksumIdx], checksum)
	}

	raw := make([]byte, expectedLen)
	copy(raw, data)

	return &Frame{
		Type:    raw[2],
		Payload: raw[3:checksumIdx],
		Raw:     raw,
	}, nil
}

// BuildCommand frames a payload-free command for the RX characteristic.
// Format: [0x2A] [0x01] [cmd] [checksum] [0x0D] [0x0A]
func BuildCommand(cmdCode byte) []byte {
	length := byte(0x01)
	checksum := framePrefix + length + cmdCode

	return []byte{framePrefix, length, cmdCode, checksum, frameSuffix1, frameSuffix2}
}

// TypeName returns a human-readable name for a frame type.
func TypeName(frameType byte) string {
	switch frameType {
	case TypeRotation:
		return "rotation"
	case TypeState:
		return "state"
	case TypeOrientation:
		return "orientation"
	case TypeBattery:
		return "battery"
	case TypeOfflineStats:
		return "offline_stats"
	case TypeCubeType:
		return "cube_type"
	default:
		return fmt.Sprintf("unknown_0x%02X", frameType)
	}
}
