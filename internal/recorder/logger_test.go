package recorder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/SeamusWaldron/cubeviz"
	"github.com/SeamusWaldron/cubeviz/internal/protocol"
)

func TestSessionLoggerDisabled(t *testing.T) {
	l := NewSessionLogger()

	// Must not panic before Start.
	l.LogSessionStart("abc")
	l.LogMove(cubeviz.Move{Face: cubeviz.FaceR, Turn: cubeviz.CW})
	l.LogSessionEnd("abc", true)

	if got := l.FilePath(); got != "" {
		t.Errorf("FilePath = %q, want empty", got)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestSessionLoggerWritesEvents(t *testing.T) {
	dir := t.TempDir()
	l := NewSessionLogger()
	if err := l.Start(dir); err != nil {
		t.Fatalf("failed to start logger: %v", err)
	}

	raw := []byte{0x2A, 0x06, 0x01, 0x08, 0x3B, 0x0D, 0x0A}
	l.LogSessionStart("session-1")
	l.LogMove(cubeviz.Move{Face: cubeviz.FaceR, Turn: cubeviz.CCW, Time: time.Now()})
	l.LogFrame(&protocol.Frame{Type: 0x01, Payload: raw[3:4], Raw: raw}, "rotation: R")
	l.LogSessionEnd("session-1", true)

	path := l.FilePath()
	if err := l.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log: %v", err)
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, append([]byte(nil), scanner.Bytes()...))
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5 (header + 4 events)", len(lines))
	}

	var header map[string]interface{}
	if err := json.Unmarshal(lines[0], &header); err != nil {
		t.Fatalf("failed to parse header: %v", err)
	}
	if header["type"] != "header" || header["version"] != "1.0" {
		t.Errorf("unexpected header: %v", header)
	}

	events := make([]LogEvent, 0, 4)
	for _, line := range lines[1:] {
		var ev LogEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			t.Fatalf("failed to parse event: %v", err)
		}
		events = append(events, ev)
	}

	wantTypes := []LogEventType{LogEventSessionStart, LogEventMove, LogEventFrame, LogEventSessionEnd}
	for i, want := range wantTypes {
		if events[i].EventType != want {
			t.Errorf("event %d type = %s, want %s", i, events[i].EventType, want)
		}
	}

	if events[0].SessionID != "session-1" {
		t.Errorf("start session id = %q", events[0].SessionID)
	}
	if events[1].Notation != "R'" || events[1].Face != "R" || events[1].Turn != -1 {
		t.Errorf("move event = %+v", events[1])
	}
	if events[2].FrameType != 0x01 || !bytes.Equal(events[2].FrameRaw, raw) {
		t.Errorf("frame event did not round-trip raw bytes: %+v", events[2])
	}
	if events[2].Description != "rotation: R" {
		t.Errorf("frame description = %q", events[2].Description)
	}
	if !events[3].Solved {
		t.Error("end event should record solved")
	}
}
