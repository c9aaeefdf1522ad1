package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SeamusWaldron/cubeviz"
	"github.com/SeamusWaldron/cubeviz/internal/protocol"
)

// LogEventType identifies the type of logged event.
type LogEventType string

const (
	LogEventSessionStart LogEventType = "session_start"
	LogEventMove         LogEventType = "move"
	LogEventFrame        LogEventType = "ble_frame"
	LogEventSessionEnd   LogEventType = "session_end"
)

// LogEvent is a single line of the session log. FrameRaw holds the
// whole wire frame; encoding/json emits it base64-encoded.
type LogEvent struct {
	Timestamp   time.Time    `json:"timestamp"`
	ElapsedMs   int64        `json:"elapsed_ms"`
	EventType   LogEventType `json:"event_type"`
	SessionID   string       `json:"session_id,omitempty"`
	Notation    string       `json:"notation,omitempty"`
	Face        string       `json:"face,omitempty"`
	Turn        int          `json:"turn,omitempty"`
	FrameType   byte         `json:"frame_type,omitempty"`
	FrameRaw    []byte       `json:"frame_raw,omitempty"`
	Solved      bool         `json:"solved,omitempty"`
	Description string       `json:"description,omitempty"`
}

// SessionLogger writes session events to a JSONL file, one event per
// line after a header line. Logging is optional: every method is a
// no-op until Start succeeds.
type SessionLogger struct {
	file      *os.File
	startTime time.Time
	enabled   bool
}

// NewSessionLogger creates a disabled logger.
func NewSessionLogger() *SessionLogger {
	return &SessionLogger{}
}

// DefaultLogDir returns the default log directory (~/.cubeviz/logs).
func DefaultLogDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cubeviz", "logs"), nil
}

// Start begins logging to a timestamped file in logDir.
func (l *SessionLogger) Start(logDir string) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := fmt.Sprintf("session_%s.jsonl", time.Now().Format("20060102_150405"))
	file, err := os.Create(filepath.Join(logDir, filename))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	l.file = file
	l.startTime = time.Now()
	l.enabled = true

	header := map[string]interface{}{
		"type":       "header",
		"version":    "1.0",
		"created_at": l.startTime,
	}
	return l.writeJSON(header)
}

// LogSessionStart logs the start of a recording session.
func (l *SessionLogger) LogSessionStart(sessionID string) {
	if !l.enabled || l.file == nil {
		return
	}
	l.writeJSON(LogEvent{
		Timestamp: time.Now(),
		ElapsedMs: time.Since(l.startTime).Milliseconds(),
		EventType: LogEventSessionStart,
		SessionID: sessionID,
	})
}

// LogMove logs a completed move.
func (l *SessionLogger) LogMove(mv cubeviz.Move) {
	if !l.enabled || l.file == nil {
		return
	}
	l.writeJSON(LogEvent{
		Timestamp: time.Now(),
		ElapsedMs: time.Since(l.startTime).Milliseconds(),
		EventType: LogEventMove,
		Notation:  mv.Notation(),
		Face:      string(mv.Face),
		Turn:      int(mv.Turn),
	})
}

// LogFrame logs a raw BLE frame.
func (l *SessionLogger) LogFrame(f *protocol.Frame, description string) {
	if !l.enabled || l.file == nil {
		return
	}
	l.writeJSON(LogEvent{
		Timestamp:   time.Now(),
		ElapsedMs:   time.Since(l.startTime).Milliseconds(),
		EventType:   LogEventFrame,
		FrameType:   f.Type,
		FrameRaw:    f.Raw,
		Description: description,
	})
}

// LogSessionEnd logs the end of a recording session.
func (l *SessionLogger) LogSessionEnd(sessionID string, solved bool) {
	if !l.enabled || l.file == nil {
		return
	}
	l.writeJSON(LogEvent{
		Timestamp: time.Now(),
		ElapsedMs: time.Since(l.startTime).Milliseconds(),
		EventType: LogEventSessionEnd,
		SessionID: sessionID,
		Solved:    solved,
	})
}

func (l *SessionLogger) writeJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = l.file.Write(append(data, '\n'))
	return err
}

// Close closes the log file.
func (l *SessionLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// FilePath returns the current log file path, or "" when disabled.
func (l *SessionLogger) FilePath() string {
	if l.file != nil {
		return l.file.Name()
	}
	return ""
}
