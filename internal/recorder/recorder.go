// Package recorder persists engine move streams as sessions.
package recorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/SeamusWaldron/cubeviz"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

// State represents the current state of a recording.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the recording state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Recorder captures completed moves into the session store. Hosts feed
// it from the engine's move-complete callback; it never drives the
// engine itself.
type Recorder struct {
	db *storage.DB

	mu        sync.Mutex
	state     State
	sessionID string
	startTime time.Time
	moveIndex int

	sessionRepo *storage.SessionRepository
	moveRepo    *storage.MoveRepository

	onMove func(cubeviz.Move)
}

// New creates a recorder over an open database.
func New(db *storage.DB) *Recorder {
	return &Recorder{
		db:          db,
		state:       StateIdle,
		sessionRepo: storage.NewSessionRepository(db),
		moveRepo:    storage.NewMoveRepository(db),
	}
}

// SetMoveCallback sets a callback fired after each recorded move.
func (r *Recorder) SetMoveCallback(cb func(cubeviz.Move)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onMove = cb
}

// State returns the current recording state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SessionID returns the current session ID, or "" before Start.
func (r *Recorder) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// ElapsedMs returns milliseconds since the recording started.
func (r *Recorder) ElapsedMs() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return 0
	}
	return time.Since(r.startTime).Milliseconds()
}

// MoveCount returns the number of moves recorded so far.
func (r *Recorder) MoveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.moveIndex
}

// Start opens a new session. Only one recording can be active.
func (r *Recorder) Start(scramble, source, deviceName, notes string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRecording {
		return "", fmt.Errorf("recording already in progress")
	}

	sessionID, err := r.sessionRepo.Create(scramble, source, deviceName, notes)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	r.sessionID = sessionID
	r.startTime = time.Now()
	r.moveIndex = 0
	r.state = StateRecording

	return sessionID, nil
}

// Record stores one completed move. The offset is taken from the
// move's timestamp when set, otherwise from the wall clock.
func (r *Recorder) Record(move cubeviz.Move) error {
	r.mu.Lock()

	if r.state != StateRecording {
		r.mu.Unlock()
		return nil
	}

	var offsetMs int64
	if !move.Time.IsZero() {
		offsetMs = move.Time.Sub(r.startTime).Milliseconds()
	} else {
		offsetMs = time.Since(r.startTime).Milliseconds()
	}
	if offsetMs < 0 {
		offsetMs = 0
	}

	_, err := r.moveRepo.Create(r.sessionID, r.moveIndex, offsetMs, move)
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("failed to store move: %w", err)
	}
	r.moveIndex++
	cb := r.onMove
	r.mu.Unlock()

	if cb != nil {
		cb(move)
	}

	return nil
}

// End closes the session, marking whether the cube finished solved.
func (r *Recorder) End(solved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return fmt.Errorf("no recording in progress")
	}

	if err := r.sessionRepo.End(r.sessionID, solved); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	r.state = StateEnded

	return nil
}
