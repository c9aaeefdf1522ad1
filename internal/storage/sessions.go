package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session sources
const (
	SourceManual = "manual" // interactive viewer
	SourcePlay   = "play"   // scripted move sequence
	SourceMirror = "mirror" // physical cube over BLE
)

// Session represents one recorded run of the animated cube.
type Session struct {
	SessionID  string
	StartedAt  time.Time
	EndedAt    *time.Time
	DurationMs *int64
	Scramble   *string
	Source     string
	DeviceName *string
	Notes      *string
	Solved     bool
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session and returns its ID.
func (r *SessionRepository) Create(scramble, source, deviceName, notes string) (string, error) {
	id := uuid.New().String()
	startedAt := time.Now().UTC()

	if source == "" {
		source = SourceManual
	}

	var scramblePtr, deviceNamePtr, notesPtr *string
	if scramble != "" {
		scramblePtr = &scramble
	}
	if deviceName != "" {
		deviceNamePtr = &deviceName
	}
	if notes != "" {
		notesPtr = &notes
	}

	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, started_at, scramble, source, device_name, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, startedAt.Format(time.RFC3339), scramblePtr, source, deviceNamePtr, notesPtr)

	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return id, nil
}

// End marks a session as complete and records whether the cube ended solved.
func (r *SessionRepository) End(sessionID string, solved bool) error {
	endedAt := time.Now().UTC()

	var startedAtStr string
	err := r.db.QueryRow("SELECT started_at FROM sessions WHERE session_id = ?", sessionID).Scan(&startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to get session start time: %w", err)
	}

	startedAt, err := time.Parse(time.RFC3339, startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to parse start time: %w", err)
	}

	durationMs := endedAt.Sub(startedAt).Milliseconds()

	solvedInt := 0
	if solved {
		solvedInt = 1
	}

	_, err = r.db.Exec(`
		UPDATE sessions
		SET ended_at = ?, duration_ms = ?, solved = ?
		WHERE session_id = ?
	`, endedAt.Format(time.RFC3339), durationMs, solvedInt, sessionID)

	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID. Returns nil if not found.
func (r *SessionRepository) Get(sessionID string) (*Session, error) {
	var s Session
	var startedAtStr string
	var endedAtStr sql.NullString
	var solvedInt int

	err := r.db.QueryRow(`
		SELECT session_id, started_at, ended_at, duration_ms, scramble, source, device_name, notes, solved
		FROM sessions
		WHERE session_id = ?
	`, sessionID).Scan(
		&s.SessionID, &startedAtStr, &endedAtStr,
		&s.DurationMs, &s.Scramble, &s.Source,
		&s.DeviceName, &s.Notes, &solvedInt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	s.StartedAt, _ = time.Parse(time.RFC3339, startedAtStr)
	if endedAtStr.Valid {
		t, _ := time.Parse(time.RFC3339, endedAtStr.String)
		s.EndedAt = &t
	}
	s.Solved = solvedInt == 1

	return &s, nil
}

// GetLast retrieves the most recent session. Returns nil if the database is empty.
func (r *SessionRepository) GetLast() (*Session, error) {
	var sessionID string
	err := r.db.QueryRow(`
		SELECT session_id FROM sessions
		ORDER BY started_at DESC
		LIMIT 1
	`).Scan(&sessionID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last session: %w", err)
	}

	return r.Get(sessionID)
}

// List retrieves recent sessions, newest first.
func (r *SessionRepository) List(limit int) ([]Session, error) {
	rows, err := r.db.Query(`
		SELECT session_id, started_at, ended_at, duration_ms, scramble, source, device_name, notes, solved
		FROM sessions
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)

	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var startedAtStr string
		var endedAtStr sql.NullString
		var solvedInt int

		err := rows.Scan(
			&s.SessionID, &startedAtStr, &endedAtStr,
			&s.DurationMs, &s.Scramble, &s.Source,
			&s.DeviceName, &s.Notes, &solvedInt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		s.StartedAt, _ = time.Parse(time.RFC3339, startedAtStr)
		if endedAtStr.Valid {
			t, _ := time.Parse(time.RFC3339, endedAtStr.String)
			s.EndedAt = &t
		}
		s.Solved = solvedInt == 1

		sessions = append(sessions, s)
	}

	return sessions, nil
}

// Delete deletes a session and its moves (cascading).
func (r *SessionRepository) Delete(sessionID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// MoveCount returns the number of moves recorded for a session.
func (r *SessionRepository) MoveCount(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get move count: %w", err)
	}
	return count, nil
}
