package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubeviz"
)

// MoveRecord represents one move of a session. OffsetMs is measured
// from the session start so replays are independent of wall-clock time.
type MoveRecord struct {
	MoveID    int64
	SessionID string
	MoveIndex int
	OffsetMs  int64
	Face      string
	Turn      int
	Notation  string
}

// MoveRepository provides CRUD operations for move records.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

// Create creates a single move record and returns its ID.
func (r *MoveRepository) Create(sessionID string, moveIndex int, offsetMs int64, move cubeviz.Move) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO moves (session_id, move_index, offset_ms, face, turn, notation)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, moveIndex, offsetMs, string(move.Face), int(move.Turn), move.Notation())

	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}

	return id, nil
}

// CreateBatch inserts moves in a single transaction. Offsets are
// computed from each move's timestamp relative to start; zero-time
// moves get offset 0.
func (r *MoveRepository) CreateBatch(sessionID string, start time.Time, moves []cubeviz.Move, startIndex int) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, move := range moves {
			var offsetMs int64
			if !move.Time.IsZero() {
				offsetMs = move.Time.Sub(start).Milliseconds()
			}
			_, err := tx.Exec(`
				INSERT INTO moves (session_id, move_index, offset_ms, face, turn, notation)
				VALUES (?, ?, ?, ?, ?, ?)
			`, sessionID, startIndex+i, offsetMs, string(move.Face), int(move.Turn), move.Notation())
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", startIndex+i, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves all moves for a session in order.
func (r *MoveRepository) GetBySession(sessionID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, session_id, move_index, offset_ms, face, turn, notation
		FROM moves
		WHERE session_id = ?
		ORDER BY move_index
	`, sessionID)

	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.SessionID, &m.MoveIndex, &m.OffsetMs, &m.Face, &m.Turn, &m.Notation)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}

	return moves, nil
}

// GetNextIndex returns the next move index for a session.
func (r *MoveRepository) GetNextIndex(sessionID string) (int, error) {
	var maxIndex int
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(move_index), -1) FROM moves WHERE session_id = ?
	`, sessionID).Scan(&maxIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to get max move index: %w", err)
	}
	return maxIndex + 1, nil
}

// Count returns the number of moves for a session.
func (r *MoveRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// ToMoves converts records back to engine moves. Timestamps are
// reconstructed from start plus each record's offset.
func ToMoves(records []MoveRecord, start time.Time) []cubeviz.Move {
	moves := make([]cubeviz.Move, len(records))
	for i, r := range records {
		moves[i] = cubeviz.Move{
			Face: cubeviz.Face(r.Face),
			Turn: cubeviz.Turn(r.Turn),
			Time: start.Add(time.Duration(r.OffsetMs) * time.Millisecond),
		}
	}
	return moves
}
