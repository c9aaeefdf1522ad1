package cubeviz

import (
	"fmt"
	"sync"
	"time"
)

// Engine is the layer rotation engine: it owns the cube grid and the
// pivot animator, serializes moves so at most one is in flight, and
// signals completion to callers. Hosts drive it by calling Update once
// per frame; the engine never schedules itself.
//
// All state hangs off the Engine value, so independent engines can run
// side by side.
//
// Example:
//
//	e := cubeviz.New()
//	done := e.RotateFace(cubeviz.FaceR, false, 200*time.Millisecond)
//	for e.Update(time.Now()) {
//		time.Sleep(16 * time.Millisecond)
//	}
//	ok := <-done // true
type Engine struct {
	mu   sync.Mutex
	grid *Grid
	anim *animator

	busy    bool
	current Move
	pending chan<- bool

	history        []Move
	historyEnabled bool

	onMoveComplete func(Move)
	onSolved       func()

	clock func() time.Time
}

// New creates an engine with a solved cube.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Engine{
		grid:           NewGrid(cfg.spacing),
		anim:           newAnimator(),
		historyEnabled: cfg.moveHistory,
		clock:          cfg.clock,
	}
}

// RotateFace requests one animated quarter turn of a face; invert turns
// it counter-clockwise (the "prime" move). This is the only mutating
// entry point into the engine.
//
// The returned channel receives exactly one value. A request is refused
// with an immediate false, leaving every transform untouched, when the
// face is unrecognized or another move is still animating; refused
// moves are never queued. An accepted move resolves true once the
// rotation has completed, snapped and fired callbacks.
func (e *Engine) RotateFace(face Face, invert bool, d time.Duration) <-chan bool {
	done := make(chan bool, 1)

	mv, ok := ResolveFace(face, invert)
	if !ok {
		done <- false
		return done
	}

	e.mu.Lock()
	if e.busy || !e.anim.begin(e.grid, mv, d, e.clock()) {
		e.mu.Unlock()
		done <- false
		return done
	}
	e.busy = true
	e.pending = done
	turn := CW
	if invert {
		turn = CCW
	}
	e.current = Move{Face: face, Turn: turn, Time: e.clock()}
	e.mu.Unlock()

	return done
}

// Update advances the animation to the given wall-clock instant. The
// host's frame driver calls it once per frame; tests call it with
// synthetic times. It returns true while a move is still animating.
//
// The tick that completes a move also runs drift correction, clears the
// busy flag, resolves the pending channel and fires callbacks, in that
// order. Callbacks run outside the engine lock.
func (e *Engine) Update(now time.Time) bool {
	e.mu.Lock()
	if !e.busy {
		e.mu.Unlock()
		return false
	}
	if !e.anim.update(now) {
		e.mu.Unlock()
		return true
	}

	e.grid.Snap()
	move := e.current
	pending := e.pending
	e.pending = nil
	e.busy = false
	if e.historyEnabled {
		e.history = append(e.history, move)
	}
	solved := e.grid.IsSolved()
	cbMove := e.onMoveComplete
	cbSolved := e.onSolved
	e.mu.Unlock()

	if pending != nil {
		pending <- true
	}
	if cbMove != nil {
		cbMove(move)
	}
	if solved && cbSolved != nil {
		cbSolved()
	}
	return false
}

// Busy reports whether a move is currently animating.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// Animating returns the in-flight move and its raw progress in [0,1].
func (e *Engine) Animating() (Move, float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, progress, ok := e.anim.animating(); ok {
		return e.current, progress, true
	}
	return Move{}, 0, false
}

// OnMoveComplete sets a callback that fires exactly once per completed
// move, after drift correction.
func (e *Engine) OnMoveComplete(cb func(Move)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onMoveComplete = cb
}

// OnSolved sets a callback that fires whenever a completed move leaves
// the cube solved.
func (e *Engine) OnSolved(cb func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSolved = cb
}

// Grid returns the cube grid for read access: renderers draw each
// frame from the cubies' world transforms. Grouping and pivot state
// are not exposed.
func (e *Engine) Grid() *Grid {
	return e.grid
}

// ApplyMoves applies moves instantly, without animation, expanding half
// turns into quarter pairs. It fails if a move is invalid or an
// animated move is already in flight.
func (e *Engine) ApplyMoves(moves ...Move) error {
	for _, m := range moves {
		if !m.IsValid() {
			return fmt.Errorf("failed to apply %q: %w", m.Notation(), ErrInvalidMove)
		}
		for _, q := range m.Quarters() {
			done := e.RotateFace(q.Face, q.Turn == CCW, 0)
			e.Update(e.clock())
			if !<-done {
				return fmt.Errorf("failed to apply %s: %w", m.Notation(), ErrEngineBusy)
			}
		}
	}
	return nil
}

// ApplyNotation parses a notation string and applies it instantly.
// Example: "R U R' U'"
func (e *Engine) ApplyNotation(s string) error {
	moves, err := ParseMoves(s)
	if err != nil {
		return err
	}
	return e.ApplyMoves(moves...)
}

// Reset returns the cube to the solved state. Refused while a move is
// animating.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return ErrEngineBusy
	}
	e.grid.Reset()
	return nil
}

// IsSolved reports whether every face shows a single color.
func (e *Engine) IsSolved() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.IsSolved()
}

// Progress reports coarse solve progress.
func (e *Engine) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Progress()
}

// MoveHistory returns a copy of the completed moves, oldest first.
// Empty unless history is enabled (the default; see WithMoveHistory).
func (e *Engine) MoveHistory() []Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Move, len(e.history))
	copy(out, e.history)
	return out
}

// ClearMoveHistory discards the recorded moves.
func (e *Engine) ClearMoveHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
}
