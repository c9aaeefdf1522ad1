package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SeamusWaldron/cubeviz"
	"github.com/SeamusWaldron/cubeviz/internal/recorder"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *cubeviz.Engine {
	return cubeviz.New(cubeviz.WithClock(func() time.Time { return testBase }))
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func notations(moves []cubeviz.Move) []string {
	out := make([]string, len(moves))
	for i, mv := range moves {
		out[i] = mv.Notation()
	}
	return out
}

func TestViewerKeyTurn(t *testing.T) {
	engine := testEngine()
	m := New(engine, nil)

	m.Update(key("r"))
	if !engine.Busy() {
		t.Fatal("expected engine busy after turn key")
	}

	m.Update(tickMsg(testBase.Add(250 * time.Millisecond)))
	if engine.Busy() {
		t.Fatal("expected move to complete")
	}
	if got := notations(m.moves); len(got) != 1 || got[0] != "R" {
		t.Errorf("moves = %v, want [R]", got)
	}
}

func TestViewerShiftedKeyIsPrime(t *testing.T) {
	engine := testEngine()
	m := New(engine, nil)

	m.Update(key("U"))
	m.Update(tickMsg(testBase.Add(250 * time.Millisecond)))

	if got := notations(m.moves); len(got) != 1 || got[0] != "U'" {
		t.Errorf("moves = %v, want [U']", got)
	}
}

func TestViewerBacklogChains(t *testing.T) {
	engine := testEngine()
	m := New(engine, nil)

	m.Update(key("r"))
	m.Update(key("f"))
	if len(m.backlog) != 1 {
		t.Fatalf("backlog = %d, want 1", len(m.backlog))
	}

	m.Update(tickMsg(testBase.Add(250 * time.Millisecond)))
	if !engine.Busy() {
		t.Fatal("expected second move submitted from completion callback")
	}
	m.Update(tickMsg(testBase.Add(500 * time.Millisecond)))

	want := []string{"R", "F"}
	got := notations(m.moves)
	if len(got) != len(want) {
		t.Fatalf("moves = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestViewerScrambleDrains(t *testing.T) {
	engine := testEngine()
	m := New(engine, nil)

	m.Update(key("s"))
	if !engine.Busy() {
		t.Fatal("expected scramble to start animating")
	}
	queued := 1 + len(m.backlog)

	now := testBase
	for i := 0; i < 100 && (engine.Busy() || len(m.backlog) > 0); i++ {
		now = now.Add(250 * time.Millisecond)
		m.Update(tickMsg(now))
	}

	if engine.Busy() || len(m.backlog) > 0 {
		t.Fatal("scramble did not drain")
	}
	if len(m.moves) != queued {
		t.Errorf("completed %d moves, queued %d", len(m.moves), queued)
	}
	if len(m.moves) < scrambleMoves {
		t.Errorf("completed %d moves, want at least %d", len(m.moves), scrambleMoves)
	}
}

func TestViewerReset(t *testing.T) {
	engine := testEngine()
	m := New(engine, nil)

	m.Update(key("r"))
	m.Update(tickMsg(testBase.Add(250 * time.Millisecond)))
	if engine.IsSolved() {
		t.Fatal("expected scrambled cube before reset")
	}

	m.Update(key("z"))
	if !engine.IsSolved() {
		t.Error("expected solved cube after reset")
	}
	if len(m.moves) != 0 {
		t.Errorf("moves not cleared: %v", notations(m.moves))
	}
}

func TestViewerResetWhileAnimating(t *testing.T) {
	engine := testEngine()
	m := New(engine, nil)

	m.Update(key("r"))
	m.Update(key("z"))

	if !errors.Is(m.err, cubeviz.ErrEngineBusy) {
		t.Errorf("err = %v, want ErrEngineBusy", m.err)
	}
	if len(m.backlog) != 0 {
		t.Error("expected backlog cleared")
	}
}

func TestViewerOrbit(t *testing.T) {
	engine := testEngine()
	m := New(engine, nil)

	yaw := m.cam.Yaw
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.cam.Yaw == yaw {
		t.Error("expected yaw to change on left arrow")
	}
}

func TestViewerViewRenders(t *testing.T) {
	engine := testEngine()
	m := New(engine, nil)

	out := m.View()
	if out == "" {
		t.Fatal("empty view")
	}
	for _, want := range []string{"cubeviz", "solved", "scramble"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewerRecorderWiring(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer db.Close()
	if err := db.MigrateUp(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	rec := recorder.New(db)
	if _, err := rec.Start("", storage.SourceManual, "", ""); err != nil {
		t.Fatalf("failed to start session: %v", err)
	}

	engine := testEngine()
	m := New(engine, rec)

	m.Update(key("r"))
	m.Update(tickMsg(testBase.Add(250 * time.Millisecond)))
	m.Update(key("u"))
	m.Update(tickMsg(testBase.Add(500 * time.Millisecond)))

	if got := rec.MoveCount(); got != 2 {
		t.Errorf("recorded %d moves, want 2", got)
	}

	m.Update(key("q"))
	if rec.State() != recorder.StateEnded {
		t.Errorf("state = %v, want ended", rec.State())
	}
}

func TestReplayPlaysRecords(t *testing.T) {
	engine := testEngine()
	records := []storage.MoveRecord{
		{MoveIndex: 0, OffsetMs: 0, Face: "R", Turn: 1, Notation: "R"},
		{MoveIndex: 1, OffsetMs: 400, Face: "U", Turn: -1, Notation: "U'"},
		{MoveIndex: 2, OffsetMs: 900, Face: "F", Turn: 2, Notation: "F2"},
	}
	m := NewReplay(engine, nil, nil, records, 1.0)

	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected init command")
	}

	m.Update(replayMoveMsg{index: 0})
	if m.index != 1 || !engine.Busy() {
		t.Fatalf("index = %d, busy = %v after first move", m.index, engine.Busy())
	}
	m.Update(tickMsg(testBase.Add(200 * time.Millisecond)))

	// A timer armed before a restart would carry an old index.
	m.Update(replayMoveMsg{index: 0})
	if m.index != 1 {
		t.Errorf("stale message advanced cursor to %d", m.index)
	}

	m.Update(replayMoveMsg{index: 1})
	m.Update(tickMsg(testBase.Add(400 * time.Millisecond)))

	m.Update(replayMoveMsg{index: 2})
	m.Update(tickMsg(testBase.Add(600 * time.Millisecond)))
	m.Update(tickMsg(testBase.Add(800 * time.Millisecond)))

	want := []string{"R", "U'", "F", "F"}
	got := notations(m.moves)
	if len(got) != len(want) {
		t.Fatalf("moves = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d = %s, want %s", i, got[i], want[i])
		}
	}
	if m.index != len(records) {
		t.Errorf("index = %d, want %d", m.index, len(records))
	}
	if m.scheduleNext() != nil {
		t.Error("expected no further scheduling at end of records")
	}
}

func TestReplayPauseAndStep(t *testing.T) {
	engine := testEngine()
	records := []storage.MoveRecord{
		{MoveIndex: 0, OffsetMs: 0, Face: "R", Turn: 1, Notation: "R"},
		{MoveIndex: 1, OffsetMs: 100, Face: "U", Turn: 1, Notation: "U"},
	}
	m := NewReplay(engine, nil, nil, records, 1.0)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !m.paused {
		t.Fatal("expected paused")
	}

	m.Update(replayMoveMsg{index: 0})
	if m.index != 0 {
		t.Error("paused replay should drop scheduled moves")
	}

	m.Update(key("n"))
	if m.index != 1 || !engine.Busy() {
		t.Error("step should play the next move")
	}
}

func TestReplaySpeedClamps(t *testing.T) {
	engine := testEngine()
	m := NewReplay(engine, nil, nil, nil, 1.0)

	for i := 0; i < 10; i++ {
		m.Update(key("+"))
	}
	if m.speed != 16 {
		t.Errorf("speed = %v, want 16", m.speed)
	}
	for i := 0; i < 20; i++ {
		m.Update(key("-"))
	}
	if m.speed != 0.25 {
		t.Errorf("speed = %v, want 0.25", m.speed)
	}
}

func TestReplayRestart(t *testing.T) {
	engine := testEngine()
	records := []storage.MoveRecord{
		{MoveIndex: 0, OffsetMs: 0, Face: "R", Turn: 1, Notation: "R"},
	}
	m := NewReplay(engine, nil, nil, records, 1.0)

	m.Update(replayMoveMsg{index: 0})
	m.Update(tickMsg(testBase.Add(200 * time.Millisecond)))
	if engine.IsSolved() {
		t.Fatal("expected scrambled cube before restart")
	}

	m.Update(key("r"))
	m.Update(tickMsg(testBase.Add(400 * time.Millisecond)))

	if !engine.IsSolved() {
		t.Error("expected solved cube after restart")
	}
	if m.index != 0 || len(m.moves) != 0 {
		t.Errorf("index = %d, moves = %v after restart", m.index, notations(m.moves))
	}
}

func TestReplayRestartReappliesScramble(t *testing.T) {
	engine := testEngine()
	scramble, err := cubeviz.ParseMoves("R U R' U'")
	if err != nil {
		t.Fatal(err)
	}
	records := []storage.MoveRecord{
		{MoveIndex: 0, OffsetMs: 0, Face: "F", Turn: 1, Notation: "F"},
	}
	m := NewReplay(engine, nil, scramble, records, 1.0)
	if m.err != nil {
		t.Fatalf("scramble application failed: %v", m.err)
	}

	start := engine.Grid().Facelets()
	if engine.IsSolved() {
		t.Fatal("expected scrambled start state")
	}
	if len(m.moves) != 0 {
		t.Fatalf("scramble leaked into move list: %v", notations(m.moves))
	}

	m.Update(replayMoveMsg{index: 0})
	m.Update(tickMsg(testBase.Add(200 * time.Millisecond)))

	m.Update(key("r"))
	m.Update(tickMsg(testBase.Add(400 * time.Millisecond)))

	if got := engine.Grid().Facelets(); got != start {
		t.Error("restart should return to the scrambled start state")
	}
	if m.index != 0 || len(m.moves) != 0 {
		t.Errorf("index = %d, moves = %v after restart", m.index, notations(m.moves))
	}
}
