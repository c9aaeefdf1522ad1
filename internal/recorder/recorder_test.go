package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/SeamusWaldron/cubeviz"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "cubeviz.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	return db
}

func TestRecorderLifecycle(t *testing.T) {
	db := openTestDB(t)
	rec := New(db)

	if rec.State() != StateIdle {
		t.Errorf("initial state = %v, want idle", rec.State())
	}

	id, err := rec.Start("R U R'", storage.SourceManual, "", "")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if rec.State() != StateRecording {
		t.Errorf("state after Start = %v, want recording", rec.State())
	}
	if rec.SessionID() != id {
		t.Errorf("SessionID = %q, want %q", rec.SessionID(), id)
	}

	if _, err := rec.Start("", "", "", ""); err == nil {
		t.Error("second Start should fail while recording")
	}

	now := time.Now()
	moves := []cubeviz.Move{
		{Face: cubeviz.FaceR, Turn: cubeviz.CW, Time: now},
		{Face: cubeviz.FaceU, Turn: cubeviz.CW, Time: now.Add(200 * time.Millisecond)},
		{Face: cubeviz.FaceR, Turn: cubeviz.CCW, Time: now.Add(500 * time.Millisecond)},
	}
	for _, m := range moves {
		if err := rec.Record(m); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if rec.MoveCount() != 3 {
		t.Errorf("MoveCount = %d, want 3", rec.MoveCount())
	}

	if err := rec.End(false); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if rec.State() != StateEnded {
		t.Errorf("state after End = %v, want ended", rec.State())
	}

	records, err := storage.NewMoveRepository(db).GetBySession(id)
	if err != nil {
		t.Fatalf("GetBySession failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("stored %d moves, want 3", len(records))
	}
	for i, rec := range records {
		if rec.Notation != moves[i].Notation() {
			t.Errorf("record %d: notation %q, want %q", i, rec.Notation, moves[i].Notation())
		}
	}
	if records[2].OffsetMs < records[1].OffsetMs {
		t.Error("offsets should be non-decreasing")
	}
}

func TestRecordIgnoredWhenIdle(t *testing.T) {
	db := openTestDB(t)
	rec := New(db)

	if err := rec.Record(cubeviz.Move{Face: cubeviz.FaceF, Turn: cubeviz.CW}); err != nil {
		t.Fatalf("Record while idle returned error: %v", err)
	}
	if rec.MoveCount() != 0 {
		t.Errorf("MoveCount = %d, want 0", rec.MoveCount())
	}
}

func TestEndWithoutStart(t *testing.T) {
	db := openTestDB(t)
	rec := New(db)

	if err := rec.End(false); err == nil {
		t.Error("End without Start should fail")
	}
}

func TestMoveCallback(t *testing.T) {
	db := openTestDB(t)
	rec := New(db)

	var got []cubeviz.Move
	rec.SetMoveCallback(func(m cubeviz.Move) {
		got = append(got, m)
	})

	if _, err := rec.Start("", "", "", ""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := rec.Record(cubeviz.Move{Face: cubeviz.FaceB, Turn: cubeviz.CW, Time: time.Now()}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if len(got) != 1 || got[0].Face != cubeviz.FaceB {
		t.Errorf("callback got %v, want one B move", got)
	}
}

func TestStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	sf, err := NewStateFile(path)
	if err != nil {
		t.Fatalf("NewStateFile failed: %v", err)
	}

	if err := sf.SetLastDevice("AA:BB:CC", "GoCube_1234"); err != nil {
		t.Fatalf("SetLastDevice failed: %v", err)
	}

	reloaded, err := NewStateFile(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.LastDeviceID() != "AA:BB:CC" {
		t.Errorf("LastDeviceID = %q, want AA:BB:CC", reloaded.LastDeviceID())
	}
	if reloaded.LastDeviceName() != "GoCube_1234" {
		t.Errorf("LastDeviceName = %q, want GoCube_1234", reloaded.LastDeviceName())
	}
}
