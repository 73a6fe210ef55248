package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tilt-platformer/internal/game"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestRecordResultAndTopScores(t *testing.T) {
	store := openTestStore(t)

	results := []game.Result{
		{WorldID: 1, Score: 3, Outcome: game.OutcomeWin, Completed: true},
		{WorldID: 1, Score: 7, Outcome: game.OutcomeLose, Multiplayer: true, PartnerScore: 9, Completed: true},
		{WorldID: 1, Score: 5, Outcome: game.OutcomeDraw, Multiplayer: true, PartnerScore: 5, Completed: true},
		{WorldID: 1, Score: 20, Outcome: game.OutcomeQuit},
		{WorldID: 2, Score: 11, Outcome: game.OutcomeWin, Completed: true},
	}
	for _, r := range results {
		if err := store.RecordResult(r); err != nil {
			t.Fatalf("RecordResult() failed: %v", err)
		}
	}

	top, err := store.TopScores(1, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	// The unfinished run does not count
	if len(top) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(top))
	}
	for i, expected := range []int{7, 5, 3} {
		if top[i].Score != expected {
			t.Errorf("top[%d].Score = %d, expected %d", i, top[i].Score, expected)
		}
	}
	if top[0].Outcome != game.OutcomeLose || !top[0].Multiplayer || top[0].PartnerScore != 9 {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[0].Player != LocalPlayer || top[0].RunID == "" {
		t.Errorf("top[0] player %q run %q", top[0].Player, top[0].RunID)
	}

	high, err := store.HighScore(1)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 7 {
		t.Errorf("HighScore = %d, expected 7", high)
	}
}

func TestTopScoresLimit(t *testing.T) {
	store := openTestStore(t)
	for i := 0; i < 15; i++ {
		if _, err := store.SaveRun(Run{WorldID: 3, Score: i, Outcome: game.OutcomeWin, Completed: true}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopScores(3, 5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 5 || top[0].Score != 14 {
		t.Errorf("got %d runs, first %d", len(top), top[0].Score)
	}

	top, _ = store.TopScores(3, 0)
	if len(top) != 10 {
		t.Errorf("default limit returned %d runs, expected 10", len(top))
	}
}

func TestSinkRecordsPlayer(t *testing.T) {
	store := openTestStore(t)

	sink := store.Sink("alice")
	if err := sink.RecordResult(game.Result{WorldID: 4, Score: 2, Outcome: game.OutcomeTimeout, Completed: true}); err != nil {
		t.Fatalf("RecordResult() failed: %v", err)
	}

	runs, err := store.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Player != "alice" || runs[0].Outcome != game.OutcomeTimeout {
		t.Errorf("runs = %+v", runs)
	}
	if runs[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}
}

func TestRecentRunsOrder(t *testing.T) {
	store := openTestStore(t)
	for world := 1; world <= 3; world++ {
		if _, err := store.SaveRun(Run{WorldID: world, Outcome: game.OutcomeQuit}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 || runs[0].WorldID != 3 || runs[1].WorldID != 2 {
		t.Errorf("unexpected order %+v", runs)
	}
}

func TestDuplicateRunID(t *testing.T) {
	store := openTestStore(t)
	r := Run{RunID: "fixed", WorldID: 1, Outcome: game.OutcomeWin}
	if _, err := store.SaveRun(r); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := store.SaveRun(r); err == nil {
		t.Error("expected error for a duplicate run id")
	}
}

func TestWorldStats(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{WorldID: 1, Score: 4, Outcome: game.OutcomeWin, Completed: true},
		{WorldID: 1, Score: 2, Outcome: game.OutcomeLose, Completed: true},
		{WorldID: 1, Score: 9, Outcome: game.OutcomeQuit},
		{WorldID: 2, Score: 1, Outcome: game.OutcomeWin, Completed: true},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	st, err := store.WorldStats(1)
	if err != nil {
		t.Fatalf("WorldStats() failed: %v", err)
	}
	if st.Runs != 3 || st.Completed != 2 || st.Wins != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.HighScore != 4 || st.AvgScore != 3 {
		t.Errorf("HighScore %d AvgScore %v, expected 4 and 3", st.HighScore, st.AvgScore)
	}
	if st.LastPlayed.IsZero() {
		t.Error("LastPlayed was not parsed")
	}

	empty, err := store.WorldStats(99)
	if err != nil {
		t.Fatalf("WorldStats() failed: %v", err)
	}
	if empty.Runs != 0 || empty.WorldID != 99 {
		t.Errorf("unplayed world stats = %+v", empty)
	}

	all, err := store.AllWorldStats()
	if err != nil {
		t.Fatalf("AllWorldStats() failed: %v", err)
	}
	if len(all) != 2 || all[2].Runs != 1 {
		t.Errorf("all stats = %+v", all)
	}
}

func TestClearRuns(t *testing.T) {
	store := openTestStore(t)
	store.SaveRun(Run{WorldID: 1, Score: 3, Outcome: game.OutcomeWin, Completed: true})
	store.SaveRun(Run{WorldID: 2, Score: 3, Outcome: game.OutcomeWin, Completed: true})

	if err := store.ClearRuns(1); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	top1, _ := store.TopScores(1, 10)
	top2, _ := store.TopScores(2, 10)
	if len(top1) != 0 || len(top2) != 1 {
		t.Errorf("after clear: world 1 has %d runs, world 2 has %d", len(top1), len(top2))
	}
}
