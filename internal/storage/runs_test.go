package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSaveRunGeneratesID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(Run{
		GameID:   "td",
		Outcome:  "victory",
		Wave:     15,
		Lives:    12,
		Money:    340,
		Kills:    48,
		Score:    610,
		Duration: 95 * time.Second,
	})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("run id %q is not a uuid: %v", id, err)
	}

	got, err := store.RunByID(id)
	if err != nil || got == nil {
		t.Fatalf("RunByID = %v, %v", got, err)
	}
	if got.Wave != 15 || got.Kills != 48 || got.Duration != 95*time.Second || got.Outcome != "victory" {
		t.Errorf("stored run = %+v", got)
	}

	// the run's score also lands on the scoreboard
	if high, _ := store.HighScore("td"); high != 610 {
		t.Errorf("high score = %d, expected 610", high)
	}
}

func TestRunByIDMissing(t *testing.T) {
	store := openTestStore(t)
	got, err := store.RunByID("nope")
	if err != nil || got != nil {
		t.Errorf("RunByID(missing) = %v, %v", got, err)
	}
}

func TestSaveRunDuplicateIDRollsBack(t *testing.T) {
	store := openTestStore(t)
	run := Run{RunID: uuid.NewString(), GameID: "td", Outcome: "defeat", Score: 10}
	if _, err := store.SaveRun(run); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun(run); err == nil {
		t.Fatal("expected duplicate run id to fail")
	}
	scores, _ := store.TopScores("td", 100)
	if len(scores) != 1 {
		t.Errorf("failed SaveRun left %d scores, expected 1", len(scores))
	}
}

func TestTopRunsOrdering(t *testing.T) {
	store := openTestStore(t)
	runs := []Run{
		{GameID: "td", Outcome: "defeat", Wave: 4, Score: 90},
		{GameID: "td", Outcome: "defeat", Wave: 7, Score: 50},
		{GameID: "td", Outcome: "defeat", Wave: 7, Score: 80},
		{GameID: "td_maze", Outcome: "victory", Wave: 15, Score: 999},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatal(err)
		}
	}

	top, err := store.TopRuns("td", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 3 {
		t.Fatalf("got %d runs, expected 3", len(top))
	}
	want := []int{80, 50, 90}
	for i, r := range top {
		if r.Score != want[i] {
			t.Errorf("top[%d].Score = %d, expected %d", i, r.Score, want[i])
		}
	}

	recent, _ := store.RecentRuns(2)
	if len(recent) != 2 || recent[0].GameID != "td_maze" {
		t.Errorf("recent = %+v", recent)
	}
}

func TestRunStatsAndClear(t *testing.T) {
	store := openTestStore(t)
	store.SaveRun(Run{GameID: "td", Outcome: "victory", Wave: 15, Score: 300, Kills: 40})
	store.SaveRun(Run{GameID: "td", Outcome: "defeat", Wave: 9, Score: 120, Kills: 22})

	st, err := store.GetRunStats("td")
	if err != nil {
		t.Fatal(err)
	}
	if st.Runs != 2 || st.Victories != 1 || st.BestWave != 15 || st.BestScore != 300 || st.Kills != 62 {
		t.Errorf("stats = %+v", st)
	}

	if err := store.ClearScores("td"); err != nil {
		t.Fatal(err)
	}
	st, _ = store.GetRunStats("td")
	if st.Runs != 0 {
		t.Errorf("runs after clear = %d", st.Runs)
	}
	if scores, _ := store.TopScores("td", 100); len(scores) != 0 {
		t.Errorf("scores after clear = %d", len(scores))
	}
}
