package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is a finished tower defense run.
type Run struct {
	ID        int64
	RunID     string // uuid
	GameID    string
	Outcome   string // "victory" or "defeat"
	Wave      int
	Lives     int
	Money     int
	Kills     int
	Score     int
	Duration  time.Duration
	CreatedAt time.Time
}

// SaveRun records a run and its score in one transaction. A RunID is
// generated when empty. It returns the run ID.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs
		 (run_id, game_id, outcome, wave, lives, money, kills, score, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.GameID, r.Outcome, r.Wave, r.Lives, r.Money, r.Kills, r.Score,
		int64(r.Duration/time.Second),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO scores (game_id, score) VALUES (?, ?)", r.GameID, r.Score); err != nil {
		return "", fmt.Errorf("storage: cannot save score: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return r.RunID, nil
}

const runColumns = `id, run_id, game_id, outcome, wave, lives, money, kills, score, duration_secs, created_at`

// TopRuns returns the best runs for a game: furthest wave first, then
// score, then most lives left.
func (s *Store) TopRuns(gameID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE game_id = ?
		 ORDER BY wave DESC, score DESC, lives DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
}

// RecentRuns returns the latest runs across all games, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// RunByID looks up a run by its uuid. It returns nil when none matches.
func (s *Store) RunByID(runID string) (*Run, error) {
	runs, err := s.queryRuns(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var secs int64
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.GameID, &r.Outcome,
			&r.Wave, &r.Lives, &r.Money, &r.Kills, &r.Score,
			&secs, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan run: %w", err)
		}
		r.Duration = time.Duration(secs) * time.Second
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// RunStats aggregates the runs of one game.
type RunStats struct {
	GameID    string
	Runs      int
	Victories int
	BestWave  int
	BestScore int
	Kills     int
}

// GetRunStats aggregates the runs of a game. A game without runs yields
// zero counts.
func (s *Store) GetRunStats(gameID string) (RunStats, error) {
	st := RunStats{GameID: gameID}
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = 'victory' THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(wave), 0),
		        COALESCE(MAX(score), 0),
		        COALESCE(SUM(kills), 0)
		 FROM runs WHERE game_id = ?`,
		gameID,
	).Scan(&st.Runs, &st.Victories, &st.BestWave, &st.BestScore, &st.Kills)
	if err != nil {
		return st, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	return st, nil
}
