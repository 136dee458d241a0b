// Package storage persists scores and finished runs in SQLite through the
// pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteTimeLayout is how CURRENT_TIMESTAMP comes back when the driver
// returns a string.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// migrations run in order on every Open; each must be idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scores_board ON scores(game_id, score DESC)`,
	`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		game_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		wave INTEGER NOT NULL DEFAULT 0,
		lives INTEGER NOT NULL DEFAULT 0,
		money INTEGER NOT NULL DEFAULT 0,
		kills INTEGER NOT NULL DEFAULT 0,
		score INTEGER NOT NULL DEFAULT 0,
		duration_secs INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(game_id, wave DESC, score DESC)`,
}

// Store is an open runs database. It is safe for concurrent use, so one
// Store can serve every SSH session.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one plain score.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// Open opens the database at dbPath, creating it and its directory when
// missing. A leading ~ is the home directory.
func Open(dbPath string) (*Store, error) {
	path, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory for %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func expandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, rest), nil
}

func (s *Store) migrate() error {
	for i, stmt := range migrations {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("storage: migration %d failed: %w", i, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveScore records a plain score for boards without a run summary and
// returns its row ID.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	res, err := s.db.Exec("INSERT INTO scores (game_id, score) VALUES (?, ?)", gameID, score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores returns a board's best plain scores.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at FROM scores
		 WHERE game_id = ? ORDER BY score DESC, id ASC LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreEntry
	for rows.Next() {
		var (
			e  ScoreEntry
			at any
		)
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &at); err != nil {
			return nil, fmt.Errorf("storage: cannot scan score: %w", err)
		}
		e.CreatedAt = parseTime(at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// HighScore returns the highest score for the given game, or 0.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes all scores and runs for the given game.
func (s *Store) ClearScores(gameID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// GameStats aggregates a board's plain scores.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats aggregates one board's scores. A board without scores gets
// zero stats.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	all, err := s.scoreStats("WHERE game_id = ?", gameID)
	if err != nil {
		return nil, err
	}
	if st, ok := all[gameID]; ok {
		return st, nil
	}
	return &GameStats{GameID: gameID}, nil
}

// GetAllGamesStats aggregates the scores of every board that has any.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	return s.scoreStats("")
}

func (s *Store) scoreStats(where string, args ...any) (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores `+where+` GROUP BY game_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot aggregate scores: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var (
			gs   GameStats
			last any
		)
		if err := rows.Scan(&gs.GameID, &gs.GamesCount, &gs.HighScore, &gs.AvgScore, &gs.TotalScore, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats: %w", err)
		}
		gs.LastPlayed = parseTime(last)
		stats[gs.GameID] = &gs
	}
	return stats, rows.Err()
}

// parseTime accepts either driver representation of a DATETIME.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
