package core

import "time"

// RuntimeConfig is handed to a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // screen width in characters
	ScreenH  int   // screen height in characters
	TickRate int   // simulation ticks per second
	Seed     int64 // unused by deterministic games; kept for replay tooling
}

// DefaultConfig returns an 80x24 screen at 30 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// TickDuration returns the wall-clock length of one tick.
func (c RuntimeConfig) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState is the summary the platform polls after every step.
type GameState struct {
	Score    int
	GameOver bool // the game has ended, won or lost
	Victory  bool // set together with GameOver when the player won
	Paused   bool
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State GameState
}

// Outcome is how a finished run ended.
type Outcome string

const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

// RunSummary describes a finished run for the scoreboard.
type RunSummary struct {
	Outcome  Outcome
	Wave     int // last wave reached
	Lives    int
	Money    int
	Kills    int
	Score    int
	Duration time.Duration // simulated play time
}
