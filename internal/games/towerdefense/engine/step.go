package engine

import (
	"fmt"
	"math"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusPlaying  Status = "playing"
	StatusPaused   Status = "paused"
	StatusGameOver Status = "gameOver"
	StatusVictory  Status = "victory"
)

// Terminal reports whether only a reset can leave this status.
func (s Status) Terminal() bool {
	return s == StatusGameOver || s == StatusVictory
}

// State is everything a tick reads and writes.
type State struct {
	Status   Status
	Money    int
	Lives    int
	Score    int // bounty earned from kills
	Kills    int
	Tick     uint64
	Elapsed  float64 // seconds of play
	Grid     *Grid
	Path     Path // derived from Grid; shared, never mutated
	Registry *Registry
	Wave     Wave
}

// Clone returns a copy that shares nothing mutable with s.
func (s State) Clone() State {
	out := s
	if s.Grid != nil {
		out.Grid = s.Grid.Clone()
	}
	if s.Registry != nil {
		out.Registry = s.Registry.Clone()
	}
	return out
}

// Attack records one tower firing.
type Attack struct {
	TowerID EntityID
	Targets []EntityID
	Chained []EntityID
	Kills   []EntityID
}

// TickReport lists what happened during one Step.
type TickReport struct {
	Tick        uint64
	Spawned     EntityID
	Escaped     []EntityID
	Attacks     []Attack
	BurnKills   []EntityID
	MoneyEarned int
	WaveCleared int // number of the wave that completed this tick, or 0
	WaveStarted int // number of the wave installed this tick, or 0
	Status      Status
}

// Simulation is the pure tick function bound to a rule set.
type Simulation struct {
	rules    Rules
	director *Director
	resolver *Resolver
}

// NewSimulation binds a rule set.
func NewSimulation(r Rules) *Simulation {
	return &Simulation{
		rules:    r,
		director: NewDirector(r),
		resolver: NewResolver(r),
	}
}

// Step advances a playing state by dt seconds and returns the next state.
// prev is never modified: the step runs on a clone, so on error the caller
// simply keeps prev. Non-playing states are returned unchanged.
//
// Order within a tick:
//  1. wave spawn
//  2. movement and escapes
//  3. towers in ID order: cooldown decay, then targeting and combat
//  4. status effect decay and burn damage
//  5. corpse cleanup
//  6. defeat, else wave completion and advance or victory
func (sim *Simulation) Step(prev State, dt float64) (State, TickReport, error) {
	if dt < 0 || math.IsNaN(dt) {
		return prev, TickReport{}, ErrNegativeDelta
	}
	if prev.Status != StatusPlaying {
		return prev, TickReport{Tick: prev.Tick, Status: prev.Status}, nil
	}

	next := prev.Clone()
	next.Tick++
	next.Elapsed += dt
	reg := next.Registry
	report := TickReport{Tick: next.Tick}

	reg.AgeCorpses(dt)

	next.Wave, report.Spawned = sim.director.Tick(next.Wave, dt*1000, next.Path, reg)

	report.Escaped = moveMinions(reg, next.Path, dt)
	next.Lives = max(0, next.Lives-len(report.Escaped))

	for i := range reg.towers {
		t := &reg.towers[i]
		t.CurrentCooldown = math.Max(0, t.CurrentCooldown-dt)
		if t.CurrentCooldown > 0 {
			continue
		}
		targets := TargetsFor(*t, reg.minions)
		if len(targets) == 0 {
			t.TargetID = NoEntity
			continue
		}
		out, err := sim.resolver.ApplyAttack(reg, t.ID, targets)
		if err != nil {
			return prev, TickReport{}, fmt.Errorf("tick %d: %w", next.Tick, err)
		}
		next.credit(out)
		report.MoneyEarned += out.MoneyDelta
		report.Attacks = append(report.Attacks, Attack{
			TowerID: t.ID,
			Targets: targets,
			Chained: out.Chained,
			Kills:   out.Kills,
		})
	}

	burn := sim.resolver.DecayEffects(reg, dt)
	next.credit(burn)
	report.MoneyEarned += burn.MoneyDelta
	report.BurnKills = burn.Kills

	reg.PruneDead(sim.rules.CorpseLinger)

	switch {
	case next.Lives <= 0:
		next.Status = StatusGameOver
	case Complete(next.Wave, reg):
		report.WaveCleared = next.Wave.Number
		if w, ok := sim.director.Advance(next.Wave.Number); ok {
			next.Wave = w
			report.WaveStarted = w.Number
		} else {
			next.Status = StatusVictory
		}
	}

	report.Status = next.Status
	return next, report, nil
}

func (s *State) credit(out AttackOutcome) {
	s.Money += out.MoneyDelta
	s.Score += out.MoneyDelta
	s.Kills += len(out.Kills)
}
