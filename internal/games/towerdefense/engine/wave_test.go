package engine

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-towerdefense/internal/config"
)

func TestDirectorAdvance(t *testing.T) {
	d := NewDirector(DefaultRules())
	if d.Count() != 15 {
		t.Fatalf("Count = %d, want 15", d.Count())
	}

	w, ok := d.Advance(0)
	if !ok || w.Number != 1 {
		t.Fatalf("Advance(0) = %+v, %v", w, ok)
	}
	if w.TotalCount != len(w.MinionTypes) || w.SpawnedCount != 0 {
		t.Errorf("fresh wave counts: %+v", w)
	}

	if _, ok := d.Advance(15); ok {
		t.Error("Advance past the last wave should report exhaustion")
	}
}

func TestDirectorSpawnsOnInterval(t *testing.T) {
	rules := DefaultRules()
	rules.Waves = []WaveConfig{{Minions: []MinionType{MinionGrunt, MinionRunner}, IntervalMs: 1000}}
	d := NewDirector(rules)
	path := ExtractPath(ApplyDefaultPath(NewGrid(16, 16)))
	reg := NewRegistry()

	w, _ := d.Advance(0)
	w, id := d.Tick(w, 600, path, reg)
	if id != NoEntity {
		t.Fatal("spawned before the interval elapsed")
	}
	w, id = d.Tick(w, 600, path, reg)
	if id == NoEntity {
		t.Fatal("expected a spawn once 1000ms accumulated")
	}
	if w.TimeSinceLastSpawnMs != 0 {
		t.Errorf("accumulator not reset: %v", w.TimeSinceLastSpawnMs)
	}

	m, _ := reg.Minion(id)
	if m.Type != MinionGrunt || m.Pos != path.Entry().Vec() || m.PathIndex != 0 {
		t.Errorf("spawned %+v", m)
	}

	w, id = d.Tick(w, 5000, path, reg)
	if id == NoEntity {
		t.Fatal("second minion did not spawn")
	}
	w, id = d.Tick(w, 5000, path, reg)
	if id != NoEntity {
		t.Error("spawned past the wave size")
	}
	if w.Remaining() != 0 {
		t.Errorf("Remaining = %d", w.Remaining())
	}
}

func TestWaveComplete(t *testing.T) {
	reg := NewRegistry()
	w := Wave{Number: 1, TotalCount: 1, SpawnedCount: 1}
	reg.AddMinion(Minion{ID: reg.NextID()})
	if Complete(w, reg) {
		t.Error("complete with a living minion")
	}
	m, _ := reg.Minion(1)
	m.Dead = true
	if !Complete(w, reg) {
		t.Error("not complete once all minions are dead")
	}
	w.TotalCount = 2
	if Complete(w, reg) {
		t.Error("complete with spawns outstanding")
	}
}

func TestDifficultyScalesHealth(t *testing.T) {
	rules := DefaultRules()
	rules.Waves = []WaveConfig{
		{Minions: []MinionType{MinionGrunt}},
		{Minions: []MinionType{MinionGrunt}},
	}
	rules.Difficulty = config.DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0,
		Progression:  config.ProgressionConfig{Type: "wave", MaxAt: 2},
		Scaling:      config.ScalingConfig{HealthMultiplier: 1},
	}
	d := NewDirector(rules)
	path := ExtractPath(ApplyDefaultPath(NewGrid(16, 16)))
	reg := NewRegistry()

	w1, _ := d.Advance(0)
	_, id1 := d.Tick(w1, 0, path, reg)
	w2, _ := d.Advance(1)
	_, id2 := d.Tick(w2, 0, path, reg)

	m1, _ := reg.Minion(id1)
	m2, _ := reg.Minion(id2)
	if m1.Health != 50 {
		t.Errorf("wave 1 health = %v, want 50", m1.Health)
	}
	if math.Abs(m2.Health-100) > 1e-9 || m2.MaxHealth != m2.Health {
		t.Errorf("wave 2 health = %v/%v, want 100", m2.Health, m2.MaxHealth)
	}
}
