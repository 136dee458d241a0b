package engine

import "github.com/vovakirdan/tui-towerdefense/internal/config"

// WaveConfig is one row of the wave table.
type WaveConfig struct {
	Minions    []MinionType
	IntervalMs float64
}

// Wave is the active wave. It is replaced wholesale on advance.
type Wave struct {
	Number               int // 1-based; 0 before the first wave
	MinionTypes          []MinionType
	SpawnIntervalMs      float64
	SpawnedCount         int
	TotalCount           int
	TimeSinceLastSpawnMs float64
}

// Remaining returns how many minions are still to spawn.
func (w Wave) Remaining() int {
	return w.TotalCount - w.SpawnedCount
}

// Director walks the wave table and spawns minions. It holds no per-session
// state; the Wave value carries progress.
type Director struct {
	waves      []WaveConfig
	stats      map[MinionType]MinionStats
	difficulty *config.DifficultyManager
}

// NewDirector creates a director for the given rules.
func NewDirector(r Rules) *Director {
	return &Director{
		waves:      r.Waves,
		stats:      r.Minions,
		difficulty: config.NewDifficultyManager(r.Difficulty),
	}
}

// Count returns the number of configured waves.
func (d *Director) Count() int {
	return len(d.waves)
}

// Advance returns a fresh wave following wave number current, or false when
// the table is exhausted, which means victory.
func (d *Director) Advance(current int) (Wave, bool) {
	if current < 0 || current >= len(d.waves) {
		return Wave{}, false
	}
	cfg := d.waves[current]
	return Wave{
		Number:          current + 1,
		MinionTypes:     cfg.Minions,
		SpawnIntervalMs: cfg.IntervalMs,
		TotalCount:      len(cfg.Minions),
	}, true
}

// Tick accumulates elapsed time and spawns at most one minion at the path
// entry once the interval has elapsed. The spawned ID is NoEntity when
// nothing spawned.
func (d *Director) Tick(w Wave, elapsedMs float64, path Path, reg *Registry) (Wave, EntityID) {
	if w.SpawnedCount >= w.TotalCount || len(path) == 0 {
		return w, NoEntity
	}
	w.TimeSinceLastSpawnMs += elapsedMs
	if w.TimeSinceLastSpawnMs < w.SpawnIntervalMs {
		return w, NoEntity
	}

	mt := w.MinionTypes[w.SpawnedCount]
	st := d.stats[mt]
	health := st.Health * d.difficulty.HealthMultiplier(w.Number)

	id := reg.NextID()
	reg.AddMinion(Minion{
		ID:        id,
		Type:      mt,
		Health:    health,
		MaxHealth: health,
		Speed:     st.Speed,
		Reward:    st.Reward,
		Abilities: st.Abilities,
		Pos:       path.Entry().Vec(),
	})

	w.SpawnedCount++
	w.TimeSinceLastSpawnMs = 0
	return w, id
}

// Complete reports whether every minion of the wave has spawned and none is
// left alive in the registry.
func Complete(w Wave, reg *Registry) bool {
	return w.SpawnedCount == w.TotalCount && reg.AliveCount() == 0
}
