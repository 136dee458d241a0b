package config

import "math"

// DifficultyManager scales minion health as the waves go by.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// Level returns the difficulty level (0.0 to 1.0) for a 1-based wave number.
func (d *DifficultyManager) Level(wave int) float64 {
	if !d.cfg.Enabled || d.cfg.Progression.Type != "wave" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 1 {
		return 1.0
	}

	// wave 1 sits at the initial level, wave MaxAt at 1.0
	progress := clampF(float64(wave-1)/(maxAt-1), 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// HealthMultiplier returns the factor applied to base minion health for the
// given wave. It is exactly 1 when scaling is disabled.
func (d *DifficultyManager) HealthMultiplier(wave int) float64 {
	if !d.cfg.Enabled {
		return 1.0
	}
	return 1.0 + d.Level(wave)*d.cfg.Scaling.HealthMultiplier
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
