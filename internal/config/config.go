// Package config provides YAML-based game configuration loading and
// difficulty management for the tower defense maps.
package config

// TowerDefenseConfig contains all tunable numbers for a tower defense game.
type TowerDefenseConfig struct {
	Grid       GridConfig                  `yaml:"grid"`
	Economy    EconomyConfig               `yaml:"economy"`
	Towers     map[string]TowerStatsConfig `yaml:"towers"`
	Minions    map[string]MinionConfig     `yaml:"minions"`
	Upgrade    UpgradeConfig               `yaml:"upgrade"`
	Effects    EffectsConfig               `yaml:"effects"`
	Waves      []WaveConfig                `yaml:"waves"`
	Difficulty DifficultyConfig            `yaml:"difficulty"`
}

// GridConfig defines the board. When Layout is set it wins over
// Width/Height: each row is a string where '#' marks a path cell.
type GridConfig struct {
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	Layout []string `yaml:"layout,omitempty"`
}

// EconomyConfig defines starting resources.
type EconomyConfig struct {
	StartMoney int     `yaml:"start_money"`
	StartLives int     `yaml:"start_lives"`
	SellRatio  float64 `yaml:"sell_ratio"` // fraction of cost refunded on sell
}

// TowerStatsConfig defines base numbers for one tower type.
type TowerStatsConfig struct {
	Damage   float64 `yaml:"damage"`
	Range    float64 `yaml:"range"`
	Cooldown float64 `yaml:"cooldown"` // seconds
	Cost     int     `yaml:"cost"`
	Ability  string  `yaml:"ability"` // None, Slow, Burn, ChainLightning
	Area     bool    `yaml:"area"`
}

// MinionConfig defines base numbers for one minion type.
type MinionConfig struct {
	Health    float64  `yaml:"health"`
	Speed     float64  `yaml:"speed"` // tiles per second
	Reward    int      `yaml:"reward"`
	Abilities []string `yaml:"abilities"` // Armor, DeathExplode, Fast
}

// UpgradeConfig holds the per-level multipliers.
type UpgradeConfig struct {
	Damage   float64 `yaml:"damage"`
	Range    float64 `yaml:"range"`
	Cooldown float64 `yaml:"cooldown"`
	Cost     float64 `yaml:"cost"`
}

// EffectsConfig holds status effect and on-death numbers.
type EffectsConfig struct {
	SlowDuration  float64 `yaml:"slow_duration"`
	SlowFactor    float64 `yaml:"slow_factor"`
	BurnDuration  float64 `yaml:"burn_duration"`
	BurnDPS       float64 `yaml:"burn_dps"`
	ChainRadius   float64 `yaml:"chain_radius"`
	ChainFactor   float64 `yaml:"chain_factor"`
	ExplodeRadius float64 `yaml:"explode_radius"`
	ExplodeFactor float64 `yaml:"explode_factor"`
	ArmorFactor   float64 `yaml:"armor_factor"`
	CorpseLinger  float64 `yaml:"corpse_linger"` // seconds a dead minion stays visible
}

// WaveConfig is one entry of the wave table.
type WaveConfig struct {
	Minions    []string `yaml:"minions"`
	IntervalMs float64  `yaml:"interval_ms"`
}

// MapConfig is an alternative board shipped with the game.
type MapConfig struct {
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title"`
	Layout []string `yaml:"layout"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "wave" or "none"
	MaxAt int    `yaml:"max_at"` // wave number at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	HealthMultiplier float64 `yaml:"health_multiplier"` // added to minion health at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
