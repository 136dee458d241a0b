package config

import "embed"

//go:embed defaults/td.yaml
var defaultTowerDefenseYAML []byte

//go:embed defaults/maps/*.yaml
var mapFS embed.FS

// DefaultTowerDefenseConfig returns the built-in tower defense configuration.
// It is the last resort when neither a file nor the embedded YAML loads.
func DefaultTowerDefenseConfig() TowerDefenseConfig {
	return TowerDefenseConfig{
		Grid: GridConfig{
			Width:  16,
			Height: 16,
		},
		Economy: EconomyConfig{
			StartMoney: 100,
			StartLives: 20,
			SellRatio:  0.5,
		},
		Towers: map[string]TowerStatsConfig{
			"Gunner":       {Damage: 10, Range: 3, Cooldown: 1, Cost: 50, Ability: "None"},
			"Frost":        {Damage: 5, Range: 2, Cooldown: 2, Cost: 75, Ability: "Slow"},
			"Flamethrower": {Damage: 15, Range: 2, Cooldown: 0.5, Cost: 100, Ability: "Burn", Area: true},
			"Tesla":        {Damage: 20, Range: 4, Cooldown: 3, Cost: 150, Ability: "ChainLightning"},
		},
		Minions: map[string]MinionConfig{
			"Grunt":  {Health: 50, Speed: 1, Reward: 5},
			"Runner": {Health: 30, Speed: 2, Reward: 3, Abilities: []string{"Fast"}},
			"Tank":   {Health: 200, Speed: 0.5, Reward: 20, Abilities: []string{"Armor"}},
			"Cursed": {Health: 100, Speed: 1, Reward: 15, Abilities: []string{"DeathExplode"}},
		},
		Upgrade: UpgradeConfig{
			Damage:   1.5,
			Range:    1.2,
			Cooldown: 0.8,
			Cost:     1.75,
		},
		Effects: EffectsConfig{
			SlowDuration:  3,
			SlowFactor:    0.5,
			BurnDuration:  3,
			BurnDPS:       2,
			ChainRadius:   2,
			ChainFactor:   0.5,
			ExplodeRadius: 2,
			ExplodeFactor: 0.9,
			ArmorFactor:   0.5,
			CorpseLinger:  0.5,
		},
		Waves: []WaveConfig{
			{Minions: []string{"Grunt", "Grunt", "Grunt"}, IntervalMs: 1000},
			{Minions: []string{"Grunt", "Grunt", "Runner"}, IntervalMs: 1000},
			{Minions: []string{"Grunt", "Runner", "Runner"}, IntervalMs: 900},
			{Minions: []string{"Runner", "Runner", "Runner", "Grunt"}, IntervalMs: 900},
			{Minions: []string{"Grunt", "Tank"}, IntervalMs: 2000},
			{Minions: []string{"Grunt", "Grunt", "Tank", "Runner"}, IntervalMs: 800},
			{Minions: []string{"Runner", "Runner", "Tank", "Grunt"}, IntervalMs: 800},
			{Minions: []string{"Tank", "Tank", "Grunt"}, IntervalMs: 1500},
			{Minions: []string{"Cursed", "Grunt", "Grunt"}, IntervalMs: 1000},
			{Minions: []string{"Cursed", "Runner", "Runner"}, IntervalMs: 900},
			{Minions: []string{"Cursed", "Tank", "Grunt"}, IntervalMs: 1500},
			{Minions: []string{"Cursed", "Cursed", "Runner"}, IntervalMs: 1200},
			{Minions: []string{"Tank", "Cursed", "Grunt", "Runner"}, IntervalMs: 1000},
			{Minions: []string{"Tank", "Tank", "Cursed"}, IntervalMs: 1500},
			{Minions: []string{"Cursed", "Cursed", "Tank", "Tank"}, IntervalMs: 1200},
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "wave",
				MaxAt: 15,
			},
			Scaling: ScalingConfig{
				HealthMultiplier: 1.0,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "td", "towerdefense":
		return defaultTowerDefenseYAML
	default:
		return nil
	}
}
