package engine

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-towerdefense/internal/config"
)

// UpgradeMultipliers scale a tower on each upgrade.
type UpgradeMultipliers struct {
	Damage   float64
	Range    float64
	Cooldown float64
	Cost     float64
}

// CombatRules are the effect and on-death constants.
type CombatRules struct {
	SlowDuration  float64
	SlowFactor    float64
	BurnDuration  float64
	BurnDPS       float64
	ChainRadius   float64
	ChainFactor   float64
	ExplodeRadius float64
	ExplodeFactor float64
	ArmorFactor   float64
}

// Rules is the static data a session consumes. Treat it as read-only once
// built; sessions share the maps.
type Rules struct {
	Width        int
	Height       int
	Layout       []string // optional authored board; empty means default path
	StartMoney   int
	StartLives   int
	SellRatio    float64
	Towers       map[TowerType]TowerStats
	Minions      map[MinionType]MinionStats
	Upgrade      UpgradeMultipliers
	Combat       CombatRules
	Waves        []WaveConfig
	CorpseLinger float64
	Difficulty   config.DifficultyConfig
}

// DefaultRules returns the rules built from the hardcoded configuration.
func DefaultRules() Rules {
	r, err := RulesFromConfig(config.DefaultTowerDefenseConfig())
	if err != nil {
		panic(fmt.Sprintf("engine: default rules invalid: %v", err))
	}
	return r
}

// RulesFromConfig converts and validates a YAML configuration.
func RulesFromConfig(cfg config.TowerDefenseConfig) (Rules, error) {
	r := Rules{
		Width:      cfg.Grid.Width,
		Height:     cfg.Grid.Height,
		Layout:     cfg.Grid.Layout,
		StartMoney: cfg.Economy.StartMoney,
		StartLives: cfg.Economy.StartLives,
		SellRatio:  cfg.Economy.SellRatio,
		Towers:     make(map[TowerType]TowerStats, len(cfg.Towers)),
		Minions:    make(map[MinionType]MinionStats, len(cfg.Minions)),
		Upgrade: UpgradeMultipliers{
			Damage:   cfg.Upgrade.Damage,
			Range:    cfg.Upgrade.Range,
			Cooldown: cfg.Upgrade.Cooldown,
			Cost:     cfg.Upgrade.Cost,
		},
		Combat: CombatRules{
			SlowDuration:  cfg.Effects.SlowDuration,
			SlowFactor:    cfg.Effects.SlowFactor,
			BurnDuration:  cfg.Effects.BurnDuration,
			BurnDPS:       cfg.Effects.BurnDPS,
			ChainRadius:   cfg.Effects.ChainRadius,
			ChainFactor:   cfg.Effects.ChainFactor,
			ExplodeRadius: cfg.Effects.ExplodeRadius,
			ExplodeFactor: cfg.Effects.ExplodeFactor,
			ArmorFactor:   cfg.Effects.ArmorFactor,
		},
		CorpseLinger: math.Max(0, cfg.Effects.CorpseLinger),
		Difficulty:   cfg.Difficulty,
	}

	if len(r.Layout) == 0 && (r.Width <= 0 || r.Height <= 0) {
		return r, ValidationError{Code: "BAD_GRID", Message: fmt.Sprintf("grid %dx%d", r.Width, r.Height)}
	}
	if r.StartMoney < 0 || r.StartLives <= 0 {
		return r, ValidationError{Code: "BAD_ECONOMY", Message: fmt.Sprintf("money %d, lives %d", r.StartMoney, r.StartLives)}
	}
	if r.SellRatio < 0 || r.SellRatio > 1 {
		return r, ValidationError{Code: "BAD_ECONOMY", Message: fmt.Sprintf("sell ratio %.2f outside [0,1]", r.SellRatio)}
	}

	for name, tc := range cfg.Towers {
		tt, err := ParseTowerType(name)
		if err != nil || tt == TowerNone {
			return r, ValidationError{Code: "BAD_TOWER", Message: fmt.Sprintf("unknown tower %q", name)}
		}
		ability, err := ParseTowerAbility(tc.Ability)
		if err != nil {
			return r, ValidationError{Code: "BAD_TOWER", Message: fmt.Sprintf("%s: %v", name, err)}
		}
		if tc.Cost < 0 || tc.Cooldown < 0 || tc.Range < 0 {
			return r, ValidationError{Code: "BAD_TOWER", Message: fmt.Sprintf("%s: negative stat", name)}
		}
		r.Towers[tt] = TowerStats{
			Damage:   tc.Damage,
			Range:    tc.Range,
			Cooldown: tc.Cooldown,
			Cost:     tc.Cost,
			Ability:  ability,
			Area:     tc.Area,
		}
	}

	for name, mc := range cfg.Minions {
		mt, err := ParseMinionType(name)
		if err != nil {
			return r, ValidationError{Code: "BAD_MINION", Message: fmt.Sprintf("unknown minion %q", name)}
		}
		var abilities MinionAbility
		for _, a := range mc.Abilities {
			ab, err := ParseMinionAbility(a)
			if err != nil {
				return r, ValidationError{Code: "BAD_MINION", Message: fmt.Sprintf("%s: %v", name, err)}
			}
			abilities |= ab
		}
		if mc.Health <= 0 || mc.Speed < 0 {
			return r, ValidationError{Code: "BAD_MINION", Message: fmt.Sprintf("%s: health must be positive", name)}
		}
		r.Minions[mt] = MinionStats{
			Health:    mc.Health,
			Speed:     mc.Speed,
			Reward:    mc.Reward,
			Abilities: abilities,
		}
	}

	r.Waves = make([]WaveConfig, 0, len(cfg.Waves))
	for i, wc := range cfg.Waves {
		wave := WaveConfig{IntervalMs: math.Max(0, wc.IntervalMs)}
		for _, name := range wc.Minions {
			mt, err := ParseMinionType(name)
			if err != nil {
				return r, ValidationError{Code: "BAD_WAVE", Message: fmt.Sprintf("wave %d: %v", i+1, err)}
			}
			if _, ok := r.Minions[mt]; !ok {
				return r, ValidationError{Code: "BAD_WAVE", Message: fmt.Sprintf("wave %d: no stats for %s", i+1, mt)}
			}
			wave.Minions = append(wave.Minions, mt)
		}
		r.Waves = append(r.Waves, wave)
	}

	return r, nil
}

// BuildGrid returns the starting board and its path. Authored layouts are
// validated; the default carve is trusted.
func (r Rules) BuildGrid() (*Grid, Path, error) {
	if len(r.Layout) > 0 {
		g, err := GridFromLayout(r.Layout)
		if err != nil {
			return nil, nil, err
		}
		p := ExtractPath(g)
		if err := ValidatePath(g, p); err != nil {
			return nil, nil, err
		}
		return g, p, nil
	}
	g := ApplyDefaultPath(NewGrid(r.Width, r.Height))
	return g, ExtractPath(g), nil
}

// UpgradeCost is the price of the next upgrade for a tower.
func (r Rules) UpgradeCost(t Tower) int {
	return int(math.Floor(float64(t.Cost) * r.Upgrade.Cost))
}

// SellValue is the refund for selling a tower.
func (r Rules) SellValue(t Tower) int {
	return int(math.Floor(float64(t.Cost) * r.SellRatio))
}

// NewTower builds a level-1 tower of the given type at pos.
func (r Rules) NewTower(id EntityID, tt TowerType, pos Coord, width, height int) (Tower, bool) {
	st, ok := r.Towers[tt]
	if !ok {
		return Tower{}, false
	}
	return Tower{
		ID:         id,
		Type:       tt,
		Level:      1,
		Damage:     st.Damage,
		Range:      st.Range,
		Cooldown:   st.Cooldown,
		Cost:       st.Cost,
		Pos:        pos,
		Ability:    st.Ability,
		Area:       st.Area,
		RangeCells: CellsInRange(pos.X, pos.Y, st.Range, width, height),
	}, true
}
