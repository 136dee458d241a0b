package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedYAMLMatchesDefaults(t *testing.T) {
	var cfg TowerDefenseConfig
	if err := yaml.Unmarshal(GetDefaultYAML("td"), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultTowerDefenseConfig()) {
		t.Errorf("embedded YAML and hardcoded defaults differ:\nyaml: %+v\ngo:   %+v", cfg, DefaultTowerDefenseConfig())
	}
}

func TestLoadCustomOverridesOnlyNamedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "td.yaml")
	data := []byte(`
economy:
  start_money: 500
towers:
  Gunner:
    damage: 12
    range: 3
    cooldown: 1
    cost: 40
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTowerDefense(path)
	if err != nil {
		t.Fatalf("LoadTowerDefense: %v", err)
	}
	if cfg.Economy.StartMoney != 500 {
		t.Errorf("start money = %d, want 500", cfg.Economy.StartMoney)
	}
	if cfg.Economy.StartLives != 20 {
		t.Errorf("start lives = %d, want default 20", cfg.Economy.StartLives)
	}
	if cfg.Towers["Gunner"].Cost != 40 {
		t.Errorf("gunner cost = %d, want 40", cfg.Towers["Gunner"].Cost)
	}
	if _, ok := cfg.Towers["Tesla"]; !ok {
		t.Error("towers not named in the file should keep their defaults")
	}
	if len(cfg.Waves) != 15 {
		t.Errorf("waves = %d, want the 15 defaults", len(cfg.Waves))
	}
}

func TestLoadCustomReplacesWaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "td.yaml")
	data := []byte("waves:\n  - { minions: [Tank], interval_ms: 10 }\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadTowerDefense(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Waves) != 1 || cfg.Waves[0].Minions[0] != "Tank" {
		t.Errorf("waves = %+v", cfg.Waves)
	}
}

func TestLoadCustomErrors(t *testing.T) {
	if _, err := LoadTowerDefense(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing custom file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("economy: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTowerDefense(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		level   float64
		money   int
		lives   int
	}{
		{"", false, 0, 100, 20},
		{DifficultyEasy, true, 0, 150, 30},
		{DifficultyNormal, true, 0.3, 100, 20},
		{DifficultyHard, true, 0.7, 75, 10},
		{DifficultyFixed, false, 0, 100, 20},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultTowerDefenseConfig()
			ApplyTowerDefensePreset(&cfg, tt.preset)
			if cfg.Difficulty.Enabled != tt.enabled {
				t.Errorf("enabled = %v, want %v", cfg.Difficulty.Enabled, tt.enabled)
			}
			if cfg.Difficulty.InitialLevel != tt.level {
				t.Errorf("initial level = %v, want %v", cfg.Difficulty.InitialLevel, tt.level)
			}
			if cfg.Economy.StartMoney != tt.money || cfg.Economy.StartLives != tt.lives {
				t.Errorf("economy = %+v", cfg.Economy)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, err := ParsePreset("HARD"); err != nil || p != DifficultyHard {
		t.Errorf("ParsePreset(HARD) = %q, %v", p, err)
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestDifficultyManager(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.5,
		Progression:  ProgressionConfig{Type: "wave", MaxAt: 5},
		Scaling:      ScalingConfig{HealthMultiplier: 2},
	}
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		wave  int
		level float64
		mult  float64
	}{
		{1, 0.5, 2},
		{3, 0.75, 2.5},
		{5, 1, 3},
		{9, 1, 3},
	}
	for _, tt := range tests {
		if got := dm.Level(tt.wave); got != tt.level {
			t.Errorf("Level(%d) = %v, want %v", tt.wave, got, tt.level)
		}
		if got := dm.HealthMultiplier(tt.wave); got != tt.mult {
			t.Errorf("HealthMultiplier(%d) = %v, want %v", tt.wave, got, tt.mult)
		}
	}

	cfg.Enabled = false
	if got := NewDifficultyManager(cfg).HealthMultiplier(10); got != 1 {
		t.Errorf("disabled multiplier = %v, want 1", got)
	}
}

func TestMaps(t *testing.T) {
	ids := MapIDs()
	if !reflect.DeepEqual(ids, []string{"maze", "spiral"}) {
		t.Fatalf("MapIDs = %v", ids)
	}
	for _, id := range ids {
		m, err := LoadMap(id)
		if err != nil {
			t.Fatalf("LoadMap(%s): %v", id, err)
		}
		if m.ID != id || m.Title == "" || len(m.Layout) == 0 {
			t.Errorf("map %s = %+v", id, m)
		}
	}
	if _, err := LoadMap("nowhere"); err == nil {
		t.Error("expected error for unknown map")
	}
}
