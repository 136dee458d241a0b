package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTowerDefense loads the tower defense configuration.
// Search order: customPath -> ~/.tdarcade/configs/td.yaml -> ./configs/td.yaml -> embedded default.
// Files are decoded on top of the defaults, so partial files only override
// the keys they name.
func LoadTowerDefense(customPath string) (TowerDefenseConfig, error) {
	cfg := DefaultTowerDefenseConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := decodeOver(&cfg, data); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("td.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := decodeOver(&cfg, data); err == nil {
				return cfg, nil
			}
			cfg = DefaultTowerDefenseConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "td.yaml")); err == nil {
		if err := decodeOver(&cfg, data); err == nil {
			return cfg, nil
		}
		cfg = DefaultTowerDefenseConfig()
	}

	// Use embedded default YAML
	if err := decodeOver(&cfg, defaultTowerDefenseYAML); err != nil {
		return DefaultTowerDefenseConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decodeOver unmarshals data into cfg. The wave table is replaced as a
// whole when present; maps merge key by key.
func decodeOver(cfg *TowerDefenseConfig, data []byte) error {
	waves := cfg.Waves
	cfg.Waves = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg.Waves = waves
		return err
	}
	if cfg.Waves == nil {
		cfg.Waves = waves
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tdarcade", "configs", filename)
}

// ApplyTowerDefensePreset modifies the config based on a difficulty preset.
func ApplyTowerDefensePreset(cfg *TowerDefenseConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
		return
	}

	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	// Adjust economy based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Economy.StartMoney = 150
		cfg.Economy.StartLives = 30
	case DifficultyHard:
		cfg.Economy.StartMoney = 75
		cfg.Economy.StartLives = 10
	}
}

// ParsePreset validates a difficulty preset name. Empty means "no preset".
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(s)); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// LoadMap returns an embedded map layout by ID.
func LoadMap(id string) (MapConfig, error) {
	var m MapConfig
	data, err := mapFS.ReadFile("defaults/maps/" + id + ".yaml")
	if err != nil {
		return m, fmt.Errorf("unknown map %q: %w", id, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse map %s: %w", id, err)
	}
	if m.ID == "" {
		m.ID = id
	}
	return m, nil
}

// MapIDs lists the embedded map IDs in sorted order.
func MapIDs() []string {
	entries, err := fs.ReadDir(mapFS, "defaults/maps")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".yaml"))
	}
	sort.Strings(ids)
	return ids
}
