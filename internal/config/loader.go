package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the search path.
const FileName = "labyrinth.yaml"

// Load loads the Labyrinth configuration.
// Search order: customPath -> ~/.labyrinth/configs/labyrinth.yaml ->
// ./configs/labyrinth.yaml -> embedded default -> hardcoded default.
// A customPath that cannot be read or parsed is an error; unreadable files
// further down the search path are skipped.
func Load(customPath string) (LabyrinthConfig, error) {
	return loadFrom(customPath, userConfigPath(FileName), filepath.Join("configs", FileName))
}

func loadFrom(customPath string, searchPaths ...string) (LabyrinthConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return LabyrinthConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return LabyrinthConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, p := range searchPaths {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := parse(defaultLabyrinthYAML)
	if err != nil {
		return DefaultLabyrinthConfig(), nil
	}
	return cfg, nil
}

func parse(data []byte) (LabyrinthConfig, error) {
	var cfg LabyrinthConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".labyrinth", "configs", filename)
}

// ApplyPreset scales the enemy period for a difficulty preset.
func ApplyPreset(cfg *LabyrinthConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		return
	}
	scaled := math.Round(float64(cfg.Timing.EnemyPeriodMS) * EnemyPeriodFactor(preset))
	cfg.Timing.EnemyPeriodMS = max(1, int(scaled))
}
