package progression

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LevelTable maps a level to the cumulative XP needed to leave it. A level
// with no entry is terminal: no amount of XP advances past it.
type LevelTable map[int]int

// DefaultLevelTable returns the built-in progression curve.
func DefaultLevelTable() LevelTable {
	return LevelTable{
		1: 200,
		2: 500,
		3: 1000,
		4: 1800,
		5: 2800,
	}
}

type levelTableFile struct {
	Levels []struct {
		Level       int `yaml:"level"`
		NextLevelXP int `yaml:"next_level_xp"`
	} `yaml:"levels"`
}

// LoadLevelTable reads a progression curve from a YAML file so the table can
// be tuned without a rebuild.
func LoadLevelTable(path string) (LevelTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level table: %w", err)
	}
	var file levelTableFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse level table: %w", err)
	}
	if len(file.Levels) == 0 {
		return nil, fmt.Errorf("level table %s defines no levels", path)
	}
	table := make(LevelTable, len(file.Levels))
	for _, entry := range file.Levels {
		if entry.Level < 1 || entry.NextLevelXP < 0 {
			return nil, fmt.Errorf("level table %s has invalid entry: level=%d next_level_xp=%d", path, entry.Level, entry.NextLevelXP)
		}
		table[entry.Level] = entry.NextLevelXP
	}
	return table, nil
}

// AdvanceLevel walks the table upward from the given level while the XP total
// meets each threshold. It is idempotent and never returns a level below the
// one passed in.
func AdvanceLevel(table LevelTable, level, xp int) int {
	if level < 1 {
		level = 1
	}
	for {
		threshold, ok := table[level]
		if !ok || xp < threshold {
			return level
		}
		level++
	}
}

// LevelFor maps a cumulative XP total to a level, starting from level 1.
func LevelFor(table LevelTable, xp int) int {
	return AdvanceLevel(table, 1, xp)
}
