// Package config loads simulation configuration from YAML files.
// Every knob carries a default; a missing file yields a fully usable
// default configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Caps bounds the concurrent count of each tracked entity category.
// The population governor consults these every tick.
type Caps struct {
	Bullets      int `yaml:"bullets"`
	EnemyBullets int `yaml:"enemy_bullets"`
	Enemies      int `yaml:"enemies"`
	Pickups      int `yaml:"pickups"`
	Particles    int `yaml:"particles"`
}

// Observer configures the read-only websocket snapshot feed.
type Observer struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Exploration holds all tuning for zone exploration: spawn density,
// spawn/despawn hysteresis margins, portal interaction, behavior
// multipliers, and population caps.
type Exploration struct {
	LogLevel string `yaml:"log_level"`

	// Spawn-point placement (consumed by the default generator).
	EnemyDensity     float64 `yaml:"enemy_density"`
	EliteDensity     float64 `yaml:"elite_density"`
	SpawnMinDistance float64 `yaml:"spawn_min_distance"`
	MaxEnemySpawns   int     `yaml:"max_enemy_spawns"`
	MaxEliteSpawns   int     `yaml:"max_elite_spawns"`

	// Spawn/despawn hysteresis. View margins extend the camera-target
	// rectangle; the radius pair is the degenerate-viewport fallback.
	SpawnViewMargin   float64 `yaml:"spawn_view_margin"`
	DespawnViewMargin float64 `yaml:"despawn_view_margin"`
	SpawnRadius       float64 `yaml:"spawn_radius"`
	DespawnRadius     float64 `yaml:"despawn_radius"`

	PortalInteractRadius float64 `yaml:"portal_interact_radius"`

	// Behavior multipliers.
	AggroRangeMult   float64 `yaml:"aggro_range_mult"`
	FireIntervalMult float64 `yaml:"fire_interval_mult"`

	// BossInterval: every Nth depth is a boss zone. Zero defers to the
	// act's zone count, then to the built-in default of 10.
	BossInterval int `yaml:"boss_interval"`

	MapScale float64 `yaml:"map_scale"`

	Caps     Caps     `yaml:"caps"`
	Observer Observer `yaml:"observer"`
}

// DefaultExploration returns the exploration config with all defaults set.
func DefaultExploration() Exploration {
	return Exploration{
		LogLevel:             "info",
		EnemyDensity:         1.0,
		EliteDensity:         1.0,
		SpawnMinDistance:     240,
		MaxEnemySpawns:       48,
		MaxEliteSpawns:       8,
		SpawnViewMargin:      520,
		DespawnViewMargin:    1800,
		SpawnRadius:          900,
		DespawnRadius:        2600,
		PortalInteractRadius: 75,
		AggroRangeMult:       1.0,
		FireIntervalMult:     1.0,
		BossInterval:         0, // resolve from act, then default 10
		MapScale:             5.0,
		Caps: Caps{
			Bullets:      2000,
			EnemyBullets: 2000,
			Enemies:      900,
			Pickups:      700,
			Particles:    6500,
		},
		Observer: Observer{
			Enabled: false,
			Addr:    ":8760",
		},
	}
}

// LoadExploration loads the exploration config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadExploration(path string) (Exploration, error) {
	cfg := DefaultExploration()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
