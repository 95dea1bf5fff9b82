package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"riftcore/internal/data"
	"riftcore/internal/model"
)

// Act describes one world act: base zone dimensions, zone count, and the
// enemy archetype pools available to the generator. Archetype names from
// YAML are resolved to tags once, at load time.
type Act struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	ZoneCount int     `yaml:"zone_count"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`

	// WorldSeed pins the act's root seed for reproducible runs.
	// Zero means "roll a fresh seed at act start".
	WorldSeed uint32 `yaml:"world_seed"`

	EnemyArchetypes []string `yaml:"enemy_archetypes"`
	EliteArchetypes []string `yaml:"elite_archetypes"`
	BossArchetype   string   `yaml:"boss_archetype"`

	// Resolved pools, populated by resolve(). Not serialized.
	EnemyPool []model.Archetype `yaml:"-"`
	ElitePool []model.Archetype `yaml:"-"`
	Boss      model.Archetype   `yaml:"-"`
}

func (a *Act) resolve() error {
	a.EnemyPool = a.EnemyPool[:0]
	for _, name := range a.EnemyArchetypes {
		arch, err := data.ByName(name)
		if err != nil {
			return fmt.Errorf("act %s: %w", a.ID, err)
		}
		a.EnemyPool = append(a.EnemyPool, arch)
	}

	a.ElitePool = a.ElitePool[:0]
	for _, name := range a.EliteArchetypes {
		arch, err := data.ByName(name)
		if err != nil {
			return fmt.Errorf("act %s: %w", a.ID, err)
		}
		a.ElitePool = append(a.ElitePool, arch)
	}

	boss, err := data.ByName(a.BossArchetype)
	if err != nil {
		return fmt.Errorf("act %s: %w", a.ID, err)
	}
	a.Boss = boss
	return nil
}

// DefaultActs returns the built-in act table.
func DefaultActs() map[string]*Act {
	acts := map[string]*Act{
		"rift": {
			ID:              "rift",
			Name:            "The Rift",
			ZoneCount:       10,
			Width:           640,
			Height:          480,
			EnemyArchetypes: []string{"stalker", "sentinel", "skirmisher"},
			EliteArchetypes: []string{"warden"},
			BossArchetype:   "riftmaw",
		},
		"hollows": {
			ID:              "hollows",
			Name:            "The Hollows",
			ZoneCount:       12,
			Width:           720,
			Height:          560,
			EnemyArchetypes: []string{"sentinel", "skirmisher"},
			EliteArchetypes: []string{"warden"},
			BossArchetype:   "riftmaw",
		},
	}
	for _, a := range acts {
		// Built-in names are known-good; resolve cannot fail here.
		_ = a.resolve()
	}
	return acts
}

// actsFile is the YAML shape of an acts file.
type actsFile struct {
	Acts []*Act `yaml:"acts"`
}

// LoadActs loads act definitions from a YAML file, resolving archetype
// names eagerly. A missing file yields the built-in acts.
func LoadActs(path string) (map[string]*Act, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultActs(), nil
		}
		return nil, fmt.Errorf("reading acts %s: %w", path, err)
	}

	var f actsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing acts %s: %w", path, err)
	}

	acts := make(map[string]*Act, len(f.Acts))
	for _, a := range f.Acts {
		if err := a.resolve(); err != nil {
			return nil, err
		}
		acts[a.ID] = a
	}
	return acts, nil
}
