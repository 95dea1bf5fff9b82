package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riftcore/internal/model"
)

func TestLoadExploration_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadExploration(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 520.0, cfg.SpawnViewMargin)
	assert.Equal(t, 1800.0, cfg.DespawnViewMargin)
	assert.Equal(t, 75.0, cfg.PortalInteractRadius)
	assert.Equal(t, 5.0, cfg.MapScale)
	assert.Equal(t, 2000, cfg.Caps.Bullets)
	assert.Equal(t, 2000, cfg.Caps.EnemyBullets)
	assert.Equal(t, 900, cfg.Caps.Enemies)
	assert.Equal(t, 700, cfg.Caps.Pickups)
	assert.Equal(t, 6500, cfg.Caps.Particles)
}

func TestLoadExploration_OverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exploration.yaml")
	body := []byte("spawn_view_margin: 600\nboss_interval: 5\ncaps:\n  enemies: 50\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := LoadExploration(path)
	require.NoError(t, err)

	assert.Equal(t, 600.0, cfg.SpawnViewMargin)
	assert.Equal(t, 5, cfg.BossInterval)
	assert.Equal(t, 50, cfg.Caps.Enemies)
	// Untouched keys keep defaults.
	assert.Equal(t, 1800.0, cfg.DespawnViewMargin)
	assert.Equal(t, 2000, cfg.Caps.Bullets)
}

func TestDefaultActs_ResolvesArchetypePools(t *testing.T) {
	acts := DefaultActs()
	rift, ok := acts["rift"]
	require.True(t, ok)

	assert.Len(t, rift.EnemyPool, 3)
	assert.Equal(t, []model.Archetype{model.ArchWarden}, rift.ElitePool)
	assert.Equal(t, model.ArchRiftmaw, rift.Boss)
	assert.Equal(t, 10, rift.ZoneCount)
}

func TestLoadActs_UnknownArchetypeFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acts.yaml")
	body := []byte(`acts:
  - id: broken
    name: Broken
    zone_count: 4
    width: 100
    height: 100
    enemy_archetypes: [mimic]
    boss_archetype: riftmaw
`)
	require.NoError(t, os.WriteFile(path, body, 0o644))

	_, err := LoadActs(path)
	assert.ErrorContains(t, err, "mimic")
}

func TestLoadActs_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acts.yaml")
	body := []byte(`acts:
  - id: test
    name: Test Act
    zone_count: 6
    width: 320
    height: 240
    world_seed: 777
    enemy_archetypes: [stalker]
    elite_archetypes: [warden]
    boss_archetype: riftmaw
`)
	require.NoError(t, os.WriteFile(path, body, 0o644))

	acts, err := LoadActs(path)
	require.NoError(t, err)
	act := acts["test"]
	require.NotNil(t, act)
	assert.Equal(t, uint32(777), act.WorldSeed)
	assert.Equal(t, []model.Archetype{model.ArchStalker}, act.EnemyPool)
}
