package sim

import (
	"fmt"
	"log/slog"
	"math"

	"riftcore/internal/config"
	"riftcore/internal/model"
)

// Governor bounds the population of every tracked entity category and
// fail-fasts on non-finite critical values. It runs every tick, after all
// entity mutation, independent of zone boundaries.
//
// Overflow is a soft fuse: the oldest entries (insertion order) are trimmed
// until the cap holds. Newest entities survive — they are the ones most
// likely still relevant to current combat. Trimming is silent by design;
// it must never read as an error or a visible collapse.
type Governor struct {
	caps config.Caps
	diag *Diagnostics
}

// NewGovernor creates a governor with the configured caps.
func NewGovernor(caps config.Caps, diag *Diagnostics) *Governor {
	return &Governor{caps: caps, diag: diag}
}

// CheckCritical validates the tick's critical numeric inputs: frame delta
// and player kinematics. Any non-finite value produces a diagnostic dump
// and an error; the caller aborts the tick's critical path (not the
// process — the next tick proceeds normally).
func (g *Governor) CheckCritical(dt float64, player *model.Player, snap StateSnapshot) error {
	checks := []struct {
		field string
		value float64
	}{
		{"dt", dt},
		{"player.pos.x", player.Pos.X},
		{"player.pos.y", player.Pos.Y},
		{"player.vel.x", player.Vel.X},
		{"player.vel.y", player.Vel.Y},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			g.diag.DumpInvariant(c.field, c.value, snap)
			return fmt.Errorf("non-finite critical value %s = %v", c.field, c.value)
		}
	}
	return nil
}

// trimOldest drops entries from the front until len ≤ limit.
// Returns the kept slice and the number trimmed.
func trimOldest[T any](list []T, limit int) ([]T, int) {
	if limit < 0 || len(list) <= limit {
		return list, 0
	}
	trimmed := len(list) - limit
	kept := list[trimmed:]
	return kept, trimmed
}

// Enforce applies every category cap to the simulation's collections.
// Enemies trimmed here release their spawn points (without marking them
// killed) exactly like a distance despawn would.
func (g *Governor) Enforce(s *Simulation) {
	var trimmed int

	s.bullets, trimmed = trimOldest(s.bullets, g.caps.Bullets)
	logTrim("bullets", trimmed)

	s.enemyBullets, trimmed = trimOldest(s.enemyBullets, g.caps.EnemyBullets)
	logTrim("enemyBullets", trimmed)

	s.pickups, trimmed = trimOldest(s.pickups, g.caps.Pickups)
	logTrim("pickups", trimmed)

	s.particles, trimmed = trimOldest(s.particles, g.caps.Particles)
	logTrim("particles", trimmed)

	if over := len(s.enemies) - g.caps.Enemies; over > 0 {
		victims := s.enemies[:over]
		s.enemies = s.enemies[over:]
		for _, e := range victims {
			delete(s.enemyByID, e.ID)
			s.releaseSpawnPoint(e)
		}
		logTrim("enemies", over)
	}
}

func logTrim(category string, n int) {
	if n > 0 {
		slog.Debug("population cap trimmed oldest entries", "category", category, "count", n)
	}
}
