package model

// SpawnPoint is a location descriptor that may instantiate a live enemy.
// It belongs to exactly one ZoneDescriptor and dies with it.
//
// Lifecycle flags are mutually exclusive:
//
//	inactive (initial) → active (owns a live enemy) → inactive (despawned)
//	                                               → killed (terminal)
//
// A killed point never reactivates. The owning enemy is tracked by opaque
// ID, not by pointer: enemies and spawn points live in separate arenas.
type SpawnPoint struct {
	ID        uint32
	Pos       Vec2
	Archetype Archetype
	Rank      EnemyRank

	// Optional per-point overrides; zero means "use archetype default".
	PatrolShape  PatrolShape
	PatrolRadius float64
	AggroRange   float64

	active  bool
	killed  bool
	enemyID uint32
}

// Active reports whether the point currently owns a live enemy.
func (sp *SpawnPoint) Active() bool { return sp.active }

// Killed reports whether the point is terminally dead.
func (sp *SpawnPoint) Killed() bool { return sp.killed }

// EnemyID returns the owned enemy's ID, or 0 when inactive.
func (sp *SpawnPoint) EnemyID() uint32 { return sp.enemyID }

// Activate binds a live enemy to the point. Returns false (no-op) if the
// point is already active or killed — activation happens exactly once per
// active lifetime.
func (sp *SpawnPoint) Activate(enemyID uint32) bool {
	if sp.active || sp.killed {
		return false
	}
	sp.active = true
	sp.enemyID = enemyID
	return true
}

// Release clears the enemy back-reference after a despawn. The point stays
// eligible for respawn: despawn never marks a point killed.
func (sp *SpawnPoint) Release() {
	sp.active = false
	sp.enemyID = 0
}

// MarkKilled terminally retires the point after its enemy died.
// Killed is permanent and mutually exclusive with active.
func (sp *SpawnPoint) MarkKilled() {
	sp.killed = true
	sp.active = false
	sp.enemyID = 0
}
