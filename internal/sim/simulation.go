// Package sim owns the simulation context: the zone lifecycle controller,
// the entity collections, and the population governor that bounds them.
//
// Everything here is single-threaded cooperative simulation: one tick
// advances world time by a bounded delta, nothing blocks, and zone
// transitions are atomic — transient collections are cleared before a new
// zone descriptor is installed, so no tick observes two zones at once.
package sim

import (
	"log/slog"
	"math/rand/v2"

	"riftcore/internal/ai"
	"riftcore/internal/config"
	"riftcore/internal/gen"
	"riftcore/internal/model"
)

// Simulation is the explicit context object passed (implicitly, as the
// receiver) to every core operation. There are no package-level singletons:
// two simulations can run side by side without sharing state.
type Simulation struct {
	cfg  *config.Exploration
	acts map[string]*config.Act
	gen  gen.Generator
	diag *Diagnostics
	gov  *Governor
	// rng feeds all non-reproducible-but-acceptable randomness (wander
	// targets, jitter, level rolls). Zone generation never touches it:
	// that path stays a pure function of the derived zone seed.
	rng     *rand.Rand
	ids     *IDAllocator
	machine *ai.Machine

	act       *config.Act
	worldSeed uint32
	zoneIndex uint32
	zone      *model.ZoneDescriptor

	player *model.Player
	camera *model.Camera

	// Entity arenas, insertion-ordered. Order matters only to the
	// governor's oldest-first trim.
	enemies      []*model.Enemy
	enemyByID    map[uint32]*model.Enemy
	bullets      []*Bullet
	enemyBullets []*Bullet
	pickups      []*Pickup
	particles    []*Particle

	hubReturn    func()
	activePortal *model.Portal

	viewW, viewH float64

	// Per-zone spawn tracking, reset on every load.
	enemiesSpawned int
	elitesSpawned  int
	bossSpawned    bool

	enemyKills int
}

// New creates a simulation. The rand source is injected so tests can
// substitute a deterministic stream; diag may wrap a nil storage manager.
func New(cfg *config.Exploration, acts map[string]*config.Act, g gen.Generator,
	diag *Diagnostics, rng *rand.Rand) *Simulation {

	s := &Simulation{
		cfg:       cfg,
		acts:      acts,
		gen:       g,
		diag:      diag,
		rng:       rng,
		ids:       NewIDAllocator(),
		enemyByID: make(map[uint32]*model.Enemy),
		player:    &model.Player{Level: 1},
		camera:    &model.Camera{},
	}
	s.gov = NewGovernor(cfg.Caps, diag)
	s.machine = ai.NewMachine(rng, cfg.FireIntervalMult, s.fireEnemyBullet)
	return s
}

// SetHubReturn installs the collaborator invoked when a portal resolves to
// a hub destination.
func (s *Simulation) SetHubReturn(fn func()) { s.hubReturn = fn }

// SetWorldSeed pins the world seed before Init, for reproducible runs.
func (s *Simulation) SetWorldSeed(ws uint32) { s.worldSeed = ws }

// Accessors. The observer and external collaborators read these; nothing
// outside the package mutates simulation state directly.

// Zone returns the current zone descriptor (nil before Init).
func (s *Simulation) Zone() *model.ZoneDescriptor { return s.zone }

// Player returns the player state.
func (s *Simulation) Player() *model.Player { return s.player }

// Camera returns the camera state.
func (s *Simulation) Camera() *model.Camera { return s.camera }

// ZoneIndex returns the current zone index.
func (s *Simulation) ZoneIndex() uint32 { return s.zoneIndex }

// WorldSeed returns the act's root seed.
func (s *Simulation) WorldSeed() uint32 { return s.worldSeed }

// Enemies returns the live enemy arena in insertion order.
func (s *Simulation) Enemies() []*model.Enemy { return s.enemies }

// EnemyByID looks up a live enemy.
func (s *Simulation) EnemyByID(id uint32) (*model.Enemy, bool) {
	e, ok := s.enemyByID[id]
	return e, ok
}

// ActivePortal returns the portal currently available for interaction, or
// nil. Proximity alone never teleports; see InteractPortal.
func (s *Simulation) ActivePortal() *model.Portal { return s.activePortal }

// EnemyKills returns the kills recorded in the current act.
func (s *Simulation) EnemyKills() int { return s.enemyKills }

// Counts reports the live entity population per category.
func (s *Simulation) Counts() (bullets, enemyBullets, enemies, pickups, particles int) {
	return len(s.bullets), len(s.enemyBullets), len(s.enemies), len(s.pickups), len(s.particles)
}

// AddPlayerBullet registers a player projectile. Firing logic lives in the
// external combat layer; the simulation only tracks and bounds the entity.
func (s *Simulation) AddPlayerBullet(pos, vel model.Vec2, damage float64) {
	s.bullets = append(s.bullets, &Bullet{
		ID:     s.ids.NextBulletID(),
		Pos:    pos,
		Vel:    vel,
		Damage: damage,
		TTL:    bulletTTL,
	})
}

// fireEnemyBullet is the behavior machine's fire callback.
func (s *Simulation) fireEnemyBullet(e *model.Enemy, dir model.Vec2) {
	s.enemyBullets = append(s.enemyBullets, &Bullet{
		ID:     s.ids.NextBulletID(),
		Pos:    e.Pos,
		Vel:    dir.Scale(e.BulletSpeed),
		Damage: e.Damage,
		TTL:    bulletTTL,
	})
}

// addEnemy appends to the arena and index.
func (s *Simulation) addEnemy(e *model.Enemy) {
	s.enemies = append(s.enemies, e)
	s.enemyByID[e.ID] = e
}

// removeEnemy drops an enemy from the arena preserving insertion order.
func (s *Simulation) removeEnemy(id uint32) {
	delete(s.enemyByID, id)
	for i, e := range s.enemies {
		if e.ID == id {
			s.enemies = append(s.enemies[:i], s.enemies[i+1:]...)
			return
		}
	}
}

// findSpawnPoint resolves a spawn-point ID within the current zone.
func (s *Simulation) findSpawnPoint(id uint32) *model.SpawnPoint {
	if id == 0 || s.zone == nil {
		return nil
	}
	for _, sp := range s.zone.EnemySpawns {
		if sp.ID == id {
			return sp
		}
	}
	for _, sp := range s.zone.EliteSpawns {
		if sp.ID == id {
			return sp
		}
	}
	if s.zone.BossSpawn != nil && s.zone.BossSpawn.ID == id {
		return s.zone.BossSpawn
	}
	return nil
}

// releaseSpawnPoint clears an enemy's spawn-point back-reference after a
// despawn or a governor trim. Never marks the point killed: it may respawn.
func (s *Simulation) releaseSpawnPoint(e *model.Enemy) {
	sp := s.findSpawnPoint(e.SpawnPointID)
	if sp != nil && sp.EnemyID() == e.ID {
		sp.Release()
	}
}

// stateSnapshot captures the surrounding state for diagnostic dumps.
func (s *Simulation) stateSnapshot() StateSnapshot {
	snap := StateSnapshot{
		PlayerX:      s.player.Pos.X,
		PlayerY:      s.player.Pos.Y,
		PlayerVelX:   s.player.Vel.X,
		PlayerVelY:   s.player.Vel.Y,
		Enemies:      len(s.enemies),
		Bullets:      len(s.bullets),
		EnemyBullets: len(s.enemyBullets),
		Pickups:      len(s.pickups),
		Particles:    len(s.particles),
	}
	if s.zone != nil {
		snap.Depth = s.zone.Depth
		snap.ZoneSeed = s.zone.Seed
	}
	return snap
}

// ApplyDamage is the external damage system's entry point. Death flows
// through OnEnemyKilled; a miss on the ID is ignored (the enemy may have
// despawned the same tick the hit landed).
func (s *Simulation) ApplyDamage(enemyID uint32, damage float64) {
	e, ok := s.enemyByID[enemyID]
	if !ok {
		return
	}
	e.HP -= damage
	if !e.Alive() {
		s.OnEnemyKilled(e)
	}
}

// logDebug gates chatty per-tick logs behind the ai debug flag so the hot
// path stays quiet at info level.
func logDebug(msg string, args ...any) {
	if ai.IsDebugEnabled() {
		slog.Debug(msg, args...)
	}
}
