package sim

import (
	"fmt"
	"log/slog"

	"riftcore/internal/ai"
	"riftcore/internal/gen"
	"riftcore/internal/model"
	"riftcore/internal/seed"
)

const (
	// exitRadius is the fixed activation distance for the zone exit.
	exitRadius = 50.0

	// bossSpawnMarginMult widens the spawn-view margin for boss points so
	// bosses are already in place when the arena scrolls into view.
	bossSpawnMarginMult = 1.25

	// defaultBossInterval applies when neither the exploration config nor
	// the act pins one.
	defaultBossInterval = 10

	// swiftSpeedScale is the enemy speed multiplier under ModSwiftEnemies.
	swiftSpeedScale = 1.25

	// volatileFireScale shortens enemy fire intervals under ModVolatile.
	volatileFireScale = 0.7

	// waveRingMargin pushes wave spawns beyond the spawn-view margin so
	// they never pop into an already-visible area.
	waveRingMargin = 200.0
)

// Init starts an act: resolves its configuration, fixes the world seed,
// and loads the first zone. A missing act configuration is a hard failure:
// it is logged, Init returns false, and no state is mutated.
func (s *Simulation) Init(actID string) bool {
	act, ok := s.acts[actID]
	if !ok {
		slog.Error("act configuration missing, cannot initialize", "act", actID)
		return false
	}

	s.act = act
	if act.WorldSeed != 0 {
		s.worldSeed = act.WorldSeed
	} else if s.worldSeed == 0 {
		s.worldSeed = s.rng.Uint32()
	}
	s.enemyKills = 0

	if err := s.LoadZone(0); err != nil {
		slog.Error("loading first zone", "act", actID, "error", err)
		return false
	}

	slog.Info("act initialized",
		"act", act.ID,
		"name", act.Name,
		"worldSeed", s.worldSeed,
		"zoneCount", act.ZoneCount)
	return true
}

// bossInterval resolves the boss cadence with the documented precedence:
// explicit exploration config, then the act's zone count, then the default.
func (s *Simulation) bossInterval() int {
	if s.cfg.BossInterval > 0 {
		return s.cfg.BossInterval
	}
	if s.act != nil && s.act.ZoneCount > 0 {
		return s.act.ZoneCount
	}
	return defaultBossInterval
}

// LoadZone transitions to the zone at index. The transition is atomic from
// the simulation's perspective: every transient collection is cleared
// before the new descriptor is installed, so no tick can observe entities
// from two zones.
func (s *Simulation) LoadZone(index uint32) error {
	// Clear transient collections first — nothing carries across zones.
	s.enemies = nil
	s.enemyByID = make(map[uint32]*model.Enemy)
	s.bullets = nil
	s.enemyBullets = nil
	s.pickups = nil
	s.particles = nil
	s.activePortal = nil

	depth := int(index) + 1
	zoneSeed := seed.Derive(s.worldSeed, index)
	mods := gen.SampleModifiers(zoneSeed, depth)
	params := gen.Params{Depth: depth, Modifiers: mods}

	var (
		z   *model.ZoneDescriptor
		err error
	)
	bossZone := depth%s.bossInterval() == 0
	if bossZone {
		z, err = s.gen.GenerateBoss(s.act, zoneSeed, params)
	} else {
		z, err = s.gen.Generate(s.act, zoneSeed, params)
	}
	if err != nil {
		return fmt.Errorf("generating zone at depth %d: %w", depth, err)
	}

	s.zoneIndex = index
	s.zone = z

	// Reset per-zone spawn tracking.
	s.enemiesSpawned = 0
	s.elitesSpawned = 0
	s.bossSpawned = false

	// Place the player at the descriptor's spawn, at rest, and snap the
	// camera so the first tick has no interpolation lag.
	s.player.Pos = z.PlayerSpawn
	s.player.Vel = model.Vec2{}
	s.camera.SnapTo(z.PlayerSpawn, s.viewW, s.viewH)

	scale := 1.0
	if mods.Has(model.ModSwiftEnemies) {
		scale = swiftSpeedScale
	}
	s.machine.SetSpeedScale(scale)

	slog.Info("zone loaded",
		"depth", depth,
		"zoneSeed", zoneSeed,
		"boss", bossZone,
		"enemySpawns", len(z.EnemySpawns),
		"eliteSpawns", len(z.EliteSpawns),
		"modifiers", mods.Names())
	return nil
}

// Update advances the simulation by dt seconds against the given viewport.
// Per-tick flow: fail-fast invariant check, spawn evaluation, behavior
// updates, projectile integration, despawn re-evaluation, exit/portal
// tests, then the population governor — in that order, every tick.
func (s *Simulation) Update(dt, viewW, viewH float64) {
	s.viewW, s.viewH = viewW, viewH

	// Fail fast on corrupted critical values: abort this tick's critical
	// path rather than integrating garbage. The next tick runs normally.
	if err := s.gov.CheckCritical(dt, s.player, s.stateSnapshot()); err != nil {
		return
	}
	if s.zone == nil {
		return
	}

	s.evaluateSpawns()

	for _, e := range s.enemies {
		s.machine.Update(e, s.player.Pos, dt)
	}

	s.bullets = advanceBullets(s.bullets, dt)
	s.enemyBullets = advanceBullets(s.enemyBullets, dt)
	s.particles = advanceParticles(s.particles, dt)
	s.pickups = expirePickups(s.pickups, dt)

	s.evaluateDespawns()

	// Exit proximity progresses immediately; portals require an explicit
	// interact action and only set the availability pointer here.
	if s.zone.Exit != nil && s.player.Pos.Dist(*s.zone.Exit) <= exitRadius {
		if err := s.LoadZone(s.zoneIndex + 1); err != nil {
			slog.Error("advancing to next zone", "error", err)
		}
		return
	}
	s.updatePortalProximity()

	s.gov.Enforce(s)
}

// inViewRect tests a point against the camera-target view rectangle
// expanded by margin. The interpolation target — not the rendered camera
// position — is deliberate: spawning must not lag behind a camera pan.
func (s *Simulation) inViewRect(p model.Vec2, margin float64) bool {
	tl := s.camera.Target
	return p.X >= tl.X-margin && p.X <= tl.X+s.viewW+margin &&
		p.Y >= tl.Y-margin && p.Y <= tl.Y+s.viewH+margin
}

// evaluateSpawns runs the spawn hysteresis test for every non-killed,
// inactive spawn point: enemies, elites, then the boss, independently.
func (s *Simulation) evaluateSpawns() {
	for _, sp := range s.zone.EnemySpawns {
		s.trySpawn(sp, false)
	}
	for _, sp := range s.zone.EliteSpawns {
		s.trySpawn(sp, false)
	}
	if s.zone.BossSpawn != nil {
		s.trySpawn(s.zone.BossSpawn, true)
	}
}

// trySpawn activates a spawn point when it enters the spawn margin.
// Activation is exactly-once per active lifetime: re-entry while active is
// a no-op, and killed points never spawn again.
func (s *Simulation) trySpawn(sp *model.SpawnPoint, boss bool) {
	if sp.Killed() || sp.Active() {
		return
	}

	margin := s.cfg.SpawnViewMargin
	if boss {
		margin *= bossSpawnMarginMult
	}
	// Radius fallback covers degenerate viewport sizes where the view
	// rectangle collapses.
	if !s.inViewRect(sp.Pos, margin) && sp.Pos.Dist(s.player.Pos) > s.cfg.SpawnRadius {
		return
	}

	id := s.ids.NextEnemyID()
	if !sp.Activate(id) {
		return
	}

	e := ai.NewEnemy(id, sp, sp.Archetype, sp.Rank, sp.Pos, s.player.Level, s.cfg.AggroRangeMult, s.rng)
	if s.zone.Modifiers.Has(model.ModVolatile) {
		e.ShootInterval *= volatileFireScale
	}
	s.addEnemy(e)

	switch sp.Rank {
	case model.RankElite:
		s.elitesSpawned++
	case model.RankBoss:
		s.bossSpawned = true
	default:
		s.enemiesSpawned++
	}

	logDebug("enemy spawned",
		"enemyID", id,
		"spawnPointID", sp.ID,
		"archetype", sp.Archetype.String(),
		"rank", sp.Rank.String(),
		"level", e.Level)
}

// evaluateDespawns applies the despawn hysteresis. An engaged enemy is
// coerced home first — it must visibly travel back rather than vanish
// mid-combat; actual removal waits until it is out of aggro and within its
// return threshold of home.
func (s *Simulation) evaluateDespawns() {
	var remove []*model.Enemy

	checkPoint := func(sp *model.SpawnPoint) {
		if !sp.Active() {
			return
		}
		e, ok := s.enemyByID[sp.EnemyID()]
		if !ok {
			// Enemy vanished before the point was notified; fall back to
			// an immediate release rather than propagating a fault.
			sp.Release()
			return
		}
		if s.inViewRect(sp.Pos, s.cfg.DespawnViewMargin) &&
			sp.Pos.Dist(s.player.Pos) <= s.cfg.DespawnRadius {
			return
		}
		if e.State == model.StateAggro {
			e.State = model.StateReturn
			return
		}
		if e.Pos.Dist(e.Home) <= e.ReturnThreshold {
			remove = append(remove, e)
			sp.Release()
		}
	}

	for _, sp := range s.zone.EnemySpawns {
		checkPoint(sp)
	}
	for _, sp := range s.zone.EliteSpawns {
		checkPoint(sp)
	}
	if s.zone.BossSpawn != nil {
		checkPoint(s.zone.BossSpawn)
	}

	// Wave enemies have no spawn point; distance alone governs them.
	for _, e := range s.enemies {
		if e.SpawnPointID != 0 {
			continue
		}
		if e.Pos.Dist(s.player.Pos) <= s.cfg.DespawnRadius {
			continue
		}
		if e.State == model.StateAggro {
			e.State = model.StateReturn
			continue
		}
		if e.Pos.Dist(e.Home) <= e.ReturnThreshold {
			remove = append(remove, e)
		}
	}

	for _, e := range remove {
		s.removeEnemy(e.ID)
		logDebug("enemy despawned", "enemyID", e.ID, "state", e.State.String())
	}
}

// updatePortalProximity maintains the interaction-available pointer.
// Standing on a portal never teleports by itself.
func (s *Simulation) updatePortalProximity() {
	s.activePortal = nil
	for _, p := range s.zone.Portals {
		if s.player.Pos.Dist(p.Pos) <= s.cfg.PortalInteractRadius {
			s.activePortal = p
			return
		}
	}
}

// OnEnemyKilled handles a death reported by the damage system. The
// originating spawn point is terminally retired — killed points never
// respawn — and the corpse leaves a pickup and a particle burst behind.
func (s *Simulation) OnEnemyKilled(e *model.Enemy) {
	if sp := s.findSpawnPoint(e.SpawnPointID); sp != nil {
		sp.MarkKilled()
	}
	s.removeEnemy(e.ID)
	s.enemyKills++

	s.pickups = append(s.pickups, &Pickup{
		ID:  s.ids.NextPickupID(),
		Pos: e.Pos,
		TTL: pickupTTL,
	})
	s.particles = append(s.particles, burstParticles(s.ids, s.rng, e.Pos, deathParticleCount)...)

	if e.Rank == model.RankBoss {
		s.onBossKilled(e)
	}
}

// onBossKilled records the kill statistic and opens the victory portal at
// the zone center, offering both progression and a hub return.
func (s *Simulation) onBossKilled(e *model.Enemy) {
	depth := s.zone.Depth
	s.diag.RecordBossKill(depth)

	portal := &model.Portal{
		Pos:      s.zone.Center(),
		Dest:     model.DestNext,
		AllowHub: true,
	}
	s.zone.Portals = append(s.zone.Portals, portal)

	slog.Info("boss defeated, victory portal opened",
		"depth", depth,
		"archetype", e.Archetype.String(),
		"portal", portal.Pos)
}

// InteractPortal consumes the available portal, if any. preferHub selects
// the hub-return branch on portals that allow it (the held-modifier
// interaction); otherwise the portal's own destination applies.
func (s *Simulation) InteractPortal(preferHub bool) bool {
	p := s.activePortal
	if p == nil {
		return false
	}
	if preferHub && p.AllowHub {
		s.returnToHub()
		return true
	}
	s.UsePortal(p)
	return true
}

// UsePortal resolves a portal destination: "next" advances one zone, "hub"
// delegates to the hub-return collaborator, and anything else is an act
// identifier that re-initializes the world from scratch.
func (s *Simulation) UsePortal(p *model.Portal) {
	switch p.Dest {
	case model.DestNext:
		if err := s.LoadZone(s.zoneIndex + 1); err != nil {
			slog.Error("portal zone load", "error", err)
		}
	case model.DestHub:
		s.returnToHub()
	default:
		s.worldSeed = 0 // fresh seed for the new act
		if !s.Init(p.Dest) {
			slog.Error("portal destination act missing", "act", p.Dest)
		}
	}
}

func (s *Simulation) returnToHub() {
	if s.hubReturn == nil {
		slog.Warn("hub return requested but no collaborator installed")
		return
	}
	s.hubReturn()
}

// SpawnWave spawns n enemies with no originating spawn point, placed on a
// ring just outside the spawn-view margin so they never pop into view.
func (s *Simulation) SpawnWave(n int, arch model.Archetype) {
	radius := s.cfg.SpawnViewMargin + waveRingMargin
	for range n {
		pos := s.player.Pos.Add(randRing(s.rng, radius))
		e := ai.NewEnemy(s.ids.NextEnemyID(), nil, arch, model.RankBasic, pos,
			s.player.Level, s.cfg.AggroRangeMult, s.rng)
		s.addEnemy(e)
	}
	slog.Info("wave spawned", "count", n, "archetype", arch.String())
}
