package sim

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riftcore/internal/config"
	"riftcore/internal/gen"
	"riftcore/internal/model"
	"riftcore/internal/seed"
)

const (
	tickDt = 1.0 / 60.0
	viewW  = 1280.0
	viewH  = 720.0
)

// fixedGen produces a hand-built descriptor so tests control spawn layout
// exactly. Regular zones carry one basic spawn point near the player spawn
// and an exit on the far side; boss zones carry a single boss point and no
// exit.
type fixedGen struct{}

func (fixedGen) Generate(act *config.Act, zoneSeed uint32, p gen.Params) (*model.ZoneDescriptor, error) {
	exit := model.Vec2{X: 3000, Y: 1200}
	return &model.ZoneDescriptor{
		Width:       3200,
		Height:      2400,
		Depth:       p.Depth,
		Seed:        zoneSeed,
		PlayerSpawn: model.Vec2{X: 200, Y: 1200},
		EnemySpawns: []*model.SpawnPoint{
			{ID: 1, Pos: model.Vec2{X: 400, Y: 1200}, Archetype: model.ArchStalker, Rank: model.RankBasic},
		},
		Exit:      &exit,
		Modifiers: p.Modifiers,
	}, nil
}

func (fixedGen) GenerateBoss(act *config.Act, zoneSeed uint32, p gen.Params) (*model.ZoneDescriptor, error) {
	return &model.ZoneDescriptor{
		Width:       3200,
		Height:      2400,
		Depth:       p.Depth,
		Seed:        zoneSeed,
		PlayerSpawn: model.Vec2{X: 200, Y: 1200},
		BossSpawn: &model.SpawnPoint{
			ID: 99, Pos: model.Vec2{X: 2720, Y: 1200},
			Archetype: model.ArchRiftmaw, Rank: model.RankBoss,
		},
		Modifiers: p.Modifiers,
	}, nil
}

func testActs() map[string]*config.Act {
	return map[string]*config.Act{
		"test": {ID: "test", Name: "Test", ZoneCount: 10, WorldSeed: 4242},
	}
}

func newTestSim(t *testing.T, mutate func(cfg *config.Exploration)) *Simulation {
	t.Helper()
	cfg := config.DefaultExploration()
	if mutate != nil {
		mutate(&cfg)
	}
	s := New(&cfg, testActs(), fixedGen{}, NewDiagnostics(nil), rand.New(rand.NewPCG(1, 2)))
	require.True(t, s.Init("test"))
	return s
}

func TestInitMissingActFails(t *testing.T) {
	cfg := config.DefaultExploration()
	s := New(&cfg, testActs(), fixedGen{}, NewDiagnostics(nil), rand.New(rand.NewPCG(1, 2)))

	assert.False(t, s.Init("no-such-act"))
	assert.Nil(t, s.Zone())
}

func TestInitLoadsFirstZone(t *testing.T) {
	s := newTestSim(t, nil)

	z := s.Zone()
	require.NotNil(t, z)
	assert.Equal(t, 1, z.Depth)
	assert.Equal(t, uint32(0), s.ZoneIndex())
	assert.Equal(t, seed.Derive(4242, 0), z.Seed)
	assert.Equal(t, z.PlayerSpawn, s.Player().Pos)
	assert.Equal(t, model.Vec2{}, s.Player().Vel)
}

func TestSpawnActivatesExactlyOnce(t *testing.T) {
	s := newTestSim(t, nil)

	// Player spawn is 200 units from the spawn point, inside the radius
	// fallback; repeated ticks must not duplicate the enemy.
	for range 5 {
		s.Update(tickDt, viewW, viewH)
	}

	require.Len(t, s.Enemies(), 1)
	e := s.Enemies()[0]
	sp := s.Zone().EnemySpawns[0]
	assert.True(t, sp.Active())
	assert.Equal(t, e.ID, sp.EnemyID())
	assert.Equal(t, sp.ID, e.SpawnPointID)
	assert.Equal(t, model.ArchStalker, e.Archetype)
}

func TestDespawnReleasesPointAndAllowsRespawn(t *testing.T) {
	s := newTestSim(t, nil)

	s.Update(tickDt, viewW, viewH)
	require.Len(t, s.Enemies(), 1)
	firstID := s.Enemies()[0].ID

	// Teleport the player far beyond the despawn radius and pan the camera
	// with it. The enemy is near home, so removal is immediate once it
	// drops out of aggro.
	s.Player().Pos = model.Vec2{X: 5000, Y: 5000}
	s.Camera().SnapTo(s.Player().Pos, viewW, viewH)
	for range 5 {
		s.Update(tickDt, viewW, viewH)
	}

	sp := s.Zone().EnemySpawns[0]
	assert.Empty(t, s.Enemies())
	assert.False(t, sp.Active())
	assert.False(t, sp.Killed())

	// Coming back re-activates the same point with a fresh enemy.
	s.Player().Pos = model.Vec2{X: 200, Y: 1200}
	s.Camera().SnapTo(s.Player().Pos, viewW, viewH)
	s.Update(tickDt, viewW, viewH)

	require.Len(t, s.Enemies(), 1)
	assert.True(t, sp.Active())
	assert.NotEqual(t, firstID, s.Enemies()[0].ID)
}

func TestEngagedEnemyIsNeverRemoved(t *testing.T) {
	// A huge aggro multiplier keeps the enemy engaged far beyond the
	// despawn radius. It must be steered home, never deleted mid-combat.
	s := newTestSim(t, func(cfg *config.Exploration) {
		cfg.AggroRangeMult = 100
	})

	s.Update(tickDt, viewW, viewH)
	require.Len(t, s.Enemies(), 1)

	s.Player().Pos = model.Vec2{X: 5000, Y: 5000}
	s.Camera().SnapTo(s.Player().Pos, viewW, viewH)
	for range 20 {
		s.Update(tickDt, viewW, viewH)
		require.Len(t, s.Enemies(), 1)
	}
}

func TestKilledSpawnPointNeverRespawns(t *testing.T) {
	s := newTestSim(t, nil)

	s.Update(tickDt, viewW, viewH)
	require.Len(t, s.Enemies(), 1)
	e := s.Enemies()[0]

	s.ApplyDamage(e.ID, e.MaxHP+1)

	sp := s.Zone().EnemySpawns[0]
	assert.Empty(t, s.Enemies())
	assert.True(t, sp.Killed())
	assert.Equal(t, 1, s.EnemyKills())

	// Loot and burst accompany the death.
	_, _, _, pickups, particles := s.Counts()
	assert.Equal(t, 1, pickups)
	assert.Equal(t, deathParticleCount, particles)

	for range 10 {
		s.Update(tickDt, viewW, viewH)
	}
	assert.Empty(t, s.Enemies())
}

func TestExitAdvancesAndClearsCollections(t *testing.T) {
	s := newTestSim(t, nil)

	s.Update(tickDt, viewW, viewH)
	s.AddPlayerBullet(s.Player().Pos, model.Vec2{X: 100}, 10)
	require.Len(t, s.Enemies(), 1)

	s.Player().Pos = *s.Zone().Exit
	s.Update(tickDt, viewW, viewH)

	assert.Equal(t, uint32(1), s.ZoneIndex())
	assert.Equal(t, 2, s.Zone().Depth)
	assert.Equal(t, seed.Derive(4242, 1), s.Zone().Seed)
	assert.Equal(t, s.Zone().PlayerSpawn, s.Player().Pos)

	bullets, enemyBullets, enemies, pickups, particles := s.Counts()
	assert.Zero(t, bullets)
	assert.Zero(t, enemyBullets)
	assert.Zero(t, enemies)
	assert.Zero(t, pickups)
	assert.Zero(t, particles)
}

func TestBossKillOpensVictoryPortal(t *testing.T) {
	s := newTestSim(t, func(cfg *config.Exploration) {
		cfg.BossInterval = 1 // every depth is a boss zone
	})

	z := s.Zone()
	require.NotNil(t, z.BossSpawn)
	assert.Nil(t, z.Exit)

	s.Player().Pos = z.BossSpawn.Pos
	s.Camera().SnapTo(s.Player().Pos, viewW, viewH)
	s.Update(tickDt, viewW, viewH)
	require.Len(t, s.Enemies(), 1)
	boss := s.Enemies()[0]
	require.Equal(t, model.RankBoss, boss.Rank)

	s.ApplyDamage(boss.ID, boss.MaxHP+1)

	require.Len(t, z.Portals, 1)
	p := z.Portals[0]
	assert.Equal(t, z.Center(), p.Pos)
	assert.Equal(t, model.DestNext, p.Dest)
	assert.True(t, p.AllowHub)
	assert.True(t, z.BossSpawn.Killed())
}

func TestPortalRequiresExplicitInteract(t *testing.T) {
	s := newTestSim(t, nil)

	s.Zone().Portals = append(s.Zone().Portals, &model.Portal{
		Pos:  s.Player().Pos,
		Dest: model.DestNext,
	})

	// Standing on the portal only flags availability.
	s.Update(tickDt, viewW, viewH)
	require.NotNil(t, s.ActivePortal())
	assert.Equal(t, uint32(0), s.ZoneIndex())

	require.True(t, s.InteractPortal(false))
	assert.Equal(t, uint32(1), s.ZoneIndex())
}

func TestPortalHubBranch(t *testing.T) {
	s := newTestSim(t, nil)
	hubCalls := 0
	s.SetHubReturn(func() { hubCalls++ })

	s.Zone().Portals = append(s.Zone().Portals, &model.Portal{
		Pos:      s.Player().Pos,
		Dest:     model.DestNext,
		AllowHub: true,
	})
	s.Update(tickDt, viewW, viewH)
	require.NotNil(t, s.ActivePortal())

	// preferHub takes the hub branch on a portal that allows it, without
	// consuming zone progression.
	require.True(t, s.InteractPortal(true))
	assert.Equal(t, 1, hubCalls)
	assert.Equal(t, uint32(0), s.ZoneIndex())
}

func TestInteractWithoutPortal(t *testing.T) {
	s := newTestSim(t, nil)
	assert.False(t, s.InteractPortal(false))
}

func TestSpawnWavePlacesRingOutsideView(t *testing.T) {
	s := newTestSim(t, nil)

	s.SpawnWave(4, model.ArchSkirmisher)

	require.Len(t, s.Enemies(), 4)
	wantDist := s.cfg.SpawnViewMargin + waveRingMargin
	for _, e := range s.Enemies() {
		assert.Equal(t, uint32(0), e.SpawnPointID)
		assert.InDelta(t, wantDist, e.Pos.Dist(s.Player().Pos), 1e-6)
	}
}

func TestNonFiniteValueAbortsTick(t *testing.T) {
	s := newTestSim(t, nil)

	s.Player().Pos.X = math.NaN()
	s.Update(tickDt, viewW, viewH)

	// No spawn happened: the tick aborted before any mutation.
	assert.Empty(t, s.Enemies())
	dump := s.diag.LastDump()
	require.NotNil(t, dump)
	assert.Equal(t, "player.pos.x", dump.Field)

	// The next tick with finite values proceeds normally.
	s.Player().Pos.X = 200
	s.Update(tickDt, viewW, viewH)
	assert.Len(t, s.Enemies(), 1)
}

func TestSwiftModifierAppliesSpeedScale(t *testing.T) {
	s := newTestSim(t, nil)

	// Force the modifier onto the loaded zone and reload the machine scale
	// the way LoadZone would.
	s.zone.Modifiers = s.zone.Modifiers.With(model.ModSwiftEnemies)
	s.machine.SetSpeedScale(swiftSpeedScale)

	s.Update(tickDt, viewW, viewH)
	require.Len(t, s.Enemies(), 1)
	e := s.Enemies()[0]
	require.Equal(t, model.StateAggro, e.State)
	// Chase speed carries the swift multiplier.
	assert.Greater(t, e.Vel.Len(), e.BaseSpeed)
}
